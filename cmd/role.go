// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"tripdesk/cli/internal/backend"
	"tripdesk/cli/internal/model"
	"tripdesk/cli/internal/session"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var roleCmd = &cobra.Command{
	Use:         "role",
	Short:       "Switch between customer and agency accounts",
	Annotations: authenticated(),
}

// roleSwitchCmd toggles the account role and patches the stored profile so
// later commands see the new role without signing in again.
var roleSwitchCmd = &cobra.Command{
	Use:   "switch",
	Short: "Toggle between customer and agency",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := mustApp()
		res, err := withSpinner("Switching role", func() (*backend.RoleSwitch, error) {
			return a.api.SwitchRole(cmd.Context())
		})
		if err != nil {
			return err
		}
		if res.Token != "" {
			if err := a.store.SetToken(res.Token); err != nil {
				return err
			}
		}
		role, ok := res.NewRole()
		if !ok {
			role = toggled(a.provider.User().Role)
		}
		u, _, err := a.store.UpdateUser(session.UserPatch{Role: &role})
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(u)
		}
		success("You are now using Tripdesk as %s.", role)
		return nil
	},
}

func toggled(r model.Role) model.Role {
	if r == model.RoleAgency {
		return model.RoleCustomer
	}
	return model.RoleAgency
}

var agencyInput backend.AgencyInput

var agencyCmd = &cobra.Command{
	Use:         "agency",
	Short:       "Register or remove your travel agency",
	Annotations: authenticated(),
}

var agencyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register an agency",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ag, err := mustApp().api.CreateAgency(cmd.Context(), agencyInput)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(ag)
		}
		success("Agency %s registered (%s)", ag.Name, ag.ID)
		pterm.Println("   Run 'tripdesk role switch' to start publishing offers.")
		return nil
	},
}

var agencyDeleteCmd = &cobra.Command{
	Use:   "delete <agency-id>",
	Short: "Remove an agency",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mustApp().api.DeleteAgency(cmd.Context(), model.ID(args[0])); err != nil {
			return err
		}
		success("Agency %s removed", args[0])
		return nil
	},
}

func init() {
	f := agencyCreateCmd.Flags()
	f.StringVar(&agencyInput.Name, "name", "", "Agency name")
	f.StringVar(&agencyInput.Description, "description", "", "Short description")
	f.StringVar(&agencyInput.Email, "email", "", "Contact email")
	_ = agencyCreateCmd.MarkFlagRequired("name")

	roleCmd.AddCommand(roleSwitchCmd)
	agencyCmd.AddCommand(agencyCreateCmd, agencyDeleteCmd)
	rootCmd.AddCommand(roleCmd, agencyCmd)
}
