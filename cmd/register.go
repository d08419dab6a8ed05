// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"
	"strings"

	"tripdesk/cli/internal/backend"
	apperr "tripdesk/cli/internal/errors"
	"tripdesk/cli/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	registerUsername      string
	registerEmail         string
	registerPasswordStdin bool
)

// registerCmd creates an account. It does not sign in.
var registerCmd = &cobra.Command{
	Use:         "register",
	Aliases:     []string{"signup"},
	Short:       "Create a new customer account",
	Annotations: guestOnly(),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := mustApp()
		lines := &terminal.Prompter{}
		pw := &terminal.Prompter{}
		if registerPasswordStdin {
			pw.In = os.Stdin
		}

		username, email := strings.TrimSpace(registerUsername), strings.TrimSpace(registerEmail)
		var err error
		if username == "" && !registerPasswordStdin {
			if username, err = lines.Line("Username: "); err != nil {
				return err
			}
		}
		if email == "" && !registerPasswordStdin {
			if email, err = lines.Line("Email: "); err != nil {
				return err
			}
		}
		password, err := readPassword(pw, "Password: ")
		if err != nil {
			return err
		}
		if !registerPasswordStdin {
			confirm, err := readPassword(pw, "Confirm password: ")
			if err != nil {
				return err
			}
			if confirm != password {
				return apperr.New(apperr.KindValidation, "passwords do not match")
			}
		}

		res, _ := withSpinner("Creating account", func() (backend.Result, error) {
			return a.provider.Register(cmd.Context(), username, email, password), nil
		})
		if !res.Success {
			return authFailure(res)
		}
		if flagJSON {
			return printJSON(res.Data)
		}
		pterm.Success.Println("Account created.")
		pterm.Println("   Run 'tripdesk login' to sign in.")
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "Username")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "Account email")
	registerCmd.Flags().BoolVar(&registerPasswordStdin, "password-stdin", false, "Read the password from stdin")
	rootCmd.AddCommand(registerCmd)
}
