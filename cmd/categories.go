// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"tripdesk/cli/internal/backend"
	"tripdesk/cli/internal/model"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var categoryInput backend.CategoryInput

var categoriesCmd = &cobra.Command{
	Use:         "categories",
	Short:       "List and manage service categories",
	Annotations: authenticated(),
}

var categoriesListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List categories",
	Args:        cobra.NoArgs,
	Annotations: public(),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := mustApp()
		cats, err := withSpinner("Loading categories", func() ([]model.Category, error) {
			return a.api.Categories(cmd.Context())
		})
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cats)
		}
		if len(cats) == 0 {
			pterm.Info.Println("No categories yet.")
			return nil
		}
		rows := make([][]string, 0, len(cats))
		for _, c := range cats {
			rows = append(rows, []string{c.ID.String(), c.Name, orDash(clip(c.Description))})
		}
		return renderTable([]string{"ID", "Name", "Description"}, rows)
	},
}

var categoriesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := mustApp().api.CreateCategory(cmd.Context(), categoryInput)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(c)
		}
		success("Created category %s (%s)", c.Name, c.ID)
		return nil
	},
}

var categoriesUpdateCmd = &cobra.Command{
	Use:   "update <category-id>",
	Short: "Update a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := mustApp().api.UpdateCategory(cmd.Context(), model.ID(args[0]), categoryInput)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(c)
		}
		success("Updated category %s", c.ID)
		return nil
	},
}

var categoriesDeleteCmd = &cobra.Command{
	Use:   "delete <category-id>",
	Short: "Delete a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mustApp().api.DeleteCategory(cmd.Context(), model.ID(args[0])); err != nil {
			return err
		}
		success("Deleted category %s", args[0])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{categoriesCreateCmd, categoriesUpdateCmd} {
		c.Flags().StringVar(&categoryInput.Name, "name", "", "Category name")
		c.Flags().StringVar(&categoryInput.Description, "description", "", "Category description")
	}
	_ = categoriesCreateCmd.MarkFlagRequired("name")
	categoriesCmd.AddCommand(categoriesListCmd, categoriesCreateCmd, categoriesUpdateCmd, categoriesDeleteCmd)
	rootCmd.AddCommand(categoriesCmd)
}
