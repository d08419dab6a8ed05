// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"maps"
	"slices"
	"strings"

	"tripdesk/cli/internal/backend"
	"tripdesk/cli/internal/model"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var searchesCmd = &cobra.Command{
	Use:         "searches",
	Short:       "Save explorer filters for later",
	Annotations: authenticated(),
}

// searchesSaveCmd stores the same filters 'services list' accepts.
var searchesSaveCmd = &cobra.Command{
	Use:     "save <name>",
	Short:   "Save a set of explorer filters",
	Example: "  tripdesk searches save 'cheap lisbon' --location Lisbon --max-price 300",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filters := map[string]string{}
		for k, v := range searchQuery.Values() {
			filters[k] = strings.Join(v, ",")
		}
		s, err := mustApp().api.SaveSearch(cmd.Context(), backend.SavedSearchInput{Name: args[0], Filters: filters})
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(s)
		}
		success("Saved search %q (%s)", s.Name, s.ID)
		return nil
	},
}

var searchQuery backend.ServiceQuery

var searchesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved searches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := mustApp().api.SavedSearches(cmd.Context())
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(list)
		}
		if len(list) == 0 {
			pterm.Info.Println("No saved searches.")
			return nil
		}
		rows := make([][]string, 0, len(list))
		for _, s := range list {
			rows = append(rows, []string{s.ID.String(), s.Name, formatFilters(s.Filters)})
		}
		return renderTable([]string{"ID", "Name", "Filters"}, rows)
	},
}

func formatFilters(f map[string]string) string {
	if len(f) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(f))
	for _, k := range slices.Sorted(maps.Keys(f)) {
		parts = append(parts, k+"="+f[k])
	}
	return strings.Join(parts, " ")
}

var searchesDeleteCmd = &cobra.Command{
	Use:   "delete <search-id>",
	Short: "Delete a saved search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mustApp().api.DeleteSavedSearch(cmd.Context(), model.ID(args[0])); err != nil {
			return err
		}
		success("Deleted saved search %s", args[0])
		return nil
	},
}

func init() {
	f := searchesSaveCmd.Flags()
	f.Float64Var(&searchQuery.MinPrice, "min-price", 0, "Minimum price")
	f.Float64Var(&searchQuery.MaxPrice, "max-price", 0, "Maximum price")
	f.StringVar(&searchQuery.Location, "location", "", "Location contains")
	f.StringVar(&searchQuery.Duration, "duration", "", "Duration")
	f.StringVar((*string)(&searchQuery.CategoryID), "category", "", "Category ID")
	f.Float64Var(&searchQuery.MinRating, "min-rating", 0, "Minimum average rating")

	searchesCmd.AddCommand(searchesSaveCmd, searchesListCmd, searchesDeleteCmd)
	rootCmd.AddCommand(searchesCmd)
}
