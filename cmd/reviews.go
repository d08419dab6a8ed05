// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strconv"

	"tripdesk/cli/internal/backend"
	"tripdesk/cli/internal/model"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var reviewInput backend.ReviewInput

var reviewsCmd = &cobra.Command{
	Use:         "reviews",
	Short:       "Read and write service reviews",
	Annotations: authenticated(),
}

var reviewsListCmd = &cobra.Command{
	Use:         "list <service-id>",
	Short:       "List reviews for a service",
	Args:        cobra.ExactArgs(1),
	Annotations: public(),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := mustApp().api.Reviews(cmd.Context(), model.ID(args[0]))
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(list)
		}
		if len(list) == 0 {
			pterm.Info.Println("No reviews yet.")
			return nil
		}
		rows := make([][]string, 0, len(list))
		for _, r := range list {
			rows = append(rows, []string{r.ID.String(), strconv.Itoa(r.Rating) + "★", orDash(r.Username), date(r.CreatedAt), clip(r.Comment)})
		}
		return renderTable([]string{"ID", "Rating", "By", "Date", "Comment"}, rows)
	},
}

var reviewsAddCmd = &cobra.Command{
	Use:     "add <service-id>",
	Short:   "Review a service",
	Example: "  tripdesk reviews add 42 --rating 5 --comment 'Great guide'",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := mustApp().api.AddReview(cmd.Context(), model.ID(args[0]), reviewInput)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(r)
		}
		success("Thanks! Review %s posted.", r.ID)
		return nil
	},
}

var reviewsUpdateCmd = &cobra.Command{
	Use:   "update <service-id> <review-id>",
	Short: "Edit one of your reviews",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := mustApp().api.UpdateReview(cmd.Context(), model.ID(args[0]), model.ID(args[1]), reviewInput)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(r)
		}
		success("Review %s updated.", r.ID)
		return nil
	},
}

var reviewsDeleteCmd = &cobra.Command{
	Use:   "delete <service-id> <review-id>",
	Short: "Delete one of your reviews",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mustApp().api.DeleteReview(cmd.Context(), model.ID(args[0]), model.ID(args[1])); err != nil {
			return err
		}
		success("Review %s deleted.", args[1])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{reviewsAddCmd, reviewsUpdateCmd} {
		c.Flags().IntVarP(&reviewInput.Rating, "rating", "r", 0, "Rating from 1 to 5")
		c.Flags().StringVarP(&reviewInput.Comment, "comment", "m", "", "Review text")
		_ = c.MarkFlagRequired("rating")
	}
	reviewsCmd.AddCommand(reviewsListCmd, reviewsAddCmd, reviewsUpdateCmd, reviewsDeleteCmd)
	rootCmd.AddCommand(reviewsCmd)
}
