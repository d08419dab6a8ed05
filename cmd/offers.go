// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"
	"path/filepath"

	"tripdesk/cli/internal/backend"
	apperr "tripdesk/cli/internal/errors"
	"tripdesk/cli/internal/model"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	serviceInput      backend.ServiceInput
	mediaInput        backend.MediaInput
	availabilityInput backend.AvailabilityInput
)

// offersCmd groups the agency dashboard: the services an agency publishes,
// their media and their availability.
var offersCmd = &cobra.Command{
	Use:         "offers",
	Aliases:     []string{"offer"},
	Short:       "Manage the services your agency publishes",
	Annotations: authenticated(),
}

var offersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your agency's services",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := mustApp()
		list, err := withSpinner("Loading offers", func() ([]model.Service, error) {
			return a.api.MyServices(cmd.Context())
		})
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(list)
		}
		if len(list) == 0 {
			pterm.Info.Println("You have not published any services yet.")
			return nil
		}
		rows := make([][]string, 0, len(list))
		for _, s := range list {
			rows = append(rows, []string{s.ID.String(), s.Title, money(s.Price), orDash(s.Location), stars(s.AverageRating), date(s.CreatedAt)})
		}
		return renderTable([]string{"ID", "Title", "Price", "Location", "Rating", "Created"}, rows)
	},
}

var offersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a new service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := mustApp().api.CreateService(cmd.Context(), serviceInput)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(s)
		}
		success("Published %q as service %s", s.Title, s.ID)
		return nil
	},
}

var offersUpdateCmd = &cobra.Command{
	Use:   "update <service-id>",
	Short: "Update a service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := mustApp().api.UpdateService(cmd.Context(), model.ID(args[0]), serviceInput)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(s)
		}
		success("Updated service %s", s.ID)
		return nil
	},
}

var offersDeleteCmd = &cobra.Command{
	Use:   "delete <service-id>",
	Short: "Delete a service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mustApp().api.DeleteService(cmd.Context(), model.ID(args[0])); err != nil {
			return err
		}
		success("Deleted service %s", args[0])
		return nil
	},
}

var offersMediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Manage photos and videos of a service",
}

var mediaFile string

// offersMediaAddCmd links a hosted URL, or uploads a local file with --file.
var offersMediaAddCmd = &cobra.Command{
	Use:     "add <service-id>",
	Short:   "Attach media to a service",
	Example: "  tripdesk offers media add 42 --file beach.jpg --featured\n  tripdesk offers media add 42 --url https://cdn.example.com/a.jpg",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := mustApp()
		id := model.ID(args[0])

		var (
			m   *model.Media
			err error
		)
		switch {
		case mediaFile != "":
			f, ferr := os.Open(mediaFile)
			if ferr != nil {
				return apperr.Wrap(apperr.KindValidation, "open media file", ferr)
			}
			defer f.Close()
			m, err = withSpinner("Uploading "+filepath.Base(mediaFile), func() (*model.Media, error) {
				return a.api.UploadMedia(cmd.Context(), id, backend.Upload{
					Filename:   filepath.Base(mediaFile),
					Content:    f,
					MediaType:  mediaInput.MediaType,
					Caption:    mediaInput.Caption,
					IsFeatured: mediaInput.IsFeatured,
				})
			})
		case mediaInput.URL != "":
			m, err = a.api.AddMedia(cmd.Context(), id, mediaInput)
		default:
			return apperr.New(apperr.KindValidation, "one of --file or --url is required")
		}
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(m)
		}
		success("Added media %s to service %s", m.ID, id)
		return nil
	},
}

var offersMediaUpdateCmd = &cobra.Command{
	Use:   "update <service-id> <media-id>",
	Short: "Edit media details",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := mustApp().api.UpdateMedia(cmd.Context(), model.ID(args[0]), model.ID(args[1]), mediaInput)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(m)
		}
		success("Updated media %s", m.ID)
		return nil
	},
}

var offersMediaDeleteCmd = &cobra.Command{
	Use:   "delete <service-id> <media-id>",
	Short: "Remove media from a service",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mustApp().api.DeleteMedia(cmd.Context(), model.ID(args[0]), model.ID(args[1])); err != nil {
			return err
		}
		success("Removed media %s", args[1])
		return nil
	},
}

var offersMediaFeatureCmd = &cobra.Command{
	Use:   "feature <service-id> <media-id>",
	Short: "Make media the featured image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mustApp().api.FeatureMedia(cmd.Context(), model.ID(args[0]), model.ID(args[1])); err != nil {
			return err
		}
		success("Media %s is now featured", args[1])
		return nil
	},
}

var offersAvailabilityCmd = &cobra.Command{
	Use:     "availability",
	Aliases: []string{"slots"},
	Short:   "Manage availability slots of a service",
}

var offersAvailabilityListCmd = &cobra.Command{
	Use:   "list <service-id>",
	Short: "List availability slots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slots, err := mustApp().api.Availability(cmd.Context(), model.ID(args[0]))
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(slots)
		}
		return renderAvailability(slots)
	},
}

var offersAvailabilityAddCmd = &cobra.Command{
	Use:     "add <service-id>",
	Short:   "Add an availability slot",
	Example: "  tripdesk offers availability add 42 --from 2026-06-01 --to 2026-06-07 --capacity 12",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := mustApp().api.CreateAvailability(cmd.Context(), model.ID(args[0]), availabilityInput)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(s)
		}
		success("Added slot %s (%s to %s)", s.ID, date(s.StartDate), date(s.EndDate))
		return nil
	},
}

var offersAvailabilityUpdateCmd = &cobra.Command{
	Use:   "update <service-id> <slot-id>",
	Short: "Change an availability slot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := mustApp().api.UpdateAvailability(cmd.Context(), model.ID(args[0]), model.ID(args[1]), availabilityInput)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(s)
		}
		success("Updated slot %s", s.ID)
		return nil
	},
}

var offersAvailabilityDeleteCmd = &cobra.Command{
	Use:   "delete <service-id> <slot-id>",
	Short: "Delete an availability slot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mustApp().api.DeleteAvailability(cmd.Context(), model.ID(args[0]), model.ID(args[1])); err != nil {
			return err
		}
		success("Deleted slot %s", args[1])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{offersCreateCmd, offersUpdateCmd} {
		f := c.Flags()
		f.StringVar(&serviceInput.Title, "title", "", "Service title")
		f.StringVar(&serviceInput.Description, "description", "", "Description")
		f.Float64Var(&serviceInput.Price, "price", 0, "Price per person")
		f.StringVar(&serviceInput.Location, "location", "", "Location")
		f.StringVar(&serviceInput.Duration, "duration", "", "Duration, e.g. '3 days'")
		f.StringVar((*string)(&serviceInput.CategoryID), "category", "", "Category ID")
	}
	_ = offersCreateCmd.MarkFlagRequired("title")
	_ = offersCreateCmd.MarkFlagRequired("price")

	for _, c := range []*cobra.Command{offersMediaAddCmd, offersMediaUpdateCmd} {
		f := c.Flags()
		f.StringVar(&mediaInput.URL, "url", "", "URL of hosted media")
		f.StringVar(&mediaInput.Caption, "caption", "", "Caption")
		f.StringVar(&mediaInput.MediaType, "type", "", "Media type (image or video)")
		f.BoolVar(&mediaInput.IsFeatured, "featured", false, "Feature this media")
	}
	offersMediaAddCmd.Flags().StringVarP(&mediaFile, "file", "f", "", "Upload a local file")
	offersMediaAddCmd.MarkFlagsMutuallyExclusive("file", "url")

	for _, c := range []*cobra.Command{offersAvailabilityAddCmd, offersAvailabilityUpdateCmd} {
		f := c.Flags()
		f.StringVar(&availabilityInput.StartDate, "from", "", "First day (YYYY-MM-DD)")
		f.StringVar(&availabilityInput.EndDate, "to", "", "Last day (YYYY-MM-DD)")
		f.IntVar(&availabilityInput.Capacity, "capacity", 0, "Places available")
	}
	_ = offersAvailabilityAddCmd.MarkFlagRequired("from")
	_ = offersAvailabilityAddCmd.MarkFlagRequired("to")

	offersMediaCmd.AddCommand(offersMediaAddCmd, offersMediaUpdateCmd, offersMediaDeleteCmd, offersMediaFeatureCmd)
	offersAvailabilityCmd.AddCommand(offersAvailabilityListCmd, offersAvailabilityAddCmd, offersAvailabilityUpdateCmd, offersAvailabilityDeleteCmd)
	offersCmd.AddCommand(offersListCmd, offersCreateCmd, offersUpdateCmd, offersDeleteCmd, offersMediaCmd, offersAvailabilityCmd)
	rootCmd.AddCommand(offersCmd)
}
