// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strconv"

	"tripdesk/cli/internal/backend"
	"tripdesk/cli/internal/model"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serviceQuery backend.ServiceQuery

var servicesCmd = &cobra.Command{
	Use:         "services",
	Aliases:     []string{"explore"},
	Short:       "Browse travel services",
	Annotations: public(),
}

// servicesListCmd is the explorer: filters map onto query parameters and
// only the ones given are sent.
var servicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List services matching the given filters",
	Example: `  tripdesk services list --location Lisbon --max-price 500
  tripdesk services list --category 3 --sort-by price --sort-dir asc --page 2`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := mustApp()
		page, err := withSpinner("Loading services", func() (*model.ServicePage, error) {
			return a.api.FetchServices(cmd.Context(), serviceQuery)
		})
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(page)
		}
		if len(page.Services) == 0 {
			pterm.Info.Println("No services match these filters.")
			return nil
		}

		rows := make([][]string, 0, len(page.Services))
		for _, s := range page.Services {
			rows = append(rows, []string{
				s.ID.String(), s.Title, orDash(s.Location), orDash(s.Duration),
				money(s.Price), stars(s.AverageRating),
			})
		}
		if err := renderTable([]string{"ID", "Title", "Location", "Duration", "Price", "Rating"}, rows); err != nil {
			return err
		}
		pterm.Println(pageFooter(page))
		return nil
	},
}

func pageFooter(p *model.ServicePage) string {
	total := p.Total
	if total < len(p.Services) {
		total = len(p.Services)
	}
	if p.PageSize <= 0 {
		return pterm.Gray(fmt.Sprintf("%d services", total))
	}
	page := max(p.Page, 1)
	pages := max((total+p.PageSize-1)/p.PageSize, 1)
	return pterm.Gray(fmt.Sprintf("Page %d of %d · %d services", page, pages, total))
}

var serviceShowAvailability bool

// servicesShowCmd loads the service, its reviews and optionally its
// availability in parallel.
var servicesShowCmd = &cobra.Command{
	Use:   "show <service-id>",
	Short: "Show a service with its reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := mustApp()
		id := model.ID(args[0])

		var (
			svc     *model.Service
			reviews []model.Review
			slots   []model.Availability
		)
		err := run("Loading service", func() error {
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				svc, err = a.api.GetService(ctx, id)
				return err
			})
			g.Go(func() error {
				var err error
				reviews, err = a.api.Reviews(ctx, id)
				return err
			})
			if serviceShowAvailability {
				g.Go(func() error {
					var err error
					slots, err = a.api.Availability(ctx, id)
					return err
				})
			}
			return g.Wait()
		})
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(struct {
				Service      *model.Service       `json:"service"`
				Reviews      []model.Review       `json:"reviews"`
				Availability []model.Availability `json:"availability,omitempty"`
			}{svc, reviews, slots})
		}

		pterm.DefaultSection.Println(svc.Title)
		pterm.Printfln("Price:     %s", money(svc.Price))
		pterm.Printfln("Location:  %s", orDash(svc.Location))
		pterm.Printfln("Duration:  %s", orDash(svc.Duration))
		pterm.Printfln("Agency:    %s", orDash(svc.AgencyName))
		pterm.Printfln("Rating:    %s (%d reviews)", stars(svc.AverageRating), len(reviews))
		if svc.Description != "" {
			pterm.Println()
			pterm.Println(svc.Description)
		}
		for _, m := range svc.Media {
			marker := ""
			if m.IsFeatured {
				marker = " ★"
			}
			pterm.Printfln("  🖼  %s%s", m.URL, marker)
		}

		if len(reviews) > 0 {
			pterm.DefaultSection.WithLevel(2).Println("Reviews")
			for _, r := range reviews {
				pterm.Printfln("%s  %s  %s", pterm.Yellow(strconv.Itoa(r.Rating)+"★"), orDash(r.Username), date(r.CreatedAt))
				if r.Comment != "" {
					pterm.Println("   " + r.Comment)
				}
			}
		}
		if serviceShowAvailability {
			pterm.DefaultSection.WithLevel(2).Println("Availability")
			return renderAvailability(slots)
		}
		return nil
	},
}

func renderAvailability(slots []model.Availability) error {
	if len(slots) == 0 {
		pterm.Info.Println("No availability published.")
		return nil
	}
	rows := make([][]string, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, []string{s.ID.String(), date(s.StartDate), date(s.EndDate), strconv.Itoa(s.Capacity)})
	}
	return renderTable([]string{"ID", "From", "To", "Capacity"}, rows)
}

func init() {
	f := servicesListCmd.Flags()
	f.Float64Var(&serviceQuery.MinPrice, "min-price", 0, "Minimum price")
	f.Float64Var(&serviceQuery.MaxPrice, "max-price", 0, "Maximum price")
	f.StringVar(&serviceQuery.Location, "location", "", "Location contains")
	f.StringVar(&serviceQuery.Duration, "duration", "", "Duration")
	f.StringVar((*string)(&serviceQuery.AgencyID), "agency", "", "Agency ID")
	f.StringVar((*string)(&serviceQuery.CategoryID), "category", "", "Category ID")
	f.Float64Var(&serviceQuery.MinRating, "min-rating", 0, "Minimum average rating")
	f.StringVar(&serviceQuery.SortBy, "sort-by", "", "Sort field (price, rating, createdAt)")
	f.StringVar(&serviceQuery.SortDir, "sort-dir", "", "Sort direction (asc, desc)")
	f.IntVar(&serviceQuery.Page, "page", 0, "Page number")
	f.IntVar(&serviceQuery.PageSize, "page-size", 0, "Results per page")

	servicesShowCmd.Flags().BoolVar(&serviceShowAvailability, "availability", false, "Also list availability slots")

	servicesCmd.AddCommand(servicesListCmd, servicesShowCmd)
	rootCmd.AddCommand(servicesCmd)
}
