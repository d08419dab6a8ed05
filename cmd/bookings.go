// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"tripdesk/cli/internal/backend"
	apperr "tripdesk/cli/internal/errors"
	"tripdesk/cli/internal/model"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	bookingsAll      bool
	bookingsAgency   bool
	bookingsUpcoming bool
	bookingsStatus   string

	newBooking model.NewBooking
	bookingOut string

	disputeAccept  bool
	disputeMessage string
)

var bookingsCmd = &cobra.Command{
	Use:         "bookings",
	Aliases:     []string{"booking"},
	Short:       "Create and manage bookings",
	Annotations: authenticated(),
}

var bookingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your bookings",
	Long: `List bookings. By default shows the bookings you made; --agency shows the
bookings made on your agency's services and --all lists every booking (admin).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := mustApp()
		fetch := a.api.MyBookings
		switch {
		case bookingsAll:
			fetch = a.api.AllBookings
		case bookingsAgency:
			fetch = a.api.AgencyBookings
		}
		list, err := withSpinner("Loading bookings", func() ([]model.Booking, error) {
			return fetch(cmd.Context())
		})
		if err != nil {
			return err
		}
		list = filterBookings(list, model.BookingStatus(bookingsStatus), bookingsUpcoming)
		if flagJSON {
			return printJSON(list)
		}
		if len(list) == 0 {
			pterm.Info.Println("No bookings found.")
			return nil
		}
		rows := make([][]string, 0, len(list))
		for _, b := range list {
			rows = append(rows, []string{
				b.ID.String(), serviceTitle(b), strconv.Itoa(b.NumberOfPeople),
				money(b.TotalAmount), statusLabel(b.Status), date(b.TravelDate),
			})
		}
		return renderTable([]string{"ID", "Service", "People", "Total", "Status", "Travel date"}, rows)
	},
}

func filterBookings(in []model.Booking, status model.BookingStatus, upcoming bool) []model.Booking {
	if status == "" && !upcoming {
		return in
	}
	out := in[:0:0]
	for _, b := range in {
		if status != "" && b.Status != status {
			continue
		}
		if upcoming && !b.Status.Active() {
			continue
		}
		out = append(out, b)
	}
	return out
}

func serviceTitle(b model.Booking) string {
	if b.Service != nil && b.Service.Title != "" {
		return b.Service.Title
	}
	return "service " + b.ServiceID.String()
}

func statusLabel(s model.BookingStatus) string {
	switch s {
	case model.BookingConfirmed, model.BookingCompleted:
		return pterm.Green(string(s))
	case model.BookingPending:
		return pterm.Yellow(string(s))
	case model.BookingCancelled, model.BookingRefunded:
		return pterm.Gray(string(s))
	default:
		return orDash(string(s))
	}
}

var bookingsShowCmd = &cobra.Command{
	Use:   "show <booking-id>",
	Short: "Show a booking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := mustApp().api.GetBooking(cmd.Context(), model.ID(args[0]))
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(b)
		}
		pterm.DefaultSection.Printfln("Booking %s", b.ID)
		pterm.Printfln("Service:      %s", serviceTitle(*b))
		pterm.Printfln("Status:       %s", statusLabel(b.Status))
		pterm.Printfln("People:       %d", b.NumberOfPeople)
		pterm.Printfln("Total:        %s", money(b.TotalAmount))
		pterm.Printfln("Booked on:    %s", date(b.BookingDate))
		pterm.Printfln("Travel date:  %s", date(b.TravelDate))
		if b.SpecialRequests != "" {
			pterm.Printfln("Requests:     %s", b.SpecialRequests)
		}
		return nil
	},
}

var bookingsCreateCmd = &cobra.Command{
	Use:     "create <service-id>",
	Short:   "Book a service",
	Example: "  tripdesk bookings create 42 --people 2 --requests 'window seat'",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := mustApp()
		in := newBooking
		in.ServiceID = model.ID(args[0])
		if in.TotalAmount == 0 && in.NumberOfPeople > 0 {
			svc, err := withSpinner("Pricing", func() (*model.Service, error) {
				return a.api.GetService(cmd.Context(), in.ServiceID)
			})
			if err != nil {
				return err
			}
			in.TotalAmount = svc.Price * float64(in.NumberOfPeople)
		}
		b, err := withSpinner("Booking", func() (*model.Booking, error) {
			return a.api.CreateBooking(cmd.Context(), in)
		})
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(b)
		}
		success("Booking %s created, status %s, total %s", b.ID, orDash(string(b.Status)), money(b.TotalAmount))
		return nil
	},
}

// bookingAction builds a command for a status transition on a booking.
func bookingAction(use, short, done string, act func(*backend.Client) func(context.Context, model.ID) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <booking-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn := act(mustApp().api)
			if err := run(short, func() error { return fn(cmd.Context(), model.ID(args[0])) }); err != nil {
				return err
			}
			success("Booking %s %s", args[0], done)
			return nil
		},
	}
}

var bookingsTicketCmd = &cobra.Command{
	Use:   "ticket <booking-id>",
	Short: "Show or download the e-ticket",
	Long: `Without --out, prints the e-ticket details. With --out, downloads the
e-ticket document and writes it to the given file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := mustApp()
		id := model.ID(args[0])
		if bookingOut != "" {
			return saveDocument(cmd.Context(), "e-ticket", bookingOut, func(ctx context.Context) ([]byte, error) {
				return a.api.DownloadETicket(ctx, id)
			})
		}
		ticket, err := a.api.GetETicket(cmd.Context(), id)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(ticket)
		}
		pterm.DefaultSection.Printfln("E-ticket for booking %s", id)
		rows := make([][]string, 0, len(ticket))
		for k, v := range ticket {
			rows = append(rows, []string{k, fmt.Sprint(v)})
		}
		return renderTable([]string{"Field", "Value"}, rows)
	},
}

var bookingsInvoiceCmd = &cobra.Command{
	Use:   "invoice <booking-id>",
	Short: "Download the invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := bookingOut
		if out == "" {
			out = fmt.Sprintf("invoice-%s.pdf", args[0])
		}
		return saveDocument(cmd.Context(), "invoice", out, func(ctx context.Context) ([]byte, error) {
			return mustApp().api.DownloadInvoice(ctx, model.ID(args[0]))
		})
	},
}

func saveDocument(ctx context.Context, what, path string, fetch func(context.Context) ([]byte, error)) error {
	data, err := withSpinner("Downloading "+what, func() ([]byte, error) { return fetch(ctx) })
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperr.Wrap(apperr.KindStorage, "write "+what, err)
	}
	success("Saved %s to %s (%d bytes)", what, path, len(data))
	return nil
}

var bookingsDisputeCmd = &cobra.Command{
	Use:   "dispute",
	Short: "Handle refund disputes",
}

var bookingsDisputeRespondCmd = &cobra.Command{
	Use:   "respond <dispute-id>",
	Short: "Answer a refund dispute as the agency",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := backend.DisputeResponse{Accept: disputeAccept, Message: disputeMessage}
		if err := mustApp().api.RespondRefundDispute(cmd.Context(), model.ID(args[0]), in); err != nil {
			return err
		}
		success("Response sent for dispute %s", args[0])
		return nil
	},
}

var bookingsDisputeVerdictCmd = &cobra.Command{
	Use:   "verdict <dispute-id>",
	Short: "Decide a refund dispute",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := backend.DisputeVerdict{Approve: disputeAccept, Reason: disputeMessage}
		if err := mustApp().api.VerdictRefundDispute(cmd.Context(), model.ID(args[0]), in); err != nil {
			return err
		}
		outcome := "rejected"
		if in.Approve {
			outcome = "approved"
		}
		success("Dispute %s %s", args[0], outcome)
		return nil
	},
}

func init() {
	lf := bookingsListCmd.Flags()
	lf.BoolVar(&bookingsAll, "all", false, "List every booking")
	lf.BoolVar(&bookingsAgency, "agency", false, "List bookings on your agency's services")
	lf.BoolVar(&bookingsUpcoming, "upcoming", false, "Only pending and confirmed bookings")
	lf.StringVar(&bookingsStatus, "status", "", "Only bookings with this status")
	bookingsListCmd.MarkFlagsMutuallyExclusive("all", "agency")

	cf := bookingsCreateCmd.Flags()
	cf.IntVarP(&newBooking.NumberOfPeople, "people", "n", 1, "Number of travellers")
	cf.StringVar(&newBooking.SpecialRequests, "requests", "", "Special requests")
	cf.Float64Var(&newBooking.TotalAmount, "total", 0, "Total amount (default: price × people)")

	bookingsTicketCmd.Flags().StringVarP(&bookingOut, "out", "o", "", "Write the e-ticket document to this file")
	bookingsInvoiceCmd.Flags().StringVarP(&bookingOut, "out", "o", "", "Write the invoice to this file")

	bookingsDisputeRespondCmd.Flags().BoolVar(&disputeAccept, "accept", false, "Accept the refund request")
	bookingsDisputeRespondCmd.Flags().StringVar(&disputeMessage, "message", "", "Message to the customer")
	bookingsDisputeVerdictCmd.Flags().BoolVar(&disputeAccept, "approve", false, "Approve the refund")
	bookingsDisputeVerdictCmd.Flags().StringVar(&disputeMessage, "reason", "", "Reason for the decision")
	bookingsDisputeCmd.AddCommand(bookingsDisputeRespondCmd, bookingsDisputeVerdictCmd)

	bookingsCmd.AddCommand(
		bookingsListCmd,
		bookingsShowCmd,
		bookingsCreateCmd,
		bookingAction("cancel", "Cancel a booking", "cancelled", func(c *backend.Client) func(context.Context, model.ID) error { return c.CancelBooking }),
		bookingAction("confirm", "Confirm a booking", "confirmed", func(c *backend.Client) func(context.Context, model.ID) error { return c.ConfirmBooking }),
		bookingAction("complete", "Mark a booking completed", "completed", func(c *backend.Client) func(context.Context, model.ID) error { return c.CompleteBooking }),
		bookingAction("refund", "Request a refund", "refund requested", func(c *backend.Client) func(context.Context, model.ID) error { return c.RefundBooking }),
		bookingsTicketCmd,
		bookingsInvoiceCmd,
		bookingsDisputeCmd,
	)
	rootCmd.AddCommand(bookingsCmd)
}
