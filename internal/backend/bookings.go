// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"

	apperr "tripdesk/cli/internal/errors"
	"tripdesk/cli/internal/model"
)

// ETicket is the JSON e-ticket of a booking. Its layout belongs to the server,
// so it is kept as a generic (casing-normalized) document.
type ETicket map[string]any

// DisputeResponse is an agency's answer to a refund request.
type DisputeResponse struct {
	Accept  bool   `json:"accept"`
	Message string `json:"message,omitempty"`
}

// DisputeVerdict is the final decision on a refund dispute.
type DisputeVerdict struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason,omitempty"`
}

func (c *Client) listBookings(ctx context.Context, path string) ([]model.Booking, error) {
	data, err := c.send(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	var out []model.Booking
	if err := decodeEnvelope(data, "bookings", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyBookings calls GET /bookings/my.
func (c *Client) MyBookings(ctx context.Context) ([]model.Booking, error) {
	return c.listBookings(ctx, "/bookings/my")
}

// AllBookings calls GET /bookings/all.
func (c *Client) AllBookings(ctx context.Context) ([]model.Booking, error) {
	return c.listBookings(ctx, "/bookings/all")
}

// AgencyBookings calls GET /bookings/agency.
func (c *Client) AgencyBookings(ctx context.Context) ([]model.Booking, error) {
	return c.listBookings(ctx, "/bookings/agency")
}

// GetBooking calls GET /bookings/{id}.
func (c *Client) GetBooking(ctx context.Context, id model.ID) (*model.Booking, error) {
	s, err := seg(id)
	if err != nil {
		return nil, err
	}
	data, err := c.send(ctx, http.MethodGet, "/bookings/"+s, nil, nil)
	if err != nil {
		return nil, err
	}
	var out model.Booking
	if err := decodeEnvelope(data, "booking", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBooking calls POST /bookings.
func (c *Client) CreateBooking(ctx context.Context, in model.NewBooking) (*model.Booking, error) {
	if in.ServiceID == "" {
		return nil, apperr.New(apperr.KindValidation, "missing required field(s): serviceId")
	}
	if in.NumberOfPeople < 1 {
		return nil, apperr.New(apperr.KindValidation, "numberOfPeople must be at least 1")
	}
	data, err := c.send(ctx, http.MethodPost, "/bookings", nil, in)
	if err != nil {
		return nil, err
	}
	var out model.Booking
	if err := decodeEnvelope(data, "booking", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) bookingAction(ctx context.Context, id model.ID, action string) error {
	s, err := seg(id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/bookings/"+s+"/"+action, nil, nil, nil)
}

// CancelBooking calls POST /bookings/{id}/cancel.
func (c *Client) CancelBooking(ctx context.Context, id model.ID) error {
	return c.bookingAction(ctx, id, "cancel")
}

// ConfirmBooking calls POST /bookings/{id}/confirm.
func (c *Client) ConfirmBooking(ctx context.Context, id model.ID) error {
	return c.bookingAction(ctx, id, "confirm")
}

// CompleteBooking calls POST /bookings/{id}/complete.
func (c *Client) CompleteBooking(ctx context.Context, id model.ID) error {
	return c.bookingAction(ctx, id, "complete")
}

// RefundBooking calls POST /bookings/{id}/refund.
func (c *Client) RefundBooking(ctx context.Context, id model.ID) error {
	return c.bookingAction(ctx, id, "refund")
}

// GetETicket calls GET /bookings/{id}/eticket.
func (c *Client) GetETicket(ctx context.Context, id model.ID) (ETicket, error) {
	s, err := seg(id)
	if err != nil {
		return nil, err
	}
	var out ETicket
	if err := c.do(ctx, http.MethodGet, "/bookings/"+s+"/eticket", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RespondRefundDispute calls POST /bookings/refunds/{disputeId}/respond.
func (c *Client) RespondRefundDispute(ctx context.Context, disputeID model.ID, in DisputeResponse) error {
	s, err := seg(disputeID)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/bookings/refunds/"+s+"/respond", nil, in, nil)
}

// VerdictRefundDispute calls POST /bookings/refunds/{disputeId}/verdict.
func (c *Client) VerdictRefundDispute(ctx context.Context, disputeID model.ID, in DisputeVerdict) error {
	s, err := seg(disputeID)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/bookings/refunds/"+s+"/verdict", nil, in, nil)
}

// DownloadETicket calls GET /bookings/{id}/eticket/download and returns the file bytes.
func (c *Client) DownloadETicket(ctx context.Context, id model.ID) ([]byte, error) {
	return c.download(ctx, id, "eticket")
}

// DownloadInvoice calls GET /bookings/{id}/invoice/download and returns the file bytes.
func (c *Client) DownloadInvoice(ctx context.Context, id model.ID) ([]byte, error) {
	return c.download(ctx, id, "invoice")
}

func (c *Client) download(ctx context.Context, id model.ID, doc string) ([]byte, error) {
	s, err := seg(id)
	if err != nil {
		return nil, err
	}
	data, err := c.send(ctx, http.MethodGet, "/bookings/"+s+"/"+doc+"/download", nil, nil)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, apperr.New(apperr.KindAPI, "empty "+doc+" document")
	}
	return data, nil
}
