// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package model defines the records exchanged with the booking API. They mirror
// server responses and are held transiently by commands; the server stays the
// source of truth.
package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// ID is an identifier the backend may send either as a JSON number or a string.
type ID string

// UnmarshalJSON accepts numbers, strings and null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric IDs as numbers so the backend sees its own type back.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

// Time is a timestamp that also accepts the zone-less and date-only layouts
// some API deployments emit.
type Time struct{ time.Time }

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON parses any of the accepted layouts; null and "" leave the zero time.
func (t *Time) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	var lastErr error
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// MarshalJSON writes RFC 3339.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// Role is the account type.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgency   Role = "agency"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r == RoleCustomer || r == RoleAgency }

// UserProfile is the signed-in account as returned by /auth/login.
type UserProfile struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Category groups services in the explorer.
type Category struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Media is an image or video attached to a service.
type Media struct {
	ID         ID     `json:"id"`
	URL        string `json:"url"`
	Caption    string `json:"caption,omitempty"`
	MediaType  string `json:"mediaType,omitempty"`
	IsFeatured bool   `json:"isFeatured,omitempty"`
}

// Service is a bookable offer published by an agency.
type Service struct {
	ID            ID      `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	Price         float64 `json:"price"`
	Location      string  `json:"location,omitempty"`
	Duration      string  `json:"duration,omitempty"`
	AgencyID      ID      `json:"agencyId,omitempty"`
	AgencyName    string  `json:"agencyName,omitempty"`
	CategoryID    ID      `json:"categoryId,omitempty"`
	AverageRating float64 `json:"averageRating,omitempty"`
	ReviewCount   int     `json:"reviewCount,omitempty"`
	Media         []Media `json:"media,omitempty"`
	CreatedAt     Time    `json:"createdAt,omitzero"`
}

// ServicePage is one page of the explorer listing.
type ServicePage struct {
	Services []Service `json:"services"`
	Total    int       `json:"total"`
	Page     int       `json:"page,omitempty"`
	PageSize int       `json:"pageSize,omitempty"`
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
	BookingRefunded  BookingStatus = "refunded"
)

// Active reports whether the booking still counts as upcoming.
func (s BookingStatus) Active() bool { return s == BookingPending || s == BookingConfirmed }

// Booking is a reservation of a service by a customer.
type Booking struct {
	ID              ID            `json:"id"`
	ServiceID       ID            `json:"serviceId"`
	Service         *Service      `json:"service,omitempty"`
	CustomerName    string        `json:"customerName,omitempty"`
	NumberOfPeople  int           `json:"numberOfPeople"`
	SpecialRequests string        `json:"specialRequests,omitempty"`
	TotalAmount     float64       `json:"totalAmount"`
	Status          BookingStatus `json:"status"`
	BookingDate     Time          `json:"bookingDate,omitzero"`
	TravelDate      Time          `json:"travelDate,omitzero"`
}

// NewBooking is the payload for POST /bookings.
type NewBooking struct {
	ServiceID       ID      `json:"serviceId"`
	NumberOfPeople  int     `json:"numberOfPeople"`
	SpecialRequests string  `json:"specialRequests,omitempty"`
	TotalAmount     float64 `json:"totalAmount"`
}

// Review is a customer rating of a service.
type Review struct {
	ID        ID     `json:"id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	Username  string `json:"username,omitempty"`
	CreatedAt Time   `json:"createdAt,omitzero"`
}

// Availability is a bookable slot for a service.
type Availability struct {
	ID        ID   `json:"id"`
	StartDate Time `json:"startDate"`
	EndDate   Time `json:"endDate"`
	Capacity  int  `json:"capacity"`
}

// SavedSearch stores explorer filters under a name.
type SavedSearch struct {
	ID      ID                `json:"id"`
	Name    string            `json:"name"`
	Filters map[string]string `json:"filters,omitempty"`
}

// Agency is a business account that publishes services.
type Agency struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Email       string `json:"email,omitempty"`
}
