// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tripdesk/cli/internal/auth"
	"tripdesk/cli/internal/keychain"
	"tripdesk/cli/internal/logging"
	"tripdesk/cli/internal/model"
	"tripdesk/cli/internal/nav"
	"tripdesk/cli/internal/session"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(t *testing.T, signedIn bool) *app {
	t.Helper()
	store := session.New(keychain.NewMemory(), logging.Discard())
	if signedIn {
		require.NoError(t, store.SetSession("tok", model.UserProfile{ID: "7", Username: "ana", Role: model.RoleCustomer}))
	}
	p := auth.New(store, nil, logging.Discard())
	t.Cleanup(p.Close)
	return &app{store: store, provider: p, nav: &nav.Recorder{}, log: logging.Discard()}
}

func TestAccessOfInherits(t *testing.T) {
	parent := &cobra.Command{Use: "bookings", Annotations: authenticated()}
	child := &cobra.Command{Use: "list"}
	open := &cobra.Command{Use: "list", Annotations: public()}
	parent.AddCommand(child, open)

	assert.Equal(t, accessAuth, accessOf(child))
	assert.Equal(t, accessPublic, accessOf(open))
	assert.Equal(t, accessPublic, accessOf(&cobra.Command{Use: "orphan"}))
}

func TestRegisteredCommandAccess(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"login"}, accessGuest},
		{[]string{"register"}, accessGuest},
		{[]string{"logout"}, accessAuth},
		{[]string{"whoami"}, accessAuth},
		{[]string{"services", "list"}, accessPublic},
		{[]string{"services", "show"}, accessPublic},
		{[]string{"categories", "list"}, accessPublic},
		{[]string{"categories", "create"}, accessAuth},
		{[]string{"reviews", "list"}, accessPublic},
		{[]string{"reviews", "add"}, accessAuth},
		{[]string{"bookings", "cancel"}, accessAuth},
		{[]string{"offers", "media", "add"}, accessAuth},
		{[]string{"searches", "save"}, accessAuth},
		{[]string{"role", "switch"}, accessAuth},
	}
	for _, tt := range tests {
		c, _, err := rootCmd.Find(tt.args)
		require.NoError(t, err, tt.args)
		assert.Equal(t, tt.want, accessOf(c), tt.args)
	}

	v, _, err := rootCmd.Find([]string{"version"})
	require.NoError(t, err)
	assert.True(t, skipsApp(v))
}

func TestCheckAccessRedirectsAnonymousToLogin(t *testing.T) {
	a := testApp(t, false)
	a.provider.Init()
	c := &cobra.Command{Use: "whoami", Annotations: authenticated()}

	err := checkAccess(context.Background(), c, a)

	var redirect *redirectError
	require.True(t, errors.As(err, &redirect))
	assert.Equal(t, nav.Login, redirect.target)
	last, ok := a.nav.Last()
	assert.True(t, ok)
	assert.Equal(t, nav.Login, last)
	assert.Equal(t, 1, redirect.report())
}

func TestCheckAccessRedirectsSignedInGuestToLanding(t *testing.T) {
	a := testApp(t, true)
	a.provider.Init()
	c := &cobra.Command{Use: "login", Annotations: guestOnly()}

	err := checkAccess(context.Background(), c, a)

	var redirect *redirectError
	require.True(t, errors.As(err, &redirect))
	assert.Equal(t, nav.Landing, redirect.target)
	assert.Equal(t, 0, redirect.report())
}

func TestCheckAccessRenders(t *testing.T) {
	a := testApp(t, true)
	a.provider.Init()

	assert.NoError(t, checkAccess(context.Background(), &cobra.Command{Use: "whoami", Annotations: authenticated()}, a))
	assert.NoError(t, checkAccess(context.Background(), &cobra.Command{Use: "list", Annotations: public()}, a))
	assert.Equal(t, 0, a.nav.Count())
}

func TestCheckAccessWaitsWhileLoading(t *testing.T) {
	a := testApp(t, true)
	c := &cobra.Command{Use: "whoami", Annotations: authenticated()}

	done := make(chan error, 1)
	go func() { done <- checkAccess(context.Background(), c, a) }()

	select {
	case err := <-done:
		t.Fatalf("guard decided before the session was read: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	a.provider.Init()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("guard did not resume after Init")
	}
}

func TestCheckAccessHonoursContext(t *testing.T) {
	a := testApp(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := checkAccess(ctx, &cobra.Command{Use: "whoami", Annotations: authenticated()}, a)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFilterBookings(t *testing.T) {
	list := []model.Booking{
		{ID: "1", Status: model.BookingPending},
		{ID: "2", Status: model.BookingCancelled},
		{ID: "3", Status: model.BookingConfirmed},
	}

	assert.Len(t, filterBookings(list, "", false), 3)
	assert.Equal(t, []model.Booking{list[1]}, filterBookings(list, model.BookingCancelled, false))
	assert.Equal(t, []model.Booking{list[0], list[2]}, filterBookings(list, "", true))
	assert.Len(t, list, 3)
	assert.Equal(t, model.ID("2"), list[1].ID)
}

func TestPageFooter(t *testing.T) {
	p := &model.ServicePage{Services: make([]model.Service, 10), Total: 45, Page: 2, PageSize: 10}
	assert.Contains(t, pageFooter(p), "Page 2 of 5 · 45 services")

	p = &model.ServicePage{Services: make([]model.Service, 3)}
	assert.Contains(t, pageFooter(p), "3 services")
}

func TestFormatFilters(t *testing.T) {
	assert.Equal(t, "-", formatFilters(nil))
	assert.Equal(t, "location=Lisbon maxPrice=300", formatFilters(map[string]string{"maxPrice": "300", "location": "Lisbon"}))
}

func TestToggledRole(t *testing.T) {
	assert.Equal(t, model.RoleAgency, toggled(model.RoleCustomer))
	assert.Equal(t, model.RoleCustomer, toggled(model.RoleAgency))
	assert.Equal(t, model.RoleAgency, toggled(""))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short"))
	long := strings.Repeat("x", 500)
	got := clip(long)
	assert.Less(t, len([]rune(got)), 500)
	assert.True(t, strings.HasSuffix(got, "…"))
}
