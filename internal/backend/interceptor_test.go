// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tripdesk/cli/internal/backend"
	apperr "tripdesk/cli/internal/errors"
	"tripdesk/cli/internal/keychain"
	"tripdesk/cli/internal/model"
	"tripdesk/cli/internal/nav"
	"tripdesk/cli/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	srv    *httptest.Server
	store  *session.Store
	nav    *nav.Recorder
	client *backend.Client
	auth   *backend.AuthClient
	seen   chan *http.Request
}

func newHarness(t *testing.T, mode backend.AuthMode, h http.HandlerFunc) *harness {
	t.Helper()
	seen := make(chan *http.Request, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Clone(context.Background())
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	store := session.New(keychain.NewMemory(), nil)
	rec := &nav.Recorder{}
	client, auth := backend.New(backend.Options{
		APIBaseURL:  srv.URL + "/api",
		AuthBaseURL: srv.URL + "/api",
		Store:       store,
		Navigator:   rec,
		Mode:        mode,
		UserAgent:   "tripdesk-test",
	})
	return &harness{srv: srv, store: store, nav: rec, client: client, auth: auth, seen: seen}
}

func (h *harness) signIn(t *testing.T) {
	t.Helper()
	require.NoError(t, h.store.SetSession("tok-123", model.UserProfile{ID: "7", Username: "ana", Email: "ana@example.com", Role: model.RoleCustomer}))
}

func (h *harness) lastRequest(t *testing.T) *http.Request {
	t.Helper()
	select {
	case r := <-h.seen:
		return r
	default:
		t.Fatal("no request reached the server")
		return nil
	}
}

func jsonReply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestInterceptorAttachesBearerToken(t *testing.T) {
	h := newHarness(t, backend.AuthBearer, jsonReply(http.StatusOK, `{"bookings":[]}`))
	h.signIn(t)

	_, err := h.client.MyBookings(context.Background())
	require.NoError(t, err)

	r := h.lastRequest(t)
	assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
	assert.NotEmpty(t, r.Header.Get(backend.HeaderRequestID))
	assert.Equal(t, "tripdesk-test", r.Header.Get("User-Agent"))
}

func TestInterceptorWithoutTokenSendsNoCredentials(t *testing.T) {
	h := newHarness(t, backend.AuthBearer, jsonReply(http.StatusOK, `{"services":[],"total":0}`))

	_, err := h.client.FetchServices(context.Background(), backend.ServiceQuery{})
	require.NoError(t, err)

	r := h.lastRequest(t)
	assert.Empty(t, r.Header.Get("Authorization"))
	_, cerr := r.Cookie(backend.CookieName)
	assert.ErrorIs(t, cerr, http.ErrNoCookie)
}

func TestInterceptorCookieMode(t *testing.T) {
	h := newHarness(t, backend.AuthCookie, jsonReply(http.StatusOK, `[]`))
	h.signIn(t)

	_, err := h.client.MyBookings(context.Background())
	require.NoError(t, err)

	r := h.lastRequest(t)
	assert.Empty(t, r.Header.Get("Authorization"))
	c, err := r.Cookie(backend.CookieName)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", c.Value)
}

func TestInterceptorReadsTokenPerRequest(t *testing.T) {
	h := newHarness(t, backend.AuthBearer, jsonReply(http.StatusOK, `[]`))
	h.signIn(t)
	_, err := h.client.MyBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", h.lastRequest(t).Header.Get("Authorization"))

	require.NoError(t, h.store.SetToken("tok-456"))
	_, err = h.client.MyBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-456", h.lastRequest(t).Header.Get("Authorization"))
}

func TestLogoutStatusesClearSessionAndNavigate(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			h := newHarness(t, backend.AuthBearer, jsonReply(status, `{"Message":"token revoked"}`))
			h.signIn(t)

			// any endpoint triggers it, not just auth-related ones
			_, err := h.client.Categories(context.Background())
			require.Error(t, err)

			assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
			assert.Equal(t, status, apperr.StatusOf(err))
			assert.Contains(t, err.Error(), "token revoked")

			assert.False(t, h.store.IsAuthenticated())
			_, hasUser := h.store.User()
			assert.False(t, hasUser)

			last, ok := h.nav.Last()
			require.True(t, ok)
			assert.Equal(t, nav.Login, last)
			assert.Equal(t, 1, h.nav.Count())
		})
	}
}

func TestOtherErrorsPassThroughUntouched(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			h := newHarness(t, backend.AuthBearer, jsonReply(status, `{"message":"nope"}`))
			h.signIn(t)

			_, err := h.client.GetBooking(context.Background(), "9")
			require.Error(t, err)
			assert.Equal(t, apperr.KindAPI, apperr.KindOf(err))
			assert.Equal(t, status, apperr.StatusOf(err))

			assert.True(t, h.store.IsAuthenticated())
			assert.Equal(t, 0, h.nav.Count())
		})
	}
}

func TestCustomLogoutStatuses(t *testing.T) {
	srv := httptest.NewServer(jsonReply(http.StatusForbidden, `{}`))
	t.Cleanup(srv.Close)

	store := session.New(keychain.NewMemory(), nil)
	require.NoError(t, store.SetSession("t", model.UserProfile{Email: "a@b.c"}))
	rec := &nav.Recorder{}
	client, _ := backend.New(backend.Options{
		APIBaseURL:     srv.URL,
		Store:          store,
		Navigator:      rec,
		LogoutStatuses: []int{http.StatusUnauthorized},
	})

	_, err := client.MyBookings(context.Background())
	require.Error(t, err)
	assert.True(t, store.IsAuthenticated(), "403 is not a logout status here")
	assert.Equal(t, 0, rec.Count())
}

func TestTransportFailureLeavesSession(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	store := session.New(keychain.NewMemory(), nil)
	require.NoError(t, store.SetSession("t", model.UserProfile{Email: "a@b.c"}))
	rec := &nav.Recorder{}
	client, _ := backend.New(backend.Options{APIBaseURL: url, Store: store, Navigator: rec})

	_, err := client.MyBookings(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.KindTransport, apperr.KindOf(err))
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, 0, rec.Count())
}

func TestParseAuthMode(t *testing.T) {
	m, err := backend.ParseAuthMode("")
	require.NoError(t, err)
	assert.Equal(t, backend.AuthBearer, m)

	m, err = backend.ParseAuthMode(" Cookie ")
	require.NoError(t, err)
	assert.Equal(t, backend.AuthCookie, m)

	_, err = backend.ParseAuthMode("basic")
	assert.Error(t, err)
}
