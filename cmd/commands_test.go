// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"tripdesk/cli/internal/backend"
	"tripdesk/cli/internal/config"
	apperr "tripdesk/cli/internal/errors"
	"tripdesk/cli/internal/keychain"
	"tripdesk/cli/internal/model"
	"tripdesk/cli/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveDocumentWritesDownload(t *testing.T) {
	pdf := []byte("%PDF-1.7 invoice body")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings/12/invoice/download", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdf)
	}))
	defer srv.Close()

	client := backend.NewClient(srv.URL, http.DefaultTransport, 0, nil)
	out := filepath.Join(t.TempDir(), "invoice-12.pdf")

	err := saveDocument(context.Background(), "invoice", out, func(ctx context.Context) ([]byte, error) {
		return client.DownloadInvoice(ctx, "12")
	})
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, pdf, got)
}

func TestSaveDocumentLeavesNoFileOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"booking not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := backend.NewClient(srv.URL, http.DefaultTransport, 0, nil)
	out := filepath.Join(t.TempDir(), "ticket.pdf")

	err := saveDocument(context.Background(), "e-ticket", out, func(ctx context.Context) ([]byte, error) {
		return client.DownloadETicket(ctx, "12")
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindAPI, apperr.KindOf(err))
	assert.NoFileExists(t, out)
}

func TestSaveDocumentUnwritablePath(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "ticket.pdf")
	err := saveDocument(context.Background(), "e-ticket", out, func(context.Context) ([]byte, error) {
		return []byte("x"), nil
	})
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))
}

func TestSetConfigValue(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.json")
	t.Setenv(config.EnvPrefix+"LOG_LEVEL", "debug")

	path, err := setConfigValue(file, "auth_mode", "Cookie")
	require.NoError(t, err)
	assert.Equal(t, file, path)

	cfg, _, err := config.LoadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "cookie", cfg.AuthMode)
	assert.Equal(t, "info", cfg.LogLevel, "environment overrides must not be persisted")

	_, err = setConfigValue(file, "auth_mode", "basic")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = setConfigValue(file, "nope", "1")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	cfg, _, err = config.LoadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "cookie", cfg.AuthMode)
}

type plainPort struct{ session.Port }

func TestDescribeStorage(t *testing.T) {
	m := keychain.NewMemory()
	require.NoError(t, session.New(m, nil).SetSession("tok", model.UserProfile{ID: "1", Username: "alice"}))

	assert.Equal(t, "memory (keys: auth_token, user_data)", describeStorage("memory", m))
	assert.Equal(t, "redis", describeStorage("redis", plainPort{m}))
}
