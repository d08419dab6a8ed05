// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"

	"tripdesk/cli/internal/auth"
	"tripdesk/cli/internal/backend"
	"tripdesk/cli/internal/config"
	"tripdesk/cli/internal/keychain"
	"tripdesk/cli/internal/logging"
	"tripdesk/cli/internal/nav"
	"tripdesk/cli/internal/redisstore"
	"tripdesk/cli/internal/session"
	"tripdesk/cli/internal/xdg"

	"github.com/pterm/pterm"
)

// app is everything a command needs, built once per invocation.
type app struct {
	cfg      config.Config
	log      *pterm.Logger
	store    *session.Store
	port     session.Port
	provider *auth.Provider
	api      *backend.Client
	nav      *nav.Recorder
	storage  string

	closers []func() error
}

type appOptions struct {
	configFile string
	verbose    bool
	ephemeral  bool
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	}
	log := logging.New(level, nil)

	a := &app{cfg: cfg, log: log, nav: &nav.Recorder{}, storage: storageName(cfg, opts.ephemeral)}

	port, closer, err := openPort(ctx, cfg, opts.ephemeral, log)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	a.port = port
	a.store = session.New(port, log)

	mode, err := backend.ParseAuthMode(cfg.AuthMode)
	if err != nil {
		return nil, err
	}
	var base http.RoundTripper
	if cfg.Insecure {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for local dev certificates
		base = t
	}

	client, authClient := backend.New(backend.Options{
		APIBaseURL:     cfg.APIBaseURL,
		AuthBaseURL:    cfg.AuthURL(),
		Store:          a.store,
		Navigator:      a.nav,
		Mode:           mode,
		LogoutStatuses: cfg.LogoutStatuses,
		Timeout:        cfg.Timeout.Std(),
		UserAgent:      "tripdesk-cli/" + Version,
		Base:           base,
		Log:            log,
	})
	a.api = client
	a.provider = auth.New(a.store, authClient, log)
	a.provider.Init()

	log.Debug("ready", log.Args(
		"api", cfg.APIBaseURL,
		"storage", a.storage,
		"state", a.provider.State().String(),
	))
	return a, nil
}

// openPort selects the session storage backend.
func openPort(ctx context.Context, cfg config.Config, ephemeral bool, log *pterm.Logger) (session.Port, func() error, error) {
	switch storageName(cfg, ephemeral) {
	case config.StorageMemory:
		return keychain.NewMemory(), nil, nil
	case config.StorageRedis:
		p, err := redisstore.Open(ctx, cfg.Storage.RedisURL, cfg.Storage.Prefix)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis session store: %w", err)
		}
		return p, p.Close, nil
	case config.StorageFile:
		dir, err := xdg.StateDir()
		if err != nil {
			return nil, nil, err
		}
		m, err := keychain.Open(keychain.Options{
			Backend:      keychain.BackendFile,
			FileDir:      dir,
			FilePassword: cfg.Storage.FilePassword,
			Logger:       log,
		})
		return m, nil, err
	default:
		m, err := keychain.Open(keychain.Options{Backend: keychain.BackendOS, Logger: log})
		return m, nil, err
	}
}

func storageName(cfg config.Config, ephemeral bool) string {
	if ephemeral {
		return config.StorageMemory
	}
	return cfg.Storage.Backend
}

func (a *app) Close() {
	a.provider.Close()
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Debug("close failed", a.log.Args("error", err.Error()))
		}
	}
}
