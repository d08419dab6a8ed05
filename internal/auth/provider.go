// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"sync"

	"tripdesk/cli/internal/backend"
	apperr "tripdesk/cli/internal/errors"
	"tripdesk/cli/internal/logging"
	"tripdesk/cli/internal/model"
	"tripdesk/cli/internal/session"

	"github.com/pterm/pterm"
)

// Authenticator is the auth API the provider drives. *backend.AuthClient implements it.
type Authenticator interface {
	Register(ctx context.Context, username, email, password string) backend.Result
	Login(ctx context.Context, email, password string) backend.Result
}

// Provider owns the authentication state. It follows the session store, so a
// sign-out forced by the API pipeline is reflected without the caller doing anything.
type Provider struct {
	store *session.Store
	api   Authenticator
	log   *pterm.Logger

	mu        sync.RWMutex
	snap      Snapshot
	ready     chan struct{}
	readyOnce sync.Once

	subsMu  sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int

	stopWatch func()
}

// New creates a provider in the Loading state. Call Init to read the stored session.
func New(store *session.Store, api Authenticator, log *pterm.Logger) *Provider {
	if log == nil {
		log = logging.Discard()
	}
	p := &Provider{
		store: store,
		api:   api,
		log:   log,
		snap:  Snapshot{State: Loading},
		ready: make(chan struct{}),
		subs:  make(map[int]func(Snapshot)),
	}
	p.stopWatch = store.OnChange(p.follow)
	return p
}

// Init reads the persisted session once and leaves Loading. A half-present
// session (token without profile or the reverse) reads as Anonymous but is left
// in storage: another process sharing it may be in the middle of writing it.
func (p *Provider) Init() Snapshot {
	_, hasToken := p.store.Token()
	_, hasUser := p.store.User()
	if hasToken != hasUser {
		p.log.Debug("incomplete session, treating as signed out", p.log.Args("token", hasToken, "user", hasUser))
	}
	return p.settle()
}

// Ready is closed once the provider has left Loading.
func (p *Provider) Ready() <-chan struct{} { return p.ready }

// Snapshot returns the current state.
func (p *Provider) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

// State returns the current phase.
func (p *Provider) State() State { return p.Snapshot().State }

// User returns the signed-in profile, or nil.
func (p *Provider) User() *model.UserProfile { return p.Snapshot().User }

// IsAuthenticated reports whether the provider is Authenticated.
func (p *Provider) IsAuthenticated() bool { return p.Snapshot().IsAuthenticated() }

// Login authenticates against the API and, on success, persists the session and
// moves to Authenticated. On failure the state is left as it was.
func (p *Provider) Login(ctx context.Context, email, password string) backend.Result {
	res := p.api.Login(ctx, email, password)
	if !res.Success {
		return res
	}
	if res.User == nil {
		return backend.Result{
			Error: backend.MsgLoginFailed + ": no user in response",
			Err:   apperr.New(apperr.KindAPI, "login response without user"),
		}
	}
	if err := p.store.SetSession(res.Token, *res.User); err != nil {
		p.log.Error("could not persist session", p.log.Args("error", err.Error()))
		return backend.Result{
			Error: "Signed in, but the session could not be saved",
			Err:   apperr.Wrap(apperr.KindStorage, "save session", err),
		}
	}
	p.settle()
	return res
}

// Register creates an account. It never changes the authentication state.
func (p *Provider) Register(ctx context.Context, username, email, password string) backend.Result {
	return p.api.Register(ctx, username, email, password)
}

// Logout clears the stored session and moves to Anonymous. No network call is made.
func (p *Provider) Logout() error {
	err := p.store.Clear()
	p.settle()
	if err != nil {
		return apperr.Wrap(apperr.KindStorage, "clear session", err)
	}
	return nil
}

// Subscribe registers fn to receive every state change. The returned func unsubscribes.
func (p *Provider) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	p.subsMu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.subsMu.Unlock()

	return func() {
		p.subsMu.Lock()
		delete(p.subs, id)
		p.subsMu.Unlock()
	}
}

// Close stops following the session store.
func (p *Provider) Close() {
	if p.stopWatch != nil {
		p.stopWatch()
	}
}

// follow reacts to store mutations made by anyone, e.g. the interceptor.
// Before Init there is nothing to follow yet.
func (p *Provider) follow() {
	if p.State() == Loading {
		return
	}
	p.settle()
}

// settle derives the state from the store, publishes it and leaves Loading.
func (p *Provider) settle() Snapshot {
	next := Snapshot{State: Anonymous}
	if _, ok := p.store.Token(); ok {
		if u, ok := p.store.User(); ok {
			next = Snapshot{State: Authenticated, User: u}
		}
	}

	p.mu.Lock()
	changed := !p.snap.equal(next)
	p.snap = next
	p.mu.Unlock()

	p.readyOnce.Do(func() { close(p.ready) })
	if changed {
		p.log.Debug("auth state changed", p.log.Args("state", next.State.String()))
		p.publish(next)
	}
	return next
}

func (p *Provider) publish(s Snapshot) {
	p.subsMu.Lock()
	fns := make([]func(Snapshot), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.subsMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
