// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session implements the persisted session: an auth token and the signed-in
// user's profile, stored under two keys so that a fresh process reconstructs the
// session without a network round-trip.
//
// The Store is the only mutable state shared between the API pipeline and the auth
// state provider. Callers read the token per request and never cache it.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"tripdesk/cli/internal/logging"
	"tripdesk/cli/internal/model"

	"github.com/pterm/pterm"
)

// Keys used for the persisted session layout.
const (
	KeyToken = "auth_token"
	KeyUser  = "user_data"
)

// UserPatch carries the fields to merge into the stored profile. Nil fields are left untouched.
type UserPatch struct {
	Username *string
	Email    *string
	Role     *model.Role
}

// Store wraps a Port with the session invariants.
type Store struct {
	mu   sync.RWMutex
	port Port
	log  *pterm.Logger

	obsMu     sync.Mutex
	observers map[int]func()
	nextObs   int
}

// New constructs a Store over port. A nil logger discards output.
func New(port Port, log *pterm.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{port: port, log: log, observers: make(map[int]func())}
}

// SetToken persists the auth token.
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	err := s.port.Set(KeyToken, token)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	s.notify()
	return nil
}

// Token returns the stored token, if any.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokenLocked()
}

func (s *Store) tokenLocked() (string, bool) {
	v, err := s.port.Get(KeyToken)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Debug("token read failed", s.log.Args("error", err.Error()))
		}
		return "", false
	}
	return v, v != ""
}

// SetUser persists the profile as JSON.
func (s *Store) SetUser(u model.UserProfile) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	s.mu.Lock()
	err = s.port.Set(KeyUser, string(b))
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	s.notify()
	return nil
}

// User returns the stored profile. Missing or malformed data reads as absent.
func (s *Store) User() (*model.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userLocked()
}

func (s *Store) userLocked() (*model.UserProfile, bool) {
	raw, err := s.port.Get(KeyUser)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Debug("user read failed", s.log.Args("error", err.Error()))
		}
		return nil, false
	}
	if raw == "" {
		return nil, false
	}
	var u model.UserProfile
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.log.Debug("stored user data is malformed, ignoring", s.log.Args("error", err.Error()))
		return nil, false
	}
	return &u, true
}

// SetSession writes token and profile as one unit. Ports implementing BatchPort
// write both keys in a single operation; otherwise the token is rolled back when
// the profile cannot be written so the pair never diverges.
func (s *Store) SetSession(token string, u model.UserProfile) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	err = s.setSessionLocked(token, string(b))
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify()
	return nil
}

func (s *Store) setSessionLocked(token, user string) error {
	if bp, ok := s.port.(BatchPort); ok {
		if err := bp.SetMany(map[string]string{KeyToken: token, KeyUser: user}); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		return nil
	}
	if err := s.port.Set(KeyToken, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := s.port.Set(KeyUser, user); err != nil {
		_ = s.port.Delete(KeyToken)
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a token is present, regardless of the profile.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}

// Clear removes both keys. Without a BatchPort both deletes are attempted under
// the lock even if the first fails.
func (s *Store) Clear() error {
	s.mu.Lock()
	err := s.clearLocked()
	s.mu.Unlock()

	s.notify()
	return err
}

func (s *Store) clearLocked() error {
	if bp, ok := s.port.(BatchPort); ok {
		if err := bp.DeleteMany(KeyToken, KeyUser); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return nil
	}
	errToken := s.port.Delete(KeyToken)
	errUser := s.port.Delete(KeyUser)
	if err := ignoreNotFound(errToken); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	if err := ignoreNotFound(errUser); err != nil {
		return fmt.Errorf("clear user: %w", err)
	}
	return nil
}

// UpdateUser merges patch into the stored profile and persists the result. With no
// stored profile it returns (nil, false, nil) and creates nothing.
func (s *Store) UpdateUser(patch UserPatch) (*model.UserProfile, bool, error) {
	s.mu.Lock()
	u, ok := s.userLocked()
	if !ok {
		s.mu.Unlock()
		return nil, false, nil
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	b, err := json.Marshal(u)
	if err == nil {
		err = s.port.Set(KeyUser, string(b))
	}
	s.mu.Unlock()
	if err != nil {
		return nil, false, fmt.Errorf("save user: %w", err)
	}

	s.notify()
	return u, true, nil
}

// Username returns the stored username or "".
func (s *Store) Username() string {
	if u, ok := s.User(); ok {
		return u.Username
	}
	return ""
}

// Email returns the stored email or "".
func (s *Store) Email() string {
	if u, ok := s.User(); ok {
		return u.Email
	}
	return ""
}

// UserID returns the stored user id or "".
func (s *Store) UserID() model.ID {
	if u, ok := s.User(); ok {
		return u.ID
	}
	return ""
}

// OnChange registers fn to run after every mutation. The returned func unregisters it.
func (s *Store) OnChange(fn func()) (cancel func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Store) notify() {
	s.obsMu.Lock()
	fns := make([]func(), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func ignoreNotFound(err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
