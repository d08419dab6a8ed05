// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session_test

import (
	"errors"
	"sync/atomic"
	"testing"

	"tripdesk/cli/internal/keychain"
	"tripdesk/cli/internal/model"
	"tripdesk/cli/internal/session"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = model.UserProfile{ID: "1", Username: "alice", Email: "alice@example.com", Role: model.RoleCustomer}

func newStore(t *testing.T, items ...keyring.Item) *session.Store {
	t.Helper()
	return session.New(keychain.NewMemory(items...), nil)
}

func TestIsAuthenticatedTracksTokenOnly(t *testing.T) {
	s := newStore(t)
	assert.False(t, s.IsAuthenticated())

	require.NoError(t, s.SetUser(alice))
	assert.False(t, s.IsAuthenticated(), "profile alone must not authenticate")

	require.NoError(t, s.SetToken("tok"))
	assert.True(t, s.IsAuthenticated())

	require.NoError(t, s.Clear())
	assert.False(t, s.IsAuthenticated())

	require.NoError(t, s.SetToken("tok-2"))
	assert.True(t, s.IsAuthenticated(), "token without profile still authenticates")
}

func TestClearRemovesBoth(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.SetSession("tok", alice))

	require.NoError(t, s.Clear())

	_, ok := s.Token()
	assert.False(t, ok)
	u, ok := s.User()
	assert.False(t, ok)
	assert.Nil(t, u)
}

func TestClearOnEmptyStore(t *testing.T) {
	s := newStore(t)
	assert.NoError(t, s.Clear())
}

func TestSetSessionRoundTrip(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.SetSession("tok", alice))

	tok, ok := s.Token()
	require.True(t, ok)
	assert.Equal(t, "tok", tok)

	u, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, alice, *u)
	assert.Equal(t, "alice", s.Username())
	assert.Equal(t, "alice@example.com", s.Email())
	assert.Equal(t, model.ID("1"), s.UserID())
}

func TestUpdateUserOnEmptyStore(t *testing.T) {
	s := newStore(t)
	name := "bob"

	u, ok, err := s.UpdateUser(session.UserPatch{Username: &name})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, u)

	_, exists := s.User()
	assert.False(t, exists, "update must not create a profile")
}

func TestUpdateUserMerges(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.SetSession("tok", alice))
	agency := model.RoleAgency

	u, ok, err := s.UpdateUser(session.UserPatch{Role: &agency})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.RoleAgency, u.Role)
	assert.Equal(t, "alice", u.Username)

	stored, _ := s.User()
	assert.Equal(t, *u, *stored)

	tok, _ := s.Token()
	assert.Equal(t, "tok", tok, "token untouched")
}

func TestMalformedUserReadsAsAbsent(t *testing.T) {
	s := newStore(t,
		keyring.Item{Key: session.KeyToken, Data: []byte("tok")},
		keyring.Item{Key: session.KeyUser, Data: []byte("{not json")},
	)

	assert.NotPanics(t, func() {
		u, ok := s.User()
		assert.False(t, ok)
		assert.Nil(t, u)
	})
	assert.Equal(t, "", s.Username())
	assert.True(t, s.IsAuthenticated())
}

func TestEmptyTokenIsAbsent(t *testing.T) {
	s := newStore(t, keyring.Item{Key: session.KeyToken, Data: []byte("")})
	assert.False(t, s.IsAuthenticated())
}

func TestOnChange(t *testing.T) {
	s := newStore(t)
	var calls atomic.Int32
	cancel := s.OnChange(func() { calls.Add(1) })

	require.NoError(t, s.SetToken("a"))
	require.NoError(t, s.SetUser(alice))
	require.NoError(t, s.Clear())
	assert.Equal(t, int32(3), calls.Load())

	cancel()
	require.NoError(t, s.SetToken("b"))
	assert.Equal(t, int32(3), calls.Load())
}

// failingPort is a plain Port that fails writes for one key and, optionally, every read.
type failingPort struct {
	m       *keychain.Manager
	failSet string
	failGet bool
}

func (p *failingPort) Set(key, value string) error {
	if key == p.failSet {
		return errors.New("disk full")
	}
	return p.m.Set(key, value)
}

func (p *failingPort) Get(key string) (string, error) {
	if p.failGet {
		return "", errors.New("locked")
	}
	return p.m.Get(key)
}

func (p *failingPort) Delete(key string) error { return p.m.Delete(key) }

func TestSetSessionRollsBackToken(t *testing.T) {
	port := &failingPort{m: keychain.NewMemory(), failSet: session.KeyUser}
	s := session.New(port, nil)

	err := s.SetSession("tok", alice)
	require.Error(t, err)
	assert.False(t, s.IsAuthenticated(), "token must not outlive a failed profile write")
}

func TestReadErrorsReadAsAbsent(t *testing.T) {
	port := &failingPort{m: keychain.NewMemory(), failGet: true}
	s := session.New(port, nil)

	assert.False(t, s.IsAuthenticated())
	_, ok := s.User()
	assert.False(t, ok)
}

// countingPort records single-key writes so batch use can be observed.
type countingPort struct {
	*keychain.Manager
	sets, deletes int
}

func (p *countingPort) Set(key, value string) error {
	p.sets++
	return p.Manager.Set(key, value)
}

func (p *countingPort) Delete(key string) error {
	p.deletes++
	return p.Manager.Delete(key)
}

func TestBatchPortWritesSessionAsOneUnit(t *testing.T) {
	port := &countingPort{Manager: keychain.NewMemory()}
	a := session.New(port, nil)
	b := session.New(port, nil)

	require.NoError(t, a.SetSession("tok", alice))
	assert.Zero(t, port.sets)
	u, ok := b.User()
	require.True(t, ok)
	assert.Equal(t, alice, *u)
	assert.True(t, b.IsAuthenticated())

	require.NoError(t, b.Clear())
	assert.Zero(t, port.deletes)
	assert.False(t, a.IsAuthenticated())
	require.NoError(t, a.Clear())
}

func TestFallbackPortClearsBoth(t *testing.T) {
	port := &failingPort{m: keychain.NewMemory()}
	s := session.New(port, nil)

	require.NoError(t, s.SetSession("tok", alice))
	require.NoError(t, s.Clear())
	assert.False(t, s.IsAuthenticated())
	_, ok := s.User()
	assert.False(t, ok)
}
