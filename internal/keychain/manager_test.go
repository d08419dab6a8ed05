// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"errors"
	"testing"

	"tripdesk/cli/internal/logging"
	"tripdesk/cli/internal/session"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryManager(t *testing.T) {
	m := NewMemory()

	_, err := m.Get(session.KeyToken)
	assert.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, m.Set(session.KeyToken, "tok"))
	v, err := m.Get(session.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok", v)

	keys, err := m.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{session.KeyToken}, keys)

	require.NoError(t, m.Delete(session.KeyToken))
	_, err = m.Get(session.KeyToken)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestNewMemorySeeded(t *testing.T) {
	m := NewMemory(keyring.Item{Key: session.KeyUser, Data: []byte(`{"id":1}`)})

	v, err := m.Get(session.KeyUser)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, v)
}

func TestOpenMemoryBackend(t *testing.T) {
	m, err := Open(Options{Backend: BackendMemory})
	require.NoError(t, err)
	require.NoError(t, m.Set("k", "v"))
}

func TestOpenFileBackend(t *testing.T) {
	dir := t.TempDir()

	m, err := Open(Options{Backend: BackendFile, FileDir: dir, FilePassword: "pw"})
	require.NoError(t, err)

	require.NoError(t, m.Set(session.KeyToken, "file-token"))
	v, err := m.Get(session.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "file-token", v)

	// A second manager over the same directory sees the persisted value.
	again, err := Open(Options{Backend: BackendFile, FileDir: dir, FilePassword: "pw"})
	require.NoError(t, err)
	v, err = again.Get(session.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "file-token", v)

	require.NoError(t, again.Delete(session.KeyToken))
	_, err = m.Get(session.KeyToken)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestOpenFileBackendValidation(t *testing.T) {
	_, err := Open(Options{Backend: BackendFile, FilePassword: "pw"})
	assert.Error(t, err)

	_, err = Open(Options{Backend: BackendFile, FileDir: t.TempDir()})
	assert.Error(t, err)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(Options{Backend: "floppy"})
	assert.ErrorContains(t, err, "unknown storage backend")
}

// flakyRing fails writes to one key.
type flakyRing struct {
	keyring.Keyring
	failKey string
}

func (r *flakyRing) Set(it keyring.Item) error {
	if it.Key == r.failKey {
		return errors.New("keychain locked")
	}
	return r.Keyring.Set(it)
}

func TestSetManyAndDeleteMany(t *testing.T) {
	m := NewMemory()

	require.NoError(t, m.SetMany(map[string]string{session.KeyToken: "tok", session.KeyUser: `{"id":1}`}))
	v, err := m.Get(session.KeyUser)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, v)

	require.NoError(t, m.DeleteMany(session.KeyToken, session.KeyUser, "never-set"))
	_, err = m.Get(session.KeyToken)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSetManyRestoresOnFailure(t *testing.T) {
	ring := keyring.NewArrayKeyring([]keyring.Item{{Key: session.KeyToken, Data: []byte("old")}})
	m := &Manager{ring: &flakyRing{Keyring: ring, failKey: session.KeyUser}, log: logging.Discard()}

	err := m.SetMany(map[string]string{session.KeyToken: "new", session.KeyUser: `{"id":1}`})
	require.Error(t, err)

	v, err := m.Get(session.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "old", v)
	_, err = m.Get(session.KeyUser)
	assert.ErrorIs(t, err, session.ErrNotFound)
}
