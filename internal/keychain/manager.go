// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides thread-safe secret storage for the tripdesk session.
// A Manager implements session.Port on top of github.com/99designs/keyring, so the
// auth token and profile can live in the OS keychain, an encrypted file keyring,
// or an in-memory ring for tests and ephemeral runs.
//
// On macOS the native `security` command is tried first because the keyring
// library's Keychain backend prompts on every binary rebuild.
package keychain

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"runtime"
	"slices"
	"sync"

	"tripdesk/cli/internal/logging"
	"tripdesk/cli/internal/session"

	"github.com/99designs/keyring"
	"github.com/pterm/pterm"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "tripdesk"

// Backend names accepted in config.
const (
	BackendOS     = "os"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
	log     *pterm.Logger
}

// keychainBackend defines the interface for native keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// Options selects and configures the storage backend.
type Options struct {
	Backend string
	// FileDir is where the encrypted file keyring lives (file backend only).
	FileDir string
	// FilePassword unlocks the file keyring.
	FilePassword string
	Logger       *pterm.Logger
}

var _ session.BatchPort = (*Manager)(nil)

// Open creates a Manager for the requested backend.
func Open(opts Options) (*Manager, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	switch opts.Backend {
	case BackendMemory:
		return &Manager{ring: keyring.NewArrayKeyring(nil), log: log}, nil
	case BackendFile:
		ring, err := openFileRing(opts.FileDir, opts.FilePassword)
		if err != nil {
			return nil, err
		}
		return &Manager{ring: ring, log: log}, nil
	case BackendOS, "":
		if runtime.GOOS == "darwin" {
			backend, err := newSecurityBackend(log)
			if err == nil {
				return &Manager{backend: backend, log: log}, nil
			}
			log.Debug("security command unavailable, falling back to keyring", log.Args("error", err.Error()))
		}
		ring, err := openOSRing()
		if err != nil {
			return nil, err
		}
		return &Manager{ring: ring, log: log}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want os, file, memory or redis)", opts.Backend)
	}
}

// NewMemory returns a Manager over an in-memory ring seeded with items.
func NewMemory(items ...keyring.Item) *Manager {
	return &Manager{ring: keyring.NewArrayKeyring(items), log: logging.Discard()}
}

// openOSRing opens the native platform keyring.
func openOSRing() (keyring.Keyring, error) {
	var allowed []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowed = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowed = []keyring.BackendType{keyring.WinCredBackend}
	default:
		allowed = []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.PassBackend}
	}

	cfg := keyring.Config{
		ServiceName:             ServiceName,
		AllowedBackends:         allowed,
		PassPrefix:              ServiceName,
		WinCredPrefix:           ServiceName,
		LibSecretCollectionName: ServiceName,
		KWalletAppID:            ServiceName,
		KWalletFolder:           ServiceName,
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("OS keychain unavailable (try storage backend \"file\"): %w", err)
	}
	return ring, nil
}

// openFileRing opens an encrypted file keyring in dir.
func openFileRing(dir, password string) (keyring.Keyring, error) {
	if dir == "" {
		return nil, errors.New("file keyring needs a directory")
	}
	if password == "" {
		return nil, errors.New("file keyring needs TRIPDESK_KEYRING_PASSWORD")
	}
	return keyring.Open(keyring.Config{
		ServiceName:      ServiceName,
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          dir,
		FilePasswordFunc: keyring.FixedStringPrompt(password),
	})
}

// Get retrieves a value. A missing key yields session.ErrNotFound.
// This method is thread-safe.
func (m *Manager) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getLocked(key)
}

// Set stores a value under key.
// This method is thread-safe.
func (m *Manager) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setLocked(key, value)
}

// Delete removes key. Deleting a missing key yields session.ErrNotFound.
// This method is thread-safe.
func (m *Manager) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteLocked(key)
}

// SetMany writes all values while holding the lock. If one write fails the keys
// already written are restored to their previous state.
func (m *Manager) SetMany(values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := slices.Sorted(maps.Keys(values))
	type previous struct {
		value string
		found bool
	}
	undo := make(map[string]previous, len(keys))
	for _, k := range keys {
		v, err := m.getLocked(k)
		undo[k] = previous{value: v, found: err == nil}
	}

	for i, k := range keys {
		if err := m.setLocked(k, values[k]); err != nil {
			for _, done := range keys[:i] {
				if prev := undo[done]; prev.found {
					_ = m.setLocked(done, prev.value)
				} else {
					_ = m.deleteLocked(done)
				}
			}
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return nil
}

// DeleteMany removes every key while holding the lock. Missing keys are skipped
// and every key is attempted; the first real failure is returned.
func (m *Manager) DeleteMany(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var first error
	for _, k := range keys {
		if err := m.deleteLocked(k); err != nil && !errors.Is(err, session.ErrNotFound) && first == nil {
			first = fmt.Errorf("delete %s: %w", k, err)
		}
	}
	return first
}

func (m *Manager) getLocked(key string) (string, error) {
	if m.backend != nil {
		return m.backend.Get(key)
	}
	it, err := m.ring.Get(key)
	if err != nil {
		return "", mapNotFound(err)
	}
	return string(it.Data), nil
}

func (m *Manager) setLocked(key, value string) error {
	if m.backend != nil {
		return m.backend.Set(key, value)
	}
	return m.ring.Set(keyring.Item{Key: key, Data: []byte(value), Label: ServiceName + " " + key})
}

func (m *Manager) deleteLocked(key string) error {
	if m.backend != nil {
		return m.backend.Delete(key)
	}
	return mapNotFound(m.ring.Remove(key))
}

// Keys lists the stored keys, for diagnostics.
func (m *Manager) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.backend != nil {
		var keys []string
		for _, k := range []string{session.KeyToken, session.KeyUser} {
			if _, err := m.backend.Get(k); err == nil {
				keys = append(keys, k)
			}
		}
		return keys, nil
	}
	return m.ring.Keys()
}

func mapNotFound(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, os.ErrNotExist) {
		return session.ErrNotFound
	}
	return err
}
