// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import "errors"

// ErrNotFound is returned by a Port when the key has never been set or was deleted.
var ErrNotFound = errors.New("session key not found")

// Port is the durable key-value storage the Store persists into. Implementations
// live in internal/keychain (OS keychain, encrypted file, in-memory) and
// internal/redisstore.
type Port interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// BatchPort is a Port that can write or remove several keys in one operation,
// so another process sharing the storage never sees only part of the change.
// The Store uses it for SetSession and Clear when the port provides it.
type BatchPort interface {
	Port
	// SetMany writes every pair or none of them.
	SetMany(values map[string]string) error
	// DeleteMany removes the keys. Keys that are already absent are not an error.
	DeleteMany(keys ...string) error
}
