// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package nav names the views a command can be sent to and the port the API
// pipeline uses to force navigation.
package nav

import "sync"

// Views.
const (
	Login   = "/login"
	Landing = "/explore"
)

// Navigator moves the user to another view.
type Navigator interface {
	Navigate(view string)
}

// Func adapts a function to a Navigator.
type Func func(view string)

func (f Func) Navigate(view string) { f(view) }

// Recorder remembers the last requested view. The CLI checks it after each command
// to decide whether to print a redirect notice.
type Recorder struct {
	mu    sync.Mutex
	last  string
	count int
}

func (r *Recorder) Navigate(view string) {
	r.mu.Lock()
	r.last = view
	r.count++
	r.mu.Unlock()
}

// Last returns the most recent view and whether any navigation happened.
func (r *Recorder) Last() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.count > 0
}

// Count returns how many navigations were requested.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset forgets recorded navigations.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.last, r.count = "", 0
	r.mu.Unlock()
}
