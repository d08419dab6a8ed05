// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	_, ok := r.Last()
	assert.False(t, ok)

	r.Navigate(Landing)
	r.Navigate(Login)
	v, ok := r.Last()
	assert.True(t, ok)
	assert.Equal(t, Login, v)
	assert.Equal(t, 2, r.Count())

	r.Reset()
	_, ok = r.Last()
	assert.False(t, ok)
}

func TestFunc(t *testing.T) {
	var got string
	var n Navigator = Func(func(v string) { got = v })
	n.Navigate(Login)
	assert.Equal(t, Login, got)
}
