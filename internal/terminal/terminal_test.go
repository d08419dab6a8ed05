// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompterReadsLines(t *testing.T) {
	var out bytes.Buffer
	p := &Prompter{In: strings.NewReader("ana@example.com\ns3cret"), Out: &out}

	email, err := p.Line("Email: ")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email)

	pw, err := p.Password("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)

	assert.Equal(t, "Email: Password: ", out.String())

	_, err = p.Line("More: ")
	assert.Error(t, err)
}
