// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamelKey(t *testing.T) {
	tests := map[string]string{
		"Title":    "title",
		"title":    "title",
		"ID":       "id",
		"Id":       "id",
		"URLPath":  "urlPath",
		"AgencyId": "agencyId",
		"_links":   "_links",
		"":         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, camelKey(in), in)
	}
}

func TestNormalizeKeysNested(t *testing.T) {
	out, err := normalizeKeys([]byte(`{"Booking":{"Status":"pending","Service":{"Title":"x"}},"Items":[{"Name":"a"}]}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"booking":{"status":"pending","service":{"title":"x"}},"items":[{"name":"a"}]}`, string(out))
}

func TestNormalizeKeysPrefersCamelCase(t *testing.T) {
	out, err := normalizeKeys([]byte(`{"Title":"Pascal","title":"camel"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"camel"}`, string(out))
}

func TestNormalizeKeysCollisionIsStable(t *testing.T) {
	for i := 0; i < 50; i++ {
		out, err := normalizeKeys([]byte(`{"Id":2,"ID":1,"URL":"a","Url":"b"}`))
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":1,"url":"a"}`, string(out))
	}
}

func TestNormalizeKeysKeepsNumbersAndScalars(t *testing.T) {
	out, err := normalizeKeys([]byte(`{"Total":12345678901234567}`))
	require.NoError(t, err)
	assert.Equal(t, `{"total":12345678901234567}`, string(out))

	out, err = normalizeKeys([]byte(`"plain"`))
	require.NoError(t, err)
	assert.Equal(t, `"plain"`, string(out))
}

func TestExtractMessage(t *testing.T) {
	assert.Equal(t, "bad", extractMessage([]byte(`{"Message":"bad"}`)))
	assert.Equal(t, "worse", extractMessage([]byte(`{"error":"worse"}`)))
	assert.Equal(t, "One or more validation errors occurred.", extractMessage([]byte(`{"title":"One or more validation errors occurred.","status":400}`)))
	assert.Equal(t, "upstream down", extractMessage([]byte("upstream down\n")))
	assert.Equal(t, "", extractMessage([]byte(`<html>502</html>`)))
	assert.Equal(t, "", extractMessage(nil))
}
