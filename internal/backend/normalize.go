// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"unicode"
	"unicode/utf8"
)

// normalizeKeys rewrites every object key in a JSON document to camelCase, so
// that "Title", "title" and "TITLE" all decode the same way. When both spellings
// of a key are present the one already in camelCase wins.
func normalizeKeys(raw []byte) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '{' && raw[0] != '[') {
		return raw, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return json.Marshal(foldKeys(v))
}

func foldKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		// exact camelCase keys first so they take precedence
		for k, val := range t {
			if camelKey(k) == k {
				out[k] = foldKeys(val)
			}
		}
		// other spellings in sorted order, so "ID" beats "Id" on every run
		for _, k := range slices.Sorted(maps.Keys(t)) {
			ck := camelKey(k)
			if ck == k {
				continue
			}
			if _, taken := out[ck]; !taken {
				out[ck] = foldKeys(t[k])
			}
		}
		return out
	case []any:
		for i := range t {
			t[i] = foldKeys(t[i])
		}
		return t
	default:
		return v
	}
}

// camelKey lowercases the leading run of upper-case letters: "Title" → "title",
// "ID" → "id", "URLPath" → "urlPath", "AgencyId" → "agencyId".
func camelKey(k string) string {
	if k == "" {
		return k
	}
	first, _ := utf8.DecodeRuneInString(k)
	if !unicode.IsUpper(first) {
		return k
	}
	runes := []rune(k)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	// keep the last capital of an acronym when it starts the next word
	if n > 1 && n < len(runes) && unicode.IsLower(runes[n]) {
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
