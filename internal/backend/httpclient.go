// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperr "tripdesk/cli/internal/errors"
	"tripdesk/cli/internal/logging"

	"github.com/pterm/pterm"
)

// maxBody caps how much of a response is read into memory. Tickets and
// invoices are the largest payloads.
const maxBody = 32 << 20

// Client implements the resource API over REST endpoints.
// Requests carry the session token through the Interceptor installed by New.
type Client struct {
	// baseURL is the API root, e.g. "https://api.tripdesk.example/api"
	baseURL string
	// client is the underlying HTTP client with configured timeout and transport chain
	client *http.Client
	log    *pterm.Logger
}

// NewClient creates a resource client. rt is normally an *Interceptor.
func NewClient(baseURL string, rt http.RoundTripper, timeout time.Duration, log *pterm.Logger) *Client {
	if log == nil {
		log = logging.Discard()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Transport: rt, Timeout: timeout},
		log:     log,
	}
}

// rawBody is a pre-encoded request body, used for multipart uploads.
type rawBody struct {
	contentType string
	data        []byte
}

// send performs one request and returns the response body of a 2xx reply.
// Anything else becomes an *apperr.E.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	return sendJSON(ctx, c.client, method, c.baseURL+path, query, body)
}

// do sends a request and decodes the reply into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	data, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	return decode(data, out)
}

func sendJSON(ctx context.Context, hc *http.Client, method, target string, query url.Values, body any) ([]byte, error) {
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var (
		rdr         io.Reader
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case *rawBody:
		rdr, contentType = bytes.NewReader(b.data), b.contentType
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, "encode request body", err)
		}
		rdr, contentType = bytes.NewReader(data), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "build request", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransport, "request failed", err)
	}
	defer resp.Body.Close()

	data, err := readBody(resp.Body, maxBody)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.HTTP(resp.StatusCode, extractMessage(data))
	}
	return data, nil
}

// readBody reads at most limit bytes. A longer body is an error rather than
// being cut short, since a truncated ticket or invoice is a corrupt file.
func readBody(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransport, "read response", err)
	}
	if int64(len(data)) > limit {
		return nil, apperr.New(apperr.KindAPI, fmt.Sprintf("response too large (over %d MiB)", limit>>20))
	}
	return data, nil
}

// decode normalizes key casing and unmarshals data into out.
func decode(data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	norm, err := normalizeKeys(data)
	if err != nil {
		return apperr.Wrap(apperr.KindAPI, "malformed response", err)
	}
	if err := json.Unmarshal(norm, out); err != nil {
		return apperr.Wrap(apperr.KindAPI, "unexpected response shape", err)
	}
	return nil
}

// decodeEnvelope decodes a reply that is either the value itself or an object
// wrapping it under key, e.g. {"bookings": [...]} or {"service": {...}}.
func decodeEnvelope(data []byte, key string, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	norm, err := normalizeKeys(data)
	if err != nil {
		return apperr.Wrap(apperr.KindAPI, "malformed response", err)
	}
	if norm[0] == '{' {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(norm, &env); err == nil {
			if inner, ok := env[key]; ok {
				norm = inner
			}
		}
	}
	if err := json.Unmarshal(norm, out); err != nil {
		return apperr.Wrap(apperr.KindAPI, "unexpected response shape", err)
	}
	return nil
}

// extractMessage pulls a human-readable message out of an error payload.
// It tries the usual fields in order and falls back to a short plain-text body.
func extractMessage(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ""
	}
	if data[0] == '{' {
		norm, err := normalizeKeys(data)
		if err != nil {
			return ""
		}
		var payload map[string]any
		if err := json.Unmarshal(norm, &payload); err != nil {
			return ""
		}
		for _, k := range []string{"message", "error", "title", "detail"} {
			if s, ok := payload[k].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		return ""
	}
	if data[0] != '[' && data[0] != '<' && len(data) <= 200 {
		return string(data)
	}
	return ""
}
