// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	apperr "tripdesk/cli/internal/errors"
	"tripdesk/cli/internal/logging"
	"tripdesk/cli/internal/model"

	"github.com/pterm/pterm"
)

// Fallback messages used when the server gives no reason.
const (
	MsgRegisterFailed = "Registration failed"
	MsgLoginFailed    = "Login failed"
)

// Result is the outcome of a register or login call. Failures never escape as
// errors; they are folded into Success=false with a displayable Error.
type Result struct {
	Success bool
	// Token and User are set by a successful Login.
	Token string
	User  *model.UserProfile
	// Data is the raw (casing-normalized) success payload.
	Data json.RawMessage
	// Error is the message to show the user.
	Error string
	// Err is the underlying cause, for logging and classification.
	Err error
}

func failure(msg string, err error) Result {
	return Result{Error: msg, Err: err}
}

// AuthClient talks to the authentication endpoints. It has no storage side
// effects; persisting a successful login is the caller's job.
type AuthClient struct {
	baseURL string
	client  *http.Client
	log     *pterm.Logger
}

// NewAuthClient creates an auth client. rt is normally a *Transport; the
// Interceptor is deliberately not in this chain.
func NewAuthClient(baseURL string, rt http.RoundTripper, timeout time.Duration, log *pterm.Logger) *AuthClient {
	if log == nil {
		log = logging.Discard()
	}
	return &AuthClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Transport: rt, Timeout: timeout},
		log:     log,
	}
}

// Register calls POST /auth/register. Registration does not sign the user in.
func (a *AuthClient) Register(ctx context.Context, username, email, password string) Result {
	if err := requireFields("username", username, "email", email, "password", password); err != nil {
		return failure(err.Message, err)
	}
	body := map[string]string{"username": strings.TrimSpace(username), "email": strings.TrimSpace(email), "password": password}

	data, _, err := a.post(ctx, "/auth/register", body)
	if err != nil {
		a.log.Debug("register failed", a.log.Args("error", logging.Mask(err.Error())))
		return failure(failureMessage(err, MsgRegisterFailed), err)
	}
	norm, nerr := normalizeKeys(data)
	if nerr != nil {
		norm = nil
	}
	return Result{Success: true, Data: norm}
}

// Login calls POST /auth/login and returns the token and profile on success.
func (a *AuthClient) Login(ctx context.Context, email, password string) Result {
	if err := requireFields("email", email, "password", password); err != nil {
		return failure(err.Message, err)
	}
	email = strings.TrimSpace(email)

	data, resp, err := a.post(ctx, "/auth/login", map[string]string{"email": email, "password": password})
	if err != nil {
		a.log.Debug("login failed", a.log.Args("error", logging.Mask(err.Error())))
		return failure(failureMessage(err, MsgLoginFailed), err)
	}

	norm, err := normalizeKeys(data)
	if err != nil {
		return failure(MsgLoginFailed, apperr.Wrap(apperr.KindAPI, "malformed login response", err))
	}
	var reply struct {
		Token string             `json:"token"`
		User  *model.UserProfile `json:"user"`
	}
	if len(norm) > 0 && norm[0] == '{' {
		_ = json.Unmarshal(norm, &reply)
	}

	token := loginToken(reply.Token, resp)
	if token == "" && len(norm) > 0 {
		var generic any
		if json.Unmarshal(norm, &generic) == nil {
			token = walkToken(generic)
		}
	}
	if token == "" {
		return failure(MsgLoginFailed+": no session token in response", apperr.New(apperr.KindAPI, "no session token in login response"))
	}

	user := reply.User
	if user == nil {
		// Some deployments only return the token; keep the session whole with what we know.
		user = &model.UserProfile{Email: email}
	}
	a.log.Debug("login succeeded", a.log.Args("user", user.Email, "token", logging.TokenHint(token)))
	return Result{Success: true, Token: token, User: user, Data: norm}
}

// post sends a JSON body and returns the reply of a 2xx response along with the response
// itself, whose headers and cookies may carry the token.
func (a *AuthClient) post(ctx context.Context, path string, body any) ([]byte, *http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.KindValidation, "encode request body", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.KindValidation, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.KindTransport, "request failed", err)
	}
	defer resp.Body.Close()

	data, err := readBody(resp.Body, maxBody)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := extractMessage(data)
		e := apperr.HTTP(resp.StatusCode, msg)
		if msg == "" {
			// keep the status text out of the user-facing message
			e.Message = ""
		}
		return nil, nil, e
	}
	return data, resp, nil
}

// failureMessage prefers the server's own message over the fallback.
func failureMessage(err error, fallback string) string {
	if apperr.KindOf(err) == apperr.KindTransport {
		return fallback
	}
	var (
		e   *apperr.E
		msg string
	)
	if errors.As(err, &e) {
		msg = strings.TrimSpace(e.Message)
	}
	if msg == "" {
		return fallback
	}
	return msg
}

// requireFields checks name/value pairs and reports every blank one.
func requireFields(pairs ...string) *apperr.E {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return apperr.New(apperr.KindValidation, "missing required field(s): "+strings.Join(missing, ", "))
}
