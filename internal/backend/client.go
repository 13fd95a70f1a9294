// Package backend is the outbound HTTP layer: everything this console knows
// about the remote user-management API lives here.
//
// LAYERING:
// Handlers (HTTP in) → AuthService / UserService (operations) → Client (HTTP out)
//
// The Client is a thin wrapper around net/http that owns the cross-cutting
// request concerns: JSON encoding, bearer-token attachment, request
// correlation IDs, and translating every possible outcome into exactly one
// apperror kind. The services above it only ever see:
//
//	transport failure   → apperror.ErrNetwork
//	401 from anywhere   → apperror.ErrUnauthorized
//	other non-2xx       → apperror.ErrServer (with the server's message)
//	unusable 2xx body   → apperror.ErrMalformed (from the decode helpers)
//
// TOKEN DISCIPLINE:
// The token is a plain argument. The Client never reads cookies or any other
// ambient state — whoever holds the session (the handler layer) passes the
// token down explicitly, so there is a single writer and an obvious data flow.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/user-admin/internal/apperror"
	"github.com/sakif/user-admin/internal/config"
)

// maxResponseBytes caps how much of a response body we will buffer.
// The user list for this console is small; anything past 4 MiB is a bug
// or an attack, not data.
const maxResponseBytes = 4 << 20

// Client issues requests against the remote API.
type Client struct {
	authBase string
	apiBase  string
	http     *http.Client
	logger   *slog.Logger
}

// NewClient creates a Client for the configured remote endpoints.
// The per-request timeout comes from config; there is no retry — a failed
// call is reported to the user, who decides whether to try again.
func NewClient(cfg config.RemoteConfig, logger *slog.Logger) *Client {
	return &Client{
		authBase: cfg.AuthBaseURL,
		apiBase:  cfg.APIBaseURL,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
}

// authURL joins a path onto the auth API base ("/login" → ".../api/auth/login").
func (c *Client) authURL(path string) string { return c.authBase + path }

// apiURL joins a path onto the directory API base.
func (c *Client) apiURL(path string) string { return c.apiBase + path }

// do sends one JSON request and returns the raw response body.
//
// token == "" means the call is unauthenticated (login is the only one).
// body == nil means no request body.
//
// ERROR MAPPING (the heart of this package):
//   - The request never completes → Network. Connection refused, DNS failure
//     and client-side timeout all land here; none of them carry a status.
//   - 401 → Unauthorized, regardless of which operation was in flight. The
//     handler layer reacts by tearing the session down — aggressively, on
//     purpose: a dead token is dead for every endpoint.
//   - Any other non-2xx → Server, with the body's "message" (or "error")
//     field when it parses, the HTTP status text when it doesn't.
func (c *Client) do(ctx context.Context, method, url, token string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("backend: encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("backend: building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// Correlation ID so a failing call can be matched against the remote
	// API's logs. xid values are sortable and unique without coordination.
	req.Header.Set("X-Request-ID", xid.New().String())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed before a response arrived",
			slog.String("method", method),
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Network(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperror.Network(err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Warn("remote API rejected the session",
			slog.String("method", method),
			slog.String("url", url),
		)
		return nil, apperror.Unauthorized()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := serverMessage(raw, resp.StatusCode)
		c.logger.Warn("remote API returned an error",
			slog.String("method", method),
			slog.String("url", url),
			slog.Int("status", resp.StatusCode),
			slog.String("message", msg),
		)
		return nil, apperror.Server(resp.StatusCode, msg)
	}

	return raw, nil
}

// serverMessage extracts the human-readable message from an error body.
// The remote API uses {"message": "..."} but some endpoints have been seen
// using {"error": "..."}; failing both, the status text stands in.
func serverMessage(raw []byte, status int) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fmt.Sprintf("HTTP %d %s", status, http.StatusText(status))
}
