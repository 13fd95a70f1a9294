package backend

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/user-admin/internal/model"
)

// AuthService talks to the remote auth endpoints: login, logout, and the
// authenticated caller's own profile.
//
// WHAT THIS SERVICE DOES NOT DO:
//   - It does NOT set or clear cookies (that's the handler's job — HTTP-in concern)
//   - It does NOT decide where the browser navigates next
//
// It returns data or a kinded error; the handler maps those to cookies,
// redirects, and notices.
type AuthService struct {
	client *Client
	logger *slog.Logger
}

// NewAuthService creates an AuthService on top of the shared Client.
func NewAuthService(client *Client, logger *slog.Logger) *AuthService {
	return &AuthService{client: client, logger: logger}
}

// Login posts the credentials unauthenticated and returns the issued session:
// the bearer token plus whatever principal profile the response included.
//
// Failures (wrong password, unreachable backend, token-less payload) come
// back as kinded errors — the caller shows a message and keeps the form as
// it was. Nothing is stored here; persisting the token is the handler's call.
func (s *AuthService) Login(ctx context.Context, creds model.Credentials) (*model.Session, error) {
	raw, err := s.client.do(ctx, http.MethodPost, s.client.authURL("/login"), "", creds)
	if err != nil {
		s.logger.Info("login failed",
			slog.String("email", creds.Email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("logging in: %w", err)
	}

	sess, err := decodeSession(raw)
	if err != nil {
		s.logger.Error("login response could not be decoded", slog.String("error", err.Error()))
		return nil, fmt.Errorf("logging in: %w", err)
	}

	s.logger.Info("login succeeded", slog.String("email", creds.Email))
	return sess, nil
}

// Logout invalidates the session on the remote side.
//
// The local cookie is removed by the handler AFTER this returns, so the
// server is always told first — unless the call itself comes back
// Unauthorized, in which case the token was already dead and the handler's
// 401 teardown clears it anyway.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if _, err := s.client.do(ctx, http.MethodPost, s.client.authURL("/logout"), token, nil); err != nil {
		s.logger.Warn("logout failed", slog.String("error", err.Error()))
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

// CurrentUser fetches the authenticated caller's own profile, used for the
// dashboard header. The remote API exposes this as a POST with an empty
// JSON body.
//
// The profile is fetched once per page load and is NOT kept in sync with
// edits made to the directory — the principal and the directory rows are
// separate records even when they describe the same person.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	raw, err := s.client.do(ctx, http.MethodPost, s.client.authURL("/me"), token, struct{}{})
	if err != nil {
		s.logger.Warn("fetching current user failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("fetching profile: %w", err)
	}

	user, err := decodeUser(raw)
	if err != nil {
		s.logger.Error("profile response could not be decoded", slog.String("error", err.Error()))
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	return user, nil
}
