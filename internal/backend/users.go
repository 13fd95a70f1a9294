package backend

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/user-admin/internal/model"
)

// UserService drives the remote user directory: the flat collection of user
// records keyed by backend-assigned integer ID. Every operation here is
// authenticated — the caller supplies the session token explicitly.
type UserService struct {
	client *Client
	logger *slog.Logger
}

// NewUserService creates a UserService on top of the shared Client.
func NewUserService(client *Client, logger *slog.Logger) *UserService {
	return &UserService{client: client, logger: logger}
}

// List fetches the full user collection, in the order the server returned it.
//
// A failure is logged and returned as a kinded error; callers that only care
// about "show what you can" render an empty table plus a notice rather than
// failing the whole page.
func (s *UserService) List(ctx context.Context, token string) ([]model.User, error) {
	raw, err := s.client.do(ctx, http.MethodGet, s.client.apiURL("/users"), token, nil)
	if err != nil {
		s.logger.Warn("listing users failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}

	users, err := decodeUsers(raw)
	if err != nil {
		s.logger.Error("user list response could not be decoded", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// Create posts a new user draft (password included — creation is the one
// time the password travels) and returns the record as the server stored it.
//
// The draft's ID is a local placeholder and is zeroed before sending; the
// server assigns the real one. If the response cannot be normalized into a
// user with a server-assigned ID, the create is reported as malformed and
// NOTHING is appended locally — an invented local ID would collide with a
// real one sooner or later.
func (s *UserService) Create(ctx context.Context, token string, draft model.User) (*model.User, error) {
	draft.ID = 0
	raw, err := s.client.do(ctx, http.MethodPost, s.client.apiURL("/users"), token, draft)
	if err != nil {
		s.logger.Warn("creating user failed",
			slog.String("email", draft.Email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	created, err := decodeUser(raw)
	if err != nil {
		s.logger.Error("create response could not be decoded", slog.String("error", err.Error()))
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user created",
		slog.Int("id", created.ID),
		slog.String("email", created.Email),
	)
	return created, nil
}

// Update puts the edited record, keyed by its immutable ID.
//
// The password field is create-only in the edit form; when it is blank the
// JSON encoding omits it entirely (omitempty), so the backend keeps the
// stored credential untouched.
func (s *UserService) Update(ctx context.Context, token string, user model.User) (*model.User, error) {
	if user.ID == 0 {
		return nil, fmt.Errorf("updating user: record has no ID")
	}

	url := s.client.apiURL(fmt.Sprintf("/users/%d", user.ID))
	raw, err := s.client.do(ctx, http.MethodPut, url, token, user)
	if err != nil {
		s.logger.Warn("updating user failed",
			slog.Int("id", user.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating user: %w", err)
	}

	updated, err := decodeUser(raw)
	if err != nil {
		// Some backend versions answer a PUT with a bare acknowledgement
		// instead of the record. The caller already has the edited values;
		// echo them back rather than failing a write that succeeded.
		return &user, nil
	}
	return updated, nil
}

// Delete removes the record with the given ID.
//
// The distinction the dashboard needs: nil means the row is gone and may be
// dropped locally; a Server-kinded error carries the backend's own message
// ("user has open invoices", ...) for the notice; anything else is a generic
// transient failure. The row is never removed locally on any error.
func (s *UserService) Delete(ctx context.Context, token string, id int) error {
	url := s.client.apiURL(fmt.Sprintf("/users/%d", id))
	if _, err := s.client.do(ctx, http.MethodDelete, url, token, nil); err != nil {
		s.logger.Warn("deleting user failed",
			slog.Int("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting user: %w", err)
	}

	s.logger.Info("user deleted", slog.Int("id", id))
	return nil
}
