package backend

// PAYLOAD NORMALIZATION:
// The remote API has shipped several response shapes over time. A single
// user has arrived both as {...} and as [{...}]; the user collection both
// as [...] and as [[...]]. Rather than guessing, the helpers below apply one
// explicit rule at the service boundary: if the payload is wrapped in a JSON
// array, unwrap EXACTLY ONE level and require the inside to match. Anything
// else is rejected as a malformed response — never a panic, never a silent
// partial decode.

import (
	"encoding/json"

	"github.com/sakif/user-admin/internal/apperror"
	"github.com/sakif/user-admin/internal/model"
)

// decodeUser normalizes a single-user payload.
// Accepted shapes: {user} or [{user}] (one unwrap). A user without a
// backend-assigned ID is not a user — placeholder IDs never come back out
// of this function.
func decodeUser(raw []byte) (*model.User, error) {
	var user model.User
	if err := json.Unmarshal(raw, &user); err == nil && user.ID != 0 {
		return &user, nil
	}

	var wrapped []model.User
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped) > 0 && wrapped[0].ID != 0 {
		return &wrapped[0], nil
	}

	return nil, apperror.Malformed("expected a user object")
}

// decodeUsers normalizes the user-collection payload.
// Accepted shapes: [users...] or [[users...]] (one unwrap). Order is
// preserved exactly as returned — the dashboard renders rows in response
// order by contract.
func decodeUsers(raw []byte) ([]model.User, error) {
	var users []model.User
	if err := json.Unmarshal(raw, &users); err == nil {
		return users, nil
	}

	var nested [][]model.User
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		return nested[0], nil
	}

	return nil, apperror.Malformed("expected a list of users")
}

// decodeSession normalizes the login payload. The token has been observed
// under both "token" and "access_token" keys; either is accepted, and a
// payload with neither is malformed — there is no session without a token.
func decodeSession(raw []byte) (*model.Session, error) {
	var body struct {
		Token       string      `json:"token"`
		AccessToken string      `json:"access_token"`
		User        *model.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, apperror.Malformed("login response is not an object")
	}

	token := body.Token
	if token == "" {
		token = body.AccessToken
	}
	if token == "" {
		return nil, apperror.Malformed("login response carries no token")
	}

	return &model.Session{Token: token, Principal: body.User}, nil
}
