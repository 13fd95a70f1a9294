// Package model defines the data structures used throughout the application.
package model

// User represents one entry in the remote user directory.
//
// The JSON tags mirror the remote API's wire shape exactly (snake_case).
// The console never owns user records — it only displays and edits what the
// remote API returns, so there is no local ID scheme: ID is whatever integer
// the backend assigned, and 0 means "not yet created".
//
// WHY Password string (not omitted entirely)?
// The password is a write-only field: it is sent when creating a user and
// (optionally) when updating one, but the backend never returns it. The
// `omitempty` tag keeps it out of update payloads when the form leaves it
// blank, and templates never render it.
type User struct {
	ID          int    `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Password    string `json:"password,omitempty"` // write-only, never displayed
}

// FullName is used by the dashboard header and table rows.
func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Credentials is the login form payload, posted to the remote auth API.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the decoded login response: the bearer token the console must
// hold on to, plus whatever profile the auth API chose to include.
//
// Backends have been observed returning the token under either "token" or
// "access_token"; Token is normalized from whichever is present.
type Session struct {
	Token     string `json:"token"`
	Principal *User  `json:"user,omitempty"`
}
