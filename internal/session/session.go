// Package session manages the bearer-token cookie that carries the user's
// session between the browser and this console.
//
// SESSION MODEL:
// The remote API issues an opaque bearer token on login. That token IS the
// session — there is no server-side session table here. We store it in a
// single named cookie and attach it to every outbound API call. Removing the
// cookie is the entire logout mechanism on this side; the remote API keeps
// its own notion of validity and answers 401 once the token dies.
//
// COOKIE HARDENING:
// HttpOnly = page scripts cannot read the token (XSS protection).
// SameSite=Lax = the cookie rides along on top-level navigations but not on
// cross-site POSTs. Secure is left to the deployment's TLS terminator.
package session

import (
	"net/http"
	"time"
)

// Store reads and writes the token cookie. It is stateless — all state lives
// in the browser — so a single Store is shared by every request.
//
// Store is the ONLY writer of this cookie. Handlers own a *Store; the
// backend client receives tokens as plain arguments and never touches
// cookies, which keeps the write path in one place.
type Store struct {
	name string
	ttl  time.Duration
}

// New creates a Store for the named cookie with the given lifetime.
// The conventional name is "token" and the conventional lifetime is one day.
func New(name string, ttl time.Duration) *Store {
	return &Store{name: name, ttl: ttl}
}

// Set writes the token cookie with the configured expiry.
func (s *Store) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Get returns the token from the request, and whether one was present.
// An empty cookie value counts as absent — there is no such thing as a
// blank session.
func (s *Store) Get(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(s.name)
	if err != nil || cookie.Value == "" {
		// http.ErrNoCookie is the only possible error — not a failure,
		// just an anonymous request.
		return "", false
	}
	return cookie.Value, true
}

// Clear removes the token cookie unconditionally. Clearing an already-absent
// cookie is a harmless no-op, so teardown paths never need to check first.
func (s *Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // tells the browser to delete the cookie immediately
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
