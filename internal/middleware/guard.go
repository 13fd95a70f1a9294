package middleware

import (
	"net/http"
	"strings"

	"github.com/sakif/user-admin/internal/session"
)

// Guard redirects unauthenticated browsers away from the dashboard.
//
// The rule is deliberately small — a two-outcome decision made before any
// handler runs:
//
//	path is /dashboard (or below) AND no token cookie → 303 redirect to "/"
//	anything else                                     → pass through untouched
//
// PRESENCE, NOT VALIDITY:
// The guard checks only that a token cookie exists. It cannot tell a live
// token from an expired one — the remote API is the sole authority on that,
// and a stale token is caught on the first backend call, which answers 401
// and triggers the full session teardown. Validating here would require a
// network round-trip per navigation for no real gain.
func Guard(store *session.Store, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isProtected(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if _, ok := store.Get(r); !ok {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isProtected reports whether the path belongs to the guarded dashboard
// area. "/dashboard" and everything below it (the create/update/delete form
// posts) are protected; every other path passes unconditionally.
func isProtected(path string) bool {
	return path == "/dashboard" || strings.HasPrefix(path, "/dashboard/")
}
