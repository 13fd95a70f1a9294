package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/user-admin/internal/apperror"
	"github.com/sakif/user-admin/internal/backend"
	"github.com/sakif/user-admin/internal/model"
	"github.com/sakif/user-admin/internal/session"
)

// AuthHandler serves the login page and owns the session lifecycle:
// it is the only code that writes the token cookie.
//
//	HandleLoginPage → render the credential form
//	HandleLogin     → validate, call the auth API, set the cookie, go to /dashboard
//	HandleLogout    → tell the server first, then clear the cookie
type AuthHandler struct {
	render   *Renderer
	auth     *backend.AuthService
	sessions *session.Store
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(render *Renderer, auth *backend.AuthService, sessions *session.Store, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		render:   render,
		auth:     auth,
		sessions: sessions,
		logger:   logger,
	}
}

// loginData feeds the login template. Email is echoed back so a failed
// attempt doesn't wipe the field; the password never is.
type loginData struct {
	Title string
	Email string
	Error string
}

// HandleLoginPage serves the credential form.
//
// HTTP: GET /
//
// A browser that already holds a token goes straight to the dashboard —
// there is nothing to do on the login page with a live session, and if the
// token is actually stale the first dashboard call will bounce it back here.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessions.Get(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.render.Render(w, http.StatusOK, "login", loginData{Title: "Sign in"})
}

// HandleLogin processes the credential form.
//
// HTTP: POST /login
//
// VALIDATION:
// Both fields are whitespace-trimmed and must be non-empty. The form's
// submit button is disabled client-side under the same rule, but the server
// check is the one that counts.
//
// On success the token cookie is set and the browser is redirected to the
// dashboard (303, the post-redirect-get status). On any failure the form is
// re-rendered with a visible message and the email preserved.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render.Render(w, http.StatusBadRequest, "login", loginData{
			Title: "Sign in",
			Error: "The form could not be read. Please try again.",
		})
		return
	}

	creds := model.Credentials{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: strings.TrimSpace(r.PostFormValue("password")),
	}

	if creds.Email == "" || creds.Password == "" {
		h.render.Render(w, http.StatusBadRequest, "login", loginData{
			Title: "Sign in",
			Email: creds.Email,
			Error: "Email and password are both required.",
		})
		return
	}

	sess, err := h.auth.Login(r.Context(), creds)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, apperror.ErrServer) || errors.Is(err, apperror.ErrUnauthorized) {
			// The backend answered; the credentials were the problem.
			status = http.StatusUnauthorized
		}
		h.render.Render(w, status, "login", loginData{
			Title: "Sign in",
			Email: creds.Email,
			Error: errorMessage(err),
		})
		return
	}

	h.sessions.Set(w, sess.Token)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleLogout ends the session.
//
// HTTP: POST /logout
//
// ORDER MATTERS: the server is told first, so it can invalidate the token on
// its side; the local cookie is cleared once the call has completed — whatever
// the answer was. A rejected or failed logout still ends the local session:
// keeping a cookie the user asked to discard helps nobody, and if the server
// said 401 the token was already dead anyway.
//
// WHY POST AND NOT GET?
// Logout is state-changing. A GET would be vulnerable to CSRF and to
// browsers pre-fetching the link.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := h.sessions.Get(r)
	if !ok {
		// No session to end; just make sure the slot is empty.
		h.sessions.Clear(w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := h.auth.Logout(r.Context(), token); err != nil {
		h.logger.Warn("server-side logout failed, clearing local session anyway",
			slog.String("error", err.Error()),
		)
	}

	h.sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// redirectIfUnauthorized is the 401 interception point shared by every
// authenticated handler: on an Unauthorized-kinded error it tears the
// session down (clear cookie, back to the login page) and reports true.
//
// The policy is deliberately aggressive — ANY 401, from any operation,
// terminates the session. Repeating the teardown for a second 401 is a
// harmless no-op: clearing an absent cookie does nothing and the redirect
// is the same.
func redirectIfUnauthorized(w http.ResponseWriter, r *http.Request, sessions *session.Store, err error) bool {
	if !errors.Is(err, apperror.ErrUnauthorized) {
		return false
	}
	sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return true
}
