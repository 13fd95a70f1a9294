package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/user-admin/internal/backend"
	"github.com/sakif/user-admin/internal/model"
	"github.com/sakif/user-admin/internal/session"
)

// DashboardHandler serves the admin dashboard: the user table plus the
// create/edit/delete form actions that drive it.
//
// Every action here follows post-redirect-get: the form posts, the handler
// calls the directory service, sets a flash notice, and redirects back to
// GET /dashboard, which re-fetches the list. The remote API stays the single
// source of truth — there is no locally cached list to fall out of sync.
type DashboardHandler struct {
	render   *Renderer
	auth     *backend.AuthService
	users    *backend.UserService
	sessions *session.Store
	logger   *slog.Logger
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(
	render *Renderer,
	auth *backend.AuthService,
	users *backend.UserService,
	sessions *session.Store,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		render:   render,
		auth:     auth,
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

// Form validation failures shown to the user verbatim.
var (
	errFormUnreadable = errors.New("The form could not be read. Please try again.")
	errEmailRequired  = errors.New("An email address is required.")
)

// dashboardData feeds the dashboard template.
type dashboardData struct {
	Title     string
	Principal *model.User // header identity; nil renders a generic header
	Users     []model.User
	Flash     *Flash
	LoadError string // non-empty when the list fetch failed
}

// HandleDashboard renders the dashboard page.
//
// HTTP: GET /dashboard (behind the session guard)
//
// CONCURRENT LOAD:
// The principal (header identity) and the user list are independent reads
// against the remote API, so they are fetched in parallel; neither waits for
// the other and either may finish first. A failed principal fetch degrades
// the header, a failed list fetch renders an empty table with an error
// notice — but a 401 from EITHER tears the session down.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	token, ok := h.sessions.Get(r)
	if !ok {
		// The guard already checks this; belt and braces for direct mounts.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	var (
		wg        sync.WaitGroup
		principal *model.User
		prinErr   error
		users     []model.User
		listErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		principal, prinErr = h.auth.CurrentUser(r.Context(), token)
	}()
	go func() {
		defer wg.Done()
		users, listErr = h.users.List(r.Context(), token)
	}()
	wg.Wait()

	if redirectIfUnauthorized(w, r, h.sessions, prinErr) ||
		redirectIfUnauthorized(w, r, h.sessions, listErr) {
		return
	}

	data := dashboardData{
		Title:     "Admin Panel",
		Principal: principal,
		Users:     users,
		Flash:     popFlash(w, r),
	}
	if listErr != nil {
		data.LoadError = errorMessage(listErr)
	}

	h.render.Render(w, http.StatusOK, "dashboard", data)
}

// HandleUserCreate creates a directory entry from the modal form.
//
// HTTP: POST /dashboard/users
//
// The password travels exactly once, here. The created record's ID comes
// from the server; if the response can't be normalized into a real record
// the action is reported as failed and the table is left untouched.
func (h *DashboardHandler) HandleUserCreate(w http.ResponseWriter, r *http.Request) {
	token, ok := h.sessions.Get(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	draft, err := draftFromForm(r)
	if err != nil {
		setFlash(w, "error", err.Error())
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	if draft.Password == "" {
		setFlash(w, "error", "A password is required for a new user.")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	created, err := h.users.Create(r.Context(), token, draft)
	if err != nil {
		if redirectIfUnauthorized(w, r, h.sessions, err) {
			return
		}
		setFlash(w, "error", errorMessage(err))
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	setFlash(w, "success", "User "+created.FullName()+" created.")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleUserUpdate saves edits to an existing entry.
//
// HTTP: POST /dashboard/users/{id}
//
// The ID in the URL is the immutable backend-assigned one; the password
// field is create-only and is ignored here even if submitted.
func (h *DashboardHandler) HandleUserUpdate(w http.ResponseWriter, r *http.Request) {
	token, ok := h.sessions.Get(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		setFlash(w, "error", "Invalid user ID.")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	user, err := draftFromForm(r)
	if err != nil {
		setFlash(w, "error", err.Error())
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	user.ID = id
	user.Password = "" // create-only field, never re-sent on edit

	updated, err := h.users.Update(r.Context(), token, user)
	if err != nil {
		if redirectIfUnauthorized(w, r, h.sessions, err) {
			return
		}
		setFlash(w, "error", errorMessage(err))
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	setFlash(w, "success", "User "+updated.FullName()+" updated.")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleUserDelete removes an entry.
//
// HTTP: POST /dashboard/users/{id}/delete
//
// The row disappears only because the redirect re-fetches a list that no
// longer contains it — nothing is removed on this side until the server has
// confirmed. A server-reported error surfaces the server's own message;
// transport failures get the generic phrasing.
func (h *DashboardHandler) HandleUserDelete(w http.ResponseWriter, r *http.Request) {
	token, ok := h.sessions.Get(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		setFlash(w, "error", "Invalid user ID.")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	if err := h.users.Delete(r.Context(), token, id); err != nil {
		if redirectIfUnauthorized(w, r, h.sessions, err) {
			return
		}
		setFlash(w, "error", errorMessage(err))
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	setFlash(w, "success", "User deleted.")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// draftFromForm builds a user draft from the modal form fields.
// Email is the one hard requirement — the directory is keyed by people, and
// a person without an email can't log in to anything.
func draftFromForm(r *http.Request) (model.User, error) {
	if err := r.ParseForm(); err != nil {
		return model.User{}, errFormUnreadable
	}

	draft := model.User{
		FirstName:   strings.TrimSpace(r.PostFormValue("first_name")),
		LastName:    strings.TrimSpace(r.PostFormValue("last_name")),
		PhoneNumber: strings.TrimSpace(r.PostFormValue("phone_number")),
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		Password:    r.PostFormValue("password"), // never trimmed — spaces are legal in passwords
	}

	if draft.Email == "" {
		return model.User{}, errEmailRequired
	}
	return draft, nil
}
