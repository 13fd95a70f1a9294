// Package handler contains the HTTP handlers for the console's pages and
// form actions. Handlers own everything HTTP-in: parsing forms, reading and
// writing the session cookie, flash notices, redirects, and rendering. All
// remote data comes from the backend services, which know nothing about any
// of that.
package handler

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/sakif/user-admin/internal/apperror"
)

// Renderer holds the parsed page templates.
//
// Each page is its own template set (base.html + the page's content block),
// parsed once at startup. Parsing per page rather than all-together lets
// every page define the same "content" block name without collisions.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewRenderer parses all page templates from templateDir.
func NewRenderer(templateDir string, logger *slog.Logger) (*Renderer, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{"login", "dashboard"} {
		tmpl, err := template.ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, name+".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("parsing %s templates: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages, logger: logger}, nil
}

// Render executes the named page with the given data.
func (re *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := re.pages[page]
	if !ok {
		re.logger.Error("unknown page template", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		// Headers are already sent at this point; all we can do is log.
		re.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}

// Flash is a one-shot notice carried across a post-redirect-get cycle.
// Kind is "success" or "error" and picks the toast styling; the page script
// hides the toast two seconds after load.
type Flash struct {
	Kind    string
	Message string
}

const flashCookie = "flash"

// setFlash stores the notice in a short-lived cookie for the next page load.
// Cookie values cannot contain spaces or separators, so the payload is
// query-escaped.
func setFlash(w http.ResponseWriter, kind, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + "|" + message),
		Path:     "/",
		MaxAge:   60, // long enough to survive the redirect, nothing more
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the pending notice, if any.
func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	// One-shot: clear it as soon as it is read.
	http.SetCookie(w, &http.Cookie{
		Name:   flashCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	kind, message, ok := strings.Cut(raw, "|")
	if !ok {
		return nil
	}
	return &Flash{Kind: kind, Message: message}
}

// errorMessage turns a backend error into the text shown to the user.
// Server-kinded errors carry the remote API's own message; the rest get a
// stable generic phrasing.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrServer), errors.Is(err, apperror.ErrValidation):
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return appErr.Message
		}
	case errors.Is(err, apperror.ErrNetwork):
		return "The server could not be reached. Please try again."
	case errors.Is(err, apperror.ErrMalformed):
		return "The server sent an unexpected response. Please try again."
	}
	return "Something went wrong. Please try again."
}
