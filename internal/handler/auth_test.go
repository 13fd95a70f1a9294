package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/user-admin/internal/backend"
	"github.com/sakif/user-admin/internal/config"
	"github.com/sakif/user-admin/internal/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	render, err := NewRenderer("../../web/templates", testLogger())
	require.NoError(t, err)
	return render
}

func testSessions() *session.Store {
	return session.New("token", 24*time.Hour)
}

// newAuthHandler wires an AuthHandler against a stub remote API.
func newAuthHandler(t *testing.T, remote *httptest.Server) *AuthHandler {
	t.Helper()
	client := backend.NewClient(config.RemoteConfig{
		AuthBaseURL: remote.URL + "/api/auth",
		APIBaseURL:  remote.URL + "/api",
		Timeout:     5 * time.Second,
	}, testLogger())
	return NewAuthHandler(testRenderer(t), backend.NewAuthService(client, testLogger()), testSessions(), testLogger())
}

func loginForm(email, password string) *http.Request {
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}

func TestHandleLoginSuccess(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		w.Write([]byte(`{"token":"abc123"}`))
	}))
	defer remote.Close()

	h := newAuthHandler(t, remote)
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, loginForm("john@example.com", "secret"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	c := sessionCookie(rec)
	require.NotNil(t, c, "login must set the token cookie")
	assert.Equal(t, "abc123", c.Value)
	assert.True(t, c.HttpOnly)
}

func TestHandleLoginValidation(t *testing.T) {
	tests := []struct {
		name            string
		email, password string
	}{
		{"both empty", "", ""},
		{"email only", "john@example.com", ""},
		{"password only", "", "secret"},
		{"whitespace counts as empty", "   ", "\t"},
	}

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no network call may be made for an invalid form")
	}))
	defer remote.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAuthHandler(t, remote)
			rec := httptest.NewRecorder()
			h.HandleLogin(rec, loginForm(tt.email, tt.password))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, sessionCookie(rec), "no session on validation failure")
			assert.Contains(t, rec.Body.String(), "required")
		})
	}
}

func TestHandleLoginRejectedCredentials(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid credentials"}`))
	}))
	defer remote.Close()

	h := newAuthHandler(t, remote)
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, loginForm("john@example.com", "wrong"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, sessionCookie(rec))
	// The server's message is surfaced and the email survives the round trip.
	assert.Contains(t, rec.Body.String(), "invalid credentials")
	assert.Contains(t, rec.Body.String(), "john@example.com")
}

func TestHandleLoginBackendDown(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	remote.Close()

	h := newAuthHandler(t, remote)
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, loginForm("john@example.com", "secret"))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Nil(t, sessionCookie(rec))
	assert.Contains(t, rec.Body.String(), "could not be reached")
}

func TestHandleLoginPageRedirectsExistingSession(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer remote.Close()

	h := newAuthHandler(t, remote)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "abc123"})
	rec := httptest.NewRecorder()
	h.HandleLoginPage(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestHandleLogoutTellsServerThenClears(t *testing.T) {
	var serverCalled bool
	var gotAuth string
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/logout", r.URL.Path)
		serverCalled = true
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"message":"logged out"}`))
	}))
	defer remote.Close()

	h := newAuthHandler(t, remote)
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "abc123"})
	rec := httptest.NewRecorder()
	h.HandleLogout(rec, req)

	assert.True(t, serverCalled, "the server must be told before local cleanup")
	assert.Equal(t, "Bearer abc123", gotAuth)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	c := sessionCookie(rec)
	require.NotNil(t, c)
	assert.Equal(t, -1, c.MaxAge, "token cookie must be deleted")
}

func TestHandleLogoutWithoutSession(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no network call without a token")
	}))
	defer remote.Close()

	h := newAuthHandler(t, remote)
	rec := httptest.NewRecorder()
	h.HandleLogout(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestHandleLogoutClearsEvenWhenServerErrors(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer remote.Close()

	h := newAuthHandler(t, remote)
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "abc123"})
	rec := httptest.NewRecorder()
	h.HandleLogout(rec, req)

	c := sessionCookie(rec)
	require.NotNil(t, c)
	assert.Equal(t, -1, c.MaxAge)
}
