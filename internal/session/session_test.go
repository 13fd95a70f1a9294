package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestStore() *Store {
	return New("token", 24*time.Hour)
}

// requestWithCookies replays the Set-Cookie headers from a recorder onto a
// fresh request, the way a browser would on the next navigation.
func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			req.AddCookie(c)
		}
	}
	return req
}

func TestSetThenGet(t *testing.T) {
	store := newTestStore()
	rec := httptest.NewRecorder()

	store.Set(rec, "abc123")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != "token" || c.Value != "abc123" {
		t.Errorf("cookie = %s=%s, want token=abc123", c.Name, c.Value)
	}
	if !c.HttpOnly {
		t.Error("cookie is not HttpOnly")
	}
	if c.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Errorf("MaxAge = %d, want one day", c.MaxAge)
	}

	token, ok := store.Get(requestWithCookies(t, rec))
	if !ok || token != "abc123" {
		t.Errorf("Get() = (%q, %v), want (abc123, true)", token, ok)
	}
}

func TestGetAbsent(t *testing.T) {
	store := newTestStore()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if token, ok := store.Get(req); ok {
		t.Errorf("Get() on bare request = (%q, true), want absent", token)
	}
}

func TestGetTreatsEmptyValueAsAbsent(t *testing.T) {
	store := newTestStore()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: ""})

	if _, ok := store.Get(req); ok {
		t.Error("Get() with empty cookie value = present, want absent")
	}
}

func TestClearExpiresCookie(t *testing.T) {
	store := newTestStore()
	rec := httptest.NewRecorder()

	store.Clear(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	if cookies[0].MaxAge != -1 {
		t.Errorf("MaxAge = %d, want -1 (delete)", cookies[0].MaxAge)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	store := newTestStore()
	rec := httptest.NewRecorder()

	// Two independent teardowns of the same slot (e.g. a 401 arriving after
	// the user already logged out) must both succeed quietly.
	store.Clear(rec)
	store.Clear(rec)

	for _, c := range rec.Result().Cookies() {
		if c.MaxAge != -1 {
			t.Errorf("MaxAge = %d, want -1 on every clear", c.MaxAge)
		}
	}
}
