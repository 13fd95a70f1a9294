package backend

import (
	"errors"
	"testing"

	"github.com/sakif/user-admin/internal/apperror"
)

func TestDecodeUserUnwrapsOneArrayLevel(t *testing.T) {
	plain := []byte(`{"id":7,"first_name":"Jane","last_name":"Smith","email":"jane@example.com"}`)
	wrapped := []byte(`[{"id":7,"first_name":"Jane","last_name":"Smith","email":"jane@example.com"}]`)

	for _, raw := range [][]byte{plain, wrapped} {
		user, err := decodeUser(raw)
		if err != nil {
			t.Fatalf("decodeUser(%s) error = %v", raw, err)
		}
		if user.ID != 7 || user.FirstName != "Jane" {
			t.Errorf("decodeUser(%s) = %+v, want id=7 Jane", raw, user)
		}
	}
}

func TestDecodeUserRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty array", `[]`},
		{"zero id", `{"id":0,"email":"x@y.z"}`},
		{"scalar", `42`},
		{"double-nested", `[[{"id":7}]]`}, // only ONE unwrap level is allowed
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeUser([]byte(tt.raw)); !errors.Is(err, apperror.ErrMalformed) {
				t.Errorf("decodeUser(%s) error = %v, want ErrMalformed", tt.raw, err)
			}
		})
	}
}

func TestDecodeUsersPreservesOrder(t *testing.T) {
	raw := []byte(`[{"id":2,"email":"b@x.y"},{"id":1,"email":"a@x.y"}]`)

	users, err := decodeUsers(raw)
	if err != nil {
		t.Fatalf("decodeUsers() error = %v", err)
	}
	if len(users) != 2 || users[0].ID != 2 || users[1].ID != 1 {
		t.Errorf("decodeUsers() = %+v, want response order [2, 1]", users)
	}
}

func TestDecodeUsersUnwrapsNestedCollection(t *testing.T) {
	raw := []byte(`[[{"id":1,"email":"a@x.y"},{"id":2,"email":"b@x.y"}]]`)

	users, err := decodeUsers(raw)
	if err != nil {
		t.Fatalf("decodeUsers() error = %v", err)
	}
	if len(users) != 2 {
		t.Errorf("got %d users, want 2", len(users))
	}
}

func TestDecodeUsersRejectsNonLists(t *testing.T) {
	for _, raw := range []string{`{"id":1}`, `"nope"`} {
		if _, err := decodeUsers([]byte(raw)); !errors.Is(err, apperror.ErrMalformed) {
			t.Errorf("decodeUsers(%s) error = %v, want ErrMalformed", raw, err)
		}
	}
}

func TestDecodeSessionAcceptsEitherTokenKey(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"token key", `{"token":"abc123"}`},
		{"access_token key", `{"access_token":"abc123"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := decodeSession([]byte(tt.raw))
			if err != nil {
				t.Fatalf("decodeSession() error = %v", err)
			}
			if sess.Token != "abc123" {
				t.Errorf("Token = %q, want abc123", sess.Token)
			}
		})
	}
}

func TestDecodeSessionRejectsTokenlessPayloads(t *testing.T) {
	for _, raw := range []string{`{}`, `{"token":""}`, `[1,2]`} {
		if _, err := decodeSession([]byte(raw)); !errors.Is(err, apperror.ErrMalformed) {
			t.Errorf("decodeSession(%s) error = %v, want ErrMalformed", raw, err)
		}
	}
}
