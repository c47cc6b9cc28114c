package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pherrors "github.com/tessro/plexhist/internal/errors"
)

func TestSignIn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("X-Plex-Client-Identifier"); got == "" {
			t.Error("X-Plex-Client-Identifier header missing")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if r.FormValue("login") != "someone" {
			t.Errorf("login = %q, want someone", r.FormValue("login"))
		}
		if r.FormValue("password") != "hunter2" {
			t.Errorf("password = %q, want hunter2", r.FormValue("password"))
		}

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"uuid":      "uuid-123",
			"username":  "someone",
			"email":     "someone@example.com",
			"authToken": "token-456",
		})
	}))
	defer server.Close()

	orig := SignInURL
	SignInURL = server.URL
	defer func() { SignInURL = orig }()

	account, err := SignIn(context.Background(), "someone", "hunter2")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	if account.UUID != "uuid-123" {
		t.Errorf("UUID = %q, want uuid-123", account.UUID)
	}
	if account.Token != "token-456" {
		t.Errorf("Token = %q, want token-456", account.Token)
	}
	if account.Username != "someone" {
		t.Errorf("Username = %q, want someone", account.Username)
	}
}

func TestSignInBadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{"code": 1001, "message": "Invalid email, username, or password."}},
		})
	}))
	defer server.Close()

	orig := SignInURL
	SignInURL = server.URL
	defer func() { SignInURL = orig }()

	_, err := SignIn(context.Background(), "someone", "wrong")
	if !errors.Is(err, pherrors.ErrNotAuthenticated) {
		t.Errorf("SignIn() error = %v, want ErrNotAuthenticated", err)
	}
}

func TestFetchUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Plex-Token"); got != "token-456" {
			t.Errorf("X-Plex-Token = %q, want token-456", got)
		}
		// plex.tv does not echo the token back from this endpoint
		_ = json.NewEncoder(w).Encode(map[string]any{
			"uuid":     "uuid-123",
			"username": "someone",
		})
	}))
	defer server.Close()

	orig := UserURL
	UserURL = server.URL
	defer func() { UserURL = orig }()

	account, err := FetchUser(context.Background(), "token-456")
	if err != nil {
		t.Fatalf("FetchUser() error = %v", err)
	}

	if account.Token != "token-456" {
		t.Errorf("Token = %q, want the supplied token carried over", account.Token)
	}
	if account.UUID != "uuid-123" {
		t.Errorf("UUID = %q, want uuid-123", account.UUID)
	}
}

func TestFetchUserMissingUUID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"username": "someone"})
	}))
	defer server.Close()

	orig := UserURL
	UserURL = server.URL
	defer func() { UserURL = orig }()

	if _, err := FetchUser(context.Background(), "token-456"); err == nil {
		t.Error("FetchUser() error = nil, want failure on missing uuid")
	}
}
