package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pherrors "github.com/tessro/plexhist/internal/errors"
)

// Plex.tv endpoints. Variables so tests can point them at a mock server.
var (
	// SignInURL is the plex.tv endpoint for username/password sign-in.
	SignInURL = "https://plex.tv/api/v2/users/signin"

	// UserURL is the plex.tv endpoint for resolving the account behind a token.
	UserURL = "https://plex.tv/api/v2/user"
)

// Product and ClientIdentifier identify this tool to plex.tv.
const (
	Product          = "plexhist"
	ClientIdentifier = "plexhist-cli"
)

// Account represents a signed-in Plex account. The UUID is what the
// community API keys watch history on.
type Account struct {
	Token    string    `json:"token"`
	UUID     string    `json:"uuid"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	SignedIn time.Time `json:"signed_in"`
}

// userResponse is the raw response from the plex.tv user endpoints.
type userResponse struct {
	UUID      string `json:"uuid"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AuthToken string `json:"authToken"`
	Errors    []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// SignIn authenticates with a Plex username and password and returns the
// resulting account, including its auth token.
func SignIn(ctx context.Context, username, password string) (*Account, error) {
	data := url.Values{}
	data.Set("login", username)
	data.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, "POST", SignInURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return requestUser(req)
}

// FetchUser resolves the account behind an existing token. It doubles as
// token validation: an invalid token yields ErrNotAuthenticated.
func FetchUser(ctx context.Context, token string) (*Account, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", UserURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Plex-Token", token)

	account, err := requestUser(req)
	if err != nil {
		return nil, err
	}
	// The user endpoint does not always echo the token back.
	if account.Token == "" {
		account.Token = token
	}
	return account, nil
}

func requestUser(req *http.Request) (*Account, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Product", Product)
	req.Header.Set("X-Plex-Client-Identifier", ClientIdentifier)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("plex.tv request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, pherrors.ErrNotAuthenticated
	}

	var userResp userResponse
	if err := json.Unmarshal(body, &userResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(userResp.Errors) > 0 {
		return nil, fmt.Errorf("plex.tv error %d: %s", userResp.Errors[0].Code, userResp.Errors[0].Message)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if userResp.UUID == "" {
		return nil, fmt.Errorf("plex.tv response missing account uuid")
	}

	return &Account{
		Token:    userResp.AuthToken,
		UUID:     userResp.UUID,
		Username: userResp.Username,
		Email:    userResp.Email,
		SignedIn: time.Now(),
	}, nil
}
