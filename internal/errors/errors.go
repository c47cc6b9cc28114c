package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrEntryNotFound    = errors.New("watch history entry not found")
	ErrRateLimited      = errors.New("rate limited")
	ErrNetworkError     = errors.New("network error")
	ErrTimeout          = errors.New("request timeout")
	ErrBadResponse      = errors.New("unexpected response from community API")
	ErrConfigNotFound   = errors.New("config file not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
)

// HistError wraps an error with a user-friendly suggestion.
type HistError struct {
	Err        error
	Suggestion string
}

func (e *HistError) Error() string {
	return e.Err.Error()
}

func (e *HistError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &HistError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// Check if it's already a HistError with suggestion
	var histErr *HistError
	if errors.As(err, &histErr) && histErr.Suggestion != "" {
		return histErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	// Authentication errors
	if errors.Is(err, ErrNotAuthenticated) || strings.Contains(errStr, "not authenticated") ||
		strings.Contains(errStr, "invalid token") || strings.Contains(errStr, "401") {
		return "Run 'plexhist auth login' or pass --token with a valid Plex token"
	}

	// Rate limiting
	if errors.Is(err, ErrRateLimited) || strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") {
		return "The community API is throttling requests. Wait a minute and try again"
	}

	// Network errors
	if errors.Is(err, ErrNetworkError) || errors.Is(err, ErrTimeout) ||
		strings.Contains(errStr, "network") || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") {
		return "Check your internet connection and try again"
	}

	// Config errors
	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) {
		return "Check ~/.plexhistrc or run with --config pointing at a valid file"
	}

	// Server errors
	if strings.Contains(errStr, "500") || strings.Contains(errStr, "server error") {
		return "community.plex.tv is having issues. Try again in a moment"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
