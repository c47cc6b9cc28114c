package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultAccountFileName is the default name for the stored account file.
	DefaultAccountFileName = "account.json"
)

// Storage handles persisting the signed-in account to disk.
type Storage struct {
	path string
}

// NewStorage creates account storage at the specified path.
// If path is empty, uses the default location (~/.config/plexhist/account.json).
func NewStorage(path string) (*Storage, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		path = filepath.Join(configDir, "plexhist", DefaultAccountFileName)
	}

	return &Storage{path: path}, nil
}

// Save persists an account to disk.
func (s *Storage) Save(account *Account) error {
	// Ensure directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(account, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	// Write with restricted permissions (owner only)
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write account file: %w", err)
	}

	return nil
}

// Load reads the stored account from disk.
func (s *Storage) Load() (*Account, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No account stored yet
		}
		return nil, fmt.Errorf("failed to read account file: %w", err)
	}

	var account Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, fmt.Errorf("failed to parse account file: %w", err)
	}

	return &account, nil
}

// Delete removes the stored account.
func (s *Storage) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete account file: %w", err)
	}
	return nil
}

// Exists returns true if an account file exists.
func (s *Storage) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the path to the account file.
func (s *Storage) Path() string {
	return s.path
}
