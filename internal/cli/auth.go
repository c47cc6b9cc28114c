package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	pherrors "github.com/tessro/plexhist/internal/errors"
	"github.com/tessro/plexhist/internal/plex/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Plex authentication",
	Long:  `Commands for managing the stored Plex account credentials.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to Plex and store the auth token",
	Long: `Signs in to plex.tv with --username/--password or verifies --token,
then stores the resulting account locally for later runs.`,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored Plex account",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var account *auth.Account
	var err error
	switch {
	case cfg.Plex.Token != "":
		account, err = auth.FetchUser(ctx, cfg.Plex.Token)
	case cfg.Plex.Username != "":
		account, err = auth.SignIn(ctx, cfg.Plex.Username, cfg.Plex.Password)
	default:
		return pherrors.WithSuggestion(pherrors.ErrNotAuthenticated,
			"Pass --token, or --username and --password")
	}
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	storage, err := auth.NewStorage("")
	if err != nil {
		return fmt.Errorf("failed to initialize account storage: %w", err)
	}
	if err := storage.Save(account); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"status":   "authenticated",
			"username": account.Username,
			"uuid":     account.UUID,
		})
	} else {
		NormalF("Signed in as %s", account.Username)
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	storage, err := auth.NewStorage("")
	if err != nil {
		return fmt.Errorf("failed to initialize account storage: %w", err)
	}

	if !storage.Exists() {
		if JSONOutput() {
			_ = json.NewEncoder(os.Stdout).Encode(map[string]string{"status": "not_authenticated"})
		} else {
			Minimal("Not signed in.")
		}
		return nil
	}

	if err := storage.Delete(); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]string{"status": "logged_out"})
	} else {
		Minimal("Signed out.")
	}
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	storage, err := auth.NewStorage("")
	if err != nil {
		return fmt.Errorf("failed to initialize account storage: %w", err)
	}

	account, err := storage.Load()
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}

	if account == nil {
		if JSONOutput() {
			_ = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
				"authenticated": false,
			})
		} else {
			Minimal("Not signed in.")
			Minimal("Run 'plexhist auth login' to sign in.")
		}
		return nil
	}

	// Verify the stored token is still accepted by plex.tv.
	current, err := auth.FetchUser(cmd.Context(), account.Token)
	if err != nil {
		if JSONOutput() {
			_ = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
				"authenticated": true,
				"valid":         false,
				"error":         err.Error(),
			})
		} else {
			NormalF("Stored token may be expired or revoked: %v", err)
			Minimal("Run 'plexhist auth login' to sign in again.")
		}
		return nil
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"authenticated": true,
			"valid":         true,
			"username":      current.Username,
			"uuid":          current.UUID,
		})
	} else {
		NormalF("Signed in as: %s", current.Username)
	}
	return nil
}
