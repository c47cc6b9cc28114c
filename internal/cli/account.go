package cli

import (
	"context"
	"time"

	pherrors "github.com/tessro/plexhist/internal/errors"
	"github.com/tessro/plexhist/internal/history"
	"github.com/tessro/plexhist/internal/plex/auth"
	"github.com/tessro/plexhist/internal/plex/community"
)

// resolveAccount produces the Plex account to operate on. Precedence:
// explicit token, username/password pair, then the account stored by
// 'plexhist auth login'.
func resolveAccount(ctx context.Context) (*auth.Account, error) {
	if cfg.Plex.Token != "" {
		return auth.FetchUser(ctx, cfg.Plex.Token)
	}

	if cfg.Plex.Username != "" {
		return auth.SignIn(ctx, cfg.Plex.Username, cfg.Plex.Password)
	}

	storage, err := auth.NewStorage("")
	if err != nil {
		return nil, err
	}
	account, err := storage.Load()
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, pherrors.WithSuggestion(pherrors.ErrNotAuthenticated,
			"Run 'plexhist auth login', or pass --token or --username/--password")
	}
	return account, nil
}

// newCommunityClient builds the community API client for an account.
func newCommunityClient(account *auth.Account) *community.Client {
	return community.New(community.Options{
		Endpoint:       cfg.Plex.URL,
		Token:          account.Token,
		UUID:           account.UUID,
		MaxAttempts:    cfg.Retry.MaxAttempts,
		InitialBackoff: time.Duration(cfg.Retry.InitialBackoffMs) * time.Millisecond,
		MaxBackoff:     time.Duration(cfg.Retry.MaxBackoffMs) * time.Millisecond,
		Logger:         log,
	})
}

// historyOptions maps config onto the history layer's pacing knobs.
func historyOptions(pageSize int) history.Options {
	if pageSize <= 0 {
		pageSize = cfg.History.PageSize
	}
	return history.Options{
		PageSize:    pageSize,
		PageDelay:   time.Duration(cfg.History.PageDelayMs) * time.Millisecond,
		DeleteDelay: time.Duration(cfg.History.DeleteDelayMs) * time.Millisecond,
		Logger:      log,
	}
}
