package history

import (
	"context"
	"errors"
	"fmt"

	pherrors "github.com/tessro/plexhist/internal/errors"
	"github.com/tessro/plexhist/internal/plex/community"
)

// Deleter removes watch-history entries one at a time. Deleting entries
// invalidates pagination cursors server-side, so DeleteAll always
// re-fetches the first page rather than resuming a cursor.
type Deleter struct {
	pager Pager
	opts  Options

	// OnEntry, if set, is called for every entry before its deletion is
	// attempted, and OnResult after, with the per-entry outcome.
	OnEntry  func(entry community.WatchHistoryEntry)
	OnResult func(entry community.WatchHistoryEntry, err error)
}

// Result summarizes a DeleteAll run.
type Result struct {
	Deleted int
	Failed  int
}

// NewDeleter creates a deleter for the account's watch history.
func NewDeleter(pager Pager, opts Options) *Deleter {
	opts.applyDefaults()
	return &Deleter{pager: pager, opts: opts}
}

// DeleteEntry deletes a single entry. An entry the server no longer
// knows about counts as already deleted and is not an error.
func (d *Deleter) DeleteEntry(ctx context.Context, id string) error {
	removed, err := d.pager.Remove(ctx, id)
	if err != nil {
		if errors.Is(err, pherrors.ErrEntryNotFound) {
			return nil
		}
		return err
	}
	if !removed {
		// The server answers false for ids it has already forgotten.
		d.opts.Logger.Warn().Str("id", id).Msg("entry already removed")
	}
	return nil
}

// DeleteAll deletes the entire watch history. Individual entry failures
// are logged and skipped; the run keeps going until a fetch returns an
// empty page. It returns an error alongside the partial Result if a
// fetch fails or no forward progress is possible.
func (d *Deleter) DeleteAll(ctx context.Context) (Result, error) {
	var res Result

	for {
		page, err := d.pager.FetchPage(ctx, "", d.opts.PageSize)
		if err != nil {
			return res, fmt.Errorf("fetching history page: %w", err)
		}
		if len(page.Nodes) == 0 {
			return res, nil
		}

		d.opts.Logger.Info().Int("entries", len(page.Nodes)).Msg("deleting watch history entries")

		deletedThisRound := 0
		for i, entry := range page.Nodes {
			if i > 0 || res.Deleted+res.Failed > 0 {
				// Pause between mutations to avoid API rate limiting.
				if err := sleep(ctx, d.opts.DeleteDelay); err != nil {
					return res, err
				}
			}

			if d.OnEntry != nil {
				d.OnEntry(entry)
			}

			err := d.DeleteEntry(ctx, entry.ID)
			if err != nil {
				if ctx.Err() != nil {
					return res, ctx.Err()
				}
				res.Failed++
				d.opts.Logger.Error().Err(err).Str("id", entry.ID).Msg("failed to delete entry")
			} else {
				res.Deleted++
				deletedThisRound++
			}

			if d.OnResult != nil {
				d.OnResult(entry, err)
			}
		}

		if deletedThisRound == 0 {
			// Every entry on the page failed; refetching would spin on
			// the same nodes forever.
			return res, fmt.Errorf("no progress deleting history: %d entries failed", len(page.Nodes))
		}
	}
}
