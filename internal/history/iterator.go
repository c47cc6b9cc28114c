package history

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	pherrors "github.com/tessro/plexhist/internal/errors"
	"github.com/tessro/plexhist/internal/plex/community"
)

// Pager is the slice of the community client the history layer needs.
type Pager interface {
	// FetchPage fetches one page of history. An empty cursor fetches the
	// first page.
	FetchPage(ctx context.Context, after string, first int) (*community.HistoryPage, error)

	// Remove deletes one entry by ID. A false result means the server
	// declined, typically because the entry is already gone.
	Remove(ctx context.Context, id string) (bool, error)
}

// Options configures an Iterator or Deleter.
type Options struct {
	// PageSize is the number of entries requested per page.
	PageSize int

	// PageDelay is slept between page fetches to stay under the
	// community API's rate limit.
	PageDelay time.Duration

	// DeleteDelay is slept between delete mutations.
	DeleteDelay time.Duration

	Logger zerolog.Logger
}

func (o *Options) applyDefaults() {
	if o.PageSize <= 0 {
		o.PageSize = 100
	}
	if o.PageDelay < 0 {
		o.PageDelay = 0
	}
	if o.DeleteDelay < 0 {
		o.DeleteDelay = 0
	}
}

// Iterator walks the watch history one entry at a time, fetching pages
// on demand. Usage follows bufio.Scanner:
//
//	it := history.NewIterator(pager, opts)
//	for it.Next(ctx) {
//		entry := it.Entry()
//		...
//	}
//	if err := it.Err(); err != nil { ... }
//
// Each Iterator starts from the first page. A fetch that fails after
// retries ends the walk; entries already yielded stand, and Err reports
// the failure. Pages are never silently dropped.
type Iterator struct {
	pager Pager
	opts  Options

	queue   []community.WatchHistoryEntry
	cur     community.WatchHistoryEntry
	after   string
	started bool
	done    bool
	err     error
}

// NewIterator creates an iterator over the account's watch history.
func NewIterator(pager Pager, opts Options) *Iterator {
	opts.applyDefaults()
	return &Iterator{pager: pager, opts: opts}
}

// Next advances to the next entry. It returns false when the history is
// exhausted or a page fetch failed; check Err to tell the two apart.
func (it *Iterator) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}

	for len(it.queue) == 0 {
		if it.done {
			return false
		}
		if it.started {
			// Pause between pages to avoid API rate limiting.
			if err := sleep(ctx, it.opts.PageDelay); err != nil {
				it.err = err
				return false
			}
		}

		page, err := it.pager.FetchPage(ctx, it.after, it.opts.PageSize)
		if err != nil {
			it.err = err
			return false
		}
		if page.PageInfo.HasNextPage && page.PageInfo.EndCursor == "" {
			// Refetching with an empty cursor would restart from page
			// one and yield duplicates forever.
			it.err = fmt.Errorf("%w: page claims a next page without a cursor", pherrors.ErrBadResponse)
			return false
		}
		it.started = true
		it.queue = append(it.queue, page.Nodes...)
		it.after = page.PageInfo.EndCursor
		if !page.PageInfo.HasNextPage {
			it.done = true
		}

		it.opts.Logger.Debug().
			Int("entries", len(page.Nodes)).
			Bool("has_next", page.PageInfo.HasNextPage).
			Msg("fetched history page")
	}

	it.cur = it.queue[0]
	it.queue = it.queue[1:]
	return true
}

// Entry returns the entry advanced to by the last call to Next.
func (it *Iterator) Entry() community.WatchHistoryEntry {
	return it.cur
}

// Err returns the first error encountered during iteration, if any.
func (it *Iterator) Err() error {
	return it.err
}

// sleep waits for d, returning early if ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
