package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	pherrors "github.com/tessro/plexhist/internal/errors"
	"github.com/tessro/plexhist/internal/plex/community"
)

// scriptedPager serves a fixed set of pages keyed by cursor.
type scriptedPager struct {
	pages   map[string]*community.HistoryPage
	failOn  map[string]error
	fetches []string
}

func (p *scriptedPager) FetchPage(ctx context.Context, after string, first int) (*community.HistoryPage, error) {
	p.fetches = append(p.fetches, after)
	if err, ok := p.failOn[after]; ok {
		return nil, err
	}
	page, ok := p.pages[after]
	if !ok {
		return nil, fmt.Errorf("unexpected cursor %q", after)
	}
	return page, nil
}

func (p *scriptedPager) Remove(ctx context.Context, id string) (bool, error) {
	return false, errors.New("not implemented")
}

func entry(id string) community.WatchHistoryEntry {
	return community.WatchHistoryEntry{
		ID:           id,
		MetadataItem: community.MetadataItem{Type: "movie", Title: id},
	}
}

func twoPages() map[string]*community.HistoryPage {
	return map[string]*community.HistoryPage{
		"": {
			Nodes:    []community.WatchHistoryEntry{entry("a"), entry("b")},
			PageInfo: community.PageInfo{HasNextPage: true, EndCursor: "c1"},
		},
		"c1": {
			Nodes:    []community.WatchHistoryEntry{entry("c")},
			PageInfo: community.PageInfo{HasNextPage: false},
		},
	}
}

func collect(t *testing.T, it *Iterator) []string {
	t.Helper()
	var ids []string
	for it.Next(context.Background()) {
		ids = append(ids, it.Entry().ID)
	}
	return ids
}

func TestIteratorYieldsAllPagesInOrder(t *testing.T) {
	pager := &scriptedPager{pages: twoPages()}
	it := NewIterator(pager, Options{})

	ids := collect(t, it)

	want := []string{"a", "b", "c"}
	if len(ids) != len(want) {
		t.Fatalf("got %d entries %v, want %d", len(ids), ids, len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("entry[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
	if err := it.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}

	wantFetches := []string{"", "c1"}
	if len(pager.fetches) != len(wantFetches) {
		t.Fatalf("fetched cursors %v, want %v", pager.fetches, wantFetches)
	}
	for i := range wantFetches {
		if pager.fetches[i] != wantFetches[i] {
			t.Errorf("fetch[%d] cursor = %q, want %q", i, pager.fetches[i], wantFetches[i])
		}
	}
}

func TestIteratorIsRestartable(t *testing.T) {
	pager := &scriptedPager{pages: twoPages()}

	first := collect(t, NewIterator(pager, Options{}))
	second := collect(t, NewIterator(pager, Options{}))

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("got %d then %d entries, want 3 and 3", len(first), len(second))
	}
	// Each iterator starts over from the first page.
	if pager.fetches[0] != "" || pager.fetches[2] != "" {
		t.Errorf("fetched cursors %v, want each run to start from the first page", pager.fetches)
	}
}

func TestIteratorEmptyHistory(t *testing.T) {
	pager := &scriptedPager{pages: map[string]*community.HistoryPage{
		"": {Nodes: nil, PageInfo: community.PageInfo{HasNextPage: false}},
	}}
	it := NewIterator(pager, Options{})

	if it.Next(context.Background()) {
		t.Error("Next() = true for empty history, want false")
	}
	if err := it.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestIteratorSurfacesFetchError(t *testing.T) {
	fetchErr := errors.New("retries exhausted")
	pager := &scriptedPager{
		pages:  twoPages(),
		failOn: map[string]error{"c1": fetchErr},
	}
	it := NewIterator(pager, Options{})

	ids := collect(t, it)

	// Entries from the first page stand; the failure ends the walk.
	if len(ids) != 2 {
		t.Fatalf("got %d entries %v, want 2 from the first page", len(ids), ids)
	}
	if !errors.Is(it.Err(), fetchErr) {
		t.Errorf("Err() = %v, want %v", it.Err(), fetchErr)
	}

	// The error is sticky.
	if it.Next(context.Background()) {
		t.Error("Next() = true after error, want false")
	}
}

func TestIteratorRejectsPageWithoutCursor(t *testing.T) {
	pager := &scriptedPager{pages: map[string]*community.HistoryPage{
		"": {
			Nodes:    []community.WatchHistoryEntry{entry("a"), entry("b")},
			PageInfo: community.PageInfo{HasNextPage: true, EndCursor: "c1"},
		},
		// Malformed: claims a next page but gives no cursor to fetch it.
		"c1": {
			Nodes:    []community.WatchHistoryEntry{entry("c")},
			PageInfo: community.PageInfo{HasNextPage: true, EndCursor: ""},
		},
	}}
	it := NewIterator(pager, Options{})

	ids := collect(t, it)

	if len(ids) != 2 {
		t.Fatalf("got %d entries %v, want 2 before the malformed page", len(ids), ids)
	}
	if !errors.Is(it.Err(), pherrors.ErrBadResponse) {
		t.Errorf("Err() = %v, want ErrBadResponse", it.Err())
	}
	// The walk must not restart from page one.
	if len(pager.fetches) != 2 {
		t.Errorf("fetched cursors %v, want exactly 2 fetches", pager.fetches)
	}
}

func TestIteratorCancelledContext(t *testing.T) {
	pager := &scriptedPager{pages: twoPages()}
	it := NewIterator(pager, Options{PageDelay: time.Second})

	ctx, cancel := context.WithCancel(context.Background())

	// Drain page one, then cancel before the inter-page wait.
	if !it.Next(ctx) || !it.Next(ctx) {
		t.Fatal("expected two entries from the first page")
	}
	cancel()

	if it.Next(ctx) {
		t.Error("Next() = true after cancellation, want false")
	}
	if !errors.Is(it.Err(), context.Canceled) {
		t.Errorf("Err() = %v, want context.Canceled", it.Err())
	}
}
