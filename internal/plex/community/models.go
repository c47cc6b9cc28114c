package community

import "time"

// WatchHistoryEntry is one record of the account having watched a media
// item at a given time. Entries are immutable once fetched and are
// deleted server-side by ID.
type WatchHistoryEntry struct {
	ID           string       `json:"id"`
	Date         time.Time    `json:"date"`
	MetadataItem MetadataItem `json:"metadataItem"`
}

// MetadataItem describes the watched media item. Parent and Grandparent
// are populated for episodes and seasons (season and show respectively).
type MetadataItem struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Type        string        `json:"type"`
	Year        int           `json:"year,omitempty"`
	Index       int           `json:"index,omitempty"`
	Parent      *MetadataItem `json:"parent,omitempty"`
	Grandparent *MetadataItem `json:"grandparent,omitempty"`
}

// PageInfo drives cursor pagination. EndCursor is opaque and only valid
// until the history is mutated.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// HistoryPage is one page of watch history.
type HistoryPage struct {
	Nodes    []WatchHistoryEntry `json:"nodes"`
	PageInfo PageInfo            `json:"pageInfo"`
}
