package community

import (
	"context"
	"fmt"

	pherrors "github.com/tessro/plexhist/internal/errors"
)

// watchHistoryData matches {user: {watchHistory: {...}}}.
type watchHistoryData struct {
	User struct {
		WatchHistory HistoryPage `json:"watchHistory"`
	} `json:"user"`
}

// removeActivityData matches {removeActivity: bool}.
type removeActivityData struct {
	RemoveActivity bool `json:"removeActivity"`
}

// FetchPage fetches one page of watch history. An empty cursor fetches
// the first page.
func (c *Client) FetchPage(ctx context.Context, after string, first int) (*HistoryPage, error) {
	variables := map[string]any{
		"uuid":          c.uuid,
		"first":         first,
		"after":         nil,
		"skipUserState": true,
	}
	if after != "" {
		variables["after"] = after
	}

	var data watchHistoryData
	if err := c.query(ctx, opGetWatchHistory, getWatchHistoryQuery, variables, &data); err != nil {
		return nil, err
	}

	page := data.User.WatchHistory
	if page.Nodes == nil && page.PageInfo.HasNextPage {
		return nil, fmt.Errorf("%w: page with no nodes claims a next page", pherrors.ErrBadResponse)
	}
	return &page, nil
}

// Remove deletes one watch-history entry by ID. The returned bool is the
// server's removeActivity result; false means the entry was not removed,
// typically because it no longer exists.
func (c *Client) Remove(ctx context.Context, id string) (bool, error) {
	variables := map[string]any{
		"input": map[string]any{
			"id":   id,
			"type": activityTypeWatchHistory,
		},
	}

	var data removeActivityData
	if err := c.query(ctx, opRemoveActivity, removeActivityQuery, variables, &data); err != nil {
		return false, err
	}
	return data.RemoveActivity, nil
}
