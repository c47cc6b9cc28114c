package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/tessro/plexhist/internal/plex/community"
)

// Format renders a metadata item for display. Seasons and episodes pull
// the show title from their ancestors; everything else falls back to
// "Title (Year)". The API does not guarantee the case of type values.
func Format(item community.MetadataItem) string {
	switch strings.ToLower(item.Type) {
	case "season":
		if item.Parent != nil {
			return fmt.Sprintf("%s: Season %d", item.Parent.Title, item.Index)
		}
	case "episode":
		if item.Parent != nil && item.Grandparent != nil {
			return fmt.Sprintf("%s: Season %d: Episode %2d - %s",
				item.Grandparent.Title, item.Parent.Index, item.Index, item.Title)
		}
	}

	if item.Year > 0 {
		return fmt.Sprintf("%s (%d)", item.Title, item.Year)
	}
	return item.Title
}

// FormatEntry renders one watch-history entry as "date: title".
func FormatEntry(entry community.WatchHistoryEntry) string {
	return fmt.Sprintf("%s: %s", entry.Date.Local().Format(time.ANSIC), Format(entry.MetadataItem))
}
