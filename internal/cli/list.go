package cli

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tessro/plexhist/internal/history"
)

var (
	listPageSize int
	listRelative bool
	listTable    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Display your watched movies and shows",
	Long:  `Displays all your watched movies and shows, along with the date you watched them.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listPageSize, "page-size", 0, "entries per API page (default from config)")
	listCmd.Flags().BoolVarP(&listRelative, "relative", "r", false, "show relative watch dates (\"3 days ago\")")
	listCmd.Flags().BoolVarP(&listTable, "table", "t", false, "tabular output")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	account, err := resolveAccount(ctx)
	if err != nil {
		return err
	}
	log.Debug().Str("username", account.Username).Msg("listing watch history")

	client := newCommunityClient(account)
	it := history.NewIterator(client, historyOptions(listPageSize))

	var table *Table
	if listTable && !JSONOutput() {
		table = NewTable("DATE", "TITLE")
	}

	enc := json.NewEncoder(os.Stdout)
	count := 0
	for it.Next(ctx) {
		entry := it.Entry()
		count++

		switch {
		case JSONOutput():
			_ = enc.Encode(map[string]interface{}{
				"id":    entry.ID,
				"date":  entry.Date.Format(time.RFC3339),
				"title": history.Format(entry.MetadataItem),
				"type":  entry.MetadataItem.Type,
			})
		case table != nil:
			table.Row(formatDate(entry.Date), history.Format(entry.MetadataItem))
		case listRelative:
			NormalF("%s: %s", humanize.Time(entry.Date), history.Format(entry.MetadataItem))
		default:
			Minimal(history.FormatEntry(entry))
		}
	}
	if table != nil {
		table.Flush()
	}

	if err := it.Err(); err != nil {
		return err
	}

	if count == 0 && !JSONOutput() {
		Minimal("Watch history is empty.")
	}
	return nil
}

func formatDate(t time.Time) string {
	if listRelative {
		return humanize.Time(t)
	}
	return t.Local().Format(time.ANSIC)
}
