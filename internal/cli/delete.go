package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tessro/plexhist/internal/history"
	"github.com/tessro/plexhist/internal/plex/community"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Permanently delete your entire watch history",
	Long: `Permanently deletes your entire watch history from your Plex account.

This cannot be undone. Entries are deleted one at a time; failures are
reported and skipped rather than aborting the run.`,
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	account, err := resolveAccount(ctx)
	if err != nil {
		return err
	}

	if !deleteYes {
		confirmed, err := confirmDelete(account.Username)
		if err != nil {
			return err
		}
		if !confirmed {
			Minimal("Aborted.")
			return nil
		}
	}

	client := newCommunityClient(account)
	deleter := history.NewDeleter(client, historyOptions(0))

	if !JSONOutput() {
		deleter.OnEntry = func(entry community.WatchHistoryEntry) {
			Minimal(history.FormatEntry(entry))
		}
		deleter.OnResult = func(entry community.WatchHistoryEntry, err error) {
			if err != nil {
				NormalF("  failed: %v", err)
			}
		}
	}

	res, runErr := deleter.DeleteAll(ctx)

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"deleted": res.Deleted,
			"failed":  res.Failed,
		})
	} else {
		NormalF("\nDeleted %d entries (%d failed)", res.Deleted, res.Failed)
	}

	if runErr != nil {
		return runErr
	}
	if res.Deleted == 0 && res.Failed > 0 {
		return fmt.Errorf("failed to delete any of %d entries", res.Failed)
	}
	return nil
}

// confirmDelete prompts for confirmation when attached to a terminal.
// Non-interactive runs must pass --yes explicitly.
func confirmDelete(username string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("refusing to delete without confirmation; pass --yes to proceed")
	}

	confirmed := false
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Permanently delete the entire watch history for %s?", username)).
		Description("This cannot be undone.").
		Affirmative("Delete").
		Negative("Cancel").
		Value(&confirmed).
		Run()
	if err != nil {
		return false, err
	}
	return confirmed, nil
}
