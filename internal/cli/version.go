package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set via ldflags at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		if JSONOutput() {
			out, _ := json.MarshalIndent(map[string]string{
				"version":    Version,
				"commit":     Commit,
				"build_date": BuildDate,
				"go_version": runtime.Version(),
				"platform":   runtime.GOOS + "/" + runtime.GOARCH,
			}, "", "  ")
			cmd.Println(string(out))
			return
		}

		cmd.Println(versionLine())
		if Verbose() {
			cmd.Printf("commit %s, built %s\n", Commit, BuildDate)
			cmd.Printf("%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		}
	},
}

func versionLine() string {
	return fmt.Sprintf("plexhist %s", Version)
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
