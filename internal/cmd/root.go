// Package cmd wires the CLI surface: the organize run itself plus the
// config and undo subcommands.
package cmd

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ErrPartialFailure signals that at least one input folder could not be
// fully processed while others succeeded.
var ErrPartialFailure = errors.New("one or more folders failed")

var rootCmd = &cobra.Command{
	Use:   "anishelf <folder>...",
	Short: "Organize release folders into a scraper-friendly library",
	Long: `anishelf reads messy release folders, extracts series title, season,
episode, special-content tags and language markers from their names, and
hard links every file into a canonical layout:

  <Title>/Season 01/<Title> S01E01.mkv
  <Title>/extras/NCOP1.mkv

Sources are never modified. Re-running over the same input is safe:
targets that already exist are left alone.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOrganize,
}

var (
	dryRun      bool
	interactive bool
	logLevel    string
	destFlag    string
	archiveFlag string
)

func init() {
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report planned operations without touching the filesystem")
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Preview the plan and confirm before applying")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Console log level (DEBUG, INFO, WARNING, ERROR, CRITICAL)")
	rootCmd.Flags().StringVar(&destFlag, "dest", "", "Destination library root (overrides config)")
	rootCmd.Flags().StringVar(&archiveFlag, "archive", "", "Move fully processed source folders here (overrides config)")

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

// Execute runs the CLI and maps its outcome to a process exit code:
// 0 success, 1 partial failure, 2 fatal argument or configuration error.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, ErrPartialFailure) {
			return 1
		}
		logrus.Error(err)
		return 2
	}
	return 0
}
