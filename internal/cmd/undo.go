package cmd

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shigure/anishelf/internal/log"
)

var undoList bool

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the most recent run",
	Long: `Reverse the filesystem operations of the most recent session recorded
in the journal: created hard links are removed, archived folders are
moved back, and directories created by the run are removed if empty.`,
	Args: cobra.NoArgs,
	RunE: runUndoCommand,
}

func runUndoCommand(cmd *cobra.Command, args []string) error {
	if err := log.ConfigureConsole(logLevel); err != nil {
		return err
	}

	if undoList {
		return listSessions(cmd)
	}

	session, err := log.FindLatestSession()
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}
	if session == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions found to undo.")
		return nil
	}

	logrus.Infof("undoing session %s (%s, %d operations)",
		session.Metadata.SessionID,
		strings.Join(session.Metadata.CommandArgs, " "),
		session.Metadata.TotalOps)

	successful, failed, errs := log.UndoSession(session)
	for _, err := range errs {
		logrus.Errorf("%v", err)
	}
	logrus.Infof("undo complete: %d reversed, %d failed", successful, failed)

	if failed > 0 {
		return ErrPartialFailure
	}
	return nil
}

func listSessions(cmd *cobra.Command) error {
	sessions, err := log.ReadSessions(10)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions found.")
		return nil
	}
	for _, s := range sessions {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %d ops (%d ok, %d failed)  %s\n",
			s.Metadata.SessionID,
			s.Metadata.Timestamp.Format("2006-01-02 15:04:05"),
			s.Metadata.TotalOps,
			s.Metadata.SuccessfulOps,
			s.Metadata.FailedOps,
			strings.Join(s.Metadata.CommandArgs, " "))
	}
	return nil
}

func init() {
	undoCmd.Flags().BoolVar(&undoList, "list", false, "List recent sessions instead of undoing")
	rootCmd.AddCommand(undoCmd)
}
