package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tidyname/tidyname/ledger"
	"github.com/tidyname/tidyname/output"
)

func newUndoCmd() *cobra.Command {
	var (
		logPath string
		execute bool
		yes     bool
	)

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Revert the renames of a recorded session",
		Long: `Undo reverses the successful renames of a session log. Without --log the
most recent session is used. By default this is a dry run showing what
would be reverted; pass --execute to perform the reversals.

Each record is checked independently: a renamed file that has moved away,
or an original name that is occupied again, is skipped without blocking
the rest of the session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUndo(logPath, execute, yes)
		},
	}

	cmd.Flags().StringVar(&logPath, "log", "", "Session log to revert (default: most recent)")
	cmd.Flags().BoolVar(&execute, "execute", false, "Perform the reversals")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runUndo(logPath string, execute, yes bool) error {
	logger := slog.Default()

	if logPath == "" {
		recent, err := ledger.MostRecentSession("")
		if err != nil {
			return err
		}
		logPath = recent
		fmt.Printf("Using most recent session log: %s\n", filepath.Base(logPath))
	}

	if execute && !yes {
		if !confirm("Revert the renames recorded in this session?") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	report, err := ledger.Undo(logPath, execute, logger)
	if err != nil {
		return fmt.Errorf("undo session: %w", err)
	}

	fmt.Println(output.UndoReport(report))

	if !execute {
		fmt.Printf("Dry run: %d reversal(s) performable. Re-run with --execute to apply.\n",
			report.Performable)
		return nil
	}
	fmt.Printf("Reverted %d of %d performable rename(s).\n", report.Reverted, report.Performable)
	return nil
}
