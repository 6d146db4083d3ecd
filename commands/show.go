package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tidyname/tidyname/ledger"
	"github.com/tidyname/tidyname/output"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [session-log]",
		Short: "Show the records of one rename session",
		Long: `Show prints the per-file records of a session log. The argument may be a
full path or a bare file name from the log directory; without an argument
the most recent session is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveSessionPath(args)
			if err != nil {
				return err
			}
			session, err := ledger.LoadSession(path)
			if err != nil {
				return fmt.Errorf("load session: %w", err)
			}
			fmt.Println(output.SessionDetail(session))
			return nil
		},
	}
}

// resolveSessionPath maps the optional argument to a session log path.
func resolveSessionPath(args []string) (string, error) {
	if len(args) == 0 {
		return ledger.MostRecentSession("")
	}

	arg := args[0]
	if strings.ContainsRune(arg, os.PathSeparator) {
		return arg, nil
	}
	if _, err := os.Stat(arg); err == nil {
		return arg, nil
	}

	dir, err := ledger.DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, arg), nil
}
