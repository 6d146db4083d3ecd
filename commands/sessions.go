package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tidyname/tidyname/ledger"
	"github.com/tidyname/tidyname/output"
)

func newSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List recorded rename sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := ledger.ListSessions("")
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}
			if len(paths) == 0 {
				fmt.Println("No rename sessions recorded yet.")
				return nil
			}
			fmt.Println(output.Sessions(paths))
			return nil
		},
	}
}
