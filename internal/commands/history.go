package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/revlens-dev/revlens/internal/runlog"
)

func newHistoryCommand() *cobra.Command {
	var projectDir string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past analyze runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(projectDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			entries, err := runlog.Read(absDir)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-20s %-10s %7s %7s %7s %7s %7s %12s\n",
				"TIMESTAMP", "RUN", "PARSED", "SKIPPED", "INVALID", "FINAL", "MATCHED", "REVENUE")
			for _, e := range entries {
				fmt.Fprintf(out, "%-20s %-10s %7d %7d %7d %7d %7d %12s\n",
					e.Timestamp.Format("2006-01-02 15:04:05"),
					shortID(e.RunID),
					e.Parsed, e.Skipped, e.Invalid, e.Final, e.Matched,
					e.TotalRevenue.StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectDir, "dir", ".", "project directory")

	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
