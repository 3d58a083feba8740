package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/starforge/internal/infrastructure/sqlite"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent load attempts from the history database",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of rows to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if cfg.History.Path == "" {
		return fmt.Errorf("history database path is not configured")
	}

	db, err := sqlite.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history database: %w", err)
	}
	defer func() { _ = db.Close() }()

	reports, err := db.Loads().ListRecent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no load history recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintln(w, "FINISHED\tRUN\tCAUSE\tOUTCOME\tFATAL\tADVISORY\tDURATION")
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			r.FinishedAt.Format(time.DateTime),
			shortRun(r.RunID.String()),
			r.Trigger, r.Outcome, r.Fatals, r.Advisories,
			r.Duration.Round(time.Millisecond))
	}
	return nil
}

func shortRun(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
