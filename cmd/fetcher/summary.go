package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"market-fetcher/src/audit"

	"github.com/spf13/cobra"
)

var summaryDate string

// -----------------------------------------------------------------------------

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the audit-log summary for one day",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryDate, "date", "", "day to summarize as YYYY-MM-DD (default: today, UTC)")
}

// -----------------------------------------------------------------------------

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	day := summaryDate
	if day == "" {
		day = time.Now().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return fmt.Errorf("invalid date '%s', want YYYY-MM-DD", day)
	}

	auditLog, err := openAudit(cfg)
	if err != nil {
		return err
	}
	defer auditLog.Close()

	runs, counts, err := auditLog.DailySummary(day)
	if err != nil {
		return fmt.Errorf("summary query failed: %w", err)
	}

	fmt.Printf("Job runs for %s (%d total)\n", day, len(runs))
	for _, status := range []string{"success", "warning", "error"} {
		if counts[status] > 0 {
			fmt.Printf("  %s: %d\n", status, counts[status])
		}
	}
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tJOB\tSTATUS\tROWS\tDURATION\tNOTES")
	for _, r := range runs {
		notes := r.Notes
		if errs := audit.DecodeErrors(r.Errors); len(errs) > 0 {
			notes = fmt.Sprintf("%s | errors: %s", notes, strings.Join(errs, "; "))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1fs\t%s\n",
			r.RunTimestamp, r.JobName, r.Status, r.RowsInserted, r.DurationSeconds, notes)
	}
	return w.Flush()
}
