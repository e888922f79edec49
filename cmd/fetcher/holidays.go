package main

import (
	"fmt"
	"strings"
	"time"

	"market-fetcher/src/logger"
	"market-fetcher/src/models"

	"github.com/spf13/cobra"
)

// -----------------------------------------------------------------------------

var holidaysCmd = &cobra.Command{
	Use:   "holidays",
	Short: "Prefetch market holidays for the current and next year",
	Long: `holidays warms the holiday cache ahead of time so daily pulls never
depend on the provider being up. The refresh is recorded in the audit log
as its own job.`,
	RunE: runHolidays,
}

// -----------------------------------------------------------------------------

func runHolidays(cmd *cobra.Command, args []string) error {
	start := time.Now()
	log := logger.NewLogger("Holidays")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	auditLog, err := openAudit(cfg)
	if err != nil {
		return err
	}
	defer auditLog.Close()

	netMgr := newNetworkManager(cfg)
	gate := buildGate(cfg, netMgr, log)

	thisYear := time.Now().UTC().Year()
	total := 0
	var notes []string
	for _, year := range []int{thisYear, thisYear + 1} {
		dates := gate.HolidaysForYear(year)
		log.Info("Year %d: %d holidays cached.", year, len(dates))
		total += len(dates)
		notes = append(notes, fmt.Sprintf("%d: %d holidays", year, len(dates)))
	}

	// An empty cache after a refresh means the provider gave nothing back;
	// the gate still fails open, but monitoring should see it.
	status := models.StatusSuccess
	if total == 0 {
		status = models.StatusWarning
	}

	run := models.MJobRun{
		JobName:         "Market Holidays Update",
		Status:          status,
		RowsInserted:    total,
		DurationSeconds: time.Since(start).Seconds(),
		Notes:           fmt.Sprintf("Refreshed %s", strings.Join(notes, ", ")),
	}
	if err := auditLog.Record(run); err != nil {
		log.Error("Failed to record holiday refresh: %v", err)
	}

	return nil
}
