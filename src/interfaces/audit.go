package interfaces

import "market-fetcher/src/models"

// -----------------------------------------------------------------------------
// IAuditLog is the append-only job-run log consumed by monitoring.
// -----------------------------------------------------------------------------

type IAuditLog interface {

	// Record appends one immutable job-run row. There is no update or
	// delete operation.
	Record(run models.MJobRun) error

	// -----------------------------------------------------------------------------

	// DailySummary returns the runs recorded on the given day (newest
	// first) together with a status -> count aggregate.
	DailySummary(day string) ([]models.MJobRun, map[string]int, error)

	// -----------------------------------------------------------------------------

	// Close the audit store
	Close() error
}
