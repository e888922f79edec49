package models

// Job run statuses as recorded in the audit log.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
)

// -----------------------------------------------------------------------------

// MJobRun is one immutable row of the job audit log. Errors holds a JSON
// array of error strings so the row stays readable without a join table.
type MJobRun struct {
	RunID           string  `db:"run_id" json:"run_id"`
	RunTimestamp    string  `db:"run_timestamp" json:"run_timestamp"`
	JobName         string  `db:"job_name" json:"job_name"`
	Status          string  `db:"status" json:"status"`
	RowsInserted    int     `db:"rows_inserted" json:"rows_inserted"`
	Errors          string  `db:"errors" json:"errors"`
	DurationSeconds float64 `db:"duration_seconds" json:"duration_seconds"`
	Notes           string  `db:"notes" json:"notes"`
}
