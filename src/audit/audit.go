package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"market-fetcher/src/logger"
	"market-fetcher/src/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const jobLogsDDL = `
CREATE TABLE IF NOT EXISTS job_logs (
	run_id TEXT NOT NULL,
	run_timestamp TEXT NOT NULL,
	job_name TEXT NOT NULL,
	status TEXT NOT NULL,
	rows_inserted INTEGER DEFAULT 0,
	errors TEXT,
	duration_seconds REAL,
	notes TEXT
)`

// -----------------------------------------------------------------------------

// Log is the append-only job-run audit log. There is deliberately no update
// or delete path; the full history of rows is the audit trail.
type Log struct {
	DB     *sqlx.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

// NewLog opens (creating if needed) the audit database at path.
func NewLog(path string, log *logger.Logger) (*Log, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(jobLogsDDL); err != nil {
		db.Close()
		return nil, err
	}

	return &Log{DB: db, Logger: log}, nil
}

// -----------------------------------------------------------------------------

// Record appends one immutable row. Missing run ID and timestamp are filled
// in here so callers only describe the outcome.
func (l *Log) Record(run models.MJobRun) error {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if run.RunTimestamp == "" {
		run.RunTimestamp = time.Now().UTC().Format(time.RFC3339)
	}
	if run.Errors == "" {
		run.Errors = "[]"
	}

	_, err := l.DB.NamedExec(`
		INSERT INTO job_logs (run_id, run_timestamp, job_name, status, rows_inserted, errors, duration_seconds, notes)
		VALUES (:run_id, :run_timestamp, :job_name, :status, :rows_inserted, :errors, :duration_seconds, :notes)
	`, run)
	return err
}

// -----------------------------------------------------------------------------

// DailySummary returns the day's runs newest-first plus status counts.
// Day is a YYYY-MM-DD string.
func (l *Log) DailySummary(day string) ([]models.MJobRun, map[string]int, error) {
	var runs []models.MJobRun
	err := l.DB.Select(&runs, `
		SELECT run_id, run_timestamp, job_name, status, rows_inserted, errors, duration_seconds, notes
		FROM job_logs
		WHERE substr(run_timestamp, 1, 10) = ?
		ORDER BY run_timestamp DESC
	`, day)
	if err != nil {
		return nil, nil, err
	}

	counts := make(map[string]int)
	for _, r := range runs {
		counts[r.Status]++
	}
	return runs, counts, nil
}

// -----------------------------------------------------------------------------

func (l *Log) Close() error {
	if l.DB != nil {
		return l.DB.Close()
	}
	return nil
}

// -----------------------------------------------------------------------------

// EncodeErrors serializes an error list to the JSON string stored in the
// errors column.
func EncodeErrors(errs []string) string {
	if len(errs) == 0 {
		return "[]"
	}
	data, err := json.Marshal(errs)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// -----------------------------------------------------------------------------

// DecodeErrors parses the errors column back into a list.
func DecodeErrors(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var errs []string
	if err := json.Unmarshal([]byte(raw), &errs); err != nil {
		return nil
	}
	return errs
}
