package audit

import (
	"path/filepath"
	"testing"

	"market-fetcher/src/logger"
	"market-fetcher/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func newTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := NewLog(filepath.Join(t.TempDir(), "cron_logs.db"), logger.NewLogger("test"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

// -----------------------------------------------------------------------------

func TestRecordFillsIdentity(t *testing.T) {
	l := newTestLog(t)

	require.NoError(t, l.Record(models.MJobRun{
		JobName:      "Daily Data Pull",
		Status:       models.StatusSuccess,
		RowsInserted: 42,
	}))

	var runs []models.MJobRun
	require.NoError(t, l.DB.Select(&runs, "SELECT run_id, run_timestamp, job_name, status, rows_inserted, errors, duration_seconds, notes FROM job_logs"))
	require.Len(t, runs, 1)

	assert.NotEmpty(t, runs[0].RunID)
	assert.NotEmpty(t, runs[0].RunTimestamp)
	assert.Equal(t, "[]", runs[0].Errors)
	assert.Equal(t, 42, runs[0].RowsInserted)
}

// -----------------------------------------------------------------------------

func TestRecordIsAppendOnly(t *testing.T) {
	l := newTestLog(t)

	// Two runs with identical content are two rows, never an upsert.
	run := models.MJobRun{JobName: "Daily Data Pull", Status: models.StatusWarning}
	require.NoError(t, l.Record(run))
	require.NoError(t, l.Record(run))

	var count int
	require.NoError(t, l.DB.Get(&count, "SELECT COUNT(*) FROM job_logs"))
	assert.Equal(t, 2, count)
}

// -----------------------------------------------------------------------------

func TestDailySummary(t *testing.T) {
	l := newTestLog(t)

	stamp := func(ts, status string, rows int) models.MJobRun {
		return models.MJobRun{
			RunTimestamp: ts,
			JobName:      "Daily Data Pull",
			Status:       status,
			RowsInserted: rows,
			Errors:       EncodeErrors(nil),
		}
	}

	require.NoError(t, l.Record(stamp("2025-08-20T06:00:00Z", models.StatusSuccess, 100)))
	require.NoError(t, l.Record(stamp("2025-08-20T18:00:00Z", models.StatusError, 0)))
	require.NoError(t, l.Record(stamp("2025-08-21T06:00:00Z", models.StatusSuccess, 50)))

	runs, counts, err := l.DailySummary("2025-08-20")
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "2025-08-20T18:00:00Z", runs[0].RunTimestamp)
	assert.Equal(t, map[string]int{
		models.StatusSuccess: 1,
		models.StatusError:   1,
	}, counts)

	runs, _, err = l.DailySummary("2025-08-25")
	require.NoError(t, err)
	assert.Empty(t, runs)
}

// -----------------------------------------------------------------------------

func TestErrorsRoundTrip(t *testing.T) {
	assert.Equal(t, "[]", EncodeErrors(nil))
	assert.Nil(t, DecodeErrors("[]"))
	assert.Nil(t, DecodeErrors(""))
	assert.Nil(t, DecodeErrors("not json"))

	encoded := EncodeErrors([]string{"OCC: boom", "SEC: 404"})
	assert.Equal(t, []string{"OCC: boom", "SEC: 404"}, DecodeErrors(encoded))
}
