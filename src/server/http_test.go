package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"market-fetcher/src/audit"
	"market-fetcher/src/logger"
	"market-fetcher/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func newTestServer(t *testing.T) (*MonitorServer, *audit.Log) {
	t.Helper()

	auditLog, err := audit.NewLog(filepath.Join(t.TempDir(), "cron_logs.db"), logger.NewLogger("test"))
	require.NoError(t, err)
	t.Cleanup(func() { auditLog.Close() })

	cfg := &models.MConfig{Name: "market-fetcher", Host: "127.0.0.1", Port: 8080}
	return NewMonitorServer(cfg, auditLog, logger.NewLogger("test")), auditLog
}

// -----------------------------------------------------------------------------

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

// -----------------------------------------------------------------------------

func TestSummaryEndpoint(t *testing.T) {
	srv, auditLog := newTestServer(t)

	require.NoError(t, auditLog.Record(models.MJobRun{
		RunTimestamp: "2025-08-20T06:00:00Z",
		JobName:      "Daily Data Pull",
		Status:       models.StatusWarning,
		RowsInserted: 10,
		Errors:       audit.EncodeErrors([]string{"SEC FTD Data: 404"}),
	}))

	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/summary?date=2025-08-20", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Date   string         `json:"date"`
		Counts map[string]int `json:"counts"`
		Runs   []struct {
			JobName string   `json:"job_name"`
			Status  string   `json:"status"`
			Errors  []string `json:"errors"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "2025-08-20", resp.Date)
	assert.Equal(t, map[string]int{models.StatusWarning: 1}, resp.Counts)
	require.Len(t, resp.Runs, 1)
	assert.Equal(t, []string{"SEC FTD Data: 404"}, resp.Runs[0].Errors)
}

// -----------------------------------------------------------------------------

func TestSummaryRejectsBadDate(t *testing.T) {
	srv, _ := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/summary?date=yesterday", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
