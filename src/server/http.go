package server

import (
	"fmt"
	"net/http"
	"time"

	"market-fetcher/src/audit"
	"market-fetcher/src/interfaces"
	"market-fetcher/src/logger"
	"market-fetcher/src/models"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------

// MonitorServer exposes a read-only HTTP view over the job audit log so the
// pipeline can be checked without shell access to the host. It never touches
// the market-data tables.
type MonitorServer struct {
	Config *models.MConfig
	Audit  interfaces.IAuditLog
	Logger *logger.Logger
	engine *gin.Engine
}

// -----------------------------------------------------------------------------

// runView is the JSON shape of one audit row, with the errors column decoded.
type runView struct {
	RunID           string   `json:"run_id"`
	RunTimestamp    string   `json:"run_timestamp"`
	JobName         string   `json:"job_name"`
	Status          string   `json:"status"`
	RowsInserted    int      `json:"rows_inserted"`
	Errors          []string `json:"errors"`
	DurationSeconds float64  `json:"duration_seconds"`
	Notes           string   `json:"notes"`
}

// -----------------------------------------------------------------------------

func NewMonitorServer(cfg *models.MConfig, auditLog interfaces.IAuditLog, log *logger.Logger) *MonitorServer {
	gin.SetMode(gin.ReleaseMode)

	s := &MonitorServer{
		Config: cfg,
		Audit:  auditLog,
		Logger: log,
		engine: gin.New(),
	}
	s.engine.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

// -----------------------------------------------------------------------------

func (s *MonitorServer) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api/v1")
	api.GET("/summary", s.handleSummary)
}

// -----------------------------------------------------------------------------

func (s *MonitorServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": s.Config.Name,
	})
}

// -----------------------------------------------------------------------------

// handleSummary returns the runs recorded for one day (default: today, UTC)
// plus per-status counts.
func (s *MonitorServer) handleSummary(c *gin.Context) {
	day := c.Query("date")
	if day == "" {
		day = time.Now().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", day); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid date '%s', want YYYY-MM-DD", day)})
		return
	}

	runs, counts, err := s.Audit.DailySummary(day)
	if err != nil {
		s.Logger.Error("Summary query failed for %s: %v", day, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "summary query failed"})
		return
	}

	views := make([]runView, 0, len(runs))
	for _, r := range runs {
		views = append(views, runView{
			RunID:           r.RunID,
			RunTimestamp:    r.RunTimestamp,
			JobName:         r.JobName,
			Status:          r.Status,
			RowsInserted:    r.RowsInserted,
			Errors:          audit.DecodeErrors(r.Errors),
			DurationSeconds: r.DurationSeconds,
			Notes:           r.Notes,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"date":   day,
		"counts": counts,
		"runs":   views,
	})
}

// -----------------------------------------------------------------------------

// Start blocks serving HTTP on the configured host and port.
func (s *MonitorServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Monitoring API listening on http://%s", addr)
	return s.engine.Run(addr)
}

// -----------------------------------------------------------------------------

// Engine exposes the router for tests.
func (s *MonitorServer) Engine() *gin.Engine {
	return s.engine
}
