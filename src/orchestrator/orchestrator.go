package orchestrator

import (
	"fmt"
	"time"

	"market-fetcher/src/audit"
	"market-fetcher/src/calendar"
	"market-fetcher/src/fetchers"
	"market-fetcher/src/interfaces"
	"market-fetcher/src/logger"
	"market-fetcher/src/models"
)

// -----------------------------------------------------------------------------

// Orchestrator drives one ingestion run: gate check, per-source
// fetch/normalize/checkpoint/insert with failure isolation, and exactly one
// audit record per run. Sources are processed sequentially in configured
// order; there is no internal parallelism (several fetchers scrape
// rate-limited endpoints).
type Orchestrator struct {
	Config   *models.MConfig
	Gate     *calendar.Gate
	Store    interfaces.IDedupStore
	Audit    interfaces.IAuditLog
	Registry *fetchers.Registry
	Network  interfaces.INetworkManager
	Logger   *logger.Logger

	Now func() time.Time
}

// -----------------------------------------------------------------------------

// RunResult summarizes one orchestrator invocation.
type RunResult struct {
	Status       string
	RowsInserted int
	Errors       []string
	Notes        string
	Skipped      bool
}

// SourceOutcome is the per-source result: either an inserted count, a skip
// with a reason, or a failure message. Failures never stop the run.
type SourceOutcome struct {
	Source   string
	Inserted int
	Skipped  bool
	Note     string
	Err      error
}

// boundSource pairs a source config with its resolved fetcher.
type boundSource struct {
	cfg     models.MSourceConfig
	fetcher interfaces.IFetcher
}

// -----------------------------------------------------------------------------

func New(cfg *models.MConfig, gate *calendar.Gate, store interfaces.IDedupStore,
	auditLog interfaces.IAuditLog, registry *fetchers.Registry,
	netMgr interfaces.INetworkManager, log *logger.Logger) *Orchestrator {

	return &Orchestrator{
		Config:   cfg,
		Gate:     gate,
		Store:    store,
		Audit:    auditLog,
		Registry: registry,
		Network:  netMgr,
		Logger:   log,
		Now:      time.Now,
	}
}

// -----------------------------------------------------------------------------

// Run executes one full ingestion batch. The returned error is non-nil only
// for fatal configuration problems discovered before any source ran; those
// abort without an audit record for sources that were never attempted.
func (o *Orchestrator) Run() (RunResult, error) {
	start := o.Now()

	// Resolve every fetcher up front so an unknown kind aborts the run
	// before any source is contacted.
	sources, err := o.buildSources()
	if err != nil {
		return RunResult{}, err
	}

	today := o.Now()
	if !o.Gate.IsTradingDay(today) {
		o.Logger.Info("Non-trading day (%s): %s or holiday. Skipping pull.",
			today.Format("2006-01-02"), today.Weekday())
		res := RunResult{
			Status:  models.StatusWarning,
			Notes:   "Skipped: non-trading day",
			Skipped: true,
		}
		o.finalize(res, start)
		return res, nil
	}

	totalInserted := 0
	var errs []string

	for _, src := range sources {
		o.Logger.Info("Processing %s | Fetcher: %s | Table: %s", src.cfg.Name, src.cfg.Fetcher, src.cfg.Table)

		outcome := o.processSource(src)
		switch {
		case outcome.Err != nil:
			msg := fmt.Sprintf("%s: %v", outcome.Source, outcome.Err)
			o.Logger.Error("%s", msg)
			errs = append(errs, msg)
		case outcome.Skipped:
			o.Logger.Info("%s: %s", outcome.Source, outcome.Note)
		default:
			o.Logger.Info("%s: %d new rows inserted.", outcome.Source, outcome.Inserted)
			totalInserted += outcome.Inserted
		}
	}

	res := RunResult{
		Status:       computeStatus(totalInserted, errs),
		RowsInserted: totalInserted,
		Errors:       errs,
		Notes:        fmt.Sprintf("Processed %d sources", len(sources)),
	}
	o.finalize(res, start)

	o.Logger.Info("Pull complete | Total new rows across sources: %d | Status: %s", totalInserted, res.Status)
	return res, nil
}

// -----------------------------------------------------------------------------

func (o *Orchestrator) buildSources() ([]boundSource, error) {
	sources := make([]boundSource, 0, len(o.Config.Sources))
	for _, cfg := range o.Config.Sources {
		fetcher, err := o.Registry.Resolve(cfg.Fetcher, o.Network)
		if err != nil {
			return nil, fmt.Errorf("source '%s': %w", cfg.Name, err)
		}
		sources = append(sources, boundSource{cfg: cfg, fetcher: fetcher})
	}
	return sources, nil
}

// -----------------------------------------------------------------------------

// processSource runs one source end to end. Every failure is captured in
// the outcome; nothing escapes to stop the remaining sources.
func (o *Orchestrator) processSource(src boundSource) SourceOutcome {
	out := SourceOutcome{Source: src.cfg.Name}

	records, err := src.fetcher.Fetch(src.cfg.Params)
	if err != nil {
		out.Err = err
		return out
	}
	if len(records) == 0 {
		out.Skipped = true
		out.Note = "Empty data, skipped."
		return out
	}

	records = src.fetcher.Normalize(records, src.cfg.Name)
	attachTicker(records, src.cfg.Params)

	// Fresh checkpoint read: an earlier source in this run may have written
	// the same table already.
	lastDate, err := o.Store.GetLastDate(src.cfg.Table)
	if err != nil {
		out.Err = fmt.Errorf("checkpoint read failed: %w", err)
		return out
	}

	maxDate := models.MaxDate(records)
	if maxDate <= lastDate {
		out.Skipped = true
		out.Note = fmt.Sprintf("No new data (max date %s <= %s), skipped.", maxDate, lastDate)
		return out
	}

	inserted, err := o.Store.Insert(records, src.cfg.Table)
	if err != nil {
		out.Err = fmt.Errorf("insert failed: %w", err)
		return out
	}

	out.Inserted = inserted
	return out
}

// -----------------------------------------------------------------------------

// attachTicker fills rows that carry no per-row ticker with the configured
// symbol. Rows the fetcher already tagged (FTD, ETF) keep their own.
func attachTicker(records []models.MRecord, params map[string]string) {
	symbol := params["symbol"]
	if symbol == "" {
		symbol = "GME"
	}
	for i := range records {
		if records[i].Ticker == "" {
			records[i].Ticker = symbol
		}
	}
}

// -----------------------------------------------------------------------------

// computeStatus maps run totals to the audit status. A run with failed
// sources but some progress is a warning; failures with nothing inserted
// are an error. A quiet run (nothing new, nothing failed) is a warning so
// monitoring can tell it apart from a productive day.
func computeStatus(inserted int, errs []string) string {
	switch {
	case inserted > 0 && len(errs) == 0:
		return models.StatusSuccess
	case len(errs) > 0 && inserted > 0:
		return models.StatusWarning
	case len(errs) > 0:
		return models.StatusError
	default:
		return models.StatusWarning
	}
}

// -----------------------------------------------------------------------------

// finalize appends the run's audit record. Audit failures are logged, never
// propagated: the run outcome stands regardless.
func (o *Orchestrator) finalize(res RunResult, start time.Time) {
	run := models.MJobRun{
		JobName:         o.Config.JobName,
		Status:          res.Status,
		RowsInserted:    res.RowsInserted,
		Errors:          audit.EncodeErrors(res.Errors),
		DurationSeconds: o.Now().Sub(start).Seconds(),
		Notes:           res.Notes,
	}
	if err := o.Audit.Record(run); err != nil {
		o.Logger.Error("Failed to record job run: %v", err)
	}
}
