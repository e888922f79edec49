package main

import (
	"os"

	"market-fetcher/src/fetchers"
	"market-fetcher/src/logger"
	"market-fetcher/src/models"
	"market-fetcher/src/orchestrator"

	"github.com/spf13/cobra"
)

// -----------------------------------------------------------------------------

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Run one ingestion batch across all configured sources",
	Long: `pull checks the trading calendar, then runs every configured source in
order: fetch, normalize, checkpoint comparison, deduplicated insert. One
audit record is written per invocation.

Exit codes: 0 on success or warning, 2 when all sources failed with
nothing inserted, 1 on fatal setup errors.`,
	RunE: runPull,
}

// -----------------------------------------------------------------------------

func runPull(cmd *cobra.Command, args []string) error {
	log := logger.NewLogger("Pull")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log.Info("Starting pull | Job: %s | Sources: %d", cfg.JobName, len(cfg.Sources))

	store, err := openStore(cfg, logger.NewLogger("Store"))
	if err != nil {
		return err
	}
	defer store.Close()

	auditLog, err := openAudit(cfg)
	if err != nil {
		return err
	}
	defer auditLog.Close()

	netMgr := newNetworkManager(cfg)
	gate := buildGate(cfg, netMgr, logger.NewLogger("CalendarGate"))
	registry := fetchers.NewRegistry()

	orch := orchestrator.New(cfg.MConfig, gate, store, auditLog, registry, netMgr, log)

	res, err := orch.Run()
	if err != nil {
		return err
	}

	if res.Status == models.StatusError {
		os.Exit(2)
	}
	return nil
}
