package main

import (
	"fmt"
	"os"

	"market-fetcher/src/audit"
	"market-fetcher/src/calendar"
	"market-fetcher/src/config"
	"market-fetcher/src/interfaces"
	"market-fetcher/src/logger"
	"market-fetcher/src/network"
	"market-fetcher/src/storage"

	"github.com/spf13/cobra"
)

var configPath string

// -----------------------------------------------------------------------------

var rootCmd = &cobra.Command{
	Use:   "fetcher",
	Short: "Incremental market-data ingestion pipeline",
	Long: `fetcher pulls daily market data (options series, SEC fails-to-deliver,
ETF shares outstanding, OHLCV bars) into a deduplicated local store and
records every run in an append-only audit log.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// -----------------------------------------------------------------------------

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/default.yaml", "path to YAML configuration")

	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(holidaysCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(serveCmd)
}

// -----------------------------------------------------------------------------

// loadConfig reads and validates the YAML configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// -----------------------------------------------------------------------------

// openStore builds the dedup store matching the configured backend and runs
// its schema initialization.
func openStore(cfg *config.Config, log *logger.Logger) (interfaces.IDedupStore, error) {
	var store interfaces.IDedupStore
	var err error

	switch cfg.Storage.DBType {
	case "sqlite":
		store, err = storage.NewSQLiteStore(cfg.MConfig, log)
	case "postgres":
		store, err = storage.NewPostgresStore(cfg.MConfig, log)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Storage.DBType)
	}
	if err != nil {
		return nil, err
	}

	if err := store.Initialize(); err != nil {
		return nil, fmt.Errorf("store initialization failed: %w", err)
	}
	return store, nil
}

// -----------------------------------------------------------------------------

// buildGate wires the holiday cache to a provider. An explicit holiday API
// wins; otherwise holidays are derived from the exchange calendar locally.
func buildGate(cfg *config.Config, netMgr interfaces.INetworkManager, log *logger.Logger) *calendar.Gate {
	cache := calendar.NewHolidayCache(cfg.Calendar.CachePath, logger.NewLogger("HolidayCache"))

	var provider interfaces.IHolidayProvider
	if cfg.Calendar.APIURL != "" {
		provider = calendar.NewAPIHolidayProvider(cfg.Calendar.APIURL, cfg.Calendar.APIKey, netMgr, logger.NewLogger("HolidayAPI"))
	} else {
		provider = calendar.NewLibHolidayProvider(cfg.Calendar.Market, logger.NewLogger("HolidayCalendar"))
	}

	return calendar.NewGate(cache, provider, log)
}

// -----------------------------------------------------------------------------

func openAudit(cfg *config.Config) (interfaces.IAuditLog, error) {
	auditLog, err := audit.NewLog(cfg.Storage.AuditDBPath, logger.NewLogger("AuditLog"))
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	return auditLog, nil
}

// -----------------------------------------------------------------------------

func newNetworkManager(cfg *config.Config) *network.Manager {
	return network.NewManager(cfg.MConfig, logger.NewLogger("NetworkManager"))
}

// -----------------------------------------------------------------------------

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
