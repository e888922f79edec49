package main

import (
	"market-fetcher/src/logger"
	"market-fetcher/src/server"

	"github.com/spf13/cobra"
)

// -----------------------------------------------------------------------------

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only monitoring API over the audit log",
	RunE:  runServe,
}

// -----------------------------------------------------------------------------

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	auditLog, err := openAudit(cfg)
	if err != nil {
		return err
	}
	defer auditLog.Close()

	srv := server.NewMonitorServer(cfg.MConfig, auditLog, logger.NewLogger("MonitorServer"))
	return srv.Start()
}
