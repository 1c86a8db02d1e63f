package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"spexgen/internal/audit"
	"spexgen/internal/server"
	"spexgen/internal/template"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the packaging pipeline as a host-invoked plugin",
	Long: `Binds a loopback TCP listener, prints the handshake line to stdout and
serves generation requests over HTTP until interrupted. Templates are loaded
once at startup and shared read-only across requests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		templates, err := template.NewStore(cfg.Templates.Dir)
		if err != nil {
			return err
		}
		logger.Info("template store loaded", zap.Int("templates", len(templates.IDs())))

		var auditStore *audit.Store
		if cfg.Audit.Enabled {
			auditStore, err = audit.Open(cfg.Audit.Path)
			if err != nil {
				// Run history is best-effort; serving continues without it.
				logger.Warn("audit store unavailable", zap.Error(err))
			} else {
				defer auditStore.Close()
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.New(cfg, templates, auditStore, logger).Run(ctx)
	},
}
