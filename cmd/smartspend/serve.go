package main

import (
	"os"
	"os/signal"
	"syscall"

	"smartspend/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI and JSON API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withContainer(func(c *server.Container) error {
		housekeeping(c)

		e, err := server.New(ctx, c, prometheus.DefaultGatherer)
		if err != nil {
			return err
		}
		return server.Run(ctx, e, c)
	})
}

// housekeeping drops expired blacklist entries and audit entries past retention.
// Failures are logged; neither blocks startup.
func housekeeping(c *server.Container) {
	if n, err := c.BlacklistedTokenRepo.DeleteExpired(); err != nil {
		c.Logger.Warn("Failed to clean up expired tokens", "error", err)
	} else if n > 0 {
		c.Logger.Info("Removed expired blacklisted tokens", "count", n)
	}

	retention := c.Config.App.AuditRetention
	if retention <= 0 {
		return
	}
	if n, err := c.AuditLogRepo.DeleteOlderThan(retention); err != nil {
		c.Logger.Warn("Failed to prune audit log", "error", err)
	} else if n > 0 {
		c.Logger.Info("Pruned audit log", "count", n, "retention", retention.String())
	}
}
