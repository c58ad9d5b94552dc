package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"smartspend/internal/config"
	"smartspend/internal/database"
	"smartspend/internal/models"
	"smartspend/internal/repositories"
	"smartspend/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:           "smartspend",
	Short:         "Personal expense tracker",
	Long:          "SmartSpend records expenses per user and serves a dashboard, charts and a spending forecast.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (TOML, YAML or JSON); defaults to $"+config.ConfigFileEnv)
}

// bootstrap loads configuration, opens the database and wires the services.
// The returned func closes the database.
func bootstrap() (*server.Container, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger := server.NewLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	db, err := database.Initialize(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	c := server.NewContainer(cfg, db, logger, prometheus.DefaultRegisterer)
	return c, func() { db.Close() }, nil
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return os.Getenv(config.ConfigFileEnv)
}

// withContainer runs fn against a freshly bootstrapped container.
func withContainer(fn func(c *server.Container) error) error {
	c, closeDB, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeDB()
	return fn(c)
}

func lookupUser(c *server.Container, username string) (*models.User, error) {
	if username == "" {
		return nil, errors.New("--user is required")
	}
	user, err := c.UserRepo.GetByUsername(username)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("no user named %q", username)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Audit entries written from the command line carry these in place of request metadata.
const (
	cliIPAddress = "127.0.0.1"
	cliUserAgent = "smartspend-cli"
)
