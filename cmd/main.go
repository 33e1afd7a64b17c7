package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keviiweb/VBS-sub000/internal/config"
	"github.com/keviiweb/VBS-sub000/pkg/logger"
	"github.com/keviiweb/VBS-sub000/pkg/metrics"
)

// App общие зависимости команд
type App struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics
}

var (
	configPath string
	app        *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "vbs",
		Short:         "Venue booking system",
		Long:          `Venue booking service: booking requests, approvals, CCA sessions and administration.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.log != nil {
				_ = app.log.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "Path to TOML config file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(purgeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initApp загружает конфигурацию, логгер и метрики
func initApp() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app = &App{cfg: cfg, log: log}

	if cfg.Metrics.Enabled {
		app.metrics = metrics.New(cfg.Metrics.ServiceName)
	}

	log.Info("Configuration loaded from %s", configPath)
	return nil
}
