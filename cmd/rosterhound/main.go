// Package main implements the rosterhound CLI: one-shot schedule extraction
// and the HTTP serving mode.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rosterhound/internal/config"
	"rosterhound/internal/logging"
)

var (
	cfgPath string
	cfg     config.Config
	logger  *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rosterhound",
		Short: "Extract a pilot's duty calendar from the crew portal",
		Long: `rosterhound logs into the crew-scheduling portal through a headless
browser, walks the duty calendar, and emits a canonical schedule snapshot
(pairings, legs, hotels, crew, reserve and training duties).`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to yaml config file")

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initApp loads the environment, config, and logger.
func initApp() error {
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err = logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}
