// Package cmd defines and implements the CLI commands for the bnw-scrapie
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rbt2/bnw-scrapie/internal/config"
	"github.com/rbt2/bnw-scrapie/internal/logging"
)

// app holds the services shared by every subcommand, built once in the root
// command's PersistentPreRunE.
type app struct {
	cfg    config.Config
	logger *zap.Logger
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	a := &app{}
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "bnw-scrapie",
		Short: "Incremental BAR combine-stat scraper for the BNW roster site.",
		Long: `bnw-scrapie walks the roster site's cohort listings, extracts each
player's BAR drill results year by year, appends new rows to an append-only
CSV store, and recomputes per-drill percentile distributions.`,
		SilenceUsage: true,

		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.New(cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},

		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")

	cmd.AddCommand(newScrapeCmd(a))
	cmd.AddCommand(newPercentilesCmd(a))

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
