package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rbt2/bnw-scrapie/internal/browser"
	"github.com/rbt2/bnw-scrapie/internal/clock/system"
	"github.com/rbt2/bnw-scrapie/internal/config"
	"github.com/rbt2/bnw-scrapie/internal/id/uuid"
	"github.com/rbt2/bnw-scrapie/internal/scrape"
	"github.com/rbt2/bnw-scrapie/internal/stats"
	"github.com/rbt2/bnw-scrapie/internal/store"
)

// newScrapeCmd creates the 'scrape' subcommand: one full incremental pass
// over the given graduation cohorts followed by percentile re-aggregation.
func newScrapeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape [years...]",
		Short: "Runs one incremental scrape pass for the given cohort years",
		Long: `Collects profile links for each graduation year, visits every profile
with polite pacing, appends unseen (player, test year) rows to the raw store,
and recomputes the percentile grid. Years may be passed as arguments or
entered interactively.`,

		RunE: func(cmd *cobra.Command, args []string) error {
			tokens := args
			if len(tokens) == 0 {
				var err error
				tokens, err = promptYears(cmd)
				if err != nil {
					return err
				}
			}
			years := validYears(a.logger, tokens)
			if len(years) == 0 {
				return fmt.Errorf("no valid years in range [%d, %d]", scrape.MinYear, time.Now().Year())
			}
			return runScrape(cmd.Context(), a, years)
		},
	}
}

// promptYears asks the operator for a space-separated year list.
func promptYears(cmd *cobra.Command) ([]string, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "Graduation years to scrape (e.g. 2025 2026): ")
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read years: %w", err)
		}
		return nil, fmt.Errorf("no years entered")
	}
	return strings.Fields(scanner.Text()), nil
}

// validYears filters tokens through ParseYears, reporting every drop.
func validYears(logger *zap.Logger, tokens []string) []string {
	now := time.Now()
	valid := scrape.ParseYears(tokens, now)
	kept := make(map[string]struct{}, len(valid))
	for _, y := range valid {
		kept[y] = struct{}{}
	}
	for _, tok := range tokens {
		if _, ok := kept[tok]; !ok {
			logger.Warn("Dropping invalid year", zap.String("token", tok))
		}
	}
	return valid
}

func runScrape(ctx context.Context, a *app, years []string) error {
	cfg := a.cfg
	logger := a.logger

	page, err := browser.NewChromedpPage(browser.Config{
		UserAgent:    cfg.Browser.UserAgent,
		NavTimeout:   cfg.NavTimeout(),
		ClickTimeout: cfg.ClickTimeout(),
		NavQPS:       cfg.Browser.NavQPS,
	}, logger)
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	defer page.Close()

	pacer := scrape.NewPacer(pacerConfig(cfg.Pacing), nil)
	detector := scrape.NewChallengeDetector(cfg.Challenge.Keywords, cfg.Challenge.MarkerSelectors)
	fetcher := scrape.NewFetcher(page, detector, scrape.FetcherConfig{
		Fragment: cfg.Site.BarFragment,
		Retry: scrape.ChallengeRetryPolicy{
			MaxRetries: cfg.Challenge.MaxRetries,
			Wait:       time.Duration(cfg.Challenge.WaitSec) * time.Second,
		},
		SettleSelector: cfg.Site.SettleSelector,
		SettleTimeout:  time.Duration(cfg.Site.SettleTimeoutSec) * time.Second,
	}, logger)
	collector := scrape.NewCollector(page, pacer, scrape.CollectorConfig{
		BaseURL:          cfg.Site.BaseURL,
		ProfilePrefix:    cfg.Site.ProfilePrefix,
		LoadMoreSelector: cfg.Site.LoadMoreSelector,
	}, logger)
	extractor := scrape.NewExtractor(scrape.ExtractorConfig{
		ShiftBelowMinimum: cfg.Extract.ShiftBelowMinimum,
	}, system.New())

	rawStore := store.NewCSVStore(cfg.Store.RawFile, scrape.Columns())
	ledger := store.LoadLedger(rawStore, logger)

	runner := scrape.NewRunner(collector, fetcher, extractor, ledger, rawStore, pacer, uuid.NewGenerator(), logger)
	if err := runner.Run(ctx, years); err != nil {
		return fmt.Errorf("scrape run: %w", err)
	}

	return stats.Recompute(rawStore, cfg.Store.PercentilesFile, logger)
}

func pacerConfig(p config.PacingConfig) scrape.PacerConfig {
	return scrape.PacerConfig{
		JitterMin:  time.Duration(p.JitterMinSec) * time.Second,
		JitterMax:  time.Duration(p.JitterMaxSec) * time.Second,
		PageDelay:  time.Duration(p.PageDelaySec) * time.Second,
		BurstEvery: p.BurstEvery,
		Cooldown:   time.Duration(p.CooldownSec) * time.Second,
	}
}
