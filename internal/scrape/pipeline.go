package scrape

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Ledger tracks which (name, test year) keys are already persisted.
type Ledger interface {
	Seen(name, testYear string) bool
	Mark(name, testYear string)
}

// RowAppender durably appends one row to the raw store.
type RowAppender interface {
	Append(row map[string]string) error
}

// PageFetcher retrieves the rendered HTML for one profile URL.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// LinkSource yields the profile URLs for one cohort year.
type LinkSource interface {
	Collect(ctx context.Context, year string) (map[string]struct{}, error)
}

// IDGenerator produces run IDs.
type IDGenerator interface {
	NewID() (string, error)
}

// Runner executes one incremental scrape pass: collect links per cohort,
// then sequentially fetch, extract, dedup, and append, pacing between
// profiles. Per-URL failures are skipped; only store writes abort the run.
type Runner struct {
	links     LinkSource
	fetcher   PageFetcher
	extractor *Extractor
	ledger    Ledger
	appender  RowAppender
	pacer     *Pacer
	ids       IDGenerator
	logger    *zap.Logger
}

// NewRunner wires a Runner from its collaborators.
func NewRunner(
	links LinkSource,
	fetcher PageFetcher,
	extractor *Extractor,
	ledger Ledger,
	appender RowAppender,
	pacer *Pacer,
	ids IDGenerator,
	logger *zap.Logger,
) *Runner {
	return &Runner{
		links:     links,
		fetcher:   fetcher,
		extractor: extractor,
		ledger:    ledger,
		appender:  appender,
		pacer:     pacer,
		ids:       ids,
		logger:    logger,
	}
}

// Run scrapes every cohort year and returns once all discovered profiles
// have been processed.
func (r *Runner) Run(ctx context.Context, years []string) error {
	logger := r.logger
	if r.ids != nil {
		if runID, err := r.ids.NewID(); err == nil {
			logger = logger.With(zap.String("run_id", runID))
		}
	}

	urls := make(map[string]struct{})
	for _, year := range years {
		found, err := r.links.Collect(ctx, year)
		for u := range found {
			urls[u] = struct{}{}
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("link collection: %w", err)
			}
			logger.Warn("Cohort collection incomplete", zap.String("year", year), zap.Error(err))
		}
	}
	logger.Info("Link collection complete", zap.Int("unique_links", len(urls)))

	ordered := make([]string, 0, len(urls))
	for u := range urls {
		ordered = append(ordered, u)
	}
	sort.Strings(ordered)

	okCount := 0
	for idx, url := range ordered {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run canceled: %w", err)
		}
		logger.Info("Visiting profile",
			zap.Int("n", idx+1),
			zap.Int("total", len(ordered)),
			zap.String("url", url),
		)

		wrote, err := r.processProfile(ctx, url)
		if err != nil {
			return err
		}
		// The burst cooldown is only evaluated right after a write, so a
		// long stretch of already-seen profiles does not keep re-triggering
		// it at the same counter value.
		if wrote {
			okCount++
			Pause(ctx, r.pacer.NextDelay(okCount))
		} else {
			Pause(ctx, r.pacer.NextDelay(0))
		}
	}

	logger.Info("Scrape pass finished",
		zap.Int("profiles", len(ordered)),
		zap.Int("written", okCount),
	)
	return nil
}

// processProfile handles one URL end to end. Fetch and parse problems are
// soft failures; a store append error aborts the run.
func (r *Runner) processProfile(ctx context.Context, url string) (bool, error) {
	html, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		metricNavigationFailures.Inc()
		r.logger.Warn("Profile fetch failed, skipping", zap.String("url", url), zap.Error(err))
		return false, nil
	}
	metricProfilesFetched.Inc()

	records, err := r.extractor.Extract(html, url)
	if err != nil {
		r.logger.Warn("Profile parse failed, skipping", zap.String("url", url), zap.Error(err))
		return false, nil
	}
	if len(records) == 0 {
		r.logger.Debug("Not a player page", zap.String("url", url))
		return false, nil
	}

	wrote := false
	for _, rec := range records {
		name, testYear := rec["name"], rec["test_year"]
		if r.ledger.Seen(name, testYear) {
			metricDuplicatesSkipped.Inc()
			continue
		}
		r.ledger.Mark(name, testYear)
		if err := r.appender.Append(rec); err != nil {
			return wrote, fmt.Errorf("append %s/%s: %w", name, testYear, err)
		}
		metricRecordsWritten.Inc()
		r.logger.Info("Row written", zap.String("name", name), zap.String("test_year", testYear))
		wrote = true
	}
	return wrote, nil
}
