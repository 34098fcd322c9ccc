package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rbt2/bnw-scrapie/internal/browser"
)

// ChallengeRetryPolicy bounds the wait-and-retry loop for challenge pages.
type ChallengeRetryPolicy struct {
	MaxRetries int           // extra attempts after the first fetch
	Wait       time.Duration // cooldown before each retry
}

// DefaultChallengeRetryPolicy matches the cooldown the CDN expects.
func DefaultChallengeRetryPolicy() ChallengeRetryPolicy {
	return ChallengeRetryPolicy{MaxRetries: 2, Wait: 60 * time.Second}
}

// FetcherConfig controls profile fetching.
type FetcherConfig struct {
	// Fragment is appended to every URL (replacing any existing fragment) so
	// the page scrolls its stats section into the initial render.
	Fragment string
	// Retry bounds the challenge wait-and-retry loop.
	Retry ChallengeRetryPolicy
	// SettleSelector, when set, is waited on after a clean fetch: the stat
	// items attach late on some profiles, so the document is re-read once
	// the selector appears. A timeout just keeps the original HTML.
	SettleSelector string
	SettleTimeout  time.Duration
}

// Fetcher retrieves rendered profile pages, waiting out anti-bot challenge
// interstitials. It never fails on challenge detection: after exhausting
// retries the last HTML is returned as-is and downstream parsing decides
// what to do with it. Navigation errors do propagate.
type Fetcher struct {
	page     browser.Page
	detector *ChallengeDetector
	cfg      FetcherConfig
	logger   *zap.Logger
}

// NewFetcher wires a challenge-aware fetcher over the browser page.
func NewFetcher(page browser.Page, detector *ChallengeDetector, cfg FetcherConfig, logger *zap.Logger) *Fetcher {
	if cfg.SettleTimeout <= 0 {
		cfg.SettleTimeout = 3 * time.Second
	}
	return &Fetcher{
		page:     page,
		detector: detector,
		cfg:      cfg,
		logger:   logger,
	}
}

// Fetch navigates to url and returns the rendered HTML, retrying through
// challenge pages up to the policy's budget.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	target := strings.SplitN(url, "#", 2)[0] + f.cfg.Fragment

	var html string
	for attempt := 0; attempt <= f.cfg.Retry.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("fetch canceled: %w", err)
		}
		if err := f.page.Navigate(ctx, target); err != nil {
			return "", fmt.Errorf("fetch %s: %w", url, err)
		}
		content, err := f.page.Content(ctx)
		if err != nil {
			return "", fmt.Errorf("fetch %s: %w", url, err)
		}
		html = content
		if !f.detector.Detect([]byte(html)) {
			return f.settle(ctx, html), nil
		}
		metricChallengesDetected.Inc()
		f.logger.Warn("Challenge page detected, cooling down",
			zap.String("url", url),
			zap.Duration("wait", f.cfg.Retry.Wait),
			zap.Int("attempt", attempt+1),
		)
		Pause(ctx, f.cfg.Retry.Wait)
	}
	// Out of retries: hand back whatever we got. The extractor will treat a
	// challenge page as a profile with no stats section.
	return html, nil
}

// settle waits briefly for late-attaching stat items and re-reads the
// document if they show up. Profiles with no drill sessions time out here,
// which is fine; the caller keeps the HTML it already has.
func (f *Fetcher) settle(ctx context.Context, html string) string {
	if f.cfg.SettleSelector == "" {
		return html
	}
	if err := f.page.WaitAttached(ctx, f.cfg.SettleSelector, f.cfg.SettleTimeout); err != nil {
		return html
	}
	refreshed, err := f.page.Content(ctx)
	if err != nil {
		return html
	}
	return refreshed
}
