package scrape

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rbt2/bnw-scrapie/internal/browser"
)

// CollectorConfig controls listing-page pagination.
type CollectorConfig struct {
	BaseURL          string // site origin, no trailing slash
	ProfilePrefix    string // path prefix identifying profile links
	LoadMoreSelector string // selector for the pagination control
}

// DefaultCollectorConfig targets the production roster site.
func DefaultCollectorConfig() CollectorConfig {
	return CollectorConfig{
		BaseURL:          "https://baseballnorthwest.com",
		ProfilePrefix:    "/profiles/",
		LoadMoreSelector: "//button[contains(., 'Load More')]",
	}
}

// Collector expands a cohort's listing page through its "Load More" control
// and accumulates the set of profile URLs it exposes.
type Collector struct {
	page   browser.Page
	pacer  *Pacer
	cfg    CollectorConfig
	logger *zap.Logger
}

// NewCollector builds a Collector over the shared browser page.
func NewCollector(page browser.Page, pacer *Pacer, cfg CollectorConfig, logger *zap.Logger) *Collector {
	return &Collector{page: page, pacer: pacer, cfg: cfg, logger: logger}
}

// ListingURL returns the find-player URL for one graduation cohort.
func (c *Collector) ListingURL(year string) string {
	return fmt.Sprintf("%s/find-player?graduation_year=%s&submit=Submit", c.cfg.BaseURL, year)
}

// Collect returns every profile URL discoverable for the cohort year. It
// terminates when the Load More control disappears, stops being clickable,
// fails to click, or a full iteration discovers nothing new.
func (c *Collector) Collect(ctx context.Context, year string) (map[string]struct{}, error) {
	c.logger.Info("Collecting cohort listing", zap.String("year", year))
	if err := c.page.Navigate(ctx, c.ListingURL(year)); err != nil {
		return nil, fmt.Errorf("open listing for %s: %w", year, err)
	}

	linkSelector := fmt.Sprintf("a[href^='%s']", c.cfg.ProfilePrefix)
	urls := make(map[string]struct{})
	prev := -1
	for {
		if err := ctx.Err(); err != nil {
			return urls, fmt.Errorf("collect canceled: %w", err)
		}

		hrefs, err := c.page.AttrAll(ctx, linkSelector, "href")
		if err != nil {
			c.logger.Warn("Link scan failed, keeping what we have", zap.Error(err))
			break
		}
		for _, href := range hrefs {
			if href == "" {
				continue
			}
			urls[c.cfg.BaseURL+href] = struct{}{}
		}

		// Fixed point: a whole iteration added nothing, so clicking further
		// cannot help.
		if len(urls) == prev {
			break
		}
		prev = len(urls)

		more, err := c.page.Exists(ctx, c.cfg.LoadMoreSelector)
		if err != nil || !more {
			break
		}
		clickable, err := c.page.Clickable(ctx, c.cfg.LoadMoreSelector)
		if err != nil || !clickable {
			break
		}
		if err := c.page.Click(ctx, c.cfg.LoadMoreSelector); err != nil {
			c.logger.Warn("Load More click failed, stopping listing", zap.Error(err))
			break
		}
		Pause(ctx, c.pacer.PageDelay())
	}

	metricLinksDiscovered.Add(float64(len(urls)))
	c.logger.Info("Cohort listing collected",
		zap.String("year", year),
		zap.Int("links", len(urls)),
	)
	return urls, nil
}
