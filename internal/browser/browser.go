// Package browser abstracts the headless-browser collaborator behind a small
// DOM-query interface so the pipeline never touches automation mechanics
// directly.
package browser

import (
	"context"
	"time"
)

// Page is the rendering and DOM-query oracle a scrape run drives. Exactly
// one logical page exists per run; implementations need not be safe for
// concurrent use.
type Page interface {
	// Navigate loads url and blocks until the document body is ready or the
	// implementation's navigation timeout expires.
	Navigate(ctx context.Context, url string) error

	// Content returns the rendered outer HTML of the current document.
	Content(ctx context.Context) (string, error)

	// AttrAll returns the given attribute of every element matching the
	// selector, skipping elements without it.
	AttrAll(ctx context.Context, selector, attr string) ([]string, error)

	// Exists reports whether at least one element matches the selector.
	Exists(ctx context.Context, selector string) (bool, error)

	// Clickable reports whether the first match is visible and enabled.
	Clickable(ctx context.Context, selector string) (bool, error)

	// Click clicks the first visible match, bounded by the click timeout.
	Click(ctx context.Context, selector string) error

	// WaitAttached blocks until the selector matches something in the DOM,
	// up to the given timeout.
	WaitAttached(ctx context.Context, selector string, timeout time.Duration) error
}
