package browser

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Config controls the chromedp-backed page.
type Config struct {
	UserAgent    string
	NavTimeout   time.Duration // per-navigation budget
	ClickTimeout time.Duration // per-click budget
	NavQPS       float64       // hard ceiling on navigations per second, 0 disables
}

// ChromedpPage drives one headless Chrome tab for the lifetime of a run.
type ChromedpPage struct {
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	cfg         Config
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// NewChromedpPage launches headless Chrome and opens the single tab used for
// every navigation in the run.
func NewChromedpPage(cfg Config, logger *zap.Logger) (*ChromedpPage, error) {
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 45 * time.Second
	}
	if cfg.ClickTimeout <= 0 {
		cfg.ClickTimeout = 5 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("chromedp warmup: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.NavQPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.NavQPS), 1)
	}

	return &ChromedpPage{
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		cfg:         cfg,
		limiter:     limiter,
		logger:      logger,
	}, nil
}

// Close tears down the tab and the browser process.
func (p *ChromedpPage) Close() {
	p.tabCancel()
	p.allocCancel()
}

// Navigate implements Page.
func (p *ChromedpPage) Navigate(ctx context.Context, url string) error {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("navigation rate limit: %w", err)
		}
	}
	opCtx, cancel := p.opContext(ctx, p.cfg.NavTimeout)
	defer cancel()

	tasks := chromedp.Tasks{
		network.Enable(),
	}
	if p.cfg.UserAgent != "" {
		tasks = append(tasks, emulation.SetUserAgentOverride(p.cfg.UserAgent))
	}
	tasks = append(tasks,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err := chromedp.Run(opCtx, tasks); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// Content implements Page.
func (p *ChromedpPage) Content(ctx context.Context) (string, error) {
	opCtx, cancel := p.opContext(ctx, p.cfg.NavTimeout)
	defer cancel()

	var html string
	if err := chromedp.Run(opCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return html, nil
}

// AttrAll implements Page.
func (p *ChromedpPage) AttrAll(ctx context.Context, selector, attr string) ([]string, error) {
	opCtx, cancel := p.opContext(ctx, p.cfg.NavTimeout)
	defer cancel()

	var attrs []map[string]string
	err := chromedp.Run(opCtx,
		chromedp.AttributesAll(selector, &attrs, selectorOption(selector), chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	out := make([]string, 0, len(attrs))
	for _, m := range attrs {
		if v, ok := m[attr]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// Exists implements Page.
func (p *ChromedpPage) Exists(ctx context.Context, selector string) (bool, error) {
	opCtx, cancel := p.opContext(ctx, p.cfg.ClickTimeout)
	defer cancel()

	var nodes []*cdp.Node
	err := chromedp.Run(opCtx,
		chromedp.Nodes(selector, &nodes, selectorOption(selector), chromedp.AtLeast(0)),
	)
	if err != nil {
		return false, fmt.Errorf("query %q: %w", selector, err)
	}
	return len(nodes) > 0, nil
}

// Clickable implements Page.
func (p *ChromedpPage) Clickable(ctx context.Context, selector string) (bool, error) {
	opCtx, cancel := p.opContext(ctx, p.cfg.ClickTimeout)
	defer cancel()

	var clickable bool
	if err := chromedp.Run(opCtx, chromedp.Evaluate(clickableJS(selector), &clickable)); err != nil {
		return false, fmt.Errorf("probe %q: %w", selector, err)
	}
	return clickable, nil
}

// Click implements Page.
func (p *ChromedpPage) Click(ctx context.Context, selector string) error {
	opCtx, cancel := p.opContext(ctx, p.cfg.ClickTimeout)
	defer cancel()

	if err := chromedp.Run(opCtx, chromedp.Click(selector, selectorOption(selector), chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	return nil
}

// WaitAttached implements Page.
func (p *ChromedpPage) WaitAttached(ctx context.Context, selector string, timeout time.Duration) error {
	opCtx, cancel := p.opContext(ctx, timeout)
	defer cancel()

	if err := chromedp.Run(opCtx, chromedp.WaitReady(selector, selectorOption(selector))); err != nil {
		return fmt.Errorf("wait for %q: %w", selector, err)
	}
	return nil
}

// opContext bounds one browser operation with both the caller's context and
// the operation timeout. The chromedp tab context is the base; the caller's
// cancellation is forwarded onto it.
func (p *ChromedpPage) opContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	opCtx, cancelTimeout := context.WithTimeout(p.tabCtx, timeout)
	stop := forwardCancel(ctx, cancelTimeout)
	return opCtx, func() {
		stop()
		cancelTimeout()
	}
}

func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}

// selectorOption picks the chromedp query strategy: XPath expressions go
// through DOM search, everything else is a plain CSS query.
func selectorOption(selector string) chromedp.QueryOption {
	if strings.HasPrefix(selector, "//") {
		return chromedp.BySearch
	}
	return chromedp.ByQueryAll
}

// clickableJS builds a script reporting whether the first match of selector
// is both visible and enabled. XPath and CSS selectors are both accepted.
func clickableJS(selector string) string {
	quoted := strconv.Quote(selector)
	return fmt.Sprintf(`(function() {
	var sel = %s;
	var el;
	if (sel.indexOf('//') === 0) {
		el = document.evaluate(sel, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	} else {
		el = document.querySelector(sel);
	}
	if (!el) { return false; }
	var style = window.getComputedStyle(el);
	if (style.display === 'none' || style.visibility === 'hidden' || el.offsetParent === null) {
		return false;
	}
	return !el.disabled;
})()`, quoted)
}
