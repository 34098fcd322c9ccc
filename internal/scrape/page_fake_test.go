package scrape

import (
	"context"
	"time"
)

// fakePage is an in-memory Page for exercising the fetcher and collector
// without a browser.
type fakePage struct {
	navErr    error
	navigated []string

	contents   []string // successive Content results; last one repeats
	contentIdx int

	hrefBatches [][]string // successive AttrAll results; last one repeats
	hrefIdx     int

	moreExists    bool
	moreClickable bool
	clickErr      error
	clicks        int

	waitErr error
	waits   int
}

func (p *fakePage) Navigate(_ context.Context, url string) error {
	p.navigated = append(p.navigated, url)
	return p.navErr
}

func (p *fakePage) Content(context.Context) (string, error) {
	if len(p.contents) == 0 {
		return "", nil
	}
	i := p.contentIdx
	if i >= len(p.contents) {
		i = len(p.contents) - 1
	}
	p.contentIdx++
	return p.contents[i], nil
}

func (p *fakePage) AttrAll(context.Context, string, string) ([]string, error) {
	if len(p.hrefBatches) == 0 {
		return nil, nil
	}
	i := p.hrefIdx
	if i >= len(p.hrefBatches) {
		i = len(p.hrefBatches) - 1
	}
	p.hrefIdx++
	return p.hrefBatches[i], nil
}

func (p *fakePage) Exists(context.Context, string) (bool, error) {
	return p.moreExists, nil
}

func (p *fakePage) Clickable(context.Context, string) (bool, error) {
	return p.moreClickable, nil
}

func (p *fakePage) Click(context.Context, string) error {
	p.clicks++
	return p.clickErr
}

func (p *fakePage) WaitAttached(context.Context, string, time.Duration) error {
	p.waits++
	return p.waitErr
}
