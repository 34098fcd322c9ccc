package scrape

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ChallengeDetector spots anti-bot interstitials in rendered HTML using
// keyword and marker-selector signals.
type ChallengeDetector struct {
	keywords  [][]byte
	selectors []string
}

// DefaultChallengeKeywords are the markers the site's CDN puts on its
// verification pages.
func DefaultChallengeKeywords() []string {
	return []string{"Attention Required!", "cf-error-details"}
}

// NewChallengeDetector builds a detector from keyword and selector lists.
// Blank entries are dropped; keyword matching is case-insensitive.
func NewChallengeDetector(keywords, selectors []string) *ChallengeDetector {
	lowered := make([][]byte, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		lowered = append(lowered, bytes.ToLower([]byte(kw)))
	}
	return &ChallengeDetector{keywords: lowered, selectors: selectors}
}

// Detect reports whether html looks like a challenge page rather than real
// content.
func (d *ChallengeDetector) Detect(html []byte) bool {
	if d == nil || len(html) == 0 {
		return false
	}
	if d.containsKeyword(html) {
		return true
	}
	return d.matchesSelector(html)
}

func (d *ChallengeDetector) containsKeyword(html []byte) bool {
	if len(d.keywords) == 0 {
		return false
	}
	lower := bytes.ToLower(html)
	for _, kw := range d.keywords {
		if bytes.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (d *ChallengeDetector) matchesSelector(html []byte) bool {
	if len(d.selectors) == 0 {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return false
	}
	for _, sel := range d.selectors {
		if sel == "" {
			continue
		}
		if doc.Find(sel).Length() > 0 {
			return true
		}
	}
	return false
}
