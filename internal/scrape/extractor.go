package scrape

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Clock supplies record timestamps; injectable for tests.
type Clock interface {
	Now() time.Time
}

// Selectors the profile markup exposes. The stats section and its children
// are rendered client-side, which is why extraction runs on browser output.
const (
	selStatsSection = "div.player-stats"
	selBarSection   = "#player-bar-year"
	selYearFilter   = "#player-bar-year select.purei-bar-filter-select"
	selBarGroup     = "#player-bar-year div.player-bar-group"
	selStatItem     = "div.stat-item"
	selStatValue    = "div.stat-value"
	selRank         = "div.rank-percentile"
	selInfoBlock    = "div.player-info"
)

var testYearRe = regexp.MustCompile(`(19|20)\d{2}`)

// ExtractorConfig controls extraction-time normalization.
type ExtractorConfig struct {
	// ShiftBelowMinimum converts a "<N" percentile to N-0.01 at extraction
	// time. When false the literal "<" marker is kept in the stored text.
	ShiftBelowMinimum bool
}

// Extractor turns a rendered profile page into normalized per-test-year
// records.
type Extractor struct {
	cfg   ExtractorConfig
	clock Clock
}

// NewExtractor builds an Extractor stamping records with the given clock.
func NewExtractor(cfg ExtractorConfig, clock Clock) *Extractor {
	return &Extractor{cfg: cfg, clock: clock}
}

// Extract parses profileHTML into zero or more records. A page without a
// recognizable stats section yields nil (not a player page). A player page
// with no BAR test-year groups yields exactly one placeholder record with an
// empty test year so the player still appears in the dataset.
func (e *Extractor) Extract(profileHTML, profileURL string) ([]Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(profileHTML))
	if err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", profileURL, err)
	}
	if doc.Find(selStatsSection).Length() == 0 {
		return nil, nil
	}

	base := e.newBaseRecord(doc, profileURL)

	var records []Record
	doc.Find(selBarGroup).Each(func(_ int, group *goquery.Selection) {
		testYear := testYearRe.FindString(group.AttrOr("class", ""))
		if testYear == "" {
			return
		}
		rec := cloneRecord(base)
		rec["test_year"] = testYear
		group.Find(selStatItem).Each(func(_ int, item *goquery.Selection) {
			e.applyStatItem(rec, item)
		})
		records = append(records, rec)
	})

	if len(records) == 0 {
		records = append(records, cloneRecord(base))
	}
	return records, nil
}

// newBaseRecord fills every schema column with the empty string, then the
// fields shared by all of a profile's records: identity, bio, provenance.
func (e *Extractor) newBaseRecord(doc *goquery.Document, profileURL string) Record {
	rec := make(Record, len(Columns()))
	for _, col := range Columns() {
		rec[col] = ""
	}

	rec["name"] = SlugToName(profileSlug(profileURL))
	rec["grad_year"] = "0000"
	if sel := doc.Find(selYearFilter); sel.Length() > 0 {
		rec["grad_year"] = sel.AttrOr("data-graduation_year", "0000")
	}

	e.applyBio(rec, doc)

	rec["profile_url"] = profileURL
	rec["timestamp"] = e.clock.Now().UTC().Format(time.RFC3339)
	return rec
}

// applyBio copies the info-block fields. Every sub-element is optional;
// missing ones stay empty.
func (e *Extractor) applyBio(rec Record, doc *goquery.Document) {
	info := doc.Find(selInfoBlock).First()
	if info.Length() == 0 {
		return
	}
	direct := map[string]string{
		"positions":   ".player-positions",
		"bat_throw":   ".player-bat-throw",
		"height":      ".player-height",
		"weight":      ".player-weight",
		"summer_team": ".player-summer-team",
	}
	for col, sel := range direct {
		rec[col] = tidy(info.Find(sel).First().Text())
	}

	// School and home town share one text block: "High School, City, ST".
	school := tidy(info.Find(".player-school").First().Text())
	if school == "" {
		return
	}
	parts := strings.SplitN(school, ",", 2)
	rec["high_school"] = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		rec["city_state"] = strings.TrimSpace(parts[1])
	}
}

// applyStatItem merges one drill's score and percentile ranks into rec.
// Items whose heading is not a known drill are ignored.
func (e *Extractor) applyStatItem(rec Record, item *goquery.Selection) {
	label := strings.TrimSpace(item.Find("h4").First().Text())
	drill, ok := DrillByLabel(label)
	if !ok {
		return
	}
	rec[drill.Score] = tidy(item.Find(selStatValue).First().Text())

	item.Find(selRank).Each(func(_ int, rank *goquery.Selection) {
		value := tidyPercentile(rank.Text())
		if e.cfg.ShiftBelowMinimum {
			value = shiftBelowMinimum(value)
		}
		switch rank.AttrOr("data-type", "") {
		case "overall":
			rec[drill.Overall] = value
		case "graduation_year":
			rec[drill.Class] = value
		case "state":
			rec[drill.State] = value
		}
	})
}

// shiftBelowMinimum rewrites "<N" as N-0.01 so below-minimum percentiles
// sort under the real ones. Unparsable values pass through untouched.
func shiftBelowMinimum(value string) string {
	if !strings.HasPrefix(value, "<") {
		return value
	}
	f, err := strconv.ParseFloat(strings.TrimPrefix(value, "<"), 64)
	if err != nil {
		return value
	}
	return strconv.FormatFloat(f-0.01, 'f', -1, 64)
}

// profileSlug returns the trailing path segment of a profile URL.
func profileSlug(profileURL string) string {
	u, err := url.Parse(profileURL)
	if err != nil {
		return path.Base(strings.SplitN(profileURL, "#", 2)[0])
	}
	return path.Base(u.Path)
}
