package scrape

import (
	"strings"
	"unicode"
)

// Drill describes one combine drill and the four raw-store columns it owns.
type Drill struct {
	Label   string // heading text on the profile page, e.g. "Broad Jump"
	Score   string // raw score column
	Overall string // overall percentile column
	Class   string // graduation-year percentile column
	State   string // state percentile column
}

// Drills enumerates the five BAR drills in store-column order.
var Drills = []Drill{
	{Label: "60 YD", Score: "60_time", Overall: "60_pct", Class: "60_class_pct", State: "60_state_pct"},
	{Label: "30 YD", Score: "30_time", Overall: "30_pct", Class: "30_class_pct", State: "30_state_pct"},
	{Label: "Broad Jump", Score: "broad_ft", Overall: "broad_pct", Class: "broad_class_pct", State: "broad_state_pct"},
	{Label: "L-Drill", Score: "l_time", Overall: "l_pct", Class: "l_class_pct", State: "l_state_pct"},
	{Label: "Med Ball", Score: "med_ft", Overall: "med_pct", Class: "med_class_pct", State: "med_state_pct"},
}

// DrillByLabel returns the drill matching a stat-item heading, if any.
func DrillByLabel(label string) (Drill, bool) {
	for _, d := range Drills {
		if d.Label == label {
			return d, true
		}
	}
	return Drill{}, false
}

// Record is one normalized (player, test year) row. Values are raw text; a
// missing field is the empty string, never an absent key, by the time the
// record reaches the store.
type Record map[string]string

// Columns is the fixed raw-store schema. The store writes every row in this
// order regardless of which keys a record carries.
func Columns() []string {
	cols := []string{
		"grad_year", "name",
		"city_state", "high_school", "positions", "bat_throw",
		"height", "weight", "summer_team",
		"test_year",
	}
	for _, d := range Drills {
		cols = append(cols, d.Score, d.Overall, d.Class, d.State)
	}
	return append(cols, "profile_url", "timestamp")
}

// cloneRecord copies a record so per-year rows never share storage.
func cloneRecord(src Record) Record {
	dst := make(Record, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// SlugToName converts the trailing URL path segment of a profile into a
// display name: hyphens become spaces and each word is title-cased.
func SlugToName(slug string) string {
	words := strings.Split(strings.ReplaceAll(slug, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// tidy trims whitespace and drops non-breaking spaces from scraped text.
func tidy(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, " ", ""))
}

// tidyPercentile normalizes a rank value: whitespace trimmed, the trailing
// percent sign removed, and the below-minimum marker "< " collapsed to a
// bare "<" prefix. The marker itself is preserved; numeric handling is an
// aggregation-time concern.
func tidyPercentile(s string) string {
	s = tidy(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, "< ", "<")
	return strings.TrimSpace(s)
}
