package scrape

import (
	"strconv"
	"time"
)

// MinYear is the earliest graduation cohort with BAR data on the site.
const MinYear = 2012

// ParseYears filters raw year tokens down to valid 4-digit cohort years in
// [MinYear, current year]. Order is preserved; non-numeric and out-of-range
// tokens are dropped.
func ParseYears(tokens []string, now time.Time) []string {
	maxYear := now.Year()
	var out []string
	for _, tok := range tokens {
		if len(tok) != 4 {
			continue
		}
		y, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		if y < MinYear || y > maxYear {
			continue
		}
		out = append(out, tok)
	}
	return out
}
