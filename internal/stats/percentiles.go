// Package stats derives per-drill percentile distributions from the raw
// store. Scores are kept as raw text until this point; numeric coercion and
// its failure policy live here.
package stats

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rbt2/bnw-scrapie/internal/scrape"
)

// Breakpoints are the fixed quantiles of the output grid.
var Breakpoints = []int{25, 30, 35, 40, 45, 50, 55, 60, 65, 70, 75, 80, 85, 90, 95, 99}

// Grid maps drill names (spaces replaced with underscores) to percentile cut
// values, one per breakpoint. Drills without a single numeric sample are
// absent.
type Grid struct {
	Drills []string             // column order
	Values map[string][]float64 // drill -> value per breakpoint
}

// Compute builds the percentile grid over every row of the store. Each
// drill's distribution uses only the raw scores that coerce to a number;
// rows with unparsable scores are excluded from that drill, not from the
// dataset.
func Compute(rows []map[string]string) Grid {
	grid := Grid{Values: make(map[string][]float64)}
	for _, drill := range scrape.Drills {
		var sample []float64
		for _, row := range rows {
			if v, ok := coerceScore(row[drill.Score]); ok {
				sample = append(sample, v)
			}
		}
		if len(sample) == 0 {
			continue
		}
		sort.Float64s(sample)

		values := make([]float64, len(Breakpoints))
		for i, bp := range Breakpoints {
			values[i] = round2(percentile(sample, float64(bp)))
		}
		name := strings.ReplaceAll(drill.Label, " ", "_")
		grid.Drills = append(grid.Drills, name)
		grid.Values[name] = values
	}
	return grid
}

// coerceScore parses a raw score, normalizing feet-inches punctuation first:
// an apostrophe becomes a decimal point and quote marks are dropped, so
// 8'11" reads as 8.11.
func coerceScore(raw string) (float64, bool) {
	cleaned := strings.ReplaceAll(raw, "'", ".")
	cleaned = strings.ReplaceAll(cleaned, `"`, "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// percentile computes the p-th percentile of a sorted sample with linear
// interpolation between closest ranks.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WriteGrid renders the grid as CSV: one row per breakpoint, first column
// the breakpoint itself, then one column per drill.
func WriteGrid(path string, grid Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"Percentile"}, grid.Drills...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, bp := range Breakpoints {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(bp))
		for _, drill := range grid.Drills {
			row = append(row, strconv.FormatFloat(grid.Values[drill][i], 'f', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", bp, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush grid: %w", err)
	}
	return nil
}
