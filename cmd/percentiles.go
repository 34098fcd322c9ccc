package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rbt2/bnw-scrapie/internal/scrape"
	"github.com/rbt2/bnw-scrapie/internal/stats"
	"github.com/rbt2/bnw-scrapie/internal/store"
)

// newPercentilesCmd creates the 'percentiles' subcommand, which recomputes
// the percentile grid from the existing raw store without scraping.
func newPercentilesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "percentiles",
		Short: "Recomputes the percentile grid from the raw store",

		RunE: func(_ *cobra.Command, _ []string) error {
			rawStore := store.NewCSVStore(a.cfg.Store.RawFile, scrape.Columns())
			return stats.Recompute(rawStore, a.cfg.Store.PercentilesFile, a.logger)
		},
	}
}
