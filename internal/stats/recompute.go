package stats

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rbt2/bnw-scrapie/internal/store"
)

// Recompute reads every row of the raw store and rewrites the percentile
// grid at outPath. It is safe to run standalone against an existing store;
// a missing or empty store is a graceful no-op.
func Recompute(s *store.CSVStore, outPath string, logger *zap.Logger) error {
	if !s.Exists() {
		logger.Info("No rows saved, skipping percentile grid",
			zap.String("store", s.Path()),
		)
		return nil
	}
	rows, err := s.ReadAll()
	if err != nil {
		return fmt.Errorf("read store: %w", err)
	}
	if len(rows) == 0 {
		logger.Info("Store is empty, skipping percentile grid",
			zap.String("store", s.Path()),
		)
		return nil
	}

	grid := Compute(rows)
	if err := WriteGrid(outPath, grid); err != nil {
		return fmt.Errorf("write grid: %w", err)
	}
	logger.Info("Percentile grid written",
		zap.String("path", outPath),
		zap.Int("rows", len(rows)),
		zap.Int("drills", len(grid.Drills)),
	)
	return nil
}
