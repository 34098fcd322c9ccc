package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rbt2/bnw-scrapie/internal/scrape"
	"github.com/rbt2/bnw-scrapie/internal/store"
)

func TestRecomputeMissingStoreIsNoOp(t *testing.T) {
	dir := t.TempDir()
	s := store.NewCSVStore(filepath.Join(dir, "raw.csv"), scrape.Columns())
	out := filepath.Join(dir, "percentiles.csv")

	require.NoError(t, Recompute(s, out, zap.NewNop()))
	_, err := os.Stat(out)
	require.True(t, os.IsNotExist(err), "no grid should be written for a missing store")
}

func TestRecomputeWritesGrid(t *testing.T) {
	dir := t.TempDir()
	s := store.NewCSVStore(filepath.Join(dir, "raw.csv"), scrape.Columns())
	require.NoError(t, s.Append(map[string]string{"name": "A", "60_time": "7.0"}))
	require.NoError(t, s.Append(map[string]string{"name": "B", "60_time": "7.4"}))

	out := filepath.Join(dir, "percentiles.csv")
	require.NoError(t, Recompute(s, out, zap.NewNop()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), "Percentile,60_YD")
}
