package store

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testColumns = []string{"grad_year", "name", "test_year", "60_time", "profile_url"}

func newTestStore(t *testing.T) *CSVStore {
	t.Helper()
	return NewCSVStore(filepath.Join(t.TempDir(), "raw.csv"), testColumns)
}

func TestStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)

	rows := []map[string]string{
		{"grad_year": "2026", "name": "John Doe", "test_year": "2024", "60_time": "7.12", "profile_url": "u1"},
		{"grad_year": "2027", "name": "Sam Roe", "test_year": "", "60_time": "", "profile_url": "u2"},
	}
	for _, row := range rows {
		require.NoError(t, s.Append(row))
	}

	got, err := s.ReadAll()
	require.NoError(t, err)
	require.Len(t, got, len(rows))
	for i, row := range rows {
		for col, want := range row {
			require.Equal(t, want, got[i][col])
		}
	}
}

func TestStoreHeaderWrittenOnce(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(map[string]string{"name": "A"}))
	require.NoError(t, s.Append(map[string]string{"name": "B"}))

	f, err := os.Open(s.Path())
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus two rows")
	require.Equal(t, testColumns, records[0])
}

func TestStoreSchemaStability(t *testing.T) {
	s := newTestStore(t)
	// Sparse row and a row carrying an extra key.
	require.NoError(t, s.Append(map[string]string{"name": "Sparse"}))
	require.NoError(t, s.Append(map[string]string{"name": "Extra", "unknown_col": "x"}))

	f, err := os.Open(s.Path())
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	for _, rec := range records {
		require.Len(t, rec, len(testColumns), "every row has the full column set")
	}
	require.Equal(t, []string{"", "Sparse", "", "", ""}, records[1])
}

func TestStoreReadAllMissingFile(t *testing.T) {
	s := newTestStore(t)
	rows, err := s.ReadAll()
	require.NoError(t, err)
	require.Empty(t, rows)
	require.False(t, s.Exists())
}

func TestLedgerSeenAndMark(t *testing.T) {
	l := NewLedger()
	require.False(t, l.Seen("John Doe", "2024"))
	l.Mark("John Doe", "2024")
	require.True(t, l.Seen("John Doe", "2024"))
	require.False(t, l.Seen("John Doe", ""), "empty test year is a distinct key")
	l.Mark("John Doe", "")
	require.True(t, l.Seen("John Doe", ""))
	require.Equal(t, 2, l.Len())
}

func TestLoadLedgerFromStore(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(map[string]string{"name": "John Doe", "test_year": "2024"}))
	require.NoError(t, s.Append(map[string]string{"name": "Sam Roe", "test_year": ""}))

	l := LoadLedger(s, zap.NewNop())
	require.True(t, l.Seen("John Doe", "2024"))
	require.True(t, l.Seen("Sam Roe", ""))
	require.False(t, l.Seen("John Doe", "2023"))
}

func TestLoadLedgerUnreadableStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "raw.csv")
	// A directory at the store path makes it unreadable as a file.
	require.NoError(t, os.Mkdir(path, 0o700))

	l := LoadLedger(NewCSVStore(path, testColumns), zap.NewNop())
	require.Zero(t, l.Len(), "unreadable store starts an empty ledger, not a crash")
}
