package store

import (
	"go.uber.org/zap"
)

type ledgerKey struct {
	name     string
	testYear string
}

// Ledger is the in-memory set of (name, test year) keys already persisted.
// It is built once at startup from the existing store and only grows within
// a run. Single-writer by design; no locking.
type Ledger struct {
	seen map[ledgerKey]struct{}
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{seen: make(map[ledgerKey]struct{})}
}

// LoadLedger seeds a ledger from the store's existing rows. An unreadable or
// absent store is not fatal: the run starts with an empty ledger and relies
// on the store's own append-only history.
func LoadLedger(s *CSVStore, logger *zap.Logger) *Ledger {
	l := NewLedger()
	rows, err := s.ReadAll()
	if err != nil {
		logger.Warn("Could not read prior store, starting with empty ledger",
			zap.String("path", s.Path()),
			zap.Error(err),
		)
		return l
	}
	for _, row := range rows {
		l.Mark(row["name"], row["test_year"])
	}
	if len(rows) > 0 {
		logger.Info("Dedup ledger loaded",
			zap.String("path", s.Path()),
			zap.Int("keys", len(l.seen)),
		)
	}
	return l
}

// Seen reports whether the (name, testYear) key is already persisted.
func (l *Ledger) Seen(name, testYear string) bool {
	_, ok := l.seen[ledgerKey{name: name, testYear: testYear}]
	return ok
}

// Mark records the key as persisted.
func (l *Ledger) Mark(name, testYear string) {
	l.seen[ledgerKey{name: name, testYear: testYear}] = struct{}{}
}

// Len returns the number of tracked keys.
func (l *Ledger) Len() int {
	return len(l.seen)
}
