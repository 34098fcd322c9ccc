// Package store persists player-year rows in an append-only CSV file and
// tracks which (name, test year) keys have already been written, across
// process restarts.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// CSVStore appends rows to a single CSV file one at a time. The header is
// written exactly once, when the file is first created, and every row is
// flushed and synced before Append returns so a crash can lose at most the
// in-flight row.
type CSVStore struct {
	path    string
	columns []string
}

// NewCSVStore builds a store writing the given columns, in order, to path.
func NewCSVStore(path string, columns []string) *CSVStore {
	return &CSVStore{path: path, columns: append([]string(nil), columns...)}
}

// Path returns the store's file path.
func (s *CSVStore) Path() string {
	return s.path
}

// Exists reports whether the store file is present on disk.
func (s *CSVStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Append writes one row. Keys outside the schema are ignored; schema columns
// missing from the row are written as empty strings, so the file's shape
// never varies row to row.
func (s *CSVStore) Append(row map[string]string) error {
	writeHeader := !s.Exists()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open store %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(s.columns); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	values := make([]string, len(s.columns))
	for i, col := range s.columns {
		values[i] = row[col]
	}
	if err := w.Write(values); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush row: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync store %s: %w", s.path, err)
	}
	return nil
}

// ReadAll loads every persisted row keyed by header column. A missing file
// yields an empty slice.
func (s *CSVStore) ReadAll() ([]map[string]string, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
