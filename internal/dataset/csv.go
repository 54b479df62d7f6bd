package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nordprofil/offertpipe/internal/domain"
)

// Header returns the column names of a row set: the union of all row keys
// in first-seen order, so earlier rows pin the column layout and stragglers
// with extra keys extend it at the end.
func Header(rows []*domain.FlatRecord) []string {
	var header []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, k := range row.Keys() {
			if !seen[k] {
				header = append(header, k)
				seen[k] = true
			}
		}
	}
	return header
}

// WriteCSV writes the row set to path as UTF-8 CSV with a header line.
// Missing cells render empty.
func WriteCSV(path string, rows []*domain.FlatRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating dataset dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := Header(rows)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			record[i] = ""
			if v, ok := row.Get(col); ok {
				record[i] = domain.AsString(v)
			}
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}
