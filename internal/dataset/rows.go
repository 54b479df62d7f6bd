package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nordprofil/offertpipe/internal/domain"
)

// WriteRows writes each flat record to its own JSON file in dir, named
// quote_{i}.json by position. It returns the written paths. Re-running over
// the same rows overwrites the same filenames, keeping the stage idempotent.
func WriteRows(dir string, rows []*domain.FlatRecord) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating row dir: %w", err)
	}
	paths := make([]string, 0, len(rows))
	for i, row := range rows {
		data, err := json.MarshalIndent(row, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding row %d: %w", i, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("quote_%d.json", i))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
