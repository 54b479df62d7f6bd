package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nordprofil/offertpipe/internal/domain"
)

// flatTable is the table the dataset is written to. Training jobs read it
// directly, so the column names match the CSV header byte for byte.
const flatTable = "flat_records"

// WriteSQLite writes the row set into the flat_records table of the SQLite
// database at path. The table is dropped and recreated on every run, so the
// sink is idempotent per database file. Column affinity is inferred from the
// first non-nil value of each column.
func WriteSQLite(ctx context.Context, path string, rows []*domain.FlatRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating dataset dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	header := Header(rows)
	if len(header) == 0 {
		return nil
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", flatTable)); err != nil {
		return fmt.Errorf("dropping %s: %w", flatTable, err)
	}

	cols := make([]string, len(header))
	for i, col := range header {
		cols[i] = fmt.Sprintf("%q %s", col, columnAffinity(rows, col))
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", flatTable, strings.Join(cols, ", "))
	if _, err := db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("creating %s: %w", flatTable, err)
	}

	quoted := make([]string, len(header))
	marks := make([]string, len(header))
	for i, col := range header {
		quoted[i] = fmt.Sprintf("%q", col)
		marks[i] = "?"
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		flatTable, strings.Join(quoted, ", "), strings.Join(marks, ", "))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(header))
	for _, row := range rows {
		for i, col := range header {
			args[i] = nil
			if v, ok := row.Get(col); ok {
				args[i] = sqlValue(v)
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing dataset: %w", err)
	}
	return nil
}

// columnAffinity picks a SQLite column type from the first non-nil value.
func columnAffinity(rows []*domain.FlatRecord, col string) string {
	for _, row := range rows {
		v, ok := row.Get(col)
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case int, int64:
			return "INTEGER"
		case float64:
			return "REAL"
		case json.Number:
			if _, err := n.Int64(); err == nil {
				return "INTEGER"
			}
			return "REAL"
		default:
			return "TEXT"
		}
	}
	return "TEXT"
}

// sqlValue maps a record value onto a database/sql argument type.
func sqlValue(v any) any {
	switch n := v.(type) {
	case nil:
		return nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	case int:
		return int64(n)
	case int64, float64, string, bool:
		return n
	default:
		return domain.AsString(v)
	}
}
