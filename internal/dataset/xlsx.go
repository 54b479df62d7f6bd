package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/nordprofil/offertpipe/internal/domain"
)

// WriteXLSX writes the row set to path as a single-sheet workbook. Numeric
// values are written as numbers so the sheet sorts and aggregates without
// re-parsing; everything else is written as text.
func WriteXLSX(path string, rows []*domain.FlatRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating dataset dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Dataset"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	header := Header(rows)
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("writing header cell %s: %w", cell, err)
		}
	}

	for r, row := range rows {
		for c, col := range header {
			v, ok := row.Get(col)
			if !ok || v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, cellValue(v)); err != nil {
				return fmt.Errorf("writing cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// cellValue maps a record value to a type excelize writes natively.
func cellValue(v any) any {
	if f, ok := domain.AsFloat(v); ok {
		if _, isString := v.(string); !isString {
			return f
		}
	}
	return domain.AsString(v)
}
