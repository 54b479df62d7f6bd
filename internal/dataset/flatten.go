// Package dataset assembles the final tabular dataset: nested quotes are
// flattened into one row per product line, statistical post-passes run over
// the whole table, and the result is written to CSV, XLSX and SQLite sinks.
package dataset

import (
	"sort"

	"github.com/nordprofil/offertpipe/internal/domain"
)

// Flatten converts one structured quote into flat records, one per product
// line. Metadata and conditions are repeated on every row. The alloy key is
// shared between the product line and the conditions; the condition value
// overwrites the product value without moving the column, so every row of a
// batch keeps the same column order.
func Flatten(q domain.Quote) []*domain.FlatRecord {
	rows := make([]*domain.FlatRecord, 0, len(q.Products))
	for _, product := range q.Products {
		row := domain.NewFlatRecord()
		for _, k := range orderedKeys(q.Metadata, domain.MetadataFields) {
			row.Set(k, q.Metadata[k])
		}
		for _, k := range orderedKeys(product, domain.ProductFields) {
			row.Set(k, product[k])
		}
		for _, k := range orderedKeys(q.Conditions, domain.ConditionFields) {
			row.Set(k, q.Conditions[k])
		}
		rows = append(rows, row)
	}
	return rows
}

// orderedKeys returns the keys of m with canonical fields first, in
// canonical order, followed by any extra keys sorted for determinism.
func orderedKeys(m map[string]any, canonical []string) []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, k := range canonical {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var extras []string
	for k := range m {
		if !seen[k] {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	return append(keys, extras...)
}
