package features

import "github.com/nordprofil/offertpipe/internal/config"

// AlloyCategory encodes an alloy designation as its index in the ordered
// category list. Unknown designations map to the last index, the raw
// material catch-all, so the encoding is total.
func AlloyCategory(tables config.Tables, alloy string) int {
	for i, c := range tables.AlloyCategories {
		if c == alloy {
			return i
		}
	}
	return len(tables.AlloyCategories) - 1
}
