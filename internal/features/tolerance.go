package features

import "github.com/nordprofil/offertpipe/internal/config"

// LookupTolerance resolves a tolerance-standard name to its coefficient row.
// The lookup is total: names absent from the table fall back to the DEFAULT
// row, so an unrecognized standard degrades to the loosest coefficients
// instead of failing the record.
func LookupTolerance(tables config.Tables, standard string) config.Tolerance {
	if row, ok := tables.Tolerance[standard]; ok {
		return row
	}
	return tables.Tolerance[config.ToleranceDefault]
}
