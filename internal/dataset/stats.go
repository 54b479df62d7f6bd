package dataset

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/nordprofil/offertpipe/internal/domain"
	"github.com/nordprofil/offertpipe/internal/features"
)

// Column sets of the statistical post-passes. They name enriched columns,
// so the passes run after feature derivation.
var (
	// imputeColumns get their gaps filled with the column mean.
	imputeColumns = []string{
		features.ColWeight, features.ColLength, features.ColCutPrice,
		features.ColToolingCost, features.ColDeliveryTime,
	}
	// clipColumns are clamped to their 5th..95th percentile band.
	clipColumns = []string{
		features.ColWeight, features.ColLength,
		features.ColAnnualVolume, features.ColToolingCost,
	}
	// encodeColumns are categorical identifiers replaced by the mean unit
	// price observed within each category.
	encodeColumns = []string{features.ColProfileRef, features.ColCustomer}
)

// PricePerKg is the derived cost-density column.
const PricePerKg = "pris_per_kg"

// Assemble runs the whole-table statistical post-passes over enriched
// records and returns new rows; the inputs are not modified. Order matters:
// imputation first so clipping sees a complete column, then clipping, then
// target encoding, then the derived price-per-kilogram column.
func Assemble(records []*domain.FlatRecord) []*domain.FlatRecord {
	rows := make([]*domain.FlatRecord, len(records))
	for i, r := range records {
		rows[i] = r.Clone()
	}

	for _, col := range imputeColumns {
		imputeMean(rows, col)
	}
	for _, col := range clipColumns {
		clipPercentiles(rows, col)
	}
	for _, col := range encodeColumns {
		encodeTargetMean(rows, col, features.ColUnitPrice)
	}
	derivePricePerKg(rows)

	return rows
}

// imputeMean replaces missing and non-numeric values of a column with the
// mean of the present ones. A column with no numeric values at all is left
// alone; there is no mean to impute from.
func imputeMean(rows []*domain.FlatRecord, col string) {
	values := columnValues(rows, col)
	if len(values) == 0 {
		return
	}
	mean := stat.Mean(values, nil)
	for _, row := range rows {
		v, ok := row.Get(col)
		if !ok {
			continue
		}
		if _, numeric := domain.AsFloat(v); !numeric {
			row.Set(col, mean)
		}
	}
}

// clipPercentiles clamps numeric values of a column into the 5th..95th
// percentile band of the observed distribution.
func clipPercentiles(rows []*domain.FlatRecord, col string) {
	values := columnValues(rows, col)
	if len(values) < 2 {
		return
	}
	sort.Float64s(values)
	lo := stat.Quantile(0.05, stat.Empirical, values, nil)
	hi := stat.Quantile(0.95, stat.Empirical, values, nil)

	for _, row := range rows {
		v, ok := row.Get(col)
		if !ok {
			continue
		}
		f, numeric := domain.AsFloat(v)
		if !numeric {
			continue
		}
		if f < lo {
			row.Set(col, lo)
		} else if f > hi {
			row.Set(col, hi)
		}
	}
}

// encodeTargetMean replaces each category value of a column with the mean
// of the target column within that category. Categories without a numeric
// target fall back to the overall target mean.
func encodeTargetMean(rows []*domain.FlatRecord, col, target string) {
	sums := make(map[string]float64)
	counts := make(map[string]float64)
	var overallSum, overallCount float64

	for _, row := range rows {
		t, ok := row.Get(target)
		if !ok {
			continue
		}
		f, numeric := domain.AsFloat(t)
		if !numeric {
			continue
		}
		overallSum += f
		overallCount++
		if v, ok := row.Get(col); ok {
			key := domain.AsString(v)
			sums[key] += f
			counts[key]++
		}
	}
	if overallCount == 0 {
		return
	}
	overall := overallSum / overallCount

	for _, row := range rows {
		v, ok := row.Get(col)
		if !ok {
			continue
		}
		key := domain.AsString(v)
		if counts[key] > 0 {
			row.Set(col, round(sums[key]/counts[key], 4))
		} else {
			row.Set(col, round(overall, 4))
		}
	}
}

// derivePricePerKg appends the cost-density column: unit price divided by
// the total mass of one profile (mass per metre times length). Rows whose
// inputs are missing or zero get nil, keeping the column present on every
// row for stable headers.
func derivePricePerKg(rows []*domain.FlatRecord) {
	for _, row := range rows {
		var value any
		price, okP := numericField(row, features.ColUnitPrice)
		weight, okW := numericField(row, features.ColWeight)
		length, okL := numericField(row, features.ColLength)
		if okP && okW && okL && weight*length != 0 {
			value = round(price/(weight*length), 4)
		}
		row.Set(PricePerKg, value)
	}
}

// columnValues collects the numeric values of one column across all rows.
func columnValues(rows []*domain.FlatRecord, col string) []float64 {
	var out []float64
	for _, row := range rows {
		if f, ok := numericField(row, col); ok {
			out = append(out, f)
		}
	}
	return out
}

func numericField(row *domain.FlatRecord, col string) (float64, bool) {
	v, ok := row.Get(col)
	if !ok {
		return 0, false
	}
	return domain.AsFloat(v)
}

func round(x float64, n int) float64 {
	scale := math.Pow(10, float64(n))
	return math.Round(x*scale) / scale
}
