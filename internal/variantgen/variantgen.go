// Package variantgen expands one flat record into a family of synthetic
// variants for dataset augmentation. Each variant draws a single relative
// perturbation shared by all continuous fields, so the correlations between
// mass, length and cost survive the augmentation; categorical fields are
// redrawn independently from their admissible domains.
package variantgen

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nordprofil/offertpipe/internal/config"
	"github.com/nordprofil/offertpipe/internal/domain"
)

// maxShift bounds the shared relative perturbation: v is uniform in
// [-maxShift, +maxShift].
const maxShift = 0.10

// largeIntStep is the granularity large integer fields are floored to
// after scaling. Volumes and tooling costs are always quoted in round
// thousands in the source documents.
const largeIntStep = 1000

// continuousFields are scaled by the shared factor and re-rounded to the
// decimal places of the original literal. The unit price is deliberately
// absent: it is the prediction target and is never perturbed.
var continuousFields = []string{
	domain.FieldWeight,
	domain.FieldLength,
	domain.FieldCutPrice,
	domain.FieldDeliveryTime,
	domain.FieldRawMaterial,
}

// largeIntFields are scaled by the shared factor and floored to thousands.
var largeIntFields = []string{
	domain.FieldAnnualVolume,
	domain.FieldToolingCost,
	domain.FieldMinOrder,
}

// Generator produces synthetic variants of flat records.
type Generator struct {
	tables config.Tables
	rng    *rand.Rand
	n      int
}

// New returns a generator producing n synthetic variants per record,
// drawing from rng. A seeded source makes a run reproducible.
func New(tables config.Tables, n int, rng *rand.Rand) *Generator {
	return &Generator{tables: tables, rng: rng, n: n}
}

// Variants returns the record family: index 0 is an unmodified clone of
// rec, followed by n synthetic variants.
func (g *Generator) Variants(rec *domain.FlatRecord) []*domain.FlatRecord {
	out := make([]*domain.FlatRecord, 0, g.n+1)
	out = append(out, rec.Clone())
	for i := 0; i < g.n; i++ {
		out = append(out, g.variant(rec))
	}
	return out
}

// FileName names the i-th member of a record family. The original carries
// an explicit marker so it can be told apart from its variants in the
// output directory.
func FileName(base string, i int) string {
	if i == 0 {
		return base + "_0_original.json"
	}
	return fmt.Sprintf("%s_%d.json", base, i)
}

// variant builds one synthetic record. All continuous and large-integer
// fields share one scale factor; categorical fields are redrawn.
func (g *Generator) variant(rec *domain.FlatRecord) *domain.FlatRecord {
	out := rec.Clone()
	factor := 1 + (g.rng.Float64()*2*maxShift - maxShift)

	for _, field := range continuousFields {
		if v, ok := out.Get(field); ok {
			if scaled, ok := scaleContinuous(v, factor); ok {
				out.Set(field, scaled)
			}
		}
	}
	for _, field := range largeIntFields {
		if v, ok := out.Get(field); ok {
			if scaled, ok := scaleLargeInt(v, factor); ok {
				out.Set(field, scaled)
			}
		}
	}

	if out.Has(domain.FieldAlloy) {
		out.Set(domain.FieldAlloy, g.choose(g.tables.AlloyCategories))
	}
	if out.Has(domain.FieldTolerances) {
		out.Set(domain.FieldTolerances, g.choose(g.tables.ToleranceStandards))
	}
	if out.Has(domain.FieldAlloySeries) {
		series := g.chooseInt(g.tables.AlloySeries)
		out.Set(domain.FieldAlloySeries, series)
		if out.Has(domain.FieldAlloyStrength) {
			r := g.tables.StrengthRanges[series]
			out.Set(domain.FieldAlloyStrength, r.Min+g.rng.Intn(r.Max-r.Min+1))
		}
	}
	if out.Has(domain.FieldTemperCode) {
		out.Set(domain.FieldTemperCode, g.chooseInt(g.tables.TemperCodes))
	}
	if out.Has(domain.FieldEuropeanStd) {
		out.Set(domain.FieldEuropeanStd, g.chooseInt(g.tables.EuropeanStds))
	}

	return out
}

func (g *Generator) choose(values []string) string {
	return values[g.rng.Intn(len(values))]
}

func (g *Generator) chooseInt(values []int) int {
	return values[g.rng.Intn(len(values))]
}

// scaleContinuous multiplies a numeric value by factor and rounds the
// result to the decimal places of the original literal, so a field quoted
// as "1.342" stays a three-decimal quantity in every variant. Nil, zero
// and non-numeric values pass through untouched.
func scaleContinuous(v any, factor float64) (json.Number, bool) {
	f, ok := domain.AsFloat(v)
	if !ok || f == 0 {
		return "", false
	}
	places := decimalPlaces(v)
	scaled := decimal.NewFromFloat(f * factor).Round(int32(places))
	return json.Number(scaled.StringFixed(int32(places))), true
}

// scaleLargeInt multiplies a positive integer quantity by factor and
// floors the result to thousands. Non-positive and non-numeric values pass
// through untouched.
func scaleLargeInt(v any, factor float64) (int64, bool) {
	f, ok := domain.AsFloat(v)
	if !ok || f <= 0 {
		return 0, false
	}
	return int64(math.Floor(f*factor/largeIntStep)) * largeIntStep, true
}

// decimalPlaces reports how many decimal places the literal form of a
// numeric value carries.
func decimalPlaces(v any) int {
	var s string
	switch n := v.(type) {
	case json.Number:
		s = n.String()
	case float64:
		s = strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return 0
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}
