// Package normalize rewrites raw string fields of a flat record into typed
// values: numeric extraction from mixed-format text, delivery-week ranges
// collapsed to an average, and the surface-treatment string decomposed into
// alloy metadata flags. Each transform is independent and deterministic.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/nordprofil/offertpipe/internal/domain"
)

var (
	// firstNumber matches the first numeric substring, decimal comma or dot.
	firstNumber = regexp.MustCompile(`[0-9]+(?:[.,][0-9]+)?`)
	// weekRange matches an `a-b` week range, with either hyphen or en dash.
	weekRange = regexp.MustCompile(`([0-9]+)[-–]([0-9]+)`)
	// temperCode matches the digit following a T temper marker.
	temperCode = regexp.MustCompile(`T([0-9])`)
)

// ExtractNumber returns the first numeric substring of text as a float,
// treating a comma as the decimal separator. It reports false when text
// contains no number.
func ExtractNumber(text string) (float64, bool) {
	m := firstNumber.FindString(text)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// DeliveryWeeks collapses every `a-b` week range in text into one number:
// each range becomes its midpoint, the midpoints are averaged, and the
// result is rounded to 2 decimals. It reports false when no range occurs,
// in which case the field stays untouched.
func DeliveryWeeks(text string) (float64, bool) {
	matches := weekRange.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return 0, false
	}
	var sum float64
	for _, m := range matches {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		sum += (float64(a) + float64(b)) / 2
	}
	return round2(sum / float64(len(matches))), true
}

// Surface is the decomposition of a surface-treatment string.
type Surface struct {
	// AlloySeries is 6 when a 600-series marker occurs, otherwise nil.
	AlloySeries any
	// AlloyStrength is the fixed 600-series strength constant, or nil.
	AlloyStrength any
	// TemperCode is the digit after a T marker, or nil.
	TemperCode any
	// EuropeanStd is 1 when an EN-AW designation occurs, else 0.
	EuropeanStd int
}

// alloyStrength600 is the strength constant attached to 600-series alloys.
const alloyStrength600 = 63

// ParseSurface decomposes a surface-treatment string into alloy metadata.
func ParseSurface(text string) Surface {
	s := Surface{}
	if strings.Contains(text, "EN-AW") {
		s.EuropeanStd = 1
	}
	if strings.Contains(text, "606") {
		s.AlloySeries = 6
		s.AlloyStrength = alloyStrength600
	}
	if m := temperCode.FindStringSubmatch(text); m != nil {
		code, _ := strconv.Atoi(m[1])
		s.TemperCode = code
	}
	return s
}

// Apply runs every per-field transform on a flat record in place:
//
//   - Verktygskostnad and Råvara are numeric-extracted (nil when no number),
//   - Lev. tid week ranges collapse to their rounded average,
//   - NOT becomes an integer minimum-order quantity, defaulting to 0,
//   - Ytbehandling is decomposed into alloy fields and then removed.
//
// Fields that are absent are left alone; Apply never invents keys that have
// no source data, except for the four decomposition fields.
func Apply(rec *domain.FlatRecord) {
	if v, ok := rec.Get(domain.FieldToolingCost); ok {
		rec.Set(domain.FieldToolingCost, extractOrNil(v))
	}

	if v, ok := rec.Get(domain.FieldDeliveryTime); ok {
		if avg, found := DeliveryWeeks(domain.AsString(v)); found {
			rec.Set(domain.FieldDeliveryTime, avg)
		}
	}

	if v, ok := rec.Get(domain.FieldRawMaterial); ok {
		rec.Set(domain.FieldRawMaterial, extractOrNil(v))
	}

	if v, ok := rec.Get(domain.FieldMinOrder); ok {
		qty := 0
		if f, found := ExtractNumber(domain.AsString(v)); found {
			qty = int(f)
		}
		rec.Set(domain.FieldMinOrder, qty)
	}

	if v, ok := rec.Get(domain.FieldSurface); ok {
		s := ParseSurface(domain.AsString(v))
		rec.Set(domain.FieldAlloySeries, s.AlloySeries)
		rec.Set(domain.FieldAlloyStrength, s.AlloyStrength)
		rec.Set(domain.FieldTemperCode, s.TemperCode)
		rec.Set(domain.FieldEuropeanStd, s.EuropeanStd)
		rec.Delete(domain.FieldSurface)
	}
}

// extractOrNil numeric-extracts the string form of v, nil when numberless.
func extractOrNil(v any) any {
	if f, ok := ExtractNumber(domain.AsString(v)); ok {
		return f
	}
	return nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
