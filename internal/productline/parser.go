// Package productline converts a whitespace-tokenized product-table row into
// a 7-field record.
//
// The source rows carry no column markers, so fields are recovered by
// classifying numeric tokens into magnitude buckets: yearly volumes are large
// integers, lengths tens of metres, kg/m masses sit between one and two, and
// tooling prices below one. The thresholds mirror the unit conventions of
// the document family and come from the injectable tables; values outside
// those conventions are misclassified silently, which is a known limit of
// the format, not of this parser.
package productline

import (
	"regexp"
	"strings"

	"github.com/nordprofil/offertpipe/internal/config"
	"github.com/nordprofil/offertpipe/internal/domain"
)

// numericToken matches an integer or decimal token with either a dot or a
// comma as the decimal separator.
var numericToken = regexp.MustCompile(`^\d+[,.]?\d*$`)

// IsNumeric reports whether a token looks like a number.
func IsNumeric(token string) bool {
	return numericToken.MatchString(token)
}

// Line is one parsed product row. Numeric fields keep their textual form
// (decimal comma already replaced by a dot); empty means the field was not
// present on the row.
type Line struct {
	Name         string
	Mass         string
	Length       string
	ToolingPrice string
	Volume       string
	UnitPrice    string
	Alloy        string
}

// Fields returns the row in canonical column order.
func (l Line) Fields() []string {
	return []string{l.Name, l.Mass, l.Length, l.ToolingPrice, l.Volume, l.UnitPrice, l.Alloy}
}

// Headers returns the canonical column names matching Fields.
func Headers() []string {
	return []string{
		domain.FieldProfileRef, domain.FieldWeight, domain.FieldLength,
		domain.FieldCutPrice, domain.FieldAnnualVolume, domain.FieldUnitPrice,
		domain.FieldAlloy,
	}
}

// Parse classifies the tokens of one product row.
//
// The first non-numeric token becomes the name; without one, fallbackName is
// used. Numeric tokens are visited in row order and fill the first empty
// bucket whose range matches; tokens matching no empty bucket land in the
// unit price, later ones overwriting earlier ones. The alloy always comes
// from the document conditions, never from the row.
func Parse(tokens []string, fallbackName, defaultAlloy string, buckets config.Buckets) Line {
	line := Line{Name: fallbackName, Alloy: defaultAlloy}

	var numbers []string
	for _, tok := range tokens {
		if IsNumeric(tok) {
			numbers = append(numbers, strings.ReplaceAll(tok, ",", "."))
		}
	}
	for _, tok := range tokens {
		if !IsNumeric(tok) {
			line.Name = tok
			break
		}
	}

	for _, num := range numbers {
		v, ok := domain.AsFloat(num)
		if !ok {
			continue
		}
		switch {
		case v > buckets.Volume && line.Volume == "":
			line.Volume = num
		case v > buckets.Length && line.Length == "":
			line.Length = num
		case v > buckets.MassLow && v < buckets.MassHigh && line.Mass == "":
			line.Mass = num
		case v < buckets.Tooling && line.ToolingPrice == "":
			line.ToolingPrice = num
		default:
			line.UnitPrice = num
		}
	}

	return line
}

// FallbackName returns the first leading non-numeric token across the raw
// rows, the shared substitute name for rows that carry only numbers.
func FallbackName(rows [][]string) string {
	for _, tokens := range rows {
		if len(tokens) > 0 && !IsNumeric(tokens[0]) {
			return tokens[0]
		}
	}
	return ""
}
