package productline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nordprofil/offertpipe/internal/config"
)

var buckets = config.DefaultTables().Buckets

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"1342", true},
		{"1,342", true},
		{"23.8", true},
		{"0,85", true},
		{"PX-12", false},
		{"1,342kg", false},
		{"", false},
		{",5", false},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNumeric(tt.token))
		})
	}
}

func TestParse_FullRow(t *testing.T) {
	tokens := []string{"PX-12", "1,342", "23,8", "0,85", "15000", "42,50"}

	line := Parse(tokens, "FALLBACK", "Aluminium 6061 T6", buckets)

	assert.Equal(t, "PX-12", line.Name)
	assert.Equal(t, "1.342", line.Mass)
	assert.Equal(t, "23.8", line.Length)
	assert.Equal(t, "0.85", line.ToolingPrice)
	assert.Equal(t, "15000", line.Volume)
	assert.Equal(t, "42.50", line.UnitPrice)
	assert.Equal(t, "Aluminium 6061 T6", line.Alloy)
}

func TestParse_NamePositionIrrelevant(t *testing.T) {
	// The name token may sit anywhere in the row; numeric tokens keep
	// their relative order.
	tokens := []string{"15000", "PX-12", "1,342", "0,85", "23,8", "42,50"}

	line := Parse(tokens, "", "Rå", buckets)

	assert.Equal(t, "PX-12", line.Name)
	assert.Equal(t, "15000", line.Volume)
	assert.Equal(t, "1.342", line.Mass)
	assert.Equal(t, "0.85", line.ToolingPrice)
	assert.Equal(t, "23.8", line.Length)
	assert.Equal(t, "42.50", line.UnitPrice)
}

func TestParse_IsOrderSensitive(t *testing.T) {
	// A unit price above the length threshold steals the length bucket
	// when it appears first. This is the documented limit of the
	// magnitude heuristic.
	line := Parse([]string{"42,50", "23,8"}, "X", "Rå", buckets)

	assert.Equal(t, "42.50", line.Length)
	assert.Equal(t, "23.8", line.UnitPrice)
}

func TestParse_NumericOnlyRowUsesFallbackName(t *testing.T) {
	tokens := []string{"1,5", "12000", "4,41"}

	line := Parse(tokens, "PX-12", "Rå", buckets)

	assert.Equal(t, "PX-12", line.Name)
	assert.Equal(t, "1.5", line.Mass)
	assert.Equal(t, "12000", line.Volume)
	assert.Equal(t, "4.41", line.UnitPrice)
	assert.Equal(t, "", line.Length)
}

func TestParse_MissingFieldsStayEmpty(t *testing.T) {
	line := Parse([]string{"PX-9"}, "", "Rå", buckets)

	assert.Equal(t, "PX-9", line.Name)
	assert.Equal(t, "", line.Mass)
	assert.Equal(t, "", line.Volume)
	assert.Equal(t, "", line.UnitPrice)
}

func TestParse_SecondLargeNumberFallsThrough(t *testing.T) {
	// The volume bucket fills once; a second large value cascades to the
	// length bucket, a third becomes the unit price.
	tokens := []string{"15000", "12000", "11000"}

	line := Parse(tokens, "X", "Rå", buckets)

	assert.Equal(t, "15000", line.Volume)
	assert.Equal(t, "12000", line.Length)
	assert.Equal(t, "11000", line.UnitPrice)
}

func TestParse_LaterPriceOverwrites(t *testing.T) {
	// Tokens outside every open bucket land in the unit price; the last
	// one wins.
	tokens := []string{"2,5", "3,5"}

	line := Parse(tokens, "X", "Rå", buckets)

	assert.Equal(t, "3.5", line.UnitPrice)
}

func TestFallbackName(t *testing.T) {
	rows := [][]string{
		{"1,5", "12000"},
		{"PX-12", "1,4"},
		{"PX-99"},
	}
	assert.Equal(t, "PX-12", FallbackName(rows))
	assert.Equal(t, "", FallbackName([][]string{{"1,5"}}))
}

func TestHeaders(t *testing.T) {
	assert.Equal(t, []string{
		"Profil nr/Kund ref", "Vikt kg/m", "Längd/m m", "Kap + truml Pris/st",
		"ca antal Årsvolym st", "Prix kr/st SEK", "Legering",
	}, Headers())
}
