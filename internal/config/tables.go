package config

// Tables holds the domain lookup data used by the parsing and enrichment
// stages. The values below describe one supplier's document family; loading
// a TOML file with a [tables] section substitutes alternate data without
// code changes.
type Tables struct {
	// ProductMarker starts the product table section of a raw document.
	ProductMarker string `toml:"product_marker"`
	// ConditionHeaders are the line prefixes that open the conditions section.
	ConditionHeaders []string `toml:"condition_headers"`
	// SkipPrefixes are product-section lines dropped by prefix match.
	SkipPrefixes []string `toml:"skip_prefixes"`
	// SkipLiterals are product-section lines dropped by exact match.
	SkipLiterals []string `toml:"skip_literals"`

	// Buckets are the magnitude thresholds of the product-line classifier.
	Buckets Buckets `toml:"buckets"`

	// Tolerance maps a standard name to its coefficient row. The "DEFAULT"
	// row backs every unknown name, making the lookup total.
	Tolerance map[string]Tolerance `toml:"tolerance"`
	// ToleranceStandards is the redraw domain for the variant generator.
	ToleranceStandards []string `toml:"tolerance_standards"`

	// AlloyCategories is the ordered categorical domain for alloy encoding.
	// Unknown alloys map to the last ("raw") index.
	AlloyCategories []string `toml:"alloy_categories"`
	// AlloySeries are the admissible alloy series for variant redraws.
	AlloySeries []int `toml:"alloy_series"`
	// TemperCodes are the admissible temper codes for variant redraws.
	TemperCodes []int `toml:"temper_codes"`
	// EuropeanStds are the admissible EN-standard flags for variant redraws.
	EuropeanStds []int `toml:"european_stds"`
	// StrengthRanges maps an alloy series to its strength interval.
	StrengthRanges map[int]Range `toml:"strength_ranges"`
}

// Tolerance is one coefficient row of a dimensional-tolerance standard.
type Tolerance struct {
	LinearTol  float64 `toml:"linear_tol" json:"linear_tol"`
	AngularTol float64 `toml:"angular_tol" json:"angular_tol"`
	Flatness   float64 `toml:"flatness" json:"flatness"`
	GDTIndex   float64 `toml:"gd_t_index" json:"gd_t_index"`
}

// Range is a closed integer interval.
type Range struct {
	Min int `toml:"min"`
	Max int `toml:"max"`
}

// Buckets are the magnitude thresholds the product-line parser classifies
// numeric tokens with. They encode the unit conventions of the source
// documents (kg/m in (MassLow, MassHigh), yearly volumes above Volume) and
// are configurable precisely because those conventions are fragile.
type Buckets struct {
	// Volume: values strictly above this are annual volumes.
	Volume float64 `toml:"volume"`
	// Length: values strictly above this are profile lengths.
	Length float64 `toml:"length"`
	// MassLow/MassHigh: values strictly inside this interval are kg/m masses.
	MassLow  float64 `toml:"mass_low"`
	MassHigh float64 `toml:"mass_high"`
	// Tooling: values strictly below this are tooling-and-cut prices.
	Tooling float64 `toml:"tooling"`
}

// ToleranceDefault is the fallback row name of the tolerance table.
const ToleranceDefault = "DEFAULT"

// DefaultTables returns the lookup data of the supported document family.
func DefaultTables() Tables {
	return Tables{
		ProductMarker: "Profil nr / Vikt",
		ConditionHeaders: []string{
			"Verktygskostnad:", "Legering:", "Toleranser:", "Ytbehandling:",
			"Lev. längd:", "Lev. villkor:", "Lev. tid:", "NOT:",
			"Betalningsvillkor:", "Giltighet:", "Allmänna villkor:", "Råvara:",
		},
		SkipPrefixes: []string{"Kund ref."},
		SkipLiterals: []string{"SEK", "Pris/st SEK"},

		Buckets: Buckets{
			Volume:   1000,
			Length:   10,
			MassLow:  1,
			MassHigh: 2,
			Tooling:  1,
		},

		Tolerance: map[string]Tolerance{
			"EN 755-9":        {LinearTol: 0.15, AngularTol: 0.5, Flatness: 0.2, GDTIndex: 2.1},
			"ISO 2768-m":      {LinearTol: 0.1, AngularTol: 0.3, Flatness: 0.15, GDTIndex: 2.8},
			"ASME Y14.5":      {LinearTol: 0.05, AngularTol: 0.2, Flatness: 0.1, GDTIndex: 3.5},
			"DIN 7168":        {LinearTol: 0.08, AngularTol: 0.25, Flatness: 0.12, GDTIndex: 3.0},
			"ISO 286":         {LinearTol: 0.06, AngularTol: 0.22, Flatness: 0.08, GDTIndex: 3.2},
			"JIS B 0401":      {LinearTol: 0.07, AngularTol: 0.28, Flatness: 0.11, GDTIndex: 2.9},
			"ISO 2768-1":      {LinearTol: 0.09, AngularTol: 0.31, Flatness: 0.14, GDTIndex: 2.7},
			"ISO 8015":        {LinearTol: 0.04, AngularTol: 0.18, Flatness: 0.07, GDTIndex: 3.6},
			"ASME B4.1":       {LinearTol: 0.12, AngularTol: 0.35, Flatness: 0.18, GDTIndex: 2.5},
			"BS 4500":         {LinearTol: 0.11, AngularTol: 0.33, Flatness: 0.16, GDTIndex: 2.6},
			"ISO 1829":        {LinearTol: 0.13, AngularTol: 0.4, Flatness: 0.19, GDTIndex: 2.4},
			ToleranceDefault:  {LinearTol: 0.3, AngularTol: 1.0, Flatness: 0.5, GDTIndex: 1.0},
		},
		ToleranceStandards: []string{
			"EN 755-9", "ISO 2768-m", "ASME Y14.5", "DIN 7168",
			"ISO 286", "JIS B 0401", "ISO 2768-1", "ISO 8015",
			"ASME B4.1", "DEFAULT", "BS 4500", "ISO 1829",
		},

		AlloyCategories: []string{
			"Aluminium 1050 Rå", "Aluminium 2017 T4", "Aluminium 3003 H14",
			"Aluminium 4043 O", "Aluminium 5083 H111", "Aluminium 6061 T6",
			"Aluminium 7075 T651", "Aluminium 2024 T351", "Rå",
		},
		AlloySeries:  []int{1, 2, 3, 4, 5, 6, 7},
		TemperCodes:  []int{1, 2, 3, 4, 5, 6, 7, 8, 9},
		EuropeanStds: []int{0, 1},
		StrengthRanges: map[int]Range{
			1: {Min: 50, Max: 80},
			2: {Min: 120, Max: 180},
			3: {Min: 110, Max: 160},
			4: {Min: 100, Max: 150},
			5: {Min: 150, Max: 250},
			6: {Min: 150, Max: 300},
			7: {Min: 300, Max: 500},
		},
	}
}
