// Package features computes the derived per-product attributes of a
// normalized record: geometry ratios modeled from mass and length,
// tolerance-standard coefficients, the alloy category index, and simulated
// raw-material market indicators.
package features

import "math"

// DensityAluminium is the material density in kg/m³ used to convert mass
// per metre into a cross-section area.
const DensityAluminium = 2700.0

// symmetryScore is a fixed placeholder, not a measured quantity. Profile
// drawings are not available at this stage, so no real symmetry can be
// computed.
const symmetryScore = 0.8

// Geometry holds the shape-derived metrics of one profile.
type Geometry struct {
	ThinnessRatio float64 `json:"thinness_ratio"`
	AreaToLength  float64 `json:"area_to_length"`
	WallFactor    float64 `json:"wall_factor"`
	DFMIndex      float64 `json:"dfm_index"`
	SymmetryScore float64 `json:"symmetry_score"`
}

// Geometric derives shape metrics from mass per metre (kg/m) and profile
// length (m). The profile is modeled as a rectangle with height √(2·area),
// which fixes the aspect ratio; the thinness ratio is therefore a constant
// of the model while the remaining metrics scale with the real inputs.
func Geometric(weightKgPerM, lengthM float64) Geometry {
	areaMM2 := weightKgPerM / DensityAluminium * 1e6
	height := math.Sqrt(areaMM2 * 2)
	width := areaMM2 / height
	perimeter := 2 * (height + width)

	return Geometry{
		ThinnessRatio: round(4*math.Pi*areaMM2/(perimeter*perimeter), 4),
		AreaToLength:  round(areaMM2/(lengthM*1000), 5),
		WallFactor:    round(areaMM2/perimeter, 4),
		DFMIndex:      round(math.Min(1.0, 0.7/math.Pow(weightKgPerM, 0.25)), 4),
		SymmetryScore: round(symmetryScore, 4),
	}
}

// round rounds x to n decimal places, half away from zero.
func round(x float64, n int) float64 {
	scale := math.Pow(10, float64(n))
	return math.Round(x*scale) / scale
}
