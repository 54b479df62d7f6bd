package features

import "math/rand"

// Market simulates raw-material price indicators. Real LME feeds are not
// wired into the pipeline, so the indicators are drawn as bounded noise
// around the quoted raw-material price.
type Market struct {
	rng *rand.Rand
}

// NewMarket returns a simulator drawing from rng. Passing a seeded source
// makes the indicators reproducible across runs.
func NewMarket(rng *rand.Rand) *Market {
	return &Market{rng: rng}
}

// Indicators returns the simulated three-month moving average and one-day
// lag of the raw-material price, both rounded to 2 decimals. The moving
// average varies within ±10% of the base price, the lag within ±5%.
func (m *Market) Indicators(basePrice float64) (ma3, lag1 float64) {
	ma3 = round(basePrice*(0.90+m.rng.Float64()*0.20), 2)
	lag1 = round(basePrice*(0.95+m.rng.Float64()*0.10), 2)
	return ma3, lag1
}
