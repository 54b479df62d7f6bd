package features

import (
	"fmt"

	"github.com/nordprofil/offertpipe/internal/config"
	"github.com/nordprofil/offertpipe/internal/domain"
)

// Output column names of the enriched record. Snake case because the record
// feeds tabular sinks where the original Swedish keys (spaces, slashes,
// plus signs) make poor column identifiers.
const (
	ColProfileRef    = "Profil_ref"
	ColCustomer      = "Kund"
	ColWeight        = "Vikt_kg_m"
	ColLength        = "Längd_m_m"
	ColCutPrice      = "Kap_truml_Pris_st"
	ColAnnualVolume  = "Årsvolym_st"
	ColToolingCost   = "Verktygskostnad"
	ColDeliveryTime  = "Lev_tid"
	ColMinOrder      = "NOT"
	ColAlloySeries   = "alloy_series"
	ColAlloyStrength = "alloy_strength"
	ColTemperCode    = "temper_code"
	ColEuropeanStd   = "european_std"
	ColRawMaterial   = "Råvara"
	ColUnitPrice     = "Pris_kr_st_SEK"
	ColAlloyCategory = "alloy_category"
	ColLMEMA3        = "LME_price_MA3"
	ColLMELag1       = "LME_price_Lag1"
)

// sourceColumns maps each carried-over output column to the source field it
// is read from, in output order. Alias lists come from the domain registry.
var sourceColumns = []struct {
	out string
	in  string
}{
	{ColProfileRef, domain.FieldProfileRef},
	{ColCustomer, domain.FieldCustomer},
	{ColWeight, domain.FieldWeight},
	{ColLength, domain.FieldLength},
	{ColCutPrice, domain.FieldCutPrice},
	{ColAnnualVolume, domain.FieldAnnualVolume},
	{ColToolingCost, domain.FieldToolingCost},
	{ColDeliveryTime, domain.FieldDeliveryTime},
	{ColMinOrder, domain.FieldMinOrder},
	{ColAlloySeries, domain.FieldAlloySeries},
	{ColAlloyStrength, domain.FieldAlloyStrength},
	{ColTemperCode, domain.FieldTemperCode},
	{ColEuropeanStd, domain.FieldEuropeanStd},
	{ColRawMaterial, domain.FieldRawMaterial},
	{ColUnitPrice, domain.FieldUnitPrice},
}

// Enrich builds the processed record of one normalized flat record: source
// columns renamed to tabular identifiers, geometry metrics derived from mass
// and length, tolerance coefficients resolved from the standard name, the
// alloy category encoded, and simulated market indicators attached.
//
// Every required source field absent under all of its aliases is collected
// into one MissingFieldError, so a batch log names all gaps of a record at
// once. Mass, length and the raw-material price must also be numeric;
// records that carry nil there cannot be enriched and are rejected with a
// validation error.
func Enrich(rec *domain.FlatRecord, tables config.Tables, market *Market) (*domain.FlatRecord, error) {
	var missing []string

	out := domain.NewFlatRecord()
	for _, col := range sourceColumns {
		v, ok := rec.ResolveField(domain.AliasesFor(col.in)...)
		if !ok {
			missing = append(missing, col.in)
			continue
		}
		out.Set(col.out, v)
	}

	tolStandard, ok := rec.ResolveField(domain.FieldTolerances)
	if !ok {
		missing = append(missing, domain.FieldTolerances)
	}
	alloy, ok := rec.ResolveField(domain.FieldAlloy)
	if !ok {
		missing = append(missing, domain.FieldAlloy)
	}

	if len(missing) > 0 {
		return nil, &domain.MissingFieldError{Fields: missing}
	}

	weightVal, _ := out.Get(ColWeight)
	weight, ok := domain.AsFloat(weightVal)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not numeric", domain.ErrValidation, domain.FieldWeight)
	}
	lengthVal, _ := out.Get(ColLength)
	length, ok := domain.AsFloat(lengthVal)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not numeric", domain.ErrValidation, domain.FieldLength)
	}

	g := Geometric(weight, length)
	out.Set("thinness_ratio", g.ThinnessRatio)
	out.Set("area_to_length", g.AreaToLength)
	out.Set("wall_factor", g.WallFactor)
	out.Set("dfm_index", g.DFMIndex)
	out.Set("symmetry_score", g.SymmetryScore)

	tol := LookupTolerance(tables, domain.AsString(tolStandard))
	out.Set("linear_tol", tol.LinearTol)
	out.Set("angular_tol", tol.AngularTol)
	out.Set("flatness", tol.Flatness)
	out.Set("gd_t_index", tol.GDTIndex)

	out.Set(ColAlloyCategory, AlloyCategory(tables, domain.AsString(alloy)))

	raw, _ := out.Get(ColRawMaterial)
	base, ok := domain.AsFloat(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not numeric", domain.ErrValidation, domain.FieldRawMaterial)
	}
	ma3, lag1 := market.Indicators(base)
	out.Set(ColLMEMA3, ma3)
	out.Set(ColLMELag1, lag1)

	return out, nil
}
