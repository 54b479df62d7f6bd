// Package domain defines the core entities of the quote pipeline: the nested
// Quote document, the ordered FlatRecord used by the downstream stages, and
// the error taxonomy shared by every stage.
//
// Field names keep the Swedish vocabulary of the source documents. They are
// domain identifiers, not display strings, and are never translated.
package domain

// Top-level section keys of the structured quote JSON.
const (
	SectionMetadata   = "metadonnees"
	SectionProducts   = "produits"
	SectionConditions = "conditions"
)

// Metadata field keys.
const (
	FieldOffer        = "offert"
	FieldDate         = "Datum"
	FieldOurReference = "Vår referens"
	FieldYourRef      = "Er referens"
	FieldCustomer     = "Kund"
)

// Product line field keys.
const (
	FieldProfileRef   = "Profil nr/Kund ref"
	FieldWeight       = "Vikt kg/m"
	FieldLength       = "Längd/m m"
	FieldCutPrice     = "Kap + truml Pris/st"
	FieldAnnualVolume = "ca antal Årsvolym st"
	FieldUnitPrice    = "Prix kr/st SEK"
	FieldAlloy        = "Legering"
)

// Condition field keys.
const (
	FieldToolingCost   = "Verktygskostnad"
	FieldTolerances    = "Toleranser"
	FieldSurface       = "Ytbehandling"
	FieldDeliveryLen   = "Lev. längd"
	FieldDeliveryTerms = "Lev. villkor"
	FieldDeliveryTime  = "Lev. tid"
	FieldMinOrder      = "NOT"
	FieldPaymentTerms  = "Betalningsvillkor"
	FieldValidity      = "Giltighet"
	FieldGeneralTerms  = "Allmänna villkor"
	FieldRawMaterial   = "Råvara"
)

// Fields produced by surface-treatment decomposition and feature derivation.
const (
	FieldAlloySeries   = "alloy_series"
	FieldAlloyStrength = "alloy_strength"
	FieldTemperCode    = "temper_code"
	FieldEuropeanStd   = "european_std"
)

// MetadataFields is the canonical order of metadata columns in a flat row.
var MetadataFields = []string{
	FieldOffer, FieldDate, FieldOurReference, FieldYourRef, FieldCustomer,
}

// ProductFields is the canonical order of product columns in a flat row.
var ProductFields = []string{
	FieldProfileRef, FieldWeight, FieldLength, FieldCutPrice,
	FieldAnnualVolume, FieldUnitPrice, FieldAlloy,
}

// ConditionFields is the canonical order of condition columns in a flat row.
// FieldAlloy is shared with the product line; when flattening, the condition
// value overwrites the product value in place (the column is not duplicated).
var ConditionFields = []string{
	FieldToolingCost, FieldAlloy, FieldTolerances, FieldSurface,
	FieldDeliveryLen, FieldDeliveryTerms, FieldDeliveryTime, FieldMinOrder,
	FieldPaymentTerms, FieldValidity, FieldGeneralTerms, FieldRawMaterial,
}

// Aliases maps a canonical field name to the ordered list of keys it may
// appear under in source documents. First match wins.
var Aliases = map[string][]string{
	FieldWeight: {FieldWeight, "Weight kg/m"},
	FieldLength: {FieldLength, "Length/m"},
}

// AliasesFor returns the ordered alias list for a field, defaulting to the
// field name itself when no aliases are registered.
func AliasesFor(field string) []string {
	if a, ok := Aliases[field]; ok {
		return a
	}
	return []string{field}
}

// Quote is one supplier price-offer document: general metadata, one or more
// product lines, and the commercial conditions shared by all of them.
//
// Sections are kept as dynamic maps because condition and product values are
// heterogeneous after numeric coercion (strings, ints, floats). The schema
// validator is the gatekeeper that freezes a Quote for downstream stages;
// stages after validation treat the value as read-only.
type Quote struct {
	Metadata   map[string]any   `json:"metadonnees"`
	Products   []map[string]any `json:"produits"`
	Conditions map[string]any   `json:"conditions"`
}

// Resolve returns the first value present in m under any of the aliases.
// The boolean reports whether any alias matched, so callers can aggregate
// misses instead of failing on the first absent field.
func Resolve(m map[string]any, aliases ...string) (any, bool) {
	for _, key := range aliases {
		if v, ok := m[key]; ok {
			return v, true
		}
	}
	return nil, false
}
