// Package schema validates nested quote documents against the fixed quote
// schema. Validation is all-or-nothing: a document either passes completely
// or is rejected with every violation it contains, so a batch log names all
// problems of a file at once.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nordprofil/offertpipe/internal/domain"
)

// quoteSchema is the structural contract of a validated quote: required
// fields per section, positive numerics where constrained, no unexpected
// top-level keys. Field-alias resolution happens before this schema runs,
// so the schema itself only knows canonical names.
const quoteSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "required": ["metadonnees", "produits", "conditions"],
  "properties": {
    "metadonnees": {
      "type": "object",
      "required": ["offert", "Datum", "Vår referens", "Er referens", "Kund"],
      "properties": {
        "offert": {"type": "string"},
        "Datum": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"}
      }
    },
    "produits": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["Profil nr/Kund ref", "Legering"],
        "properties": {
          "Profil nr/Kund ref": {"type": "string"},
          "Vikt kg/m": {"type": ["number", "null"], "exclusiveMinimum": 0},
          "Längd/m m": {"type": ["number", "null"], "exclusiveMinimum": 0},
          "Kap + truml Pris/st": {"type": ["number", "null"]},
          "ca antal Årsvolym st": {"type": ["integer", "null"], "exclusiveMinimum": 0},
          "Prix kr/st SEK": {"type": ["number", "null"]},
          "Legering": {"type": "string"}
        }
      }
    },
    "conditions": {
      "type": "object",
      "required": [
        "Verktygskostnad", "Legering", "Toleranser", "Ytbehandling",
        "Lev. längd", "Lev. villkor", "Lev. tid", "NOT",
        "Betalningsvillkor", "Giltighet", "Allmänna villkor", "Råvara"
      ]
    }
  }
}`

// requiredProductFields are the product fields whose absence (under every
// alias) makes a document unusable.
var requiredProductFields = []string{domain.FieldProfileRef, domain.FieldAlloy}

// Validator checks nested quotes against the fixed schema.
type Validator struct {
	schema *jsonschema.Schema
}

// New compiles the embedded quote schema.
func New() (*Validator, error) {
	sch, err := jsonschema.CompileString("quote.schema.json", quoteSchema)
	if err != nil {
		return nil, fmt.Errorf("compiling quote schema: %w", err)
	}
	return &Validator{schema: sch}, nil
}

// Validate checks one quote. It resolves field aliases first, then reports
// either a MissingFieldError naming every required field absent under all
// aliases, or a ValidationError aggregating every schema violation. A nil
// return freezes the quote for the downstream stages.
func (v *Validator) Validate(q domain.Quote) error {
	q = resolveAliases(q)

	if missing := missingFields(q); len(missing) > 0 {
		return &domain.MissingFieldError{Fields: missing}
	}

	value, err := toJSONValue(q)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedJSON, err)
	}

	var violations []string
	if err := v.schema.Validate(value); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		violations = leafMessages(ve)
	}

	// The pattern admits impossible dates like 2024-13-40; parse for real.
	if date, ok := q.Metadata[domain.FieldDate].(string); ok {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			violations = append(violations, fmt.Sprintf("metadonnees.Datum: %q is not a valid YYYY-MM-DD date", date))
		}
	}

	if len(violations) > 0 {
		return &domain.ValidationError{Violations: violations}
	}
	return nil
}

// resolveAliases returns a copy of q with product fields rewritten from
// their aliases to canonical names. Original alias keys are dropped.
func resolveAliases(q domain.Quote) domain.Quote {
	out := domain.Quote{
		Metadata:   q.Metadata,
		Conditions: q.Conditions,
		Products:   make([]map[string]any, len(q.Products)),
	}
	for i, p := range q.Products {
		product := make(map[string]any, len(p))
		for k, val := range p {
			product[k] = val
		}
		for canonical, aliases := range domain.Aliases {
			if _, ok := product[canonical]; ok {
				continue
			}
			for _, alias := range aliases[1:] {
				if val, ok := product[alias]; ok {
					product[canonical] = val
					delete(product, alias)
					break
				}
			}
		}
		out.Products[i] = product
	}
	return out
}

// missingFields collects every required field absent under all of its
// aliases, across all three sections, in one pass.
func missingFields(q domain.Quote) []string {
	var missing []string

	for _, f := range domain.MetadataFields {
		if _, ok := domain.Resolve(q.Metadata, domain.AliasesFor(f)...); !ok {
			missing = append(missing, "metadonnees."+f)
		}
	}
	for i, p := range q.Products {
		for _, f := range requiredProductFields {
			if _, ok := domain.Resolve(p, domain.AliasesFor(f)...); !ok {
				missing = append(missing, fmt.Sprintf("produits[%d].%s", i, f))
			}
		}
	}
	for _, f := range domain.ConditionFields {
		if _, ok := domain.Resolve(q.Conditions, domain.AliasesFor(f)...); !ok {
			missing = append(missing, "conditions."+f)
		}
	}
	return missing
}

// toJSONValue converts the quote to the generic JSON shape the schema
// library validates.
func toJSONValue(q domain.Quote) (any, error) {
	data, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	return value, nil
}

// leafMessages flattens a validation error tree into its leaf messages.
func leafMessages(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return []string{fmt.Sprintf("%s: %s", loc, ve.Message)}
	}
	var out []string
	for _, cause := range ve.Causes {
		out = append(out, leafMessages(cause)...)
	}
	return out
}
