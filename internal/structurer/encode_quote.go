package structurer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nordprofil/offertpipe/internal/domain"
	"github.com/nordprofil/offertpipe/internal/productline"
)

// EncodeQuote re-serializes a nested Quote into canonical section text, the
// inverse of Decode for quotes the structurer produced itself. Known fields
// keep their canonical order; unknown extras follow in sorted order so the
// output is deterministic.
func EncodeQuote(q domain.Quote) string {
	var b strings.Builder

	b.WriteString("=== " + sectionMetadata + " ===\n")
	if v, ok := q.Metadata[domain.FieldOffer]; ok {
		// The bare offer identifier is the one colon-less metadata line.
		b.WriteString(domain.AsString(v) + "\n")
	}
	for _, key := range orderedKeys(q.Metadata, domain.MetadataFields) {
		if key == domain.FieldOffer {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", key, domain.AsString(q.Metadata[key]))
	}
	b.WriteString("\n")

	if len(q.Products) > 0 {
		headers := productline.Headers()
		b.WriteString("=== " + sectionProducts + " ===\n")
		b.WriteString(strings.Join(headers, " | ") + "\n")
		b.WriteString(productSeparator + "\n")
		for _, p := range q.Products {
			cells := make([]string, len(headers))
			for i, h := range headers {
				cells[i] = domain.AsString(p[h])
			}
			b.WriteString(strings.Join(cells, " | ") + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("=== " + sectionConditions + " ===\n")
	for _, key := range orderedKeys(q.Conditions, domain.ConditionFields) {
		fmt.Fprintf(&b, "%s: %s\n", key, domain.AsString(q.Conditions[key]))
	}

	return b.String()
}

// orderedKeys returns the keys of m with canonical fields first, in their
// canonical order, followed by any remaining keys sorted.
func orderedKeys(m map[string]any, canonical []string) []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, k := range canonical {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var extras []string
	for k := range m {
		if !seen[k] {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	return append(keys, extras...)
}
