package structurer

import (
	"regexp"
	"strings"

	"github.com/nordprofil/offertpipe/internal/domain"
)

// sectionMarker matches a canonical `=== NAME ===` section delimiter.
var sectionMarker = regexp.MustCompile(`===\s*(.+?)\s*===`)

// Decode parses canonical section text into a nested Quote. Section order is
// irrelevant; sections are located by their markers. Every condition value
// and every product cell passes through numeric coercion.
func Decode(text string) domain.Quote {
	sections := splitSections(text)

	return domain.Quote{
		Metadata:   decodeMetadata(sections[strings.ToLower(sectionMetadata)]),
		Products:   decodeProducts(sections[strings.ToLower(sectionProducts)]),
		Conditions: decodeConditions(sections[strings.ToLower(sectionConditions)]),
	}
}

// splitSections cuts the text at each section marker and maps the lowercased
// section name to the text block that follows it.
func splitSections(text string) map[string]string {
	matches := sectionMarker.FindAllStringSubmatchIndex(text, -1)
	out := make(map[string]string, len(matches))
	for i, m := range matches {
		name := strings.ToLower(text[m[2]:m[3]])
		start := m[1]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		out[name] = strings.TrimSpace(text[start:end])
	}
	return out
}

// decodeMetadata splits each line on the first colon. A line without a colon
// is the bare offer identifier.
func decodeMetadata(block string) map[string]any {
	meta := make(map[string]any)
	for _, line := range strings.Split(block, "\n") {
		if k, v, ok := strings.Cut(line, ":"); ok {
			meta[strings.TrimSpace(k)] = strings.TrimSpace(v)
		} else if s := strings.TrimSpace(line); s != "" {
			meta[domain.FieldOffer] = s
		}
	}
	return meta
}

// decodeProducts parses the pipe-delimited product table: a header row, a
// separator row, then data rows. Fewer than three lines means no products.
func decodeProducts(block string) []map[string]any {
	var lines []string
	for _, l := range strings.Split(block, "\n") {
		if s := strings.TrimSpace(l); s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) < 3 {
		return nil
	}

	headers := splitRow(lines[0])
	products := make([]map[string]any, 0, len(lines)-2)

	for _, line := range lines[2:] {
		cols := splitRow(line)

		// Reconcile the column count against the header: pad short rows
		// with empty cells, merge the tail of long rows into the last
		// column.
		switch {
		case len(cols) < len(headers):
			for len(cols) < len(headers) {
				cols = append(cols, "")
			}
		case len(cols) > len(headers):
			tail := strings.Join(cols[len(headers)-1:], " ")
			cols = append(cols[:len(headers)-1], tail)
		}

		product := make(map[string]any, len(headers))
		for i, h := range headers {
			product[h] = ConvertNum(cols[i])
		}
		products = append(products, product)
	}
	return products
}

// decodeConditions parses key:value lines with numeric coercion per value.
func decodeConditions(block string) map[string]any {
	conds := make(map[string]any)
	for _, line := range strings.Split(block, "\n") {
		if k, v, ok := strings.Cut(line, ":"); ok {
			conds[strings.TrimSpace(k)] = ConvertNum(strings.TrimSpace(v))
		}
	}
	return conds
}

// splitRow splits a pipe-delimited row into trimmed cells.
func splitRow(line string) []string {
	parts := strings.Split(line, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
