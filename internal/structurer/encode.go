// Package structurer converts between the three raw line streams of a quote
// document, the canonical section-delimited text form, and the nested Quote
// structure. Encoding and decoding are independent operations: Decode
// accepts any well-formed canonical text, not only text produced by Encode.
package structurer

import (
	"fmt"
	"strings"

	"github.com/nordprofil/offertpipe/internal/config"
	"github.com/nordprofil/offertpipe/internal/productline"
	"github.com/nordprofil/offertpipe/internal/splitter"
)

// Canonical section names. The accented spellings are part of the on-disk
// format and must not be normalized.
const (
	sectionMetadata   = "MÉTADONNÉES"
	sectionProducts   = "PRODUITS"
	sectionConditions = "CONDITIONS"
)

// maxMetadataLines caps the metadata block of the canonical form; raw
// documents repeat boilerplate below the useful preamble.
const maxMetadataLines = 5

// productSeparator is the dash row between the table header and its data.
const productSeparator = "-------------------|-----------|-----------|---------------------|----------------------|----------------|---------"

// Canonicalize turns raw document text into canonical section-delimited
// text: it splits the lines into sections, parses the product rows, and
// re-serializes everything with explicit markers.
func Canonicalize(text string, tables config.Tables) string {
	machine := splitter.New(tables)
	sections := machine.Split(splitter.Lines(text))

	fallback := productline.FallbackName(sections.Products)
	alloy := splitter.DefaultAlloy(sections.Conditions)

	lines := make([]productline.Line, 0, len(sections.Products))
	for _, tokens := range sections.Products {
		lines = append(lines, productline.Parse(tokens, fallback, alloy, tables.Buckets))
	}

	return Encode(sections, lines)
}

// Encode serializes split sections and parsed product lines into the
// canonical text form.
func Encode(sections splitter.Sections, products []productline.Line) string {
	var b strings.Builder

	b.WriteString("=== " + sectionMetadata + " ===\n")
	meta := sections.Metadata
	if len(meta) > maxMetadataLines {
		meta = meta[:maxMetadataLines]
	}
	b.WriteString(strings.Join(meta, "\n") + "\n\n")

	if len(products) > 0 {
		b.WriteString("=== " + sectionProducts + " ===\n")
		b.WriteString(strings.Join(productline.Headers(), " | ") + "\n")
		b.WriteString(productSeparator + "\n")
		for _, p := range products {
			fmt.Fprintf(&b, "%-18s | %9s | %9s | %19s | %20s | %14s | %s\n",
				p.Name, p.Mass, p.Length, p.ToolingPrice, p.Volume, p.UnitPrice, p.Alloy)
		}
		b.WriteString("\n")
	}

	b.WriteString("=== " + sectionConditions + " ===\n")
	b.WriteString(strings.Join(sections.Conditions, "\n"))

	return b.String()
}
