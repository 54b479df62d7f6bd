// Package splitter classifies the lines of a raw quote document into three
// ordered streams: metadata, product-table rows, and condition lines.
//
// The classifier is a small explicit state machine so that every line
// decision is unit-testable on its own. There is no grammar to rely on; the
// only anchors are the product-table start marker and a fixed list of
// condition header prefixes.
package splitter

import (
	"strings"

	"github.com/nordprofil/offertpipe/internal/config"
)

// State is the position of the classifier within a document.
type State int

const (
	// StateMetadata is the initial state, before the product table and
	// before any condition header has been seen.
	StateMetadata State = iota
	// StateProducts is active between the product-table marker and the
	// first following condition header.
	StateProducts
	// StateConditions is active once a condition header has been seen and
	// the product table is not (re-)entered.
	StateConditions
)

// Kind is the classification of one line.
type Kind int

const (
	// KindMetadata lines belong to the document preamble.
	KindMetadata Kind = iota
	// KindProductRow lines are whitespace-tokenized product table rows.
	KindProductRow
	// KindCondition lines carry a commercial condition.
	KindCondition
	// KindMarker is the product-table start marker itself.
	KindMarker
	// KindSkip lines are discarded: table header/unit noise inside the
	// product section, and free text trailing the conditions.
	KindSkip
)

// Sections are the three ordered line groups of one document.
type Sections struct {
	Metadata   []string
	Products   [][]string
	Conditions []string
}

// Machine classifies document lines against one set of domain tables.
type Machine struct {
	tables config.Tables
}

// New creates a classifier for the given tables.
func New(tables config.Tables) *Machine {
	return &Machine{tables: tables}
}

// Transition classifies one trimmed, non-empty line and returns the next
// state. It is pure: the same state and line always produce the same result.
func (m *Machine) Transition(state State, line string) (State, Kind) {
	if strings.HasPrefix(line, m.tables.ProductMarker) {
		return StateProducts, KindMarker
	}
	for _, header := range m.tables.ConditionHeaders {
		if strings.HasPrefix(line, header) {
			return StateConditions, KindCondition
		}
	}

	switch state {
	case StateProducts:
		if m.isNoise(line) {
			return StateProducts, KindSkip
		}
		return StateProducts, KindProductRow
	case StateConditions:
		// Free text after the conditions begin belongs to no section.
		return StateConditions, KindSkip
	default:
		return StateMetadata, KindMetadata
	}
}

// isNoise reports whether a product-section line is header/unit decoration.
func (m *Machine) isNoise(line string) bool {
	for _, prefix := range m.tables.SkipPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	for _, literal := range m.tables.SkipLiterals {
		if line == literal {
			return true
		}
	}
	return false
}

// Split runs the machine over a document. Lines must already be trimmed and
// non-empty. A document with no condition header ends up with everything
// outside the product table in Metadata; that is the intended reading of
// such documents, not an error.
func (m *Machine) Split(lines []string) Sections {
	var s Sections
	state := StateMetadata

	for _, line := range lines {
		var kind Kind
		state, kind = m.Transition(state, line)

		switch kind {
		case KindMetadata:
			s.Metadata = append(s.Metadata, line)
		case KindProductRow:
			s.Products = append(s.Products, strings.Fields(line))
		case KindCondition:
			s.Conditions = append(s.Conditions, line)
		}
	}
	return s
}

// Lines splits raw document text into trimmed, non-empty lines, the input
// form Split expects.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// DefaultAlloy extracts the alloy from the condition lines. It returns an
// empty string when no "Legering:" condition is present.
func DefaultAlloy(conditions []string) string {
	for _, cond := range conditions {
		if strings.HasPrefix(cond, "Legering:") {
			parts := strings.SplitN(cond, ":", 2)
			if len(parts) > 1 {
				return strings.TrimSpace(parts[1])
			}
		}
	}
	return ""
}
