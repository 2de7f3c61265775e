package core

import "strings"

// LegacyReformatter rewrites rows from the one known legacy export dialect
// into the current delimiter before they enter the ledger. The old exporter
// joined fields with semicolons (and, for a short while, pipes); a row in
// that dialect decodes to fewer than the expected column count, which is how
// the import path detects it.
//
// This is deliberately a standalone, pluggable step so the substitution table
// stays pinned by its own tests instead of living inline in the import path.
type LegacyReformatter struct {
	// Markers are replaced with the field delimiter, in order.
	Markers []string
}

// NewLegacyReformatter returns a reformatter for the known legacy dialect.
func NewLegacyReformatter() *LegacyReformatter {
	return &LegacyReformatter{Markers: []string{";", "|"}}
}

// NeedsReformat reports whether line decodes short of the current width and is
// therefore a candidate for marker substitution.
func (f *LegacyReformatter) NeedsReformat(line string) bool {
	return len(DecodeLine(line)) < ColumnCount
}

// Apply substitutes each marker with the field delimiter. Best effort: the
// result is not re-validated, it just flows through the normal lenient parse.
func (f *LegacyReformatter) Apply(line string) string {
	out := line
	for _, marker := range f.Markers {
		out = strings.ReplaceAll(out, marker, ",")
	}
	return out
}
