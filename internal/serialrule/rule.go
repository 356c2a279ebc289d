// =============================================================================
// AssetDesk - Serial Rule Engine
// =============================================================================
//
// This module applies a simple text rule to the serial-number column of a
// merged table. The rule comes in as a single user-typed string:
//
//   prefix=HQ-     -> every serial becomes "HQ-" + value
//   suffix=-2026   -> every serial becomes value + "-2026"
//
// Anything else (including the empty string) is treated as "no rule" and the
// table passes through untouched. The rewrite is a destructive overwrite of
// the column; applying the same rule twice stacks the text twice, since the
// engine performs no detection of prior application.
//
// =============================================================================

package serialrule

import (
	"strings"

	"assetdesk/internal/table"
)

// =============================================================================
// RULE TYPE
// =============================================================================

// Kind identifies the rule variant.
type Kind int

const (
	// None means no transform: the identity rule.
	None Kind = iota

	// Prefix prepends the rule text to every serial value.
	Prefix

	// Suffix appends the rule text to every serial value.
	Suffix
)

// Rule is a parsed serial rule.
type Rule struct {
	Kind Kind
	Text string
}

// Parse parses a raw rule string of the form "prefix=<text>" or
// "suffix=<text>". Unrecognized or empty input yields the None rule; there
// is no parse error.
func Parse(raw string) Rule {
	raw = strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(raw, "prefix="):
		return Rule{Kind: Prefix, Text: strings.TrimPrefix(raw, "prefix=")}
	case strings.HasPrefix(raw, "suffix="):
		return Rule{Kind: Suffix, Text: strings.TrimPrefix(raw, "suffix=")}
	default:
		return Rule{Kind: None}
	}
}

// IsNone reports whether the rule is the identity rule.
func (r Rule) IsNone() bool {
	return r.Kind == None || r.Text == ""
}

// =============================================================================
// APPLICATION
// =============================================================================

// Apply rewrites the serial-number column of the table in place.
//
// PARAMETERS:
//   - t: The merged table. Mutated in place.
//   - rule: The parsed rule. The None rule is a no-op.
//   - keywords: Column-name keywords identifying the serial column.
//
// RETURNS:
//   - The name of the column that was rewritten.
//   - Whether any column was rewritten. A table without a serial-like
//     column passes through unchanged; that is not an error.
func Apply(t *table.Table, rule Rule, keywords []string) (string, bool) {
	if rule.IsNone() {
		return "", false
	}

	col, ok := table.DetectColumn(t.Columns, keywords, false)
	if !ok {
		return "", false
	}

	for _, row := range t.Rows {
		value := row[col].String()
		if rule.Kind == Prefix {
			row[col] = table.Text(rule.Text + value)
		} else {
			row[col] = table.Text(value + rule.Text)
		}
	}

	return col, true
}
