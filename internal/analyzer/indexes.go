package analyzer

import (
	"fmt"
	"strings"

	"railspect/internal/schema"
)

// booleanNames are conventional boolean column names checked in addition
// to the is_/has_ prefixes.
var booleanNames = map[string]bool{
	"active":    true,
	"enabled":   true,
	"published": true,
	"deleted":   true,
}

// AnalyzeSchema runs all schema-based checks against the model.
func AnalyzeSchema(m *schema.Model) []Finding {
	var findings []Finding
	findings = append(findings, detectMissingFKIndexes(m)...)
	findings = append(findings, detectBooleanColumns(m)...)
	return findings
}

// detectMissingFKIndexes flags foreign-key-shaped columns without a
// captured index. Unindexed foreign keys make joins and cascading
// deletes slow. False positives are possible for composite or partial
// indexes the parser under-captures.
func detectMissingFKIndexes(m *schema.Model) []Finding {
	var findings []Finding
	for _, t := range m.Ordered() {
		for _, fk := range t.ForeignKeys {
			if t.Indexed(fk) {
				continue
			}
			findings = append(findings, Finding{
				Type:       FindingMissingFKIndex,
				Severity:   SeverityWarning,
				Table:      t.Name,
				Column:     fk,
				Message:    fmt.Sprintf("Foreign key %s on %s should have an index", fk, t.Name),
				Suggestion: fmt.Sprintf("add_index :%s, :%s", t.Name, fk),
			})
		}
	}
	return findings
}

// detectBooleanColumns suggests partial indexes for unindexed
// boolean-shaped columns. Booleans have low cardinality, so a full index
// is wasteful but a partial index on the true value is often valuable.
func detectBooleanColumns(m *schema.Model) []Finding {
	var findings []Finding
	for _, t := range m.Ordered() {
		for _, col := range t.Columns {
			if !isBooleanShaped(col) || t.Indexed(col) {
				continue
			}
			findings = append(findings, Finding{
				Type:       FindingBooleanIndex,
				Severity:   SeverityInfo,
				Table:      t.Name,
				Column:     col,
				Message:    fmt.Sprintf("Boolean column %s on %s might benefit from a partial index", col, t.Name),
				Suggestion: fmt.Sprintf("add_index :%s, :%s, where: %q", t.Name, col, col+" = true"),
			})
		}
	}
	return findings
}

func isBooleanShaped(col string) bool {
	return strings.HasPrefix(col, "is_") || strings.HasPrefix(col, "has_") || booleanNames[col]
}
