package reporter

import (
	"encoding/json"
	"fmt"
	"io"

	"railspect/internal/analyzer"
)

// Minimal subset of SARIF 2.1.0 sufficient for valid output.

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string            `json:"id"`
	ShortDescription sarifMessage      `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaults `json:"defaultConfiguration"`
}

type sarifRuleDefaults struct {
	Level string `json:"level"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation *sarifPhysicalLocation `json:"physicalLocation,omitempty"`
	LogicalLocations []sarifLogicalLocation `json:"logicalLocations,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

type sarifLogicalLocation struct {
	Name               string `json:"name"`
	FullyQualifiedName string `json:"fullyQualifiedName"`
	Kind               string `json:"kind"`
}

var ruleDescriptions = map[analyzer.FindingType]string{
	analyzer.FindingMissingFKIndex:     "Foreign key column has no index",
	analyzer.FindingBooleanIndex:       "Boolean column might benefit from a partial index",
	analyzer.FindingWhereColumn:        "Column filtered in queries; index if queries are slow",
	analyzer.FindingNPlusOne:           "Query result dereferenced per element without eager loading",
	analyzer.FindingViewAssociation:    "Association accessed in view; verify eager loading upstream",
	analyzer.FindingPoolSize:           "Connection pool size missing or outside recommended bounds",
	analyzer.FindingStatementTimeout:   "statement_timeout not configured",
	analyzer.FindingConnectTimeout:     "connect_timeout not configured",
	analyzer.FindingCheckoutTimeout:    "checkout_timeout not configured",
	analyzer.FindingPreparedStatements: "Prepared statements disabled or not explicit",
	analyzer.FindingReapingFrequency:   "reaping_frequency not configured",
	analyzer.FindingSSLConfiguration:   "SSL/TLS not enforced for database connections",
}

var severityToLevel = map[analyzer.Severity]string{
	analyzer.SeverityWarning: "warning",
	analyzer.SeverityInfo:    "note",
}

func writeSARIF(w io.Writer, report *Report) error {
	ruleSet := make(map[analyzer.FindingType]bool)
	for i := range report.Findings {
		ruleSet[report.Findings[i].Type] = true
	}

	rules := make([]sarifRule, 0, len(ruleSet))
	for _, ft := range typeOrder {
		if !ruleSet[ft] {
			continue
		}
		desc := ruleDescriptions[ft]
		if desc == "" {
			desc = string(ft)
		}
		rules = append(rules, sarifRule{
			ID:               "railspect/" + string(ft),
			ShortDescription: sarifMessage{Text: desc},
			DefaultConfig:    sarifRuleDefaults{Level: "warning"},
		})
	}

	results := make([]sarifResult, 0, len(report.Findings))
	for i := range report.Findings {
		f := &report.Findings[i]
		level := severityToLevel[f.Severity]
		if level == "" {
			level = "note"
		}

		msgText := f.Message
		if f.Suggestion != "" {
			msgText += fmt.Sprintf(" [suggestion: %s]", f.Suggestion)
		}

		results = append(results, sarifResult{
			RuleID:    "railspect/" + string(f.Type),
			Level:     level,
			Message:   sarifMessage{Text: msgText},
			Locations: []sarifLocation{findingLocation(f)},
		})
	}

	log := sarifLog{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "railspect",
						Version: report.Metadata.Version,
						Rules:   rules,
					},
				},
				Results: results,
			},
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(log); err != nil {
		return fmt.Errorf("encode SARIF: %w", err)
	}
	return nil
}

// findingLocation builds a physical location for source findings and a
// logical one for schema/connection findings.
func findingLocation(f *analyzer.Finding) sarifLocation {
	if f.File != "" {
		phys := &sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{URI: f.File},
		}
		if f.Line > 0 {
			phys.Region = &sarifRegion{StartLine: f.Line}
		}
		return sarifLocation{PhysicalLocation: phys}
	}

	if f.Environment != "" {
		return sarifLocation{
			LogicalLocations: []sarifLogicalLocation{{
				Name:               f.Setting,
				FullyQualifiedName: f.Environment + "." + f.Setting,
				Kind:               "database/setting",
			}},
		}
	}

	fqn := f.Table
	if f.Column != "" {
		fqn += "." + f.Column
	}
	return sarifLocation{
		LogicalLocations: []sarifLogicalLocation{{
			Name:               f.Table,
			FullyQualifiedName: fqn,
			Kind:               "database/table",
		}},
	}
}
