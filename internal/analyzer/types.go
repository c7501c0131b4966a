package analyzer

// Severity indicates the risk level of a finding. The tool only
// distinguishes actionable warnings from informational suggestions.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// FindingType identifies what kind of issue was detected.
type FindingType string

const (
	FindingMissingFKIndex  FindingType = "missing_foreign_key_index"
	FindingBooleanIndex    FindingType = "boolean_index_opportunity"
	FindingWhereColumn     FindingType = "where_clause_column"
	FindingNPlusOne        FindingType = "potential_n_plus_one"
	FindingViewAssociation FindingType = "view_association_access"

	FindingPoolSize           FindingType = "connection_pool_size"
	FindingStatementTimeout   FindingType = "statement_timeout"
	FindingConnectTimeout     FindingType = "connect_timeout"
	FindingCheckoutTimeout    FindingType = "checkout_timeout"
	FindingPreparedStatements FindingType = "prepared_statements"
	FindingReapingFrequency   FindingType = "reaping_frequency"
	FindingSSLConfiguration   FindingType = "ssl_configuration"
)

// Finding is a single analyzer observation, immutable after creation.
// The location is either table/column (schema findings), file/line
// (source findings), or environment/setting (connection findings).
type Finding struct {
	Type        FindingType `json:"type"`
	Severity    Severity    `json:"severity"`
	Table       string      `json:"table,omitempty"`
	Column      string      `json:"column,omitempty"`
	File        string      `json:"file,omitempty"`
	Line        int         `json:"line,omitempty"`
	Environment string      `json:"environment,omitempty"`
	Setting     string      `json:"setting,omitempty"`
	Message     string      `json:"message"`
	Suggestion  string      `json:"suggestion,omitempty"`
}

// HasWarnings reports whether any finding carries warning severity.
func HasWarnings(findings []Finding) bool {
	for i := range findings {
		if findings[i].Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// MaxSeverity returns warning if any warning-severity finding exists,
// info otherwise.
func MaxSeverity(findings []Finding) Severity {
	if HasWarnings(findings) {
		return SeverityWarning
	}
	return SeverityInfo
}
