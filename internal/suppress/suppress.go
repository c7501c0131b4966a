package suppress

import (
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"railspect/internal/analyzer"
)

// Suppression is a single rule in the ignore file. An empty Table
// matches any finding of the given Type.
type Suppression struct {
	Table  string `yaml:"table,omitempty"`
	Type   string `yaml:"type,omitempty"`
	Reason string `yaml:"reason,omitempty"`
}

// IgnoreFile is the structure of .railspect-ignore.yml.
type IgnoreFile struct {
	Suppressions []Suppression `yaml:"suppressions"`
}

// Rules holds loaded suppression rules from all sources.
type Rules struct {
	ignoreFile IgnoreFile
	// From config exclude
	configFindings []string
	configTables   []string
}

// LoadRules loads suppression rules from .railspect-ignore.yml in the
// given directory. A missing file yields empty rules.
func LoadRules(dir string) (*Rules, error) {
	r := &Rules{}

	path := filepath.Join(dir, ".railspect-ignore.yml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, &r.ignoreFile); err != nil {
		return nil, err
	}
	return r, nil
}

// WithConfigExcludes adds table and finding-type suppressions from config.
func (r *Rules) WithConfigExcludes(findings, tables []string) {
	r.configFindings = findings
	r.configTables = tables
}

// IsSuppressed returns true if the finding should be suppressed.
func (r *Rules) IsSuppressed(f *analyzer.Finding) bool {
	for _, ft := range r.configFindings {
		if strings.EqualFold(string(f.Type), ft) {
			return true
		}
	}
	for _, tbl := range r.configTables {
		if f.Table != "" && matchTable(tbl, f.Table) {
			return true
		}
	}

	for _, s := range r.ignoreFile.Suppressions {
		if s.Table != "" && !matchTable(s.Table, f.Table) {
			continue
		}
		if s.Type == "" || strings.EqualFold(s.Type, string(f.Type)) {
			if s.Table != "" || s.Type != "" {
				return true
			}
		}
	}

	return false
}

// Filter removes suppressed findings and returns the remaining ones.
// Returns the filtered list and the number of suppressed findings.
func (r *Rules) Filter(findings []analyzer.Finding) ([]analyzer.Finding, int) {
	if len(r.ignoreFile.Suppressions) == 0 && len(r.configFindings) == 0 && len(r.configTables) == 0 {
		return findings, 0
	}

	var filtered []analyzer.Finding
	suppressed := 0
	for i := range findings {
		if r.IsSuppressed(&findings[i]) {
			suppressed++
		} else {
			filtered = append(filtered, findings[i])
		}
	}
	return filtered, suppressed
}

// matchTable matches a table name against a pattern that supports
// trailing wildcards.
func matchTable(pattern, table string) bool {
	pattern = strings.ToLower(pattern)
	table = strings.ToLower(table)

	if strings.HasSuffix(pattern, "*") {
		prefix := strings.TrimSuffix(pattern, "*")
		return strings.HasPrefix(table, prefix)
	}
	return pattern == table
}
