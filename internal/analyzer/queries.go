package analyzer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// The two .where call shapes the analyzer understands:
// where(status: 'active') and where("status = ?").
var wherePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.where\(\s*(\w+):\s*`),
	regexp.MustCompile(`\.where\(["'](\w+)\s*=`),
}

// WhereClauses scans one model/controller file for query-filter call
// sites. Repeated filters on the same column within the file produce a
// single finding; the reporter applies a further (file stem, column)
// dedup across files.
func WhereClauses(path, content string) []Finding {
	seen := make(map[string]bool)
	var findings []Finding

	for _, re := range wherePatterns {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			column := m[1]
			if seen[column] {
				continue
			}
			seen[column] = true
			findings = append(findings, Finding{
				Type:     FindingWhereColumn,
				Severity: SeverityInfo,
				File:     path,
				Column:   column,
				Message:  fmt.Sprintf("Column %q used in WHERE clause - consider indexing if queries are slow", column),
			})
		}
	}
	return findings
}

// FileStem returns the file name without directory or extension, the
// file part of the WHERE-clause dedup key.
func FileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
