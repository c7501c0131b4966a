package analyzer

import (
	"fmt"
	"regexp"
	"strings"
)

// Window sizes for the N+1 heuristic. Fixed bounds keep the check cheap
// and the noise level predictable; detections outside the windows are
// accepted misses.
const (
	eagerLookback  = 2  // lines before a fetch checked for eager loading
	eagerLookahead = 2  // lines after a fetch checked for eager loading
	accessWindow   = 20 // lines scanned for association access on the result
)

var (
	fetchRe  = regexp.MustCompile(`\.(all|where|find_by|find)\b`)
	eagerRe  = regexp.MustCompile(`\.(includes|preload|eager_load)\b`)
	assignRe = regexp.MustCompile(`@(\w+)\s*=`)
	chainRe  = regexp.MustCompile(`\w+\.\w+\.\w+`)
)

// ControllerNPlusOne flags fetches whose result is assigned to an
// instance variable and later dereferenced through an association,
// with no eager-loading call near the fetch.
func ControllerNPlusOne(path, content string) []Finding {
	lines := strings.Split(content, "\n")
	var findings []Finding

	for i, line := range lines {
		if !fetchRe.MatchString(line) {
			continue
		}
		if hasEagerLoading(lines, i) {
			continue
		}
		m := assignRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if !accessesAssociation(lines, i, m[1]) {
			continue
		}
		findings = append(findings, Finding{
			Type:     FindingNPlusOne,
			Severity: SeverityWarning,
			File:     path,
			Line:     i + 1,
			Message:  fmt.Sprintf("Potential N+1 query: Query at line %d may need eager loading", i+1),
		})
	}
	return findings
}

func hasEagerLoading(lines []string, i int) bool {
	start := max(0, i-eagerLookback)
	end := min(len(lines), i+eagerLookahead+1)
	for _, l := range lines[start:end] {
		if eagerRe.MatchString(l) {
			return true
		}
	}
	return false
}

// accessesAssociation looks ahead for a two-level member access on the
// fetched variable (@var.a.b), the signal that an association is
// dereferenced per element.
func accessesAssociation(lines []string, i int, varName string) bool {
	accessRe := regexp.MustCompile(`@` + regexp.QuoteMeta(varName) + `\.\w+\.\w+`)
	end := min(len(lines), i+accessWindow)
	for _, l := range lines[i:end] {
		if accessRe.MatchString(l) {
			return true
		}
	}
	return false
}

// ViewAssociations flags member-access chains (object.association.method)
// in template files. Low confidence: a prompt to verify eager loading was
// arranged upstream, not a determination of a problem.
func ViewAssociations(path, content string) []Finding {
	var findings []Finding
	for i, line := range strings.Split(content, "\n") {
		if !chainRe.MatchString(line) {
			continue
		}
		findings = append(findings, Finding{
			Type:     FindingViewAssociation,
			Severity: SeverityInfo,
			File:     path,
			Line:     i + 1,
			Message:  "Association access in view - verify eager loading in controller",
		})
	}
	return findings
}
