package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"

	"railspect/internal/analyzer"
)

// Format controls report output format.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatSARIF Format = "sarif"
)

// Display caps. Long groups are truncated for display with a single
// overflow line; the summary always reflects the full counts.
const (
	booleanPreviewLimit = 5
	wherePreviewLimit   = 10
)

// Metadata holds report context.
type Metadata struct {
	Tool      string `json:"tool"`
	Command   string `json:"command"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// Summary counts findings by severity.
type Summary struct {
	Total   int `json:"total"`
	Warning int `json:"warning"`
	Info    int `json:"info"`
}

// Report is the top-level analysis output.
type Report struct {
	Metadata    Metadata           `json:"metadata"`
	Findings    []analyzer.Finding `json:"findings"`
	MaxSeverity analyzer.Severity  `json:"maxSeverity"`
	Summary     Summary            `json:"summary"`
}

// NewReport builds a report from findings. WHERE-clause findings are
// deduplicated by (file stem, column) before counting.
func NewReport(command, version string, findings []analyzer.Finding) Report {
	findings = dedupWhereColumns(findings)

	var summary Summary
	for i := range findings {
		summary.Total++
		switch findings[i].Severity {
		case analyzer.SeverityWarning:
			summary.Warning++
		case analyzer.SeverityInfo:
			summary.Info++
		}
	}

	if findings == nil {
		findings = []analyzer.Finding{}
	}

	return Report{
		Metadata: Metadata{
			Tool:      "railspect",
			Command:   command,
			Version:   version,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
		Findings:    findings,
		MaxSeverity: analyzer.MaxSeverity(findings),
		Summary:     summary,
	}
}

func dedupWhereColumns(findings []analyzer.Finding) []analyzer.Finding {
	seen := make(map[string]bool)
	var out []analyzer.Finding
	for i := range findings {
		f := findings[i]
		if f.Type == analyzer.FindingWhereColumn {
			key := analyzer.FileStem(f.File) + ":" + f.Column
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, f)
	}
	return out
}

// Write outputs the report in the given format.
func Write(w io.Writer, report *Report, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatSARIF:
		return writeSARIF(w, report)
	default:
		return writeText(w, report)
	}
}

func writeJSON(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// typeOrder fixes the display order of finding groups.
var typeOrder = []analyzer.FindingType{
	analyzer.FindingMissingFKIndex,
	analyzer.FindingBooleanIndex,
	analyzer.FindingWhereColumn,
	analyzer.FindingNPlusOne,
	analyzer.FindingViewAssociation,
	analyzer.FindingPoolSize,
	analyzer.FindingStatementTimeout,
	analyzer.FindingConnectTimeout,
	analyzer.FindingCheckoutTimeout,
	analyzer.FindingPreparedStatements,
	analyzer.FindingReapingFrequency,
	analyzer.FindingSSLConfiguration,
}

var typeHeading = map[analyzer.FindingType]string{
	analyzer.FindingMissingFKIndex:     "MISSING FOREIGN KEY INDEXES",
	analyzer.FindingBooleanIndex:       "BOOLEAN COLUMN INDEXING OPPORTUNITIES",
	analyzer.FindingWhereColumn:        "COLUMNS USED IN WHERE CLAUSES",
	analyzer.FindingNPlusOne:           "POTENTIAL N+1 QUERIES",
	analyzer.FindingViewAssociation:    "ASSOCIATION ACCESS IN VIEWS",
	analyzer.FindingPoolSize:           "CONNECTION POOL",
	analyzer.FindingStatementTimeout:   "STATEMENT TIMEOUT",
	analyzer.FindingConnectTimeout:     "CONNECT TIMEOUT",
	analyzer.FindingCheckoutTimeout:    "CHECKOUT TIMEOUT",
	analyzer.FindingPreparedStatements: "PREPARED STATEMENTS",
	analyzer.FindingReapingFrequency:   "CONNECTION REAPING",
	analyzer.FindingSSLConfiguration:   "SSL CONFIGURATION",
}

var severitySprint = map[analyzer.Severity]func(a ...interface{}) string{
	analyzer.SeverityWarning: color.New(color.FgYellow, color.Bold).SprintFunc(),
	analyzer.SeverityInfo:    color.New(color.FgCyan).SprintFunc(),
}

func writeText(w io.Writer, report *Report) error {
	if report.Summary.Total == 0 {
		_, err := fmt.Fprintln(w, "No findings.")
		return err
	}

	byType := make(map[analyzer.FindingType][]analyzer.Finding)
	for i := range report.Findings {
		byType[report.Findings[i].Type] = append(byType[report.Findings[i].Type], report.Findings[i])
	}

	for _, ft := range typeOrder {
		group := byType[ft]
		if len(group) == 0 {
			continue
		}
		// Warnings first within the group.
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Severity == analyzer.SeverityWarning &&
				group[j].Severity != analyzer.SeverityWarning
		})

		label := severitySprint[group[0].Severity](string(group[0].Severity))
		if _, err := fmt.Fprintf(w, "\n%s  %s (%d):\n", label, typeHeading[ft], len(group)); err != nil {
			return err
		}

		var err error
		switch ft {
		case analyzer.FindingBooleanIndex:
			err = writePreview(w, group, booleanPreviewLimit)
		case analyzer.FindingWhereColumn:
			err = writeWhereColumns(w, group)
		default:
			err = writePreview(w, group, len(group))
		}
		if err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\nSummary: %d findings (warning=%d info=%d)\n",
		report.Summary.Total, report.Summary.Warning, report.Summary.Info)
	return err
}

func writePreview(w io.Writer, group []analyzer.Finding, limit int) error {
	shown := group
	if len(shown) > limit {
		shown = shown[:limit]
	}
	for i := range shown {
		f := &shown[i]
		if _, err := fmt.Fprintf(w, "  %s\n    %s\n", Location(f), f.Message); err != nil {
			return err
		}
		if f.Suggestion != "" {
			if _, err := fmt.Fprintf(w, "    Migration: %s\n", f.Suggestion); err != nil {
				return err
			}
		}
	}
	if len(group) > limit {
		if _, err := fmt.Fprintf(w, "  ... and %d more\n", len(group)-limit); err != nil {
			return err
		}
	}
	return nil
}

// writeWhereColumns lists the unique filtered columns, capped, rather
// than enumerating every call site.
func writeWhereColumns(w io.Writer, group []analyzer.Finding) error {
	colSet := make(map[string]bool)
	for i := range group {
		colSet[group[i].Column] = true
	}
	columns := make([]string, 0, len(colSet))
	for c := range colSet {
		columns = append(columns, c)
	}
	sort.Strings(columns)

	if _, err := fmt.Fprintln(w, "  Consider adding indexes to these columns if queries are slow:"); err != nil {
		return err
	}
	shown := columns
	if len(shown) > wherePreviewLimit {
		shown = shown[:wherePreviewLimit]
	}
	for _, c := range shown {
		if _, err := fmt.Fprintf(w, "    %s\n", c); err != nil {
			return err
		}
	}
	if len(columns) > wherePreviewLimit {
		if _, err := fmt.Fprintf(w, "    ... and %d more\n", len(columns)-wherePreviewLimit); err != nil {
			return err
		}
	}
	return nil
}

// Location renders a finding's location: file:line for source findings,
// [env] setting for connection findings, table.column for schema findings.
func Location(f *analyzer.Finding) string {
	switch {
	case f.File != "" && f.Line > 0:
		return fmt.Sprintf("%s:%d", f.File, f.Line)
	case f.File != "":
		return f.File
	case f.Environment != "":
		return fmt.Sprintf("[%s] %s", f.Environment, f.Setting)
	default:
		return f.Table + "." + f.Column
	}
}
