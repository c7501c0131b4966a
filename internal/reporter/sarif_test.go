package reporter

import (
	"bytes"
	"encoding/json"
	"testing"

	"railspect/internal/analyzer"
)

func TestWriteSARIF(t *testing.T) {
	findings := []analyzer.Finding{
		fkFinding("posts", "user_id"),
		{
			Type:     analyzer.FindingNPlusOne,
			Severity: analyzer.SeverityWarning,
			File:     "app/controllers/posts_controller.rb",
			Line:     12,
			Message:  "Potential N+1 query: Query at line 12 may need eager loading",
		},
		{
			Type:        analyzer.FindingPoolSize,
			Severity:    analyzer.SeverityWarning,
			Environment: "production",
			Setting:     "pool",
			Message:     "Connection pool size not explicitly set (defaults to 5)",
		},
	}
	report := NewReport("check", "1.0.0", findings)

	var buf bytes.Buffer
	if err := Write(&buf, &report, FormatSARIF); err != nil {
		t.Fatal(err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF JSON: %v", err)
	}

	if log.Version != "2.1.0" {
		t.Errorf("version = %q", log.Version)
	}
	if len(log.Runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(log.Runs))
	}
	run := log.Runs[0]

	if run.Tool.Driver.Name != "railspect" || run.Tool.Driver.Version != "1.0.0" {
		t.Errorf("driver = %+v", run.Tool.Driver)
	}
	// One rule per distinct finding type.
	if len(run.Tool.Driver.Rules) != 3 {
		t.Errorf("rules = %d, want 3", len(run.Tool.Driver.Rules))
	}
	if len(run.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(run.Results))
	}

	for _, r := range run.Results {
		if r.Level != "warning" {
			t.Errorf("level = %q, want warning", r.Level)
		}
	}

	// Source finding gets a physical location with a region.
	var nPlusOne *sarifResult
	for i := range run.Results {
		if run.Results[i].RuleID == "railspect/potential_n_plus_one" {
			nPlusOne = &run.Results[i]
		}
	}
	if nPlusOne == nil {
		t.Fatal("potential_n_plus_one result missing")
	}
	phys := nPlusOne.Locations[0].PhysicalLocation
	if phys == nil || phys.ArtifactLocation.URI != "app/controllers/posts_controller.rb" {
		t.Errorf("physical location = %+v", phys)
	}
	if phys.Region == nil || phys.Region.StartLine != 12 {
		t.Errorf("region = %+v", phys.Region)
	}
}

func TestWriteSARIF_Empty(t *testing.T) {
	report := NewReport("check", "1.0.0", nil)

	var buf bytes.Buffer
	if err := Write(&buf, &report, FormatSARIF); err != nil {
		t.Fatal(err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF JSON: %v", err)
	}
	if len(log.Runs) != 1 || log.Runs[0].Results == nil {
		t.Error("empty report should still emit a run with an empty results array")
	}
}
