package suppress

import (
	"os"
	"path/filepath"
	"testing"

	"railspect/internal/analyzer"
)

func TestLoadRules_NoFile(t *testing.T) {
	rules, err := LoadRules(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	f := analyzer.Finding{Type: analyzer.FindingMissingFKIndex, Table: "posts"}
	if rules.IsSuppressed(&f) {
		t.Error("empty rules should suppress nothing")
	}
}

func TestLoadRules_File(t *testing.T) {
	dir := t.TempDir()
	content := `
suppressions:
  - table: schema_migrations
    reason: framework table
  - table: legacy_*
    type: missing_foreign_key_index
  - type: view_association_access
    reason: views audited manually
`
	if err := os.WriteFile(filepath.Join(dir, ".railspect-ignore.yml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(dir)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		finding analyzer.Finding
		want    bool
	}{
		{"table match any type", analyzer.Finding{Type: analyzer.FindingBooleanIndex, Table: "schema_migrations"}, true},
		{"wildcard with matching type", analyzer.Finding{Type: analyzer.FindingMissingFKIndex, Table: "legacy_orders"}, true},
		{"wildcard with other type", analyzer.Finding{Type: analyzer.FindingBooleanIndex, Table: "legacy_orders"}, false},
		{"type-only rule", analyzer.Finding{Type: analyzer.FindingViewAssociation, File: "index.html.erb"}, true},
		{"unrelated", analyzer.Finding{Type: analyzer.FindingMissingFKIndex, Table: "posts"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rules.IsSuppressed(&tt.finding); got != tt.want {
				t.Errorf("IsSuppressed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRules_ConfigExcludes(t *testing.T) {
	rules := &Rules{}
	rules.WithConfigExcludes(
		[]string{"boolean_index_opportunity"},
		[]string{"audit_*"},
	)

	byType := analyzer.Finding{Type: analyzer.FindingBooleanIndex, Table: "users"}
	if !rules.IsSuppressed(&byType) {
		t.Error("config finding-type exclude should suppress")
	}

	byTable := analyzer.Finding{Type: analyzer.FindingMissingFKIndex, Table: "audit_logs"}
	if !rules.IsSuppressed(&byTable) {
		t.Error("config table exclude should suppress")
	}

	other := analyzer.Finding{Type: analyzer.FindingMissingFKIndex, Table: "posts"}
	if rules.IsSuppressed(&other) {
		t.Error("unrelated finding should pass")
	}
}

func TestRules_Filter(t *testing.T) {
	rules := &Rules{}
	rules.WithConfigExcludes([]string{"where_clause_column"}, nil)

	findings := []analyzer.Finding{
		{Type: analyzer.FindingWhereColumn, Column: "status"},
		{Type: analyzer.FindingMissingFKIndex, Table: "posts", Column: "user_id"},
		{Type: analyzer.FindingWhereColumn, Column: "role"},
	}

	kept, suppressed := rules.Filter(findings)

	if suppressed != 2 {
		t.Errorf("suppressed = %d, want 2", suppressed)
	}
	if len(kept) != 1 || kept[0].Type != analyzer.FindingMissingFKIndex {
		t.Errorf("kept = %+v", kept)
	}
}

func TestMatchTable(t *testing.T) {
	tests := []struct {
		pattern string
		table   string
		want    bool
	}{
		{"posts", "posts", true},
		{"posts", "Posts", true},
		{"posts", "comments", false},
		{"legacy_*", "legacy_orders", true},
		{"legacy_*", "orders", false},
		{"*", "anything", true},
	}
	for _, tt := range tests {
		if got := matchTable(tt.pattern, tt.table); got != tt.want {
			t.Errorf("matchTable(%q, %q) = %v, want %v", tt.pattern, tt.table, got, tt.want)
		}
	}
}
