package analyzer

import (
	"strings"
	"testing"

	"railspect/internal/schema"
)

func TestDetectMissingFKIndexes(t *testing.T) {
	m := schema.Parse(`
  create_table "posts" do |t|
    t.integer "user_id"
    t.string "title"
  end
`)
	findings := detectMissingFKIndexes(m)

	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	f := findings[0]
	if f.Type != FindingMissingFKIndex {
		t.Errorf("type = %s", f.Type)
	}
	if f.Severity != SeverityWarning {
		t.Errorf("severity = %s, want warning", f.Severity)
	}
	if f.Table != "posts" || f.Column != "user_id" {
		t.Errorf("location = %s.%s, want posts.user_id", f.Table, f.Column)
	}
	if f.Suggestion != "add_index :posts, :user_id" {
		t.Errorf("suggestion = %q", f.Suggestion)
	}
	if !strings.Contains(f.Suggestion, "posts") || !strings.Contains(f.Suggestion, "user_id") {
		t.Errorf("suggestion must name table and column verbatim: %q", f.Suggestion)
	}
}

func TestDetectMissingFKIndexes_IndexedFK(t *testing.T) {
	m := schema.Parse(`
  create_table "posts" do |t|
    t.integer "user_id"
  end
  add_index "posts", "user_id"
`)
	findings := detectMissingFKIndexes(m)

	if len(findings) != 0 {
		t.Errorf("got %d findings, want 0 for indexed foreign key", len(findings))
	}
}

func TestDetectBooleanColumns(t *testing.T) {
	tests := []struct {
		name   string
		column string
		want   int
	}{
		{"is_ prefix", "is_active", 1},
		{"has_ prefix", "has_avatar", 1},
		{"conventional name active", "active", 1},
		{"conventional name enabled", "enabled", 1},
		{"conventional name published", "published", 1},
		{"conventional name deleted", "deleted", 1},
		{"plain column", "title", 0},
		{"suffix does not count", "was_active", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := schema.Parse(`
  create_table "users" do |t|
    t.boolean "` + tt.column + `"
  end
`)
			findings := detectBooleanColumns(m)
			if len(findings) != tt.want {
				t.Fatalf("got %d findings, want %d", len(findings), tt.want)
			}
			if tt.want == 1 {
				f := findings[0]
				if f.Type != FindingBooleanIndex || f.Severity != SeverityInfo {
					t.Errorf("type/severity = %s/%s", f.Type, f.Severity)
				}
				wantSuggestion := `add_index :users, :` + tt.column + `, where: "` + tt.column + ` = true"`
				if f.Suggestion != wantSuggestion {
					t.Errorf("suggestion = %q, want %q", f.Suggestion, wantSuggestion)
				}
			}
		})
	}
}

func TestDetectBooleanColumns_AlreadyIndexed(t *testing.T) {
	m := schema.Parse(`
  create_table "users" do |t|
    t.boolean "is_active"
  end
  add_index "users", "is_active"
`)
	findings := detectBooleanColumns(m)

	if len(findings) != 0 {
		t.Errorf("got %d findings, want 0 for indexed boolean", len(findings))
	}
}

func TestAnalyzeSchema_EmptyModel(t *testing.T) {
	findings := AnalyzeSchema(schema.Parse(""))

	if len(findings) != 0 {
		t.Errorf("empty schema should yield no findings, got %d", len(findings))
	}
}

func TestAnalyzeSchema_EndToEnd(t *testing.T) {
	m := schema.Parse(`create_table "posts" do |t| t.integer "user_id" end`)

	findings := AnalyzeSchema(m)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	f := findings[0]
	if f.Type != FindingMissingFKIndex || f.Table != "posts" || f.Column != "user_id" {
		t.Errorf("finding = %+v", f)
	}
	if f.Suggestion != "add_index :posts, :user_id" {
		t.Errorf("suggestion = %q", f.Suggestion)
	}
}
