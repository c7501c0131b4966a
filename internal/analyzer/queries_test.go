package analyzer

import "testing"

func TestWhereClauses_KeywordStyle(t *testing.T) {
	content := `class Post < ApplicationRecord
  scope :published, -> { where(published: true) }
end`

	findings := WhereClauses("app/models/post.rb", content)

	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	f := findings[0]
	if f.Type != FindingWhereColumn || f.Severity != SeverityInfo {
		t.Errorf("type/severity = %s/%s", f.Type, f.Severity)
	}
	if f.Column != "published" {
		t.Errorf("column = %q, want published", f.Column)
	}
	if f.File != "app/models/post.rb" {
		t.Errorf("file = %q", f.File)
	}
}

func TestWhereClauses_RawConditionStyle(t *testing.T) {
	content := `users = User.where("status = ?", params[:status])`

	findings := WhereClauses("app/models/user.rb", content)

	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	if findings[0].Column != "status" {
		t.Errorf("column = %q, want status", findings[0].Column)
	}
}

func TestWhereClauses_DedupWithinFile(t *testing.T) {
	content := `
  User.where(status: 'active')
  User.where(status: 'pending')
  User.where(status: 'banned')
`
	findings := WhereClauses("app/models/user.rb", content)

	if len(findings) != 1 {
		t.Errorf("got %d findings, want 1 (deduplicated per column)", len(findings))
	}
}

func TestWhereClauses_MultipleColumns(t *testing.T) {
	content := `
  User.where(status: 'active')
  User.where(role: 'admin')
`
	findings := WhereClauses("app/models/user.rb", content)

	if len(findings) != 2 {
		t.Fatalf("got %d findings, want 2", len(findings))
	}
}

func TestWhereClauses_NoMatches(t *testing.T) {
	findings := WhereClauses("app/models/user.rb", `class User < ApplicationRecord; end`)

	if len(findings) != 0 {
		t.Errorf("got %d findings, want 0", len(findings))
	}
}

func TestFileStem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"app/models/user.rb", "user"},
		{"user.rb", "user"},
		{"app/controllers/admin/users_controller.rb", "users_controller"},
	}
	for _, tt := range tests {
		if got := FileStem(tt.path); got != tt.want {
			t.Errorf("FileStem(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
