package github

import (
	"testing"

	"github.com/google/go-github/v57/github"
)

func TestIsDocPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"README.md", true},
		{"docs/guide.rst", true},
		{"internal/docs/api.html", true},
		{"notes.TXT", true},
		{"manual.adoc", true},
		{"LICENSE", true},
		{"vendor/pkg/NOTICE", true},
		{"CHANGELOG", true},
		{"main.go", false},
		{"internal/server/handler.go", false},
		{"docserver/main.go", false},
		{"license.go", false},
		{"Makefile", false},
	}

	for _, tt := range tests {
		if got := isDocPath(tt.path); got != tt.want {
			t.Errorf("isDocPath(%q) = %v, expected %v", tt.path, got, tt.want)
		}
	}
}

func TestDocOnly(t *testing.T) {
	file := func(name string) *github.CommitFile {
		return &github.CommitFile{Filename: github.String(name)}
	}

	if docOnly(nil) {
		t.Error("a commit with no file list must not count as doc-only")
	}
	if !docOnly([]*github.CommitFile{file("README.md"), file("docs/setup.md")}) {
		t.Error("all-doc commit not recognized")
	}
	if docOnly([]*github.CommitFile{file("README.md"), file("main.go")}) {
		t.Error("mixed commit wrongly counted as doc-only")
	}
}
