package markdown

import (
	"strings"
	"testing"
)

const goodReadme = "# Project\n" +
	"\n" +
	"A library. See [docs](https://example.com/docs).\n" +
	"\n" +
	"## Installation\n" +
	"\n" +
	"```sh\n" +
	"npm install project\n" +
	"```\n" +
	"\n" +
	"## Usage\n" +
	"\n" +
	"```js\n" +
	"const p = require('project')\n" +
	"```\n"

func TestAnalyzeStructure(t *testing.T) {
	a := Analyze([]byte(goodReadme))

	if len(a.Headings) != 3 {
		t.Fatalf("got %d headings, want 3: %+v", len(a.Headings), a.Headings)
	}
	if a.Headings[1].Text != "Installation" || a.Headings[1].Level != 2 || a.Headings[1].Line != 5 {
		t.Errorf("unexpected heading %+v", a.Headings[1])
	}
	if a.CodeBlocks != 2 {
		t.Errorf("CodeBlocks = %d, want 2", a.CodeBlocks)
	}
	if a.Links != 1 {
		t.Errorf("Links = %d, want 1", a.Links)
	}
	if len(a.Issues) != 0 {
		t.Errorf("clean README reported issues: %v", a.Issues)
	}
}

func TestHasSection(t *testing.T) {
	a := Analyze([]byte("# Title\n\n## INSTALLATION\n\n### Getting started quickly\n\nUsage is described below.\n"))

	tests := []struct {
		section string
		want    bool
	}{
		{"Installation", true},
		{"Getting Started", true},
		{"Usage", false}, // body text only, not a heading
		{"License", false},
	}
	for _, tt := range tests {
		if got := a.HasSection(tt.section); got != tt.want {
			t.Errorf("HasSection(%q) = %v, want %v", tt.section, got, tt.want)
		}
	}
}

func TestHeadingTextWithInlineMarkup(t *testing.T) {
	a := Analyze([]byte("# Title\n\n## `pkg` *Usage*\n"))
	if got := a.Headings[1].Text; got != "pkg Usage" {
		t.Errorf("heading text = %q", got)
	}
}

func TestLinksCounted(t *testing.T) {
	src := "# T\n\n[a](http://a) [b][ref] <https://c.example> https://d.example\n\n[ref]: http://b\n"
	if got := Analyze([]byte(src)).Links; got != 4 {
		t.Errorf("Links = %d, want 4", got)
	}
}

func TestLintRules(t *testing.T) {
	tests := []struct {
		name string
		src  string
		rule string
	}{
		{"heading increment", "# A\n\n### C\n", "MD001"},
		{"trailing spaces", "# A\n\ntext \n", "MD009"},
		{"hard tab", "# A\n\n\ttext\n\nmore\tx\n", "MD010"},
		{"multiple blanks", "# A\n\n\n\ntext\n", "MD012"},
		{"multiple h1", "# A\n\n# B\n", "MD025"},
		{"code language", "# A\n\n```\ncode\n```\n", "MD040"},
		{"first heading", "Intro\n\n# A\n", "MD041"},
		{"no final newline", "# A\n\ntext", "MD047"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Lint([]byte(tt.src))
			found := false
			for _, i := range issues {
				if i.Rule == tt.rule {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %s, got %v", tt.rule, issues)
			}
		})
	}
}

func TestLintIgnoresCode(t *testing.T) {
	src := "# A\n\n```go\nfunc f() {\n\treturn  \n}\n\n\n```\n"
	if issues := Lint([]byte(src)); len(issues) != 0 {
		t.Errorf("code block content should not be linted: %v", issues)
	}
}

func TestHardBreakIsNotTrailingWhitespace(t *testing.T) {
	if issues := Lint([]byte("# A\n\nline one  \nline two\n")); len(issues) != 0 {
		t.Errorf("two-space hard break flagged: %v", issues)
	}
}

func TestContainsFold(t *testing.T) {
	if !ContainsFold("Released under the mit license.", "MIT License") {
		t.Error("ContainsFold should ignore case")
	}
	if ContainsFold("Proprietary", "MIT") {
		t.Error("unexpected match")
	}
}

func TestIssueString(t *testing.T) {
	s := Issue{Rule: "MD009", Line: 3, Message: "trailing whitespace"}.String()
	if !strings.Contains(s, "MD009") || !strings.HasPrefix(s, "3:") {
		t.Errorf("String() = %q", s)
	}
}

func TestContainsTermFold(t *testing.T) {
	tests := []struct {
		s, term string
		want    bool
	}{
		{"Licensed under MIT.", "MIT", true},
		{"Please submit a PR", "MIT", false},
		{"(mit)", "MIT", true},
		{"Apache License, Version 2.0", "Apache License", true},
		{"See LICENSE-MIT", "MIT", true},
		{"MIT", "", false},
		{"Licensed under MIT—see LICENSE", "MIT", true},
		{"Lizenz: «MIT»", "MIT", true},
		{"“MIT” license", "MIT", true},
		{"MüMIT", "MIT", false},
		{"MITé", "MIT", false},
		{"été MIT", "MIT", true},
	}
	for _, tt := range tests {
		if got := ContainsTermFold(tt.s, tt.term); got != tt.want {
			t.Errorf("ContainsTermFold(%q, %q) = %v, want %v", tt.s, tt.term, got, tt.want)
		}
	}
}
