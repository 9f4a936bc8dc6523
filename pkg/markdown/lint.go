package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark/ast"
)

// Issue is a single lint finding. Rule identifiers follow markdownlint.
type Issue struct {
	Rule    string
	Line    int
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%d: %s %s", i.Line, i.Rule, i.Message)
}

// Lint returns the lint issues of src.
func Lint(src []byte) []Issue {
	return Analyze(src).Issues
}

func lint(src []byte, doc ast.Node, lines lineIndex) []Issue {
	var issues []Issue
	add := func(rule string, line int, format string, args ...any) {
		issues = append(issues, Issue{Rule: rule, Line: line, Message: fmt.Sprintf(format, args...)})
	}

	// Lines inside fenced or indented code are exempt from whitespace rules.
	code := make(map[int]bool)

	prevLevel, h1s := 0, 0
	first := true
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if n.Kind() == ast.KindDocument {
			return ast.WalkContinue, nil
		}

		if first && n.Type() == ast.TypeBlock {
			first = false
			if h, ok := n.(*ast.Heading); !ok || h.Level != 1 {
				add("MD041", lines.lineOf(n), "first line should be a top-level heading")
			}
		}

		switch node := n.(type) {
		case *ast.Heading:
			line := lines.lineOf(node)
			if prevLevel > 0 && node.Level > prevLevel+1 {
				add("MD001", line, "heading level jumps from h%d to h%d", prevLevel, node.Level)
			}
			prevLevel = node.Level
			if node.Level == 1 {
				h1s++
				if h1s > 1 {
					add("MD025", line, "multiple top-level headings")
				}
			}
		case *ast.FencedCodeBlock:
			if node.Info == nil {
				line := lines.lineOf(node)
				if line > 1 {
					line-- // opening fence
				}
				add("MD040", line, "fenced code block without a language")
			}
			markCode(code, node, lines)
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			markCode(code, node, lines)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	raw := bytes.Split(src, []byte("\n"))
	blanks := 0
	for i, l := range raw {
		num := i + 1
		l = bytes.TrimSuffix(l, []byte("\r"))
		if i == len(raw)-1 && len(l) == 0 {
			break
		}
		if code[num] {
			blanks = 0
			continue
		}

		if trimmed := bytes.TrimRight(l, " \t"); len(trimmed) < len(l) {
			trailing := l[len(trimmed):]
			// Exactly two spaces is a hard line break.
			if !(len(trimmed) > 0 && string(trailing) == "  ") {
				add("MD009", num, "trailing whitespace")
			}
		}
		if bytes.IndexByte(l, '\t') >= 0 {
			add("MD010", num, "hard tab")
		}

		if len(bytes.TrimSpace(l)) == 0 {
			blanks++
			if blanks == 2 {
				add("MD012", num, "multiple consecutive blank lines")
			}
		} else {
			blanks = 0
		}
	}

	if len(src) > 0 && (src[len(src)-1] != '\n' || bytes.HasSuffix(src, []byte("\n\n"))) {
		add("MD047", len(raw), "file should end with a single newline")
	}
	return issues
}

func markCode(code map[int]bool, n ast.Node, lines lineIndex) {
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		code[lines.line(segs.At(i).Start)] = true
	}
}
