// Package markdown analyses README documents for the RampUp metric.
//
// [Analyze] parses a document with goldmark (GitHub flavoured) and reports
// its headings, fenced code blocks, links and a set of markdown lint issues.
package markdown

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
)

// Heading is a section heading.
type Heading struct {
	Level int
	Text  string
	Line  int // 1-based
}

// Analysis summarises a markdown document.
type Analysis struct {
	Headings   []Heading
	CodeBlocks int // fenced code blocks
	Links      int // inline, reference and auto links
	Issues     []Issue
}

var parser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

// Analyze parses src and collects its structure and lint issues.
func Analyze(src []byte) Analysis {
	doc := parser.Parse(text.NewReader(src))
	lines := newLineIndex(src)

	var a Analysis
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			a.Headings = append(a.Headings, Heading{
				Level: node.Level,
				Text:  strings.TrimSpace(nodeText(node, src)),
				Line:  lines.lineOf(node),
			})
		case *ast.FencedCodeBlock:
			a.CodeBlocks++
		case *ast.Link, *ast.AutoLink:
			a.Links++
		}
		return ast.WalkContinue, nil
	})

	a.Issues = lint(src, doc, lines)
	return a
}

// HasSection reports whether a heading starts with name, ignoring case.
func (a Analysis) HasSection(name string) bool {
	want := fold(strings.TrimSpace(name))
	for _, h := range a.Headings {
		if strings.HasPrefix(fold(h.Text), want) {
			return true
		}
	}
	return false
}

// ContainsFold reports whether substr occurs in s under Unicode case folding.
func ContainsFold(s, substr string) bool {
	return strings.Contains(fold(s), fold(substr))
}

func fold(s string) string {
	// Casers carry state, so one is created per call.
	return cases.Fold().String(s)
}

// nodeText concatenates the literal text below n.
func nodeText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.AutoLink:
			sb.Write(t.URL(src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex []int

func newLineIndex(src []byte) lineIndex {
	idx := lineIndex{0}
	for i, b := range src {
		if b == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

func (idx lineIndex) line(offset int) int {
	lo, hi := 0, len(idx)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if idx[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}

func (idx lineIndex) lineOf(n ast.Node) int {
	if l := n.Lines(); l != nil && l.Len() > 0 {
		return idx.line(l.At(0).Start)
	}
	return 0
}

// ContainsTermFold reports whether term occurs in s as a whole term: case is
// folded and the match must not be embedded in a longer word, so "MIT" does
// not match "submit".
func ContainsTermFold(s, term string) bool {
	hay, needle := fold(s), fold(strings.TrimSpace(term))
	if needle == "" {
		return false
	}
	for off := 0; ; {
		i := strings.Index(hay[off:], needle)
		if i < 0 {
			return false
		}
		start := off + i
		end := start + len(needle)
		before, _ := utf8.DecodeLastRuneInString(hay[:start])
		after, _ := utf8.DecodeRuneInString(hay[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		_, size := utf8.DecodeRuneInString(hay[start:])
		off = start + size
	}
}

// isWordRune reports whether r continues a word. utf8.RuneError, returned at
// either end of the string, does not.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
