package markdown

import (
	"math"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// WordsPerMinute is the reading speed used for reading time estimates
const WordsPerMinute = 200

// Heading is a section heading found in the body
type Heading struct {
	Level int
	Text  string
	Line  int
}

// CodeBlock is a fenced code sample embedded in the body
type CodeBlock struct {
	Language string // "" when the fence has no info string
	Lines    int
	Line     int // line of the opening fence, relative to the body
}

// Analysis summarizes the Markdown body of a post
type Analysis struct {
	Words      int
	Headings   []Heading
	CodeBlocks []CodeBlock
	Links      []string
}

// ReadingMinutes returns the estimated reading time, rounded up
func (a Analysis) ReadingMinutes() int {
	if a.Words == 0 {
		return 0
	}
	return int(math.Ceil(float64(a.Words) / WordsPerMinute))
}

// Languages returns the distinct code block languages in order of appearance
func (a Analysis) Languages() []string {
	seen := map[string]bool{}
	var langs []string
	for _, block := range a.CodeBlocks {
		if block.Language == "" || seen[block.Language] {
			continue
		}
		seen[block.Language] = true
		langs = append(langs, block.Language)
	}
	return langs
}

// UnlabeledCodeBlocks returns fenced blocks that carry no language
func (a Analysis) UnlabeledCodeBlocks() []CodeBlock {
	var out []CodeBlock
	for _, block := range a.CodeBlocks {
		if block.Language == "" {
			out = append(out, block)
		}
	}
	return out
}

// newParser builds the goldmark parser. Nothing is ever rendered to HTML;
// the AST is only walked.
func newParser() parser.Parser {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	return md.Parser()
}

// Analyze parses a Markdown body and collects its structure.
// Words inside code blocks are not counted.
func Analyze(body []byte) Analysis {
	var analysis Analysis

	doc := newParser().Parse(text.NewReader(body))
	lineOf := lineIndex(body)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			analysis.Headings = append(analysis.Headings, Heading{
				Level: node.Level,
				Text:  strings.TrimSpace(string(node.Text(body))),
				Line:  lineOf(firstOffset(node)),
			})

		case *ast.FencedCodeBlock:
			block := CodeBlock{
				Language: strings.ToLower(string(node.Language(body))),
				Lines:    node.Lines().Len(),
			}
			if node.Info != nil {
				block.Line = lineOf(node.Info.Segment.Start)
			} else if node.Lines().Len() > 0 {
				block.Line = lineOf(node.Lines().At(0).Start) - 1
			}
			analysis.CodeBlocks = append(analysis.CodeBlocks, block)
			return ast.WalkSkipChildren, nil

		case *ast.CodeBlock:
			analysis.CodeBlocks = append(analysis.CodeBlocks, CodeBlock{
				Lines: node.Lines().Len(),
				Line:  lineOf(firstOffset(node)),
			})
			return ast.WalkSkipChildren, nil

		case *ast.Link:
			analysis.Links = append(analysis.Links, string(node.Destination))

		case *ast.AutoLink:
			analysis.Links = append(analysis.Links, string(node.URL(body)))

		case *ast.Text:
			analysis.Words += len(strings.Fields(string(node.Segment.Value(body))))
		}

		return ast.WalkContinue, nil
	})

	return analysis
}

// firstOffset finds the first source offset covered by a block node
func firstOffset(n ast.Node) int {
	if lines := n.Lines(); lines != nil && lines.Len() > 0 {
		return lines.At(0).Start
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			return t.Segment.Start
		}
	}
	return -1
}

// lineIndex returns a function mapping a byte offset to its 1-based line
func lineIndex(src []byte) func(offset int) int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return func(offset int) int {
		if offset < 0 {
			return 0
		}
		lo, hi := 0, len(starts)-1
		for lo < hi {
			mid := (lo + hi + 1) / 2
			if starts[mid] <= offset {
				lo = mid
			} else {
				hi = mid - 1
			}
		}
		return lo + 1
	}
}
