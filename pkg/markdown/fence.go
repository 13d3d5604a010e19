// Package markdown finds JavaScript-family fenced code blocks in Markdown
// documents and maps offsets inside them back to the document.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/conlog/pkg/langdetect"
)

// Segment is one content line of a fence as a byte range of the document.
// Container prefixes such as "> " or list indentation are outside it.
type Segment struct {
	Start int
	Stop  int
}

// Fence is a fenced code block holding script code.
type Fence struct {
	// Info is the raw info string after the opening fence.
	Info string

	// Language is the detected dialect.
	Language langdetect.Language

	// Line is the 1-based document line of the first content line.
	Line int

	Segments []Segment
}

// Text returns the fence content with container prefixes removed.
func (f Fence) Text(src []byte) []byte {
	var buf bytes.Buffer
	for _, seg := range f.Segments {
		buf.Write(src[seg.Start:seg.Stop])
	}
	return buf.Bytes()
}

// Len returns the length of Text.
func (f Fence) Len() int {
	total := 0
	for _, seg := range f.Segments {
		total += seg.Stop - seg.Start
	}
	return total
}

// DocumentOffset maps an offset in Text to an offset in the document.
// An offset at a line boundary maps to the start of the next segment, so a
// deleted range swallows the next line's container prefix and keeps the
// current one.
func (f Fence) DocumentOffset(offset int) int {
	if len(f.Segments) == 0 {
		return 0
	}
	cum := 0
	for _, seg := range f.Segments {
		length := seg.Stop - seg.Start
		if offset < cum+length {
			return seg.Start + max(0, offset-cum)
		}
		cum += length
	}
	return f.Segments[len(f.Segments)-1].Stop
}

// Parser extracts script fences from Markdown.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a Parser that understands GitHub Flavored Markdown.
func NewParser() *Parser {
	return &Parser{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// Fences returns the script fences in src, in document order.
func (p *Parser) Fences(ctx context.Context, src []byte) ([]Fence, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	doc := p.md.Parser().Parse(text.NewReader(src), parser.WithContext(parser.NewContext()))

	var fences []Fence
	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		fence := Fence{}
		if block.Info != nil {
			fence.Info = string(block.Info.Value(src))
		}

		lines := block.Lines()
		for idx := range lines.Len() {
			seg := lines.At(idx)
			fence.Segments = append(fence.Segments, Segment{Start: seg.Start, Stop: seg.Stop})
		}

		fence.Language = langdetect.ForFence(fence.Info, fence.Text(src))
		if !fence.Language.IsScript() || len(fence.Segments) == 0 {
			return ast.WalkSkipChildren, nil
		}

		fence.Line = bytes.Count(src[:fence.Segments[0].Start], []byte("\n")) + 1
		fences = append(fences, fence)
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}

	sort.SliceStable(fences, func(i, j int) bool {
		return fences[i].Segments[0].Start < fences[j].Segments[0].Start
	})

	return fences, nil
}
