// Package latex converts markdown reports, such as the specification
// index, into LaTeX fragments suitable for inclusion in papers.
package latex

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Options controls the conversion.
type Options struct {
	// MinHeadingLevel shifts markdown heading levels down so that a
	// document's top-level heading maps to this sectioning depth
	// (1 = \section). Zero means 1.
	MinHeadingLevel int
}

// sectioning commands by depth, 1-based.
var sectionCommands = []string{
	"\\section",
	"\\subsection",
	"\\subsubsection",
	"\\paragraph",
	"\\subparagraph",
}

var latexEscaper = strings.NewReplacer(
	"\\", "\\textbackslash{}",
	"{", "\\{",
	"}", "\\}",
	"$", "\\$",
	"&", "\\&",
	"#", "\\#",
	"_", "\\_",
	"%", "\\%",
	"~", "\\textasciitilde{}",
	"^", "\\textasciicircum{}",
)

// Escape quotes LaTeX special characters in s.
func Escape(s string) string {
	return latexEscaper.Replace(s)
}

// Convert renders markdown source as a LaTeX fragment.
func Convert(source []byte, opts Options) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	doc := md.Parser().Parse(text.NewReader(source))

	c := &converter{source: source, minLevel: opts.MinHeadingLevel}
	if c.minLevel < 1 {
		c.minLevel = 1
	}

	c.blocks(doc)

	return strings.TrimRight(c.out.String(), "\n") + "\n", nil
}

type converter struct {
	out      strings.Builder
	source   []byte
	minLevel int
}

// minHeadingIn finds the smallest heading level used in the document,
// so the whole hierarchy can shift as one.
func minHeadingIn(doc ast.Node) int {
	min := 0

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			if min == 0 || h.Level < min {
				min = h.Level
			}
		}

		return ast.WalkContinue, nil
	})

	return min
}

func (c *converter) blocks(parent ast.Node) {
	base := minHeadingIn(parent)

	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		c.block(n, base)
	}
}

func (c *converter) block(n ast.Node, baseHeading int) {
	switch node := n.(type) {
	case *ast.Heading:
		c.heading(node, baseHeading)
	case *ast.Paragraph, *ast.TextBlock:
		c.inline(n)
		c.out.WriteString("\n\n")
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		c.verbatim(n)
	case *ast.List:
		c.list(node, baseHeading)
	case *ast.Blockquote:
		c.out.WriteString("\\begin{quote}\n")

		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			c.block(child, baseHeading)
		}

		c.out.WriteString("\\end{quote}\n\n")
	case *ast.ThematicBreak:
		c.out.WriteString("\\medskip\\hrule\\medskip\n\n")
	case *extast.Table:
		c.table(node)
	default:
		// Unhandled block kinds degrade to their inline text.
		c.inline(n)
		c.out.WriteString("\n\n")
	}
}

func (c *converter) heading(h *ast.Heading, base int) {
	depth := h.Level - base + c.minLevel
	if depth < 1 {
		depth = 1
	}

	if depth > len(sectionCommands) {
		depth = len(sectionCommands)
	}

	c.out.WriteString(sectionCommands[depth-1])
	c.out.WriteString("{")
	c.inline(h)
	c.out.WriteString("}\n\n")
}

func (c *converter) verbatim(n ast.Node) {
	c.out.WriteString("\\begin{verbatim}\n")

	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		c.out.Write(segment.Value(c.source))
	}

	c.out.WriteString("\\end{verbatim}\n\n")
}

func (c *converter) list(l *ast.List, baseHeading int) {
	env := "itemize"
	if l.IsOrdered() {
		env = "enumerate"
	}

	fmt.Fprintf(&c.out, "\\begin{%s}\n", env)

	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		c.out.WriteString("  \\item ")

		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if _, isList := child.(*ast.List); isList {
				c.out.WriteString("\n")
				c.list(child.(*ast.List), baseHeading)
			} else {
				c.inline(child)
			}
		}

		c.out.WriteString("\n")
	}

	fmt.Fprintf(&c.out, "\\end{%s}\n\n", env)
}

func (c *converter) table(tbl *extast.Table) {
	columns := 0
	if header := tbl.FirstChild(); header != nil {
		for cell := header.FirstChild(); cell != nil; cell = cell.NextSibling() {
			columns++
		}
	}

	fmt.Fprintf(&c.out, "\\begin{tabular}{%s}\n", strings.Repeat("l", columns))

	for row := tbl.FirstChild(); row != nil; row = row.NextSibling() {
		first := true

		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			if !first {
				c.out.WriteString(" & ")
			}

			first = false

			c.inline(cell)
		}

		c.out.WriteString(" \\\\\n")

		if _, isHeader := row.(*extast.TableHeader); isHeader {
			c.out.WriteString("\\hline\n")
		}
	}

	c.out.WriteString("\\end{tabular}\n\n")
}

// inline renders the inline children of a block node.
func (c *converter) inline(n ast.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		c.inlineNode(child)
	}
}

func (c *converter) inlineNode(n ast.Node) {
	switch node := n.(type) {
	case *ast.Text:
		c.out.WriteString(Escape(string(node.Segment.Value(c.source))))

		if node.SoftLineBreak() {
			c.out.WriteString("\n")
		}

		if node.HardLineBreak() {
			c.out.WriteString("\\\\\n")
		}
	case *ast.Emphasis:
		command := "\\emph{"
		if node.Level >= 2 {
			command = "\\textbf{"
		}

		c.out.WriteString(command)
		c.inline(n)
		c.out.WriteString("}")
	case *ast.CodeSpan:
		c.out.WriteString("\\texttt{")
		c.inline(n)
		c.out.WriteString("}")
	case *ast.Link:
		fmt.Fprintf(&c.out, "\\href{%s}{", string(node.Destination))
		c.inline(n)
		c.out.WriteString("}")
	case *ast.AutoLink:
		url := string(node.URL(c.source))
		fmt.Fprintf(&c.out, "\\url{%s}", url)
	case *ast.RawHTML:
		// Raw HTML has no LaTeX rendering.
	default:
		c.inline(n)
	}
}
