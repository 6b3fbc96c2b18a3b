package pdf

import (
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

const (
	pageMargin = 15.0
	indentStep = 6.0
)

var headingSizes = map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}

type listState struct {
	ordered bool
	next    int
}

// renderer walks a goldmark AST and writes it onto an fpdf document
type renderer struct {
	doc       *fpdf.Fpdf
	source    []byte
	translate func(string) string

	size   float64
	bold   bool
	italic bool
	mono   bool

	quoteDepth int
	lists      []listState
}

func newRenderer(doc *fpdf.Fpdf, source []byte) *renderer {
	return &renderer{
		doc:       doc,
		source:    source,
		translate: doc.UnicodeTranslatorFromDescriptor(""),
		size:      baseFontSize,
	}
}

func (r *renderer) render(root ast.Node) error {
	return ast.Walk(root, r.walk)
}

func (r *renderer) lineHeight() float64 {
	return r.size * 0.5
}

func (r *renderer) applyFont() {
	family := baseFont
	if r.mono {
		family = "Courier"
	}
	style := ""
	if r.bold {
		style += "B"
	}
	if r.italic {
		style += "I"
	}
	r.doc.SetFont(family, style, r.size)
}

func (r *renderer) applyIndent() {
	left := pageMargin + indentStep*float64(r.quoteDepth+len(r.lists))
	r.doc.SetLeftMargin(left)
	if r.doc.GetX() < left {
		r.doc.SetX(left)
	}
}

func (r *renderer) write(s string) {
	if s == "" {
		return
	}
	r.doc.Write(r.lineHeight(), r.translate(s))
}

func (r *renderer) newline(extra float64) {
	r.doc.Ln(r.lineHeight() + extra)
}

func (r *renderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			r.doc.Ln(2)
			r.size = headingSizes[node.Level]
			r.bold = true
		} else {
			r.newline(1)
			r.size = baseFontSize
			r.bold = false
		}
		r.applyFont()

	case *ast.Paragraph:
		if !entering {
			r.newline(2)
		}

	case *ast.TextBlock:
		if !entering {
			r.newline(0)
		}

	case *ast.Text:
		if entering {
			r.write(string(node.Segment.Value(r.source)))
			switch {
			case node.HardLineBreak():
				r.newline(0)
			case node.SoftLineBreak():
				r.write(" ")
			}
		}

	case *ast.String:
		if entering {
			r.write(string(node.Value))
		}

	case *ast.Emphasis:
		if node.Level >= 2 {
			r.bold = entering
		} else {
			r.italic = entering
		}
		r.applyFont()

	case *ast.CodeSpan:
		if entering {
			r.mono = true
			r.applyFont()
			r.write(r.inlineText(node))
			r.mono = false
			r.applyFont()
			return ast.WalkSkipChildren, nil
		}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			r.codeBlock(n)
			return ast.WalkSkipChildren, nil
		}

	case *ast.AutoLink:
		if entering {
			r.write(string(node.URL(r.source)))
			return ast.WalkSkipChildren, nil
		}

	case *ast.Blockquote:
		if entering {
			r.quoteDepth++
			r.italic = true
			r.doc.SetTextColor(80, 80, 80)
		} else {
			r.quoteDepth--
			r.italic = r.quoteDepth > 0
			if r.quoteDepth == 0 {
				r.doc.SetTextColor(0, 0, 0)
			}
		}
		r.applyFont()
		r.applyIndent()

	case *ast.List:
		if entering {
			start := node.Start
			if start == 0 {
				start = 1
			}
			r.lists = append(r.lists, listState{ordered: node.IsOrdered(), next: start})
		} else {
			r.lists = r.lists[:len(r.lists)-1]
			r.applyIndent()
			if len(r.lists) == 0 {
				r.doc.Ln(2)
			}
		}

	case *ast.ListItem:
		if entering {
			r.applyIndent()
			state := &r.lists[len(r.lists)-1]
			marker := "- "
			if state.ordered {
				marker = strconv.Itoa(state.next) + ". "
				state.next++
			}
			r.doc.SetX(r.doc.GetX() - r.doc.GetStringWidth(marker))
			r.write(marker)
		}

	case *ast.ThematicBreak:
		if entering {
			left, _, right, _ := r.doc.GetMargins()
			width, _ := r.doc.GetPageSize()
			y := r.doc.GetY() + 2
			r.doc.SetDrawColor(180, 180, 180)
			r.doc.Line(left, y, width-right, y)
			r.doc.SetY(y + 3)
		}

	case *extast.Table:
		if entering {
			r.table(node)
			return ast.WalkSkipChildren, nil
		}
	}
	return ast.WalkContinue, nil
}

// inlineText concatenates the text segments below n
func (r *renderer) inlineText(n ast.Node) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(r.source))
		case *ast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(r.inlineText(c))
		}
	}
	return sb.String()
}

func (r *renderer) codeBlock(n ast.Node) {
	lines := n.Lines()
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(r.source))
	}

	prevSize := r.size
	r.mono = true
	r.size = 8.5
	r.applyFont()
	r.doc.SetFillColor(242, 242, 242)
	r.doc.Ln(1)
	r.doc.MultiCell(0, r.lineHeight(), r.translate(strings.TrimRight(sb.String(), "\n")), "", "L", true)
	r.doc.Ln(2)
	r.mono = false
	r.size = prevSize
	r.applyFont()
}

func (r *renderer) table(n *extast.Table) {
	var rows [][]string
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, r.translate(strings.TrimSpace(r.inlineText(cell))))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return
	}

	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	widths := r.columnWidths(rows, cols)
	lh := r.lineHeight()
	_, pageHeight := r.doc.GetPageSize()
	_, _, _, bottom := r.doc.GetMargins()

	r.doc.SetDrawColor(160, 160, 160)
	for i, row := range rows {
		r.bold = i == 0
		r.applyFont()

		lines := 1
		for c, cell := range row {
			lines = max(lines, len(r.doc.SplitText(cell, widths[c]-2)))
		}
		height := float64(lines) * lh
		if r.doc.GetY()+height > pageHeight-bottom {
			r.doc.AddPage()
		}

		x, y := r.doc.GetX(), r.doc.GetY()
		for c := 0; c < cols; c++ {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			r.doc.Rect(x, y, widths[c], height, "D")
			r.doc.SetXY(x+1, y)
			r.doc.MultiCell(widths[c]-2, lh, cell, "", "L", false)
			x += widths[c]
		}
		r.doc.SetXY(pageMargin+indentStep*float64(r.quoteDepth+len(r.lists)), y+height)
	}
	r.bold = false
	r.applyFont()
	r.doc.Ln(3)
}

// columnWidths shares the printable width in proportion to each column's
// widest cell, with a floor so short columns stay readable
func (r *renderer) columnWidths(rows [][]string, cols int) []float64 {
	left, _, right, _ := r.doc.GetMargins()
	pageWidth, _ := r.doc.GetPageSize()
	available := pageWidth - left - right

	natural := make([]float64, cols)
	total := 0.0
	for c := 0; c < cols; c++ {
		widest := 10.0
		for _, row := range rows {
			if c < len(row) {
				widest = max(widest, r.doc.GetStringWidth(row[c])+4)
			}
		}
		natural[c] = widest
		total += widest
	}
	if total <= available {
		return natural
	}

	floor := min(20.0, available/float64(cols))
	widths := make([]float64, cols)
	for c := range natural {
		widths[c] = max(floor, natural[c]/total*available)
	}
	return widths
}
