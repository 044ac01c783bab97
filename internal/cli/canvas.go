package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/topolayout/pkg/topology"
)

// canvas rasterises a layout onto a character grid. Cells keep the last
// glyph drawn, so nodes are drawn after links.
type canvas struct {
	cols, rows int
	glyphs     [][]rune
	styles     [][]lipgloss.Style
}

func newCanvas(cols, rows int) *canvas {
	cols, rows = max(cols, 2), max(rows, 2)
	c := &canvas{cols: cols, rows: rows}
	c.glyphs = make([][]rune, rows)
	c.styles = make([][]lipgloss.Style, rows)
	for r := range rows {
		c.glyphs[r] = []rune(strings.Repeat(" ", cols))
		c.styles[r] = make([]lipgloss.Style, cols)
	}
	return c
}

// project maps view box coordinates to a cell.
func (c *canvas) project(x, y, width, height float64) (int, int) {
	col := int(math.Round(x / width * float64(c.cols-1)))
	row := int(math.Round(y / height * float64(c.rows-1)))
	return min(max(col, 0), c.cols-1), min(max(row, 0), c.rows-1)
}

func (c *canvas) set(col, row int, r rune, style lipgloss.Style) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	c.glyphs[row][col] = r
	c.styles[row][col] = style
}

// line draws between two cells, leaving both ends untouched.
func (c *canvas) line(c0, r0, c1, r1 int, r rune, style lipgloss.Style) {
	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := sign(c1-c0), sign(r1-r0)
	e := dc + dr
	col, row := c0, r0
	for {
		e2 := 2 * e
		if e2 >= dr {
			e += dr
			col += sc
		}
		if e2 <= dc {
			e += dc
			row += sr
		}
		if col == c1 && row == r1 {
			return
		}
		c.set(col, row, r, style)
	}
}

// String renders the grid, styling runs of equally styled cells together.
func (c *canvas) String() string {
	var b strings.Builder
	for r := range c.rows {
		start := 0
		for col := 1; col <= c.cols; col++ {
			if col < c.cols && sameStyle(c.styles[r][col], c.styles[r][start]) {
				continue
			}
			b.WriteString(c.styles[r][start].Render(string(c.glyphs[r][start:col])))
			start = col
		}
		if r < c.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sameStyle(a, b lipgloss.Style) bool {
	return a.GetForeground() == b.GetForeground() && a.GetBold() == b.GetBold() && a.GetReverse() == b.GetReverse()
}

// nodeGlyph picks the character for a node.
func nodeGlyph(n *topology.Node) rune {
	switch {
	case n.IsNetworkDevice:
		return '◆'
	case n.Kind.Class == topology.KindRouter:
		return '■'
	case n.Kind.Class == topology.KindHost:
		return '●'
	default:
		return '○'
	}
}

var (
	styleLinkHot   = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	styleNodeMark  = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	styleNodeMoved = styleNodeMark.Reverse(true)
)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
