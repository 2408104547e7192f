package ui

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/wavloop/internal/render"
)

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

const (
	dotsPerCol = 2
	dotsPerRow = 4
)

type cell struct {
	bits  uint8
	fg    color.NRGBA
	bg    color.NRGBA
	hasFg bool
	hasBg bool
}

// canvas rasterizes render batches onto a grid of braille cells. Each cell
// is 2x4 dots; one dot column is one screen-space unit.
type canvas struct {
	cols, rows int
	cells      []cell
}

func newCanvas(cols, rows int) *canvas {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &canvas{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
}

func (c *canvas) dotW() int { return c.cols * dotsPerCol }
func (c *canvas) dotH() int { return c.rows * dotsPerRow }

// toDot maps a normalized vertex to dot coordinates, y growing downward.
func (c *canvas) toDot(v render.Vec2) (int, int) {
	x := int(math.Round(v.X * float64(c.dotW()-1)))
	y := int(math.Round((1 - v.Y) * float64(c.dotH()-1)))
	return x, y
}

func (c *canvas) draw(batches []render.Batch) {
	for _, b := range batches {
		switch b.Topology {
		case render.Lines:
			for i := 0; i+1 < len(b.Vertices); i += 2 {
				x0, y0 := c.toDot(b.Vertices[i])
				x1, y1 := c.toDot(b.Vertices[i+1])
				c.line(x0, y0, x1, y1, b.Color)
			}
		case render.Quads:
			for i := 0; i+3 < len(b.Vertices); i += 4 {
				c.quad(b.Vertices[i:i+4], b.Color)
			}
		}
	}
}

func (c *canvas) plot(x, y int, col color.NRGBA) {
	if x < 0 || y < 0 || x >= c.dotW() || y >= c.dotH() {
		return
	}
	cl := &c.cells[(y/dotsPerRow)*c.cols+x/dotsPerCol]
	cl.bits |= 1 << brailleBits[x%dotsPerCol][y%dotsPerRow]
	cl.fg = col
	cl.hasFg = true
}

func (c *canvas) line(x0, y0, x1, y1 int, col color.NRGBA) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy

	for {
		c.plot(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// quad fills the background of every cell the quad's bounding box covers.
// Translucent colors are composited over black.
func (c *canvas) quad(v []render.Vec2, col color.NRGBA) {
	minX, minY := c.toDot(v[0])
	maxX, maxY := minX, minY
	for _, p := range v[1:] {
		x, y := c.toDot(p)
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	bg := flatten(col)
	for row := max(minY/dotsPerRow, 0); row <= min(maxY/dotsPerRow, c.rows-1); row++ {
		for cx := max(minX/dotsPerCol, 0); cx <= min(maxX/dotsPerCol, c.cols-1); cx++ {
			cl := &c.cells[row*c.cols+cx]
			cl.bg = bg
			cl.hasBg = true
		}
	}
}

func flatten(c color.NRGBA) color.NRGBA {
	a := uint32(c.A)
	return color.NRGBA{
		R: uint8(uint32(c.R) * a / 255),
		G: uint8(uint32(c.G) * a / 255),
		B: uint8(uint32(c.B) * a / 255),
		A: 255,
	}
}

func hex(c color.NRGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

type styleKey struct {
	fg, bg       color.NRGBA
	hasFg, hasBg bool
}

// String renders the canvas, one line per cell row. Runs of cells sharing
// colors are styled together.
func (c *canvas) String() string {
	styles := make(map[styleKey]lipgloss.Style)
	styleFor := func(k styleKey) lipgloss.Style {
		if s, ok := styles[k]; ok {
			return s
		}
		s := lipgloss.NewStyle()
		if k.hasFg {
			s = s.Foreground(hex(k.fg))
		}
		if k.hasBg {
			s = s.Background(hex(k.bg))
		}
		styles[k] = s
		return s
	}

	var out strings.Builder
	var run strings.Builder
	for row := range c.rows {
		if row > 0 {
			out.WriteByte('\n')
		}
		var cur styleKey
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur.hasFg || cur.hasBg {
				out.WriteString(styleFor(cur).Render(run.String()))
			} else {
				out.WriteString(run.String())
			}
			run.Reset()
		}
		for col := range c.cols {
			cl := c.cells[row*c.cols+col]
			k := styleKey{fg: cl.fg, bg: cl.bg, hasFg: cl.hasFg, hasBg: cl.hasBg}
			if k != cur {
				flush()
				cur = k
			}
			if cl.bits == 0 {
				run.WriteByte(' ')
			} else {
				run.WriteRune(rune(0x2800 + int(cl.bits)))
			}
		}
		flush()
	}
	return out.String()
}

// glyphs returns the canvas without styling, for tests and plain output.
func (c *canvas) glyphs() []string {
	lines := make([]string, c.rows)
	for row := range c.rows {
		var b strings.Builder
		for col := range c.cols {
			bits := c.cells[row*c.cols+col].bits
			if bits == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteRune(rune(0x2800 + int(bits)))
			}
		}
		lines[row] = b.String()
	}
	return lines
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
