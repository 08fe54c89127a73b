package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series is a named line on a plot.
type Series struct {
	Name   string
	Values []float64
}

// PlotOptions sizes a plot. Zero values pick defaults from the terminal.
type PlotOptions struct {
	Width  int
	Height int
	Color  bool
}

const (
	defaultPlotHeight = 10
	minPlotWidth      = 10
	fallbackWidth     = 80
	axisTop           = "max"
	axisBottom        = "min"
	axisRule          = " │ "
	colorReset        = "\x1b[0m"
	brailleBase       = 0x2800
)

type dash struct {
	name   string
	period int
	on     int
}

var dashes = []dash{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

var palette = []string{
	"\x1b[36m",
	"\x1b[35m",
	"\x1b[33m",
	"\x1b[32m",
}

// braille dot bits indexed by [row][col] within a 2x4 cell.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func (d dash) draws(x int) bool {
	if d.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%d.period < d.on
}

// canvas is a grid of braille cells, two dots wide and four dots tall each.
type canvas struct {
	cols, rows int
	cells      [][]uint8
}

func newCanvas(cols, rows int) *canvas {
	cells := make([][]uint8, rows)
	for i := range cells {
		cells[i] = make([]uint8, cols)
	}
	return &canvas{cols: cols, rows: rows, cells: cells}
}

func (c *canvas) dot(x, y int) {
	cx, cy := x/2, y/4
	if x < 0 || y < 0 || cx >= c.cols || cy >= c.rows {
		return
	}
	c.cells[cy][cx] |= dotBits[y%4][x%2]
}

// line draws with Bresenham, skipping dots the dash pattern leaves blank.
func (c *canvas) line(x0, y0, x1, y1 int, d dash) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		if d.draws(x0) {
			c.dot(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Plot draws each series scaled to its own range on a shared braille grid.
func Plot(w io.Writer, title string, series []Series, opts PlotOptions) error {
	lines := nonEmpty(series)
	if len(lines) == 0 {
		return nil
	}
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	color := opts.Color && os.Getenv("NO_COLOR") == ""

	layers := make([]*canvas, len(lines))
	bounds := make([][2]float64, len(lines))
	for i, s := range lines {
		values := resample(s.Values, width)
		lo, hi := span(values)
		bounds[i] = [2]float64{lo, hi}
		layers[i] = newCanvas(width, height)
		d := dashes[i%len(dashes)]
		dotRows := height * 4
		px, py := -1, -1
		for x, v := range values {
			y := int(math.Round((hi - v) / (hi - lo) * float64(dotRows-1)))
			y = clamp(y, 0, dotRows-1)
			if px < 0 {
				if d.draws(0) {
					layers[i].dot(0, y)
				}
			} else {
				layers[i].line(px, py, x*2, y, d)
			}
			px, py = x*2, y
		}
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteByte('\n')
	}
	for i, s := range lines {
		fmt.Fprintf(&b, "%s: min=%.2f max=%.2f\n", s.Name, bounds[i][0], bounds[i][1])
	}
	gutter := runewidth.StringWidth(axisTop)
	for row := 0; row < height; row++ {
		label := ""
		switch row {
		case 0:
			label = axisTop
		case height - 1:
			label = axisBottom
		}
		b.WriteString(runewidth.FillLeft(label, gutter))
		b.WriteString(axisRule)
		for col := 0; col < width; col++ {
			var mask uint8
			owner := -1
			for li, layer := range layers {
				if m := layer.cells[row][col]; m != 0 {
					mask |= m
					if owner < 0 {
						owner = li
					}
				}
			}
			ch := rune(brailleBase + int(mask))
			if color && owner >= 0 {
				b.WriteString(palette[owner%len(palette)])
				b.WriteRune(ch)
				b.WriteString(colorReset)
				continue
			}
			b.WriteRune(ch)
		}
		b.WriteByte('\n')
	}
	b.WriteString(legend(lines, color))
	b.WriteString("\n\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func legend(series []Series, color bool) string {
	parts := make([]string, len(series))
	for i, s := range series {
		item := fmt.Sprintf("%c %s (%s)", rune(brailleBase+int(dotBits[0][0])), s.Name, dashes[i%len(dashes)].name)
		if color {
			item = palette[i%len(palette)] + item + colorReset
		}
		parts[i] = item
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// PlotWidthFor returns the number of plot columns that fit in totalWidth
// terminal columns after the axis gutter.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	cols := totalWidth - runewidth.StringWidth(axisTop) - runewidth.StringWidth(axisRule)
	if cols < minPlotWidth {
		return minPlotWidth
	}
	return cols
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

func nonEmpty(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// resample stretches or averages values down to n points.
func resample(values []float64, n int) []float64 {
	out := make([]float64, n)
	switch {
	case len(values) == n:
		copy(out, values)
	case len(values) == 1 || n == 1:
		for i := range out {
			out[i] = values[0]
		}
	case len(values) > n:
		for i := range out {
			lo := i * len(values) / n
			hi := (i + 1) * len(values) / n
			if hi <= lo {
				hi = lo + 1
			}
			var sum float64
			for _, v := range values[lo:hi] {
				sum += v
			}
			out[i] = sum / float64(hi-lo)
		}
	default:
		last := len(values) - 1
		for i := range out {
			pos := float64(i) * float64(last) / float64(n-1)
			idx := int(pos)
			if idx >= last {
				out[i] = values[last]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx] + (values[idx+1]-values[idx])*frac
		}
	}
	return out
}

// span returns the value range, widened when flat so the line sits mid-plot.
func span(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		lo--
		hi++
	}
	return lo, hi
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
