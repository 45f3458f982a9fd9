package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Series is a named data series drawn against a fixed [Min, Max] domain.
// A zero domain is derived from the values.
type Series struct {
	Name   string
	Values []float64
	Min    float64
	Max    float64
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 5
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

// dash describes which dot columns of a line are drawn: x%period < on.
type dash struct {
	name   string
	period int
	on     int
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

var dashes = []dash{
	{name: "solid", period: 1, on: 1},
	{name: "dotted", period: 4, on: 1},
	{name: "dashed", period: 6, on: 3},
}

var seriesColors = []string{
	"\x1b[33m",
	"\x1b[90m",
	"\x1b[36m",
	"\x1b[35m",
}

// canvas is a grid of braille cells, each holding 2x4 dots.
type canvas struct {
	cols  int
	rows  int
	cells []uint8
}

func newCanvas(cols, rows int) *canvas {
	return &canvas{cols: cols, rows: rows, cells: make([]uint8, cols*rows)}
}

// dotBits maps a dot's position inside a cell to its braille bit.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func (c *canvas) set(x, y int) {
	if x < 0 || y < 0 || x >= c.cols*2 || y >= c.rows*4 {
		return
	}
	c.cells[(y/4)*c.cols+x/2] |= dotBits[y%4][x%2]
}

func (c *canvas) bits(col, row int) uint8 {
	return c.cells[row*c.cols+col]
}

// trace draws the values as connected segments, one value per cell column.
func (c *canvas) trace(values []float64, lo, hi float64, d dash) {
	prevX, prevY := -1, -1
	for i, v := range values {
		x, y := i*2, dotRow(v, lo, hi, c.rows*4)
		if prevX < 0 {
			c.set(x, y)
		} else {
			bresenham(prevX, prevY, x, y, func(px, py int) {
				if d.draws(px) {
					c.set(px, py)
				}
			})
		}
		prevX, prevY = x, y
	}
}

func braille(bits uint8) rune {
	return rune(0x2800 + int(bits))
}

// PlotSeries renders a braille line chart. The axis labels follow the first
// series' domain; the legend lists every series with its domain.
func PlotSeries(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	series = nonEmpty(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)

	layers := make([]*canvas, len(series))
	for i := range series {
		series[i].Min, series[i].Max = domainOf(series[i])
		layers[i] = newCanvas(width, height)
		layers[i].trace(resampleSeries(series[i].Values, width), series[i].Min, series[i].Max, dashes[i%len(dashes)])
	}

	color := shouldUseColor(w, forceColor)
	labels := axisLabels(series[0].Min, series[0].Max, height)

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for row := 0; row < height; row++ {
		var b strings.Builder
		fmt.Fprintf(&b, "%*s%s", axisLabelWidth, labels[row], axisSeparator)
		for col := 0; col < width; col++ {
			var bits uint8
			owner := -1
			for i, layer := range layers {
				if lb := layer.bits(col, row); lb != 0 {
					bits |= lb
					if owner < 0 {
						owner = i
					}
				}
			}
			if color && owner >= 0 {
				b.WriteString(seriesColors[owner%len(seriesColors)])
				b.WriteRune(braille(bits))
				b.WriteString(colorReset)
				continue
			}
			b.WriteRune(braille(bits))
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, legend(series, color))
	return err
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(totalWidth-axisLabelWidth-utf8.RuneCountInString(axisSeparator), minPlotWidth)
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

func domainOf(s Series) (float64, float64) {
	if s.Max > s.Min {
		return s.Min, s.Max
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range s.Values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		lo--
		hi++
	}
	return lo, hi
}

func axisLabels(lo, hi float64, height int) []string {
	labels := make([]string, height)
	labels[0] = axisValue(hi)
	if height > 2 {
		labels[height/2] = axisValue((lo + hi) / 2)
	}
	if height > 1 {
		labels[height-1] = axisValue(lo)
	}
	return labels
}

func axisValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func legend(series []Series, color bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s, %s-%s)", braille(0x01), s.Name, dashes[i%len(dashes)].name,
			axisValue(s.Min), axisValue(s.Max))
		if color {
			label = seriesColors[i%len(seriesColors)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// resampleSeries fits values to width points: buckets are averaged when
// shrinking, and points are interpolated linearly when stretching.
func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	switch {
	case len(values) == width:
		return append([]float64(nil), values...)
	case len(values) > width:
		return bucketMeans(values, width)
	default:
		return interpolate(values, width)
	}
}

func bucketMeans(values []float64, width int) []float64 {
	out := make([]float64, width)
	for i := range out {
		lo := i * len(values) / width
		hi := max((i+1)*len(values)/width, lo+1)
		var sum float64
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

func interpolate(values []float64, width int) []float64 {
	out := make([]float64, width)
	if len(values) == 1 || width == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	last := len(values) - 1
	for i := range out {
		pos := float64(i) * float64(last) / float64(width-1)
		idx := int(pos)
		if idx >= last {
			out[i] = values[last]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx] + (values[idx+1]-values[idx])*frac
	}
	return out
}

// dotRow maps v onto a dot row, with hi at the top.
func dotRow(v, lo, hi float64, rows int) int {
	if rows <= 1 || hi <= lo {
		return 0
	}
	pos := (v - lo) / (hi - lo)
	return min(max(int(math.Round((1-pos)*float64(rows-1))), 0), rows-1)
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy > 0 {
		dy = -dy
	}
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
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
