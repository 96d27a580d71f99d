package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	v1 "github.com/f9-o/gridwarp/api/v1"
	"github.com/f9-o/gridwarp/internal/grid"
)

// ─────────────────────────────────────────────────────────────────────────────
// Grid view
// ─────────────────────────────────────────────────────────────────────────────

// GridView is everything needed to draw one display's address grid.
type GridView struct {
	Display v1.Display

	// Region and Cell are -1 when unset, as in the navigation state.
	Region int
	Cell   int

	Pointer    v1.Point
	HasPointer bool

	RegionLabels [grid.Regions]string
	CellLabels   [grid.Cells]string

	Styles GridStyles
}

// GridStyles colours the grid classes.
type GridStyles struct {
	Line         lipgloss.Style
	RegionLabel  lipgloss.Style
	ActiveRegion lipgloss.Style
	CellLabel    lipgloss.Style
	ActiveCell   lipgloss.Style
	Pointer      lipgloss.Style
}

type class uint8

const (
	classBlank class = iota
	classLine
	classRegionLabel
	classActiveRegion
	classCellLabel
	classActiveCell
	classPointer
)

type canvas struct {
	w, h  int
	runes [][]rune
	class [][]class
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, runes: make([][]rune, h), class: make([][]class, h)}
	for y := range c.runes {
		c.runes[y] = []rune(strings.Repeat(" ", w))
		c.class[y] = make([]class, w)
	}
	return c
}

func (c *canvas) put(x, y int, r rune, cl class) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.runes[y][x] = r
	c.class[y][x] = cl
}

func (c *canvas) text(x, y int, s string, cl class) {
	for i, r := range []rune(s) {
		c.put(x+i, y, r, cl)
	}
}

func (c *canvas) render(styles GridStyles) string {
	styleOf := map[class]lipgloss.Style{
		classLine:         styles.Line,
		classRegionLabel:  styles.RegionLabel,
		classActiveRegion: styles.ActiveRegion,
		classCellLabel:    styles.CellLabel,
		classActiveCell:   styles.ActiveCell,
		classPointer:      styles.Pointer,
	}

	var b strings.Builder
	for y := 0; y < c.h; y++ {
		start := 0
		for x := 1; x <= c.w; x++ {
			if x < c.w && c.class[y][x] == c.class[y][start] {
				continue
			}
			run := string(c.runes[y][start:x])
			if st, ok := styleOf[c.class[y][start]]; ok {
				run = st.Render(run)
			}
			b.WriteString(run)
			start = x
		}
		if y < c.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// RenderGrid draws the 4×4 region grid of one display into width×height
// terminal cells. The selected region shows its 5×3 cell labels.
func RenderGrid(g GridView, width, height int) string {
	if width < 8 || height < 4 {
		return ""
	}
	c := newCanvas(width, height)

	area := v1.Rect{Min: g.Display.Position, Size: g.Display.UsableSize()}
	if area.Size.X <= 0 || area.Size.Y <= 0 {
		return c.render(g.Styles)
	}
	toCanvas := func(p v1.Point) (int, int) {
		x := int(math.Floor((p.X - area.Min.X) / area.Size.X * float64(width)))
		y := int(math.Floor((p.Y - area.Min.Y) / area.Size.Y * float64(height)))
		return clampInt(x, 0, width-1), clampInt(y, 0, height-1)
	}

	colAt := func(i int) int { return i * width / grid.RegionsX }
	rowAt := func(j int) int { return j * height / grid.RegionsY }

	for i := 1; i < grid.RegionsX; i++ {
		for y := 0; y < height; y++ {
			c.put(colAt(i), y, '│', classLine)
		}
	}
	for j := 1; j < grid.RegionsY; j++ {
		for x := 0; x < width; x++ {
			r := '─'
			for i := 1; i < grid.RegionsX; i++ {
				if x == colAt(i) {
					r = '┼'
				}
			}
			c.put(x, rowAt(j), r, classLine)
		}
	}

	for r := 0; r < grid.Regions; r++ {
		i, j := r%grid.RegionsX, r/grid.RegionsX
		x, y := colAt(i), rowAt(j)
		if i > 0 {
			x++
		}
		if j > 0 {
			y++
		}
		cl := classRegionLabel
		if r == g.Region {
			cl = classActiveRegion
		}
		c.text(x, y, strings.ToUpper(g.RegionLabels[r]), cl)
	}

	if grid.ValidRegion(g.Region) {
		for cell := 0; cell < grid.Cells; cell++ {
			x, y := toCanvas(grid.CellCenter(g.Display, g.Region, cell))
			label := g.CellLabels[cell]
			if cell == g.Cell {
				c.text(x-1, y, "["+label+"]", classActiveCell)
				continue
			}
			c.text(x, y, label, classCellLabel)
		}
	}

	if g.HasPointer && g.Display.Bounds().Contains(g.Pointer) {
		x, y := toCanvas(g.Pointer)
		c.put(x, y, '✛', classPointer)
	}
	return c.render(g.Styles)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
