// Package grid is the spatial address space: every display is split into a
// 4×4 grid of regions and every region into a 5×3 grid of cells, so any pixel
// on any display is two keystrokes away.
//
// All functions are pure. The grid of a display is anchored at its reported
// Position and spans its usable size (Size minus UsableOffset).
package grid

import (
	"math"

	v1 "github.com/f9-o/gridwarp/api/v1"
)

const (
	RegionsX = 4
	RegionsY = 4
	Regions  = RegionsX * RegionsY

	CellsX = 5
	CellsY = 3
	Cells  = CellsX * CellsY
)

// Address identifies one cell on one display.
type Address struct {
	Display int `json:"display"`
	Region  int `json:"region"`
	Cell    int `json:"cell"`
}

// ValidRegion reports whether r is a region index.
func ValidRegion(r int) bool { return r >= 0 && r < Regions }

// ValidCell reports whether c is a cell index.
func ValidCell(c int) bool { return c >= 0 && c < Cells }

// RegionSize is the usable display size divided by (4,4).
func RegionSize(d v1.Display) v1.Vector {
	return d.UsableSize().Div(RegionsX, RegionsY)
}

// CellSize is the region size divided by (5,3).
func CellSize(d v1.Display) v1.Vector {
	return RegionSize(d).Div(CellsX, CellsY)
}

// RegionOrigin returns the top-left corner of region r on d.
func RegionOrigin(d v1.Display, r int) v1.Point {
	rs := RegionSize(d)
	return d.Position.Add(v1.Vec(
		rs.X*float64(r%RegionsX),
		rs.Y*float64(r/RegionsX),
	))
}

// RegionRect returns the half-open rectangle of region r on d.
func RegionRect(d v1.Display, r int) v1.Rect {
	return v1.Rect{Min: RegionOrigin(d, r), Size: RegionSize(d)}
}

// CellCenter returns the warp target of cell c in region r on d.
func CellCenter(d v1.Display, r, c int) v1.Point {
	cs := CellSize(d)
	return RegionOrigin(d, r).Add(v1.Vec(
		cs.X*(float64(c%CellsX)+0.5),
		cs.Y*(float64(c/CellsX)+0.5),
	))
}

// CellRect returns the half-open rectangle of cell c in region r on d.
func CellRect(d v1.Display, r, c int) v1.Rect {
	cs := CellSize(d)
	min := RegionOrigin(d, r).Add(v1.Vec(
		cs.X*float64(c%CellsX),
		cs.Y*float64(c/CellsX),
	))
	return v1.Rect{Min: min, Size: cs}
}

// Locate is the inverse mapping: it finds the first display (in registry
// order) whose full rectangle contains p and returns the region and cell
// under p. Displays may overlap; the earliest one wins. ok is false when no
// display contains p.
func Locate(displays []v1.Display, p v1.Point) (Address, bool) {
	for i, d := range displays {
		if !d.Bounds().Contains(p) {
			continue
		}
		rs := RegionSize(d)
		if rs.X <= 0 || rs.Y <= 0 {
			continue
		}

		rel := p.Sub(d.Position)
		rx := clamp(floorDiv(rel.X, rs.X), RegionsX)
		ry := clamp(floorDiv(rel.Y, rs.Y), RegionsY)
		region := rx + RegionsX*ry

		rel = p.Sub(RegionOrigin(d, region))
		cs := CellSize(d)
		cx := clamp(floorDiv(rel.X, cs.X), CellsX)
		cy := clamp(floorDiv(rel.Y, cs.Y), CellsY)

		return Address{Display: i, Region: region, Cell: cx + CellsX*cy}, true
	}
	return Address{}, false
}

func floorDiv(v, step float64) int {
	return int(math.Floor(v / step))
}

// clamp keeps points in the reserved strip past the usable size on the edge row/column.
func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
