package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/f9-o/gridwarp/api/v1"
	"github.com/f9-o/gridwarp/internal/grid"
)

func plainView(region, cell int) GridView {
	g := GridView{
		Display: v1.Display{Size: v1.Vec(1600, 900)},
		Region:  region,
		Cell:    cell,
	}
	for i := range g.RegionLabels {
		g.RegionLabels[i] = string(rune('a' + i))
	}
	for i := range g.CellLabels {
		g.CellLabels[i] = string(rune('a' + i))
	}
	return g
}

func TestRenderGridTooSmall(t *testing.T) {
	assert.Empty(t, RenderGrid(plainView(-1, -1), 4, 2))
}

func TestRenderGridDimensions(t *testing.T) {
	out := RenderGrid(plainView(-1, -1), 40, 12)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 12)
	for _, l := range lines {
		assert.Equal(t, 40, len([]rune(l)))
	}
}

func TestRenderGridRegionLabels(t *testing.T) {
	out := RenderGrid(plainView(-1, -1), 40, 12)
	lines := strings.Split(out, "\n")

	assert.True(t, strings.HasPrefix(lines[0], "A"), "region 0 label at the top left")
	assert.Contains(t, lines[0], "│B")
	assert.Contains(t, lines[3], "─┼─")
	// Region 5 sits in the second row of regions, one line below the rule.
	assert.Contains(t, lines[4], "│F")
	// No cell labels until a region is selected.
	assert.NotContains(t, out, "[")
}

func TestRenderGridActiveRegionShowsCells(t *testing.T) {
	out := RenderGrid(plainView(0, 7), 80, 24)
	assert.Contains(t, out, "[h]", "selected cell is bracketed")
	for i := 0; i < grid.Cells; i++ {
		assert.Contains(t, out, string(rune('a'+i)))
	}
}

func TestRenderGridPointer(t *testing.T) {
	g := plainView(-1, -1)
	g.Pointer = v1.Pt(800, 450)
	g.HasPointer = true
	out := RenderGrid(g, 40, 12)
	lines := strings.Split(out, "\n")
	assert.Equal(t, '✛', []rune(lines[6])[20])

	g.Pointer = v1.Pt(5000, 5000)
	assert.NotContains(t, RenderGrid(g, 40, 12), "✛", "pointer off this display")
}
