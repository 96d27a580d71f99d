package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectContainsIsHalfOpen(t *testing.T) {
	r := Rect{Min: Pt(100, 50), Size: Vec(200, 100)}

	cases := []struct {
		p    Point
		want bool
	}{
		{Pt(100, 50), true},
		{Pt(299.9, 149.9), true},
		{Pt(300, 100), false},
		{Pt(200, 150), false},
		{Pt(99.9, 60), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, r.Contains(tc.p), tc.p.String())
	}
	assert.Equal(t, Pt(300, 150), r.Max())
	assert.Equal(t, Pt(200, 100), r.Center())
	assert.Equal(t, "200x100+100+50", r.String())
}

func TestDisplayUsableArea(t *testing.T) {
	d := Display{Position: Pt(1920, 0), Size: Vec(1280, 1024), UsableOffset: Vec(0, 24), Primary: true}

	assert.Equal(t, Vec(1280, 1000), d.UsableSize())
	assert.Equal(t, Rect{Min: Pt(1920, 24), Size: Vec(1280, 1000)}, d.UsableRect())
	assert.Equal(t, "1280x1024+1920+0", d.Bounds().String())
}
