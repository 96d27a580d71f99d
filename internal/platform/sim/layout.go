// Package sim is an in-process platform backend. It backs the terminal
// simulator and the test suites: displays come from a layout string, the
// keyboard is fed programmatically and pointer calls are recorded.
package sim

import (
	"fmt"
	"strconv"
	"strings"

	v1 "github.com/f9-o/gridwarp/api/v1"
	"github.com/f9-o/gridwarp/pkg/errs"
)

// DefaultLayout is two side-by-side displays.
const DefaultLayout = "1920x1080+0+0,1280x1024+1920+0"

// ParseLayout parses a comma separated list of WxH+X+Y geometries (X and Y
// may be negative, e.g. 1600x900-1600+200). The first display is primary
// unless another entry carries a trailing '*'.
func ParseLayout(s string) ([]v1.Display, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errs.Newf(errs.ErrDisplayLayout, "sim.layout", "empty layout").
			WithAdvice("use WxH+X+Y[,WxH+X+Y...], e.g. " + DefaultLayout)
	}

	var out []v1.Display
	primary := -1
	for i, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if strings.HasSuffix(part, "*") {
			part = strings.TrimSuffix(part, "*")
			primary = i
		}
		d, err := parseGeometry(part)
		if err != nil {
			return nil, errs.New(errs.ErrDisplayLayout, "sim.layout", err).
				WithTarget(part).
				WithAdvice("use WxH+X+Y[,WxH+X+Y...], e.g. " + DefaultLayout)
		}
		d.ID = i
		d.Name = fmt.Sprintf("sim-%d", i)
		out = append(out, d)
	}
	if primary < 0 {
		primary = 0
	}
	out[primary].Primary = true
	return out, nil
}

func parseGeometry(g string) (v1.Display, error) {
	x := strings.IndexByte(g, 'x')
	if x <= 0 {
		return v1.Display{}, fmt.Errorf("missing WxH in %q", g)
	}
	rest := g[x+1:]
	sign := strings.IndexAny(rest, "+-")
	if sign <= 0 {
		return v1.Display{}, fmt.Errorf("missing +X+Y in %q", g)
	}
	sign2 := strings.IndexAny(rest[sign+1:], "+-")
	if sign2 < 0 {
		return v1.Display{}, fmt.Errorf("missing +Y in %q", g)
	}
	sign2 += sign + 1

	fields := []string{g[:x], rest[:sign], rest[sign:sign2], rest[sign2:]}
	var n [4]float64
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimPrefix(f, "+"))
		if err != nil {
			return v1.Display{}, fmt.Errorf("bad number %q in %q", f, g)
		}
		n[i] = float64(v)
	}
	if n[0] <= 0 || n[1] <= 0 {
		return v1.Display{}, fmt.Errorf("non-positive size in %q", g)
	}
	return v1.Display{Position: v1.Pt(n[2], n[3]), Size: v1.Vec(n[0], n[1])}, nil
}
