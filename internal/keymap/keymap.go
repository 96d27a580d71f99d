// Package keymap resolves configured key names into a complete, closed
// binding table. Every semantic action has exactly one key; resolution fails
// on the first unknown name.
package keymap

import (
	"fmt"
	"strings"

	"github.com/f9-o/gridwarp/internal/core/config"
	"github.com/f9-o/gridwarp/internal/grid"
	"github.com/f9-o/gridwarp/internal/keys"
	"github.com/f9-o/gridwarp/pkg/errs"
)

// Table maps every semantic action to one physical key.
type Table struct {
	Region     [grid.Regions]keys.Key
	Grid       [grid.Cells]keys.Key
	PrevScreen keys.Key
	NextScreen keys.Key
	SkipToCell keys.Key
	Back       keys.Key
	Confirm    keys.Key
	Quit       keys.Key
	Click      ClickKeys
	Scroll     Directions
	Move       Directions
	Speed      SpeedKeys
}

// ClickKeys are the pointer button actions.
type ClickKeys struct {
	Left        keys.Key
	LeftAndExit keys.Key
	Middle      keys.Key
	Right       keys.Key
	PressDown   keys.Key
	PressUp     keys.Key
}

// Directions is one key per direction.
type Directions struct {
	Up    keys.Key
	Down  keys.Key
	Left  keys.Key
	Right keys.Key
}

// SpeedKeys are the movement speed modifiers.
type SpeedKeys struct {
	Quarter   keys.Key
	Half      keys.Key
	Double    keys.Key
	Quadruple keys.Key
}

// Binding names one entry of the table.
type Binding struct {
	Action string   `json:"action"`
	Key    keys.Key `json:"-"`
}

// Conflict is a key bound to more than one action.
type Conflict struct {
	Key     keys.Key
	Actions []string
}

// resolver accumulates the first resolution error so the field list in
// Resolve reads as a flat table.
type resolver struct {
	err error
}

func (r *resolver) key(path, name string) keys.Key {
	if r.err != nil {
		return keys.None
	}
	k, err := keys.Parse(name)
	if err != nil {
		r.err = errs.New(errs.ErrKeyName, "keymap.resolve", err).
			WithTarget(path).
			WithAdvice("run 'gridwarp keys --names' to list accepted key names")
		return keys.None
	}
	return k
}

func (r *resolver) directions(group string, d config.DirectionBindings) Directions {
	return Directions{
		Up:    r.key(group+".up", d.Up),
		Down:  r.key(group+".down", d.Down),
		Left:  r.key(group+".left", d.Left),
		Right: r.key(group+".right", d.Right),
	}
}

// Resolve builds a Table from raw configured names. It returns an
// errs.ErrKeyName error naming the first offending option path, or
// errs.ErrValidation when a list has the wrong length.
func Resolve(b config.Bindings) (*Table, error) {
	if len(b.Region) != grid.Regions {
		return nil, errs.Newf(errs.ErrValidation, "keymap.resolve",
			"expected %d region keys, got %d", grid.Regions, len(b.Region)).WithTarget("bindings.region")
	}
	if len(b.Grid) != grid.Cells {
		return nil, errs.Newf(errs.ErrValidation, "keymap.resolve",
			"expected %d grid keys, got %d", grid.Cells, len(b.Grid)).WithTarget("bindings.grid")
	}

	r := &resolver{}
	t := &Table{}
	for i, name := range b.Region {
		t.Region[i] = r.key(fmt.Sprintf("bindings.region[%d]", i), name)
	}
	for i, name := range b.Grid {
		t.Grid[i] = r.key(fmt.Sprintf("bindings.grid[%d]", i), name)
	}
	t.PrevScreen = r.key("bindings.prev_screen", b.PrevScreen)
	t.NextScreen = r.key("bindings.next_screen", b.NextScreen)
	t.SkipToCell = r.key("bindings.skip_to_cell", b.SkipToCell)
	t.Back = r.key("bindings.back", b.Back)
	t.Confirm = r.key("bindings.confirm", b.Confirm)
	t.Quit = r.key("bindings.quit", b.Quit)
	t.Click = ClickKeys{
		Left:        r.key("bindings.click.left", b.Click.Left),
		LeftAndExit: r.key("bindings.click.left_and_exit", b.Click.LeftAndExit),
		Middle:      r.key("bindings.click.middle", b.Click.Middle),
		Right:       r.key("bindings.click.right", b.Click.Right),
		PressDown:   r.key("bindings.click.press_down", b.Click.PressDown),
		PressUp:     r.key("bindings.click.press_up", b.Click.PressUp),
	}
	t.Scroll = r.directions("bindings.scroll", b.Scroll)
	t.Move = r.directions("bindings.move", b.Move)
	t.Speed = SpeedKeys{
		Quarter:   r.key("bindings.speed_modifier.quarter", b.SpeedModifier.Quarter),
		Half:      r.key("bindings.speed_modifier.half", b.SpeedModifier.Half),
		Double:    r.key("bindings.speed_modifier.double", b.SpeedModifier.Double),
		Quadruple: r.key("bindings.speed_modifier.quadruple", b.SpeedModifier.Quadruple),
	}

	if r.err != nil {
		return nil, r.err
	}
	return t, nil
}

// Bindings lists every entry in declaration order, which is also the order
// the state machine tests them in.
func (t *Table) Bindings() []Binding {
	out := make([]Binding, 0, 48)
	add := func(action string, k keys.Key) { out = append(out, Binding{Action: action, Key: k}) }

	for i, k := range t.Region {
		add(fmt.Sprintf("region[%d]", i), k)
	}
	for i, k := range t.Grid {
		add(fmt.Sprintf("grid[%d]", i), k)
	}
	add("prev_screen", t.PrevScreen)
	add("next_screen", t.NextScreen)
	add("skip_to_cell", t.SkipToCell)
	add("back", t.Back)
	add("confirm", t.Confirm)
	add("quit", t.Quit)
	add("click.left", t.Click.Left)
	add("click.left_and_exit", t.Click.LeftAndExit)
	add("click.middle", t.Click.Middle)
	add("click.right", t.Click.Right)
	add("click.press_down", t.Click.PressDown)
	add("click.press_up", t.Click.PressUp)
	for _, g := range []struct {
		name string
		d    Directions
	}{{"scroll", t.Scroll}, {"move", t.Move}} {
		add(g.name+".up", g.d.Up)
		add(g.name+".down", g.d.Down)
		add(g.name+".left", g.d.Left)
		add(g.name+".right", g.d.Right)
	}
	add("speed_modifier.quarter", t.Speed.Quarter)
	add("speed_modifier.half", t.Speed.Half)
	add("speed_modifier.double", t.Speed.Double)
	add("speed_modifier.quadruple", t.Speed.Quadruple)
	return out
}

// Conflicts reports keys bound to more than one action that are live in
// the same navigation mode. A region key reused as a click key is fine: the
// two are never tested in the same frame.
func (t *Table) Conflicts() []Conflict {
	var order []keys.Key
	byKey := map[keys.Key][]Binding{}
	for _, b := range t.Bindings() {
		if _, ok := byKey[b.Key]; !ok {
			order = append(order, b.Key)
		}
		byKey[b.Key] = append(byKey[b.Key], b)
	}

	var out []Conflict
	for _, k := range order {
		bs := byKey[k]
		if len(bs) < 2 {
			continue
		}
		var actions []string
		for i, a := range bs {
			for j, b := range bs {
				if i != j && modesOf(a.Action)&modesOf(b.Action) != 0 {
					actions = append(actions, a.Action)
					break
				}
			}
		}
		if len(actions) > 1 {
			out = append(out, Conflict{Key: k, Actions: actions})
		}
	}
	return out
}

type modeMask uint8

const (
	inScreen modeMask = 1 << iota
	inNarrow
	inCell
)

// modesOf returns the navigation modes in which an action is tested.
func modesOf(action string) modeMask {
	switch {
	case action == "quit":
		return inScreen | inNarrow | inCell
	case strings.HasPrefix(action, "region["), action == "prev_screen",
		action == "next_screen", action == "skip_to_cell":
		return inScreen
	case strings.HasPrefix(action, "grid["), action == "back":
		return inNarrow | inCell
	case action == "confirm":
		return inNarrow
	default:
		return inCell
	}
}
