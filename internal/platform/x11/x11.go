// Package x11 is the X Window System backend. Displays come from RandR
// CRTCs (falling back to the root screen), the keyboard is polled with
// QueryKeymap, the pointer is warped with WarpPointer and buttons and wheel
// go through the XTEST extension.
package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"

	v1 "github.com/f9-o/gridwarp/api/v1"
	"github.com/f9-o/gridwarp/internal/core/logger"
	"github.com/f9-o/gridwarp/internal/input"
	"github.com/f9-o/gridwarp/internal/keys"
	"github.com/f9-o/gridwarp/internal/platform"
	"github.com/f9-o/gridwarp/pkg/errs"
)

var _ platform.Backend = (*Backend)(nil)

// Backend talks to one X server connection.
type Backend struct {
	xu    *xgbutil.XUtil
	root  xproto.Window
	randr bool
	log   *logger.Logger

	keyboard *Keyboard
	pointer  *Pointer
	viewport *Viewport

	closeOnce sync.Once
}

// Open connects to $DISPLAY and initialises the extensions gridwarp needs.
func Open(log *logger.Logger) (*Backend, error) {
	if log == nil {
		log = logger.Nop()
	}

	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrDriverConnect, "x11.open").
			WithAdvice("gridwarp needs an X11 session; check $DISPLAY, or try 'gridwarp sim'")
	}
	keybind.Initialize(xu)

	if err := xtest.Init(xu.Conn()); err != nil {
		xu.Conn().Close()
		return nil, errs.Wrap(err, errs.ErrDriverConnect, "x11.open").
			WithTarget("XTEST").
			WithAdvice("the X server must provide the XTEST extension for clicks and scrolling")
	}

	b := &Backend{xu: xu, root: xu.RootWin(), log: log}
	if err := randr.Init(xu.Conn()); err != nil {
		log.Warn("randr unavailable, using the root screen as the only display", "err", err)
	} else {
		b.randr = true
	}

	b.keyboard = newKeyboard(xu)
	b.pointer = &Pointer{xu: xu, root: b.root}
	b.viewport = &Viewport{xu: xu, root: b.root, log: log}
	return b, nil
}

func (b *Backend) Name() string { return "x11" }

func (b *Backend) Keyboard() input.Source { return b.keyboard }

func (b *Backend) Pointer() v1.PointerDriver { return b.pointer }

func (b *Backend) Viewport() v1.ViewportController { return b.viewport }

// Close releases any held button, destroys the viewport frame and closes
// the connection.
func (b *Backend) Close() error {
	b.closeOnce.Do(func() {
		b.pointer.releaseAll()
		b.viewport.destroy()
		b.xu.Conn().Close()
	})
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Displays
// ─────────────────────────────────────────────────────────────────────────────

// Displays lists active CRTCs in RandR order. Without RandR, or when RandR
// reports nothing usable, the root screen is the single display.
func (b *Backend) Displays() ([]v1.Display, error) {
	if b.randr {
		ds, err := b.randrDisplays()
		if err != nil {
			b.log.Warn("randr query failed, using the root screen", "err", err)
		} else if len(ds) > 0 {
			return ds, nil
		}
	}

	screen := b.xu.Screen()
	if screen == nil {
		return nil, errs.Newf(errs.ErrDisplayQuery, "x11.displays", "no default screen")
	}
	return []v1.Display{{
		ID:      0,
		Name:    "screen-0",
		Size:    v1.Vec(float64(screen.WidthInPixels), float64(screen.HeightInPixels)),
		Primary: true,
	}}, nil
}

func (b *Backend) randrDisplays() ([]v1.Display, error) {
	conn := b.xu.Conn()
	res, err := randr.GetScreenResources(conn, b.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(conn, b.root).Reply(); err == nil {
		primary = reply.Output
	}

	var out []v1.Display
	for _, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			return nil, fmt.Errorf("get crtc %d: %w", crtc, err)
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		d := v1.Display{
			ID:       len(out),
			Name:     fmt.Sprintf("crtc-%d", crtc),
			Position: v1.Pt(float64(info.X), float64(info.Y)),
			Size:     v1.Vec(float64(info.Width), float64(info.Height)),
		}
		for _, o := range info.Outputs {
			if o == primary {
				d.Primary = true
			}
			if oi, err := randr.GetOutputInfo(conn, o, res.ConfigTimestamp).Reply(); err == nil && len(oi.Name) > 0 {
				d.Name = string(oi.Name)
			}
		}
		out = append(out, d)
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Keyboard
// ─────────────────────────────────────────────────────────────────────────────

// Keyboard polls the server key map once per frame.
type Keyboard struct {
	xu       *xgbutil.XUtil
	keycodes map[keys.Key][]xproto.Keycode
	keymap   []byte
	tracker  input.Tracker
}

func newKeyboard(xu *xgbutil.XUtil) *Keyboard {
	k := &Keyboard{xu: xu, keycodes: make(map[keys.Key][]xproto.Keycode, len(keysymNames))}
	for key, name := range keysymNames {
		if codes := keybind.StrToKeycodes(xu, name); len(codes) > 0 {
			k.keycodes[key] = codes
		}
	}
	return k
}

func (k *Keyboard) Poll() error {
	reply, err := xproto.QueryKeymap(k.xu.Conn()).Reply()
	if err != nil {
		return err
	}
	k.keymap = reply.Keys
	k.tracker.Update(func(key keys.Key) bool {
		for _, code := range k.keycodes[key] {
			if keycodeDown(k.keymap, byte(code)) {
				return true
			}
		}
		return false
	})
	return nil
}

func (k *Keyboard) IsPressed(key keys.Key) bool { return k.tracker.IsPressed(key) }

func (k *Keyboard) IsHeld(key keys.Key) bool { return k.tracker.IsHeld(key) }

// ─────────────────────────────────────────────────────────────────────────────
// Pointer
// ─────────────────────────────────────────────────────────────────────────────

// Pointer drives the core pointer.
type Pointer struct {
	xu   *xgbutil.XUtil
	root xproto.Window

	mu   sync.Mutex
	held map[byte]bool
}

func (p *Pointer) MoveAbsolute(x, y int) error {
	return xproto.WarpPointerChecked(p.xu.Conn(), xproto.WindowNone, p.root,
		0, 0, 0, 0, int16(x), int16(y)).Check()
}

func (p *Pointer) MoveRelative(dx, dy int) error {
	return xproto.WarpPointerChecked(p.xu.Conn(), xproto.WindowNone, xproto.WindowNone,
		0, 0, 0, 0, int16(dx), int16(dy)).Check()
}

func (p *Pointer) Click(b v1.Button) error {
	if err := p.Press(b); err != nil {
		return err
	}
	return p.Release(b)
}

func (p *Pointer) Press(b v1.Button) error {
	code, ok := pointerButton(b)
	if !ok {
		return fmt.Errorf("unknown button %q", b)
	}
	if err := p.fake(xproto.ButtonPress, code); err != nil {
		return err
	}
	p.mu.Lock()
	if p.held == nil {
		p.held = make(map[byte]bool)
	}
	p.held[code] = true
	p.mu.Unlock()
	return nil
}

func (p *Pointer) Release(b v1.Button) error {
	code, ok := pointerButton(b)
	if !ok {
		return fmt.Errorf("unknown button %q", b)
	}
	if err := p.fake(xproto.ButtonRelease, code); err != nil {
		return err
	}
	p.mu.Lock()
	delete(p.held, code)
	p.mu.Unlock()
	return nil
}

// Scroll clicks the wheel button |amount| times.
func (p *Pointer) Scroll(axis v1.ScrollAxis, amount int) error {
	code := wheelButton(axis, amount)
	if amount < 0 {
		amount = -amount
	}
	for i := 0; i < amount; i++ {
		if err := p.fake(xproto.ButtonPress, code); err != nil {
			return err
		}
		if err := p.fake(xproto.ButtonRelease, code); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pointer) Location() (v1.Point, error) {
	reply, err := xproto.QueryPointer(p.xu.Conn(), p.root).Reply()
	if err != nil {
		return v1.Point{}, err
	}
	return v1.Pt(float64(reply.RootX), float64(reply.RootY)), nil
}

func (p *Pointer) fake(event, detail byte) error {
	return xtest.FakeInputChecked(p.xu.Conn(), event, detail, 0, p.root, 0, 0, 0).Check()
}

// releaseAll lets go of buttons left down by Press.
func (p *Pointer) releaseAll() {
	p.mu.Lock()
	held := p.held
	p.held = nil
	p.mu.Unlock()
	for code := range held {
		_ = p.fake(xproto.ButtonRelease, code)
	}
}

func pointerButton(b v1.Button) (byte, bool) {
	switch b {
	case v1.ButtonLeft:
		return buttonLeft, true
	case v1.ButtonMiddle:
		return buttonMiddle, true
	case v1.ButtonRight:
		return buttonRight, true
	}
	return 0, false
}

func wheelButton(axis v1.ScrollAxis, amount int) byte {
	if axis == v1.AxisHorizontal {
		if amount < 0 {
			return buttonWheelLeft
		}
		return buttonWheelRight
	}
	if amount < 0 {
		return buttonWheelUp
	}
	return buttonWheelDown
}

// ─────────────────────────────────────────────────────────────────────────────
// Viewport
// ─────────────────────────────────────────────────────────────────────────────

// frameWidth is the thickness of the outline drawn around the active display.
const frameWidth = 3

// Viewport outlines the active display with four thin override-redirect
// windows, so the desktop underneath stays visible and clickable.
type Viewport struct {
	xu   *xgbutil.XUtil
	root xproto.Window
	log  *logger.Logger

	mu    sync.Mutex
	edges [4]xproto.Window
	made  bool
}

func (v *Viewport) Reposition(position v1.Point, size v1.Vector) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.made {
		if err := v.create(); err != nil {
			return err
		}
	}

	x, y := int32(position.X), int32(position.Y)
	w, h := int32(size.X), int32(size.Y)
	rects := [4][4]int32{
		{x, y, w, frameWidth},                  // top
		{x, y + h - frameWidth, w, frameWidth}, // bottom
		{x, y, frameWidth, h},                  // left
		{x + w - frameWidth, y, frameWidth, h}, // right
	}

	conn := v.xu.Conn()
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight | xproto.ConfigWindowStackMode)
	for i, win := range v.edges {
		r := rects[i]
		if r[2] <= 0 || r[3] <= 0 {
			continue
		}
		vals := []uint32{uint32(r[0]), uint32(r[1]), uint32(r[2]), uint32(r[3]), xproto.StackModeAbove}
		if err := xproto.ConfigureWindowChecked(conn, win, mask, vals).Check(); err != nil {
			return err
		}
	}
	v.log.Debug("viewport moved", "position", position.String(), "size", size.String())
	return nil
}

func (v *Viewport) create() error {
	conn := v.xu.Conn()
	screen := v.xu.Screen()
	for i := range v.edges {
		wid, err := xproto.NewWindowId(conn)
		if err != nil {
			return err
		}
		err = xproto.CreateWindowChecked(conn,
			screen.RootDepth, wid, v.root,
			0, 0, 1, 1, 0,
			xproto.WindowClassInputOutput,
			screen.RootVisual,
			xproto.CwBackPixel|xproto.CwOverrideRedirect,
			[]uint32{screen.WhitePixel, 1},
		).Check()
		if err != nil {
			return err
		}
		xproto.MapWindow(conn, wid)
		v.edges[i] = wid
	}
	v.made = true
	return nil
}

func (v *Viewport) destroy() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.made {
		return
	}
	for _, win := range v.edges {
		xproto.DestroyWindow(v.xu.Conn(), win)
	}
	v.made = false
}
