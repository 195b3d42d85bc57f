// Package canvas provides the map composition widget: it paints the document
// through the renderer and feeds pointer, wheel and key input to the
// interaction controller.
package canvas

import (
	"image"
	"sync"

	"map-composer/internal/interact"
	"map-composer/internal/render"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// MapCanvas is a fyne widget showing one document.
//
// Fyne delivers input on its event goroutine and paints rasters on its
// render goroutine. The document is not safe for concurrent use, so every
// controller call and every frame runs under mu.
type MapCanvas struct {
	widget.BaseWidget

	mu       sync.Mutex
	ctrl     *interact.Controller
	renderer *render.Renderer
	raster   *fynecanvas.Raster

	// scale is device pixels per fyne unit, taken from the last frame.
	scale   float64
	shift   bool
	pressed bool
	last    *image.RGBA
}

// NewMapCanvas creates a widget driving ctrl and painting with r.
func NewMapCanvas(ctrl *interact.Controller, r *render.Renderer) *MapCanvas {
	mc := &MapCanvas{ctrl: ctrl, renderer: r, scale: 1}
	mc.raster = fynecanvas.NewRaster(mc.draw)
	mc.raster.ScaleMode = fynecanvas.ImageScalePixels
	mc.ExtendBaseWidget(mc)
	return mc
}

// Do runs fn with exclusive access to the controller and its document, then
// schedules a repaint.
func (mc *MapCanvas) Do(fn func(c *interact.Controller)) {
	mc.mu.Lock()
	fn(mc.ctrl)
	mc.mu.Unlock()
	mc.Repaint()
}

// Repaint schedules a new frame.
func (mc *MapCanvas) Repaint() {
	mc.raster.Refresh()
}

// LastFrame returns the most recently painted frame, or nil.
func (mc *MapCanvas) LastFrame() *image.RGBA {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.last
}

func (mc *MapCanvas) draw(w, h int) image.Image {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if sz := mc.Size(); sz.Width > 0 {
		mc.scale = float64(w) / float64(sz.Width)
	}
	mc.ctrl.SetCanvasSize(float64(w), float64(h))
	c := render.NewRasterCanvas(w, h)
	// Failures are reported to the renderer's Reporter; the frame is still
	// shown.
	_ = mc.renderer.Render(mc.ctrl.Document(), c, false, mc.ctrl.Overlay())
	mc.last = c.Image()
	return mc.last
}

// px converts a widget-relative position to device pixels.
func (mc *MapCanvas) px(p fyne.Position) (float64, float64) {
	return float64(p.X) * mc.scale, float64(p.Y) * mc.scale
}

func (mc *MapCanvas) input(p fyne.Position, fn func(x, y float64)) {
	mc.mu.Lock()
	x, y := mc.px(p)
	fn(x, y)
	mc.mu.Unlock()
}

func (mc *MapCanvas) click(p fyne.Position, count int, b interact.Button) {
	mc.input(p, func(x, y float64) {
		mc.ctrl.Click(interact.ClickEvent{X: x, Y: y, Count: count, Button: b, Shift: mc.shift})
	})
}

func (mc *MapCanvas) requestFocus() {
	if app := fyne.CurrentApp(); app != nil {
		if c := app.Driver().CanvasForObject(mc); c != nil {
			c.Focus(mc)
		}
	}
}

// MouseDown implements desktop.Mouseable.
func (mc *MapCanvas) MouseDown(ev *desktop.MouseEvent) {
	mc.mu.Lock()
	mc.shift = ev.Modifier&fyne.KeyModifierShift != 0
	mc.mu.Unlock()
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	mc.pressed = true
	mc.input(ev.Position, mc.ctrl.Press)
}

// MouseUp implements desktop.Mouseable.
func (mc *MapCanvas) MouseUp(ev *desktop.MouseEvent) {
	if !mc.pressed {
		return
	}
	mc.pressed = false
	mc.input(ev.Position, mc.ctrl.Release)
}

// Dragged implements fyne.Draggable.
func (mc *MapCanvas) Dragged(ev *fyne.DragEvent) {
	if !mc.pressed {
		return
	}
	mc.input(ev.Position, mc.ctrl.Drag)
}

// DragEnd implements fyne.Draggable. The drag is committed by MouseUp.
func (mc *MapCanvas) DragEnd() {}

// MouseIn implements desktop.Hoverable.
func (mc *MapCanvas) MouseIn(ev *desktop.MouseEvent) { mc.MouseMoved(ev) }

// MouseMoved implements desktop.Hoverable.
func (mc *MapCanvas) MouseMoved(ev *desktop.MouseEvent) {
	mc.input(ev.Position, mc.ctrl.Move)
}

// MouseOut implements desktop.Hoverable.
func (mc *MapCanvas) MouseOut() {}

// Tapped implements fyne.Tappable.
func (mc *MapCanvas) Tapped(ev *fyne.PointEvent) {
	mc.requestFocus()
	mc.click(ev.Position, 1, interact.ButtonPrimary)
}

// DoubleTapped implements fyne.DoubleTappable. Fyne swallows the first tap
// of a double tap, so both clicks are replayed in order.
func (mc *MapCanvas) DoubleTapped(ev *fyne.PointEvent) {
	mc.click(ev.Position, 1, interact.ButtonPrimary)
	mc.click(ev.Position, 2, interact.ButtonPrimary)
}

// TappedSecondary implements fyne.SecondaryTappable.
func (mc *MapCanvas) TappedSecondary(ev *fyne.PointEvent) {
	mc.click(ev.Position, 1, interact.ButtonSecondary)
}

// Scrolled implements fyne.Scrollable.
func (mc *MapCanvas) Scrolled(ev *fyne.ScrollEvent) {
	n := notches(ev.Scrolled.DY)
	if n == 0 {
		return
	}
	mc.input(ev.Position, func(x, y float64) { mc.ctrl.Wheel(x, y, n) })
}

// notches turns a fyne scroll delta into wheel notches. Fyne reports scrolling
// away from the user as positive; the controller zooms out for positive
// notches, so the sign flips.
func notches(dy float32) float64 {
	switch {
	case dy > 0:
		return -1
	case dy < 0:
		return 1
	}
	return 0
}

// FocusGained implements fyne.Focusable.
func (mc *MapCanvas) FocusGained() {}

// FocusLost implements fyne.Focusable.
func (mc *MapCanvas) FocusLost() {}

// TypedKey implements fyne.Focusable.
func (mc *MapCanvas) TypedKey(ev *fyne.KeyEvent) {
	if k, ok := keyFor(ev.Name); ok {
		mc.key(k)
	}
}

// TypedRune implements fyne.Focusable.
func (mc *MapCanvas) TypedRune(r rune) {
	if k, ok := runeKey(r); ok {
		mc.key(k)
	}
}

func (mc *MapCanvas) key(k interact.Key) {
	mc.mu.Lock()
	mc.ctrl.Key(k)
	mc.mu.Unlock()
}

func keyFor(name fyne.KeyName) (interact.Key, bool) {
	switch name {
	case fyne.KeyDelete:
		return interact.KeyDelete, true
	case fyne.KeyBackspace:
		return interact.KeyBackspace, true
	case fyne.KeyUp:
		return interact.KeyUp, true
	case fyne.KeyDown:
		return interact.KeyDown, true
	case fyne.KeyLeft:
		return interact.KeyLeft, true
	case fyne.KeyRight:
		return interact.KeyRight, true
	}
	return 0, false
}

// runeKey handles the zoom keys as typed characters so shifted and unshifted
// layouts both work.
func runeKey(r rune) (interact.Key, bool) {
	switch r {
	case '+':
		return interact.KeyPlus, true
	case '=':
		return interact.KeyEquals, true
	case '-':
		return interact.KeyMinus, true
	case '_':
		return interact.KeyUnderscore, true
	}
	return 0, false
}

// Cursor implements desktop.Cursorable.
func (mc *MapCanvas) Cursor() desktop.Cursor {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return cursorFor(mc.ctrl.Cursor())
}

// cursorFor maps engine cursors onto the standard cursors fyne offers. There
// are no diagonal resize or zoom cursors, so those fall back to the
// crosshair.
func cursorFor(c interact.Cursor) desktop.Cursor {
	switch c {
	case interact.CursorDefault, interact.CursorSelect:
		return desktop.DefaultCursor
	case interact.CursorPan, interact.CursorGrab:
		return desktop.PointerCursor
	case interact.CursorResizeN, interact.CursorResizeS:
		return desktop.VResizeCursor
	case interact.CursorResizeE, interact.CursorResizeW:
		return desktop.HResizeCursor
	}
	return desktop.CrosshairCursor
}

// CreateRenderer implements fyne.Widget.
func (mc *MapCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &mapCanvasRenderer{canvas: mc}
}

type mapCanvasRenderer struct {
	canvas *MapCanvas
}

func (r *mapCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *mapCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, 150)
}

func (r *mapCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *mapCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *mapCanvasRenderer) Destroy() {}
