package interact

// Mode is the tool chosen by the user. The pointer position can temporarily
// override it; see Hover.
type Mode int

const (
	ModeZoomIn Mode = iota
	ModeZoomOut
	ModePan
	ModeSelect
	ModeFeatureSelect
	ModeDigitize
	ModeModifyPixel
	// ModeResize is never a chosen tool. Mode reports it while the pointer
	// is over the resize band of a selected element.
	ModeResize
)

func (m Mode) String() string {
	switch m {
	case ModeZoomIn:
		return "zoom-in"
	case ModeZoomOut:
		return "zoom-out"
	case ModePan:
		return "pan"
	case ModeSelect:
		return "select"
	case ModeFeatureSelect:
		return "feature-select"
	case ModeDigitize:
		return "digitize"
	case ModeModifyPixel:
		return "modify-pixel"
	case ModeResize:
		return "resize"
	}
	return "unknown"
}

// ParseMode is the inverse of Mode.String for the chosen tools.
func ParseMode(s string) (Mode, bool) {
	for m := ModeZoomIn; m < ModeResize; m++ {
		if m.String() == s {
			return m, true
		}
	}
	return ModeSelect, false
}

// Hover says what the pointer was over at the last event.
type Hover int

const (
	HoverNone Hover = iota
	// HoverElement is any element other than a map area.
	HoverElement
	HoverMapArea
	// HoverResize is the band just outside a selected element.
	HoverResize
)

// Button identifies the mouse button of a click.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// ClickEvent is a completed press and release without movement.
type ClickEvent struct {
	// X and Y are canvas pixels.
	X, Y   float64
	Count  int
	Button Button
	Shift  bool
}

// Key is a keyboard key the controller responds to.
type Key int

const (
	KeyDelete Key = iota
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPlus
	KeyEquals
	KeyMinus
	KeyUnderscore
)

// Cursor is the pointer shape the host should show.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorZoomIn
	CursorZoomOut
	CursorPan
	CursorGrab
	CursorSelect
	CursorFeatureSelect
	CursorDigitize
	CursorResizeN
	CursorResizeS
	CursorResizeE
	CursorResizeW
	CursorResizeNE
	CursorResizeNW
	CursorResizeSE
	CursorResizeSW
)
