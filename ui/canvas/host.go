package canvas

import (
	"fmt"
	"log"
	"strconv"

	"map-composer/internal/carto"
	"map-composer/internal/interact"
	"map-composer/internal/layer"
	"map-composer/internal/render"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// WindowHost connects a MapCanvas to its window: logging, dialogs and the
// status line.
//
// Fyne dialogs do not block, so the two questions the controller asks are
// answered later. EditPixelValue always declines and writes the value itself
// once the user confirms; Confirm declines, then replays the deletion with
// the answer preset.
type WindowHost struct {
	Window fyne.Window
	Canvas *MapCanvas
	Status *widget.Label
	// OnRelayout is called when element geometry or the active map area
	// changed, for panels that list them.
	OnRelayout func()

	approved string
}

var _ interact.Host = (*WindowHost)(nil)

// LogException implements render.Reporter.
func (h *WindowHost) LogException(context string, err error) {
	log.Printf("%s: %v", context, err)
}

// ShowFeedback implements render.Reporter.
func (h *WindowHost) ShowFeedback(msg string) {
	if h.Window == nil {
		log.Printf("feedback: %s", msg)
		return
	}
	dialog.ShowInformation("Map", msg, h.Window)
}

// RefreshMap implements interact.Host.
func (h *WindowHost) RefreshMap(relayout bool) {
	if h.Canvas != nil {
		h.Canvas.Repaint()
	}
	if relayout && h.OnRelayout != nil {
		h.OnRelayout()
	}
}

// SetStatus implements interact.Host.
func (h *WindowHost) SetStatus(msg string) {
	if h.Status != nil {
		h.Status.SetText(msg)
	}
}

// EditPixelValue implements interact.Host.
func (h *WindowHost) EditPixelValue(title string, cell layer.GridCell) (float64, bool) {
	if h.Window == nil || h.Canvas == nil {
		return 0, false
	}
	entry := widget.NewEntry()
	entry.SetText(strconv.FormatFloat(cell.Z, 'g', -1, 64))
	items := []*widget.FormItem{widget.NewFormItem("Value", entry)}
	msg := fmt.Sprintf("%s row %d, column %d", title, cell.Row, cell.Col)
	dialog.ShowForm(msg, "Set", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		z, err := strconv.ParseFloat(entry.Text, 64)
		if err != nil {
			h.ShowFeedback(fmt.Sprintf("%q is not a number.", entry.Text))
			return
		}
		h.Canvas.Do(func(c *interact.Controller) {
			a := c.Document().ActiveMapArea()
			if a == nil {
				return
			}
			r := a.ActiveRaster()
			if r == nil || r.Title() != title {
				return
			}
			if err := r.SetDataValue(cell.Row, cell.Col, z); err != nil {
				h.LogException("Error modifying pixel value", err)
			}
		})
	}, h.Window)
	return 0, false
}

// ShowProperties implements interact.Host.
func (h *WindowHost) ShowProperties(e carto.Element) {
	if e == nil {
		return
	}
	b := e.Bounds()
	msg := fmt.Sprintf("%s #%d\nposition %.1f, %.1f\nsize %.1f x %.1f",
		e.Kind(), e.Number(), b.X, b.Y, b.Width, b.Height)
	if h.Window == nil {
		log.Printf("properties of %s: %s", e.Name(), msg)
		return
	}
	dialog.ShowInformation(e.Name(), msg, h.Window)
}

// Confirm implements interact.Host. The controller only asks before
// deleting features, so a yes replays DeleteFeature.
func (h *WindowHost) Confirm(msg string) bool {
	if h.approved == msg {
		h.approved = ""
		return true
	}
	if h.Window == nil || h.Canvas == nil {
		return false
	}
	dialog.ShowConfirm("Delete", msg, func(ok bool) {
		if !ok {
			return
		}
		h.Canvas.Do(func(c *interact.Controller) {
			h.approved = msg
			c.DeleteFeature()
			h.approved = ""
		})
	}, h.Window)
	return false
}

// FeatureStarted implements interact.Host.
func (h *WindowHost) FeatureStarted(v *layer.Vector) {
	log.Printf("digitizing new feature on %s", v.Title())
}

// FeatureClosed implements interact.Host.
func (h *WindowHost) FeatureClosed(v *layer.Vector, record int) {
	log.Printf("added record %d to %s", record, v.Title())
	h.SetStatus(fmt.Sprintf("Added feature %d to %s", record, v.Title()))
}

// FrameReporter returns the reporter for the renderer. Paint failures repeat
// every frame, so they go to the log and the status line instead of a
// dialog.
func (h *WindowHost) FrameReporter() render.Reporter {
	return frameReporter{h}
}

type frameReporter struct{ h *WindowHost }

func (r frameReporter) LogException(context string, err error) { r.h.LogException(context, err) }
func (r frameReporter) ShowFeedback(msg string)                { r.h.SetStatus(msg) }
