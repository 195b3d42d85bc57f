package interact

import (
	"errors"
	"fmt"

	"map-composer/internal/carto"
	"map-composer/internal/layer"
	"map-composer/internal/render"
	"map-composer/pkg/geometry"
)

const (
	digitizeErrorContext = "Error adding new digitized point"
	digitizeFeedback     = "An error has been encountered while digitizing."
	noDigitizedNode      = "This tool removes the last digitized node in a feature that is being actively digitized.\n" +
		"It does not appear that there is a feature that is being digitized currently."
	noSelectedFeature = "There is no feature currently selected. Select a feature before deleting."
	noEditedLayer     = "The active layer is not a vector being edited."
	noRasterToModify  = "The active layer is not a raster. There is no raster layer to modify."
)

// Click handles a completed click. The first matching rule wins.
func (c *Controller) Click(ev ClickEvent) {
	page, p := c.toPage(ev.X, ev.Y)
	c.locate(p)
	primary := ev.Button == ButtonPrimary
	onElement := c.hover == HoverElement || c.hover == HoverMapArea
	zooming := c.mode == ModeZoomIn || c.mode == ModeZoomOut

	switch {
	case c.mode == ModeDigitize:
		if primary {
			c.digitizeClick(page, p, ev.Count)
		}

	case ev.Count == 2 && onElement && !c.measuring && !zooming && c.mode != ModeModifyPixel:
		if c.host != nil {
			c.host.ShowProperties(c.target)
		}

	case zooming && primary && !c.measuring && c.mode != ModeModifyPixel:
		step := float64(ev.Count) * zoomClickStep
		if c.mode == ModeZoomIn {
			step = -step
		}
		c.zoomAt(page, p, 1+step, 1+step)
		c.repaint()

	case ev.Count == 1 && c.mode == ModeModifyPixel && c.hover != HoverElement && primary:
		c.modifyPixel(page, p)

	case ev.Count == 1 && c.measuring && primary:
		c.measureClick(page, p)

	case ev.Count == 1 && primary &&
		(c.hover == HoverElement || (c.hover == HoverMapArea && c.mode != ModeFeatureSelect)):
		c.toggleSelection(ev.Shift)

	case ev.Count == 1 && primary && c.mode == ModeFeatureSelect:
		if a := c.targetArea(); a != nil {
			if mp, ok := c.mapPoint(a, page, p); ok {
				a.SelectVectorFeatures(mp.X, mp.Y)
				c.updateStatus(a, page, p)
			}
			c.repaint()
		}

	case ev.Count == 2 && c.measuring:
		c.points = nil
		c.repaint()

	case !primary && onElement && ev.Count == 1:
		if c.host != nil {
			c.host.ShowProperties(c.target)
		}

	default:
		c.doc.DeselectAll()
		c.repaint()
	}
}

// zoomAt zooms the map area under p about the map point there, or the page
// about p when no map area with data is under it.
func (c *Controller) zoomAt(page render.PageTransform, p geometry.Point2D, mapFactor, pageFactor float64) {
	if mapFactor <= 0 || pageFactor <= 0 {
		return
	}
	if a := c.targetArea(); a != nil && a.NumLayers() > 0 {
		if mp, ok := c.mapPoint(a, page, p); ok {
			a.NaturalZoom(mp.X, mp.Y, mapFactor)
			return
		}
	}
	c.doc.Zoom(p.X, p.Y, pageFactor)
}

// toggleSelection selects the element under the pointer, or clears the
// selection when it is already selected.
func (c *Controller) toggleSelection(shift bool) {
	if c.target.Selected() {
		c.doc.DeselectAll()
		c.repaint()
		return
	}
	if !shift {
		c.doc.DeselectAll()
	}
	c.target.SetSelected(true)
	if a := c.targetArea(); a != nil {
		c.doc.SetActiveMapArea(a)
		c.refresh()
		return
	}
	c.repaint()
}

// measureClick adds a vertex to the measured line.
func (c *Controller) measureClick(page render.PageTransform, p geometry.Point2D) {
	a := c.targetArea()
	if a == nil || a != c.doc.ActiveMapArea() {
		return
	}
	mp, ok := c.mapPoint(a, page, p)
	if !ok {
		return
	}
	c.points = append(c.points, mp)
	c.updateStatus(a, page, p)
	c.refresh()
}

// digitizeClick adds a vertex to the feature being digitized on the active
// vector layer. A double click, or any click on a point layer, closes the
// feature.
func (c *Controller) digitizeClick(page render.PageTransform, p geometry.Point2D, count int) {
	a, v := c.activeVector()
	if v == nil {
		return
	}
	mp, ok := c.mapPoint(a, page, p)
	if !ok {
		return
	}
	if count < 2 {
		if err := c.addNode(v, mp); err != nil {
			c.reportDigitize(err)
			c.repaint()
			return
		}
		c.points = append(c.points, mp)
		c.updateStatus(a, page, p)
	}
	if count >= 2 || v.ShapeType().Base() == layer.ShapePoint {
		c.closeFeature(v)
	}
	c.repaint()
}

func (c *Controller) addNode(v *layer.Vector, mp geometry.Point2D) error {
	if !v.FeatureOpen() || len(c.points) == 0 {
		if err := v.OpenNewFeature(); err != nil {
			return err
		}
		if c.host != nil {
			c.host.FeatureStarted(v)
		}
	}
	return v.AddNodeToNewFeature(mp.X, mp.Y)
}

// closeFeature finishes the feature. On failure the vertices stay so the
// user can add more and try again.
func (c *Controller) closeFeature(v *layer.Vector) {
	n, err := v.CloseNewFeature()
	if err != nil {
		c.reportDigitize(err)
		return
	}
	c.points = nil
	if c.host != nil {
		c.host.FeatureClosed(v, n)
	}
}

func (c *Controller) reportDigitize(err error) {
	if c.host == nil {
		return
	}
	c.host.LogException(digitizeErrorContext, err)
	c.host.ShowFeedback(digitizeFeedback)
}

// modifyPixel resolves the clicked cell of the active raster, marks it and
// asks the host for a new value.
func (c *Controller) modifyPixel(page render.PageTransform, p geometry.Point2D) {
	a := c.targetArea()
	if a == nil {
		return
	}
	mp, ok := c.mapPoint(a, page, p)
	if !ok {
		return
	}
	r := a.ActiveRaster()
	if r == nil {
		c.feedback(noRasterToModify)
		return
	}
	cell := r.RowAndColumn(mp.X, mp.Y)
	if !cell.Valid() {
		c.crosshair = false
		c.repaint()
		return
	}
	c.crosshair = true
	c.crosshairAt = geometry.Pt(r.XFromColumn(cell.Col), r.YFromRow(cell.Row))
	c.repaint()
	if c.host == nil {
		return
	}
	z, ok := c.host.EditPixelValue(r.Title(), cell)
	if !ok {
		return
	}
	if err := r.SetDataValue(cell.Row, cell.Col, z); err != nil {
		c.host.LogException("Error modifying pixel value", err)
		c.host.ShowFeedback(fmt.Sprintf("The value at row %d, column %d could not be changed.", cell.Row, cell.Col))
		return
	}
	c.repaint()
}

// Wheel zooms the map area under the pointer about the map point there, or
// the page about the pointer elsewhere. Positive notches zoom out.
func (c *Controller) Wheel(x, y, notches float64) {
	page, p := c.toPage(x, y)
	c.locate(p)
	n := notches * c.ScrollDirection
	c.zoomAt(page, p, 1+n*wheelMapStep, 1+n*wheelPageStep)
	c.repaint()
}

// Key handles a key press.
func (c *Controller) Key(k Key) {
	if k == KeyDelete || k == KeyBackspace {
		if _, v := c.editedVector(); v != nil {
			c.DeleteFeature()
			return
		}
		c.doc.RemoveSelected()
		c.refresh()
		return
	}
	a := c.doc.ActiveMapArea()
	if a == nil {
		return
	}
	switch k {
	case KeyDown:
		a.PanDown()
	case KeyUp:
		a.PanUp()
	case KeyLeft:
		a.PanLeft()
	case KeyRight:
		a.PanRight()
	case KeyPlus, KeyEquals:
		a.ZoomIn()
	case KeyMinus, KeyUnderscore:
		a.ZoomOut()
	default:
		return
	}
	c.refresh()
}

// editedVector returns the active vector layer of the active map area when
// it is being edited.
func (c *Controller) editedVector() (*carto.MapArea, *layer.Vector) {
	a := c.doc.ActiveMapArea()
	if a == nil {
		return nil, nil
	}
	v := a.ActiveVector()
	if v == nil || !v.ActivelyEdited() {
		return a, nil
	}
	return a, v
}

// DeleteFeature deletes the selected features of the edited vector layer
// after the host confirms. Without a selection it only tells the user.
func (c *Controller) DeleteFeature() {
	_, v := c.editedVector()
	if v == nil {
		c.feedback(noEditedLayer)
		return
	}
	if v.SelectedFeatureNumber() < 0 {
		c.feedback(noSelectedFeature)
		return
	}
	nums := v.SelectedFeatureNumbers()
	msg := "Are you sure you want to delete the selected feature?"
	if len(nums) > 1 {
		msg = fmt.Sprintf("Are you sure you want to delete the %d selected features?", len(nums))
	}
	if c.host == nil || !c.host.Confirm(msg) {
		return
	}
	var errs []error
	for _, n := range nums {
		if err := v.DeleteRecord(n); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		c.host.LogException("Error deleting feature", err)
		c.host.ShowFeedback("Not every selected feature could be deleted.")
	}
	c.refresh()
}

// RemoveLastNode drops the most recent measured or digitized vertex.
func (c *Controller) RemoveLastNode() {
	if len(c.points) == 0 {
		c.feedback(noDigitizedNode)
		return
	}
	if c.mode == ModeDigitize {
		if _, v := c.editedVector(); v != nil && v.FeatureOpen() {
			if err := v.RemoveLastNode(); err != nil {
				c.feedback(noDigitizedNode)
				return
			}
		}
	}
	c.points = c.points[:len(c.points)-1]
	c.repaint()
}
