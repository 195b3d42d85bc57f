package interact

import (
	"map-composer/internal/carto"
	"map-composer/internal/layer"
	"map-composer/internal/render"
)

// Host is the application around the controller. All calls are made on the
// goroutine that delivers events.
type Host interface {
	render.Reporter

	// RefreshMap asks for a repaint. relayout is set when the layer list or
	// element list changed and dependent views need rebuilding.
	RefreshMap(relayout bool)
	// SetStatus replaces the status line text.
	SetStatus(msg string)
	// EditPixelValue asks the user for a new value of a raster cell. It
	// blocks until the user answers.
	EditPixelValue(layerTitle string, cell layer.GridCell) (float64, bool)
	// ShowProperties opens the property editor of an element.
	ShowProperties(e carto.Element)
	// Confirm asks a yes/no question.
	Confirm(msg string) bool
	// FeatureStarted and FeatureClosed bracket each digitized feature.
	FeatureStarted(v *layer.Vector)
	FeatureClosed(v *layer.Vector, record int)
}
