package interact

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"map-composer/internal/carto"
	"map-composer/internal/layer"
	"map-composer/internal/render"
	"map-composer/pkg/geometry"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// formatCoord formats with thousands separators and one decimal.
func formatCoord(v float64) string {
	return printer.Sprintf("%.1f", v)
}

// formatZ formats with thousands separators and up to four decimals.
func formatZ(v float64) string {
	s := printer.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// updateStatus writes the readout for a pointer at page point p over a.
// Outside the view the status line is cleared.
func (c *Controller) updateStatus(a *carto.MapArea, page render.PageTransform, p geometry.Point2D) {
	if c.host == nil {
		return
	}
	v, ok := c.mapView(a, page)
	if !ok {
		return
	}
	if !v.InView(p.X, p.Y) {
		c.host.SetStatus("")
		return
	}
	x, y := v.ToMap(p.X, p.Y)
	switch {
	case c.measuring && len(c.points) > 1:
		c.host.SetStatus(measureStatus(c.points, a.XYUnits()))
	case !a.IsActiveLayerVector():
		cell := a.RowAndColumn(x, y)
		if cell.Valid() {
			c.host.SetStatus(cellStatus(x, y, cell))
		} else {
			c.host.SetStatus(coordStatus(x, y))
		}
	default:
		c.host.SetStatus(coordStatus(x, y))
	}
}

func coordStatus(x, y float64) string {
	return fmt.Sprintf("E: %s  N: %s", formatCoord(x), formatCoord(y))
}

// measureStatus reports the length of the measured line and, from three
// points on, the area of the ring through them.
func measureStatus(points []geometry.Point2D, units string) string {
	s := "Distance: " + formatCoord(geometry.PolylineLength(points)) + units
	if len(points) > 2 {
		s += "   Enclosed Area: " + formatCoord(geometry.ShoelaceArea(points)) + " sqr. units"
	}
	return s
}

// cellStatus reports a raster cell. Packed colour rasters show their
// channels; the alpha channel only when it is not opaque.
func cellStatus(x, y float64, cell layer.GridCell) string {
	head := fmt.Sprintf("%s  Row: %d  Col: %d", coordStatus(x, y), cell.Row, cell.Col)
	if !cell.IsRGB || cell.NoData {
		var z string
		switch {
		case math.IsNaN(cell.Z):
			z = "Not Available"
		case cell.NoData:
			z = "NoData"
		default:
			z = formatZ(cell.Z)
		}
		return head + "  Z: " + z
	}
	v := uint32(int64(cell.Z))
	r, g, b, al := v&0xff, (v>>8)&0xff, (v>>16)&0xff, (v>>24)&0xff
	s := fmt.Sprintf("%s  R: %d  G: %d  B: %d", head, r, g, b)
	if al != 255 {
		s += "  A: " + strconv.Itoa(int(al))
	}
	return s
}
