package render

import (
	"image/color"

	"map-composer/internal/typeface"
	"map-composer/pkg/geometry"
)

// drawString fills the glyph outlines of s with its baseline origin at
// (x, y).
func drawString(c Canvas, face *typeface.Face, s string, x, y float64, col color.RGBA) {
	if s == "" {
		return
	}
	c.FillPath(face.Outline(s, x, y), col)
}

// drawStringCentred centres s horizontally on x.
func drawStringCentred(c Canvas, face *typeface.Face, s string, x, y float64, col color.RGBA) {
	drawString(c, face, s, x-face.Advance(s)/2, y, col)
}

// drawStringRotated draws s rotated by deg degrees (clockwise on the page)
// about its baseline origin (x, y).
func drawStringRotated(c Canvas, face *typeface.Face, s string, x, y, deg float64, col color.RGBA) {
	if s == "" {
		return
	}
	xf := geometry.Translation(x, y).Compose(geometry.Rotation(geometry.Degrees(deg)))
	c.FillPath(face.Outline(s, 0, 0).Transform(xf), col)
}
