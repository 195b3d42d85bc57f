package carto

import (
	"map-composer/pkg/geometry"
)

// HitTest reports whether the page point (x, y) falls on e.
func HitTest(e Element, x, y float64) bool {
	p := geometry.Pt(x, y)
	switch el := e.(type) {
	case *MapArea:
		return hitMapArea(el, p)
	case *NorthArrow:
		return hitNorthArrow(el, p)
	case *Group:
		return hitGroup(el, p)
	case *MapTitle, *MapTextArea, *MapScale, *Legend, *Neatline, *MapImage:
		return e.Bounds().Contains(p)
	default:
		return false
	}
}

// hitMapArea counts the reference band as part of the element so the area
// can be grabbed by its frame.
func hitMapArea(a *MapArea, p geometry.Point2D) bool {
	return a.Bounds().Contains(p)
}

func hitNorthArrow(n *NorthArrow, p geometry.Point2D) bool {
	c := n.Centre()
	h := n.MarkerSize / 2
	return p.X >= c.X-h && p.X <= c.X+h && p.Y >= c.Y-h && p.Y <= c.Y+h
}

// hitGroup uses the union rectangle, so the gaps between children also grab
// the group.
func hitGroup(g *Group, p geometry.Point2D) bool {
	return len(g.children) > 0 && g.Bounds().Contains(p)
}

// EdgeAt reports which resize handle of e lies under (x, y). Handles occupy
// a band tol points wide just outside the element's rectangle.
func EdgeAt(e Element, x, y, tol float64) (ResizeMode, bool) {
	b := e.Bounds()
	outer := geometry.NewRect(b.X-tol, b.Y-tol, b.Width+2*tol, b.Height+2*tol)
	p := geometry.Pt(x, y)
	if !outer.Contains(p) || b.Contains(p) {
		return 0, false
	}
	right, bottom := b.X+b.Width, b.Y+b.Height
	inX := x >= b.X && x <= right
	inY := y >= b.Y && y <= bottom
	switch {
	case inX && y < b.Y:
		return ResizeN, true
	case inX && y > bottom:
		return ResizeS, true
	case inY && x > right:
		return ResizeE, true
	case inY && x < b.X:
		return ResizeW, true
	case x < b.X && y < b.Y:
		return ResizeNW, true
	case x > right && y < b.Y:
		return ResizeNE, true
	case x < b.X && y > bottom:
		return ResizeSW, true
	default:
		return ResizeSE, true
	}
}
