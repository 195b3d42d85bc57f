package carto

import (
	"map-composer/pkg/geometry"
)

// Group is an element made of other elements. Its bounds are always the
// union of its children's, so it carries no size of its own.
type Group struct {
	Base
	children []Element
}

// NewGroup wraps elements into a group.
func NewGroup(name string, children []Element) *Group {
	g := &Group{Base: newBase(name)}
	g.children = append(g.children, children...)
	for i, c := range g.children {
		c.base().number = i
	}
	return g
}

func (g *Group) Kind() Kind { return KindGroup }

// Elements returns the children in paint order.
func (g *Group) Elements() []Element { return g.children }

// Placed reports whether every child is placed.
func (g *Group) Placed() bool {
	for _, c := range g.children {
		if !c.Placed() {
			return false
		}
	}
	return len(g.children) > 0
}

// Bounds returns the union of the children's rectangles.
func (g *Group) Bounds() geometry.Rect {
	var r geometry.Rect
	for i, c := range g.children {
		if i == 0 {
			r = c.Bounds()
			continue
		}
		r = r.Union(c.Bounds())
	}
	return r
}

// SetUpperLeft moves every child by the same offset.
func (g *Group) SetUpperLeft(x, y float64) {
	b := g.Bounds()
	dx, dy := x-b.X, y-b.Y
	for _, c := range g.children {
		cb := c.Bounds()
		c.SetUpperLeft(cb.X+dx, cb.Y+dy)
	}
}

// Resize is a no-op; groups are resized through their children.
func (g *Group) Resize(x, y float64, mode ResizeMode) {}
