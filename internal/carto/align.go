package carto

import (
	"sort"
)

func moveX(e Element, x float64) { e.SetUpperLeft(x, e.Bounds().Y) }
func moveY(e Element, y float64) { e.SetUpperLeft(e.Bounds().X, y) }

// CentreSelectedVertically lines up the vertical centre lines of the
// selected elements on their average, or centres a single element across
// the page.
func (d *Document) CentreSelectedVertically() bool {
	sel := d.SelectedElements()
	switch len(sel) {
	case 0:
		return false
	case 1:
		b := sel[0].Bounds()
		moveX(sel[0], d.PageWidth/2-b.Width/2)
		return true
	}
	mid := 0.0
	for _, e := range sel {
		b := e.Bounds()
		mid += b.X + b.Width/2
	}
	mid /= float64(len(sel))
	for _, e := range sel {
		moveX(e, mid-e.Bounds().Width/2)
	}
	return true
}

// CentreSelectedHorizontally lines up the horizontal centre lines of the
// selected elements on their average, or centres a single element down the
// page.
func (d *Document) CentreSelectedHorizontally() bool {
	sel := d.SelectedElements()
	switch len(sel) {
	case 0:
		return false
	case 1:
		b := sel[0].Bounds()
		moveY(sel[0], d.PageHeight/2-b.Height/2)
		return true
	}
	mid := 0.0
	for _, e := range sel {
		b := e.Bounds()
		mid += b.Y + b.Height/2
	}
	mid /= float64(len(sel))
	for _, e := range sel {
		moveY(e, mid-e.Bounds().Height/2)
	}
	return true
}

// AlignSelectedLeft aligns left edges on the leftmost, or a single element
// on the left margin.
func (d *Document) AlignSelectedLeft() bool {
	sel := d.SelectedElements()
	if len(sel) == 0 {
		return false
	}
	x := d.Margin
	if len(sel) > 1 {
		x = sel[0].Bounds().X
		for _, e := range sel[1:] {
			if b := e.Bounds(); b.X < x {
				x = b.X
			}
		}
	}
	for _, e := range sel {
		moveX(e, x)
	}
	return true
}

// AlignSelectedRight aligns right edges on the rightmost, or a single
// element on the right margin.
func (d *Document) AlignSelectedRight() bool {
	sel := d.SelectedElements()
	if len(sel) == 0 {
		return false
	}
	x := d.PageWidth - d.Margin
	if len(sel) > 1 {
		x = sel[0].Bounds().BottomRight().X
		for _, e := range sel[1:] {
			if r := e.Bounds().BottomRight().X; r > x {
				x = r
			}
		}
	}
	for _, e := range sel {
		moveX(e, x-e.Bounds().Width)
	}
	return true
}

// AlignSelectedTop aligns top edges on the topmost, or a single element on
// the top margin.
func (d *Document) AlignSelectedTop() bool {
	sel := d.SelectedElements()
	if len(sel) == 0 {
		return false
	}
	y := d.Margin
	if len(sel) > 1 {
		y = sel[0].Bounds().Y
		for _, e := range sel[1:] {
			if b := e.Bounds(); b.Y < y {
				y = b.Y
			}
		}
	}
	for _, e := range sel {
		moveY(e, y)
	}
	return true
}

// AlignSelectedBottom aligns bottom edges on the lowest, or a single element
// on the bottom margin.
func (d *Document) AlignSelectedBottom() bool {
	sel := d.SelectedElements()
	if len(sel) == 0 {
		return false
	}
	y := d.PageHeight - d.Margin
	if len(sel) > 1 {
		y = sel[0].Bounds().BottomRight().Y
		for _, e := range sel[1:] {
			if b := e.Bounds().BottomRight().Y; b > y {
				y = b
			}
		}
	}
	for _, e := range sel {
		moveY(e, y-e.Bounds().Height)
	}
	return true
}

// DistributeSelectedVertically spaces three or more selected elements so the
// gaps between them are equal, keeping the top and bottom ones in place.
func (d *Document) DistributeSelectedVertically() bool {
	sel := d.SelectedElements()
	if len(sel) < 3 {
		return false
	}
	sort.SliceStable(sel, func(i, j int) bool {
		bi, bj := sel[i].Bounds(), sel[j].Bounds()
		return bi.Y+bi.Height/2 < bj.Y+bj.Height/2
	})
	top, bottom, total := sel[0].Bounds().Y, 0.0, 0.0
	for _, e := range sel {
		b := e.Bounds()
		if b.Y < top {
			top = b.Y
		}
		if lr := b.Y + b.Height; lr > bottom {
			bottom = lr
		}
		total += b.Height
	}
	gap := ((bottom - top) - total) / float64(len(sel)-1)
	for i := 1; i < len(sel)-1; i++ {
		prev := sel[i-1].Bounds()
		moveY(sel[i], prev.Y+prev.Height+gap)
	}
	return true
}

// DistributeSelectedHorizontally spaces three or more selected elements so
// the gaps between them are equal, keeping the leftmost and rightmost ones in
// place.
func (d *Document) DistributeSelectedHorizontally() bool {
	sel := d.SelectedElements()
	if len(sel) < 3 {
		return false
	}
	sort.SliceStable(sel, func(i, j int) bool {
		bi, bj := sel[i].Bounds(), sel[j].Bounds()
		return bi.X+bi.Width/2 < bj.X+bj.Width/2
	})
	left, right, total := sel[0].Bounds().X, 0.0, 0.0
	for _, e := range sel {
		b := e.Bounds()
		if b.X < left {
			left = b.X
		}
		if lr := b.X + b.Width; lr > right {
			right = lr
		}
		total += b.Width
	}
	gap := ((right - left) - total) / float64(len(sel)-1)
	for i := 1; i < len(sel)-1; i++ {
		prev := sel[i-1].Bounds()
		moveX(sel[i], prev.X+prev.Width+gap)
	}
	return true
}

// GroupSelected replaces two or more selected elements with a selected group
// holding them, added on top of the paint order.
func (d *Document) GroupSelected() *Group {
	sel := d.SelectedElements()
	if len(sel) < 2 {
		return nil
	}
	keep := d.elements[:0:0]
	for _, e := range d.elements {
		if !e.Selected() {
			keep = append(keep, e)
		}
	}
	for _, e := range sel {
		e.SetSelected(false)
	}
	d.elements = keep
	d.renumber()

	g := NewGroup(d.nextName(KindGroup), sel)
	g.SetSelected(true)
	d.Add(g)
	return g
}

// UngroupSelected dissolves every selected group, appending its children
// after the remaining elements.
func (d *Document) UngroupSelected() int {
	var groups []*Group
	var rest []Element
	for _, e := range d.elements {
		if g, ok := e.(*Group); ok && g.Selected() {
			groups = append(groups, g)
			continue
		}
		rest = append(rest, e)
	}
	if len(groups) == 0 {
		return 0
	}
	d.elements = rest
	d.renumber()
	for _, g := range groups {
		for _, c := range g.children {
			d.Add(c)
		}
	}
	return len(groups)
}
