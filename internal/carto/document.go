package carto

import (
	"errors"
	"fmt"

	"map-composer/internal/typeface"
	"map-composer/pkg/geometry"
)

// ErrNoSuchElement is returned for an element number outside the list.
var ErrNoSuchElement = errors.New("no such element")

// Standard page sizes in points, portrait.
var (
	PageLetter = geometry.NewSize(612, 792)
	PageLegal  = geometry.NewSize(612, 1008)
	PageA4     = geometry.NewSize(595, 842)
)

// PageShadow is the width of the drop shadow drawn under the page in
// interactive views.
const PageShadow = 6.0

// Document is a map composition: a page and the elements placed on it.
// Element numbers equal list positions and define paint order.
type Document struct {
	Name string
	// PageWidth and PageHeight are the oriented page size in points.
	PageWidth  float64
	PageHeight float64
	// Margin is the printable-area inset in points.
	Margin      float64
	PageVisible bool
	DefaultFont typeface.Font

	pageExtent geometry.BoundingBox
	elements   []Element
	active     *MapArea
}

// NewDocument returns an empty landscape letter page with half-inch margins.
func NewDocument(name string) *Document {
	d := &Document{
		Name:        name,
		Margin:      36,
		PageVisible: true,
		DefaultFont: typeface.DefaultFont,
		pageExtent:  geometry.Uninitialized(),
	}
	d.SetPageSize(PageLetter, true)
	return d
}

// SetPageSize sets the page from a portrait size and orientation.
func (d *Document) SetPageSize(portrait geometry.Size, landscape bool) {
	if landscape {
		d.PageWidth, d.PageHeight = portrait.Height, portrait.Width
	} else {
		d.PageWidth, d.PageHeight = portrait.Width, portrait.Height
	}
}

// PageExtent returns the page-space region shown by the view. It is
// uninitialized until first paint or after ZoomToPage.
func (d *Document) PageExtent() geometry.BoundingBox { return d.pageExtent.Clone() }

// SetPageExtent stores a copy of bb as the visible page region.
func (d *Document) SetPageExtent(bb geometry.BoundingBox) { d.pageExtent = bb.Clone() }

// EffectivePageExtent returns the page extent, substituting the default when
// it is uninitialized. Interactive views include room for the page shadow;
// print output covers exactly the page.
func (d *Document) EffectivePageExtent(forPrint bool) geometry.BoundingBox {
	if d.pageExtent.IsInitialized() {
		return d.pageExtent.Clone()
	}
	if forPrint {
		return d.PrintPageExtent()
	}
	return geometry.NewBoundingBox(-PageShadow, -PageShadow,
		d.PageWidth+PageShadow*1.25, d.PageHeight+PageShadow*1.25)
}

// PrintPageExtent is the region a printed page covers: exactly the page,
// whatever the interactive view shows.
func (d *Document) PrintPageExtent() geometry.BoundingBox {
	return geometry.NewBoundingBox(0, 0, d.PageWidth-1, d.PageHeight-1)
}

// InitPageExtent assigns the default extent if none is set and returns the
// result.
func (d *Document) InitPageExtent(forPrint bool) geometry.BoundingBox {
	d.pageExtent = d.EffectivePageExtent(forPrint)
	return d.pageExtent.Clone()
}

// ZoomToPage resets the view to show the whole page.
func (d *Document) ZoomToPage() { d.pageExtent = geometry.Uninitialized() }

// Zoom recentres the page extent on (x, y) and scales its range by factor.
// An uninitialized extent is first given its interactive default.
func (d *Document) Zoom(x, y, factor float64) {
	pe := d.EffectivePageExtent(false)
	hw := pe.Width() * factor / 2
	hh := pe.Height() * factor / 2
	d.pageExtent = geometry.NewBoundingBox(x-hw, y-hh, x+hw, y+hh)
}

// ZoomIn zooms the page view in by 15% about (x, y).
func (d *Document) ZoomIn(x, y float64) { d.Zoom(x, y, 0.85) }

// ZoomOut zooms the page view out by 15% about (x, y).
func (d *Document) ZoomOut(x, y float64) { d.Zoom(x, y, 1.15) }

// Elements returns the elements in paint order.
func (d *Document) Elements() []Element { return d.elements }

// NumElements returns the number of top-level elements.
func (d *Document) NumElements() int { return len(d.elements) }

// Element returns element n, or nil.
func (d *Document) Element(n int) Element {
	if n < 0 || n >= len(d.elements) {
		return nil
	}
	return d.elements[n]
}

func (d *Document) renumber() {
	for i, e := range d.elements {
		e.base().number = i
	}
}

// Add appends an element to the top of the paint order. A map area becomes
// the active map area.
func (d *Document) Add(e Element) {
	e.base().number = len(d.elements)
	d.elements = append(d.elements, e)
	if a, ok := e.(*MapArea); ok {
		d.active = a
	}
}

// insertAt puts an element at index i, shifting the rest up.
func (d *Document) insertAt(i int, e Element) {
	d.elements = append(d.elements, nil)
	copy(d.elements[i+1:], d.elements[i:])
	d.elements[i] = e
	d.renumber()
}

// Remove deletes element n and renumbers the rest. Legends and scales that
// referred to a removed map area are detached from it.
func (d *Document) Remove(n int) error {
	if n < 0 || n >= len(d.elements) {
		return fmt.Errorf("remove element %d of %d: %w", n, len(d.elements), ErrNoSuchElement)
	}
	e := d.elements[n]
	d.elements = append(d.elements[:n], d.elements[n+1:]...)
	d.renumber()
	if a, ok := e.(*MapArea); ok {
		d.detach(a)
		if d.active == a {
			d.active = nil
		}
	}
	return nil
}

func (d *Document) detach(a *MapArea) {
	for _, e := range d.elements {
		switch el := e.(type) {
		case *Legend:
			el.RemoveMapArea(a)
		case *MapScale:
			if el.mapArea == a {
				el.mapArea = nil
			}
		}
	}
}

// RemoveSelected deletes every selected element and returns how many went.
func (d *Document) RemoveSelected() int {
	removed := 0
	for i := len(d.elements) - 1; i >= 0; i-- {
		if d.elements[i].Selected() {
			_ = d.Remove(i)
			removed++
		}
	}
	return removed
}

// RemoveAll empties the document.
func (d *Document) RemoveAll() {
	d.elements = nil
	d.active = nil
}

// DeselectAll clears every element's selection and forgets the explicit
// active map area.
func (d *Document) DeselectAll() {
	for _, e := range d.elements {
		e.SetSelected(false)
	}
	d.active = nil
}

// SelectedElements returns the selected elements in paint order.
func (d *Document) SelectedElements() []Element {
	var out []Element
	for _, e := range d.elements {
		if e.Selected() {
			out = append(out, e)
		}
	}
	return out
}

// NumSelected counts the selected elements.
func (d *Document) NumSelected() int {
	n := 0
	for _, e := range d.elements {
		if e.Selected() {
			n++
		}
	}
	return n
}

// MapAreas returns the top-level map areas in paint order.
func (d *Document) MapAreas() []*MapArea {
	var out []*MapArea
	for _, e := range d.elements {
		if a, ok := e.(*MapArea); ok {
			out = append(out, a)
		}
	}
	return out
}

// ActiveMapArea returns the explicitly activated map area, else the only
// one, else the last selected one, else the first. It is nil when the
// document has no map areas.
func (d *Document) ActiveMapArea() *MapArea {
	if d.active != nil {
		return d.active
	}
	areas := d.MapAreas()
	switch len(areas) {
	case 0:
		return nil
	case 1:
		d.active = areas[0]
		return d.active
	}
	for _, a := range areas {
		if a.Selected() {
			d.active = a
		}
	}
	if d.active == nil {
		d.active = areas[0]
	}
	return d.active
}

// SetActiveMapArea activates a map area.
func (d *Document) SetActiveMapArea(a *MapArea) { d.active = a }

// Promote moves element n one step up the paint order.
func (d *Document) Promote(n int) {
	if n >= 0 && n < len(d.elements)-1 {
		d.elements[n], d.elements[n+1] = d.elements[n+1], d.elements[n]
		d.renumber()
	}
	d.active = nil
}

// Demote moves element n one step down the paint order.
func (d *Document) Demote(n int) {
	if n > 0 && n < len(d.elements) {
		d.elements[n], d.elements[n-1] = d.elements[n-1], d.elements[n]
		d.renumber()
	}
	d.active = nil
}

// ElementAt returns the topmost visible element whose hit area contains the
// page point, or nil.
func (d *Document) ElementAt(x, y float64) Element {
	for i := len(d.elements) - 1; i >= 0; i-- {
		e := d.elements[i]
		if e.Visible() && HitTest(e, x, y) {
			return e
		}
	}
	return nil
}

func countKind(els []Element, k Kind) int {
	n := 0
	for _, e := range els {
		if e.Kind() == k {
			n++
		}
	}
	return n
}

func (d *Document) nextName(k Kind) string {
	return fmt.Sprintf("%s%d", k, countKind(d.elements, k)+1)
}

// AddMapTitle adds a title showing the document name.
func (d *Document) AddMapTitle() *MapTitle {
	t := NewMapTitle(d.nextName(KindMapTitle), d.Name)
	t.Font = typeface.Font{Style: typeface.Bold, Size: 20}
	d.Add(t)
	return t
}

// AddMapTextArea adds a text area in the default font.
func (d *Document) AddMapTextArea(text string) *MapTextArea {
	a := NewMapTextArea(d.nextName(KindMapTextArea), text)
	a.Font = d.DefaultFont
	d.Add(a)
	return a
}

// AddMapScale adds a scale bar for the active map area.
func (d *Document) AddMapScale() *MapScale {
	s := NewMapScale(d.nextName(KindMapScale), d.ActiveMapArea())
	s.Font = typeface.Font{Style: d.DefaultFont.Style, Size: 10}
	d.Add(s)
	return s
}

// AddNorthArrow adds a north arrow.
func (d *Document) AddNorthArrow() *NorthArrow {
	n := NewNorthArrow(d.nextName(KindNorthArrow))
	d.Add(n)
	return n
}

// AddNeatline adds a neatline at the bottom of the paint order.
func (d *Document) AddNeatline() *Neatline {
	n := NewNeatline(d.nextName(KindNeatline))
	d.insertAt(0, n)
	return n
}

// AddMapImage adds a picture loaded from fileName. The element is added even
// when loading fails; the error is returned for reporting.
func (d *Document) AddMapImage(fileName string) (*MapImage, error) {
	m := NewMapImage(d.nextName(KindMapImage), fileName)
	d.Add(m)
	return m, m.LoadError()
}

// AddLegend adds a legend listing every map area.
func (d *Document) AddLegend() *Legend {
	l := NewLegend(d.nextName(KindLegend))
	for _, a := range d.MapAreas() {
		l.AddMapArea(a)
	}
	l.Font = typeface.Font{Style: d.DefaultFont.Style, Size: 10}
	d.Add(l)
	return l
}

// AddMapArea adds an empty map area and makes it active.
func (d *Document) AddMapArea() *MapArea {
	a := NewMapArea(d.nextName(KindMapArea))
	a.LabelFont = typeface.Font{Style: d.DefaultFont.Style, Size: 10}
	d.Add(a)
	return a
}
