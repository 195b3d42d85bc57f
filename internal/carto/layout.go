package carto

import (
	"errors"
	"fmt"

	"map-composer/internal/typeface"
)

// Scale bar layout constants in points.
const (
	ScaleBarHeight       = 6
	ScaleLabelSpacing    = 4
	ScaleBarLabelSpacing = 3
	legendEntryHeight    = 60
	legendDefaultWidth   = 120
	mapAreaInset         = 4
)

// openFace resolves fonts for layout.
var openFace = typeface.Open

// UnavailableImageText is drawn in place of a MapImage that failed to load.
const UnavailableImageText = "Image unavailable"

// UnavailableImageFont is used for the placeholder of a missing MapImage.
var UnavailableImageFont = typeface.Font{Style: typeface.Bold, Size: 11}

// ScaleFontHeight is the label height used to lay out a scale bar: the line
// height without the descent.
func ScaleFontHeight(face *typeface.Face) float64 {
	return face.Height() - face.Descent()
}

// ContentHeight is the height of the units label, bar, end labels and the
// optional representative fraction stacked together.
func (s *MapScale) ContentHeight(face *typeface.Face) float64 {
	fh := ScaleFontHeight(face)
	if s.ShowRepresentativeFraction {
		return 3*fh + 2*ScaleLabelSpacing + ScaleBarHeight + ScaleBarLabelSpacing
	}
	return 2*fh + ScaleLabelSpacing + ScaleBarHeight + ScaleBarLabelSpacing
}

// EnsureLayout gives every element without a position or size its default
// placement on the page. Elements that already have one keep it, so calling
// it again is a no-op. An element that cannot be laid out does not stop the
// others; all failures are returned together.
func EnsureLayout(d *Document) error {
	var errs []error
	for _, e := range d.elements {
		if err := layoutElement(d, e); err != nil {
			errs = append(errs, fmt.Errorf("layout %s: %w", e.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func layoutElement(d *Document, e Element) error {
	switch el := e.(type) {
	case *MapArea:
		return layoutMapArea(d, el)
	case *MapTitle:
		return layoutMapTitle(d, el)
	case *MapTextArea:
		if !el.hasPosition {
			el.SetUpperLeft(d.Margin, d.Margin)
		}
	case *MapScale:
		return layoutMapScale(d, el)
	case *NorthArrow:
		if !el.hasPosition {
			h := el.MarkerSize / 2
			el.SetCentre(d.PageWidth-d.Margin-h, d.PageHeight-d.Margin-h)
		}
	case *Legend:
		if !el.hasSize {
			el.SetSize(2*el.Margin+legendDefaultWidth,
				2*el.Margin+float64(el.NumEntries())*legendEntryHeight)
		}
		if !el.hasPosition {
			el.SetUpperLeft(d.Margin, d.Margin)
		}
	case *Neatline:
		if !el.hasSize {
			el.SetSize(d.PageWidth-2*d.Margin, d.PageHeight-2*d.Margin)
		}
		if !el.hasPosition {
			el.SetUpperLeft(d.Margin, d.Margin)
		}
	case *MapImage:
		return layoutMapImage(d, el)
	case *Group:
		var errs []error
		for _, c := range el.children {
			if err := layoutElement(d, c); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	return nil
}

func layoutMapArea(d *Document, a *MapArea) error {
	face, err := openFace(a.LabelFont)
	if err != nil {
		return err
	}
	a.refMarkSize = face.Height() + 2
	if !a.hasSize {
		a.SetSize(d.PageWidth-2*d.Margin-mapAreaInset, d.PageHeight-2*d.Margin-mapAreaInset)
	}
	if !a.hasPosition {
		a.SetUpperLeft((d.PageWidth-a.width)/2, (d.PageHeight-a.height)/2)
	}
	return nil
}

func layoutMapTitle(d *Document, t *MapTitle) error {
	if !t.hasSize {
		face, err := openFace(t.Font)
		if err != nil {
			return err
		}
		t.SetSize(face.Advance(t.Label)+2*t.Margin, face.Height()+2*t.Margin)
	}
	if !t.hasPosition {
		t.SetUpperLeft((d.PageWidth-t.width)/2, d.Margin)
	}
	return nil
}

func layoutMapScale(d *Document, s *MapScale) error {
	face, err := openFace(s.Font)
	if err != nil {
		return err
	}
	if ch := s.ContentHeight(face); ch > s.height+2*s.Margin {
		s.SetSize(s.width, ch+2*s.Margin)
	}
	if !s.hasPosition {
		s.SetUpperLeft(d.Margin, d.PageHeight-d.Margin-s.height)
	}
	return nil
}

func layoutMapImage(d *Document, m *MapImage) error {
	if !m.hasSize {
		face, err := openFace(UnavailableImageFont)
		if err != nil {
			return err
		}
		m.SetSize(face.Advance(UnavailableImageText)+2, face.Height()+2)
	}
	if !m.hasPosition {
		m.SetUpperLeft(d.Margin, d.Margin)
	}
	return nil
}
