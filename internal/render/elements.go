package render

import (
	"map-composer/internal/carto"
	"map-composer/internal/typeface"
	"map-composer/pkg/colorutil"
	"map-composer/pkg/geometry"
)

// titleOutlineWidth is the stroke width of an outlined title.
const titleOutlineWidth = 1

func drawMapTitle(c Canvas, pc PaintContext, t *carto.MapTitle) error {
	face, err := typeface.Open(t.Font)
	if err != nil {
		return err
	}
	b := t.Bounds()
	drawBackground(c, &t.Base, b)
	drawFrame(c, pc, &t.Base, b, t.BorderWidth)

	x := b.X + t.Margin
	y := b.Y + t.Margin + face.Height() - face.Descent()
	xf := geometry.Translation(x, y).Compose(geometry.Rotation(geometry.Degrees(t.Rotation)))
	glyphs := face.Outline(t.Label, 0, 0).Transform(xf)
	c.FillPath(glyphs, t.FontColour)
	if t.OutlineVisible {
		c.StrokePath(glyphs, Solid(t.OutlineColour, titleOutlineWidth))
	}
	return nil
}

// drawMapTextArea wraps the text inside the margin and stops at the first
// line whose baseline falls below the box.
func drawMapTextArea(c Canvas, pc PaintContext, a *carto.MapTextArea) error {
	face, err := typeface.Open(a.Font)
	if err != nil {
		return err
	}
	b := a.Bounds()
	drawBackground(c, &a.Base, b)
	drawFrame(c, pc, &a.Base, b, a.BorderWidth)
	if a.Text == "" {
		return nil
	}

	x1 := b.X + a.Margin
	y := b.Y + a.Margin
	x2 := b.X + b.Width - a.Margin
	y2 := b.Y + b.Height - a.Margin
	asc := face.Ascent()
	step := face.Descent() + face.Leading() + (a.InterlineSpace-1)*asc

	c.SetClip(b)
	defer c.ClearClip()
	for _, line := range a.Lines(face, x2-x1) {
		y += asc
		if line == "" {
			continue
		}
		drawString(c, face, line, x1, y, a.FontColour)
		y += step
		if y > y2 {
			break
		}
	}
	return nil
}

const scaleBarStroke = 0.5

func drawMapScale(c Canvas, pc PaintContext, s *carto.MapScale) error {
	s.UpdateScale()
	if s.Scale() <= 0 {
		return nil
	}
	face, err := typeface.Open(s.Font)
	if err != nil {
		return err
	}
	b := s.Bounds()
	drawBackground(c, &s.Base, b)
	drawFrame(c, pc, &s.Base, b, s.BorderWidth)

	fh := carto.ScaleFontHeight(face)
	content := s.ContentHeight(face)
	bottom := b.Y + (b.Height-content)/2 + content
	midX := b.X + b.Width/2

	barY := bottom - fh - carto.ScaleLabelSpacing - carto.ScaleBarHeight
	labelY := barY - carto.ScaleBarLabelSpacing

	if s.ShowGraphicalScale && s.Divisions > 0 {
		drawStringCentred(c, face, s.Units, midX, bottom, s.FontColour)

		seg := s.BarLength * s.ConversionToMetres / s.Scale() * carto.PointsPerMetre / float64(s.Divisions)
		total := seg * float64(s.Divisions)
		x0 := b.X + (b.Width-total)/2
		drawScaleBar(c, s, x0, barY, seg)

		drawStringCentred(c, face, s.LowerLabel, x0, labelY, s.FontColour)
		drawStringCentred(c, face, s.UpperLabel, x0+total, labelY, s.FontColour)
	}
	if s.ShowRepresentativeFraction {
		drawStringCentred(c, face, s.RepresentativeFraction, midX, labelY-fh-carto.ScaleLabelSpacing, s.FontColour)
	}
	return nil
}

func drawScaleBar(c Canvas, s *carto.MapScale, x0, y, seg float64) {
	const h = carto.ScaleBarHeight
	stroke := Solid(s.OutlineColour, scaleBarStroke)
	for k := 0; k < s.Divisions; k++ {
		x := x0 + float64(k)*seg
		odd := k%2 == 1
		switch s.Style {
		case carto.ScaleSimple:
			var p geometry.Path
			p.MoveTo(x, y)
			p.LineTo(x, y+h)
			p.LineTo(x+seg, y+h)
			p.LineTo(x+seg, y)
			c.StrokePath(p, stroke)
		case carto.ScaleComplex:
			top := geometry.NewRect(x, y, seg, h/2)
			bot := geometry.NewRect(x, y+h/2, seg, h/2)
			if odd {
				fillRect(c, top, s.OutlineColour)
			} else {
				fillRect(c, bot, s.OutlineColour)
			}
			strokeRect(c, top, stroke)
			strokeRect(c, bot, stroke)
		default:
			r := geometry.NewRect(x, y, seg, h)
			if odd {
				fillRect(c, r, s.OutlineColour)
			}
			strokeRect(c, r, stroke)
		}
	}
}

func drawNeatline(c Canvas, pc PaintContext, n *carto.Neatline) {
	b := n.Bounds()
	if n.BackgroundVisible {
		if n.DoubleLine {
			fillRect(c, b.Inset(n.Gap), n.BackgroundColour)
		} else {
			fillRect(c, b, n.BackgroundColour)
		}
	}
	selected := n.Selected() && !pc.ForPrint
	if !n.BorderVisible && !selected {
		return
	}
	outer := Solid(n.BorderColour, n.OuterLineWidth)
	inner := Solid(n.BorderColour, n.InnerLineWidth)
	if selected {
		outer = pc.SelectionStroke()
		inner.Colour = pc.SelectedColour
	}
	strokeRect(c, b, outer)
	if n.DoubleLine {
		strokeRect(c, b.Inset(n.Gap), inner)
	}
}

// drawMapImage scales the picture into the element, or writes a placeholder
// when it could not be loaded.
func drawMapImage(c Canvas, pc PaintContext, m *carto.MapImage) error {
	b := m.Bounds()
	switch {
	case m.Icon() != nil:
		c.DrawSVG(m.Icon(), b)
	case m.Image() != nil:
		c.DrawImage(m.Image(), b, true)
	default:
		face, err := typeface.Open(carto.UnavailableImageFont)
		if err != nil {
			return err
		}
		drawString(c, face, carto.UnavailableImageText, b.X+1, b.Y+face.Height()-1, colorutil.Black)
	}
	drawFrame(c, pc, &m.Base, b, m.LineWidth)
	return nil
}
