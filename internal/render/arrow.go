package render

import (
	"fmt"
	"image/color"
	"strings"

	"map-composer/internal/carto"
	"map-composer/pkg/colorutil"
	"map-composer/pkg/geometry"

	"github.com/srwiley/oksvg"
)

// Arrow glyphs are drawn in a 100 x 100 box. The standard arrow has an open
// west half, a filled east half and an N beneath.
const (
	standardArrowSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
<path d="M50,0 L25,66.67 L50,50 Z" fill="none" stroke="%[1]s" stroke-width="%[2]g"/>
<path d="M50,0 L75,66.67 L50,50 Z" fill="%[1]s" stroke="%[1]s" stroke-width="%[2]g"/>
<path d="M37.5,100 L37.5,71.67 L42.5,71.67 L57.5,95 L57.5,71.67 L62.5,71.67 L62.5,100 L57.5,100 L42.5,76.67 L42.5,100 Z" fill="%[1]s"/>
</svg>`
	starArrowSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
<path d="M50,0 L58,42 L100,50 L58,58 L50,100 L42,58 L0,50 L42,42 Z" fill="none" stroke="%[1]s" stroke-width="%[2]g"/>
<path d="M50,0 L58,42 L50,50 L42,42 Z M100,50 L58,58 L50,50 Z M50,100 L42,58 L50,50 Z M0,50 L42,42 L50,50 Z" fill="%[1]s"/>
</svg>`
)

type arrowKey struct {
	style  carto.ArrowStyle
	colour color.RGBA
	width  float64
}

// arrowIcon parses and caches the glyph for a style, colour and stroke width.
func (r *Renderer) arrowIcon(k arrowKey) (*oksvg.SvgIcon, error) {
	if icon, ok := r.arrows[k]; ok {
		return icon, nil
	}
	tmpl := standardArrowSVG
	if k.style == carto.ArrowStar {
		tmpl = starArrowSVG
	}
	src := fmt.Sprintf(tmpl, colorutil.Hex(colorutil.WithAlpha(k.colour, 255)), k.width)
	icon, err := oksvg.ReadIconStream(strings.NewReader(src), oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("north arrow %s: %w", k.style, err)
	}
	if r.arrows == nil {
		r.arrows = make(map[arrowKey]*oksvg.SvgIcon)
	}
	r.arrows[k] = icon
	return icon, nil
}

func (r *Renderer) drawNorthArrow(c Canvas, pc PaintContext, n *carto.NorthArrow) error {
	b := n.Bounds()
	drawBackground(c, &n.Base, b)
	drawFrame(c, pc, &n.Base, b, n.BorderWidth)

	size := n.GlyphSize()
	if size <= 0 {
		return nil
	}
	// Stroke width in glyph box units.
	w := n.LineWidth * 100 / size
	icon, err := r.arrowIcon(arrowKey{style: n.Style, colour: n.OutlineColour, width: w})
	if err != nil {
		return err
	}
	ctr := n.Centre()
	c.DrawSVG(icon, geometry.NewRect(ctr.X-size/2, ctr.Y-size/2, size, size))
	return nil
}
