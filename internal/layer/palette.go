package layer

import (
	"image/color"

	"map-composer/pkg/colorutil"
)

// Palette is an ordered list of colours indexed by scaled data value.
type Palette []color.RGBA

// Reversed returns the palette in the opposite order.
func (p Palette) Reversed() Palette {
	out := make(Palette, len(p))
	for i, c := range p {
		out[len(p)-1-i] = c
	}
	return out
}

// At returns the colour for t in [0, 1] by nearest entry.
func (p Palette) At(t float64) color.RGBA {
	if len(p) == 0 {
		return colorutil.Transparent
	}
	i := int(t * float64(len(p)-1))
	if i < 0 {
		i = 0
	} else if i > len(p)-1 {
		i = len(p) - 1
	}
	return p[i]
}

// Ramp builds an n-entry palette interpolated through the given stops.
func Ramp(n int, stops ...color.RGBA) Palette {
	if n <= 0 || len(stops) == 0 {
		return nil
	}
	p := make(Palette, n)
	if len(stops) == 1 || n == 1 {
		for i := range p {
			p[i] = stops[0]
		}
		return p
	}
	segs := float64(len(stops) - 1)
	for i := range p {
		t := float64(i) / float64(n-1) * segs
		k := int(t)
		if k >= len(stops)-1 {
			k = len(stops) - 2
		}
		p[i] = colorutil.Lerp(stops[k], stops[k+1], t-float64(k))
	}
	return p
}

// Built-in palettes.
var (
	GreyPalette     = Ramp(256, colorutil.Black, colorutil.White)
	SpectrumPalette = Ramp(256,
		color.RGBA{R: 0, G: 0, B: 180, A: 255},
		color.RGBA{R: 0, G: 200, B: 255, A: 255},
		color.RGBA{R: 60, G: 200, B: 60, A: 255},
		color.RGBA{R: 255, G: 230, B: 0, A: 255},
		color.RGBA{R: 200, G: 30, B: 0, A: 255},
	)
	QualitativePalette = Palette{
		{R: 141, G: 211, B: 199, A: 255},
		{R: 255, G: 255, B: 179, A: 255},
		{R: 190, G: 186, B: 218, A: 255},
		{R: 251, G: 128, B: 114, A: 255},
		{R: 128, G: 177, B: 211, A: 255},
		{R: 253, G: 180, B: 98, A: 255},
		{R: 179, G: 222, B: 105, A: 255},
		{R: 252, G: 205, B: 229, A: 255},
	}
)
