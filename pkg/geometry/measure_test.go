package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShoelaceAreaUnitSquare(t *testing.T) {
	ccw := []Point2D{Pt(0, 0), Pt(1, 0), Pt(1, 1), Pt(0, 1)}
	cw := []Point2D{Pt(0, 0), Pt(0, 1), Pt(1, 1), Pt(1, 0)}

	assert.InDelta(t, 1.0, ShoelaceArea(ccw), 1e-12)
	assert.InDelta(t, 1.0, ShoelaceArea(cw), 1e-12)
}

func TestShoelaceAreaTooFewPoints(t *testing.T) {
	assert.Equal(t, -1.0, ShoelaceArea([]Point2D{Pt(0, 0), Pt(1, 1)}))
}

func TestPolylineLength(t *testing.T) {
	pts := []Point2D{Pt(0, 0), Pt(3, 4), Pt(3, 10)}
	assert.InDelta(t, 11.0, PolylineLength(pts), 1e-12)
	assert.Zero(t, PolylineLength(pts[:1]))
}

func TestAffineComposeAppliesRightFirst(t *testing.T) {
	xf := Translation(12, -7).Compose(Scale(2.5, 2.5))
	p := xf.Apply(Pt(2, 4))
	assert.InDelta(t, 17, p.X, 1e-9)
	assert.InDelta(t, 3, p.Y, 1e-9)
}

func TestPointInPolygon(t *testing.T) {
	sq := []Point2D{Pt(0, 0), Pt(4, 0), Pt(4, 4), Pt(0, 4)}
	assert.True(t, PointInPolygon(Pt(2, 2), sq))
	assert.False(t, PointInPolygon(Pt(5, 2), sq))
}
