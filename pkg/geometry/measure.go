package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// PolylineLength returns the sum of the Euclidean lengths of consecutive
// segments. Fewer than two points give 0.
func PolylineLength(points []Point2D) float64 {
	if len(points) < 2 {
		return 0
	}
	segs := make([]float64, len(points)-1)
	for i := 1; i < len(points); i++ {
		segs[i-1] = points[i].Distance(points[i-1])
	}
	return floats.Sum(segs)
}

// ShoelaceArea returns the absolute area enclosed by the ring through points,
// pairing the last point with the first. The points are used as given: the
// caller is not required to repeat the first point, and a closing vertex that
// duplicates the first one contributes nothing. Fewer than three points
// return -1.
func ShoelaceArea(points []Point2D) float64 {
	n := len(points)
	if n < 3 {
		return -1
	}
	cross := make([]float64, n)
	for j := 0; j < n; j++ {
		a := points[j]
		b := points[(j+1)%n]
		cross[j] = a.X*b.Y - b.X*a.Y
	}
	return math.Abs(floats.Sum(cross) / 2)
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}
