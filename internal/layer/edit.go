package layer

import (
	"errors"
	"fmt"
	"sort"

	"map-composer/pkg/geometry"
)

var (
	// ErrNotEditing is returned by edit operations on a layer that is not
	// actively edited.
	ErrNotEditing = errors.New("layer is not being edited")
	// ErrNoOpenFeature is returned when no digitizing session is open.
	ErrNoOpenFeature = errors.New("no feature is being digitized")
	// ErrEmptyFeature is returned when a feature lacks enough vertices.
	ErrEmptyFeature = errors.New("feature has too few vertices")
	// ErrNoSuchRecord is returned for an unknown record number.
	ErrNoSuchRecord = errors.New("no such record")
)

// ActivelyEdited reports whether the layer is in an editing session.
func (v *Vector) ActivelyEdited() bool { return v.activelyEdited }

// SetActivelyEdited starts or ends an editing session. Ending it discards any
// open feature.
func (v *Vector) SetActivelyEdited(on bool) {
	v.activelyEdited = on
	if !on {
		v.featureOpen = false
		v.newFeature = nil
	}
}

// FeatureOpen reports whether a new feature is being digitized.
func (v *Vector) FeatureOpen() bool { return v.featureOpen }

// NewFeaturePoints returns the vertices digitized so far.
func (v *Vector) NewFeaturePoints() []geometry.Point2D { return v.newFeature }

// OpenNewFeature begins digitizing a feature.
func (v *Vector) OpenNewFeature() error {
	if !v.activelyEdited {
		return ErrNotEditing
	}
	v.featureOpen = true
	v.newFeature = v.newFeature[:0]
	return nil
}

// CancelNewFeature abandons the feature being digitized and its vertices.
func (v *Vector) CancelNewFeature() {
	v.featureOpen = false
	v.newFeature = nil
}

// AddNodeToNewFeature appends a vertex in map units.
func (v *Vector) AddNodeToNewFeature(x, y float64) error {
	if !v.featureOpen {
		return ErrNoOpenFeature
	}
	v.newFeature = append(v.newFeature, geometry.Pt(x, y))
	return nil
}

// RemoveLastNode drops the most recent vertex.
func (v *Vector) RemoveLastNode() error {
	if !v.featureOpen || len(v.newFeature) == 0 {
		return ErrEmptyFeature
	}
	v.newFeature = v.newFeature[:len(v.newFeature)-1]
	return nil
}

func (v *Vector) minVertices() int {
	switch v.shapeType.Base() {
	case ShapePolyLine:
		return 2
	case ShapePolygon:
		return 3
	}
	return 1
}

// CloseNewFeature turns the digitized vertices into a record. Polygons are
// closed by repeating the first vertex. On error the vertices are kept so the
// user can continue or retry.
func (v *Vector) CloseNewFeature() (int, error) {
	if !v.featureOpen {
		return 0, ErrNoOpenFeature
	}
	if len(v.newFeature) < v.minVertices() {
		return 0, fmt.Errorf("%s needs %d vertices, have %d: %w",
			v.shapeType, v.minVertices(), len(v.newFeature), ErrEmptyFeature)
	}
	pts := append([]geometry.Point2D(nil), v.newFeature...)
	if v.shapeType.Base() == ShapePolygon && pts[0] != pts[len(pts)-1] {
		pts = append(pts, pts[0])
	}
	n := v.AddRecord(Geometry{Parts: []int{0}, Points: pts}, 0)
	v.featureOpen = false
	v.newFeature = nil
	return n, nil
}

// DeleteRecord removes a record and its selection.
func (v *Vector) DeleteRecord(number int) error {
	for i, r := range v.records {
		if r.Number == number {
			v.records = append(v.records[:i], v.records[i+1:]...)
			delete(v.selected, number)
			v.recalculateExtent()
			v.coloured = false
			return nil
		}
	}
	return fmt.Errorf("delete record %d: %w", number, ErrNoSuchRecord)
}

// IsFeatureSelected reports whether record number n is selected.
func (v *Vector) IsFeatureSelected(n int) bool { return v.selected[n] }

// NumSelectedFeatures returns the size of the selection.
func (v *Vector) NumSelectedFeatures() int { return len(v.selected) }

// SelectedFeatureNumber returns the lowest selected record number, or -1.
func (v *Vector) SelectedFeatureNumber() int {
	nums := v.SelectedFeatureNumbers()
	if len(nums) == 0 {
		return -1
	}
	return nums[0]
}

// SelectedFeatureNumbers returns the selected record numbers in order.
func (v *Vector) SelectedFeatureNumbers() []int {
	nums := make([]int, 0, len(v.selected))
	for n := range v.selected {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// ClearSelectedFeatures empties the selection.
func (v *Vector) ClearSelectedFeatures() {
	if len(v.selected) > 0 {
		v.selected = make(map[int]bool)
	}
}

// SelectFeature adds a record to the selection.
func (v *Vector) SelectFeature(n int) {
	if v.Record(n) != nil {
		v.selected[n] = true
	}
}

// SelectFeatureByLocation toggles the selection of the topmost record under
// (x, y) in map units and returns its number, or -1 when nothing is there.
// Polygons hit on their interior; other shapes hit within their bounding box.
func (v *Vector) SelectFeatureByLocation(x, y float64) int {
	p := geometry.Pt(x, y)
	for i := len(v.records) - 1; i >= 0; i-- {
		r := v.records[i]
		if r.Shape == ShapeNull || !r.Geometry.Box().IsPointInBox(x, y) {
			continue
		}
		if v.shapeType.Base() == ShapePolygon && !polygonContains(r.Geometry, p) {
			continue
		}
		if v.selected[r.Number] {
			delete(v.selected, r.Number)
		} else {
			v.selected[r.Number] = true
		}
		return r.Number
	}
	return -1
}

// SelectFeaturesInBox selects every record whose box lies inside box and
// returns how many were added.
func (v *Vector) SelectFeaturesInBox(box geometry.BoundingBox) int {
	added := 0
	for _, r := range v.records {
		if r.Shape == ShapeNull {
			continue
		}
		if r.Geometry.Box().EntirelyContainedWithin(box) && !v.selected[r.Number] {
			v.selected[r.Number] = true
			added++
		}
	}
	return added
}

// polygonContains applies even-odd over all parts so holes are excluded.
func polygonContains(g Geometry, p geometry.Point2D) bool {
	inside := false
	for i := 0; i < g.NumParts(); i++ {
		if geometry.PointInPolygon(p, g.Part(i)) {
			inside = !inside
		}
	}
	return inside
}
