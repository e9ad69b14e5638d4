// Package geo contains the pure geometry and coordinate-validation logic
// used by the geofence pipeline. Everything here is deterministic and free
// of side effects.
package geo

// Point is a single WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lng float64
}

// Vertex is one corner of a stored geofence polygon. Older app releases
// wrote abbreviated field names, so both forms are carried and resolved at
// evaluation time.
type Vertex struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
}

// LatValue resolves the latitude of the vertex, preferring the full field
// name and defaulting to 0 when neither form is present. Malformed stored
// vertices degrade instead of failing the whole evaluation.
func (v Vertex) LatValue() float64 {
	if v.Latitude != nil {
		return *v.Latitude
	}
	if v.Lat != nil {
		return *v.Lat
	}

	return 0
}

// LngValue resolves the longitude of the vertex, same precedence as LatValue.
func (v Vertex) LngValue() float64 {
	if v.Longitude != nil {
		return *v.Longitude
	}
	if v.Lng != nil {
		return *v.Lng
	}

	return 0
}

// NewVertex builds a Vertex with the full field names populated.
func NewVertex(lat, lng float64) Vertex {
	return Vertex{Latitude: &lat, Longitude: &lng}
}

// PointInPolygon reports whether pt lies inside the polygon described by
// vertices, using the ray-casting even-odd rule: a horizontal ray from the
// point toggles the inside flag on every edge crossing. Polygons with fewer
// than three vertices are never "inside".
//
// Boundary semantics follow the reference crossing rule (yi > y != yj > y
// with a strict x comparison); a point exactly on a vertex or edge is
// classified by that rule and is not special-cased.
func PointInPolygon(pt Point, vertices []Vertex) bool {
	if len(vertices) < 3 {
		return false
	}

	x := pt.Lng
	y := pt.Lat
	inside := false

	for i, j := 0, len(vertices)-1; i < len(vertices); j, i = i, i+1 {
		xi := vertices[i].LngValue()
		yi := vertices[i].LatValue()
		xj := vertices[j].LngValue()
		yj := vertices[j].LatValue()

		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}

	return inside
}
