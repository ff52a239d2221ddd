// Package geospatial validates and normalizes AOI geometry and applies
// intersection filtering. All geometries are geographic lon/lat (EPSG:4326);
// no reprojection is performed.
package geospatial

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

var (
	// ErrMissingGeometry is returned when no geometry was supplied.
	ErrMissingGeometry = errors.New("geometry is required")
	// ErrInvalidGeometry is returned for unparsable GeoJSON structures or
	// malformed coordinate arrays; the parse diagnostic is attached.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrUnsupportedGeometryType is returned for any GeoJSON geometry kind
	// other than Polygon. Single polygons only, so intersection semantics
	// stay unambiguous.
	ErrUnsupportedGeometryType = errors.New("unsupported geometry type: only Polygon is supported")
)

// ParseAOI parses a GeoJSON geometry into a polygon, rejecting every other
// geometry kind.
func ParseAOI(raw json.RawMessage) (orb.Polygon, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ErrMissingGeometry
	}

	geom, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}

	poly, ok := geom.Geometry().(orb.Polygon)
	if !ok {
		return nil, fmt.Errorf("%w (got %s)", ErrUnsupportedGeometryType, geom.Type)
	}

	if len(poly) == 0 {
		return nil, fmt.Errorf("%w: polygon has no rings", ErrInvalidGeometry)
	}
	for _, ring := range poly {
		if len(ring) < 4 {
			return nil, fmt.Errorf("%w: ring has fewer than 4 positions", ErrInvalidGeometry)
		}
		if !ring.Closed() {
			return nil, fmt.Errorf("%w: ring is not closed", ErrInvalidGeometry)
		}
	}

	return poly, nil
}

// Intersects reports whether two polygons share any point: either polygon
// has a vertex inside the other, or an edge of one crosses an edge of the
// other. Planar predicate over lon/lat coordinates, matching the storage
// layer's boolean intersection.
func Intersects(a, b orb.Polygon) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	if !a.Bound().Intersects(b.Bound()) {
		return false
	}

	for _, pt := range a[0] {
		if planar.PolygonContains(b, pt) {
			return true
		}
	}
	for _, pt := range b[0] {
		if planar.PolygonContains(a, pt) {
			return true
		}
	}

	for _, ringA := range a {
		for i := 0; i < len(ringA)-1; i++ {
			for _, ringB := range b {
				for j := 0; j < len(ringB)-1; j++ {
					if segmentsCross(ringA[i], ringA[i+1], ringB[j], ringB[j+1]) {
						return true
					}
				}
			}
		}
	}
	return false
}

// FilterByIntersection keeps the entities whose geometry intersects the AOI
// polygon. Entities lacking geometry, or carrying geometry that does not
// parse to a polygon, are excluded; absence of geometry never means
// "intersects everything".
func FilterByIntersection[T any](entities []T, aoi orb.Polygon, geometryOf func(T) json.RawMessage) []T {
	var kept []T
	for _, e := range entities {
		raw := geometryOf(e)
		if len(raw) == 0 {
			continue
		}
		poly, err := ParseAOI(raw)
		if err != nil {
			continue
		}
		if Intersects(poly, aoi) {
			kept = append(kept, e)
		}
	}
	return kept
}

// segmentsCross reports whether segments pq and rs intersect, using the
// standard orientation test with collinear overlap handling.
func segmentsCross(p, q, r, s orb.Point) bool {
	d1 := orientation(r, s, p)
	d2 := orientation(r, s, q)
	d3 := orientation(p, q, r)
	d4 := orientation(p, q, s)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	switch {
	case d1 == 0 && onSegment(r, s, p):
		return true
	case d2 == 0 && onSegment(r, s, q):
		return true
	case d3 == 0 && onSegment(p, q, r):
		return true
	case d4 == 0 && onSegment(p, q, s):
		return true
	}
	return false
}

func orientation(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func onSegment(a, b, p orb.Point) bool {
	return min(a[0], b[0]) <= p[0] && p[0] <= max(a[0], b[0]) &&
		min(a[1], b[1]) <= p[1] && p[1] <= max(a[1], b[1])
}
