package geospatial

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func polygonJSON(coords string) json.RawMessage {
	return json.RawMessage(`{"type":"Polygon","coordinates":` + coords + `}`)
}

// unitSquare is a closed square from (0,0) to (10,10).
var unitSquare = polygonJSON(`[[[0,0],[10,0],[10,10],[0,10],[0,0]]]`)

func TestParseAOI_ValidPolygon(t *testing.T) {
	poly, err := ParseAOI(unitSquare)
	require.NoError(t, err)
	assert.Len(t, poly, 1)
	assert.Len(t, poly[0], 5)
}

func TestParseAOI_MissingGeometry(t *testing.T) {
	_, err := ParseAOI(nil)
	assert.ErrorIs(t, err, ErrMissingGeometry)

	_, err = ParseAOI(json.RawMessage("null"))
	assert.ErrorIs(t, err, ErrMissingGeometry)
}

func TestParseAOI_RejectsNonPolygonTypes(t *testing.T) {
	cases := map[string]json.RawMessage{
		"point":      json.RawMessage(`{"type":"Point","coordinates":[1,2]}`),
		"linestring": json.RawMessage(`{"type":"LineString","coordinates":[[0,0],[1,1]]}`),
		"multipolygon": json.RawMessage(
			`{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[1,1],[0,0]]]]}`),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAOI(raw)
			assert.ErrorIs(t, err, ErrUnsupportedGeometryType)
		})
	}
}

func TestParseAOI_InvalidStructures(t *testing.T) {
	cases := map[string]json.RawMessage{
		"not json":     json.RawMessage(`{{`),
		"unknown type": json.RawMessage(`{"type":"Blob","coordinates":[]}`),
		"no rings":     polygonJSON(`[]`),
		"short ring":   polygonJSON(`[[[0,0],[1,0],[0,0]]]`),
		"open ring":    polygonJSON(`[[[0,0],[10,0],[10,10],[0,10]]]`),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAOI(raw)
			assert.ErrorIs(t, err, ErrInvalidGeometry)
		})
	}
}

func TestIntersects(t *testing.T) {
	square, err := ParseAOI(unitSquare)
	require.NoError(t, err)

	overlapping, err := ParseAOI(polygonJSON(`[[[5,5],[15,5],[15,15],[5,15],[5,5]]]`))
	require.NoError(t, err)
	assert.True(t, Intersects(square, overlapping))
	assert.True(t, Intersects(overlapping, square))

	contained, err := ParseAOI(polygonJSON(`[[[2,2],[4,2],[4,4],[2,4],[2,2]]]`))
	require.NoError(t, err)
	assert.True(t, Intersects(square, contained))
	assert.True(t, Intersects(contained, square))

	disjoint, err := ParseAOI(polygonJSON(`[[[20,20],[30,20],[30,30],[20,30],[20,20]]]`))
	require.NoError(t, err)
	assert.False(t, Intersects(square, disjoint))

	// Straddling: edges cross but no vertex of either lies inside the other.
	cross, err := ParseAOI(polygonJSON(`[[[4,-5],[6,-5],[6,15],[4,15],[4,-5]]]`))
	require.NoError(t, err)
	assert.True(t, Intersects(square, cross))
}

type feature struct {
	Name     string
	Geometry json.RawMessage
}

func TestFilterByIntersection(t *testing.T) {
	aoi, err := ParseAOI(unitSquare)
	require.NoError(t, err)

	features := []feature{
		{Name: "inside", Geometry: polygonJSON(`[[[1,1],[2,1],[2,2],[1,2],[1,1]]]`)},
		{Name: "straddling", Geometry: polygonJSON(`[[[8,8],[12,8],[12,12],[8,12],[8,8]]]`)},
		{Name: "outside", Geometry: polygonJSON(`[[[50,50],[60,50],[60,60],[50,60],[50,50]]]`)},
		{Name: "no geometry"},
		{Name: "bad geometry", Geometry: json.RawMessage(`{"type":"Point","coordinates":[1,1]}`)},
	}

	kept := FilterByIntersection(features, aoi, func(f feature) json.RawMessage {
		return f.Geometry
	})

	require.Len(t, kept, 2)
	assert.Equal(t, "inside", kept[0].Name)
	assert.Equal(t, "straddling", kept[1].Name)
}

func TestFilterByIntersection_EmptyInput(t *testing.T) {
	aoi, err := ParseAOI(unitSquare)
	require.NoError(t, err)

	kept := FilterByIntersection(nil, aoi, func(f feature) json.RawMessage {
		return f.Geometry
	})
	assert.Empty(t, kept)
}
