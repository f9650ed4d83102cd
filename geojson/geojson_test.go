// Copyright 2026 The go-libtess2 Authors. All rights reserved.
// Use of this source code is governed by the SGI Free Software License B
// that can be found in the LICENSE file.

package geojson

import (
	"testing"

	"github.com/pkg/errors"
	gj "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-libtess2/libtess2"
)

func square(x, y, size float64) [][]float64 {
	return [][]float64{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y}}
}

func tesselate(t *testing.T, g *gj.Geometry, et libtess2.ElementType, vertexSize int) *libtess2.Tesselator {
	t.Helper()
	tess, err := libtess2.NewTesselator(nil)
	require.NoError(t, err)
	t.Cleanup(tess.Destroy)
	require.NoError(t, AddGeometry(tess, g))
	require.NoError(t, tess.Tesselate(libtess2.WindingOdd, et, 3, vertexSize, nil))
	return tess
}

func TestPolygonWithHole(t *testing.T) {
	g, err := gj.UnmarshalGeometry([]byte(`{
		"type": "Polygon",
		"coordinates": [
			[[0, 0], [4, 0], [4, 4], [0, 4], [0, 0]],
			[[1, 1], [1, 3], [3, 3], [3, 1], [1, 1]]
		]
	}`))
	require.NoError(t, err)

	tess := tesselate(t, g, libtess2.Polygons, 2)
	assert.Equal(t, 8, tess.VertexCount())

	fc, err := Polygons(tess)
	require.NoError(t, err)
	require.Len(t, fc.Features, 8)
	for i, f := range fc.Features {
		require.True(t, f.Geometry.IsPolygon())
		ring := f.Geometry.Polygon[0]
		assert.Len(t, ring, 4)
		assert.Equal(t, ring[0], ring[3])
		assert.EqualValues(t, i, f.Properties["index"])
		assert.NotContains(t, f.Properties, "neighbours")
	}
}

func TestMultiPolygon(t *testing.T) {
	g := gj.NewMultiPolygonGeometry(
		[][][]float64{square(0, 0, 1)},
		[][][]float64{square(5, 0, 1)},
	)
	tess := tesselate(t, g, libtess2.Polygons, 2)
	assert.Equal(t, 4, tess.ElementCount())
}

func TestCollection(t *testing.T) {
	g := gj.NewCollectionGeometry(
		gj.NewPolygonGeometry([][][]float64{square(0, 0, 1)}),
		gj.NewLineStringGeometry([][]float64{{5, 0}, {6, 0}, {6, 1}}),
		gj.NewMultiLineStringGeometry([][]float64{{8, 0}, {9, 0}, {9, 1}}),
	)
	tess := tesselate(t, g, libtess2.Polygons, 2)
	assert.Equal(t, 4, tess.ElementCount())
}

func TestConnectedPolygons(t *testing.T) {
	g := gj.NewPolygonGeometry([][][]float64{square(0, 0, 2)})
	tess := tesselate(t, g, libtess2.ConnectedPolygons, 2)

	fc, err := Polygons(tess)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	for i, f := range fc.Features {
		nb, ok := f.Properties["neighbours"].([]int)
		require.True(t, ok)
		require.Len(t, nb, 3)
		var linked []int
		for _, n := range nb {
			if n != libtess2.Undef {
				linked = append(linked, n)
			}
		}
		assert.Equal(t, []int{1 - i}, linked)
	}
}

func TestContours(t *testing.T) {
	g := gj.NewPolygonGeometry([][][]float64{square(0, 0, 2)})
	tess := tesselate(t, g, libtess2.BoundaryContours, 2)

	fc, err := Contours(tess)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	line := fc.Features[0].Geometry
	require.True(t, line.IsLineString())
	assert.Len(t, line.LineString, 5)
	assert.Equal(t, line.LineString[0], line.LineString[4])

	_, err = Polygons(tess)
	assert.True(t, errors.Is(err, libtess2.ErrInvalidArgument))

	res, err := Result(tess)
	require.NoError(t, err)
	assert.Len(t, res.Features, 1)
}

func TestAltitudeIsKept(t *testing.T) {
	ring := [][]float64{{0, 0, 5}, {1, 0, 5}, {1, 1, 5}, {0, 1, 5}, {0, 0, 5}}
	g := gj.NewPolygonGeometry([][][]float64{ring})
	tess := tesselate(t, g, libtess2.Polygons, 3)

	fc, err := Polygons(tess)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	for _, f := range fc.Features {
		for _, p := range f.Geometry.Polygon[0] {
			require.Len(t, p, 3)
			assert.Equal(t, 5.0, p[2])
		}
	}
}

func TestAddGeometryErrors(t *testing.T) {
	tess, err := libtess2.NewTesselator(nil)
	require.NoError(t, err)
	defer tess.Destroy()

	err = AddGeometry(tess, gj.NewPointGeometry([]float64{1, 2}))
	assert.True(t, errors.Is(err, ErrUnsupported))

	err = AddGeometry(tess, gj.NewPolygonGeometry([][][]float64{{{0, 0}, {1}, {1, 1}}}))
	assert.True(t, errors.Is(err, libtess2.ErrInvalidArgument))

	assert.NoError(t, AddGeometry(tess, nil))
}

func TestEmptyResult(t *testing.T) {
	tess, err := libtess2.NewTesselator(nil)
	require.NoError(t, err)
	defer tess.Destroy()

	fc, err := Polygons(tess)
	require.NoError(t, err)
	assert.Empty(t, fc.Features)
}
