// Copyright 2026 The go-libtess2 Authors. All rights reserved.
// Use of this source code is governed by the SGI Free Software License B
// that can be found in the LICENSE file.

// Package geojson converts between GeoJSON geometries and tessellation
// contours and results.
package geojson

import (
	"github.com/pkg/errors"
	gj "github.com/paulmach/go.geojson"

	"github.com/go-libtess2/libtess2"
)

// ErrUnsupported is returned for geometries that do not describe areas.
var ErrUnsupported = errors.New("geojson: unsupported geometry type")

// AddGeometry adds every ring of g to t as a contour.  Polygon and
// MultiPolygon rings are added as they are, including holes; the winding
// rule passed to Tesselate decides which rings are holes.  LineString and
// MultiLineString coordinates are taken as implicitly closed rings.
// GeometryCollections are added recursively.
//
// Rings whose positions all carry an altitude are added in three
// dimensions, all others in two.
func AddGeometry(t *libtess2.Tesselator, g *gj.Geometry) error {
	if g == nil {
		return nil
	}
	switch g.Type {
	case gj.GeometryPolygon:
		return addRings(t, g.Polygon)
	case gj.GeometryMultiPolygon:
		for i, p := range g.MultiPolygon {
			if err := addRings(t, p); err != nil {
				return errors.Wrapf(err, "polygon %d", i)
			}
		}
		return nil
	case gj.GeometryLineString:
		return addRing(t, g.LineString)
	case gj.GeometryMultiLineString:
		return addRings(t, g.MultiLineString)
	case gj.GeometryCollection:
		for i, c := range g.Geometries {
			if err := AddGeometry(t, c); err != nil {
				return errors.Wrapf(err, "geometry %d", i)
			}
		}
		return nil
	}
	return errors.Wrapf(ErrUnsupported, "%s", g.Type)
}

// AddFeatureCollection adds the geometry of every feature in fc.
func AddFeatureCollection(t *libtess2.Tesselator, fc *gj.FeatureCollection) error {
	for i, f := range fc.Features {
		if err := AddGeometry(t, f.Geometry); err != nil {
			return errors.Wrapf(err, "feature %d", i)
		}
	}
	return nil
}

func addRings(t *libtess2.Tesselator, rings [][][]float64) error {
	for i, r := range rings {
		if err := addRing(t, r); err != nil {
			return errors.Wrapf(err, "ring %d", i)
		}
	}
	return nil
}

func addRing(t *libtess2.Tesselator, ring [][]float64) error {
	// GeoJSON repeats the first position at the end of a ring.
	if n := len(ring); n > 1 && equal(ring[0], ring[n-1]) {
		ring = ring[:n-1]
	}
	if len(ring) == 0 {
		return nil
	}

	size := 3
	for i, p := range ring {
		if len(p) < 2 {
			return errors.Wrapf(libtess2.ErrInvalidArgument, "position %d has %d coordinates", i, len(p))
		}
		if len(p) < 3 {
			size = 2
		}
	}
	data := make([]float64, 0, size*len(ring))
	for _, p := range ring {
		data = append(data, p[:size]...)
	}
	return t.AddContourData(size, data, size, len(ring))
}

func equal(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// position returns the coordinates of result vertex i.
func position(t *libtess2.Tesselator, i int) []float64 {
	n := t.VertexSize()
	p := make([]float64, n)
	copy(p, t.Vertices()[i*n:(i+1)*n])
	return p
}

// Polygons returns the result of a Polygons or ConnectedPolygons
// tessellation as a collection of Polygon features, one per element.
// Each feature carries its element number in the "index" property and,
// for connected polygons, the neighbouring element numbers in
// "neighbours".
func Polygons(t *libtess2.Tesselator) (*gj.FeatureCollection, error) {
	fc := gj.NewFeatureCollection()
	if t.ElementCount() == 0 {
		return fc, nil
	}
	et := t.ElementType()
	if et == libtess2.BoundaryContours {
		return nil, errors.Wrap(libtess2.ErrInvalidArgument, "result holds boundary contours")
	}
	polySize := t.PolySize()
	stride := polySize
	if et == libtess2.ConnectedPolygons {
		stride *= 2
	}

	elems := t.Elements()
	for i := 0; i < t.ElementCount(); i++ {
		poly := elems[i*stride : i*stride+polySize]
		var ring [][]float64
		for _, idx := range poly {
			if idx == libtess2.Undef {
				break
			}
			ring = append(ring, position(t, idx))
		}
		ring = append(ring, ring[0])

		f := gj.NewPolygonFeature([][][]float64{ring})
		f.SetProperty("index", i)
		if et == libtess2.ConnectedPolygons {
			nb := elems[i*stride+polySize : i*stride+polySize+len(ring)-1]
			f.SetProperty("neighbours", append([]int(nil), nb...))
		}
		fc.AddFeature(f)
	}
	return fc, nil
}

// Contours returns the result of a BoundaryContours tessellation as a
// collection of closed LineString features, one per contour.
func Contours(t *libtess2.Tesselator) (*gj.FeatureCollection, error) {
	fc := gj.NewFeatureCollection()
	if t.ElementCount() == 0 {
		return fc, nil
	}
	if t.ElementType() != libtess2.BoundaryContours {
		return nil, errors.Wrapf(libtess2.ErrInvalidArgument, "result holds %s", t.ElementType())
	}

	elems := t.Elements()
	for i := 0; i < t.ElementCount(); i++ {
		base, count := elems[2*i], elems[2*i+1]
		line := make([][]float64, 0, count+1)
		for j := 0; j < count; j++ {
			line = append(line, position(t, base+j))
		}
		line = append(line, line[0])

		f := gj.NewLineStringFeature(line)
		f.SetProperty("index", i)
		fc.AddFeature(f)
	}
	return fc, nil
}

// Result returns Contours or Polygons, whichever matches the last result.
func Result(t *libtess2.Tesselator) (*gj.FeatureCollection, error) {
	if t.ElementType() == libtess2.BoundaryContours {
		return Contours(t)
	}
	return Polygons(t)
}
