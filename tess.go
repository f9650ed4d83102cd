// SGI FREE SOFTWARE LICENSE B (Version 2.0, Sept. 18, 2008)
// Copyright (C) [dates of first publication] Silicon Graphics, Inc.
// All Rights Reserved.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice including the dates of first publication and either this
// permission notice or a reference to http://oss.sgi.com/projects/FreeB/ shall be
// included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR IMPLIED,
// INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS FOR A
// PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL SILICON GRAPHICS, INC.
// BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
// TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE
// OR OTHER DEALINGS IN THE SOFTWARE.
//
// Except as contained in this notice, the name of Silicon Graphics, Inc. shall not
// be used in advertising or otherwise to promote the sale, use or other dealings in
// this Software without prior written authorization from Silicon Graphics, Inc.

// Package libtess2 tessellates planar polygons.
//
// Contours are added one at a time with AddContour or AddContourData.  They
// may self-intersect, overlap each other and be wound either way.
// Tesselate then computes the regions selected by a winding rule and
// outputs them as triangles, convex polygons of bounded size or boundary
// contours.
package libtess2

import (
	"unsafe"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Undef marks a missing index: a vertex created at an intersection, an
// unused polygon slot or a polygon side without a neighbour.
const Undef = -1

// MaxDimensions is the maximum number of coordinates per vertex.  The first
// three are x, y and z; the rest are attributes which are interpolated at
// intersections.
const MaxDimensions = 12

// WindingRule selects which regions are inside the polygon, based on their
// winding number.
type WindingRule int

const (
	WindingOdd WindingRule = iota
	WindingNonzero
	WindingPositive
	WindingNegative
	WindingAbsGeqTwo
)

var windingRuleNames = [...]string{
	WindingOdd:       "odd",
	WindingNonzero:   "nonzero",
	WindingPositive:  "positive",
	WindingNegative:  "negative",
	WindingAbsGeqTwo: "abs_geq_two",
}

func (r WindingRule) String() string {
	if r >= 0 && int(r) < len(windingRuleNames) {
		return windingRuleNames[r]
	}
	return "unknown"
}

// ElementType selects the layout of the tessellation result.
type ElementType int

const (
	// Polygons outputs polySize vertex indices per element, padded with
	// Undef.
	Polygons ElementType = iota

	// ConnectedPolygons outputs polySize vertex indices followed by
	// polySize neighbour element indices per element.  Neighbour i is
	// across the edge from vertex i to vertex i+1, or Undef.
	ConnectedPolygons

	// BoundaryContours outputs a (base, count) pair per contour.  The
	// vertices of each contour are stored contiguously starting at base.
	BoundaryContours
)

var elementTypeNames = [...]string{
	Polygons:          "polygons",
	ConnectedPolygons: "connected_polygons",
	BoundaryContours:  "boundary_contours",
}

func (et ElementType) String() string {
	if et >= 0 && int(et) < len(elementTypeNames) {
		return elementTypeNames[et]
	}
	return "unknown"
}

// Vertex is a contour vertex for AddContour.
type Vertex struct {
	X, Y, Z float64
}

// Tesselator holds contours and the result of the last tessellation.  It
// must not be used from several goroutines at once.
type Tesselator struct {
	alloc Alloc

	mesh      *mesh
	dict      *dict
	pq        *pq
	event     *vertex // current sweep event being processed
	regions   *bucketAlloc[activeRegion]
	dictNodes *bucketAlloc[dictNode]
	stats     sweepStats

	normal       r3.Vector // user-specified normal (if provided)
	sUnit, tUnit r3.Vector // unit vectors of the sweep plane
	bmin, bmax   [2]float64

	windingRule        WindingRule
	dims               int // coordinates per vertex carried by the input
	vertexIndexCounter int
	noEmptyPolygons    bool

	vertices       []float64
	vertexIndices  []int
	vertexCount    int
	elements       []int
	elementCount   int
	outputReserved int

	// Layout of the last result.
	vertexSize  int
	elementType ElementType
	polySize    int

	addErr    error // first failure while adding contours
	reserved  int
	destroyed bool
}

// NewTesselator creates a tesselator.  A nil alloc uses the defaults.
func NewTesselator(alloc *Alloc) (t *Tesselator, err error) {
	var a Alloc
	if alloc != nil {
		a = *alloc
	}
	a, err = a.normalize()
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			t, err = nil, recoverFatal(r)
		}
	}()

	size := int(unsafe.Sizeof(Tesselator{}))
	reserve(a.Budget, "tesselator", size)
	return &Tesselator{
		alloc:    a,
		dims:     2,
		reserved: size,
	}, nil
}

// Destroy releases all storage held by t.  t must not be used afterwards.
func (t *Tesselator) Destroy() {
	if t.destroyed {
		return
	}
	t.clearOutput()
	t.releaseSweep()
	if t.mesh != nil {
		t.mesh.release()
		t.mesh = nil
	}
	release(t.alloc.Budget, t.reserved)
	t.reserved = 0
	t.destroyed = true
}

func (t *Tesselator) checkAlive() error {
	if t.destroyed {
		return errors.Wrap(ErrInvalidArgument, "tesselator is destroyed")
	}
	return nil
}

// AddContour adds a contour given as a list of vertices.
func (t *Tesselator) AddContour(contour []Vertex) error {
	data := make([]float64, 0, len(contour)*3)
	for _, v := range contour {
		data = append(data, v.X, v.Y, v.Z)
	}
	return t.AddContourData(3, data, 3, len(contour))
}

// AddContourData adds count vertices read from data.  Each vertex has size
// coordinates (2 to MaxDimensions) and vertices start every stride values.
// A zero stride means the vertices are packed.
//
// Counter-clockwise contours add +1 to the winding number of the region
// they enclose, clockwise contours add -1.
func (t *Tesselator) AddContourData(size int, data []float64, stride, count int) (err error) {
	if err := t.checkAlive(); err != nil {
		return err
	}
	if size < 2 || size > MaxDimensions {
		return errors.Wrapf(ErrInvalidArgument, "vertex size %d out of range [2, %d]", size, MaxDimensions)
	}
	if stride == 0 {
		stride = size
	}
	if stride < size {
		return errors.Wrapf(ErrInvalidArgument, "stride %d smaller than vertex size %d", stride, size)
	}
	if count < 0 {
		return errors.Wrapf(ErrInvalidArgument, "negative vertex count %d", count)
	}
	if count == 0 {
		return nil
	}
	if need := (count-1)*stride + size; len(data) < need {
		return errors.Wrapf(ErrInvalidArgument, "contour needs %d values, got %d", need, len(data))
	}

	defer func() {
		if r := recover(); r != nil {
			err = recoverFatal(r)
			// The mesh may hold a partial contour; the next Tesselate
			// reports the failure instead of tessellating it.
			if t.addErr == nil {
				t.addErr = err
			}
			Logger().Warn("adding contour failed", zap.Error(err))
		}
	}()

	if t.mesh == nil {
		t.mesh = newMesh(&t.alloc)
	}
	t.dims = max(t.dims, size)

	var e *halfEdge
	for i := 0; i < count; i++ {
		coords := data[i*stride : i*stride+size]

		if e == nil {
			// Make a self-loop (one vertex, one edge).
			e = t.mesh.newEdge()
			t.mesh.splice(e, e.Sym)
		} else {
			// Create a new vertex and edge which immediately follow e
			// in the ordering around the left face.
			t.mesh.splitEdge(e)
			e = e.Lnext
		}

		// The new vertex is now e.Org.
		v := e.Org
		v.coords = [MaxDimensions]float64{}
		copy(v.coords[:], coords)
		// Store the insertion number so that the vertex can be later recognized.
		v.idx = t.vertexIndexCounter
		t.vertexIndexCounter++

		// The winding of an edge says how the winding number changes as we
		// cross from the edge's right face to its left face.  We add the
		// vertices in such an order that a CCW contour will add +1 to
		// the winding number of the region inside the contour.
		e.winding = 1
		e.Sym.winding = -1
	}

	Logger().Debug("added contour", zap.Int("vertices", count), zap.Int("size", size))
	return nil
}

// Tesselate tessellates the contours added since the last call.
//
// polySize is the maximum number of vertices per output polygon and must
// be at least 3 for Polygons and ConnectedPolygons.  vertexSize is the
// number of coordinates per output vertex and is clamped to
// [2, MaxDimensions].  normal is the plane normal of the contours; if it
// is nil or zero, it is computed from the input.
//
// On failure all output is cleared.  In either case the contours are
// consumed.
func (t *Tesselator) Tesselate(rule WindingRule, et ElementType, polySize, vertexSize int, normal []float64) (err error) {
	if err := t.checkAlive(); err != nil {
		return err
	}
	t.clearOutput()

	if rule < WindingOdd || rule > WindingAbsGeqTwo {
		return errors.Wrapf(ErrInvalidArgument, "unknown winding rule %d", rule)
	}
	if et < Polygons || et > BoundaryContours {
		return errors.Wrapf(ErrInvalidArgument, "unknown element type %d", et)
	}
	if et != BoundaryContours && polySize < 3 {
		return errors.Wrapf(ErrInvalidArgument, "polygon size %d is less than 3", polySize)
	}
	switch len(normal) {
	case 0:
		t.normal = r3.Vector{}
	case 3:
		t.normal = r3.Vector{X: normal[0], Y: normal[1], Z: normal[2]}
	default:
		return errors.Wrapf(ErrInvalidArgument, "normal has %d components", len(normal))
	}
	vertexSize = min(max(vertexSize, 2), MaxDimensions)

	t.windingRule = rule
	t.vertexIndexCounter = 0

	if t.addErr != nil {
		err, t.addErr = t.addErr, nil
		if t.mesh != nil {
			t.mesh.release()
			t.mesh = nil
		}
		t.dims = 2
		return err
	}
	t.elementType = et
	t.polySize = polySize
	if t.mesh == nil {
		// Nothing to do.
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = recoverFatal(r)
		}
		t.releaseSweep()
		t.mesh.release()
		t.mesh = nil
		t.dims = 2
		if err != nil {
			t.clearOutput()
			Logger().Warn("tessellation failed", zap.Error(err))
		}
	}()

	t.regions = newBucketAlloc[activeRegion]("active regions", t.alloc.RegionBucketSize, t.alloc.Budget)
	t.dictNodes = newBucketAlloc[dictNode]("dictionary nodes", t.alloc.DictNodeBucketSize, t.alloc.Budget)

	// Determine the polygon normal and project vertices onto the plane
	// of the polygon.
	t.projectPolygon()

	// computeInterior computes the planar arrangement specified
	// by the given contours, and further subdivides this arrangement
	// into regions.  Each region is marked "inside" if it belongs
	// to the polygon, according to the rule given by t.windingRule.
	// Each interior region is guaranteed be monotone.
	if err := t.computeInterior(); err != nil {
		return err
	}

	m := t.mesh

	// If the user wants only the boundary contours, we throw away all edges
	// except those which separate the interior from the exterior.
	// Otherwise we tessellate all the regions marked "inside".
	if et == BoundaryContours {
		m.setWindingNumber(1, true)
	} else {
		m.discardExterior()
		m.tessellateInterior()
	}

	if err := m.check(); err != nil {
		return err
	}

	if et == BoundaryContours {
		t.outputContours(vertexSize)
	} else {
		t.outputPolymesh(et, polySize, vertexSize)
	}
	t.vertexSize = vertexSize

	Logger().Debug("tessellated",
		zap.Stringer("winding", rule),
		zap.Stringer("element", et),
		zap.Int("vertices", t.vertexCount),
		zap.Int("elements", t.elementCount))
	return nil
}

func (t *Tesselator) releaseSweep() {
	if t.pq != nil {
		t.pq.release()
		t.pq = nil
	}
	t.dict = nil
	t.event = nil
	if t.regions != nil {
		t.regions.release()
		t.regions = nil
	}
	if t.dictNodes != nil {
		t.dictNodes.release()
		t.dictNodes = nil
	}
}

func (t *Tesselator) clearOutput() {
	release(t.alloc.Budget, t.outputReserved)
	t.outputReserved = 0
	t.vertices = nil
	t.vertexIndices = nil
	t.vertexCount = 0
	t.elements = nil
	t.elementCount = 0
	t.vertexSize = 0
	t.elementType = Polygons
	t.polySize = 0
}

// VertexCount returns the number of vertices in the last result.
func (t *Tesselator) VertexCount() int {
	return t.vertexCount
}

// Vertices returns the coordinates of the result vertices, vertexSize
// values each.  The slice is owned by t and valid until the next call to
// Tesselate.
func (t *Tesselator) Vertices() []float64 {
	return t.vertices
}

// VertexIndices maps each result vertex to the index of the input vertex
// it came from, counted across all contours in the order they were added.
// Vertices created at intersections map to Undef.
func (t *Tesselator) VertexIndices() []int {
	return t.vertexIndices
}

// ElementCount returns the number of polygons or contours in the last
// result.
func (t *Tesselator) ElementCount() int {
	return t.elementCount
}

// Elements returns the element buffer of the last result.  Its layout
// depends on the ElementType passed to Tesselate.
func (t *Tesselator) Elements() []int {
	return t.elements
}

// VertexSize returns the number of coordinates per vertex in Vertices, or
// 0 if there is no result.
func (t *Tesselator) VertexSize() int {
	return t.vertexSize
}

// ElementType returns the element type of the last result.  It is
// Polygons after a failed call to Tesselate.
func (t *Tesselator) ElementType() ElementType {
	return t.elementType
}

// PolySize returns the maximum number of vertices per polygon of the last
// result.  It is meaningless for BoundaryContours.
func (t *Tesselator) PolySize() int {
	return t.polySize
}

// NoEmptyPolygons reports whether polygon output skips faces without area.
func (t *Tesselator) NoEmptyPolygons() bool {
	return t.noEmptyPolygons
}

// SetNoEmptyPolygons makes polygon output skip faces with fewer than three
// vertices or with (nearly) zero area.
func (t *Tesselator) SetNoEmptyPolygons(v bool) {
	t.noEmptyPolygons = v
}
