// Copyright 2026 The go-libtess2 Authors. All rights reserved.
// Use of this source code is governed by the SGI Free Software License B
// that can be found in the LICENSE file.

package libtess2

import (
	"fmt"
	"math"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	square = []Vertex{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}

	// bowtie crosses itself at (1, 1); its lobes are wound in opposite
	// directions.
	bowtie = []Vertex{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 2, Y: 0}, {X: 0, Y: 2}}

	pentagram = []Vertex{
		{X: 0.0, Y: 3.0},
		{X: -1.0, Y: 0.0},
		{X: 1.6, Y: 1.9},
		{X: -1.6, Y: 1.9},
		{X: 1.0, Y: 0.0},
	}
)

func translate(c []Vertex, dx, dy float64) []Vertex {
	out := make([]Vertex, len(c))
	for i, v := range c {
		out[i] = Vertex{X: v.X + dx, Y: v.Y + dy, Z: v.Z}
	}
	return out
}

func regularPolygon(n int, r float64) []Vertex {
	out := make([]Vertex, n)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(n)
		out[i] = Vertex{X: r * math.Cos(a), Y: r * math.Sin(a)}
	}
	return out
}

func newTess(t *testing.T, alloc *Alloc) *Tesselator {
	t.Helper()
	tess, err := NewTesselator(alloc)
	require.NoError(t, err)
	t.Cleanup(tess.Destroy)
	return tess
}

func run(t *testing.T, rule WindingRule, et ElementType, polySize int, contours ...[]Vertex) *Tesselator {
	t.Helper()
	tess := newTess(t, nil)
	for _, c := range contours {
		require.NoError(t, tess.AddContour(c))
	}
	require.NoError(t, tess.Tesselate(rule, et, polySize, 2, nil))
	return tess
}

// polygon returns the vertex indices of element i, without padding.
func polygon(tess *Tesselator, polySize, i int) []int {
	var out []int
	for _, idx := range tess.Elements()[i*polySize : (i+1)*polySize] {
		if idx == Undef {
			break
		}
		out = append(out, idx)
	}
	return out
}

// signedArea returns the signed area of the polygon with the given output
// vertex indices.
func signedArea(tess *Tesselator, idx []int) float64 {
	vs := tess.Vertices()
	area := 0.0
	for i := range idx {
		j := (i + 1) % len(idx)
		x0, y0 := vs[2*idx[i]], vs[2*idx[i]+1]
		x1, y1 := vs[2*idx[j]], vs[2*idx[j]+1]
		area += x0*y1 - x1*y0
	}
	return area / 2
}

func totalArea(tess *Tesselator, polySize int) float64 {
	sum := 0.0
	for i := 0; i < tess.ElementCount(); i++ {
		sum += signedArea(tess, polygon(tess, polySize, i))
	}
	return sum
}

func TestTriangleCount(t *testing.T) {
	for _, n := range []int{3, 4, 5, 8, 17} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			tess := run(t, WindingOdd, Polygons, 3, regularPolygon(n, 10))
			assert.Equal(t, n-2, tess.ElementCount())
			assert.Equal(t, n, tess.VertexCount())
			assert.Len(t, tess.Elements(), 3*(n-2))

			// Every output vertex is an input vertex.
			seen := map[int]bool{}
			for _, idx := range tess.VertexIndices() {
				assert.NotEqual(t, Undef, idx)
				seen[idx] = true
			}
			assert.Len(t, seen, n)

			// Triangles are CCW and cover the polygon.
			for i := 0; i < tess.ElementCount(); i++ {
				assert.Greater(t, signedArea(tess, polygon(tess, 3, i)), 0.0)
			}
			want := 0.5 * float64(n) * 100 * math.Sin(2*math.Pi/float64(n))
			assert.InDelta(t, want, totalArea(tess, 3), 1e-9)
		})
	}
}

func TestClockwiseContour(t *testing.T) {
	cw := []Vertex{square[3], square[2], square[1], square[0]}
	tess := run(t, WindingNonzero, Polygons, 3, cw)
	require.Equal(t, 2, tess.ElementCount())
	assert.InDelta(t, 4, math.Abs(totalArea(tess, 3)), 1e-12)
}

func TestDoublyWound(t *testing.T) {
	tests := []struct {
		rule     WindingRule
		elements int
	}{
		{WindingOdd, 0},
		{WindingNonzero, 2},
		{WindingPositive, 2},
		{WindingNegative, 0},
		{WindingAbsGeqTwo, 2},
	}
	for _, tt := range tests {
		t.Run(tt.rule.String(), func(t *testing.T) {
			tess := run(t, tt.rule, Polygons, 3, square, square)
			assert.Equal(t, tt.elements, tess.ElementCount())
			if tt.elements > 0 {
				assert.InDelta(t, 4, totalArea(tess, 3), 1e-12)
			}
		})
	}
}

func TestNestedContours(t *testing.T) {
	outer := regularPolygon(4, 4)
	inner := regularPolygon(4, 1)
	// Reverse the inner contour to make a hole.
	hole := []Vertex{inner[3], inner[2], inner[1], inner[0]}

	tess := run(t, WindingOdd, Polygons, 3, outer, hole)
	assert.InDelta(t, 32-2, totalArea(tess, 3), 1e-9)

	tess = run(t, WindingPositive, Polygons, 3, outer, inner)
	assert.InDelta(t, 32, totalArea(tess, 3), 1e-9)

	tess = run(t, WindingAbsGeqTwo, Polygons, 3, outer, inner)
	assert.InDelta(t, 2, totalArea(tess, 3), 1e-9)
}

func TestBowtie(t *testing.T) {
	tess := run(t, WindingOdd, Polygons, 3, bowtie)
	require.Equal(t, 2, tess.ElementCount())
	require.Equal(t, 5, tess.VertexCount())

	synthesized := 0
	for i, idx := range tess.VertexIndices() {
		if idx != Undef {
			continue
		}
		synthesized++
		assert.InDelta(t, 1, tess.Vertices()[2*i], 1e-12)
		assert.InDelta(t, 1, tess.Vertices()[2*i+1], 1e-12)
	}
	assert.Equal(t, 1, synthesized)

	for i := 0; i < tess.ElementCount(); i++ {
		assert.InDelta(t, 1, math.Abs(signedArea(tess, polygon(tess, 3, i))), 1e-12)
	}

	// Only one lobe winds positively.
	tess = run(t, WindingPositive, Polygons, 3, bowtie)
	assert.Equal(t, 1, tess.ElementCount())
	tess = run(t, WindingNegative, Polygons, 3, bowtie)
	assert.Equal(t, 1, tess.ElementCount())
}

func TestPentagram(t *testing.T) {
	tess := run(t, WindingOdd, Polygons, 3, pentagram)
	assert.Equal(t, 5, tess.ElementCount())
	assert.Equal(t, 10, tess.VertexCount())

	undef := 0
	for _, idx := range tess.VertexIndices() {
		if idx == Undef {
			undef++
		}
	}
	assert.Equal(t, 5, undef)

	// Under the nonzero rule the inner pentagon is filled as well.
	odd := totalArea(tess, 3)
	tess = run(t, WindingNonzero, Polygons, 3, pentagram)
	assert.Greater(t, totalArea(tess, 3), odd)
}

func TestAttributesAreInterpolated(t *testing.T) {
	// x, y, z, a: a runs from 0 to 2 along each crossing edge.
	data := []float64{
		0, 0, 0, 0,
		2, 2, 0, 2,
		2, 0, 0, 2,
		0, 2, 0, 0,
	}
	tess := newTess(t, nil)
	require.NoError(t, tess.AddContourData(4, data, 0, 4))
	require.NoError(t, tess.Tesselate(WindingOdd, Polygons, 3, 4, nil))
	require.Equal(t, 5, tess.VertexCount())

	vs := tess.Vertices()
	for i, idx := range tess.VertexIndices() {
		v := vs[4*i : 4*i+4]
		if idx == Undef {
			assert.InDelta(t, 1, v[0], 1e-12)
			assert.InDelta(t, 1, v[1], 1e-12)
			assert.InDelta(t, 1, v[3], 1e-12)
			continue
		}
		assert.Equal(t, data[4*idx:4*idx+4], v)
	}
}

func TestStride(t *testing.T) {
	// Each vertex is followed by two values which are not coordinates.
	data := []float64{
		0, 0, -1, -1,
		2, 0, -1, -1,
		2, 2, -1, -1,
		0, 2,
	}
	tess := newTess(t, nil)
	require.NoError(t, tess.AddContourData(2, data, 4, 4))
	require.NoError(t, tess.Tesselate(WindingOdd, Polygons, 3, 2, nil))
	assert.Equal(t, 2, tess.ElementCount())
	assert.InDelta(t, 4, totalArea(tess, 3), 1e-12)
}

func TestConvexPolygons(t *testing.T) {
	tess := run(t, WindingOdd, Polygons, 4, square)
	require.Equal(t, 1, tess.ElementCount())
	assert.Len(t, polygon(tess, 4, 0), 4)
	assert.InDelta(t, 4, totalArea(tess, 4), 1e-12)

	// Nothing is merged across a reflex vertex.
	arrow := []Vertex{{X: 0, Y: 0}, {X: 4, Y: 2}, {X: 0, Y: 4}, {X: 1, Y: 2}}
	tess = run(t, WindingOdd, Polygons, 8, arrow)
	assert.Equal(t, 2, tess.ElementCount())
	assert.InDelta(t, 6, totalArea(tess, 8), 1e-12)
	for i := 0; i < tess.ElementCount(); i++ {
		p := polygon(tess, 8, i)
		assert.GreaterOrEqual(t, len(p), 3)
		assert.Greater(t, signedArea(tess, p), 0.0)
	}
}

func TestConnectedPolygons(t *testing.T) {
	const polySize = 3
	tess := run(t, WindingOdd, ConnectedPolygons, polySize, regularPolygon(6, 1))
	n := tess.ElementCount()
	require.Equal(t, 4, n)
	require.Len(t, tess.Elements(), n*2*polySize)

	el := tess.Elements()
	neighbours := func(i int) []int {
		return el[i*2*polySize+polySize : (i+1)*2*polySize]
	}
	links := 0
	for i := 0; i < n; i++ {
		for _, j := range neighbours(i) {
			if j == Undef {
				continue
			}
			links++
			assert.Contains(t, neighbours(j), i, "element %d lists %d but not the reverse", i, j)
		}
	}
	// A triangulated hexagon has three interior diagonals.
	assert.Equal(t, 6, links)
}

func TestBoundaryContours(t *testing.T) {
	tess := run(t, WindingOdd, BoundaryContours, 0, square, translate(square, 10, 0))
	require.Equal(t, 2, tess.ElementCount())

	sum := 0
	el := tess.Elements()
	for i := 0; i < tess.ElementCount(); i++ {
		base, count := el[2*i], el[2*i+1]
		assert.Equal(t, sum, base)
		assert.Equal(t, 4, count)
		sum += count
	}
	assert.Equal(t, tess.VertexCount(), sum)
	assert.Len(t, tess.VertexIndices(), sum)
}

func TestBoundaryContoursUnion(t *testing.T) {
	tess := run(t, WindingNonzero, BoundaryContours, 0, square, translate(square, 1, 1))
	require.Equal(t, 1, tess.ElementCount())
	assert.Equal(t, []int{0, 8}, tess.Elements())
	assert.Equal(t, 8, tess.VertexCount())

	undef := 0
	for _, idx := range tess.VertexIndices() {
		if idx == Undef {
			undef++
		}
	}
	assert.Equal(t, 2, undef)
}

func TestDeterminism(t *testing.T) {
	type result struct {
		Vertices []float64
		Indices  []int
		Elements []int
	}
	tessellate := func() result {
		tess := run(t, WindingNonzero, ConnectedPolygons, 5, pentagram, bowtie, translate(square, 0.5, 0.25))
		return result{tess.Vertices(), tess.VertexIndices(), tess.Elements()}
	}
	first := tessellate()
	for i := 0; i < 3; i++ {
		if diff := cmp.Diff(first, tessellate()); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestReuse(t *testing.T) {
	tess := newTess(t, nil)
	require.NoError(t, tess.AddContour(square))
	require.NoError(t, tess.Tesselate(WindingOdd, Polygons, 3, 2, nil))
	require.Equal(t, 2, tess.ElementCount())

	// The contours are consumed by Tesselate.
	require.NoError(t, tess.Tesselate(WindingOdd, Polygons, 3, 2, nil))
	assert.Zero(t, tess.ElementCount())
	assert.Zero(t, tess.VertexCount())

	// Input indices restart with the next batch.
	require.NoError(t, tess.AddContour(regularPolygon(5, 1)))
	require.NoError(t, tess.Tesselate(WindingOdd, Polygons, 3, 2, nil))
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, tess.VertexIndices())
}

func TestNoEmptyPolygons(t *testing.T) {
	tess := newTess(t, nil)
	assert.False(t, tess.NoEmptyPolygons())
	tess.SetNoEmptyPolygons(true)
	assert.True(t, tess.NoEmptyPolygons())

	require.NoError(t, tess.AddContour(square))
	require.NoError(t, tess.Tesselate(WindingOdd, Polygons, 3, 2, nil))
	assert.Equal(t, 2, tess.ElementCount())

	// A contour along a line encloses nothing.
	require.NoError(t, tess.AddContour([]Vertex{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 3, Y: 3}}))
	require.NoError(t, tess.Tesselate(WindingOdd, Polygons, 3, 2, nil))
	assert.Zero(t, tess.ElementCount())
}

func TestDegenerateInput(t *testing.T) {
	tests := []struct {
		name     string
		contours [][]Vertex
	}{
		{"empty contour", [][]Vertex{{}}},
		{"single point", [][]Vertex{{{X: 1, Y: 1}}}},
		{"two points", [][]Vertex{{{X: 0, Y: 0}, {X: 1, Y: 0}}}},
		{"coincident points", [][]Vertex{{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}}}},
		{"collinear", [][]Vertex{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}}},
	}
	for _, tt := range tests {
		for _, et := range []ElementType{Polygons, ConnectedPolygons, BoundaryContours} {
			t.Run(tt.name+"/"+et.String(), func(t *testing.T) {
				tess := newTess(t, nil)
				for _, c := range tt.contours {
					require.NoError(t, tess.AddContour(c))
				}
				require.NoError(t, tess.Tesselate(WindingOdd, et, 3, 2, nil))
				assert.Zero(t, tess.ElementCount())
				assert.Empty(t, tess.Elements())
			})
		}
	}
}

func TestZeroLengthEdges(t *testing.T) {
	c := []Vertex{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	tess := run(t, WindingOdd, Polygons, 3, c)
	assert.Equal(t, 2, tess.ElementCount())
	assert.Equal(t, 4, tess.VertexCount())
}

func TestNormal(t *testing.T) {
	// The square in the xz plane.
	c := make([]Vertex, len(square))
	for i, v := range square {
		c[i] = Vertex{X: v.X, Z: v.Y}
	}
	for _, normal := range [][]float64{nil, {0, 1, 0}, {0, -1, 0}} {
		tess := newTess(t, nil)
		require.NoError(t, tess.AddContour(c))
		require.NoError(t, tess.Tesselate(WindingNonzero, Polygons, 3, 3, normal))
		assert.Equal(t, 2, tess.ElementCount())
		for i := 0; i < tess.VertexCount(); i++ {
			assert.Zero(t, tess.Vertices()[3*i+1])
		}
	}
}

func TestInvalidArguments(t *testing.T) {
	tess := newTess(t, nil)

	err := tess.AddContourData(1, []float64{0, 0, 0}, 0, 3)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	err = tess.AddContourData(MaxDimensions+1, make([]float64, 3*(MaxDimensions+1)), 0, 3)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	err = tess.AddContourData(3, make([]float64, 9), 2, 3)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	err = tess.AddContourData(2, make([]float64, 5), 0, 3)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	err = tess.AddContourData(2, nil, 0, -1)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	require.NoError(t, tess.AddContour(square))
	err = tess.Tesselate(WindingOdd, Polygons, 2, 2, nil)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	err = tess.Tesselate(WindingRule(42), Polygons, 3, 2, nil)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	err = tess.Tesselate(WindingOdd, ElementType(42), 3, 2, nil)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	err = tess.Tesselate(WindingOdd, Polygons, 3, 2, []float64{0, 1})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	// Rejected calls leave the contours in place.
	require.NoError(t, tess.Tesselate(WindingOdd, Polygons, 3, 2, nil))
	assert.Equal(t, 2, tess.ElementCount())

	_, err = NewTesselator(&Alloc{ExtraVertices: -1})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	tess.Destroy()
	assert.True(t, errors.Is(tess.AddContour(square), ErrInvalidArgument))
}

func TestEmptyTesselate(t *testing.T) {
	tess := newTess(t, nil)
	require.NoError(t, tess.Tesselate(WindingOdd, Polygons, 3, 2, nil))
	assert.Zero(t, tess.VertexCount())
	assert.Zero(t, tess.ElementCount())
	assert.Empty(t, tess.Vertices())
}

// switchBudget refuses every request while refuse is set.
type switchBudget struct {
	LimitBudget
	refuse bool
}

func (b *switchBudget) Reserve(size int) bool {
	if b.refuse {
		return false
	}
	return b.LimitBudget.Reserve(size)
}

func TestOutOfMemory(t *testing.T) {
	tessSize := int(unsafe.Sizeof(Tesselator{}))

	_, err := NewTesselator(&Alloc{Budget: &LimitBudget{Limit: 0}})
	assert.True(t, errors.Is(err, ErrOutOfMemory))

	// Room for the tesselator, but not for a mesh bucket.
	tess := newTess(t, &Alloc{Budget: &LimitBudget{Limit: tessSize + 1}})
	err = tess.AddContour(square)
	assert.True(t, errors.Is(err, ErrOutOfMemory))
	err = tess.Tesselate(WindingOdd, Polygons, 3, 2, nil)
	assert.True(t, errors.Is(err, ErrOutOfMemory))
	assert.Zero(t, tess.ElementCount())

	// Refusal in the middle of a tessellation.
	budget := &switchBudget{LimitBudget: LimitBudget{Limit: 1 << 30}}
	tess = newTess(t, &Alloc{Budget: budget})
	require.NoError(t, tess.AddContour(square))
	require.NoError(t, tess.Tesselate(WindingOdd, Polygons, 3, 2, nil))
	require.Equal(t, 2, tess.ElementCount())

	require.NoError(t, tess.AddContour(pentagram))
	budget.refuse = true
	err = tess.Tesselate(WindingOdd, Polygons, 3, 2, nil)
	assert.True(t, errors.Is(err, ErrOutOfMemory))
	assert.Zero(t, tess.ElementCount())
	assert.Zero(t, tess.VertexCount())
	assert.Nil(t, tess.Elements())
	assert.Equal(t, tessSize, budget.Used())

	budget.refuse = false
	tess.Destroy()
	assert.Zero(t, budget.Used())
}

func TestExtraVertices(t *testing.T) {
	// {7/3} heptagram: every edge crosses four others.
	star := make([]Vertex, 7)
	for i := range star {
		a := 2 * math.Pi * float64(3*i) / 7
		star[i] = Vertex{X: math.Cos(a), Y: math.Sin(a)}
	}
	for _, noGrow := range []bool{false, true} {
		tess := newTess(t, &Alloc{ExtraVertices: 64, NoGrow: noGrow})
		require.NoError(t, tess.AddContour(star))
		require.NoError(t, tess.Tesselate(WindingNonzero, Polygons, 3, 2, nil))
		assert.Positive(t, tess.ElementCount())
	}

	tess := newTess(t, &Alloc{})
	require.NoError(t, tess.AddContour(star))
	require.NoError(t, tess.Tesselate(WindingOdd, BoundaryContours, 0, 2, nil))
	assert.Positive(t, tess.ElementCount())
}

func ExampleTesselator_Tesselate() {
	tess, err := NewTesselator(nil)
	if err != nil {
		panic(err)
	}
	defer tess.Destroy()

	if err := tess.AddContour(pentagram); err != nil {
		panic(err)
	}
	if err := tess.Tesselate(WindingOdd, Polygons, 3, 2, nil); err != nil {
		panic(err)
	}
	synthesized := 0
	for _, idx := range tess.VertexIndices() {
		if idx == Undef {
			synthesized++
		}
	}
	fmt.Println("vertices:", tess.VertexCount())
	fmt.Println("synthesized:", synthesized)
	fmt.Println("triangles:", tess.ElementCount())
	// Output:
	// vertices: 10
	// synthesized: 5
	// triangles: 5
}

func TestResultLayoutAfterFailure(t *testing.T) {
	tess := run(t, WindingOdd, BoundaryContours, 3, square)
	require.Equal(t, BoundaryContours, tess.ElementType())
	require.Equal(t, 2, tess.VertexSize())

	require.NoError(t, tess.AddContour(square))
	err := tess.Tesselate(WindingOdd, BoundaryContours, 3, 2, []float64{0, 1})
	require.True(t, errors.Is(err, ErrInvalidArgument))

	assert.Equal(t, Polygons, tess.ElementType())
	assert.Zero(t, tess.VertexSize())
	assert.Zero(t, tess.PolySize())
	assert.Zero(t, tess.ElementCount())
}

func TestResultLayoutWithoutContours(t *testing.T) {
	tess := newTess(t, nil)
	require.NoError(t, tess.Tesselate(WindingOdd, ConnectedPolygons, 4, 2, nil))

	assert.Equal(t, ConnectedPolygons, tess.ElementType())
	assert.Equal(t, 4, tess.PolySize())
	assert.Zero(t, tess.ElementCount())
	assert.Empty(t, tess.Elements())
}
