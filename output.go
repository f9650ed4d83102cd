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

package libtess2

import (
	"math"
	"unsafe"
)

// emptyAreaTolerance scales the projected bounding box area into the
// smallest face area that NoEmptyPolygons still considers non-empty.
const emptyAreaTolerance = 1e-12

// faceArea returns twice the signed area of f in the sweep plane.
func faceArea(f *face) float64 {
	area := 0.0
	e := f.anEdge
	for {
		area += (e.Org.s - dst(e).s) * (e.Org.t + dst(e).t)
		e = e.Lnext
		if e == f.anEdge {
			break
		}
	}
	return area
}

func (t *Tesselator) isEmptyFace(f *face) bool {
	if countFaceVerts(f) < 3 {
		return true
	}
	limit := emptyAreaTolerance * (t.bmax[0] - t.bmin[0]) * (t.bmax[1] - t.bmin[1])
	return math.Abs(faceArea(f)) <= limit
}

func neighbourFace(e *halfEdge) int {
	f := rFace(e)
	if f == nil || !f.inside {
		return Undef
	}
	return f.n
}

var (
	indexSize = int(unsafe.Sizeof(int(0)))
	realSize  = int(unsafe.Sizeof(float64(0)))
)

// allocOutput sizes the output buffers and charges them to the budget.
func (t *Tesselator) allocOutput(vertexCount, vertexSize, elementLen int) {
	size := vertexCount*vertexSize*realSize + (vertexCount+elementLen)*indexSize
	reserve(t.alloc.Budget, "output", size)
	t.outputReserved = size

	t.vertexCount = vertexCount
	t.vertices = make([]float64, vertexCount*vertexSize)
	t.vertexIndices = make([]int, vertexCount)
	t.elements = make([]int, elementLen)
}

func (t *Tesselator) outputPolymesh(elementType ElementType, polySize, vertexSize int) {
	m := t.mesh

	// Assume that the input data is triangles now.
	// Try to merge as many polygons as possible
	if polySize > 3 {
		m.mergeConvexFaces(polySize)
	}

	// Mark unused
	for v := m.vHead.next; v != &m.vHead; v = v.next {
		v.n = Undef
	}

	// Create unique IDs for all vertices and faces.
	maxFaceCount := 0
	maxVertexCount := 0
	for f := m.fHead.next; f != &m.fHead; f = f.next {
		f.n = Undef
		if !f.inside {
			continue
		}
		if t.noEmptyPolygons && t.isEmptyFace(f) {
			continue
		}

		edge := f.anEdge
		faceVerts := 0
		for {
			v := edge.Org
			if v.n == Undef {
				v.n = maxVertexCount
				maxVertexCount++
			}
			faceVerts++
			edge = edge.Lnext
			if edge == f.anEdge {
				break
			}
		}
		invariant(faceVerts <= polySize)

		f.n = maxFaceCount
		maxFaceCount++
	}

	elementLen := maxFaceCount * polySize
	if elementType == ConnectedPolygons {
		elementLen *= 2
	}
	t.allocOutput(maxVertexCount, vertexSize, elementLen)
	t.elementCount = maxFaceCount

	// Output vertices.
	for v := m.vHead.next; v != &m.vHead; v = v.next {
		if v.n == Undef {
			continue
		}
		copy(t.vertices[v.n*vertexSize:(v.n+1)*vertexSize], v.coords[:vertexSize])
		t.vertexIndices[v.n] = v.idx
	}

	// Output indices.
	elements := t.elements
	for f := m.fHead.next; f != &m.fHead; f = f.next {
		if f.n == Undef {
			continue
		}

		// Store polygon
		edge := f.anEdge
		faceVerts := 0
		for {
			elements[faceVerts] = edge.Org.n
			faceVerts++
			edge = edge.Lnext
			if edge == f.anEdge {
				break
			}
		}
		// Fill unused.
		for i := faceVerts; i < polySize; i++ {
			elements[i] = Undef
		}
		elements = elements[polySize:]

		// Store polygon connectivity
		if elementType == ConnectedPolygons {
			edge := f.anEdge
			i := 0
			for {
				elements[i] = neighbourFace(edge)
				i++
				edge = edge.Lnext
				if edge == f.anEdge {
					break
				}
			}
			for ; i < polySize; i++ {
				elements[i] = Undef
			}
			elements = elements[polySize:]
		}
	}
}

func (t *Tesselator) outputContours(vertexSize int) {
	m := t.mesh

	vertexCount := 0
	elementCount := 0
	for f := m.fHead.next; f != &m.fHead; f = f.next {
		if !f.inside {
			continue
		}
		vertexCount += countFaceVerts(f)
		elementCount++
	}

	t.allocOutput(vertexCount, vertexSize, elementCount*2)
	t.elementCount = elementCount

	verts := t.vertices
	vertInds := t.vertexIndices
	elements := t.elements
	startVert := 0
	for f := m.fHead.next; f != &m.fHead; f = f.next {
		if !f.inside {
			continue
		}

		vertCount := 0
		start := f.anEdge
		edge := start
		for {
			copy(verts[:vertexSize], edge.Org.coords[:vertexSize])
			verts = verts[vertexSize:]
			vertInds[0] = edge.Org.idx
			vertInds = vertInds[1:]
			vertCount++
			edge = edge.Lnext
			if edge == start {
				break
			}
		}

		elements[0] = startVert
		elements[1] = vertCount
		elements = elements[2:]

		startVert += vertCount
	}
}
