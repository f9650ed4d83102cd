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

// inside reports whether a region with winding number n belongs to the
// polygon interior under the rule.
func (r WindingRule) inside(n int) bool {
	switch r {
	case WindingOdd:
		return n&1 != 0
	case WindingNonzero:
		return n != 0
	case WindingPositive:
		return n > 0
	case WindingNegative:
		return n < 0
	case WindingAbsGeqTwo:
		return n >= 2 || n <= -2
	}
	fatalf(ErrInvalidArgument, "unknown winding rule %d", r)
	return false
}

// tessellateMonoRegion tessellates a monotone region
// (what else would it do??)  The region must consist of a single
// loop of half-edges (see mesh.go) oriented CCW.  "Monotone" in this
// case means that any vertical line intersects the interior of the
// region in a single interval.
//
// Tessellation consists of adding interior edges (actually pairs of
// half-edges), to split the region into non-overlapping triangles.
//
// The basic idea is explained in Preparata and Shamos (which I don't
// have handy right now), although their implementation is more
// complicated than this one.  The are two edge chains, an upper chain
// and a lower chain.  We process all vertices from both chains in order,
// from right to left.
//
// The algorithm ensures that the following invariant holds after each
// vertex is processed: the untessellated region consists of two
// chains, where one chain (say the upper) is a single edge, and
// the other chain is concave.  The left vertex of the single edge
// is always to the left of all vertices in the concave chain.
//
// Each step consists of adding the rightmost unprocessed vertex to one
// of the two chains, and forming a fan of triangles from the rightmost
// of two chain endpoints.  Determining whether we can add each triangle
// to the fan is a simple orientation test.  By making the fan as large
// as possible, we restore the invariant (check it yourself).
func (m *mesh) tessellateMonoRegion(f *face) {
	// All edges are oriented CCW around the boundary of the region.
	// First, find the half-edge whose origin vertex is rightmost.
	// Since the sweep goes from left to right, f.anEdge should
	// be close to the edge we want.
	up := f.anEdge
	invariant(up.Lnext != up && up.Lnext.Lnext != up)

	for vertLeq(dst(up), up.Org) {
		up = lPrev(up)
	}
	for vertLeq(up.Org, dst(up)) {
		up = up.Lnext
	}
	lo := lPrev(up)

	for up.Lnext != lo {
		if vertLeq(dst(up), lo.Org) {
			// dst(up) is on the left.  It is safe to form triangles from lo.Org.
			// The edgeGoesLeft test guarantees progress even when some triangles
			// are CW, given that the upper and lower chains are truly monotone.
			for lo.Lnext != up && (edgeGoesLeft(lo.Lnext) ||
				edgeSign(lo.Org, dst(lo), dst(lo.Lnext)) <= 0) {
				lo = m.connect(lo.Lnext, lo).Sym
			}
			lo = lPrev(lo)
		} else {
			// lo.Org is on the left.  We can make CCW triangles from dst(up).
			for lo.Lnext != up && (edgeGoesRight(lPrev(up)) ||
				edgeSign(dst(up), up.Org, lPrev(up).Org) >= 0) {
				up = m.connect(up, lPrev(up)).Sym
			}
			up = up.Lnext
		}
	}

	// Now lo.Org == dst(up) == the leftmost vertex.  The remaining region
	// can be tessellated in a fan from this leftmost vertex.
	invariant(lo.Lnext != up)
	for lo.Lnext.Lnext != up {
		lo = m.connect(lo.Lnext, lo).Sym
	}
}

// tessellateInterior tessellates each region of the mesh which is marked
// "inside" the polygon.  Each such region must be monotone.
func (m *mesh) tessellateInterior() {
	var next *face
	for f := m.fHead.next; f != &m.fHead; f = next {
		// Make sure we don't try to tessellate the new triangles.
		next = f.next
		if f.inside {
			m.tessellateMonoRegion(f)
		}
	}
}

// discardExterior zaps (ie. sets to nil) all faces which are not marked
// "inside" the polygon.  Since further mesh operations on nil faces are
// not allowed, the main purpose is to clean up the mesh so that exterior
// loops are not represented in the data structure.
func (m *mesh) discardExterior() {
	var next *face
	for f := m.fHead.next; f != &m.fHead; f = next {
		// Since f will be destroyed, save its next pointer.
		next = f.next
		if !f.inside {
			m.zapFace(f)
		}
	}
}

// setWindingNumber resets the winding numbers on all edges so that regions
// marked "inside" the polygon have a winding number of "value", and
// regions outside have a winding number of 0.
//
// If keepOnlyBoundary is true, it also deletes all edges which do not
// separate an interior region from an exterior one.
func (m *mesh) setWindingNumber(value int, keepOnlyBoundary bool) {
	eHead := &m.eHead.e
	var eNext *halfEdge
	for e := eHead.next; e != eHead; e = eNext {
		eNext = e.next
		if rFace(e).inside != e.Lface.inside {
			// This is a boundary edge (one side is interior, one is exterior).
			if e.Lface.inside {
				e.winding = value
			} else {
				e.winding = -value
			}
		} else {
			// Both regions are interior, or both are exterior.
			if !keepOnlyBoundary {
				e.winding = 0
			} else {
				m.delete(e)
			}
		}
	}
}
