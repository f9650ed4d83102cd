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
	"go.uber.org/zap"
)

// For each pair of adjacent edges crossing the sweep line, there is
// an activeRegion to represent the region between them.  The active
// regions are kept in sorted order in a dynamic dictionary.  As the
// sweep line crosses each vertex, we update the affected regions.
type activeRegion struct {
	eUp           *halfEdge // upper edge, directed right to left
	nodeUp        *dictNode // dictionary node corresponding to eUp
	windingNumber int       // used to determine which regions are inside the polygon
	inside        bool      // is this region inside the polygon?
	sentinel      bool      // marks fake edges at t = +/-infinity
	dirty         bool      // marks regions where the upper or lower edge has changed, but we haven't checked whether they intersect yet

	// marks temporary edges introduced when we process a "right vertex"
	// (one without any edges leaving to the right)
	fixUpperEdge bool
}

func regionBelow(r *activeRegion) *activeRegion {
	return r.nodeUp.pred().key
}

func regionAbove(r *activeRegion) *activeRegion {
	return r.nodeUp.succ().key
}

type sweepStats struct {
	events        int
	intersections int
	merges        int
	fixedEdges    int
	degenerate    int
}

// Invariants for the Edge Dictionary.
//   - each pair of adjacent edges e2=Succ(e1) satisfies edgeLeq(e1,e2)
//     at any valid location of the sweep event
//   - if edgeLeq(e2,e1) as well (at any valid sweep event), then e1 and e2
//     share a common endpoint
//   - for each e, dst(e) has been processed, but not e.Org
//   - each edge e satisfies vertLeq(dst(e),event) && vertLeq(event,e.Org)
//     where "event" is the current sweep line event.
//   - no edge e has zero length
//
// Invariants for the Mesh (the processed portion).
//   - the portion of the mesh left of the sweep line is a planar graph,
//     ie. there is *some* way to embed it in the plane
//   - no processed edge has zero length
//   - no two processed vertices have identical coordinates
//   - each "inside" region is monotone, ie. can be broken into two chains
//     of monotonically increasing vertices according to vertLeq(v1,v2)
//     - a non-invariant: these chains may intersect (very slightly)
//
// Invariants for the Sweep.
//   - if none of the edges incident to the event vertex have an activeRegion
//     (ie. none of these edges are in the edge dictionary), then the vertex
//     has only right-going edges.
//   - if an edge is marked "fixUpperEdge" (it is a temporary edge introduced
//     by connectRightVertex), then it is the only right-going edge from
//     its associated vertex.  (This says that these edges exist only
//     when it is necessary.)

// edgeLeq reports whether reg1 is below reg2 at the current sweep event.
//
// Both edges must be directed from right to left (this is the canonical
// direction for the upper edge of each region).
//
// The strategy is to evaluate a "t" value for each edge at the
// current sweep line position, given by t.event.  The calculations
// are designed to be very stable, but of course they are not perfect.
//
// Special case: if both edge destinations are at the sweep event,
// we sort the edges by slope (they would otherwise compare equally).
func (t *Tesselator) edgeLeq(reg1, reg2 *activeRegion) bool {
	event := t.event
	e1 := reg1.eUp
	e2 := reg2.eUp

	if dst(e1) == event {
		if dst(e2) == event {
			// Two edges right of the sweep line which meet at the sweep event.
			// Sort them by slope.
			if vertLeq(e1.Org, e2.Org) {
				return edgeSign(dst(e2), e1.Org, e2.Org) <= 0
			}
			return edgeSign(dst(e1), e2.Org, e1.Org) >= 0
		}
		return edgeSign(dst(e2), event, e2.Org) <= 0
	}
	if dst(e2) == event {
		return edgeSign(dst(e1), event, e1.Org) >= 0
	}

	// General case - compute signed distance *from* e1, e2 to event
	t1 := edgeEval(dst(e1), event, e1.Org)
	t2 := edgeEval(dst(e2), event, e2.Org)
	return t1 >= t2
}

func (t *Tesselator) deleteRegion(reg *activeRegion) {
	if reg.fixUpperEdge {
		// It was created with zero winding number, so it better be
		// deleted with zero winding number (ie. it better not get merged
		// with a real edge).
		invariant(reg.eUp.winding == 0)
	}
	reg.eUp.activeRegion = nil
	t.dict.delete(reg.nodeUp)
	t.regions.free(reg)
}

// fixUpperEdge replaces an upper edge which needs fixing (see
// connectRightVertex).
func (t *Tesselator) fixUpperEdge(reg *activeRegion, newEdge *halfEdge) {
	invariant(reg.fixUpperEdge)
	t.mesh.delete(reg.eUp)
	reg.fixUpperEdge = false
	reg.eUp = newEdge
	newEdge.activeRegion = reg
}

func (t *Tesselator) topLeftRegion(reg *activeRegion) *activeRegion {
	org := reg.eUp.Org

	// Find the region above the uppermost edge with the same origin
	for {
		reg = regionAbove(reg)
		if reg.eUp.Org != org {
			break
		}
	}

	// If the edge above was a temporary edge introduced by connectRightVertex,
	// now is the time to fix it.
	if reg.fixUpperEdge {
		e := t.mesh.connect(regionBelow(reg).eUp.Sym, reg.eUp.Lnext)
		t.fixUpperEdge(reg, e)
		reg = regionAbove(reg)
	}
	return reg
}

func topRightRegion(reg *activeRegion) *activeRegion {
	d := dst(reg.eUp)

	// Find the region above the uppermost edge with the same destination
	for {
		reg = regionAbove(reg)
		if dst(reg.eUp) != d {
			break
		}
	}
	return reg
}

// addRegionBelow adds a new active region to the sweep line, *somewhere*
// below regAbove (according to where the new edge belongs in the sweep-line
// dictionary).  The upper edge of the new region will be eNewUp.
// Winding number and "inside" flag are not updated.
func (t *Tesselator) addRegionBelow(regAbove *activeRegion, eNewUp *halfEdge) *activeRegion {
	regNew := t.regions.alloc()
	regNew.eUp = eNewUp
	regNew.nodeUp = t.dict.insertBefore(regAbove.nodeUp, regNew)
	eNewUp.activeRegion = regNew
	return regNew
}

func (t *Tesselator) isWindingInside(n int) bool {
	return t.windingRule.inside(n)
}

func (t *Tesselator) computeWinding(reg *activeRegion) {
	reg.windingNumber = regionAbove(reg).windingNumber + reg.eUp.winding
	reg.inside = t.isWindingInside(reg.windingNumber)
}

// finishRegion deletes a region from the sweep line.  This happens when the
// upper and lower chains of a region meet (at a vertex on the sweep line).
// The "inside" flag is copied to the appropriate mesh face (we could have
// deleted the region earlier, but there was no face available at the time).
func (t *Tesselator) finishRegion(reg *activeRegion) {
	e := reg.eUp
	f := e.Lface

	f.inside = reg.inside
	f.anEdge = e // optimization for tessellateMonoRegion
	t.deleteRegion(reg)
}

// finishLeftRegions:
// We are given a vertex with one or more left-going edges.  All affected
// edges should be in the edge dictionary.  Starting at regFirst.eUp,
// we walk down deleting all regions where both edges have the same
// origin vOrg.  At the same time we copy the "inside" flag from the
// active region to the face, since at this point each face will belong
// to at most one region (this was not necessarily true until this point
// in the sweep).  The walk stops at the region above regLast; if regLast
// is nil we walk as far as possible.  At the same time we relink the
// mesh if necessary, so that the ordering of edges around vOrg is the
// same as in the dictionary.
func (t *Tesselator) finishLeftRegions(regFirst, regLast *activeRegion) *halfEdge {
	regPrev := regFirst
	ePrev := regFirst.eUp
	for regPrev != regLast {
		regPrev.fixUpperEdge = false // placement was OK
		reg := regionBelow(regPrev)
		e := reg.eUp
		if e.Org != ePrev.Org {
			if !reg.fixUpperEdge {
				// Remove the last left-going edge.  Even though there are no further
				// edges in the dictionary with this origin, there may be further
				// such edges in the mesh (if we are adding left edges to a vertex
				// that has already been processed).  Thus it is important to call
				// finishRegion rather than just deleteRegion.
				t.finishRegion(regPrev)
				break
			}
			// If the edge below was a temporary edge introduced by
			// connectRightVertex, now is the time to fix it.
			e = t.mesh.connect(lPrev(ePrev), e.Sym)
			t.fixUpperEdge(reg, e)
		}

		// Relink edges so that ePrev.Onext == e
		if ePrev.Onext != e {
			t.mesh.splice(oPrev(e), e)
			t.mesh.splice(ePrev, e)
		}
		t.finishRegion(regPrev) // may change reg.eUp
		ePrev = reg.eUp
		regPrev = reg
	}
	return ePrev
}

// addRightEdges:
// Purpose: insert right-going edges into the edge dictionary, and update
// winding numbers and mesh connectivity appropriately.  All right-going
// edges share a common origin vOrg.  Edges are inserted CCW starting at
// eFirst; the last edge inserted is eLast.Oprev.  If vOrg has any
// left-going edges already processed, then eTopLeft must be the edge
// such that an imaginary upward vertical segment from vOrg would be
// contained between eTopLeft.Oprev and eTopLeft; otherwise eTopLeft
// should be nil.
func (t *Tesselator) addRightEdges(regUp *activeRegion, eFirst, eLast, eTopLeft *halfEdge, cleanUp bool) {
	// Insert the new right-going edges in the dictionary
	e := eFirst
	for {
		t.addRegionBelow(regUp, e.Sym)
		e = e.Onext
		if e == eLast {
			break
		}
	}

	// Walk *all* right-going edges from e.Org, in the dictionary order,
	// updating the winding numbers of each region, and re-linking the mesh
	// edges to match the dictionary ordering (if necessary).
	if eTopLeft == nil {
		eTopLeft = rPrev(regionBelow(regUp).eUp)
	}
	regPrev := regUp
	ePrev := eTopLeft
	firstTime := true
	var reg *activeRegion
	for {
		reg = regionBelow(regPrev)
		e = reg.eUp.Sym
		if e.Org != ePrev.Org {
			break
		}

		if e.Onext != ePrev {
			// Unlink e from its current position, and relink below ePrev
			t.mesh.splice(oPrev(e), e)
			t.mesh.splice(oPrev(ePrev), e)
		}
		// Compute the winding number and "inside" flag for the new regions
		reg.windingNumber = regPrev.windingNumber - e.winding
		reg.inside = t.isWindingInside(reg.windingNumber)

		// Check for two outgoing edges with same slope -- process these
		// before any intersection tests (see example in computeInterior).
		regPrev.dirty = true
		if !firstTime && t.checkForRightSplice(regPrev) {
			addWinding(e, ePrev)
			t.deleteRegion(regPrev)
			t.mesh.delete(ePrev)
		}
		firstTime = false
		regPrev = reg
		ePrev = e
	}
	regPrev.dirty = true
	invariant(regPrev.windingNumber-e.winding == reg.windingNumber)

	if cleanUp {
		// Check for intersections between newly adjacent edges.
		t.walkDirtyRegions(regPrev)
	}
}

func addWinding(eDst, eSrc *halfEdge) {
	eDst.winding += eSrc.winding
	eDst.Sym.winding += eSrc.Sym.winding
}

// spliceMergeVertices merges two vertices at the same location.  e2.Org
// is destroyed; e1.Org keeps its coordinates and input index.
func (t *Tesselator) spliceMergeVertices(e1, e2 *halfEdge) {
	t.stats.merges++
	t.mesh.splice(e1, e2)
}

// getIntersectData computes the coordinates of the intersection vertex
// isect, in every dimension, from the endpoints of the two edges which
// cross there.
func (t *Tesselator) getIntersectData(isect, orgUp, dstUp, orgLo, dstLo *vertex) {
	isect.coords = [MaxDimensions]float64{}
	isect.idx = Undef
	vertexWeights(isect, orgUp, dstUp, t.dims)
	vertexWeights(isect, orgLo, dstLo, t.dims)
}

// checkForRightSplice:
// Check the upper and lower edge of regUp, to make sure that the
// eUp.Org is above eLo, or eLo.Org is below eUp (depending on which
// origin is leftmost).
//
// The main purpose is to splice right-going edges with the same
// dest vertex and nearly identical slopes (ie. we can't distinguish
// the slopes numerically).  However the splicing can also help us
// to recover from numerical errors.  For example, suppose at one
// point we checked eUp and eLo, and decided that eUp.Org is barely
// above eLo.  Then later, we split eLo into two edges (eg. from
// a splice operation like this one).  This can change the result of
// our test so that now eUp.Org is incident to eLo, or barely below it.
// We must correct this condition to maintain the dictionary invariants.
//
// One possibility is to check these edges for intersection again
// (ie. checkForIntersect).  This is what we do if possible.  However
// checkForIntersect requires that t.event lies between eUp and eLo,
// so that it has something to fall back on when the intersection
// calculation gives us an unusable answer.  So, for those cases where
// we can't check for intersection, this routine fixes the problem
// by just splicing the offending vertex into the other edge.
// This is a guaranteed solution, no matter how degenerate things get.
// Basically this is a combinatorial solution to a numerical problem.
func (t *Tesselator) checkForRightSplice(regUp *activeRegion) bool {
	regLo := regionBelow(regUp)
	eUp := regUp.eUp
	eLo := regLo.eUp

	if vertLeq(eUp.Org, eLo.Org) {
		if edgeSign(dst(eLo), eUp.Org, eLo.Org) > 0 {
			return false
		}

		// eUp.Org appears to be below eLo
		if !vertEq(eUp.Org, eLo.Org) {
			// Splice eUp.Org into eLo
			t.mesh.splitEdge(eLo.Sym)
			t.mesh.splice(eUp, oPrev(eLo))
			regUp.dirty = true
			regLo.dirty = true
		} else if eUp.Org != eLo.Org {
			// merge the two vertices, discarding eUp.Org
			t.pq.delete(eUp.Org)
			t.spliceMergeVertices(oPrev(eLo), eUp)
		}
	} else {
		if edgeSign(dst(eUp), eLo.Org, eUp.Org) < 0 {
			return false
		}

		// eLo.Org appears to be above eUp, so splice eLo.Org into eUp
		regionAbove(regUp).dirty = true
		regUp.dirty = true
		t.mesh.splitEdge(eUp.Sym)
		t.mesh.splice(oPrev(eLo), eUp)
	}
	return true
}

// checkForLeftSplice:
// Check the upper and lower edge of regUp, to make sure that the
// dst(eUp) is above eLo, or dst(eLo) is below eUp (depending on which
// destination is rightmost).
//
// Theoretically, this should always be true.  However, splitting an edge
// into two pieces can change the results of previous tests.  For example,
// suppose at one point we checked eUp and eLo, and decided that dst(eUp)
// is barely above eLo.  Then later, we split eLo into two edges (eg. from
// a splice operation like this one).  This can change the result of
// the test so that now dst(eUp) is incident to eLo, or barely below it.
// We must correct this condition to maintain the dictionary invariants
// (otherwise new edges might get inserted in the wrong place in the
// dictionary, and bad stuff will happen).
//
// We fix the problem by just splicing the offending vertex into the
// other edge.
func (t *Tesselator) checkForLeftSplice(regUp *activeRegion) bool {
	regLo := regionBelow(regUp)
	eUp := regUp.eUp
	eLo := regLo.eUp

	if vertLeq(dst(eUp), dst(eLo)) {
		if edgeSign(dst(eUp), dst(eLo), eUp.Org) < 0 {
			return false
		}

		// dst(eLo) is above eUp, so splice dst(eLo) into eUp
		regionAbove(regUp).dirty = true
		regUp.dirty = true
		e := t.mesh.splitEdge(eUp)
		t.mesh.splice(eLo.Sym, e)
		e.Lface.inside = regUp.inside
	} else {
		if edgeSign(dst(eLo), dst(eUp), eLo.Org) > 0 {
			return false
		}

		// dst(eUp) is below eLo, so splice dst(eUp) into eLo
		regUp.dirty = true
		regLo.dirty = true
		e := t.mesh.splitEdge(eLo)
		t.mesh.splice(eUp.Lnext, eLo.Sym)
		rFace(e).inside = regUp.inside
	}
	return true
}

// splitAtEvent splits e at its origin end and moves the new vertex onto
// the sweep event.  connectRightVertex splices it into place afterwards.
func (t *Tesselator) splitAtEvent(e *halfEdge) {
	t.mesh.splitEdge(e.Sym)
	v := e.Org
	v.s = t.event.s
	v.t = t.event.t
	v.coords = t.event.coords
}

// checkForIntersect:
// Check the upper and lower edges of the given region to see if
// they intersect.  If so, create the intersection and add it
// to the data structures.
//
// Returns true if adding the new intersection resulted in a recursive
// call to addRightEdges(); in this case all "dirty" regions have been
// checked for intersections, and possibly regUp has been deleted.
func (t *Tesselator) checkForIntersect(regUp *activeRegion) bool {
	regLo := regionBelow(regUp)
	eUp := regUp.eUp
	eLo := regLo.eUp
	orgUp := eUp.Org
	orgLo := eLo.Org
	dstUp := dst(eUp)
	dstLo := dst(eLo)

	invariant(!regUp.fixUpperEdge && !regLo.fixUpperEdge)

	if orgUp == orgLo {
		return false // right endpoints are the same
	}

	tMinUp := min(orgUp.t, dstUp.t)
	tMaxLo := max(orgLo.t, dstLo.t)
	if tMinUp > tMaxLo {
		return false // t ranges do not overlap
	}

	if vertLeq(orgUp, orgLo) {
		if edgeSign(dstLo, orgUp, orgLo) > 0 {
			return false
		}
	} else {
		if edgeSign(dstUp, orgLo, orgUp) < 0 {
			return false
		}
	}

	// At this point the edges intersect, at least marginally
	var isect vertex
	edgeIntersect(dstUp, orgUp, dstLo, orgLo, &isect)
	snapIntersection(&isect, t.event, orgUp, orgLo)

	if vertEq(&isect, orgUp) || vertEq(&isect, orgLo) {
		// Easy case -- intersection at one of the right endpoints
		t.checkForRightSplice(regUp)
		return false
	}

	if (!vertEq(dstUp, t.event) && edgeSign(dstUp, t.event, &isect) >= 0) ||
		(!vertEq(dstLo, t.event) && edgeSign(dstLo, t.event, &isect) <= 0) {
		// Very unusual -- the new upper or lower edge would pass on the
		// wrong side of the sweep event, or through it.  This can happen
		// due to very small numerical errors in the intersection calculation.
		if dstLo == t.event {
			// Splice dstLo into eUp, and process the new region(s)
			t.mesh.splitEdge(eUp.Sym)
			t.mesh.splice(eLo.Sym, eUp)
			regUp = t.topLeftRegion(regUp)
			eUp = regionBelow(regUp).eUp
			t.finishLeftRegions(regionBelow(regUp), regLo)
			t.addRightEdges(regUp, oPrev(eUp), eUp, eUp, true)
			return true
		}
		if dstUp == t.event {
			// Splice dstUp into eLo, and process the new region(s)
			t.mesh.splitEdge(eLo.Sym)
			t.mesh.splice(eUp.Lnext, oPrev(eLo))
			regLo = regUp
			regUp = topRightRegion(regUp)
			e := rPrev(regionBelow(regUp).eUp)
			regLo.eUp = oPrev(eLo)
			eLo = t.finishLeftRegions(regLo, nil)
			t.addRightEdges(regUp, eLo.Onext, rPrev(eUp), e, true)
			return true
		}
		// Special case: called from connectRightVertex.  If either
		// edge passes on the wrong side of t.event, split it
		// (and wait for connectRightVertex to splice it appropriately).
		if edgeSign(dstUp, t.event, &isect) >= 0 {
			regionAbove(regUp).dirty = true
			regUp.dirty = true
			t.splitAtEvent(eUp)
		}
		if edgeSign(dstLo, t.event, &isect) <= 0 {
			regUp.dirty = true
			regLo.dirty = true
			t.splitAtEvent(eLo)
		}
		// leave the rest for connectRightVertex
		return false
	}

	// General case -- split both edges, splice into new vertex.
	// When we do the splice operation, the order of the arguments is
	// arbitrary as far as correctness goes.  However, when the operation
	// creates a new face, the work done is proportional to the size of
	// the new face.  We expect the faces in the processed part of
	// the mesh (ie. eUp.Lface) to be smaller than the faces in the
	// unprocessed original contours (which will be oPrev(eLo).Lface).
	t.mesh.splitEdge(eUp.Sym)
	t.mesh.splitEdge(eLo.Sym)
	t.mesh.splice(oPrev(eLo), eUp)
	v := eUp.Org
	v.s = isect.s
	v.t = isect.t
	t.getIntersectData(v, orgUp, dstUp, orgLo, dstLo)
	t.pq.insert(v)
	t.stats.intersections++
	regionAbove(regUp).dirty = true
	regUp.dirty = true
	regLo.dirty = true
	return false
}

// walkDirtyRegions:
// When the upper or lower edge of any region changes, the region is
// marked "dirty".  This routine walks through all the dirty regions
// and makes sure that the dictionary invariants are satisfied
// (see the comments at the beginning of this file).  Of course
// new dirty regions can be created as we make changes to restore
// the invariants.
func (t *Tesselator) walkDirtyRegions(regUp *activeRegion) {
	regLo := regionBelow(regUp)

	for {
		// Find the lowest dirty region (we walk from the bottom up).
		for regLo.dirty {
			regUp = regLo
			regLo = regionBelow(regLo)
		}
		if !regUp.dirty {
			regLo = regUp
			regUp = regionAbove(regUp)
			if regUp == nil || !regUp.dirty {
				// We've walked all the dirty regions
				return
			}
		}
		regUp.dirty = false
		eUp := regUp.eUp
		eLo := regLo.eUp

		if dst(eUp) != dst(eLo) {
			// Check that the edge ordering is obeyed at the Dst vertices.
			if t.checkForLeftSplice(regUp) {
				// If the upper or lower edge was marked fixUpperEdge, then
				// we no longer need it (since these edges are needed only for
				// vertices which otherwise have no right-going edges).
				if regLo.fixUpperEdge {
					t.deleteRegion(regLo)
					t.mesh.delete(eLo)
					regLo = regionBelow(regUp)
					eLo = regLo.eUp
				} else if regUp.fixUpperEdge {
					t.deleteRegion(regUp)
					t.mesh.delete(eUp)
					regUp = regionAbove(regLo)
					eUp = regUp.eUp
				}
			}
		}
		if eUp.Org != eLo.Org {
			if dst(eUp) != dst(eLo) &&
				!regUp.fixUpperEdge && !regLo.fixUpperEdge &&
				(dst(eUp) == t.event || dst(eLo) == t.event) {
				// When all else fails in checkForIntersect(), it uses t.event
				// as the intersection location.  To make this possible, it requires
				// that t.event lie between the upper and lower edges, and also
				// that neither of these is marked fixUpperEdge (since in the worst
				// case it might splice one of these edges into t.event, and
				// violate the invariant that fixable edges are the only right-going
				// edge from their associated vertex).
				if t.checkForIntersect(regUp) {
					// walkDirtyRegions() was called recursively; we're done
					return
				}
			} else {
				// Even though we can't use checkForIntersect(), the Org vertices
				// may violate the dictionary edge ordering.  Check and correct this.
				t.checkForRightSplice(regUp)
			}
		}
		if eUp.Org == eLo.Org && dst(eUp) == dst(eLo) {
			// A degenerate loop consisting of only two edges -- delete it.
			addWinding(eLo, eUp)
			t.deleteRegion(regUp)
			t.mesh.delete(eUp)
			regUp = regionAbove(regLo)
		}
	}
}

// connectRightVertex:
// Purpose: connect a "right" vertex vEvent (one where all edges go left)
// to the unprocessed portion of the mesh.  Since there are no right-going
// edges, two regions (one above vEvent and one below) are being merged
// into one.  regUp is the upper of these two regions.
//
// There are two reasons for doing this (adding a right-going edge):
//   - if the two regions being merged are "inside", we must add an edge
//     to keep them separated (the combined region would not be monotone).
//   - in any case, we must leave some record of vEvent in the dictionary,
//     so that we can merge vEvent with features that we have not seen yet.
//     For example, maybe there is a vertical edge which passes just to
//     the right of vEvent; we would like to splice vEvent into this edge.
//
// However, we don't want to connect vEvent to just any vertex.  We don't
// want the new edge to cross any other edges; otherwise we will create
// intersection vertices even when the input data had no self-intersections.
// (This is a bad thing; if the user's input data has no intersections,
// we don't want to generate any false intersections ourselves.)
//
// Our eventual goal is to connect vEvent to the leftmost unprocessed
// vertex of the combined region (the union of regUp and regLo).
// But because of unseen vertices with all right-going edges, and also
// new vertices which may be created by edge intersections, we don't
// know where that leftmost unprocessed vertex is.  In the meantime, we
// connect vEvent to the closest vertex of either chain, and mark the region
// as "fixUpperEdge".  This flag says to delete and reconnect this edge
// to the next processed vertex on the boundary of the combined region.
// Quite possibly the vertex we connected to will turn out to be the
// closest one, in which case we won't need to make any changes.
func (t *Tesselator) connectRightVertex(regUp *activeRegion, eBottomLeft *halfEdge) {
	eTopLeft := eBottomLeft.Onext
	regLo := regionBelow(regUp)
	eUp := regUp.eUp
	eLo := regLo.eUp
	degenerate := false

	if dst(eUp) != dst(eLo) {
		t.checkForIntersect(regUp)
	}

	// Possible new degeneracies: upper or lower edge of regUp may pass
	// through vEvent, or may coincide with new intersection vertex
	if vertEq(eUp.Org, t.event) {
		t.mesh.splice(oPrev(eTopLeft), eUp)
		regUp = t.topLeftRegion(regUp)
		eTopLeft = regionBelow(regUp).eUp
		t.finishLeftRegions(regionBelow(regUp), regLo)
		degenerate = true
	}
	if vertEq(eLo.Org, t.event) {
		t.mesh.splice(eBottomLeft, oPrev(eLo))
		eBottomLeft = t.finishLeftRegions(regLo, nil)
		degenerate = true
	}
	if degenerate {
		t.addRightEdges(regUp, eBottomLeft.Onext, eTopLeft, eTopLeft, true)
		return
	}

	// Non-degenerate situation -- need to add a temporary, fixable edge.
	// Connect to the closer of eLo.Org, eUp.Org.
	var eNew *halfEdge
	if vertLeq(eLo.Org, eUp.Org) {
		eNew = oPrev(eLo)
	} else {
		eNew = eUp
	}
	eNew = t.mesh.connect(lPrev(eBottomLeft), eNew)

	// Prevent cleanup, otherwise eNew might disappear before we've even
	// had a chance to mark it as a temporary edge.
	t.addRightEdges(regUp, eNew, eNew.Onext, eNew.Onext, false)
	eNew.Sym.activeRegion.fixUpperEdge = true
	t.walkDirtyRegions(regUp)
}

// connectLeftDegenerate:
// The event vertex lies exacty on an already-processed edge or vertex.
// Adding the new vertex involves splicing it into the already-processed
// part of the mesh.
func (t *Tesselator) connectLeftDegenerate(regUp *activeRegion, vEvent *vertex) {
	e := regUp.eUp
	if vertEq(e.Org, vEvent) {
		// e.Org is an unprocessed vertex - just combine them, and wait
		// for e.Org to be pulled from the queue
		t.spliceMergeVertices(e, vEvent.anEdge)
		return
	}

	if !vertEq(dst(e), vEvent) {
		// General case -- splice vEvent into edge e which passes through it
		t.mesh.splitEdge(e.Sym)
		if regUp.fixUpperEdge {
			// This edge was fixable -- delete unused portion of original edge
			t.mesh.delete(e.Onext)
			regUp.fixUpperEdge = false
		}
		t.mesh.splice(vEvent.anEdge, e)
		t.sweepEvent(vEvent) // recurse
		return
	}

	// vEvent coincides with dst(e), which has already been processed.
	// Splice in the additional right-going edges.
	regUp = topRightRegion(regUp)
	reg := regionBelow(regUp)
	eTopRight := reg.eUp.Sym
	eTopLeft := eTopRight.Onext
	eLast := eTopLeft
	if reg.fixUpperEdge {
		// Here dst(e) has only a single fixable edge going right.
		// We can delete it since now we have some real right-going edges.
		t.deleteRegion(reg)
		t.mesh.delete(eTopRight)
		eTopRight = oPrev(eTopLeft)
	}
	t.mesh.splice(vEvent.anEdge, eTopRight)
	if !edgeGoesLeft(eTopLeft) {
		// dst(e) had no left-going edges -- indicate this to addRightEdges()
		eTopLeft = nil
	}
	t.addRightEdges(regUp, eTopRight.Onext, eLast, eTopLeft, true)
}

// connectLeftVertex:
// Purpose: connect a "left" vertex (one where both edges go right)
// to the processed portion of the mesh.  Let R be the active region
// containing vEvent, and let U and L be the upper and lower edge
// chains of R.  There are two possibilities:
//
//   - the normal case: split R into two regions, by connecting vEvent to
//     the rightmost vertex of U or L lying to the left of the sweep line
//
//   - the degenerate case: if vEvent is close enough to U or L, we
//     merge vEvent into that edge chain.  The subcases are:
//     -- merging with the rightmost vertex of U or L
//     -- merging with the active edge of U or L
//     -- merging with an already-processed portion of U or L
func (t *Tesselator) connectLeftVertex(vEvent *vertex) {
	// Get a pointer to the active region containing vEvent
	tmp := activeRegion{eUp: vEvent.anEdge.Sym}
	regUp := t.dict.search(&tmp).key
	if regUp == nil {
		return
	}
	regLo := regionBelow(regUp)
	if regLo == nil {
		// This may happen if the input polygon is coplanar.
		return
	}
	eUp := regUp.eUp
	eLo := regLo.eUp

	// Try merging with U or L first
	if edgeSign(dst(eUp), vEvent, eUp.Org) == 0 {
		t.connectLeftDegenerate(regUp, vEvent)
		return
	}

	// Connect to the closer of eLo.Org, eUp.Org.
	// We connect vEvent to the rightmost processed vertex of either chain.
	// dst(e) is the vertex that we will connect to vEvent.
	reg := regLo
	if vertLeq(dst(eLo), dst(eUp)) {
		reg = regUp
	}

	if regUp.inside || reg.fixUpperEdge {
		var eNew *halfEdge
		if reg == regUp {
			eNew = t.mesh.connect(vEvent.anEdge.Sym, eUp.Lnext)
		} else {
			eNew = t.mesh.connect(dNext(eLo), vEvent.anEdge).Sym
		}
		if reg.fixUpperEdge {
			t.fixUpperEdge(reg, eNew)
		} else {
			t.computeWinding(t.addRegionBelow(regUp, eNew))
		}
		t.sweepEvent(vEvent)
	} else {
		// The new vertex is in a region which does not belong to the polygon.
		// We don't need to connect this vertex to the rest of the mesh.
		t.addRightEdges(regUp, vEvent.anEdge, vEvent.anEdge, nil, true)
	}
}

// sweepEvent does everything necessary when the sweep line crosses a
// vertex.  Updates the mesh and the edge dictionary.
func (t *Tesselator) sweepEvent(vEvent *vertex) {
	t.event = vEvent // for access in edgeLeq()
	t.stats.events++

	// Check if this vertex is the right endpoint of an edge that is
	// already in the dictionary.  In this case we don't need to waste
	// time searching for the location to insert new edges.
	e := vEvent.anEdge
	for e.activeRegion == nil {
		e = e.Onext
		if e == vEvent.anEdge {
			// All edges go right -- not incident to any processed edges
			t.connectLeftVertex(vEvent)
			return
		}
	}

	// Processing consists of two phases: first we "finish" all the
	// active regions where both the upper and lower edges terminate
	// at vEvent (ie. vEvent is closing off these regions).
	// We mark these faces "inside" or "outside" the polygon according
	// to their winding number, and delete the edges from the dictionary.
	// This takes care of all the left-going edges from vEvent.
	regUp := t.topLeftRegion(e.activeRegion)
	reg := regionBelow(regUp)
	eTopLeft := reg.eUp
	eBottomLeft := t.finishLeftRegions(reg, nil)

	// Next we process all the right-going edges from vEvent.  This
	// involves adding the edges to the dictionary, and creating the
	// associated "active regions" which record information about the
	// regions between adjacent dictionary edges.
	if eBottomLeft.Onext == eTopLeft {
		// No right-going edges -- add a temporary "fixable" edge
		t.connectRightVertex(regUp, eBottomLeft)
	} else {
		t.addRightEdges(regUp, eBottomLeft.Onext, eTopLeft, eTopLeft, true)
	}
}

// addSentinel makes the sentinel coordinates big enough that they will
// never be merged with real input features.
func (t *Tesselator) addSentinel(smin, smax, tt float64) {
	reg := t.regions.alloc()

	e := t.mesh.newEdge()
	e.Org.s = smax
	e.Org.t = tt
	dst(e).s = smin
	dst(e).t = tt
	t.event = dst(e) // initialize it

	reg.eUp = e
	reg.sentinel = true
	reg.nodeUp = t.dict.insert(reg)
}

// initEdgeDict creates the dictionary bounded by two sentinel edges which
// lie outside the bounding box of the input.
func (t *Tesselator) initEdgeDict() {
	t.dict = newDict(t.edgeLeq, t.dictNodes)

	w := t.bmax[0] - t.bmin[0]
	h := t.bmax[1] - t.bmin[1]

	// If the bbox is empty, ensure that sentinels are not coincident by
	// slightly enlarging it.
	if w <= 0 {
		w = sentinelMargin
	}
	if h <= 0 {
		h = sentinelMargin
	}
	smin := t.bmin[0] - w
	smax := t.bmax[0] + w
	tmin := t.bmin[1] - h
	tmax := t.bmax[1] + h

	t.addSentinel(smin, smax, tmin)
	t.addSentinel(smin, smax, tmax)
}

// sentinelMargin enlarges an empty bounding box.
const sentinelMargin = 0.01

func (t *Tesselator) doneEdgeDict() {
	for {
		reg := t.dict.min().key
		if reg == nil {
			break
		}
		// At the end of all processing, the dictionary should contain
		// only the two sentinel edges, plus at most one "fixable" edge
		// created by connectRightVertex().
		if !reg.sentinel {
			t.stats.fixedEdges++
		}
		t.deleteRegion(reg)
	}
	t.dict = nil
}

// removeDegenerateEdges removes zero-length edges, and contours with fewer
// than 3 vertices.
func (t *Tesselator) removeDegenerateEdges() {
	eHead := &t.mesh.eHead.e
	var eNext *halfEdge
	for e := eHead.next; e != eHead; e = eNext {
		eNext = e.next
		eLnext := e.Lnext

		if vertEq(e.Org, dst(e)) && e.Lnext.Lnext != e {
			// Zero-length edge, contour has at least 3 edges
			t.spliceMergeVertices(eLnext, e) // deletes e.Org
			t.mesh.delete(e)
			t.stats.degenerate++
			e = eLnext
			eLnext = e.Lnext
		}
		if eLnext.Lnext == e {
			// Degenerate contour (one or two edges)
			if eLnext != e {
				if eLnext == eNext || eLnext == eNext.Sym {
					eNext = eNext.next
				}
				t.mesh.delete(eLnext)
			}
			if e == eNext || e == eNext.Sym {
				eNext = eNext.next
			}
			t.mesh.delete(e)
			t.stats.degenerate++
		}
	}
}

// initPriorityQ inserts all vertices into the priority queue which
// determines the order in which vertices cross the sweep line.
func (t *Tesselator) initPriorityQ() {
	vertexCount := 0
	vHead := &t.mesh.vHead
	for v := vHead.next; v != vHead; v = v.next {
		vertexCount++
	}
	// Make sure there is enough space for vertices created at
	// intersections.
	vertexCount += max(8, t.alloc.ExtraVertices)

	t.pq = newPQ(vertexCount, t.alloc.NoGrow, t.alloc.Budget)
	for v := vHead.next; v != vHead; v = v.next {
		t.pq.insert(v)
	}
}

func (t *Tesselator) donePriorityQ() {
	t.pq.release()
	t.pq = nil
}

// removeDegenerateFaces deletes any degenerate faces with only two edges.
// walkDirtyRegions() will catch almost all of these, but it won't catch
// degenerate faces produced by splice operations on already-processed
// edges.  The two places this can happen are in finishLeftRegions(), when
// we splice in a "temporary" edge produced by connectRightVertex(), and in
// checkForLeftSplice(), where we splice already-processed edges to ensure
// that our dictionary invariants are not violated by numerical errors.
//
// In both these cases it is *very* dangerous to delete the offending
// edge at the time, since one of the routines further up the stack
// will sometimes be keeping a pointer to that edge.
func (t *Tesselator) removeDegenerateFaces() {
	m := t.mesh
	var fNext *face
	for f := m.fHead.next; f != &m.fHead; f = fNext {
		fNext = f.next
		e := f.anEdge
		invariant(e.Lnext != e)

		if e.Lnext.Lnext == e {
			// A face with only two edges
			addWinding(e.Onext, e)
			m.delete(e)
			t.stats.degenerate++
		}
	}
}

// computeInterior computes the planar arrangement specified by the given
// contours, and further subdivides this arrangement into regions.  Each
// region is marked "inside" if it belongs to the polygon, according to the
// rule given by t.windingRule.  Each interior region is guaranteed be
// monotone.
func (t *Tesselator) computeInterior() error {
	t.stats = sweepStats{}

	// Each vertex defines an event for our sweep line.  Start by inserting
	// all the vertices in a priority queue.  Events are processed in
	// lexicographic order, ie.
	//
	//	e1 < e2  iff  e1.x < e2.x || (e1.x == e2.x && e1.y < e2.y)
	t.removeDegenerateEdges()
	t.initPriorityQ()
	t.initEdgeDict()

	for {
		v := t.pq.extractMin()
		if v == nil {
			break
		}
		for {
			vNext := t.pq.minimum()
			if vNext == nil || !vertEq(vNext, v) {
				break
			}

			// Merge together all vertices at exactly the same location.
			// This is more efficient than processing them one at a time,
			// simplifies the code (see connectLeftDegenerate), and is also
			// important for correct handling of certain degenerate cases.
			// For example, suppose there are two identical edges A and B
			// that belong to different contours (so without this code they would
			// be processed by separate sweep events).  Suppose another edge C
			// crosses A and B from above.  When A is processed, we split it
			// at its intersection point with C.  However this also splits C,
			// so when we insert B we may compute a slightly different
			// intersection point.  This might leave two edges with a small
			// gap between them.  This kind of error is especially obvious
			// when using boundary extraction (BoundaryContours).
			vNext = t.pq.extractMin()
			t.spliceMergeVertices(v.anEdge, vNext.anEdge)
		}
		t.sweepEvent(v)
	}

	t.doneEdgeDict()
	t.donePriorityQ()

	t.removeDegenerateFaces()

	Logger().Debug("sweep finished",
		zap.Int("events", t.stats.events),
		zap.Int("intersections", t.stats.intersections),
		zap.Int("merged", t.stats.merges),
		zap.Int("degenerate", t.stats.degenerate),
		zap.Int("fixable", t.stats.fixedEdges))

	return t.mesh.check()
}
