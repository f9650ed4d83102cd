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

// The mesh is a Guibas/Stolfi quad-edge structure restricted to the primal
// graph.  Each edge is a pair of half-edges pointing in opposite
// directions; each half-edge knows its origin vertex and the face on its
// left.
//
// The global lists of vertices, faces and edges are circular and doubly
// linked through dummy headers stored in the mesh.  For edges the list
// only keeps a next pointer per half-edge; the previous edge of e is
// found in e.Sym.next.  The list only contains the first half-edge of
// each pair.

type vertex struct {
	next   *vertex   // next vertex (never nil)
	prev   *vertex   // previous vertex (never nil)
	anEdge *halfEdge // a half-edge with this origin

	coords [MaxDimensions]float64
	s, t   float64 // projection onto the sweep plane

	pqHandle int    // position in the event queue, or -1
	n        int    // output index
	idx      int    // input index, or Undef for synthesized vertices
	seq      uint64 // creation order, the final event tie-break
}

type face struct {
	next   *face     // next face (never nil)
	prev   *face     // previous face (never nil)
	anEdge *halfEdge // a half-edge with this left face

	trail  *face // "stack" for conversion to strips
	n      int   // output index
	marked bool  // flag for conversion to strips
	inside bool  // this face is in the polygon interior
}

type halfEdge struct {
	next  *halfEdge // doubly-linked list (prev==Sym.next)
	Sym   *halfEdge // same edge, opposite direction
	Onext *halfEdge // next edge CCW around origin
	Lnext *halfEdge // next edge CCW around left face
	Org   *vertex   // origin vertex (Overtex too long)
	Lface *face     // left face

	// Internal data (keep hidden)
	activeRegion *activeRegion // a region with this upper edge (sweep.go)
	winding      int           // change in winding number when crossing from the right face to the left face

	pair *edgePair
}

// edgePair allocates both halves of an edge together.  e is the half-edge
// kept in the global edge list.
type edgePair struct {
	e, eSym halfEdge
}

// first returns the half of e's pair that lives in the global edge list.
func first(e *halfEdge) *halfEdge {
	if e != &e.pair.e {
		return e.Sym
	}
	return e
}

func dst(e *halfEdge) *vertex {
	return e.Sym.Org
}

func setDst(e *halfEdge, v *vertex) {
	e.Sym.Org = v
}

func rFace(e *halfEdge) *face {
	return e.Sym.Lface
}

func setRFace(e *halfEdge, f *face) {
	e.Sym.Lface = f
}

func oPrev(e *halfEdge) *halfEdge {
	return e.Sym.Lnext
}

func lPrev(e *halfEdge) *halfEdge {
	return e.Onext.Sym
}

func dPrev(e *halfEdge) *halfEdge {
	return e.Lnext.Sym
}

func rPrev(e *halfEdge) *halfEdge {
	return e.Sym.Onext
}

func dNext(e *halfEdge) *halfEdge {
	return rPrev(e).Sym
}

func rNext(e *halfEdge) *halfEdge {
	return oPrev(e).Sym
}

type mesh struct {
	vHead vertex   // dummy header for vertex list
	fHead face     // dummy header for face list
	eHead edgePair // dummy header for edge list

	edges    *bucketAlloc[edgePair]
	vertices *bucketAlloc[vertex]
	faces    *bucketAlloc[face]

	seq uint64
}

// newMesh creates a new mesh with no edges, no vertices,
// and no loops (what we usually call a "face").
func newMesh(a *Alloc) *mesh {
	m := &mesh{
		edges:    newBucketAlloc[edgePair]("mesh edges", a.MeshEdgeBucketSize, a.Budget),
		vertices: newBucketAlloc[vertex]("mesh vertices", a.MeshVertexBucketSize, a.Budget),
		faces:    newBucketAlloc[face]("mesh faces", a.MeshFaceBucketSize, a.Budget),
	}

	v := &m.vHead
	v.next = v
	v.prev = v

	f := &m.fHead
	f.next = f
	f.prev = f

	e := &m.eHead.e
	eSym := &m.eHead.eSym
	e.next = e
	e.Sym = eSym
	e.pair = &m.eHead
	eSym.next = eSym
	eSym.Sym = e
	eSym.pair = &m.eHead

	return m
}

// release returns all storage to the budget.  The mesh must not be used
// afterwards.
func (m *mesh) release() {
	m.edges.release()
	m.vertices.release()
	m.faces.release()
}

// makeEdge creates a new pair of half-edges which form their own loop.
// No vertex or face structures are allocated, but these must be assigned
// before the current edge operation is completed.
func (m *mesh) makeEdge(eNext *halfEdge) *halfEdge {
	pair := m.edges.alloc()

	e := &pair.e
	eSym := &pair.eSym

	eNext = first(eNext)

	// Insert in circular doubly-linked list before eNext.
	// Note that the prev pointer is stored in Sym.next.
	ePrev := eNext.Sym.next
	eSym.next = ePrev
	ePrev.Sym.next = e
	e.next = eNext
	eNext.Sym.next = eSym

	e.Sym = eSym
	e.Onext = e
	e.Lnext = eSym
	e.pair = pair

	eSym.Sym = e
	eSym.Onext = eSym
	eSym.Lnext = e
	eSym.pair = pair

	return e
}

// splice exchanges a.Onext and b.Onext.  Depending on whether a and b
// belong to the same vertex and face rings, this joins or splits them.
// See (*mesh).splice for the bookkeeping variant.
func splice(a, b *halfEdge) {
	aOnext := a.Onext
	bOnext := b.Onext

	aOnext.Sym.Lnext = b
	bOnext.Sym.Lnext = a
	a.Onext = bOnext
	b.Onext = aOnext
}

// makeVertex attaches a new vertex and makes it the origin of all edges in
// the vertex loop to which eOrig belongs.  The vertex is inserted before
// vNext, so that algorithms which walk the vertex list will not see it.
func (m *mesh) makeVertex(eOrig *halfEdge, vNext *vertex) *vertex {
	vNew := m.vertices.alloc()

	vPrev := vNext.prev
	vNew.prev = vPrev
	vPrev.next = vNew
	vNew.next = vNext
	vNext.prev = vNew

	vNew.anEdge = eOrig
	vNew.pqHandle = -1
	vNew.idx = Undef
	m.seq++
	vNew.seq = m.seq

	e := eOrig
	for {
		e.Org = vNew
		e = e.Onext
		if e == eOrig {
			break
		}
	}
	return vNew
}

// makeFace attaches a new face and makes it the left face of all edges in
// the face loop to which eOrig belongs.  The face is inserted before fNext.
func (m *mesh) makeFace(eOrig *halfEdge, fNext *face) *face {
	fNew := m.faces.alloc()

	fPrev := fNext.prev
	fNew.prev = fPrev
	fPrev.next = fNew
	fNew.next = fNext
	fNext.prev = fNew

	fNew.anEdge = eOrig

	// The new face is marked "inside" if the old one was.  This is a
	// convenience for the common case where a face has been split in two.
	fNew.inside = fNext.inside

	e := eOrig
	for {
		e.Lface = fNew
		e = e.Lnext
		if e == eOrig {
			break
		}
	}
	return fNew
}

// killEdge destroys an edge (the half-edges eDel and eDel.Sym),
// and removes from the global edge list.
func (m *mesh) killEdge(eDel *halfEdge) {
	eDel = first(eDel)

	eNext := eDel.next
	ePrev := eDel.Sym.next
	eNext.Sym.next = ePrev
	ePrev.Sym.next = eNext

	m.edges.free(eDel.pair)
}

// killVertex destroys a vertex and removes it from the global vertex list.
// It updates the vertex loop to point to a given new vertex.
func (m *mesh) killVertex(vDel, newOrg *vertex) {
	eStart := vDel.anEdge

	e := eStart
	for {
		e.Org = newOrg
		e = e.Onext
		if e == eStart {
			break
		}
	}

	vPrev := vDel.prev
	vNext := vDel.next
	vNext.prev = vPrev
	vPrev.next = vNext

	m.vertices.free(vDel)
}

// killFace destroys a face and removes it from the global face list.  It
// updates the face loop to point to a given new face.
func (m *mesh) killFace(fDel, newLface *face) {
	eStart := fDel.anEdge

	e := eStart
	for {
		e.Lface = newLface
		e = e.Lnext
		if e == eStart {
			break
		}
	}

	fPrev := fDel.prev
	fNext := fDel.next
	fNext.prev = fPrev
	fPrev.next = fNext

	m.faces.free(fDel)
}

// newEdge creates one edge, two vertices, and a loop (face).
// The loop consists of the two new half-edges.
func (m *mesh) newEdge() *halfEdge {
	e := m.makeEdge(&m.eHead.e)

	m.makeVertex(e, &m.vHead)
	m.makeVertex(e.Sym, &m.vHead)
	m.makeFace(e, &m.fHead)
	return e
}

// mustBeLive aborts with ErrInvariant unless e is an allocated half-edge
// with an origin and a left face.  Freed records are zeroed, so a stale
// pointer has no Sym.
func mustBeLive(op string, e *halfEdge) {
	if e == nil || e.Sym == nil || e.Org == nil || e.Lface == nil {
		fatalf(ErrInvariant, "%s: half-edge is freed or lies on a zapped face", op)
	}
}

// splice is the basic operation for changing the mesh connectivity and
// topology.  It changes the mesh so that
//
//	eOrg.Onext <- OLD( eDst.Onext )
//	eDst.Onext <- OLD( eOrg.Onext )
//
// where OLD(...) means the value before the splice operation.
//
// This can have two effects on the vertex structure:
//   - if eOrg.Org != eDst.Org, the two vertices are merged together
//   - if eOrg.Org == eDst.Org, the origin is split into two vertices
//
// In both cases, eDst.Org is changed and eOrg.Org is untouched.
//
// Similarly (and independently) for the face structure,
//   - if eOrg.Lface == eDst.Lface, one loop is split into two
//   - if eOrg.Lface != eDst.Lface, two distinct loops are joined into one
//
// In both cases, eDst.Lface is changed and eOrg.Lface is unaffected.
//
// Some special cases:
// If eDst == eOrg, the operation has no effect.
// If eDst == eOrg.Lnext, the new face will have a single edge.
// If eDst == lPrev(eOrg), the old face will have a single edge.
// If eDst == eOrg.Onext, the new vertex will have a single edge.
// If eDst == oPrev(eOrg), the old vertex will have a single edge.
func (m *mesh) splice(eOrg, eDst *halfEdge) {
	mustBeLive("splice", eOrg)
	mustBeLive("splice", eDst)
	if eOrg == eDst {
		return
	}

	joiningVertices := false
	if eDst.Org != eOrg.Org {
		// We are merging two disjoint vertices -- destroy eDst.Org
		joiningVertices = true
		m.killVertex(eDst.Org, eOrg.Org)
	}
	joiningLoops := false
	if eDst.Lface != eOrg.Lface {
		// We are connecting two disjoint loops -- destroy eDst.Lface
		joiningLoops = true
		m.killFace(eDst.Lface, eOrg.Lface)
	}

	splice(eDst, eOrg)

	if !joiningVertices {
		// We split one vertex into two -- the new vertex is eDst.Org.
		// Make sure the old vertex points to a valid half-edge.
		m.makeVertex(eDst, eOrg.Org)
		eOrg.Org.anEdge = eOrg
	}
	if !joiningLoops {
		// We split one loop into two -- the new loop is eDst.Lface.
		// Make sure the old face points to a valid half-edge.
		m.makeFace(eDst, eOrg.Lface)
		eOrg.Lface.anEdge = eOrg
	}
}

// delete removes the edge eDel.  There are several cases:
// if (eDel.Lface != eDel.Rface), we join two loops into one; the loop
// eDel.Lface is deleted.  Otherwise, we are splitting one loop into two;
// the newly created loop will contain dst(eDel).  If the deletion of eDel
// would create isolated vertices, those are deleted as well.
func (m *mesh) delete(eDel *halfEdge) {
	mustBeLive("delete", eDel)
	mustBeLive("delete", eDel.Sym)
	eDelSym := eDel.Sym

	// First step: disconnect the origin vertex eDel.Org.  We make all
	// changes to get a consistent mesh in this "intermediate" state.
	joiningLoops := false
	if eDel.Lface != rFace(eDel) {
		// We are joining two loops into one -- remove the left face
		joiningLoops = true
		m.killFace(eDel.Lface, rFace(eDel))
	}

	if eDel.Onext == eDel {
		m.killVertex(eDel.Org, nil)
	} else {
		// Make sure that eDel.Org and rFace(eDel) point to valid half-edges
		rFace(eDel).anEdge = oPrev(eDel)
		eDel.Org.anEdge = eDel.Onext

		splice(eDel, oPrev(eDel))
		if !joiningLoops {
			// We are splitting one loop into two -- create a new loop for eDel.
			m.makeFace(eDel, eDel.Lface)
		}
	}

	// Claim: the mesh is now in a consistent state, except that eDel.Org
	// may have been deleted.  Now we disconnect dst(eDel).
	if eDelSym.Onext == eDelSym {
		m.killVertex(eDelSym.Org, nil)
		m.killFace(eDelSym.Lface, nil)
	} else {
		// Make sure that dst(eDel) and eDel.Lface point to valid half-edges
		eDel.Lface.anEdge = oPrev(eDelSym)
		eDelSym.Org.anEdge = eDelSym.Onext
		splice(eDelSym, oPrev(eDelSym))
	}

	// Any isolated vertices or faces have already been freed.
	m.killEdge(eDel)
}

// addEdgeVertex creates a new edge eNew such that eNew == eOrg.Lnext,
// and dst(eNew) is a newly created vertex.
// eOrg and eNew will have the same left face.
func (m *mesh) addEdgeVertex(eOrg *halfEdge) *halfEdge {
	eNew := m.makeEdge(eOrg)
	eNewSym := eNew.Sym

	splice(eNew, eOrg.Lnext)

	eNew.Org = dst(eOrg)
	m.makeVertex(eNewSym, eNew.Org)
	eNew.Lface = eOrg.Lface
	eNewSym.Lface = eOrg.Lface

	return eNew
}

// splitEdge splits eOrg into two edges eOrg and eNew,
// such that eNew == eOrg.Lnext.  The new vertex is dst(eOrg) == eNew.Org.
// eOrg and eNew will have the same left face.
func (m *mesh) splitEdge(eOrg *halfEdge) *halfEdge {
	eNew := m.addEdgeVertex(eOrg).Sym

	// Disconnect eOrg from dst(eOrg) and connect it to eNew.Org
	splice(eOrg.Sym, oPrev(eOrg.Sym))
	splice(eOrg.Sym, eNew)

	setDst(eOrg, eNew.Org)
	dst(eNew).anEdge = eNew.Sym // may have pointed to eOrg.Sym
	setRFace(eNew, rFace(eOrg))
	eNew.winding = eOrg.winding // copy old winding information
	eNew.Sym.winding = eOrg.Sym.winding

	return eNew
}

// connect creates a new edge from dst(eOrg) to eDst.Org, and returns the
// corresponding half-edge eNew.  If eOrg.Lface == eDst.Lface, this splits
// one loop into two, and the newly created loop is eNew.Lface.  Otherwise,
// two disjoint loops are merged into one, and the loop eDst.Lface is
// destroyed.
//
// If (eOrg == eDst), the new face will have only two edges.
// If (eOrg.Lnext == eDst), the old face is reduced to a single edge.
// If (eOrg.Lnext.Lnext == eDst), the old face is reduced to two edges.
func (m *mesh) connect(eOrg, eDst *halfEdge) *halfEdge {
	mustBeLive("connect", eOrg)
	mustBeLive("connect", eDst)
	eNew := m.makeEdge(eOrg)
	eNewSym := eNew.Sym

	joiningLoops := false
	if eDst.Lface != eOrg.Lface {
		// We are connecting two disjoint loops -- destroy eDst.Lface
		joiningLoops = true
		m.killFace(eDst.Lface, eOrg.Lface)
	}

	splice(eNew, eOrg.Lnext)
	splice(eNewSym, eDst)

	eNew.Org = dst(eOrg)
	eNewSym.Org = eDst.Org
	eNew.Lface = eOrg.Lface
	eNewSym.Lface = eOrg.Lface

	// Make sure the old face points to a valid half-edge
	eOrg.Lface.anEdge = eNewSym

	if !joiningLoops {
		// We split one loop into two -- the new loop is eNew.Lface
		m.makeFace(eNew, eOrg.Lface)
	}
	return eNew
}

// zapFace destroys a face and removes it from the global face list.  All
// edges of fZap will have a nil left face.  Any edges which also have a
// nil right face are deleted entirely, along with any isolated vertices
// this produces.  An entire mesh can be deleted by zapping its faces, one
// at a time, in any order.  Zapped faces cannot be used in further mesh
// operations.
func (m *mesh) zapFace(fZap *face) {
	eStart := fZap.anEdge

	// walk around face, deleting edges whose right face is also nil
	eNext := eStart.Lnext
	for {
		e := eNext
		eNext = e.Lnext

		e.Lface = nil
		if rFace(e) == nil {
			if e.Onext == e {
				m.killVertex(e.Org, nil)
			} else {
				// Make sure that e.Org points to a valid half-edge
				e.Org.anEdge = e.Onext
				splice(e, oPrev(e))
			}
			eSym := e.Sym
			if eSym.Onext == eSym {
				m.killVertex(eSym.Org, nil)
			} else {
				// Make sure that eSym.Org points to a valid half-edge
				eSym.Org.anEdge = eSym.Onext
				splice(eSym, oPrev(eSym))
			}
			m.killEdge(e)
		}
		if e == eStart {
			break
		}
	}

	fPrev := fZap.prev
	fNext := fZap.next
	fNext.prev = fPrev
	fPrev.next = fNext

	m.faces.free(fZap)
}

func countFaceVerts(f *face) int {
	eCur := f.anEdge
	n := 0
	for {
		n++
		eCur = eCur.Lnext
		if eCur == f.anEdge {
			break
		}
	}
	return n
}

// mergeConvexFaces joins adjacent interior faces as long as the result is
// convex and has at most maxVertsPerFace vertices.
func (m *mesh) mergeConvexFaces(maxVertsPerFace int) {
	for f := m.fHead.next; f != &m.fHead; f = f.next {
		// Skip faces which are outside the result.
		if !f.inside {
			continue
		}

		eCur := f.anEdge
		vStart := eCur.Org

		for {
			eNext := eCur.Lnext
			eSym := eCur.Sym

			// Try to merge if the neighbour face is valid.
			if eSym.Lface != nil && eSym.Lface.inside {
				// Try to merge the neighbour faces if the resulting polygons
				// does not exceed maximum number of vertices.
				curNv := countFaceVerts(f)
				symNv := countFaceVerts(eSym.Lface)
				if curNv+symNv-2 <= maxVertsPerFace {
					// Merge if the resulting poly is convex.
					if vertCCW(lPrev(eCur).Org, eCur.Org, eSym.Lnext.Lnext.Org) &&
						vertCCW(lPrev(eSym).Org, eSym.Org, eCur.Lnext.Lnext.Org) {
						eNext = eSym.Lnext
						m.delete(eSym)
						eCur = nil
					}
				}
			}

			if eCur != nil && eCur.Lnext.Org == vStart {
				break
			}

			// Continue to next edge.
			eCur = eNext
		}
	}
}
