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

	"github.com/golang/geo/r3"
)

func position(v *vertex) r3.Vector {
	return r3.Vector{X: v.coords[0], Y: v.coords[1], Z: v.coords[2]}
}

func component(v r3.Vector, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

func setComponent(v *r3.Vector, i int, c float64) {
	switch i {
	case 0:
		v.X = c
	case 1:
		v.Y = c
	default:
		v.Z = c
	}
}

// longAxis returns the index of the component of v with the largest
// magnitude.  Ties go to the lower index.
func longAxis(v r3.Vector) int {
	i := 0
	if math.Abs(v.Y) > math.Abs(v.X) {
		i = 1
	}
	if math.Abs(v.Z) > math.Abs(component(v, i)) {
		i = 2
	}
	return i
}

// shortAxis returns the index of the component of v with the smallest
// magnitude.  Ties go to the lower index.
func shortAxis(v r3.Vector) int {
	i := 0
	if math.Abs(v.Y) < math.Abs(v.X) {
		i = 1
	}
	if math.Abs(v.Z) < math.Abs(component(v, i)) {
		i = 2
	}
	return i
}

// computeNormal finds a normal for the input contours: it takes the two
// vertices furthest apart along the widest axis and the third vertex
// which forms the triangle of maximum area with them.
func (t *Tesselator) computeNormal() r3.Vector {
	vHead := &t.mesh.vHead

	var minVal, maxVal [3]float64
	var minVert, maxVert [3]*vertex
	v := vHead.next
	for i := 0; i < 3; i++ {
		minVal[i], maxVal[i] = v.coords[i], v.coords[i]
		minVert[i], maxVert[i] = v, v
	}
	for v := vHead.next; v != vHead; v = v.next {
		for i := 0; i < 3; i++ {
			c := v.coords[i]
			if c < minVal[i] {
				minVal[i] = c
				minVert[i] = v
			}
			if c > maxVal[i] {
				maxVal[i] = c
				maxVert[i] = v
			}
		}
	}

	// Find two vertices separated by at least 1/sqrt(3) of the maximum
	// distance between any two vertices
	i := 0
	if maxVal[1]-minVal[1] > maxVal[0]-minVal[0] {
		i = 1
	}
	if maxVal[2]-minVal[2] > maxVal[i]-minVal[i] {
		i = 2
	}
	if minVal[i] >= maxVal[i] {
		// All vertices are the same -- normal doesn't matter
		return r3.Vector{X: 0, Y: 0, Z: 1}
	}

	// Look for a third vertex which forms the triangle with maximum area
	// (Length of normal == twice the triangle area)
	var norm r3.Vector
	maxLen2 := 0.0
	v2 := position(maxVert[i])
	d1 := position(minVert[i]).Sub(v2)
	for v := vHead.next; v != vHead; v = v.next {
		tNorm := d1.Cross(position(v).Sub(v2))
		if tLen2 := tNorm.Norm2(); tLen2 > maxLen2 {
			maxLen2 = tLen2
			norm = tNorm
		}
	}

	if maxLen2 <= 0 {
		// All points lie on a single line -- any decent normal will do
		norm = r3.Vector{}
		setComponent(&norm, shortAxis(d1), 1)
	}
	return norm
}

// checkOrientation chooses the orientation of a computed normal so that
// the sum of the signed areas of all contours is non-negative.
func (t *Tesselator) checkOrientation() {
	fHead := &t.mesh.fHead
	area := 0.0
	for f := fHead.next; f != fHead; f = f.next {
		e := f.anEdge
		if e.winding <= 0 {
			continue
		}
		for {
			area += (e.Org.s - dst(e).s) * (e.Org.t + dst(e).t)
			e = e.Lnext
			if e == f.anEdge {
				break
			}
		}
	}
	if area < 0 {
		// Reverse the orientation by flipping all the t-coordinates
		vHead := &t.mesh.vHead
		for v := vHead.next; v != vHead; v = v.next {
			v.t = -v.t
		}
		t.tUnit = t.tUnit.Mul(-1)
	}
}

// projectPolygon determines the polygon normal and projects the vertices
// onto the plane of the polygon.  It also records the (s, t) bounding
// box used to place the sweep sentinels.
func (t *Tesselator) projectPolygon() {
	norm := t.normal
	computed := false
	if norm == (r3.Vector{}) {
		norm = t.computeNormal()
		computed = true
	}

	// Project perpendicular to a coordinate axis -- better numerically
	i := longAxis(norm)
	sign := 1.0
	if component(norm, i) > 0 {
		sign = -1
	}
	t.sUnit = r3.Vector{}
	t.tUnit = r3.Vector{}
	setComponent(&t.sUnit, (i+1)%3, 1)
	setComponent(&t.tUnit, (i+2)%3, -sign)

	vHead := &t.mesh.vHead
	for v := vHead.next; v != vHead; v = v.next {
		p := position(v)
		v.s = p.Dot(t.sUnit)
		v.t = p.Dot(t.tUnit)
	}
	if computed {
		t.checkOrientation()
	}

	first := true
	for v := vHead.next; v != vHead; v = v.next {
		if first {
			t.bmin = [2]float64{v.s, v.t}
			t.bmax = t.bmin
			first = false
			continue
		}
		t.bmin[0] = min(t.bmin[0], v.s)
		t.bmin[1] = min(t.bmin[1], v.t)
		t.bmax[0] = max(t.bmax[0], v.s)
		t.bmax[1] = max(t.bmax[1], v.t)
	}

	Logger().Debug("projected contours",
		zapVector("normal", norm),
		zapVector("sUnit", t.sUnit),
		zapVector("tUnit", t.tUnit))
}
