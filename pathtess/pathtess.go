// Copyright 2026 The go-libtess2 Authors. All rights reserved.
// Use of this source code is governed by the SGI Free Software License B
// that can be found in the LICENSE file.

// Package pathtess feeds vector paths into a libtess2.Tesselator.
//
// Every subpath of a path becomes one contour.  Curves are replaced by
// polylines whose distance from the true curve is at most the given
// flatness.  Open subpaths are closed implicitly, as in a fill.
package pathtess

import (
	"math"

	"github.com/pkg/errors"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"github.com/go-libtess2/libtess2"
)

// DefaultFlatness is used when AddPath is called with a non-positive
// flatness.
const DefaultFlatness = 0.25

// AddPath flattens p and adds each of its subpaths to t as a contour.
func AddPath(t *libtess2.Tesselator, p *path.Data, flatness float64) error {
	contours, err := Flatten(p, flatness)
	if err != nil {
		return err
	}
	for i, c := range contours {
		if err := t.AddContourData(2, c, 0, len(c)/2); err != nil {
			return errors.Wrapf(err, "subpath %d", i)
		}
	}
	return nil
}

// Flatten converts p into closed polylines, one per subpath, each as a
// flat x, y coordinate list.  The closing point of a subpath is not
// repeated.  Subpaths with fewer than two distinct points are dropped.
func Flatten(p *path.Data, flatness float64) ([][]float64, error) {
	if p == nil {
		return nil, nil
	}
	if flatness <= 0 || math.IsNaN(flatness) {
		flatness = DefaultFlatness
	}

	f := flattener{flatness: flatness}
	k := 0
	need := func(n int) error {
		if k+n > len(p.Coords) {
			return errors.Errorf("path has %d coordinates, command needs %d more at %d",
				len(p.Coords), n, k)
		}
		return nil
	}
	for i, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if err := need(1); err != nil {
				return nil, err
			}
			f.flush()
			f.start(p.Coords[k])
			k++

		case path.CmdLineTo:
			if err := need(1); err != nil {
				return nil, err
			}
			f.lineTo(p.Coords[k])
			k++

		case path.CmdQuadTo:
			if err := need(2); err != nil {
				return nil, err
			}
			f.quadTo(p.Coords[k], p.Coords[k+1])
			k += 2

		case path.CmdCubeTo:
			if err := need(3); err != nil {
				return nil, err
			}
			f.cubeTo(p.Coords[k], p.Coords[k+1], p.Coords[k+2])
			k += 3

		case path.CmdClose:
			f.flush()
			f.start(f.subpath)

		default:
			return nil, errors.Errorf("unknown path command %d at %d", cmd, i)
		}
	}
	f.flush()
	return f.out, nil
}

type flattener struct {
	flatness float64

	current vec.Vec2
	subpath vec.Vec2
	open    bool
	points  []float64
	out     [][]float64
}

func (f *flattener) start(v vec.Vec2) {
	f.current = v
	f.subpath = v
	f.open = true
	f.points = append(f.points[:0], v.X, v.Y)
}

func (f *flattener) lineTo(v vec.Vec2) {
	if !f.open {
		// A drawing command without a preceding MoveTo starts at the
		// origin of the previous subpath.
		f.start(f.current)
	}
	if v == f.current {
		return
	}
	f.points = append(f.points, v.X, v.Y)
	f.current = v
}

// quadTo flattens a quadratic Bézier.  The number of segments bounds the
// deviation from the curve by the flatness.
func (f *flattener) quadTo(p1, p2 vec.Vec2) {
	p0 := f.current
	n := 1
	if dev := p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25).Length(); dev > f.flatness {
		n = int(math.Ceil(math.Sqrt(dev / f.flatness)))
	}
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		f.lineTo(p0.Mul(omt * omt).Add(p1.Mul(2 * omt * t)).Add(p2.Mul(t * t)))
	}
}

// cubeTo flattens a cubic Bézier using Wang's formula for the segment
// count.
func (f *flattener) cubeTo(p1, p2, p3 vec.Vec2) {
	p0 := f.current
	d1 := p0.Sub(p1.Mul(2)).Add(p2)
	d2 := p1.Sub(p2.Mul(2)).Add(p3)
	n := 1
	if m := max(d1.Length(), d2.Length()); m > 0 {
		if nf := math.Sqrt(3 * m / (4 * f.flatness)); nf > 1 {
			n = int(math.Ceil(nf))
		}
	}
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		f.lineTo(p0.Mul(omt * omt * omt).
			Add(p1.Mul(3 * omt * omt * t)).
			Add(p2.Mul(3 * omt * t * t)).
			Add(p3.Mul(t * t * t)))
	}
}

func (f *flattener) flush() {
	if !f.open {
		return
	}
	f.open = false
	pts := f.points
	// Drop an explicit return to the start point.
	if n := len(pts); n >= 4 && pts[0] == pts[n-2] && pts[1] == pts[n-1] {
		pts = pts[:n-2]
	}
	if len(pts) < 4 {
		return
	}
	f.out = append(f.out, append([]float64(nil), pts...))
}
