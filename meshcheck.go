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
	"github.com/pkg/errors"
)

// check walks every face, vertex and edge ring of the mesh and reports the
// first structural inconsistency it finds.
func (m *mesh) check() error {
	fHead := &m.fHead
	vHead := &m.vHead
	eHead := &m.eHead.e

	checkEdge := func(e *halfEdge) error {
		switch {
		case e.Sym == e:
			return errors.Wrap(ErrInvariant, "half-edge is its own Sym")
		case e.Sym.Sym != e:
			return errors.Wrap(ErrInvariant, "Sym is not an involution")
		case e.Lnext.Onext.Sym != e:
			return errors.Wrap(ErrInvariant, "Lnext.Onext.Sym != e")
		case e.Onext.Sym.Lnext != e:
			return errors.Wrap(ErrInvariant, "Onext.Sym.Lnext != e")
		}
		return nil
	}

	fPrev := fHead
	f := fPrev.next
	for ; f != fHead; fPrev, f = f, f.next {
		if f.prev != fPrev {
			return errors.Wrap(ErrInvariant, "face list is not doubly linked")
		}
		e := f.anEdge
		for {
			if err := checkEdge(e); err != nil {
				return errors.Wrap(err, "face ring")
			}
			if e.Lface != f {
				return errors.Wrap(ErrInvariant, "face ring contains an edge with a different left face")
			}
			e = e.Lnext
			if e == f.anEdge {
				break
			}
		}
	}
	if f.prev != fPrev || f.anEdge != nil {
		return errors.Wrap(ErrInvariant, "face list header is corrupt")
	}

	vPrev := vHead
	v := vPrev.next
	for ; v != vHead; vPrev, v = v, v.next {
		if v.prev != vPrev {
			return errors.Wrap(ErrInvariant, "vertex list is not doubly linked")
		}
		e := v.anEdge
		for {
			if err := checkEdge(e); err != nil {
				return errors.Wrap(err, "vertex ring")
			}
			if e.Org != v {
				return errors.Wrap(ErrInvariant, "vertex ring contains an edge with a different origin")
			}
			e = e.Onext
			if e == v.anEdge {
				break
			}
		}
	}
	if v.prev != vPrev || v.anEdge != nil {
		return errors.Wrap(ErrInvariant, "vertex list header is corrupt")
	}

	ePrev := eHead
	e := ePrev.next
	for ; e != eHead; ePrev, e = e, e.next {
		if e.Sym.next != ePrev.Sym {
			return errors.Wrap(ErrInvariant, "edge list is not doubly linked")
		}
		if err := checkEdge(e); err != nil {
			return errors.Wrap(err, "edge list")
		}
		if e.Org == nil || dst(e) == nil {
			return errors.Wrap(ErrInvariant, "edge without endpoints")
		}
	}
	if e.Sym.next != ePrev.Sym || e.Sym != &m.eHead.eSym || e.Sym.Sym != e {
		return errors.Wrap(ErrInvariant, "edge list header is corrupt")
	}
	if e.Org != nil || dst(e) != nil || e.Lface != nil || rFace(e) != nil {
		return errors.Wrap(ErrInvariant, "edge list header has endpoints")
	}
	return nil
}
