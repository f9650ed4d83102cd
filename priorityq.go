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
	"container/heap"
	"unsafe"
)

// pq is the event queue of the sweep.  It is a binary heap of vertices in
// the (s, t, seq) order; every queued vertex records its heap position in
// pqHandle so that it can be removed in O(log n).
type pq struct {
	heap     pqHeap
	capacity int
	noGrow   bool
	budget   Budget
	reserved int
}

type pqHeap []*vertex

func (p pqHeap) Len() int {
	return len(p)
}

func (p pqHeap) Less(i, j int) bool {
	return vertLess(p[i], p[j])
}

func (p pqHeap) Swap(i, j int) {
	p[i], p[j] = p[j], p[i]
	p[i].pqHandle = i
	p[j].pqHandle = j
}

func (p *pqHeap) Push(x interface{}) {
	v := x.(*vertex)
	v.pqHandle = len(*p)
	*p = append(*p, v)
}

func (p *pqHeap) Pop() interface{} {
	old := *p
	x := old[len(old)-1]
	old[len(old)-1] = nil
	*p = old[:len(old)-1]
	x.pqHandle = -1
	return x
}

var pqSlotSize = int(unsafe.Sizeof((*vertex)(nil)))

func newPQ(capacity int, noGrow bool, budget Budget) *pq {
	p := &pq{
		capacity: capacity,
		noGrow:   noGrow,
		budget:   budget,
	}
	p.reserve(capacity)
	p.heap = make(pqHeap, 0, capacity)
	return p
}

func (p *pq) reserve(n int) {
	size := n * pqSlotSize
	reserve(p.budget, "event queue", size)
	p.reserved += size
}

func (p *pq) release() {
	release(p.budget, p.reserved)
	p.reserved = 0
	p.heap = nil
}

func (p *pq) insert(v *vertex) {
	if len(p.heap) == p.capacity {
		if p.noGrow {
			fatalf(ErrOutOfMemory, "event queue is full (%d vertices)", p.capacity)
		}
		p.reserve(p.capacity)
		p.capacity *= 2
		h := make(pqHeap, len(p.heap), p.capacity)
		copy(h, p.heap)
		p.heap = h
	}
	heap.Push(&p.heap, v)
}

// extractMin removes and returns the first event, or nil if the queue is
// empty.
func (p *pq) extractMin() *vertex {
	if len(p.heap) == 0 {
		return nil
	}
	return heap.Pop(&p.heap).(*vertex)
}

func (p *pq) minimum() *vertex {
	if len(p.heap) == 0 {
		return nil
	}
	return p.heap[0]
}

// delete removes v from the queue.
func (p *pq) delete(v *vertex) {
	i := v.pqHandle
	invariant(i >= 0 && i < len(p.heap) && p.heap[i] == v)
	heap.Remove(&p.heap, i)
}

func (p *pq) isEmpty() bool {
	return len(p.heap) == 0
}

func (p *pq) len() int {
	return len(p.heap)
}
