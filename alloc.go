// Copyright 2026 The go-libtess2 Authors. All rights reserved.
// Use of this source code is governed by the SGI Free Software License B
// that can be found in the LICENSE file.

package libtess2

import (
	"unsafe"

	"github.com/pkg/errors"
)

// Alloc configures how a Tesselator obtains storage for its mesh, sweep
// dictionary and event queue.
//
// Mesh edges, vertices and faces as well as dictionary nodes and active
// regions are allocated in buckets and recycled through a free list.  The
// bucket size should roughly match the expected input: for hundreds of
// vertices 128 is plenty, for thousands 1024 is more appropriate.  Zero
// fields take the defaults shown below; sizes are clamped to [16, 4096].
type Alloc struct {
	MeshEdgeBucketSize   int // 512
	MeshVertexBucketSize int // 512
	MeshFaceBucketSize   int // 256
	DictNodeBucketSize   int // 512
	RegionBucketSize     int // 256

	// ExtraVertices is the number of vertex slots reserved in the event
	// queue for vertices created at edge intersections.  At least 8 are
	// always reserved.
	ExtraVertices int

	// NoGrow fixes the event queue at its reserved size.  A run that finds
	// more intersections than ExtraVertices allows fails with
	// ErrOutOfMemory instead of growing the queue.
	NoGrow bool

	// Budget, if non-nil, is consulted before every bucket, queue or output
	// allocation.
	Budget Budget
}

// Budget decides whether a storage request may proceed.  Reserve returns
// false to refuse the request, which aborts the current call with
// ErrOutOfMemory.  Release returns previously reserved bytes.
type Budget interface {
	Reserve(size int) bool
	Release(size int)
}

// LimitBudget is a Budget that refuses requests once Limit bytes are in
// use.
type LimitBudget struct {
	Limit int
	used  int
}

// Reserve implements Budget.
func (b *LimitBudget) Reserve(size int) bool {
	if b.used+size > b.Limit {
		return false
	}
	b.used += size
	return true
}

// Release implements Budget.
func (b *LimitBudget) Release(size int) {
	b.used -= size
	if b.used < 0 {
		b.used = 0
	}
}

// Used returns the number of bytes currently reserved.
func (b *LimitBudget) Used() int {
	return b.used
}

func bucketSize(n, def int) int {
	if n == 0 {
		n = def
	}
	if n < 16 {
		n = 16
	}
	if n > 4096 {
		n = 4096
	}
	return n
}

// normalize fills in defaults and validates the configuration.
func (a Alloc) normalize() (Alloc, error) {
	for _, n := range []int{a.MeshEdgeBucketSize, a.MeshVertexBucketSize, a.MeshFaceBucketSize,
		a.DictNodeBucketSize, a.RegionBucketSize, a.ExtraVertices} {
		if n < 0 {
			return a, errors.Wrapf(ErrInvalidArgument, "negative allocator size %d", n)
		}
	}
	a.MeshEdgeBucketSize = bucketSize(a.MeshEdgeBucketSize, 512)
	a.MeshVertexBucketSize = bucketSize(a.MeshVertexBucketSize, 512)
	a.MeshFaceBucketSize = bucketSize(a.MeshFaceBucketSize, 256)
	a.DictNodeBucketSize = bucketSize(a.DictNodeBucketSize, 512)
	a.RegionBucketSize = bucketSize(a.RegionBucketSize, 256)
	return a, nil
}

func reserve(b Budget, what string, size int) {
	if b != nil && !b.Reserve(size) {
		fatalf(ErrOutOfMemory, "allocating %d bytes for %s", size, what)
	}
}

func release(b Budget, size int) {
	if b != nil && size > 0 {
		b.Release(size)
	}
}

// bucketAlloc hands out records of type T from fixed-size buckets.  Buckets
// never move, so pointers into them stay valid until release.
type bucketAlloc[T any] struct {
	name       string
	bucketSize int
	budget     Budget

	buckets  [][]T
	used     int
	freeList []*T
	reserved int
}

func newBucketAlloc[T any](name string, bucketSize int, budget Budget) *bucketAlloc[T] {
	return &bucketAlloc[T]{
		name:       name,
		bucketSize: bucketSize,
		budget:     budget,
	}
}

func (b *bucketAlloc[T]) alloc() *T {
	if n := len(b.freeList); n > 0 {
		p := b.freeList[n-1]
		b.freeList = b.freeList[:n-1]
		return p
	}
	if len(b.buckets) == 0 || b.used == b.bucketSize {
		var zero T
		size := b.bucketSize * int(unsafe.Sizeof(zero))
		reserve(b.budget, b.name, size)
		b.reserved += size
		b.buckets = append(b.buckets, make([]T, b.bucketSize))
		b.used = 0
	}
	p := &b.buckets[len(b.buckets)-1][b.used]
	b.used++
	return p
}

func (b *bucketAlloc[T]) free(p *T) {
	var zero T
	*p = zero
	b.freeList = append(b.freeList, p)
}

// live returns the number of records currently handed out.
func (b *bucketAlloc[T]) live() int {
	if len(b.buckets) == 0 {
		return 0
	}
	return (len(b.buckets)-1)*b.bucketSize + b.used - len(b.freeList)
}

func (b *bucketAlloc[T]) release() {
	release(b.budget, b.reserved)
	b.buckets = nil
	b.freeList = nil
	b.used = 0
	b.reserved = 0
}
