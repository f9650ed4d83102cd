// Copyright 2026 The go-libtess2 Authors. All rights reserved.
// Use of this source code is governed by the SGI Free Software License B
// that can be found in the LICENSE file.

package libtess2

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pqVertex(s, t float64, seq uint64) *vertex {
	return &vertex{s: s, t: t, seq: seq, pqHandle: -1}
}

func TestPQOrder(t *testing.T) {
	p := newPQ(4, false, nil)
	defer p.release()

	a := pqVertex(1, 0, 1)
	b := pqVertex(0, 5, 2)
	c := pqVertex(0, 1, 3)
	d := pqVertex(0, 1, 4)
	e := pqVertex(-1, 9, 5)
	for _, v := range []*vertex{a, d, b, e, c} {
		p.insert(v)
	}
	assert.Equal(t, 5, p.len())
	assert.Same(t, e, p.minimum())

	var got []*vertex
	for !p.isEmpty() {
		got = append(got, p.extractMin())
	}
	want := []*vertex{e, c, d, b, a}
	require.Len(t, got, len(want))
	for i := range want {
		assert.Same(t, want[i], got[i], "position %d", i)
		assert.Equal(t, -1, got[i].pqHandle)
	}
	assert.Nil(t, p.extractMin())
	assert.Nil(t, p.minimum())
}

func TestPQDelete(t *testing.T) {
	p := newPQ(8, false, nil)
	defer p.release()

	vs := make([]*vertex, 6)
	for i := range vs {
		vs[i] = pqVertex(float64(i%3), float64(i), uint64(i+1))
		p.insert(vs[i])
	}
	for _, v := range vs {
		assert.Same(t, v, p.heap[v.pqHandle])
	}

	p.delete(vs[0])
	p.delete(vs[4])
	assert.Equal(t, -1, vs[0].pqHandle)
	assert.Equal(t, 4, p.len())

	assert.Same(t, vs[3], p.extractMin())
	assert.Same(t, vs[1], p.extractMin())
	assert.Same(t, vs[2], p.extractMin())
	assert.Same(t, vs[5], p.extractMin())
}

func TestPQDeleteStaleHandle(t *testing.T) {
	p := newPQ(8, false, nil)
	defer p.release()
	p.insert(pqVertex(0, 0, 1))

	err := func() (err error) {
		defer func() { err = recoverFatal(recover()) }()
		p.delete(pqVertex(1, 1, 2))
		return nil
	}()
	assert.True(t, errors.Is(err, ErrInvariant))
}

func TestPQGrow(t *testing.T) {
	b := &LimitBudget{Limit: 1 << 20}
	p := newPQ(2, false, b)
	assert.Equal(t, 2*pqSlotSize, b.Used())

	for i := 0; i < 5; i++ {
		p.insert(pqVertex(float64(i), 0, uint64(i+1)))
	}
	assert.Equal(t, 8, p.capacity)
	assert.Equal(t, 8*pqSlotSize, b.Used())

	p.release()
	assert.Zero(t, b.Used())
}

func TestPQNoGrow(t *testing.T) {
	p := newPQ(2, true, nil)
	defer p.release()
	p.insert(pqVertex(0, 0, 1))
	p.insert(pqVertex(1, 0, 2))

	err := func() (err error) {
		defer func() { err = recoverFatal(recover()) }()
		p.insert(pqVertex(2, 0, 3))
		return nil
	}()
	assert.True(t, errors.Is(err, ErrOutOfMemory))
	assert.Equal(t, 2, p.len())
}
