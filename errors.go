// Copyright 2026 The go-libtess2 Authors. All rights reserved.
// Use of this source code is governed by the SGI Free Software License B
// that can be found in the LICENSE file.

package libtess2

import (
	"github.com/pkg/errors"
)

var (
	// ErrOutOfMemory is returned when the allocation strategy refuses a
	// storage request, or when a fixed-capacity run needs more vertices
	// than were reserved.
	ErrOutOfMemory = errors.New("libtess2: out of memory")

	// ErrInvariant is returned when the mesh or the sweep state is found to
	// be structurally inconsistent. It always indicates a defect.
	ErrInvariant = errors.New("libtess2: invariant violation")

	// ErrInvalidArgument is returned for malformed contour data or
	// tessellation parameters.
	ErrInvalidArgument = errors.New("libtess2: invalid argument")
)

// fatal carries an error up through the sweep.  Threading error returns
// through every mesh and dictionary operation would obscure the algorithm,
// so internal code panics with a fatal and the public entry points recover
// it.
type fatal struct {
	err error
}

// fatalf aborts the current operation with err wrapped by the message.
func fatalf(err error, format string, args ...interface{}) {
	panic(fatal{err: errors.Wrapf(err, format, args...)})
}

// invariant aborts with ErrInvariant when cond does not hold.
func invariant(cond bool) {
	if !cond {
		panic(fatal{err: errors.WithStack(ErrInvariant)})
	}
}

// recoverFatal converts a recovered fatal into an error.  Any other panic
// value is re-raised.
func recoverFatal(r interface{}) error {
	if r == nil {
		return nil
	}
	if f, ok := r.(fatal); ok {
		return f.err
	}
	panic(r)
}
