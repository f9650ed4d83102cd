// Copyright 2026 The go-libtess2 Authors. All rights reserved.
// Use of this source code is governed by the SGI Free Software License B
// that can be found in the LICENSE file.

package libtess2

import (
	"sync/atomic"

	"github.com/golang/geo/r3"
	"go.uber.org/zap"
)

// loggerPtr stores the active logger.  It is accessed atomically so that
// SetLogger can be called while other goroutines are tessellating.
var loggerPtr atomic.Pointer[zap.Logger]

func init() {
	loggerPtr.Store(zap.NewNop())
}

// SetLogger configures the logger used by libtess2.  By default nothing is
// logged.  Pass nil to restore the silent default.
//
// Debug level reports contour and sweep statistics for every call to
// Tesselate; Warn level reports failed tessellations.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerPtr.Store(l.Named("libtess2"))
}

// Logger returns the current logger.
func Logger() *zap.Logger {
	return loggerPtr.Load()
}

func zapVector(key string, v r3.Vector) zap.Field {
	return zap.Float64s(key, []float64{v.X, v.Y, v.Z})
}
