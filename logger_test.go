// Copyright 2026 The go-libtess2 Authors. All rights reserved.
// Use of this source code is governed by the SGI Free Software License B
// that can be found in the LICENSE file.

package libtess2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })
	return logs
}

func TestLoggerDebug(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)
	run(t, WindingOdd, Polygons, 3, square)

	tessellated := logs.FilterMessage("tessellated").All()
	require.Len(t, tessellated, 1)
	assert.Equal(t, "libtess2", tessellated[0].LoggerName)
	fields := tessellated[0].ContextMap()
	assert.Equal(t, "odd", fields["winding"])
	assert.Equal(t, "polygons", fields["element"])
	assert.EqualValues(t, 4, fields["vertices"])
	assert.EqualValues(t, 2, fields["elements"])

	sweep := logs.FilterMessage("sweep finished").All()
	require.Len(t, sweep, 1)
	assert.EqualValues(t, 4, sweep[0].ContextMap()["events"])

	assert.Equal(t, 1, logs.FilterMessage("added contour").Len())
}

func TestLoggerWarnOnFailure(t *testing.T) {
	logs := observe(t, zapcore.WarnLevel)
	budget := &switchBudget{LimitBudget: LimitBudget{Limit: 1 << 30}}
	tess := newTess(t, &Alloc{Budget: budget})
	require.NoError(t, tess.AddContour(square))

	budget.refuse = true
	require.Error(t, tess.Tesselate(WindingOdd, Polygons, 3, 2, nil))

	failed := logs.FilterMessage("tessellation failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.WarnLevel, failed[0].Level)
	assert.Zero(t, logs.FilterMessage("tessellated").Len())
	assert.Zero(t, logs.FilterMessage("added contour").Len())
}

func TestSetLoggerNil(t *testing.T) {
	SetLogger(nil)
	require.NotNil(t, Logger())
	assert.False(t, Logger().Core().Enabled(zapcore.ErrorLevel))
}
