package decompose

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type clipRecorder struct {
	maxClip float64
	warned  bool
	calls   int
}

func (*clipRecorder) ObserveSolve(string, string, time.Duration) {}

func (c *clipRecorder) ObserveClip(_ string, maxClip float64, warned bool) {
	c.calls++
	c.maxClip, c.warned = maxClip, warned
}

func TestFinishWithinTolerance(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	obs := &clipRecorder{}

	e, status, err := finish(SolverQP, []float64{0.5, -1e-9, 0.5}, DefaultWarnTolerance, false, zap.New(core), obs)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, status)
	assert.Equal(t, []float64{0.5, 0, 0.5}, e)
	assert.Zero(t, logs.Len())
	assert.Equal(t, 1, obs.calls)
	assert.False(t, obs.warned)
}

func TestFinishWarnsBeyondTolerance(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	obs := &clipRecorder{}

	e, status, err := finish(SolverQP, []float64{0.6, -0.2, 0.6}, DefaultWarnTolerance, false, zap.New(core), obs)
	require.NoError(t, err)
	assert.Equal(t, StatusWarning, status)
	assert.Equal(t, []float64{0.5, 0, 0.5}, e)
	assert.True(t, obs.warned)
	assert.InDelta(t, 0.2, obs.maxClip, 1e-15)

	entries := logs.FilterMessage("exposures clipped beyond tolerance").All()
	require.Len(t, entries, 1)
	assert.InDelta(t, 0.2, entries[0].ContextMap()["max_clip"], 1e-15)
}

func TestFinishStrict(t *testing.T) {
	_, status, err := finish(SolverReference, []float64{0.6, -0.2, 0.6}, DefaultWarnTolerance, true, zap.NewNop(), nil)
	assert.Equal(t, StatusFailed, status)

	var w *NumericalWarning
	require.True(t, errors.As(err, &w))
	assert.Equal(t, SolverReference, w.Solver)
	assert.InDelta(t, 0.2, w.MaxClip, 1e-15)
}

func TestFinishNoClipNoObservation(t *testing.T) {
	obs := &clipRecorder{}
	_, status, err := finish(SolverQP, []float64{0.25, 0.75}, DefaultWarnTolerance, true, zap.NewNop(), obs)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, status)
	assert.Zero(t, obs.calls)
}
