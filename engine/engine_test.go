package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRunStopsAfterFrameBudget(t *testing.T) {
	var deltas []float32
	e := NewEngine(
		WithTickRate(500),
		WithMaxFrames(5),
		WithLogger(quiet),
		WithFrameCallback(func(dt float32) { deltas = append(deltas, dt) }),
	)

	require.NoError(t, e.Run(context.Background()))
	assert.Len(t, deltas, 5)
	assert.Equal(t, uint64(5), e.Frames())
	assert.False(t, e.Running())
	for _, dt := range deltas {
		assert.Greater(t, dt, float32(0))
	}
}

func TestRunRecoversFramePanics(t *testing.T) {
	calls := 0
	e := NewEngine(WithTickRate(500), WithMaxFrames(3), WithLogger(quiet))
	e.SetFrameCallback(func(float32) {
		calls++
		if calls == 1 {
			panic("boom")
		}
	})

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 3, calls)
}

func TestQuitIsIdempotent(t *testing.T) {
	e := NewEngine(WithTickRate(500), WithLogger(quiet))
	e.SetFrameCallback(func(float32) {
		if e.Frames() >= 2 {
			e.Quit()
		}
	})

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not quit")
	}
	e.Quit()
}

func TestRunHonoursContext(t *testing.T) {
	e := NewEngine(WithTickRate(100), WithLogger(quiet))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, e.Run(ctx), context.DeadlineExceeded)
}

func TestSetTickRate(t *testing.T) {
	e := NewEngine(WithLogger(quiet)).(*engine)
	assert.Equal(t, time.Second/60, e.engineTickRate)

	e.SetTickRate(120)
	assert.Equal(t, time.Second/120, e.engineTickRate)

	e.SetTickRate(0)
	assert.Equal(t, time.Second/60, e.engineTickRate)
}
