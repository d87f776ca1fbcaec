package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickSamplesEveryInterval(t *testing.T) {
	var buf bytes.Buffer
	p := NewProfiler(slog.New(slog.NewTextHandler(&buf, nil)), time.Second)

	clock := p.lastTime
	p.now = func() time.Time { return clock }

	for i := 0; i < 28; i++ {
		clock = clock.Add(time.Second / 60)
		assert.False(t, p.Tick())
	}
	// the 29th frame lands a nanosecond short of the interval, the 30th exactly on it
	clock = clock.Add(time.Second - 28*(time.Second/60) - time.Nanosecond)
	assert.False(t, p.Tick())
	clock = clock.Add(time.Nanosecond)
	assert.True(t, p.Tick())

	assert.InDelta(t, 30, p.Last().FPS, 0.01)
	assert.Contains(t, buf.String(), "msg=profiler")
	assert.Contains(t, buf.String(), "fps=")
	assert.Zero(t, p.frameCount)
}

func TestNewProfilerDefaults(t *testing.T) {
	p := NewProfiler(nil, 0)
	assert.Equal(t, time.Second, p.updateInterval)
	assert.NotNil(t, p.logger)
}
