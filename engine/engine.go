package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-exhibit/engine/profiler"
)

// engine implements the Engine interface.
// A single goroutine owns the frame loop; every frame callback runs on it.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	frames  atomic.Uint64

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	frameCallback  func(deltaTime float32)
	maxFrames      uint64 // 0 = run until quit
	logger         *slog.Logger
}

// Engine is the frame host. It calls the frame callback at a fixed rate on one goroutine
// until it is told to quit, its context ends or the frame budget is spent.
type Engine interface {
	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the frame rate in frames per second.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetFrameCallback registers the function called every frame.
	// The callback must not block. A panic inside it is logged and the loop continues.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetFrameCallback(callback func(deltaTime float32))

	// Frames returns the number of frames run so far.
	Frames() uint64

	// Running reports whether Run is in progress.
	Running() bool

	// Run drives the frame loop on the calling goroutine.
	//
	// Parameters:
	//   - ctx: stops the loop when done
	//
	// Returns:
	//   - error: ctx.Err() if the context ended the loop, nil after Quit or the frame budget
	Run(ctx context.Context) error

	// Quit stops the loop after the current frame.
	// Safe to call multiple times and from any goroutine.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		engineTickRate:  time.Second / 60,
		logger:          slog.Default(),
	}

	for _, opt := range options {
		opt(e)
	}
	e.profiler = profiler.NewProfiler(e.logger, time.Second)

	return e
}

func (e *engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return fmt.Errorf("engine: already running")
	}
	defer e.running.Store(false)

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()
	e.logger.Debug("frame loop started", "tick", e.engineTickRate.String(), "max_frames", e.maxFrames)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.quitChannel:
			return nil
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.frame(dt)
			if e.profilingEnabled {
				e.profiler.Tick()
			}
			if e.maxFrames > 0 && e.frames.Load() >= e.maxFrames {
				return nil
			}
		}
	}
}

// frame runs one callback. A panic is logged and does not stop the loop.
func (e *engine) frame(dt float32) {
	defer e.frames.Add(1)
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("frame recovered from panic", "frame", e.frames.Load(), "panic", fmt.Sprint(r))
		}
	}()
	if e.frameCallback != nil {
		e.frameCallback(dt)
	}
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the frame rate in frames per second.
// If the engine is running, the change takes effect on the loop goroutine.
func (e *engine) SetTickRate(fps float64) {
	newRate := tickInterval(fps)

	if !e.running.Load() {
		e.engineTickRate = newRate
		return
	}
	// replace any pending update that the loop has not picked up yet
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetFrameCallback(callback func(deltaTime float32)) {
	e.frameCallback = callback
}

func (e *engine) Frames() uint64 {
	return e.frames.Load()
}

func (e *engine) Running() bool {
	return e.running.Load()
}

func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}
