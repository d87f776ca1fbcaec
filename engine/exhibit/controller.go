package exhibit

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/Carmen-Shannon/oxy-exhibit/common"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/light"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/loader"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/model"
)

// Token identifies one exhibit request. Tokens increase monotonically; only the latest is applied.
type Token uint64

// State is the swap controller's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateApplying
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateApplying:
		return "applying"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Transition describes one state change, reported to the observer set with WithStateObserver.
type Transition struct {
	Token   Token
	Exhibit common.ExhibitName
	From    State
	To      State
	Err     error
}

const (
	partLighting = "lighting"
	partModel    = "model"
	partPreview  = "preview"
)

// completion carries the outcome of one request back to the frame goroutine.
type completion struct {
	token    Token
	name     common.ExhibitName
	model    model.Model
	preview  *image.RGBA
	preset   light.Preset
	err      error
	nonFatal []error
}

type partResult struct {
	part  string
	value any
	err   error
}

// controller is the implementation of the Controller interface.
type controller struct {
	mu           sync.Mutex
	state        State
	latest       Token
	latestName   common.ExhibitName
	cancelLatest context.CancelFunc
	closed       bool

	ctx    context.Context
	cancel context.CancelFunc

	pending     atomic.Int64
	taskSeq     atomic.Int64
	completions chan completion
	pool        worker.DynamicWorkerPool
	wg          sync.WaitGroup

	loader  loader.Loader
	catalog *Catalog
	stage   *Stage

	workers          int
	queueSize        int
	cancelSuperseded bool
	observer         func(Transition)
	logger           *slog.Logger
}

// Controller swaps the displayed exhibit. Loads run in the background on a worker pool;
// their results are queued and applied to the stage only by Pump, which must be called
// from the frame goroutine. A result is applied only if its token is still the latest.
type Controller interface {
	// Request starts loading name and makes it the latest request.
	// With cancellation of superseded requests enabled, the previous in-flight load is cancelled.
	//
	// Parameters:
	//   - name: the exhibit to load
	//
	// Returns:
	//   - Token: the request token, or 0 if the controller is closed
	Request(name common.ExhibitName) Token

	// Pump applies every queued completion without blocking.
	//
	// Returns:
	//   - int: the number of completions handled, stale ones included
	Pump() int

	// Drain applies completions until no request is outstanding.
	//
	// Parameters:
	//   - ctx: bounds the wait
	//
	// Returns:
	//   - error: ctx.Err() on timeout, ErrControllerClosed after Close
	Drain(ctx context.Context) error

	// State returns the current lifecycle state.
	State() State

	// Latest returns the token and exhibit of the most recent request.
	Latest() (Token, common.ExhibitName)

	// Pending returns the number of requests not yet applied or discarded.
	Pending() int

	// Stage returns the stage this controller mutates.
	Stage() *Stage

	// Close cancels every in-flight load and stops the worker pool.
	Close()
}

var _ Controller = &controller{}

// NewController creates a controller mutating stage with assets from l.
//
// Parameters:
//   - ctx: parent of every request context; cancelling it aborts all loads
//   - l: the asset loader
//   - catalog: the exhibits that may be requested
//   - stage: the stage to update
//   - options: functional options
//
// Returns:
//   - Controller: the controller, idle
func NewController(ctx context.Context, l loader.Loader, catalog *Catalog, stage *Stage, options ...ControllerBuilderOption) Controller {
	c := &controller{
		loader:           l,
		catalog:          catalog,
		stage:            stage,
		workers:          4,
		queueSize:        64,
		cancelSuperseded: true,
		logger:           slog.Default(),
	}
	for _, opt := range options {
		opt(c)
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.completions = make(chan completion, c.queueSize)
	c.pool = worker.NewDynamicWorkerPool(c.workers, c.queueSize, time.Second)
	return c
}

func (c *controller) Request(name common.ExhibitName) Token {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.logger.Warn("exhibit request after close", "exhibit", name.String())
		return 0
	}
	if c.cancelSuperseded && c.cancelLatest != nil {
		c.cancelLatest()
	}
	c.latest++
	token := c.latest
	c.latestName = name
	reqCtx, cancel := context.WithCancel(c.ctx)
	c.cancelLatest = cancel
	c.pending.Add(1)
	from := c.state
	c.state = StateLoading
	c.wg.Add(1)
	c.mu.Unlock()

	c.notify(Transition{Token: token, Exhibit: name, From: from, To: StateLoading})
	c.logger.Debug("exhibit requested", "exhibit", name.String(), "token", uint64(token))

	go c.load(reqCtx, cancel, token, name)
	return token
}

// load runs the three sub-loads on the pool and posts a single completion.
func (c *controller) load(ctx context.Context, cancel context.CancelFunc, token Token, name common.ExhibitName) {
	defer c.wg.Done()
	defer cancel()

	res := completion{token: token, name: name}
	bundle, err := c.catalog.Bundle(name)
	if err != nil {
		res.err = err
		c.post(res)
		return
	}

	parts := make(chan partResult, 3)
	c.submit(parts, partLighting, func() (any, error) {
		text, err := c.loader.LoadText(ctx, bundle.Lighting)
		if err != nil {
			return nil, err
		}
		return light.DecodePreset(light.ParseDescriptor(text))
	})
	c.submit(parts, partModel, func() (any, error) {
		return c.loader.LoadModel(ctx, bundle.Model)
	})
	c.submit(parts, partPreview, func() (any, error) {
		return c.loader.LoadPreview(ctx, bundle.Preview)
	})

	for range 3 {
		var p partResult
		select {
		case p = <-parts:
		case <-c.ctx.Done():
			return
		}
		switch p.part {
		case partLighting:
			if p.err != nil {
				res.err = fmt.Errorf("exhibit %s: lighting: %w", name, p.err)
				continue
			}
			res.preset, _ = p.value.(light.Preset)
		case partModel:
			if p.err != nil {
				res.nonFatal = append(res.nonFatal, &NonFatalLoadError{Exhibit: name, Part: partModel, Err: p.err})
				continue
			}
			res.model, _ = p.value.(model.Model)
		case partPreview:
			if p.err != nil {
				res.nonFatal = append(res.nonFatal, &NonFatalLoadError{Exhibit: name, Part: partPreview, Err: p.err})
				continue
			}
			res.preview, _ = p.value.(*image.RGBA)
		}
	}
	c.post(res)
}

// submit queues fn on the pool. The result, or a recovered panic, is always sent to out.
func (c *controller) submit(out chan<- partResult, part string, fn func() (any, error)) {
	if c.ctx.Err() != nil {
		out <- partResult{part: part, err: c.ctx.Err()}
		return
	}
	c.pool.SubmitTask(worker.Task{
		ID:      int(c.taskSeq.Add(1)),
		Payload: part,
		Do: func() (v any, err error) {
			defer func() {
				if r := recover(); r != nil {
					v, err = nil, fmt.Errorf("%s load panicked: %v", part, r)
				}
				out <- partResult{part: part, value: v, err: err}
			}()
			return fn()
		},
	})
}

func (c *controller) post(res completion) {
	select {
	case c.completions <- res:
	case <-c.ctx.Done():
	}
}

func (c *controller) Pump() int {
	handled := 0
	for {
		select {
		case res := <-c.completions:
			c.handle(res)
			handled++
		default:
			return handled
		}
	}
}

func (c *controller) Drain(ctx context.Context) error {
	for {
		c.Pump()
		if c.pending.Load() == 0 {
			return nil
		}
		select {
		case res := <-c.completions:
			c.handle(res)
		case <-c.ctx.Done():
			return ErrControllerClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// handle applies or discards one completion. Frame goroutine only.
func (c *controller) handle(res completion) {
	c.pending.Add(-1)

	c.mu.Lock()
	latest := c.latest
	c.mu.Unlock()
	if res.token != latest {
		c.logger.Debug("discarding exhibit result", "exhibit", res.name.String(), "token", uint64(res.token),
			"latest", uint64(latest), "reason", errStaleResponse)
		return
	}

	if res.err != nil {
		c.setState(res, StateFailed, res.err)
		c.logger.Error("exhibit swap failed", "exhibit", res.name.String(), "token", uint64(res.token), "error", res.err)
		c.setState(res, StateIdle, nil)
		return
	}

	c.setState(res, StateApplying, nil)
	if res.model != nil {
		prev := c.stage.Asset()
		c.stage.Place(res.name, res.model)
		if prev != nil && prev.Name() != res.name {
			c.evict(prev.Name())
		}
	}
	if res.preview != nil {
		c.stage.ShowPreview(res.preview)
	}
	c.stage.Light(res.preset)
	for _, err := range res.nonFatal {
		var partErr *NonFatalLoadError
		if errors.As(err, &partErr) {
			c.logger.Warn("exhibit part not loaded", "exhibit", partErr.Exhibit.String(), "token", uint64(res.token),
				"part", partErr.Part, "error", partErr.Err)
			continue
		}
		c.logger.Warn("exhibit part not loaded", "exhibit", res.name.String(), "token", uint64(res.token), "error", err)
	}
	c.logger.Info("exhibit displayed", "exhibit", res.name.String(), "token", uint64(res.token),
		"model", res.model != nil, "preview", res.preview != nil)
	c.setState(res, StateIdle, nil)
}

// evict drops a replaced exhibit's model from the loader cache.
func (c *controller) evict(name common.ExhibitName) {
	bundle, err := c.catalog.Bundle(name)
	if err != nil {
		return
	}
	c.loader.Evict(bundle.Model)
}

func (c *controller) setState(res completion, to State, err error) {
	c.mu.Lock()
	from := c.state
	// a request issued while applying keeps the controller loading
	if c.latest != res.token && to == StateIdle {
		to = StateLoading
	}
	c.state = to
	c.mu.Unlock()
	c.notify(Transition{Token: res.token, Exhibit: res.name, From: from, To: to, Err: err})
}

func (c *controller) notify(t Transition) {
	if c.observer != nil {
		c.observer(t)
	}
}

func (c *controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *controller) Latest() (Token, common.ExhibitName) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest, c.latestName
}

func (c *controller) Pending() int {
	return int(c.pending.Load())
}

func (c *controller) Stage() *Stage {
	return c.stage
}

func (c *controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	c.pool.Stop()
}
