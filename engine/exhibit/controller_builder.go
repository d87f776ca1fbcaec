package exhibit

import "log/slog"

// ControllerBuilderOption is a functional option for configuring a Controller.
// Use the With* functions to create options.
type ControllerBuilderOption func(c *controller)

// WithWorkers sets the number of pool workers running asset loads.
//
// Parameters:
//   - n: worker count, values below 1 are ignored
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithWorkers(n int) ControllerBuilderOption {
	return func(c *controller) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithQueueSize sets the capacity of the task and completion queues.
func WithQueueSize(n int) ControllerBuilderOption {
	return func(c *controller) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

// WithCancelSuperseded controls whether a new request cancels the in-flight loads of the previous one.
// Stale results are discarded either way.
//
// Parameters:
//   - cancel: true to cancel superseded loads
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithCancelSuperseded(cancel bool) ControllerBuilderOption {
	return func(c *controller) {
		c.cancelSuperseded = cancel
	}
}

// WithStateObserver registers fn to receive every state transition.
// fn runs on the goroutine that caused the transition and must not block.
func WithStateObserver(fn func(Transition)) ControllerBuilderOption {
	return func(c *controller) {
		c.observer = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ControllerBuilderOption {
	return func(c *controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}
