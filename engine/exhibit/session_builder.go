package exhibit

import "log/slog"

// SessionBuilderOption is a functional option for configuring a Session.
type SessionBuilderOption func(s *Session)

// WithSessionLogger sets the logger shared by the session and its controller.
func WithSessionLogger(logger *slog.Logger) SessionBuilderOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithControllerOptions passes extra options to the session's controller.
// They are applied after the options derived from the configuration.
//
// Parameters:
//   - options: controller options
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithControllerOptions(options ...ControllerBuilderOption) SessionBuilderOption {
	return func(s *Session) {
		s.controllerOptions = append(s.controllerOptions, options...)
	}
}

// WithViewport sets the initial camera aspect ratio from a viewport size.
func WithViewport(width, height int) SessionBuilderOption {
	return func(s *Session) {
		s.viewport = [2]int{width, height}
	}
}
