package systems

import "errors"

var (
	// ErrNotInitialized is returned by Step before Initialize has succeeded.
	ErrNotInitialized = errors.New("thread system not initialized")

	// ErrUnsupportedMode is wrapped when a strategy name is unknown.
	ErrUnsupportedMode = errors.New("unsupported mode")

	// ErrInvalidViewport is wrapped when a viewport or thread count is unusable.
	ErrInvalidViewport = errors.New("invalid viewport")
)
