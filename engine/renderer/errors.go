package renderer

import "errors"

var (
	// ErrUnknownPass is returned when a pass id is not registered.
	ErrUnknownPass = errors.New("unknown render pass")

	// ErrUnknownQueue is returned when a queue id is not registered.
	ErrUnknownQueue = errors.New("unknown render queue")

	// ErrBuiltin is returned when a built-in pass or queue would be removed.
	ErrBuiltin = errors.New("built-in passes and queues cannot be removed")

	// ErrDuplicate is returned when an id is registered twice.
	ErrDuplicate = errors.New("id already registered")
)
