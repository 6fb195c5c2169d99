package constant_buffer

import "log/slog"

// StoreBuilderOption is a functional option for configuring a Store.
type StoreBuilderOption func(*store)

// WithDirtyTracking makes every mirror track the range touched since the last upload,
// so uploads only send that range.
//
// Returns:
//   - StoreBuilderOption: a function that enables dirty tracking on the store
func WithDirtyTracking() StoreBuilderOption {
	return func(s *store) {
		s.dirty = true
	}
}

// WithLogger sets the logger used by the store.
//
// Parameters:
//   - logger: the logger, nil keeps slog.Default()
//
// Returns:
//   - StoreBuilderOption: a function that applies the logger to the store
func WithLogger(logger *slog.Logger) StoreBuilderOption {
	return func(s *store) {
		if logger != nil {
			s.logger = logger
		}
	}
}
