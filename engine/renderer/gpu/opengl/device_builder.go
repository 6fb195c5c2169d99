package opengl

import "log/slog"

// DeviceBuilderOption is a functional option applied to a device during construction via NewDevice.
type DeviceBuilderOption func(*device)

// WithLogger sets the logger driver information and GL errors are reported to.
//
// Parameters:
//   - logger: the logger, nil keeps slog.Default()
//
// Returns:
//   - DeviceBuilderOption: a function that applies the logger to a device
func WithLogger(logger *slog.Logger) DeviceBuilderOption {
	return func(d *device) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithErrorChecks polls glGetError after uploads, draws and framebuffer changes and logs every
// pending error. It stalls the pipeline, so leave it off outside of debugging.
func WithErrorChecks(enabled bool) DeviceBuilderOption {
	return func(d *device) {
		d.checkErrors = enabled
	}
}
