package binding

type registryConfig struct {
	intrinsic int
	global    int
}

// RegistryBuilderOption is a functional option for configuring a Registry.
type RegistryBuilderOption func(*registryConfig)

// WithPartitionSizes sets the number of Intrinsic and Global slots. Zero keeps the default.
//
// Parameters:
//   - intrinsic: slots reserved for renderer filled blocks
//   - global: slots reserved for program shared blocks
//
// Returns:
//   - RegistryBuilderOption: a function that applies the sizes to the registry configuration
func WithPartitionSizes(intrinsic, global int) RegistryBuilderOption {
	return func(c *registryConfig) {
		if intrinsic > 0 {
			c.intrinsic = intrinsic
		}
		if global > 0 {
			c.global = global
		}
	}
}
