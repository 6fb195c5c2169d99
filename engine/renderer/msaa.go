package renderer

import "fmt"

// MSAASampleCount controls the number of samples of the main framebuffer.
// Only power of two values are valid; counts above 4 are driver dependent.
type MSAASampleCount int

const (
	// MSAAOff renders the main framebuffer with a single sample.
	MSAAOff MSAASampleCount = 1

	// MSAA2x enables 2x multisample anti-aliasing.
	MSAA2x MSAASampleCount = 2

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4

	// MSAA8x enables 8x multisample anti-aliasing.
	MSAA8x MSAASampleCount = 8

	// MSAA16x enables 16x multisample anti-aliasing.
	MSAA16x MSAASampleCount = 16
)

// IsValid reports whether the count is one of the supported sample counts.
func (c MSAASampleCount) IsValid() bool {
	switch c {
	case MSAAOff, MSAA2x, MSAA4x, MSAA8x, MSAA16x:
		return true
	}
	return false
}

func (c MSAASampleCount) String() string {
	if c == MSAAOff {
		return "Off"
	}
	return fmt.Sprintf("%dx", int(c))
}
