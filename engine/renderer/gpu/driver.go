package gpu

import (
	"slices"
	"strings"
	"unicode"
)

// Vendor identifies the GPU driver family, used to parse driver specific compiler logs.
type Vendor int

const (
	VendorUnknown Vendor = iota
	VendorNvidia
	VendorAMD
	VendorIntel
	VendorMesa
)

func (v Vendor) String() string {
	switch v {
	case VendorNvidia:
		return "NVIDIA"
	case VendorAMD:
		return "AMD"
	case VendorIntel:
		return "Intel"
	case VendorMesa:
		return "Mesa"
	}
	return "Unknown"
}

// DriverInfo holds the identification strings reported by the driver.
type DriverInfo struct {
	Vendor      string
	Renderer    string
	Version     string
	GLSLVersion string
}

// DetectVendor classifies a driver vendor string.
//
// Parameters:
//   - vendor: the raw vendor string, e.g. "NVIDIA Corporation"
//
// Returns:
//   - Vendor: the detected vendor family, VendorUnknown if nothing matched
func DetectVendor(vendor string) Vendor {
	v := strings.ToLower(vendor)
	switch {
	case strings.Contains(v, "nvidia"):
		return VendorNvidia
	case strings.Contains(v, "amd"), strings.Contains(v, "advanced micro devices"), slices.Contains(strings.FieldsFunc(v, isNotLetter), "ati"):
		return VendorAMD
	case strings.Contains(v, "intel"):
		return VendorIntel
	case strings.Contains(v, "mesa"):
		return VendorMesa
	}
	return VendorUnknown
}

// VendorFamily returns the detected vendor family.
func (d DriverInfo) VendorFamily() Vendor {
	return DetectVendor(d.Vendor)
}

func isNotLetter(r rune) bool {
	return !unicode.IsLetter(r)
}
