package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectVendor(t *testing.T) {
	tests := []struct {
		vendor string
		want   Vendor
	}{
		{"NVIDIA Corporation", VendorNvidia},
		{"ATI Technologies Inc.", VendorAMD},
		{"Advanced Micro Devices, Inc.", VendorAMD},
		{"AMD", VendorAMD},
		{"Intel", VendorIntel},
		{"Intel Corporation", VendorIntel},
		{"Mesa/X.org", VendorMesa},
		{"Mesa", VendorMesa},
		{"Apple", VendorUnknown},
		{"", VendorUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.vendor, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectVendor(tt.vendor))
		})
	}
}
