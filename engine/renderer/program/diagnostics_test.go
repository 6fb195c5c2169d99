package program

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFiles = FileTable{0: "shaders/main.frag", 1: "shaders/common/light.glsl"}

func TestFormatLogPerVendor(t *testing.T) {
	tests := []struct {
		name   string
		vendor gpu.Vendor
		log    string
		want   Diagnostic
	}{
		{
			name:   "nvidia",
			vendor: gpu.VendorNvidia,
			log:    `1(12) : error C1008: undefined variable "foo"`,
			want:   Diagnostic{Path: "shaders/common/light.glsl", Line: 12, Message: `error C1008: undefined variable "foo"`},
		},
		{
			name:   "amd",
			vendor: gpu.VendorAMD,
			log:    "ERROR: 0:7: 'x' : undeclared identifier",
			want:   Diagnostic{Path: "shaders/main.frag", Line: 7, Message: "'x' : undeclared identifier"},
		},
		{
			name:   "intel",
			vendor: gpu.VendorIntel,
			log:    "1:3(10): error: syntax error",
			want:   Diagnostic{Path: "shaders/common/light.glsl", Line: 3, Message: "error: syntax error"},
		},
		{
			name:   "mesa",
			vendor: gpu.VendorMesa,
			log:    "0:12(5): error: `x' undeclared",
			want:   Diagnostic{Path: "shaders/main.frag", Line: 12, Message: "error: `x' undeclared"},
		},
		{
			name:   "unknown vendor tries every shape",
			vendor: gpu.VendorUnknown,
			log:    "ERROR: 1:4: bad",
			want:   Diagnostic{Path: "shaders/common/light.glsl", Line: 4, Message: "bad"},
		},
		{
			name:   "unparsed lines are kept",
			vendor: gpu.VendorNvidia,
			log:    "Compilation failed.",
			want:   Diagnostic{Message: "Compilation failed."},
		},
		{
			name:   "unknown file id",
			vendor: gpu.VendorNvidia,
			log:    "5(1) : error",
			want:   Diagnostic{Path: "<file 5>", Line: 1, Message: "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatLog(tt.vendor, tt.log+"\n\n", testFiles)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Path: "shaders/main.frag", Line: 3, Message: "error: oops"}
	assert.Equal(t, "\tshaders/main.frag -> line 3: error: oops", d.String())
	assert.Equal(t, "\traw", Diagnostic{Message: "raw"}.String())
}
