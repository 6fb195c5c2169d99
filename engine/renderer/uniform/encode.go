package uniform

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Std140Marshaler is implemented by values that know their own std140 block layout, such as light data.
type Std140Marshaler interface {
	// MarshalStd140 returns the std140 encoded bytes of the value.
	MarshalStd140() []byte
}

// Encode converts a value into the bytes it occupies inside a std140 block.
// vec3 values are written as 12 bytes so a following scalar is not overwritten, matrices are
// written as vec4 columns and slices use a 16 byte element stride.
//
// Parameters:
//   - value: the value to encode
//
// Returns:
//   - []byte: the encoded bytes
//   - error: error if the type is not supported
func Encode(value any) ([]byte, error) {
	w := common.NewStd140Writer(64)
	switch v := value.(type) {
	case []byte:
		return v, nil
	case Std140Marshaler:
		return v.MarshalStd140(), nil
	case float32:
		w.Float32(v)
	case int32:
		w.Int32(v)
	case int:
		w.Int32(int32(v))
	case uint32:
		w.Uint32(v)
	case bool:
		w.Uint32(boolToUint32(v))
	case mgl32.Vec2:
		w.Vec2(v)
	case mgl32.Vec3:
		w.Vec3(v)
	case mgl32.Vec4:
		w.Vec4(v)
	case [2]int32:
		w.Int32(v[0]).Int32(v[1])
	case mgl32.Mat3:
		w.Mat3(v)
	case mgl32.Mat4:
		w.Mat4(v)
	case []float32:
		for _, f := range v {
			w.Align(16).Float32(f)
		}
		w.Align(16)
	case []mgl32.Vec4:
		for _, vec := range v {
			w.Vec4(vec)
		}
	case []mgl32.Mat4:
		for _, m := range v {
			w.Mat4(m)
		}
	default:
		return nil, fmt.Errorf("unsupported constant type %T", value)
	}
	return w.Bytes(), nil
}

// EncodeTight converts a value into tightly packed bytes for default block constant uploads.
//
// Parameters:
//   - value: the value to encode
//
// Returns:
//   - []byte: the encoded bytes
//   - error: error if the type is not supported
func EncodeTight(value any) ([]byte, error) {
	var floats []float32
	switch v := value.(type) {
	case []byte:
		return v, nil
	case float32:
		floats = []float32{v}
	case mgl32.Vec2:
		floats = v[:]
	case mgl32.Vec3:
		floats = v[:]
	case mgl32.Vec4:
		floats = v[:]
	case mgl32.Mat3:
		floats = v[:]
	case mgl32.Mat4:
		floats = v[:]
	case []float32:
		floats = v
	case int32:
		return binary.LittleEndian.AppendUint32(nil, uint32(v)), nil
	case int:
		return binary.LittleEndian.AppendUint32(nil, uint32(int32(v))), nil
	case uint32:
		return binary.LittleEndian.AppendUint32(nil, v), nil
	case bool:
		return binary.LittleEndian.AppendUint32(nil, boolToUint32(v)), nil
	case [2]int32:
		out := binary.LittleEndian.AppendUint32(nil, uint32(v[0]))
		return binary.LittleEndian.AppendUint32(out, uint32(v[1])), nil
	case []mgl32.Mat4:
		for _, m := range v {
			floats = append(floats, m[:]...)
		}
	default:
		return nil, fmt.Errorf("unsupported constant type %T", value)
	}

	out := make([]byte, 0, len(floats)*4)
	for _, f := range floats {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(f))
	}
	return out, nil
}

func boolToUint32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
