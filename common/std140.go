package common

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Std140Writer appends values to a byte slice using std140 alignment rules.
// vec3 values are padded to 16 bytes and matrices are written column by column,
// each column occupying a full vec4 slot.
type Std140Writer struct {
	buf []byte
}

// NewStd140Writer creates a writer with the given initial capacity in bytes.
func NewStd140Writer(capacity int) *Std140Writer {
	return &Std140Writer{buf: make([]byte, 0, capacity)}
}

// Bytes returns the written data.
func (w *Std140Writer) Bytes() []byte {
	return w.buf
}

// Align pads the buffer with zeroes until its length is a multiple of alignment.
func (w *Std140Writer) Align(alignment int) *Std140Writer {
	for len(w.buf)%alignment != 0 {
		w.buf = append(w.buf, 0)
	}
	return w
}

// Float32 writes a single float.
func (w *Std140Writer) Float32(v float32) *Std140Writer {
	w.Align(4)
	w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(v))
	return w
}

// Int32 writes a single signed integer.
func (w *Std140Writer) Int32(v int32) *Std140Writer {
	w.Align(4)
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
	return w
}

// Uint32 writes a single unsigned integer.
func (w *Std140Writer) Uint32(v uint32) *Std140Writer {
	w.Align(4)
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
	return w
}

// Vec2 writes a two component vector aligned to 8 bytes.
func (w *Std140Writer) Vec2(v mgl32.Vec2) *Std140Writer {
	w.Align(8)
	for _, c := range v {
		w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(c))
	}
	return w
}

// Vec3 writes a three component vector aligned to 16 bytes. The trailing 4 bytes are left for the next scalar.
func (w *Std140Writer) Vec3(v mgl32.Vec3) *Std140Writer {
	w.Align(16)
	for _, c := range v {
		w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(c))
	}
	return w
}

// Vec4 writes a four component vector aligned to 16 bytes.
func (w *Std140Writer) Vec4(v mgl32.Vec4) *Std140Writer {
	w.Align(16)
	for _, c := range v {
		w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(c))
	}
	return w
}

// Mat3 writes a 3x3 matrix as three vec4 columns.
func (w *Std140Writer) Mat3(m mgl32.Mat3) *Std140Writer {
	for c := range 3 {
		w.Vec3(m.Col(c))
		w.Float32(0)
	}
	return w
}

// Mat4 writes a 4x4 matrix as four vec4 columns.
func (w *Std140Writer) Mat4(m mgl32.Mat4) *Std140Writer {
	for c := range 4 {
		w.Vec4(m.Col(c))
	}
	return w
}
