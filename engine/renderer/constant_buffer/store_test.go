package constant_buffer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/binding"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/uniform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lightData struct {
	color     mgl32.Vec3
	intensity float32
	direction mgl32.Vec3
}

func (l lightData) MarshalStd140() []byte {
	b, _ := uniform.Encode(mgl32.Vec4{l.color[0], l.color[1], l.color[2], l.intensity})
	d, _ := uniform.Encode(l.direction.Vec4(0))
	return append(b, d...)
}

func lightingBlock() *uniform.Block {
	block := uniform.NewBlock("_Intrinsic_Lighting", 0, 144)
	exposure := &uniform.Info{Name: "_Intrinsic_Lighting.exposure", Offset: 64, Size: 4, ArrayCount: 1, Type: gpu.DataTypeFloat, IsBufferMember: true}
	transform := &uniform.Info{Name: "_Intrinsic_Lighting.transform", Offset: 80, Size: 64, ArrayCount: 1, Type: gpu.DataTypeMat4, IsBufferMember: true}
	block.Singles["exposure"] = exposure
	block.Singles["transform"] = transform
	block.Structs["light"] = &uniform.Aggregate{Name: "light", Offset: 0, Size: 32, ElementCount: 1}
	block.Arrays["points"] = &uniform.Aggregate{Name: "points", Offset: 32, Size: 32, Stride: 16, ElementCount: 2}
	return block
}

func newTestStore(t *testing.T, options ...StoreBuilderOption) (Store, *gputest.Device, *uniform.Block) {
	t.Helper()
	d := gputest.New()
	r, err := binding.NewRegistry(d)
	require.NoError(t, err)

	block := lightingBlock()
	r.Register(1, block)

	s := NewStore(d, r, options...)
	_, err = s.CreateOrGet(block)
	require.NoError(t, err)
	return s, d, block
}

func TestCreateOrGetIsIdempotent(t *testing.T) {
	s, d, block := newTestStore(t)

	first, _ := s.Buffer(block.Name)
	again, err := s.CreateOrGet(block)
	require.NoError(t, err)

	assert.Equal(t, first, again)
	assert.Equal(t, 1, d.Count("CreateUniformBuffer"))
	assert.Equal(t, first, d.SlotBuffers[uint32(block.Slot)])
}

func TestCreateOrGetRequiresRegisteredBlock(t *testing.T) {
	d := gputest.New()
	r, err := binding.NewRegistry(d)
	require.NoError(t, err)
	s := NewStore(d, r)

	_, err = s.CreateOrGet(uniform.NewBlock("_Global_Unregistered", 0, 16))
	assert.ErrorIs(t, err, binding.ErrUnregisteredBlock)
	assert.False(t, s.Has("_Global_Unregistered"))
	assert.Equal(t, 0, d.Live("buffer"))
}

func TestPartialWritesRoundTrip(t *testing.T) {
	s, _, block := newTestStore(t)

	exposure, _ := uniform.Encode(float32(2.5))
	require.NoError(t, s.Set(block.Name, "exposure", float32(2.5)))

	point, _ := uniform.Encode(mgl32.Vec4{1, 2, 3, 4})
	require.NoError(t, s.SetArrayElement(block.Name, "points", 1, mgl32.Vec4{1, 2, 3, 4}))

	light := lightData{color: mgl32.Vec3{1, 0.5, 0.25}, intensity: 3, direction: mgl32.Vec3{0, -1, 0}}
	require.NoError(t, s.SetStruct(block.Name, "_Intrinsic_Lighting.light", light))

	mirror, ok := s.Mirror(block.Name)
	require.True(t, ok)
	assert.Equal(t, exposure, mirror[64:68])
	assert.Equal(t, point, mirror[48:64])
	assert.Equal(t, make([]byte, 16), mirror[32:48])
	assert.Equal(t, light.MarshalStd140(), mirror[0:32])
}

func TestPartialWriteErrors(t *testing.T) {
	s, _, block := newTestStore(t)

	assert.ErrorIs(t, s.Set(block.Name, "missing", float32(1)), ErrUnknownMember)
	assert.ErrorIs(t, s.Set("_Intrinsic_Missing", "exposure", float32(1)), ErrUnknownBlock)
	assert.ErrorIs(t, s.SetArrayElement(block.Name, "points", 2, mgl32.Vec4{}), ErrOutOfRange)
	assert.ErrorIs(t, s.Set(block.Name, "exposure", mgl32.Vec4{}), ErrOutOfRange)
	assert.ErrorIs(t, s.SetStruct(block.Name, "points", mgl32.Vec4{}), ErrUnknownMember)
}

func TestUploadAllPlainMirrorSendsWholeBuffer(t *testing.T) {
	s, d, block := newTestStore(t)
	require.NoError(t, s.Set(block.Name, "exposure", float32(1)))
	d.Reset()

	s.UploadAll()
	s.UploadAll()

	uploads := d.Filter("UpdateUniformBuffer")
	require.Len(t, uploads, 2)
	for _, u := range uploads {
		assert.Equal(t, 0, u.Args[1])
		assert.Equal(t, 144, u.Args[2])
	}
}

func TestUploadAllDirtyMirrorSendsTouchedRange(t *testing.T) {
	s, d, block := newTestStore(t, WithDirtyTracking())
	buffer, _ := s.Buffer(block.Name)

	s.UploadAll()
	require.Equal(t, 1, d.Count("UpdateUniformBuffer"))
	d.Reset()

	s.UploadAll()
	assert.Equal(t, 0, d.Count("UpdateUniformBuffer"))

	require.NoError(t, s.Set(block.Name, "exposure", float32(1)))
	require.NoError(t, s.SetArrayElement(block.Name, "points", 1, mgl32.Vec4{1, 1, 1, 1}))
	s.UploadAll()

	uploads := d.Filter("UpdateUniformBuffer")
	require.Len(t, uploads, 1)
	assert.Equal(t, []any{buffer, 48, 20}, uploads[0].Args)

	mirror, _ := s.Mirror(block.Name)
	assert.Equal(t, mirror, d.Buffer(buffer))
}

func TestReleaseAndDestroy(t *testing.T) {
	s, d, block := newTestStore(t)

	assert.True(t, s.Release(block.Name))
	assert.False(t, s.Release(block.Name))
	assert.Equal(t, 0, d.Live("buffer"))

	_, err := s.CreateOrGet(block)
	require.NoError(t, err)
	s.Destroy()
	assert.Empty(t, s.Names())
}

func TestConnectRebindsBufferToSlot(t *testing.T) {
	s, d, block := newTestStore(t)
	buffer, _ := s.Buffer(block.Name)
	d.SlotBuffers[uint32(block.Slot)] = 0

	require.NoError(t, s.Connect(block.Name))
	assert.Equal(t, buffer, d.SlotBuffers[uint32(block.Slot)])
}
