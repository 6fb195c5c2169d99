// Package gputest provides a recording gpu.Device for tests that run without a graphics context.
package gputest

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded device call.
type Call struct {
	Name string
	Args []any
}

type shaderRecord struct {
	stage  gpu.ShaderStage
	source string
}

// Device is an in-memory gpu.Device. It records every call, keeps buffer contents, and
// reflects GLSL sources with std140 rules so programs can be compiled without a driver.
// Sources containing an #error directive fail to compile with a vendor shaped log.
type Device struct {
	// Info is returned from DriverInfo and selects the shape of compile logs.
	Info gpu.DriverInfo
	// MaxBindings is returned from MaxUniformBufferBindings.
	MaxBindings int
	// FailLink makes every link fail.
	FailLink bool

	// Calls holds every recorded call in order.
	Calls []Call

	// CurrentProgram, CurrentFramebuffer and CurrentVertexArray track bound objects.
	CurrentProgram     uint32
	CurrentFramebuffer uint32
	CurrentVertexArray uint32

	// BlockBindings maps program -> block index -> slot.
	BlockBindings map[uint32]map[uint32]uint32
	// SlotBuffers maps slot -> constant buffer.
	SlotBuffers map[uint32]uint32
	// Textures maps texture unit -> bound texture.
	Textures map[uint32]gpu.Texture

	nextHandle  uint32
	shaders     map[uint32]shaderRecord
	programs    map[uint32]reflection
	buffers     map[uint32][]byte
	uniforms    map[uint32]map[int32][]byte
	liveObjects map[uint32]string
}

var _ gpu.Device = &Device{}

// New creates a device that reports an NVIDIA driver and 36 binding slots.
func New() *Device {
	return &Device{
		Info: gpu.DriverInfo{
			Vendor:      "NVIDIA Corporation",
			Renderer:    "gputest",
			Version:     "4.1.0",
			GLSLVersion: "4.10",
		},
		MaxBindings:   36,
		BlockBindings: map[uint32]map[uint32]uint32{},
		SlotBuffers:   map[uint32]uint32{},
		Textures:      map[uint32]gpu.Texture{},
		shaders:       map[uint32]shaderRecord{},
		programs:      map[uint32]reflection{},
		buffers:       map[uint32][]byte{},
		uniforms:      map[uint32]map[int32][]byte{},
		liveObjects:   map[uint32]string{},
	}
}

// Names returns the names of every recorded call, optionally filtered.
//
// Parameters:
//   - filter: if non-empty only calls with one of these names are returned
//
// Returns:
//   - []string: the call names in order
func (d *Device) Names(filter ...string) []string {
	var names []string
	for _, c := range d.Calls {
		if len(filter) == 0 || slices.Contains(filter, c.Name) {
			names = append(names, c.Name)
		}
	}
	return names
}

// Filter returns every recorded call with one of the given names.
func (d *Device) Filter(names ...string) []Call {
	var calls []Call
	for _, c := range d.Calls {
		if slices.Contains(names, c.Name) {
			calls = append(calls, c)
		}
	}
	return calls
}

// Count returns how many times a call was recorded.
func (d *Device) Count(name string) int {
	return len(d.Filter(name))
}

// Reset clears the recorded calls but keeps the device state.
func (d *Device) Reset() {
	d.Calls = nil
}

// Buffer returns the current contents of a constant buffer.
func (d *Device) Buffer(buffer uint32) []byte {
	return d.buffers[buffer]
}

// Uniform returns the last data uploaded to a default block constant of a program.
func (d *Device) Uniform(program uint32, location int32) []byte {
	return d.uniforms[program][location]
}

// Live returns the number of GPU objects that were created and not deleted.
func (d *Device) Live(kind string) int {
	n := 0
	for _, k := range d.liveObjects {
		if k == kind {
			n++
		}
	}
	return n
}

func (d *Device) record(name string, args ...any) {
	d.Calls = append(d.Calls, Call{Name: name, Args: args})
}

func (d *Device) allocate(kind string) uint32 {
	d.nextHandle++
	d.liveObjects[d.nextHandle] = kind
	return d.nextHandle
}

func (d *Device) release(handle uint32) {
	delete(d.liveObjects, handle)
}

func (d *Device) DriverInfo() gpu.DriverInfo {
	return d.Info
}

func (d *Device) MaxUniformBufferBindings() int {
	return d.MaxBindings
}

var linePattern = regexp.MustCompile(`^\s*#line\s+(\d+)(?:\s+(\d+))?`)

func (d *Device) CompileShader(stage gpu.ShaderStage, source string) (uint32, error) {
	d.record("CompileShader", stage)

	line, file := 1, 0
	for text := range strings.SplitSeq(source, "\n") {
		if m := linePattern.FindStringSubmatch(text); m != nil {
			line, _ = strconv.Atoi(m[1])
			if m[2] != "" {
				file, _ = strconv.Atoi(m[2])
			}
			continue
		}
		if message, ok := strings.CutPrefix(strings.TrimSpace(text), "#error"); ok {
			return 0, &gpu.InfoLogError{Log: d.errorLine(file, line, strings.TrimSpace(message))}
		}
		line++
	}

	handle := d.allocate("shader")
	d.shaders[handle] = shaderRecord{stage: stage, source: source}
	return handle, nil
}

func (d *Device) errorLine(file, line int, message string) string {
	switch d.Info.VendorFamily() {
	case gpu.VendorNvidia:
		return fmt.Sprintf("%d(%d) : error C0000: %s\n", file, line, message)
	case gpu.VendorIntel, gpu.VendorMesa:
		return fmt.Sprintf("%d:%d(1): error: %s\n", file, line, message)
	}
	return fmt.Sprintf("ERROR: %d:%d: %s\n", file, line, message)
}

func (d *Device) LinkProgram(shaders []uint32) (uint32, error) {
	d.record("LinkProgram", slices.Clone(shaders))
	if d.FailLink {
		return 0, &gpu.InfoLogError{Log: "error: linking failed\n"}
	}

	stages := map[gpu.ShaderStage]string{}
	for _, s := range shaders {
		record, ok := d.shaders[s]
		if !ok {
			return 0, &gpu.InfoLogError{Log: fmt.Sprintf("error: unknown shader %d\n", s)}
		}
		stages[record.stage] = record.source
	}

	handle := d.allocate("program")
	d.programs[handle] = reflectSources(stages)
	return handle, nil
}

func (d *Device) DeleteShader(shader uint32) {
	d.record("DeleteShader", shader)
	delete(d.shaders, shader)
	d.release(shader)
}

func (d *Device) DeleteProgram(program uint32) {
	d.record("DeleteProgram", program)
	delete(d.programs, program)
	delete(d.BlockBindings, program)
	d.release(program)
}

func (d *Device) UseProgram(program uint32) {
	d.record("UseProgram", program)
	d.CurrentProgram = program
}

func (d *Device) ActiveAttributes(program uint32) []gpu.ActiveAttribute {
	return slices.Clone(d.programs[program].attributes)
}

func (d *Device) ActiveUniforms(program uint32) []gpu.ActiveUniform {
	return slices.Clone(d.programs[program].uniforms)
}

func (d *Device) ActiveUniformBlocks(program uint32) []gpu.ActiveUniformBlock {
	return slices.Clone(d.programs[program].blocks)
}

func (d *Device) UniformBlockBinding(program uint32, blockIndex uint32, slot uint32) {
	d.record("UniformBlockBinding", program, blockIndex, slot)
	if d.BlockBindings[program] == nil {
		d.BlockBindings[program] = map[uint32]uint32{}
	}
	d.BlockBindings[program][blockIndex] = slot
}

func (d *Device) SetUniform(location int32, dataType gpu.DataType, count int32, data []byte) {
	d.record("SetUniform", location, dataType, count)
	if d.uniforms[d.CurrentProgram] == nil {
		d.uniforms[d.CurrentProgram] = map[int32][]byte{}
	}
	d.uniforms[d.CurrentProgram][location] = slices.Clone(data)
}

func (d *Device) CreateUniformBuffer(size int) uint32 {
	handle := d.allocate("buffer")
	d.record("CreateUniformBuffer", size)
	d.buffers[handle] = make([]byte, size)
	return handle
}

func (d *Device) UpdateUniformBuffer(buffer uint32, offset int, data []byte) {
	d.record("UpdateUniformBuffer", buffer, offset, len(data))
	contents := d.buffers[buffer]
	if offset+len(data) > len(contents) {
		grown := make([]byte, offset+len(data))
		copy(grown, contents)
		contents = grown
	}
	copy(contents[offset:], data)
	d.buffers[buffer] = contents
}

func (d *Device) BindUniformBuffer(buffer uint32, slot uint32) {
	d.record("BindUniformBuffer", buffer, slot)
	d.SlotBuffers[slot] = buffer
}

func (d *Device) DeleteBuffer(buffer uint32) {
	d.record("DeleteBuffer", buffer)
	delete(d.buffers, buffer)
	d.release(buffer)
}

func (d *Device) CreateMesh(desc gpu.MeshDescriptor) (gpu.MeshBuffers, error) {
	d.record("CreateMesh", len(desc.Vertices), len(desc.Indices), len(desc.Instances))
	if desc.Layout.Stride() == 0 {
		return gpu.MeshBuffers{}, fmt.Errorf("vertex layout has no per-vertex attributes")
	}
	buffers := gpu.MeshBuffers{
		VertexArray:  d.allocate("vertex_array"),
		VertexBuffer: d.allocate("buffer"),
	}
	if len(desc.Indices) > 0 {
		buffers.IndexBuffer = d.allocate("buffer")
	}
	if len(desc.Instances) > 0 {
		buffers.InstanceBuffer = d.allocate("buffer")
	}
	return buffers, nil
}

func (d *Device) UpdateInstances(buffers gpu.MeshBuffers, data []byte) {
	d.record("UpdateInstances", buffers.InstanceBuffer, len(data))
}

func (d *Device) DeleteMesh(buffers gpu.MeshBuffers) {
	d.record("DeleteMesh", buffers.VertexArray)
	for _, h := range []uint32{buffers.VertexArray, buffers.VertexBuffer, buffers.IndexBuffer, buffers.InstanceBuffer} {
		if h != 0 {
			d.release(h)
		}
	}
}

func (d *Device) BindVertexArray(vertexArray uint32) {
	d.record("BindVertexArray", vertexArray)
	d.CurrentVertexArray = vertexArray
}

func (d *Device) Draw(call gpu.DrawCall) {
	d.record("Draw", call, d.CurrentProgram, d.CurrentFramebuffer)
}

func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	d.record("CreateTexture", desc.Width, desc.Height, desc.Format)
	if desc.Width <= 0 || desc.Height <= 0 {
		return gpu.Texture{}, fmt.Errorf("invalid texture size %dx%d", desc.Width, desc.Height)
	}
	return gpu.Texture{
		Handle:  d.allocate("texture"),
		Width:   desc.Width,
		Height:  desc.Height,
		Format:  desc.Format,
		Samples: max(desc.Samples, 1),
	}, nil
}

func (d *Device) DeleteTexture(texture gpu.Texture) {
	d.record("DeleteTexture", texture.Handle)
	d.release(texture.Handle)
}

func (d *Device) BindTexture(unit uint32, texture gpu.Texture) {
	d.record("BindTexture", unit, texture.Handle)
	d.Textures[unit] = texture
}

func (d *Device) CreateFramebuffer(desc gpu.FramebufferDescriptor) (gpu.FramebufferAttachments, error) {
	d.record("CreateFramebuffer", desc.Width, desc.Height, desc.Samples)
	if desc.Width <= 0 || desc.Height <= 0 {
		return gpu.FramebufferAttachments{}, fmt.Errorf("invalid framebuffer size %dx%d", desc.Width, desc.Height)
	}
	attachments := gpu.FramebufferAttachments{Handle: d.allocate("framebuffer")}
	samples := max(desc.Samples, 1)
	if desc.HasColor {
		attachments.Color = gpu.Texture{Handle: d.allocate("texture"), Width: desc.Width, Height: desc.Height, Format: desc.ColorFormat, Samples: samples}
	}
	if desc.HasDepth {
		attachments.Depth = gpu.Texture{Handle: d.allocate("texture"), Width: desc.Width, Height: desc.Height, Format: desc.DepthFormat, Samples: samples}
	}
	return attachments, nil
}

func (d *Device) DeleteFramebuffer(attachments gpu.FramebufferAttachments) {
	d.record("DeleteFramebuffer", attachments.Handle)
	for _, h := range []uint32{attachments.Handle, attachments.Color.Handle, attachments.Depth.Handle} {
		if h != 0 {
			d.release(h)
		}
	}
}

func (d *Device) BindFramebuffer(framebuffer uint32) {
	d.record("BindFramebuffer", framebuffer)
	d.CurrentFramebuffer = framebuffer
}

func (d *Device) SetViewport(width, height int) {
	d.record("SetViewport", width, height)
}

func (d *Device) Clear(color mgl32.Vec4, clearColor, clearDepth, clearStencil bool) {
	d.record("Clear", color, clearColor, clearDepth, clearStencil)
}

func (d *Device) SetDepthWrite(enabled bool) {
	d.record("SetDepthWrite", enabled)
}

func (d *Device) SetStencilWriteMask(mask uint32) {
	d.record("SetStencilWriteMask", mask)
}

func (d *Device) SetSRGB(enabled bool) {
	d.record("SetSRGB", enabled)
}

func (d *Device) SetCulling(enabled bool, face gpu.Face, frontFace gpu.WindingOrder) {
	d.record("SetCulling", enabled, face, frontFace)
}

func (d *Device) SetDepthTest(enabled bool, function gpu.ComparisonFunction) {
	d.record("SetDepthTest", enabled, function)
}

func (d *Device) SetStencilTest(enabled bool, state gpu.StencilState) {
	d.record("SetStencilTest", enabled, state)
}

func (d *Device) SetBlending(enabled bool, state gpu.BlendState) {
	d.record("SetBlending", enabled, state)
}
