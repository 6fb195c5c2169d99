// Package opengl implements gpu.Device on top of an OpenGL 4.1 core context.
package opengl

import (
	"fmt"
	"log/slog"
	"strings"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// device is the implementation of gpu.Device over go-gl.
type device struct {
	logger      *slog.Logger
	info        gpu.DriverInfo
	maxBindings int
	checkErrors bool
}

var _ gpu.Device = &device{}

// NewDevice loads the OpenGL function pointers of the current context and wraps them in a gpu.Device.
// The context must be current on the calling goroutine, which must stay locked to its thread.
//
// Parameters:
//   - options: variadic list of DeviceBuilderOption functions
//
// Returns:
//   - gpu.Device: the device
//   - error: error if the function pointers cannot be loaded
func NewDevice(options ...DeviceBuilderOption) (gpu.Device, error) {
	d := &device{logger: slog.Default()}
	for _, opt := range options {
		opt(d)
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("loading OpenGL: %w", err)
	}

	d.info = gpu.DriverInfo{
		Vendor:      gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer:    gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:     gl.GoStr(gl.GetString(gl.VERSION)),
		GLSLVersion: gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
	var bindings int32
	gl.GetIntegerv(gl.MAX_UNIFORM_BUFFER_BINDINGS, &bindings)
	d.maxBindings = int(bindings)

	d.logger.Info("opengl device created",
		"vendor", d.info.Vendor,
		"renderer", d.info.Renderer,
		"version", d.info.Version,
		"glsl", d.info.GLSLVersion,
		"uniform_buffer_bindings", d.maxBindings,
	)
	return d, nil
}

func (d *device) DriverInfo() gpu.DriverInfo {
	return d.info
}

func (d *device) MaxUniformBufferBindings() int {
	return d.maxBindings
}

// check logs pending GL errors when error checking is enabled.
func (d *device) check(op string) {
	if !d.checkErrors {
		return
	}
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		d.logger.Error("opengl error", "op", op, "code", fmt.Sprintf("0x%04X", code))
	}
}

var shaderTypes = map[gpu.ShaderStage]uint32{
	gpu.ShaderStageVertex:   gl.VERTEX_SHADER,
	gpu.ShaderStageGeometry: gl.GEOMETRY_SHADER,
	gpu.ShaderStageFragment: gl.FRAGMENT_SHADER,
}

func (d *device) CompileShader(stage gpu.ShaderStage, source string) (uint32, error) {
	shaderType, ok := shaderTypes[stage]
	if !ok {
		return 0, fmt.Errorf("unsupported shader stage %s", stage)
	}

	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var length int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &length)
		log := infoLog(length, func(buf *uint8) { gl.GetShaderInfoLog(shader, length, nil, buf) })
		gl.DeleteShader(shader)
		return 0, &gpu.InfoLogError{Log: log}
	}
	return shader, nil
}

func (d *device) LinkProgram(shaders []uint32) (uint32, error) {
	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)
	for _, s := range shaders {
		gl.DetachShader(program, s)
	}

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var length int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &length)
		log := infoLog(length, func(buf *uint8) { gl.GetProgramInfoLog(program, length, nil, buf) })
		gl.DeleteProgram(program)
		return 0, &gpu.InfoLogError{Log: log}
	}
	return program, nil
}

func infoLog(length int32, read func(*uint8)) string {
	if length <= 0 {
		return ""
	}
	buf := make([]uint8, length+1)
	read(&buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

func (d *device) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (d *device) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (d *device) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *device) ActiveAttributes(program uint32) []gpu.ActiveAttribute {
	var count, maxLength int32
	gl.GetProgramiv(program, gl.ACTIVE_ATTRIBUTES, &count)
	gl.GetProgramiv(program, gl.ACTIVE_ATTRIBUTE_MAX_LENGTH, &maxLength)

	attributes := make([]gpu.ActiveAttribute, 0, count)
	buf := make([]uint8, maxLength+1)
	for i := range uint32(count) {
		var length, size int32
		var xtype uint32
		gl.GetActiveAttrib(program, i, maxLength, &length, &size, &xtype, &buf[0])
		name := string(buf[:length])
		if strings.HasPrefix(name, "gl_") {
			continue
		}
		attributes = append(attributes, gpu.ActiveAttribute{
			Name:      name,
			Location:  gl.GetAttribLocation(program, gl.Str(name+"\x00")),
			Type:      dataType(xtype),
			ArraySize: size,
		})
	}
	return attributes
}

func (d *device) ActiveUniforms(program uint32) []gpu.ActiveUniform {
	var count, maxLength int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLength)
	if count == 0 {
		return nil
	}

	indices := make([]uint32, count)
	for i := range indices {
		indices[i] = uint32(i)
	}
	blockIndices := make([]int32, count)
	offsets := make([]int32, count)
	strides := make([]int32, count)
	gl.GetActiveUniformsiv(program, count, &indices[0], gl.UNIFORM_BLOCK_INDEX, &blockIndices[0])
	gl.GetActiveUniformsiv(program, count, &indices[0], gl.UNIFORM_OFFSET, &offsets[0])
	gl.GetActiveUniformsiv(program, count, &indices[0], gl.UNIFORM_ARRAY_STRIDE, &strides[0])

	uniforms := make([]gpu.ActiveUniform, 0, count)
	buf := make([]uint8, maxLength+1)
	for i, index := range indices {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(program, index, maxLength, &length, &size, &xtype, &buf[0])
		name := string(buf[:length])

		u := gpu.ActiveUniform{
			Name:        name,
			Index:       index,
			Location:    -1,
			Type:        dataType(xtype),
			ArraySize:   size,
			BlockIndex:  blockIndices[i],
			Offset:      offsets[i],
			ArrayStride: strides[i],
		}
		if u.BlockIndex < 0 {
			u.Location = gl.GetUniformLocation(program, gl.Str(name+"\x00"))
			u.Offset = -1
			u.ArrayStride = 0
		}
		uniforms = append(uniforms, u)
	}
	return uniforms
}

func (d *device) ActiveUniformBlocks(program uint32) []gpu.ActiveUniformBlock {
	var count, maxLength int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_BLOCKS, &count)
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_BLOCK_MAX_NAME_LENGTH, &maxLength)

	blocks := make([]gpu.ActiveUniformBlock, 0, count)
	buf := make([]uint8, maxLength+1)
	for i := range uint32(count) {
		var length, size int32
		gl.GetActiveUniformBlockName(program, i, maxLength, &length, &buf[0])
		gl.GetActiveUniformBlockiv(program, i, gl.UNIFORM_BLOCK_DATA_SIZE, &size)
		blocks = append(blocks, gpu.ActiveUniformBlock{Name: string(buf[:length]), Index: i, DataSize: size})
	}
	return blocks
}

func (d *device) UniformBlockBinding(program uint32, blockIndex uint32, slot uint32) {
	gl.UniformBlockBinding(program, blockIndex, slot)
}

func (d *device) SetUniform(location int32, dt gpu.DataType, count int32, data []byte) {
	if location < 0 || len(data) == 0 {
		return
	}
	f := (*float32)(unsafe.Pointer(&data[0]))
	i := (*int32)(unsafe.Pointer(&data[0]))
	u := (*uint32)(unsafe.Pointer(&data[0]))

	switch dt {
	case gpu.DataTypeFloat:
		gl.Uniform1fv(location, count, f)
	case gpu.DataTypeVec2:
		gl.Uniform2fv(location, count, f)
	case gpu.DataTypeVec3:
		gl.Uniform3fv(location, count, f)
	case gpu.DataTypeVec4:
		gl.Uniform4fv(location, count, f)
	case gpu.DataTypeInt, gpu.DataTypeBool, gpu.DataTypeSampler2D, gpu.DataTypeSampler2DMS,
		gpu.DataTypeSamplerCube, gpu.DataTypeSampler2DShadow:
		gl.Uniform1iv(location, count, i)
	case gpu.DataTypeIVec2:
		gl.Uniform2iv(location, count, i)
	case gpu.DataTypeIVec3:
		gl.Uniform3iv(location, count, i)
	case gpu.DataTypeIVec4:
		gl.Uniform4iv(location, count, i)
	case gpu.DataTypeUint:
		gl.Uniform1uiv(location, count, u)
	case gpu.DataTypeUVec2:
		gl.Uniform2uiv(location, count, u)
	case gpu.DataTypeUVec3:
		gl.Uniform3uiv(location, count, u)
	case gpu.DataTypeUVec4:
		gl.Uniform4uiv(location, count, u)
	case gpu.DataTypeMat3:
		gl.UniformMatrix3fv(location, count, false, f)
	case gpu.DataTypeMat4:
		gl.UniformMatrix4fv(location, count, false, f)
	default:
		d.logger.Warn("unsupported uniform type", "location", location, "type", dt.String())
	}
	d.check("SetUniform")
}

var dataTypes = map[uint32]gpu.DataType{
	gl.FLOAT:                  gpu.DataTypeFloat,
	gl.FLOAT_VEC2:             gpu.DataTypeVec2,
	gl.FLOAT_VEC3:             gpu.DataTypeVec3,
	gl.FLOAT_VEC4:             gpu.DataTypeVec4,
	gl.INT:                    gpu.DataTypeInt,
	gl.INT_VEC2:               gpu.DataTypeIVec2,
	gl.INT_VEC3:               gpu.DataTypeIVec3,
	gl.INT_VEC4:               gpu.DataTypeIVec4,
	gl.UNSIGNED_INT:           gpu.DataTypeUint,
	gl.UNSIGNED_INT_VEC2:      gpu.DataTypeUVec2,
	gl.UNSIGNED_INT_VEC3:      gpu.DataTypeUVec3,
	gl.UNSIGNED_INT_VEC4:      gpu.DataTypeUVec4,
	gl.BOOL:                   gpu.DataTypeBool,
	gl.FLOAT_MAT3:             gpu.DataTypeMat3,
	gl.FLOAT_MAT4:             gpu.DataTypeMat4,
	gl.SAMPLER_2D:             gpu.DataTypeSampler2D,
	gl.SAMPLER_2D_MULTISAMPLE: gpu.DataTypeSampler2DMS,
	gl.SAMPLER_CUBE:           gpu.DataTypeSamplerCube,
	gl.SAMPLER_2D_SHADOW:      gpu.DataTypeSampler2DShadow,
}

func dataType(glType uint32) gpu.DataType {
	if t, ok := dataTypes[glType]; ok {
		return t
	}
	return gpu.DataTypeUnknown
}
