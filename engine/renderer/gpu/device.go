// Package gpu defines the GPU collaborator the renderer drives: a Device interface over a
// graphics API together with the enums, descriptors and reflection records it exchanges.
package gpu

import "github.com/go-gl/mathgl/mgl32"

// InfoLogError carries the raw driver info log of a failed compile or link.
type InfoLogError struct {
	Log string
}

func (e *InfoLogError) Error() string {
	return e.Log
}

// Device is the GPU API the renderer is written against.
// All methods must be called from the thread that owns the graphics context.
type Device interface {
	// DriverInfo returns the identification strings of the driver.
	//
	// Returns:
	//   - DriverInfo: vendor, renderer and version strings
	DriverInfo() DriverInfo

	// MaxUniformBufferBindings returns the number of constant buffer binding slots supported.
	//
	// Returns:
	//   - int: the total slot budget
	MaxUniformBufferBindings() int

	// CompileShader compiles a single shader stage.
	//
	// Parameters:
	//   - stage: the stage to compile
	//   - source: the full, preprocessed source text
	//
	// Returns:
	//   - uint32: the shader handle, 0 on failure
	//   - error: an *InfoLogError with the driver log on failure
	CompileShader(stage ShaderStage, source string) (uint32, error)

	// LinkProgram links compiled shaders into a program. The shaders may be deleted afterwards.
	//
	// Parameters:
	//   - shaders: the compiled stage handles
	//
	// Returns:
	//   - uint32: the program handle, 0 on failure
	//   - error: an *InfoLogError with the driver log on failure
	LinkProgram(shaders []uint32) (uint32, error)

	// DeleteShader releases a shader stage handle.
	DeleteShader(shader uint32)

	// DeleteProgram releases a program handle.
	DeleteProgram(program uint32)

	// UseProgram makes the program current for subsequent constant updates and draws.
	UseProgram(program uint32)

	// ActiveAttributes returns the vertex attributes the linker kept.
	//
	// Parameters:
	//   - program: the linked program
	//
	// Returns:
	//   - []ActiveAttribute: the active attributes
	ActiveAttributes(program uint32) []ActiveAttribute

	// ActiveUniforms returns every active constant, default block and block members alike.
	// Block members carry their block index and byte offset.
	//
	// Parameters:
	//   - program: the linked program
	//
	// Returns:
	//   - []ActiveUniform: the active constants
	ActiveUniforms(program uint32) []ActiveUniform

	// ActiveUniformBlocks returns every active constant block.
	//
	// Parameters:
	//   - program: the linked program
	//
	// Returns:
	//   - []ActiveUniformBlock: the active blocks with their data sizes
	ActiveUniformBlocks(program uint32) []ActiveUniformBlock

	// UniformBlockBinding binds a block of a program to a binding slot.
	//
	// Parameters:
	//   - program: the linked program
	//   - blockIndex: the block index inside the program
	//   - slot: the binding slot
	UniformBlockBinding(program uint32, blockIndex uint32, slot uint32)

	// SetUniform uploads a default block constant of the current program.
	//
	// Parameters:
	//   - location: the constant location
	//   - dataType: the type of one element
	//   - count: the number of array elements
	//   - data: tightly packed little endian data
	SetUniform(location int32, dataType DataType, count int32, data []byte)

	// CreateUniformBuffer allocates a constant buffer.
	//
	// Parameters:
	//   - size: the size in bytes
	//
	// Returns:
	//   - uint32: the buffer handle
	CreateUniformBuffer(size int) uint32

	// UpdateUniformBuffer writes data into a constant buffer.
	//
	// Parameters:
	//   - buffer: the buffer handle
	//   - offset: the byte offset to write at
	//   - data: the bytes to write
	UpdateUniformBuffer(buffer uint32, offset int, data []byte)

	// BindUniformBuffer connects a constant buffer to a binding slot.
	BindUniformBuffer(buffer uint32, slot uint32)

	// DeleteBuffer releases a buffer handle.
	DeleteBuffer(buffer uint32)

	// CreateMesh uploads vertex, index and instance data and records the attribute setup.
	//
	// Parameters:
	//   - desc: the data and layouts to upload
	//
	// Returns:
	//   - MeshBuffers: the created GPU objects
	//   - error: error if the layout is invalid
	CreateMesh(desc MeshDescriptor) (MeshBuffers, error)

	// UpdateInstances replaces the instance data of a mesh.
	UpdateInstances(buffers MeshBuffers, data []byte)

	// DeleteMesh releases the GPU objects of a mesh.
	DeleteMesh(buffers MeshBuffers)

	// BindVertexArray makes the vertex array current.
	BindVertexArray(vertexArray uint32)

	// Draw issues a draw call with the current program and vertex array.
	Draw(call DrawCall)

	// CreateTexture creates a texture, optionally uploading initial pixels.
	//
	// Parameters:
	//   - desc: the texture description
	//
	// Returns:
	//   - Texture: the created texture
	//   - error: error if the description is invalid
	CreateTexture(desc TextureDescriptor) (Texture, error)

	// DeleteTexture releases a texture.
	DeleteTexture(texture Texture)

	// BindTexture binds a texture to a texture unit.
	BindTexture(unit uint32, texture Texture)

	// CreateFramebuffer creates a framebuffer and its attachments.
	//
	// Parameters:
	//   - desc: the framebuffer description
	//
	// Returns:
	//   - FramebufferAttachments: the framebuffer and attachment handles
	//   - error: error if the framebuffer is incomplete
	CreateFramebuffer(desc FramebufferDescriptor) (FramebufferAttachments, error)

	// DeleteFramebuffer releases a framebuffer and its attachments.
	DeleteFramebuffer(attachments FramebufferAttachments)

	// BindFramebuffer binds a framebuffer for drawing. Handle 0 is the default framebuffer.
	BindFramebuffer(framebuffer uint32)

	// SetViewport sets the viewport rectangle starting at the origin.
	SetViewport(width, height int)

	// Clear clears the selected buffers of the bound framebuffer.
	//
	// Parameters:
	//   - color: the clear color
	//   - clearColor, clearDepth, clearStencil: which buffers to clear
	Clear(color mgl32.Vec4, clearColor, clearDepth, clearStencil bool)

	// SetDepthWrite toggles writes to the depth buffer.
	SetDepthWrite(enabled bool)

	// SetStencilWriteMask sets the bit mask applied to stencil writes.
	SetStencilWriteMask(mask uint32)

	// SetSRGB toggles linear to sRGB conversion on writes to sRGB attachments.
	SetSRGB(enabled bool)

	// SetCulling configures face culling.
	SetCulling(enabled bool, face Face, frontFace WindingOrder)

	// SetDepthTest configures the depth test.
	SetDepthTest(enabled bool, function ComparisonFunction)

	// SetStencilTest configures the stencil test.
	SetStencilTest(enabled bool, state StencilState)

	// SetBlending configures blending.
	SetBlending(enabled bool, state BlendState)
}
