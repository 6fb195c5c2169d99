package opengl

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/go-gl/gl/v4.1-core/gl"
)

func (d *device) CreateUniformBuffer(size int) uint32 {
	var buffer uint32
	gl.GenBuffers(1, &buffer)
	gl.BindBuffer(gl.UNIFORM_BUFFER, buffer)
	gl.BufferData(gl.UNIFORM_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	d.check("CreateUniformBuffer")
	return buffer
}

func (d *device) UpdateUniformBuffer(buffer uint32, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, buffer)
	gl.BufferSubData(gl.UNIFORM_BUFFER, offset, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	d.check("UpdateUniformBuffer")
}

func (d *device) BindUniformBuffer(buffer uint32, slot uint32) {
	gl.BindBufferBase(gl.UNIFORM_BUFFER, slot, buffer)
}

func (d *device) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (d *device) CreateMesh(desc gpu.MeshDescriptor) (gpu.MeshBuffers, error) {
	if len(desc.Vertices) == 0 {
		return gpu.MeshBuffers{}, errors.New("mesh has no vertex data")
	}
	stride := desc.Layout.Stride()
	if stride == 0 {
		return gpu.MeshBuffers{}, errors.New("mesh vertex layout has no attributes")
	}

	var b gpu.MeshBuffers
	gl.GenVertexArrays(1, &b.VertexArray)
	gl.BindVertexArray(b.VertexArray)

	gl.GenBuffers(1, &b.VertexBuffer)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.VertexBuffer)
	gl.BufferData(gl.ARRAY_BUFFER, len(desc.Vertices), gl.Ptr(desc.Vertices), gl.STATIC_DRAW)
	setAttributes(desc.Layout.Attributes, stride, false)

	if len(desc.Instances) > 0 {
		instanceStride := 0
		for _, a := range desc.InstanceLayout.Attributes {
			instanceStride += a.Size()
		}
		if instanceStride == 0 {
			d.DeleteMesh(b)
			return gpu.MeshBuffers{}, errors.New("mesh instance layout has no attributes")
		}
		gl.GenBuffers(1, &b.InstanceBuffer)
		gl.BindBuffer(gl.ARRAY_BUFFER, b.InstanceBuffer)
		gl.BufferData(gl.ARRAY_BUFFER, len(desc.Instances), gl.Ptr(desc.Instances), gl.DYNAMIC_DRAW)
		setAttributes(desc.InstanceLayout.Attributes, instanceStride, true)
	}

	if desc.IndexType != gpu.IndexTypeNone {
		if len(desc.Indices) == 0 {
			d.DeleteMesh(b)
			return gpu.MeshBuffers{}, fmt.Errorf("mesh declares %d byte indices without index data", desc.IndexType.Size())
		}
		gl.GenBuffers(1, &b.IndexBuffer)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.IndexBuffer)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(desc.Indices), gl.Ptr(desc.Indices), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	d.check("CreateMesh")
	return b, nil
}

// setAttributes describes the attributes of the bound array buffer to the bound vertex array.
// Attributes are packed in layout order. Per-instance attributes only live in the instance buffer.
func setAttributes(attributes []gpu.VertexAttribute, stride int, instanced bool) {
	offset := 0
	for _, a := range attributes {
		if a.Instanced && !instanced {
			continue
		}
		gl.EnableVertexAttribArray(a.Location)
		switch a.Component {
		case gpu.ComponentTypeInt:
			gl.VertexAttribIPointerWithOffset(a.Location, int32(a.Count), gl.INT, int32(stride), uintptr(offset))
		case gpu.ComponentTypeUint:
			gl.VertexAttribIPointerWithOffset(a.Location, int32(a.Count), gl.UNSIGNED_INT, int32(stride), uintptr(offset))
		default:
			gl.VertexAttribPointerWithOffset(a.Location, int32(a.Count), gl.FLOAT, false, int32(stride), uintptr(offset))
		}
		if instanced {
			gl.VertexAttribDivisor(a.Location, 1)
		}
		offset += a.Size()
	}
}

func (d *device) UpdateInstances(buffers gpu.MeshBuffers, data []byte) {
	if buffers.InstanceBuffer == 0 || len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, buffers.InstanceBuffer)
	gl.BufferData(gl.ARRAY_BUFFER, len(data), gl.Ptr(data), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	d.check("UpdateInstances")
}

func (d *device) DeleteMesh(buffers gpu.MeshBuffers) {
	for _, b := range []uint32{buffers.VertexBuffer, buffers.IndexBuffer, buffers.InstanceBuffer} {
		if b != 0 {
			gl.DeleteBuffers(1, &b)
		}
	}
	if buffers.VertexArray != 0 {
		gl.DeleteVertexArrays(1, &buffers.VertexArray)
	}
}

func (d *device) BindVertexArray(vertexArray uint32) {
	gl.BindVertexArray(vertexArray)
}

var primitives = map[gpu.Primitive]uint32{
	gpu.PrimitiveTriangles:     gl.TRIANGLES,
	gpu.PrimitiveTriangleStrip: gl.TRIANGLE_STRIP,
	gpu.PrimitiveLines:         gl.LINES,
	gpu.PrimitiveLineStrip:     gl.LINE_STRIP,
	gpu.PrimitivePoints:        gl.POINTS,
}

func indexType(t gpu.IndexType) uint32 {
	if t == gpu.IndexTypeUint16 {
		return gl.UNSIGNED_SHORT
	}
	return gl.UNSIGNED_INT
}

func (d *device) Draw(call gpu.DrawCall) {
	mode := primitives[call.Primitive]
	switch call.Shape() {
	case gpu.DrawShapeArrays:
		gl.DrawArrays(mode, 0, call.Count)
	case gpu.DrawShapeElements:
		gl.DrawElements(mode, call.Count, indexType(call.IndexType), gl.PtrOffset(0))
	case gpu.DrawShapeArraysInstanced:
		gl.DrawArraysInstanced(mode, 0, call.Count, call.InstanceCount)
	case gpu.DrawShapeElementsInstanced:
		gl.DrawElementsInstanced(mode, call.Count, indexType(call.IndexType), gl.PtrOffset(0), call.InstanceCount)
	}
	d.check("Draw")
}
