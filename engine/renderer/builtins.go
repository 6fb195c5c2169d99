package renderer

import (
	"fmt"
	"path"

	"github.com/Carmen-Shannon/oxy-render/engine/mesh"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/program"
	"github.com/go-gl/mathgl/mgl32"
)

// builtins holds the resources the renderer creates for its own passes.
type builtins struct {
	quad mesh.Mesh

	shadowWrite          program.Program
	shadowWriteInstanced program.Program

	msaaResolve         program.Program
	msaaResolveMaterial material.Material
	msaaResolveQuad     Renderable

	toneMapping         program.Program
	toneMappingMaterial material.Material
	toneMappingQuad     Renderable
}

func builtinShader(name string) string {
	return path.Join(BuiltinShaderDir, name)
}

func (r *renderer) createBuiltinQueues() {
	fullscreen := gpu.DefaultRenderState().Fullscreen()

	transparent := gpu.DefaultRenderState().AlphaBlended()
	transparent.SortingMode = gpu.SortingModeBackToFront

	skybox := gpu.DefaultRenderState()
	skybox.FaceCullingEnable = false
	skybox.DepthComparisonFunction = gpu.ComparisonFunctionLessOrEqual

	queues := map[QueueID]Queue{
		QueueGeometry:             {Name: "Geometry", Override: gpu.DefaultRenderState()},
		QueueTransparent:          {Name: "Transparent", Override: transparent},
		QueueSkybox:               {Name: "Skybox", Override: skybox},
		QueueBeforePostprocessing: {Name: "Before Postprocessing", Override: fullscreen},
		QueueMSAAResolve:          {Name: "MSAA Resolve", Override: fullscreen},
		QueuePostprocessingBloom:  {Name: "Postprocessing Bloom", Override: fullscreen, Target: r.framebuffers.postB},
		QueueFinal:                {Name: "Final", Override: fullscreen},
	}
	for id, q := range queues {
		r.queues[id] = newQueue(q)
	}
}

func (r *renderer) createBuiltinPasses() {
	identity := mgl32.Ident4()
	fullscreen := gpu.DefaultRenderState().Fullscreen()

	passes := map[PassID]Pass{
		PassShadowMapping: {
			Name:            "Shadow Mapping",
			Target:          r.framebuffers.shadowMap,
			Queues:          []QueueID{QueueGeometry},
			View:            &identity,
			Projection:      &identity,
			State:           gpu.DefaultRenderState(),
			ForbidOverrides: true,
			Clear:           true,
		},
		PassLighting: {
			Name:   "Lighting",
			Target: r.framebuffers.main,
			Queues: []QueueID{QueueGeometry, QueueTransparent, QueueSkybox},
			State:  gpu.DefaultRenderState(),
			Clear:  true,
		},
		PassMSAAResolve: {
			Name:   "MSAA Resolve",
			Target: r.framebuffers.postA,
			Queues: []QueueID{QueueMSAAResolve},
			State:  fullscreen,
		},
		PassPostprocessing: {
			Name:   "Postprocessing",
			Target: r.framebuffers.postB,
			Queues: []QueueID{QueuePostprocessingBloom},
			State:  fullscreen,
		},
		PassFinal: {
			Name:   "Final",
			Queues: []QueueID{QueueFinal},
			State:  fullscreen,
		},
	}
	for id, p := range passes {
		r.passes[id] = newPass(p)
	}
}

func (r *renderer) createBuiltinRenderables() error {
	b := &r.builtins
	var err error

	b.shadowWrite, err = r.CreateProgram("Shadow-map Write",
		program.WithVertexSource(builtinShader("shadow_write.vert")),
		program.WithFragmentSource(builtinShader("empty.frag")),
	)
	if err != nil {
		return fmt.Errorf("shadow-map write program: %w", err)
	}
	r.pinProgram(b.shadowWrite)

	b.shadowWriteInstanced, err = r.CreateProgram("Shadow-map Write (Instanced)",
		program.WithVertexSource(builtinShader("shadow_write.vert")),
		program.WithFragmentSource(builtinShader("empty.frag")),
		program.WithFeatures(map[string]string{"INSTANCING_ENABLED": ""}),
	)
	if err != nil {
		return fmt.Errorf("instanced shadow-map write program: %w", err)
	}
	r.pinProgram(b.shadowWriteInstanced)

	features := map[string]string{}
	if r.msaa > MSAAOff {
		features["MULTISAMPLED"] = ""
	}
	b.msaaResolve, err = r.CreateProgram("MSAA Resolve",
		program.WithVertexSource(builtinShader("fullscreen.vert")),
		program.WithFragmentSource(builtinShader("msaa_resolve.frag")),
		program.WithFeatures(features),
	)
	if err != nil {
		return fmt.Errorf("msaa resolve program: %w", err)
	}

	b.toneMapping, err = r.CreateProgram("Tone Mapping",
		program.WithVertexSource(builtinShader("fullscreen.vert")),
		program.WithFragmentSource(builtinShader("tone_mapping.frag")),
	)
	if err != nil {
		return fmt.Errorf("tone mapping program: %w", err)
	}

	b.quad, err = mesh.NewMesh("fullscreen quad", r.device, mesh.FullscreenQuad()...)
	if err != nil {
		return err
	}

	b.msaaResolveMaterial = r.CreateMaterial("MSAA Resolve",
		material.WithProgram(b.msaaResolve),
		material.WithConstant("uniform_sample_count", int32(r.msaa)),
		material.WithTexture("uniform_tex", r.framebuffers.main.ColorAttachment()),
	)
	b.msaaResolveQuad = NewRenderable(b.quad, b.msaaResolveMaterial, WithShadows(false, false))
	if err := r.addRenderable(b.msaaResolveQuad, QueueMSAAResolve); err != nil {
		return err
	}

	b.toneMappingMaterial = r.CreateMaterial("Tone Mapping",
		material.WithProgram(b.toneMapping),
		material.WithConstant("uniform_exposure", float32(1)),
	)
	b.toneMappingQuad = NewRenderable(b.quad, b.toneMappingMaterial, WithShadows(false, false))
	return r.addRenderable(b.toneMappingQuad, QueueFinal)
}

// destroyBuiltins removes the built-in renderables and deletes the built-in resources.
func (r *renderer) destroyBuiltins() {
	b := &r.builtins
	for _, rn := range []Renderable{b.msaaResolveQuad, b.toneMappingQuad} {
		if rn != nil {
			r.removeRenderable(rn)
		}
	}
	for _, p := range []program.Program{b.shadowWrite, b.shadowWriteInstanced} {
		if p != nil {
			r.unpinProgram(p)
		}
	}
	for _, m := range []material.Material{b.msaaResolveMaterial, b.toneMappingMaterial} {
		if m != nil {
			m.Destroy()
		}
	}
	for _, p := range []program.Program{b.shadowWrite, b.shadowWriteInstanced, b.msaaResolve, b.toneMapping} {
		if p != nil {
			p.Destroy()
		}
	}
	if b.quad != nil {
		b.quad.Destroy()
	}
	r.builtins = builtins{}
}
