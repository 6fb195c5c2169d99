package renderer

import (
	"fmt"
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/constant_buffer"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/program"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/uniform"
)

const (
	// shadowSampler is the sampler shadow receiving materials read the shadow map from.
	shadowSampler = "uniform_tex_shadow"

	// worldTransformConstant receives the transform of every non-instanced renderable.
	worldTransformConstant = "uniform_transform_world"
)

func (r *renderer) AddRenderable(rn Renderable, queue QueueID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addRenderable(rn, queue)
}

func (r *renderer) addRenderable(rn Renderable, queue QueueID) error {
	q, ok := r.queues[queue]
	if !ok {
		return r.misuse(fmt.Errorf("%w: %d", ErrUnknownQueue, queue))
	}
	if q.contains(rn) {
		return fmt.Errorf("%w: renderable with material %q in queue %s", ErrDuplicate, rn.Material().Name(), q.Name)
	}
	mat := rn.Material()
	p := mat.Program()
	if p == nil {
		return fmt.Errorf("material %q has no program", mat.Name())
	}

	q.renderables = append(q.renderables, rn)
	r.acquireProgram(q, p, 1)
	q.acquireMaterial(mat)
	mat.Observe(r)

	r.checkLayout(rn, p)
	if rn.ReceivesShadows() {
		mat.SetTexture(shadowSampler, r.framebuffers.shadowMap.DepthAttachment())
	}
	return nil
}

func (r *renderer) RemoveRenderable(rn Renderable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeRenderable(rn)
}

func (r *renderer) removeRenderable(rn Renderable) {
	mat := rn.Material()
	for _, id := range slices.Sorted(maps.Keys(r.queues)) {
		q := r.queues[id]
		i := slices.Index(q.renderables, rn)
		if i < 0 {
			continue
		}
		q.renderables = slices.Delete(q.renderables, i, i+1)
		if p := mat.Program(); p != nil {
			r.releaseProgram(q, p, 1)
		}
		q.releaseMaterial(mat)
	}

	if !r.materialInFlight(mat.Name()) {
		mat.Unobserve(r)
	}
}

func (r *renderer) materialInFlight(name string) bool {
	for _, q := range r.queues {
		if _, ok := q.materials[name]; ok {
			return true
		}
	}
	return false
}

func (r *renderer) OnShaderReassign(old program.Program, materialName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range slices.Sorted(maps.Keys(r.queues)) {
		q := r.queues[id]
		mat, ok := q.materials[materialName]
		if !ok {
			continue
		}
		fresh := mat.Program()
		if fresh == old {
			continue
		}

		var users []Renderable
		for _, rn := range q.renderables {
			if rn.Material().Name() == materialName {
				users = append(users, rn)
			}
		}
		if len(users) == 0 {
			continue
		}

		// Acquire first so blocks shared by both programs keep their buffers.
		if fresh != nil {
			r.acquireProgram(q, fresh, len(users))
		}
		if old != nil {
			r.releaseProgram(q, old, len(users))
		}

		if fresh != nil {
			for _, rn := range users {
				r.checkLayout(rn, fresh)
			}
		}
		r.logger.Debug("material switched program", "material", materialName, "queue", q.Name, "program", programName(fresh))
	}
}

func (r *renderer) checkLayout(rn Renderable, p program.Program) {
	if !p.IsValid() {
		return
	}
	if !rn.Mesh().IsCompatibleWith(p.SourceVertexLayout()) {
		r.logger.Warn("mesh vertex layout is incompatible with program",
			"mesh", rn.Mesh().Name(), "material", rn.Material().Name(), "program", p.Name())
	}
}

// acquireProgram adds queue references to a program and registers it with the renderer when the
// queue starts drawing it.
func (r *renderer) acquireProgram(q *Queue, p program.Program, refs int) {
	if q.acquireProgram(p, refs) {
		r.pinProgram(p)
	}
}

// releaseProgram is the inverse of acquireProgram.
func (r *renderer) releaseProgram(q *Queue, p program.Program, refs int) {
	if q.releaseProgram(p, refs) {
		r.unpinProgram(p)
	}
}

func (r *renderer) pinProgram(p program.Program) {
	r.programs[p]++
	if r.programs[p] == 1 {
		r.registerProgram(p)
	}
}

func (r *renderer) unpinProgram(p program.Program) {
	n, ok := r.programs[p]
	if !ok {
		return
	}
	if n > 1 {
		r.programs[p] = n - 1
		return
	}
	delete(r.programs, p)
	r.unregisterProgram(p)
}

// registerProgram creates the Intrinsic and Global buffers of a program and watches its files.
func (r *renderer) registerProgram(p program.Program) {
	r.registerBlocks(p)
	r.watchProgram(p)
	r.logger.Debug("program registered", "program", p.Name(), "handle", p.Handle())
}

func (r *renderer) registerBlocks(p program.Program) {
	if !p.IsValid() {
		return
	}
	for _, category := range []uniform.Category{uniform.CategoryIntrinsic, uniform.CategoryGlobal} {
		store := r.store(category)
		for _, block := range p.Blocks(category) {
			if existing, ok := store.Block(block.Name); ok && existing.Size != block.Size {
				r.logger.Warn("constant block changed size, recreating its buffer",
					"block", block.Name, "old_size", existing.Size, "new_size", block.Size, "program", p.Name())
				store.Release(block.Name)
			}
			created := !store.Has(block.Name)
			if _, err := store.CreateOrGet(block); err != nil {
				r.logger.Error("constant buffer cannot be created", "block", block.Name, "program", p.Name(), "error", err)
				continue
			}
			if created && category == uniform.CategoryIntrinsic {
				r.initIntrinsicBlock(block.Name)
			}
		}
	}
}

func (r *renderer) unregisterProgram(p program.Program) {
	r.releaseUnusedBlocks(blockNames(p))
	r.logger.Debug("program unregistered", "program", p.Name())
}

// releaseUnusedBlocks deletes the buffers of blocks no registered program declares anymore.
func (r *renderer) releaseUnusedBlocks(names []string) {
	for _, name := range names {
		used := false
		for p := range r.programs {
			if _, ok := p.Block(name); ok {
				used = true
				break
			}
		}
		if used {
			continue
		}
		if r.store(uniform.CategoryOf(name)).Release(name) {
			r.logger.Debug("constant buffer released", "block", name)
		}
	}
}

func (r *renderer) store(category uniform.Category) constant_buffer.Store {
	if category == uniform.CategoryIntrinsic {
		return r.intrinsics
	}
	return r.globals
}

func (r *renderer) watchProgram(p program.Program) {
	if r.hotReload != HotReloadFSNotify || r.watcher == nil {
		return
	}
	files := slices.DeleteFunc(p.Files(), isBuiltinShader)
	if len(files) == 0 {
		return
	}
	if err := r.watcher.Watch(files...); err != nil {
		r.logger.Warn("shader files cannot be watched", "program", p.Name(), "error", err)
	}
}

// blockNames returns the Intrinsic and Global blocks of a program. Regular blocks belong to materials.
func blockNames(p program.Program) []string {
	var names []string
	for _, category := range []uniform.Category{uniform.CategoryIntrinsic, uniform.CategoryGlobal} {
		for _, block := range p.Blocks(category) {
			names = append(names, block.Name)
		}
	}
	return names
}

func programName(p program.Program) string {
	if p == nil {
		return ""
	}
	return p.Name()
}
