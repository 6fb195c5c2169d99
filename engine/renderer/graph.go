package renderer

import (
	"fmt"
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-render/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraSource provides the matrices and projection parameters a pass renders with.
// camera.Camera satisfies it.
type CameraSource interface {
	View() mgl32.Mat4
	Projection() mgl32.Mat4
	Parameters() camera.Parameters
}

func (r *renderer) AddPass(id PassID, pass Pass) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.passes[id]; ok {
		return r.misuse(fmt.Errorf("%w: pass %d", ErrDuplicate, id))
	}
	for _, q := range pass.Queues {
		if _, ok := r.queues[q]; !ok {
			return r.misuse(fmt.Errorf("%w: %d used by pass %d", ErrUnknownQueue, q, id))
		}
	}
	r.passes[id] = newPass(pass)
	return nil
}

func (r *renderer) RemovePass(id PassID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(builtinPasses, id) {
		return r.misuse(fmt.Errorf("%w: pass %d", ErrBuiltin, id))
	}
	if _, ok := r.passes[id]; !ok {
		return r.misuse(fmt.Errorf("%w: %d", ErrUnknownPass, id))
	}
	delete(r.passes, id)
	return nil
}

func (r *renderer) TogglePass(id PassID, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.passes[id]
	if !ok {
		return r.misuse(fmt.Errorf("%w: %d", ErrUnknownPass, id))
	}
	p.enabled = enabled
	return nil
}

func (r *renderer) Pass(id PassID) *Pass {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.passes[id]
}

func (r *renderer) PassIDs() []PassID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.passes))
}

func (r *renderer) AddQueue(id QueueID, queue Queue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.queues[id]; ok {
		return r.misuse(fmt.Errorf("%w: queue %d", ErrDuplicate, id))
	}
	r.queues[id] = newQueue(queue)
	return nil
}

func (r *renderer) RemoveQueue(id QueueID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(builtinQueues, id) {
		return r.misuse(fmt.Errorf("%w: queue %d", ErrBuiltin, id))
	}
	q, ok := r.queues[id]
	if !ok {
		return r.misuse(fmt.Errorf("%w: %d", ErrUnknownQueue, id))
	}
	if len(q.renderables) > 0 {
		return r.misuse(fmt.Errorf("queue %d still holds %d renderables", id, len(q.renderables)))
	}
	for _, p := range r.passes {
		p.removeQueue(id)
	}
	delete(r.queues, id)
	return nil
}

func (r *renderer) ToggleQueue(id QueueID, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.queues[id]
	if !ok {
		return r.misuse(fmt.Errorf("%w: %d", ErrUnknownQueue, id))
	}
	q.enabled = enabled
	return nil
}

func (r *renderer) Queue(id QueueID) *Queue {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queues[id]
}

func (r *renderer) AddQueueToPass(queue QueueID, pass PassID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.passAndQueue(queue, pass)
	if err != nil {
		return err
	}
	p.addQueue(queue)
	return nil
}

func (r *renderer) RemoveQueueFromPass(queue QueueID, pass PassID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.passAndQueue(queue, pass)
	if err != nil {
		return err
	}
	p.removeQueue(queue)
	return nil
}

func (r *renderer) passAndQueue(queue QueueID, pass PassID) (*Pass, error) {
	p, ok := r.passes[pass]
	if !ok {
		return nil, r.misuse(fmt.Errorf("%w: %d", ErrUnknownPass, pass))
	}
	if _, ok := r.queues[queue]; !ok {
		return nil, r.misuse(fmt.Errorf("%w: %d", ErrUnknownQueue, queue))
	}
	return p, nil
}

func (r *renderer) UpdatePerPass(id PassID, cam CameraSource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.passes[id]
	if !ok {
		return r.misuse(fmt.Errorf("%w: %d", ErrUnknownPass, id))
	}
	view, projection := cam.View(), cam.Projection()
	p.View = &view
	p.Projection = &projection
	p.Camera = cam.Parameters()
	return nil
}

// misuse logs a pass or queue id error. The caller gets it back but the frame carries on.
func (r *renderer) misuse(err error) error {
	r.logger.Error("render graph misuse", "error", err)
	return err
}
