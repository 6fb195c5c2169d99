// Package binding assigns constant blocks to binding slots from a fixed, partitioned budget.
package binding

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/uniform"
)

var (
	// ErrPartitionExhausted is the panic value cause when a category has no free slot left.
	ErrPartitionExhausted = errors.New("binding partition exhausted")

	// ErrUnregisteredBlock is returned when a buffer is connected to a block that has no slot.
	ErrUnregisteredBlock = errors.New("block is not registered")
)

// Default partition sizes. The Regular partition takes whatever the device offers beyond these.
const (
	DefaultIntrinsicSlots = 4
	DefaultGlobalSlots    = 4
)

type partition struct {
	first    uint32
	capacity uint32
	slots    map[string]uint32
}

type registry struct {
	mu         sync.Mutex
	device     gpu.Device
	partitions map[uniform.Category]*partition
}

// Registry hands out binding slots for constant blocks. A name keeps its slot for the lifetime
// of the registry and two programs declaring the same block always share a slot.
type Registry interface {
	// Register returns the slot of a block, assigning the next free slot of its category on first
	// use, and binds the program's block index to that slot. Calling it again for the same name
	// re-binds and returns the same slot. It panics with ErrPartitionExhausted when the category
	// has no free slot left, since the renderer cannot represent the required state.
	//
	// Parameters:
	//   - program: the program handle owning the block
	//   - block: the reflected block, its Slot field is updated
	//
	// Returns:
	//   - uint32: the slot assigned to the block name
	Register(program uint32, block *uniform.Block) uint32

	// Slot looks up the slot of a registered block name.
	//
	// Parameters:
	//   - category: the block category
	//   - name: the block name
	//
	// Returns:
	//   - uint32: the slot
	//   - bool: false if the name was never registered
	Slot(category uniform.Category, name string) (uint32, bool)

	// ConnectBuffer binds a constant buffer to the slot of a registered block.
	//
	// Parameters:
	//   - buffer: the buffer handle
	//   - category: the block category
	//   - name: the block name
	//
	// Returns:
	//   - error: ErrUnregisteredBlock if the name has no slot
	ConnectBuffer(buffer uint32, category uniform.Category, name string) error

	// Capacity returns the number of slots a category owns.
	Capacity(category uniform.Category) int

	// Len returns the number of slots a category has handed out.
	Len(category uniform.Category) int

	// Range returns the first slot and the slot count of a category.
	Range(category uniform.Category) (uint32, uint32)
}

var _ Registry = &registry{}

// NewRegistry creates a registry over the device's binding budget.
// The budget is split into Intrinsic [0, i), Global [i, i+g) and Regular [i+g, max).
//
// Parameters:
//   - device: the device used to query the budget and bind block indices
//   - options: optional partition sizes
//
// Returns:
//   - Registry: the new registry
//   - error: error if the partitions do not fit the device budget
func NewRegistry(device gpu.Device, options ...RegistryBuilderOption) (Registry, error) {
	cfg := &registryConfig{intrinsic: DefaultIntrinsicSlots, global: DefaultGlobalSlots}
	for _, opt := range options {
		opt(cfg)
	}

	total := device.MaxUniformBufferBindings()
	regular := total - cfg.intrinsic - cfg.global
	if cfg.intrinsic <= 0 || cfg.global <= 0 || regular <= 0 {
		return nil, fmt.Errorf("binding budget of %d slots cannot hold %d intrinsic and %d global slots", total, cfg.intrinsic, cfg.global)
	}

	r := &registry{
		device: device,
		partitions: map[uniform.Category]*partition{
			uniform.CategoryIntrinsic: {first: 0, capacity: uint32(cfg.intrinsic), slots: map[string]uint32{}},
			uniform.CategoryGlobal:    {first: uint32(cfg.intrinsic), capacity: uint32(cfg.global), slots: map[string]uint32{}},
			uniform.CategoryRegular:   {first: uint32(cfg.intrinsic + cfg.global), capacity: uint32(regular), slots: map[string]uint32{}},
		},
	}
	return r, nil
}

func (r *registry) Register(program uint32, block *uniform.Block) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.partitions[block.Category]
	slot, ok := p.slots[block.Name]
	if !ok {
		if uint32(len(p.slots)) >= p.capacity {
			panic(fmt.Errorf("%w: %s category holds %d blocks, cannot register %q", ErrPartitionExhausted, block.Category, p.capacity, block.Name))
		}
		slot = p.first + uint32(len(p.slots))
		p.slots[block.Name] = slot
	}

	block.Slot = int32(slot)
	r.device.UniformBlockBinding(program, block.Index, slot)
	return slot
}

func (r *registry) Slot(category uniform.Category, name string) (uint32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.partitions[category].slots[name]
	return slot, ok
}

func (r *registry) ConnectBuffer(buffer uint32, category uniform.Category, name string) error {
	slot, ok := r.Slot(category, name)
	if !ok {
		return fmt.Errorf("%w: %s block %q", ErrUnregisteredBlock, category, name)
	}
	r.device.BindUniformBuffer(buffer, slot)
	return nil
}

func (r *registry) Capacity(category uniform.Category) int {
	return int(r.partitions[category].capacity)
}

func (r *registry) Len(category uniform.Category) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.partitions[category].slots)
}

func (r *registry) Range(category uniform.Category) (uint32, uint32) {
	p := r.partitions[category]
	return p.first, p.capacity
}
