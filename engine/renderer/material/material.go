package material

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/binding"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/constant_buffer"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/program"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/uniform"
)

// ProgramObserver is notified when a material switches to another program.
type ProgramObserver interface {
	// OnShaderReassign is called after the material's program changed.
	//
	// Parameters:
	//   - old: the program the material used before
	//   - materialName: the name of the material
	OnShaderReassign(old program.Program, materialName string)
}

// TextureSlot is a sampler constant together with the texture bound to it.
type TextureSlot struct {
	Sampler string
	Texture gpu.Texture
}

// blockWrite is a recorded write into a Regular block, replayed whenever the block buffers are rebuilt.
type blockWrite struct {
	block  string
	member string
	index  int
	kind   writeKind
	value  any
}

type writeKind int

const (
	writeSingle writeKind = iota
	writeArrayElement
	writeStruct
)

func (w blockWrite) key() string {
	if w.kind == writeArrayElement {
		return fmt.Sprintf("%s/%s[%d]", w.block, w.member, w.index)
	}
	return w.block + "/" + w.member
}

// material is the implementation of the Material interface.
type material struct {
	name     string
	device   gpu.Device
	registry binding.Registry
	logger   *slog.Logger
	program  program.Program

	constants map[string]any
	writes    map[string]blockWrite
	order     []string
	textures  map[string]gpu.Texture

	store      constant_buffer.Store
	storeOwner uint32

	observers []ProgramObserver
}

// Material defines the surface description a renderable is drawn with: a program, the values of
// its default block constants, the contents of its Regular constant blocks, and its textures.
//
// Regular blocks are per material. Each material owns its own buffers for them and connects
// them to the shared Regular slots right before its draws. Values are recorded so they survive a
// program hot reload or reassignment.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Program returns the program the material draws with.
	//
	// Returns:
	//   - program.Program: the program, may be nil
	Program() program.Program

	// SetProgram switches the material to another program and notifies every observer.
	//
	// Parameters:
	//   - p: the new program
	SetProgram(p program.Program)

	// Observe registers an observer notified on program changes. Registering twice has no effect.
	//
	// Parameters:
	//   - observer: the observer to notify
	Observe(observer ProgramObserver)

	// Unobserve removes an observer.
	//
	// Parameters:
	//   - observer: the observer to remove
	Unobserve(observer ProgramObserver)

	// Constant returns the recorded value of a default block constant.
	//
	// Parameters:
	//   - name: the constant name
	//
	// Returns:
	//   - any: the value
	//   - bool: false if the constant was never set
	Constant(name string) (any, bool)

	// SetConstant records a default block constant, applied when the material is bound.
	// Names the program does not declare are logged at Warn when applied and otherwise ignored.
	//
	// Parameters:
	//   - name: the constant name
	//   - value: the value, see uniform.EncodeTight for supported types
	SetConstant(name string, value any)

	// SetBlockValue writes a scalar, vector or matrix member of a Regular block.
	//
	// Parameters:
	//   - block: the block name
	//   - member: the member name, with or without the block prefix
	//   - value: the value
	//
	// Returns:
	//   - error: an error if the member does not exist in the current program
	SetBlockValue(block, member string, value any) error

	// SetBlockArrayElement writes one element of an array member of a Regular block.
	//
	// Parameters:
	//   - block: the block name
	//   - array: the array member name
	//   - index: the element index
	//   - value: the element value
	//
	// Returns:
	//   - error: an error if the element does not exist in the current program
	SetBlockArrayElement(block, array string, index int, value any) error

	// SetBlockStruct writes a struct member of a Regular block as a whole.
	//
	// Parameters:
	//   - block: the block name
	//   - structName: the struct member name
	//   - value: the struct value
	//
	// Returns:
	//   - error: an error if the struct does not exist in the current program
	SetBlockStruct(block, structName string, value any) error

	// SetTexture binds a texture to a sampler constant.
	//
	// Parameters:
	//   - sampler: the sampler constant name
	//   - texture: the texture
	SetTexture(sampler string, texture gpu.Texture)

	// Textures returns the texture slots sorted by sampler name. Slot i uses texture unit i.
	Textures() []TextureSlot

	// Bind uploads the Regular blocks and connects them to their slots, applies the default block
	// constants and binds the textures. The program must already be bound.
	Bind()

	// Destroy releases the Regular block buffers.
	Destroy()
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - name: the identifier of the material
//   - device: the device owning the material's buffers
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(name string, device gpu.Device, options ...MaterialBuilderOption) Material {
	m := &material{
		name:      name,
		device:    device,
		logger:    slog.Default(),
		constants: map[string]any{},
		writes:    map[string]blockWrite{},
		textures:  map[string]gpu.Texture{},
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Program() program.Program {
	return m.program
}

func (m *material) SetProgram(p program.Program) {
	if p == m.program {
		return
	}
	old := m.program
	m.program = p
	m.releaseStore()
	for _, o := range slices.Clone(m.observers) {
		o.OnShaderReassign(old, m.name)
	}
}

func (m *material) Observe(observer ProgramObserver) {
	if slices.Contains(m.observers, observer) {
		return
	}
	m.observers = append(m.observers, observer)
}

func (m *material) Unobserve(observer ProgramObserver) {
	m.observers = slices.DeleteFunc(m.observers, func(o ProgramObserver) bool { return o == observer })
}

func (m *material) Constant(name string) (any, bool) {
	v, ok := m.constants[name]
	return v, ok
}

func (m *material) SetConstant(name string, value any) {
	m.constants[name] = value
}

func (m *material) SetBlockValue(block, member string, value any) error {
	return m.record(blockWrite{block: block, member: member, kind: writeSingle, value: value})
}

func (m *material) SetBlockArrayElement(block, array string, index int, value any) error {
	return m.record(blockWrite{block: block, member: array, index: index, kind: writeArrayElement, value: value})
}

func (m *material) SetBlockStruct(block, structName string, value any) error {
	return m.record(blockWrite{block: block, member: structName, kind: writeStruct, value: value})
}

func (m *material) SetTexture(sampler string, texture gpu.Texture) {
	m.textures[sampler] = texture
}

func (m *material) Textures() []TextureSlot {
	slots := make([]TextureSlot, 0, len(m.textures))
	for _, sampler := range slices.Sorted(maps.Keys(m.textures)) {
		slots = append(slots, TextureSlot{Sampler: sampler, Texture: m.textures[sampler]})
	}
	return slots
}

func (m *material) Bind() {
	if m.program == nil || !m.program.IsValid() {
		return
	}

	m.ensureStore()
	if m.store != nil {
		for _, name := range m.store.Names() {
			if err := m.store.Connect(name); err != nil {
				m.logger.Warn("material block cannot be connected", "material", m.name, "block", name, "error", err)
				continue
			}
			if err := m.store.Upload(name); err != nil {
				m.logger.Warn("material block cannot be uploaded", "material", m.name, "block", name, "error", err)
			}
		}
	}

	for _, name := range slices.Sorted(maps.Keys(m.constants)) {
		if err := m.program.SetUniform(name, m.constants[name]); err != nil {
			m.logger.Warn("material constant ignored", "material", m.name, "program", m.program.Name(), "error", err)
		}
	}

	for unit, slot := range m.Textures() {
		m.device.BindTexture(uint32(unit), slot.Texture)
		if err := m.program.SetUniform(slot.Sampler, int32(unit)); err != nil {
			m.logger.Warn("material texture ignored", "material", m.name, "program", m.program.Name(), "error", err)
		}
	}
}

func (m *material) Destroy() {
	m.releaseStore()
}

func (m *material) record(w blockWrite) error {
	key := w.key()
	if _, ok := m.writes[key]; !ok {
		m.order = append(m.order, key)
	}
	m.writes[key] = w

	if m.program == nil || !m.program.IsValid() {
		return nil
	}
	m.ensureStore()
	if m.store == nil {
		return fmt.Errorf("%w: %q in material %q", constant_buffer.ErrUnknownBlock, w.block, m.name)
	}
	return m.apply(w)
}

func (m *material) apply(w blockWrite) error {
	switch w.kind {
	case writeArrayElement:
		return m.store.SetArrayElement(w.block, w.member, w.index, w.value)
	case writeStruct:
		return m.store.SetStruct(w.block, w.member, w.value)
	}
	return m.store.Set(w.block, w.member, w.value)
}

// ensureStore builds the Regular block buffers for the current program, replaying every recorded
// write. It is a no-op while the buffers match the program's handle.
func (m *material) ensureStore() {
	handle := m.program.Handle()
	if m.store != nil && m.storeOwner == handle {
		return
	}
	m.releaseStore()

	blocks := m.program.Blocks(uniform.CategoryRegular)
	if len(blocks) == 0 || m.registry == nil {
		return
	}

	m.store = constant_buffer.NewStore(m.device, m.registry, constant_buffer.WithLogger(m.logger))
	m.storeOwner = handle
	for _, b := range blocks {
		if _, err := m.store.CreateOrGet(b); err != nil {
			m.logger.Warn("material block cannot be created", "material", m.name, "block", b.Name, "error", err)
		}
	}
	for _, key := range m.order {
		w := m.writes[key]
		if !m.store.Has(w.block) {
			continue
		}
		if err := m.apply(w); err != nil {
			m.logger.Warn("material block value ignored", "material", m.name, "block", w.block, "member", w.member, "error", err)
		}
	}
}

func (m *material) releaseStore() {
	if m.store == nil {
		return
	}
	m.store.Destroy()
	m.store = nil
	m.storeOwner = 0
}
