// Package constant_buffer owns the GPU constant buffers backing reflected constant blocks and
// their CPU mirrors.
package constant_buffer

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/binding"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/uniform"
)

var (
	// ErrUnknownBlock is returned when a block has no buffer in the store.
	ErrUnknownBlock = errors.New("unknown constant block")

	// ErrUnknownMember is returned when a block has no member of the given name.
	ErrUnknownMember = errors.New("unknown constant block member")

	// ErrOutOfRange is returned when a write does not fit its member.
	ErrOutOfRange = errors.New("constant write out of range")
)

type entry struct {
	block  *uniform.Block
	buffer uint32
	mirror Mirror
}

type store struct {
	mu       sync.Mutex
	device   gpu.Device
	registry binding.Registry
	logger   *slog.Logger
	dirty    bool
	entries  map[string]*entry
}

// Store holds one GPU buffer per constant block name together with its CPU mirror.
// Buffers are created on first request and shared by every program declaring the same block.
type Store interface {
	// CreateOrGet returns the buffer of a block, creating it and connecting it to the block's
	// registered slot on first use.
	//
	// Parameters:
	//   - block: the reflected block, it must already be registered with the slot registry
	//
	// Returns:
	//   - uint32: the GPU buffer handle
	//   - error: binding.ErrUnregisteredBlock if the block has no slot
	CreateOrGet(block *uniform.Block) (uint32, error)

	// Has reports whether a buffer exists for the block name.
	Has(name string) bool

	// Buffer returns the GPU buffer handle of a block.
	Buffer(name string) (uint32, bool)

	// Block returns the layout a buffer was created with.
	Block(name string) (*uniform.Block, bool)

	// Names returns every block name in the store, sorted.
	Names() []string

	// Release deletes the buffer of a block.
	//
	// Returns:
	//   - bool: false if the block had no buffer
	Release(name string) bool

	// Set writes a scalar, vector or matrix member into the mirror.
	//
	// Parameters:
	//   - blockName: the block name
	//   - member: the member name, with or without the block prefix
	//   - value: the value, see uniform.Encode for supported types
	//
	// Returns:
	//   - error: ErrUnknownBlock, ErrUnknownMember or ErrOutOfRange
	Set(blockName, member string, value any) error

	// SetArrayElement writes one element of an array member into the mirror.
	//
	// Parameters:
	//   - blockName: the block name
	//   - array: the array member name without index
	//   - index: the element index
	//   - value: the element value, at most one stride long once encoded
	//
	// Returns:
	//   - error: ErrUnknownBlock, ErrUnknownMember or ErrOutOfRange
	SetArrayElement(blockName, array string, index int, value any) error

	// SetStruct writes a struct member as a whole into the mirror.
	//
	// Parameters:
	//   - blockName: the block name
	//   - structName: the struct member name
	//   - value: the struct value, at most the struct size once encoded
	//
	// Returns:
	//   - error: ErrUnknownBlock, ErrUnknownMember or ErrOutOfRange
	SetStruct(blockName, structName string, value any) error

	// Mirror returns the CPU mirror contents of a block.
	Mirror(name string) ([]byte, bool)

	// Connect binds the buffer of a block to its registered slot.
	Connect(name string) error

	// Upload flushes the mirror of one block to its GPU buffer.
	Upload(name string) error

	// UploadAll flushes every mirror to its GPU buffer.
	UploadAll()

	// Destroy releases every buffer.
	Destroy()
}

var _ Store = &store{}

// NewStore creates an empty store.
//
// Parameters:
//   - device: the device buffers are created on
//   - registry: the slot registry buffers are connected through
//   - options: optional configuration
//
// Returns:
//   - Store: the new store
func NewStore(device gpu.Device, registry binding.Registry, options ...StoreBuilderOption) Store {
	s := &store{
		device:   device,
		registry: registry,
		logger:   slog.Default(),
		entries:  map[string]*entry{},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *store) CreateOrGet(block *uniform.Block) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[block.Name]; ok {
		return e.buffer, nil
	}

	buffer := s.device.CreateUniformBuffer(block.Size)
	if err := s.registry.ConnectBuffer(buffer, block.Category, block.Name); err != nil {
		s.device.DeleteBuffer(buffer)
		return 0, err
	}

	mirror := NewBlob(block.Size)
	if s.dirty {
		mirror = NewDirtyBlob(block.Size)
	}
	s.entries[block.Name] = &entry{block: block, buffer: buffer, mirror: mirror}
	s.logger.Debug("created constant buffer", "block", block.Name, "category", block.Category, "size", block.Size)
	return buffer, nil
}

func (s *store) Has(name string) bool {
	_, ok := s.Buffer(name)
	return ok
}

func (s *store) Buffer(name string) (uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[name]
	if !ok {
		return 0, false
	}
	return e.buffer, true
}

func (s *store) Block(name string) (*uniform.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[name]
	if !ok {
		return nil, false
	}
	return e.block, true
}

func (s *store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (s *store) Release(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[name]
	if !ok {
		return false
	}
	s.device.DeleteBuffer(e.buffer)
	delete(s.entries, name)
	return true
}

func (s *store) Set(blockName, member string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.entry(blockName)
	if err != nil {
		return err
	}
	member = strings.TrimPrefix(member, blockName+".")
	info, ok := e.block.Singles[member]
	if !ok {
		return fmt.Errorf("%w: %q in block %q", ErrUnknownMember, member, blockName)
	}
	return write(e, info.Offset, info.TotalSize(), value)
}

func (s *store) SetArrayElement(blockName, array string, index int, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.entry(blockName)
	if err != nil {
		return err
	}
	array = strings.TrimPrefix(array, blockName+".")
	agg, ok := e.block.Arrays[array]
	if !ok {
		return fmt.Errorf("%w: array %q in block %q", ErrUnknownMember, array, blockName)
	}
	if index < 0 || index >= agg.ElementCount {
		return fmt.Errorf("%w: index %d of array %q with %d elements", ErrOutOfRange, index, array, agg.ElementCount)
	}
	return write(e, agg.Offset+index*agg.Stride, agg.Stride, value)
}

func (s *store) SetStruct(blockName, structName string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.entry(blockName)
	if err != nil {
		return err
	}
	structName = strings.TrimPrefix(structName, blockName+".")
	agg, ok := e.block.Structs[structName]
	if !ok {
		return fmt.Errorf("%w: struct %q in block %q", ErrUnknownMember, structName, blockName)
	}
	return write(e, agg.Offset, agg.Size, value)
}

func (s *store) Mirror(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[name]
	if !ok {
		return nil, false
	}
	return e.mirror.Bytes(), true
}

func (s *store) Connect(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.entry(name)
	if err != nil {
		return err
	}
	return s.registry.ConnectBuffer(e.buffer, e.block.Category, e.block.Name)
}

func (s *store) Upload(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.entry(name)
	if err != nil {
		return err
	}
	s.flush(e.mirror.Pending(e.buffer))
	e.mirror.MarkClean()
	return nil
}

func (s *store) UploadAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var writes []BufferWrite
	for _, name := range slices.Sorted(maps.Keys(s.entries)) {
		e := s.entries[name]
		writes = append(writes, e.mirror.Pending(e.buffer)...)
		e.mirror.MarkClean()
	}
	s.flush(writes)
}

func (s *store) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, e := range s.entries {
		s.device.DeleteBuffer(e.buffer)
		delete(s.entries, name)
	}
}

// entry looks up a block, the caller must hold the lock.
func (s *store) entry(name string) (*entry, error) {
	e, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlock, name)
	}
	return e, nil
}

func (s *store) flush(writes []BufferWrite) {
	for _, w := range writes {
		s.device.UpdateUniformBuffer(w.Buffer, w.Offset, w.Data)
	}
}

func write(e *entry, offset, limit int, value any) error {
	data, err := uniform.Encode(value)
	if err != nil {
		return err
	}
	if len(data) > limit || offset+len(data) > len(e.mirror.Bytes()) {
		return fmt.Errorf("%w: %d bytes at offset %d, member holds %d", ErrOutOfRange, len(data), offset, limit)
	}
	e.mirror.Write(offset, data)
	return nil
}
