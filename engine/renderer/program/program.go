// Package program compiles GLSL stage sources into linked programs and reflects their vertex
// layouts, constants, constant blocks, features and editor annotations.
package program

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/binding"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/uniform"
)

// compiled holds everything a successful compile produces. A failed compile never touches it.
type compiled struct {
	handle           uint32
	features         map[string]Feature
	files            map[gpu.ShaderStage]FileTable
	modTimes         map[string]time.Time
	sourceLayout     gpu.VertexLayout
	activeLayout     gpu.VertexLayout
	uniforms         map[string]*uniform.Info
	blocks           map[string]*uniform.Block
	blockCounts      map[uniform.Category]int
	defaultBlockSize int
	formatStrings    []string
}

// program is the implementation of the Program interface.
type program struct {
	name        string
	device      gpu.Device
	registry    binding.Registry
	logger      *slog.Logger
	fsys        fs.FS
	includeDirs []string
	sources     map[gpu.ShaderStage]string
	requested   map[string]string

	state *compiled
	// attempted holds the files read by the latest compile attempt, so a program whose
	// first compile failed still notices when its sources are fixed.
	attempted map[string]time.Time
}

// Program is a linked GPU program built from vertex, optional geometry and fragment sources.
// It owns the reflected description of its inputs and is replaced in place on hot reload.
type Program interface {
	// Name returns the identifier of the program.
	//
	// Returns:
	//   - string: the program name
	Name() string

	// Handle returns the GPU handle of the linked program, 0 until compiled.
	//
	// Returns:
	//   - uint32: the program handle
	Handle() uint32

	// IsValid reports whether the program compiled and linked successfully.
	//
	// Returns:
	//   - bool: true if the program can be bound
	IsValid() bool

	// Compile preprocesses, compiles, links and reflects the program. On failure the program
	// keeps whatever state it had before and the error names the failing step.
	//
	// Returns:
	//   - error: ErrSourceRead, ErrInclude, ErrCompile or ErrLink wrapped with diagnostics
	Compile() error

	// Bind makes the program current on the device.
	Bind()

	// Sources returns the stage source paths.
	//
	// Returns:
	//   - map[gpu.ShaderStage]string: the source path of every stage
	Sources() map[gpu.ShaderStage]string

	// RequestedFeatures returns the features defined at compile time.
	//
	// Returns:
	//   - map[string]string: feature names mapped to their define values
	RequestedFeatures() map[string]string

	// Features returns every feature the sources declare or define.
	//
	// Returns:
	//   - map[string]Feature: features keyed by name
	Features() map[string]Feature

	// IsFeatureSet reports whether a feature is defined in the compiled sources.
	//
	// Parameters:
	//   - name: the feature name
	//
	// Returns:
	//   - bool: true if the feature is defined
	IsFeatureSet(name string) bool

	// FeatureValue returns the define value of a feature.
	//
	// Parameters:
	//   - name: the feature name
	//
	// Returns:
	//   - string: the define value, empty for plain flags
	//   - bool: false if the feature is not defined
	FeatureValue(name string) (string, bool)

	// SourceVertexLayout returns the vertex layout declared by the vertex source.
	//
	// Returns:
	//   - gpu.VertexLayout: the declared layout
	SourceVertexLayout() gpu.VertexLayout

	// ActiveVertexLayout returns the vertex layout of the attributes kept by the linker.
	//
	// Returns:
	//   - gpu.VertexLayout: the active layout
	ActiveVertexLayout() gpu.VertexLayout

	// Uniform looks up a reflected constant. Block members are named "BlockName.member".
	//
	// Parameters:
	//   - name: the full constant name
	//
	// Returns:
	//   - *uniform.Info: the constant description
	//   - bool: false if the program has no such active constant
	Uniform(name string) (*uniform.Info, bool)

	// Uniforms returns every reflected constant keyed by full name.
	//
	// Returns:
	//   - map[string]*uniform.Info: the constant map
	Uniforms() map[string]*uniform.Info

	// Block looks up a reflected constant block.
	//
	// Parameters:
	//   - name: the block name
	//
	// Returns:
	//   - *uniform.Block: the block description
	//   - bool: false if the program has no such block
	Block(name string) (*uniform.Block, bool)

	// Blocks returns the blocks of one category sorted by name.
	//
	// Parameters:
	//   - category: the block category
	//
	// Returns:
	//   - []*uniform.Block: the blocks of the category
	Blocks(category uniform.Category) []*uniform.Block

	// BlockCount returns the number of blocks of one category.
	BlockCount(category uniform.Category) int

	// DefaultBlockSize returns the running byte size of the constants outside of blocks.
	DefaultBlockSize() int

	// FormatStrings returns the de-duplicated format strings referenced by annotations.
	FormatStrings() []string

	// SetUniform uploads a constant outside of any block. The program must be bound.
	//
	// Parameters:
	//   - name: the constant name, arrays are addressed as "name[0]"
	//   - value: the value, see uniform.EncodeTight for the supported types
	//
	// Returns:
	//   - error: error if the constant is unknown, lives in a block or the value cannot be encoded
	SetUniform(name string, value any) error

	// Files returns every file the compiled program was built from, or the files a failed first compile read.
	//
	// Returns:
	//   - []string: the resolved paths, sorted
	Files() []string

	// SourcesModified reports whether any contributing file changed since the last successful compile.
	//
	// Returns:
	//   - bool: true if a file has a newer modification time
	SourcesModified() bool

	// Recompile builds a fresh program from the same sources and options.
	// The receiver is left untouched, use ReplaceWith to adopt the result.
	//
	// Returns:
	//   - Program: the newly compiled program
	//   - error: the compile error, the returned program is nil in that case
	Recompile() (Program, error)

	// ReplaceWith adopts the compiled state of another program created by Recompile and
	// releases the receiver's previous GPU program. The other program is left empty.
	//
	// Parameters:
	//   - other: the program to take over
	ReplaceWith(other Program)

	// Destroy releases the GPU program.
	Destroy()
}

var _ Program = &program{}

// NewProgram creates an uncompiled program. Vertex and fragment sources are required.
//
// Parameters:
//   - name: the identifier of the program
//   - device: the device compiling and linking the stages
//   - options: functional options selecting sources, features and collaborators
//
// Returns:
//   - Program: the new program, call Compile before use
func NewProgram(name string, device gpu.Device, options ...ProgramBuilderOption) Program {
	p := &program{
		name:      name,
		device:    device,
		logger:    slog.Default(),
		fsys:      os.DirFS("."),
		sources:   map[gpu.ShaderStage]string{},
		requested: map[string]string{},
	}
	for _, opt := range options {
		opt(p)
	}

	if p.sources[gpu.ShaderStageVertex] == "" || p.sources[gpu.ShaderStageFragment] == "" {
		panic(fmt.Sprintf("program %q needs a vertex and a fragment source", name))
	}
	return p
}

func (p *program) Name() string {
	return p.name
}

func (p *program) Handle() uint32 {
	if p.state == nil {
		return 0
	}
	return p.state.handle
}

func (p *program) IsValid() bool {
	return p.Handle() != 0
}

func (p *program) Compile() error {
	state, err := p.compile()
	if err != nil {
		p.logger.Error("program compile failed", "program", p.name, "error", err)
		return err
	}
	if p.state != nil {
		p.device.DeleteProgram(p.state.handle)
	}
	p.state = state
	p.logger.Debug("program compiled", "program", p.name, "handle", state.handle, "blocks", len(state.blocks), "uniforms", len(state.uniforms))
	return nil
}

func (p *program) compile() (*compiled, error) {
	state := &compiled{
		features: map[string]Feature{},
		files:    map[gpu.ShaderStage]FileTable{},
		modTimes: map[string]time.Time{},
	}
	p.attempted = state.modTimes

	var shaders []uint32
	defer func() {
		for _, s := range shaders {
			p.device.DeleteShader(s)
		}
	}()

	vendor := p.device.DriverInfo().VendorFamily()
	stageSources := map[gpu.ShaderStage]string{}
	for _, stage := range gpu.ShaderStages {
		path, ok := p.sources[stage]
		if !ok {
			continue
		}

		pre, err := Preprocess(p.fsys, path, p.includeDirs)
		if err != nil {
			return nil, fmt.Errorf("Shader Error (pre-compilation): %s shader %q could not be pre-processed for #include files: %w", stage, p.name, err)
		}
		maps.Copy(state.modTimes, pre.ModTimes)
		state.files[stage] = pre.Files

		for name, f := range parseFeatures(pre.Source) {
			if existing, ok := state.features[name]; !ok || !existing.IsSet {
				state.features[name] = f
			}
		}

		source := applyFeatures(pre.Source, p.requested)
		stageSources[stage] = source

		handle, err := p.device.CompileShader(stage, source)
		if err != nil {
			var logErr *gpu.InfoLogError
			if !errors.As(err, &logErr) {
				return nil, fmt.Errorf("%w: %s shader %q: %v", ErrCompile, stage, p.name, err)
			}
			return nil, &CompileError{Program: p.name, Stage: stage, Diagnostics: FormatLog(vendor, logErr.Log, pre.Files)}
		}
		shaders = append(shaders, handle)
	}

	for name, value := range p.requested {
		state.features[name] = Feature{Name: name, Value: value, IsSet: true}
	}

	handle, err := p.device.LinkProgram(shaders)
	if err != nil {
		log := err.Error()
		var logErr *gpu.InfoLogError
		if errors.As(err, &logErr) {
			log = logErr.Log
		}
		return nil, &LinkError{Program: p.name, Log: log}
	}
	state.handle = handle

	state.sourceLayout = sourceVertexLayout(stageSources[gpu.ShaderStageVertex])
	state.activeLayout = activeVertexLayout(p.device.ActiveAttributes(handle))

	r := reflectConstants(p.device.ActiveUniforms(handle), p.device.ActiveUniformBlocks(handle))
	state.uniforms = r.uniforms
	state.blocks = r.blocks
	state.blockCounts = r.blockCounts
	state.defaultBlockSize = r.defaultBlockSize

	formats := &formatTable{}
	for _, stage := range gpu.ShaderStages {
		source, ok := stageSources[stage]
		if !ok {
			continue
		}
		if err := applyAnnotations(source, formats, state.uniforms); err != nil {
			p.logger.Error("program annotations are invalid", "program", p.name, "stage", stage.String(), "error", err)
		}
	}
	state.formatStrings = formats.strings

	if p.registry != nil {
		for _, name := range slices.Sorted(maps.Keys(state.blocks)) {
			p.registry.Register(handle, state.blocks[name])
		}
	}

	return state, nil
}

func applyAnnotations(source string, formats *formatTable, uniforms map[string]*uniform.Info) error {
	found, errs := parseAnnotations(source, formats)
	for _, a := range found {
		info, ok := uniforms[a.Name]
		if !ok {
			continue
		}
		if info.Annotation.Kind != uniform.AnnotationUnassigned && info.Annotation.Kind != a.Annotation.Kind {
			errs = append(errs, fmt.Errorf("line %d: %q is annotated as %s and as %s", a.Line, a.Name, info.Annotation.Kind, a.Annotation.Kind))
			continue
		}
		info.Annotation = a.Annotation
	}
	return errors.Join(errs...)
}

func (p *program) Bind() {
	p.device.UseProgram(p.Handle())
}

func (p *program) Sources() map[gpu.ShaderStage]string {
	return maps.Clone(p.sources)
}

func (p *program) RequestedFeatures() map[string]string {
	return maps.Clone(p.requested)
}

func (p *program) Features() map[string]Feature {
	if p.state == nil {
		return map[string]Feature{}
	}
	return maps.Clone(p.state.features)
}

func (p *program) IsFeatureSet(name string) bool {
	if p.state == nil {
		return false
	}
	return p.state.features[name].IsSet
}

func (p *program) FeatureValue(name string) (string, bool) {
	if p.state == nil {
		return "", false
	}
	f, ok := p.state.features[name]
	if !ok || !f.IsSet {
		return "", false
	}
	return f.Value, true
}

func (p *program) SourceVertexLayout() gpu.VertexLayout {
	if p.state == nil {
		return gpu.VertexLayout{}
	}
	return p.state.sourceLayout
}

func (p *program) ActiveVertexLayout() gpu.VertexLayout {
	if p.state == nil {
		return gpu.VertexLayout{}
	}
	return p.state.activeLayout
}

func (p *program) Uniform(name string) (*uniform.Info, bool) {
	if p.state == nil {
		return nil, false
	}
	info, ok := p.state.uniforms[name]
	return info, ok
}

func (p *program) Uniforms() map[string]*uniform.Info {
	if p.state == nil {
		return map[string]*uniform.Info{}
	}
	return p.state.uniforms
}

func (p *program) Block(name string) (*uniform.Block, bool) {
	if p.state == nil {
		return nil, false
	}
	b, ok := p.state.blocks[name]
	return b, ok
}

func (p *program) Blocks(category uniform.Category) []*uniform.Block {
	if p.state == nil {
		return nil
	}
	var blocks []*uniform.Block
	for _, name := range slices.Sorted(maps.Keys(p.state.blocks)) {
		if b := p.state.blocks[name]; b.Category == category {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func (p *program) BlockCount(category uniform.Category) int {
	if p.state == nil {
		return 0
	}
	return p.state.blockCounts[category]
}

func (p *program) DefaultBlockSize() int {
	if p.state == nil {
		return 0
	}
	return p.state.defaultBlockSize
}

func (p *program) FormatStrings() []string {
	if p.state == nil {
		return nil
	}
	return p.state.formatStrings
}

func (p *program) SetUniform(name string, value any) error {
	info, ok := p.Uniform(name)
	if !ok {
		if !p.IsValid() {
			return fmt.Errorf("%w: %q", ErrNotCompiled, p.name)
		}
		return fmt.Errorf("program %q has no active constant %q", p.name, name)
	}
	if info.IsBufferMember {
		return fmt.Errorf("constant %q lives in a block, write it through the block's buffer", name)
	}

	data, err := uniform.EncodeTight(value)
	if err != nil {
		return fmt.Errorf("constant %q: %w", name, err)
	}
	count := 1
	if element := info.Type.ComponentCount() * 4; element > 0 {
		count = min(max(len(data)/element, 1), info.ArrayCount)
	}
	p.device.SetUniform(info.Location, info.Type, int32(count), data)
	return nil
}

func (p *program) Files() []string {
	return slices.Sorted(maps.Keys(p.modTimes()))
}

func (p *program) modTimes() map[string]time.Time {
	if p.state != nil {
		return p.state.modTimes
	}
	return p.attempted
}

func (p *program) SourcesModified() bool {
	for path, recorded := range p.modTimes() {
		info, err := fs.Stat(p.fsys, path)
		if err != nil {
			p.logger.Debug("program source cannot be checked", "program", p.name, "path", path, "error", err)
			continue
		}
		if info.ModTime().After(recorded) {
			return true
		}
	}
	return false
}

func (p *program) Recompile() (Program, error) {
	fresh := NewProgram(p.name, p.device, p.options()...)
	if err := fresh.Compile(); err != nil {
		return nil, err
	}
	return fresh, nil
}

func (p *program) ReplaceWith(other Program) {
	o, ok := other.(*program)
	if !ok || o == p || o.state == nil {
		return
	}
	if p.state != nil {
		p.device.DeleteProgram(p.state.handle)
	}
	p.state = o.state
	o.state = nil
}

func (p *program) Destroy() {
	if p.state == nil {
		return
	}
	p.device.DeleteProgram(p.state.handle)
	p.state = nil
}

func (p *program) String() string {
	stages := make([]string, 0, len(p.sources))
	for _, stage := range gpu.ShaderStages {
		if path, ok := p.sources[stage]; ok {
			stages = append(stages, stage.String()+"="+path)
		}
	}
	return fmt.Sprintf("program %q (%s)", p.name, strings.Join(stages, ", "))
}
