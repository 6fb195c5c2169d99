package program

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
)

var (
	// ErrSourceRead is returned when a stage source cannot be read.
	ErrSourceRead = errors.New("shader source could not be read")

	// ErrInclude is returned when an #include directive cannot be resolved.
	ErrInclude = errors.New("shader include could not be resolved")

	// ErrCompile is returned when a stage fails to compile.
	ErrCompile = errors.New("shader compilation failed")

	// ErrLink is returned when the stages fail to link.
	ErrLink = errors.New("shader linking failed")

	// ErrNotCompiled is returned when a program is used before a successful compile.
	ErrNotCompiled = errors.New("program is not compiled")
)

// CompileError carries the diagnostics of a failed stage compile.
type CompileError struct {
	Program     string
	Stage       gpu.ShaderStage
	Diagnostics []Diagnostic
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("Shader Error (compilation): %s shader %q\n%s", e.Stage, e.Program, joinDiagnostics(e.Diagnostics))
}

func (e *CompileError) Unwrap() error {
	return ErrCompile
}

// LinkError carries the driver log of a failed link.
type LinkError struct {
	Program string
	Log     string
}

func (e *LinkError) Error() string {
	log := strings.TrimRight(e.Log, "\n")
	return fmt.Sprintf("Shader Error (linking): Shader %q\n    %s", e.Program, strings.ReplaceAll(log, "\n", "\n    "))
}

func (e *LinkError) Unwrap() error {
	return ErrLink
}
