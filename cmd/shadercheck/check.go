package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/program"
)

// stageExtensions are the shader stages a program is assembled from.
var stageExtensions = []string{".vert", ".geom", ".frag"}

// checker preprocesses and validates every stage source below a shader root.
type checker struct {
	fsys        fs.FS
	includeDirs []string
	workers     int
	builtin     bool

	// glslang is the glslangValidator executable, empty to skip compilation.
	glslang string

	// progress is told the number of sources before preprocessing and ticked once per source.
	progress func(total int) func()
}

// finding is one problem of one source. Warnings do not fail the check.
type finding struct {
	Path    string
	Message string
	Warning bool
}

func (f finding) String() string {
	level := "error"
	if f.Warning {
		level = "warning"
	}
	return fmt.Sprintf("%s: %s: %s", f.Path, level, f.Message)
}

// report is the outcome of a check.
type report struct {
	Sources  int
	Findings []finding
}

// Failed reports whether any finding is an error.
func (r report) Failed() bool {
	return slices.ContainsFunc(r.Findings, func(f finding) bool { return !f.Warning })
}

func (c *checker) run(ctx context.Context) (report, error) {
	sources, err := c.sources()
	if err != nil {
		return report{}, err
	}
	rep := report{Sources: len(sources), Findings: pairFindings(sources)}

	var tick func()
	if c.progress != nil {
		tick = c.progress(len(sources))
	}
	results, _ := program.PreprocessAll(c.fsys, c.includeDirs, sources, c.workers, func(program.PreprocessResult) {
		if tick != nil {
			tick()
		}
	})

	for _, res := range results {
		if res.Err != nil {
			rep.Findings = append(rep.Findings, finding{Path: res.Path, Message: res.Err.Error()})
			continue
		}
		if err := program.ValidateAnnotations(res.Result.Source); err != nil {
			for _, line := range strings.Split(err.Error(), "\n") {
				rep.Findings = append(rep.Findings, finding{Path: res.Path, Message: line})
			}
		}
		if c.glslang != "" {
			if msg, err := c.compile(ctx, res); err != nil {
				rep.Findings = append(rep.Findings, finding{Path: res.Path, Message: msg})
			}
		}
	}

	slices.SortStableFunc(rep.Findings, func(a, b finding) int { return strings.Compare(a.Path, b.Path) })
	return rep, nil
}

// sources lists every stage source of the user tree, and of the built-in tree when requested.
func (c *checker) sources() ([]string, error) {
	var sources []string
	walk := func(root string) error {
		return fs.WalkDir(c.fsys, root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p == renderer.BuiltinShaderDir && root != renderer.BuiltinShaderDir {
					return fs.SkipDir
				}
				return nil
			}
			if slices.Contains(stageExtensions, path.Ext(p)) {
				sources = append(sources, p)
			}
			return nil
		})
	}

	if err := walk("."); err != nil {
		return nil, fmt.Errorf("list shaders: %w", err)
	}
	if c.builtin {
		if err := walk(renderer.BuiltinShaderDir); err != nil {
			return nil, fmt.Errorf("list built-in shaders: %w", err)
		}
	}
	slices.Sort(sources)
	return sources, nil
}

// pairFindings warns about user vertex sources without a fragment source and the other way around.
func pairFindings(sources []string) []finding {
	has := map[string]bool{}
	for _, s := range sources {
		has[s] = true
	}
	var findings []finding
	for _, s := range sources {
		if strings.HasPrefix(s, renderer.BuiltinShaderDir+"/") {
			continue
		}
		stem := strings.TrimSuffix(s, path.Ext(s))
		switch path.Ext(s) {
		case ".vert":
			if !has[stem+".frag"] {
				findings = append(findings, finding{Path: s, Message: "no matching fragment stage " + stem + ".frag", Warning: true})
			}
		case ".frag":
			if !has[stem+".vert"] {
				findings = append(findings, finding{Path: s, Message: "no matching vertex stage " + stem + ".vert", Warning: true})
			}
		}
	}
	return findings
}

// compile feeds the preprocessed source to glslangValidator. The stage is taken from the file extension.
func (c *checker) compile(ctx context.Context, res program.PreprocessResult) (string, error) {
	dir, err := os.MkdirTemp("", "shadercheck")
	if err != nil {
		return err.Error(), err
	}
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "source"+path.Ext(res.Path))
	if err := os.WriteFile(file, []byte(res.Result.Source), 0o600); err != nil {
		return err.Error(), err
	}

	out, err := exec.CommandContext(ctx, c.glslang, file).CombinedOutput()
	if err == nil {
		return "", nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Sprintf("run %s: %v", c.glslang, err), err
	}
	return strings.TrimSpace(strings.ReplaceAll(string(out), file, res.Path)), err
}

// findGlslang resolves the validator from an explicit path, GLSLANG_PATH or PATH. An empty result disables compilation.
func findGlslang(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("GLSLANG_PATH"); env != "" {
		return env
	}
	if p, err := exec.LookPath("glslangValidator"); err == nil {
		return p
	}
	return ""
}
