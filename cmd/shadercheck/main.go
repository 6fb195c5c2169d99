// Command shadercheck preprocesses every shader stage below a directory in parallel, resolving
// includes the way the renderer does, validates editor annotations and, when glslangValidator
// is available, compiles the expanded sources.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/config"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer"
	"github.com/schollz/progressbar/v3"
)

func run() error {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	configPath := fs.String("config", "", "a YAML or TOML engine configuration to take the shader directory and include dirs from")
	dir := fs.String("dir", "", "the shader directory (default: the configured shader_dir)")
	includes := fs.String("include", "", "comma separated include directories, relative to the shader directory")
	workers := fs.Int("workers", runtime.NumCPU(), "the number of sources preprocessed in parallel")
	glslang := fs.String("glslang", "", "the glslangValidator executable (default: $GLSLANG_PATH, then PATH)")
	noCompile := fs.Bool("no-compile", false, "skip glslangValidator even when it is available")
	builtin := fs.Bool("builtin", false, "also check the built-in shaders")
	quiet := fs.Bool("quiet", false, "do not show a progress bar")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	*dir = common.Coalesce(*dir, cfg.Renderer.ShaderDir, ".")
	includeDirs := cfg.Renderer.IncludeDirs
	if *includes != "" {
		includeDirs = strings.Split(*includes, ",")
	}

	c := &checker{
		fsys:        renderer.NewShaderFS(os.DirFS(*dir)),
		includeDirs: append(includeDirs, "."),
		workers:     *workers,
		builtin:     *builtin,
	}
	if !*noCompile {
		c.glslang = findGlslang(*glslang)
	}
	if !*quiet {
		c.progress = func(total int) func() {
			pb := progressbar.Default(int64(total), "preprocessing")
			return func() { _ = pb.Add(1) }
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rep, err := c.run(ctx)
	if err != nil {
		return err
	}
	for _, f := range rep.Findings {
		fmt.Fprintln(os.Stderr, f)
	}
	if c.glslang == "" && !*noCompile {
		fmt.Fprintln(os.Stderr, "glslangValidator not found, sources were not compiled")
	}
	if rep.Failed() {
		return fmt.Errorf("%d of %d sources have errors", countFailed(rep), rep.Sources)
	}
	fmt.Printf("%d sources ok\n", rep.Sources)
	return nil
}

func countFailed(rep report) int {
	failed := map[string]bool{}
	for _, f := range rep.Findings {
		if !f.Warning {
			failed[f.Path] = true
		}
	}
	return len(failed)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "shadercheck: %v\n", err)
		os.Exit(1)
	}
}
