package renderer

import (
	"embed"
	"io/fs"
	"path"
	"strings"
)

// BuiltinShaderDir is the directory the built-in shaders are mounted at in ShaderFS.
// User shaders include the intrinsic blocks as "builtin/intrinsic_lighting.glsl" and
// "builtin/intrinsic_other.glsl".
const BuiltinShaderDir = "builtin"

//go:embed shaders
var embeddedShaders embed.FS

func builtinShaders() fs.FS {
	sub, err := fs.Sub(embeddedShaders, "shaders")
	if err != nil {
		panic(err)
	}
	return sub
}

// shaderFS serves the built-in shaders below BuiltinShaderDir and everything else from the user's file system.
type shaderFS struct {
	builtin fs.FS
	user    fs.FS
}

// NewShaderFS mounts the built-in shaders at BuiltinShaderDir on top of a user file system,
// the same view of the shader tree a renderer resolves programs and includes against.
//
// Parameters:
//   - user: the user shader root, may be nil
//
// Returns:
//   - fs.FS: the combined file system
func NewShaderFS(user fs.FS) fs.FS {
	return &shaderFS{builtin: builtinShaders(), user: user}
}

func (s *shaderFS) route(name string) (fs.FS, string, bool) {
	if name == BuiltinShaderDir {
		return s.builtin, ".", true
	}
	if rest, ok := strings.CutPrefix(name, BuiltinShaderDir+"/"); ok {
		return s.builtin, rest, true
	}
	if s.user == nil {
		return nil, "", false
	}
	return s.user, name, true
}

func (s *shaderFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	fsys, rel, ok := s.route(name)
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return fsys.Open(rel)
}

func (s *shaderFS) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}
	fsys, rel, ok := s.route(name)
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return fs.Stat(fsys, rel)
}

func isBuiltinShader(name string) bool {
	return strings.HasPrefix(path.Clean(name), BuiltinShaderDir+"/")
}
