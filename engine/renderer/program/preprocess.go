// preprocess.go resolves #include directives recursively and emits #line markers so driver
// diagnostics can be mapped back to the file they came from.
package program

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"
)

// FileTable maps the file ids used in #line directives to resolved source paths. The main file is id 0.
type FileTable map[int]string

// Path returns the path of a file id, or a placeholder naming the id when it is unknown.
func (t FileTable) Path(id int) string {
	if p, ok := t[id]; ok {
		return p
	}
	return fmt.Sprintf("<file %d>", id)
}

// Preprocessed is the result of resolving the includes of one stage source.
type Preprocessed struct {
	// Source is the expanded text with #line markers.
	Source string
	// Files holds every file that contributed to Source.
	Files FileTable
	// ModTimes holds the modification time of every contributing file.
	ModTimes map[string]time.Time
}

type includeResolver struct {
	fsys        fs.FS
	includeDirs []string
	files       FileTable
	ids         map[string]int
	modTimes    map[string]time.Time
}

// Preprocess reads a stage source and expands its #include directives.
// Includes are searched relative to the including file first, then in every include directory.
// A file that was already included is skipped so include guards are not required.
//
// Parameters:
//   - fsys: the file system shader paths are relative to
//   - file: the path of the main source
//   - includeDirs: additional directories searched for includes
//
// Returns:
//   - Preprocessed: the expanded source and its file table
//   - error: ErrSourceRead if the main file cannot be read, ErrInclude if an include cannot be resolved
func Preprocess(fsys fs.FS, file string, includeDirs []string) (Preprocessed, error) {
	file = path.Clean(file)
	r := &includeResolver{
		fsys:        fsys,
		includeDirs: includeDirs,
		files:       FileTable{0: file},
		ids:         map[string]int{file: 0},
		modTimes:    map[string]time.Time{},
	}

	source, err := r.resolve(file, 0)
	if err != nil {
		return Preprocessed{}, err
	}
	return Preprocessed{Source: source, Files: r.files, ModTimes: r.modTimes}, nil
}

func (r *includeResolver) resolve(file string, id int) (string, error) {
	data, err := fs.ReadFile(r.fsys, file)
	if err != nil {
		if id == 0 {
			return "", fmt.Errorf("%w: %s: %v", ErrSourceRead, file, err)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrInclude, file, err)
	}
	if info, err := fs.Stat(r.fsys, file); err == nil {
		r.modTimes[file] = info.ModTime()
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	var out strings.Builder
	for i, line := range lines {
		target, ok := parseInclude(line)
		if !ok {
			out.WriteString(line)
			out.WriteByte('\n')
			continue
		}

		resolved, err := r.locate(file, target)
		if err != nil {
			return "", fmt.Errorf("%s line %d: %w", file, i+1, err)
		}
		if _, seen := r.ids[resolved]; seen {
			out.WriteByte('\n')
			continue
		}

		childID := len(r.ids)
		r.ids[resolved] = childID
		r.files[childID] = resolved

		body, err := r.resolve(resolved, childID)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&out, "#line 1 %d\n", childID)
		out.WriteString(body)

		if next := i + 1; next >= len(lines) || !isInclude(lines[next]) {
			fmt.Fprintf(&out, "#line %d %d\n", i+2, id)
		}
	}
	return out.String(), nil
}

func (r *includeResolver) locate(from, target string) (string, error) {
	candidates := []string{path.Join(path.Dir(from), target)}
	for _, dir := range r.includeDirs {
		candidates = append(candidates, path.Join(dir, target))
	}

	for _, c := range candidates {
		if _, err := fs.Stat(r.fsys, c); err == nil {
			return c, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s: %v", ErrInclude, c, err)
		}
	}
	return "", fmt.Errorf("%w: %q not found", ErrInclude, target)
}

func isInclude(line string) bool {
	_, ok := parseInclude(line)
	return ok
}

// parseInclude returns the target of an `#include "file"` or `#include <file>` line.
func parseInclude(line string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "#include")
	if !ok {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 {
		return "", false
	}
	switch {
	case rest[0] == '"' && strings.Count(rest, `"`) >= 2:
		return rest[1 : 1+strings.IndexByte(rest[1:], '"')], true
	case rest[0] == '<' && strings.Contains(rest, ">"):
		return rest[1:strings.IndexByte(rest, '>')], true
	}
	return "", false
}
