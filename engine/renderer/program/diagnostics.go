// diagnostics.go rewrites driver compile logs so every message names the source file it came from.
// Each driver family prints the file id and line of #line directives in its own shape:
//
//	NVIDIA       0(12) : error C0000: ...
//	AMD          ERROR: 0:12: ...
//	Intel, Mesa  0:12(5): error: ...
package program

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
)

// Diagnostic is one line of a driver log mapped back to its source file.
type Diagnostic struct {
	// Path is the resolved source path, empty when the line could not be parsed.
	Path string
	// Line is the 1-based line inside Path, 0 when the line could not be parsed.
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	if d.Path == "" {
		return "\t" + d.Message
	}
	return fmt.Sprintf("\t%s -> line %d: %s", d.Path, d.Line, d.Message)
}

type logPattern struct {
	pattern *regexp.Regexp
	// message selects the submatch holding the message.
	message int
}

var (
	nvidiaPattern = logPattern{regexp.MustCompile(`^(\d+)\((\d+)\)\s*:\s*(.*)$`), 3}
	amdPattern    = logPattern{regexp.MustCompile(`^(?:ERROR|WARNING):\s*(\d+):(\d+):\s*(.*)$`), 3}
	intelPattern  = logPattern{regexp.MustCompile(`^(\d+):(\d+)\(\d+\):\s*(.*)$`), 3}
	genericColon  = logPattern{regexp.MustCompile(`^(\d+):(\d+):(?:\d+:)?\s*(.*)$`), 3}
)

// vendorPatterns lists the log shapes tried for each vendor, most specific first.
var vendorPatterns = map[gpu.Vendor][]logPattern{
	gpu.VendorNvidia:  {nvidiaPattern},
	gpu.VendorAMD:     {amdPattern, genericColon},
	gpu.VendorIntel:   {intelPattern},
	gpu.VendorMesa:    {intelPattern},
	gpu.VendorUnknown: {nvidiaPattern, amdPattern, intelPattern, genericColon},
}

// FormatLog maps every line of a driver log to the file and line it refers to.
// Lines that match no known shape are kept verbatim.
//
// Parameters:
//   - vendor: the driver family that produced the log
//   - rawLog: the info log
//   - files: the file table of the compiled source
//
// Returns:
//   - []Diagnostic: one entry per non-empty log line
func FormatLog(vendor gpu.Vendor, rawLog string, files FileTable) []Diagnostic {
	patterns, ok := vendorPatterns[vendor]
	if !ok {
		patterns = vendorPatterns[gpu.VendorUnknown]
	}

	var diagnostics []Diagnostic
	for line := range strings.SplitSeq(rawLog, "\n") {
		line = strings.TrimRight(line, "\r\x00 ")
		if strings.TrimSpace(line) == "" {
			continue
		}
		diagnostics = append(diagnostics, parseLogLine(line, patterns, files))
	}
	return diagnostics
}

func parseLogLine(line string, patterns []logPattern, files FileTable) Diagnostic {
	for _, p := range patterns {
		m := p.pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id, errID := strconv.Atoi(m[1])
		n, errLine := strconv.Atoi(m[2])
		if errID != nil || errLine != nil {
			continue
		}
		message := line
		if p.message > 0 {
			message = m[p.message]
		}
		return Diagnostic{Path: files.Path(id), Line: n, Message: message}
	}
	return Diagnostic{Message: line}
}

func joinDiagnostics(diagnostics []Diagnostic) string {
	lines := make([]string, len(diagnostics))
	for i, d := range diagnostics {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}
