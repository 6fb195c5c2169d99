package renderer

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/program"
)

// HotReloadMode selects how the renderer notices modified shader sources.
type HotReloadMode int

const (
	// HotReloadOff never reloads programs.
	HotReloadOff HotReloadMode = iota

	// HotReloadStat compares the modification time of every source file of every program each Update.
	HotReloadStat

	// HotReloadFSNotify only checks the programs whose files were reported changed by a program.Watcher.
	HotReloadFSNotify
)

func (m HotReloadMode) String() string {
	switch m {
	case HotReloadOff:
		return "off"
	case HotReloadStat:
		return "stat"
	case HotReloadFSNotify:
		return "fsnotify"
	}
	return "unknown"
}

// ParseHotReloadMode parses the configuration name of a mode. An empty name is HotReloadOff.
//
// Parameters:
//   - name: "off", "stat" or "fsnotify"
//
// Returns:
//   - HotReloadMode: the mode
//   - error: an error if the name is unknown
func ParseHotReloadMode(name string) (HotReloadMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "off":
		return HotReloadOff, nil
	case "stat":
		return HotReloadStat, nil
	case "fsnotify":
		return HotReloadFSNotify, nil
	}
	return HotReloadOff, fmt.Errorf("unknown hot reload mode %q", name)
}

func (r *renderer) Update() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reloadPrograms()
	r.updateShadowCamera()
}

// reloadPrograms recompiles the registered programs whose sources changed. A program that fails
// to recompile keeps its previous version so the frame still renders.
func (r *renderer) reloadPrograms() {
	if r.hotReload == HotReloadOff {
		return
	}

	var changed map[string]struct{}
	if r.hotReload == HotReloadFSNotify && r.watcher != nil {
		changed = r.watcher.Drain()
		if len(changed) == 0 {
			return
		}
	}

	programs := slices.SortedFunc(maps.Keys(r.programs), func(a, b program.Program) int {
		return cmp.Compare(a.Name(), b.Name())
	})
	for _, p := range programs {
		if changed != nil && !slices.ContainsFunc(p.Files(), func(f string) bool {
			_, ok := changed[f]
			return ok
		}) {
			continue
		}
		if !p.SourcesModified() {
			continue
		}
		r.reloadProgram(p)
	}
}

func (r *renderer) reloadProgram(p program.Program) {
	fresh, err := p.Recompile()
	if err != nil {
		r.logger.Error("program reload failed, keeping the previous version", "program", p.Name(), "error", err)
		return
	}

	old := blockNames(p)
	p.ReplaceWith(fresh)
	r.registerBlocks(p)
	r.watchProgram(p)
	r.releaseUnusedBlocks(old)

	for _, q := range r.queues {
		for _, rn := range q.renderables {
			if rn.Material().Program() == p {
				r.checkLayout(rn, p)
			}
		}
	}
	r.logger.Info("program reloaded", "program", p.Name(), "handle", p.Handle())
}
