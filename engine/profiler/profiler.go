package profiler

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer"
)

// Profiler tracks frame rate, renderer work and memory statistics for performance monitoring.
// Outputs stats to the logger at a configurable interval.
type Profiler struct {
	logger         *slog.Logger
	now            func() time.Time
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	drawCalls    int
	programBinds int
	passes       int
	last         Report
}

// Report is the summary of one update interval.
type Report struct {
	// FPS is the average frame rate over the interval.
	FPS float64

	// FrameTime is the average duration of a frame.
	FrameTime time.Duration

	// DrawCalls, ProgramBinds and Passes are averaged per frame.
	DrawCalls    float64
	ProgramBinds float64
	Passes       float64

	// HeapMB is the live heap, AllocRateMB the allocation churn per second.
	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options for the logger, interval and clock
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		logger:         slog.Default(),
		now:            time.Now,
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame with the statistics of the frame just rendered.
// Logs performance statistics when the update interval has elapsed.
//
// Parameters:
//   - stats: the renderer's statistics of the frame
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(stats renderer.FrameStats) bool {
	p.frameCount++
	p.drawCalls += stats.DrawCalls
	p.programBinds += stats.ProgramBinds
	p.passes += stats.Passes

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	frames := float64(p.frameCount)
	p.last = Report{
		FPS:          frames / elapsed.Seconds(),
		FrameTime:    elapsed / time.Duration(p.frameCount),
		DrawCalls:    float64(p.drawCalls) / frames,
		ProgramBinds: float64(p.programBinds) / frames,
		Passes:       float64(p.passes) / frames,
		HeapMB:       float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:  float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:      p.memStats.NumGC - p.lastGCCount,
	}

	p.logger.Info("frame statistics",
		slog.Uint64("frame", stats.Frame),
		slog.Float64("fps", p.last.FPS),
		slog.Duration("frame_time", p.last.FrameTime),
		slog.Float64("draw_calls", p.last.DrawCalls),
		slog.Float64("program_binds", p.last.ProgramBinds),
		slog.Float64("passes", p.last.Passes),
		slog.Float64("heap_mb", p.last.HeapMB),
		slog.Float64("alloc_rate_mb", p.last.AllocRateMB),
		slog.Uint64("gc", uint64(p.last.GCCount)),
	)

	p.frameCount = 0
	p.drawCalls, p.programBinds, p.passes = 0, 0, 0
	p.lastTime = currentTime
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the report of the most recent interval, zero before the first one elapsed.
func (p *Profiler) Last() Report {
	return p.last
}
