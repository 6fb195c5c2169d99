package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func TestProfilerReportsOncePerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var buf bytes.Buffer
	p := NewProfiler(
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		WithClock(clock.now),
	)

	for i := range 3 {
		clock.t = clock.t.Add(250 * time.Millisecond)
		assert.False(t, p.Tick(renderer.FrameStats{Frame: uint64(i + 1), DrawCalls: 10, Passes: 5, ProgramBinds: 2}))
	}
	assert.Empty(t, buf.String())

	clock.t = clock.t.Add(250 * time.Millisecond)
	assert.True(t, p.Tick(renderer.FrameStats{Frame: 4, DrawCalls: 14, Passes: 5, ProgramBinds: 2}))

	r := p.Last()
	assert.InDelta(t, 4.0, r.FPS, 1e-9)
	assert.Equal(t, 250*time.Millisecond, r.FrameTime)
	assert.InDelta(t, 11.0, r.DrawCalls, 1e-9)
	assert.InDelta(t, 5.0, r.Passes, 1e-9)
	assert.InDelta(t, 2.0, r.ProgramBinds, 1e-9)
	assert.Contains(t, buf.String(), "frame statistics")
	assert.Contains(t, buf.String(), "draw_calls=11")
}

func TestProfilerResetsAfterReport(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithLogger(slog.New(slog.DiscardHandler)), WithClock(clock.now), WithInterval(time.Second))

	clock.t = clock.t.Add(time.Second)
	assert.True(t, p.Tick(renderer.FrameStats{DrawCalls: 100}))

	clock.t = clock.t.Add(500 * time.Millisecond)
	assert.False(t, p.Tick(renderer.FrameStats{DrawCalls: 1}))
	clock.t = clock.t.Add(500 * time.Millisecond)
	assert.True(t, p.Tick(renderer.FrameStats{DrawCalls: 3}))
	assert.InDelta(t, 2.0, p.Last().DrawCalls, 1e-9)
	assert.InDelta(t, 2.0, p.Last().FPS, 1e-9)
}
