package telemetry

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestTimingCollectorBuildsTree(t *testing.T) {
	c := NewTimingCollector()

	root := c.Start("evaluate trips.json")
	load := root.Child("load document")
	load.End()
	eval := root.Child("evaluate rows")
	inner := eval.Child("compile columns")
	inner.End()
	eval.End()
	root.End()

	var buf strings.Builder
	c.Report(&buf, nil)
	report := buf.String()

	lines := strings.Split(strings.TrimRight(report, "\n"), "\n")
	assert.Equal(t, 4, len(lines))

	assert.True(t, strings.HasPrefix(lines[0], "evaluate trips.json: "))
	assert.True(t, strings.HasPrefix(lines[1], "├─ load document: "))
	assert.True(t, strings.HasPrefix(lines[2], "└─ evaluate rows: "))
	assert.True(t, strings.HasPrefix(lines[3], "   └─ compile columns: "))
}

func TestStartNestsUnderOpenTimer(t *testing.T) {
	c := NewTimingCollector()

	root := c.Start("root")
	c.Start("nested").End()
	root.End()

	var buf strings.Builder
	c.Report(&buf, nil)

	assert.True(t, strings.Contains(buf.String(), "└─ nested: "))
}

func TestEmptyCollectorReportsNothing(t *testing.T) {
	var buf strings.Builder
	NewTimingCollector().Report(&buf, nil)
	assert.Equal(t, "", buf.String())
}

func TestFromContextDefaultsToNoop(t *testing.T) {
	ctx := context.Background()

	// No collector on the context: everything is callable and silent.
	collector := FromContext(ctx)
	timer := collector.Start("anything")
	timer.Child("nested").End()
	timer.End()

	var buf strings.Builder
	collector.Report(&buf, nil)
	assert.Equal(t, "", buf.String())

	RootTimerFromContext(ctx).End()
}

func TestContextRoundTrip(t *testing.T) {
	c := NewTimingCollector()
	ctx := WithCollector(context.Background(), c)

	assert.Equal[Collector](t, c, FromContext(ctx))

	timer := c.Start("root")
	ctx = WithRootTimer(ctx, timer)
	assert.Equal(t, timer, RootTimerFromContext(ctx))
	timer.End()
}
