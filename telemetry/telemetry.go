// Package telemetry provides hierarchical timing collection for
// engine operations. Compile, evaluate and export phases report their
// durations in a tree so slow documents can be diagnosed.
//
// Collectors travel through context, so instrumentation never changes
// function signatures. Without a collector on the context, timing calls
// are no-ops.
//
// Example usage:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := collector.Start("evaluate document")
//	defer timer.End()
//
//	childTimer := timer.Child("compile columns")
//	// ... work ...
//	childTimer.End()
//
//	collector.Report(os.Stderr, nil)
package telemetry

import (
	"context"
	"io"

	"github.com/roelvdberg/rekenblad/output"
)

type collectorContextKey struct{}
type rootTimerContextKey struct{}

var (
	collectorKey = collectorContextKey{}
	rootTimerKey = rootTimerContextKey{}
)

// Collector collects telemetry data. The only implementation that
// records anything is TimingCollector; the zero default discards.
type Collector interface {
	// Start begins timing an operation. End the returned timer when
	// the operation completes.
	Start(name string) Timer

	// Report writes the collected telemetry. Styles may be nil for
	// plain output.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks a single operation. Timers nest via Child.
type Timer interface {
	// End stops the timer and records the duration.
	End()

	// Child creates a nested timer under this one.
	Child(name string) Timer
}

// WithCollector adds a collector to a context.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext extracts the collector from a context. Without one, a
// no-op collector is returned so callers never nil-check.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

// WithRootTimer stores the command-level timer so nested phases can
// attach their timings under it.
func WithRootTimer(ctx context.Context, timer Timer) context.Context {
	return context.WithValue(ctx, rootTimerKey, timer)
}

// RootTimerFromContext returns the command-level timer, or a no-op
// timer when telemetry is disabled.
func RootTimerFromContext(ctx context.Context) Timer {
	if timer, ok := ctx.Value(rootTimerKey).(Timer); ok {
		return timer
	}
	return noOpTimer{}
}
