package telemetry

import (
	"io"

	"github.com/roelvdberg/rekenblad/output"
)

// noOpCollector discards everything. It is the default when no
// collector is on the context, so instrumented code pays nothing when
// telemetry is off.
type noOpCollector struct{}

func (noOpCollector) Start(name string) Timer {
	return noOpTimer{}
}

func (noOpCollector) Report(w io.Writer, styles *output.Styles) {}

type noOpTimer struct{}

func (noOpTimer) End() {}

func (noOpTimer) Child(name string) Timer {
	return noOpTimer{}
}
