package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Check  CheckCmd  `cmd:"" help:"Validate a template or document file."`
	Eval   EvalCmd   `cmd:"" help:"Evaluate a document and print the calculated grid."`
	Export ExportCmd `cmd:"" help:"Export a document as an xlsx workbook with live formulas."`
	Init   InitCmd   `cmd:"" help:"Create a new document from a built-in template."`
	Doctor DoctorCmd `cmd:"" help:"Doctor utilities for debugging formulas."`
}
