package export

import "fmt"

// RowLimitError is returned when a document has more rows than the
// spreadsheet format can address. No partial file is produced.
type RowLimitError struct {
	Rows  int
	Limit int
}

func (e *RowLimitError) Error() string {
	return fmt.Sprintf("document has %d rows, exceeding the %d-row sheet limit", e.Rows, e.Limit)
}

// CompileError is returned when a formula cannot be rendered as a
// native spreadsheet formula. With a validated template this cannot
// happen; it exists so a compiler/evaluator mismatch fails loudly at
// export time instead of producing a corrupt file.
type CompileError struct {
	ColumnID string
	Reason   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("cannot compile formula for column %q: %s", e.ColumnID, e.Reason)
}
