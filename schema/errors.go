package schema

import (
	"fmt"
	"strings"

	"github.com/roelvdberg/rekenblad/formula"
)

// Validation error types. All of these are raised when a template (or a
// document's column snapshot) is compiled, which happens at save time.
// None of them can occur while evaluating rows.

// FormulaSyntaxError wraps a parse error with the column it belongs to.
type FormulaSyntaxError struct {
	ColumnID string
	Formula  string
	Err      *formula.ParseError
}

func (e *FormulaSyntaxError) Error() string {
	return fmt.Sprintf("column %q: invalid formula: %s", e.ColumnID, e.Err.Error())
}

func (e *FormulaSyntaxError) Unwrap() error {
	return e.Err
}

func (e *FormulaSyntaxError) GetColumnID() string {
	return e.ColumnID
}

// GetFormula returns the offending formula text for error rendering.
func (e *FormulaSyntaxError) GetFormula() string {
	return e.Formula
}

// UnknownReferenceError is returned when a formula references a name
// that is neither a column id nor a rate name.
type UnknownReferenceError struct {
	ColumnID  string
	Reference string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("column %q: formula references unknown name %q", e.ColumnID, e.Reference)
}

func (e *UnknownReferenceError) GetColumnID() string {
	return e.ColumnID
}

// UnknownFunctionError is returned when a formula calls a function the
// engine cannot execute. Catalog-only autocomplete names fail too.
type UnknownFunctionError struct {
	ColumnID string
	Function string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("column %q: formula calls unsupported function %q", e.ColumnID, e.Function)
}

func (e *UnknownFunctionError) GetColumnID() string {
	return e.ColumnID
}

// FunctionArityError is returned when a fixed-arity function is called
// with the wrong number of arguments.
type FunctionArityError struct {
	ColumnID string
	Function string
	Want     int
	Got      int
}

func (e *FunctionArityError) Error() string {
	return fmt.Sprintf("column %q: %s expects %d argument(s), got %d",
		e.ColumnID, e.Function, e.Want, e.Got)
}

func (e *FunctionArityError) GetColumnID() string {
	return e.ColumnID
}

// InvalidColumnError is returned for structural column problems:
// bad ids, duplicates, or an editable/calculated mismatch.
type InvalidColumnError struct {
	ColumnID string
	Reason   string
}

func (e *InvalidColumnError) Error() string {
	return fmt.Sprintf("column %q: %s", e.ColumnID, e.Reason)
}

func (e *InvalidColumnError) GetColumnID() string {
	return e.ColumnID
}

// InvalidFooterError is returned when the footer config names a column
// that does not exist or cannot be summed.
type InvalidFooterError struct {
	ColumnID string
	Reason   string
}

func (e *InvalidFooterError) Error() string {
	return fmt.Sprintf("footer: column %q %s", e.ColumnID, e.Reason)
}

// CycleError is returned when calculated columns form a circular
// dependency. ColumnIDs holds the cycle in reference order, with the
// starting column repeated at the end.
type CycleError struct {
	ColumnIDs []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency between calculated columns: %s",
		strings.Join(e.ColumnIDs, " -> "))
}

// ValidationErrors aggregates everything wrong with a template so a
// template editor can show all problems at once instead of the first.
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("template validation failed with %d errors", len(e.Errors))
}

// Constructor functions keep field initialization consistent.

func newFormulaSyntaxError(columnID, source string, err *formula.ParseError) *FormulaSyntaxError {
	return &FormulaSyntaxError{ColumnID: columnID, Formula: source, Err: err}
}

func newUnknownReferenceError(columnID, ref string) *UnknownReferenceError {
	return &UnknownReferenceError{ColumnID: columnID, Reference: ref}
}

func newUnknownFunctionError(columnID, fn string) *UnknownFunctionError {
	return &UnknownFunctionError{ColumnID: columnID, Function: fn}
}

func newInvalidColumnError(columnID, reason string) *InvalidColumnError {
	return &InvalidColumnError{ColumnID: columnID, Reason: reason}
}
