// Package errors provides error formatting infrastructure for schema
// validation errors. It separates error formatting from domain logic,
// allowing errors to be rendered in multiple formats (text, JSON) for
// different consumers (CLI, editors, CI pipelines).
//
// The package defines a Formatter interface and provides two
// implementations:
//   - TextFormatter: plain text, one error per block, with the
//     offending formula echoed under syntax errors
//   - JSONFormatter: structured JSON for tooling
//
// Domain-specific error types remain in the schema package; this
// package handles the presentation layer.
package errors

import (
	"encoding/json"
	"strings"

	"github.com/roelvdberg/rekenblad/formula"
	"github.com/roelvdberg/rekenblad/schema"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// TextFormatter formats errors as plain text. Syntax errors get their
// formula echoed with a caret, unstyled so output stays pipeable.
type TextFormatter struct{}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format formats a single error.
func (tf *TextFormatter) Format(err error) string {
	if e, ok := err.(*schema.FormulaSyntaxError); ok && e.Err != nil && e.Err.Source != "" {
		var buf strings.Builder
		buf.WriteString(e.Error())
		buf.WriteByte('\n')
		buf.WriteString("  ")
		buf.WriteString(formula.Marker + e.Err.Source)
		if e.Err.Column > 0 {
			buf.WriteByte('\n')
			buf.WriteString("  ")
			buf.WriteString(strings.Repeat(" ", len(formula.Marker)+e.Err.Column-1))
			buf.WriteString("^")
		}
		return buf.String()
	}

	return err.Error()
}

// FormatAll formats multiple errors separated by blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = tf.Format(err)
	}
	return strings.Join(parts, "\n\n")
}

// JSONFormatter formats errors as structured JSON.
type JSONFormatter struct {
	// Indent pretty-prints the output.
	Indent bool
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// errorRecord is the wire shape of one formatted error.
type errorRecord struct {
	Type     string   `json:"type"`
	ColumnID string   `json:"column_id,omitempty"`
	Formula  string   `json:"formula,omitempty"`
	Position int      `json:"position,omitempty"`
	Cycle    []string `json:"cycle,omitempty"`
	Message  string   `json:"message"`
}

// Format formats a single error as a JSON object.
func (jf *JSONFormatter) Format(err error) string {
	return jf.marshal(toRecord(err))
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	records := make([]errorRecord, len(errs))
	for i, err := range errs {
		records[i] = toRecord(err)
	}
	return jf.marshal(records)
}

func (jf *JSONFormatter) marshal(v interface{}) string {
	var data []byte
	var err error
	if jf.Indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return `{"type":"internal","message":"error formatting failed"}`
	}
	return string(data)
}

func toRecord(err error) errorRecord {
	switch e := err.(type) {
	case *schema.FormulaSyntaxError:
		record := errorRecord{
			Type:     "syntax",
			ColumnID: e.ColumnID,
			Formula:  e.Formula,
			Message:  e.Error(),
		}
		if e.Err != nil {
			record.Position = e.Err.Column
		}
		return record

	case *schema.UnknownReferenceError:
		return errorRecord{Type: "unknown_reference", ColumnID: e.GetColumnID(), Message: e.Error()}

	case *schema.UnknownFunctionError:
		return errorRecord{Type: "unknown_function", ColumnID: e.GetColumnID(), Message: e.Error()}

	case *schema.FunctionArityError:
		return errorRecord{Type: "function_arity", ColumnID: e.GetColumnID(), Message: e.Error()}

	case *schema.InvalidColumnError:
		return errorRecord{Type: "invalid_column", ColumnID: e.GetColumnID(), Message: e.Error()}

	case *schema.InvalidFooterError:
		return errorRecord{Type: "invalid_footer", Message: e.Error()}

	case *schema.CycleError:
		return errorRecord{Type: "cycle", Cycle: e.ColumnIDs, Message: e.Error()}
	}

	return errorRecord{Type: "error", Message: err.Error()}
}
