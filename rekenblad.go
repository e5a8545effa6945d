// Package rekenblad is a template-driven calculation engine for
// tabular documents such as trip logs and invoices. Templates declare
// typed columns whose formulas reference other columns by id; the
// engine orders them by dependency, evaluates each row, reduces footer
// totals, and can export the whole document as an xlsx workbook whose
// native formulas recalculate to the same values.
//
// This package is a thin facade over the subpackages for callers that
// just want to validate, evaluate or export a document:
//
//	doc, err := rekenblad.LoadDocument(ctx, "maart-2026.json")
//	rows, totals, err := rekenblad.Evaluate(doc)
//	buf, err := rekenblad.Export(doc)
//
// The subpackages expose the full surface: schema (templates,
// documents, validation), formula (lexing and parsing), engine
// (evaluation and aggregation), export (xlsx compilation), format
// (display formatting) and loader (JSON IO).
package rekenblad

import (
	"bytes"
	"context"

	"github.com/roelvdberg/rekenblad/engine"
	"github.com/roelvdberg/rekenblad/export"
	"github.com/roelvdberg/rekenblad/loader"
	"github.com/roelvdberg/rekenblad/schema"
)

// LoadDocument reads and validates a document file.
func LoadDocument(ctx context.Context, filename string) (*schema.Document, error) {
	return loader.New().LoadDocument(ctx, filename)
}

// LoadTemplate reads and validates a template file.
func LoadTemplate(ctx context.Context, filename string) (*schema.Template, error) {
	return loader.New().LoadTemplate(ctx, filename)
}

// Evaluate compiles a document, evaluates every row in dependency
// order and reduces the footer totals. The document is not mutated.
func Evaluate(doc *schema.Document) ([]map[string]engine.Value, *engine.Totals, error) {
	evaluator, err := engine.ForDocument(doc)
	if err != nil {
		return nil, nil, err
	}

	rows := evaluator.Rows(doc.Rows)
	totals := engine.Aggregate(&doc.Footer, rows)
	return rows, totals, nil
}

// Export renders a document as an xlsx workbook in memory.
func Export(doc *schema.Document) (*bytes.Buffer, error) {
	return export.Buffer(doc)
}
