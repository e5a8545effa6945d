// Package loader reads templates and documents from JSON files and
// validates them on load. A record that passes the loader compiles:
// its formulas parse, its references resolve, and its dependency graph
// is acyclic.
//
// The loader supports two modes of operation:
//   - Validating mode (default): the record is compiled after decoding
//     and schema errors surface immediately, with their column context
//   - Raw mode: the record is only decoded, for tools that want to
//     inspect or repair a broken file
//
// Example usage:
//
//	ldr := loader.New()
//	doc, err := ldr.LoadDocument(ctx, "maart-2026.json")
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/roelvdberg/rekenblad/schema"
)

// Loader reads and validates template and document JSON.
type Loader struct {
	// SkipValidation decodes without compiling. Evaluation and export
	// still compile on their own, so a broken record fails there.
	SkipValidation bool
}

// Option configures how records are loaded.
type Option func(*Loader)

// WithoutValidation configures the loader to decode only, skipping the
// compile step. Useful for tools that inspect or migrate broken files.
func WithoutValidation() Option {
	return func(l *Loader) {
		l.SkipValidation = true
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// LoadError wraps decode and IO failures with the offending filename.
// Validation failures are returned unwrapped so callers can render
// them with column context.
type LoadError struct {
	Filename string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Filename, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadTemplate reads and validates a template file.
func (l *Loader) LoadTemplate(ctx context.Context, filename string) (*schema.Template, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, &LoadError{Filename: filename, Err: err}
	}
	return l.LoadTemplateBytes(ctx, filename, data)
}

// LoadTemplateBytes decodes and validates template JSON. The filename
// is only used in error messages.
func (l *Loader) LoadTemplateBytes(_ context.Context, filename string, data []byte) (*schema.Template, error) {
	var tpl schema.Template
	if err := decodeStrict(data, &tpl); err != nil {
		return nil, &LoadError{Filename: filename, Err: err}
	}

	if !l.SkipValidation {
		if _, err := tpl.Compile(); err != nil {
			return nil, err
		}
	}

	return &tpl, nil
}

// LoadDocument reads and validates a document file.
func (l *Loader) LoadDocument(ctx context.Context, filename string) (*schema.Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, &LoadError{Filename: filename, Err: err}
	}
	return l.LoadDocumentBytes(ctx, filename, data)
}

// LoadDocumentBytes decodes and validates document JSON.
func (l *Loader) LoadDocumentBytes(_ context.Context, filename string, data []byte) (*schema.Document, error) {
	var doc schema.Document
	if err := decodeStrict(data, &doc); err != nil {
		return nil, &LoadError{Filename: filename, Err: err}
	}

	if !l.SkipValidation {
		if _, err := doc.Compile(); err != nil {
			return nil, err
		}
	}

	return &doc, nil
}

// IsDocument reports whether the JSON looks like a document rather
// than a bare template. Documents carry a column snapshot; templates
// carry live columns.
func IsDocument(data []byte) bool {
	var probe struct {
		Snapshot json.RawMessage `json:"template_snapshot"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return len(probe.Snapshot) > 0
}

// SaveDocument writes a document as indented JSON. The write is not
// atomic; callers that need crash safety should write to a temp file
// and rename.
func SaveDocument(filename string, doc *schema.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &LoadError{Filename: filename, Err: err}
	}
	data = append(data, '\n')

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return &LoadError{Filename: filename, Err: err}
	}
	return nil
}

// decodeStrict decodes JSON rejecting unknown fields, so a typo'd
// field name fails loudly instead of silently dropping configuration.
func decodeStrict(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
