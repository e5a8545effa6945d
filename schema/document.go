package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// Row maps editable column ids to raw values as they round-trip through
// JSON: string, float64 or nil. Calculated values are never stored in a
// row; they are re-derived on every evaluation.
type Row map[string]interface{}

// Metadata identifies a document on exports (header rows) and in lists.
type Metadata struct {
	Name      string    `json:"name,omitempty"`
	Company   string    `json:"company,omitempty"`
	Reference string    `json:"reference,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Document is one spreadsheet or invoice instance.
//
// TemplateSnapshot is a frozen copy of the template's columns captured
// at creation time. Editing the template afterwards must not change
// documents that already exist, so the snapshot is the only column set
// a document ever evaluates or exports against. The same goes for the
// footer and styling snapshots.
type Document struct {
	ID         string                     `json:"id"`
	TemplateID string                     `json:"template_id,omitempty"`
	Snapshot   []Column                   `json:"template_snapshot"`
	Footer     FooterConfig               `json:"footer"`
	Styling    Styling                    `json:"styling"`
	Rows       []Row                      `json:"rows"`
	Rates      map[string]decimal.Decimal `json:"rate_overrides"`
	Meta       Metadata                   `json:"metadata"`
}

// NewDocument creates a document from a template, snapshotting its
// columns, footer, styling and rate defaults at this instant.
func NewDocument(id string, t *Template) *Document {
	return &Document{
		ID:         id,
		TemplateID: t.ID,
		Snapshot:   cloneColumns(t.Columns),
		Footer:     t.Footer,
		Styling:    t.Styling,
		Rows:       []Row{},
		Rates:      cloneRates(t.Defaults),
		Meta:       Metadata{Name: t.Name, CreatedAt: time.Now()},
	}
}

// SetRate overrides a document-level rate constant.
func (d *Document) SetRate(name string, rate decimal.Decimal) {
	if d.Rates == nil {
		d.Rates = make(map[string]decimal.Decimal)
	}
	d.Rates[name] = rate
}

// AppendRow adds a row to the end of the document.
func (d *Document) AppendRow(row Row) {
	d.Rows = append(d.Rows, row)
}

// RemoveRow deletes the row at index i. Out-of-range indexes are a no-op.
func (d *Document) RemoveRow(i int) {
	if i < 0 || i >= len(d.Rows) {
		return
	}
	d.Rows = append(d.Rows[:i], d.Rows[i+1:]...)
}

// Compile validates and compiles the document's column snapshot against
// its own rates. A document created from a valid template stays
// compilable regardless of later template edits.
func (d *Document) Compile() (*Compiled, error) {
	return CompileColumns(d.Snapshot, d.Rates, &d.Footer)
}
