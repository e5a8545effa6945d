package schema

import (
	"github.com/shopspring/decimal"
)

// FooterConfig configures the totals rendered under a document's rows.
//
// SummedColumnIDs must name numeric-like columns of the same template.
// When ShowSubtotal is set, the subtotal is the footer sum of
// SubtotalColumnID; when that is empty it defaults to the last entry of
// SummedColumnIDs (the rightmost total column).
type FooterConfig struct {
	ShowSubtotal     bool            `json:"show_subtotal"`
	ShowVAT          bool            `json:"show_vat"`
	VATPercentage    decimal.Decimal `json:"vat_percentage"`
	SummedColumnIDs  []string        `json:"summed_column_ids"`
	SubtotalColumnID string          `json:"subtotal_column_id,omitempty"`
}

// Styling carries table-wide presentation attributes, passed through to
// the UI grid and the export writer without interpretation.
type Styling struct {
	HeaderColor    string `json:"header_color,omitempty"`
	HeaderTextTint string `json:"header_text_tint,omitempty"`
	RowColor       string `json:"row_color,omitempty"`
	AltRowColor    string `json:"alt_row_color,omitempty"`
}

// Template is an ordered set of columns plus footer, styling and rate
// defaults. Column order is display order and also the left-to-right
// cell order the export compiler assigns letters by.
type Template struct {
	ID       string                     `json:"id"`
	Name     string                     `json:"name"`
	Columns  []Column                   `json:"columns"`
	Footer   FooterConfig               `json:"footer"`
	Styling  Styling                    `json:"styling"`
	Defaults map[string]decimal.Decimal `json:"defaults,omitempty"`
}

// Column returns the column with the given id, or nil.
func (t *Template) Column(id string) *Column {
	for i := range t.Columns {
		if t.Columns[i].ID == id {
			return &t.Columns[i]
		}
	}
	return nil
}

// SubtotalColumn resolves the column id the invoice subtotal sums over.
// Returns "" when the footer has no summed columns at all.
func (f *FooterConfig) SubtotalColumn() string {
	if f.SubtotalColumnID != "" {
		return f.SubtotalColumnID
	}
	if len(f.SummedColumnIDs) > 0 {
		return f.SummedColumnIDs[len(f.SummedColumnIDs)-1]
	}
	return ""
}

// cloneColumns deep-copies a column slice, including styles, so a
// document snapshot never aliases live template state.
func cloneColumns(cols []Column) []Column {
	out := make([]Column, len(cols))
	copy(out, cols)
	for i := range out {
		if cols[i].Style != nil {
			style := *cols[i].Style
			out[i].Style = &style
		}
	}
	return out
}

// cloneRates copies a rate map.
func cloneRates(rates map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(rates))
	for name, rate := range rates {
		out[name] = rate
	}
	return out
}
