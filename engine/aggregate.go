package engine

import (
	"github.com/shopspring/decimal"

	"github.com/roelvdberg/rekenblad/schema"
)

var hundred = decimal.NewFromInt(100)

// Totals holds a document's footer aggregates.
//
// Sums has one entry per summed column id. The invoice fields are only
// meaningful when HasInvoice is set (the footer asked for a subtotal or
// VAT line).
type Totals struct {
	Sums       map[string]decimal.Decimal
	Subtotal   decimal.Decimal
	VAT        decimal.Decimal
	Total      decimal.Decimal
	HasInvoice bool
}

// Aggregate reduces already-evaluated rows into footer totals. It is a
// pure reduction: the row evaluator never re-runs here, and a Null cell
// counts as zero.
//
// For invoice footers, subtotal is the sum of the footer's subtotal
// column across all rows, VAT is subtotal × percentage / 100 rounded to
// cents, and the grand total is their sum.
func Aggregate(footer *schema.FooterConfig, rows []map[string]Value) *Totals {
	totals := &Totals{
		Sums: make(map[string]decimal.Decimal, len(footer.SummedColumnIDs)),
	}

	for _, id := range footer.SummedColumnIDs {
		totals.Sums[id] = sumColumn(rows, id)
	}

	if footer.ShowSubtotal || footer.ShowVAT {
		totals.HasInvoice = true

		subtotalColumn := footer.SubtotalColumn()
		if sum, ok := totals.Sums[subtotalColumn]; ok {
			totals.Subtotal = sum
		} else {
			totals.Subtotal = sumColumn(rows, subtotalColumn)
		}

		if footer.ShowVAT {
			totals.VAT = totals.Subtotal.Mul(footer.VATPercentage).Div(hundred).Round(2)
		}
		totals.Total = totals.Subtotal.Add(totals.VAT)
	}

	return totals
}

// sumColumn reduces one column over all rows with the same semantics as
// the SUM builtin: blanks are skipped, everything else adds up.
func sumColumn(rows []map[string]Value, columnID string) decimal.Decimal {
	values := make([]Value, len(rows))
	for i, row := range rows {
		values[i] = row[columnID]
	}
	return sumValues(values)
}
