package schema

import "github.com/shopspring/decimal"

// Default templates shipped with the application. Each call constructs
// a fresh value so callers can never mutate shared state; templates are
// plain data, not singletons.

// Default rate names referenced by the trip-log formulas.
const (
	RateHourly    = "tarief_per_uur"
	RatePerKM     = "tarief_per_km"
	RateDOT       = "tarief_dot"
	RateSurcharge = "weekend_toeslag"
)

// DefaultTripLog returns the standard trip registration template: time
// and odometer inputs with a chain of calculated columns ending in the
// per-row total. The calculated columns deliberately depend on columns
// declared before and after them; evaluation order comes from the
// dependency graph, not the declaration order.
func DefaultTripLog() *Template {
	return &Template{
		ID:   "rittenregistratie",
		Name: "Rittenregistratie",
		Columns: []Column{
			{ID: "datum", Name: "Datum", Type: TypeDate, Width: 12, Visible: true, Editable: true},
			{ID: "begin_tijd", Name: "Begintijd", Type: TypeTimeDecimal, Width: 9, Visible: true, Editable: true},
			{ID: "eind_tijd", Name: "Eindtijd", Type: TypeTimeDecimal, Width: 9, Visible: true, Editable: true},
			{ID: "pauze", Name: "Pauze", Type: TypeTimeDecimal, Width: 8, Visible: true, Editable: true},
			{ID: "correctie", Name: "Correctie", Type: TypeTimeDecimal, Width: 8, Visible: true, Editable: true},
			{ID: "totaal_tijd", Name: "Totaal tijd", Type: TypeCalculated, Width: 10, Visible: true,
				Formula: "=eind_tijd - begin_tijd", Display: DisplayClock},
			{ID: "totaal_uren", Name: "Totaal uren", Type: TypeCalculated, Width: 10, Visible: true,
				Formula: "=totaal_tijd - pauze - correctie", Display: DisplayClock},
			{ID: "begin_km", Name: "Begin km", Type: TypeNumber, Width: 10, Visible: true, Editable: true},
			{ID: "eind_km", Name: "Eind km", Type: TypeNumber, Width: 10, Visible: true, Editable: true},
			{ID: "totaal_km", Name: "Totaal km", Type: TypeCalculated, Width: 10, Visible: true,
				Formula: "=eind_km - begin_km"},
			{ID: "bedrag_uur", Name: "Bedrag uren", Type: TypeCalculated, Width: 11, Visible: true,
				Formula: "=IF(WEEKDAY(datum)=7, weekend_toeslag, 1) * totaal_uren * tarief_per_uur",
				Display: DisplayCurrency, Style: &Style{Alignment: "right"}},
			{ID: "bedrag_km", Name: "Bedrag km", Type: TypeCalculated, Width: 11, Visible: true,
				Formula: "=totaal_km * tarief_per_km",
				Display: DisplayCurrency, Style: &Style{Alignment: "right"}},
			{ID: "subtotaal", Name: "Subtotaal", Type: TypeCalculated, Width: 11, Visible: true,
				Formula: "=bedrag_uur + bedrag_km", Display: DisplayCurrency},
			{ID: "dot", Name: "DOT", Type: TypeCalculated, Width: 9, Visible: true,
				Formula: "=totaal_km * tarief_dot", Display: DisplayCurrency},
			{ID: "overnachting", Name: "Overnachting", Type: TypeCurrency, Width: 11, Visible: true, Editable: true},
			{ID: "overige_kosten", Name: "Overige kosten", Type: TypeCurrency, Width: 12, Visible: true, Editable: true},
			{ID: "rij_totaal", Name: "Totaal", Type: TypeCalculated, Width: 12, Visible: true,
				Formula: "=subtotaal + dot + overnachting + overige_kosten",
				Display: DisplayCurrency, Style: &Style{FontWeight: "bold", Alignment: "right"}},
		},
		Footer: FooterConfig{
			SummedColumnIDs: []string{"totaal_uren", "totaal_km", "bedrag_uur", "bedrag_km", "rij_totaal"},
		},
		Styling: Styling{
			HeaderColor:    "1F4E78",
			HeaderTextTint: "FFFFFF",
			AltRowColor:    "F2F6FA",
		},
		Defaults: map[string]decimal.Decimal{
			RateHourly:    decimal.RequireFromString("27.50"),
			RatePerKM:     decimal.RequireFromString("0.23"),
			RateDOT:       decimal.RequireFromString("0.05"),
			RateSurcharge: decimal.RequireFromString("1.3"),
		},
	}
}

// DefaultInvoice returns the standard invoice template: description,
// quantity and unit price per line, with a calculated line total and a
// footer carrying subtotal, VAT and grand total.
func DefaultInvoice() *Template {
	return &Template{
		ID:   "factuur",
		Name: "Factuur",
		Columns: []Column{
			{ID: "omschrijving", Name: "Omschrijving", Type: TypeText, Width: 40, Visible: true, Editable: true},
			{ID: "aantal", Name: "Aantal", Type: TypeNumber, Width: 8, Visible: true, Editable: true},
			{ID: "prijs_per_stuk", Name: "Prijs per stuk", Type: TypeCurrency, Width: 12, Visible: true, Editable: true},
			{ID: "regel_totaal", Name: "Totaal", Type: TypeCalculated, Width: 12, Visible: true,
				Formula: "=aantal * prijs_per_stuk",
				Display: DisplayCurrency, Style: &Style{FontWeight: "bold", Alignment: "right"}},
		},
		Footer: FooterConfig{
			ShowSubtotal:    true,
			ShowVAT:         true,
			VATPercentage:   decimal.NewFromInt(21),
			SummedColumnIDs: []string{"regel_totaal"},
		},
		Styling: Styling{
			HeaderColor:    "2F5233",
			HeaderTextTint: "FFFFFF",
		},
	}
}
