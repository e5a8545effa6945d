package export

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/roelvdberg/rekenblad/engine"
	"github.com/roelvdberg/rekenblad/schema"
)

func tripDocument() *schema.Document {
	doc := schema.NewDocument("maart-2026", schema.DefaultTripLog())
	doc.Meta.Name = "Rittenregistratie maart"
	doc.AppendRow(schema.Row{
		"datum": "2026-01-03", "begin_tijd": "08:00", "eind_tijd": "17:30",
		"pauze": 0.5, "correctie": 0, "begin_km": 100, "eind_km": 160,
	})
	doc.AppendRow(schema.Row{
		"datum": "2026-01-07", "begin_tijd": 9.0, "eind_tijd": 17.0,
		"pauze": 0.5, "correctie": 0, "begin_km": 160, "eind_km": 200,
	})
	return doc
}

func TestBuildWritesLiveFormulas(t *testing.T) {
	f, err := Build(tripDocument())
	assert.NoError(t, err)
	defer f.Close()

	// Calculated cells carry formulas, not values.
	formula, err := f.GetCellFormula(sheetName, "F5")
	assert.NoError(t, err)
	assert.Equal(t, "(C5-B5)", formula)

	formula, err = f.GetCellFormula(sheetName, "F6")
	assert.NoError(t, err)
	assert.Equal(t, "(C6-B6)", formula)

	// The hourly amount points at the shared rate and surcharge cells.
	formula, err = f.GetCellFormula(sheetName, "K5")
	assert.NoError(t, err)
	assert.Equal(t, "((IF((WEEKDAY(A5)=7),$T$5,1)*G5)*$T$4)", formula)
}

func TestBuildWritesHeaderAndTitle(t *testing.T) {
	f, err := Build(tripDocument())
	assert.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(sheetName, "A1")
	assert.NoError(t, err)
	assert.Equal(t, "Rittenregistratie maart", title)

	header, err := f.GetCellValue(sheetName, "A4")
	assert.NoError(t, err)
	assert.Equal(t, "Datum", header)

	header, err = f.GetCellValue(sheetName, "Q4")
	assert.NoError(t, err)
	assert.Equal(t, "Totaal", header)
}

func TestBuildWritesRateBlock(t *testing.T) {
	f, err := Build(tripDocument())
	assert.NoError(t, err)
	defer f.Close()

	// Labels in column S, editable values in column T, alphabetical.
	label, err := f.GetCellValue(sheetName, "S2")
	assert.NoError(t, err)
	assert.Equal(t, "tarief_dot", label)

	label, err = f.GetCellValue(sheetName, "S4")
	assert.NoError(t, err)
	assert.Equal(t, "tarief_per_uur", label)

	label, err = f.GetCellValue(sheetName, "S5")
	assert.NoError(t, err)
	assert.Equal(t, "weekend_toeslag", label)

	value, err := f.GetCellValue(sheetName, "T3")
	assert.NoError(t, err)
	assert.Equal(t, "0.23", value)

	value, err = f.GetCellValue(sheetName, "T5")
	assert.NoError(t, err)
	assert.Equal(t, "1.3", value)
}

func TestBuildWritesTotalsRow(t *testing.T) {
	f, err := Build(tripDocument())
	assert.NoError(t, err)
	defer f.Close()

	// Two data rows (5-6), totals on row 7.
	label, err := f.GetCellValue(sheetName, "A7")
	assert.NoError(t, err)
	assert.Equal(t, "Totaal", label)

	formula, err := f.GetCellFormula(sheetName, "J7")
	assert.NoError(t, err)
	assert.Equal(t, "SUM(J5:J6)", formula)
}

func TestBuildInvoiceFooter(t *testing.T) {
	doc := schema.NewDocument("factuur-2026-001", schema.DefaultInvoice())
	doc.Meta.Name = "Factuur 2026-001"
	doc.AppendRow(schema.Row{"omschrijving": "advies", "aantal": 4, "prijs_per_stuk": 25})
	doc.AppendRow(schema.Row{"omschrijving": "reiskosten", "aantal": 1, "prijs_per_stuk": 75})

	f, err := Build(doc)
	assert.NoError(t, err)
	defer f.Close()

	// Line totals are live.
	formula, err := f.GetCellFormula(sheetName, "D5")
	assert.NoError(t, err)
	assert.Equal(t, "(B5*C5)", formula)

	// Data rows 5-6, totals row 7, invoice block from row 9. Labels in
	// column C, amounts in column D.
	label, err := f.GetCellValue(sheetName, "C9")
	assert.NoError(t, err)
	assert.Equal(t, "Subtotaal", label)

	formula, err = f.GetCellFormula(sheetName, "D9")
	assert.NoError(t, err)
	assert.Equal(t, "SUM(D5:D6)", formula)

	label, err = f.GetCellValue(sheetName, "C10")
	assert.NoError(t, err)
	assert.Equal(t, "BTW 21%", label)

	formula, err = f.GetCellFormula(sheetName, "D10")
	assert.NoError(t, err)
	assert.Equal(t, "ROUND(D9*21/100,2)", formula)

	label, err = f.GetCellValue(sheetName, "C11")
	assert.NoError(t, err)
	assert.Equal(t, "Totaal", label)

	formula, err = f.GetCellFormula(sheetName, "D11")
	assert.NoError(t, err)
	assert.Equal(t, "(D9+D10)", formula)
}

// TestWorkbookRecalculatesToEngineValues recomputes every exported
// formula cell and compares it against the evaluator. The compiler and
// the evaluator walk the same trees; this is the check that the two
// walks agree, rather than trusting hand-derived formula strings.
func TestWorkbookRecalculatesToEngineValues(t *testing.T) {
	doc := schema.NewDocument("maart-2026", schema.DefaultTripLog())
	doc.Meta.Name = "Rittenregistratie maart"

	// Every editable cell filled in, so the engine produces a number
	// for every calculated column.
	doc.AppendRow(schema.Row{
		"datum": "2026-01-03", "begin_tijd": "08:00", "eind_tijd": "17:30",
		"pauze": 0.5, "correctie": 0, "begin_km": 100, "eind_km": 160,
		"overnachting": 15, "overige_kosten": 2.5,
	})
	doc.AppendRow(schema.Row{
		"datum": "2026-01-07", "begin_tijd": 9.0, "eind_tijd": 17.0,
		"pauze": 0.5, "correctie": 0.25, "begin_km": 160, "eind_km": 200,
		"overnachting": 0, "overige_kosten": 0,
	})

	f, err := Build(doc)
	assert.NoError(t, err)
	defer f.Close()

	evaluator, err := engine.ForDocument(doc)
	assert.NoError(t, err)
	results := evaluator.Rows(doc.Rows)

	compiled, err := doc.Compile()
	assert.NoError(t, err)

	tolerance := decimal.RequireFromString("0.000001")

	for r, row := range results {
		sheetRow := dataStartRow + r
		for i, col := range compiled.Columns {
			if col.Type != schema.TypeCalculated {
				continue
			}
			cell := CellRef(ColumnLetter(i), sheetRow)

			calc, err := f.CalcCellValue(sheetName, cell, excelize.Options{RawCellValue: true})
			assert.NoError(t, err, "recalculating %s (%s)", cell, col.ID)

			want, ok := row[col.ID].Number()
			assert.True(t, ok, "engine left %s blank", col.ID)

			got, err := decimal.NewFromString(calc)
			assert.NoError(t, err, "%s recalculated to %q", cell, calc)
			assert.True(t, got.Sub(want).Abs().LessThan(tolerance),
				"%s (%s): sheet %s, engine %s", cell, col.ID, got.String(), want.String())
		}
	}
}

// A blank editable cell propagates to a blank calculated value in the
// engine, but the exported sheet keeps the cell empty and native
// arithmetic treats empty as zero: the sheet recalculates to the
// partial sum. The engine stays authoritative; the export favors an
// editable sheet over baking values in.
func TestWorkbookComputesOverBlankCells(t *testing.T) {
	doc := schema.NewDocument("d", schema.DefaultTripLog())
	doc.AppendRow(schema.Row{
		"datum": "2026-01-07", "begin_tijd": 9.0, "eind_tijd": 17.0,
		"pauze": 0.5, "correctie": 0, "begin_km": 0, "eind_km": 40,
		// overnachting and overige_kosten deliberately absent
	})

	evaluator, err := engine.ForDocument(doc)
	assert.NoError(t, err)
	assert.True(t, evaluator.Row(doc.Rows[0])["rij_totaal"].IsNull())

	f, err := Build(doc)
	assert.NoError(t, err)
	defer f.Close()

	calc, err := f.CalcCellValue(sheetName, "Q5", excelize.Options{RawCellValue: true})
	assert.NoError(t, err)

	// 7.5h × 27.50 + 40km × 0.23 + 40km × 0.05, blanks as zero.
	got, err := decimal.NewFromString(calc)
	assert.NoError(t, err)
	assert.True(t, got.Sub(decimal.RequireFromString("217.45")).Abs().
		LessThan(decimal.RequireFromString("0.000001")),
		"sheet recalculated to %s", got.String())
}

func TestBuildEmptyDocumentSkipsFooter(t *testing.T) {
	doc := schema.NewDocument("leeg", schema.DefaultTripLog())

	f, err := Build(doc)
	assert.NoError(t, err)
	defer f.Close()

	// Header is present, no totals row anywhere under it.
	value, err := f.GetCellValue(sheetName, "A5")
	assert.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestBuildRejectsInvalidDocument(t *testing.T) {
	doc := schema.NewDocument("kapot", schema.DefaultTripLog())
	doc.Snapshot[5].Formula = "=eind_tijd -"

	_, err := Build(doc)
	assert.Error(t, err)
}

func TestBuildRowLimit(t *testing.T) {
	doc := schema.NewDocument("te-groot", schema.DefaultTripLog())
	doc.Rows = make([]schema.Row, excelize.TotalRows-dataStartRow-footerReserve+1)

	_, err := Build(doc)

	var limitErr *RowLimitError
	assert.True(t, errors.As(err, &limitErr))
	assert.Equal(t, len(doc.Rows), limitErr.Rows)
}
