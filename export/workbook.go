package export

import (
	"bytes"

	"github.com/xuri/excelize/v2"
	"golang.org/x/exp/slices"

	"github.com/roelvdberg/rekenblad/engine"
	"github.com/roelvdberg/rekenblad/schema"
)

// Sheet layout. Rows 1-3 identify the document and hold the editable
// rate cells, row 4 is the column header, data starts at row 5. The
// offsets are fixed so the compiler can address cells without measuring.
const (
	sheetName    = "Overzicht"
	titleRow     = 1
	metaRow      = 2
	headerRow    = 4
	dataStartRow = 5

	// rows reserved under the data block for totals and invoice lines
	footerReserve = 6
)

// Build renders a document as an xlsx workbook. Every calculated cell
// is written as a native formula, never as a baked-in value, so the
// file recalculates on its own after the user edits a raw cell or a
// rate cell.
func Build(doc *schema.Document) (*excelize.File, error) {
	compiled, err := doc.Compile()
	if err != nil {
		return nil, err
	}

	if len(doc.Rows) > excelize.TotalRows-dataStartRow-footerReserve {
		return nil, &RowLimitError{Rows: len(doc.Rows), Limit: excelize.TotalRows - dataStartRow - footerReserve}
	}

	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, err
	}

	styles, err := newStyleSet(f, &doc.Styling)
	if err != nil {
		return nil, err
	}

	writeTitle(f, doc, styles)
	rateCells, err := writeRates(f, doc, len(compiled.Columns), styles)
	if err != nil {
		return nil, err
	}

	compiler := NewCompiler(compiled, rateCells)

	if err := writeHeader(f, compiled, styles); err != nil {
		return nil, err
	}
	if err := writeRows(f, doc, compiled, compiler, styles); err != nil {
		return nil, err
	}
	if err := writeFooter(f, doc, compiled, compiler, styles); err != nil {
		return nil, err
	}

	return f, nil
}

// Buffer builds the workbook and returns it as an in-memory buffer,
// ready for file download or mail attachment. The document itself is
// never mutated.
func Buffer(doc *schema.Document) (*bytes.Buffer, error) {
	f, err := Build(doc)
	if err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}

// styleSet holds the style ids used across the sheet.
type styleSet struct {
	header   int
	title    int
	number   int
	currency int
	date     int
	totals   int
}

func newStyleSet(f *excelize.File, styling *schema.Styling) (*styleSet, error) {
	headerFill := styling.HeaderColor
	if headerFill == "" {
		headerFill = "1F4E78"
	}
	headerTint := styling.HeaderTextTint
	if headerTint == "" {
		headerTint = "FFFFFF"
	}

	numberFmt := "0.00"
	currencyFmt := "€ #,##0.00"
	dateFmt := "dd-mm-yyyy"

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: headerTint},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
	})
	if err != nil {
		return nil, err
	}

	title, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return nil, err
	}

	number, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numberFmt})
	if err != nil {
		return nil, err
	}

	currency, err := f.NewStyle(&excelize.Style{CustomNumFmt: &currencyFmt})
	if err != nil {
		return nil, err
	}

	date, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return nil, err
	}

	totals, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &numberFmt,
	})
	if err != nil {
		return nil, err
	}

	return &styleSet{
		header:   header,
		title:    title,
		number:   number,
		currency: currency,
		date:     date,
		totals:   totals,
	}, nil
}

func writeTitle(f *excelize.File, doc *schema.Document, styles *styleSet) {
	_ = f.SetCellValue(sheetName, CellRef("A", titleRow), doc.Meta.Name)
	_ = f.SetCellStyle(sheetName, CellRef("A", titleRow), CellRef("A", titleRow), styles.title)

	if doc.Meta.Company != "" {
		_ = f.SetCellValue(sheetName, CellRef("A", metaRow), doc.Meta.Company)
	}
	if doc.Meta.Reference != "" {
		_ = f.SetCellValue(sheetName, CellRef("A", metaRow+1), doc.Meta.Reference)
	}
	if !doc.Meta.CreatedAt.IsZero() {
		_ = f.SetCellValue(sheetName, CellRef("B", metaRow+1), doc.Meta.CreatedAt.Format("02-01-2006"))
	}
}

// writeRates writes the rate-constant block to the right of the data
// columns: a label cell and an editable value cell per rate. It returns
// the absolute reference of each value cell, keyed by rate name, so the
// compiler can point every row's formula at the one shared cell.
func writeRates(f *excelize.File, doc *schema.Document, columnCount int, styles *styleSet) (map[string]string, error) {
	names := make([]string, 0, len(doc.Rates))
	for name := range doc.Rates {
		names = append(names, name)
	}
	slices.Sort(names)

	labelLetter := ColumnLetter(columnCount + 1)
	valueLetter := ColumnLetter(columnCount + 2)

	rateCells := make(map[string]string, len(names))
	for i, name := range names {
		row := metaRow + i
		if err := f.SetCellValue(sheetName, CellRef(labelLetter, row), name); err != nil {
			return nil, err
		}
		value, _ := doc.Rates[name].Float64()
		if err := f.SetCellValue(sheetName, CellRef(valueLetter, row), value); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(sheetName, CellRef(valueLetter, row), CellRef(valueLetter, row), styles.number)

		rateCells[name] = AbsCellRef(valueLetter, row)
	}

	return rateCells, nil
}

func writeHeader(f *excelize.File, compiled *schema.Compiled, styles *styleSet) error {
	for i, col := range compiled.Columns {
		letter := ColumnLetter(i)
		if err := f.SetCellValue(sheetName, CellRef(letter, headerRow), col.Name); err != nil {
			return err
		}
		if col.Width > 0 {
			_ = f.SetColWidth(sheetName, letter, letter, float64(col.Width)+2)
		}
	}

	last := ColumnLetter(len(compiled.Columns) - 1)
	return f.SetCellStyle(sheetName, CellRef("A", headerRow), CellRef(last, headerRow), styles.header)
}

// writeRows writes one sheet row per document row: raw values for
// editable columns, native formulas for calculated ones.
func writeRows(f *excelize.File, doc *schema.Document, compiled *schema.Compiled, compiler *Compiler, styles *styleSet) error {
	for i, row := range doc.Rows {
		sheetRow := dataStartRow + i

		for colIdx, col := range compiled.Columns {
			cell := CellRef(ColumnLetter(colIdx), sheetRow)

			if col.Type == schema.TypeCalculated {
				rendered, err := compiler.Formula(col.ID, compiled.Formulas[col.ID], sheetRow)
				if err != nil {
					return err
				}
				if err := f.SetCellFormula(sheetName, cell, rendered); err != nil {
					return err
				}
				continue
			}

			if err := writeRawCell(f, cell, col.Type, row[col.ID]); err != nil {
				return err
			}
		}
	}

	// Per-type cell formats over the whole data range.
	if len(doc.Rows) > 0 {
		lastRow := dataStartRow + len(doc.Rows) - 1
		for colIdx, col := range compiled.Columns {
			letter := ColumnLetter(colIdx)
			var styleID int
			switch {
			case col.Type == schema.TypeDate:
				styleID = styles.date
			case col.DisplayHint() == schema.DisplayCurrency:
				styleID = styles.currency
			case col.Type.IsNumeric():
				styleID = styles.number
			default:
				continue
			}
			if err := f.SetCellStyle(sheetName, CellRef(letter, dataStartRow), CellRef(letter, lastRow), styleID); err != nil {
				return err
			}
		}
	}

	return nil
}

// writeRawCell writes an editable cell using the same coercion the row
// evaluator applies, so the exported sheet recalculates from the exact
// values the engine saw.
func writeRawCell(f *excelize.File, cell string, colType schema.ColumnType, raw interface{}) error {
	value := engine.CoerceRaw(colType, raw)

	if n, ok := value.Number(); ok {
		v, _ := n.Float64()
		return f.SetCellValue(sheetName, cell, v)
	}
	if t, ok := value.Date(); ok {
		return f.SetCellValue(sheetName, cell, t)
	}
	if s, ok := value.Text(); ok {
		return f.SetCellValue(sheetName, cell, s)
	}

	// Null stays an empty cell.
	return nil
}

// writeFooter writes the totals row and, for invoice footers, the
// subtotal / VAT / grand-total lines. All of them are formulas over the
// data range, never pre-computed values.
func writeFooter(f *excelize.File, doc *schema.Document, compiled *schema.Compiled, compiler *Compiler, styles *styleSet) error {
	if len(doc.Rows) == 0 {
		return nil
	}

	firstRow := dataStartRow
	lastRow := dataStartRow + len(doc.Rows) - 1
	totalsRow := lastRow + 1

	if err := f.SetCellValue(sheetName, CellRef("A", totalsRow), "Totaal"); err != nil {
		return err
	}

	for _, id := range doc.Footer.SummedColumnIDs {
		letter, ok := compiler.Letter(id)
		if !ok {
			continue
		}
		rendered, err := compiler.TotalFormula(id, firstRow, lastRow)
		if err != nil {
			return err
		}
		if err := f.SetCellFormula(sheetName, CellRef(letter, totalsRow), rendered); err != nil {
			return err
		}
	}

	last := ColumnLetter(len(compiled.Columns) - 1)
	if err := f.SetCellStyle(sheetName, CellRef("A", totalsRow), CellRef(last, totalsRow), styles.totals); err != nil {
		return err
	}

	if !doc.Footer.ShowSubtotal && !doc.Footer.ShowVAT {
		return nil
	}

	subtotalID := doc.Footer.SubtotalColumn()
	subLetter, ok := compiler.Letter(subtotalID)
	if !ok {
		return &CompileError{ColumnID: subtotalID, Reason: "subtotal column not in snapshot"}
	}

	labelLetter := ColumnLetter(len(compiled.Columns) - 2)
	valueLetter := ColumnLetter(len(compiled.Columns) - 1)

	subtotalRow := totalsRow + 2
	vatRow := subtotalRow + 1
	grandRow := vatRow + 1

	subtotalCell := CellRef(valueLetter, subtotalRow)
	vatCell := CellRef(valueLetter, vatRow)

	_ = f.SetCellValue(sheetName, CellRef(labelLetter, subtotalRow), "Subtotaal")
	if err := f.SetCellFormula(sheetName, subtotalCell,
		"SUM("+RangeRef(subLetter, firstRow, lastRow)+")"); err != nil {
		return err
	}

	if doc.Footer.ShowVAT {
		pct := doc.Footer.VATPercentage.String()
		_ = f.SetCellValue(sheetName, CellRef(labelLetter, vatRow), "BTW "+pct+"%")
		if err := f.SetCellFormula(sheetName, vatCell,
			"ROUND("+subtotalCell+"*"+pct+"/100,2)"); err != nil {
			return err
		}
	} else {
		_ = f.SetCellValue(sheetName, vatCell, 0)
	}

	_ = f.SetCellValue(sheetName, CellRef(labelLetter, grandRow), "Totaal")
	if err := f.SetCellFormula(sheetName, CellRef(valueLetter, grandRow),
		"("+subtotalCell+"+"+vatCell+")"); err != nil {
		return err
	}

	return f.SetCellStyle(sheetName,
		CellRef(labelLetter, subtotalRow), CellRef(valueLetter, grandRow), styles.currency)
}
