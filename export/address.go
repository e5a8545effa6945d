// Package export compiles formulas to native spreadsheet syntax and
// writes documents as xlsx workbooks that recalculate independently:
// opening an export and recomputing it reproduces the engine's values.
package export

import "fmt"

// ColumnLetter converts a zero-based column index to its spreadsheet
// letter: 0 -> A, 25 -> Z, 26 -> AA.
func ColumnLetter(index int) string {
	letters := ""
	for index >= 0 {
		letters = string(rune('A'+index%26)) + letters
		index = index/26 - 1
	}
	return letters
}

// CellRef renders a relative cell reference like "C5".
func CellRef(letter string, row int) string {
	return fmt.Sprintf("%s%d", letter, row)
}

// AbsCellRef renders an absolute cell reference like "$O$5". Rate
// constants use these so every data row's formula shares the single
// editable rate cell.
func AbsCellRef(letter string, row int) string {
	return fmt.Sprintf("$%s$%d", letter, row)
}

// RangeRef renders a vertical range like "C5:C34" for totals-row SUMs.
func RangeRef(letter string, firstRow, lastRow int) string {
	return fmt.Sprintf("%s%d:%s%d", letter, firstRow, letter, lastRow)
}
