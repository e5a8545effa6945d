package export

import (
	"fmt"
	"strings"

	"github.com/roelvdberg/rekenblad/formula"
	"github.com/roelvdberg/rekenblad/schema"
)

// Compiler renders formula ASTs as native spreadsheet formulas.
//
// It is the structural mirror of engine.Evaluator: the same tree walk,
// but a Reference resolves to a cell address instead of a value. A
// same-row column reference becomes a relative reference (C5); a rate
// name becomes an absolute reference to the shared rate cell ($O$2).
// Any function added to the evaluator gets a row in funcNames here.
type Compiler struct {
	letters   map[string]string // column id -> column letter
	rateCells map[string]string // rate name -> absolute cell ref
}

// funcNames maps the engine's function names to their native
// spreadsheet equivalents. Most are spelled identically.
var funcNames = map[string]string{
	"IF":      "IF",
	"SUM":     "SUM",
	"AVG":     "AVERAGE",
	"MIN":     "MIN",
	"MAX":     "MAX",
	"COUNT":   "COUNT",
	"ROUND":   "ROUND",
	"ABS":     "ABS",
	"WEEKDAY": "WEEKDAY",
	"AND":     "AND",
	"OR":      "OR",
	"NOT":     "NOT",
}

// NewCompiler creates a compiler for a compiled column set. Column
// letters follow snapshot position: the first column is A. rateCells
// maps each rate name to the absolute reference of its header cell.
func NewCompiler(compiled *schema.Compiled, rateCells map[string]string) *Compiler {
	letters := make(map[string]string, len(compiled.Columns))
	for i, col := range compiled.Columns {
		letters[col.ID] = ColumnLetter(i)
	}
	return &Compiler{letters: letters, rateCells: rateCells}
}

// Formula renders the formula of one calculated column for the given
// 1-based sheet row. The result carries no leading '='; excelize adds
// that when the cell is written.
func (c *Compiler) Formula(columnID string, node formula.Node, row int) (string, error) {
	rendered, err := c.compile(node, row)
	if err != nil {
		return "", &CompileError{ColumnID: columnID, Reason: err.Error()}
	}
	return rendered, nil
}

// compile walks the AST. Binary expressions are parenthesized so the
// native formula keeps the tree's grouping regardless of the host's
// precedence rules.
func (c *Compiler) compile(n formula.Node, row int) (string, error) {
	switch node := n.(type) {
	case *formula.NumberLit:
		return node.Value.String(), nil

	case *formula.StringLit:
		return `"` + strings.ReplaceAll(node.Value, `"`, `""`) + `"`, nil

	case *formula.Reference:
		if letter, ok := c.letters[node.Name]; ok {
			return CellRef(letter, row), nil
		}
		if cell, ok := c.rateCells[node.Name]; ok {
			return cell, nil
		}
		return "", fmt.Errorf("reference %q resolves to neither a column nor a rate", node.Name)

	case *formula.Unary:
		expr, err := c.compile(node.Expr, row)
		if err != nil {
			return "", err
		}
		return "-" + expr, nil

	case *formula.Binary:
		left, err := c.compile(node.Left, row)
		if err != nil {
			return "", err
		}
		right, err := c.compile(node.Right, row)
		if err != nil {
			return "", err
		}
		return "(" + left + node.Op + right + ")", nil

	case *formula.Call:
		name, ok := funcNames[node.Name]
		if !ok {
			return "", fmt.Errorf("function %s has no native equivalent", node.Name)
		}
		args := make([]string, len(node.Args))
		for i, arg := range node.Args {
			compiled, err := c.compile(arg, row)
			if err != nil {
				return "", err
			}
			args[i] = compiled
		}
		return name + "(" + strings.Join(args, ",") + ")", nil
	}

	return "", fmt.Errorf("unknown node type %T", n)
}

// TotalFormula renders the totals-row SUM over the full data range of
// one column.
func (c *Compiler) TotalFormula(columnID string, firstRow, lastRow int) (string, error) {
	letter, ok := c.letters[columnID]
	if !ok {
		return "", &CompileError{ColumnID: columnID, Reason: "column not in snapshot"}
	}
	return "SUM(" + RangeRef(letter, firstRow, lastRow) + ")", nil
}

// Letter exposes the letter assigned to a column id, for callers that
// lay out totals and footer cells.
func (c *Compiler) Letter(columnID string) (string, bool) {
	letter, ok := c.letters[columnID]
	return letter, ok
}
