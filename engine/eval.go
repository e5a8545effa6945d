package engine

import (
	"github.com/shopspring/decimal"

	"github.com/roelvdberg/rekenblad/formula"
	"github.com/roelvdberg/rekenblad/schema"
)

// Evaluator computes calculated column values for rows of one document.
//
// It is a pure function of the compiled column set and the document's
// rate constants: no I/O, no shared mutable state, cheap enough to
// re-run wholesale on every raw-value edit.
type Evaluator struct {
	compiled *schema.Compiled
	rates    map[string]decimal.Decimal
}

// New creates an evaluator for a compiled column set and rate table.
func New(compiled *schema.Compiled, rates map[string]decimal.Decimal) *Evaluator {
	return &Evaluator{compiled: compiled, rates: rates}
}

// ForDocument compiles a document's column snapshot and returns an
// evaluator bound to its rates. Compilation fails only if the snapshot
// is invalid, which a document created from a valid template never is.
func ForDocument(doc *schema.Document) (*Evaluator, error) {
	compiled, err := doc.Compile()
	if err != nil {
		return nil, err
	}
	return New(compiled, doc.Rates), nil
}

// Row evaluates one row: raw values are coerced per their column types,
// then every calculated column's formula runs in topological order, so
// each Reference resolves against values that already exist. The
// returned map has an entry for every column of the template.
func (e *Evaluator) Row(row schema.Row) map[string]Value {
	values := make(map[string]Value, len(e.compiled.Columns))

	for _, col := range e.compiled.Columns {
		if col.Type == schema.TypeCalculated {
			continue
		}
		values[col.ID] = CoerceRaw(col.Type, row[col.ID])
	}

	for _, id := range e.compiled.Order {
		values[id] = e.eval(e.compiled.Formulas[id], values)
	}

	return values
}

// Rows evaluates every row of a document in order.
func (e *Evaluator) Rows(rows []schema.Row) []map[string]Value {
	out := make([]map[string]Value, len(rows))
	for i, row := range rows {
		out[i] = e.Row(row)
	}
	return out
}

// eval walks a formula AST and produces a value. The export package
// walks the identical tree to produce a native spreadsheet formula;
// only the Reference resolution differs between the two walks.
func (e *Evaluator) eval(n formula.Node, values map[string]Value) Value {
	switch node := n.(type) {
	case *formula.NumberLit:
		return Number(node.Value)

	case *formula.StringLit:
		return Text(node.Value)

	case *formula.Reference:
		if v, ok := values[node.Name]; ok {
			return v
		}
		if rate, ok := e.rates[node.Name]; ok {
			return Number(rate)
		}
		// Validation guarantees every reference resolves; a blank cell
		// degrades more gracefully than a panic if it somehow doesn't.
		return Null()

	case *formula.Unary:
		v := e.eval(node.Expr, values)
		n, ok := v.Number()
		if !ok {
			return Null()
		}
		return Number(n.Neg())

	case *formula.Binary:
		left := e.eval(node.Left, values)
		right := e.eval(node.Right, values)
		return applyBinary(node.Op, left, right)

	case *formula.Call:
		args := make([]Value, len(node.Args))
		for i, arg := range node.Args {
			args[i] = e.eval(arg, values)
		}
		return callFunc(node.Name, args)
	}

	return Null()
}

// applyBinary applies a binary operator with null propagation: any Null
// operand yields Null, and so does division by zero. Comparisons on
// numbers use decimal comparison; "=" and "<>" also compare booleans
// and text. Mixed-type operands yield Null.
func applyBinary(op string, left, right Value) Value {
	if left.IsNull() || right.IsNull() {
		return Null()
	}

	switch op {
	case "+", "-", "*", "/":
		l, lok := left.Number()
		r, rok := right.Number()
		if !lok || !rok {
			return Null()
		}
		switch op {
		case "+":
			return Number(l.Add(r))
		case "-":
			return Number(l.Sub(r))
		case "*":
			return Number(l.Mul(r))
		case "/":
			if r.IsZero() {
				return Null()
			}
			return Number(l.Div(r))
		}

	case "=", "<>":
		eq, ok := valuesEqual(left, right)
		if !ok {
			return Null()
		}
		if op == "<>" {
			eq = !eq
		}
		return Bool(eq)

	case "<", "<=", ">", ">=":
		l, lok := left.Number()
		r, rok := right.Number()
		if !lok || !rok {
			return Null()
		}
		cmp := l.Cmp(r)
		switch op {
		case "<":
			return Bool(cmp < 0)
		case "<=":
			return Bool(cmp <= 0)
		case ">":
			return Bool(cmp > 0)
		case ">=":
			return Bool(cmp >= 0)
		}
	}

	return Null()
}

// valuesEqual compares two same-kind values for equality.
func valuesEqual(left, right Value) (equal, ok bool) {
	if l, lok := left.Number(); lok {
		if r, rok := right.Number(); rok {
			return l.Equal(r), true
		}
		return false, false
	}
	if l, lok := left.Bool(); lok {
		if r, rok := right.Bool(); rok {
			return l == r, true
		}
		return false, false
	}
	if l, lok := left.Text(); lok {
		if r, rok := right.Text(); rok {
			return l == r, true
		}
		return false, false
	}
	if l, lok := left.Date(); lok {
		if r, rok := right.Date(); rok {
			return l.Equal(r), true
		}
		return false, false
	}
	return false, false
}
