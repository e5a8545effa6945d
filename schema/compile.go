package schema

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/roelvdberg/rekenblad/formula"
)

// Compiled is a validated, ready-to-evaluate column set: every
// calculated column's formula parsed to an AST, plus the topological
// evaluation order over the calculated columns.
//
// Both the row evaluator and the spreadsheet compiler consume a
// Compiled, so they always walk the same trees.
type Compiled struct {
	Columns  []Column
	Formulas map[string]formula.Node
	Order    []string // calculated column ids, dependency-first
}

// fixedArity lists the executable functions with a fixed argument count.
// Everything else executable is variadic with at least one argument.
var fixedArity = map[string]int{
	"IF":      3,
	"ROUND":   2,
	"ABS":     1,
	"WEEKDAY": 1,
	"NOT":     1,
}

// Compile validates the template and compiles its formulas. On failure
// it returns a *ValidationErrors aggregating every problem found; the
// template must not be persisted in that case.
func (t *Template) Compile() (*Compiled, error) {
	return CompileColumns(t.Columns, t.Defaults, &t.Footer)
}

// CompileColumns is the validation core shared by templates and by
// document snapshots. The rates map supplies the names formulas may
// reference as document-level constants; footer may be nil.
func CompileColumns(cols []Column, rates map[string]decimal.Decimal, footer *FooterConfig) (*Compiled, error) {
	var errs []error

	// Structural column checks.
	seen := make(map[string]bool, len(cols))
	for _, col := range cols {
		if !ValidID(col.ID) {
			errs = append(errs, newInvalidColumnError(col.ID, "id is not a valid identifier"))
			continue
		}
		if seen[col.ID] {
			errs = append(errs, newInvalidColumnError(col.ID, "duplicate column id"))
			continue
		}
		seen[col.ID] = true

		if col.Type == TypeCalculated {
			if col.Editable {
				errs = append(errs, newInvalidColumnError(col.ID, "calculated columns cannot be editable"))
			}
			if col.Formula == "" {
				errs = append(errs, newInvalidColumnError(col.ID, "calculated column has no formula"))
			}
		} else {
			if !col.Editable {
				errs = append(errs, newInvalidColumnError(col.ID, "only calculated columns can be non-editable"))
			}
			if col.Formula != "" {
				errs = append(errs, newInvalidColumnError(col.ID, "non-calculated column carries a formula"))
			}
		}
	}

	// Parse every calculated formula and resolve its references.
	formulas := make(map[string]formula.Node)
	graph := newDepGraph()

	isCalculated := make(map[string]bool, len(cols))
	for _, col := range cols {
		if col.Type == TypeCalculated {
			isCalculated[col.ID] = true
			graph.addNode(col.ID)
		}
	}

	for _, col := range cols {
		if col.Type != TypeCalculated || col.Formula == "" {
			continue
		}

		node, err := formula.Parse(col.Formula)
		if err != nil {
			if parseErr, ok := err.(*formula.ParseError); ok {
				errs = append(errs, newFormulaSyntaxError(col.ID, col.Formula, parseErr))
			} else {
				errs = append(errs, fmt.Errorf("column %q: %w", col.ID, err))
			}
			continue
		}
		formulas[col.ID] = node

		// Self-reference is the degenerate cycle; the graph reports the
		// transitive ones.
		for _, ref := range formula.References(node) {
			if seen[ref] {
				if isCalculated[ref] {
					graph.addEdge(col.ID, ref)
				}
				continue
			}
			if _, isRate := rates[ref]; isRate {
				// Rates are document-level constants, row-independent:
				// no edge.
				continue
			}
			errs = append(errs, newUnknownReferenceError(col.ID, ref))
		}

		errs = append(errs, checkCalls(col.ID, node)...)
	}

	// Cycle detection over the calculated columns only.
	order, cycleErr := graph.topoSort()
	if cycleErr != nil {
		errs = append(errs, cycleErr)
	}

	if footer != nil {
		errs = append(errs, checkFooter(footer, cols)...)
	}

	if len(errs) > 0 {
		return nil, &ValidationErrors{Errors: errs}
	}

	return &Compiled{
		Columns:  cloneColumns(cols),
		Formulas: formulas,
		Order:    order,
	}, nil
}

// checkCalls verifies every function call in the tree is executable and
// called with a plausible argument count.
func checkCalls(columnID string, node formula.Node) []error {
	var errs []error

	var walk func(n formula.Node)
	walk = func(n formula.Node) {
		switch v := n.(type) {
		case *formula.Unary:
			walk(v.Expr)
		case *formula.Binary:
			walk(v.Left)
			walk(v.Right)
		case *formula.Call:
			if !formula.IsExecutable(v.Name) {
				errs = append(errs, newUnknownFunctionError(columnID, v.Name))
			} else if want, fixed := fixedArity[v.Name]; fixed && len(v.Args) != want {
				errs = append(errs, &FunctionArityError{
					ColumnID: columnID,
					Function: v.Name,
					Want:     want,
					Got:      len(v.Args),
				})
			} else if !fixed && len(v.Args) == 0 {
				errs = append(errs, &FunctionArityError{
					ColumnID: columnID,
					Function: v.Name,
					Want:     1,
					Got:      0,
				})
			}
			for _, arg := range v.Args {
				walk(arg)
			}
		}
	}
	walk(node)

	return errs
}

// checkFooter verifies summed columns exist and are numeric-like.
func checkFooter(footer *FooterConfig, cols []Column) []error {
	var errs []error

	byID := make(map[string]*Column, len(cols))
	for i := range cols {
		byID[cols[i].ID] = &cols[i]
	}

	for _, id := range footer.SummedColumnIDs {
		col, ok := byID[id]
		if !ok {
			errs = append(errs, &InvalidFooterError{ColumnID: id, Reason: "does not exist"})
			continue
		}
		if !col.Type.IsNumeric() {
			errs = append(errs, &InvalidFooterError{ColumnID: id, Reason: "is not numeric and cannot be summed"})
		}
	}

	if footer.SubtotalColumnID != "" {
		if _, ok := byID[footer.SubtotalColumnID]; !ok {
			errs = append(errs, &InvalidFooterError{ColumnID: footer.SubtotalColumnID, Reason: "does not exist"})
		}
	}

	// The invoice block renders labels one column left of the amounts,
	// so it needs at least two columns.
	if (footer.ShowSubtotal || footer.ShowVAT) && len(cols) < 2 {
		errs = append(errs, &InvalidFooterError{
			ColumnID: footer.SubtotalColumn(),
			Reason:   "cannot carry an invoice footer on a single-column template",
		})
	}

	return errs
}

// CalculatedColumns returns the calculated columns in declaration order.
func (c *Compiled) CalculatedColumns() []Column {
	var out []Column
	for _, col := range c.Columns {
		if col.Type == TypeCalculated {
			out = append(out, col)
		}
	}
	return out
}

// Column returns the compiled column with the given id, or nil.
func (c *Compiled) Column(id string) *Column {
	for i := range c.Columns {
		if c.Columns[i].ID == id {
			return &c.Columns[i]
		}
	}
	return nil
}
