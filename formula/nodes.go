package formula

import (
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// AST node types for parsed formulas.
//
// The same tree is walked twice in this codebase: once by the row
// evaluator (engine package) to produce a value, and once by the
// spreadsheet compiler (export package) to produce a native formula
// string. Keeping a single tree is what guarantees the two outputs
// cannot drift apart.

// Node is the interface implemented by all formula AST nodes.
type Node interface {
	node()
}

// NumberLit is a numeric literal, e.g. 1.3 in "IF(WEEKDAY(datum)=7, 1.3, 1)".
type NumberLit struct {
	Value decimal.Decimal
}

// StringLit is a quoted string literal, without the surrounding quotes.
type StringLit struct {
	Value string
}

// Reference is a bare identifier resolving to either a column id in the
// same template or a document-level rate name. Which of the two it is
// gets decided at template validation time, not at parse time.
type Reference struct {
	Name string
}

// Unary is a unary operator application. The only unary operator is "-".
type Unary struct {
	Op   string
	Expr Node
}

// Binary is a binary operator application.
// Op is one of: + - * / = < <= > >= <>
type Binary struct {
	Op    string
	Left  Node
	Right Node
}

// Call is a function call, e.g. ROUND(totaal_uren, 2).
// The function name is stored uppercased so IF and if resolve identically.
type Call struct {
	Name string
	Args []Node
}

func (*NumberLit) node() {}
func (*StringLit) node() {}
func (*Reference) node() {}
func (*Unary) node()     {}
func (*Binary) node()    {}
func (*Call) node()      {}

// References returns the distinct Reference names appearing anywhere in
// the tree, in first-appearance order. Function names are not references.
func References(n Node) []string {
	var names []string
	collectReferences(n, &names)
	return names
}

func collectReferences(n Node, names *[]string) {
	switch node := n.(type) {
	case *Reference:
		if !slices.Contains(*names, node.Name) {
			*names = append(*names, node.Name)
		}
	case *Unary:
		collectReferences(node.Expr, names)
	case *Binary:
		collectReferences(node.Left, names)
		collectReferences(node.Right, names)
	case *Call:
		for _, arg := range node.Args {
			collectReferences(arg, names)
		}
	}
}
