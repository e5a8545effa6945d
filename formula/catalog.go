package formula

import "strings"

// FunctionInfo describes a function name for authoring assistance.
//
// Only the entries with Executable set are implemented by the evaluator
// and the spreadsheet compiler. The rest exist so a template editor can
// offer autocomplete hints; referencing them in a stored formula fails
// template validation.
type FunctionInfo struct {
	Name        string
	Arity       string // human-readable arity hint, e.g. "(value, decimals)"
	Description string
	Executable  bool
}

// Catalog lists every function name the template editor may suggest.
var Catalog = []FunctionInfo{
	{Name: "IF", Arity: "(cond, then, else)", Description: "Returns then if cond is truthy, otherwise else.", Executable: true},
	{Name: "SUM", Arity: "(value, ...)", Description: "Sum of the numeric arguments.", Executable: true},
	{Name: "AVG", Arity: "(value, ...)", Description: "Average of the numeric arguments.", Executable: true},
	{Name: "MIN", Arity: "(value, ...)", Description: "Smallest of the numeric arguments.", Executable: true},
	{Name: "MAX", Arity: "(value, ...)", Description: "Largest of the numeric arguments.", Executable: true},
	{Name: "COUNT", Arity: "(value, ...)", Description: "Number of non-blank numeric arguments.", Executable: true},
	{Name: "ROUND", Arity: "(value, decimals)", Description: "Rounds value to the given number of decimals.", Executable: true},
	{Name: "ABS", Arity: "(value)", Description: "Absolute value.", Executable: true},
	{Name: "WEEKDAY", Arity: "(date)", Description: "Day of the week, 1 (Sunday) through 7 (Saturday).", Executable: true},
	{Name: "AND", Arity: "(cond, ...)", Description: "True if every argument is truthy.", Executable: true},
	{Name: "OR", Arity: "(cond, ...)", Description: "True if any argument is truthy.", Executable: true},
	{Name: "NOT", Arity: "(cond)", Description: "Logical negation.", Executable: true},

	// Autocomplete-only names. These mirror what spreadsheet users expect
	// to see while typing, but no stored default formula uses them.
	{Name: "AVERAGE", Arity: "(value, ...)", Description: "Spreadsheet alias of AVG."},
	{Name: "CONCATENATE", Arity: "(text, ...)", Description: "Joins text values."},
	{Name: "LEFT", Arity: "(text, count)", Description: "Leading characters of a text value."},
	{Name: "RIGHT", Arity: "(text, count)", Description: "Trailing characters of a text value."},
	{Name: "LEN", Arity: "(text)", Description: "Length of a text value."},
	{Name: "UPPER", Arity: "(text)", Description: "Uppercases a text value."},
	{Name: "LOWER", Arity: "(text)", Description: "Lowercases a text value."},
	{Name: "TODAY", Arity: "()", Description: "Current date."},
	{Name: "NOW", Arity: "()", Description: "Current date and time."},
	{Name: "VLOOKUP", Arity: "(value, range, index)", Description: "Vertical range lookup."},
	{Name: "PMT", Arity: "(rate, periods, present_value)", Description: "Loan payment amount."},
	{Name: "NPV", Arity: "(rate, value, ...)", Description: "Net present value."},
	{Name: "CEILING", Arity: "(value, factor)", Description: "Rounds up to a multiple of factor."},
	{Name: "FLOOR", Arity: "(value, factor)", Description: "Rounds down to a multiple of factor."},
}

// LookupFunction returns catalog metadata for a function name,
// case-insensitively.
func LookupFunction(name string) (FunctionInfo, bool) {
	upper := strings.ToUpper(name)
	for _, info := range Catalog {
		if info.Name == upper {
			return info, true
		}
	}
	return FunctionInfo{}, false
}

// IsExecutable reports whether the named function has live semantics in
// the evaluator and the spreadsheet compiler.
func IsExecutable(name string) bool {
	info, ok := LookupFunction(name)
	return ok && info.Executable
}
