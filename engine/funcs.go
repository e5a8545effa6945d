package engine

import (
	"github.com/shopspring/decimal"
)

// Builtin function semantics.
//
// The export compiler renders these same functions as native
// spreadsheet calls, so any function added here must also be added to
// the compiler's name table in the export package.

// callFunc dispatches an executable function by (uppercased) name.
// Unknown names return Null; template validation rejects them long
// before evaluation, so this is pure defensiveness.
func callFunc(name string, args []Value) Value {
	switch name {
	case "IF":
		return fnIf(args)
	case "SUM":
		return Number(sumValues(args))
	case "AVG":
		return fnAvg(args)
	case "MIN":
		return fnMinMax(args, true)
	case "MAX":
		return fnMinMax(args, false)
	case "COUNT":
		return Number(decimal.NewFromInt(int64(countNumeric(args))))
	case "ROUND":
		return fnRound(args)
	case "ABS":
		return fnAbs(args)
	case "WEEKDAY":
		return fnWeekday(args)
	case "AND":
		return fnAnd(args)
	case "OR":
		return fnOr(args)
	case "NOT":
		return fnNot(args)
	}
	return Null()
}

func fnIf(args []Value) Value {
	if len(args) != 3 {
		return Null()
	}
	if args[0].Truthy() {
		return args[1]
	}
	return args[2]
}

// sumValues adds the numeric arguments, skipping blanks. The footer
// aggregator reuses this so SUM means the same thing in a row formula
// and in a totals row.
func sumValues(args []Value) decimal.Decimal {
	total := decimal.Zero
	for _, arg := range args {
		if n, ok := arg.Number(); ok {
			total = total.Add(n)
		}
	}
	return total
}

func countNumeric(args []Value) int {
	count := 0
	for _, arg := range args {
		if _, ok := arg.Number(); ok {
			count++
		}
	}
	return count
}

func fnAvg(args []Value) Value {
	count := countNumeric(args)
	if count == 0 {
		return Null()
	}
	return Number(sumValues(args).Div(decimal.NewFromInt(int64(count))))
}

func fnMinMax(args []Value, min bool) Value {
	var best decimal.Decimal
	found := false

	for _, arg := range args {
		n, ok := arg.Number()
		if !ok {
			continue
		}
		if !found || (min && n.LessThan(best)) || (!min && n.GreaterThan(best)) {
			best = n
			found = true
		}
	}

	if !found {
		return Null()
	}
	return Number(best)
}

func fnRound(args []Value) Value {
	if len(args) != 2 {
		return Null()
	}
	v, ok := args[0].Number()
	if !ok {
		return Null()
	}
	places, ok := args[1].Number()
	if !ok {
		return Null()
	}
	return Number(v.Round(int32(places.IntPart())))
}

func fnAbs(args []Value) Value {
	if len(args) != 1 {
		return Null()
	}
	v, ok := args[0].Number()
	if !ok {
		return Null()
	}
	return Number(v.Abs())
}

// fnWeekday returns the day of the week as 1 (Sunday) through
// 7 (Saturday), matching the spreadsheet WEEKDAY default. Go's
// time.Weekday is zero-based starting at Sunday, so this is +1.
//
// The numbering is load-bearing: the shipped trip-log template checks
// WEEKDAY(datum)=7 to apply the Saturday surcharge.
func fnWeekday(args []Value) Value {
	if len(args) != 1 {
		return Null()
	}
	t, ok := args[0].Date()
	if !ok {
		return Null()
	}
	return Number(decimal.NewFromInt(int64(t.Weekday()) + 1))
}

func fnAnd(args []Value) Value {
	for _, arg := range args {
		if !arg.Truthy() {
			return Bool(false)
		}
	}
	return Bool(true)
}

func fnOr(args []Value) Value {
	for _, arg := range args {
		if arg.Truthy() {
			return Bool(true)
		}
	}
	return Bool(false)
}

func fnNot(args []Value) Value {
	if len(args) != 1 {
		return Null()
	}
	return Bool(!args[0].Truthy())
}
