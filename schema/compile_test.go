package schema

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func indexOf(order []string, id string) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}
	return -1
}

func TestDefaultTripLogCompiles(t *testing.T) {
	compiled, err := DefaultTripLog().Compile()
	assert.NoError(t, err)

	// Every calculated column shows up in the evaluation order, after
	// everything it reads.
	assert.Equal(t, 8, len(compiled.Order))
	assert.True(t, indexOf(compiled.Order, "totaal_tijd") < indexOf(compiled.Order, "totaal_uren"))
	assert.True(t, indexOf(compiled.Order, "totaal_uren") < indexOf(compiled.Order, "bedrag_uur"))
	assert.True(t, indexOf(compiled.Order, "totaal_km") < indexOf(compiled.Order, "bedrag_km"))
	assert.True(t, indexOf(compiled.Order, "bedrag_uur") < indexOf(compiled.Order, "subtotaal"))
	assert.True(t, indexOf(compiled.Order, "subtotaal") < indexOf(compiled.Order, "rij_totaal"))
	assert.True(t, indexOf(compiled.Order, "dot") < indexOf(compiled.Order, "rij_totaal"))

	// Formulas parsed for exactly the calculated columns.
	assert.Equal(t, len(compiled.Order), len(compiled.Formulas))
	assert.Equal(t, 8, len(compiled.CalculatedColumns()))
}

func TestDefaultInvoiceCompiles(t *testing.T) {
	compiled, err := DefaultInvoice().Compile()
	assert.NoError(t, err)
	assert.Equal(t, []string{"regel_totaal"}, compiled.Order)
}

func TestCompileRejectsStructuralProblems(t *testing.T) {
	tests := []struct {
		name    string
		columns []Column
		check   func(t *testing.T, errs []error)
	}{
		{
			name: "invalid id",
			columns: []Column{
				{ID: "3x", Name: "Bad", Type: TypeNumber, Editable: true},
			},
			check: func(t *testing.T, errs []error) {
				e, ok := errs[0].(*InvalidColumnError)
				assert.True(t, ok)
				assert.Equal(t, "3x", e.ColumnID)
			},
		},
		{
			name: "duplicate id",
			columns: []Column{
				{ID: "a", Name: "A", Type: TypeNumber, Editable: true},
				{ID: "a", Name: "A again", Type: TypeNumber, Editable: true},
			},
			check: func(t *testing.T, errs []error) {
				e, ok := errs[0].(*InvalidColumnError)
				assert.True(t, ok)
				assert.Equal(t, "duplicate column id", e.Reason)
			},
		},
		{
			name: "calculated column marked editable",
			columns: []Column{
				{ID: "a", Name: "A", Type: TypeNumber, Editable: true},
				{ID: "b", Name: "B", Type: TypeCalculated, Editable: true, Formula: "=a"},
			},
			check: func(t *testing.T, errs []error) {
				_, ok := errs[0].(*InvalidColumnError)
				assert.True(t, ok)
			},
		},
		{
			name: "calculated column without formula",
			columns: []Column{
				{ID: "a", Name: "A", Type: TypeCalculated},
			},
			check: func(t *testing.T, errs []error) {
				_, ok := errs[0].(*InvalidColumnError)
				assert.True(t, ok)
			},
		},
		{
			name: "editable column with formula",
			columns: []Column{
				{ID: "a", Name: "A", Type: TypeNumber, Editable: true, Formula: "=1"},
			},
			check: func(t *testing.T, errs []error) {
				_, ok := errs[0].(*InvalidColumnError)
				assert.True(t, ok)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileColumns(tt.columns, nil, nil)
			assert.Error(t, err)

			validationErrors, ok := err.(*ValidationErrors)
			assert.True(t, ok)
			assert.True(t, len(validationErrors.Errors) >= 1)
			tt.check(t, validationErrors.Errors)
		})
	}
}

func TestCompileRejectsBadFormulas(t *testing.T) {
	rates := map[string]decimal.Decimal{"tarief": decimal.NewFromInt(2)}

	tests := []struct {
		name    string
		formula string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "syntax error",
			formula: "=a +",
			check: func(t *testing.T, err error) {
				e, ok := err.(*FormulaSyntaxError)
				assert.True(t, ok)
				assert.Equal(t, "calc", e.ColumnID)
				assert.Equal(t, "=a +", e.Formula)
			},
		},
		{
			name:    "unknown reference",
			formula: "=a + nonexistent",
			check: func(t *testing.T, err error) {
				e, ok := err.(*UnknownReferenceError)
				assert.True(t, ok)
				assert.Equal(t, "nonexistent", e.Reference)
			},
		},
		{
			name:    "autocomplete-only function",
			formula: "=VLOOKUP(a, a, 1)",
			check: func(t *testing.T, err error) {
				e, ok := err.(*UnknownFunctionError)
				assert.True(t, ok)
				assert.Equal(t, "VLOOKUP", e.Function)
			},
		},
		{
			name:    "wrong arity for IF",
			formula: "=IF(a, 1)",
			check: func(t *testing.T, err error) {
				e, ok := err.(*FunctionArityError)
				assert.True(t, ok)
				assert.Equal(t, 3, e.Want)
				assert.Equal(t, 2, e.Got)
			},
		},
		{
			name:    "variadic function needs an argument",
			formula: "=SUM()",
			check: func(t *testing.T, err error) {
				e, ok := err.(*FunctionArityError)
				assert.True(t, ok)
				assert.Equal(t, 0, e.Got)
			},
		},
		{
			name:    "rate is valid, typo is not",
			formula: "=a * tariff",
			check: func(t *testing.T, err error) {
				e, ok := err.(*UnknownReferenceError)
				assert.True(t, ok)
				assert.Equal(t, "tariff", e.Reference)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := []Column{
				{ID: "a", Name: "A", Type: TypeNumber, Editable: true},
				{ID: "calc", Name: "Calc", Type: TypeCalculated, Formula: tt.formula},
			}

			_, err := CompileColumns(cols, rates, nil)
			assert.Error(t, err)

			validationErrors, ok := err.(*ValidationErrors)
			assert.True(t, ok)
			assert.Equal(t, 1, len(validationErrors.Errors))
			tt.check(t, validationErrors.Errors[0])
		})
	}
}

func TestCompileDetectsCycles(t *testing.T) {
	cols := []Column{
		{ID: "a", Name: "A", Type: TypeCalculated, Formula: "=b + 1"},
		{ID: "b", Name: "B", Type: TypeCalculated, Formula: "=a + 1"},
	}

	_, err := CompileColumns(cols, nil, nil)
	assert.Error(t, err)

	validationErrors, ok := err.(*ValidationErrors)
	assert.True(t, ok)

	var cycle *CycleError
	for _, e := range validationErrors.Errors {
		if c, ok := e.(*CycleError); ok {
			cycle = c
		}
	}
	assert.NotZero(t, cycle)
	assert.Equal(t, 3, len(cycle.ColumnIDs))
	assert.Equal(t, cycle.ColumnIDs[0], cycle.ColumnIDs[len(cycle.ColumnIDs)-1])
}

func TestCompileDetectsSelfReference(t *testing.T) {
	cols := []Column{
		{ID: "a", Name: "A", Type: TypeCalculated, Formula: "=a + 1"},
	}

	_, err := CompileColumns(cols, nil, nil)
	assert.Error(t, err)

	validationErrors, ok := err.(*ValidationErrors)
	assert.True(t, ok)

	found := false
	for _, e := range validationErrors.Errors {
		if _, ok := e.(*CycleError); ok {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCompileChecksFooter(t *testing.T) {
	cols := []Column{
		{ID: "naam", Name: "Naam", Type: TypeText, Editable: true},
		{ID: "bedrag", Name: "Bedrag", Type: TypeCurrency, Editable: true},
	}

	t.Run("summed column must exist", func(t *testing.T) {
		footer := &FooterConfig{SummedColumnIDs: []string{"bestaat_niet"}}
		_, err := CompileColumns(cols, nil, footer)
		assert.Error(t, err)
	})

	t.Run("summed column must be numeric", func(t *testing.T) {
		footer := &FooterConfig{SummedColumnIDs: []string{"naam"}}
		_, err := CompileColumns(cols, nil, footer)
		assert.Error(t, err)
	})

	t.Run("valid footer passes", func(t *testing.T) {
		footer := &FooterConfig{SummedColumnIDs: []string{"bedrag"}}
		_, err := CompileColumns(cols, nil, footer)
		assert.NoError(t, err)
	})

	t.Run("invoice footer needs two columns", func(t *testing.T) {
		single := []Column{
			{ID: "bedrag", Name: "Bedrag", Type: TypeCurrency, Editable: true},
		}
		footer := &FooterConfig{ShowSubtotal: true, SummedColumnIDs: []string{"bedrag"}}
		_, err := CompileColumns(single, nil, footer)
		assert.Error(t, err)

		validationErrors, ok := err.(*ValidationErrors)
		assert.True(t, ok)
		_, ok = validationErrors.Errors[0].(*InvalidFooterError)
		assert.True(t, ok)
	})
}

func TestCompileAggregatesAllErrors(t *testing.T) {
	cols := []Column{
		{ID: "3x", Name: "Bad id", Type: TypeNumber, Editable: true},
		{ID: "a", Name: "A", Type: TypeCalculated, Formula: "=kapot +"},
		{ID: "b", Name: "B", Type: TypeCalculated, Formula: "=onbekend"},
	}

	_, err := CompileColumns(cols, nil, &FooterConfig{SummedColumnIDs: []string{"weg"}})
	assert.Error(t, err)

	validationErrors, ok := err.(*ValidationErrors)
	assert.True(t, ok)
	assert.True(t, len(validationErrors.Errors) >= 3)
}

func TestSubtotalColumnFallsBackToLastSummed(t *testing.T) {
	footer := FooterConfig{SummedColumnIDs: []string{"totaal_uren", "rij_totaal"}}
	assert.Equal(t, "rij_totaal", footer.SubtotalColumn())

	footer.SubtotalColumnID = "totaal_uren"
	assert.Equal(t, "totaal_uren", footer.SubtotalColumn())

	empty := FooterConfig{}
	assert.Equal(t, "", empty.SubtotalColumn())
}
