package engine

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/roelvdberg/rekenblad/schema"
)

// wageColumns is a minimal template slice exercising the weekend
// surcharge: hours × rate, ×1.3 on Saturdays.
func wageColumns() []schema.Column {
	return []schema.Column{
		{ID: "datum", Name: "Datum", Type: schema.TypeDate, Editable: true},
		{ID: "uren", Name: "Uren", Type: schema.TypeNumber, Editable: true},
		{ID: "loon", Name: "Loon", Type: schema.TypeCalculated,
			Formula: "=IF(WEEKDAY(datum)=7, 1.3, 1) * uren * tarief"},
	}
}

func wageEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	rates := map[string]decimal.Decimal{"tarief": decimal.NewFromInt(2)}
	compiled, err := schema.CompileColumns(wageColumns(), rates, nil)
	assert.NoError(t, err)
	return New(compiled, rates)
}

func assertNumber(t *testing.T, v Value, want string) {
	t.Helper()
	n, ok := v.Number()
	assert.True(t, ok)
	assert.True(t, n.Equal(decimal.RequireFromString(want)),
		"got %s, want %s", n.String(), want)
}

func TestSaturdaySurcharge(t *testing.T) {
	e := wageEvaluator(t)

	// 2026-01-03 is a Saturday: 10 × 2 × 1.3.
	saturday := e.Row(schema.Row{"datum": "2026-01-03", "uren": 10})
	assertNumber(t, saturday["loon"], "26")

	// 2026-01-07 is a Wednesday: no surcharge.
	wednesday := e.Row(schema.Row{"datum": "2026-01-07", "uren": 10})
	assertNumber(t, wednesday["loon"], "20")
}

func TestNullPropagatesThroughFormulaChain(t *testing.T) {
	compiled, err := schema.CompileColumns(tripColumns(), nil, nil)
	assert.NoError(t, err)
	e := New(compiled, nil)

	row := e.Row(schema.Row{
		// begin_tijd deliberately missing
		"eind_tijd": 17.0,
		"pauze":     0.5,
		"begin_km":  100,
		"eind_km":   160,
	})

	// The time chain is blank all the way down...
	assert.True(t, row["begin_tijd"].IsNull())
	assert.True(t, row["totaal_tijd"].IsNull())
	assert.True(t, row["totaal_uren"].IsNull())

	// ...while the independent km chain still evaluates.
	assertNumber(t, row["totaal_km"], "60")
}

func tripColumns() []schema.Column {
	return []schema.Column{
		{ID: "begin_tijd", Name: "Begin", Type: schema.TypeTimeDecimal, Editable: true},
		{ID: "eind_tijd", Name: "Eind", Type: schema.TypeTimeDecimal, Editable: true},
		{ID: "pauze", Name: "Pauze", Type: schema.TypeTimeDecimal, Editable: true},
		{ID: "totaal_tijd", Name: "Totaal tijd", Type: schema.TypeCalculated, Formula: "=eind_tijd - begin_tijd"},
		{ID: "totaal_uren", Name: "Totaal uren", Type: schema.TypeCalculated, Formula: "=totaal_tijd - pauze"},
		{ID: "begin_km", Name: "Begin km", Type: schema.TypeNumber, Editable: true},
		{ID: "eind_km", Name: "Eind km", Type: schema.TypeNumber, Editable: true},
		{ID: "totaal_km", Name: "Totaal km", Type: schema.TypeCalculated, Formula: "=eind_km - begin_km"},
	}
}

func TestDeclarationOrderDoesNotMatter(t *testing.T) {
	// Same columns, calculated ones declared first. Results must match.
	shuffled := []schema.Column{
		{ID: "totaal_uren", Name: "Totaal uren", Type: schema.TypeCalculated, Formula: "=totaal_tijd - pauze"},
		{ID: "totaal_km", Name: "Totaal km", Type: schema.TypeCalculated, Formula: "=eind_km - begin_km"},
		{ID: "totaal_tijd", Name: "Totaal tijd", Type: schema.TypeCalculated, Formula: "=eind_tijd - begin_tijd"},
		{ID: "begin_tijd", Name: "Begin", Type: schema.TypeTimeDecimal, Editable: true},
		{ID: "eind_tijd", Name: "Eind", Type: schema.TypeTimeDecimal, Editable: true},
		{ID: "pauze", Name: "Pauze", Type: schema.TypeTimeDecimal, Editable: true},
		{ID: "begin_km", Name: "Begin km", Type: schema.TypeNumber, Editable: true},
		{ID: "eind_km", Name: "Eind km", Type: schema.TypeNumber, Editable: true},
	}

	row := schema.Row{
		"begin_tijd": "08:00",
		"eind_tijd":  "17:30",
		"pauze":      0.5,
		"begin_km":   100,
		"eind_km":    160,
	}

	for _, cols := range [][]schema.Column{tripColumns(), shuffled} {
		compiled, err := schema.CompileColumns(cols, nil, nil)
		assert.NoError(t, err)

		values := New(compiled, nil).Row(row)
		assertNumber(t, values["totaal_tijd"], "9.5")
		assertNumber(t, values["totaal_uren"], "9")
		assertNumber(t, values["totaal_km"], "60")
	}
}

func TestDivisionByZeroIsBlank(t *testing.T) {
	cols := []schema.Column{
		{ID: "a", Name: "A", Type: schema.TypeNumber, Editable: true},
		{ID: "b", Name: "B", Type: schema.TypeNumber, Editable: true},
		{ID: "q", Name: "Q", Type: schema.TypeCalculated, Formula: "=a / b"},
	}
	compiled, err := schema.CompileColumns(cols, nil, nil)
	assert.NoError(t, err)
	e := New(compiled, nil)

	assert.True(t, e.Row(schema.Row{"a": 10, "b": 0})["q"].IsNull())
	assertNumber(t, e.Row(schema.Row{"a": 10, "b": 4})["q"], "2.5")
}

func TestRateResolution(t *testing.T) {
	cols := []schema.Column{
		{ID: "km", Name: "Km", Type: schema.TypeNumber, Editable: true},
		{ID: "bedrag", Name: "Bedrag", Type: schema.TypeCalculated, Formula: "=km * tarief_per_km"},
	}
	rates := map[string]decimal.Decimal{"tarief_per_km": decimal.RequireFromString("0.23")}

	compiled, err := schema.CompileColumns(cols, rates, nil)
	assert.NoError(t, err)

	values := New(compiled, rates).Row(schema.Row{"km": 200})
	assertNumber(t, values["bedrag"], "46")
}

func TestSurchargeRateIsEditable(t *testing.T) {
	doc := schema.NewDocument("d", schema.DefaultTripLog())
	doc.SetRate(schema.RateSurcharge, decimal.NewFromInt(2))

	e, err := ForDocument(doc)
	assert.NoError(t, err)

	// 2026-01-03 is a Saturday: 8 hours × 27.50 × the overridden 2.
	row := e.Row(schema.Row{
		"datum": "2026-01-03", "begin_tijd": 8, "eind_tijd": 16,
		"pauze": 0, "correctie": 0,
	})
	assertNumber(t, row["bedrag_uur"], "440")
}

func TestApplyBinary(t *testing.T) {
	two := Number(decimal.NewFromInt(2))
	three := Number(decimal.NewFromInt(3))

	tests := []struct {
		name  string
		op    string
		left  Value
		right Value
		check func(t *testing.T, v Value)
	}{
		{name: "add", op: "+", left: two, right: three,
			check: func(t *testing.T, v Value) { assertNumber(t, v, "5") }},
		{name: "null left propagates", op: "+", left: Null(), right: three,
			check: func(t *testing.T, v Value) { assert.True(t, v.IsNull()) }},
		{name: "null right propagates", op: "*", left: two, right: Null(),
			check: func(t *testing.T, v Value) { assert.True(t, v.IsNull()) }},
		{name: "text in arithmetic is blank", op: "+", left: Text("x"), right: three,
			check: func(t *testing.T, v Value) { assert.True(t, v.IsNull()) }},
		{name: "equal numbers", op: "=", left: two, right: Number(decimal.RequireFromString("2.0")),
			check: func(t *testing.T, v Value) {
				b, ok := v.Bool()
				assert.True(t, ok)
				assert.True(t, b)
			}},
		{name: "not equal", op: "<>", left: two, right: three,
			check: func(t *testing.T, v Value) {
				b, ok := v.Bool()
				assert.True(t, ok)
				assert.True(t, b)
			}},
		{name: "mixed kinds never equal", op: "=", left: two, right: Text("2"),
			check: func(t *testing.T, v Value) { assert.True(t, v.IsNull()) }},
		{name: "less than", op: "<", left: two, right: three,
			check: func(t *testing.T, v Value) {
				b, ok := v.Bool()
				assert.True(t, ok)
				assert.True(t, b)
			}},
		{name: "ordering needs numbers", op: "<", left: Text("a"), right: Text("b"),
			check: func(t *testing.T, v Value) { assert.True(t, v.IsNull()) }},
		{name: "text equality", op: "=", left: Text("za"), right: Text("za"),
			check: func(t *testing.T, v Value) {
				b, ok := v.Bool()
				assert.True(t, ok)
				assert.True(t, b)
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, applyBinary(tt.op, tt.left, tt.right))
		})
	}
}

func TestRowsEvaluatesInOrder(t *testing.T) {
	e := wageEvaluator(t)

	rows := e.Rows([]schema.Row{
		{"datum": "2026-01-03", "uren": 10},
		{"datum": "2026-01-07", "uren": 8},
	})

	assert.Equal(t, 2, len(rows))
	assertNumber(t, rows[0]["loon"], "26")
	assertNumber(t, rows[1]["loon"], "16")
}
