package schema

// ColumnType declares how a column's raw values are interpreted.
type ColumnType string

const (
	// TypeText is free-form text, opaque to the engine.
	TypeText ColumnType = "text"
	// TypeNumber is a plain numeric column.
	TypeNumber ColumnType = "number"
	// TypeDate is a calendar date (entered as YYYY-MM-DD).
	TypeDate ColumnType = "date"
	// TypeTimeDecimal is a duration in decimal hours (8.5 = 8:30).
	TypeTimeDecimal ColumnType = "time_decimal"
	// TypeCurrency is a monetary amount.
	TypeCurrency ColumnType = "currency"
	// TypeCalculated is a formula-driven column, never edited directly.
	TypeCalculated ColumnType = "calculated"
)

// IsNumeric reports whether values of this type participate in
// arithmetic and footer sums.
func (t ColumnType) IsNumeric() bool {
	switch t {
	case TypeNumber, TypeTimeDecimal, TypeCurrency, TypeCalculated:
		return true
	}
	return false
}

// Display hints for rendering column values. Calculated columns carry
// one explicitly; editable columns derive theirs from the column type.
const (
	DisplayClock    = "clock"
	DisplayCurrency = "currency"
)

// Style carries per-column presentation attributes. The engine passes
// these through unchanged; only the UI and the export writer read them.
type Style struct {
	TextColor  string `json:"text_color,omitempty"`
	Background string `json:"background,omitempty"`
	FontWeight string `json:"font_weight,omitempty"`
	Alignment  string `json:"alignment,omitempty"`
}

// Column is one typed column of a template.
//
// The ID is the stable identifier used inside formula text and for cell
// mapping in exports; it must be a valid identifier token and unique
// within its template. Formula is present iff Type is TypeCalculated.
type Column struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Type     ColumnType `json:"type"`
	Width    int        `json:"width,omitempty"`
	Visible  bool       `json:"visible"`
	Editable bool       `json:"editable"`
	Formula  string     `json:"formula,omitempty"`
	Display  string     `json:"display,omitempty"`
	Style    *Style     `json:"style,omitempty"`
}

// DisplayHint resolves how values in this column render: the explicit
// Display override if set, otherwise a hint derived from the type. An
// empty hint means plain rendering.
func (c *Column) DisplayHint() string {
	if c.Display != "" {
		return c.Display
	}
	switch c.Type {
	case TypeTimeDecimal:
		return DisplayClock
	case TypeCurrency:
		return DisplayCurrency
	}
	return ""
}

// ValidID reports whether id is a valid identifier token:
// [A-Za-z_][A-Za-z0-9_]*. This matches the formula lexer's identifier
// charset so column ids always embed unambiguously in formula text.
func ValidID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		ch := id[i]
		isLetter := (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
		isDigit := ch >= '0' && ch <= '9'
		if !isLetter && !(isDigit && i > 0) {
			return false
		}
	}
	return true
}
