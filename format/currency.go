package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency renders an amount as a locale-formatted currency string,
// e.g. "€ 1.234,50" for Dutch. This is string rendering only; the
// decimal value stays the canonical representation everywhere else.
func Currency(v decimal.Decimal, tag language.Tag) string {
	p := message.NewPrinter(tag)
	f, _ := v.Round(2).Float64()
	return p.Sprintf("€ %v", number.Decimal(f,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))
}

// Euro renders an amount in the application's default locale (Dutch).
func Euro(v decimal.Decimal) string {
	return Currency(v, language.Dutch)
}
