// Package format converts between the engine's canonical numeric
// representations and human-facing strings. Conversions here are
// presentation only and never feed back into evaluation.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var sixty = decimal.NewFromInt(60)

// DecimalHoursToClock renders decimal hours as HH:MM.
// 8.5 becomes "08:30", -1.25 becomes "-01:15". Minutes round to the
// nearest whole minute, carrying into the hour at :60.
func DecimalHoursToClock(v decimal.Decimal) string {
	sign := ""
	abs := v
	if v.IsNegative() {
		sign = "-"
		abs = v.Neg()
	}

	hours := abs.Floor()
	minutes := abs.Sub(hours).Mul(sixty).Round(0)

	if minutes.Equal(sixty) {
		hours = hours.Add(decimal.NewFromInt(1))
		minutes = decimal.Zero
	}

	return fmt.Sprintf("%s%02d:%02d", sign, hours.IntPart(), minutes.IntPart())
}

// ClockToDecimalHours parses "HH:MM" into decimal hours.
// Returns ok=false for anything without a ':' or with non-numeric
// parts; callers treat that as a blank cell.
func ClockToDecimalHours(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	hh, mm, found := strings.Cut(s, ":")
	if !found {
		return decimal.Zero, false
	}

	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 {
		return decimal.Zero, false
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return decimal.Zero, false
	}

	v := decimal.NewFromInt(int64(hours)).Add(
		decimal.NewFromInt(int64(minutes)).Div(sixty))
	if negative {
		v = v.Neg()
	}

	return v, true
}
