package domain

import "github.com/shopspring/decimal"

// DisplayPlaces is the number of decimal places amounts are shown with.
const DisplayPlaces = 2

// FormatAmount renders an amount for display, rounded half away from zero.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(DisplayPlaces)
}
