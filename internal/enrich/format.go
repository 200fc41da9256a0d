package enrich

import (
	"github.com/shopspring/decimal"
)

// NA is the sentinel rendered for absent enrichment values.
const NA = "n/a"

var (
	trillion = decimal.New(1, 12)
	billion  = decimal.New(1, 9)
	million  = decimal.New(1, 6)
	thousand = decimal.New(1, 3)
)

// FormatPrice renders a price as "$12.34", or "n/a" when absent.
func FormatPrice(d *decimal.Decimal) string {
	if d == nil {
		return NA
	}
	return "$" + d.StringFixed(2)
}

// FormatCompact renders a large value with a K/M/B/T suffix, two decimal
// places: 1234567890 → "1.23B". Absent values render as "n/a".
func FormatCompact(d *decimal.Decimal) string {
	if d == nil {
		return NA
	}

	abs := d.Abs()
	switch {
	case abs.GreaterThanOrEqual(trillion):
		return d.Div(trillion).StringFixed(2) + "T"
	case abs.GreaterThanOrEqual(billion):
		return d.Div(billion).StringFixed(2) + "B"
	case abs.GreaterThanOrEqual(million):
		return d.Div(million).StringFixed(2) + "M"
	case abs.GreaterThanOrEqual(thousand):
		return d.Div(thousand).StringFixed(2) + "K"
	default:
		return d.StringFixed(2)
	}
}
