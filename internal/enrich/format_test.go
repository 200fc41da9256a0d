package enrich

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		in   *decimal.Decimal
		want string
	}{
		{nil, "n/a"},
		{dec("12.34"), "$12.34"},
		{dec("0.5"), "$0.50"},
		{dec("1234.567"), "$1234.57"},
	}
	for _, tc := range cases {
		if got := FormatPrice(tc.in); got != tc.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	cases := []struct {
		in   *decimal.Decimal
		want string
	}{
		{nil, "n/a"},
		{dec("950"), "950.00"},
		{dec("1500"), "1.50K"},
		{dec("2340000"), "2.34M"},
		{dec("1234000000"), "1.23B"},
		{dec("5600000000000"), "5.60T"},
		{dec("-2340000"), "-2.34M"},
	}
	for _, tc := range cases {
		if got := FormatCompact(tc.in); got != tc.want {
			t.Errorf("FormatCompact(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
