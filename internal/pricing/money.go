// Package pricing is the single place storefront and admin surfaces derive
// prices, discounts, order totals and purchase eligibility from.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	hundred   = decimal.NewFromInt(100)
	inPrinter = message.NewPrinter(language.MustParse("en-IN"))
)

// Round2 rounds half away from zero to two decimal places.
func Round2(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

// Percent returns part/whole as a whole-number percentage. A non-positive
// whole yields 0.
func Percent(part, whole float64) int {
	w := decimal.NewFromFloat(whole)
	if !w.IsPositive() {
		return 0
	}
	return int(decimal.NewFromFloat(part).Mul(hundred).Div(w).Round(0).IntPart())
}

// FormatINR renders an amount for shoppers: rupee sign, locale grouping, no decimals.
func FormatINR(amount float64) string {
	n := decimal.NewFromFloat(amount).Round(0).IntPart()
	if n < 0 {
		return inPrinter.Sprintf("-₹%d", -n)
	}
	return inPrinter.Sprintf("₹%d", n)
}

// FormatINRPaise renders an amount with paise, for admin tables and invoices.
func FormatINRPaise(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	rupees := d.Truncate(0)
	paise := d.Sub(rupees).Abs().Mul(hundred).IntPart()
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return inPrinter.Sprintf("%s₹%d", sign, rupees.Abs().IntPart()) + fmt.Sprintf(".%02d", paise)
}
