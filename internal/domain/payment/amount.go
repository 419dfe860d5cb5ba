package payment

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a decimal amount into integer minor units.
// All currencies are treated as having two decimal subunits; halves round
// away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits converts integer minor units back into a decimal amount.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// taxRateBasisPoints converts a fractional tax rate (0.25) into basis points (2500).
func taxRateBasisPoints(rate decimal.Decimal) int64 {
	return ToMinorUnits(rate.Mul(hundred))
}

// ratioTaxRate derives a tax rate in basis points from a tax amount and the
// amount it was levied on. A zero base yields a rate of zero.
func ratioTaxRate(tax, withoutTax decimal.Decimal) int64 {
	if withoutTax.IsZero() {
		return 0
	}
	return ToMinorUnits(tax.Div(withoutTax).Mul(hundred))
}
