package calculator

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Project rescales stake by how far the price moved from historical to
// reference: reference * (stake / historical). Nothing is rounded here.
//
// A zero historical price panics inside decimal.Div; callers treat it as
// missing data and never get this far.
func Project(reference, historical, stake decimal.Decimal) decimal.Decimal {
	return reference.Mul(stake.Div(historical))
}

// ProfitLoss is the gain (positive) or loss (negative) of a projection.
func ProfitLoss(projected, stake decimal.Decimal) decimal.Decimal {
	return projected.Sub(stake)
}

// ReturnPercent expresses a projection as a percentage return on stake.
func ReturnPercent(projected, stake decimal.Decimal) decimal.Decimal {
	if stake.IsZero() {
		return decimal.Zero
	}
	return projected.Div(stake).Sub(decimal.NewFromInt(1)).Mul(hundred)
}
