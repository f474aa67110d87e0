package domain

import "github.com/shopspring/decimal"

func init() {
	// money goes over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

var amountTolerance = decimal.RequireFromString("0.01")

// SameAmount reports whether a and b differ by at most one cent.
func SameAmount(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(amountTolerance)
}
