package domain

import "github.com/shopspring/decimal"

var discountPerFlag = decimal.RequireFromString("0.25")

// Preferences are the customer flags that earn a discount.
type Preferences struct {
	FlamengoFan     bool `gorm:"column:torce_flamengo" json:"flamengo_fan"`
	OnePieceWatcher bool `gorm:"column:assiste_one_piece" json:"one_piece_watcher"`
	FromSousa       bool `gorm:"column:de_sousa" json:"from_sousa"`
}

func (p Preferences) Flags() int {
	n := 0
	for _, set := range []bool{p.FlamengoFan, p.OnePieceWatcher, p.FromSousa} {
		if set {
			n++
		}
	}
	return n
}

// Discount returns 25% of subtotal for every flag set, rounded to cents.
func Discount(subtotal decimal.Decimal, p Preferences) decimal.Decimal {
	rate := discountPerFlag.Mul(decimal.NewFromInt(int64(p.Flags())))
	return subtotal.Mul(rate).Round(2)
}
