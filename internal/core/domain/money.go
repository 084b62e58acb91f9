package domain

import "github.com/shopspring/decimal"

// MoneyScale is the number of fraction digits every ledger amount carries.
const MoneyScale int32 = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds d half away from zero to MoneyScale digits.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// HasMoneyScale reports whether d has no more than MoneyScale fraction digits.
func HasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

// ApplyRate returns base * ratePercent / 100 rounded to the money scale.
func ApplyRate(base, ratePercent decimal.Decimal) decimal.Decimal {
	return RoundMoney(base.Mul(ratePercent).Div(hundred))
}

// FormatMoney renders d with exactly MoneyScale fraction digits ("1200.00").
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyScale)
}
