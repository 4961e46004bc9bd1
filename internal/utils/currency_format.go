package utils

import (
	"github.com/shopspring/decimal"
)

// MoneyPrecision is the number of fractional digits carried by every amount.
const MoneyPrecision = 2

// FormatAmount renders an amount with exactly two fractional digits.
// Example: 785 returns "785.00", 4.1666 returns "4.17"
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(MoneyPrecision)
}

// HasMoneyPrecision reports whether amount carries no more than two fractional digits.
func HasMoneyPrecision(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(MoneyPrecision))
}
