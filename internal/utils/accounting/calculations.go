package accounting

import (
	"context"
	"fmt"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// FoldBalance sums the signed amounts of txns. No rounding is applied.
func FoldBalance(txns []domain.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, txn := range txns {
		sum = sum.Add(txn.SignedAmount())
	}
	return sum
}

// CalculateBalance derives the current balance of an account from its full history.
// An account without rows has a balance of zero.
func CalculateBalance(ctx context.Context, reader portsrepo.TransactionReader, accountID string) (decimal.Decimal, error) {
	txns, err := reader.ListByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list transactions for account %s: %w", accountID, err)
	}
	return FoldBalance(txns).Round(moneyPlaces), nil
}

// MonthlyInterest computes balance * (annualRate/100) / 12 rounded to cents.
func MonthlyInterest(balance, annualRatePercent decimal.Decimal) decimal.Decimal {
	return balance.Mul(annualRatePercent).Div(hundred).Div(twelve).Round(moneyPlaces)
}
