package repositories

import (
	"context"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
)

// FeeRepositoryFacade stores the fee history kept alongside service charges.
type FeeRepositoryFacade interface {
	SaveFeeRecord(ctx context.Context, record domain.FeeRecord) (int64, error)
	ListFeesByAccount(ctx context.Context, accountID string) ([]domain.FeeRecord, error)
}
