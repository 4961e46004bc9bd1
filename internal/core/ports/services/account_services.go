package services

import (
	"context"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
)

// AccountReaderSvc defines read operations for accounts and their history
type AccountReaderSvc interface {
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// ListTransactions pages through history newest first. nextToken is opaque.
	ListTransactions(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
	GetTransactionsByRef(ctx context.Context, ref string) ([]domain.Transaction, error)
	ListFees(ctx context.Context, accountID string) ([]domain.FeeRecord, error)
}

// AccountWriterSvc defines status changes for accounts
type AccountWriterSvc interface {
	LockAccount(ctx context.Context, accountID string) (*domain.Account, error)
	UnlockAccount(ctx context.Context, accountID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, accountID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
