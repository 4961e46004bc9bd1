package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByNumber retrieves an account by its customer-facing account number.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountStatus sets the active and locked flags.
	UpdateAccountStatus(ctx context.Context, accountID string, isActive, isLocked bool, now time.Time) error
}

// AccountTransactionSupport defines operations only meaningful inside a unit of work.
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks them until the unit of work ends.
	FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// MarkInterestApplied records period as the last interest period unless it already is.
	// It returns false when the period was already marked.
	MarkInterestApplied(ctx context.Context, accountID string, period string, now time.Time) (bool, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
