package repositories

import (
	"context"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
)

// TransactionReader defines read operations over the append-only ledger.
type TransactionReader interface {
	// ListByAccount returns every row of the account ordered by creation time ascending.
	ListByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error)

	// ListByAccountPage returns at most limit rows, newest first, with ids below beforeID when set.
	ListByAccountPage(ctx context.Context, accountID string, limit int, beforeID *int64) ([]domain.Transaction, error)

	// FindByRef returns all rows sharing a transaction reference.
	FindByRef(ctx context.Context, ref string) ([]domain.Transaction, error)

	// ExistsByRef reports whether any row carries the reference.
	ExistsByRef(ctx context.Context, ref string) (bool, error)
}

// TransactionWriter appends rows. Existing rows are never updated or deleted.
type TransactionWriter interface {
	Append(ctx context.Context, txn domain.Transaction) (int64, error)
}

// TransactionStore combines read and append access.
type TransactionStore interface {
	TransactionReader
	TransactionWriter
}
