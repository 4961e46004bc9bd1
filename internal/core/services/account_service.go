package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/utils/pagination"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type accountService struct {
	BaseService
	uow             portsrepo.UnitOfWork
	accountRepo     portsrepo.AccountRepositoryFacade
	transactionRepo portsrepo.TransactionReader
	feeRepo         portsrepo.FeeRepositoryFacade
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountClock sets the clock used for audit timestamps.
func WithAccountClock(now func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.now = now
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repos *portsrepo.RepositoryProvider, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		uow:             repos.UnitOfWork,
		accountRepo:     repos.AccountRepo,
		transactionRepo: repos.TransactionRepo,
		feeRepo:         repos.FeeRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	if err := validateRequired("accountID", accountID); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !isNotFound(err) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	if err := validateRequired("accountNumber", accountNumber); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if !isNotFound(err) {
			s.LogError(ctx, err, "Failed to find account by number", slog.String("account_number", accountNumber))
		}
		return nil, err
	}
	return account, nil
}

// ListTransactions returns a page of history newest first and the token for the next page, if any.
func (s *accountService) ListTransactions(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if _, err := s.GetAccountByID(ctx, accountID); err != nil {
		return nil, nil, err
	}

	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	var beforeID *int64
	if nextToken != nil && *nextToken != "" {
		id, err := pagination.DecodeIDToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid page token: %v", apperrors.ErrValidation, err)
		}
		beforeID = &id
	}

	// One extra row tells us whether another page exists.
	rows, err := s.transactionRepo.ListByAccountPage(ctx, accountID, limit+1, beforeID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("account_id", accountID))
		return nil, nil, err
	}

	var next *string
	if len(rows) > limit {
		rows = rows[:limit]
		token := pagination.EncodeIDToken(rows[len(rows)-1].TransactionID)
		next = &token
	}
	return rows, next, nil
}

// GetTransactionsByRef returns every row of one ledger operation.
func (s *accountService) GetTransactionsByRef(ctx context.Context, ref string) ([]domain.Transaction, error) {
	if err := validateRequired("reference", ref); err != nil {
		return nil, err
	}
	rows, err := s.transactionRepo.FindByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: transaction reference %s", apperrors.ErrNotFound, ref)
	}
	return rows, nil
}

func (s *accountService) ListFees(ctx context.Context, accountID string) ([]domain.FeeRecord, error) {
	if _, err := s.GetAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.feeRepo.ListFeesByAccount(ctx, accountID)
}

// LockAccount blocks all ledger operations on the account.
func (s *accountService) LockAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.updateStatus(ctx, accountID, "lock", func(a *domain.Account) error {
		if !a.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrAccountLockedOrInactive, accountID)
		}
		a.IsLocked = true
		return nil
	})
}

func (s *accountService) UnlockAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.updateStatus(ctx, accountID, "unlock", func(a *domain.Account) error {
		if !a.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrAccountLockedOrInactive, accountID)
		}
		a.IsLocked = false
		return nil
	})
}

// DeactivateAccount soft-deletes the account. History stays readable.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.updateStatus(ctx, accountID, "deactivate", func(a *domain.Account) error {
		a.IsActive = false
		return nil
	})
}

// updateStatus decides and writes the new flags against the row locked inside one transaction,
// so a concurrent status change can never be overwritten from a stale read.
func (s *accountService) updateStatus(ctx context.Context, accountID, action string, mutate func(*domain.Account) error) (*domain.Account, error) {
	if err := validateRequired("accountID", accountID); err != nil {
		return nil, err
	}

	var updated domain.Account
	now := s.Now()
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		accounts, err := tx.Accounts().FindAccountsByIDsForUpdate(ctx, []string{accountID})
		if err != nil {
			return fmt.Errorf("failed to lock account: %w", err)
		}
		account, ok := accounts[accountID]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		if err := mutate(&account); err != nil {
			return err
		}
		if err := tx.Accounts().UpdateAccountStatus(ctx, accountID, account.IsActive, account.IsLocked, now); err != nil {
			return err
		}
		account.LastUpdatedAt = now
		updated = account
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrStorage) {
			s.LogError(ctx, err, "Failed to update account status", slog.String("account_id", accountID), slog.String("action", action))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account status updated",
		slog.String("account_id", accountID),
		slog.String("action", action),
		slog.Bool("is_active", updated.IsActive),
		slog.Bool("is_locked", updated.IsLocked))
	return &updated, nil
}
