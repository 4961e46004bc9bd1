package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/bank_ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, isActive, isLocked bool, now time.Time) error {
	args := m.Called(ctx, accountID, isActive, isLocked, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) MarkInterestApplied(ctx context.Context, accountID string, period string, now time.Time) (bool, error) {
	args := m.Called(ctx, accountID, period, now)
	return args.Bool(0), args.Error(1)
}

// accountsOnlyUnitOfWork runs fn against a transaction that only exposes an account repository.
type accountsOnlyUnitOfWork struct {
	repo portsrepo.AccountRepositoryFacade
}

type accountsOnlyTx struct {
	portsrepo.LedgerTx
	repo portsrepo.AccountRepositoryFacade
}

func (t accountsOnlyTx) Accounts() portsrepo.AccountRepositoryFacade { return t.repo }

func (u accountsOnlyUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	return fn(ctx, accountsOnlyTx{repo: u.repo})
}

// interleavingUnitOfWork runs before once, ahead of the first transaction it opens.
type interleavingUnitOfWork struct {
	portsrepo.UnitOfWork
	once   sync.Once
	before func()
}

func (u *interleavingUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	u.once.Do(u.before)
	return u.UnitOfWork.WithinTx(ctx, fn)
}

func TestAccountService_StorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)
	storageErr := apperrors.NewStorageError("query failed", errors.New("timeout"))
	repo.On("FindAccountByID", ctx, "acc-1").Return(nil, storageErr).Once()
	repo.On("FindAccountsByIDsForUpdate", ctx, []string{"acc-2"}).
		Return(map[string]domain.Account{"acc-2": {AccountID: "acc-2", IsActive: true}}, nil).Once()
	repo.On("UpdateAccountStatus", ctx, "acc-2", true, true, fixedNow).Return(storageErr).Once()

	svc := services.NewAccountService(&portsrepo.RepositoryProvider{AccountRepo: repo, UnitOfWork: accountsOnlyUnitOfWork{repo: repo}},
		services.WithAccountClock(func() time.Time { return fixedNow }))

	_, err := svc.GetAccountByID(ctx, "acc-1")
	assert.ErrorIs(t, err, apperrors.ErrStorage)

	_, err = svc.LockAccount(ctx, "acc-2")
	assert.ErrorIs(t, err, apperrors.ErrStorage)

	_, err = svc.GetAccountByID(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	repo.AssertExpectations(t)
}

type AccountServiceTestSuite struct {
	ledgerFixture
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (s *AccountServiceTestSuite) TestListTransactions_Pages() {
	acc := s.openAccount("cust-1", domain.Checking)
	for i := 0; i < 5; i++ {
		s.fund(acc.AccountID, "10")
	}

	page, next, err := s.svc.Account.ListTransactions(s.ctx, acc.AccountID, 2, nil)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Require().NotNil(next)
	s.Greater(page[0].TransactionID, page[1].TransactionID)
	s.True(page[0].BalanceAfter.Equal(dec("50")))

	var all []domain.Transaction
	all = append(all, page...)
	for next != nil {
		page, next, err = s.svc.Account.ListTransactions(s.ctx, acc.AccountID, 2, next)
		s.Require().NoError(err)
		all = append(all, page...)
	}
	s.Len(all, 5)
	s.True(all[4].BalanceAfter.Equal(dec("10")))
}

func (s *AccountServiceTestSuite) TestListTransactions_DefaultsAndBadToken() {
	acc := s.openAccount("cust-1", domain.Checking)
	s.fund(acc.AccountID, "10")

	page, next, err := s.svc.Account.ListTransactions(s.ctx, acc.AccountID, 0, nil)
	s.Require().NoError(err)
	s.Len(page, 1)
	s.Nil(next)

	bad := "%%%not-a-token"
	_, _, err = s.svc.Account.ListTransactions(s.ctx, acc.AccountID, 10, &bad)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, _, err = s.svc.Account.ListTransactions(s.ctx, "missing", 10, nil)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *AccountServiceTestSuite) TestLockUnlockDeactivate() {
	acc := s.openAccount("cust-1", domain.Checking)

	locked, err := s.svc.Account.LockAccount(s.ctx, acc.AccountID)
	s.Require().NoError(err)
	s.True(locked.IsLocked)

	unlocked, err := s.svc.Account.UnlockAccount(s.ctx, acc.AccountID)
	s.Require().NoError(err)
	s.False(unlocked.IsLocked)

	deactivated, err := s.svc.Account.DeactivateAccount(s.ctx, acc.AccountID)
	s.Require().NoError(err)
	s.False(deactivated.IsActive)

	_, err = s.svc.Account.LockAccount(s.ctx, acc.AccountID)
	s.ErrorIs(err, apperrors.ErrAccountLockedOrInactive)

	stored, err := s.svc.Account.GetAccountByID(s.ctx, acc.AccountID)
	s.Require().NoError(err)
	s.False(stored.IsActive)
}

func (s *AccountServiceTestSuite) TestLock_DecidesOnRowReadInsideTransaction() {
	acc := s.openAccount("cust-1", domain.Checking)

	// The account is deactivated after LockAccount is called but before its transaction starts.
	uow := &interleavingUnitOfWork{
		UnitOfWork: s.repos.UnitOfWork,
		before: func() {
			err := s.repos.AccountRepo.UpdateAccountStatus(s.ctx, acc.AccountID, false, false, fixedNow)
			s.Require().NoError(err)
		},
	}
	repos := *s.repos
	repos.UnitOfWork = uow
	svc := services.NewAccountService(&repos, services.WithAccountClock(func() time.Time { return fixedNow }))

	_, err := svc.LockAccount(s.ctx, acc.AccountID)
	s.ErrorIs(err, apperrors.ErrAccountLockedOrInactive)

	stored, err := s.svc.Account.GetAccountByID(s.ctx, acc.AccountID)
	s.Require().NoError(err)
	s.False(stored.IsActive)
	s.False(stored.IsLocked)
}

func (s *AccountServiceTestSuite) TestConcurrentLockAndDeactivate_StaysInactive() {
	acc := s.openAccount("cust-1", domain.Checking)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.svc.Account.LockAccount(s.ctx, acc.AccountID)
		}()
		go func() {
			defer wg.Done()
			_, _ = s.svc.Account.UnlockAccount(s.ctx, acc.AccountID)
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := s.svc.Account.DeactivateAccount(s.ctx, acc.AccountID)
		s.NoError(err)
	}()
	wg.Wait()

	stored, err := s.svc.Account.GetAccountByID(s.ctx, acc.AccountID)
	s.Require().NoError(err)
	s.False(stored.IsActive)

	_, err = s.svc.Account.UnlockAccount(s.ctx, acc.AccountID)
	s.ErrorIs(err, apperrors.ErrAccountLockedOrInactive)
}

func (s *AccountServiceTestSuite) TestStatusChange_UnknownAccount() {
	_, err := s.svc.Account.LockAccount(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *AccountServiceTestSuite) TestGetTransactionsByRef_Unknown() {
	_, err := s.svc.Account.GetTransactionsByRef(s.ctx, "DEP-20261018142501-000000")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *AccountServiceTestSuite) TestHistoryReadableAfterDeactivation() {
	acc := s.openAccount("cust-1", domain.Checking)
	s.fund(acc.AccountID, "10")
	_, err := s.svc.Account.DeactivateAccount(s.ctx, acc.AccountID)
	require.NoError(s.T(), err)

	page, _, err := s.svc.Account.ListTransactions(s.ctx, acc.AccountID, 10, nil)
	s.Require().NoError(err)
	s.Len(page, 1)
	s.True(s.balance(acc.AccountID).Equal(dec("10")))
}
