package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/core/services"
	"github.com/SscSPs/bank_ledger/internal/platform/metrics"
	"github.com/SscSPs/bank_ledger/internal/repositories/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2026, 10, 18, 14, 25, 1, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// --- Mock EventPublisher ---
type MockEventPublisher struct {
	mock.Mock
}

var _ portssvc.EventPublisher = (*MockEventPublisher)(nil)

func (m *MockEventPublisher) PublishLedgerEvent(ctx context.Context, event domain.LedgerEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// recordingPublisher keeps every event it is handed.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.LedgerEvent
}

func (p *recordingPublisher) PublishLedgerEvent(_ context.Context, event domain.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// ledgerFixture wires every service against a fresh in-memory store.
type ledgerFixture struct {
	suite.Suite
	ctx       context.Context
	clock     time.Time
	repos     *portsrepo.RepositoryProvider
	svc       *portssvc.ServiceContainer
	publisher *recordingPublisher
	registry  *prometheus.Registry
	metrics   *metrics.Ledger
}

func (f *ledgerFixture) SetupTest() {
	f.ctx = context.Background()
	f.clock = fixedNow
	f.repos = memory.NewRepositoryProvider(memory.NewStore())
	f.publisher = &recordingPublisher{}
	f.registry = prometheus.NewRegistry()

	m, err := metrics.NewLedger(f.registry, "test")
	f.Require().NoError(err)
	f.metrics = m

	f.svc = services.NewContainer(f.repos, services.ContainerOptions{
		Publisher: f.publisher,
		Metrics:   m,
		Clock:     func() time.Time { return f.clock },
	})
}

// openAccount runs the application workflow and returns the opened account.
func (f *ledgerFixture) openAccount(customerID string, accountType domain.AccountType) domain.Account {
	app, err := f.svc.Application.SubmitAccountApplication(f.ctx, customerID, accountType, nil)
	f.Require().NoError(err)
	app, err = f.svc.Application.ApproveApplication(f.ctx, app.ApplicationNumber)
	f.Require().NoError(err)
	account, err := f.svc.Account.GetAccountByID(f.ctx, app.ResultID)
	f.Require().NoError(err)
	return *account
}

func (f *ledgerFixture) fund(accountID string, amount string) {
	_, err := f.svc.Ledger.Deposit(f.ctx, accountID, dec(amount), "initial funding")
	f.Require().NoError(err)
}

func (f *ledgerFixture) balance(accountID string) decimal.Decimal {
	b, err := f.svc.Ledger.GetBalance(f.ctx, accountID)
	f.Require().NoError(err)
	return b
}

func (f *ledgerFixture) rows(accountID string) []domain.Transaction {
	rows, err := f.repos.TransactionRepo.ListByAccount(f.ctx, accountID)
	f.Require().NoError(err)
	return rows
}

// assertHistoryConsistent checks that every stored BalanceAfter equals the running fold.
func assertHistoryConsistent(t require.TestingT, rows []domain.Transaction) {
	running := decimal.Zero
	for _, row := range rows {
		running = running.Add(row.SignedAmount())
		require.True(t, row.BalanceAfter.Equal(running), "row %d balance_after %s, fold %s", row.TransactionID, row.BalanceAfter, running)
	}
}
