// Package memory is the in-process storage driver. It keeps every table in maps guarded
// by one lock and is meant for local runs and tests.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
)

type referenceKey struct {
	kind domain.ReferenceKind
	code string
}

type state struct {
	accounts     map[string]domain.Account
	transactions []domain.Transaction
	nextTxID     int64
	loans        map[string]domain.Loan
	applications map[string]domain.Application
	fees         []domain.FeeRecord
	nextFeeID    int64
	references   map[referenceKey]struct{}
}

func newState() *state {
	return &state{
		accounts:     make(map[string]domain.Account),
		loans:        make(map[string]domain.Loan),
		applications: make(map[string]domain.Application),
		references:   make(map[referenceKey]struct{}),
	}
}

func (st *state) clone() *state {
	return &state{
		accounts:     maps.Clone(st.accounts),
		transactions: slices.Clone(st.transactions),
		nextTxID:     st.nextTxID,
		loans:        maps.Clone(st.loans),
		applications: maps.Clone(st.applications),
		fees:         slices.Clone(st.fees),
		nextFeeID:    st.nextFeeID,
		references:   maps.Clone(st.references),
	}
}

// Store holds all ledger tables in memory.
// Units of work run one at a time under the write lock; a failed unit restores
// the snapshot taken when it started.
type Store struct {
	mu   sync.RWMutex
	data *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: newState()}
}

// NewRepositoryProvider exposes the store through the repository ports.
func NewRepositoryProvider(store *Store) *portsrepo.RepositoryProvider {
	p := pooled{store: store}
	return &portsrepo.RepositoryProvider{
		AccountRepo:     p,
		TransactionRepo: p,
		LoanRepo:        p,
		ApplicationRepo: p,
		FeeRepo:         p,
		UnitOfWork:      store,
	}
}

var _ portsrepo.UnitOfWork = (*Store)(nil)

// WithinTx runs fn with exclusive access to the store.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	committed := false
	defer func() {
		if !committed {
			s.data = snapshot
		}
	}()

	if err := fn(ctx, &txView{st: s.data}); err != nil {
		return err
	}
	committed = true
	return nil
}

// read runs fn under the read lock against the committed state.
func read[T any](s *Store, fn func(v *txView) (T, error)) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&txView{st: s.data})
}

// write runs a single statement under the write lock.
func write(s *Store, fn func(v *txView) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&txView{st: s.data})
}
