package services

import (
	"time"

	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

// ContainerOptions carries the collaborators shared by the services.
type ContainerOptions struct {
	Publisher          portssvc.EventPublisher
	Metrics            *metrics.Ledger
	MaxRefAttempts     int
	DefaultSavingsRate *decimal.Decimal
	Clock              func() time.Time
}

// NewContainer creates a new service container with properly initialized dependencies
func NewContainer(repos *portsrepo.RepositoryProvider, opts ContainerOptions) *portssvc.ServiceContainer {
	allocatorOpts := []AllocatorOption{WithAllocatorMetrics(opts.Metrics)}
	ledgerOpts := []LedgerServiceOption{WithLedgerMetrics(opts.Metrics)}
	var accountOpts []AccountServiceOption
	var appOpts []ApplicationServiceOption

	if opts.Publisher != nil {
		ledgerOpts = append(ledgerOpts, WithLedgerPublisher(opts.Publisher))
	}
	if opts.Clock != nil {
		allocatorOpts = append(allocatorOpts, WithAllocatorClock(opts.Clock))
		ledgerOpts = append(ledgerOpts, WithLedgerClock(opts.Clock))
		accountOpts = append(accountOpts, WithAccountClock(opts.Clock))
		appOpts = append(appOpts, WithApplicationClock(opts.Clock))
	}
	if opts.DefaultSavingsRate != nil {
		appOpts = append(appOpts, WithDefaultInterestRate(*opts.DefaultSavingsRate))
	}

	// One allocator serves every code kind so attempts share the same metrics.
	allocator := NewReferenceAllocator(opts.MaxRefAttempts, allocatorOpts...)

	return &portssvc.ServiceContainer{
		Ledger:      NewLedgerService(repos, allocator, ledgerOpts...),
		Account:     NewAccountService(repos, accountOpts...),
		Application: NewApplicationService(repos, allocator, appOpts...),
		Reporting:   NewReportingService(repos),
	}
}
