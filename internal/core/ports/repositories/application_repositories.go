package repositories

import (
	"context"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
)

// ApplicationRepositoryFacade defines persistence for account and loan applications.
type ApplicationRepositoryFacade interface {
	FindApplicationByNumber(ctx context.Context, applicationNumber string) (*domain.Application, error)
	FindApplicationByNumberForUpdate(ctx context.Context, applicationNumber string) (*domain.Application, error)
	SaveApplication(ctx context.Context, app domain.Application) error
	UpdateApplication(ctx context.Context, app domain.Application) error
}
