package services

import (
	"context"
	"time"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
)

// ReportingService defines the interface for account reporting.
type ReportingService interface {
	// Statement covers rows created in [from, to).
	Statement(ctx context.Context, accountID string, from, to time.Time) (*domain.Statement, error)
}
