package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	accountRepo     portsrepo.AccountReader
	transactionRepo portsrepo.TransactionReader
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repos *portsrepo.RepositoryProvider, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		accountRepo:     repos.AccountRepo,
		transactionRepo: repos.TransactionRepo,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// Statement folds the account history into opening and closing balances for [from, to)
// and lists the rows in between.
func (s *reportingService) Statement(ctx context.Context, accountID string, from, to time.Time) (*domain.Statement, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: statement start must be before its end", apperrors.ErrValidation)
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	rows, err := s.transactionRepo.ListByAccount(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve statement rows", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to retrieve statement rows: %w", err)
	}

	var before []domain.Transaction
	entries := make([]domain.Transaction, 0)
	credits, debits := decimal.Zero, decimal.Zero
	for _, row := range rows {
		switch {
		case row.CreatedAt.Before(from):
			before = append(before, row)
		case row.CreatedAt.Before(to):
			entries = append(entries, row)
			// Rows of unknown type carry sign 0 and move neither total, as in FoldBalance.
			switch sign := row.Type.Sign(); {
			case sign > 0:
				credits = credits.Add(row.Amount)
			case sign < 0:
				debits = debits.Add(row.Amount)
			}
		}
	}

	opening := accounting.FoldBalance(before).Round(2)
	statement := &domain.Statement{
		AccountID:      accountID,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		ClosingBalance: opening.Add(credits).Sub(debits).Round(2),
		TotalCredits:   credits,
		TotalDebits:    debits,
		Entries:        entries,
	}

	s.LogInfo(ctx, "Statement generated",
		slog.String("account_id", accountID),
		slog.String("from", from.Format(time.RFC3339)),
		slog.String("to", to.Format(time.RFC3339)),
		slog.Int("entries", len(entries)))
	return statement, nil
}
