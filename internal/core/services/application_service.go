package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultSavingsRate is the annual percent applied when an interest-bearing
// application does not ask for a specific rate.
var DefaultSavingsRate = decimal.RequireFromString("0.50")

// MaxLoanTermMonths caps the term accepted on loan applications.
const MaxLoanTermMonths = 360

// RatePlaces is the number of decimal places stored for an interest rate.
const RatePlaces = 4

type applicationService struct {
	BaseService
	uow         portsrepo.UnitOfWork
	appRepo     portsrepo.ApplicationRepositoryFacade
	loanRepo    portsrepo.LoanRepositoryFacade
	allocator   *ReferenceAllocator
	defaultRate decimal.Decimal
	newID       func() string
}

// ApplicationServiceOption is a functional option for configuring the application service
type ApplicationServiceOption func(*applicationService)

// WithDefaultInterestRate overrides DefaultSavingsRate.
func WithDefaultInterestRate(rate decimal.Decimal) ApplicationServiceOption {
	return func(s *applicationService) {
		s.defaultRate = rate.Round(RatePlaces)
	}
}

// WithApplicationClock sets the clock used for decisions and audit timestamps.
func WithApplicationClock(now func() time.Time) ApplicationServiceOption {
	return func(s *applicationService) {
		s.now = now
	}
}

// WithIDGenerator replaces uuid generation for accounts and loans.
func WithIDGenerator(newID func() string) ApplicationServiceOption {
	return func(s *applicationService) {
		s.newID = newID
	}
}

// NewApplicationService creates a new application service with the provided options
func NewApplicationService(repos *portsrepo.RepositoryProvider, allocator *ReferenceAllocator, options ...ApplicationServiceOption) portssvc.ApplicationSvcFacade {
	svc := &applicationService{
		uow:         repos.UnitOfWork,
		appRepo:     repos.ApplicationRepo,
		loanRepo:    repos.LoanRepo,
		allocator:   allocator,
		defaultRate: DefaultSavingsRate,
		newID:       func() string { return uuid.NewString() },
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ApplicationSvcFacade = (*applicationService)(nil)

// SubmitAccountApplication records a pending request to open an account.
func (s *applicationService) SubmitAccountApplication(ctx context.Context, customerID string, accountType domain.AccountType, interestRate *decimal.Decimal) (*domain.Application, error) {
	if err := validateRequired("customerID", customerID); err != nil {
		return nil, err
	}
	if !accountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, accountType)
	}

	var rate *decimal.Decimal
	switch {
	case !accountType.IsInterestBearing() && interestRate != nil:
		return nil, fmt.Errorf("%w: %s accounts do not bear interest", apperrors.ErrValidation, accountType)
	case accountType.IsInterestBearing() && interestRate == nil:
		r := s.defaultRate
		rate = &r
	case interestRate != nil:
		if interestRate.IsNegative() || interestRate.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("%w: interest rate must be between 0 and 100", apperrors.ErrValidation)
		}
		if !interestRate.Equal(interestRate.Round(RatePlaces)) {
			return nil, fmt.Errorf("%w: interest rate allows at most %d decimal places", apperrors.ErrValidation, RatePlaces)
		}
		r := *interestRate
		rate = &r
	}

	return s.submit(ctx, domain.Application{
		Kind:         domain.AccountApplication,
		CustomerID:   customerID,
		AccountType:  accountType,
		InterestRate: rate,
	})
}

// SubmitLoanApplication records a pending loan request.
func (s *applicationService) SubmitLoanApplication(ctx context.Context, customerID string, principal decimal.Decimal, termMonths int) (*domain.Application, error) {
	if err := validateRequired("customerID", customerID); err != nil {
		return nil, err
	}
	if err := validatePositiveAmount("principal", principal); err != nil {
		return nil, err
	}
	if termMonths <= 0 || termMonths > MaxLoanTermMonths {
		return nil, fmt.Errorf("%w: term must be between 1 and %d months", apperrors.ErrValidation, MaxLoanTermMonths)
	}

	return s.submit(ctx, domain.Application{
		Kind:       domain.LoanApplication,
		CustomerID: customerID,
		Principal:  &principal,
		TermMonths: termMonths,
	})
}

func (s *applicationService) submit(ctx context.Context, app domain.Application) (*domain.Application, error) {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		number, err := s.allocator.Allocate(ctx, tx.References(), domain.ApplicationNumberPattern())
		if err != nil {
			return err
		}
		now := s.Now()
		app.ApplicationNumber = number
		app.Status = domain.ApplicationPending
		app.CreatedAt = now
		app.LastUpdatedAt = now
		return tx.Applications().SaveApplication(ctx, app)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to submit application", slog.String("kind", string(app.Kind)), slog.String("customer_id", app.CustomerID))
		return nil, err
	}

	s.LogInfo(ctx, "Application submitted",
		slog.String("application_number", app.ApplicationNumber),
		slog.String("kind", string(app.Kind)),
		slog.String("customer_id", app.CustomerID))
	return &app, nil
}

func (s *applicationService) GetApplication(ctx context.Context, applicationNumber string) (*domain.Application, error) {
	if err := validateRequired("applicationNumber", applicationNumber); err != nil {
		return nil, err
	}
	return s.appRepo.FindApplicationByNumber(ctx, applicationNumber)
}

// ApproveApplication opens the requested account or creates the requested loan.
// The application and its result are written in one unit of work.
func (s *applicationService) ApproveApplication(ctx context.Context, applicationNumber string) (*domain.Application, error) {
	var approved *domain.Application
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		app, err := s.lockPending(ctx, tx, applicationNumber)
		if err != nil {
			return err
		}
		now := s.Now()

		switch app.Kind {
		case domain.AccountApplication:
			number, err := s.allocator.Allocate(ctx, tx.References(), domain.AccountNumberPattern(app.AccountType))
			if err != nil {
				return err
			}
			account := domain.Account{
				AccountID:     s.newID(),
				AccountNumber: number,
				CustomerID:    app.CustomerID,
				AccountType:   app.AccountType,
				IsActive:      true,
				InterestRate:  app.InterestRate,
				AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
			}
			if err := tx.Accounts().SaveAccount(ctx, account); err != nil {
				return fmt.Errorf("failed to open account: %w", err)
			}
			app.ResultID = account.AccountID
		case domain.LoanApplication:
			if app.Principal == nil {
				return fmt.Errorf("%w: loan application %s has no principal", apperrors.ErrInternal, applicationNumber)
			}
			loan := domain.Loan{
				LoanID:            s.newID(),
				ApplicationNumber: app.ApplicationNumber,
				CustomerID:        app.CustomerID,
				Principal:         *app.Principal,
				RemainingBalance:  *app.Principal,
				TermMonths:        app.TermMonths,
				Status:            domain.LoanApproved,
				AuditFields:       domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
			}
			if err := tx.Loans().SaveLoan(ctx, loan); err != nil {
				return fmt.Errorf("failed to create loan: %w", err)
			}
			app.ResultID = loan.LoanID
		default:
			return fmt.Errorf("%w: unknown application kind %q", apperrors.ErrInternal, app.Kind)
		}

		app.Status = domain.ApplicationApproved
		app.DecidedAt = &now
		app.LastUpdatedAt = now
		if err := tx.Applications().UpdateApplication(ctx, *app); err != nil {
			return err
		}
		approved = app
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Application approval failed", slog.String("application_number", applicationNumber), slog.String("error", err.Error()))
		return nil, err
	}

	s.LogInfo(ctx, "Application approved",
		slog.String("application_number", applicationNumber),
		slog.String("kind", string(approved.Kind)),
		slog.String("result_id", approved.ResultID))
	return approved, nil
}

func (s *applicationService) RejectApplication(ctx context.Context, applicationNumber string, reason string) (*domain.Application, error) {
	reason = strings.TrimSpace(reason)
	if err := validateRequired("reason", reason); err != nil {
		return nil, err
	}

	var rejected *domain.Application
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		app, err := s.lockPending(ctx, tx, applicationNumber)
		if err != nil {
			return err
		}
		now := s.Now()
		app.Status = domain.ApplicationRejected
		app.RejectionReason = reason
		app.DecidedAt = &now
		app.LastUpdatedAt = now
		if err := tx.Applications().UpdateApplication(ctx, *app); err != nil {
			return err
		}
		rejected = app
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Application rejected", slog.String("application_number", applicationNumber))
	return rejected, nil
}

func (s *applicationService) lockPending(ctx context.Context, tx portsrepo.LedgerTx, applicationNumber string) (*domain.Application, error) {
	if err := validateRequired("applicationNumber", applicationNumber); err != nil {
		return nil, err
	}
	app, err := tx.Applications().FindApplicationByNumberForUpdate(ctx, applicationNumber)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.ApplicationPending {
		return nil, fmt.Errorf("%w: application %s is already %s", apperrors.ErrValidation, applicationNumber, app.Status)
	}
	return app, nil
}

func (s *applicationService) GetLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	if err := validateRequired("loanID", loanID); err != nil {
		return nil, err
	}
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrLoanNotFound, loanID)
		}
		return nil, err
	}
	return loan, nil
}
