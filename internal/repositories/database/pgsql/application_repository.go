package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/bank_ledger/internal/models"
	"github.com/SscSPs/bank_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const applicationColumns = `application_number, kind, customer_id, status, account_type, interest_rate, principal, term_months, result_id, rejection_reason, decided_at, created_at, last_updated_at`

type PgxApplicationRepository struct {
	db DBTX
}

func newPgxApplicationRepository(db DBTX) *PgxApplicationRepository {
	return &PgxApplicationRepository{db: db}
}

var _ portsrepo.ApplicationRepositoryFacade = (*PgxApplicationRepository)(nil)

func scanApplication(row pgx.Row) (models.Application, error) {
	var m models.Application
	err := row.Scan(
		&m.ApplicationNumber,
		&m.Kind,
		&m.CustomerID,
		&m.Status,
		&m.AccountType,
		&m.InterestRate,
		&m.Principal,
		&m.TermMonths,
		&m.ResultID,
		&m.RejectionReason,
		&m.DecidedAt,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

func (r *PgxApplicationRepository) findApplication(ctx context.Context, number string, forUpdate bool) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE application_number = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	m, err := scanApplication(r.db.QueryRow(ctx, query, number))
	if err != nil {
		return nil, notFoundOr(err, "application "+number)
	}
	d := mapping.ToDomainApplication(m)
	return &d, nil
}

func (r *PgxApplicationRepository) FindApplicationByNumber(ctx context.Context, applicationNumber string) (*domain.Application, error) {
	return r.findApplication(ctx, applicationNumber, false)
}

// FindApplicationByNumberForUpdate locks the application row. Must be called within a transaction.
func (r *PgxApplicationRepository) FindApplicationByNumberForUpdate(ctx context.Context, applicationNumber string) (*domain.Application, error) {
	return r.findApplication(ctx, applicationNumber, true)
}

func (r *PgxApplicationRepository) SaveApplication(ctx context.Context, app domain.Application) error {
	m := mapping.ToModelApplication(app)
	query := `
		INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.db.Exec(ctx, query,
		m.ApplicationNumber,
		m.Kind,
		m.CustomerID,
		m.Status,
		m.AccountType,
		m.InterestRate,
		m.Principal,
		m.TermMonths,
		m.ResultID,
		m.RejectionReason,
		m.DecidedAt,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		return storageError(fmt.Sprintf("failed to save application %s", m.ApplicationNumber), err)
	}
	return nil
}

// UpdateApplication persists the decision columns.
func (r *PgxApplicationRepository) UpdateApplication(ctx context.Context, app domain.Application) error {
	m := mapping.ToModelApplication(app)
	query := `
		UPDATE applications
		SET status = $2, result_id = $3, rejection_reason = $4, decided_at = $5, last_updated_at = $6
		WHERE application_number = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query, m.ApplicationNumber, m.Status, m.ResultID, m.RejectionReason, m.DecidedAt, m.LastUpdatedAt)
	if err != nil {
		return storageError(fmt.Sprintf("failed to update application %s", m.ApplicationNumber), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: application %s", apperrors.ErrNotFound, m.ApplicationNumber)
	}
	return nil
}
