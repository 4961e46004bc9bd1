package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
)

// PgxReferenceRegistry claims codes in reference_codes, whose primary key is (kind, code).
type PgxReferenceRegistry struct {
	db DBTX
}

func newPgxReferenceRegistry(db DBTX) *PgxReferenceRegistry {
	return &PgxReferenceRegistry{db: db}
}

var _ portsrepo.ReferenceRegistry = (*PgxReferenceRegistry)(nil)

// ClaimReference inserts the code unless it exists. A concurrent claim of the same code
// waits on the other transaction and then either inserts or does nothing.
func (r *PgxReferenceRegistry) ClaimReference(ctx context.Context, kind domain.ReferenceKind, code string) (bool, error) {
	query := `
		INSERT INTO reference_codes (kind, code, claimed_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (kind, code) DO NOTHING;
	`
	cmdTag, err := r.db.Exec(ctx, query, string(kind), code)
	if err != nil {
		return false, storageError(fmt.Sprintf("failed to claim %s %s", kind, code), err)
	}
	return cmdTag.RowsAffected() == 1, nil
}
