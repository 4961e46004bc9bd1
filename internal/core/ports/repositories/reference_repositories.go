package repositories

import (
	"context"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
)

// ReferenceRegistry claims human-facing codes under a unique (kind, code) constraint.
type ReferenceRegistry interface {
	// ClaimReference returns false, nil when the code is already taken.
	ClaimReference(ctx context.Context, kind domain.ReferenceKind, code string) (bool, error)
}
