package services

import (
	"context"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
)

// EventPublisher delivers ledger events to the notification pipeline.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, event domain.LedgerEvent) error
}
