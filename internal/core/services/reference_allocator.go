package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/bank_ledger/internal/middleware"
	"github.com/SscSPs/bank_ledger/internal/platform/metrics"
	"github.com/SscSPs/bank_ledger/internal/utils"
)

// DefaultMaxAllocationAttempts bounds the candidates tried per allocation.
const DefaultMaxAllocationAttempts = 10

// DigitSource produces the random segment of a candidate code.
type DigitSource func(n int) (string, error)

// ReferenceAllocator produces unique human-facing codes.
// A candidate only counts as allocated once the registry accepted the claim,
// so two concurrent callers can never both receive the same code.
type ReferenceAllocator struct {
	maxAttempts int
	digits      DigitSource
	now         func() time.Time
	metrics     *metrics.Ledger
}

// AllocatorOption is a functional option for configuring the allocator
type AllocatorOption func(*ReferenceAllocator)

// WithDigitSource replaces the crypto/rand digit source.
func WithDigitSource(src DigitSource) AllocatorOption {
	return func(a *ReferenceAllocator) {
		a.digits = src
	}
}

// WithAllocatorClock sets the clock used for the date segments of codes.
func WithAllocatorClock(now func() time.Time) AllocatorOption {
	return func(a *ReferenceAllocator) {
		a.now = now
	}
}

// WithAllocatorMetrics records attempts per allocation.
func WithAllocatorMetrics(m *metrics.Ledger) AllocatorOption {
	return func(a *ReferenceAllocator) {
		a.metrics = m
	}
}

// NewReferenceAllocator creates an allocator. maxAttempts <= 0 selects the default.
func NewReferenceAllocator(maxAttempts int, options ...AllocatorOption) *ReferenceAllocator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAllocationAttempts
	}
	a := &ReferenceAllocator{
		maxAttempts: maxAttempts,
		digits:      utils.GenerateSecureRandomDigits,
		now:         time.Now,
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// Allocate claims a fresh code matching pattern in registry.
// It fails with apperrors.ErrReferenceAllocationExhausted when every attempt collided.
func (a *ReferenceAllocator) Allocate(ctx context.Context, registry portsrepo.ReferenceRegistry, pattern domain.ReferencePattern) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := a.now().UTC()

	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		random, err := a.digits(pattern.Digits)
		if err != nil {
			return "", fmt.Errorf("failed to generate %s candidate: %w", pattern.Kind, err)
		}
		candidate := pattern.Format(now, random)

		claimed, err := registry.ClaimReference(ctx, pattern.Kind, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to claim %s %s: %w", pattern.Kind, candidate, err)
		}
		if claimed {
			a.metrics.ObserveAllocation(pattern.Kind, attempt, false)
			return candidate, nil
		}
		logger.Debug("Reference candidate collided", slog.String("kind", string(pattern.Kind)), slog.String("candidate", candidate), slog.Int("attempt", attempt))
	}

	a.metrics.ObserveAllocation(pattern.Kind, a.maxAttempts, true)
	logger.Warn("Reference allocation exhausted", slog.String("kind", string(pattern.Kind)), slog.Int("max_attempts", a.maxAttempts))
	return "", fmt.Errorf("%w: no free %s after %d attempts", apperrors.ErrReferenceAllocationExhausted, pattern.Kind, a.maxAttempts)
}
