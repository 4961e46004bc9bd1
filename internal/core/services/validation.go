package services

import (
	"errors"
	"fmt"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/utils"
	"github.com/shopspring/decimal"
)

// validatePositiveAmount rejects non-positive amounts and amounts finer than a cent.
func validatePositiveAmount(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s must be greater than zero", apperrors.ErrValidation, field)
	}
	if !utils.HasMoneyPrecision(amount) {
		return fmt.Errorf("%w: %s must have at most %d decimal places", apperrors.ErrValidation, field, utils.MoneyPrecision)
	}
	return nil
}

// validateNonNegativeAmount is validatePositiveAmount that also accepts zero.
func validateNonNegativeAmount(field string, amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}
	return validatePositiveAmount(field, amount)
}

func validateRequired(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", apperrors.ErrValidation, field)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
