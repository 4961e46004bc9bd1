package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// statusFor maps service sentinels to HTTP statuses. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrLoanNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrAccountLockedOrInactive),
		errors.Is(err, apperrors.ErrLoanNotPayable),
		errors.Is(err, apperrors.ErrAmountExceedsBalance),
		errors.Is(err, apperrors.ErrInterestAlreadyApplied),
		errors.Is(err, apperrors.ErrNotInterestBearing):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrReferenceAllocationExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error response for a failed service call.
// Server-side failures are logged in full and answered with failureMsg only.
func respondError(c *gin.Context, logger *slog.Logger, err error, failureMsg string) {
	status := statusFor(err)
	switch {
	case status == http.StatusServiceUnavailable:
		logger.Error(failureMsg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": "Reference numbers temporarily unavailable, retry later"})
	case status >= http.StatusInternalServerError:
		logger.Error(failureMsg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": failureMsg})
	default:
		logger.Warn(failureMsg, slog.String("error", err.Error()), slog.Int("status", status))
		c.JSON(status, gin.H{"error": err.Error()})
	}
}

// respondBindError answers malformed or invalid request input.
func respondBindError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
}
