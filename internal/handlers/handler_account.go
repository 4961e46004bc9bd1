package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/dto"
	"github.com/SscSPs/bank_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles account administration and the read side of an account.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	ledgerService  portssvc.BalanceReaderSvc
}

func registerAccountRoutes(rg routes, accountService portssvc.AccountSvcFacade, ledgerService portssvc.BalanceReaderSvc) {
	h := &accountHandler{accountService: accountService, ledgerService: ledgerService}

	accounts := rg.sub("/accounts")
	accounts.get("/:id", h.getAccount)
	accounts.get("/by-number/:number", h.getAccountByNumber)
	accounts.post("/:id/lock", h.statusChange("lock", accountService.LockAccount))
	accounts.post("/:id/unlock", h.statusChange("unlock", accountService.UnlockAccount))
	accounts.post("/:id/deactivate", h.statusChange("deactivate", accountService.DeactivateAccount))
	accounts.get("/:id/balance", h.getBalance)
	accounts.get("/:id/transactions", h.listTransactions)
	accounts.get("/:id/fees", h.listFees)
}

func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("id")))

	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) getAccountByNumber(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_number", c.Param("number")))

	account, err := h.accountService.GetAccountByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// statusChange builds the handler for lock, unlock and deactivate.
func (h *accountHandler) statusChange(action string, change func(ctx context.Context, accountID string) (*domain.Account, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
			slog.String("account_id", c.Param("id")),
			slog.String("action", action),
		)
		logger.Info("Received account status change")

		account, err := change(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err, "Failed to "+action+" account")
			return
		}

		logger.Info("Account status changed", slog.Bool("is_active", account.IsActive), slog.Bool("is_locked", account.IsLocked))
		c.JSON(http.StatusOK, dto.ToAccountResponse(account))
	}
}

func (h *accountHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("id")))

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to calculate balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceResponse(c.Param("id"), balance))
}

func (h *accountHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("id")))

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	txns, next, err := h.accountService.ListTransactions(c.Request.Context(), c.Param("id"), params.Limit, params.NextToken)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}

	logger.Debug("Transactions listed", slog.Int("count", len(txns)))
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    next,
	})
}

func (h *accountHandler) listFees(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("id")))

	fees, err := h.accountService.ListFees(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list fees")
		return
	}
	c.JSON(http.StatusOK, dto.ToListFeesResponse(c.Param("id"), fees))
}
