package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/dto"
	"github.com/SscSPs/bank_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ledgerHandler exposes the ledger operations. Every money movement goes through here.
type ledgerHandler struct {
	ledgerService  portssvc.LedgerWriterSvc
	accountService portssvc.AccountReaderSvc
}

func registerLedgerRoutes(rg routes, ledgerService portssvc.LedgerWriterSvc, accountService portssvc.AccountReaderSvc) {
	h := &ledgerHandler{ledgerService: ledgerService, accountService: accountService}

	accounts := rg.sub("/accounts")
	accounts.post("/:id/deposits", h.deposit)
	accounts.post("/:id/withdrawals", h.withdraw)
	accounts.post("/:id/fees", h.chargeFee)
	accounts.post("/:id/interest", h.applyInterest)

	rg.post("/transfers", h.transfer)
	rg.get("/transactions/:ref", h.getTransactionsByRef)
}

func (h *ledgerHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("id")))
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	res, err := h.ledgerService.Deposit(c.Request.Context(), c.Param("id"), req.Amount, req.Description)
	if err != nil {
		respondError(c, logger, err, "Failed to deposit")
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerResultResponse(res))
}

func (h *ledgerHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("id")))
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	res, err := h.ledgerService.Withdraw(c.Request.Context(), c.Param("id"), req.Amount, req.Description)
	if err != nil {
		respondError(c, logger, err, "Failed to withdraw")
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerResultResponse(res))
}

func (h *ledgerHandler) chargeFee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("id")))
	var req dto.ChargeFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	res, err := h.ledgerService.ChargeFee(c.Request.Context(), c.Param("id"), req.Amount, req.FeeType)
	if err != nil {
		respondError(c, logger, err, "Failed to charge fee")
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerResultResponse(res))
}

// applyInterest answers 200 rather than 201 when no interest was due and nothing was written.
func (h *ledgerHandler) applyInterest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("id")))

	res, err := h.ledgerService.ApplyMonthlyInterest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to apply interest")
		return
	}

	status := http.StatusCreated
	if !res.Applied {
		status = http.StatusOK
	}
	c.JSON(status, dto.ToInterestResponse(res))
}

func (h *ledgerHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	fee := decimal.Zero
	if req.Fee != nil {
		fee = *req.Fee
	}

	logger = logger.With(
		slog.String("sender_account_id", req.SenderAccountID),
		slog.String("receiver_account_id", req.ReceiverAccountID),
	)
	logger.Info("Received transfer request", slog.String("amount", req.Amount.String()), slog.String("fee", fee.String()))

	res, err := h.ledgerService.Transfer(c.Request.Context(), req.SenderAccountID, req.ReceiverAccountID, req.Amount, fee, req.Description)
	if err != nil {
		respondError(c, logger, err, "Failed to transfer")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransferResponse(res))
}

func (h *ledgerHandler) getTransactionsByRef(c *gin.Context) {
	ref := c.Param("ref")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("transaction_ref", ref))

	txns, err := h.accountService.GetTransactionsByRef(c.Request.Context(), ref)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transactions")
		return
	}
	c.JSON(http.StatusOK, dto.TransactionsByRefResponse{
		Reference:    ref,
		Transactions: dto.ToTransactionResponses(txns),
	})
}
