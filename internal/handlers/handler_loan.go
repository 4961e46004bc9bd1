package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/dto"
	"github.com/SscSPs/bank_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type loanHandler struct {
	applicationService portssvc.ApplicationSvcFacade
	ledgerService      portssvc.LedgerWriterSvc
}

func registerLoanRoutes(rg routes, applicationService portssvc.ApplicationSvcFacade, ledgerService portssvc.LedgerWriterSvc) {
	h := &loanHandler{applicationService: applicationService, ledgerService: ledgerService}

	loans := rg.sub("/loans")
	loans.get("/:id", h.getLoan)
	loans.post("/:id/disburse", h.disburseLoan)
	loans.post("/:id/payments", h.payLoan)
}

func (h *loanHandler) getLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("loan_id", c.Param("id")))

	loan, err := h.applicationService.GetLoan(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve loan")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

func (h *loanHandler) disburseLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("loan_id", c.Param("id")))
	var req dto.DisburseLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	logger = logger.With(slog.String("account_id", req.AccountID))
	res, err := h.ledgerService.DisburseLoan(c.Request.Context(), c.Param("id"), req.AccountID)
	if err != nil {
		respondError(c, logger, err, "Failed to disburse loan")
		return
	}

	logger.Info("Loan disbursed", slog.String("reference", res.Reference))
	c.JSON(http.StatusCreated, dto.ToLoanLedgerResponse(res))
}

func (h *loanHandler) payLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("loan_id", c.Param("id")))
	var req dto.LoanPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	logger = logger.With(slog.String("account_id", req.AccountID))
	res, err := h.ledgerService.PayLoan(c.Request.Context(), c.Param("id"), req.AccountID, req.Amount)
	if err != nil {
		respondError(c, logger, err, "Failed to pay loan")
		return
	}

	logger.Info("Loan payment recorded", slog.String("reference", res.Reference), slog.String("loan_status", string(res.Loan.Status)))
	c.JSON(http.StatusCreated, dto.ToLoanLedgerResponse(res))
}
