package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/dto"
	"github.com/SscSPs/bank_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// applicationHandler handles account-opening and loan applications.
type applicationHandler struct {
	applicationService portssvc.ApplicationSvcFacade
}

func registerApplicationRoutes(rg routes, applicationService portssvc.ApplicationSvcFacade) {
	h := &applicationHandler{applicationService: applicationService}

	apps := rg.sub("/applications")
	apps.post("/accounts", h.submitAccountApplication)
	apps.post("/loans", h.submitLoanApplication)
	apps.get("/:number", h.getApplication)
	apps.post("/:number/approve", h.approveApplication)
	apps.post("/:number/reject", h.rejectApplication)
}

func (h *applicationHandler) submitAccountApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubmitAccountApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	logger = logger.With(slog.String("customer_id", req.CustomerID), slog.String("account_type", string(req.AccountType)))
	logger.Info("Received account application")

	app, err := h.applicationService.SubmitAccountApplication(c.Request.Context(), req.CustomerID, req.AccountType, req.InterestRate)
	if err != nil {
		respondError(c, logger, err, "Failed to submit account application")
		return
	}

	logger.Info("Account application submitted", slog.String("application_number", app.ApplicationNumber))
	c.JSON(http.StatusCreated, dto.ToApplicationResponse(app))
}

func (h *applicationHandler) submitLoanApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubmitLoanApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	logger = logger.With(slog.String("customer_id", req.CustomerID))
	logger.Info("Received loan application", slog.String("principal", req.Principal.String()), slog.Int("term_months", req.TermMonths))

	app, err := h.applicationService.SubmitLoanApplication(c.Request.Context(), req.CustomerID, req.Principal, req.TermMonths)
	if err != nil {
		respondError(c, logger, err, "Failed to submit loan application")
		return
	}

	logger.Info("Loan application submitted", slog.String("application_number", app.ApplicationNumber))
	c.JSON(http.StatusCreated, dto.ToApplicationResponse(app))
}

func (h *applicationHandler) getApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("application_number", c.Param("number")))

	app, err := h.applicationService.GetApplication(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve application")
		return
	}
	c.JSON(http.StatusOK, dto.ToApplicationResponse(app))
}

func (h *applicationHandler) approveApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("application_number", c.Param("number")))
	logger.Info("Received request to approve application")

	app, err := h.applicationService.ApproveApplication(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, logger, err, "Failed to approve application")
		return
	}

	logger.Info("Application approved", slog.String("result_id", app.ResultID))
	c.JSON(http.StatusOK, dto.ToApplicationResponse(app))
}

func (h *applicationHandler) rejectApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("application_number", c.Param("number")))
	var req dto.RejectApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	app, err := h.applicationService.RejectApplication(c.Request.Context(), c.Param("number"), req.Reason)
	if err != nil {
		respondError(c, logger, err, "Failed to reject application")
		return
	}

	logger.Info("Application rejected")
	c.JSON(http.StatusOK, dto.ToApplicationResponse(app))
}
