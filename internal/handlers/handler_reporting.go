package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/dto"
	"github.com/SscSPs/bank_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to account statements
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

func registerReportingRoutes(rg routes, reportingService portssvc.ReportingService) {
	h := &reportingHandler{reportingService: reportingService}

	rg.sub("/accounts").get("/:id/statement", h.getStatement)
}

// getStatement covers [from, to), both given as YYYY-MM-DD.
func (h *reportingHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("id")))

	var params dto.StatementParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid statement range", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range. Use from and to as YYYY-MM-DD"})
		return
	}

	logger = logger.With(
		slog.String("from", params.From.Format("2006-01-02")),
		slog.String("to", params.To.Format("2006-01-02")),
	)
	logger.Info("Received request to generate statement")

	statement, err := h.reportingService.Statement(c.Request.Context(), c.Param("id"), params.From, params.To)
	if err != nil {
		respondError(c, logger, err, "Failed to generate statement")
		return
	}

	logger.Info("Statement generated", slog.Int("entries", len(statement.Entries)))
	c.JSON(http.StatusOK, dto.ToStatementResponse(statement))
}
