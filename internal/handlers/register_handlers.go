package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// RouteOptions carries router pieces that depend on runtime configuration.
type RouteOptions struct {
	// MutatingMiddleware runs before every POST handler, e.g. idempotency.
	MutatingMiddleware []gin.HandlerFunc
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

// routes registers handlers on a group, prefixing mutating routes with their middleware.
type routes struct {
	group    *gin.RouterGroup
	mutating []gin.HandlerFunc
}

func (r routes) sub(path string) routes {
	return routes{group: r.group.Group(path), mutating: r.mutating}
}

func (r routes) get(path string, h gin.HandlerFunc) {
	r.group.GET(path, h)
}

func (r routes) post(path string, h gin.HandlerFunc) {
	chain := make([]gin.HandlerFunc, 0, len(r.mutating)+1)
	chain = append(chain, r.mutating...)
	r.group.POST(path, append(chain, h)...)
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(r *gin.Engine, services *portssvc.ServiceContainer, opts RouteOptions) error {
	if err := dto.RegisterValidators(); err != nil {
		return err
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	if opts.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}

	v1 := routes{group: r.Group("/api/v1"), mutating: opts.MutatingMiddleware}

	registerApplicationRoutes(v1, services.Application)
	registerAccountRoutes(v1, services.Account, services.Ledger)
	registerLedgerRoutes(v1, services.Ledger, services.Account)
	registerLoanRoutes(v1, services.Application, services.Ledger)
	registerReportingRoutes(v1, services.Reporting)
	return nil
}
