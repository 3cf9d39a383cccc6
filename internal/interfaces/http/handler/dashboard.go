package handler

import (
	financeapp "github.com/cecagem/backoffice/internal/application/finance"
	"github.com/cecagem/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves portfolio statistics
type DashboardHandler struct {
	BaseHandler
	queries *financeapp.ReconciliationQueryService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(queries *financeapp.ReconciliationQueryService) *DashboardHandler {
	return &DashboardHandler{queries: queries}
}

// DashboardRoutes creates the route group for /dashboard
func DashboardRoutes(h *DashboardHandler) *router.DomainGroup {
	group := router.NewDomainGroup("dashboard", "/dashboard")
	group.GET("", h.Statistics)
	return group
}

// Statistics handles GET /dashboard?year=&month=
func (h *DashboardHandler) Statistics(c *gin.Context) {
	period, err := financeapp.ParseReportingPeriod(c.Request.URL.Query())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	stats, err := h.queries.GetPortfolioStatistics(c.Request.Context(), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
