package handler

import (
	financeapp "github.com/cecagem/backoffice/internal/application/finance"
	"github.com/cecagem/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// CompanyHandler serves accounting clients and their revenue
type CompanyHandler struct {
	BaseHandler
	queries *financeapp.ReconciliationQueryService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(queries *financeapp.ReconciliationQueryService) *CompanyHandler {
	return &CompanyHandler{queries: queries}
}

// CompanyRoutes creates the route group for /companies
func CompanyRoutes(h *CompanyHandler) *router.DomainGroup {
	group := router.NewDomainGroup("companies", "/companies")
	group.GET("/:id", h.GetByID)
	group.GET("/:id/revenue", h.Revenue)
	return group
}

// GetByID handles GET /companies/:id
func (h *CompanyHandler) GetByID(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	company, err := h.queries.GetCompany(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// Revenue handles GET /companies/:id/revenue
func (h *CompanyHandler) Revenue(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	revenue, err := h.queries.GetCompanyRevenue(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, revenue)
}
