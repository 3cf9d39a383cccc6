package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	financeapp "github.com/cecagem/backoffice/internal/application/finance"
	"github.com/cecagem/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ContractHandler serves contract listings, details and summaries
type ContractHandler struct {
	BaseHandler
	queries *financeapp.ReconciliationQueryService
	loc     *time.Location
	now     func() time.Time
}

// NewContractHandler creates a new ContractHandler. loc is the business
// time zone date filters are read in.
func NewContractHandler(queries *financeapp.ReconciliationQueryService, loc *time.Location) *ContractHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ContractHandler{queries: queries, loc: loc, now: time.Now}
}

// ContractRoutes creates the route group for /contracts
func ContractRoutes(h *ContractHandler) *router.DomainGroup {
	group := router.NewDomainGroup("contracts", "/contracts")
	group.GET("", h.List)
	group.GET("/export", h.Export)
	group.GET("/:id", h.GetByID)
	group.GET("/:id/summary", h.Summary)
	return group
}

// List handles GET /contracts
func (h *ContractHandler) List(c *gin.Context) {
	filter, err := financeapp.ParseContractFilter(c.Request.URL.Query(), h.loc)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, err := h.queries.ListContracts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	successPage(c, page)
}

// GetByID handles GET /contracts/:id
func (h *ContractHandler) GetByID(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	contract, err := h.queries.GetContract(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// Summary handles GET /contracts/:id/summary
func (h *ContractHandler) Summary(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	summary, err := h.queries.GetContractSummary(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Export handles GET /contracts/export. It accepts the same filters as List
// and answers with an XLSX workbook.
func (h *ContractHandler) Export(c *gin.Context) {
	filter, err := financeapp.ParseContractFilter(c.Request.URL.Query(), h.loc)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if _, err := h.queries.ExportContracts(c.Request.Context(), filter, &buf); err != nil {
		h.HandleError(c, err)
		return
	}

	fileName := fmt.Sprintf("contracts_%s.xlsx", h.now().In(h.loc).Format("20060102_150405"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
