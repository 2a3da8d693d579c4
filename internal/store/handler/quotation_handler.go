package handler

import (
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/service"
	"github.com/gin-gonic/gin"
)

// QuotationHandler exposes the supplier quotation endpoints.
type QuotationHandler struct {
	svc *service.QuotationService
}

func NewQuotationHandler(svc *service.QuotationService) *QuotationHandler {
	return &QuotationHandler{svc: svc}
}

// List quotations.
// GET /api/v1/store/quotations?requirement_id=xxx&supplier_id=xxx&status=xxx
func (h *QuotationHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"requirement_id": c.Query("requirement_id"),
		"supplier_id":    c.Query("supplier_id"),
		"status":         c.Query("status"),
		"search":         c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	listOf(c, items, page, pageSize, total)
}

// Get one quotation.
// GET /api/v1/store/quotations/:id
func (h *QuotationHandler) Get(c *gin.Context) {
	quotation, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, quotation)
}

// ListByRequirement returns a requirement's quotations cheapest first, for
// side-by-side comparison.
// GET /api/v1/store/requirements/:id/quotations
func (h *QuotationHandler) ListByRequirement(c *gin.Context) {
	quotations, err := h.svc.ListByRequirement(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, quotations)
}

// Create records a supplier's quotation against a requirement.
// POST /api/v1/store/quotations
func (h *QuotationHandler) Create(c *gin.Context) {
	var req service.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	quotation, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, quotation)
}

// Select accepts this quotation and rejects its siblings.
// POST /api/v1/store/quotations/:id/select
func (h *QuotationHandler) Select(c *gin.Context) {
	quotation, err := h.svc.Select(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, quotation)
}
