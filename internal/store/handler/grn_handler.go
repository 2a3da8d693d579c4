package handler

import (
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/service"
	"github.com/gin-gonic/gin"
)

// GRNHandler exposes the goods receipt endpoints.
type GRNHandler struct {
	svc *service.GRNService
}

func NewGRNHandler(svc *service.GRNService) *GRNHandler {
	return &GRNHandler{svc: svc}
}

// List GRNs.
// GET /api/v1/store/grns?po_id=xxx&status=xxx&search=xxx
func (h *GRNHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"po_id":       c.Query("po_id"),
		"supplier_id": c.Query("supplier_id"),
		"status":      c.Query("status"),
		"search":      c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	listOf(c, items, page, pageSize, total)
}

// Get one GRN.
// GET /api/v1/store/grns/:id
func (h *GRNHandler) Get(c *gin.Context) {
	grn, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, grn)
}

// Create records a delivery against a PO. Non-fatal findings (invoice drift)
// come back as warnings next to the created note.
// POST /api/v1/store/grns
func (h *GRNHandler) Create(c *gin.Context) {
	var req service.CreateGRNRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	grn, result, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, gin.H{"grn": grn, "validation": result})
}

// SubmitForInspection queues the GRN for quality inspection.
// POST /api/v1/store/grns/:id/submit-inspection
func (h *GRNHandler) SubmitForInspection(c *gin.Context) {
	grn, err := h.svc.SubmitForInspection(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, grn)
}

// RecordInspection captures the inspector's findings.
// POST /api/v1/store/grns/:id/inspection
func (h *GRNHandler) RecordInspection(c *gin.Context) {
	var req service.RecordInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	note, err := h.svc.RecordInspection(c.Request.Context(), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, note)
}

// Approve clears the GRN for posting.
// POST /api/v1/store/grns/:id/approve
func (h *GRNHandler) Approve(c *gin.Context) {
	grn, err := h.svc.Approve(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, grn)
}

// Reject refuses the GRN.
// POST /api/v1/store/grns/:id/reject
func (h *GRNHandler) Reject(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	grn, err := h.svc.Reject(c.Request.Context(), c.Param("id"), GetUserID(c), req.Reason)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, grn)
}

// Post credits accepted quantities to the central ledger, exactly once.
// POST /api/v1/store/grns/:id/post
func (h *GRNHandler) Post(c *gin.Context) {
	grn, err := h.svc.PostToInventory(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, grn)
}
