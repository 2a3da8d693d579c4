package handler

import (
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/service"
	"github.com/gin-gonic/gin"
)

// MaterialIssueHandler exposes the material issue note endpoints.
type MaterialIssueHandler struct {
	svc *service.MaterialIssueService
}

func NewMaterialIssueHandler(svc *service.MaterialIssueService) *MaterialIssueHandler {
	return &MaterialIssueHandler{svc: svc}
}

// List material issue notes.
// GET /api/v1/store/material-issues?indent_id=xxx&college_id=xxx&status=xxx
func (h *MaterialIssueHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"indent_id":  c.Query("indent_id"),
		"college_id": c.Query("college_id"),
		"status":     c.Query("status"),
		"search":     c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	listOf(c, items, page, pageSize, total)
}

// Get one material issue note.
// GET /api/v1/store/material-issues/:id
func (h *MaterialIssueHandler) Get(c *gin.Context) {
	min, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, min)
}

// Create prepares a MIN against an approved indent. No stock moves yet.
// POST /api/v1/store/material-issues
func (h *MaterialIssueHandler) Create(c *gin.Context) {
	var req service.CreateMINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	min, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, min)
}

// Dispatch deducts stock and marks the consignment in transit. Shortfalls on
// any line abort the whole dispatch with every failing line reported.
// POST /api/v1/store/material-issues/:id/dispatch
func (h *MaterialIssueHandler) Dispatch(c *gin.Context) {
	min, err := h.svc.Dispatch(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, min)
}

// ConfirmReceipt records the college receiving the consignment.
// POST /api/v1/store/material-issues/:id/receive
func (h *MaterialIssueHandler) ConfirmReceipt(c *gin.Context) {
	var req struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&req)

	min, err := h.svc.ConfirmReceipt(c.Request.Context(), c.Param("id"), GetUserID(c), req.Notes)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, min)
}

// Cancel aborts an undispatched note.
// POST /api/v1/store/material-issues/:id/cancel
func (h *MaterialIssueHandler) Cancel(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	min, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), GetUserID(c), req.Reason)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, min)
}
