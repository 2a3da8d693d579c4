package handler

import (
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/service"
	"github.com/gin-gonic/gin"
)

// RequirementHandler exposes the procurement requirement endpoints.
type RequirementHandler struct {
	svc *service.RequirementService
}

func NewRequirementHandler(svc *service.RequirementService) *RequirementHandler {
	return &RequirementHandler{svc: svc}
}

// List requirements.
// GET /api/v1/store/requirements?status=xxx&central_store_id=xxx&search=xxx
func (h *RequirementHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":           c.Query("status"),
		"central_store_id": c.Query("central_store_id"),
		"urgency":          c.Query("urgency"),
		"search":           c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	listOf(c, items, page, pageSize, total)
}

// Get one requirement.
// GET /api/v1/store/requirements/:id
func (h *RequirementHandler) Get(c *gin.Context) {
	requirement, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, requirement)
}

// Create a draft requirement.
// POST /api/v1/store/requirements
func (h *RequirementHandler) Create(c *gin.Context) {
	var req service.CreateRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	requirement, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, requirement)
}

// Submit routes the requirement into the approval workflow.
// POST /api/v1/store/requirements/:id/submit
func (h *RequirementHandler) Submit(c *gin.Context) {
	var req struct {
		Approvers []string `json:"approvers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	requirement, err := h.svc.SubmitForApproval(c.Request.Context(), c.Param("id"), GetUserID(c), req.Approvers)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, requirement)
}

// Decide records the approval outcome.
// POST /api/v1/store/requirements/:id/decision
func (h *RequirementHandler) Decide(c *gin.Context) {
	var req struct {
		Decision string `json:"decision" binding:"required"`
		Reason   string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	requirement, err := h.svc.RecordDecision(c.Request.Context(), c.Param("id"), GetUserID(c), req.Decision, req.Reason)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, requirement)
}

// Cancel aborts a requirement.
// POST /api/v1/store/requirements/:id/cancel
func (h *RequirementHandler) Cancel(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	requirement, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), GetUserID(c), req.Reason)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, requirement)
}
