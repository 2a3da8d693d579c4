package handler

import (
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/service"
	"github.com/gin-gonic/gin"
)

// IndentHandler exposes the store indent endpoints.
type IndentHandler struct {
	svc *service.IndentService
}

func NewIndentHandler(svc *service.IndentService) *IndentHandler {
	return &IndentHandler{svc: svc}
}

// List indents.
// GET /api/v1/store/indents?college_id=xxx&status=xxx&priority=xxx
func (h *IndentHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"college_id":       c.Query("college_id"),
		"central_store_id": c.Query("central_store_id"),
		"status":           c.Query("status"),
		"priority":         c.Query("priority"),
		"search":           c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	listOf(c, items, page, pageSize, total)
}

// Get one indent.
// GET /api/v1/store/indents/:id
func (h *IndentHandler) Get(c *gin.Context) {
	indent, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, indent)
}

// Create a draft indent. Availability shortfalls come back as warnings.
// POST /api/v1/store/indents
func (h *IndentHandler) Create(c *gin.Context) {
	var req service.CreateIndentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	indent, result, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, gin.H{"indent": indent, "validation": result})
}

// Submit routes the indent to the super-admin queue.
// POST /api/v1/store/indents/:id/submit
func (h *IndentHandler) Submit(c *gin.Context) {
	indent, err := h.svc.Submit(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, indent)
}

// CollegeApprove records the college admin's approval.
// POST /api/v1/store/indents/:id/college-approve
func (h *IndentHandler) CollegeApprove(c *gin.Context) {
	indent, err := h.svc.CollegeAdminApprove(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, indent)
}

// CollegeReject records the college admin's rejection.
// POST /api/v1/store/indents/:id/college-reject
func (h *IndentHandler) CollegeReject(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	indent, err := h.svc.CollegeAdminReject(c.Request.Context(), c.Param("id"), GetUserID(c), req.Reason)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, indent)
}

// SuperApprove grants final approval with optional per-line grants keyed by
// indent item id; omitted lines default to their requested quantity.
// POST /api/v1/store/indents/:id/super-approve
func (h *IndentHandler) SuperApprove(c *gin.Context) {
	var req struct {
		ApprovedQuantities map[string]float64 `json:"approved_quantities"`
	}
	_ = c.ShouldBindJSON(&req)

	indent, err := h.svc.SuperAdminApprove(c.Request.Context(), c.Param("id"), GetUserID(c), req.ApprovedQuantities)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, indent)
}

// SuperReject records the super admin's rejection.
// POST /api/v1/store/indents/:id/super-reject
func (h *IndentHandler) SuperReject(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	indent, err := h.svc.SuperAdminReject(c.Request.Context(), c.Param("id"), GetUserID(c), req.Reason)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, indent)
}

// Cancel aborts an indent.
// POST /api/v1/store/indents/:id/cancel
func (h *IndentHandler) Cancel(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	indent, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), GetUserID(c), req.Reason)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, indent)
}
