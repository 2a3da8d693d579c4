package handler

import (
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/service"
	"github.com/gin-gonic/gin"
)

// POHandler exposes the purchase order endpoints.
type POHandler struct {
	svc *service.POService
}

func NewPOHandler(svc *service.POService) *POHandler {
	return &POHandler{svc: svc}
}

// List purchase orders.
// GET /api/v1/store/purchase-orders?supplier_id=xxx&status=xxx&search=xxx
func (h *POHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"supplier_id":    c.Query("supplier_id"),
		"requirement_id": c.Query("requirement_id"),
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

// Get one purchase order.
// GET /api/v1/store/purchase-orders/:id
func (h *POHandler) Get(c *gin.Context) {
	po, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, po)
}

// Create raises a PO from a selected quotation.
// POST /api/v1/store/purchase-orders
func (h *POHandler) Create(c *gin.Context) {
	var req service.CreatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	po, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, po)
}

// Send marks the PO sent to the supplier and renders its document.
// POST /api/v1/store/purchase-orders/:id/send
func (h *POHandler) Send(c *gin.Context) {
	po, err := h.svc.SendToSupplier(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, po)
}

// Acknowledge records the supplier's confirmation.
// POST /api/v1/store/purchase-orders/:id/acknowledge
func (h *POHandler) Acknowledge(c *gin.Context) {
	po, err := h.svc.MarkAcknowledged(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, po)
}

// CheckFulfillment rescans received quantities and settles the PO status.
// POST /api/v1/store/purchase-orders/:id/check-fulfillment
func (h *POHandler) CheckFulfillment(c *gin.Context) {
	po, err := h.svc.CheckFulfillment(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, po)
}

// Cancel aborts a purchase order.
// POST /api/v1/store/purchase-orders/:id/cancel
func (h *POHandler) Cancel(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	po, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), GetUserID(c), req.Reason)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, po)
}
