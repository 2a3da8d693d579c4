package handler

import (
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/service"
	"github.com/gin-gonic/gin"
)

// MasterDataHandler exposes supplier, college and central store reference data.
type MasterDataHandler struct {
	svc *service.MasterDataService
}

func NewMasterDataHandler(svc *service.MasterDataService) *MasterDataHandler {
	return &MasterDataHandler{svc: svc}
}

// ListSuppliers
// GET /api/v1/store/suppliers?status=xxx&category=xxx&search=xxx
func (h *MasterDataHandler) ListSuppliers(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":   c.Query("status"),
		"category": c.Query("category"),
		"search":   c.Query("search"),
	}

	items, total, err := h.svc.ListSuppliers(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	listOf(c, items, page, pageSize, total)
}

// GetSupplier
// GET /api/v1/store/suppliers/:id
func (h *MasterDataHandler) GetSupplier(c *gin.Context) {
	supplier, err := h.svc.GetSupplier(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, supplier)
}

// CreateSupplier
// POST /api/v1/store/suppliers
func (h *MasterDataHandler) CreateSupplier(c *gin.Context) {
	var req service.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	supplier, err := h.svc.CreateSupplier(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, supplier)
}

// UpdateSupplierStatus
// POST /api/v1/store/suppliers/:id/status
func (h *MasterDataHandler) UpdateSupplierStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	supplier, err := h.svc.UpdateSupplierStatus(c.Request.Context(), c.Param("id"), GetUserID(c), req.Status)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, supplier)
}

// ListColleges
// GET /api/v1/store/colleges
func (h *MasterDataHandler) ListColleges(c *gin.Context) {
	colleges, err := h.svc.ListColleges(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, colleges)
}

// CreateCollege
// POST /api/v1/store/colleges
func (h *MasterDataHandler) CreateCollege(c *gin.Context) {
	var req service.CreateCollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	college, err := h.svc.CreateCollege(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, college)
}

// ListCentralStores
// GET /api/v1/store/central-stores
func (h *MasterDataHandler) ListCentralStores(c *gin.Context) {
	stores, err := h.svc.ListCentralStores(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, stores)
}

// CreateCentralStore
// POST /api/v1/store/central-stores
func (h *MasterDataHandler) CreateCentralStore(c *gin.Context) {
	var req service.CreateCentralStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	store, err := h.svc.CreateCentralStore(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, store)
}
