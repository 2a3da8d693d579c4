package handler

import (
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/service"
	"github.com/gin-gonic/gin"
)

// InventoryHandler exposes the central inventory ledger read side plus the
// manual adjustment entry point.
type InventoryHandler struct {
	ledger *service.LedgerService
}

func NewInventoryHandler(ledger *service.LedgerService) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// List ledger rows.
// GET /api/v1/store/inventory?central_store_id=xxx&search=xxx
func (h *InventoryHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"central_store_id": c.Query("central_store_id"),
		"search":           c.Query("search"),
	}

	items, total, err := h.ledger.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	listOf(c, items, page, pageSize, total)
}

// GetItem returns one (store, item) ledger row.
// GET /api/v1/store/inventory/:storeId/items/:itemCode
func (h *InventoryHandler) GetItem(c *gin.Context) {
	inv, err := h.ledger.Get(c.Request.Context(), c.Param("storeId"), c.Param("itemCode"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, inv)
}

// ListTransactions pages through the append-only movement log.
// GET /api/v1/store/inventory/:storeId/items/:itemCode/transactions
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.ledger.ListTransactions(c.Request.Context(),
		c.Param("storeId"), c.Param("itemCode"), page, pageSize)
	if err != nil {
		RespondError(c, err)
		return
	}
	listOf(c, items, page, pageSize, total)
}

// Alerts returns rows at or below their reorder point.
// GET /api/v1/store/inventory/alerts?central_store_id=xxx
func (h *InventoryHandler) Alerts(c *gin.Context) {
	rows, err := h.ledger.GetAlerts(c.Request.Context(), c.Query("central_store_id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, rows)
}

// AdjustRequest is a manual stock correction, e.g. after a physical count.
type AdjustRequest struct {
	CentralStoreID string  `json:"central_store_id" binding:"required"`
	ItemCode       string  `json:"item_code" binding:"required"`
	ItemName       string  `json:"item_name"`
	Unit           string  `json:"unit"`
	Delta          float64 `json:"delta" binding:"required"`
	Type           string  `json:"type"`
	Notes          string  `json:"notes"`
}

// Adjust applies a signed manual correction through the ledger.
// POST /api/v1/store/inventory/adjust
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	txType := req.Type
	switch txType {
	case "":
		txType = entity.TxTypeAdjustment
	case entity.TxTypeAdjustment, entity.TxTypeDamage, entity.TxTypeWriteOff, entity.TxTypeReturn:
	default:
		BadRequest(c, "unknown adjustment type "+txType)
		return
	}

	inv, err := h.ledger.UpdateStock(c.Request.Context(), service.StockUpdate{
		CentralStoreID: req.CentralStoreID,
		ItemCode:       req.ItemCode,
		ItemName:       req.ItemName,
		Unit:           req.Unit,
		Delta:          req.Delta,
		TxType:         txType,
		Reference:      entity.DocumentRef{Kind: entity.DocKindAdjustment, Code: "manual adjustment"},
		Actor:          GetUserID(c),
		Notes:          req.Notes,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, inv)
}
