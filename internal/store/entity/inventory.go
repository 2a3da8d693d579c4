package entity

import "time"

// Inventory transaction types
const (
	TxTypeReceipt    = "receipt"
	TxTypeIssue      = "issue"
	TxTypeAdjustment = "adjustment"
	TxTypeTransfer   = "transfer"
	TxTypeReturn     = "return"
	TxTypeDamage     = "damage"
	TxTypeWriteOff   = "write_off"
)

// Document kinds an inventory transaction may reference.
const (
	DocKindGRN        = "grn"
	DocKindMIN        = "min"
	DocKindAdjustment = "adjustment"
)

// DocumentRef is a tagged reference to the document that caused a stock
// movement, so the ledger's reference is always exhaustively matchable.
type DocumentRef struct {
	Kind string
	ID   string
	Code string
}

// CentralStoreInventory is the current-state ledger row, one per
// (central store, item) pair. QuantityAvailable is derived as
// on_hand - allocated and recomputed on every write; on_hand never goes
// negative and allocated never exceeds on_hand.
type CentralStoreInventory struct {
	ID             string `json:"id" gorm:"primaryKey;size:32"`
	CentralStoreID string `json:"central_store_id" gorm:"size:32;not null;uniqueIndex:idx_store_item"`
	ItemCode       string `json:"item_code" gorm:"size:64;not null;uniqueIndex:idx_store_item"`
	ItemName       string `json:"item_name" gorm:"size:200"`
	Unit           string `json:"unit" gorm:"size:20;default:pcs"`

	QuantityOnHand    float64 `json:"quantity_on_hand" gorm:"type:decimal(12,4);not null;default:0"`
	QuantityAllocated float64 `json:"quantity_allocated" gorm:"type:decimal(12,4);not null;default:0"`
	QuantityAvailable float64 `json:"quantity_available" gorm:"type:decimal(12,4);not null;default:0"`
	MinStockLevel     float64 `json:"min_stock_level" gorm:"type:decimal(12,4);default:0"`
	ReorderPoint      float64 `json:"reorder_point" gorm:"type:decimal(12,4);default:0"`
	UnitCost          float64 `json:"unit_cost" gorm:"type:decimal(12,4);default:0"`

	LastMovedAt *time.Time `json:"last_moved_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	CentralStore *CentralStore `json:"central_store,omitempty" gorm:"foreignKey:CentralStoreID"`
}

func (CentralStoreInventory) TableName() string {
	return "store_central_inventory"
}

// RecalcAvailable refreshes the derived available quantity.
func (i *CentralStoreInventory) RecalcAvailable() {
	i.QuantityAvailable = i.QuantityOnHand - i.QuantityAllocated
}

// InventoryTransaction is the append-only audit row written by every ledger
// mutation. Rows are never updated or deleted after creation.
type InventoryTransaction struct {
	ID             string `json:"id" gorm:"primaryKey;size:32"`
	CentralStoreID string `json:"central_store_id" gorm:"size:32;not null;index"`
	ItemCode       string `json:"item_code" gorm:"size:64;not null;index"`
	ItemName       string `json:"item_name" gorm:"size:200"`

	TransactionType string  `json:"transaction_type" gorm:"size:20;not null"`
	Quantity        float64 `json:"quantity" gorm:"type:decimal(12,4);not null"` // signed delta
	BeforeQuantity  float64 `json:"before_quantity" gorm:"type:decimal(12,4);not null"`
	AfterQuantity   float64 `json:"after_quantity" gorm:"type:decimal(12,4);not null"`
	UnitCost        float64 `json:"unit_cost" gorm:"type:decimal(12,4);default:0"`
	TotalValue      float64 `json:"total_value" gorm:"type:decimal(15,2);default:0"`

	ReferenceKind string `json:"reference_kind" gorm:"size:20;index:idx_tx_reference"`
	ReferenceID   string `json:"reference_id" gorm:"size:32;index:idx_tx_reference"`
	ReferenceCode string `json:"reference_code" gorm:"size:50"`

	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedBy string    `json:"created_by" gorm:"size:32;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (InventoryTransaction) TableName() string {
	return "store_inventory_transactions"
}
