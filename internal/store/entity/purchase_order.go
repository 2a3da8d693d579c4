package entity

import "time"

// PO status
const (
	POStatusDraft             = "draft"
	POStatusSent              = "sent"
	POStatusAcknowledged      = "acknowledged"
	POStatusPartiallyReceived = "partially_received"
	POStatusFulfilled         = "fulfilled"
	POStatusCancelled         = "cancelled"
)

// PurchaseOrder is the binding order raised from a selected quotation.
// QuotationGrandTotal snapshots the quotation's grand total at creation time
// so the 2% tolerance is never re-derived against a since-mutated quotation.
type PurchaseOrder struct {
	ID             string `json:"id" gorm:"primaryKey;size:32"`
	PONumber       string `json:"po_number" gorm:"size:32;uniqueIndex;not null"`
	RequirementID  string `json:"requirement_id" gorm:"size:32;not null;index"`
	QuotationID    string `json:"quotation_id" gorm:"size:32;not null;index"`
	SupplierID     string `json:"supplier_id" gorm:"size:32;not null;index"`
	CentralStoreID string `json:"central_store_id" gorm:"size:32;not null;index"`

	TotalAmount         float64 `json:"total_amount" gorm:"type:decimal(15,2);default:0"`
	TaxAmount           float64 `json:"tax_amount" gorm:"type:decimal(15,2);default:0"`
	GrandTotal          float64 `json:"grand_total" gorm:"type:decimal(15,2);default:0"`
	QuotationGrandTotal float64 `json:"quotation_grand_total" gorm:"type:decimal(15,2);default:0"`

	Status          string     `json:"status" gorm:"size:20;default:draft"`
	DeliveryAddress string     `json:"delivery_address" gorm:"size:500"`
	PaymentTerms    string     `json:"payment_terms" gorm:"size:100"`
	ExpectedDate    *time.Time `json:"expected_date"`
	SentAt          *time.Time `json:"sent_at"`
	AcknowledgedAt  *time.Time `json:"acknowledged_at"`
	FulfilledAt     *time.Time `json:"fulfilled_at"`
	DocumentURL     string     `json:"document_url" gorm:"size:500"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     string    `json:"notes" gorm:"type:text"`

	Items        []PurchaseOrderItem     `json:"items,omitempty" gorm:"foreignKey:POID;constraint:OnDelete:CASCADE"`
	Supplier     *Supplier               `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Quotation    *SupplierQuotation      `json:"quotation,omitempty" gorm:"foreignKey:QuotationID"`
	Requirement  *ProcurementRequirement `json:"requirement,omitempty" gorm:"foreignKey:RequirementID"`
	CentralStore *CentralStore           `json:"central_store,omitempty" gorm:"foreignKey:CentralStoreID"`
}

func (PurchaseOrder) TableName() string {
	return "store_purchase_orders"
}

// PurchaseOrderItem is one ordered line, tracking ordered vs received quantity.
// PendingQuantity is kept as max(0, quantity - received) on every update.
type PurchaseOrderItem struct {
	ID   string `json:"id" gorm:"primaryKey;size:32"`
	POID string `json:"po_id" gorm:"size:32;not null;index"`

	ItemCode  string  `json:"item_code" gorm:"size:64"`
	ItemName  string  `json:"item_name" gorm:"size:200;not null"`
	Quantity  float64 `json:"quantity" gorm:"type:decimal(12,4);not null"`
	Unit      string  `json:"unit" gorm:"size:20;default:pcs"`
	UnitPrice float64 `json:"unit_price" gorm:"type:decimal(12,2);not null"`
	TaxRate   float64 `json:"tax_rate" gorm:"type:decimal(5,2);default:0"`

	ReceivedQuantity float64 `json:"received_quantity" gorm:"type:decimal(12,4);default:0"`
	PendingQuantity  float64 `json:"pending_quantity" gorm:"type:decimal(12,4);default:0"`

	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PurchaseOrderItem) TableName() string {
	return "store_purchase_order_items"
}

// RecalcPending refreshes PendingQuantity, flooring at zero.
func (i *PurchaseOrderItem) RecalcPending() {
	pending := i.Quantity - i.ReceivedQuantity
	if pending < 0 {
		pending = 0
	}
	i.PendingQuantity = pending
}
