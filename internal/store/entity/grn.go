package entity

import "time"

// GRN status
const (
	GRNStatusReceived          = "received"
	GRNStatusPendingInspection = "pending_inspection"
	GRNStatusInspected         = "inspected"
	GRNStatusApproved          = "approved"
	GRNStatusRejected          = "rejected"
	GRNStatusPosted            = "posted_to_inventory"
)

// GoodsReceiptNote records physical receipt of goods against a purchase order.
// Once posted to inventory the note is terminal and must never post again.
type GoodsReceiptNote struct {
	ID             string `json:"id" gorm:"primaryKey;size:32"`
	GRNNumber      string `json:"grn_number" gorm:"size:32;uniqueIndex;not null"`
	POID           string `json:"po_id" gorm:"size:32;not null;index"`
	SupplierID     string `json:"supplier_id" gorm:"size:32;not null;index"`
	CentralStoreID string `json:"central_store_id" gorm:"size:32;not null;index"`

	Status        string     `json:"status" gorm:"size:30;default:received"`
	ReceivedDate  *time.Time `json:"received_date"`
	InvoiceNumber string     `json:"invoice_number" gorm:"size:50"`
	InvoiceAmount float64    `json:"invoice_amount" gorm:"type:decimal(15,2);default:0"`
	DeliveryNote  string     `json:"delivery_note" gorm:"size:100"`
	VehicleNumber string     `json:"vehicle_number" gorm:"size:20"`
	PostedAt      *time.Time `json:"posted_at"`
	PostedBy      *string    `json:"posted_by" gorm:"size:32"`
	DocumentURL   string     `json:"document_url" gorm:"size:500"`

	ReceivedBy string    `json:"received_by" gorm:"size:32"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Notes      string    `json:"notes" gorm:"type:text"`

	Items         []GoodsReceiptItem `json:"items,omitempty" gorm:"foreignKey:GRNID;constraint:OnDelete:CASCADE"`
	Inspection    *InspectionNote    `json:"inspection,omitempty" gorm:"foreignKey:GRNID"`
	PurchaseOrder *PurchaseOrder     `json:"purchase_order,omitempty" gorm:"foreignKey:POID"`
	Supplier      *Supplier          `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (GoodsReceiptNote) TableName() string {
	return "store_goods_receipt_notes"
}

// GoodsReceiptItem is one received line. AcceptedQuantity + RejectedQuantity
// must equal ReceivedQuantity, and ReceivedQuantity may not exceed the
// ordered quantity on the linked PO item.
type GoodsReceiptItem struct {
	ID       string `json:"id" gorm:"primaryKey;size:32"`
	GRNID    string `json:"grn_id" gorm:"size:32;not null;index"`
	POItemID string `json:"po_item_id" gorm:"size:32;not null;index"`

	ItemCode         string  `json:"item_code" gorm:"size:64"`
	ItemName         string  `json:"item_name" gorm:"size:200;not null"`
	Unit             string  `json:"unit" gorm:"size:20;default:pcs"`
	ReceivedQuantity float64 `json:"received_quantity" gorm:"type:decimal(12,4);not null"`
	AcceptedQuantity float64 `json:"accepted_quantity" gorm:"type:decimal(12,4);default:0"`
	RejectedQuantity float64 `json:"rejected_quantity" gorm:"type:decimal(12,4);default:0"`
	UnitPrice        float64 `json:"unit_price" gorm:"type:decimal(12,2);default:0"`
	RejectionReason  string  `json:"rejection_reason" gorm:"size:500"`

	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (GoodsReceiptItem) TableName() string {
	return "store_goods_receipt_items"
}
