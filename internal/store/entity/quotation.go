package entity

import "time"

// Quotation status
const (
	QuotationStatusReceived    = "received"
	QuotationStatusUnderReview = "under_review"
	QuotationStatusAccepted    = "accepted"
	QuotationStatusRejected    = "rejected"
)

// SupplierQuotation is one supplier's competing offer against a requirement.
// At most one quotation per requirement may have IsSelected true.
type SupplierQuotation struct {
	ID              string `json:"id" gorm:"primaryKey;size:32"`
	QuotationNumber string `json:"quotation_number" gorm:"size:32;uniqueIndex;not null"`
	RequirementID   string `json:"requirement_id" gorm:"size:32;not null;index"`
	SupplierID      string `json:"supplier_id" gorm:"size:32;not null;index"`

	QuotationDate *time.Time `json:"quotation_date"`
	ValidUntil    *time.Time `json:"valid_until"`

	TotalAmount float64 `json:"total_amount" gorm:"type:decimal(15,2);default:0"`
	TaxAmount   float64 `json:"tax_amount" gorm:"type:decimal(15,2);default:0"`
	GrandTotal  float64 `json:"grand_total" gorm:"type:decimal(15,2);default:0"`

	Status     string     `json:"status" gorm:"size:20;default:received"`
	IsSelected bool       `json:"is_selected" gorm:"default:false"`
	SelectedBy *string    `json:"selected_by" gorm:"size:32"`
	SelectedAt *time.Time `json:"selected_at"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     string    `json:"notes" gorm:"type:text"`

	Items       []QuotationItem         `json:"items,omitempty" gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE"`
	Supplier    *Supplier               `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Requirement *ProcurementRequirement `json:"requirement,omitempty" gorm:"foreignKey:RequirementID"`
}

func (SupplierQuotation) TableName() string {
	return "store_supplier_quotations"
}

// QuotationItem is one priced line of a supplier quotation.
// TaxAmount and TotalAmount are recomputed from quantity, unit price and tax rate.
type QuotationItem struct {
	ID                string  `json:"id" gorm:"primaryKey;size:32"`
	QuotationID       string  `json:"quotation_id" gorm:"size:32;not null;index"`
	RequirementItemID *string `json:"requirement_item_id" gorm:"size:32"`

	ItemCode    string  `json:"item_code" gorm:"size:64"`
	ItemName    string  `json:"item_name" gorm:"size:200;not null"`
	Quantity    float64 `json:"quantity" gorm:"type:decimal(12,4);not null"`
	Unit        string  `json:"unit" gorm:"size:20;default:pcs"`
	UnitPrice   float64 `json:"unit_price" gorm:"type:decimal(12,2);not null"`
	TaxRate     float64 `json:"tax_rate" gorm:"type:decimal(5,2);default:0"`
	TaxAmount   float64 `json:"tax_amount" gorm:"type:decimal(15,2);default:0"`
	TotalAmount float64 `json:"total_amount" gorm:"type:decimal(15,2);default:0"`

	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (QuotationItem) TableName() string {
	return "store_quotation_items"
}
