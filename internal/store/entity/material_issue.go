package entity

import "time"

// MIN status
const (
	MINStatusPrepared   = "prepared"
	MINStatusDispatched = "dispatched"
	MINStatusInTransit  = "in_transit"
	MINStatusReceived   = "received"
	MINStatusCancelled  = "cancelled"
)

// MaterialIssueNote records the central store dispatching approved indent
// quantities to a receiving college.
type MaterialIssueNote struct {
	ID             string `json:"id" gorm:"primaryKey;size:32"`
	MINNumber      string `json:"min_number" gorm:"size:32;uniqueIndex;not null"`
	IndentID       string `json:"indent_id" gorm:"size:32;not null;index"`
	CentralStoreID string `json:"central_store_id" gorm:"size:32;not null;index"`
	CollegeID      string `json:"college_id" gorm:"size:32;not null;index"`

	Status        string     `json:"status" gorm:"size:20;default:prepared"`
	DispatchedAt  *time.Time `json:"dispatched_at"`
	DispatchedBy  *string    `json:"dispatched_by" gorm:"size:32"`
	ReceivedAt    *time.Time `json:"received_at"`
	ReceivedBy    *string    `json:"received_by" gorm:"size:32"`
	ReceiptNotes  string     `json:"receipt_notes" gorm:"size:500"`
	VehicleNumber string     `json:"vehicle_number" gorm:"size:20"`
	DocumentURL   string     `json:"document_url" gorm:"size:500"`

	PreparedBy string    `json:"prepared_by" gorm:"size:32"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Notes      string    `json:"notes" gorm:"type:text"`

	Items        []MaterialIssueItem `json:"items,omitempty" gorm:"foreignKey:MINID;constraint:OnDelete:CASCADE"`
	Indent       *StoreIndent        `json:"indent,omitempty" gorm:"foreignKey:IndentID"`
	College      *College            `json:"college,omitempty" gorm:"foreignKey:CollegeID"`
	CentralStore *CentralStore       `json:"central_store,omitempty" gorm:"foreignKey:CentralStoreID"`
}

func (MaterialIssueNote) TableName() string {
	return "store_material_issue_notes"
}

// MaterialIssueItem is one dispatched line. IssuedQuantity must not exceed
// the linked indent item's approved quantity.
type MaterialIssueItem struct {
	ID           string `json:"id" gorm:"primaryKey;size:32"`
	MINID        string `json:"min_id" gorm:"size:32;not null;index"`
	IndentItemID string `json:"indent_item_id" gorm:"size:32;not null;index"`

	ItemCode       string  `json:"item_code" gorm:"size:64;not null"`
	ItemName       string  `json:"item_name" gorm:"size:200;not null"`
	Unit           string  `json:"unit" gorm:"size:20;default:pcs"`
	IssuedQuantity float64 `json:"issued_quantity" gorm:"type:decimal(12,4);not null"`

	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MaterialIssueItem) TableName() string {
	return "store_material_issue_items"
}
