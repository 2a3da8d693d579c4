package entity

import "time"

// Indent status
const (
	IndentStatusDraft                  = "draft"
	IndentStatusSubmitted              = "submitted"
	IndentStatusPendingCollegeApproval = "pending_college_approval"
	IndentStatusCollegeApproved        = "college_approved"
	IndentStatusPendingSuperAdmin      = "pending_super_admin"
	IndentStatusApproved               = "approved"
	IndentStatusPartiallyFulfilled     = "partially_fulfilled"
	IndentStatusFulfilled              = "fulfilled"
	IndentStatusRejectedByCollege      = "rejected_by_college"
	IndentStatusRejectedBySuperAdmin   = "rejected_by_super_admin"
	IndentStatusCancelled              = "cancelled"
)

// StoreIndent is a college's request to draw material from the central store,
// gated by a two-tier approval chain (college admin, then super admin).
type StoreIndent struct {
	ID             string `json:"id" gorm:"primaryKey;size:32"`
	IndentNumber   string `json:"indent_number" gorm:"size:32;uniqueIndex;not null"`
	CollegeID      string `json:"college_id" gorm:"size:32;not null;index"`
	CentralStoreID string `json:"central_store_id" gorm:"size:32;not null;index"`

	Status        string `json:"status" gorm:"size:30;default:draft"`
	Priority      string `json:"priority" gorm:"size:20;default:medium"`
	Justification string `json:"justification" gorm:"type:text"`

	RequestedBy         string     `json:"requested_by" gorm:"size:32;not null"`
	SubmittedAt         *time.Time `json:"submitted_at"`
	CollegeApprovedBy   *string    `json:"college_approved_by" gorm:"size:32"`
	CollegeApprovedAt   *time.Time `json:"college_approved_at"`
	SuperAdminApprovedBy *string   `json:"super_admin_approved_by" gorm:"size:32"`
	SuperAdminApprovedAt *time.Time `json:"super_admin_approved_at"`
	RejectedReason      string     `json:"rejected_reason" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     string    `json:"notes" gorm:"type:text"`

	Items        []IndentItem  `json:"items,omitempty" gorm:"foreignKey:IndentID;constraint:OnDelete:CASCADE"`
	College      *College      `json:"college,omitempty" gorm:"foreignKey:CollegeID"`
	CentralStore *CentralStore `json:"central_store,omitempty" gorm:"foreignKey:CentralStoreID"`
}

func (StoreIndent) TableName() string {
	return "store_indents"
}

// IndentItem is one requested line. ApprovedQuantity may never exceed
// RequestedQuantity; PendingQuantity is max(0, approved - issued).
type IndentItem struct {
	ID       string `json:"id" gorm:"primaryKey;size:32"`
	IndentID string `json:"indent_id" gorm:"size:32;not null;index"`

	ItemCode string `json:"item_code" gorm:"size:64;not null"`
	ItemName string `json:"item_name" gorm:"size:200;not null"`
	Unit     string `json:"unit" gorm:"size:20;default:pcs"`

	RequestedQuantity float64 `json:"requested_quantity" gorm:"type:decimal(12,4);not null"`
	ApprovedQuantity  float64 `json:"approved_quantity" gorm:"type:decimal(12,4);default:0"`
	IssuedQuantity    float64 `json:"issued_quantity" gorm:"type:decimal(12,4);default:0"`
	PendingQuantity   float64 `json:"pending_quantity" gorm:"type:decimal(12,4);default:0"`

	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (IndentItem) TableName() string {
	return "store_indent_items"
}

// RecalcPending refreshes PendingQuantity, flooring at zero.
func (i *IndentItem) RecalcPending() {
	pending := i.ApprovedQuantity - i.IssuedQuantity
	if pending < 0 {
		pending = 0
	}
	i.PendingQuantity = pending
}
