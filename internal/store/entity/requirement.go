package entity

import "time"

// Requirement status
const (
	RequirementStatusDraft              = "draft"
	RequirementStatusSubmitted          = "submitted"
	RequirementStatusPendingApproval    = "pending_approval"
	RequirementStatusApproved           = "approved"
	RequirementStatusQuotationsReceived = "quotations_received"
	RequirementStatusPOCreated          = "po_created"
	RequirementStatusFulfilled          = "fulfilled"
	RequirementStatusRejected           = "rejected"
	RequirementStatusCancelled          = "cancelled"
)

// Urgency levels shared by requirements and indents.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
	UrgencyUrgent = "urgent"
)

// ProcurementRequirement is the head of the procurement chain: a statement of
// need raised against the central store before any supplier is involved.
type ProcurementRequirement struct {
	ID                string  `json:"id" gorm:"primaryKey;size:32"`
	RequirementNumber string  `json:"requirement_number" gorm:"size:32;uniqueIndex;not null"`
	CentralStoreID    string  `json:"central_store_id" gorm:"size:32;not null;index"`
	Title             string  `json:"title" gorm:"size:200;not null"`
	Urgency           string  `json:"urgency" gorm:"size:20;default:medium"`
	Status            string  `json:"status" gorm:"size:30;default:draft"`
	EstimatedBudget   float64 `json:"estimated_budget" gorm:"type:decimal(15,2);default:0"`
	Justification     string  `json:"justification" gorm:"type:text"`

	RequiredByDate *time.Time `json:"required_by_date"`
	RequestedBy    string     `json:"requested_by" gorm:"size:32;not null"`
	ApprovalID     string     `json:"approval_id" gorm:"size:64"`
	ApprovedBy     *string    `json:"approved_by" gorm:"size:32"`
	ApprovedAt     *time.Time `json:"approved_at"`
	RejectedReason string     `json:"rejected_reason" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     string    `json:"notes" gorm:"type:text"`

	Items        []RequirementItem `json:"items,omitempty" gorm:"foreignKey:RequirementID;constraint:OnDelete:CASCADE"`
	CentralStore *CentralStore     `json:"central_store,omitempty" gorm:"foreignKey:CentralStoreID"`
}

func (ProcurementRequirement) TableName() string {
	return "store_procurement_requirements"
}

// IsTerminal reports whether the requirement can no longer move forward.
func (r *ProcurementRequirement) IsTerminal() bool {
	switch r.Status {
	case RequirementStatusFulfilled, RequirementStatusCancelled, RequirementStatusRejected:
		return true
	}
	return false
}

// RequirementItem is one line of a procurement requirement.
// EstimatedTotal is recomputed on every save from quantity and unit price.
type RequirementItem struct {
	ID            string `json:"id" gorm:"primaryKey;size:32"`
	RequirementID string `json:"requirement_id" gorm:"size:32;not null;index"`

	ItemCode       string  `json:"item_code" gorm:"size:64"`
	ItemName       string  `json:"item_name" gorm:"size:200;not null"`
	Description    string  `json:"description" gorm:"size:500"`
	Quantity       float64 `json:"quantity" gorm:"type:decimal(12,4);not null"`
	Unit           string  `json:"unit" gorm:"size:20;default:pcs"`
	EstimatedPrice float64 `json:"estimated_price" gorm:"type:decimal(12,2);default:0"`
	EstimatedTotal float64 `json:"estimated_total" gorm:"type:decimal(15,2);default:0"`

	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RequirementItem) TableName() string {
	return "store_requirement_items"
}
