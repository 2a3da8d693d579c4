package entity

import "time"

// Inspection outcome
const (
	InspectionStatusPending = "pending"
	InspectionStatusPassed  = "passed"
	InspectionStatusFailed  = "failed"
	InspectionStatusPartial = "partial"
)

// Inspection recommendation
const (
	RecommendationAccept        = "accept"
	RecommendationReject        = "reject"
	RecommendationPartialAccept = "partial_accept"
)

// InspectionNote quality-gates a goods receipt before it may post to inventory.
// One-to-one with its GRN.
type InspectionNote struct {
	ID    string `json:"id" gorm:"primaryKey;size:32"`
	GRNID string `json:"grn_id" gorm:"size:32;not null;uniqueIndex"`

	OverallStatus  string `json:"overall_status" gorm:"size:20;default:pending"`
	Recommendation string `json:"recommendation" gorm:"size:20"`
	QualityRating  int    `json:"quality_rating" gorm:"default:0"` // 1-5

	InspectorID    string     `json:"inspector_id" gorm:"size:32"`
	InspectedAt    *time.Time `json:"inspected_at"`
	Findings       string     `json:"findings" gorm:"type:text"`
	InspectionData JSONB      `json:"inspection_data" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (InspectionNote) TableName() string {
	return "store_inspection_notes"
}
