package entity

import "time"

// ActivityLog records every document action and status change for audit.
type ActivityLog struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	EntityType string `json:"entity_type" gorm:"size:50;not null;index:idx_store_activity_entity"` // requirement/quotation/po/grn/indent/min/inventory
	EntityID   string `json:"entity_id" gorm:"size:32;not null;index:idx_store_activity_entity"`
	EntityCode string `json:"entity_code" gorm:"size:50"`

	Action     string `json:"action" gorm:"size:50;not null"` // create/status_change/select/post/dispatch/...
	FromStatus string `json:"from_status" gorm:"size:30"`
	ToStatus   string `json:"to_status" gorm:"size:30"`

	Content  string `json:"content" gorm:"type:text"`
	Metadata JSONB  `json:"metadata" gorm:"type:jsonb"`

	OperatorID string    `json:"operator_id" gorm:"size:32"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "store_activity_logs"
}
