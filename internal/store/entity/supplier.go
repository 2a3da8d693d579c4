package entity

import "time"

// Supplier status
const (
	SupplierStatusActive      = "active"
	SupplierStatusInactive    = "inactive"
	SupplierStatusBlacklisted = "blacklisted"
)

// Supplier is a registered vendor the central store procures from.
type Supplier struct {
	ID       string `json:"id" gorm:"primaryKey;size:32"`
	Code     string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name     string `json:"name" gorm:"size:200;not null"`
	Category string `json:"category" gorm:"size:50"`
	Status   string `json:"status" gorm:"size:20;default:active"`

	ContactPerson string `json:"contact_person" gorm:"size:100"`
	Phone         string `json:"phone" gorm:"size:20"`
	Email         string `json:"email" gorm:"size:100"`
	Address       string `json:"address" gorm:"size:500"`
	GSTNumber     string `json:"gst_number" gorm:"size:20"`
	PANNumber     string `json:"pan_number" gorm:"size:20"`
	PaymentTerms  string `json:"payment_terms" gorm:"size:100"`

	CreatedBy string     `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" gorm:"index"`
	Notes     string     `json:"notes" gorm:"type:text"`
}

func (Supplier) TableName() string {
	return "store_suppliers"
}
