package entity

import "time"

// College is a receiving campus drawing material from the central store.
type College struct {
	ID      string `json:"id" gorm:"primaryKey;size:32"`
	Code    string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name    string `json:"name" gorm:"size:200;not null"`
	Address string `json:"address" gorm:"size:500"`
	Status  string `json:"status" gorm:"size:20;default:active"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" gorm:"index"`
}

func (College) TableName() string {
	return "store_colleges"
}

// CentralStore is the warehouse holding pooled inventory shared across colleges.
type CentralStore struct {
	ID      string `json:"id" gorm:"primaryKey;size:32"`
	Code    string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name    string `json:"name" gorm:"size:200;not null"`
	Address string `json:"address" gorm:"size:500"`
	Manager string `json:"manager" gorm:"size:32"`
	Status  string `json:"status" gorm:"size:20;default:active"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" gorm:"index"`
	Notes     string     `json:"notes" gorm:"type:text"`
}

func (CentralStore) TableName() string {
	return "store_central_stores"
}
