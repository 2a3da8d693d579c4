package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories is the store module's repository collection.
type Repositories struct {
	Supplier      *SupplierRepository
	College       *CollegeRepository
	Requirement   *RequirementRepository
	Quotation     *QuotationRepository
	PO            *PORepository
	GRN           *GRNRepository
	Inventory     *InventoryRepository
	Indent        *IndentRepository
	MaterialIssue *MaterialIssueRepository
	ActivityLog   *ActivityLogRepository
}

// NewRepositories creates the repository collection.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Supplier:      NewSupplierRepository(db),
		College:       NewCollegeRepository(db),
		Requirement:   NewRequirementRepository(db),
		Quotation:     NewQuotationRepository(db),
		PO:            NewPORepository(db),
		GRN:           NewGRNRepository(db),
		Inventory:     NewInventoryRepository(db),
		Indent:        NewIndentRepository(db),
		MaterialIssue: NewMaterialIssueRepository(db),
		ActivityLog:   NewActivityLogRepository(db),
	}
}
