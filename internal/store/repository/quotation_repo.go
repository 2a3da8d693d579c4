package repository

import (
	"context"
	"errors"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"gorm.io/gorm"
)

// QuotationRepository persists supplier quotations and their items.
type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

// FindAll lists quotations with pagination and filters.
func (r *QuotationRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.SupplierQuotation, int64, error) {
	var items []entity.SupplierQuotation
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.SupplierQuotation{})

	if requirementID := filters["requirement_id"]; requirementID != "" {
		query = query.Where("requirement_id = ?", requirementID)
	}
	if supplierID := filters["supplier_id"]; supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Supplier").
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads a quotation with supplier and items.
func (r *QuotationRepository) FindByID(ctx context.Context, id string) (*entity.SupplierQuotation, error) {
	var q entity.SupplierQuotation
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("id = ?", id).
		First(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// FindByRequirement loads all quotations competing against one requirement.
func (r *QuotationRepository) FindByRequirement(ctx context.Context, requirementID string) ([]entity.SupplierQuotation, error) {
	var quotations []entity.SupplierQuotation
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("requirement_id = ?", requirementID).
		Order("grand_total ASC").
		Find(&quotations).Error
	return quotations, err
}

func (r *QuotationRepository) Create(ctx context.Context, q *entity.SupplierQuotation) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *QuotationRepository) Update(ctx context.Context, q *entity.SupplierQuotation) error {
	return r.db.WithContext(ctx).Save(q).Error
}
