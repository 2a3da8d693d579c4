package repository

import (
	"context"
	"errors"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"gorm.io/gorm"
)

// PORepository persists purchase orders and their items.
type PORepository struct {
	db *gorm.DB
}

func NewPORepository(db *gorm.DB) *PORepository {
	return &PORepository{db: db}
}

// FindAll lists purchase orders with pagination and filters.
func (r *PORepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	var items []entity.PurchaseOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{})

	if supplierID := filters["supplier_id"]; supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if requirementID := filters["requirement_id"]; requirementID != "" {
		query = query.Where("requirement_id = ?", requirementID)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("po_number ILIKE ?", "%"+search+"%")
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

// FindByID loads a purchase order with supplier and ordered items.
func (r *PORepository) FindByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("id = ?", id).
		First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

func (r *PORepository) FindItemByID(ctx context.Context, itemID string) (*entity.PurchaseOrderItem, error) {
	var item entity.PurchaseOrderItem
	err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PORepository) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

func (r *PORepository) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Save(po).Error
}
