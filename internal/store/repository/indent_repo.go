package repository

import (
	"context"
	"errors"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"gorm.io/gorm"
)

// IndentRepository persists store indents and their items.
type IndentRepository struct {
	db *gorm.DB
}

func NewIndentRepository(db *gorm.DB) *IndentRepository {
	return &IndentRepository{db: db}
}

// FindAll lists indents with pagination and filters.
func (r *IndentRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.StoreIndent, int64, error) {
	var items []entity.StoreIndent
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.StoreIndent{})

	if collegeID := filters["college_id"]; collegeID != "" {
		query = query.Where("college_id = ?", collegeID)
	}
	if storeID := filters["central_store_id"]; storeID != "" {
		query = query.Where("central_store_id = ?", storeID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := filters["priority"]; priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("indent_number ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("College").
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads an indent with its items.
func (r *IndentRepository) FindByID(ctx context.Context, id string) (*entity.StoreIndent, error) {
	var indent entity.StoreIndent
	err := r.db.WithContext(ctx).
		Preload("College").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("id = ?", id).
		First(&indent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &indent, nil
}

func (r *IndentRepository) FindItemByID(ctx context.Context, itemID string) (*entity.IndentItem, error) {
	var item entity.IndentItem
	err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *IndentRepository) Create(ctx context.Context, indent *entity.StoreIndent) error {
	return r.db.WithContext(ctx).Create(indent).Error
}

func (r *IndentRepository) Update(ctx context.Context, indent *entity.StoreIndent) error {
	return r.db.WithContext(ctx).Save(indent).Error
}

func (r *IndentRepository) UpdateItem(ctx context.Context, item *entity.IndentItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}
