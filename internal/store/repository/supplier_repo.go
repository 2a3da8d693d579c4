package repository

import (
	"context"
	"errors"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"gorm.io/gorm"
)

// SupplierRepository persists suppliers.
type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// FindAll lists suppliers with pagination and filters.
func (r *SupplierRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Supplier, int64, error) {
	var items []entity.Supplier
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Supplier{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if category := filters["category"]; category != "" {
		query = query.Where("category = ?", category)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&items).Error
	return items, total, err
}

func (r *SupplierRepository) FindByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var supplier entity.Supplier
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

func (r *SupplierRepository) Create(ctx context.Context, supplier *entity.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *SupplierRepository) Update(ctx context.Context, supplier *entity.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}
