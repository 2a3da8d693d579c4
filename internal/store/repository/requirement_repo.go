package repository

import (
	"context"
	"errors"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"gorm.io/gorm"
)

// RequirementRepository persists procurement requirements and their items.
type RequirementRepository struct {
	db *gorm.DB
}

func NewRequirementRepository(db *gorm.DB) *RequirementRepository {
	return &RequirementRepository{db: db}
}

// FindAll lists requirements with pagination and filters.
func (r *RequirementRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.ProcurementRequirement, int64, error) {
	var items []entity.ProcurementRequirement
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ProcurementRequirement{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if urgency := filters["urgency"]; urgency != "" {
		query = query.Where("urgency = ?", urgency)
	}
	if storeID := filters["central_store_id"]; storeID != "" {
		query = query.Where("central_store_id = ?", storeID)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("requirement_number ILIKE ? OR title ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads a requirement with its items.
func (r *RequirementRepository) FindByID(ctx context.Context, id string) (*entity.ProcurementRequirement, error) {
	var req entity.ProcurementRequirement
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// Create persists a requirement together with its items.
func (r *RequirementRepository) Create(ctx context.Context, req *entity.ProcurementRequirement) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *RequirementRepository) Update(ctx context.Context, req *entity.ProcurementRequirement) error {
	return r.db.WithContext(ctx).Save(req).Error
}

// UpdateStatus moves a requirement to a new status inside a single update.
func (r *RequirementRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&entity.ProcurementRequirement{}).
		Where("id = ?", id).
		Update("status", status).Error
}
