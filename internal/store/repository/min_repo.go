package repository

import (
	"context"
	"errors"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"gorm.io/gorm"
)

// MaterialIssueRepository persists material issue notes and their items.
type MaterialIssueRepository struct {
	db *gorm.DB
}

func NewMaterialIssueRepository(db *gorm.DB) *MaterialIssueRepository {
	return &MaterialIssueRepository{db: db}
}

// FindAll lists material issue notes with pagination and filters.
func (r *MaterialIssueRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.MaterialIssueNote, int64, error) {
	var items []entity.MaterialIssueNote
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.MaterialIssueNote{})

	if indentID := filters["indent_id"]; indentID != "" {
		query = query.Where("indent_id = ?", indentID)
	}
	if collegeID := filters["college_id"]; collegeID != "" {
		query = query.Where("college_id = ?", collegeID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("min_number ILIKE ?", "%"+search+"%")
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

// FindByID loads a MIN with its items.
func (r *MaterialIssueRepository) FindByID(ctx context.Context, id string) (*entity.MaterialIssueNote, error) {
	var min entity.MaterialIssueNote
	err := r.db.WithContext(ctx).
		Preload("College").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("id = ?", id).
		First(&min).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &min, nil
}

func (r *MaterialIssueRepository) Create(ctx context.Context, min *entity.MaterialIssueNote) error {
	return r.db.WithContext(ctx).Create(min).Error
}

func (r *MaterialIssueRepository) Update(ctx context.Context, min *entity.MaterialIssueNote) error {
	return r.db.WithContext(ctx).Save(min).Error
}
