package repository

import (
	"context"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"gorm.io/gorm"
)

// ActivityLogRepository persists the per-document audit trail.
type ActivityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

func (r *ActivityLogRepository) Create(ctx context.Context, log *entity.ActivityLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// FindByEntity lists a document's activity, newest first.
func (r *ActivityLogRepository) FindByEntity(ctx context.Context, entityType, entityID string) ([]entity.ActivityLog, error) {
	var logs []entity.ActivityLog
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
