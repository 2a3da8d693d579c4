package repository

import (
	"context"
	"errors"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"gorm.io/gorm"
)

// GRNRepository persists goods receipt notes, their items and inspections.
type GRNRepository struct {
	db *gorm.DB
}

func NewGRNRepository(db *gorm.DB) *GRNRepository {
	return &GRNRepository{db: db}
}

// FindAll lists goods receipt notes with pagination and filters.
func (r *GRNRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.GoodsReceiptNote, int64, error) {
	var items []entity.GoodsReceiptNote
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.GoodsReceiptNote{})

	if poID := filters["po_id"]; poID != "" {
		query = query.Where("po_id = ?", poID)
	}
	if supplierID := filters["supplier_id"]; supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("grn_number ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Supplier").
		Preload("Items").
		Preload("Inspection").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads a GRN with items and its inspection note, if any.
func (r *GRNRepository) FindByID(ctx context.Context, id string) (*entity.GoodsReceiptNote, error) {
	var grn entity.GoodsReceiptNote
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Inspection").
		Where("id = ?", id).
		First(&grn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &grn, nil
}

func (r *GRNRepository) Create(ctx context.Context, grn *entity.GoodsReceiptNote) error {
	return r.db.WithContext(ctx).Create(grn).Error
}

func (r *GRNRepository) Update(ctx context.Context, grn *entity.GoodsReceiptNote) error {
	return r.db.WithContext(ctx).Save(grn).Error
}

// CreateInspection persists the one-to-one inspection note for a GRN.
func (r *GRNRepository) CreateInspection(ctx context.Context, note *entity.InspectionNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *GRNRepository) UpdateInspection(ctx context.Context, note *entity.InspectionNote) error {
	return r.db.WithContext(ctx).Save(note).Error
}

func (r *GRNRepository) FindInspectionByGRN(ctx context.Context, grnID string) (*entity.InspectionNote, error) {
	var note entity.InspectionNote
	err := r.db.WithContext(ctx).Where("grn_id = ?", grnID).First(&note).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}
