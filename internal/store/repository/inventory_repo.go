package repository

import (
	"context"
	"errors"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryRepository persists the central inventory ledger rows and the
// append-only transaction log.
type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// FindAll lists inventory rows with pagination and filters.
func (r *InventoryRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.CentralStoreInventory, int64, error) {
	var items []entity.CentralStoreInventory
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CentralStoreInventory{})

	if storeID := filters["central_store_id"]; storeID != "" {
		query = query.Where("central_store_id = ?", storeID)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("item_code ILIKE ? OR item_name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("item_code ASC").Offset(offset).Limit(pageSize).Find(&items).Error
	return items, total, err
}

// GetByStoreAndItem loads the ledger row for one (store, item) pair.
func (r *InventoryRepository) GetByStoreAndItem(ctx context.Context, storeID, itemCode string) (*entity.CentralStoreInventory, error) {
	var inv entity.CentralStoreInventory
	err := r.db.WithContext(ctx).
		Where("central_store_id = ? AND item_code = ?", storeID, itemCode).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// LockByStoreAndItem loads the ledger row under SELECT ... FOR UPDATE.
// Must be called inside a transaction; concurrent ledger mutations against
// the same row serialize on this lock.
func (r *InventoryRepository) LockByStoreAndItem(tx *gorm.DB, storeID, itemCode string) (*entity.CentralStoreInventory, error) {
	var inv entity.CentralStoreInventory
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("central_store_id = ? AND item_code = ?", storeID, itemCode).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *InventoryRepository) Create(ctx context.Context, inv *entity.CentralStoreInventory) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InventoryRepository) Update(ctx context.Context, inv *entity.CentralStoreInventory) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

// GetAlerts returns rows at or below their reorder point.
func (r *InventoryRepository) GetAlerts(ctx context.Context, storeID string) ([]entity.CentralStoreInventory, error) {
	var items []entity.CentralStoreInventory
	query := r.db.WithContext(ctx).
		Where("reorder_point > 0 AND quantity_available <= reorder_point")
	if storeID != "" {
		query = query.Where("central_store_id = ?", storeID)
	}
	err := query.Order("item_code ASC").Find(&items).Error
	return items, err
}

// ListTransactions pages through the audit log for one item, newest first.
func (r *InventoryRepository) ListTransactions(ctx context.Context, storeID, itemCode string, page, pageSize int) ([]entity.InventoryTransaction, int64, error) {
	var items []entity.InventoryTransaction
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.InventoryTransaction{})
	if storeID != "" {
		query = query.Where("central_store_id = ?", storeID)
	}
	if itemCode != "" {
		query = query.Where("item_code = ?", itemCode)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&items).Error
	return items, total, err
}
