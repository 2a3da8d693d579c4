package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LedgerService owns all central inventory mutations. Every on-hand change
// goes through UpdateStock, which locks the (store, item) row, applies the
// delta and appends the audit transaction in one database transaction.
// No other code path may touch quantity_on_hand.
type LedgerService struct {
	invRepo *repository.InventoryRepository
	db      *gorm.DB
	logger  *zap.Logger
}

func NewLedgerService(invRepo *repository.InventoryRepository, db *gorm.DB, logger *zap.Logger) *LedgerService {
	return &LedgerService{invRepo: invRepo, db: db, logger: logger}
}

// StockUpdate describes one ledger mutation.
type StockUpdate struct {
	CentralStoreID string
	ItemCode       string
	ItemName       string
	Unit           string
	Delta          float64 // signed: positive credits, negative deducts
	TxType         string
	UnitCost       float64
	Reference      entity.DocumentRef
	Actor          string
	Notes          string
}

// UpdateStock applies a signed delta to one ledger row and returns the new
// balance. Fails with InsufficientStockError when the deduction would take
// on-hand below zero or below the allocated quantity. A positive delta
// creates the row if the item has never been stocked at this store.
func (s *LedgerService) UpdateStock(ctx context.Context, upd StockUpdate) (*entity.CentralStoreInventory, error) {
	var result *entity.CentralStoreInventory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := s.UpdateStockTx(tx, upd)
		if err != nil {
			return err
		}
		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock updated",
		zap.String("store_id", upd.CentralStoreID),
		zap.String("item_code", upd.ItemCode),
		zap.Float64("delta", upd.Delta),
		zap.Float64("balance", result.QuantityOnHand),
		zap.String("type", upd.TxType),
		zap.String("reference", upd.Reference.Code),
	)
	return result, nil
}

// UpdateStockTx is UpdateStock joining a caller-owned transaction, so a
// document posting can claim its status and move stock in one atomic unit.
func (s *LedgerService) UpdateStockTx(tx *gorm.DB, upd StockUpdate) (*entity.CentralStoreInventory, error) {
	if upd.Delta == 0 {
		return nil, &ValidationError{Field: "delta", Message: "must be non-zero"}
	}
	if upd.TxType == "" {
		return nil, &ValidationError{Field: "transaction_type", Message: "is required"}
	}

	inv, err := s.invRepo.LockByStoreAndItem(tx, upd.CentralStoreID, upd.ItemCode)
	if err == repository.ErrNotFound {
		if upd.Delta < 0 {
			return nil, &InsufficientStockError{ItemCode: upd.ItemCode, Requested: -upd.Delta, Available: 0}
		}
		inv = &entity.CentralStoreInventory{
			ID:             newID(),
			CentralStoreID: upd.CentralStoreID,
			ItemCode:       upd.ItemCode,
			ItemName:       upd.ItemName,
			Unit:           upd.Unit,
		}
		if inv.Unit == "" {
			inv.Unit = "pcs"
		}
		if err := tx.Create(inv).Error; err != nil {
			return nil, fmt.Errorf("create inventory row: %w", err)
		}
	} else if err != nil {
		return nil, err
	}

	before := inv.QuantityOnHand
	after := before + upd.Delta
	if after < 0 {
		return nil, &InsufficientStockError{ItemCode: upd.ItemCode, Requested: -upd.Delta, Available: before}
	}
	if after < inv.QuantityAllocated {
		return nil, &InsufficientStockError{
			ItemCode:  upd.ItemCode,
			Requested: -upd.Delta,
			Available: before - inv.QuantityAllocated,
		}
	}

	now := time.Now()
	inv.QuantityOnHand = after
	inv.RecalcAvailable()
	inv.LastMovedAt = &now
	if upd.UnitCost > 0 {
		inv.UnitCost = upd.UnitCost
	}
	if upd.ItemName != "" {
		inv.ItemName = upd.ItemName
	}
	if err := tx.Save(inv).Error; err != nil {
		return nil, fmt.Errorf("update inventory row: %w", err)
	}

	txRow := &entity.InventoryTransaction{
		ID:              newID(),
		CentralStoreID:  upd.CentralStoreID,
		ItemCode:        upd.ItemCode,
		ItemName:        inv.ItemName,
		TransactionType: upd.TxType,
		Quantity:        upd.Delta,
		BeforeQuantity:  before,
		AfterQuantity:   after,
		UnitCost:        upd.UnitCost,
		TotalValue:      upd.UnitCost * upd.Delta,
		ReferenceKind:   upd.Reference.Kind,
		ReferenceID:     upd.Reference.ID,
		ReferenceCode:   upd.Reference.Code,
		Notes:           upd.Notes,
		CreatedBy:       upd.Actor,
	}
	if err := tx.Create(txRow).Error; err != nil {
		return nil, fmt.Errorf("append inventory transaction: %w", err)
	}

	return inv, nil
}

// Allocate soft-reserves quantity against a ledger row without moving stock
// or writing a transaction. Fails when the reservation would exceed what is
// available.
func (s *LedgerService) Allocate(ctx context.Context, storeID, itemCode string, qty float64) error {
	if qty <= 0 {
		return &ValidationError{Field: "quantity", Message: "must be positive"}
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := s.invRepo.LockByStoreAndItem(tx, storeID, itemCode)
		if err == repository.ErrNotFound {
			return &InsufficientStockError{ItemCode: itemCode, Requested: qty, Available: 0}
		} else if err != nil {
			return err
		}
		if inv.QuantityAllocated+qty > inv.QuantityOnHand {
			return &InsufficientStockError{
				ItemCode:  itemCode,
				Requested: qty,
				Available: inv.QuantityOnHand - inv.QuantityAllocated,
			}
		}
		inv.QuantityAllocated += qty
		inv.RecalcAvailable()
		return tx.Save(inv).Error
	})
}

// Release returns previously allocated quantity, flooring at zero.
func (s *LedgerService) Release(ctx context.Context, storeID, itemCode string, qty float64) error {
	if qty <= 0 {
		return &ValidationError{Field: "quantity", Message: "must be positive"}
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := s.invRepo.LockByStoreAndItem(tx, storeID, itemCode)
		if err == repository.ErrNotFound {
			return ErrInventoryRowMissing
		} else if err != nil {
			return err
		}
		inv.QuantityAllocated -= qty
		if inv.QuantityAllocated < 0 {
			inv.QuantityAllocated = 0
		}
		inv.RecalcAvailable()
		return tx.Save(inv).Error
	})
}

// Get returns the current ledger row for one (store, item) pair.
func (s *LedgerService) Get(ctx context.Context, storeID, itemCode string) (*entity.CentralStoreInventory, error) {
	return s.invRepo.GetByStoreAndItem(ctx, storeID, itemCode)
}

// List pages through ledger rows.
func (s *LedgerService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.CentralStoreInventory, int64, error) {
	return s.invRepo.FindAll(ctx, page, pageSize, filters)
}

// ListTransactions pages through the audit log.
func (s *LedgerService) ListTransactions(ctx context.Context, storeID, itemCode string, page, pageSize int) ([]entity.InventoryTransaction, int64, error) {
	return s.invRepo.ListTransactions(ctx, storeID, itemCode, page, pageSize)
}

// GetAlerts returns rows at or below their reorder point.
func (s *LedgerService) GetAlerts(ctx context.Context, storeID string) ([]entity.CentralStoreInventory, error) {
	return s.invRepo.GetAlerts(ctx, storeID)
}
