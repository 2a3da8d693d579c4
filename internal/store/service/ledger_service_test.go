package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/numbering"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/repository"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newTestServices wires the full service collection against an isolated test
// schema. Redis, approvals and blob storage are all left nil; every service
// degrades gracefully without them.
func newTestServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svcs := NewServices(repos, Deps{
		DB:      db,
		Logger:  zap.NewNop(),
		Numbers: numbering.NewGenerator(nil, db),
	})
	return svcs, db
}

func TestLedgerReceiptCreatesRowAndAudit(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	testutil.SeedCentralStore(t, db, "cs-001", "CS-01", "Central Store")

	inv, err := svcs.Ledger.UpdateStock(ctx, StockUpdate{
		CentralStoreID: "cs-001",
		ItemCode:       "ITEM-A",
		ItemName:       "Copper Wire",
		Unit:           "kg",
		Delta:          25,
		TxType:         entity.TxTypeReceipt,
		UnitCost:       120,
		Reference:      entity.DocumentRef{Kind: entity.DocKindGRN, ID: "grn-x", Code: "GRN-2026-00001"},
		Actor:          "user-1",
	})
	if err != nil {
		t.Fatalf("UpdateStock failed: %v", err)
	}
	if inv.QuantityOnHand != 25 {
		t.Fatalf("expected on-hand 25, got %.4f", inv.QuantityOnHand)
	}
	if inv.QuantityAvailable != 25 {
		t.Fatalf("expected available 25, got %.4f", inv.QuantityAvailable)
	}

	var txs []entity.InventoryTransaction
	if err := db.Where("central_store_id = ? AND item_code = ?", "cs-001", "ITEM-A").Find(&txs).Error; err != nil {
		t.Fatalf("load transactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(txs))
	}
	if txs[0].BeforeQuantity != 0 || txs[0].AfterQuantity != 25 {
		t.Fatalf("expected before 0 after 25, got %.4f/%.4f", txs[0].BeforeQuantity, txs[0].AfterQuantity)
	}
	if txs[0].ReferenceCode != "GRN-2026-00001" {
		t.Fatalf("expected reference code on audit row, got %q", txs[0].ReferenceCode)
	}
}

func TestLedgerRejectsNegativeBalance(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	testutil.SeedCentralStore(t, db, "cs-001", "CS-01", "Central Store")
	testutil.SeedInventory(t, db, "cs-001", "ITEM-B", 5)

	_, err := svcs.Ledger.UpdateStock(ctx, StockUpdate{
		CentralStoreID: "cs-001",
		ItemCode:       "ITEM-B",
		Delta:          -8,
		TxType:         entity.TxTypeIssue,
		Actor:          "user-1",
	})
	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.Available != 5 || insufficient.Requested != 8 {
		t.Fatalf("unexpected shortfall detail: %+v", insufficient)
	}

	// Deducting from an item never stocked fails the same way.
	_, err = svcs.Ledger.UpdateStock(ctx, StockUpdate{
		CentralStoreID: "cs-001",
		ItemCode:       "ITEM-NEVER",
		Delta:          -1,
		TxType:         entity.TxTypeIssue,
		Actor:          "user-1",
	})
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError for unknown item, got %v", err)
	}

	var inv entity.CentralStoreInventory
	if err := db.Where("central_store_id = ? AND item_code = ?", "cs-001", "ITEM-B").First(&inv).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	if inv.QuantityOnHand != 5 {
		t.Fatalf("failed deduction must not move stock, got %.4f", inv.QuantityOnHand)
	}
}

// Two concurrent deductions of 7 against 10 on hand: exactly one wins.
func TestLedgerConcurrentDeduction(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	testutil.SeedCentralStore(t, db, "cs-001", "CS-01", "Central Store")
	testutil.SeedInventory(t, db, "cs-001", "ITEM-C", 10)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svcs.Ledger.UpdateStock(ctx, StockUpdate{
				CentralStoreID: "cs-001",
				ItemCode:       "ITEM-C",
				Delta:          -7,
				TxType:         entity.TxTypeIssue,
				Actor:          "user-1",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var failures, successes int
	for err := range errs {
		if err == nil {
			successes++
			continue
		}
		var insufficient *InsufficientStockError
		if !errors.As(err, &insufficient) {
			t.Fatalf("unexpected error kind: %v", err)
		}
		failures++
	}
	if successes != 1 || failures != 1 {
		t.Fatalf("expected exactly one winner, got %d successes / %d failures", successes, failures)
	}

	var inv entity.CentralStoreInventory
	if err := db.Where("central_store_id = ? AND item_code = ?", "cs-001", "ITEM-C").First(&inv).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	if inv.QuantityOnHand != 3 {
		t.Fatalf("expected on-hand 3 after one deduction, got %.4f", inv.QuantityOnHand)
	}

	var count int64
	db.Model(&entity.InventoryTransaction{}).
		Where("central_store_id = ? AND item_code = ? AND transaction_type = ?", "cs-001", "ITEM-C", entity.TxTypeIssue).
		Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly 1 issue audit row, got %d", count)
	}
}

func TestLedgerAllocateAndRelease(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	testutil.SeedCentralStore(t, db, "cs-001", "CS-01", "Central Store")
	testutil.SeedInventory(t, db, "cs-001", "ITEM-D", 10)

	if err := svcs.Ledger.Allocate(ctx, "cs-001", "ITEM-D", 6); err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	// Reservation beyond what remains is refused.
	err := svcs.Ledger.Allocate(ctx, "cs-001", "ITEM-D", 5)
	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}

	// A deduction cutting into the reserved quantity is refused too.
	_, err = svcs.Ledger.UpdateStock(ctx, StockUpdate{
		CentralStoreID: "cs-001",
		ItemCode:       "ITEM-D",
		Delta:          -5,
		TxType:         entity.TxTypeIssue,
		Actor:          "user-1",
	})
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError against allocation, got %v", err)
	}

	if err := svcs.Ledger.Release(ctx, "cs-001", "ITEM-D", 6); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	inv, err := svcs.Ledger.Get(ctx, "cs-001", "ITEM-D")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if inv.QuantityAllocated != 0 || inv.QuantityAvailable != 10 {
		t.Fatalf("expected allocation released, got allocated %.4f available %.4f",
			inv.QuantityAllocated, inv.QuantityAvailable)
	}
}
