package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/testutil"
	"gorm.io/gorm"
)

// seedApprovedIndent builds an indent approved for 5 units of ITEM-A with the
// given central stock on hand.
func seedApprovedIndent(t *testing.T, svcs *Services, db *gorm.DB, onHand float64) *entity.StoreIndent {
	t.Helper()
	ctx := context.Background()

	testutil.SeedCentralStore(t, db, "cs-001", "CS-01", "Central Store")
	testutil.SeedCollege(t, db, "col-001", "COL-01", "Engineering College")
	testutil.SeedInventory(t, db, "cs-001", "ITEM-A", onHand)

	indent, _, err := svcs.Indent.Create(ctx, "clerk-1", &CreateIndentRequest{
		CollegeID:      "col-001",
		CentralStoreID: "cs-001",
		Items: []CreateIndentItem{
			{ItemCode: "ITEM-A", ItemName: "Copper Wire", Unit: "kg", RequestedQuantity: 5},
		},
	})
	if err != nil {
		t.Fatalf("create indent: %v", err)
	}
	if _, err := svcs.Indent.Submit(ctx, indent.ID, "clerk-1"); err != nil {
		t.Fatalf("submit indent: %v", err)
	}
	indent, err = svcs.Indent.SuperAdminApprove(ctx, indent.ID, "admin-1", nil)
	if err != nil {
		t.Fatalf("approve indent: %v", err)
	}
	return indent
}

func TestMINCreateBoundByApprovedQuantity(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	indent := seedApprovedIndent(t, svcs, db, 10)

	_, err := svcs.MaterialIssue.Create(ctx, "keeper-1", &CreateMINRequest{
		IndentID: indent.ID,
		Items: []CreateMINItem{
			{IndentItemID: indent.Items[0].ID, IssuedQuantity: 6},
		},
	})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for over-issue, got %v", err)
	}

	_, err = svcs.MaterialIssue.Create(ctx, "keeper-1", &CreateMINRequest{
		IndentID: indent.ID,
		Items: []CreateMINItem{
			{IndentItemID: "not-an-item", IssuedQuantity: 1},
		},
	})
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for foreign line, got %v", err)
	}
}

func TestMINDispatchDeductsExactlyOnce(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	indent := seedApprovedIndent(t, svcs, db, 10)

	min, err := svcs.MaterialIssue.Create(ctx, "keeper-1", &CreateMINRequest{
		IndentID:      indent.ID,
		VehicleNumber: "KA-01-AB-1234",
		Items: []CreateMINItem{
			{IndentItemID: indent.Items[0].ID, IssuedQuantity: 5},
		},
	})
	if err != nil {
		t.Fatalf("create min: %v", err)
	}
	if min.Status != entity.MINStatusPrepared {
		t.Fatalf("expected prepared, got %s", min.Status)
	}

	// Nothing moves until dispatch.
	inv, _ := svcs.Ledger.Get(ctx, "cs-001", "ITEM-A")
	if inv.QuantityOnHand != 10 {
		t.Fatalf("create must not move stock, got %.4f", inv.QuantityOnHand)
	}

	dispatched, err := svcs.MaterialIssue.Dispatch(ctx, min.ID, "keeper-1")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if dispatched.Status != entity.MINStatusInTransit {
		t.Fatalf("expected in_transit, got %s", dispatched.Status)
	}

	inv, _ = svcs.Ledger.Get(ctx, "cs-001", "ITEM-A")
	if inv.QuantityOnHand != 5 {
		t.Fatalf("expected 5 on hand after dispatch, got %.4f", inv.QuantityOnHand)
	}

	var item entity.IndentItem
	if err := db.Where("id = ?", indent.Items[0].ID).First(&item).Error; err != nil {
		t.Fatalf("load indent item: %v", err)
	}
	if item.IssuedQuantity != 5 || item.PendingQuantity != 0 {
		t.Fatalf("expected issued 5 pending 0, got %.4f/%.4f", item.IssuedQuantity, item.PendingQuantity)
	}

	refreshedIndent, err := svcs.Indent.Get(ctx, indent.ID)
	if err != nil {
		t.Fatalf("reload indent: %v", err)
	}
	if refreshedIndent.Status != entity.IndentStatusFulfilled {
		t.Fatalf("expected indent fulfilled, got %s", refreshedIndent.Status)
	}

	// Re-dispatch fails the status claim and moves nothing.
	_, err = svcs.MaterialIssue.Dispatch(ctx, min.ID, "keeper-1")
	var transition *StateTransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("expected StateTransitionError on re-dispatch, got %v", err)
	}
	inv, _ = svcs.Ledger.Get(ctx, "cs-001", "ITEM-A")
	if inv.QuantityOnHand != 5 {
		t.Fatalf("re-dispatch must not move stock, got %.4f", inv.QuantityOnHand)
	}

	var txCount int64
	db.Model(&entity.InventoryTransaction{}).
		Where("reference_kind = ? AND reference_id = ?", entity.DocKindMIN, min.ID).
		Count(&txCount)
	if txCount != 1 {
		t.Fatalf("expected exactly 1 issue transaction, got %d", txCount)
	}
}

func TestMINDispatchShortfallRollsBack(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	indent := seedApprovedIndent(t, svcs, db, 3)

	min, err := svcs.MaterialIssue.Create(ctx, "keeper-1", &CreateMINRequest{
		IndentID: indent.ID,
		Items: []CreateMINItem{
			{IndentItemID: indent.Items[0].ID, IssuedQuantity: 5},
		},
	})
	if err != nil {
		t.Fatalf("create min: %v", err)
	}

	_, err = svcs.MaterialIssue.Dispatch(ctx, min.ID, "keeper-1")
	var unavailable *StockUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected StockUnavailableError, got %v", err)
	}
	if len(unavailable.Lines) != 1 {
		t.Fatalf("expected 1 shortfall line, got %d", len(unavailable.Lines))
	}
	if unavailable.Lines[0].Requested != 5 || unavailable.Lines[0].Available != 3 {
		t.Fatalf("unexpected shortfall detail: %+v", unavailable.Lines[0])
	}

	// Whole dispatch rolled back: status, stock and audit all untouched.
	refreshed, err := svcs.MaterialIssue.Get(ctx, min.ID)
	if err != nil {
		t.Fatalf("reload min: %v", err)
	}
	if refreshed.Status != entity.MINStatusPrepared {
		t.Fatalf("expected prepared after rollback, got %s", refreshed.Status)
	}
	inv, _ := svcs.Ledger.Get(ctx, "cs-001", "ITEM-A")
	if inv.QuantityOnHand != 3 {
		t.Fatalf("failed dispatch must not move stock, got %.4f", inv.QuantityOnHand)
	}
	var txCount int64
	db.Model(&entity.InventoryTransaction{}).
		Where("reference_kind = ?", entity.DocKindMIN).
		Count(&txCount)
	if txCount != 0 {
		t.Fatalf("expected no issue transactions, got %d", txCount)
	}
}

func TestMINConfirmReceiptMovesNoStock(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	indent := seedApprovedIndent(t, svcs, db, 10)

	min, err := svcs.MaterialIssue.Create(ctx, "keeper-1", &CreateMINRequest{
		IndentID: indent.ID,
		Items: []CreateMINItem{
			{IndentItemID: indent.Items[0].ID, IssuedQuantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("create min: %v", err)
	}

	// Receipt before dispatch is invalid.
	_, err = svcs.MaterialIssue.ConfirmReceipt(ctx, min.ID, "college-keeper-1", "")
	var transition *StateTransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("expected StateTransitionError, got %v", err)
	}

	if _, err := svcs.MaterialIssue.Dispatch(ctx, min.ID, "keeper-1"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	received, err := svcs.MaterialIssue.ConfirmReceipt(ctx, min.ID, "college-keeper-1", "all crates intact")
	if err != nil {
		t.Fatalf("confirm receipt: %v", err)
	}
	if received.Status != entity.MINStatusReceived {
		t.Fatalf("expected received, got %s", received.Status)
	}
	if received.ReceivedAt == nil {
		t.Fatal("expected received_at to be set")
	}

	// Deduction happened at dispatch; receipt is bookkeeping only.
	inv, _ := svcs.Ledger.Get(ctx, "cs-001", "ITEM-A")
	if inv.QuantityOnHand != 8 {
		t.Fatalf("expected 8 on hand, got %.4f", inv.QuantityOnHand)
	}

	// Partial issue leaves the indent partially fulfilled.
	refreshedIndent, err := svcs.Indent.Get(ctx, indent.ID)
	if err != nil {
		t.Fatalf("reload indent: %v", err)
	}
	if refreshedIndent.Status != entity.IndentStatusPartiallyFulfilled {
		t.Fatalf("expected partially_fulfilled, got %s", refreshedIndent.Status)
	}
}
