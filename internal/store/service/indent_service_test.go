package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/testutil"
	"gorm.io/gorm"
)

// seedSubmittedIndent raises a two-line indent and submits it to the
// super-admin queue.
func seedSubmittedIndent(t *testing.T, svcs *Services, db *gorm.DB) *entity.StoreIndent {
	t.Helper()
	ctx := context.Background()

	testutil.SeedCentralStore(t, db, "cs-001", "CS-01", "Central Store")
	testutil.SeedCollege(t, db, "col-001", "COL-01", "Engineering College")
	testutil.SeedInventory(t, db, "cs-001", "ITEM-A", 50)
	testutil.SeedInventory(t, db, "cs-001", "ITEM-B", 50)

	indent, result, err := svcs.Indent.Create(ctx, "clerk-1", &CreateIndentRequest{
		CollegeID:      "col-001",
		CentralStoreID: "cs-001",
		Items: []CreateIndentItem{
			{ItemCode: "ITEM-A", ItemName: "Copper Wire", Unit: "kg", RequestedQuantity: 10},
			{ItemCode: "ITEM-B", ItemName: "Solder Paste", Unit: "pcs", RequestedQuantity: 4},
		},
	})
	if err != nil {
		t.Fatalf("create indent: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("stocked items must not warn: %v", result.Warnings)
	}

	indent, err = svcs.Indent.Submit(ctx, indent.ID, "clerk-1")
	if err != nil {
		t.Fatalf("submit indent: %v", err)
	}
	if indent.Status != entity.IndentStatusPendingSuperAdmin {
		t.Fatalf("expected pending_super_admin after submit, got %s", indent.Status)
	}
	return indent
}

func TestIndentCreateWarnsBeyondAvailability(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	testutil.SeedCentralStore(t, db, "cs-001", "CS-01", "Central Store")
	testutil.SeedCollege(t, db, "col-001", "COL-01", "Engineering College")
	testutil.SeedInventory(t, db, "cs-001", "ITEM-A", 3)

	_, result, err := svcs.Indent.Create(ctx, "clerk-1", &CreateIndentRequest{
		CollegeID:      "col-001",
		CentralStoreID: "cs-001",
		Items: []CreateIndentItem{
			{ItemCode: "ITEM-A", ItemName: "Copper Wire", RequestedQuantity: 10},
		},
	})
	if err != nil {
		t.Fatalf("create indent: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected one availability warning, got %v", result.Warnings)
	}
}

func TestIndentUrgentRequiresJustification(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	testutil.SeedCentralStore(t, db, "cs-001", "CS-01", "Central Store")
	testutil.SeedCollege(t, db, "col-001", "COL-01", "Engineering College")

	_, _, err := svcs.Indent.Create(ctx, "clerk-1", &CreateIndentRequest{
		CollegeID:      "col-001",
		CentralStoreID: "cs-001",
		Priority:       entity.UrgencyUrgent,
		Items: []CreateIndentItem{
			{ItemCode: "ITEM-A", ItemName: "Copper Wire", RequestedQuantity: 1},
		},
	})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestIndentSuperAdminApprovalGrants(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	indent := seedSubmittedIndent(t, svcs, db)
	itemA, itemB := indent.Items[0], indent.Items[1]

	// A grant above the requested quantity rejects the whole approval.
	_, err := svcs.Indent.SuperAdminApprove(ctx, indent.ID, "admin-1", map[string]float64{
		itemA.ID: 12,
	})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for over-grant, got %v", err)
	}

	// Partial grant on one line, default (= requested) on the other.
	approved, err := svcs.Indent.SuperAdminApprove(ctx, indent.ID, "admin-1", map[string]float64{
		itemA.ID: 6,
	})
	if err != nil {
		t.Fatalf("approve indent: %v", err)
	}
	if approved.Status != entity.IndentStatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}

	var items []entity.IndentItem
	if err := db.Where("indent_id = ?", indent.ID).Order("sort_order").Find(&items).Error; err != nil {
		t.Fatalf("load indent items: %v", err)
	}
	if items[0].ApprovedQuantity != 6 || items[0].PendingQuantity != 6 {
		t.Fatalf("expected line A approved 6 pending 6, got %.4f/%.4f",
			items[0].ApprovedQuantity, items[0].PendingQuantity)
	}
	if items[1].ApprovedQuantity != itemB.RequestedQuantity {
		t.Fatalf("expected line B defaulted to requested %.4f, got %.4f",
			itemB.RequestedQuantity, items[1].ApprovedQuantity)
	}

	// Approving an approved indent is a logged no-op, not an error.
	again, err := svcs.Indent.SuperAdminApprove(ctx, indent.ID, "admin-1", nil)
	if err != nil {
		t.Fatalf("repeat approval must be idempotent: %v", err)
	}
	if again.Status != entity.IndentStatusApproved {
		t.Fatalf("expected approved after repeat, got %s", again.Status)
	}
}

func TestIndentCollegeActionsOnParkedIndent(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	indent := seedSubmittedIndent(t, svcs, db)

	// College approval after the fast path is a no-op.
	parked, err := svcs.Indent.CollegeAdminApprove(ctx, indent.ID, "college-admin-1")
	if err != nil {
		t.Fatalf("college approve on fast-pathed indent: %v", err)
	}
	if parked.Status != entity.IndentStatusPendingSuperAdmin {
		t.Fatalf("expected status unchanged, got %s", parked.Status)
	}

	// College rejection is only valid while parked at the college stage.
	_, err = svcs.Indent.CollegeAdminReject(ctx, indent.ID, "college-admin-1", "duplicate request")
	var transition *StateTransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("expected StateTransitionError, got %v", err)
	}

	if err := db.Model(&entity.StoreIndent{}).
		Where("id = ?", indent.ID).
		Update("status", entity.IndentStatusPendingCollegeApproval).Error; err != nil {
		t.Fatalf("park indent at college stage: %v", err)
	}
	rejected, err := svcs.Indent.CollegeAdminReject(ctx, indent.ID, "college-admin-1", "duplicate request")
	if err != nil {
		t.Fatalf("college reject on parked indent: %v", err)
	}
	if rejected.Status != entity.IndentStatusRejectedByCollege {
		t.Fatalf("expected rejected_by_college, got %s", rejected.Status)
	}
}

func TestIndentSuperAdminRejectOnlyFromQueue(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	indent := seedSubmittedIndent(t, svcs, db)

	rejected, err := svcs.Indent.SuperAdminReject(ctx, indent.ID, "admin-1", "budget freeze")
	if err != nil {
		t.Fatalf("super reject: %v", err)
	}
	if rejected.Status != entity.IndentStatusRejectedBySuperAdmin {
		t.Fatalf("expected rejected_by_super_admin, got %s", rejected.Status)
	}

	_, err = svcs.Indent.SuperAdminReject(ctx, indent.ID, "admin-1", "again")
	var transition *StateTransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("expected StateTransitionError on repeat reject, got %v", err)
	}
}
