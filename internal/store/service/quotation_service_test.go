package service

import (
	"context"
	"testing"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/testutil"
	"gorm.io/gorm"
)

// seedApprovedRequirement creates a one-line requirement and forces it to
// approved, as if the workflow decision had come back.
func seedApprovedRequirement(t *testing.T, svcs *Services, db *gorm.DB) *entity.ProcurementRequirement {
	t.Helper()
	ctx := context.Background()

	testutil.SeedCentralStore(t, db, "cs-001", "CS-01", "Central Store")
	testutil.SeedSupplier(t, db, "sup-001", "SUP-01", "Alpha Traders")
	testutil.SeedSupplier(t, db, "sup-002", "SUP-02", "Beta Supplies")

	requirement, err := svcs.Requirement.Create(ctx, "user-1", &CreateRequirementRequest{
		CentralStoreID: "cs-001",
		Title:          "Lab consumables restock",
		Items: []CreateRequirementItem{
			{ItemCode: "ITEM-A", ItemName: "Copper Wire", Quantity: 10, Unit: "kg", EstimatedPrice: 100},
		},
	})
	if err != nil {
		t.Fatalf("create requirement: %v", err)
	}

	if err := db.Model(&entity.ProcurementRequirement{}).
		Where("id = ?", requirement.ID).
		Update("status", entity.RequirementStatusApproved).Error; err != nil {
		t.Fatalf("force requirement approved: %v", err)
	}
	requirement.Status = entity.RequirementStatusApproved
	return requirement
}

func quoteFor(requirementID, supplierID string, unitPrice float64) *CreateQuotationRequest {
	return &CreateQuotationRequest{
		RequirementID: requirementID,
		SupplierID:    supplierID,
		Items: []CreateQuotationItem{
			{ItemCode: "ITEM-A", ItemName: "Copper Wire", Quantity: 10, Unit: "kg", UnitPrice: unitPrice, TaxRate: 18},
		},
	}
}

func TestQuotationCreateComputesTotalsAndAdvancesRequirement(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	requirement := seedApprovedRequirement(t, svcs, db)

	quotation, err := svcs.Quotation.Create(ctx, "user-1", quoteFor(requirement.ID, "sup-001", 100))
	if err != nil {
		t.Fatalf("create quotation: %v", err)
	}
	if quotation.TotalAmount != 1000 || quotation.TaxAmount != 180 || quotation.GrandTotal != 1180 {
		t.Fatalf("unexpected totals: total %.2f tax %.2f grand %.2f",
			quotation.TotalAmount, quotation.TaxAmount, quotation.GrandTotal)
	}
	if quotation.Status != entity.QuotationStatusReceived {
		t.Fatalf("expected status received, got %s", quotation.Status)
	}

	refreshed, err := svcs.Requirement.Get(ctx, requirement.ID)
	if err != nil {
		t.Fatalf("reload requirement: %v", err)
	}
	if refreshed.Status != entity.RequirementStatusQuotationsReceived {
		t.Fatalf("expected requirement advanced to quotations_received, got %s", refreshed.Status)
	}
}

func TestQuotationSelectIsMutuallyExclusive(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	requirement := seedApprovedRequirement(t, svcs, db)

	first, err := svcs.Quotation.Create(ctx, "user-1", quoteFor(requirement.ID, "sup-001", 100))
	if err != nil {
		t.Fatalf("create first quotation: %v", err)
	}
	second, err := svcs.Quotation.Create(ctx, "user-1", quoteFor(requirement.ID, "sup-002", 95))
	if err != nil {
		t.Fatalf("create second quotation: %v", err)
	}

	if _, err := svcs.Quotation.Select(ctx, second.ID, "user-1"); err != nil {
		t.Fatalf("select second quotation: %v", err)
	}

	// Re-selecting the other offer swaps the flag, never duplicates it.
	if _, err := svcs.Quotation.Select(ctx, first.ID, "user-1"); err != nil {
		t.Fatalf("select first quotation: %v", err)
	}

	var selected []entity.SupplierQuotation
	if err := db.Where("requirement_id = ? AND is_selected", requirement.ID).Find(&selected).Error; err != nil {
		t.Fatalf("load selected quotations: %v", err)
	}
	if len(selected) != 1 {
		t.Fatalf("expected exactly one selected quotation, got %d", len(selected))
	}
	if selected[0].ID != first.ID {
		t.Fatalf("expected %s selected, got %s", first.ID, selected[0].ID)
	}
	if selected[0].Status != entity.QuotationStatusAccepted {
		t.Fatalf("expected selected quotation accepted, got %s", selected[0].Status)
	}

	deselected, err := svcs.Quotation.Get(ctx, second.ID)
	if err != nil {
		t.Fatalf("reload second quotation: %v", err)
	}
	if deselected.IsSelected {
		t.Fatal("second quotation must be deselected after the swap")
	}
	if deselected.Status != entity.QuotationStatusRejected {
		t.Fatalf("expected sibling rejected, got %s", deselected.Status)
	}
}

func TestQuotationCreateRefusedOnClosedRequirement(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	requirement := seedApprovedRequirement(t, svcs, db)
	if err := db.Model(&entity.ProcurementRequirement{}).
		Where("id = ?", requirement.ID).
		Update("status", entity.RequirementStatusCancelled).Error; err != nil {
		t.Fatalf("force requirement cancelled: %v", err)
	}

	_, err := svcs.Quotation.Create(ctx, "user-1", quoteFor(requirement.ID, "sup-001", 100))
	if _, ok := err.(*StateTransitionError); !ok {
		t.Fatalf("expected StateTransitionError, got %v", err)
	}
}
