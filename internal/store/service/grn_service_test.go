package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"gorm.io/gorm"
)

// seedSentPO walks the procurement pipeline up to a PO the supplier has been
// sent: requirement -> quotation -> selection -> PO -> sent.
func seedSentPO(t *testing.T, svcs *Services, db *gorm.DB) *entity.PurchaseOrder {
	t.Helper()
	ctx := context.Background()

	requirement := seedApprovedRequirement(t, svcs, db)
	quotation, err := svcs.Quotation.Create(ctx, "user-1", quoteFor(requirement.ID, "sup-001", 100))
	if err != nil {
		t.Fatalf("create quotation: %v", err)
	}
	if _, err := svcs.Quotation.Select(ctx, quotation.ID, "user-1"); err != nil {
		t.Fatalf("select quotation: %v", err)
	}

	po, err := svcs.PO.Create(ctx, "user-1", &CreatePORequest{
		RequirementID: requirement.ID,
		QuotationID:   quotation.ID,
	})
	if err != nil {
		t.Fatalf("create po: %v", err)
	}
	po, err = svcs.PO.SendToSupplier(ctx, po.ID, "user-1")
	if err != nil {
		t.Fatalf("send po: %v", err)
	}
	return po
}

func TestGRNCreateEnforcesReconciliation(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	po := seedSentPO(t, svcs, db)

	// accepted + rejected must equal received
	_, _, err := svcs.GRN.Create(ctx, "user-1", &CreateGRNRequest{
		POID: po.ID,
		Items: []CreateGRNItem{
			{POItemID: po.Items[0].ID, ReceivedQuantity: 10, AcceptedQuantity: 7, RejectedQuantity: 2},
		},
	})
	var reconciliation *ReconciliationError
	if !errors.As(err, &reconciliation) {
		t.Fatalf("expected ReconciliationError, got %v", err)
	}

	// received may not exceed the ordered quantity
	_, _, err = svcs.GRN.Create(ctx, "user-1", &CreateGRNRequest{
		POID: po.ID,
		Items: []CreateGRNItem{
			{POItemID: po.Items[0].ID, ReceivedQuantity: 12, AcceptedQuantity: 12},
		},
	})
	var overReceipt *OverReceiptError
	if !errors.As(err, &overReceipt) {
		t.Fatalf("expected OverReceiptError, got %v", err)
	}
	if overReceipt.Received != 12 || overReceipt.Ordered != 10 {
		t.Fatalf("unexpected over-receipt detail: %+v", overReceipt)
	}

	var count int64
	db.Model(&entity.GoodsReceiptNote{}).Count(&count)
	if count != 0 {
		t.Fatalf("failed creates must persist nothing, found %d GRNs", count)
	}
}

func TestGRNInvoiceVarianceWarns(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	po := seedSentPO(t, svcs, db)

	// PO grand total is 1180; a 2000 invoice is ~69% off.
	grn, result, err := svcs.GRN.Create(ctx, "user-1", &CreateGRNRequest{
		POID:          po.ID,
		InvoiceNumber: "INV-991",
		InvoiceAmount: 2000,
		Items: []CreateGRNItem{
			{POItemID: po.Items[0].ID, ReceivedQuantity: 10, AcceptedQuantity: 10},
		},
	})
	if err != nil {
		t.Fatalf("create grn: %v", err)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected an invoice variance warning")
	}
	if grn.Status != entity.GRNStatusReceived {
		t.Fatalf("warning must not block creation, status %s", grn.Status)
	}
}

func TestGRNPostToInventoryOnce(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	po := seedSentPO(t, svcs, db)

	grn, _, err := svcs.GRN.Create(ctx, "user-1", &CreateGRNRequest{
		POID: po.ID,
		Items: []CreateGRNItem{
			{POItemID: po.Items[0].ID, ReceivedQuantity: 10, AcceptedQuantity: 8, RejectedQuantity: 2, RejectionReason: "damaged"},
		},
	})
	if err != nil {
		t.Fatalf("create grn: %v", err)
	}

	if _, err := svcs.GRN.SubmitForInspection(ctx, grn.ID, "user-1"); err != nil {
		t.Fatalf("submit for inspection: %v", err)
	}
	if _, err := svcs.GRN.RecordInspection(ctx, grn.ID, "inspector-1", &RecordInspectionRequest{
		OverallStatus: entity.InspectionStatusPartial,
		QualityRating: 4,
		Findings:      "two units crushed in transit",
	}); err != nil {
		t.Fatalf("record inspection: %v", err)
	}
	if _, err := svcs.GRN.Approve(ctx, grn.ID, "user-2"); err != nil {
		t.Fatalf("approve grn: %v", err)
	}

	posted, err := svcs.GRN.PostToInventory(ctx, grn.ID, "user-2")
	if err != nil {
		t.Fatalf("post to inventory: %v", err)
	}
	if posted.Status != entity.GRNStatusPosted {
		t.Fatalf("expected posted status, got %s", posted.Status)
	}

	// Only the accepted quantity lands in the ledger.
	inv, err := svcs.Ledger.Get(ctx, po.CentralStoreID, "ITEM-A")
	if err != nil {
		t.Fatalf("load ledger row: %v", err)
	}
	if inv.QuantityOnHand != 8 {
		t.Fatalf("expected 8 on hand, got %.4f", inv.QuantityOnHand)
	}

	// PO line tracks the full received quantity and the order closes.
	refreshedPO, err := svcs.PO.Get(ctx, po.ID)
	if err != nil {
		t.Fatalf("reload po: %v", err)
	}
	if refreshedPO.Items[0].ReceivedQuantity != 10 {
		t.Fatalf("expected po line received 10, got %.4f", refreshedPO.Items[0].ReceivedQuantity)
	}
	if refreshedPO.Status != entity.POStatusFulfilled {
		t.Fatalf("expected po fulfilled, got %s", refreshedPO.Status)
	}

	// Second post fails the status claim and credits nothing.
	_, err = svcs.GRN.PostToInventory(ctx, grn.ID, "user-2")
	var transition *StateTransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("expected StateTransitionError on double post, got %v", err)
	}
	inv, _ = svcs.Ledger.Get(ctx, po.CentralStoreID, "ITEM-A")
	if inv.QuantityOnHand != 8 {
		t.Fatalf("double post must not move stock, got %.4f", inv.QuantityOnHand)
	}

	var txCount int64
	db.Model(&entity.InventoryTransaction{}).
		Where("reference_kind = ? AND reference_id = ?", entity.DocKindGRN, grn.ID).
		Count(&txCount)
	if txCount != 1 {
		t.Fatalf("expected exactly 1 receipt transaction, got %d", txCount)
	}
}

func TestGRNRejectedNeverPosts(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	po := seedSentPO(t, svcs, db)

	grn, _, err := svcs.GRN.Create(ctx, "user-1", &CreateGRNRequest{
		POID: po.ID,
		Items: []CreateGRNItem{
			{POItemID: po.Items[0].ID, ReceivedQuantity: 10, AcceptedQuantity: 0, RejectedQuantity: 10, RejectionReason: "wrong spec"},
		},
	})
	if err != nil {
		t.Fatalf("create grn: %v", err)
	}
	if _, err := svcs.GRN.SubmitForInspection(ctx, grn.ID, "user-1"); err != nil {
		t.Fatalf("submit for inspection: %v", err)
	}
	if _, err := svcs.GRN.RecordInspection(ctx, grn.ID, "inspector-1", &RecordInspectionRequest{
		OverallStatus: entity.InspectionStatusFailed,
		QualityRating: 1,
	}); err != nil {
		t.Fatalf("record inspection: %v", err)
	}
	if _, err := svcs.GRN.Reject(ctx, grn.ID, "user-2", "entire lot off-spec"); err != nil {
		t.Fatalf("reject grn: %v", err)
	}

	_, err = svcs.GRN.PostToInventory(ctx, grn.ID, "user-2")
	var transition *StateTransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("expected StateTransitionError posting a rejected grn, got %v", err)
	}
}
