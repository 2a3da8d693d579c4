package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/authz"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/numbering"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// invoiceVarianceRatio is the invoice-vs-PO drift above which a warning is
// recorded. Never blocking; procurement reality tolerates invoice variance.
const invoiceVarianceRatio = 0.05

// GRNService records physical receipt against purchase orders, runs the
// inspection gate and posts accepted quantities into the inventory ledger.
type GRNService struct {
	repo        *repository.GRNRepository
	poRepo      *repository.PORepository
	activityLog *repository.ActivityLogRepository
	ledger      *LedgerService
	poSvc       *POService
	export      *ExportService
	numbers     *numbering.Generator
	az          authz.Authorizer
	db          *gorm.DB
	logger      *zap.Logger
}

func NewGRNService(repos *repository.Repositories, deps Deps, ledger *LedgerService, export *ExportService) *GRNService {
	return &GRNService{
		repo:        repos.GRN,
		poRepo:      repos.PO,
		activityLog: repos.ActivityLog,
		ledger:      ledger,
		export:      export,
		numbers:     deps.Numbers,
		az:          deps.Authorizer,
		db:          deps.DB,
		logger:      deps.Logger,
	}
}

// SetPOService injects the PO service for post-receipt fulfillment checks.
func (s *GRNService) SetPOService(poSvc *POService) {
	s.poSvc = poSvc
}

func (s *GRNService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.GoodsReceiptNote, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *GRNService) Get(ctx context.Context, id string) (*entity.GoodsReceiptNote, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateGRNRequest records a delivery against a purchase order. Supplier,
// central store and invoice amount default from the PO when omitted.
type CreateGRNRequest struct {
	POID          string          `json:"po_id" binding:"required"`
	ReceivedDate  *time.Time      `json:"received_date"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceAmount float64         `json:"invoice_amount"`
	DeliveryNote  string          `json:"delivery_note"`
	VehicleNumber string          `json:"vehicle_number"`
	Notes         string          `json:"notes"`
	Items         []CreateGRNItem `json:"items" binding:"required"`
}

type CreateGRNItem struct {
	POItemID         string  `json:"po_item_id" binding:"required"`
	ReceivedQuantity float64 `json:"received_quantity" binding:"required,gt=0"`
	AcceptedQuantity float64 `json:"accepted_quantity"`
	RejectedQuantity float64 `json:"rejected_quantity"`
	RejectionReason  string  `json:"rejection_reason"`
}

// Create records a GRN. Per line, accepted plus rejected must equal received
// and received may not exceed the PO line's ordered quantity. Invoice drift
// beyond 5% of the PO total surfaces as a warning in the returned result.
func (s *GRNService) Create(ctx context.Context, actor string, req *CreateGRNRequest) (*entity.GoodsReceiptNote, *ValidationResult, error) {
	if err := authorize(ctx, s.az, actor, "grn:create", req.POID); err != nil {
		return nil, nil, err
	}

	po, err := s.poRepo.FindByID(ctx, req.POID)
	if err != nil {
		return nil, nil, err
	}
	switch po.Status {
	case entity.POStatusSent, entity.POStatusAcknowledged, entity.POStatusPartiallyReceived:
	default:
		return nil, nil, &StateTransitionError{
			Document: "po " + po.PONumber,
			From:     po.Status,
			To:       "goods_received",
		}
	}

	poItems := make(map[string]*entity.PurchaseOrderItem, len(po.Items))
	for i := range po.Items {
		poItems[po.Items[i].ID] = &po.Items[i]
	}

	result := &ValidationResult{Valid: true}

	grn := &entity.GoodsReceiptNote{
		ID:             newID(),
		POID:           po.ID,
		SupplierID:     po.SupplierID,
		CentralStoreID: po.CentralStoreID,
		Status:         entity.GRNStatusReceived,
		ReceivedDate:   req.ReceivedDate,
		InvoiceNumber:  req.InvoiceNumber,
		InvoiceAmount:  req.InvoiceAmount,
		DeliveryNote:   req.DeliveryNote,
		VehicleNumber:  req.VehicleNumber,
		ReceivedBy:     actor,
		Notes:          req.Notes,
	}
	if grn.InvoiceAmount == 0 {
		grn.InvoiceAmount = po.GrandTotal
	}
	if grn.ReceivedDate == nil {
		now := time.Now()
		grn.ReceivedDate = &now
	}

	for i, item := range req.Items {
		poItem, ok := poItems[item.POItemID]
		if !ok {
			return nil, nil, &ValidationError{Field: "items.po_item_id", Message: "does not belong to the purchase order"}
		}
		if item.ReceivedQuantity <= 0 {
			return nil, nil, &ValidationError{Field: "items.received_quantity", Message: "must be positive"}
		}
		if item.AcceptedQuantity+item.RejectedQuantity != item.ReceivedQuantity {
			return nil, nil, &ReconciliationError{
				ItemCode: poItem.ItemCode,
				Message: fmt.Sprintf("accepted %.4f + rejected %.4f != received %.4f",
					item.AcceptedQuantity, item.RejectedQuantity, item.ReceivedQuantity),
			}
		}
		if item.ReceivedQuantity > poItem.Quantity {
			return nil, nil, &OverReceiptError{
				ItemCode: poItem.ItemCode,
				Received: item.ReceivedQuantity,
				Ordered:  poItem.Quantity,
			}
		}

		grn.Items = append(grn.Items, entity.GoodsReceiptItem{
			ID:               newID(),
			POItemID:         poItem.ID,
			ItemCode:         poItem.ItemCode,
			ItemName:         poItem.ItemName,
			Unit:             poItem.Unit,
			ReceivedQuantity: item.ReceivedQuantity,
			AcceptedQuantity: item.AcceptedQuantity,
			RejectedQuantity: item.RejectedQuantity,
			UnitPrice:        poItem.UnitPrice,
			RejectionReason:  item.RejectionReason,
			SortOrder:        i,
		})
	}

	if po.GrandTotal > 0 {
		drift := decimal.NewFromFloat(grn.InvoiceAmount).
			Sub(decimal.NewFromFloat(po.GrandTotal)).
			Abs().
			Div(decimal.NewFromFloat(po.GrandTotal))
		if drift.GreaterThan(decimal.NewFromFloat(invoiceVarianceRatio)) {
			result.AddWarning("invoice amount %.2f differs from PO total %.2f by %.1f%%",
				grn.InvoiceAmount, po.GrandTotal, drift.InexactFloat64()*100)
			s.logger.Warn("invoice variance beyond tolerance",
				zap.String("po", po.PONumber),
				zap.Float64("invoice_amount", grn.InvoiceAmount),
				zap.Float64("po_total", po.GrandTotal),
			)
		}
	}

	number, err := s.numbers.Next(ctx, "GRN", "store_goods_receipt_notes", "grn_number")
	if err != nil {
		return nil, nil, fmt.Errorf("generate grn number: %w", err)
	}
	grn.GRNNumber = number

	if err := s.repo.Create(ctx, grn); err != nil {
		return nil, nil, fmt.Errorf("create grn: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "grn",
		EntityID:   grn.ID,
		EntityCode: grn.GRNNumber,
		Action:     "create",
		ToStatus:   grn.Status,
		OperatorID: actor,
	})
	return grn, result, nil
}

// SubmitForInspection queues a received GRN for quality inspection.
func (s *GRNService) SubmitForInspection(ctx context.Context, id, actor string) (*entity.GoodsReceiptNote, error) {
	if err := authorize(ctx, s.az, actor, "grn:inspect", id); err != nil {
		return nil, err
	}

	grn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.GRNTransitions.CanTransition(grn.Status, entity.GRNStatusPendingInspection) {
		return nil, &StateTransitionError{Document: "grn " + grn.GRNNumber, From: grn.Status, To: entity.GRNStatusPendingInspection}
	}

	fromStatus := grn.Status
	grn.Status = entity.GRNStatusPendingInspection
	if err := s.repo.Update(ctx, grn); err != nil {
		return nil, fmt.Errorf("submit grn for inspection: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "grn",
		EntityID:   grn.ID,
		EntityCode: grn.GRNNumber,
		Action:     "status_change",
		FromStatus: fromStatus,
		ToStatus:   grn.Status,
		OperatorID: actor,
	})
	return grn, nil
}

// RecordInspectionRequest captures the inspector's findings for a GRN.
type RecordInspectionRequest struct {
	OverallStatus  string       `json:"overall_status" binding:"required"`
	Recommendation string       `json:"recommendation"`
	QualityRating  int          `json:"quality_rating"`
	Findings       string       `json:"findings"`
	InspectionData entity.JSONB `json:"inspection_data"`
}

// RecordInspection writes the one-to-one inspection note and moves the GRN to
// inspected.
func (s *GRNService) RecordInspection(ctx context.Context, grnID, actor string, req *RecordInspectionRequest) (*entity.InspectionNote, error) {
	if err := authorize(ctx, s.az, actor, "grn:inspect", grnID); err != nil {
		return nil, err
	}

	switch req.OverallStatus {
	case entity.InspectionStatusPassed, entity.InspectionStatusFailed, entity.InspectionStatusPartial, entity.InspectionStatusPending:
	default:
		return nil, &ValidationError{Field: "overall_status", Message: "unknown inspection status"}
	}
	if req.QualityRating < 0 || req.QualityRating > 5 {
		return nil, &ValidationError{Field: "quality_rating", Message: "must be between 1 and 5"}
	}

	grn, err := s.repo.FindByID(ctx, grnID)
	if err != nil {
		return nil, err
	}
	if !entity.GRNTransitions.CanTransition(grn.Status, entity.GRNStatusInspected) {
		return nil, &StateTransitionError{Document: "grn " + grn.GRNNumber, From: grn.Status, To: entity.GRNStatusInspected}
	}

	now := time.Now()
	note, err := s.repo.FindInspectionByGRN(ctx, grnID)
	if err == repository.ErrNotFound {
		note = &entity.InspectionNote{
			ID:    newID(),
			GRNID: grnID,
		}
	} else if err != nil {
		return nil, err
	}

	note.OverallStatus = req.OverallStatus
	note.Recommendation = req.Recommendation
	note.QualityRating = req.QualityRating
	note.Findings = req.Findings
	note.InspectionData = req.InspectionData
	note.InspectorID = actor
	note.InspectedAt = &now

	if note.CreatedAt.IsZero() {
		if err := s.repo.CreateInspection(ctx, note); err != nil {
			return nil, fmt.Errorf("create inspection note: %w", err)
		}
	} else {
		if err := s.repo.UpdateInspection(ctx, note); err != nil {
			return nil, fmt.Errorf("update inspection note: %w", err)
		}
	}

	fromStatus := grn.Status
	grn.Status = entity.GRNStatusInspected
	if err := s.repo.Update(ctx, grn); err != nil {
		return nil, fmt.Errorf("update grn after inspection: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "grn",
		EntityID:   grn.ID,
		EntityCode: grn.GRNNumber,
		Action:     "inspect",
		FromStatus: fromStatus,
		ToStatus:   grn.Status,
		Content:    req.Findings,
		OperatorID: actor,
	})
	return note, nil
}

// Approve clears a GRN for inventory posting.
func (s *GRNService) Approve(ctx context.Context, id, actor string) (*entity.GoodsReceiptNote, error) {
	return s.decide(ctx, id, actor, entity.GRNStatusApproved, "")
}

// Reject refuses a GRN; it can never post to inventory afterwards.
func (s *GRNService) Reject(ctx context.Context, id, actor, reason string) (*entity.GoodsReceiptNote, error) {
	return s.decide(ctx, id, actor, entity.GRNStatusRejected, reason)
}

func (s *GRNService) decide(ctx context.Context, id, actor, target, reason string) (*entity.GoodsReceiptNote, error) {
	if err := authorize(ctx, s.az, actor, "grn:decide", id); err != nil {
		return nil, err
	}

	grn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.GRNTransitions.CanTransition(grn.Status, target) {
		return nil, &StateTransitionError{Document: "grn " + grn.GRNNumber, From: grn.Status, To: target}
	}

	fromStatus := grn.Status
	grn.Status = target
	if reason != "" {
		grn.Notes = reason
	}
	if err := s.repo.Update(ctx, grn); err != nil {
		return nil, fmt.Errorf("update grn: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "grn",
		EntityID:   grn.ID,
		EntityCode: grn.GRNNumber,
		Action:     "status_change",
		FromStatus: fromStatus,
		ToStatus:   grn.Status,
		Content:    reason,
		OperatorID: actor,
	})
	return grn, nil
}

// PostToInventory credits every accepted line into the central inventory and
// updates the PO lines' received quantities, all in one transaction. The
// status claim happens first inside the same transaction, so a GRN can post
// exactly once; a second call fails and appends nothing.
func (s *GRNService) PostToInventory(ctx context.Context, id, actor string) (*entity.GoodsReceiptNote, error) {
	if err := authorize(ctx, s.az, actor, "grn:post", id); err != nil {
		return nil, err
	}

	grn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if grn.Status != entity.GRNStatusApproved && grn.Status != entity.GRNStatusInspected {
		return nil, &StateTransitionError{Document: "grn " + grn.GRNNumber, From: grn.Status, To: entity.GRNStatusPosted}
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Conditional claim: only one concurrent poster wins the row.
		claim := tx.Model(&entity.GoodsReceiptNote{}).
			Where("id = ? AND status IN ?", grn.ID, []string{entity.GRNStatusApproved, entity.GRNStatusInspected}).
			Updates(map[string]interface{}{
				"status":    entity.GRNStatusPosted,
				"posted_at": now,
				"posted_by": actor,
			})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return &StateTransitionError{Document: "grn " + grn.GRNNumber, From: entity.GRNStatusPosted, To: entity.GRNStatusPosted}
		}

		for _, item := range grn.Items {
			if item.AcceptedQuantity > 0 {
				if _, err := s.ledger.UpdateStockTx(tx, StockUpdate{
					CentralStoreID: grn.CentralStoreID,
					ItemCode:       item.ItemCode,
					ItemName:       item.ItemName,
					Unit:           item.Unit,
					Delta:          item.AcceptedQuantity,
					TxType:         entity.TxTypeReceipt,
					UnitCost:       item.UnitPrice,
					Reference: entity.DocumentRef{
						Kind: entity.DocKindGRN,
						ID:   grn.ID,
						Code: grn.GRNNumber,
					},
					Actor: actor,
				}); err != nil {
					return err
				}
			}

			var poItem entity.PurchaseOrderItem
			if err := tx.Where("id = ?", item.POItemID).First(&poItem).Error; err != nil {
				return fmt.Errorf("load po item %s: %w", item.POItemID, err)
			}
			poItem.ReceivedQuantity += item.ReceivedQuantity
			poItem.RecalcPending()
			if err := tx.Save(&poItem).Error; err != nil {
				return fmt.Errorf("update po item %s: %w", item.POItemID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.poSvc != nil {
		if _, err := s.poSvc.CheckFulfillment(ctx, grn.POID, actor); err != nil {
			s.logger.Warn("po fulfillment check failed",
				zap.String("po_id", grn.POID),
				zap.Error(err),
			)
		}
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "grn",
		EntityID:   grn.ID,
		EntityCode: grn.GRNNumber,
		Action:     "post",
		FromStatus: grn.Status,
		ToStatus:   entity.GRNStatusPosted,
		OperatorID: actor,
	})

	return s.repo.FindByID(ctx, id)
}
