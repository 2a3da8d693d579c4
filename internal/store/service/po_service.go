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

// poToleranceRatio is the allowed relative drift between a PO's grand total
// and the selected quotation's grand total. Deliberate slack for rounding
// and negotiation.
const poToleranceRatio = 0.02

// POService converts a selected quotation into a binding purchase order and
// tracks partial receipt against it.
type POService struct {
	repo          *repository.PORepository
	quotationRepo *repository.QuotationRepository
	reqRepo       *repository.RequirementRepository
	collegeRepo   *repository.CollegeRepository
	activityLog   *repository.ActivityLogRepository
	reqSvc        *RequirementService
	export        *ExportService
	numbers       *numbering.Generator
	az            authz.Authorizer
	db            *gorm.DB
	logger        *zap.Logger
}

func NewPOService(repos *repository.Repositories, deps Deps, export *ExportService) *POService {
	return &POService{
		repo:          repos.PO,
		quotationRepo: repos.Quotation,
		reqRepo:       repos.Requirement,
		collegeRepo:   repos.College,
		activityLog:   repos.ActivityLog,
		export:        export,
		numbers:       deps.Numbers,
		az:            deps.Authorizer,
		db:            deps.DB,
		logger:        deps.Logger,
	}
}

// SetRequirementService breaks the construction cycle with the requirement
// service, which PO progression reports into.
func (s *POService) SetRequirementService(reqSvc *RequirementService) {
	s.reqSvc = reqSvc
}

func (s *POService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *POService) Get(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return s.repo.FindByID(ctx, id)
}

// CreatePORequest raises a purchase order from a selected quotation.
// Supplier, central store and line items default from the quotation and the
// requirement when omitted.
type CreatePORequest struct {
	RequirementID   string         `json:"requirement_id" binding:"required"`
	QuotationID     string         `json:"quotation_id" binding:"required"`
	SupplierID      string         `json:"supplier_id"`
	CentralStoreID  string         `json:"central_store_id"`
	DeliveryAddress string         `json:"delivery_address"`
	PaymentTerms    string         `json:"payment_terms"`
	ExpectedDate    *time.Time     `json:"expected_date"`
	Notes           string         `json:"notes"`
	Items           []CreatePOItem `json:"items"`
}

type CreatePOItem struct {
	ItemCode  string  `json:"item_code"`
	ItemName  string  `json:"item_name" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unit_price" binding:"required,gt=0"`
	TaxRate   float64 `json:"tax_rate"`
}

// Create raises a PO. The quotation's grand total is snapshotted onto the
// order and the PO total must stay within 2% of it.
func (s *POService) Create(ctx context.Context, actor string, req *CreatePORequest) (*entity.PurchaseOrder, error) {
	if err := authorize(ctx, s.az, actor, "po:create", req.RequirementID); err != nil {
		return nil, err
	}

	requirement, err := s.reqRepo.FindByID(ctx, req.RequirementID)
	if err != nil {
		return nil, err
	}
	switch requirement.Status {
	case entity.RequirementStatusApproved, entity.RequirementStatusQuotationsReceived, entity.RequirementStatusPOCreated:
	default:
		return nil, &StateTransitionError{
			Document: "requirement " + requirement.RequirementNumber,
			From:     requirement.Status,
			To:       entity.RequirementStatusPOCreated,
		}
	}

	quotation, err := s.quotationRepo.FindByID(ctx, req.QuotationID)
	if err != nil {
		return nil, err
	}
	if quotation.RequirementID != requirement.ID {
		return nil, &ValidationError{Field: "quotation_id", Message: "quotation does not belong to the requirement"}
	}
	if !quotation.IsSelected {
		return nil, &ValidationError{Field: "quotation_id", Message: "quotation is not selected"}
	}

	supplierID := req.SupplierID
	if supplierID == "" {
		supplierID = quotation.SupplierID
	}
	storeID := req.CentralStoreID
	if storeID == "" {
		storeID = requirement.CentralStoreID
	}

	deliveryAddress := req.DeliveryAddress
	if deliveryAddress == "" {
		if store, err := s.collegeRepo.FindStoreByID(ctx, storeID); err == nil {
			deliveryAddress = store.Address
		}
	}

	number, err := s.numbers.Next(ctx, "PO", "store_purchase_orders", "po_number")
	if err != nil {
		return nil, fmt.Errorf("generate po number: %w", err)
	}

	po := &entity.PurchaseOrder{
		ID:                  newID(),
		PONumber:            number,
		RequirementID:       requirement.ID,
		QuotationID:         quotation.ID,
		SupplierID:          supplierID,
		CentralStoreID:      storeID,
		QuotationGrandTotal: quotation.GrandTotal,
		Status:              entity.POStatusDraft,
		DeliveryAddress:     deliveryAddress,
		PaymentTerms:        req.PaymentTerms,
		ExpectedDate:        req.ExpectedDate,
		CreatedBy:           actor,
		Notes:               req.Notes,
	}

	total := decimal.Zero
	tax := decimal.Zero
	if len(req.Items) > 0 {
		for i, item := range req.Items {
			if item.Quantity <= 0 {
				return nil, &ValidationError{Field: "items.quantity", Message: "must be positive"}
			}
			unit := item.Unit
			if unit == "" {
				unit = "pcs"
			}
			lineBase := decimal.NewFromFloat(item.Quantity).Mul(decimal.NewFromFloat(item.UnitPrice)).Round(2)
			lineTax := lineBase.Mul(decimal.NewFromFloat(item.TaxRate)).Div(decimal.NewFromInt(100)).Round(2)
			total = total.Add(lineBase)
			tax = tax.Add(lineTax)

			poItem := entity.PurchaseOrderItem{
				ID:        newID(),
				ItemCode:  item.ItemCode,
				ItemName:  item.ItemName,
				Quantity:  item.Quantity,
				Unit:      unit,
				UnitPrice: item.UnitPrice,
				TaxRate:   item.TaxRate,
				SortOrder: i,
			}
			poItem.RecalcPending()
			po.Items = append(po.Items, poItem)
		}
	} else {
		// No explicit lines: copy the quotation items verbatim.
		for i, item := range quotation.Items {
			lineBase := decimal.NewFromFloat(item.Quantity).Mul(decimal.NewFromFloat(item.UnitPrice)).Round(2)
			lineTax := lineBase.Mul(decimal.NewFromFloat(item.TaxRate)).Div(decimal.NewFromInt(100)).Round(2)
			total = total.Add(lineBase)
			tax = tax.Add(lineTax)

			poItem := entity.PurchaseOrderItem{
				ID:        newID(),
				ItemCode:  item.ItemCode,
				ItemName:  item.ItemName,
				Quantity:  item.Quantity,
				Unit:      item.Unit,
				UnitPrice: item.UnitPrice,
				TaxRate:   item.TaxRate,
				SortOrder: i,
			}
			poItem.RecalcPending()
			po.Items = append(po.Items, poItem)
		}
	}

	grand := total.Add(tax)
	po.TotalAmount = total.InexactFloat64()
	po.TaxAmount = tax.InexactFloat64()
	po.GrandTotal = grand.InexactFloat64()

	if quotation.GrandTotal > 0 {
		drift := decimal.NewFromFloat(po.GrandTotal).
			Sub(decimal.NewFromFloat(quotation.GrandTotal)).
			Abs().
			Div(decimal.NewFromFloat(quotation.GrandTotal))
		if drift.GreaterThan(decimal.NewFromFloat(poToleranceRatio)) {
			return nil, &ValidationError{
				Field: "grand_total",
				Message: fmt.Sprintf("differs from quotation %s by %.2f%%, tolerance is %.0f%%",
					quotation.QuotationNumber, drift.InexactFloat64()*100, poToleranceRatio*100),
			}
		}
	}

	if err := s.repo.Create(ctx, po); err != nil {
		return nil, fmt.Errorf("create purchase order: %w", err)
	}

	if s.reqSvc != nil && requirement.Status != entity.RequirementStatusPOCreated {
		if err := s.reqSvc.advanceStatus(ctx, requirement, entity.RequirementStatusPOCreated, actor); err != nil {
			s.logger.Warn("requirement status advance failed",
				zap.String("requirement", requirement.RequirementNumber),
				zap.Error(err),
			)
		}
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "po",
		EntityID:   po.ID,
		EntityCode: po.PONumber,
		Action:     "create",
		ToStatus:   po.Status,
		OperatorID: actor,
	})
	return po, nil
}

// SendToSupplier marks a draft order as sent and renders the PO document in
// the background of the transition; a failed render never blocks it.
func (s *POService) SendToSupplier(ctx context.Context, id, actor string) (*entity.PurchaseOrder, error) {
	if err := authorize(ctx, s.az, actor, "po:send", id); err != nil {
		return nil, err
	}

	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.POTransitions.CanTransition(po.Status, entity.POStatusSent) {
		return nil, &StateTransitionError{Document: "po " + po.PONumber, From: po.Status, To: entity.POStatusSent}
	}

	now := time.Now()
	fromStatus := po.Status
	po.Status = entity.POStatusSent
	po.SentAt = &now

	if url, err := s.export.PurchaseOrderDocument(ctx, po); err == nil {
		po.DocumentURL = url
	}

	if err := s.repo.Update(ctx, po); err != nil {
		return nil, fmt.Errorf("send purchase order: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "po",
		EntityID:   po.ID,
		EntityCode: po.PONumber,
		Action:     "status_change",
		FromStatus: fromStatus,
		ToStatus:   po.Status,
		OperatorID: actor,
	})
	return po, nil
}

// MarkAcknowledged records the supplier's acknowledgement.
func (s *POService) MarkAcknowledged(ctx context.Context, id, actor string) (*entity.PurchaseOrder, error) {
	if err := authorize(ctx, s.az, actor, "po:acknowledge", id); err != nil {
		return nil, err
	}

	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.POTransitions.CanTransition(po.Status, entity.POStatusAcknowledged) {
		return nil, &StateTransitionError{Document: "po " + po.PONumber, From: po.Status, To: entity.POStatusAcknowledged}
	}

	now := time.Now()
	fromStatus := po.Status
	po.Status = entity.POStatusAcknowledged
	po.AcknowledgedAt = &now
	if err := s.repo.Update(ctx, po); err != nil {
		return nil, fmt.Errorf("acknowledge purchase order: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "po",
		EntityID:   po.ID,
		EntityCode: po.PONumber,
		Action:     "status_change",
		FromStatus: fromStatus,
		ToStatus:   po.Status,
		OperatorID: actor,
	})
	return po, nil
}

// CheckFulfillment rescans the order's lines after a receipt update. All
// lines with zero pending close the order; any received quantity on an open
// order marks it partially received. Callers invoke this after every
// GRN-driven quantity change; it is not automatic.
func (s *POService) CheckFulfillment(ctx context.Context, id, actor string) (*entity.PurchaseOrder, error) {
	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(po.Items) == 0 {
		return po, nil
	}

	allReceived := true
	anyReceived := false
	for _, item := range po.Items {
		if item.PendingQuantity > 0 {
			allReceived = false
		}
		if item.ReceivedQuantity > 0 {
			anyReceived = true
		}
	}

	fromStatus := po.Status
	switch {
	case allReceived:
		if po.Status == entity.POStatusFulfilled {
			return po, nil
		}
		now := time.Now()
		po.Status = entity.POStatusFulfilled
		po.FulfilledAt = &now
	case anyReceived && po.Status != entity.POStatusPartiallyReceived:
		po.Status = entity.POStatusPartiallyReceived
	default:
		return po, nil
	}

	if err := s.repo.Update(ctx, po); err != nil {
		return nil, fmt.Errorf("update fulfillment status: %w", err)
	}

	if po.Status == entity.POStatusFulfilled && s.reqSvc != nil {
		if requirement, err := s.reqRepo.FindByID(ctx, po.RequirementID); err == nil {
			if err := s.reqSvc.advanceStatus(ctx, requirement, entity.RequirementStatusFulfilled, actor); err != nil {
				s.logger.Warn("requirement fulfillment advance failed",
					zap.String("requirement", requirement.RequirementNumber),
					zap.Error(err),
				)
			}
		}
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "po",
		EntityID:   po.ID,
		EntityCode: po.PONumber,
		Action:     "status_change",
		FromStatus: fromStatus,
		ToStatus:   po.Status,
		OperatorID: actor,
	})
	return po, nil
}

// Cancel aborts an unfulfilled order.
func (s *POService) Cancel(ctx context.Context, id, actor, reason string) (*entity.PurchaseOrder, error) {
	if err := authorize(ctx, s.az, actor, "po:cancel", id); err != nil {
		return nil, err
	}

	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.POTransitions.CanTransition(po.Status, entity.POStatusCancelled) {
		return nil, &StateTransitionError{Document: "po " + po.PONumber, From: po.Status, To: entity.POStatusCancelled}
	}

	fromStatus := po.Status
	po.Status = entity.POStatusCancelled
	if reason != "" {
		po.Notes = reason
	}
	if err := s.repo.Update(ctx, po); err != nil {
		return nil, fmt.Errorf("cancel purchase order: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "po",
		EntityID:   po.ID,
		EntityCode: po.PONumber,
		Action:     "status_change",
		FromStatus: fromStatus,
		ToStatus:   po.Status,
		Content:    reason,
		OperatorID: actor,
	})
	return po, nil
}
