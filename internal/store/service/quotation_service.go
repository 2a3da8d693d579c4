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
	"gorm.io/gorm/clause"
)

// QuotationService collects competing supplier quotations against a
// requirement and enforces single selection.
type QuotationService struct {
	repo        *repository.QuotationRepository
	reqSvc      *RequirementService
	reqRepo     *repository.RequirementRepository
	activityLog *repository.ActivityLogRepository
	numbers     *numbering.Generator
	az          authz.Authorizer
	db          *gorm.DB
	logger      *zap.Logger
}

func NewQuotationService(repos *repository.Repositories, deps Deps) *QuotationService {
	return &QuotationService{
		repo:        repos.Quotation,
		reqRepo:     repos.Requirement,
		activityLog: repos.ActivityLog,
		numbers:     deps.Numbers,
		az:          deps.Authorizer,
		db:          deps.DB,
		logger:      deps.Logger,
	}
}

// SetRequirementService breaks the construction cycle with the requirement
// service, which quotation progression reports into.
func (s *QuotationService) SetRequirementService(reqSvc *RequirementService) {
	s.reqSvc = reqSvc
}

func (s *QuotationService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.SupplierQuotation, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *QuotationService) Get(ctx context.Context, id string) (*entity.SupplierQuotation, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *QuotationService) ListByRequirement(ctx context.Context, requirementID string) ([]entity.SupplierQuotation, error) {
	return s.repo.FindByRequirement(ctx, requirementID)
}

// CreateQuotationRequest records one supplier's offer.
type CreateQuotationRequest struct {
	RequirementID string                `json:"requirement_id" binding:"required"`
	SupplierID    string                `json:"supplier_id" binding:"required"`
	QuotationDate *time.Time            `json:"quotation_date"`
	ValidUntil    *time.Time            `json:"valid_until"`
	Notes         string                `json:"notes"`
	Items         []CreateQuotationItem `json:"items" binding:"required"`
}

type CreateQuotationItem struct {
	RequirementItemID *string `json:"requirement_item_id"`
	ItemCode          string  `json:"item_code"`
	ItemName          string  `json:"item_name" binding:"required"`
	Quantity          float64 `json:"quantity" binding:"required,gt=0"`
	Unit              string  `json:"unit"`
	UnitPrice         float64 `json:"unit_price" binding:"required,gt=0"`
	TaxRate           float64 `json:"tax_rate"`
}

// Create records a quotation against a live requirement. Line tax and totals
// are computed from quantity, unit price and tax rate; the grand total always
// equals total plus tax by construction.
func (s *QuotationService) Create(ctx context.Context, actor string, req *CreateQuotationRequest) (*entity.SupplierQuotation, error) {
	if err := authorize(ctx, s.az, actor, "quotation:create", req.RequirementID); err != nil {
		return nil, err
	}

	requirement, err := s.reqRepo.FindByID(ctx, req.RequirementID)
	if err != nil {
		return nil, err
	}
	if requirement.Status == entity.RequirementStatusCancelled || requirement.Status == entity.RequirementStatusFulfilled {
		return nil, &StateTransitionError{
			Document: "requirement " + requirement.RequirementNumber,
			From:     requirement.Status,
			To:       "quotation_received",
		}
	}

	number, err := s.numbers.Next(ctx, "QTN", "store_supplier_quotations", "quotation_number")
	if err != nil {
		return nil, fmt.Errorf("generate quotation number: %w", err)
	}

	quotation := &entity.SupplierQuotation{
		ID:              newID(),
		QuotationNumber: number,
		RequirementID:   req.RequirementID,
		SupplierID:      req.SupplierID,
		QuotationDate:   req.QuotationDate,
		ValidUntil:      req.ValidUntil,
		Status:          entity.QuotationStatusReceived,
		CreatedBy:       actor,
		Notes:           req.Notes,
	}

	total := decimal.Zero
	tax := decimal.Zero
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &ValidationError{Field: "items.quantity", Message: "must be positive"}
		}
		if item.UnitPrice <= 0 {
			return nil, &ValidationError{Field: "items.unit_price", Message: "must be positive"}
		}
		unit := item.Unit
		if unit == "" {
			unit = "pcs"
		}

		lineBase := decimal.NewFromFloat(item.Quantity).Mul(decimal.NewFromFloat(item.UnitPrice)).Round(2)
		lineTax := lineBase.Mul(decimal.NewFromFloat(item.TaxRate)).Div(decimal.NewFromInt(100)).Round(2)
		lineTotal := lineBase.Add(lineTax)
		total = total.Add(lineBase)
		tax = tax.Add(lineTax)

		quotation.Items = append(quotation.Items, entity.QuotationItem{
			ID:                newID(),
			RequirementItemID: item.RequirementItemID,
			ItemCode:          item.ItemCode,
			ItemName:          item.ItemName,
			Quantity:          item.Quantity,
			Unit:              unit,
			UnitPrice:         item.UnitPrice,
			TaxRate:           item.TaxRate,
			TaxAmount:         lineTax.InexactFloat64(),
			TotalAmount:       lineTotal.InexactFloat64(),
			SortOrder:         i,
		})
	}

	grand := total.Add(tax)
	quotation.TotalAmount = total.InexactFloat64()
	quotation.TaxAmount = tax.InexactFloat64()
	quotation.GrandTotal = grand.InexactFloat64()

	if err := s.repo.Create(ctx, quotation); err != nil {
		return nil, fmt.Errorf("create quotation: %w", err)
	}

	// First quotation against an approved requirement moves it forward.
	if requirement.Status == entity.RequirementStatusApproved && s.reqSvc != nil {
		if err := s.reqSvc.advanceStatus(ctx, requirement, entity.RequirementStatusQuotationsReceived, actor); err != nil {
			s.logger.Warn("requirement status advance failed",
				zap.String("requirement", requirement.RequirementNumber),
				zap.Error(err),
			)
		}
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "quotation",
		EntityID:   quotation.ID,
		EntityCode: quotation.QuotationNumber,
		Action:     "create",
		ToStatus:   quotation.Status,
		OperatorID: actor,
	})
	return quotation, nil
}

// Select marks one quotation as the chosen offer and rejects every sibling in
// the same transaction. Two quotations on one requirement can never both end
// up selected, and a failure rolls back both sides of the swap.
func (s *QuotationService) Select(ctx context.Context, id, actor string) (*entity.SupplierQuotation, error) {
	if err := authorize(ctx, s.az, actor, "quotation:select", id); err != nil {
		return nil, err
	}

	quotation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	requirement, err := s.reqRepo.FindByID(ctx, quotation.RequirementID)
	if err != nil {
		return nil, err
	}
	if requirement.Status != entity.RequirementStatusApproved && requirement.Status != entity.RequirementStatusQuotationsReceived {
		return nil, &StateTransitionError{
			Document: "requirement " + requirement.RequirementNumber,
			From:     requirement.Status,
			To:       "quotation_selected",
		}
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the sibling set so two concurrent selections serialize.
		var siblings []entity.SupplierQuotation
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("requirement_id = ?", quotation.RequirementID).
			Find(&siblings).Error; err != nil {
			return err
		}

		if err := tx.Model(&entity.SupplierQuotation{}).
			Where("requirement_id = ? AND id <> ?", quotation.RequirementID, quotation.ID).
			Updates(map[string]interface{}{
				"is_selected": false,
				"status":      entity.QuotationStatusRejected,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&entity.SupplierQuotation{}).
			Where("id = ?", quotation.ID).
			Updates(map[string]interface{}{
				"is_selected": true,
				"status":      entity.QuotationStatusAccepted,
				"selected_by": actor,
				"selected_at": now,
			}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("select quotation: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "quotation",
		EntityID:   quotation.ID,
		EntityCode: quotation.QuotationNumber,
		Action:     "select",
		FromStatus: quotation.Status,
		ToStatus:   entity.QuotationStatusAccepted,
		OperatorID: actor,
	})

	return s.repo.FindByID(ctx, id)
}
