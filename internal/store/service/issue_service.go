package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/authz"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/numbering"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaterialIssueService dispatches approved indent quantities out of the
// central store. Stock is deducted exactly once, at dispatch; receipt
// confirmation at the college only flips status.
type MaterialIssueService struct {
	repo        *repository.MaterialIssueRepository
	indentRepo  *repository.IndentRepository
	activityLog *repository.ActivityLogRepository
	ledger      *LedgerService
	export      *ExportService
	indentSvc   *IndentService
	numbers     *numbering.Generator
	az          authz.Authorizer
	db          *gorm.DB
	logger      *zap.Logger
}

func NewMaterialIssueService(repos *repository.Repositories, deps Deps, ledger *LedgerService, export *ExportService) *MaterialIssueService {
	return &MaterialIssueService{
		repo:        repos.MaterialIssue,
		indentRepo:  repos.Indent,
		activityLog: repos.ActivityLog,
		ledger:      ledger,
		export:      export,
		numbers:     deps.Numbers,
		az:          deps.Authorizer,
		db:          deps.DB,
		logger:      deps.Logger,
	}
}

// SetIndentService breaks the construction cycle with the indent service.
func (s *MaterialIssueService) SetIndentService(svc *IndentService) {
	s.indentSvc = svc
}

func (s *MaterialIssueService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.MaterialIssueNote, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *MaterialIssueService) Get(ctx context.Context, id string) (*entity.MaterialIssueNote, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateMINRequest prepares a material issue note against an approved indent.
type CreateMINRequest struct {
	IndentID      string          `json:"indent_id" binding:"required"`
	VehicleNumber string          `json:"vehicle_number"`
	Notes         string          `json:"notes"`
	Items         []CreateMINItem `json:"items" binding:"required"`
}

type CreateMINItem struct {
	IndentItemID   string  `json:"indent_item_id" binding:"required"`
	IssuedQuantity float64 `json:"issued_quantity" binding:"required,gt=0"`
}

// Create prepares a MIN. Each line draws against one indent item and may not
// exceed that item's remaining approved quantity. Nothing moves in the
// ledger until Dispatch.
func (s *MaterialIssueService) Create(ctx context.Context, actor string, req *CreateMINRequest) (*entity.MaterialIssueNote, error) {
	if err := authorize(ctx, s.az, actor, "min:create", req.IndentID); err != nil {
		return nil, err
	}

	indent, err := s.indentRepo.FindByID(ctx, req.IndentID)
	if err != nil {
		return nil, err
	}
	switch indent.Status {
	case entity.IndentStatusApproved, entity.IndentStatusPartiallyFulfilled:
	default:
		return nil, &StateTransitionError{
			Document: "indent " + indent.IndentNumber,
			From:     indent.Status,
			To:       "material_issue",
		}
	}
	if len(req.Items) == 0 {
		return nil, &ValidationError{Field: "items", Message: "at least one line is required"}
	}

	indentItems := make(map[string]*entity.IndentItem, len(indent.Items))
	for i := range indent.Items {
		indentItems[indent.Items[i].ID] = &indent.Items[i]
	}

	min := &entity.MaterialIssueNote{
		ID:             newID(),
		IndentID:       indent.ID,
		CentralStoreID: indent.CentralStoreID,
		CollegeID:      indent.CollegeID,
		Status:         entity.MINStatusPrepared,
		VehicleNumber:  req.VehicleNumber,
		PreparedBy:     actor,
		Notes:          req.Notes,
	}

	for i, line := range req.Items {
		item, ok := indentItems[line.IndentItemID]
		if !ok {
			return nil, &ValidationError{
				Field:   "items.indent_item_id",
				Message: fmt.Sprintf("%s does not belong to indent %s", line.IndentItemID, indent.IndentNumber),
			}
		}
		if line.IssuedQuantity <= 0 {
			return nil, &ValidationError{Field: "items.issued_quantity", Message: "must be positive"}
		}
		if line.IssuedQuantity > item.PendingQuantity {
			return nil, &ValidationError{
				Field: "items.issued_quantity",
				Message: fmt.Sprintf("%s: issuing %.4f exceeds remaining approved %.4f",
					item.ItemCode, line.IssuedQuantity, item.PendingQuantity),
			}
		}

		min.Items = append(min.Items, entity.MaterialIssueItem{
			ID:             newID(),
			IndentItemID:   item.ID,
			ItemCode:       item.ItemCode,
			ItemName:       item.ItemName,
			Unit:           item.Unit,
			IssuedQuantity: line.IssuedQuantity,
			SortOrder:      i,
		})
	}

	number, err := s.numbers.Next(ctx, "MIN", "store_material_issue_notes", "min_number")
	if err != nil {
		return nil, fmt.Errorf("generate MIN number: %w", err)
	}
	min.MINNumber = number

	if err := s.repo.Create(ctx, min); err != nil {
		return nil, fmt.Errorf("create material issue note: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "material_issue",
		EntityID:   min.ID,
		EntityCode: min.MINNumber,
		Action:     "create",
		ToStatus:   min.Status,
		OperatorID: actor,
	})
	return min, nil
}

// Dispatch deducts every line from the central ledger and marks the note in
// transit, all in one database transaction. Shortfalls are collected across
// all lines and reported together; any shortfall rolls back the whole
// dispatch, so stock is deducted exactly once or not at all. Re-dispatching
// a note already past prepared fails the status claim.
func (s *MaterialIssueService) Dispatch(ctx context.Context, id, actor string) (*entity.MaterialIssueNote, error) {
	if err := authorize(ctx, s.az, actor, "min:dispatch", id); err != nil {
		return nil, err
	}

	min, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Claim the status first so concurrent dispatchers cannot both
		// deduct.
		claim := tx.Model(&entity.MaterialIssueNote{}).
			Where("id = ? AND status = ?", min.ID, entity.MINStatusPrepared).
			Updates(map[string]interface{}{
				"status":        entity.MINStatusInTransit,
				"dispatched_at": now,
				"dispatched_by": actor,
			})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return &StateTransitionError{
				Document: "material issue note " + min.MINNumber,
				From:     min.Status,
				To:       entity.MINStatusInTransit,
			}
		}

		var shortfalls []StockLineError
		for _, item := range min.Items {
			_, err := s.ledger.UpdateStockTx(tx, StockUpdate{
				CentralStoreID: min.CentralStoreID,
				ItemCode:       item.ItemCode,
				ItemName:       item.ItemName,
				Unit:           item.Unit,
				Delta:          -item.IssuedQuantity,
				TxType:         entity.TxTypeIssue,
				Reference:      entity.DocumentRef{Kind: entity.DocKindMIN, ID: min.ID, Code: min.MINNumber},
				Actor:          actor,
			})
			var insufficient *InsufficientStockError
			if errors.As(err, &insufficient) {
				shortfalls = append(shortfalls, StockLineError{
					ItemCode:  insufficient.ItemCode,
					Requested: insufficient.Requested,
					Available: insufficient.Available,
				})
				continue
			}
			if err != nil {
				return err
			}
		}
		if len(shortfalls) > 0 {
			return &StockUnavailableError{Lines: shortfalls}
		}

		for _, item := range min.Items {
			var indentItem entity.IndentItem
			if err := tx.Where("id = ?", item.IndentItemID).First(&indentItem).Error; err != nil {
				return fmt.Errorf("load indent item %s: %w", item.IndentItemID, err)
			}
			indentItem.IssuedQuantity += item.IssuedQuantity
			indentItem.RecalcPending()
			if err := tx.Save(&indentItem).Error; err != nil {
				return fmt.Errorf("update indent item %s: %w", indentItem.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fromStatus := min.Status
	min.Status = entity.MINStatusInTransit
	min.DispatchedAt = &now
	min.DispatchedBy = &actor

	if url, err := s.export.MaterialIssueDocument(ctx, min); err == nil {
		min.DocumentURL = url
		if err := s.repo.Update(ctx, min); err != nil {
			s.logger.Warn("persist MIN document url failed", zap.String("min", min.MINNumber), zap.Error(err))
		}
	} else {
		s.logger.Warn("render MIN document failed", zap.String("min", min.MINNumber), zap.Error(err))
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "material_issue",
		EntityID:   min.ID,
		EntityCode: min.MINNumber,
		Action:     "dispatch",
		FromStatus: fromStatus,
		ToStatus:   min.Status,
		OperatorID: actor,
	})

	if s.indentSvc != nil {
		if _, err := s.indentSvc.CheckFulfillment(ctx, min.IndentID, actor); err != nil {
			s.logger.Warn("indent fulfillment check failed",
				zap.String("indent_id", min.IndentID),
				zap.Error(err),
			)
		}
	}
	return min, nil
}

// ConfirmReceipt records the college receiving the consignment. No stock
// moves here; the deduction already happened at dispatch.
func (s *MaterialIssueService) ConfirmReceipt(ctx context.Context, id, actor, notes string) (*entity.MaterialIssueNote, error) {
	if err := authorize(ctx, s.az, actor, "min:receive", id); err != nil {
		return nil, err
	}

	min, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.MINTransitions.CanTransition(min.Status, entity.MINStatusReceived) {
		return nil, &StateTransitionError{
			Document: "material issue note " + min.MINNumber,
			From:     min.Status,
			To:       entity.MINStatusReceived,
		}
	}

	now := time.Now()
	fromStatus := min.Status
	min.Status = entity.MINStatusReceived
	min.ReceivedAt = &now
	min.ReceivedBy = &actor
	min.ReceiptNotes = notes
	if err := s.repo.Update(ctx, min); err != nil {
		return nil, fmt.Errorf("confirm receipt: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "material_issue",
		EntityID:   min.ID,
		EntityCode: min.MINNumber,
		Action:     "receive",
		FromStatus: fromStatus,
		ToStatus:   min.Status,
		Content:    notes,
		OperatorID: actor,
	})
	return min, nil
}

// Cancel aborts a note that has not been dispatched.
func (s *MaterialIssueService) Cancel(ctx context.Context, id, actor, reason string) (*entity.MaterialIssueNote, error) {
	if err := authorize(ctx, s.az, actor, "min:cancel", id); err != nil {
		return nil, err
	}

	min, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.MINTransitions.CanTransition(min.Status, entity.MINStatusCancelled) {
		return nil, &StateTransitionError{
			Document: "material issue note " + min.MINNumber,
			From:     min.Status,
			To:       entity.MINStatusCancelled,
		}
	}

	fromStatus := min.Status
	min.Status = entity.MINStatusCancelled
	if err := s.repo.Update(ctx, min); err != nil {
		return nil, fmt.Errorf("cancel material issue note: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "material_issue",
		EntityID:   min.ID,
		EntityCode: min.MINNumber,
		Action:     "status_change",
		FromStatus: fromStatus,
		ToStatus:   min.Status,
		Content:    reason,
		OperatorID: actor,
	})
	return min, nil
}
