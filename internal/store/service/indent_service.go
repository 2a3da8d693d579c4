package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/authz"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/numbering"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IndentService manages a college's request against central stock through
// the two-tier approval chain (college admin, then super admin).
type IndentService struct {
	repo        *repository.IndentRepository
	activityLog *repository.ActivityLogRepository
	ledger      *LedgerService
	numbers     *numbering.Generator
	az          authz.Authorizer
	db          *gorm.DB
	logger      *zap.Logger
}

func NewIndentService(repos *repository.Repositories, deps Deps, ledger *LedgerService) *IndentService {
	return &IndentService{
		repo:        repos.Indent,
		activityLog: repos.ActivityLog,
		ledger:      ledger,
		numbers:     deps.Numbers,
		az:          deps.Authorizer,
		db:          deps.DB,
		logger:      deps.Logger,
	}
}

func (s *IndentService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.StoreIndent, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *IndentService) Get(ctx context.Context, id string) (*entity.StoreIndent, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateIndentRequest raises a college's draft indent.
type CreateIndentRequest struct {
	CollegeID      string             `json:"college_id" binding:"required"`
	CentralStoreID string             `json:"central_store_id" binding:"required"`
	Priority       string             `json:"priority"`
	Justification  string             `json:"justification"`
	Notes          string             `json:"notes"`
	Items          []CreateIndentItem `json:"items" binding:"required"`
}

type CreateIndentItem struct {
	ItemCode          string  `json:"item_code" binding:"required"`
	ItemName          string  `json:"item_name" binding:"required"`
	Unit              string  `json:"unit"`
	RequestedQuantity float64 `json:"requested_quantity" binding:"required,gt=0"`
}

// Create raises a draft indent. Requested quantities beyond current central
// availability only warn; stock may replenish before issuance. Urgent
// priority requires a justification.
func (s *IndentService) Create(ctx context.Context, actor string, req *CreateIndentRequest) (*entity.StoreIndent, *ValidationResult, error) {
	if err := authorize(ctx, s.az, actor, "indent:create", req.CollegeID); err != nil {
		return nil, nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = entity.UrgencyMedium
	}
	if priority == entity.UrgencyUrgent && req.Justification == "" {
		return nil, nil, &ValidationError{Field: "justification", Message: "required for urgent priority"}
	}

	result := &ValidationResult{Valid: true}

	indent := &entity.StoreIndent{
		ID:             newID(),
		CollegeID:      req.CollegeID,
		CentralStoreID: req.CentralStoreID,
		Status:         entity.IndentStatusDraft,
		Priority:       priority,
		Justification:  req.Justification,
		RequestedBy:    actor,
		Notes:          req.Notes,
	}

	for i, item := range req.Items {
		if item.RequestedQuantity <= 0 {
			return nil, nil, &ValidationError{Field: "items.requested_quantity", Message: "must be positive"}
		}
		unit := item.Unit
		if unit == "" {
			unit = "pcs"
		}

		available := 0.0
		if inv, err := s.ledger.Get(ctx, req.CentralStoreID, item.ItemCode); err == nil {
			available = inv.QuantityAvailable
		}
		if available < item.RequestedQuantity {
			result.AddWarning("%s: requested %.4f exceeds available %.4f",
				item.ItemCode, item.RequestedQuantity, available)
			s.logger.Warn("indent requested beyond availability",
				zap.String("item_code", item.ItemCode),
				zap.Float64("requested", item.RequestedQuantity),
				zap.Float64("available", available),
			)
		}

		indent.Items = append(indent.Items, entity.IndentItem{
			ID:                newID(),
			ItemCode:          item.ItemCode,
			ItemName:          item.ItemName,
			Unit:              unit,
			RequestedQuantity: item.RequestedQuantity,
			SortOrder:         i,
		})
	}

	number, err := s.numbers.Next(ctx, "IND", "store_indents", "indent_number")
	if err != nil {
		return nil, nil, fmt.Errorf("generate indent number: %w", err)
	}
	indent.IndentNumber = number

	if err := s.repo.Create(ctx, indent); err != nil {
		return nil, nil, fmt.Errorf("create indent: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "indent",
		EntityID:   indent.ID,
		EntityCode: indent.IndentNumber,
		Action:     "create",
		ToStatus:   indent.Status,
		OperatorID: actor,
	})
	return indent, result, nil
}

// Submit routes a draft or submitted indent straight to the super-admin
// queue. The observed workflow fast-paths past pending_college_approval on
// the happy path; college-level actions remain available for indents parked
// in that state.
func (s *IndentService) Submit(ctx context.Context, id, actor string) (*entity.StoreIndent, error) {
	if err := authorize(ctx, s.az, actor, "indent:submit", id); err != nil {
		return nil, err
	}

	indent, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if indent.Status != entity.IndentStatusDraft && indent.Status != entity.IndentStatusSubmitted {
		return nil, &StateTransitionError{
			Document: "indent " + indent.IndentNumber,
			From:     indent.Status,
			To:       entity.IndentStatusPendingSuperAdmin,
		}
	}

	now := time.Now()
	fromStatus := indent.Status
	indent.Status = entity.IndentStatusPendingSuperAdmin
	indent.SubmittedAt = &now
	if err := s.repo.Update(ctx, indent); err != nil {
		return nil, fmt.Errorf("submit indent: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "indent",
		EntityID:   indent.ID,
		EntityCode: indent.IndentNumber,
		Action:     "status_change",
		FromStatus: fromStatus,
		ToStatus:   indent.Status,
		OperatorID: actor,
	})
	return indent, nil
}

// CollegeAdminApprove forwards an indent to the super-admin queue. Calling
// it on an indent already in that queue is a logged no-op, not an error.
func (s *IndentService) CollegeAdminApprove(ctx context.Context, id, actor string) (*entity.StoreIndent, error) {
	if err := authorize(ctx, s.az, actor, "indent:college_approve", id); err != nil {
		return nil, err
	}

	indent, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if indent.Status == entity.IndentStatusPendingSuperAdmin {
		s.logger.Info("college approval skipped, indent already pending super admin",
			zap.String("indent", indent.IndentNumber),
		)
		return indent, nil
	}

	switch indent.Status {
	case entity.IndentStatusPendingCollegeApproval, entity.IndentStatusDraft, entity.IndentStatusSubmitted:
	default:
		return nil, &StateTransitionError{
			Document: "indent " + indent.IndentNumber,
			From:     indent.Status,
			To:       entity.IndentStatusPendingSuperAdmin,
		}
	}

	now := time.Now()
	fromStatus := indent.Status
	indent.Status = entity.IndentStatusPendingSuperAdmin
	indent.CollegeApprovedBy = &actor
	indent.CollegeApprovedAt = &now
	if err := s.repo.Update(ctx, indent); err != nil {
		return nil, fmt.Errorf("college approve indent: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "indent",
		EntityID:   indent.ID,
		EntityCode: indent.IndentNumber,
		Action:     "college_approve",
		FromStatus: fromStatus,
		ToStatus:   indent.Status,
		OperatorID: actor,
	})
	return indent, nil
}

// CollegeAdminReject refuses an indent sitting in the college queue.
func (s *IndentService) CollegeAdminReject(ctx context.Context, id, actor, reason string) (*entity.StoreIndent, error) {
	if err := authorize(ctx, s.az, actor, "indent:college_reject", id); err != nil {
		return nil, err
	}

	indent, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if indent.Status != entity.IndentStatusPendingCollegeApproval {
		return nil, &StateTransitionError{
			Document: "indent " + indent.IndentNumber,
			From:     indent.Status,
			To:       entity.IndentStatusRejectedByCollege,
		}
	}

	fromStatus := indent.Status
	indent.Status = entity.IndentStatusRejectedByCollege
	indent.RejectedReason = reason
	if err := s.repo.Update(ctx, indent); err != nil {
		return nil, fmt.Errorf("college reject indent: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "indent",
		EntityID:   indent.ID,
		EntityCode: indent.IndentNumber,
		Action:     "college_reject",
		FromStatus: fromStatus,
		ToStatus:   indent.Status,
		Content:    reason,
		OperatorID: actor,
	})
	return indent, nil
}

// SuperAdminApprove grants final approval and fixes the approved quantity
// per line. Lines without an explicit grant default to the requested
// quantity; a grant above the requested quantity is rejected before anything
// persists. Re-approving an approved indent is a logged no-op.
func (s *IndentService) SuperAdminApprove(ctx context.Context, id, actor string, approvedQuantities map[string]float64) (*entity.StoreIndent, error) {
	if err := authorize(ctx, s.az, actor, "indent:super_approve", id); err != nil {
		return nil, err
	}

	indent, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if indent.Status == entity.IndentStatusApproved {
		s.logger.Info("super admin approval skipped, indent already approved",
			zap.String("indent", indent.IndentNumber),
		)
		return indent, nil
	}

	switch indent.Status {
	case entity.IndentStatusPendingSuperAdmin, entity.IndentStatusPendingCollegeApproval,
		entity.IndentStatusSubmitted, entity.IndentStatusDraft:
	default:
		return nil, &StateTransitionError{
			Document: "indent " + indent.IndentNumber,
			From:     indent.Status,
			To:       entity.IndentStatusApproved,
		}
	}

	// Validate every grant before touching any row.
	for i := range indent.Items {
		item := &indent.Items[i]
		granted, ok := approvedQuantities[item.ID]
		if !ok {
			granted = item.RequestedQuantity
		}
		if granted < 0 {
			return nil, &ValidationError{Field: "approved_quantity", Message: "must not be negative"}
		}
		if granted > item.RequestedQuantity {
			return nil, &ValidationError{
				Field: "approved_quantity",
				Message: fmt.Sprintf("%s: approved %.4f exceeds requested %.4f",
					item.ItemCode, granted, item.RequestedQuantity),
			}
		}
	}

	now := time.Now()
	fromStatus := indent.Status
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range indent.Items {
			item := &indent.Items[i]
			granted, ok := approvedQuantities[item.ID]
			if !ok {
				granted = item.RequestedQuantity
			}
			item.ApprovedQuantity = granted
			item.RecalcPending()
			if err := tx.Save(item).Error; err != nil {
				return err
			}
		}

		indent.Status = entity.IndentStatusApproved
		indent.SuperAdminApprovedBy = &actor
		indent.SuperAdminApprovedAt = &now
		return tx.Save(indent).Error
	})
	if err != nil {
		return nil, fmt.Errorf("super admin approve indent: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "indent",
		EntityID:   indent.ID,
		EntityCode: indent.IndentNumber,
		Action:     "super_approve",
		FromStatus: fromStatus,
		ToStatus:   indent.Status,
		OperatorID: actor,
	})
	return indent, nil
}

// SuperAdminReject refuses an indent in the super-admin queue.
func (s *IndentService) SuperAdminReject(ctx context.Context, id, actor, reason string) (*entity.StoreIndent, error) {
	if err := authorize(ctx, s.az, actor, "indent:super_reject", id); err != nil {
		return nil, err
	}

	indent, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if indent.Status != entity.IndentStatusPendingSuperAdmin {
		return nil, &StateTransitionError{
			Document: "indent " + indent.IndentNumber,
			From:     indent.Status,
			To:       entity.IndentStatusRejectedBySuperAdmin,
		}
	}

	fromStatus := indent.Status
	indent.Status = entity.IndentStatusRejectedBySuperAdmin
	indent.RejectedReason = reason
	if err := s.repo.Update(ctx, indent); err != nil {
		return nil, fmt.Errorf("super admin reject indent: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "indent",
		EntityID:   indent.ID,
		EntityCode: indent.IndentNumber,
		Action:     "super_reject",
		FromStatus: fromStatus,
		ToStatus:   indent.Status,
		Content:    reason,
		OperatorID: actor,
	})
	return indent, nil
}

// Cancel aborts an indent from any state its transition table allows.
func (s *IndentService) Cancel(ctx context.Context, id, actor, reason string) (*entity.StoreIndent, error) {
	if err := authorize(ctx, s.az, actor, "indent:cancel", id); err != nil {
		return nil, err
	}

	indent, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.IndentTransitions.CanTransition(indent.Status, entity.IndentStatusCancelled) {
		return nil, &StateTransitionError{
			Document: "indent " + indent.IndentNumber,
			From:     indent.Status,
			To:       entity.IndentStatusCancelled,
		}
	}

	fromStatus := indent.Status
	indent.Status = entity.IndentStatusCancelled
	indent.RejectedReason = reason
	if err := s.repo.Update(ctx, indent); err != nil {
		return nil, fmt.Errorf("cancel indent: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "indent",
		EntityID:   indent.ID,
		EntityCode: indent.IndentNumber,
		Action:     "status_change",
		FromStatus: fromStatus,
		ToStatus:   indent.Status,
		Content:    reason,
		OperatorID: actor,
	})
	return indent, nil
}

// CheckFulfillment rescans the indent's lines after an issuance. Every line
// fully issued closes the indent; any issued quantity marks it partially
// fulfilled. Invoked by the material issue service after dispatch.
func (s *IndentService) CheckFulfillment(ctx context.Context, id, actor string) (*entity.StoreIndent, error) {
	indent, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(indent.Items) == 0 {
		return indent, nil
	}

	allIssued := true
	anyIssued := false
	for _, item := range indent.Items {
		if item.PendingQuantity > 0 {
			allIssued = false
		}
		if item.IssuedQuantity > 0 {
			anyIssued = true
		}
	}

	var target string
	switch {
	case allIssued:
		target = entity.IndentStatusFulfilled
	case anyIssued:
		target = entity.IndentStatusPartiallyFulfilled
	default:
		return indent, nil
	}
	if indent.Status == target {
		return indent, nil
	}
	if !entity.IndentTransitions.CanTransition(indent.Status, target) {
		return nil, &StateTransitionError{Document: "indent " + indent.IndentNumber, From: indent.Status, To: target}
	}

	fromStatus := indent.Status
	indent.Status = target
	if err := s.repo.Update(ctx, indent); err != nil {
		return nil, fmt.Errorf("update indent fulfillment: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "indent",
		EntityID:   indent.ID,
		EntityCode: indent.IndentNumber,
		Action:     "status_change",
		FromStatus: fromStatus,
		ToStatus:   indent.Status,
		OperatorID: actor,
	})
	return indent, nil
}
