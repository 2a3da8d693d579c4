package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/approval"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/authz"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/numbering"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RequirementService manages the procurement requirement lifecycle.
type RequirementService struct {
	repo        *repository.RequirementRepository
	activityLog *repository.ActivityLogRepository
	numbers     *numbering.Generator
	approvals   ApprovalClient
	az          authz.Authorizer
	logger      *zap.Logger
}

func NewRequirementService(repos *repository.Repositories, deps Deps) *RequirementService {
	return &RequirementService{
		repo:        repos.Requirement,
		activityLog: repos.ActivityLog,
		numbers:     deps.Numbers,
		approvals:   deps.Approvals,
		az:          deps.Authorizer,
		logger:      deps.Logger,
	}
}

func (s *RequirementService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.ProcurementRequirement, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *RequirementService) Get(ctx context.Context, id string) (*entity.ProcurementRequirement, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateRequirementRequest creates a draft requirement with its lines.
type CreateRequirementRequest struct {
	CentralStoreID  string                  `json:"central_store_id" binding:"required"`
	Title           string                  `json:"title" binding:"required"`
	Urgency         string                  `json:"urgency"`
	EstimatedBudget float64                 `json:"estimated_budget"`
	Justification   string                  `json:"justification"`
	RequiredByDate  *time.Time              `json:"required_by_date"`
	Notes           string                  `json:"notes"`
	Items           []CreateRequirementItem `json:"items"`
}

type CreateRequirementItem struct {
	ItemCode       string  `json:"item_code"`
	ItemName       string  `json:"item_name" binding:"required"`
	Description    string  `json:"description"`
	Quantity       float64 `json:"quantity" binding:"required,gt=0"`
	Unit           string  `json:"unit"`
	EstimatedPrice float64 `json:"estimated_price"`
}

// Create raises a draft requirement. Line totals are computed on save.
func (s *RequirementService) Create(ctx context.Context, actor string, req *CreateRequirementRequest) (*entity.ProcurementRequirement, error) {
	if err := authorize(ctx, s.az, actor, "requirement:create", req.CentralStoreID); err != nil {
		return nil, err
	}

	number, err := s.numbers.Next(ctx, "REQ", "store_procurement_requirements", "requirement_number")
	if err != nil {
		return nil, fmt.Errorf("generate requirement number: %w", err)
	}

	requirement := &entity.ProcurementRequirement{
		ID:                newID(),
		RequirementNumber: number,
		CentralStoreID:    req.CentralStoreID,
		Title:             req.Title,
		Urgency:           req.Urgency,
		Status:            entity.RequirementStatusDraft,
		EstimatedBudget:   req.EstimatedBudget,
		Justification:     req.Justification,
		RequiredByDate:    req.RequiredByDate,
		RequestedBy:       actor,
		Notes:             req.Notes,
	}
	if requirement.Urgency == "" {
		requirement.Urgency = entity.UrgencyMedium
	}

	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &ValidationError{Field: "items.quantity", Message: "must be positive"}
		}
		unit := item.Unit
		if unit == "" {
			unit = "pcs"
		}
		total := decimal.NewFromFloat(item.Quantity).
			Mul(decimal.NewFromFloat(item.EstimatedPrice)).
			Round(2)
		requirement.Items = append(requirement.Items, entity.RequirementItem{
			ID:             newID(),
			ItemCode:       item.ItemCode,
			ItemName:       item.ItemName,
			Description:    item.Description,
			Quantity:       item.Quantity,
			Unit:           unit,
			EstimatedPrice: item.EstimatedPrice,
			EstimatedTotal: total.InexactFloat64(),
			SortOrder:      i,
		})
	}

	if err := s.repo.Create(ctx, requirement); err != nil {
		return nil, fmt.Errorf("create requirement: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "requirement",
		EntityID:   requirement.ID,
		EntityCode: requirement.RequirementNumber,
		Action:     "create",
		ToStatus:   requirement.Status,
		OperatorID: actor,
	})
	return requirement, nil
}

// SubmitForApproval moves a draft or submitted requirement into the approval
// queue and opens an approval instance with the workflow service. The
// decision itself arrives later via RecordDecision.
func (s *RequirementService) SubmitForApproval(ctx context.Context, id, actor string, approvers []string) (*entity.ProcurementRequirement, error) {
	if err := authorize(ctx, s.az, actor, "requirement:submit", id); err != nil {
		return nil, err
	}

	requirement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if requirement.Status != entity.RequirementStatusDraft && requirement.Status != entity.RequirementStatusSubmitted {
		return nil, &StateTransitionError{
			Document: "requirement " + requirement.RequirementNumber,
			From:     requirement.Status,
			To:       entity.RequirementStatusPendingApproval,
		}
	}

	fromStatus := requirement.Status
	requirement.Status = entity.RequirementStatusPendingApproval

	if s.approvals != nil {
		approvalID, err := s.approvals.RequestApproval(ctx, approval.DocumentRef{
			Kind: "requirement",
			ID:   requirement.ID,
			Code: requirement.RequirementNumber,
		}, approvers)
		if err != nil {
			// The transition stands; the approval instance can be re-opened.
			s.logger.Warn("approval request failed",
				zap.String("requirement", requirement.RequirementNumber),
				zap.Error(err),
			)
		} else {
			requirement.ApprovalID = approvalID
		}
	}

	if err := s.repo.Update(ctx, requirement); err != nil {
		return nil, fmt.Errorf("submit requirement: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "requirement",
		EntityID:   requirement.ID,
		EntityCode: requirement.RequirementNumber,
		Action:     "status_change",
		FromStatus: fromStatus,
		ToStatus:   requirement.Status,
		OperatorID: actor,
	})
	return requirement, nil
}

// RecordDecision applies the approve/reject outcome delivered by the
// workflow service.
func (s *RequirementService) RecordDecision(ctx context.Context, id, actor, decision, reason string) (*entity.ProcurementRequirement, error) {
	if err := authorize(ctx, s.az, actor, "requirement:decide", id); err != nil {
		return nil, err
	}

	requirement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var target string
	switch decision {
	case approval.DecisionApproved:
		target = entity.RequirementStatusApproved
	case approval.DecisionRejected:
		target = entity.RequirementStatusRejected
	default:
		return nil, &ValidationError{Field: "decision", Message: "must be approved or rejected"}
	}

	if !entity.RequirementTransitions.CanTransition(requirement.Status, target) {
		return nil, &StateTransitionError{
			Document: "requirement " + requirement.RequirementNumber,
			From:     requirement.Status,
			To:       target,
		}
	}

	fromStatus := requirement.Status
	requirement.Status = target
	if target == entity.RequirementStatusApproved {
		now := time.Now()
		requirement.ApprovedBy = &actor
		requirement.ApprovedAt = &now
	} else {
		requirement.RejectedReason = reason
	}

	if err := s.repo.Update(ctx, requirement); err != nil {
		return nil, fmt.Errorf("record decision: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "requirement",
		EntityID:   requirement.ID,
		EntityCode: requirement.RequirementNumber,
		Action:     "status_change",
		FromStatus: fromStatus,
		ToStatus:   requirement.Status,
		Content:    reason,
		OperatorID: actor,
	})
	return requirement, nil
}

// Cancel aborts a requirement from any non-terminal state.
func (s *RequirementService) Cancel(ctx context.Context, id, actor, reason string) (*entity.ProcurementRequirement, error) {
	if err := authorize(ctx, s.az, actor, "requirement:cancel", id); err != nil {
		return nil, err
	}

	requirement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.RequirementTransitions.CanTransition(requirement.Status, entity.RequirementStatusCancelled) {
		return nil, &StateTransitionError{
			Document: "requirement " + requirement.RequirementNumber,
			From:     requirement.Status,
			To:       entity.RequirementStatusCancelled,
		}
	}

	fromStatus := requirement.Status
	requirement.Status = entity.RequirementStatusCancelled
	requirement.RejectedReason = reason
	if err := s.repo.Update(ctx, requirement); err != nil {
		return nil, fmt.Errorf("cancel requirement: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "requirement",
		EntityID:   requirement.ID,
		EntityCode: requirement.RequirementNumber,
		Action:     "status_change",
		FromStatus: fromStatus,
		ToStatus:   requirement.Status,
		Content:    reason,
		OperatorID: actor,
	})
	return requirement, nil
}

// advanceStatus is used by the quotation and PO services to move the
// requirement along the chain after downstream documents progress.
func (s *RequirementService) advanceStatus(ctx context.Context, requirement *entity.ProcurementRequirement, target, actor string) error {
	if requirement.Status == target {
		return nil
	}
	if !entity.RequirementTransitions.CanTransition(requirement.Status, target) {
		return &StateTransitionError{
			Document: "requirement " + requirement.RequirementNumber,
			From:     requirement.Status,
			To:       target,
		}
	}
	fromStatus := requirement.Status
	requirement.Status = target
	if err := s.repo.Update(ctx, requirement); err != nil {
		return fmt.Errorf("advance requirement status: %w", err)
	}
	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "requirement",
		EntityID:   requirement.ID,
		EntityCode: requirement.RequirementNumber,
		Action:     "status_change",
		FromStatus: fromStatus,
		ToStatus:   target,
		OperatorID: actor,
	})
	return nil
}
