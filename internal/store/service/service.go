package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/approval"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/authz"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/blob"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/numbering"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ApprovalClient is the slice of the workflow service the pipeline uses.
type ApprovalClient interface {
	RequestApproval(ctx context.Context, ref approval.DocumentRef, approvers []string) (string, error)
	GetDecision(ctx context.Context, approvalID string) (*approval.Decision, error)
}

// Services is the store module's service collection.
type Services struct {
	Ledger        *LedgerService
	Requirement   *RequirementService
	Quotation     *QuotationService
	PO            *POService
	GRN           *GRNService
	Indent        *IndentService
	MaterialIssue *MaterialIssueService
	Export        *ExportService
	MasterData    *MasterDataService
}

// Deps carries the shared collaborators injected into every service.
type Deps struct {
	DB        *gorm.DB
	Logger    *zap.Logger
	Numbers   *numbering.Generator
	Approvals ApprovalClient
	Authorizer authz.Authorizer
	Blobs     blob.Store
}

// NewServices wires the service collection.
func NewServices(repos *repository.Repositories, deps Deps) *Services {
	if deps.Authorizer == nil {
		deps.Authorizer = authz.AllowAll{}
	}

	ledger := NewLedgerService(repos.Inventory, deps.DB, deps.Logger)
	export := NewExportService(deps.Blobs, deps.Logger)
	requirement := NewRequirementService(repos, deps)

	quotation := NewQuotationService(repos, deps)
	quotation.SetRequirementService(requirement)

	po := NewPOService(repos, deps, export)
	po.SetRequirementService(requirement)

	grn := NewGRNService(repos, deps, ledger, export)
	grn.SetPOService(po)

	indent := NewIndentService(repos, deps, ledger)
	materialIssue := NewMaterialIssueService(repos, deps, ledger, export)
	materialIssue.SetIndentService(indent)

	return &Services{
		Ledger:        ledger,
		Requirement:   requirement,
		Quotation:     quotation,
		PO:            po,
		GRN:           grn,
		Indent:        indent,
		MaterialIssue: materialIssue,
		Export:        export,
		MasterData:    NewMasterDataService(repos, deps),
	}
}

// newID returns a 32-char identifier in the house style.
func newID() string {
	return uuid.New().String()[:32]
}

// authorize consults the authorization oracle; denial and oracle failure
// both block the operation.
func authorize(ctx context.Context, az authz.Authorizer, actor, action, resource string) error {
	allowed, err := az.Can(ctx, actor, action, resource)
	if err != nil {
		return fmt.Errorf("authorization check failed: %w", err)
	}
	if !allowed {
		return fmt.Errorf("actor %s is not allowed to %s on %s", actor, action, resource)
	}
	return nil
}

// logActivity appends one audit row; failures are logged, never propagated.
func logActivity(ctx context.Context, repo *repository.ActivityLogRepository, logger *zap.Logger, row *entity.ActivityLog) {
	row.ID = newID()
	row.CreatedAt = time.Now()
	if err := repo.Create(ctx, row); err != nil {
		logger.Warn("activity log write failed",
			zap.String("entity_type", row.EntityType),
			zap.String("entity_id", row.EntityID),
			zap.Error(err),
		)
	}
}
