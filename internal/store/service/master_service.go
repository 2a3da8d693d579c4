package service

import (
	"context"
	"fmt"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/authz"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/repository"
	"go.uber.org/zap"
)

// MasterDataService covers the reference data the pipeline hangs off:
// suppliers, colleges and central stores.
type MasterDataService struct {
	supplierRepo *repository.SupplierRepository
	collegeRepo  *repository.CollegeRepository
	activityLog  *repository.ActivityLogRepository
	az           authz.Authorizer
	logger       *zap.Logger
}

func NewMasterDataService(repos *repository.Repositories, deps Deps) *MasterDataService {
	return &MasterDataService{
		supplierRepo: repos.Supplier,
		collegeRepo:  repos.College,
		activityLog:  repos.ActivityLog,
		az:           deps.Authorizer,
		logger:       deps.Logger,
	}
}

func (s *MasterDataService) ListSuppliers(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Supplier, int64, error) {
	return s.supplierRepo.FindAll(ctx, page, pageSize, filters)
}

func (s *MasterDataService) GetSupplier(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.supplierRepo.FindByID(ctx, id)
}

// CreateSupplierRequest registers a vendor.
type CreateSupplierRequest struct {
	Code          string `json:"code" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Category      string `json:"category"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	GSTNumber     string `json:"gst_number"`
	PANNumber     string `json:"pan_number"`
	PaymentTerms  string `json:"payment_terms"`
	Notes         string `json:"notes"`
}

func (s *MasterDataService) CreateSupplier(ctx context.Context, actor string, req *CreateSupplierRequest) (*entity.Supplier, error) {
	if err := authorize(ctx, s.az, actor, "supplier:create", req.Code); err != nil {
		return nil, err
	}

	supplier := &entity.Supplier{
		ID:            newID(),
		Code:          req.Code,
		Name:          req.Name,
		Category:      req.Category,
		Status:        entity.SupplierStatusActive,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		GSTNumber:     req.GSTNumber,
		PANNumber:     req.PANNumber,
		PaymentTerms:  req.PaymentTerms,
		CreatedBy:     actor,
		Notes:         req.Notes,
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "supplier",
		EntityID:   supplier.ID,
		EntityCode: supplier.Code,
		Action:     "create",
		ToStatus:   supplier.Status,
		OperatorID: actor,
	})
	return supplier, nil
}

// UpdateSupplierStatus flips a supplier between active, inactive and
// blacklisted. Blacklisted suppliers cannot quote or receive orders.
func (s *MasterDataService) UpdateSupplierStatus(ctx context.Context, id, actor, status string) (*entity.Supplier, error) {
	if err := authorize(ctx, s.az, actor, "supplier:update", id); err != nil {
		return nil, err
	}

	switch status {
	case entity.SupplierStatusActive, entity.SupplierStatusInactive, entity.SupplierStatusBlacklisted:
	default:
		return nil, &ValidationError{Field: "status", Message: "unknown supplier status " + status}
	}

	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fromStatus := supplier.Status
	supplier.Status = status
	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("update supplier: %w", err)
	}

	logActivity(ctx, s.activityLog, s.logger, &entity.ActivityLog{
		EntityType: "supplier",
		EntityID:   supplier.ID,
		EntityCode: supplier.Code,
		Action:     "status_change",
		FromStatus: fromStatus,
		ToStatus:   supplier.Status,
		OperatorID: actor,
	})
	return supplier, nil
}

func (s *MasterDataService) ListColleges(ctx context.Context) ([]entity.College, error) {
	return s.collegeRepo.FindAll(ctx)
}

func (s *MasterDataService) GetCollege(ctx context.Context, id string) (*entity.College, error) {
	return s.collegeRepo.FindByID(ctx, id)
}

type CreateCollegeRequest struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

func (s *MasterDataService) CreateCollege(ctx context.Context, actor string, req *CreateCollegeRequest) (*entity.College, error) {
	if err := authorize(ctx, s.az, actor, "college:create", req.Code); err != nil {
		return nil, err
	}

	college := &entity.College{
		ID:      newID(),
		Code:    req.Code,
		Name:    req.Name,
		Address: req.Address,
		Status:  "active",
	}
	if err := s.collegeRepo.Create(ctx, college); err != nil {
		return nil, fmt.Errorf("create college: %w", err)
	}
	return college, nil
}

func (s *MasterDataService) ListCentralStores(ctx context.Context) ([]entity.CentralStore, error) {
	return s.collegeRepo.FindAllStores(ctx)
}

func (s *MasterDataService) GetCentralStore(ctx context.Context, id string) (*entity.CentralStore, error) {
	return s.collegeRepo.FindStoreByID(ctx, id)
}

type CreateCentralStoreRequest struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Manager string `json:"manager"`
	Notes   string `json:"notes"`
}

func (s *MasterDataService) CreateCentralStore(ctx context.Context, actor string, req *CreateCentralStoreRequest) (*entity.CentralStore, error) {
	if err := authorize(ctx, s.az, actor, "central_store:create", req.Code); err != nil {
		return nil, err
	}

	store := &entity.CentralStore{
		ID:      newID(),
		Code:    req.Code,
		Name:    req.Name,
		Address: req.Address,
		Manager: req.Manager,
		Status:  "active",
		Notes:   req.Notes,
	}
	if err := s.collegeRepo.CreateStore(ctx, store); err != nil {
		return nil, fmt.Errorf("create central store: %w", err)
	}
	return store, nil
}
