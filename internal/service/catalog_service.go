package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/idrissziadi/formation-api/internal/models"
	appErrors "github.com/idrissziadi/formation-api/pkg/errors"
)

type catalogRepository interface {
	ListBranches(ctx context.Context) ([]models.Branche, error)
	FindBrancheByID(ctx context.Context, id string) (*models.Branche, error)
	CreateBranche(ctx context.Context, branche *models.Branche) error
	UpdateBranche(ctx context.Context, branche *models.Branche) error
	BrancheReferenced(ctx context.Context, brancheID string) (bool, error)
	ListSpecialites(ctx context.Context, brancheID string) ([]models.Specialite, error)
	FindSpecialiteByID(ctx context.Context, id string) (*models.Specialite, error)
	CreateSpecialite(ctx context.Context, specialite *models.Specialite) error
	ListModules(ctx context.Context, specialiteID string) ([]models.Module, error)
	FindModuleByID(ctx context.Context, id string) (*models.Module, error)
	CreateModule(ctx context.Context, module *models.Module) error
}

// CreateBrancheRequest describes branch creation payload.
type CreateBrancheRequest struct {
	Code   string `json:"code" validate:"required"`
	NameFr string `json:"name_fr" validate:"required"`
	NameAr string `json:"name_ar"`
}

// CreateSpecialiteRequest describes specialty creation payload.
type CreateSpecialiteRequest struct {
	BrancheID string `json:"branche_id" validate:"required"`
	Code      string `json:"code" validate:"required"`
	NameFr    string `json:"name_fr" validate:"required"`
	NameAr    string `json:"name_ar"`
}

// CreateModuleRequest describes module creation payload.
type CreateModuleRequest struct {
	SpecialiteID string `json:"specialite_id" validate:"required"`
	Code         string `json:"code" validate:"required"`
	NameFr       string `json:"name_fr" validate:"required"`
	NameAr       string `json:"name_ar"`
}

// CatalogService manages the branch / specialty / module taxonomy that
// everything else hangs off.
type CatalogService struct {
	repo      catalogRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(repo catalogRepository, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, validator: validate, logger: logger}
}

// ListBranches lists all branches.
func (s *CatalogService) ListBranches(ctx context.Context) ([]models.Branche, error) {
	branches, err := s.repo.ListBranches(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list branches")
	}
	return branches, nil
}

// CreateBranche registers a new branch.
func (s *CatalogService) CreateBranche(ctx context.Context, req CreateBrancheRequest) (*models.Branche, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid branche payload")
	}
	branche := &models.Branche{Code: req.Code, NameFr: req.NameFr, NameAr: req.NameAr}
	if err := s.repo.CreateBranche(ctx, branche); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create branche")
	}
	return branche, nil
}

// UpdateBranche rewrites branch attributes. Once a specialty references the
// branch its attributes are frozen.
func (s *CatalogService) UpdateBranche(ctx context.Context, brancheID string, req CreateBrancheRequest) (*models.Branche, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid branche payload")
	}
	branche, err := s.repo.FindBrancheByID(ctx, brancheID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "branche not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load branche")
	}
	referenced, err := s.repo.BrancheReferenced(ctx, brancheID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check branche references")
	}
	if referenced {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "branche is referenced by specialites and cannot change")
	}
	branche.Code = req.Code
	branche.NameFr = req.NameFr
	branche.NameAr = req.NameAr
	if err := s.repo.UpdateBranche(ctx, branche); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update branche")
	}
	return branche, nil
}

// ListSpecialites lists specialties, optionally scoped to one branch.
func (s *CatalogService) ListSpecialites(ctx context.Context, brancheID string) ([]models.Specialite, error) {
	specialites, err := s.repo.ListSpecialites(ctx, brancheID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list specialites")
	}
	return specialites, nil
}

// CreateSpecialite registers a specialty under an existing branch.
func (s *CatalogService) CreateSpecialite(ctx context.Context, req CreateSpecialiteRequest) (*models.Specialite, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid specialite payload")
	}
	if _, err := s.repo.FindBrancheByID(ctx, req.BrancheID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "branche not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load branche")
	}
	specialite := &models.Specialite{BrancheID: req.BrancheID, Code: req.Code, NameFr: req.NameFr, NameAr: req.NameAr}
	if err := s.repo.CreateSpecialite(ctx, specialite); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create specialite")
	}
	return specialite, nil
}

// ListModules lists modules, optionally scoped to one specialty.
func (s *CatalogService) ListModules(ctx context.Context, specialiteID string) ([]models.Module, error) {
	modules, err := s.repo.ListModules(ctx, specialiteID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list modules")
	}
	return modules, nil
}

// GetModule returns one module.
func (s *CatalogService) GetModule(ctx context.Context, moduleID string) (*models.Module, error) {
	module, err := s.repo.FindModuleByID(ctx, moduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load module")
	}
	return module, nil
}

// CreateModule registers a module under an existing specialty.
func (s *CatalogService) CreateModule(ctx context.Context, req CreateModuleRequest) (*models.Module, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid module payload")
	}
	if _, err := s.repo.FindSpecialiteByID(ctx, req.SpecialiteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "specialite not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load specialite")
	}
	module := &models.Module{SpecialiteID: req.SpecialiteID, Code: req.Code, NameFr: req.NameFr, NameAr: req.NameAr}
	if err := s.repo.CreateModule(ctx, module); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create module")
	}
	return module, nil
}
