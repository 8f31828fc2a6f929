package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/idrissziadi/formation-api/internal/models"
	appErrors "github.com/idrissziadi/formation-api/pkg/errors"
)

type offreRepository interface {
	List(ctx context.Context, filter models.OffreFilter) ([]models.OffreDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Offre, error)
	Create(ctx context.Context, offre *models.Offre) error
	AttachModule(ctx context.Context, offreID, moduleID string) error
	DetachModule(ctx context.Context, offreID, moduleID string) error
	ModuleAttached(ctx context.Context, offreID, moduleID string) (bool, error)
	ListModuleIDsByOffres(ctx context.Context, offreIDs []string) ([]string, error)
}

type offreCatalogReader interface {
	FindModuleByID(ctx context.Context, id string) (*models.Module, error)
	ListModulesByIDs(ctx context.Context, moduleIDs []string) ([]models.Module, error)
}

type visibilityFlusher interface {
	InvalidateAll(ctx context.Context)
}

// CreateOffreRequest describes offer creation payload.
type CreateOffreRequest struct {
	SpecialiteID  string     `json:"specialite_id" validate:"required"`
	DiplomeID     string     `json:"diplome_id" validate:"required"`
	ModeID        string     `json:"mode_id" validate:"required"`
	DesignationFr string     `json:"designation_fr" validate:"required"`
	DesignationAr string     `json:"designation_ar"`
	DateDebut     *time.Time `json:"date_debut"`
	DateFin       *time.Time `json:"date_fin"`
}

// OffreService manages offers and their module curriculum. Curriculum edits
// change what every enrolled trainee can see, so they flush the whole
// visibility cache rather than track affected trainees.
type OffreService struct {
	repo       offreRepository
	catalog    offreCatalogReader
	visibility visibilityFlusher
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewOffreService constructs OffreService. The flusher is optional.
func NewOffreService(repo offreRepository, catalog offreCatalogReader, visibility visibilityFlusher, validate *validator.Validate, logger *zap.Logger) *OffreService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OffreService{repo: repo, catalog: catalog, visibility: visibility, validator: validate, logger: logger}
}

// Create registers an offer for the calling training institution.
func (s *OffreService) Create(ctx context.Context, req CreateOffreRequest, etablissementFormationID string) (*models.Offre, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid offre payload")
	}
	if req.DateDebut != nil && req.DateFin != nil && req.DateFin.Before(*req.DateDebut) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date_fin must not precede date_debut")
	}
	offre := &models.Offre{
		SpecialiteID:             req.SpecialiteID,
		DiplomeID:                req.DiplomeID,
		ModeID:                   req.ModeID,
		EtablissementFormationID: etablissementFormationID,
		DesignationFr:            req.DesignationFr,
		DesignationAr:            req.DesignationAr,
		DateDebut:                req.DateDebut,
		DateFin:                  req.DateFin,
	}
	if err := s.repo.Create(ctx, offre); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create offre")
	}
	return offre, nil
}

// AttachModule adds a module to the offer curriculum. The module must belong
// to the offer's specialty; associating across specialties is refused at
// write time.
func (s *OffreService) AttachModule(ctx context.Context, offreID, moduleID, etablissementFormationID string) error {
	offre, err := s.findOwned(ctx, offreID, etablissementFormationID)
	if err != nil {
		return err
	}
	module, err := s.catalog.FindModuleByID(ctx, moduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load module")
	}
	if module.SpecialiteID != offre.SpecialiteID {
		return appErrors.Clone(appErrors.ErrValidation, "module does not belong to the offre's specialite")
	}
	attached, err := s.repo.ModuleAttached(ctx, offreID, moduleID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check curriculum")
	}
	if attached {
		return appErrors.Clone(appErrors.ErrConflict, "module already attached to the offre")
	}
	if err := s.repo.AttachModule(ctx, offreID, moduleID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to attach module")
	}
	s.flush(ctx)
	return nil
}

// DetachModule removes a module from the offer curriculum.
func (s *OffreService) DetachModule(ctx context.Context, offreID, moduleID, etablissementFormationID string) error {
	if _, err := s.findOwned(ctx, offreID, etablissementFormationID); err != nil {
		return err
	}
	attached, err := s.repo.ModuleAttached(ctx, offreID, moduleID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check curriculum")
	}
	if !attached {
		return appErrors.Clone(appErrors.ErrNotFound, "module is not attached to the offre")
	}
	if err := s.repo.DetachModule(ctx, offreID, moduleID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to detach module")
	}
	s.flush(ctx)
	return nil
}

// ListModules returns the offer's curriculum.
func (s *OffreService) ListModules(ctx context.Context, offreID string) ([]models.Module, error) {
	if _, err := s.repo.FindByID(ctx, offreID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "offre not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offre")
	}
	moduleIDs, err := s.repo.ListModuleIDsByOffres(ctx, []string{offreID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list curriculum")
	}
	if len(moduleIDs) == 0 {
		return []models.Module{}, nil
	}
	modules, err := s.catalog.ListModulesByIDs(ctx, moduleIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load modules")
	}
	return modules, nil
}

// List returns offers matching the filter with a total count.
func (s *OffreService) List(ctx context.Context, filter models.OffreFilter) ([]models.OffreDetail, int, error) {
	offres, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list offres")
	}
	return offres, total, nil
}

// Get returns one offer.
func (s *OffreService) Get(ctx context.Context, offreID string) (*models.Offre, error) {
	offre, err := s.repo.FindByID(ctx, offreID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "offre not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offre")
	}
	return offre, nil
}

func (s *OffreService) findOwned(ctx context.Context, offreID, etablissementFormationID string) (*models.Offre, error) {
	offre, err := s.repo.FindByID(ctx, offreID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "offre not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offre")
	}
	if offre.EtablissementFormationID != etablissementFormationID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "offre belongs to another training institution")
	}
	return offre, nil
}

func (s *OffreService) flush(ctx context.Context) {
	if s.visibility == nil {
		return
	}
	s.visibility.InvalidateAll(ctx)
}
