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

type programmeRepository interface {
	List(ctx context.Context, filter models.ProgrammeFilter) ([]models.ProgrammeDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Programme, error)
	FindDetailByID(ctx context.Context, id string) (*models.ProgrammeDetail, error)
	Create(ctx context.Context, programme *models.Programme) error
	UpdateStatut(ctx context.Context, id string, statut models.ProgrammeStatut, observation string) error
	UpdateContent(ctx context.Context, id, titreFr, titreAr, fichier string) error
}

// CreateProgrammeRequest describes programme creation payload.
type CreateProgrammeRequest struct {
	ModuleID string `json:"module_id" validate:"required"`
	Code     string `json:"code" validate:"required"`
	TitreFr  string `json:"titre_fr" validate:"required"`
	TitreAr  string `json:"titre_ar"`
}

// UpdateProgrammeRequest carries editable programme content.
type UpdateProgrammeRequest struct {
	TitreFr    string `json:"titre_fr" validate:"required"`
	TitreAr    string `json:"titre_ar"`
	FichierPDF string `json:"fichier_pdf"`
}

// DecideProgrammeRequest carries the national decision observation.
type DecideProgrammeRequest struct {
	Observation string `json:"observation"`
}

// ProgrammeService governs the curriculum document lifecycle: authored by a
// regional institution, validated or rejected by the national one.
type ProgrammeService struct {
	repo      programmeRepository
	catalog   coursModuleReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgrammeService constructs ProgrammeService.
func NewProgrammeService(repo programmeRepository, catalog coursModuleReader, validate *validator.Validate, logger *zap.Logger) *ProgrammeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgrammeService{repo: repo, catalog: catalog, validator: validate, logger: logger}
}

// Create registers a pending programme authored by the given regional
// institution.
func (s *ProgrammeService) Create(ctx context.Context, req CreateProgrammeRequest, regionaleID string, callerRole models.UserRole) (*models.ProgrammeDetail, error) {
	if !Allowed(OpProgrammeCreate, callerRole) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only a regional institution may author programmes")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid programme payload")
	}
	if _, err := s.catalog.FindModuleByID(ctx, req.ModuleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load module")
	}
	programme := &models.Programme{
		ModuleID:                 req.ModuleID,
		EtablissementRegionaleID: regionaleID,
		Code:                     req.Code,
		TitreFr:                  req.TitreFr,
		TitreAr:                  req.TitreAr,
		Statut:                   models.ProgrammeEnAttente,
	}
	if err := s.repo.Create(ctx, programme); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create programme")
	}
	detail, err := s.repo.FindDetailByID(ctx, programme.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load programme detail")
	}
	return detail, nil
}

// Update edits programme content while it is still pending or rejected. A
// rejected programme returns to pending after the edit so the national
// institution sees it again.
func (s *ProgrammeService) Update(ctx context.Context, programmeID, regionaleID string, req UpdateProgrammeRequest, callerRole models.UserRole) (*models.Programme, error) {
	if !Allowed(OpProgrammeEdit, callerRole) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the authoring regional institution may edit a programme")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid programme content")
	}
	programme, err := s.findAuthored(ctx, programmeID, regionaleID)
	if err != nil {
		return nil, err
	}
	if programme.Statut == models.ProgrammeAccepte {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "validated programme content is frozen")
	}
	fichier := req.FichierPDF
	if fichier == "" {
		fichier = programme.FichierPDF
	}
	if err := s.repo.UpdateContent(ctx, programmeID, req.TitreFr, req.TitreAr, fichier); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update programme content")
	}
	if programme.Statut == models.ProgrammeRefuse {
		if err := s.repo.UpdateStatut(ctx, programmeID, models.ProgrammeEnAttente, ""); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resubmit programme")
		}
	}
	return s.reload(ctx, programmeID)
}

// Validate marks a pending programme accepted. Only the national institution
// decides, and only while the programme awaits review.
func (s *ProgrammeService) Validate(ctx context.Context, programmeID string, req DecideProgrammeRequest, callerRole models.UserRole) (*models.Programme, error) {
	return s.decide(ctx, programmeID, models.ProgrammeAccepte, req.Observation, OpProgrammeValidate, callerRole)
}

// Reject marks a pending programme rejected with an observation.
func (s *ProgrammeService) Reject(ctx context.Context, programmeID string, req DecideProgrammeRequest, callerRole models.UserRole) (*models.Programme, error) {
	return s.decide(ctx, programmeID, models.ProgrammeRefuse, req.Observation, OpProgrammeReject, callerRole)
}

func (s *ProgrammeService) decide(ctx context.Context, programmeID string, decision models.ProgrammeStatut, observation string, op Operation, callerRole models.UserRole) (*models.Programme, error) {
	if !Allowed(op, callerRole) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the national institution may decide programmes")
	}
	programme, err := s.repo.FindByID(ctx, programmeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "programme not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load programme")
	}
	if programme.Statut != models.ProgrammeEnAttente {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "programme is not awaiting review")
	}
	if err := s.repo.UpdateStatut(ctx, programmeID, decision, observation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update programme status")
	}
	return s.reload(ctx, programmeID)
}

// List returns programmes matching the filter with a total count.
func (s *ProgrammeService) List(ctx context.Context, filter models.ProgrammeFilter) ([]models.ProgrammeDetail, int, error) {
	programmes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programmes")
	}
	return programmes, total, nil
}

// Get returns one programme with display attributes.
func (s *ProgrammeService) Get(ctx context.Context, programmeID string) (*models.ProgrammeDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, programmeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "programme not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load programme")
	}
	return detail, nil
}

func (s *ProgrammeService) findAuthored(ctx context.Context, programmeID, regionaleID string) (*models.Programme, error) {
	programme, err := s.repo.FindByID(ctx, programmeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "programme not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load programme")
	}
	if programme.EtablissementRegionaleID != regionaleID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "programme authored by another regional institution")
	}
	return programme, nil
}

func (s *ProgrammeService) reload(ctx context.Context, programmeID string) (*models.Programme, error) {
	programme, err := s.repo.FindByID(ctx, programmeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load programme")
	}
	return programme, nil
}
