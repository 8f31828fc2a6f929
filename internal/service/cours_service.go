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

type coursRepository interface {
	FindByID(ctx context.Context, id string) (*models.Cours, error)
	FindDetailByID(ctx context.Context, id string) (*models.CoursDetail, error)
	Create(ctx context.Context, cours *models.Cours) error
	UpdateStatut(ctx context.Context, id string, statut models.CoursStatut, observation string) error
	UpdateFichier(ctx context.Context, id, fichier string) error
	ListPendingByRegion(ctx context.Context, regionaleID string) ([]models.CoursDetail, error)
}

type coursModuleReader interface {
	FindModuleByID(ctx context.Context, id string) (*models.Module, error)
}

// CreateCoursRequest describes course creation payload.
type CreateCoursRequest struct {
	ModuleID string `json:"module_id" validate:"required"`
	Code     string `json:"code" validate:"required"`
	TitreFr  string `json:"titre_fr" validate:"required"`
	TitreAr  string `json:"titre_ar"`
}

// ReviewCoursRequest carries a regional review decision.
type ReviewCoursRequest struct {
	Statut      string `json:"statut" validate:"required"`
	Observation string `json:"observation"`
}

// CoursService governs the course lifecycle: draft creation by a teacher,
// export into review, and the regional accept/reject decision.
type CoursService struct {
	repo        coursRepository
	catalog     coursModuleReader
	enseignants enseignantReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCoursService constructs CoursService.
func NewCoursService(repo coursRepository, catalog coursModuleReader, enseignants enseignantReader, validate *validator.Validate, logger *zap.Logger) *CoursService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoursService{repo: repo, catalog: catalog, enseignants: enseignants, validator: validate, logger: logger}
}

// Create registers a new course in its implicit draft condition.
func (s *CoursService) Create(ctx context.Context, req CreateCoursRequest, enseignantID string) (*models.CoursDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if _, err := s.enseignants.FindByID(ctx, enseignantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enseignant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enseignant")
	}
	if _, err := s.catalog.FindModuleByID(ctx, req.ModuleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load module")
	}
	cours := &models.Cours{
		ModuleID:     req.ModuleID,
		EnseignantID: enseignantID,
		Code:         req.Code,
		TitreFr:      req.TitreFr,
		TitreAr:      req.TitreAr,
		Statut:       models.CoursBrouillon,
	}
	if err := s.repo.Create(ctx, cours); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	detail, err := s.repo.FindDetailByID(ctx, cours.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course detail")
	}
	return detail, nil
}

// Export moves a course from its draft condition into review. A rejected
// course may be re-exported after rework; an already-pending or accepted
// course may not.
func (s *CoursService) Export(ctx context.Context, coursID, enseignantID string, callerRole models.UserRole) (*models.Cours, error) {
	if !Allowed(OpCoursExport, callerRole) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the authoring enseignant may export a course")
	}
	cours, err := s.repo.FindByID(ctx, coursID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if cours.EnseignantID != enseignantID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course belongs to another enseignant")
	}
	switch cours.Statut {
	case models.CoursEnAttente:
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "course already exported")
	case models.CoursAccepte:
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "course already validated")
	}
	if err := s.repo.UpdateStatut(ctx, coursID, models.CoursEnAttente, ""); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export course")
	}
	updated, err := s.repo.FindByID(ctx, coursID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return updated, nil
}

// Review applies the regional accept/reject decision to a submitted course.
// The decision literal is validated before any write; re-deciding a course
// already in a terminal state is an InvalidState outcome.
func (s *CoursService) Review(ctx context.Context, coursID string, req ReviewCoursRequest, callerRole models.UserRole) (*models.Cours, error) {
	if !Allowed(OpCoursReview, callerRole) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the regional institution may review courses")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	decision := models.CoursStatut(req.Statut)
	if !models.ValidCoursDecision(decision) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "statut must be مقبول or مرفوض")
	}
	cours, err := s.repo.FindByID(ctx, coursID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if cours.Statut != models.CoursEnAttente {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "course is not awaiting review")
	}
	if err := s.repo.UpdateStatut(ctx, coursID, decision, req.Observation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course status")
	}
	updated, err := s.repo.FindByID(ctx, coursID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return updated, nil
}

// AttachFichier stores the uploaded PDF path verbatim on the course.
func (s *CoursService) AttachFichier(ctx context.Context, coursID, enseignantID, fichier string) (*models.Cours, error) {
	cours, err := s.repo.FindByID(ctx, coursID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if cours.EnseignantID != enseignantID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course belongs to another enseignant")
	}
	if cours.Statut == models.CoursAccepte {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "validated course is not modifiable")
	}
	if err := s.repo.UpdateFichier(ctx, coursID, fichier); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to attach file")
	}
	updated, err := s.repo.FindByID(ctx, coursID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return updated, nil
}

// Get returns one course.
func (s *CoursService) Get(ctx context.Context, coursID string) (*models.Cours, error) {
	cours, err := s.repo.FindByID(ctx, coursID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return cours, nil
}

// ListPendingForRegion returns the review queue of a regional institution.
func (s *CoursService) ListPendingForRegion(ctx context.Context, regionaleID string) ([]models.CoursDetail, error) {
	cours, err := s.repo.ListPendingByRegion(ctx, regionaleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending courses")
	}
	return cours, nil
}
