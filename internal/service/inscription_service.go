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

type inscriptionRepository interface {
	List(ctx context.Context, filter models.InscriptionFilter) ([]models.InscriptionDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Inscription, error)
	FindDetailByID(ctx context.Context, id string) (*models.InscriptionDetail, error)
	Exists(ctx context.Context, stagiaireID, offreID string) (bool, error)
	Create(ctx context.Context, inscription *models.Inscription) error
	UpdateStatut(ctx context.Context, id string, statut models.InscriptionStatut) error
}

type offreReader interface {
	FindByID(ctx context.Context, id string) (*models.Offre, error)
}

type visibilityInvalidator interface {
	InvalidateStagiaire(ctx context.Context, stagiaireID string)
}

// RegisterInscriptionRequest describes an enrollment request.
type RegisterInscriptionRequest struct {
	OffreID string `json:"offre_id" validate:"required"`
}

// DecideInscriptionRequest carries the training institution's decision.
type DecideInscriptionRequest struct {
	Statut string `json:"statut" validate:"required"`
}

// InscriptionService governs enrollments: trainee registration, the training
// institution's decision and trainee cancellation. Every state change
// invalidates the trainee's cached visibility.
type InscriptionService struct {
	repo       inscriptionRepository
	offres     offreReader
	stagiaires stagiaireReader
	visibility visibilityInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewInscriptionService constructs InscriptionService. The invalidator is
// optional.
func NewInscriptionService(repo inscriptionRepository, offres offreReader, stagiaires stagiaireReader, visibility visibilityInvalidator, validate *validator.Validate, logger *zap.Logger) *InscriptionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InscriptionService{repo: repo, offres: offres, stagiaires: stagiaires, visibility: visibility, validator: validate, logger: logger}
}

// Register enrolls a trainee in an offer. A live enrollment for the same
// (stagiaire, offre) pair is a conflict; a cancelled one does not block
// re-registration.
func (s *InscriptionService) Register(ctx context.Context, req RegisterInscriptionRequest, stagiaireID string) (*models.InscriptionDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	if _, err := s.stagiaires.FindByID(ctx, stagiaireID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "stagiaire not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stagiaire")
	}
	if _, err := s.offres.FindByID(ctx, req.OffreID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "offre not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offre")
	}
	exists, err := s.repo.Exists(ctx, stagiaireID, req.OffreID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "stagiaire already enrolled in this offre")
	}
	inscription := &models.Inscription{
		StagiaireID: stagiaireID,
		OffreID:     req.OffreID,
		Statut:      models.InscriptionEnAttente,
	}
	if err := s.repo.Create(ctx, inscription); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	s.invalidate(ctx, stagiaireID)
	detail, err := s.repo.FindDetailByID(ctx, inscription.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment detail")
	}
	return detail, nil
}

// Decide applies the training institution's accept/reject decision to a
// pending enrollment.
func (s *InscriptionService) Decide(ctx context.Context, inscriptionID string, req DecideInscriptionRequest, callerRole models.UserRole) (*models.Inscription, error) {
	if !Allowed(OpInscriptionDecide, callerRole) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the training institution may decide enrollments")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}
	decision := models.InscriptionStatut(req.Statut)
	if decision != models.InscriptionAcceptee && decision != models.InscriptionRefusee {
		return nil, appErrors.Clone(appErrors.ErrValidation, "statut must be مقبول or مرفوض")
	}
	inscription, err := s.repo.FindByID(ctx, inscriptionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if inscription.Statut != models.InscriptionEnAttente {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "enrollment is not awaiting decision")
	}
	if err := s.repo.UpdateStatut(ctx, inscriptionID, decision); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment status")
	}
	s.invalidate(ctx, inscription.StagiaireID)
	return s.reload(ctx, inscriptionID)
}

// Cancel withdraws the trainee's own enrollment. Already-cancelled
// enrollments cannot be cancelled again.
func (s *InscriptionService) Cancel(ctx context.Context, inscriptionID, stagiaireID string, callerRole models.UserRole) (*models.Inscription, error) {
	if !Allowed(OpInscriptionCancel, callerRole) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the owning stagiaire may cancel an enrollment")
	}
	inscription, err := s.repo.FindByID(ctx, inscriptionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if inscription.StagiaireID != stagiaireID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "enrollment belongs to another stagiaire")
	}
	if inscription.Statut == models.InscriptionAnnulee {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "enrollment already cancelled")
	}
	if err := s.repo.UpdateStatut(ctx, inscriptionID, models.InscriptionAnnulee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel enrollment")
	}
	s.invalidate(ctx, stagiaireID)
	return s.reload(ctx, inscriptionID)
}

// List returns enrollments matching the filter with a total count.
func (s *InscriptionService) List(ctx context.Context, filter models.InscriptionFilter) ([]models.InscriptionDetail, int, error) {
	inscriptions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return inscriptions, total, nil
}

// Get returns one enrollment with display attributes.
func (s *InscriptionService) Get(ctx context.Context, inscriptionID string) (*models.InscriptionDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, inscriptionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return detail, nil
}

func (s *InscriptionService) invalidate(ctx context.Context, stagiaireID string) {
	if s.visibility == nil {
		return
	}
	s.visibility.InvalidateStagiaire(ctx, stagiaireID)
}

func (s *InscriptionService) reload(ctx context.Context, inscriptionID string) (*models.Inscription, error) {
	inscription, err := s.repo.FindByID(ctx, inscriptionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return inscription, nil
}
