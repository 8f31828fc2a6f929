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

type memoireRepository interface {
	FindByID(ctx context.Context, id string) (*models.Memoire, error)
	FindDetailByID(ctx context.Context, id string) (*models.MemoireDetail, error)
	Create(ctx context.Context, memoire *models.Memoire) error
	UpdateStatut(ctx context.Context, id string, statut models.MemoireStatut, observation string) error
	UpdateContent(ctx context.Context, id, titreFr, titreAr, fichier string) error
	ListByStagiaire(ctx context.Context, stagiaireID string) ([]models.MemoireDetail, error)
	ListByEnseignant(ctx context.Context, enseignantID string) ([]models.MemoireDetail, error)
}

// CreateMemoireRequest describes memoire creation payload.
type CreateMemoireRequest struct {
	StagiaireID  string `json:"stagiaire_id" validate:"required"`
	EnseignantID string `json:"enseignant_id" validate:"required"`
	TitreFr      string `json:"titre_fr" validate:"required"`
	TitreAr      string `json:"titre_ar"`
}

// ValidateMemoireRequest carries the supervisor decision.
type ValidateMemoireRequest struct {
	Statut      string `json:"statut" validate:"required"`
	Observation string `json:"observation"`
}

// UpdateMemoireContentRequest carries editable memoire content.
type UpdateMemoireContentRequest struct {
	TitreFr    string `json:"titre_fr" validate:"required"`
	TitreAr    string `json:"titre_ar"`
	FichierPDF string `json:"fichier_pdf"`
}

// MemoireService governs the dissertation lifecycle from preparation through
// supervisor decision to defense.
type MemoireService struct {
	repo        memoireRepository
	stagiaires  stagiaireReader
	enseignants enseignantReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewMemoireService constructs MemoireService.
func NewMemoireService(repo memoireRepository, stagiaires stagiaireReader, enseignants enseignantReader, validate *validator.Validate, logger *zap.Logger) *MemoireService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoireService{repo: repo, stagiaires: stagiaires, enseignants: enseignants, validator: validate, logger: logger}
}

// Create opens a memoire in preparation for the given trainee under the
// given supervisor.
func (s *MemoireService) Create(ctx context.Context, req CreateMemoireRequest) (*models.MemoireDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid memoire payload")
	}
	if _, err := s.stagiaires.FindByID(ctx, req.StagiaireID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "stagiaire not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stagiaire")
	}
	if _, err := s.enseignants.FindByID(ctx, req.EnseignantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enseignant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enseignant")
	}
	memoire := &models.Memoire{
		StagiaireID:  req.StagiaireID,
		EnseignantID: req.EnseignantID,
		TitreFr:      req.TitreFr,
		TitreAr:      req.TitreAr,
		Statut:       models.MemoireEnPreparation,
	}
	if err := s.repo.Create(ctx, memoire); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create memoire")
	}
	detail, err := s.repo.FindDetailByID(ctx, memoire.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load memoire detail")
	}
	return detail, nil
}

// Submit hands the memoire to the supervisor for review. Only the owning
// trainee may submit, and only from the preparation or rejected state.
func (s *MemoireService) Submit(ctx context.Context, memoireID, stagiaireID string, callerRole models.UserRole) (*models.Memoire, error) {
	if !Allowed(OpMemoireSubmit, callerRole) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the owning stagiaire may submit a memoire")
	}
	memoire, err := s.findOwned(ctx, memoireID, stagiaireID)
	if err != nil {
		return nil, err
	}
	switch memoire.Statut {
	case models.MemoireEnPreparation, models.MemoireRefuse:
	default:
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "memoire is not in a submittable state")
	}
	if err := s.repo.UpdateStatut(ctx, memoireID, models.MemoireEnAttente, ""); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit memoire")
	}
	return s.reload(ctx, memoireID)
}

// Validate applies the supervisor decision. The decision literal is checked
// before any state is read or written; only a memoire awaiting review can be
// decided.
func (s *MemoireService) Validate(ctx context.Context, memoireID, enseignantID string, req ValidateMemoireRequest, callerRole models.UserRole) (*models.Memoire, error) {
	if !Allowed(OpMemoireValidate, callerRole) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the supervising enseignant may decide a memoire")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}
	decision := models.MemoireStatut(req.Statut)
	if !models.ValidMemoireDecision(decision) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "statut must be مقبول or مرفوض")
	}
	memoire, err := s.repo.FindByID(ctx, memoireID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "memoire not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load memoire")
	}
	if memoire.EnseignantID != enseignantID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "memoire is supervised by another enseignant")
	}
	if memoire.Statut != models.MemoireEnAttente {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "memoire is not awaiting review")
	}
	if err := s.repo.UpdateStatut(ctx, memoireID, decision, req.Observation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update memoire status")
	}
	return s.reload(ctx, memoireID)
}

// MarkDefended records a completed defense. Only an accepted memoire can be
// defended, and only by its supervisor.
func (s *MemoireService) MarkDefended(ctx context.Context, memoireID, enseignantID string, callerRole models.UserRole) (*models.Memoire, error) {
	if !Allowed(OpMemoireDefend, callerRole) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the supervising enseignant may record a defense")
	}
	memoire, err := s.repo.FindByID(ctx, memoireID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "memoire not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load memoire")
	}
	if memoire.EnseignantID != enseignantID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "memoire is supervised by another enseignant")
	}
	if memoire.Statut != models.MemoireAccepte {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "only an accepted memoire can be defended")
	}
	if err := s.repo.UpdateStatut(ctx, memoireID, models.MemoireSoutenu, memoire.Observation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record defense")
	}
	return s.reload(ctx, memoireID)
}

// UpdateContent edits title and file while the memoire is still workable.
// Once accepted or defended the content is frozen and the stored record is
// left untouched.
func (s *MemoireService) UpdateContent(ctx context.Context, memoireID, stagiaireID string, req UpdateMemoireContentRequest, callerRole models.UserRole) (*models.Memoire, error) {
	if !Allowed(OpMemoireEditContent, callerRole) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the owning stagiaire may edit a memoire")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid memoire content")
	}
	memoire, err := s.findOwned(ctx, memoireID, stagiaireID)
	if err != nil {
		return nil, err
	}
	switch memoire.Statut {
	case models.MemoireAccepte, models.MemoireSoutenu:
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "accepted memoire content is frozen")
	}
	fichier := req.FichierPDF
	if fichier == "" {
		fichier = memoire.FichierPDF
	}
	if err := s.repo.UpdateContent(ctx, memoireID, req.TitreFr, req.TitreAr, fichier); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update memoire content")
	}
	return s.reload(ctx, memoireID)
}

// Get returns one memoire.
func (s *MemoireService) Get(ctx context.Context, memoireID string) (*models.Memoire, error) {
	memoire, err := s.repo.FindByID(ctx, memoireID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "memoire not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load memoire")
	}
	return memoire, nil
}

// ListByStagiaire returns the trainee's memoires.
func (s *MemoireService) ListByStagiaire(ctx context.Context, stagiaireID string) ([]models.MemoireDetail, error) {
	memoires, err := s.repo.ListByStagiaire(ctx, stagiaireID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list memoires")
	}
	return memoires, nil
}

// ListByEnseignant returns the memoires a supervisor oversees.
func (s *MemoireService) ListByEnseignant(ctx context.Context, enseignantID string) ([]models.MemoireDetail, error) {
	memoires, err := s.repo.ListByEnseignant(ctx, enseignantID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list memoires")
	}
	return memoires, nil
}

func (s *MemoireService) findOwned(ctx context.Context, memoireID, stagiaireID string) (*models.Memoire, error) {
	memoire, err := s.repo.FindByID(ctx, memoireID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "memoire not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load memoire")
	}
	if memoire.StagiaireID != stagiaireID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "memoire belongs to another stagiaire")
	}
	return memoire, nil
}

func (s *MemoireService) reload(ctx context.Context, memoireID string) (*models.Memoire, error) {
	memoire, err := s.repo.FindByID(ctx, memoireID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load memoire")
	}
	return memoire, nil
}
