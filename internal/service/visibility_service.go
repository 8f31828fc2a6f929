package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/idrissziadi/formation-api/internal/models"
	appErrors "github.com/idrissziadi/formation-api/pkg/errors"
)

type enrollmentOffreReader interface {
	ListOffreIDsByStagiaire(ctx context.Context, stagiaireID string) ([]string, error)
}

type curriculumReader interface {
	ListModuleIDsByOffres(ctx context.Context, offreIDs []string) ([]string, error)
	ListSpecialiteIDsByEtablissement(ctx context.Context, etablissementID string) ([]string, error)
}

type moduleCatalogReader interface {
	ListModulesBySpecialites(ctx context.Context, specialiteIDs []string) ([]models.Module, error)
	ListModulesByIDs(ctx context.Context, moduleIDs []string) ([]models.Module, error)
}

type acceptedCoursReader interface {
	ListAcceptedByModules(ctx context.Context, moduleIDs []string) ([]models.CoursDetail, error)
	ListByEnseignant(ctx context.Context, enseignantID string) ([]models.CoursDetail, error)
}

type acceptedProgrammeReader interface {
	ListAcceptedByModules(ctx context.Context, moduleIDs []string) ([]models.ProgrammeDetail, error)
}

type stagiaireReader interface {
	FindByID(ctx context.Context, id string) (*models.Stagiaire, error)
}

type enseignantReader interface {
	FindByID(ctx context.Context, id string) (*models.Enseignant, error)
}

// VisibilityCache stores resolved module sets; a nil value disables caching.
type VisibilityCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// VisibilityService computes which modules, courses and programmes an
// identity is entitled to see. It is strictly read-only.
//
// Trainees resolve through Enrollment -> Offre -> OffreModule; teachers
// resolve through their home institution's offers' specialties. The two paths
// are intentionally separate functions: unifying them would silently change
// authorization semantics for one of the roles.
type VisibilityService struct {
	inscriptions enrollmentOffreReader
	offres       curriculumReader
	catalog      moduleCatalogReader
	cours        acceptedCoursReader
	programmes   acceptedProgrammeReader
	stagiaires   stagiaireReader
	enseignants  enseignantReader
	cache        VisibilityCache
	cacheTTL     time.Duration
	logger       *zap.Logger
}

// NewVisibilityService constructs VisibilityService. The cache is optional.
func NewVisibilityService(
	inscriptions enrollmentOffreReader,
	offres curriculumReader,
	catalog moduleCatalogReader,
	cours acceptedCoursReader,
	programmes acceptedProgrammeReader,
	stagiaires stagiaireReader,
	enseignants enseignantReader,
	cache VisibilityCache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *VisibilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &VisibilityService{
		inscriptions: inscriptions,
		offres:       offres,
		catalog:      catalog,
		cours:        cours,
		programmes:   programmes,
		stagiaires:   stagiaires,
		enseignants:  enseignants,
		cache:        cache,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

func visibilityCacheKey(stagiaireID string) string {
	return fmt.Sprintf("visibility:modules:%s", stagiaireID)
}

// VisibleModules resolves the module ids a trainee may see. Every enrollment
// row counts regardless of statut. An empty set at any step is a valid empty
// result, never an error. The steps run as separate queries; an enrollment
// created between them is simply not observed until the next call.
func (s *VisibilityService) VisibleModules(ctx context.Context, stagiaireID string) ([]string, error) {
	if _, err := s.stagiaires.FindByID(ctx, stagiaireID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "stagiaire not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stagiaire")
	}

	if s.cache != nil {
		var cached []string
		if err := s.cache.Get(ctx, visibilityCacheKey(stagiaireID), &cached); err == nil {
			return cached, nil
		}
	}

	offreIDs, err := s.inscriptions.ListOffreIDsByStagiaire(ctx, stagiaireID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	if len(offreIDs) == 0 {
		return []string{}, nil
	}

	moduleIDs, err := s.offres.ListModuleIDsByOffres(ctx, offreIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve curriculum")
	}

	if s.cache != nil && len(moduleIDs) > 0 {
		if err := s.cache.Set(ctx, visibilityCacheKey(stagiaireID), moduleIDs, s.cacheTTL); err != nil {
			s.logger.Warn("visibility cache set failed", zap.String("stagiaire_id", stagiaireID), zap.Error(err))
		}
	}
	return moduleIDs, nil
}

// VisibleCourses returns the accepted courses over the trainee's visible
// module set, newest first. Pending and rejected courses never appear.
func (s *VisibilityService) VisibleCourses(ctx context.Context, stagiaireID string) ([]models.CoursDetail, error) {
	moduleIDs, err := s.VisibleModules(ctx, stagiaireID)
	if err != nil {
		return nil, err
	}
	if len(moduleIDs) == 0 {
		return []models.CoursDetail{}, nil
	}
	cours, err := s.cours.ListAcceptedByModules(ctx, moduleIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return cours, nil
}

// VisibleProgrammes returns the validated programmes over the trainee's
// visible module set.
func (s *VisibilityService) VisibleProgrammes(ctx context.Context, stagiaireID string) ([]models.ProgrammeDetail, error) {
	moduleIDs, err := s.VisibleModules(ctx, stagiaireID)
	if err != nil {
		return nil, err
	}
	if len(moduleIDs) == 0 {
		return []models.ProgrammeDetail{}, nil
	}
	programmes, err := s.programmes.ListAcceptedByModules(ctx, moduleIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programmes")
	}
	return programmes, nil
}

// VisibleModuleDetails resolves the trainee's modules with display fields.
func (s *VisibilityService) VisibleModuleDetails(ctx context.Context, stagiaireID string) ([]models.Module, error) {
	moduleIDs, err := s.VisibleModules(ctx, stagiaireID)
	if err != nil {
		return nil, err
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

// TeacherModules returns the modules a teacher may be assigned to teach:
// every module of every specialty referenced by the home institution's
// offers. This path does not consult OffreModule.
func (s *VisibilityService) TeacherModules(ctx context.Context, enseignantID string) ([]models.Module, error) {
	enseignant, err := s.enseignants.FindByID(ctx, enseignantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enseignant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enseignant")
	}

	specialiteIDs, err := s.offres.ListSpecialiteIDsByEtablissement(ctx, enseignant.EtablissementFormationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve specialties")
	}
	if len(specialiteIDs) == 0 {
		return []models.Module{}, nil
	}

	modules, err := s.catalog.ListModulesBySpecialites(ctx, specialiteIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load modules")
	}
	return modules, nil
}

// TeacherCourses returns every course authored by the teacher, regardless of
// review status.
func (s *VisibilityService) TeacherCourses(ctx context.Context, enseignantID string) ([]models.CoursDetail, error) {
	if _, err := s.enseignants.FindByID(ctx, enseignantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enseignant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enseignant")
	}
	cours, err := s.cours.ListByEnseignant(ctx, enseignantID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return cours, nil
}

// InvalidateStagiaire drops the trainee's cached module set. Callers invoke
// it after enrollment or curriculum writes.
func (s *VisibilityService) InvalidateStagiaire(ctx context.Context, stagiaireID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, visibilityCacheKey(stagiaireID)); err != nil {
		s.logger.Warn("visibility cache invalidation failed", zap.String("stagiaire_id", stagiaireID), zap.Error(err))
	}
}

// InvalidateAll drops every cached module set, used after curriculum edits
// that may affect many trainees.
func (s *VisibilityService) InvalidateAll(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "visibility:modules:*"); err != nil {
		s.logger.Warn("visibility cache flush failed", zap.Error(err))
	}
}
