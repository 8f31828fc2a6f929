package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/idrissziadi/formation-api/internal/models"
	appErrors "github.com/idrissziadi/formation-api/pkg/errors"
)

type mockEnrollmentReader struct {
	offresByStagiaire map[string][]string
	calls             int
}

func (m *mockEnrollmentReader) ListOffreIDsByStagiaire(ctx context.Context, stagiaireID string) ([]string, error) {
	m.calls++
	return m.offresByStagiaire[stagiaireID], nil
}

type mockCurriculumReader struct {
	modulesByOffre    map[string][]string
	specialitesByEtab map[string][]string
	lastOffreIDs      []string
	lastEtablissement string
}

func (m *mockCurriculumReader) ListModuleIDsByOffres(ctx context.Context, offreIDs []string) ([]string, error) {
	m.lastOffreIDs = offreIDs
	seen := map[string]struct{}{}
	var out []string
	for _, offreID := range offreIDs {
		for _, moduleID := range m.modulesByOffre[offreID] {
			if _, ok := seen[moduleID]; ok {
				continue
			}
			seen[moduleID] = struct{}{}
			out = append(out, moduleID)
		}
	}
	return out, nil
}

func (m *mockCurriculumReader) ListSpecialiteIDsByEtablissement(ctx context.Context, etablissementID string) ([]string, error) {
	m.lastEtablissement = etablissementID
	return m.specialitesByEtab[etablissementID], nil
}

type mockModuleCatalog struct {
	modules map[string]models.Module
}

func (m *mockModuleCatalog) ListModulesBySpecialites(ctx context.Context, specialiteIDs []string) ([]models.Module, error) {
	var out []models.Module
	for _, mod := range m.modules {
		for _, sp := range specialiteIDs {
			if mod.SpecialiteID == sp {
				out = append(out, mod)
			}
		}
	}
	return out, nil
}

func (m *mockModuleCatalog) FindModuleByID(ctx context.Context, id string) (*models.Module, error) {
	mod, ok := m.modules[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := mod
	return &copied, nil
}

func (m *mockModuleCatalog) ListModulesByIDs(ctx context.Context, moduleIDs []string) ([]models.Module, error) {
	var out []models.Module
	for _, id := range moduleIDs {
		if mod, ok := m.modules[id]; ok {
			out = append(out, mod)
		}
	}
	return out, nil
}

type mockAcceptedCours struct {
	byModule     map[string][]models.CoursDetail
	byEnseignant map[string][]models.CoursDetail
}

func (m *mockAcceptedCours) ListAcceptedByModules(ctx context.Context, moduleIDs []string) ([]models.CoursDetail, error) {
	var out []models.CoursDetail
	for _, id := range moduleIDs {
		out = append(out, m.byModule[id]...)
	}
	return out, nil
}

func (m *mockAcceptedCours) ListByEnseignant(ctx context.Context, enseignantID string) ([]models.CoursDetail, error) {
	return m.byEnseignant[enseignantID], nil
}

type mockAcceptedProgrammes struct {
	byModule map[string][]models.ProgrammeDetail
}

func (m *mockAcceptedProgrammes) ListAcceptedByModules(ctx context.Context, moduleIDs []string) ([]models.ProgrammeDetail, error) {
	var out []models.ProgrammeDetail
	for _, id := range moduleIDs {
		out = append(out, m.byModule[id]...)
	}
	return out, nil
}

type mockStagiaireReader struct {
	stagiaires map[string]*models.Stagiaire
}

func (m *mockStagiaireReader) FindByID(ctx context.Context, id string) (*models.Stagiaire, error) {
	if s, ok := m.stagiaires[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type mockEnseignantReader struct {
	enseignants map[string]*models.Enseignant
}

func (m *mockEnseignantReader) FindByID(ctx context.Context, id string) (*models.Enseignant, error) {
	if e, ok := m.enseignants[id]; ok {
		return e, nil
	}
	return nil, sql.ErrNoRows
}

type mockVisibilityCache struct {
	entries map[string][]string
	sets    int
	deletes []string
}

func (m *mockVisibilityCache) Get(ctx context.Context, key string, dest interface{}) error {
	v, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*(dest.(*[]string)) = v
	return nil
}

func (m *mockVisibilityCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string][]string)
	}
	m.entries[key] = value.([]string)
	m.sets++
	return nil
}

func (m *mockVisibilityCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deletes = append(m.deletes, pattern)
	for k := range m.entries {
		delete(m.entries, k)
	}
	return nil
}

func newVisibilityFixture() (*VisibilityService, *mockEnrollmentReader, *mockCurriculumReader, *mockVisibilityCache) {
	inscriptions := &mockEnrollmentReader{offresByStagiaire: map[string][]string{
		"st1": {"o1", "o2"},
		"st2": {},
	}}
	offres := &mockCurriculumReader{
		modulesByOffre: map[string][]string{
			"o1": {"m1", "m2"},
			"o2": {"m2", "m3"},
		},
		specialitesByEtab: map[string][]string{
			"etab1": {"sp1"},
		},
	}
	catalog := &mockModuleCatalog{modules: map[string]models.Module{
		"m1": {ID: "m1", SpecialiteID: "sp1", Code: "M1"},
		"m2": {ID: "m2", SpecialiteID: "sp1", Code: "M2"},
		"m3": {ID: "m3", SpecialiteID: "sp2", Code: "M3"},
	}}
	cours := &mockAcceptedCours{
		byModule: map[string][]models.CoursDetail{
			"m1": {{Cours: models.Cours{ID: "c1", ModuleID: "m1", Statut: models.CoursAccepte}}},
		},
		byEnseignant: map[string][]models.CoursDetail{
			"en1": {{Cours: models.Cours{ID: "c9", Statut: models.CoursBrouillon}}},
		},
	}
	programmes := &mockAcceptedProgrammes{byModule: map[string][]models.ProgrammeDetail{
		"m3": {{Programme: models.Programme{ID: "p1", ModuleID: "m3", Statut: models.ProgrammeAccepte}}},
	}}
	stagiaires := &mockStagiaireReader{stagiaires: map[string]*models.Stagiaire{
		"st1": {ID: "st1"},
		"st2": {ID: "st2"},
	}}
	enseignants := &mockEnseignantReader{enseignants: map[string]*models.Enseignant{
		"en1": {ID: "en1", EtablissementFormationID: "etab1"},
	}}
	cache := &mockVisibilityCache{}

	svc := NewVisibilityService(inscriptions, offres, catalog, cours, programmes, stagiaires, enseignants, cache, time.Minute, zap.NewNop())
	return svc, inscriptions, offres, cache
}

func TestVisibleModulesResolvesThroughEnrollments(t *testing.T) {
	svc, _, offres, cache := newVisibilityFixture()

	moduleIDs, err := svc.VisibleModules(context.Background(), "st1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"m1", "m2", "m3"}, moduleIDs)
	assert.ElementsMatch(t, []string{"o1", "o2"}, offres.lastOffreIDs)
	assert.Equal(t, 1, cache.sets)
}

func TestVisibleModulesEmptyWithoutEnrollments(t *testing.T) {
	svc, _, _, cache := newVisibilityFixture()

	moduleIDs, err := svc.VisibleModules(context.Background(), "st2")
	require.NoError(t, err)
	assert.Empty(t, moduleIDs)
	assert.Zero(t, cache.sets)
}

func TestVisibleModulesUnknownStagiaire(t *testing.T) {
	svc, _, _, _ := newVisibilityFixture()

	_, err := svc.VisibleModules(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestVisibleModulesServedFromCache(t *testing.T) {
	svc, inscriptions, _, _ := newVisibilityFixture()

	_, err := svc.VisibleModules(context.Background(), "st1")
	require.NoError(t, err)
	_, err = svc.VisibleModules(context.Background(), "st1")
	require.NoError(t, err)
	assert.Equal(t, 1, inscriptions.calls)
}

func TestInvalidateStagiaireDropsCachedSet(t *testing.T) {
	svc, inscriptions, _, _ := newVisibilityFixture()

	_, err := svc.VisibleModules(context.Background(), "st1")
	require.NoError(t, err)
	svc.InvalidateStagiaire(context.Background(), "st1")
	_, err = svc.VisibleModules(context.Background(), "st1")
	require.NoError(t, err)
	assert.Equal(t, 2, inscriptions.calls)
}

func TestVisibleCoursesOnlyAcceptedOverVisibleModules(t *testing.T) {
	svc, _, _, _ := newVisibilityFixture()

	cours, err := svc.VisibleCourses(context.Background(), "st1")
	require.NoError(t, err)
	require.Len(t, cours, 1)
	assert.Equal(t, "c1", cours[0].ID)

	empty, err := svc.VisibleCourses(context.Background(), "st2")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestVisibleProgrammesFollowsModuleSet(t *testing.T) {
	svc, _, _, _ := newVisibilityFixture()

	programmes, err := svc.VisibleProgrammes(context.Background(), "st1")
	require.NoError(t, err)
	require.Len(t, programmes, 1)
	assert.Equal(t, "p1", programmes[0].ID)
}

func TestTeacherModulesResolveThroughInstitutionSpecialties(t *testing.T) {
	svc, _, offres, _ := newVisibilityFixture()

	modules, err := svc.TeacherModules(context.Background(), "en1")
	require.NoError(t, err)
	assert.Equal(t, "etab1", offres.lastEtablissement)

	var ids []string
	for _, m := range modules {
		ids = append(ids, m.ID)
	}
	// sp1 carries m1 and m2; m3 belongs to sp2 and stays out even though a
	// trainee of the same institution can reach it through an offer.
	assert.ElementsMatch(t, []string{"m1", "m2"}, ids)
}

func TestTeacherCoursesIncludeAllStatuses(t *testing.T) {
	svc, _, _, _ := newVisibilityFixture()

	cours, err := svc.TeacherCourses(context.Background(), "en1")
	require.NoError(t, err)
	require.Len(t, cours, 1)
	assert.Equal(t, models.CoursBrouillon, cours[0].Statut)
}
