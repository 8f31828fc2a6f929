package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/idrissziadi/formation-api/internal/models"
	appErrors "github.com/idrissziadi/formation-api/pkg/errors"
)

type curriculumPair struct {
	offreID  string
	moduleID string
}

type mockOffreRepo struct {
	offres     map[string]*models.Offre
	curriculum []curriculumPair
}

func (m *mockOffreRepo) List(ctx context.Context, filter models.OffreFilter) ([]models.OffreDetail, int, error) {
	var out []models.OffreDetail
	for _, o := range m.offres {
		out = append(out, models.OffreDetail{Offre: *o})
	}
	return out, len(out), nil
}

func (m *mockOffreRepo) FindByID(ctx context.Context, id string) (*models.Offre, error) {
	if o, ok := m.offres[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockOffreRepo) Create(ctx context.Context, offre *models.Offre) error {
	if offre.ID == "" {
		offre.ID = uuid.NewString()
	}
	copied := *offre
	m.offres[offre.ID] = &copied
	return nil
}

func (m *mockOffreRepo) AttachModule(ctx context.Context, offreID, moduleID string) error {
	m.curriculum = append(m.curriculum, curriculumPair{offreID, moduleID})
	return nil
}

func (m *mockOffreRepo) DetachModule(ctx context.Context, offreID, moduleID string) error {
	for i, p := range m.curriculum {
		if p.offreID == offreID && p.moduleID == moduleID {
			m.curriculum = append(m.curriculum[:i], m.curriculum[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockOffreRepo) ModuleAttached(ctx context.Context, offreID, moduleID string) (bool, error) {
	for _, p := range m.curriculum {
		if p.offreID == offreID && p.moduleID == moduleID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockOffreRepo) ListModuleIDsByOffres(ctx context.Context, offreIDs []string) ([]string, error) {
	var out []string
	for _, id := range offreIDs {
		for _, p := range m.curriculum {
			if p.offreID == id {
				out = append(out, p.moduleID)
			}
		}
	}
	return out, nil
}

type mockFlusher struct {
	flushes int
}

func (m *mockFlusher) InvalidateAll(ctx context.Context) {
	m.flushes++
}

func newOffreFixture() (*OffreService, *mockOffreRepo, *mockFlusher) {
	repo := &mockOffreRepo{
		offres: map[string]*models.Offre{
			"o1": {ID: "o1", SpecialiteID: "sp1", EtablissementFormationID: "etab1"},
		},
		curriculum: []curriculumPair{{"o1", "m1"}},
	}
	catalog := &mockModuleCatalog{modules: map[string]models.Module{
		"m1": {ID: "m1", SpecialiteID: "sp1"},
		"m2": {ID: "m2", SpecialiteID: "sp1"},
		"m3": {ID: "m3", SpecialiteID: "sp2"},
	}}
	flusher := &mockFlusher{}
	svc := NewOffreService(repo, catalog, flusher, validator.New(), zap.NewNop())
	return svc, repo, flusher
}

func TestOffreCreateChecksDateOrder(t *testing.T) {
	svc, _, _ := newOffreFixture()

	debut := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	fin := debut.AddDate(0, -1, 0)
	_, err := svc.Create(context.Background(), CreateOffreRequest{
		SpecialiteID:  "sp1",
		DiplomeID:     "d1",
		ModeID:        "md1",
		DesignationFr: "Session automne",
		DateDebut:     &debut,
		DateFin:       &fin,
	}, "etab1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestOffreCreateBindsInstitution(t *testing.T) {
	svc, repo, _ := newOffreFixture()

	offre, err := svc.Create(context.Background(), CreateOffreRequest{
		SpecialiteID:  "sp1",
		DiplomeID:     "d1",
		ModeID:        "md1",
		DesignationFr: "Session automne",
	}, "etab1")
	require.NoError(t, err)
	assert.Equal(t, "etab1", repo.offres[offre.ID].EtablissementFormationID)
}

func TestOffreAttachModuleFlushesVisibility(t *testing.T) {
	svc, repo, flusher := newOffreFixture()

	err := svc.AttachModule(context.Background(), "o1", "m2", "etab1")
	require.NoError(t, err)
	assert.Equal(t, 1, flusher.flushes)
	attached, _ := repo.ModuleAttached(context.Background(), "o1", "m2")
	assert.True(t, attached)
}

func TestOffreAttachModuleUnknownModule(t *testing.T) {
	svc, _, flusher := newOffreFixture()

	err := svc.AttachModule(context.Background(), "o1", "m-missing", "etab1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
	assert.Zero(t, flusher.flushes)
}

func TestOffreAttachModuleCrossSpecialtyRefused(t *testing.T) {
	svc, _, flusher := newOffreFixture()

	err := svc.AttachModule(context.Background(), "o1", "m3", "etab1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
	assert.Zero(t, flusher.flushes)
}

func TestOffreAttachModuleDuplicateConflict(t *testing.T) {
	svc, _, flusher := newOffreFixture()

	err := svc.AttachModule(context.Background(), "o1", "m1", "etab1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConflict))
	assert.Zero(t, flusher.flushes)
}

func TestOffreAttachModuleOwnerOnly(t *testing.T) {
	svc, _, _ := newOffreFixture()

	err := svc.AttachModule(context.Background(), "o1", "m2", "etab2")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))
}

func TestOffreDetachModule(t *testing.T) {
	svc, _, flusher := newOffreFixture()

	err := svc.DetachModule(context.Background(), "o1", "m1", "etab1")
	require.NoError(t, err)
	assert.Equal(t, 1, flusher.flushes)

	err = svc.DetachModule(context.Background(), "o1", "m1", "etab1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
	assert.Equal(t, 1, flusher.flushes)
}

func TestOffreListModules(t *testing.T) {
	svc, _, _ := newOffreFixture()

	modules, err := svc.ListModules(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, "m1", modules[0].ID)
}

func TestOffreListModulesEmptyCurriculum(t *testing.T) {
	svc, repo, _ := newOffreFixture()

	repo.curriculum = nil
	modules, err := svc.ListModules(context.Background(), "o1")
	require.NoError(t, err)
	assert.Empty(t, modules)
}
