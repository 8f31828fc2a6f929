package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/idrissziadi/formation-api/internal/models"
	appErrors "github.com/idrissziadi/formation-api/pkg/errors"
)

type mockCoursRepo struct {
	cours         map[string]*models.Cours
	statusUpdates int
}

func (m *mockCoursRepo) FindByID(ctx context.Context, id string) (*models.Cours, error) {
	if c, ok := m.cours[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCoursRepo) FindDetailByID(ctx context.Context, id string) (*models.CoursDetail, error) {
	c, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.CoursDetail{Cours: *c}, nil
}

func (m *mockCoursRepo) Create(ctx context.Context, cours *models.Cours) error {
	if cours.ID == "" {
		cours.ID = uuid.NewString()
	}
	copied := *cours
	m.cours[cours.ID] = &copied
	return nil
}

func (m *mockCoursRepo) UpdateStatut(ctx context.Context, id string, statut models.CoursStatut, observation string) error {
	c, ok := m.cours[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.Statut = statut
	c.Observation = observation
	m.statusUpdates++
	return nil
}

func (m *mockCoursRepo) UpdateFichier(ctx context.Context, id, fichier string) error {
	c, ok := m.cours[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.FichierPDF = fichier
	return nil
}

func (m *mockCoursRepo) ListPendingByRegion(ctx context.Context, regionaleID string) ([]models.CoursDetail, error) {
	var out []models.CoursDetail
	for _, c := range m.cours {
		if c.Statut == models.CoursEnAttente {
			out = append(out, models.CoursDetail{Cours: *c})
		}
	}
	return out, nil
}

type mockCoursModules struct {
	modules map[string]*models.Module
}

func (m *mockCoursModules) FindModuleByID(ctx context.Context, id string) (*models.Module, error) {
	if mod, ok := m.modules[id]; ok {
		return mod, nil
	}
	return nil, sql.ErrNoRows
}

func newCoursFixture() (*CoursService, *mockCoursRepo) {
	repo := &mockCoursRepo{cours: map[string]*models.Cours{
		"c-draft":    {ID: "c-draft", ModuleID: "m1", EnseignantID: "en1", Statut: models.CoursBrouillon},
		"c-pending":  {ID: "c-pending", ModuleID: "m1", EnseignantID: "en1", Statut: models.CoursEnAttente},
		"c-accepted": {ID: "c-accepted", ModuleID: "m1", EnseignantID: "en1", Statut: models.CoursAccepte},
		"c-rejected": {ID: "c-rejected", ModuleID: "m1", EnseignantID: "en1", Statut: models.CoursRefuse},
	}}
	modules := &mockCoursModules{modules: map[string]*models.Module{
		"m1": {ID: "m1", SpecialiteID: "sp1"},
	}}
	enseignants := &mockEnseignantReader{enseignants: map[string]*models.Enseignant{
		"en1": {ID: "en1", EtablissementFormationID: "etab1"},
		"en2": {ID: "en2", EtablissementFormationID: "etab1"},
	}}
	svc := NewCoursService(repo, modules, enseignants, validator.New(), zap.NewNop())
	return svc, repo
}

func TestCoursCreateStartsAsDraft(t *testing.T) {
	svc, repo := newCoursFixture()

	detail, err := svc.Create(context.Background(), CreateCoursRequest{
		ModuleID: "m1",
		Code:     "C-100",
		TitreFr:  "Algorithmique",
	}, "en1")
	require.NoError(t, err)
	assert.Equal(t, models.CoursBrouillon, detail.Statut)
	assert.Equal(t, "en1", repo.cours[detail.ID].EnseignantID)
}

func TestCoursCreateUnknownModule(t *testing.T) {
	svc, _ := newCoursFixture()

	_, err := svc.Create(context.Background(), CreateCoursRequest{
		ModuleID: "missing",
		Code:     "C-100",
		TitreFr:  "Algorithmique",
	}, "en1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestCoursExportFromDraft(t *testing.T) {
	svc, _ := newCoursFixture()

	cours, err := svc.Export(context.Background(), "c-draft", "en1", models.RoleEnseignant)
	require.NoError(t, err)
	assert.Equal(t, models.CoursEnAttente, cours.Statut)
}

func TestCoursExportAfterRejectionAllowed(t *testing.T) {
	svc, _ := newCoursFixture()

	cours, err := svc.Export(context.Background(), "c-rejected", "en1", models.RoleEnseignant)
	require.NoError(t, err)
	assert.Equal(t, models.CoursEnAttente, cours.Statut)
	assert.Empty(t, cours.Observation)
}

func TestCoursExportTerminalStates(t *testing.T) {
	svc, _ := newCoursFixture()

	_, err := svc.Export(context.Background(), "c-pending", "en1", models.RoleEnseignant)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidState))

	_, err = svc.Export(context.Background(), "c-accepted", "en1", models.RoleEnseignant)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidState))
}

func TestCoursExportAuthorOnly(t *testing.T) {
	svc, _ := newCoursFixture()

	_, err := svc.Export(context.Background(), "c-draft", "en2", models.RoleEnseignant)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))

	_, err = svc.Export(context.Background(), "c-draft", "en1", models.RoleStagiaire)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))
}

func TestCoursReviewAccept(t *testing.T) {
	svc, _ := newCoursFixture()

	cours, err := svc.Review(context.Background(), "c-pending", ReviewCoursRequest{
		Statut:      "مقبول",
		Observation: "conforme au programme",
	}, models.RoleEtablissementRegionale)
	require.NoError(t, err)
	assert.Equal(t, models.CoursAccepte, cours.Statut)
	assert.Equal(t, "conforme au programme", cours.Observation)
}

func TestCoursReviewRejectsBadLiteralBeforeAnyWrite(t *testing.T) {
	svc, repo := newCoursFixture()

	_, err := svc.Review(context.Background(), "c-pending", ReviewCoursRequest{
		Statut: "approved",
	}, models.RoleEtablissementRegionale)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
	assert.Zero(t, repo.statusUpdates)
	assert.Equal(t, models.CoursEnAttente, repo.cours["c-pending"].Statut)
}

func TestCoursReviewRequiresPendingState(t *testing.T) {
	svc, _ := newCoursFixture()

	for _, id := range []string{"c-draft", "c-accepted", "c-rejected"} {
		_, err := svc.Review(context.Background(), id, ReviewCoursRequest{Statut: "مقبول"}, models.RoleEtablissementRegionale)
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidState))
	}
}

func TestCoursReviewRoleEnforced(t *testing.T) {
	svc, _ := newCoursFixture()

	_, err := svc.Review(context.Background(), "c-pending", ReviewCoursRequest{Statut: "مقبول"}, models.RoleEnseignant)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))
}

func TestCoursAttachFichierFrozenOnceAccepted(t *testing.T) {
	svc, _ := newCoursFixture()

	cours, err := svc.AttachFichier(context.Background(), "c-draft", "en1", "cours/abc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "cours/abc.pdf", cours.FichierPDF)

	_, err = svc.AttachFichier(context.Background(), "c-accepted", "en1", "cours/def.pdf")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidState))

	_, err = svc.AttachFichier(context.Background(), "c-draft", "en2", "cours/ghi.pdf")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))
}
