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

type mockMemoireRepo struct {
	memoires      map[string]*models.Memoire
	statusUpdates int
}

func (m *mockMemoireRepo) FindByID(ctx context.Context, id string) (*models.Memoire, error) {
	if mem, ok := m.memoires[id]; ok {
		copied := *mem
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMemoireRepo) FindDetailByID(ctx context.Context, id string) (*models.MemoireDetail, error) {
	mem, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.MemoireDetail{Memoire: *mem}, nil
}

func (m *mockMemoireRepo) Create(ctx context.Context, memoire *models.Memoire) error {
	if memoire.ID == "" {
		memoire.ID = uuid.NewString()
	}
	copied := *memoire
	m.memoires[memoire.ID] = &copied
	return nil
}

func (m *mockMemoireRepo) UpdateStatut(ctx context.Context, id string, statut models.MemoireStatut, observation string) error {
	mem, ok := m.memoires[id]
	if !ok {
		return sql.ErrNoRows
	}
	mem.Statut = statut
	mem.Observation = observation
	m.statusUpdates++
	return nil
}

func (m *mockMemoireRepo) UpdateContent(ctx context.Context, id, titreFr, titreAr, fichier string) error {
	mem, ok := m.memoires[id]
	if !ok {
		return sql.ErrNoRows
	}
	mem.TitreFr = titreFr
	mem.TitreAr = titreAr
	mem.FichierPDF = fichier
	return nil
}

func (m *mockMemoireRepo) ListByStagiaire(ctx context.Context, stagiaireID string) ([]models.MemoireDetail, error) {
	var out []models.MemoireDetail
	for _, mem := range m.memoires {
		if mem.StagiaireID == stagiaireID {
			out = append(out, models.MemoireDetail{Memoire: *mem})
		}
	}
	return out, nil
}

func (m *mockMemoireRepo) ListByEnseignant(ctx context.Context, enseignantID string) ([]models.MemoireDetail, error) {
	var out []models.MemoireDetail
	for _, mem := range m.memoires {
		if mem.EnseignantID == enseignantID {
			out = append(out, models.MemoireDetail{Memoire: *mem})
		}
	}
	return out, nil
}

func newMemoireFixture() (*MemoireService, *mockMemoireRepo) {
	repo := &mockMemoireRepo{memoires: map[string]*models.Memoire{
		"m-prep":     {ID: "m-prep", StagiaireID: "st1", EnseignantID: "en1", TitreFr: "Brouillon", Statut: models.MemoireEnPreparation},
		"m-pending":  {ID: "m-pending", StagiaireID: "st1", EnseignantID: "en1", TitreFr: "Soumis", Statut: models.MemoireEnAttente},
		"m-accepted": {ID: "m-accepted", StagiaireID: "st1", EnseignantID: "en1", TitreFr: "Valide", FichierPDF: "memoires/final.pdf", Statut: models.MemoireAccepte, Observation: "travail solide"},
		"m-rejected": {ID: "m-rejected", StagiaireID: "st1", EnseignantID: "en1", TitreFr: "Refuse", Statut: models.MemoireRefuse},
		"m-defended": {ID: "m-defended", StagiaireID: "st1", EnseignantID: "en1", TitreFr: "Soutenu", Statut: models.MemoireSoutenu},
	}}
	stagiaires := &mockStagiaireReader{stagiaires: map[string]*models.Stagiaire{
		"st1": {ID: "st1"},
	}}
	enseignants := &mockEnseignantReader{enseignants: map[string]*models.Enseignant{
		"en1": {ID: "en1"},
		"en2": {ID: "en2"},
	}}
	svc := NewMemoireService(repo, stagiaires, enseignants, validator.New(), zap.NewNop())
	return svc, repo
}

func TestMemoireCreateStartsInPreparation(t *testing.T) {
	svc, _ := newMemoireFixture()

	detail, err := svc.Create(context.Background(), CreateMemoireRequest{
		StagiaireID:  "st1",
		EnseignantID: "en1",
		TitreFr:      "Reconnaissance optique",
	})
	require.NoError(t, err)
	assert.Equal(t, models.MemoireEnPreparation, detail.Statut)
}

func TestMemoireSubmitFromPreparationAndRejection(t *testing.T) {
	svc, _ := newMemoireFixture()

	memoire, err := svc.Submit(context.Background(), "m-prep", "st1", models.RoleStagiaire)
	require.NoError(t, err)
	assert.Equal(t, models.MemoireEnAttente, memoire.Statut)

	memoire, err = svc.Submit(context.Background(), "m-rejected", "st1", models.RoleStagiaire)
	require.NoError(t, err)
	assert.Equal(t, models.MemoireEnAttente, memoire.Statut)
}

func TestMemoireSubmitInvalidStates(t *testing.T) {
	svc, _ := newMemoireFixture()

	for _, id := range []string{"m-pending", "m-accepted", "m-defended"} {
		_, err := svc.Submit(context.Background(), id, "st1", models.RoleStagiaire)
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidState))
	}
}

func TestMemoireSubmitOwnerOnly(t *testing.T) {
	svc, _ := newMemoireFixture()

	_, err := svc.Submit(context.Background(), "m-prep", "st2", models.RoleStagiaire)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))
}

func TestMemoireValidateAccept(t *testing.T) {
	svc, _ := newMemoireFixture()

	memoire, err := svc.Validate(context.Background(), "m-pending", "en1", ValidateMemoireRequest{
		Statut:      "مقبول",
		Observation: "pret pour la soutenance",
	}, models.RoleEnseignant)
	require.NoError(t, err)
	assert.Equal(t, models.MemoireAccepte, memoire.Statut)
	assert.Equal(t, "pret pour la soutenance", memoire.Observation)
}

func TestMemoireValidateBadLiteralBeforeAnyWrite(t *testing.T) {
	svc, repo := newMemoireFixture()

	_, err := svc.Validate(context.Background(), "m-pending", "en1", ValidateMemoireRequest{
		Statut: "تمت_المناقشة",
	}, models.RoleEnseignant)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
	assert.Zero(t, repo.statusUpdates)
	assert.Equal(t, models.MemoireEnAttente, repo.memoires["m-pending"].Statut)
}

func TestMemoireValidateSupervisorOnly(t *testing.T) {
	svc, _ := newMemoireFixture()

	_, err := svc.Validate(context.Background(), "m-pending", "en2", ValidateMemoireRequest{Statut: "مقبول"}, models.RoleEnseignant)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))
}

func TestMemoireValidateRequiresPendingState(t *testing.T) {
	svc, _ := newMemoireFixture()

	_, err := svc.Validate(context.Background(), "m-accepted", "en1", ValidateMemoireRequest{Statut: "مرفوض"}, models.RoleEnseignant)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidState))
}

func TestMemoireMarkDefendedOnlyFromAccepted(t *testing.T) {
	svc, _ := newMemoireFixture()

	memoire, err := svc.MarkDefended(context.Background(), "m-accepted", "en1", models.RoleEnseignant)
	require.NoError(t, err)
	assert.Equal(t, models.MemoireSoutenu, memoire.Statut)
	assert.Equal(t, "travail solide", memoire.Observation)

	_, err = svc.MarkDefended(context.Background(), "m-pending", "en1", models.RoleEnseignant)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidState))
}

func TestMemoireUpdateContentFrozenOnceAccepted(t *testing.T) {
	svc, repo := newMemoireFixture()

	_, err := svc.UpdateContent(context.Background(), "m-accepted", "st1", UpdateMemoireContentRequest{
		TitreFr: "Titre modifie",
	}, models.RoleStagiaire)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidState))
	assert.Equal(t, "Valide", repo.memoires["m-accepted"].TitreFr)
	assert.Equal(t, "memoires/final.pdf", repo.memoires["m-accepted"].FichierPDF)
}

func TestMemoireUpdateContentKeepsFileWhenOmitted(t *testing.T) {
	svc, repo := newMemoireFixture()

	repo.memoires["m-prep"].FichierPDF = "memoires/v1.pdf"
	memoire, err := svc.UpdateContent(context.Background(), "m-prep", "st1", UpdateMemoireContentRequest{
		TitreFr: "Titre revise",
	}, models.RoleStagiaire)
	require.NoError(t, err)
	assert.Equal(t, "Titre revise", memoire.TitreFr)
	assert.Equal(t, "memoires/v1.pdf", memoire.FichierPDF)
}
