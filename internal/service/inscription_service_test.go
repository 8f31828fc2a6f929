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

type mockInscriptionRepo struct {
	inscriptions map[string]*models.Inscription
}

func (m *mockInscriptionRepo) List(ctx context.Context, filter models.InscriptionFilter) ([]models.InscriptionDetail, int, error) {
	var out []models.InscriptionDetail
	for _, i := range m.inscriptions {
		out = append(out, models.InscriptionDetail{Inscription: *i})
	}
	return out, len(out), nil
}

func (m *mockInscriptionRepo) FindByID(ctx context.Context, id string) (*models.Inscription, error) {
	if i, ok := m.inscriptions[id]; ok {
		copied := *i
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockInscriptionRepo) FindDetailByID(ctx context.Context, id string) (*models.InscriptionDetail, error) {
	i, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.InscriptionDetail{Inscription: *i}, nil
}

func (m *mockInscriptionRepo) Exists(ctx context.Context, stagiaireID, offreID string) (bool, error) {
	for _, i := range m.inscriptions {
		if i.StagiaireID == stagiaireID && i.OffreID == offreID && i.Statut != models.InscriptionAnnulee {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockInscriptionRepo) Create(ctx context.Context, inscription *models.Inscription) error {
	if inscription.ID == "" {
		inscription.ID = uuid.NewString()
	}
	copied := *inscription
	m.inscriptions[inscription.ID] = &copied
	return nil
}

func (m *mockInscriptionRepo) UpdateStatut(ctx context.Context, id string, statut models.InscriptionStatut) error {
	i, ok := m.inscriptions[id]
	if !ok {
		return sql.ErrNoRows
	}
	i.Statut = statut
	return nil
}

type mockOffreReader struct {
	offres map[string]*models.Offre
}

func (m *mockOffreReader) FindByID(ctx context.Context, id string) (*models.Offre, error) {
	if o, ok := m.offres[id]; ok {
		return o, nil
	}
	return nil, sql.ErrNoRows
}

type mockInvalidator struct {
	invalidated []string
}

func (m *mockInvalidator) InvalidateStagiaire(ctx context.Context, stagiaireID string) {
	m.invalidated = append(m.invalidated, stagiaireID)
}

func newInscriptionFixture() (*InscriptionService, *mockInscriptionRepo, *mockInvalidator) {
	repo := &mockInscriptionRepo{inscriptions: map[string]*models.Inscription{
		"i-pending":   {ID: "i-pending", StagiaireID: "st1", OffreID: "o1", Statut: models.InscriptionEnAttente},
		"i-accepted":  {ID: "i-accepted", StagiaireID: "st1", OffreID: "o2", Statut: models.InscriptionAcceptee},
		"i-cancelled": {ID: "i-cancelled", StagiaireID: "st1", OffreID: "o3", Statut: models.InscriptionAnnulee},
	}}
	offres := &mockOffreReader{offres: map[string]*models.Offre{
		"o1": {ID: "o1", SpecialiteID: "sp1"},
		"o2": {ID: "o2", SpecialiteID: "sp1"},
		"o3": {ID: "o3", SpecialiteID: "sp2"},
	}}
	stagiaires := &mockStagiaireReader{stagiaires: map[string]*models.Stagiaire{
		"st1": {ID: "st1"},
		"st2": {ID: "st2"},
	}}
	invalidator := &mockInvalidator{}
	svc := NewInscriptionService(repo, offres, stagiaires, invalidator, validator.New(), zap.NewNop())
	return svc, repo, invalidator
}

func TestInscriptionRegisterPendingAndInvalidates(t *testing.T) {
	svc, _, invalidator := newInscriptionFixture()

	detail, err := svc.Register(context.Background(), RegisterInscriptionRequest{OffreID: "o1"}, "st2")
	require.NoError(t, err)
	assert.Equal(t, models.InscriptionEnAttente, detail.Statut)
	assert.Equal(t, []string{"st2"}, invalidator.invalidated)
}

func TestInscriptionRegisterDuplicateConflict(t *testing.T) {
	svc, _, invalidator := newInscriptionFixture()

	_, err := svc.Register(context.Background(), RegisterInscriptionRequest{OffreID: "o1"}, "st1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConflict))
	assert.Empty(t, invalidator.invalidated)
}

func TestInscriptionRegisterAfterCancellationAllowed(t *testing.T) {
	svc, _, _ := newInscriptionFixture()

	detail, err := svc.Register(context.Background(), RegisterInscriptionRequest{OffreID: "o3"}, "st1")
	require.NoError(t, err)
	assert.Equal(t, models.InscriptionEnAttente, detail.Statut)
}

func TestInscriptionRegisterUnknownOffre(t *testing.T) {
	svc, _, _ := newInscriptionFixture()

	_, err := svc.Register(context.Background(), RegisterInscriptionRequest{OffreID: "missing"}, "st1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestInscriptionDecideAccept(t *testing.T) {
	svc, _, invalidator := newInscriptionFixture()

	inscription, err := svc.Decide(context.Background(), "i-pending", DecideInscriptionRequest{Statut: "مقبول"}, models.RoleEtablissementFormation)
	require.NoError(t, err)
	assert.Equal(t, models.InscriptionAcceptee, inscription.Statut)
	assert.Equal(t, []string{"st1"}, invalidator.invalidated)
}

func TestInscriptionDecideBadLiteralBeforeAnyWrite(t *testing.T) {
	svc, repo, invalidator := newInscriptionFixture()

	_, err := svc.Decide(context.Background(), "i-pending", DecideInscriptionRequest{Statut: "ملغي"}, models.RoleEtablissementFormation)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
	assert.Equal(t, models.InscriptionEnAttente, repo.inscriptions["i-pending"].Statut)
	assert.Empty(t, invalidator.invalidated)
}

func TestInscriptionDecideRequiresPendingState(t *testing.T) {
	svc, _, _ := newInscriptionFixture()

	for _, id := range []string{"i-accepted", "i-cancelled"} {
		_, err := svc.Decide(context.Background(), id, DecideInscriptionRequest{Statut: "مرفوض"}, models.RoleEtablissementFormation)
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidState))
	}
}

func TestInscriptionDecideRoleEnforced(t *testing.T) {
	svc, _, _ := newInscriptionFixture()

	_, err := svc.Decide(context.Background(), "i-pending", DecideInscriptionRequest{Statut: "مقبول"}, models.RoleStagiaire)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))
}

func TestInscriptionCancelOnceOnly(t *testing.T) {
	svc, repo, invalidator := newInscriptionFixture()

	inscription, err := svc.Cancel(context.Background(), "i-pending", "st1", models.RoleStagiaire)
	require.NoError(t, err)
	assert.Equal(t, models.InscriptionAnnulee, inscription.Statut)
	assert.Equal(t, []string{"st1"}, invalidator.invalidated)

	_, err = svc.Cancel(context.Background(), "i-pending", "st1", models.RoleStagiaire)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidState))
	assert.Len(t, invalidator.invalidated, 1)
	assert.Equal(t, models.InscriptionAnnulee, repo.inscriptions["i-pending"].Statut)
}

func TestInscriptionCancelOwnerOnly(t *testing.T) {
	svc, _, _ := newInscriptionFixture()

	_, err := svc.Cancel(context.Background(), "i-pending", "st2", models.RoleStagiaire)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))
}
