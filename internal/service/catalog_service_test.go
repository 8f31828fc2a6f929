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

type mockCatalogRepo struct {
	branches    map[string]*models.Branche
	specialites map[string]*models.Specialite
	modules     map[string]*models.Module
}

func (m *mockCatalogRepo) ListBranches(ctx context.Context) ([]models.Branche, error) {
	var out []models.Branche
	for _, b := range m.branches {
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockCatalogRepo) FindBrancheByID(ctx context.Context, id string) (*models.Branche, error) {
	if b, ok := m.branches[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCatalogRepo) CreateBranche(ctx context.Context, branche *models.Branche) error {
	if branche.ID == "" {
		branche.ID = uuid.NewString()
	}
	copied := *branche
	m.branches[branche.ID] = &copied
	return nil
}

func (m *mockCatalogRepo) UpdateBranche(ctx context.Context, branche *models.Branche) error {
	if _, ok := m.branches[branche.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *branche
	m.branches[branche.ID] = &copied
	return nil
}

func (m *mockCatalogRepo) BrancheReferenced(ctx context.Context, brancheID string) (bool, error) {
	for _, sp := range m.specialites {
		if sp.BrancheID == brancheID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCatalogRepo) ListSpecialites(ctx context.Context, brancheID string) ([]models.Specialite, error) {
	var out []models.Specialite
	for _, sp := range m.specialites {
		if brancheID == "" || sp.BrancheID == brancheID {
			out = append(out, *sp)
		}
	}
	return out, nil
}

func (m *mockCatalogRepo) FindSpecialiteByID(ctx context.Context, id string) (*models.Specialite, error) {
	if sp, ok := m.specialites[id]; ok {
		copied := *sp
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCatalogRepo) CreateSpecialite(ctx context.Context, specialite *models.Specialite) error {
	if specialite.ID == "" {
		specialite.ID = uuid.NewString()
	}
	copied := *specialite
	m.specialites[specialite.ID] = &copied
	return nil
}

func (m *mockCatalogRepo) ListModules(ctx context.Context, specialiteID string) ([]models.Module, error) {
	var out []models.Module
	for _, mod := range m.modules {
		if specialiteID == "" || mod.SpecialiteID == specialiteID {
			out = append(out, *mod)
		}
	}
	return out, nil
}

func (m *mockCatalogRepo) FindModuleByID(ctx context.Context, id string) (*models.Module, error) {
	if mod, ok := m.modules[id]; ok {
		copied := *mod
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCatalogRepo) CreateModule(ctx context.Context, module *models.Module) error {
	if module.ID == "" {
		module.ID = uuid.NewString()
	}
	copied := *module
	m.modules[module.ID] = &copied
	return nil
}

func newCatalogFixture() (*CatalogService, *mockCatalogRepo) {
	repo := &mockCatalogRepo{
		branches: map[string]*models.Branche{
			"b1": {ID: "b1", Code: "INF", NameFr: "Informatique"},
			"b2": {ID: "b2", Code: "ELN", NameFr: "Electronique"},
		},
		specialites: map[string]*models.Specialite{
			"sp1": {ID: "sp1", BrancheID: "b1", Code: "DEV", NameFr: "Developpement"},
		},
		modules: map[string]*models.Module{
			"m1": {ID: "m1", SpecialiteID: "sp1", Code: "ALG", NameFr: "Algorithmique"},
		},
	}
	svc := NewCatalogService(repo, validator.New(), zap.NewNop())
	return svc, repo
}

func TestCatalogCreateBranche(t *testing.T) {
	svc, repo := newCatalogFixture()

	branche, err := svc.CreateBranche(context.Background(), CreateBrancheRequest{Code: "MEC", NameFr: "Mecanique"})
	require.NoError(t, err)
	assert.NotEmpty(t, branche.ID)
	assert.Equal(t, "MEC", repo.branches[branche.ID].Code)
}

func TestCatalogUpdateBrancheFrozenWhenReferenced(t *testing.T) {
	svc, repo := newCatalogFixture()

	_, err := svc.UpdateBranche(context.Background(), "b1", CreateBrancheRequest{Code: "INF2", NameFr: "Informatique et reseaux"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidState))
	assert.Equal(t, "INF", repo.branches["b1"].Code)
}

func TestCatalogUpdateBrancheUnreferenced(t *testing.T) {
	svc, repo := newCatalogFixture()

	branche, err := svc.UpdateBranche(context.Background(), "b2", CreateBrancheRequest{Code: "ELT", NameFr: "Electrotechnique"})
	require.NoError(t, err)
	assert.Equal(t, "ELT", branche.Code)
	assert.Equal(t, "Electrotechnique", repo.branches["b2"].NameFr)
}

func TestCatalogCreateSpecialiteRequiresBranche(t *testing.T) {
	svc, _ := newCatalogFixture()

	_, err := svc.CreateSpecialite(context.Background(), CreateSpecialiteRequest{
		BrancheID: "missing",
		Code:      "RES",
		NameFr:    "Reseaux",
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))

	specialite, err := svc.CreateSpecialite(context.Background(), CreateSpecialiteRequest{
		BrancheID: "b1",
		Code:      "RES",
		NameFr:    "Reseaux",
	})
	require.NoError(t, err)
	assert.Equal(t, "b1", specialite.BrancheID)
}

func TestCatalogCreateModuleRequiresSpecialite(t *testing.T) {
	svc, _ := newCatalogFixture()

	_, err := svc.CreateModule(context.Background(), CreateModuleRequest{
		SpecialiteID: "missing",
		Code:         "BD",
		NameFr:       "Bases de donnees",
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))

	module, err := svc.CreateModule(context.Background(), CreateModuleRequest{
		SpecialiteID: "sp1",
		Code:         "BD",
		NameFr:       "Bases de donnees",
	})
	require.NoError(t, err)
	assert.Equal(t, "sp1", module.SpecialiteID)
}

func TestCatalogListModulesScoped(t *testing.T) {
	svc, _ := newCatalogFixture()

	modules, err := svc.ListModules(context.Background(), "sp1")
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, "m1", modules[0].ID)

	empty, err := svc.ListModules(context.Background(), "sp-none")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCatalogCreateBrancheValidation(t *testing.T) {
	svc, _ := newCatalogFixture()

	_, err := svc.CreateBranche(context.Background(), CreateBrancheRequest{NameFr: "Sans code"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}
