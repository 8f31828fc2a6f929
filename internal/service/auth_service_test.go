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
	"golang.org/x/crypto/bcrypt"

	"github.com/idrissziadi/formation-api/internal/models"
	"github.com/idrissziadi/formation-api/pkg/config"
	appErrors "github.com/idrissziadi/formation-api/pkg/errors"
)

type mockUserRepo struct {
	users         map[string]*models.User
	refreshTokens map[string]*models.RefreshToken
	lastLogins    int
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLogins++
	return nil
}

func (m *mockUserRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	copied := *token
	m.refreshTokens[token.Token] = &copied
	return nil
}

func (m *mockUserRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if rt, ok := m.refreshTokens[token]; ok {
		return rt, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, rt := range m.refreshTokens {
		if rt.ID == id {
			at := revokedAt
			rt.RevokedAt = &at
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockUserRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	for _, rt := range m.refreshTokens {
		if rt.UserID == userID && rt.RevokedAt == nil {
			at := now
			rt.RevokedAt = &at
		}
	}
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	etab := "etab1"
	repo := &mockUserRepo{
		users: map[string]*models.User{
			"u1": {ID: "u1", Email: "enseignant@exemple.dz", PasswordHash: string(hash), Role: models.RoleEnseignant, Actif: true, EtablissementFormationID: &etab},
			"u2": {ID: "u2", Email: "inactif@exemple.dz", PasswordHash: string(hash), Role: models.RoleStagiaire, Actif: false},
		},
		refreshTokens: map[string]*models.RefreshToken{},
	}
	cfg := config.JWTConfig{
		Secret:            "test-secret",
		Expiration:        time.Hour,
		RefreshExpiration: 24 * time.Hour,
		Issuer:            "formation-api-test",
	}
	svc := NewAuthService(repo, cfg, validator.New(), zap.NewNop())
	return svc, repo
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, repo := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "enseignant@exemple.dz",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, 1, repo.lastLogins)
	assert.Contains(t, repo.refreshTokens, resp.RefreshToken)
}

func TestLoginClaimsCarryInstitutionScope(t *testing.T) {
	svc, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "enseignant@exemple.dz",
		Password: "s3cret",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleEnseignant, claims.Role)
	assert.Equal(t, "etab1", claims.EtablissementFormationID)
	assert.Empty(t, claims.EtablissementRegionaleID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "enseignant@exemple.dz",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidCredentials))
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "inconnu@exemple.dz",
		Password: "s3cret",
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidCredentials))
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "inactif@exemple.dz",
		Password: "s3cret",
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInactiveAccount))
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, repo := newAuthFixture(t)

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "enseignant@exemple.dz",
		Password: "s3cret",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.NotNil(t, repo.refreshTokens[login.RefreshToken].RevokedAt)

	_, err = svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized))
}

func TestRefreshExpiredToken(t *testing.T) {
	svc, repo := newAuthFixture(t)

	repo.refreshTokens["stale"] = &models.RefreshToken{
		ID:        "rt1",
		UserID:    "u1",
		Token:     "stale",
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	_, err := svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: "stale"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized))
}

func TestLogoutRevokesAllTokens(t *testing.T) {
	svc, repo := newAuthFixture(t)

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "enseignant@exemple.dz",
		Password: "s3cret",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), "u1"))
	assert.NotNil(t, repo.refreshTokens[login.RefreshToken].RevokedAt)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.ValidateToken("not-a-jwt")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized))
}
