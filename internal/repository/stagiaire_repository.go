package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/idrissziadi/formation-api/internal/models"
)

// StagiaireRepository handles persistence of trainee profiles.
type StagiaireRepository struct {
	db *sqlx.DB
}

// NewStagiaireRepository constructs the repository.
func NewStagiaireRepository(db *sqlx.DB) *StagiaireRepository {
	return &StagiaireRepository{db: db}
}

// FindByID returns a stagiaire by its ID.
func (r *StagiaireRepository) FindByID(ctx context.Context, id string) (*models.Stagiaire, error) {
	const query = `SELECT id, utilisateur_id, nom_fr, nom_ar, prenom_fr, prenom_ar, etablissement_formation_id, created_at, updated_at
        FROM stagiaires WHERE id = $1`
	var stagiaire models.Stagiaire
	if err := r.db.GetContext(ctx, &stagiaire, query, id); err != nil {
		return nil, err
	}
	return &stagiaire, nil
}

// FindByUtilisateur returns the stagiaire profile attached to an account.
func (r *StagiaireRepository) FindByUtilisateur(ctx context.Context, utilisateurID string) (*models.Stagiaire, error) {
	const query = `SELECT id, utilisateur_id, nom_fr, nom_ar, prenom_fr, prenom_ar, etablissement_formation_id, created_at, updated_at
        FROM stagiaires WHERE utilisateur_id = $1`
	var stagiaire models.Stagiaire
	if err := r.db.GetContext(ctx, &stagiaire, query, utilisateurID); err != nil {
		return nil, err
	}
	return &stagiaire, nil
}

// ListByEtablissement returns the trainee roster of a formation institution.
func (r *StagiaireRepository) ListByEtablissement(ctx context.Context, etablissementID string) ([]models.Stagiaire, error) {
	const query = `SELECT id, utilisateur_id, nom_fr, nom_ar, prenom_fr, prenom_ar, etablissement_formation_id, created_at, updated_at
        FROM stagiaires WHERE etablissement_formation_id = $1 ORDER BY nom_fr, prenom_fr`
	var stagiaires []models.Stagiaire
	if err := r.db.SelectContext(ctx, &stagiaires, query, etablissementID); err != nil {
		return nil, fmt.Errorf("list stagiaires: %w", err)
	}
	return stagiaires, nil
}
