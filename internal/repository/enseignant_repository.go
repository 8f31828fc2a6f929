package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/idrissziadi/formation-api/internal/models"
)

// EnseignantRepository handles persistence of teacher profiles.
type EnseignantRepository struct {
	db *sqlx.DB
}

// NewEnseignantRepository constructs the repository.
func NewEnseignantRepository(db *sqlx.DB) *EnseignantRepository {
	return &EnseignantRepository{db: db}
}

// FindByID returns an enseignant by its ID.
func (r *EnseignantRepository) FindByID(ctx context.Context, id string) (*models.Enseignant, error) {
	const query = `SELECT id, utilisateur_id, nom_fr, nom_ar, prenom_fr, prenom_ar, etablissement_formation_id, created_at, updated_at
        FROM enseignants WHERE id = $1`
	var enseignant models.Enseignant
	if err := r.db.GetContext(ctx, &enseignant, query, id); err != nil {
		return nil, err
	}
	return &enseignant, nil
}

// FindByUtilisateur returns the enseignant profile attached to an account.
func (r *EnseignantRepository) FindByUtilisateur(ctx context.Context, utilisateurID string) (*models.Enseignant, error) {
	const query = `SELECT id, utilisateur_id, nom_fr, nom_ar, prenom_fr, prenom_ar, etablissement_formation_id, created_at, updated_at
        FROM enseignants WHERE utilisateur_id = $1`
	var enseignant models.Enseignant
	if err := r.db.GetContext(ctx, &enseignant, query, utilisateurID); err != nil {
		return nil, err
	}
	return &enseignant, nil
}

// ListByEtablissement returns the teacher roster of a formation institution.
func (r *EnseignantRepository) ListByEtablissement(ctx context.Context, etablissementID string) ([]models.Enseignant, error) {
	const query = `SELECT id, utilisateur_id, nom_fr, nom_ar, prenom_fr, prenom_ar, etablissement_formation_id, created_at, updated_at
        FROM enseignants WHERE etablissement_formation_id = $1 ORDER BY nom_fr, prenom_fr`
	var enseignants []models.Enseignant
	if err := r.db.SelectContext(ctx, &enseignants, query, etablissementID); err != nil {
		return nil, fmt.Errorf("list enseignants: %w", err)
	}
	return enseignants, nil
}
