package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/idrissziadi/formation-api/internal/models"
)

// EtablissementRepository reads the three institution levels.
type EtablissementRepository struct {
	db *sqlx.DB
}

// NewEtablissementRepository constructs the repository.
func NewEtablissementRepository(db *sqlx.DB) *EtablissementRepository {
	return &EtablissementRepository{db: db}
}

// FindFormationByID returns a local training institution.
func (r *EtablissementRepository) FindFormationByID(ctx context.Context, id string) (*models.EtablissementFormation, error) {
	const query = `SELECT id, code, name_fr, name_ar, etablissement_regionale_id, created_at, updated_at
        FROM etablissements_formation WHERE id = $1`
	var etab models.EtablissementFormation
	if err := r.db.GetContext(ctx, &etab, query, id); err != nil {
		return nil, err
	}
	return &etab, nil
}

// FindRegionaleByID returns a regional institution.
func (r *EtablissementRepository) FindRegionaleByID(ctx context.Context, id string) (*models.EtablissementRegionale, error) {
	const query = `SELECT id, code, name_fr, name_ar, created_at, updated_at
        FROM etablissements_regionale WHERE id = $1`
	var etab models.EtablissementRegionale
	if err := r.db.GetContext(ctx, &etab, query, id); err != nil {
		return nil, err
	}
	return &etab, nil
}

// FindNationaleByID returns the national institution.
func (r *EtablissementRepository) FindNationaleByID(ctx context.Context, id string) (*models.EtablissementNationale, error) {
	const query = `SELECT id, code, name_fr, name_ar, created_at, updated_at
        FROM etablissements_nationale WHERE id = $1`
	var etab models.EtablissementNationale
	if err := r.db.GetContext(ctx, &etab, query, id); err != nil {
		return nil, err
	}
	return &etab, nil
}
