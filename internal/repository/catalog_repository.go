package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/idrissziadi/formation-api/internal/models"
)

// CatalogRepository persists the Branche -> Specialite -> Module taxonomy.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs the repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListBranches returns every branch ordered by code.
func (r *CatalogRepository) ListBranches(ctx context.Context) ([]models.Branche, error) {
	const query = `SELECT id, code, name_fr, name_ar, created_at, updated_at FROM branches ORDER BY code`
	var branches []models.Branche
	if err := r.db.SelectContext(ctx, &branches, query); err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return branches, nil
}

// FindBrancheByID returns a branch by its ID.
func (r *CatalogRepository) FindBrancheByID(ctx context.Context, id string) (*models.Branche, error) {
	const query = `SELECT id, code, name_fr, name_ar, created_at, updated_at FROM branches WHERE id = $1`
	var branche models.Branche
	if err := r.db.GetContext(ctx, &branche, query, id); err != nil {
		return nil, err
	}
	return &branche, nil
}

// CreateBranche persists a new branch.
func (r *CatalogRepository) CreateBranche(ctx context.Context, branche *models.Branche) error {
	if branche.ID == "" {
		branche.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	branche.CreatedAt = now
	branche.UpdatedAt = now
	const query = `INSERT INTO branches (id, code, name_fr, name_ar, created_at, updated_at)
        VALUES (:id, :code, :name_fr, :name_ar, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, branche); err != nil {
		return fmt.Errorf("create branche: %w", err)
	}
	return nil
}

// UpdateBranche rewrites branch attributes. The service layer refuses the
// update once specialties reference the branch.
func (r *CatalogRepository) UpdateBranche(ctx context.Context, branche *models.Branche) error {
	branche.UpdatedAt = time.Now().UTC()
	const query = `UPDATE branches SET code = :code, name_fr = :name_fr, name_ar = :name_ar, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, branche); err != nil {
		return fmt.Errorf("update branche: %w", err)
	}
	return nil
}

// BrancheReferenced reports whether any specialty references the branch.
func (r *CatalogRepository) BrancheReferenced(ctx context.Context, brancheID string) (bool, error) {
	const query = `SELECT 1 FROM specialites WHERE branche_id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, brancheID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check branche references: %w", err)
	}
	return true, nil
}

// ListSpecialites returns specialties, optionally scoped to one branch.
func (r *CatalogRepository) ListSpecialites(ctx context.Context, brancheID string) ([]models.Specialite, error) {
	query := `SELECT id, branche_id, code, name_fr, name_ar, created_at, updated_at FROM specialites`
	var args []interface{}
	if brancheID != "" {
		query += ` WHERE branche_id = $1`
		args = append(args, brancheID)
	}
	query += ` ORDER BY code`
	var specialites []models.Specialite
	if err := r.db.SelectContext(ctx, &specialites, query, args...); err != nil {
		return nil, fmt.Errorf("list specialites: %w", err)
	}
	return specialites, nil
}

// FindSpecialiteByID returns a specialty by its ID.
func (r *CatalogRepository) FindSpecialiteByID(ctx context.Context, id string) (*models.Specialite, error) {
	const query = `SELECT id, branche_id, code, name_fr, name_ar, created_at, updated_at FROM specialites WHERE id = $1`
	var specialite models.Specialite
	if err := r.db.GetContext(ctx, &specialite, query, id); err != nil {
		return nil, err
	}
	return &specialite, nil
}

// CreateSpecialite persists a new specialty.
func (r *CatalogRepository) CreateSpecialite(ctx context.Context, specialite *models.Specialite) error {
	if specialite.ID == "" {
		specialite.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	specialite.CreatedAt = now
	specialite.UpdatedAt = now
	const query = `INSERT INTO specialites (id, branche_id, code, name_fr, name_ar, created_at, updated_at)
        VALUES (:id, :branche_id, :code, :name_fr, :name_ar, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, specialite); err != nil {
		return fmt.Errorf("create specialite: %w", err)
	}
	return nil
}

// ListModules returns modules, optionally scoped to one specialty.
func (r *CatalogRepository) ListModules(ctx context.Context, specialiteID string) ([]models.Module, error) {
	query := `SELECT id, specialite_id, code, name_fr, name_ar, created_at, updated_at FROM modules`
	var args []interface{}
	if specialiteID != "" {
		query += ` WHERE specialite_id = $1`
		args = append(args, specialiteID)
	}
	query += ` ORDER BY code`
	var modules []models.Module
	if err := r.db.SelectContext(ctx, &modules, query, args...); err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	return modules, nil
}

// FindModuleByID returns a module by its ID.
func (r *CatalogRepository) FindModuleByID(ctx context.Context, id string) (*models.Module, error) {
	const query = `SELECT id, specialite_id, code, name_fr, name_ar, created_at, updated_at FROM modules WHERE id = $1`
	var module models.Module
	if err := r.db.GetContext(ctx, &module, query, id); err != nil {
		return nil, err
	}
	return &module, nil
}

// CreateModule persists a new module.
func (r *CatalogRepository) CreateModule(ctx context.Context, module *models.Module) error {
	if module.ID == "" {
		module.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	module.CreatedAt = now
	module.UpdatedAt = now
	const query = `INSERT INTO modules (id, specialite_id, code, name_fr, name_ar, created_at, updated_at)
        VALUES (:id, :specialite_id, :code, :name_fr, :name_ar, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, module); err != nil {
		return fmt.Errorf("create module: %w", err)
	}
	return nil
}

// ListModulesBySpecialites returns modules whose specialty is in the set.
// This is the teacher-side authorization boundary.
func (r *CatalogRepository) ListModulesBySpecialites(ctx context.Context, specialiteIDs []string) ([]models.Module, error) {
	if len(specialiteIDs) == 0 {
		return []models.Module{}, nil
	}
	placeholders := make([]string, len(specialiteIDs))
	args := make([]interface{}, len(specialiteIDs))
	for i, id := range specialiteIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT id, specialite_id, code, name_fr, name_ar, created_at, updated_at
        FROM modules WHERE specialite_id IN (%s) ORDER BY code`, strings.Join(placeholders, ","))
	var modules []models.Module
	if err := r.db.SelectContext(ctx, &modules, query, args...); err != nil {
		return nil, fmt.Errorf("list modules by specialites: %w", err)
	}
	return modules, nil
}

// ListModulesByIDs returns modules for the given id set.
func (r *CatalogRepository) ListModulesByIDs(ctx context.Context, moduleIDs []string) ([]models.Module, error) {
	if len(moduleIDs) == 0 {
		return []models.Module{}, nil
	}
	placeholders := make([]string, len(moduleIDs))
	args := make([]interface{}, len(moduleIDs))
	for i, id := range moduleIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT id, specialite_id, code, name_fr, name_ar, created_at, updated_at
        FROM modules WHERE id IN (%s) ORDER BY code`, strings.Join(placeholders, ","))
	var modules []models.Module
	if err := r.db.SelectContext(ctx, &modules, query, args...); err != nil {
		return nil, fmt.Errorf("list modules by ids: %w", err)
	}
	return modules, nil
}
