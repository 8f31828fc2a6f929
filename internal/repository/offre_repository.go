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

// OffreRepository persists offers and their curriculum associations.
type OffreRepository struct {
	db *sqlx.DB
}

// NewOffreRepository constructs the repository.
func NewOffreRepository(db *sqlx.DB) *OffreRepository {
	return &OffreRepository{db: db}
}

// List returns offers filtered by the provided criteria.
func (r *OffreRepository) List(ctx context.Context, filter models.OffreFilter) ([]models.OffreDetail, int, error) {
	base := `FROM offres o
LEFT JOIN specialites s ON s.id = o.specialite_id
LEFT JOIN etablissements_formation ef ON ef.id = o.etablissement_formation_id
LEFT JOIN diplomes d ON d.id = o.diplome_id
LEFT JOIN modes_formation m ON m.id = o.mode_id`
	var conditions []string
	var args []interface{}

	if filter.SpecialiteID != "" {
		conditions = append(conditions, fmt.Sprintf("o.specialite_id = $%d", len(args)+1))
		args = append(args, filter.SpecialiteID)
	}
	if filter.EtablissementFormationID != "" {
		conditions = append(conditions, fmt.Sprintf("o.etablissement_formation_id = $%d", len(args)+1))
		args = append(args, filter.EtablissementFormationID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(o.designation_fr ILIKE $%d OR o.designation_ar ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"designation": "o.designation_fr",
		"date_debut":  "o.date_debut",
		"created_at":  "o.created_at",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "o.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT o.id, o.specialite_id, o.diplome_id, o.mode_id, o.etablissement_formation_id,
        o.designation_fr, o.designation_ar, o.date_debut, o.date_fin, o.created_at, o.updated_at,
        s.name_fr AS specialite_name_fr, s.name_ar AS specialite_name_ar,
        ef.name_fr AS etablissement_name_fr, d.code AS diplome_code, m.code AS mode_code
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base+clause, orderBy, order, size, offset)

	var offres []models.OffreDetail
	if err := r.db.SelectContext(ctx, &offres, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list offres: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count offres: %w", err)
	}
	return offres, total, nil
}

// FindByID returns an offer by its ID.
func (r *OffreRepository) FindByID(ctx context.Context, id string) (*models.Offre, error) {
	const query = `SELECT id, specialite_id, diplome_id, mode_id, etablissement_formation_id,
        designation_fr, designation_ar, date_debut, date_fin, created_at, updated_at
        FROM offres WHERE id = $1`
	var offre models.Offre
	if err := r.db.GetContext(ctx, &offre, query, id); err != nil {
		return nil, err
	}
	return &offre, nil
}

// Create persists a new offer.
func (r *OffreRepository) Create(ctx context.Context, offre *models.Offre) error {
	if offre.ID == "" {
		offre.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	offre.CreatedAt = now
	offre.UpdatedAt = now
	const query = `INSERT INTO offres (id, specialite_id, diplome_id, mode_id, etablissement_formation_id,
        designation_fr, designation_ar, date_debut, date_fin, created_at, updated_at)
        VALUES (:id, :specialite_id, :diplome_id, :mode_id, :etablissement_formation_id,
        :designation_fr, :designation_ar, :date_debut, :date_fin, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, offre); err != nil {
		return fmt.Errorf("create offre: %w", err)
	}
	return nil
}

// AttachModule records a module in the offer's curriculum.
func (r *OffreRepository) AttachModule(ctx context.Context, offreID, moduleID string) error {
	const query = `INSERT INTO offre_modules (offre_id, module_id, created_at) VALUES ($1, $2, NOW())`
	if _, err := r.db.ExecContext(ctx, query, offreID, moduleID); err != nil {
		return fmt.Errorf("attach module: %w", err)
	}
	return nil
}

// DetachModule removes a module from the offer's curriculum.
func (r *OffreRepository) DetachModule(ctx context.Context, offreID, moduleID string) error {
	const query = `DELETE FROM offre_modules WHERE offre_id = $1 AND module_id = $2`
	if _, err := r.db.ExecContext(ctx, query, offreID, moduleID); err != nil {
		return fmt.Errorf("detach module: %w", err)
	}
	return nil
}

// ModuleAttached reports whether the curriculum already declares the module.
func (r *OffreRepository) ModuleAttached(ctx context.Context, offreID, moduleID string) (bool, error) {
	const query = `SELECT 1 FROM offre_modules WHERE offre_id = $1 AND module_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, offreID, moduleID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check offre module: %w", err)
	}
	return true, nil
}

// ListModuleIDsByOffres returns the distinct module ids declared by the given
// offers' curricula. An empty offer set short-circuits to an empty result.
func (r *OffreRepository) ListModuleIDsByOffres(ctx context.Context, offreIDs []string) ([]string, error) {
	if len(offreIDs) == 0 {
		return []string{}, nil
	}
	placeholders := make([]string, len(offreIDs))
	args := make([]interface{}, len(offreIDs))
	for i, id := range offreIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT DISTINCT module_id FROM offre_modules WHERE offre_id IN (%s)`, strings.Join(placeholders, ","))
	var moduleIDs []string
	if err := r.db.SelectContext(ctx, &moduleIDs, query, args...); err != nil {
		return nil, fmt.Errorf("list module ids by offres: %w", err)
	}
	return moduleIDs, nil
}

// ListSpecialiteIDsByEtablissement returns the distinct specialties referenced
// by an institution's offers.
func (r *OffreRepository) ListSpecialiteIDsByEtablissement(ctx context.Context, etablissementID string) ([]string, error) {
	const query = `SELECT DISTINCT specialite_id FROM offres WHERE etablissement_formation_id = $1`
	var specialiteIDs []string
	if err := r.db.SelectContext(ctx, &specialiteIDs, query, etablissementID); err != nil {
		return nil, fmt.Errorf("list specialite ids by etablissement: %w", err)
	}
	return specialiteIDs, nil
}
