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

// InscriptionRepository handles persistence of enrollments.
type InscriptionRepository struct {
	db *sqlx.DB
}

// NewInscriptionRepository constructs the repository.
func NewInscriptionRepository(db *sqlx.DB) *InscriptionRepository {
	return &InscriptionRepository{db: db}
}

// List returns enrollments filtered by the provided criteria.
func (r *InscriptionRepository) List(ctx context.Context, filter models.InscriptionFilter) ([]models.InscriptionDetail, int, error) {
	base := `FROM inscriptions i
LEFT JOIN stagiaires st ON st.id = i.stagiaire_id
LEFT JOIN offres o ON o.id = i.offre_id
LEFT JOIN specialites s ON s.id = o.specialite_id`
	var conditions []string
	var args []interface{}

	if filter.StagiaireID != "" {
		conditions = append(conditions, fmt.Sprintf("i.stagiaire_id = $%d", len(args)+1))
		args = append(args, filter.StagiaireID)
	}
	if filter.OffreID != "" {
		conditions = append(conditions, fmt.Sprintf("i.offre_id = $%d", len(args)+1))
		args = append(args, filter.OffreID)
	}
	if filter.Statut != "" {
		conditions = append(conditions, fmt.Sprintf("i.statut = $%d", len(args)+1))
		args = append(args, filter.Statut)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"created_at":     "i.created_at",
		"stagiaire_name": "st.nom_fr",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "i.created_at"
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

	query := fmt.Sprintf(`SELECT i.id, i.stagiaire_id, i.offre_id, i.statut, i.created_at, i.updated_at,
        st.nom_fr AS stagiaire_nom_fr, st.prenom_fr AS stagiaire_prenom_fr,
        o.designation_fr AS offre_designation, s.name_fr AS specialite_name_fr
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base+clause, orderBy, order, size, offset)

	var inscriptions []models.InscriptionDetail
	if err := r.db.SelectContext(ctx, &inscriptions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list inscriptions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count inscriptions: %w", err)
	}
	return inscriptions, total, nil
}

// FindByID returns an enrollment by its ID.
func (r *InscriptionRepository) FindByID(ctx context.Context, id string) (*models.Inscription, error) {
	const query = `SELECT id, stagiaire_id, offre_id, statut, created_at, updated_at FROM inscriptions WHERE id = $1`
	var inscription models.Inscription
	if err := r.db.GetContext(ctx, &inscription, query, id); err != nil {
		return nil, err
	}
	return &inscription, nil
}

// FindDetailByID returns an enrollment with contextual info.
func (r *InscriptionRepository) FindDetailByID(ctx context.Context, id string) (*models.InscriptionDetail, error) {
	const query = `SELECT i.id, i.stagiaire_id, i.offre_id, i.statut, i.created_at, i.updated_at,
        st.nom_fr AS stagiaire_nom_fr, st.prenom_fr AS stagiaire_prenom_fr,
        o.designation_fr AS offre_designation, s.name_fr AS specialite_name_fr
        FROM inscriptions i
        LEFT JOIN stagiaires st ON st.id = i.stagiaire_id
        LEFT JOIN offres o ON o.id = i.offre_id
        LEFT JOIN specialites s ON s.id = o.specialite_id
        WHERE i.id = $1`
	var detail models.InscriptionDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Exists checks whether the (stagiaire, offre) pair already has an enrollment
// that has not been cancelled.
func (r *InscriptionRepository) Exists(ctx context.Context, stagiaireID, offreID string) (bool, error) {
	const query = `SELECT 1 FROM inscriptions WHERE stagiaire_id = $1 AND offre_id = $2 AND statut <> $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, stagiaireID, offreID, models.InscriptionAnnulee); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check inscription: %w", err)
	}
	return true, nil
}

// Create persists a new enrollment record.
func (r *InscriptionRepository) Create(ctx context.Context, inscription *models.Inscription) error {
	if inscription.ID == "" {
		inscription.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if inscription.CreatedAt.IsZero() {
		inscription.CreatedAt = now
	}
	inscription.UpdatedAt = now
	if inscription.Statut == "" {
		inscription.Statut = models.InscriptionEnAttente
	}
	const query = `INSERT INTO inscriptions (id, stagiaire_id, offre_id, statut, created_at, updated_at)
        VALUES (:id, :stagiaire_id, :offre_id, :statut, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, inscription); err != nil {
		return fmt.Errorf("create inscription: %w", err)
	}
	return nil
}

// UpdateStatut updates the lifecycle status of an enrollment.
func (r *InscriptionRepository) UpdateStatut(ctx context.Context, id string, statut models.InscriptionStatut) error {
	const query = `UPDATE inscriptions SET statut = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, statut); err != nil {
		return fmt.Errorf("update inscription statut: %w", err)
	}
	return nil
}

// ListOffreIDsByStagiaire returns the distinct offer ids of every enrollment
// row for the trainee, with no status filter applied.
func (r *InscriptionRepository) ListOffreIDsByStagiaire(ctx context.Context, stagiaireID string) ([]string, error) {
	const query = `SELECT DISTINCT offre_id FROM inscriptions WHERE stagiaire_id = $1`
	var offreIDs []string
	if err := r.db.SelectContext(ctx, &offreIDs, query, stagiaireID); err != nil {
		return nil, fmt.Errorf("list offre ids by stagiaire: %w", err)
	}
	return offreIDs, nil
}
