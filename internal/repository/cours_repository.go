package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/idrissziadi/formation-api/internal/models"
)

// CoursRepository handles persistence of courses.
type CoursRepository struct {
	db *sqlx.DB
}

// NewCoursRepository constructs the repository.
func NewCoursRepository(db *sqlx.DB) *CoursRepository {
	return &CoursRepository{db: db}
}

// FindByID returns a course by its ID.
func (r *CoursRepository) FindByID(ctx context.Context, id string) (*models.Cours, error) {
	const query = `SELECT id, module_id, enseignant_id, code, titre_fr, titre_ar, fichier_pdf, statut, observation, created_at, updated_at
        FROM cours WHERE id = $1`
	var cours models.Cours
	if err := r.db.GetContext(ctx, &cours, query, id); err != nil {
		return nil, err
	}
	return &cours, nil
}

// FindDetailByID returns a course with module and teacher info.
func (r *CoursRepository) FindDetailByID(ctx context.Context, id string) (*models.CoursDetail, error) {
	const query = `SELECT c.id, c.module_id, c.enseignant_id, c.code, c.titre_fr, c.titre_ar, c.fichier_pdf, c.statut, c.observation, c.created_at, c.updated_at,
        m.name_fr AS module_name_fr, m.name_ar AS module_name_ar,
        e.nom_fr AS enseignant_nom_fr, e.prenom_fr AS enseignant_prenom_fr
        FROM cours c
        LEFT JOIN modules m ON m.id = c.module_id
        LEFT JOIN enseignants e ON e.id = c.enseignant_id
        WHERE c.id = $1`
	var detail models.CoursDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create persists a new course in its implicit draft condition.
func (r *CoursRepository) Create(ctx context.Context, cours *models.Cours) error {
	if cours.ID == "" {
		cours.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	cours.CreatedAt = now
	cours.UpdatedAt = now
	const query = `INSERT INTO cours (id, module_id, enseignant_id, code, titre_fr, titre_ar, fichier_pdf, statut, observation, created_at, updated_at)
        VALUES (:id, :module_id, :enseignant_id, :code, :titre_fr, :titre_ar, :fichier_pdf, :statut, :observation, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, cours); err != nil {
		return fmt.Errorf("create cours: %w", err)
	}
	return nil
}

// UpdateStatut performs the single-row status write of a transition.
func (r *CoursRepository) UpdateStatut(ctx context.Context, id string, statut models.CoursStatut, observation string) error {
	const query = `UPDATE cours SET statut = $2, observation = $3, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, statut, observation); err != nil {
		return fmt.Errorf("update cours statut: %w", err)
	}
	return nil
}

// UpdateFichier stores the uploaded PDF path verbatim on the record.
func (r *CoursRepository) UpdateFichier(ctx context.Context, id, fichier string) error {
	const query = `UPDATE cours SET fichier_pdf = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, fichier); err != nil {
		return fmt.Errorf("update cours fichier: %w", err)
	}
	return nil
}

// ListAcceptedByModules returns accepted courses over the visible module set,
// joined with display attributes, most recent first.
func (r *CoursRepository) ListAcceptedByModules(ctx context.Context, moduleIDs []string) ([]models.CoursDetail, error) {
	if len(moduleIDs) == 0 {
		return []models.CoursDetail{}, nil
	}
	placeholders := make([]string, len(moduleIDs))
	args := make([]interface{}, 0, len(moduleIDs)+1)
	for i, id := range moduleIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}
	args = append(args, models.CoursAccepte)
	query := fmt.Sprintf(`SELECT c.id, c.module_id, c.enseignant_id, c.code, c.titre_fr, c.titre_ar, c.fichier_pdf, c.statut, c.observation, c.created_at, c.updated_at,
        m.name_fr AS module_name_fr, m.name_ar AS module_name_ar,
        e.nom_fr AS enseignant_nom_fr, e.prenom_fr AS enseignant_prenom_fr
        FROM cours c
        LEFT JOIN modules m ON m.id = c.module_id
        LEFT JOIN enseignants e ON e.id = c.enseignant_id
        WHERE c.module_id IN (%s) AND c.statut = $%d
        ORDER BY c.created_at DESC`, strings.Join(placeholders, ","), len(moduleIDs)+1)
	var cours []models.CoursDetail
	if err := r.db.SelectContext(ctx, &cours, query, args...); err != nil {
		return nil, fmt.Errorf("list accepted cours: %w", err)
	}
	return cours, nil
}

// ListByEnseignant returns every course authored by the teacher, newest first.
func (r *CoursRepository) ListByEnseignant(ctx context.Context, enseignantID string) ([]models.CoursDetail, error) {
	const query = `SELECT c.id, c.module_id, c.enseignant_id, c.code, c.titre_fr, c.titre_ar, c.fichier_pdf, c.statut, c.observation, c.created_at, c.updated_at,
        m.name_fr AS module_name_fr, m.name_ar AS module_name_ar,
        e.nom_fr AS enseignant_nom_fr, e.prenom_fr AS enseignant_prenom_fr
        FROM cours c
        LEFT JOIN modules m ON m.id = c.module_id
        LEFT JOIN enseignants e ON e.id = c.enseignant_id
        WHERE c.enseignant_id = $1
        ORDER BY c.created_at DESC`
	var cours []models.CoursDetail
	if err := r.db.SelectContext(ctx, &cours, query, enseignantID); err != nil {
		return nil, fmt.Errorf("list cours by enseignant: %w", err)
	}
	return cours, nil
}

// ListPendingByRegion returns submitted courses awaiting review for the
// institutions supervised by a region, oldest submission first.
func (r *CoursRepository) ListPendingByRegion(ctx context.Context, regionaleID string) ([]models.CoursDetail, error) {
	const query = `SELECT c.id, c.module_id, c.enseignant_id, c.code, c.titre_fr, c.titre_ar, c.fichier_pdf, c.statut, c.observation, c.created_at, c.updated_at,
        m.name_fr AS module_name_fr, m.name_ar AS module_name_ar,
        e.nom_fr AS enseignant_nom_fr, e.prenom_fr AS enseignant_prenom_fr
        FROM cours c
        LEFT JOIN modules m ON m.id = c.module_id
        LEFT JOIN enseignants e ON e.id = c.enseignant_id
        LEFT JOIN etablissements_formation ef ON ef.id = e.etablissement_formation_id
        WHERE ef.etablissement_regionale_id = $1 AND c.statut = $2
        ORDER BY c.updated_at ASC`
	var cours []models.CoursDetail
	if err := r.db.SelectContext(ctx, &cours, query, regionaleID, models.CoursEnAttente); err != nil {
		return nil, fmt.Errorf("list pending cours by region: %w", err)
	}
	return cours, nil
}
