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

// ProgrammeRepository handles persistence of programmes.
type ProgrammeRepository struct {
	db *sqlx.DB
}

// NewProgrammeRepository constructs the repository.
func NewProgrammeRepository(db *sqlx.DB) *ProgrammeRepository {
	return &ProgrammeRepository{db: db}
}

// List returns programmes filtered by the provided criteria.
func (r *ProgrammeRepository) List(ctx context.Context, filter models.ProgrammeFilter) ([]models.ProgrammeDetail, int, error) {
	base := `FROM programmes p
LEFT JOIN modules m ON m.id = p.module_id
LEFT JOIN etablissements_regionale er ON er.id = p.etablissement_regionale_id`
	var conditions []string
	var args []interface{}

	if filter.ModuleID != "" {
		conditions = append(conditions, fmt.Sprintf("p.module_id = $%d", len(args)+1))
		args = append(args, filter.ModuleID)
	}
	if filter.EtablissementRegionaleID != "" {
		conditions = append(conditions, fmt.Sprintf("p.etablissement_regionale_id = $%d", len(args)+1))
		args = append(args, filter.EtablissementRegionaleID)
	}
	if filter.Statut != nil {
		conditions = append(conditions, fmt.Sprintf("p.statut = $%d", len(args)+1))
		args = append(args, *filter.Statut)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
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

	query := fmt.Sprintf(`SELECT p.id, p.module_id, p.etablissement_regionale_id, p.code, p.titre_fr, p.titre_ar, p.fichier_pdf, p.statut, p.observation, p.created_at, p.updated_at,
        m.name_fr AS module_name_fr, m.name_ar AS module_name_ar,
        er.name_fr AS regionale_name_fr
        %s ORDER BY p.created_at DESC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var programmes []models.ProgrammeDetail
	if err := r.db.SelectContext(ctx, &programmes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list programmes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count programmes: %w", err)
	}
	return programmes, total, nil
}

// FindByID returns a programme by its ID.
func (r *ProgrammeRepository) FindByID(ctx context.Context, id string) (*models.Programme, error) {
	const query = `SELECT id, module_id, etablissement_regionale_id, code, titre_fr, titre_ar, fichier_pdf, statut, observation, created_at, updated_at
        FROM programmes WHERE id = $1`
	var programme models.Programme
	if err := r.db.GetContext(ctx, &programme, query, id); err != nil {
		return nil, err
	}
	return &programme, nil
}

// FindDetailByID returns a programme with module and region info.
func (r *ProgrammeRepository) FindDetailByID(ctx context.Context, id string) (*models.ProgrammeDetail, error) {
	const query = `SELECT p.id, p.module_id, p.etablissement_regionale_id, p.code, p.titre_fr, p.titre_ar, p.fichier_pdf, p.statut, p.observation, p.created_at, p.updated_at,
        m.name_fr AS module_name_fr, m.name_ar AS module_name_ar,
        er.name_fr AS regionale_name_fr
        FROM programmes p
        LEFT JOIN modules m ON m.id = p.module_id
        LEFT JOIN etablissements_regionale er ON er.id = p.etablissement_regionale_id
        WHERE p.id = $1`
	var detail models.ProgrammeDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create persists a new programme awaiting national review.
func (r *ProgrammeRepository) Create(ctx context.Context, programme *models.Programme) error {
	if programme.ID == "" {
		programme.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	programme.CreatedAt = now
	programme.UpdatedAt = now
	if programme.Statut == "" {
		programme.Statut = models.ProgrammeEnAttente
	}
	const query = `INSERT INTO programmes (id, module_id, etablissement_regionale_id, code, titre_fr, titre_ar, fichier_pdf, statut, observation, created_at, updated_at)
        VALUES (:id, :module_id, :etablissement_regionale_id, :code, :titre_fr, :titre_ar, :fichier_pdf, :statut, :observation, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, programme); err != nil {
		return fmt.Errorf("create programme: %w", err)
	}
	return nil
}

// UpdateStatut performs the single-row status write of a transition.
func (r *ProgrammeRepository) UpdateStatut(ctx context.Context, id string, statut models.ProgrammeStatut, observation string) error {
	const query = `UPDATE programmes SET statut = $2, observation = $3, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, statut, observation); err != nil {
		return fmt.Errorf("update programme statut: %w", err)
	}
	return nil
}

// UpdateContent rewrites the region-editable fields while the programme is
// still pending.
func (r *ProgrammeRepository) UpdateContent(ctx context.Context, id, titreFr, titreAr, fichier string) error {
	const query = `UPDATE programmes SET titre_fr = $2, titre_ar = $3, fichier_pdf = $4, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, titreFr, titreAr, fichier); err != nil {
		return fmt.Errorf("update programme content: %w", err)
	}
	return nil
}

// ListAcceptedByModules returns validated programmes over the visible module
// set, newest first.
func (r *ProgrammeRepository) ListAcceptedByModules(ctx context.Context, moduleIDs []string) ([]models.ProgrammeDetail, error) {
	if len(moduleIDs) == 0 {
		return []models.ProgrammeDetail{}, nil
	}
	placeholders := make([]string, len(moduleIDs))
	args := make([]interface{}, 0, len(moduleIDs)+1)
	for i, id := range moduleIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}
	args = append(args, models.ProgrammeAccepte)
	query := fmt.Sprintf(`SELECT p.id, p.module_id, p.etablissement_regionale_id, p.code, p.titre_fr, p.titre_ar, p.fichier_pdf, p.statut, p.observation, p.created_at, p.updated_at,
        m.name_fr AS module_name_fr, m.name_ar AS module_name_ar,
        er.name_fr AS regionale_name_fr
        FROM programmes p
        LEFT JOIN modules m ON m.id = p.module_id
        LEFT JOIN etablissements_regionale er ON er.id = p.etablissement_regionale_id
        WHERE p.module_id IN (%s) AND p.statut = $%d
        ORDER BY p.created_at DESC`, strings.Join(placeholders, ","), len(moduleIDs)+1)
	var programmes []models.ProgrammeDetail
	if err := r.db.SelectContext(ctx, &programmes, query, args...); err != nil {
		return nil, fmt.Errorf("list accepted programmes: %w", err)
	}
	return programmes, nil
}
