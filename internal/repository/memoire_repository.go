package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/idrissziadi/formation-api/internal/models"
)

// MemoireRepository handles persistence of memoires.
type MemoireRepository struct {
	db *sqlx.DB
}

// NewMemoireRepository constructs the repository.
func NewMemoireRepository(db *sqlx.DB) *MemoireRepository {
	return &MemoireRepository{db: db}
}

// FindByID returns a memoire by its ID.
func (r *MemoireRepository) FindByID(ctx context.Context, id string) (*models.Memoire, error) {
	const query = `SELECT id, stagiaire_id, enseignant_id, titre_fr, titre_ar, fichier_pdf, statut, observation, created_at, updated_at
        FROM memoires WHERE id = $1`
	var memoire models.Memoire
	if err := r.db.GetContext(ctx, &memoire, query, id); err != nil {
		return nil, err
	}
	return &memoire, nil
}

// FindDetailByID returns a memoire with stagiaire and supervisor info.
func (r *MemoireRepository) FindDetailByID(ctx context.Context, id string) (*models.MemoireDetail, error) {
	const query = `SELECT mm.id, mm.stagiaire_id, mm.enseignant_id, mm.titre_fr, mm.titre_ar, mm.fichier_pdf, mm.statut, mm.observation, mm.created_at, mm.updated_at,
        st.nom_fr AS stagiaire_nom_fr, st.prenom_fr AS stagiaire_prenom_fr,
        e.nom_fr AS enseignant_nom_fr, e.prenom_fr AS enseignant_prenom_fr
        FROM memoires mm
        LEFT JOIN stagiaires st ON st.id = mm.stagiaire_id
        LEFT JOIN enseignants e ON e.id = mm.enseignant_id
        WHERE mm.id = $1`
	var detail models.MemoireDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create persists a new memoire on trainee/supervisor pairing.
func (r *MemoireRepository) Create(ctx context.Context, memoire *models.Memoire) error {
	if memoire.ID == "" {
		memoire.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	memoire.CreatedAt = now
	memoire.UpdatedAt = now
	if memoire.Statut == "" {
		memoire.Statut = models.MemoireEnPreparation
	}
	const query = `INSERT INTO memoires (id, stagiaire_id, enseignant_id, titre_fr, titre_ar, fichier_pdf, statut, observation, created_at, updated_at)
        VALUES (:id, :stagiaire_id, :enseignant_id, :titre_fr, :titre_ar, :fichier_pdf, :statut, :observation, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, memoire); err != nil {
		return fmt.Errorf("create memoire: %w", err)
	}
	return nil
}

// UpdateStatut performs the single-row status write of a transition.
func (r *MemoireRepository) UpdateStatut(ctx context.Context, id string, statut models.MemoireStatut, observation string) error {
	const query = `UPDATE memoires SET statut = $2, observation = $3, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, statut, observation); err != nil {
		return fmt.Errorf("update memoire statut: %w", err)
	}
	return nil
}

// UpdateContent rewrites the trainee-editable fields. The service layer
// guards against edits once the memoire is locked.
func (r *MemoireRepository) UpdateContent(ctx context.Context, id, titreFr, titreAr, fichier string) error {
	const query = `UPDATE memoires SET titre_fr = $2, titre_ar = $3, fichier_pdf = $4, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, titreFr, titreAr, fichier); err != nil {
		return fmt.Errorf("update memoire content: %w", err)
	}
	return nil
}

// ListByStagiaire returns the trainee's memoires, newest first.
func (r *MemoireRepository) ListByStagiaire(ctx context.Context, stagiaireID string) ([]models.MemoireDetail, error) {
	const query = `SELECT mm.id, mm.stagiaire_id, mm.enseignant_id, mm.titre_fr, mm.titre_ar, mm.fichier_pdf, mm.statut, mm.observation, mm.created_at, mm.updated_at,
        st.nom_fr AS stagiaire_nom_fr, st.prenom_fr AS stagiaire_prenom_fr,
        e.nom_fr AS enseignant_nom_fr, e.prenom_fr AS enseignant_prenom_fr
        FROM memoires mm
        LEFT JOIN stagiaires st ON st.id = mm.stagiaire_id
        LEFT JOIN enseignants e ON e.id = mm.enseignant_id
        WHERE mm.stagiaire_id = $1
        ORDER BY mm.created_at DESC`
	var memoires []models.MemoireDetail
	if err := r.db.SelectContext(ctx, &memoires, query, stagiaireID); err != nil {
		return nil, fmt.Errorf("list memoires by stagiaire: %w", err)
	}
	return memoires, nil
}

// ListByEnseignant returns the memoires supervised by a teacher, newest first.
func (r *MemoireRepository) ListByEnseignant(ctx context.Context, enseignantID string) ([]models.MemoireDetail, error) {
	const query = `SELECT mm.id, mm.stagiaire_id, mm.enseignant_id, mm.titre_fr, mm.titre_ar, mm.fichier_pdf, mm.statut, mm.observation, mm.created_at, mm.updated_at,
        st.nom_fr AS stagiaire_nom_fr, st.prenom_fr AS stagiaire_prenom_fr,
        e.nom_fr AS enseignant_nom_fr, e.prenom_fr AS enseignant_prenom_fr
        FROM memoires mm
        LEFT JOIN stagiaires st ON st.id = mm.stagiaire_id
        LEFT JOIN enseignants e ON e.id = mm.enseignant_id
        WHERE mm.enseignant_id = $1
        ORDER BY mm.created_at DESC`
	var memoires []models.MemoireDetail
	if err := r.db.SelectContext(ctx, &memoires, query, enseignantID); err != nil {
		return nil, fmt.Errorf("list memoires by enseignant: %w", err)
	}
	return memoires, nil
}
