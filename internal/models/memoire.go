package models

import "time"

// MemoireStatut is the lifecycle status of a memoire. The supervising teacher
// only ever decides between مقبول and مرفوض; the remaining states bracket the
// preparation and defense phases.
type MemoireStatut string

const (
	MemoireEnPreparation MemoireStatut = "قيد_التحضير"
	MemoireEnAttente     MemoireStatut = "في_الانتظار"
	MemoireAccepte       MemoireStatut = "مقبول"
	MemoireRefuse        MemoireStatut = "مرفوض"
	MemoireSoutenu       MemoireStatut = "تمت_المناقشة"
)

// ValidMemoireDecision reports whether the literal is a valid supervisor
// decision. Anything else, including transliterations, is a validation
// failure before any write.
func ValidMemoireDecision(s MemoireStatut) bool {
	return s == MemoireAccepte || s == MemoireRefuse
}

// Memoire is a trainee's final dissertation supervised by one enseignant.
type Memoire struct {
	ID           string        `db:"id" json:"id"`
	StagiaireID  string        `db:"stagiaire_id" json:"stagiaire_id"`
	EnseignantID string        `db:"enseignant_id" json:"enseignant_id"`
	TitreFr      string        `db:"titre_fr" json:"titre_fr"`
	TitreAr      string        `db:"titre_ar" json:"titre_ar"`
	FichierPDF   string        `db:"fichier_pdf" json:"fichier_pdf,omitempty"`
	Statut       MemoireStatut `db:"statut" json:"statut"`
	Observation  string        `db:"observation" json:"observation,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// MemoireDetail joins stagiaire and supervisor display attributes.
type MemoireDetail struct {
	Memoire
	StagiaireNomFr     string `db:"stagiaire_nom_fr" json:"stagiaire_nom_fr"`
	StagiairePrenomFr  string `db:"stagiaire_prenom_fr" json:"stagiaire_prenom_fr"`
	EnseignantNomFr    string `db:"enseignant_nom_fr" json:"enseignant_nom_fr"`
	EnseignantPrenomFr string `db:"enseignant_prenom_fr" json:"enseignant_prenom_fr"`
}

// MemoireFilter captures supported filters for listing memoires.
type MemoireFilter struct {
	StagiaireID  string
	EnseignantID string
	Statut       *MemoireStatut
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
