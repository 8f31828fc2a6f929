package models

import "time"

// InscriptionStatut is the lifecycle status of an enrollment. The Arabic
// literals are the stored comparison values, not display labels.
type InscriptionStatut string

const (
	InscriptionEnAttente InscriptionStatut = "في_الانتظار"
	InscriptionAcceptee  InscriptionStatut = "مقبول"
	InscriptionRefusee   InscriptionStatut = "مرفوض"
	InscriptionAnnulee   InscriptionStatut = "ملغي"
)

// ValidInscriptionStatut reports whether the literal is a known status.
func ValidInscriptionStatut(s InscriptionStatut) bool {
	switch s {
	case InscriptionEnAttente, InscriptionAcceptee, InscriptionRefusee, InscriptionAnnulee:
		return true
	}
	return false
}

// Inscription records a trainee's registration against one offer. One logical
// enrollment exists per (stagiaire, offre) pair.
type Inscription struct {
	ID          string            `db:"id" json:"id"`
	StagiaireID string            `db:"stagiaire_id" json:"stagiaire_id"`
	OffreID     string            `db:"offre_id" json:"offre_id"`
	Statut      InscriptionStatut `db:"statut" json:"statut"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

// InscriptionDetail enriches Inscription with stagiaire and offer info.
type InscriptionDetail struct {
	Inscription
	StagiaireNomFr    string `db:"stagiaire_nom_fr" json:"stagiaire_nom_fr"`
	StagiairePrenomFr string `db:"stagiaire_prenom_fr" json:"stagiaire_prenom_fr"`
	OffreDesignation  string `db:"offre_designation" json:"offre_designation"`
	SpecialiteNameFr  string `db:"specialite_name_fr" json:"specialite_name_fr"`
}

// InscriptionFilter provides filters for listing enrollments.
type InscriptionFilter struct {
	StagiaireID string
	OffreID     string
	Statut      InscriptionStatut
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
