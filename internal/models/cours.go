package models

import "time"

// CoursStatut is the review status of a course. An empty value is the
// implicit draft condition before the teacher exports the course for review.
type CoursStatut string

const (
	CoursBrouillon CoursStatut = ""
	CoursEnAttente CoursStatut = "في_الانتظار"
	CoursAccepte   CoursStatut = "مقبول"
	CoursRefuse    CoursStatut = "مرفوض"
)

// ValidCoursDecision reports whether the literal is a valid review outcome.
func ValidCoursDecision(s CoursStatut) bool {
	return s == CoursAccepte || s == CoursRefuse
}

// Cours is a teaching document authored by an enseignant for one module.
type Cours struct {
	ID           string      `db:"id" json:"id"`
	ModuleID     string      `db:"module_id" json:"module_id"`
	EnseignantID string      `db:"enseignant_id" json:"enseignant_id"`
	Code         string      `db:"code" json:"code"`
	TitreFr      string      `db:"titre_fr" json:"titre_fr"`
	TitreAr      string      `db:"titre_ar" json:"titre_ar"`
	FichierPDF   string      `db:"fichier_pdf" json:"fichier_pdf,omitempty"`
	Statut       CoursStatut `db:"statut" json:"statut"`
	Observation  string      `db:"observation" json:"observation,omitempty"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// CoursDetail joins module and teacher display attributes for presentation.
type CoursDetail struct {
	Cours
	ModuleNameFr       string `db:"module_name_fr" json:"module_name_fr"`
	ModuleNameAr       string `db:"module_name_ar" json:"module_name_ar"`
	EnseignantNomFr    string `db:"enseignant_nom_fr" json:"enseignant_nom_fr"`
	EnseignantPrenomFr string `db:"enseignant_prenom_fr" json:"enseignant_prenom_fr"`
}

// CoursFilter captures supported filters for listing courses.
type CoursFilter struct {
	ModuleID     string
	EnseignantID string
	Statut       *CoursStatut
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
