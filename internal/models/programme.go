package models

import "time"

// ProgrammeStatut is the national review status of a programme.
type ProgrammeStatut string

const (
	ProgrammeEnAttente ProgrammeStatut = "في_الانتظار"
	ProgrammeAccepte   ProgrammeStatut = "مقبول"
	ProgrammeRefuse    ProgrammeStatut = "مرفوض"
)

// ValidProgrammeStatut reports whether the literal is a known status.
func ValidProgrammeStatut(s ProgrammeStatut) bool {
	switch s {
	case ProgrammeEnAttente, ProgrammeAccepte, ProgrammeRefuse:
		return true
	}
	return false
}

// Programme is a curriculum document authored by a regional institution for
// one module and validated by the national institution.
type Programme struct {
	ID                       string          `db:"id" json:"id"`
	ModuleID                 string          `db:"module_id" json:"module_id"`
	EtablissementRegionaleID string          `db:"etablissement_regionale_id" json:"etablissement_regionale_id"`
	Code                     string          `db:"code" json:"code"`
	TitreFr                  string          `db:"titre_fr" json:"titre_fr"`
	TitreAr                  string          `db:"titre_ar" json:"titre_ar"`
	FichierPDF               string          `db:"fichier_pdf" json:"fichier_pdf,omitempty"`
	Statut                   ProgrammeStatut `db:"statut" json:"statut"`
	Observation              string          `db:"observation" json:"observation,omitempty"`
	CreatedAt                time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time       `db:"updated_at" json:"updated_at"`
}

// ProgrammeDetail joins module and region display attributes.
type ProgrammeDetail struct {
	Programme
	ModuleNameFr    string `db:"module_name_fr" json:"module_name_fr"`
	ModuleNameAr    string `db:"module_name_ar" json:"module_name_ar"`
	RegionaleNameFr string `db:"regionale_name_fr" json:"regionale_name_fr"`
}

// ProgrammeFilter captures supported filters for listing programmes.
type ProgrammeFilter struct {
	ModuleID                 string
	EtablissementRegionaleID string
	Statut                   *ProgrammeStatut
	Page                     int
	PageSize                 int
	SortBy                   string
	SortOrder                string
}
