package models

import "time"

// Offre represents a concrete training program instance tied to one
// specialty, one institution, one diploma and one delivery mode.
type Offre struct {
	ID                       string     `db:"id" json:"id"`
	SpecialiteID             string     `db:"specialite_id" json:"specialite_id"`
	DiplomeID                string     `db:"diplome_id" json:"diplome_id"`
	ModeID                   string     `db:"mode_id" json:"mode_id"`
	EtablissementFormationID string     `db:"etablissement_formation_id" json:"etablissement_formation_id"`
	DesignationFr            string     `db:"designation_fr" json:"designation_fr"`
	DesignationAr            string     `db:"designation_ar" json:"designation_ar"`
	DateDebut                *time.Time `db:"date_debut" json:"date_debut,omitempty"`
	DateFin                  *time.Time `db:"date_fin" json:"date_fin,omitempty"`
	CreatedAt                time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time  `db:"updated_at" json:"updated_at"`
}

// OffreDetail enriches Offre with display attributes for listings.
type OffreDetail struct {
	Offre
	SpecialiteNameFr    string `db:"specialite_name_fr" json:"specialite_name_fr"`
	SpecialiteNameAr    string `db:"specialite_name_ar" json:"specialite_name_ar"`
	EtablissementNameFr string `db:"etablissement_name_fr" json:"etablissement_name_fr"`
	DiplomeCode         string `db:"diplome_code" json:"diplome_code"`
	ModeCode            string `db:"mode_code" json:"mode_code"`
}

// OffreModule declares which modules belong to an offer's curriculum.
// Intended invariant: the module's specialite matches the offer's specialite;
// enforced when the association is created, tolerated on read for legacy rows.
type OffreModule struct {
	OffreID   string    `db:"offre_id" json:"offre_id"`
	ModuleID  string    `db:"module_id" json:"module_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// OffreFilter captures supported filters for listing offers.
type OffreFilter struct {
	SpecialiteID             string
	EtablissementFormationID string
	Search                   string
	Page                     int
	PageSize                 int
	SortBy                   string
	SortOrder                string
}
