package models

import "time"

// EtablissementFormation is a local training institution. It owns offers and
// manages enrollment decisions for them.
type EtablissementFormation struct {
	ID                       string    `db:"id" json:"id"`
	Code                     string    `db:"code" json:"code"`
	NameFr                   string    `db:"name_fr" json:"name_fr"`
	NameAr                   string    `db:"name_ar" json:"name_ar"`
	EtablissementRegionaleID string    `db:"etablissement_regionale_id" json:"etablissement_regionale_id"`
	CreatedAt                time.Time `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time `db:"updated_at" json:"updated_at"`
}

// EtablissementRegionale supervises formation institutions in a region and
// reviews courses and owns programmes.
type EtablissementRegionale struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	NameFr    string    `db:"name_fr" json:"name_fr"`
	NameAr    string    `db:"name_ar" json:"name_ar"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// EtablissementNationale validates programmes submitted by regions.
type EtablissementNationale struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	NameFr    string    `db:"name_fr" json:"name_fr"`
	NameAr    string    `db:"name_ar" json:"name_ar"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Stagiaire is a trainee profile attached to a user account.
type Stagiaire struct {
	ID                       string    `db:"id" json:"id"`
	UtilisateurID            string    `db:"utilisateur_id" json:"utilisateur_id"`
	NomFr                    string    `db:"nom_fr" json:"nom_fr"`
	NomAr                    string    `db:"nom_ar" json:"nom_ar"`
	PrenomFr                 string    `db:"prenom_fr" json:"prenom_fr"`
	PrenomAr                 string    `db:"prenom_ar" json:"prenom_ar"`
	EtablissementFormationID string    `db:"etablissement_formation_id" json:"etablissement_formation_id"`
	CreatedAt                time.Time `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time `db:"updated_at" json:"updated_at"`
}

// Enseignant is a teacher profile attached to a user account and a home
// formation institution.
type Enseignant struct {
	ID                       string    `db:"id" json:"id"`
	UtilisateurID            string    `db:"utilisateur_id" json:"utilisateur_id"`
	NomFr                    string    `db:"nom_fr" json:"nom_fr"`
	NomAr                    string    `db:"nom_ar" json:"nom_ar"`
	PrenomFr                 string    `db:"prenom_fr" json:"prenom_fr"`
	PrenomAr                 string    `db:"prenom_ar" json:"prenom_ar"`
	EtablissementFormationID string    `db:"etablissement_formation_id" json:"etablissement_formation_id"`
	CreatedAt                time.Time `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time `db:"updated_at" json:"updated_at"`
}
