package models

import "time"

// Branche is the top-level taxonomy node. It becomes immutable once a
// specialty references it.
type Branche struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	NameFr    string    `db:"name_fr" json:"name_fr"`
	NameAr    string    `db:"name_ar" json:"name_ar"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Specialite belongs to exactly one Branche.
type Specialite struct {
	ID        string    `db:"id" json:"id"`
	BrancheID string    `db:"branche_id" json:"branche_id"`
	Code      string    `db:"code" json:"code"`
	NameFr    string    `db:"name_fr" json:"name_fr"`
	NameAr    string    `db:"name_ar" json:"name_ar"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Module is an atomic teaching unit belonging to one Specialite.
type Module struct {
	ID           string    `db:"id" json:"id"`
	SpecialiteID string    `db:"specialite_id" json:"specialite_id"`
	Code         string    `db:"code" json:"code"`
	NameFr       string    `db:"name_fr" json:"name_fr"`
	NameAr       string    `db:"name_ar" json:"name_ar"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Diplome is a lookup entry referenced by offers.
type Diplome struct {
	ID            string `db:"id" json:"id"`
	Code          string `db:"code" json:"code"`
	DesignationFr string `db:"designation_fr" json:"designation_fr"`
	DesignationAr string `db:"designation_ar" json:"designation_ar"`
}

// ModeFormation is a lookup entry for the training delivery mode.
type ModeFormation struct {
	ID            string `db:"id" json:"id"`
	Code          string `db:"code" json:"code"`
	DesignationFr string `db:"designation_fr" json:"designation_fr"`
	DesignationAr string `db:"designation_ar" json:"designation_ar"`
}

// CatalogFilter captures supported filters for catalog listings.
type CatalogFilter struct {
	BrancheID    string
	SpecialiteID string
	Search       string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
