package models

import "time"

// UserRole represents the available roles for the role directory.
type UserRole string

const (
	RoleStagiaire              UserRole = "STAGIAIRE"
	RoleEnseignant             UserRole = "ENSEIGNANT"
	RoleEtablissementFormation UserRole = "ETABLISSEMENT_FORMATION"
	RoleEtablissementRegionale UserRole = "ETABLISSEMENT_REGIONALE"
	RoleEtablissementNationale UserRole = "ETABLISSEMENT_NATIONALE"
)

// User represents an authenticated account stored in the utilisateurs table.
// The nullable etablissement columns scope institution accounts and staff to
// their home institution.
type User struct {
	ID                       string     `db:"id" json:"id"`
	Email                    string     `db:"email" json:"email"`
	PasswordHash             string     `db:"password_hash" json:"-"`
	Role                     UserRole   `db:"role" json:"role"`
	Actif                    bool       `db:"actif" json:"actif"`
	EtablissementFormationID *string    `db:"etablissement_formation_id" json:"etablissement_formation_id,omitempty"`
	EtablissementRegionaleID *string    `db:"etablissement_regionale_id" json:"etablissement_regionale_id,omitempty"`
	LastLogin                *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt                time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time  `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role      *UserRole
	Actif     *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
