package service

import (
	"github.com/idrissziadi/formation-api/internal/models"
)

// Operation names a guarded state transition or privileged mutation.
type Operation string

const (
	OpCoursExport        Operation = "cours.export"
	OpCoursReview        Operation = "cours.review"
	OpMemoireSubmit      Operation = "memoire.submit"
	OpMemoireValidate    Operation = "memoire.validate"
	OpMemoireDefend      Operation = "memoire.defend"
	OpMemoireEditContent Operation = "memoire.edit_content"
	OpProgrammeCreate    Operation = "programme.create"
	OpProgrammeEdit      Operation = "programme.edit"
	OpProgrammeValidate  Operation = "programme.validate"
	OpProgrammeReject    Operation = "programme.reject"
	OpInscriptionDecide  Operation = "inscription.decide"
	OpInscriptionCancel  Operation = "inscription.cancel"
)

// transitionPolicy is the single declarative table mapping each operation to
// the roles that hold its transition rights. Every approval service consults
// this table instead of carrying its own role conditionals.
var transitionPolicy = map[Operation]map[models.UserRole]struct{}{
	OpCoursExport: {
		models.RoleEnseignant: {},
	},
	OpCoursReview: {
		models.RoleEtablissementRegionale: {},
	},
	OpMemoireSubmit: {
		models.RoleStagiaire: {},
	},
	OpMemoireValidate: {
		models.RoleEnseignant: {},
	},
	OpMemoireDefend: {
		models.RoleEnseignant: {},
	},
	OpMemoireEditContent: {
		models.RoleStagiaire: {},
	},
	OpProgrammeCreate: {
		models.RoleEtablissementRegionale: {},
	},
	OpProgrammeEdit: {
		models.RoleEtablissementRegionale: {},
	},
	OpProgrammeValidate: {
		models.RoleEtablissementNationale: {},
	},
	OpProgrammeReject: {
		models.RoleEtablissementNationale: {},
	},
	OpInscriptionDecide: {
		models.RoleEtablissementFormation: {},
	},
	OpInscriptionCancel: {
		models.RoleStagiaire: {},
	},
}

// Allowed reports whether the role holds rights for the operation. Unknown
// operations are denied.
func Allowed(op Operation, role models.UserRole) bool {
	roles, ok := transitionPolicy[op]
	if !ok {
		return false
	}
	_, ok = roles[role]
	return ok
}
