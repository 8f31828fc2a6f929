package handler

import (
	"context"
	"database/sql"
	"errors"

	"github.com/idrissziadi/formation-api/internal/models"
	appErrors "github.com/idrissziadi/formation-api/pkg/errors"
)

type stagiaireDirectory interface {
	FindByUtilisateur(ctx context.Context, utilisateurID string) (*models.Stagiaire, error)
}

type enseignantDirectory interface {
	FindByUtilisateur(ctx context.Context, utilisateurID string) (*models.Enseignant, error)
}

// resolveStagiaire maps the authenticated account to its stagiaire record.
func resolveStagiaire(ctx context.Context, dir stagiaireDirectory, utilisateurID string) (*models.Stagiaire, error) {
	stagiaire, err := dir.FindByUtilisateur(ctx, utilisateurID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "account has no stagiaire profile")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve stagiaire")
	}
	return stagiaire, nil
}

// resolveEnseignant maps the authenticated account to its enseignant record.
func resolveEnseignant(ctx context.Context, dir enseignantDirectory, utilisateurID string) (*models.Enseignant, error) {
	enseignant, err := dir.FindByUtilisateur(ctx, utilisateurID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "account has no enseignant profile")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve enseignant")
	}
	return enseignant, nil
}
