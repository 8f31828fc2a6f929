package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/idrissziadi/formation-api/internal/models"
)

func coursDetailColumns() []string {
	return []string{
		"id", "module_id", "enseignant_id", "code", "titre_fr", "titre_ar", "fichier_pdf",
		"statut", "observation", "created_at", "updated_at",
		"module_name_fr", "module_name_ar", "enseignant_nom_fr", "enseignant_prenom_fr",
	}
}

func TestCoursRepositoryUpdateStatut(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCoursRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE cours SET statut = $2, observation = $3, updated_at = NOW() WHERE id = $1")).
		WithArgs("crs-1", models.CoursAccepte, "conforme").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatut(context.Background(), "crs-1", models.CoursAccepte, "conforme")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCoursRepositoryListAcceptedByModules(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCoursRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(coursDetailColumns()).
		AddRow("crs-1", "mod-1", "ens-1", "C-1", "Algorithmique", "الخوارزميات", "cours/a.pdf",
			models.CoursAccepte, "", now, now, "Module 1", "", "Benali", "Karim")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.module_id IN ($1,$2) AND c.statut = $3")).
		WithArgs("mod-1", "mod-2", models.CoursAccepte).
		WillReturnRows(rows)

	cours, err := repo.ListAcceptedByModules(context.Background(), []string{"mod-1", "mod-2"})
	require.NoError(t, err)
	require.Len(t, cours, 1)
	require.Equal(t, models.CoursAccepte, cours[0].Statut)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCoursRepositoryListAcceptedByModulesEmptyInput(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCoursRepository(db)

	cours, err := repo.ListAcceptedByModules(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, cours)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCoursRepositoryListPendingByRegion(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCoursRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(coursDetailColumns()).
		AddRow("crs-2", "mod-1", "ens-1", "C-2", "Reseaux", "", "",
			models.CoursEnAttente, "", now, now, "Module 1", "", "Benali", "Karim")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE ef.etablissement_regionale_id = $1 AND c.statut = $2")).
		WithArgs("reg-1", models.CoursEnAttente).
		WillReturnRows(rows)

	cours, err := repo.ListPendingByRegion(context.Background(), "reg-1")
	require.NoError(t, err)
	require.Len(t, cours, 1)
	require.Equal(t, models.CoursEnAttente, cours[0].Statut)
	require.NoError(t, mock.ExpectationsWereMet())
}
