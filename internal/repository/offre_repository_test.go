package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestOffreRepositoryModuleAttached(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOffreRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM offre_modules WHERE offre_id = $1 AND module_id = $2 LIMIT 1")).
		WithArgs("off-1", "mod-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	attached, err := repo.ModuleAttached(context.Background(), "off-1", "mod-1")
	require.NoError(t, err)
	require.True(t, attached)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOffreRepositoryAttachAndDetachModule(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOffreRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO offre_modules (offre_id, module_id, created_at) VALUES ($1, $2, NOW())")).
		WithArgs("off-1", "mod-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM offre_modules WHERE offre_id = $1 AND module_id = $2")).
		WithArgs("off-1", "mod-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AttachModule(context.Background(), "off-1", "mod-1"))
	require.NoError(t, repo.DetachModule(context.Background(), "off-1", "mod-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOffreRepositoryListModuleIDsByOffres(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOffreRepository(db)

	rows := sqlmock.NewRows([]string{"module_id"}).AddRow("mod-1").AddRow("mod-2")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT module_id FROM offre_modules WHERE offre_id IN ($1,$2)")).
		WithArgs("off-1", "off-2").
		WillReturnRows(rows)

	moduleIDs, err := repo.ListModuleIDsByOffres(context.Background(), []string{"off-1", "off-2"})
	require.NoError(t, err)
	require.Equal(t, []string{"mod-1", "mod-2"}, moduleIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOffreRepositoryListModuleIDsByOffresEmptyInput(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOffreRepository(db)

	moduleIDs, err := repo.ListModuleIDsByOffres(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, moduleIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOffreRepositoryListSpecialiteIDsByEtablissement(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOffreRepository(db)

	rows := sqlmock.NewRows([]string{"specialite_id"}).AddRow("sp-1")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT specialite_id FROM offres WHERE etablissement_formation_id = $1")).
		WithArgs("etab-1").
		WillReturnRows(rows)

	specialiteIDs, err := repo.ListSpecialiteIDsByEtablissement(context.Background(), "etab-1")
	require.NoError(t, err)
	require.Equal(t, []string{"sp-1"}, specialiteIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}
