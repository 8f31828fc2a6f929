package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/idrissziadi/formation-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestInscriptionRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInscriptionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "stagiaire_id", "offre_id", "statut", "created_at", "updated_at"}).
		AddRow("ins-1", "st-1", "off-1", models.InscriptionEnAttente, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, stagiaire_id, offre_id, statut, created_at, updated_at FROM inscriptions WHERE id = $1")).
		WithArgs("ins-1").
		WillReturnRows(rows)

	inscription, err := repo.FindByID(context.Background(), "ins-1")
	require.NoError(t, err)
	require.Equal(t, models.InscriptionEnAttente, inscription.Statut)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInscriptionRepositoryExistsIgnoresCancelled(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInscriptionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM inscriptions WHERE stagiaire_id = $1 AND offre_id = $2 AND statut <> $3 LIMIT 1")).
		WithArgs("st-1", "off-1", models.InscriptionAnnulee).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.Exists(context.Background(), "st-1", "off-1")
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInscriptionRepositoryUpdateStatut(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInscriptionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE inscriptions SET statut = $2, updated_at = NOW() WHERE id = $1")).
		WithArgs("ins-1", models.InscriptionAcceptee).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatut(context.Background(), "ins-1", models.InscriptionAcceptee)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInscriptionRepositoryListOffreIDsByStagiaire(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInscriptionRepository(db)

	rows := sqlmock.NewRows([]string{"offre_id"}).AddRow("off-1").AddRow("off-2")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT offre_id FROM inscriptions WHERE stagiaire_id = $1")).
		WithArgs("st-1").
		WillReturnRows(rows)

	offreIDs, err := repo.ListOffreIDsByStagiaire(context.Background(), "st-1")
	require.NoError(t, err)
	require.Equal(t, []string{"off-1", "off-2"}, offreIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}
