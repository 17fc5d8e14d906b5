package countries

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

var cols = []string{"id", "name", "description", "image_url", "display_order", "created_at"}

func TestList_OrdersByDisplayOrder(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM countries ORDER BY display_order, name`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("c1", "Ottoman Empire", "", "", 1, now).
			AddRow("c2", "Turkey", "", "", 2, now))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Ottoman Empire", got[0].Name)
	assert.Equal(t, 2, got[1].DisplayOrder)
}

func TestList_QueryError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM countries`).WillReturnError(errors.New("down"))

	_, err := repo.List(context.Background())
	assert.ErrorContains(t, err, "db error")
}

func TestGetByName_CaseInsensitive(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`WHERE lower\(name\) = lower\(\$1\)`).
		WithArgs("turkey").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("c2", "Turkey", "", "", 2, time.Now()))

	got, err := repo.GetByName(context.Background(), "turkey")
	require.NoError(t, err)
	assert.Equal(t, "c2", got.ID)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`WHERE id = \$1`).WithArgs("x").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "x")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`INSERT INTO countries`).
		WithArgs("Egypt", "", "", 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("c3", time.Now()))
	mock.ExpectQuery(`INSERT INTO countries`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	got, err := repo.Create(context.Background(), &models.Country{Name: "Egypt", DisplayOrder: 3})
	require.NoError(t, err)
	assert.Equal(t, "c3", got.ID)

	_, err = repo.Create(context.Background(), &models.Country{Name: "Egypt"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(`DELETE FROM countries WHERE id = \$1`).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), "c1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
