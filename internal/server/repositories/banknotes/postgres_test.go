package banknotes

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/server/grouping"
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

var banknoteCols = []string{
	"id", "country_id", "country", "extended_pick_number", "pick_number", "face_value",
	"gregorian_year", "islamic_year", "category", "type", "sultan_name", "description", "rarity",
	"front_picture", "back_picture", "front_picture_watermarked", "back_picture_watermarked",
	"front_picture_thumbnail", "back_picture_thumbnail", "is_approved", "created_at", "updated_at",
}

func banknoteRow(rows *sqlmock.Rows, id, pick, category, sultan string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, "c1", "Ottoman Empire", pick, "", "10 Kurush", "1876", "1293", category, "Issued", sultan,
		"", "", "https://s/front.jpg", "https://s/back.jpg", "", "", "", "", true, now, now)
}

func TestBuildListQuery_Defaults(t *testing.T) {
	q, args := buildListQuery(models.BanknoteFilter{CountryID: "c1"})

	assert.Equal(t, []any{"c1"}, args)
	assert.Contains(t, q, "WHERE b.country_id = $1")
	assert.True(t, strings.HasSuffix(q, "ORDER BY b.extended_pick_number"), q)
	assert.NotContains(t, q, "ILIKE")
}

func TestBuildListQuery_AllFilters(t *testing.T) {
	q, args := buildListQuery(models.BanknoteFilter{
		CountryID:  "c1",
		Search:     "  kurush ",
		Categories: []string{"First Kaime", "Second Kaime"},
		Types:      []string{"Issued"},
		Sort:       models.SortNewest,
	})

	assert.Equal(t, []any{"c1", "kurush", "First Kaime", "Second Kaime", "Issued"}, args)
	assert.Contains(t, q, "b.face_value ILIKE '%' || $2 || '%'")
	assert.Contains(t, q, "b.category IN ($3, $4)")
	assert.Contains(t, q, "b.type IN ($5)")
	assert.True(t, strings.HasSuffix(q, "ORDER BY b.created_at DESC"), q)
}

func TestBuildListQuery_UnknownSortFallsBack(t *testing.T) {
	q, _ := buildListQuery(models.BanknoteFilter{CountryID: "c1", Sort: "bogus"})
	assert.True(t, strings.HasSuffix(q, "ORDER BY b.extended_pick_number"), q)
}

func TestBuildListQuery_SultanSortUsesDisplayOrder(t *testing.T) {
	q, args := buildListQuery(models.BanknoteFilter{CountryID: "c1", Sort: models.SortSultan})

	assert.Equal(t, []any{"c1"}, args)
	assert.Contains(t, q, "FROM banknote_definitions d")
	assert.Contains(t, q, "d.kind = 'sultans' AND d.country_id = b.country_id")
	assert.Contains(t, q, "lower(d.name) = lower(b.sultan_name)")
	assert.True(t, strings.HasSuffix(q, ", lower(b.sultan_name), b.extended_pick_number"), q)
	assert.Contains(t, q, fmt.Sprint(grouping.MaxSafeInteger))
}

func TestList(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows(banknoteCols)
	banknoteRow(rows, "b1", "1a", "First Kaime", "Abdulmejid")
	banknoteRow(rows, "b2", "2a", "First Kaime", "Abdulaziz")
	mock.ExpectQuery(`(?s)FROM banknotes b\s+JOIN countries c.*WHERE b.country_id = \$1 AND b.category IN \(\$2\)`).
		WithArgs("c1", "First Kaime").
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), models.BanknoteFilter{CountryID: "c1", Categories: []string{"First Kaime"}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Ottoman Empire", got[0].Country)
	assert.Equal(t, "https://s/front.jpg", got[1].Images.Front)
	assert.Equal(t, "Abdulaziz", got[1].SultanName)
}

func TestGetByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE b.id = \$1`).
		WithArgs("b1").
		WillReturnRows(banknoteRow(sqlmock.NewRows(banknoteCols), "b1", "1a", "First Kaime", ""))
	mock.ExpectQuery(`WHERE b.id = \$1`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "1a", got.ExtendedPick)

	_, err = repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByID_MalformedIDIsNotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE b.id = \$1`).
		WithArgs("not-a-uuid").
		WillReturnError(&pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"})
	mock.ExpectQuery(`WHERE id = \$1`).
		WithArgs("not-a-uuid").
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	_, err := repo.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.ImageFields(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImageFields(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)SELECT front_picture, back_picture.*FROM banknotes\s+WHERE id = \$1`).
		WithArgs("b1").
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d", "e", "f"}).
			AddRow("f", "b", "fw", "bw", "ft", "bt"))

	im, err := repo.ImageFields(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, []string{"f", "b", "fw", "bw", "ft", "bt"}, im.All())
}

func TestCreateUpdateDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO banknotes`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("b9", now, now))
	mock.ExpectQuery(`(?s)UPDATE banknotes SET.*WHERE id = \$1\s+RETURNING updated_at`).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`DELETE FROM banknotes WHERE id = \$1`).
		WithArgs("b9").
		WillReturnResult(sqlmock.NewResult(0, 1))

	b, err := repo.Create(context.Background(), &models.Banknote{CountryID: "c1", ExtendedPick: "9"})
	require.NoError(t, err)
	assert.Equal(t, "b9", b.ID)

	_, err = repo.Update(context.Background(), &models.Banknote{ID: "ghost"})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.NoError(t, repo.Delete(context.Background(), "b9"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
