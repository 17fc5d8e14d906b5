package follows

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
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

func TestFollow_Idempotent(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)INSERT INTO follows.*ON CONFLICT DO NOTHING`).
		WithArgs("u1", "u2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)INSERT INTO follows.*ON CONFLICT DO NOTHING`).
		WithArgs("u1", "u2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.Follow(context.Background(), "u1", "u2")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Follow(context.Background(), "u1", "u2")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestUnfollowAndIsFollowing(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE FROM follows WHERE follower_id = \$1 AND following_id = \$2`).
		WithArgs("u1", "u2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("u1", "u2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	require.NoError(t, repo.Unfollow(context.Background(), "u1", "u2"))
	ok, err := repo.IsFollowing(context.Background(), "u1", "u2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFollowersAndFollowing(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	cols := []string{"id", "username", "avatar_url", "role", "points"}

	mock.ExpectQuery(`(?s)JOIN users u ON u.id = f.follower_id\s+WHERE f.following_id = \$1`).
		WithArgs("u2").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("u1", "alice", "", "user", 5))
	mock.ExpectQuery(`(?s)JOIN users u ON u.id = f.following_id\s+WHERE f.follower_id = \$1`).
		WithArgs("u2").
		WillReturnError(errors.New("down"))

	followers, err := repo.Followers(context.Background(), "u2")
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].Username)

	_, err = repo.Following(context.Background(), "u2")
	assert.ErrorContains(t, err, "db error")
}

func TestStats(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)SELECT\s+\(SELECT count\(\*\) FROM follows WHERE following_id = \$1\)`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"followers", "following"}).AddRow(7, 3))

	s, err := repo.Stats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.FollowStats{Followers: 7, Following: 3}, s)
}
