package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ottocollect/ottocollect/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_BadInput(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{"email": "not-an-email"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email": "a@example.com", "username": "has space", "password": "longenough",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Failed to register", decode(t, w)["error"])
}

func TestRegister_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectQuery(`INSERT INTO users`).WillReturnError(&pgconn.PgError{Code: "23505"})

	w := env.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email": "a@example.com", "username": "pasha", "password": "longenough",
	}, "")

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginThenMe(t *testing.T) {
	env := newTestEnv(t)
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)

	rows := sqlmock.NewRows(userColumns).
		AddRow("u1", "a@example.com", "pasha", hash, "user", "", "", nil, 3, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	env.mock.ExpectQuery(`FROM users WHERE lower\(email\)`).WithArgs("a@example.com").WillReturnRows(rows)
	env.mock.ExpectExec(`INSERT INTO refresh_tokens`).WithArgs("u1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	w := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "a@example.com", "password": "correct horse"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	pair := decode(t, w)
	access, _ := pair["accessToken"].(string)
	require.NotEmpty(t, access)
	assert.NotEmpty(t, pair["refreshToken"])

	env.mock.ExpectQuery(`FROM users WHERE id`).WithArgs("u1").WillReturnRows(userRow("u1", "user"))
	w = env.do(t, http.MethodGet, "/api/v1/me", nil, access)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode(t, w)
	assert.Equal(t, "u1", me["id"])
	assert.NotContains(t, me, "passwordHash")
	require.NoError(t, env.mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)

	rows := sqlmock.NewRows(userColumns).
		AddRow("u1", "a@example.com", "pasha", hash, "user", "", "", nil, 0, time.Now())
	env.mock.ExpectQuery(`FROM users WHERE lower\(email\)`).WillReturnRows(rows)

	w := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "a@example.com", "password": "battery staple"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfile_HidesEmail(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectQuery(`FROM users WHERE username`).WithArgs("user_u1").WillReturnRows(userRow("u1", "user"))

	w := env.do(t, http.MethodGet, "/api/v1/profiles/user_u1", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, decode(t, w), "email")
}
