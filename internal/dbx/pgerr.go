package dbx

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ottocollect/ottocollect/internal/common"
)

// Postgres SQLSTATE codes the repositories translate into sentinel errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
)

// IsUniqueViolation reports whether err carries a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsForeignKeyViolation reports whether err references a missing parent row.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

// IsInvalidText reports whether Postgres rejected a parameter it could not
// parse, such as a malformed uuid.
func IsInvalidText(err error) bool {
	return hasCode(err, codeInvalidText)
}

// IsNoRows reports whether a single-row lookup matched nothing. A key that
// does not parse as the column type cannot match a row either.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || IsInvalidText(err)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// RequireAffected converts the result of an UPDATE or DELETE by primary key
// into an error: a failed exec is wrapped as a db error, while zero affected
// rows or an unparsable key become common.ErrorNotFound.
func RequireAffected(res sql.Result, err error) error {
	if IsInvalidText(err) {
		return common.ErrorNotFound
	}
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
