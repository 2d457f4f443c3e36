package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgForeignKeyCode   = "23503"
	pgDuplicateKeyCode = "23505"
	pgCheckCode        = "23514"
)

// Errors names the domain errors a repository reports for common database failures.
// Nil fields leave the matching failure unmapped.
type Errors struct {
	NotFound  error
	Duplicate error
	Reference error
	Check     error
}

// Map translates sql.ErrNoRows and PostgreSQL constraint violations into
// the configured domain errors. Other errors are returned unchanged.
func (e Errors) Map(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) && e.NotFound != nil {
		return e.NotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	var mapped error
	switch pgErr.Code {
	case pgDuplicateKeyCode:
		mapped = e.Duplicate
	case pgForeignKeyCode:
		mapped = e.Reference
	case pgCheckCode:
		mapped = e.Check
	}
	if mapped == nil {
		return err
	}
	return mapped
}
