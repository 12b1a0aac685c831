package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// violatedConstraint devuelve el nombre del constraint o índice violado, si lo hay.
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// limitOrAll traduce un límite <= 0 a "sin límite" para LIMIT $n (NULL = ALL).
func limitOrAll(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}
