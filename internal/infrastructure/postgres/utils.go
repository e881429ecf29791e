package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// isRLSViolation verifica si un error es un rechazo de la política de filas
// (42501 insufficient_privilege o 44000 with_check_option_violation).
// Un INSERT con contexto de tenant vacío o ajeno cae aquí: la política falla
// cerrada también en escritura.
func isRLSViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42501" || pgErr.Code == "44000"
	}
	return false
}

// isNoRows verifica si un error es pgx.ErrNoRows.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// errDuplicate envuelve el error de unicidad con el centinela de dominio.
func errDuplicate(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
}
