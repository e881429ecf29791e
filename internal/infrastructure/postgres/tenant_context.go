package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain"
)

// TenantContextKey es la variable de sesión que la política de almacenamiento
// lee en cada acceso a fila. Se fija SIEMPRE con is_local=true (alcance de
// transacción): al terminar la transacción el marcador vuelve solo a vacío,
// de modo que una conexión física devuelta al pool no puede arrastrar el
// tenant de un request anterior al siguiente.
const TenantContextKey = "app.current_company_id"

// SetTenantContext fija el company_id como contexto de tenant de la
// transacción en curso. Rechaza con domain.ErrInvalidTenant cualquier id no
// positivo: ningún tenant real es <= 0 y el centinela -1 de la política debe
// seguir sin coincidir jamás.
func SetTenantContext(ctx context.Context, q Querier, companyID int64) error {
	if companyID <= 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidTenant, companyID)
	}
	_, err := q.Exec(ctx, `SELECT set_config($1, $2, true)`,
		TenantContextKey, strconv.FormatInt(companyID, 10))
	if err != nil {
		return fmt.Errorf("fijar contexto de tenant: %w", err)
	}
	return nil
}

// GetTenantContext devuelve el company_id fijado en la transacción en curso.
// (0, false) si el marcador está vacío o nunca se fijó.
func GetTenantContext(ctx context.Context, q Querier) (int64, bool, error) {
	var raw string
	err := q.QueryRow(ctx, `SELECT COALESCE(current_setting($1, true), '')`, TenantContextKey).Scan(&raw)
	if err != nil {
		return 0, false, fmt.Errorf("leer contexto de tenant: %w", err)
	}
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("contexto de tenant corrupto %q: %w", raw, err)
	}
	return id, true, nil
}

// ClearTenantContext deja el marcador vacío dentro de la transacción en
// curso. Reservado para operaciones administrativas cross-tenant de scope
// plataforma; quien lo llame debe registrarlo como acción privilegiada.
// Con el marcador vacío la política degrada a cero filas (fail-closed), no a
// "sin filtro".
func ClearTenantContext(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, `SELECT set_config($1, '', true)`, TenantContextKey)
	if err != nil {
		return fmt.Errorf("limpiar contexto de tenant: %w", err)
	}
	return nil
}

// ValidateTenantContext comprueba que el contexto vigente coincide con el
// esperado antes de una operación sensible.
func ValidateTenantContext(ctx context.Context, q Querier, expected int64) (bool, error) {
	got, ok, err := GetTenantContext(ctx, q)
	if err != nil {
		return false, err
	}
	return ok && got == expected, nil
}
