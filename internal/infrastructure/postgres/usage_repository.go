package postgres

import (
	"context"
	"fmt"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/repository"
)

// Asegura que UsageRepo implementa repository.UsageRepository.
var _ repository.UsageRepository = (*UsageRepo)(nil)

// UsageRepo cuenta el uso actual de los recursos limitados. Las consultas no
// filtran por company_id: corren sobre la transacción con contexto de tenant
// fijado y la política de filas ya restringe lo visible. Con contexto vacío
// el conteo degrada a cero filas, nunca a un conteo global.
type UsageRepo struct {
	q Querier
}

// NewUsageRepository construye el adaptador de conteo de uso.
func NewUsageRepository(q Querier) *UsageRepo {
	return &UsageRepo{q: q}
}

// CountActive devuelve las filas activas del recurso asociado a la clave de
// límite del plan. Clave desconocida devuelve error, no cero.
func (r *UsageRepo) CountActive(ctx context.Context, limitKey string) (int, error) {
	var query string
	switch limitKey {
	case entity.LimitProfessionals:
		query = `SELECT count(*) FROM company_users WHERE company_id = COALESCE(NULLIF(current_setting('app.current_company_id', true), ''), '-1')::bigint AND role = 'professional' AND status = 'active'`
	case entity.LimitUnits:
		query = `SELECT count(*) FROM units WHERE is_active = true`
	case entity.LimitClients:
		query = `SELECT count(*) FROM clients WHERE is_active = true`
	case entity.LimitAppointmentsPerMonth:
		query = `SELECT count(*) FROM appointments WHERE starts_at >= date_trunc('month', now())`
	default:
		return 0, fmt.Errorf("clave de límite desconocida: %q", limitKey)
	}
	var n int
	if err := r.q.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count usage %s: %w", limitKey, err)
	}
	return n, nil
}
