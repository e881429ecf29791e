package postgres

import (
	"context"
	"fmt"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/repository"
)

// Asegura que PlanRepo implementa repository.PlanRepository.
var _ repository.PlanRepository = (*PlanRepo)(nil)

// PlanRepo implementación de PlanRepository sobre PostgreSQL. plans es dato
// de referencia de plataforma, solo lo editan administradores de plataforma.
type PlanRepo struct {
	q Querier
}

// NewPlanRepository construye el adaptador de planes.
func NewPlanRepository(q Querier) *PlanRepo {
	return &PlanRepo{q: q}
}

const planCols = `id, slug, name, description, price_monthly, rank, max_professionals, max_units, max_clients, max_appointments_per_month, features, trial_days, is_active, created_at, updated_at`

// GetByID obtiene un plan por ID.
func (r *PlanRepo) GetByID(ctx context.Context, id int64) (*entity.Plan, error) {
	return r.scanOne(ctx, `SELECT `+planCols+` FROM plans WHERE id = $1`, id)
}

// GetBySlug obtiene un plan por slug.
func (r *PlanRepo) GetBySlug(ctx context.Context, slug string) (*entity.Plan, error) {
	return r.scanOne(ctx, `SELECT `+planCols+` FROM plans WHERE slug = $1`, slug)
}

// ListActive devuelve los planes activos ordenados por rango comercial.
func (r *PlanRepo) ListActive(ctx context.Context) ([]*entity.Plan, error) {
	rows, err := r.q.Query(ctx, `SELECT `+planCols+` FROM plans WHERE is_active = true ORDER BY rank`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var list []*entity.Plan
	for rows.Next() {
		var p entity.Plan
		if err := rows.Scan(
			&p.ID, &p.Slug, &p.Name, &p.Description, &p.PriceMonthly, &p.Rank,
			&p.MaxProfessionals, &p.MaxUnits, &p.MaxClients, &p.MaxAppointmentsPerMonth,
			&p.Features, &p.TrialDays, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

func (r *PlanRepo) scanOne(ctx context.Context, query string, arg any) (*entity.Plan, error) {
	var p entity.Plan
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.Slug, &p.Name, &p.Description, &p.PriceMonthly, &p.Rank,
		&p.MaxProfessionals, &p.MaxUnits, &p.MaxClients, &p.MaxAppointmentsPerMonth,
		&p.Features, &p.TrialDays, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return &p, nil
}
