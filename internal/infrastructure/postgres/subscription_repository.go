package postgres

import (
	"context"
	"fmt"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/repository"
)

// Asegura que SubscriptionRepo implementa repository.SubscriptionRepository.
var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

// SubscriptionRepo implementación de SubscriptionRepository sobre PostgreSQL.
// subscriptions es tabla de tenant bajo la política de filas.
type SubscriptionRepo struct {
	q Querier
}

// NewSubscriptionRepository construye el adaptador de suscripciones.
func NewSubscriptionRepository(q Querier) *SubscriptionRepo {
	return &SubscriptionRepo{q: q}
}

// Create persiste la suscripción inicial de una empresa.
func (r *SubscriptionRepo) Create(ctx context.Context, s *entity.Subscription) error {
	query := `
		INSERT INTO subscriptions (company_id, plan_id, status, trial_end, current_period_start, current_period_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		s.CompanyID, s.PlanID, s.Status, s.TrialEnd,
		s.CurrentPeriodStart, s.CurrentPeriodEnd, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert subscription: %w", errDuplicate(err))
		}
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// GetByCompany obtiene la suscripción vigente de la empresa del contexto,
// con el slug del plan resuelto por join.
func (r *SubscriptionRepo) GetByCompany(ctx context.Context, companyID int64) (*entity.Subscription, error) {
	query := `
		SELECT s.id, s.company_id, s.plan_id, p.slug, s.status, s.trial_end,
		       s.current_period_start, s.current_period_end, s.created_at, s.updated_at
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		WHERE s.company_id = $1`
	var s entity.Subscription
	err := r.q.QueryRow(ctx, query, companyID).Scan(
		&s.ID, &s.CompanyID, &s.PlanID, &s.PlanSlug, &s.Status, &s.TrialEnd,
		&s.CurrentPeriodStart, &s.CurrentPeriodEnd, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &s, nil
}

// Update actualiza plan, estado y ventana de facturación.
func (r *SubscriptionRepo) Update(ctx context.Context, s *entity.Subscription) error {
	query := `
		UPDATE subscriptions
		SET plan_id = $2, status = $3, trial_end = $4, current_period_start = $5, current_period_end = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.PlanID, s.Status, s.TrialEnd,
		s.CurrentPeriodStart, s.CurrentPeriodEnd, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	return nil
}
