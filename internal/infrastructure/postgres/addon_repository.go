package postgres

import (
	"context"
	"fmt"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/repository"
)

// Asegura que AddOnRepo implementa repository.AddOnRepository.
var _ repository.AddOnRepository = (*AddOnRepo)(nil)

// AddOnRepo implementación de AddOnRepository sobre PostgreSQL. add_ons es
// referencia de plataforma; company_add_ons es tabla de tenant bajo la
// política de filas, así que las lecturas por empresa exigen contexto fijado.
type AddOnRepo struct {
	q Querier
}

// NewAddOnRepository construye el adaptador de add-ons.
func NewAddOnRepository(q Querier) *AddOnRepo {
	return &AddOnRepo{q: q}
}

const addOnCols = `id, slug, name, description, price_monthly, unlocks_features, override_limits, is_active, created_at, updated_at`

// GetBySlug obtiene la definición de un add-on por slug.
func (r *AddOnRepo) GetBySlug(ctx context.Context, slug string) (*entity.AddOn, error) {
	var a entity.AddOn
	err := r.q.QueryRow(ctx, `SELECT `+addOnCols+` FROM add_ons WHERE slug = $1`, slug).Scan(
		&a.ID, &a.Slug, &a.Name, &a.Description, &a.PriceMonthly,
		&a.UnlocksFeatures, &a.OverrideLimits, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get add-on: %w", err)
	}
	return &a, nil
}

// ListActive devuelve las definiciones de add-ons activas.
func (r *AddOnRepo) ListActive(ctx context.Context) ([]*entity.AddOn, error) {
	rows, err := r.q.Query(ctx, `SELECT `+addOnCols+` FROM add_ons WHERE is_active = true ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("list add-ons: %w", err)
	}
	defer rows.Close()

	var list []*entity.AddOn
	for rows.Next() {
		var a entity.AddOn
		if err := rows.Scan(
			&a.ID, &a.Slug, &a.Name, &a.Description, &a.PriceMonthly,
			&a.UnlocksFeatures, &a.OverrideLimits, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan add-on: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// ListEffectiveByCompany devuelve los add-ons con activación vigente de la
// empresa del contexto: activos y, si son trial, sin vencer. La cláusula
// company_id = $1 es redundante con la política de filas; se mantiene como
// defensa en profundidad.
func (r *AddOnRepo) ListEffectiveByCompany(ctx context.Context, companyID int64) ([]*entity.AddOn, []*entity.CompanyAddOn, error) {
	query := `
		SELECT a.id, a.slug, a.name, a.description, a.price_monthly, a.unlocks_features, a.override_limits, a.is_active, a.created_at, a.updated_at,
		       ca.id, ca.company_id, ca.add_on_id, ca.is_active, ca.is_trial, ca.trial_end, ca.next_billing_date, ca.created_at, ca.updated_at
		FROM company_add_ons ca
		JOIN add_ons a ON a.id = ca.add_on_id
		WHERE ca.company_id = $1
		  AND ca.is_active = true
		  AND (ca.is_trial = false OR ca.trial_end IS NULL OR ca.trial_end > now())`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("list effective add-ons: %w", err)
	}
	defer rows.Close()

	var addOns []*entity.AddOn
	var activations []*entity.CompanyAddOn
	for rows.Next() {
		var a entity.AddOn
		var ca entity.CompanyAddOn
		if err := rows.Scan(
			&a.ID, &a.Slug, &a.Name, &a.Description, &a.PriceMonthly,
			&a.UnlocksFeatures, &a.OverrideLimits, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
			&ca.ID, &ca.CompanyID, &ca.AddOnID, &ca.IsActive, &ca.IsTrial,
			&ca.TrialEnd, &ca.NextBillingDate, &ca.CreatedAt, &ca.UpdatedAt,
		); err != nil {
			return nil, nil, fmt.Errorf("scan effective add-on: %w", err)
		}
		addOns = append(addOns, &a)
		activations = append(activations, &ca)
	}
	return addOns, activations, rows.Err()
}

// CreateCompanyAddOn persiste una activación nueva.
func (r *AddOnRepo) CreateCompanyAddOn(ctx context.Context, ca *entity.CompanyAddOn) error {
	query := `
		INSERT INTO company_add_ons (company_id, add_on_id, is_active, is_trial, trial_end, next_billing_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		ca.CompanyID, ca.AddOnID, ca.IsActive, ca.IsTrial, ca.TrialEnd,
		ca.NextBillingDate, ca.CreatedAt, ca.UpdatedAt,
	).Scan(&ca.ID)
	if err != nil {
		if isRLSViolation(err) {
			return fmt.Errorf("insert company add-on: política de tenant: %w", err)
		}
		return fmt.Errorf("insert company add-on: %w", err)
	}
	return nil
}

// UpdateCompanyAddOn actualiza una activación (desactivación incluida; las
// activaciones jamás se borran, son historial de facturación).
func (r *AddOnRepo) UpdateCompanyAddOn(ctx context.Context, ca *entity.CompanyAddOn) error {
	query := `
		UPDATE company_add_ons
		SET is_active = $2, is_trial = $3, trial_end = $4, next_billing_date = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		ca.ID, ca.IsActive, ca.IsTrial, ca.TrialEnd, ca.NextBillingDate, ca.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company add-on: %w", err)
	}
	return nil
}

// ListExpiredTrials devuelve activaciones trial vencidas y aún activas de la
// empresa del contexto, para el barrido de vencimientos.
func (r *AddOnRepo) ListExpiredTrials(ctx context.Context, companyID int64) ([]*entity.CompanyAddOn, error) {
	query := `
		SELECT id, company_id, add_on_id, is_active, is_trial, trial_end, next_billing_date, created_at, updated_at
		FROM company_add_ons
		WHERE company_id = $1 AND is_active = true AND is_trial = true
		  AND trial_end IS NOT NULL AND trial_end <= now()`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list expired trials: %w", err)
	}
	defer rows.Close()

	var list []*entity.CompanyAddOn
	for rows.Next() {
		var ca entity.CompanyAddOn
		if err := rows.Scan(
			&ca.ID, &ca.CompanyID, &ca.AddOnID, &ca.IsActive, &ca.IsTrial,
			&ca.TrialEnd, &ca.NextBillingDate, &ca.CreatedAt, &ca.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan expired trial: %w", err)
		}
		list = append(list, &ca)
	}
	return list, rows.Err()
}
