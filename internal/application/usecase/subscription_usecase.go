package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/repository"
)

// LimitViolation detalla un límite excedido: qué recurso, cuánto hay y cuánto
// permite el plan. Envuelve domain.ErrLimitExceeded para que los handlers
// decidan por errors.Is y rendericen los conteos.
type LimitViolation struct {
	Resource string
	Plan     string
	Current  int
	Limit    int
}

func (e *LimitViolation) Error() string {
	return fmt.Sprintf("límite de %s excedido: %d en uso, el plan %s permite %d", e.Resource, e.Current, e.Plan, e.Limit)
}

func (e *LimitViolation) Unwrap() error { return domain.ErrLimitExceeded }

// SubscriptionService valida límites de uso y ejecuta transiciones de plan.
// Los conteos corren sobre la unidad de trabajo atada al tenant, así que un
// contexto sin fijar cuenta cero filas, jamás las de otro tenant.
type SubscriptionService struct {
	plans        repository.PlanRepository
	companies    repository.CompanyRepository
	runner       repository.TenantRunner
	entitlements *EntitlementService
}

// NewSubscriptionService construye el servicio de suscripciones.
func NewSubscriptionService(plans repository.PlanRepository, companies repository.CompanyRepository, runner repository.TenantRunner, entitlements *EntitlementService) *SubscriptionService {
	return &SubscriptionService{plans: plans, companies: companies, runner: runner, entitlements: entitlements}
}

// CheckLimit compara el uso actual del recurso contra el límite efectivo.
// Límite -1 permite siempre, sin contar. Devuelve *LimitViolation cuando el
// uso ya alcanzó el límite.
func (s *SubscriptionService) CheckLimit(ctx context.Context, companyID int64, limitKey string) error {
	e, err := s.entitlements.Resolve(ctx, companyID)
	if err != nil {
		return err
	}
	limit := e.Limit(limitKey)
	if limit == entity.UnlimitedLimit {
		return nil
	}
	var current int
	err = s.runner.RunInTenant(ctx, companyID, func(repos repository.TenantRepos) error {
		var err error
		current, err = repos.Usage.CountActive(ctx, limitKey)
		return err
	})
	if err != nil {
		return err
	}
	if current >= limit {
		return &LimitViolation{Resource: limitKey, Plan: e.PlanSlug, Current: current, Limit: limit}
	}
	return nil
}

// GetByCompany devuelve la suscripción vigente de la empresa.
func (s *SubscriptionService) GetByCompany(ctx context.Context, companyID int64) (*entity.Subscription, error) {
	var sub *entity.Subscription
	err := s.runner.RunInTenant(ctx, companyID, func(repos repository.TenantRepos) error {
		var err error
		sub, err = repos.Subscriptions.GetByCompany(ctx, companyID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrNotFound
	}
	return sub, nil
}

// Upgrade cambia la empresa al plan nuevo sin condiciones: un plan superior
// nunca revoca features ya vigentes. Renueva la ventana de facturación.
func (s *SubscriptionService) Upgrade(ctx context.Context, companyID int64, newPlanSlug string) error {
	plan, err := s.plans.GetBySlug(ctx, newPlanSlug)
	if err != nil {
		return err
	}
	if plan == nil {
		return domain.ErrNotFound
	}
	err = s.runner.RunInTenant(ctx, companyID, func(repos repository.TenantRepos) error {
		sub, err := repos.Subscriptions.GetByCompany(ctx, companyID)
		if err != nil {
			return err
		}
		if sub == nil {
			return domain.ErrNotFound
		}
		now := time.Now()
		sub.PlanID = plan.ID
		sub.PlanSlug = plan.Slug
		sub.Status = entity.SubscriptionActive
		sub.TrialEnd = nil
		sub.CurrentPeriodStart = now
		sub.CurrentPeriodEnd = now.AddDate(0, 1, 0)
		sub.UpdatedAt = now
		return repos.Subscriptions.Update(ctx, sub)
	})
	if err != nil {
		return err
	}
	s.entitlements.Invalidate(ctx, companyID)
	return nil
}

// Downgrade cambia a un plan menor SOLO si el uso actual de cada recurso
// limitado cabe en el límite efectivo del plan destino (override de add-on
// incluido). Al primer recurso que no cabe rechaza con *LimitViolation sin
// mutar nada; el conteo y la mutación comparten transacción para que no haya
// ventana entre validar y cambiar.
func (s *SubscriptionService) Downgrade(ctx context.Context, companyID int64, newPlanSlug string) error {
	target, err := s.plans.GetBySlug(ctx, newPlanSlug)
	if err != nil {
		return err
	}
	if target == nil {
		return domain.ErrNotFound
	}
	err = s.runner.RunInTenant(ctx, companyID, func(repos repository.TenantRepos) error {
		addOns, _, err := repos.AddOns.ListEffectiveByCompany(ctx, companyID)
		if err != nil {
			return err
		}
		future := ComposeEntitlements(target, addOns)
		for _, key := range entity.LimitKeys {
			limit := future.Limit(key)
			if limit == entity.UnlimitedLimit {
				continue
			}
			current, err := repos.Usage.CountActive(ctx, key)
			if err != nil {
				return err
			}
			if current > limit {
				return &LimitViolation{Resource: key, Plan: target.Slug, Current: current, Limit: limit}
			}
		}
		sub, err := repos.Subscriptions.GetByCompany(ctx, companyID)
		if err != nil {
			return err
		}
		if sub == nil {
			return domain.ErrNotFound
		}
		now := time.Now()
		sub.PlanID = target.ID
		sub.PlanSlug = target.Slug
		sub.Status = entity.SubscriptionActive
		sub.TrialEnd = nil
		sub.CurrentPeriodStart = now
		sub.CurrentPeriodEnd = now.AddDate(0, 1, 0)
		sub.UpdatedAt = now
		return repos.Subscriptions.Update(ctx, sub)
	})
	if err != nil {
		return err
	}
	s.entitlements.Invalidate(ctx, companyID)
	return nil
}

// Cancel desactiva la suscripción y la empresa. Idempotente: cancelar una
// suscripción ya cancelada no es error.
func (s *SubscriptionService) Cancel(ctx context.Context, companyID int64) error {
	err := s.runner.RunInTenant(ctx, companyID, func(repos repository.TenantRepos) error {
		sub, err := repos.Subscriptions.GetByCompany(ctx, companyID)
		if err != nil {
			return err
		}
		if sub == nil || sub.Status == entity.SubscriptionCanceled {
			return nil
		}
		now := time.Now()
		sub.Status = entity.SubscriptionCanceled
		sub.UpdatedAt = now
		return repos.Subscriptions.Update(ctx, sub)
	})
	if err != nil {
		return err
	}
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company != nil && company.IsActive {
		company.Deactivate(time.Now())
		if err := s.companies.Update(ctx, company); err != nil {
			return err
		}
	}
	s.entitlements.Invalidate(ctx, companyID)
	return nil
}

// ActivateAddOn crea la activación de un add-on para la empresa (compra o
// inicio de trial). Las activaciones nunca se borran: historial de facturación.
func (s *SubscriptionService) ActivateAddOn(ctx context.Context, companyID int64, addOnSlug string, trial bool, trialDays int) error {
	err := s.runner.RunInTenant(ctx, companyID, func(repos repository.TenantRepos) error {
		addOn, err := repos.AddOns.GetBySlug(ctx, addOnSlug)
		if err != nil {
			return err
		}
		if addOn == nil || !addOn.IsActive {
			return domain.ErrNotFound
		}
		now := time.Now()
		ca := &entity.CompanyAddOn{
			CompanyID: companyID,
			AddOnID:   addOn.ID,
			IsActive:  true,
			IsTrial:   trial,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if trial {
			end := now.AddDate(0, 0, trialDays)
			ca.TrialEnd = &end
		} else {
			next := now.AddDate(0, 1, 0)
			ca.NextBillingDate = &next
		}
		return repos.AddOns.CreateCompanyAddOn(ctx, ca)
	})
	if err != nil {
		return err
	}
	s.entitlements.Invalidate(ctx, companyID)
	return nil
}

// DeactivateAddOn apaga las activaciones vigentes del add-on en la empresa.
func (s *SubscriptionService) DeactivateAddOn(ctx context.Context, companyID int64, addOnSlug string) error {
	err := s.runner.RunInTenant(ctx, companyID, func(repos repository.TenantRepos) error {
		addOns, activations, err := repos.AddOns.ListEffectiveByCompany(ctx, companyID)
		if err != nil {
			return err
		}
		now := time.Now()
		for i, a := range addOns {
			if a.Slug != addOnSlug {
				continue
			}
			ca := activations[i]
			ca.IsActive = false
			ca.UpdatedAt = now
			if err := repos.AddOns.UpdateCompanyAddOn(ctx, ca); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.entitlements.Invalidate(ctx, companyID)
	return nil
}
