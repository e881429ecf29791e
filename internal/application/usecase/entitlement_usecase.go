package usecase

import (
	"context"
	"fmt"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/repository"
)

// Entitlements es el snapshot resuelto de una empresa: plan vigente, unión de
// features (plan ∪ add-ons vigentes) y límites efectivos (override de add-on
// si existe, si no el del plan). Es un valor puro: resolverlo no muta nada.
type Entitlements struct {
	PlanSlug string         `json:"plan_slug"`
	Features []string       `json:"features"`
	Limits   map[string]int `json:"limits"`
}

// HasFeature informa si la feature está en el snapshot.
func (e *Entitlements) HasFeature(f string) bool {
	for _, have := range e.Features {
		if have == f {
			return true
		}
	}
	return false
}

// Limit devuelve el límite efectivo de la clave; -1 = ilimitado.
func (e *Entitlements) Limit(key string) int {
	if v, ok := e.Limits[key]; ok {
		return v
	}
	return 0
}

// EntitlementCache es el puerto del cache de snapshots (Redis en
// infraestructura; nil = sin cache).
type EntitlementCache interface {
	Get(ctx context.Context, companyID int64) (*Entitlements, bool)
	Set(ctx context.Context, companyID int64, e *Entitlements)
	Invalidate(ctx context.Context, companyID int64)
}

// EntitlementService es la capa de consulta pura del gate de plan/features.
// Es el único punto de la aplicación que conoce la lógica de resolución de
// entitlements; el validador de límites y los guards de endpoints consultan
// aquí.
type EntitlementService struct {
	plans        repository.PlanRepository
	runner       repository.TenantRunner
	cache        EntitlementCache
	requiredPlan map[string]string
}

// NewEntitlementService construye el servicio y deriva el índice inverso
// feature -> plan mínimo desde el catálogo. Las dos vistas (plan->features y
// feature->plan) salen de la misma fuente, no pueden divergir.
func NewEntitlementService(ctx context.Context, plans repository.PlanRepository, runner repository.TenantRunner, cache EntitlementCache) (*EntitlementService, error) {
	catalog, err := plans.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar catálogo de planes: %w", err)
	}
	return &EntitlementService{
		plans:        plans,
		runner:       runner,
		cache:        cache,
		requiredPlan: BuildRequiredPlanIndex(catalog),
	}, nil
}

// BuildRequiredPlanIndex deriva el índice inverso feature -> slug del plan
// mínimo que la otorga. catalog debe venir ordenado por rango ascendente
// (PlanRepository.ListActive ya lo garantiza).
func BuildRequiredPlanIndex(catalog []*entity.Plan) map[string]string {
	idx := make(map[string]string)
	for _, p := range catalog {
		for _, f := range p.Features {
			if _, seen := idx[f]; !seen {
				idx[f] = p.Slug
			}
		}
	}
	return idx
}

// Resolve calcula (o trae del cache) el snapshot de entitlements de la
// empresa. La lectura de suscripción y add-ons corre en una unidad de trabajo
// atada al tenant: sin contexto no hay filas y la resolución falla cerrada.
func (s *EntitlementService) Resolve(ctx context.Context, companyID int64) (*Entitlements, error) {
	if s.cache != nil {
		if e, ok := s.cache.Get(ctx, companyID); ok {
			return e, nil
		}
	}

	var sub *entity.Subscription
	var addOns []*entity.AddOn
	err := s.runner.RunInTenant(ctx, companyID, func(repos repository.TenantRepos) error {
		var err error
		sub, err = repos.Subscriptions.GetByCompany(ctx, companyID)
		if err != nil {
			return err
		}
		addOns, _, err = repos.AddOns.ListEffectiveByCompany(ctx, companyID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.Status == entity.SubscriptionCanceled {
		return nil, domain.ErrTenantInactive
	}

	plan, err := s.plans.GetByID(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("plan %d de la suscripción no existe: %w", sub.PlanID, domain.ErrNotFound)
	}

	e := ComposeEntitlements(plan, addOns)
	if s.cache != nil {
		s.cache.Set(ctx, companyID, e)
	}
	return e, nil
}

// ComposeEntitlements une plan base y add-ons vigentes en un snapshot:
// featureSet = plan.Features ∪ ⋃ addon.UnlocksFeatures; límite efectivo =
// override del add-on si existe, si no el del plan. -1 se conserva tal cual.
func ComposeEntitlements(plan *entity.Plan, addOns []*entity.AddOn) *Entitlements {
	features := make([]string, 0, len(plan.Features))
	seen := make(map[string]bool, len(plan.Features))
	for _, f := range plan.Features {
		if !seen[f] {
			seen[f] = true
			features = append(features, f)
		}
	}
	limits := make(map[string]int, len(entity.LimitKeys))
	for _, key := range entity.LimitKeys {
		limits[key] = plan.Limit(key)
	}
	for _, a := range addOns {
		for _, f := range a.UnlocksFeatures {
			if !seen[f] {
				seen[f] = true
				features = append(features, f)
			}
		}
		for key, v := range a.OverrideLimits {
			limits[key] = v
		}
	}
	return &Entitlements{PlanSlug: plan.Slug, Features: features, Limits: limits}
}

// HasFeature responde "¿la empresa tiene la feature?" sin mutar estado.
func (s *EntitlementService) HasFeature(ctx context.Context, companyID int64, feature string) (bool, error) {
	e, err := s.Resolve(ctx, companyID)
	if err != nil {
		return false, err
	}
	return e.HasFeature(feature), nil
}

// RequiredPlan devuelve el slug del plan mínimo que otorga la feature, o ""
// si ningún plan la incluye (solo via add-on).
func (s *EntitlementService) RequiredPlan(feature string) string {
	return s.requiredPlan[feature]
}

// CurrentPlan devuelve el slug del plan vigente de la empresa, o "" si la
// resolución falla. Solo para mensajes de error; nunca para decidir acceso.
func (s *EntitlementService) CurrentPlan(ctx context.Context, companyID int64) string {
	e, err := s.Resolve(ctx, companyID)
	if err != nil {
		return ""
	}
	return e.PlanSlug
}

// EffectiveLimit devuelve el límite efectivo de la empresa para la clave.
// -1 significa ilimitado y corta en corto cualquier comparación de uso.
func (s *EntitlementService) EffectiveLimit(ctx context.Context, companyID int64, key string) (int, error) {
	e, err := s.Resolve(ctx, companyID)
	if err != nil {
		return 0, err
	}
	return e.Limit(key), nil
}

// Invalidate descarta el snapshot cacheado. Toda mutación de suscripción o
// add-ons debe llamarlo.
func (s *EntitlementService) Invalidate(ctx context.Context, companyID int64) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, companyID)
	}
}
