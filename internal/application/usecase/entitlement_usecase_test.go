package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/usecase"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/repository"
)

const testCompanyID int64 = 7

// catálogo de prueba: tres planes con features y límites crecientes.
func catalogoDePrueba() []*entity.Plan {
	return []*entity.Plan{
		{
			ID: 1, Slug: "basico", Name: "Básico", Rank: 1,
			MaxProfessionals: 3, MaxUnits: 1, MaxClients: 100, MaxAppointmentsPerMonth: 200,
			Features: []string{"agenda", "clientes"},
			IsActive: true,
		},
		{
			ID: 2, Slug: "pro", Name: "Pro", Rank: 2,
			MaxProfessionals: 10, MaxUnits: 3, MaxClients: 1000, MaxAppointmentsPerMonth: 2000,
			Features: []string{"agenda", "clientes", "reportes", "marketing"},
			IsActive: true,
		},
		{
			ID: 3, Slug: "premium", Name: "Premium", Rank: 3,
			MaxProfessionals: entity.UnlimitedLimit, MaxUnits: entity.UnlimitedLimit,
			MaxClients: entity.UnlimitedLimit, MaxAppointmentsPerMonth: entity.UnlimitedLimit,
			Features: []string{"agenda", "clientes", "reportes", "marketing", "api_publica"},
			IsActive: true,
		},
	}
}

type entorno struct {
	plans  *fakePlanRepo
	subs   *fakeSubscriptionRepo
	addOns *fakeAddOnRepo
	usage  *fakeUsageRepo
	comps  *fakeCompanyRepo
	runner *fakeRunner
}

func nuevoEntorno(planSlug string) *entorno {
	plans := &fakePlanRepo{plans: catalogoDePrueba()}
	var plan *entity.Plan
	for _, p := range plans.plans {
		if p.Slug == planSlug {
			plan = p
		}
	}
	now := time.Now()
	e := &entorno{
		plans: plans,
		subs: &fakeSubscriptionRepo{subs: map[int64]*entity.Subscription{
			testCompanyID: {
				ID: 1, CompanyID: testCompanyID, PlanID: plan.ID, PlanSlug: plan.Slug,
				Status:             entity.SubscriptionActive,
				CurrentPeriodStart: now, CurrentPeriodEnd: now.AddDate(0, 1, 0),
			},
		}},
		addOns: &fakeAddOnRepo{activations: map[int64][]*entity.CompanyAddOn{}},
		usage:  &fakeUsageRepo{counts: map[string]int{}},
		comps: &fakeCompanyRepo{companies: map[int64]*entity.Company{
			testCompanyID: {ID: testCompanyID, Slug: "salon-luna", IsActive: true, Status: entity.CompanyStatusActive},
		}},
	}
	e.runner = &fakeRunner{repos: repository.TenantRepos{
		Companies:     e.comps,
		AddOns:        e.addOns,
		Subscriptions: e.subs,
		Usage:         e.usage,
	}}
	return e
}

func (e *entorno) entitlements(t *testing.T) *usecase.EntitlementService {
	t.Helper()
	svc, err := usecase.NewEntitlementService(context.Background(), e.plans, e.runner, nil)
	require.NoError(t, err)
	return svc
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución de entitlements
// ──────────────────────────────────────────────────────────────────────────────

func TestResolve_PlanBase(t *testing.T) {
	svc := nuevoEntorno("basico").entitlements(t)

	e, err := svc.Resolve(context.Background(), testCompanyID)
	require.NoError(t, err)

	assert.Equal(t, "basico", e.PlanSlug)
	assert.True(t, e.HasFeature("agenda"))
	assert.False(t, e.HasFeature("reportes"), "reportes es de pro en adelante")
	assert.Equal(t, 3, e.Limit(entity.LimitProfessionals))
}

func TestResolve_PlanesMonotonicos(t *testing.T) {
	// Cada plan superior debe incluir todas las features del inferior.
	catalog := catalogoDePrueba()
	for i := 1; i < len(catalog); i++ {
		for _, f := range catalog[i-1].Features {
			assert.True(t, catalog[i].HasFeature(f),
				"el plan %s debe incluir la feature %s del plan %s",
				catalog[i].Slug, f, catalog[i-1].Slug)
		}
	}
}

func TestResolve_AddOnDesbloqueaFeature(t *testing.T) {
	env := nuevoEntorno("basico")
	whatsapp := &entity.AddOn{ID: 10, Slug: "marketing_whatsapp", UnlocksFeatures: []string{"marketing"}, IsActive: true}
	env.addOns.catalog = append(env.addOns.catalog, whatsapp)
	env.addOns.activations[testCompanyID] = []*entity.CompanyAddOn{
		{ID: 1, CompanyID: testCompanyID, AddOnID: 10, IsActive: true},
	}
	svc := env.entitlements(t)

	e, err := svc.Resolve(context.Background(), testCompanyID)
	require.NoError(t, err)

	assert.True(t, e.HasFeature("marketing"), "el add-on desbloquea la feature sin cambiar de plan")
	assert.Equal(t, "basico", e.PlanSlug, "el plan base no cambia")
}

func TestResolve_AddOnSobrescribeLimite(t *testing.T) {
	env := nuevoEntorno("basico")
	extra := &entity.AddOn{
		ID: 11, Slug: "equipo_extra", IsActive: true,
		OverrideLimits: map[string]int{entity.LimitProfessionals: 15},
	}
	env.addOns.catalog = append(env.addOns.catalog, extra)
	env.addOns.activations[testCompanyID] = []*entity.CompanyAddOn{
		{ID: 1, CompanyID: testCompanyID, AddOnID: 11, IsActive: true},
	}
	svc := env.entitlements(t)

	e, err := svc.Resolve(context.Background(), testCompanyID)
	require.NoError(t, err)

	assert.Equal(t, 15, e.Limit(entity.LimitProfessionals), "el override del add-on manda")
	assert.Equal(t, 1, e.Limit(entity.LimitUnits), "los demás límites siguen siendo del plan")
}

func TestResolve_TrialVencidoNoCuenta(t *testing.T) {
	env := nuevoEntorno("basico")
	whatsapp := &entity.AddOn{ID: 10, Slug: "marketing_whatsapp", UnlocksFeatures: []string{"marketing"}, IsActive: true}
	env.addOns.catalog = append(env.addOns.catalog, whatsapp)
	vencido := time.Now().Add(-time.Hour)
	env.addOns.activations[testCompanyID] = []*entity.CompanyAddOn{
		{ID: 1, CompanyID: testCompanyID, AddOnID: 10, IsActive: true, IsTrial: true, TrialEnd: &vencido},
	}
	svc := env.entitlements(t)

	e, err := svc.Resolve(context.Background(), testCompanyID)
	require.NoError(t, err)

	assert.False(t, e.HasFeature("marketing"), "un trial vencido no otorga la feature")
}

func TestResolve_SuscripcionCancelada_FallaCerrado(t *testing.T) {
	env := nuevoEntorno("basico")
	env.subs.subs[testCompanyID].Status = entity.SubscriptionCanceled
	svc := env.entitlements(t)

	_, err := svc.Resolve(context.Background(), testCompanyID)
	assert.ErrorIs(t, err, domain.ErrTenantInactive)
}

func TestResolve_SinSuscripcion_FallaCerrado(t *testing.T) {
	env := nuevoEntorno("basico")
	delete(env.subs.subs, testCompanyID)
	svc := env.entitlements(t)

	_, err := svc.Resolve(context.Background(), testCompanyID)
	assert.ErrorIs(t, err, domain.ErrTenantInactive,
		"sin suscripción no hay entitlements, nunca un snapshot vacío permisivo")
}

func TestLimitePremium_EsIlimitado(t *testing.T) {
	svc := nuevoEntorno("premium").entitlements(t)

	limit, err := svc.EffectiveLimit(context.Background(), testCompanyID, entity.LimitClients)
	require.NoError(t, err)
	assert.Equal(t, entity.UnlimitedLimit, limit)
}

func TestLimit_ClaveDesconocida_EsCero(t *testing.T) {
	svc := nuevoEntorno("premium").entitlements(t)

	e, err := svc.Resolve(context.Background(), testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, 0, e.Limit("max_sucursales"),
		"una clave desconocida limita a cero, jamás a ilimitado")
}

// ──────────────────────────────────────────────────────────────────────────────
// Índice inverso feature -> plan mínimo
// ──────────────────────────────────────────────────────────────────────────────

func TestRequiredPlan_DerivadoDelCatalogo(t *testing.T) {
	svc := nuevoEntorno("basico").entitlements(t)

	assert.Equal(t, "basico", svc.RequiredPlan("agenda"))
	assert.Equal(t, "pro", svc.RequiredPlan("reportes"))
	assert.Equal(t, "premium", svc.RequiredPlan("api_publica"))
	assert.Equal(t, "", svc.RequiredPlan("feature_inexistente"))
}

func TestRequiredPlanIndex_CoincideConElCatalogo(t *testing.T) {
	// Las dos vistas (plan -> features y feature -> plan mínimo) salen de la
	// misma fuente: para toda feature de todo plan, el plan mínimo que el
	// índice devuelve debe efectivamente incluirla.
	catalog := catalogoDePrueba()
	idx := usecase.BuildRequiredPlanIndex(catalog)

	for _, p := range catalog {
		for _, f := range p.Features {
			minSlug, ok := idx[f]
			require.True(t, ok, "toda feature del catálogo debe estar en el índice")
			var minPlan *entity.Plan
			for _, q := range catalog {
				if q.Slug == minSlug {
					minPlan = q
				}
			}
			require.NotNil(t, minPlan)
			assert.True(t, minPlan.HasFeature(f))
			assert.LessOrEqual(t, minPlan.Rank, p.Rank,
				"el plan mínimo de %s no puede superar al plan %s que la incluye", f, p.Slug)
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Cache
// ──────────────────────────────────────────────────────────────────────────────

type memoriaCache struct {
	data map[int64]*usecase.Entitlements
	hits int
}

func (c *memoriaCache) Get(_ context.Context, id int64) (*usecase.Entitlements, bool) {
	e, ok := c.data[id]
	if ok {
		c.hits++
	}
	return e, ok
}
func (c *memoriaCache) Set(_ context.Context, id int64, e *usecase.Entitlements) { c.data[id] = e }
func (c *memoriaCache) Invalidate(_ context.Context, id int64)                   { delete(c.data, id) }

func TestResolve_UsaElCacheYLoInvalida(t *testing.T) {
	env := nuevoEntorno("basico")
	cache := &memoriaCache{data: map[int64]*usecase.Entitlements{}}
	svc, err := usecase.NewEntitlementService(context.Background(), env.plans, env.runner, cache)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Resolve(ctx, testCompanyID)
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits, "la segunda resolución debe salir del cache")

	svc.Invalidate(ctx, testCompanyID)
	_, ok := cache.data[testCompanyID]
	assert.False(t, ok, "invalidar debe borrar el snapshot")
}
