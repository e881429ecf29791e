package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/usecase"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
)

func (e *entorno) subscripciones(t *testing.T) *usecase.SubscriptionService {
	t.Helper()
	return usecase.NewSubscriptionService(e.plans, e.comps, e.runner, e.entitlements(t))
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckLimit
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckLimit_BajoElLimite_Permite(t *testing.T) {
	env := nuevoEntorno("basico") // max_professionals = 3
	env.usage.counts[entity.LimitProfessionals] = 2

	err := env.subscripciones(t).CheckLimit(context.Background(), testCompanyID, entity.LimitProfessionals)
	assert.NoError(t, err)
}

func TestCheckLimit_EnElLimite_Rechaza(t *testing.T) {
	env := nuevoEntorno("basico")
	env.usage.counts[entity.LimitProfessionals] = 3

	err := env.subscripciones(t).CheckLimit(context.Background(), testCompanyID, entity.LimitProfessionals)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLimitExceeded)

	var violation *usecase.LimitViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, entity.LimitProfessionals, violation.Resource)
	assert.Equal(t, 3, violation.Current)
	assert.Equal(t, 3, violation.Limit)
	assert.Equal(t, "basico", violation.Plan)
}

func TestCheckLimit_Ilimitado_NoCuenta(t *testing.T) {
	env := nuevoEntorno("premium")
	env.usage.counts[entity.LimitProfessionals] = 1_000_000

	err := env.subscripciones(t).CheckLimit(context.Background(), testCompanyID, entity.LimitProfessionals)
	assert.NoError(t, err, "-1 permite siempre, sin importar el uso")
}

// ──────────────────────────────────────────────────────────────────────────────
// Upgrade / Downgrade
// ──────────────────────────────────────────────────────────────────────────────

func TestUpgrade_EsIncondicional(t *testing.T) {
	env := nuevoEntorno("basico")
	env.usage.counts[entity.LimitProfessionals] = 3 // ya al tope del básico

	require.NoError(t, env.subscripciones(t).Upgrade(context.Background(), testCompanyID, "pro"))

	sub := env.subs.subs[testCompanyID]
	assert.Equal(t, "pro", sub.PlanSlug)
	assert.Equal(t, entity.SubscriptionActive, sub.Status)
	assert.Nil(t, sub.TrialEnd, "el upgrade termina cualquier trial")
}

func TestDowngrade_UsoCabeEnElDestino_Procede(t *testing.T) {
	env := nuevoEntorno("pro")
	env.subs.subs[testCompanyID].PlanID = 2
	env.usage.counts[entity.LimitProfessionals] = 3 // básico permite exactamente 3
	env.usage.counts[entity.LimitUnits] = 1

	require.NoError(t, env.subscripciones(t).Downgrade(context.Background(), testCompanyID, "basico"))
	assert.Equal(t, "basico", env.subs.subs[testCompanyID].PlanSlug,
		"uso == límite destino cabe: la regla es current > limit")
}

func TestDowngrade_UsoExcedeElDestino_RechazaSinMutar(t *testing.T) {
	env := nuevoEntorno("pro")
	env.subs.subs[testCompanyID].PlanID = 2
	env.usage.counts[entity.LimitProfessionals] = 4 // básico permite 3

	err := env.subscripciones(t).Downgrade(context.Background(), testCompanyID, "basico")
	require.Error(t, err)

	var violation *usecase.LimitViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, entity.LimitProfessionals, violation.Resource)
	assert.Equal(t, 4, violation.Current)
	assert.Equal(t, 3, violation.Limit)
	assert.Equal(t, "basico", violation.Plan, "el plan reportado es el destino rechazado")

	assert.Equal(t, "pro", env.subs.subs[testCompanyID].PlanSlug,
		"un downgrade rechazado no debe mutar la suscripción")
}

func TestDowngrade_OverrideDeAddOnCuenta(t *testing.T) {
	// Con el add-on que sube max_professionals a 15, el downgrade a básico
	// procede aunque el uso exceda el límite del plan base.
	env := nuevoEntorno("pro")
	env.subs.subs[testCompanyID].PlanID = 2
	extra := &entity.AddOn{
		ID: 11, Slug: "equipo_extra", IsActive: true,
		OverrideLimits: map[string]int{entity.LimitProfessionals: 15},
	}
	env.addOns.catalog = append(env.addOns.catalog, extra)
	env.addOns.activations[testCompanyID] = []*entity.CompanyAddOn{
		{ID: 1, CompanyID: testCompanyID, AddOnID: 11, IsActive: true},
	}
	env.usage.counts[entity.LimitProfessionals] = 8

	require.NoError(t, env.subscripciones(t).Downgrade(context.Background(), testCompanyID, "basico"))
	assert.Equal(t, "basico", env.subs.subs[testCompanyID].PlanSlug)
}

func TestDowngrade_PlanInexistente(t *testing.T) {
	env := nuevoEntorno("pro")
	err := env.subscripciones(t).Downgrade(context.Background(), testCompanyID, "gratis")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_DesactivaSuscripcionYEmpresa(t *testing.T) {
	env := nuevoEntorno("basico")

	require.NoError(t, env.subscripciones(t).Cancel(context.Background(), testCompanyID))

	assert.Equal(t, entity.SubscriptionCanceled, env.subs.subs[testCompanyID].Status)
	assert.False(t, env.comps.companies[testCompanyID].IsActive,
		"cancelar la suscripción desactiva la empresa")
}

func TestCancel_EsIdempotente(t *testing.T) {
	env := nuevoEntorno("basico")
	svc := env.subscripciones(t)

	require.NoError(t, svc.Cancel(context.Background(), testCompanyID))
	require.NoError(t, svc.Cancel(context.Background(), testCompanyID),
		"cancelar dos veces no es error")
}

func TestCancelada_ResolverEntitlements_Falla(t *testing.T) {
	env := nuevoEntorno("basico")
	svc := env.subscripciones(t)
	require.NoError(t, svc.Cancel(context.Background(), testCompanyID))

	err := svc.CheckLimit(context.Background(), testCompanyID, entity.LimitProfessionals)
	assert.True(t, errors.Is(err, domain.ErrTenantInactive),
		"tras cancelar, todo gate de límite debe fallar cerrado")
}

// ──────────────────────────────────────────────────────────────────────────────
// Add-ons
// ──────────────────────────────────────────────────────────────────────────────

func TestActivateAddOn_YDeactivate(t *testing.T) {
	env := nuevoEntorno("basico")
	whatsapp := &entity.AddOn{ID: 10, Slug: "marketing_whatsapp", UnlocksFeatures: []string{"marketing"}, IsActive: true}
	env.addOns.catalog = append(env.addOns.catalog, whatsapp)
	svc := env.subscripciones(t)
	ctx := context.Background()

	require.NoError(t, svc.ActivateAddOn(ctx, testCompanyID, "marketing_whatsapp", false, 0))
	activations := env.addOns.activations[testCompanyID]
	require.Len(t, activations, 1)
	assert.True(t, activations[0].IsActive)
	assert.NotNil(t, activations[0].NextBillingDate, "compra directa fija próxima facturación")

	require.NoError(t, svc.DeactivateAddOn(ctx, testCompanyID, "marketing_whatsapp"))
	assert.False(t, activations[0].IsActive)
	require.Len(t, env.addOns.activations[testCompanyID], 1,
		"la activación no se borra: es historial de facturación")
}

func TestActivateAddOn_Trial_FijaVencimiento(t *testing.T) {
	env := nuevoEntorno("basico")
	whatsapp := &entity.AddOn{ID: 10, Slug: "marketing_whatsapp", IsActive: true}
	env.addOns.catalog = append(env.addOns.catalog, whatsapp)

	require.NoError(t, env.subscripciones(t).ActivateAddOn(context.Background(), testCompanyID, "marketing_whatsapp", true, 14))

	ca := env.addOns.activations[testCompanyID][0]
	assert.True(t, ca.IsTrial)
	require.NotNil(t, ca.TrialEnd)
	assert.Nil(t, ca.NextBillingDate)
}

func TestActivateAddOn_Desconocido(t *testing.T) {
	env := nuevoEntorno("basico")
	err := env.subscripciones(t).ActivateAddOn(context.Background(), testCompanyID, "no_existe", false, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
