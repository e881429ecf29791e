package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/usecase"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	apphttp "github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/interfaces/http"
)

// gateStub responde el gate de entitlements con valores fijos.
type gateStub struct {
	features map[string]bool
	plan     string
	err      error
}

func (g gateStub) HasFeature(_ context.Context, _ int64, f string) (bool, error) {
	return g.features[f], g.err
}
func (g gateStub) RequiredPlan(f string) string {
	if f == "reportes" {
		return "pro"
	}
	return ""
}
func (g gateStub) CurrentPlan(_ context.Context, _ int64) string { return g.plan }

// limitStub responde CheckLimit con un error fijo.
type limitStub struct{ err error }

func (l limitStub) CheckLimit(_ context.Context, _ int64, _ string) error { return l.err }

// principalInyectado simula el AuthMiddleware: deja un principal de empresa
// en Locals para que los guards posteriores lo encuentren.
func principalInyectado() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(apphttp.LocalPrincipal, entity.Principal{
			UserID: testUserID, Scope: entity.ScopeCompany,
			CompanyID: testCompanyID, Role: entity.RoleManager,
		})
		return c.Next()
	}
}

func TestRequireFeature_Concedida_Pasa(t *testing.T) {
	app := fiber.New()
	gate := gateStub{features: map[string]bool{"reportes": true}, plan: "pro"}
	app.Get("/reportes", principalInyectado(), apphttp.RequireFeature("reportes", gate), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/reportes", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireFeature_Denegada_403ConPlanRequerido(t *testing.T) {
	app := fiber.New()
	gate := gateStub{features: map[string]bool{}, plan: "basico"}
	app.Get("/reportes", principalInyectado(), apphttp.RequireFeature("reportes", gate), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/reportes", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "reportes", body["feature"])
	assert.Equal(t, "basico", body["current_plan"])
	assert.Equal(t, "pro", body["required_plan"],
		"la respuesta debe decir qué plan desbloquea la feature")
	assert.Equal(t, true, body["upgrade_required"])
}

func TestRequireFeature_SinPrincipal_401(t *testing.T) {
	app := fiber.New()
	gate := gateStub{features: map[string]bool{"reportes": true}}
	app.Get("/reportes", apphttp.RequireFeature("reportes", gate), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/reportes", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"sin principal el guard niega, nunca asume")
}

func TestRequireWithinLimit_Excedido_402ConConteos(t *testing.T) {
	app := fiber.New()
	checker := limitStub{err: &usecase.LimitViolation{
		Resource: entity.LimitProfessionals, Plan: "basico", Current: 3, Limit: 3,
	}}
	app.Post("/members", principalInyectado(), apphttp.RequireWithinLimit(entity.LimitProfessionals, checker), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/members", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, entity.LimitProfessionals, body["resource"])
	assert.Equal(t, float64(3), body["current"])
	assert.Equal(t, float64(3), body["limit"])
}

func TestRequireWithinLimit_DentroDelLimite_Pasa(t *testing.T) {
	app := fiber.New()
	app.Post("/members", principalInyectado(), apphttp.RequireWithinLimit(entity.LimitProfessionals, limitStub{}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/members", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
