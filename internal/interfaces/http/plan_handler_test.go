package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/usecase"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/repository"
	apphttp "github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/interfaces/http"
)

// catalogoFijo sirve planes por slug; slug desconocido devuelve (nil, nil)
// igual que el repositorio de postgres.
type catalogoFijo struct{ plans map[string]*entity.Plan }

func (c catalogoFijo) GetByID(_ context.Context, id int64) (*entity.Plan, error) {
	for _, p := range c.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}
func (c catalogoFijo) GetBySlug(_ context.Context, slug string) (*entity.Plan, error) {
	return c.plans[slug], nil
}
func (c catalogoFijo) ListActive(_ context.Context) ([]*entity.Plan, error) {
	out := make([]*entity.Plan, 0, len(c.plans))
	for _, p := range c.plans {
		out = append(out, p)
	}
	return out, nil
}

// subsFija devuelve siempre la misma suscripción.
type subsFija struct{ sub *entity.Subscription }

func (s subsFija) Create(_ context.Context, _ *entity.Subscription) error { return nil }
func (s subsFija) GetByCompany(_ context.Context, _ int64) (*entity.Subscription, error) {
	return s.sub, nil
}
func (s subsFija) Update(_ context.Context, _ *entity.Subscription) error { return nil }

// runnerDirecto ejecuta el callback en el mismo goroutine con los repos dados.
type runnerDirecto struct{ repos repository.TenantRepos }

func (r runnerDirecto) RunInTenant(_ context.Context, _ int64, fn func(repository.TenantRepos) error) error {
	return fn(r.repos)
}
func (r runnerDirecto) RunPrivileged(_ context.Context, _ string, fn func(repository.TenantRepos) error) error {
	return fn(r.repos)
}
func (r runnerDirecto) RunForEachTenant(_ context.Context, fn func(int64, repository.TenantRepos) error) error {
	return fn(testCompanyID, r.repos)
}

func appCambioDePlan(t *testing.T) *fiber.App {
	t.Helper()
	catalogo := catalogoFijo{plans: map[string]*entity.Plan{
		"basico": {ID: 1, Slug: "basico", Name: "Básico", Rank: 1, IsActive: true},
	}}
	sub := &entity.Subscription{
		ID: 1, CompanyID: testCompanyID, PlanID: 1, PlanSlug: "basico",
		Status:             entity.SubscriptionActive,
		CurrentPeriodStart: time.Now().Add(-24 * time.Hour),
		CurrentPeriodEnd:   time.Now().Add(29 * 24 * time.Hour),
	}
	runner := runnerDirecto{repos: repository.TenantRepos{Subscriptions: subsFija{sub: sub}}}
	svc := usecase.NewSubscriptionService(catalogo, nil, runner, nil)
	h := apphttp.NewPlanHandler(catalogo, svc, nil)

	app := fiber.New()
	app.Put("/subscription/plan", principalInyectado(), h.ChangePlan)
	return app
}

func TestChangePlan_SlugDesconocido_Retorna404(t *testing.T) {
	app := appCambioDePlan(t)

	body := bytes.NewBufferString(`{"plan_slug":"no_existe"}`)
	req := httptest.NewRequest(http.MethodPut, "/subscription/plan", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode,
		"un plan inexistente es NOT_FOUND, nunca un 500")
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "NOT_FOUND", out["code"])
}

func TestChangePlan_SinPlanSlug_Retorna400(t *testing.T) {
	app := appCambioDePlan(t)

	body := bytes.NewBufferString(`{}`)
	req := httptest.NewRequest(http.MethodPut, "/subscription/plan", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
