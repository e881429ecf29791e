package usecase_test

import (
	"context"
	"time"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/repository"
)

// Fakes en memoria para las pruebas de los servicios de entitlements y
// suscripciones. Implementan los puertos de repositorio sin base de datos; la
// unidad de trabajo fake ejecuta el callback directo, sin transacción.

type fakePlanRepo struct {
	plans []*entity.Plan // ordenados por rango ascendente
}

func (r *fakePlanRepo) GetByID(_ context.Context, id int64) (*entity.Plan, error) {
	for _, p := range r.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePlanRepo) GetBySlug(_ context.Context, slug string) (*entity.Plan, error) {
	for _, p := range r.plans {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePlanRepo) ListActive(_ context.Context) ([]*entity.Plan, error) {
	return r.plans, nil
}

type fakeSubscriptionRepo struct {
	subs map[int64]*entity.Subscription // por company_id
}

func (r *fakeSubscriptionRepo) Create(_ context.Context, s *entity.Subscription) error {
	r.subs[s.CompanyID] = s
	return nil
}

func (r *fakeSubscriptionRepo) GetByCompany(_ context.Context, companyID int64) (*entity.Subscription, error) {
	s, ok := r.subs[companyID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSubscriptionRepo) Update(_ context.Context, s *entity.Subscription) error {
	r.subs[s.CompanyID] = s
	return nil
}

type fakeAddOnRepo struct {
	catalog     []*entity.AddOn
	activations map[int64][]*entity.CompanyAddOn // por company_id
}

func (r *fakeAddOnRepo) GetBySlug(_ context.Context, slug string) (*entity.AddOn, error) {
	for _, a := range r.catalog {
		if a.Slug == slug {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAddOnRepo) ListActive(_ context.Context) ([]*entity.AddOn, error) {
	return r.catalog, nil
}

func (r *fakeAddOnRepo) ListEffectiveByCompany(_ context.Context, companyID int64) ([]*entity.AddOn, []*entity.CompanyAddOn, error) {
	now := time.Now()
	var addOns []*entity.AddOn
	var cas []*entity.CompanyAddOn
	for _, ca := range r.activations[companyID] {
		if !ca.IsEffective(now) {
			continue
		}
		for _, a := range r.catalog {
			if a.ID == ca.AddOnID {
				addOns = append(addOns, a)
				cas = append(cas, ca)
			}
		}
	}
	return addOns, cas, nil
}

func (r *fakeAddOnRepo) CreateCompanyAddOn(_ context.Context, ca *entity.CompanyAddOn) error {
	r.activations[ca.CompanyID] = append(r.activations[ca.CompanyID], ca)
	return nil
}

func (r *fakeAddOnRepo) UpdateCompanyAddOn(_ context.Context, ca *entity.CompanyAddOn) error {
	return nil // los fakes comparten punteros, la mutación ya quedó
}

func (r *fakeAddOnRepo) ListExpiredTrials(_ context.Context, companyID int64) ([]*entity.CompanyAddOn, error) {
	now := time.Now()
	var out []*entity.CompanyAddOn
	for _, ca := range r.activations[companyID] {
		if ca.IsActive && ca.IsTrial && ca.TrialEnd != nil && !ca.TrialEnd.After(now) {
			out = append(out, ca)
		}
	}
	return out, nil
}

type fakeUsageRepo struct {
	counts map[string]int // por clave de límite
}

func (r *fakeUsageRepo) CountActive(_ context.Context, limitKey string) (int, error) {
	return r.counts[limitKey], nil
}

type fakeCompanyRepo struct {
	companies map[int64]*entity.Company
}

func (r *fakeCompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.companies[c.ID] = c
	return nil
}

func (r *fakeCompanyRepo) GetByID(_ context.Context, id int64) (*entity.Company, error) {
	return r.companies[id], nil
}

func (r *fakeCompanyRepo) GetBySlug(_ context.Context, slug string) (*entity.Company, error) {
	for _, c := range r.companies {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCompanyRepo) Update(_ context.Context, c *entity.Company) error {
	r.companies[c.ID] = c
	return nil
}

func (r *fakeCompanyRepo) List(_ context.Context, _, _ int) ([]*entity.Company, error) {
	var out []*entity.Company
	for _, c := range r.companies {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCompanyRepo) ListActiveIDs(_ context.Context) ([]int64, error) {
	var out []int64
	for id, c := range r.companies {
		if c.IsActive {
			out = append(out, id)
		}
	}
	return out, nil
}

// fakeRunner ejecuta los callbacks en el acto con los repos fake, sin
// transacción ni contexto de tenant real.
type fakeRunner struct {
	repos repository.TenantRepos
}

func (r *fakeRunner) RunInTenant(_ context.Context, _ int64, fn func(repository.TenantRepos) error) error {
	return fn(r.repos)
}

func (r *fakeRunner) RunPrivileged(_ context.Context, _ string, fn func(repository.TenantRepos) error) error {
	return fn(r.repos)
}

func (r *fakeRunner) RunForEachTenant(ctx context.Context, fn func(int64, repository.TenantRepos) error) error {
	ids, _ := r.repos.Companies.ListActiveIDs(ctx)
	for _, id := range ids {
		if err := fn(id, r.repos); err != nil {
			return err
		}
	}
	return nil
}
