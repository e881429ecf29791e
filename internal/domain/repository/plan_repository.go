package repository

import (
	"context"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
)

// PlanRepository define el puerto de persistencia para Plan. Los planes son
// dato de referencia: tabla de plataforma, solo lectura para el resto del
// sistema.
type PlanRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Plan, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Plan, error)
	ListActive(ctx context.Context) ([]*entity.Plan, error)
}

// AddOnRepository define el puerto para AddOn y CompanyAddOn.
type AddOnRepository interface {
	GetBySlug(ctx context.Context, slug string) (*entity.AddOn, error)
	ListActive(ctx context.Context) ([]*entity.AddOn, error)
	// ListEffectiveByCompany devuelve los add-ons con activación vigente
	// (activa y sin trial vencido) de la empresa, junto con su definición.
	ListEffectiveByCompany(ctx context.Context, companyID int64) ([]*entity.AddOn, []*entity.CompanyAddOn, error)
	CreateCompanyAddOn(ctx context.Context, ca *entity.CompanyAddOn) error
	UpdateCompanyAddOn(ctx context.Context, ca *entity.CompanyAddOn) error
	// ListExpiredTrials devuelve activaciones trial vencidas y aún activas
	// de una empresa (para el barrido de vencimientos).
	ListExpiredTrials(ctx context.Context, companyID int64) ([]*entity.CompanyAddOn, error)
}

// SubscriptionRepository define el puerto para Subscription.
type SubscriptionRepository interface {
	Create(ctx context.Context, s *entity.Subscription) error
	GetByCompany(ctx context.Context, companyID int64) (*entity.Subscription, error)
	Update(ctx context.Context, s *entity.Subscription) error
}
