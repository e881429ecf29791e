package repository

import (
	"context"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
)

// MembershipRepository define el puerto de persistencia para CompanyMembership.
// Clave única (user_id, company_id). Las lecturas por empresa pasan por la
// unidad de trabajo atada al tenant; GetByUserAndCompany y ListByUser se usan
// en la resolución del principal, antes de fijar contexto, y por eso van por
// el rol de plataforma del resolver.
type MembershipRepository interface {
	Create(ctx context.Context, m *entity.CompanyMembership) error
	GetByID(ctx context.Context, id int64) (*entity.CompanyMembership, error)
	GetByUserAndCompany(ctx context.Context, userID, companyID int64) (*entity.CompanyMembership, error)
	ListByUser(ctx context.Context, userID int64) ([]*entity.CompanyMembership, error)
	ListByCompany(ctx context.Context, companyID int64, limit, offset int) ([]*entity.CompanyMembership, error)
	Update(ctx context.Context, m *entity.CompanyMembership) error
}
