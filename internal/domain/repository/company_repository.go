package repository

import (
	"context"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure. La tabla companies es de
// plataforma: no está bajo la política de tenant.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id int64) (*entity.Company, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
	// ListActiveIDs devuelve los ids de empresas activas, para jobs que
	// abren una sub-unidad de trabajo por tenant.
	ListActiveIDs(ctx context.Context) ([]int64, error)
}
