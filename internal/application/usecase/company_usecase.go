package usecase

import (
	"context"
	"time"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/dto"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/repository"
)

// CompanyUseCase casos de uso de plataforma sobre empresas. Solo principals
// scope=platform llegan aquí; las operaciones tocan tablas de plataforma o
// iteran tenants con una sub-unidad de trabajo por empresa.
type CompanyUseCase struct {
	repo   repository.CompanyRepository
	runner repository.TenantRunner
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository, runner repository.TenantRunner) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, runner: runner}
}

// Create crea una nueva empresa. Devuelve domain.ErrDuplicate si el slug ya existe.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	existing, _ := uc.repo.GetBySlug(ctx, in.Slug)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	company := &entity.Company{
		Name:      in.Name,
		Slug:      in.Slug,
		Email:     in.Email,
		Phone:     in.Phone,
		IsActive:  true,
		Status:    entity.CompanyStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// GetByID obtiene una empresa por ID.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id int64) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, nil
	}
	return entityToCompanyResponse(company), nil
}

// List lista empresas con paginación.
func (uc *CompanyUseCase) List(ctx context.Context, limit, offset int) (*dto.CompanyListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCompanyResponse(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// UsageOverview agrega el uso de un recurso en todas las empresas activas,
// iterando con una sub-unidad de trabajo por tenant: nunca se limpia el
// contexto para leer "todo de una vez".
func (uc *CompanyUseCase) UsageOverview(ctx context.Context, limitKey string) (map[int64]int, error) {
	out := make(map[int64]int)
	err := uc.runner.RunForEachTenant(ctx, func(companyID int64, repos repository.TenantRepos) error {
		n, err := repos.Usage.CountActive(ctx, limitKey)
		if err != nil {
			return err
		}
		out[companyID] = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		Email:     c.Email,
		Phone:     c.Phone,
		IsActive:  c.IsActive,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
