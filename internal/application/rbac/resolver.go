package rbac

import (
	"context"
	"time"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/repository"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/pkg/jwt"
)

// Resolver decide, a partir de claims ya verificados criptográficamente, con
// qué principal actúa el request: de plataforma o de una sola empresa. El
// company_id del token no se confía por sí solo: cada request scope=company
// re-valida la membresía y el estado de la empresa contra la base.
type Resolver struct {
	users       repository.UserRepository
	companies   repository.CompanyRepository
	memberships repository.MembershipRepository
}

// NewResolver construye el resolver con los puertos de persistencia.
func NewResolver(users repository.UserRepository, companies repository.CompanyRepository, memberships repository.MembershipRepository) *Resolver {
	return &Resolver{users: users, companies: companies, memberships: memberships}
}

// ResolveCompany resuelve un principal de empresa. Exige scope=company en los
// claims (un token de plataforma jamás se degrada a empresa), empresa activa
// y membresía activa. Refresca last_active_at de la membresía.
func (r *Resolver) ResolveCompany(ctx context.Context, claims *jwt.Claims) (entity.Principal, error) {
	if claims.Scope != entity.ScopeCompany {
		return entity.Principal{}, domain.ErrScopeMismatch
	}
	company, err := r.companies.GetByID(ctx, claims.CompanyID)
	if err != nil {
		return entity.Principal{}, err
	}
	if company == nil || !company.IsActive {
		return entity.Principal{}, domain.ErrTenantInactive
	}
	m, err := r.memberships.GetByUserAndCompany(ctx, claims.UserID, claims.CompanyID)
	if err != nil {
		return entity.Principal{}, err
	}
	if m == nil || m.Status != entity.MembershipActive {
		return entity.Principal{}, domain.ErrMembershipInactive
	}
	m.Touch(time.Now())
	if err := r.memberships.Update(ctx, m); err != nil {
		return entity.Principal{}, err
	}
	return entity.Principal{
		UserID:    claims.UserID,
		Scope:     entity.ScopeCompany,
		CompanyID: claims.CompanyID,
		Role:      m.Role,
	}, nil
}

// ResolvePlatform resuelve un principal de plataforma. Exige scope=platform
// en los claims y rol de plataforma vigente en el usuario; el rol del token
// es solo un cache, la fuente de verdad es la fila de users.
func (r *Resolver) ResolvePlatform(ctx context.Context, claims *jwt.Claims) (entity.Principal, error) {
	if claims.Scope != entity.ScopePlatform {
		return entity.Principal{}, domain.ErrScopeMismatch
	}
	user, err := r.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return entity.Principal{}, err
	}
	if user == nil || user.Status != entity.UserStatusActive {
		return entity.Principal{}, domain.ErrCredentialInvalid
	}
	if !user.IsPlatformStaff() {
		return entity.Principal{}, domain.ErrScopeMismatch
	}
	return entity.Principal{
		UserID: user.ID,
		Scope:  entity.ScopePlatform,
		Role:   user.PlatformRole,
	}, nil
}

// RequireAtLeast verifica que el principal sea de empresa y su rol alcance el
// rango mínimo. Devuelve domain.ErrForbidden si no alcanza y
// domain.ErrScopeMismatch si el principal no es de empresa.
func RequireAtLeast(p entity.Principal, role string) error {
	if p.Scope != entity.ScopeCompany {
		return domain.ErrScopeMismatch
	}
	if !p.HasRoleAtLeast(role) {
		return domain.ErrForbidden
	}
	return nil
}
