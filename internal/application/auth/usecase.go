package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/dto"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/repository"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret      string
	AccessMins  int
	RefreshMins int
	Issuer      string
}

// DefaultPlanSlug plan asignado en el registro cuando no se pide otro.
const DefaultPlanSlug = "basico"

// AuthUseCase casos de uso de autenticación: registro de empresa, login,
// refresh y cambio de empresa de la sesión. Una sesión queda atada a
// exactamente una empresa; cambiar de empresa emite un token nuevo.
type AuthUseCase struct {
	users       repository.UserRepository
	companies   repository.CompanyRepository
	memberships repository.MembershipRepository
	plans       repository.PlanRepository
	runner      repository.TenantRunner
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	users repository.UserRepository,
	companies repository.CompanyRepository,
	memberships repository.MembershipRepository,
	plans repository.PlanRepository,
	runner repository.TenantRunner,
	jwtCfg JWTConfig,
) *AuthUseCase {
	return &AuthUseCase{
		users: users, companies: companies, memberships: memberships,
		plans: plans, runner: runner, jwtCfg: jwtCfg,
	}
}

// Register crea empresa, usuario owner, membresía y suscripción inicial.
// La suscripción nace dentro de la unidad de trabajo del tenant nuevo.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.TokenPairResponse, error) {
	if existing, _ := uc.users.GetByEmail(ctx, in.Email); existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if existing, _ := uc.companies.GetBySlug(ctx, in.CompanySlug); existing != nil {
		return nil, domain.ErrDuplicate
	}

	planSlug := in.PlanSlug
	if planSlug == "" {
		planSlug = DefaultPlanSlug
	}
	plan, err := uc.plans.GetBySlug(ctx, planSlug)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	company := &entity.Company{
		Name:      in.CompanyName,
		Slug:      in.CompanySlug,
		Email:     in.Email,
		IsActive:  true,
		Status:    entity.CompanyStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.companies.Create(ctx, company); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := in.Name
	if name == "" {
		name = in.Email
	}
	user := &entity.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	joined := now
	membership := &entity.CompanyMembership{
		UserID:       user.ID,
		CompanyID:    company.ID,
		Role:         entity.RoleOwner,
		Status:       entity.MembershipActive,
		JoinedAt:     &joined,
		LastActiveAt: &joined,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.memberships.Create(ctx, membership); err != nil {
		return nil, err
	}

	err = uc.runner.RunInTenant(ctx, company.ID, func(repos repository.TenantRepos) error {
		sub := &entity.Subscription{
			CompanyID:          company.ID,
			PlanID:             plan.ID,
			Status:             entity.SubscriptionActive,
			CurrentPeriodStart: now,
			CurrentPeriodEnd:   now.AddDate(0, 1, 0),
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if plan.TrialDays > 0 {
			trialEnd := now.AddDate(0, 0, plan.TrialDays)
			sub.Status = entity.SubscriptionTrial
			sub.TrialEnd = &trialEnd
		}
		return repos.Subscriptions.Create(ctx, sub)
	})
	if err != nil {
		return nil, err
	}

	return uc.issuePair(user, company.ID, entity.RoleOwner)
}

// Login verifica credenciales y ata la sesión a una empresa: la pedida en el
// request o, si no se pide, la única membresía activa del usuario. El personal
// de plataforma sin company_id recibe un token scope=platform.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenPairResponse, error) {
	user, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	// Mensaje genérico tanto para email desconocido como para password
	// incorrecto: no permitir enumeración de cuentas.
	if user == nil {
		return nil, domain.ErrCredentialInvalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrCredentialInvalid
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrCredentialInvalid
	}

	if in.CompanyID == 0 && user.IsPlatformStaff() {
		return uc.issuePlatformPair(user)
	}

	companyID := in.CompanyID
	if companyID == 0 {
		list, err := uc.memberships.ListByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		var active []*entity.CompanyMembership
		for _, m := range list {
			if m.Status == entity.MembershipActive {
				active = append(active, m)
			}
		}
		if len(active) != 1 {
			// Varias empresas: el cliente debe elegir una explícitamente.
			return nil, domain.ErrMembershipInactive
		}
		companyID = active[0].CompanyID
	}

	return uc.bindSession(ctx, user, companyID)
}

// Refresh renueva el par de tokens a partir de un refresh token válido,
// re-validando membresía y empresa: un refresh no revive una sesión cuya
// membresía fue suspendida.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, refreshToken)
	if err != nil || claims.Type != jwt.TypeRefresh {
		return nil, domain.ErrCredentialInvalid
	}
	user, err := uc.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != entity.UserStatusActive {
		return nil, domain.ErrCredentialInvalid
	}
	if claims.Scope == entity.ScopePlatform {
		if !user.IsPlatformStaff() {
			return nil, domain.ErrScopeMismatch
		}
		return uc.issuePlatformPair(user)
	}
	return uc.bindSession(ctx, user, claims.CompanyID)
}

// SwitchCompany ata la sesión a otra empresa del mismo usuario. Emite un
// token nuevo; el anterior sigue atado a la empresa vieja hasta expirar.
func (uc *AuthUseCase) SwitchCompany(ctx context.Context, userID, companyID int64) (*dto.TokenPairResponse, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != entity.UserStatusActive {
		return nil, domain.ErrCredentialInvalid
	}
	return uc.bindSession(ctx, user, companyID)
}

// bindSession valida empresa activa + membresía activa y emite el par.
func (uc *AuthUseCase) bindSession(ctx context.Context, user *entity.User, companyID int64) (*dto.TokenPairResponse, error) {
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil || !company.IsActive {
		return nil, domain.ErrTenantInactive
	}
	m, err := uc.memberships.GetByUserAndCompany(ctx, user.ID, companyID)
	if err != nil {
		return nil, err
	}
	if m == nil || m.Status != entity.MembershipActive {
		return nil, domain.ErrMembershipInactive
	}
	m.Touch(time.Now())
	if err := uc.memberships.Update(ctx, m); err != nil {
		return nil, err
	}
	return uc.issuePair(user, companyID, m.Role)
}

func (uc *AuthUseCase) issuePair(user *entity.User, companyID int64, role string) (*dto.TokenPairResponse, error) {
	access, refresh, err := jwt.GeneratePair(uc.jwtCfg.Secret, jwt.Params{
		UserID:    user.ID,
		CompanyID: companyID,
		Role:      role,
		Scope:     entity.ScopeCompany,
		Issuer:    uc.jwtCfg.Issuer,
	}, uc.jwtCfg.AccessMins, uc.jwtCfg.RefreshMins)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Scope:        entity.ScopeCompany,
		CompanyID:    companyID,
		Role:         role,
		User:         toUserResponse(user),
	}, nil
}

func (uc *AuthUseCase) issuePlatformPair(user *entity.User) (*dto.TokenPairResponse, error) {
	access, refresh, err := jwt.GeneratePair(uc.jwtCfg.Secret, jwt.Params{
		UserID: user.ID,
		Role:   user.PlatformRole,
		Scope:  entity.ScopePlatform,
		Issuer: uc.jwtCfg.Issuer,
	}, uc.jwtCfg.AccessMins, uc.jwtCfg.RefreshMins)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Scope:        entity.ScopePlatform,
		Role:         user.PlatformRole,
		User:         toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}
