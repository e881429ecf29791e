package usecase

import (
	"context"
	"time"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/repository"
)

// MembershipService administra el ciclo de vida de las membresías de una
// empresa. company_users es superficie de autenticación (fuera de la política
// de filas), así que cada operación verifica explícitamente que la membresía
// pertenece a la empresa del principal.
type MembershipService struct {
	users       repository.UserRepository
	memberships repository.MembershipRepository
}

// NewMembershipService construye el servicio de membresías.
func NewMembershipService(users repository.UserRepository, memberships repository.MembershipRepository) *MembershipService {
	return &MembershipService{users: users, memberships: memberships}
}

// Invite crea una membresía pending para el usuario con ese email. El usuario
// debe existir; invited_by/invited_at quedan en la auditoría.
func (s *MembershipService) Invite(ctx context.Context, companyID, invitedBy int64, email, role string) (*entity.CompanyMembership, error) {
	if _, ok := entity.RoleRank(role); !ok {
		return nil, domain.ErrInvalidInput
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if existing, _ := s.memberships.GetByUserAndCompany(ctx, user.ID, companyID); existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	m := &entity.CompanyMembership{
		UserID:    user.ID,
		CompanyID: companyID,
		Role:      role,
		Status:    entity.MembershipPending,
		InvitedBy: &invitedBy,
		InvitedAt: &now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.memberships.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Activate aplica la transición a active (pending, inactive o suspended).
func (s *MembershipService) Activate(ctx context.Context, companyID, membershipID int64) (*entity.CompanyMembership, error) {
	return s.transition(ctx, companyID, membershipID, func(m *entity.CompanyMembership) error {
		return m.Activate(time.Now())
	})
}

// Deactivate aplica la transición active -> inactive.
func (s *MembershipService) Deactivate(ctx context.Context, companyID, membershipID int64) (*entity.CompanyMembership, error) {
	return s.transition(ctx, companyID, membershipID, func(m *entity.CompanyMembership) error {
		return m.Deactivate(time.Now())
	})
}

// Suspend aplica la transición active -> suspended.
func (s *MembershipService) Suspend(ctx context.Context, companyID, membershipID int64) (*entity.CompanyMembership, error) {
	return s.transition(ctx, companyID, membershipID, func(m *entity.CompanyMembership) error {
		return m.Suspend(time.Now())
	})
}

// List devuelve las membresías de la empresa con paginación.
func (s *MembershipService) List(ctx context.Context, companyID int64, limit, offset int) ([]*entity.CompanyMembership, error) {
	return s.memberships.ListByCompany(ctx, companyID, limit, offset)
}

func (s *MembershipService) transition(ctx context.Context, companyID, membershipID int64, fn func(*entity.CompanyMembership) error) (*entity.CompanyMembership, error) {
	m, err := s.memberships.GetByID(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	// La pertenencia a la empresa se verifica aquí, no en la tabla.
	if m == nil || m.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if err := fn(m); err != nil {
		return nil, err
	}
	if err := s.memberships.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
