package entity

import (
	"time"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain"
)

// Roles de empresa, ordenados de mayor a menor jerarquía.
const (
	RoleOwner        = "owner"
	RoleManager      = "manager"
	RoleOperator     = "operator"
	RoleProfessional = "professional"
	RoleReceptionist = "receptionist"
	RoleFinance      = "finance"
	RoleClient       = "client"
	RoleReadOnly     = "readonly"
)

// roleRanks define el orden total de los roles de empresa. Un guard
// "requiere manager o superior" compara rangos, no nombres.
var roleRanks = map[string]int{
	RoleOwner:        8,
	RoleManager:      7,
	RoleOperator:     6,
	RoleProfessional: 5,
	RoleReceptionist: 4,
	RoleFinance:      3,
	RoleClient:       2,
	RoleReadOnly:     1,
}

// RoleRank devuelve el rango del rol (mayor = más privilegios) y si el rol existe.
func RoleRank(role string) (int, bool) {
	r, ok := roleRanks[role]
	return r, ok
}

// Estados de CompanyMembership.
const (
	MembershipPending   = "pending"
	MembershipActive    = "active"
	MembershipInactive  = "inactive"
	MembershipSuspended = "suspended"
)

// CompanyMembership es la relación muchos-a-muchos entre un usuario y una
// empresa, con rol y estado propios. Un mismo usuario puede tener membresías
// independientes en varias empresas; una sesión autenticada queda atada a
// exactamente una empresa a la vez. Cualquier campo "rol actual" de un solo
// valor es una proyección derivada de la membresía activa de la empresa
// seleccionada, nunca la fuente de verdad.
type CompanyMembership struct {
	ID           int64
	UserID       int64
	CompanyID    int64
	Role         string // ver constantes Role*
	Status       string // pending, active, inactive, suspended
	InvitedBy    *int64
	InvitedAt    *time.Time
	JoinedAt     *time.Time
	LastActiveAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Activate pasa la membresía a active. Válido desde pending, inactive o
// suspended. Fija joined_at la primera vez y refresca last_active_at.
func (m *CompanyMembership) Activate(now time.Time) error {
	switch m.Status {
	case MembershipPending, MembershipInactive, MembershipSuspended:
		m.Status = MembershipActive
		if m.JoinedAt == nil {
			m.JoinedAt = &now
		}
		m.LastActiveAt = &now
		m.UpdatedAt = now
		return nil
	case MembershipActive:
		// ya activa: refrescar last_active_at sin cambiar estado
		m.LastActiveAt = &now
		m.UpdatedAt = now
		return nil
	default:
		return domain.ErrConflict
	}
}

// Deactivate pasa la membresía de active a inactive.
func (m *CompanyMembership) Deactivate(now time.Time) error {
	if m.Status != MembershipActive {
		return domain.ErrConflict
	}
	m.Status = MembershipInactive
	m.UpdatedAt = now
	return nil
}

// Suspend pasa la membresía de active a suspended. No existe transición
// directa pending -> suspended.
func (m *CompanyMembership) Suspend(now time.Time) error {
	if m.Status != MembershipActive {
		return domain.ErrConflict
	}
	m.Status = MembershipSuspended
	m.UpdatedAt = now
	return nil
}

// Touch refresca last_active_at (se llama en cada request autenticado).
func (m *CompanyMembership) Touch(now time.Time) {
	m.LastActiveAt = &now
	m.UpdatedAt = now
}
