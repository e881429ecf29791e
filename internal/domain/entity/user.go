package entity

import "time"

// Estados válidos para User.
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// User es la identidad autenticable. No lleva company_id: la relación con
// las empresas vive en CompanyMembership (una identidad puede pertenecer a
// varias empresas con roles independientes). PlatformRole solo está poblado
// para el personal de la plataforma.
type User struct {
	ID           int64
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	PlatformRole string // "" | platform_owner | platform_staff
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsPlatformStaff informa si la identidad tiene rol de plataforma.
func (u *User) IsPlatformStaff() bool {
	return u.PlatformRole == RolePlatformOwner || u.PlatformRole == RolePlatformStaff
}
