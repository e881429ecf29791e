package dto

import "time"

// InviteMemberRequest entrada para invitar a un usuario a la empresa.
type InviteMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

// MembershipResponse salida de una membresía con auditoría.
type MembershipResponse struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	CompanyID    int64      `json:"company_id"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	InvitedBy    *int64     `json:"invited_by,omitempty"`
	InvitedAt    *time.Time `json:"invited_at,omitempty"`
	JoinedAt     *time.Time `json:"joined_at,omitempty"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// MembershipListResponse listado de membresías de la empresa.
type MembershipListResponse struct {
	Items []MembershipResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
