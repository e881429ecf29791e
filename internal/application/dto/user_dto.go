package dto

import "time"

// RegisterRequest entrada para el registro de una empresa nueva: crea la
// empresa, el usuario y la membresía owner en un solo paso.
type RegisterRequest struct {
	CompanyName string `json:"company_name" validate:"required,min=1,max=200"`
	CompanySlug string `json:"company_slug" validate:"required,min=2,max=60"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Name        string `json:"name" validate:"omitempty,max=200"`
	PlanSlug    string `json:"plan_slug" validate:"omitempty"`
}

// LoginRequest entrada para login. CompanyID selecciona en qué empresa se
// abre la sesión cuando el usuario pertenece a varias; 0 = la única/primera
// membresía activa.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	CompanyID int64  `json:"company_id"`
}

// RefreshRequest entrada para renovar el par de tokens.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// SwitchCompanyRequest entrada para cambiar la empresa de la sesión.
type SwitchCompanyRequest struct {
	CompanyID int64 `json:"company_id" validate:"required"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPairResponse salida de login/refresh/switch: par de tokens más el
// contexto de empresa y rol con el que quedó atada la sesión.
type TokenPairResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	Scope        string       `json:"scope"`
	CompanyID    int64        `json:"company_id,omitempty"`
	Role         string       `json:"role"`
	User         UserResponse `json:"user"`
}
