package dto

import "time"

// CreateCredentialRequest entrada para emitir una credencial de API.
type CreateCredentialRequest struct {
	Name       string   `json:"name" validate:"required,min=1,max=100"`
	Scopes     []string `json:"scopes" validate:"required,min=1"`
	ExpiresInD int      `json:"expires_in_days" validate:"omitempty,min=1"`
}

// CreateCredentialResponse salida de la emisión: la ÚNICA vez que viaja el
// plaintext.
type CreateCredentialResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Key       string     `json:"key"` // plaintext, no se vuelve a mostrar
	KeyPrefix string     `json:"key_prefix"`
	Scopes    []string   `json:"scopes"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// CredentialResponse salida de listado (sin plaintext ni hash).
type CredentialResponse struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	KeyPrefix  string     `json:"key_prefix"`
	Scopes     []string   `json:"scopes"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	IsActive   bool       `json:"is_active"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	UsageCount int64      `json:"usage_count"`
	CreatedAt  time.Time  `json:"created_at"`
}
