package entity

import (
	"strings"
	"time"
)

// APICredential es una llave de API atada a una empresa. Se guarda solo el
// digest one-way del plaintext más el prefijo público para lookup; el
// plaintext se muestra una única vez al crearla.
type APICredential struct {
	ID         int64
	CompanyID  int64
	Name       string
	KeyPrefix  string // porción pública, ej. "ak_live_3f9a"
	KeyHash    string // digest SHA-256 hex del plaintext completo
	Scopes     []string
	ExpiresAt  *time.Time
	IsActive   bool
	LastUsedAt *time.Time
	UsageCount int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsValid informa si la credencial está activa y sin expirar.
func (c *APICredential) IsValid(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ExpiresAt != nil && !c.ExpiresAt.After(now) {
		return false
	}
	return true
}

// HasScope informa si los scopes de la credencial cubren el requerido:
// "*" cubre todo, match exacto, o comodín por recurso "recurso:*".
func (c *APICredential) HasScope(required string) bool {
	resource := required
	if i := strings.IndexByte(required, ':'); i >= 0 {
		resource = required[:i]
	}
	for _, s := range c.Scopes {
		if s == "*" || s == required || s == resource+":*" {
			return true
		}
	}
	return false
}

// Revoke desactiva la credencial. No hay vuelta al plaintext.
func (c *APICredential) Revoke(now time.Time) {
	c.IsActive = false
	c.UpdatedAt = now
}
