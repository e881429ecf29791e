package entity

import "time"

// Estados válidos para Company.
const (
	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"
	CompanyStatusInactive  = "inactive"
)

// Company representa una empresa/tenant del sistema. Es la raíz del
// aislamiento: toda fila propiedad del tenant lleva su company_id y la
// política de la base de datos solo deja ver filas del tenant fijado en el
// contexto de la transacción.
type Company struct {
	ID        int64
	Name      string
	Slug      string
	Email     string
	Phone     string
	IsActive  bool
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Deactivate marca la empresa como inactiva. Idempotente.
func (c *Company) Deactivate(now time.Time) {
	c.IsActive = false
	c.Status = CompanyStatusInactive
	c.UpdatedAt = now
}
