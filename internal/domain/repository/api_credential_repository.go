package repository

import (
	"context"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
)

// APICredentialRepository define el puerto de persistencia para APICredential.
type APICredentialRepository interface {
	Create(ctx context.Context, c *entity.APICredential) error
	GetByID(ctx context.Context, id int64) (*entity.APICredential, error)
	// GetByPrefix busca por el prefijo público; el verificador compara luego
	// el digest completo en tiempo constante.
	GetByPrefix(ctx context.Context, keyPrefix string) (*entity.APICredential, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*entity.APICredential, error)
	Update(ctx context.Context, c *entity.APICredential) error
	// TouchUsage actualiza last_used_at e incrementa usage_count en una sola
	// sentencia; se llama en cada verificación exitosa, incluidas lecturas.
	TouchUsage(ctx context.Context, id int64) error
}
