package postgres

import (
	"context"
	"fmt"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/repository"
)

// Asegura que APICredentialRepo implementa repository.APICredentialRepository.
var _ repository.APICredentialRepository = (*APICredentialRepo)(nil)

// APICredentialRepo implementación de APICredentialRepository sobre
// PostgreSQL. api_credentials es superficie de autenticación: GetByPrefix se
// consulta antes de que exista binding de tenant, así que la tabla queda
// fuera de la política de filas; el aislamiento lo da el company_id que la
// propia credencial ata.
type APICredentialRepo struct {
	q Querier
}

// NewAPICredentialRepository construye el adaptador de credenciales de API.
func NewAPICredentialRepository(q Querier) *APICredentialRepo {
	return &APICredentialRepo{q: q}
}

const credentialCols = `id, company_id, name, key_prefix, key_hash, scopes, expires_at, is_active, last_used_at, usage_count, created_at, updated_at`

// Create persiste una credencial nueva (solo prefijo + digest, nunca el plaintext).
func (r *APICredentialRepo) Create(ctx context.Context, c *entity.APICredential) error {
	query := `
		INSERT INTO api_credentials (company_id, name, key_prefix, key_hash, scopes, expires_at, is_active, last_used_at, usage_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		c.CompanyID, c.Name, c.KeyPrefix, c.KeyHash, c.Scopes, c.ExpiresAt,
		c.IsActive, c.LastUsedAt, c.UsageCount, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert api credential: %w", errDuplicate(err))
		}
		return fmt.Errorf("insert api credential: %w", err)
	}
	return nil
}

// GetByID obtiene una credencial por ID.
func (r *APICredentialRepo) GetByID(ctx context.Context, id int64) (*entity.APICredential, error) {
	query := `SELECT ` + credentialCols + ` FROM api_credentials WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByPrefix busca una credencial por su prefijo público de lookup.
func (r *APICredentialRepo) GetByPrefix(ctx context.Context, keyPrefix string) (*entity.APICredential, error) {
	query := `SELECT ` + credentialCols + ` FROM api_credentials WHERE key_prefix = $1`
	return r.scanOne(ctx, query, keyPrefix)
}

// ListByCompany devuelve las credenciales de una empresa.
func (r *APICredentialRepo) ListByCompany(ctx context.Context, companyID int64) ([]*entity.APICredential, error) {
	query := `SELECT ` + credentialCols + ` FROM api_credentials WHERE company_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list api credentials: %w", err)
	}
	defer rows.Close()

	var list []*entity.APICredential
	for rows.Next() {
		var c entity.APICredential
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.Name, &c.KeyPrefix, &c.KeyHash, &c.Scopes,
			&c.ExpiresAt, &c.IsActive, &c.LastUsedAt, &c.UsageCount, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan api credential: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update actualiza estado y metadatos de una credencial (revocación incluida).
// El hash jamás cambia: una credencial comprometida se revoca y se emite otra.
func (r *APICredentialRepo) Update(ctx context.Context, c *entity.APICredential) error {
	query := `
		UPDATE api_credentials
		SET name = $2, scopes = $3, expires_at = $4, is_active = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Scopes, c.ExpiresAt, c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update api credential: %w", err)
	}
	return nil
}

// TouchUsage registra una verificación exitosa: last_used_at e incremento
// atómico de usage_count, en cada llamada autenticada, lecturas incluidas.
func (r *APICredentialRepo) TouchUsage(ctx context.Context, id int64) error {
	query := `UPDATE api_credentials SET last_used_at = now(), usage_count = usage_count + 1 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("touch api credential usage: %w", err)
	}
	return nil
}

func (r *APICredentialRepo) scanOne(ctx context.Context, query string, arg any) (*entity.APICredential, error) {
	var c entity.APICredential
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.KeyPrefix, &c.KeyHash, &c.Scopes,
		&c.ExpiresAt, &c.IsActive, &c.LastUsedAt, &c.UsageCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get api credential: %w", err)
	}
	return &c, nil
}
