package postgres

import (
	"context"
	"fmt"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/repository"
)

// Asegura que MembershipRepo implementa repository.MembershipRepository.
var _ repository.MembershipRepository = (*MembershipRepo)(nil)

// MembershipRepo implementación de MembershipRepository sobre PostgreSQL.
// company_users es superficie de autenticación: se consulta al resolver el
// principal, antes de que exista binding de tenant, por eso queda fuera de la
// política de filas (decisión registrada en DESIGN.md). Usable con pool o tx.
type MembershipRepo struct {
	q Querier
}

// NewMembershipRepository construye el adaptador de membresías.
func NewMembershipRepository(q Querier) *MembershipRepo {
	return &MembershipRepo{q: q}
}

const membershipCols = `id, user_id, company_id, role, status, invited_by, invited_at, joined_at, last_active_at, created_at, updated_at`

// Create persiste una membresía nueva. Unicidad (user_id, company_id).
func (r *MembershipRepo) Create(ctx context.Context, m *entity.CompanyMembership) error {
	query := `
		INSERT INTO company_users (user_id, company_id, role, status, invited_by, invited_at, joined_at, last_active_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.UserID, m.CompanyID, m.Role, m.Status, m.InvitedBy, m.InvitedAt,
		m.JoinedAt, m.LastActiveAt, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert membership: %w", errDuplicate(err))
		}
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

// GetByID obtiene una membresía por ID.
func (r *MembershipRepo) GetByID(ctx context.Context, id int64) (*entity.CompanyMembership, error) {
	query := `SELECT ` + membershipCols + ` FROM company_users WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByUserAndCompany obtiene la membresía de un usuario en una empresa.
func (r *MembershipRepo) GetByUserAndCompany(ctx context.Context, userID, companyID int64) (*entity.CompanyMembership, error) {
	query := `SELECT ` + membershipCols + ` FROM company_users WHERE user_id = $1 AND company_id = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, userID, companyID))
}

// ListByUser devuelve todas las membresías de un usuario (para selección de
// empresa al iniciar sesión).
func (r *MembershipRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.CompanyMembership, error) {
	query := `SELECT ` + membershipCols + ` FROM company_users WHERE user_id = $1 ORDER BY company_id`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships by user: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListByCompany devuelve las membresías de una empresa con paginación.
func (r *MembershipRepo) ListByCompany(ctx context.Context, companyID int64, limit, offset int) ([]*entity.CompanyMembership, error) {
	query := `SELECT ` + membershipCols + ` FROM company_users
		WHERE company_id = $1 ORDER BY created_at LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list memberships by company: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Update actualiza rol, estado y campos de auditoría de una membresía.
func (r *MembershipRepo) Update(ctx context.Context, m *entity.CompanyMembership) error {
	query := `
		UPDATE company_users
		SET role = $2, status = $3, invited_by = $4, invited_at = $5, joined_at = $6, last_active_at = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Role, m.Status, m.InvitedBy, m.InvitedAt, m.JoinedAt,
		m.LastActiveAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update membership: %w", err)
	}
	return nil
}

func (r *MembershipRepo) scanOne(row interface{ Scan(...any) error }) (*entity.CompanyMembership, error) {
	var m entity.CompanyMembership
	err := row.Scan(
		&m.ID, &m.UserID, &m.CompanyID, &m.Role, &m.Status, &m.InvitedBy,
		&m.InvitedAt, &m.JoinedAt, &m.LastActiveAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return &m, nil
}

func (r *MembershipRepo) scanAll(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]*entity.CompanyMembership, error) {
	var list []*entity.CompanyMembership
	for rows.Next() {
		var m entity.CompanyMembership
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.CompanyID, &m.Role, &m.Status, &m.InvitedBy,
			&m.InvitedAt, &m.JoinedAt, &m.LastActiveAt, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
