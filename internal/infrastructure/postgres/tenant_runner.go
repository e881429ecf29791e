package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/repository"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/pkg/logger"
)

// Asegura que TenantRunner implementa el puerto de unidad de trabajo.
var _ repository.TenantRunner = (*TenantRunner)(nil)

// TenantRunner ejecuta callbacks dentro de una transacción PostgreSQL con el
// contexto de tenant fijado como primera sentencia. Es la pieza que convierte
// "conexión física reutilizada del pool" en "unidad de trabajo con un solo
// tenant", y la única vía soportada para las tablas bajo la política.
type TenantRunner struct {
	pool            *pgxpool.Pool
	log             *logger.Logger
	checkoutTimeout time.Duration
}

// NewTenantRunner construye el runner con el pool compartido.
func NewTenantRunner(pool *pgxpool.Pool, log *logger.Logger, checkoutTimeout time.Duration) *TenantRunner {
	return &TenantRunner{pool: pool, log: log, checkoutTimeout: checkoutTimeout}
}

func reposFor(q Querier) repository.TenantRepos {
	return repository.TenantRepos{
		Companies:     NewCompanyRepository(q),
		Memberships:   NewMembershipRepository(q),
		AddOns:        NewAddOnRepository(q),
		Subscriptions: NewSubscriptionRepository(q),
		Credentials:   NewAPICredentialRepository(q),
		Usage:         NewUsageRepository(q),
	}
}

// RunInTenant abre una transacción, fija el contexto de tenant antes de la
// primera consulta de fn y hace Commit o Rollback. El binding es de alcance
// de transacción (is_local=true): al cerrar la transacción el marcador vuelve
// a vacío sin depender de disciplina del llamador, así la conexión regresa
// limpia al pool.
func (r *TenantRunner) RunInTenant(ctx context.Context, companyID int64, fn func(repository.TenantRepos) error) error {
	conn, err := AcquireTimeout(ctx, r.pool, r.checkoutTimeout)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := SetTenantContext(ctx, tx, companyID); err != nil {
		return err
	}

	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunPrivileged abre una transacción con el contexto explícitamente vacío y
// la registra como acción privilegiada. Las tablas de tenant degradan a cero
// filas: solo sirve para tablas de plataforma (companies, plans, add_ons).
func (r *TenantRunner) RunPrivileged(ctx context.Context, action string, fn func(repository.TenantRepos) error) error {
	r.log.Privileged(action).Msg("unidad de trabajo con contexto de tenant vacío")

	conn, err := AcquireTimeout(ctx, r.pool, r.checkoutTimeout)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := ClearTenantContext(ctx, tx); err != nil {
		return err
	}

	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunForEachTenant itera las empresas activas con una sub-unidad de trabajo
// por tenant. Nunca sostiene una misma transacción a través de dos tenants;
// el error de un tenant no corta el barrido de los demás.
func (r *TenantRunner) RunForEachTenant(ctx context.Context, fn func(companyID int64, repos repository.TenantRepos) error) error {
	var ids []int64
	err := r.RunPrivileged(ctx, "enumerar_tenants", func(repos repository.TenantRepos) error {
		var err error
		ids, err = repos.Companies.ListActiveIDs(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("enumerar tenants: %w", err)
	}

	var firstErr error
	for _, id := range ids {
		if err := r.RunInTenant(ctx, id, func(repos repository.TenantRepos) error {
			return fn(id, repos)
		}); err != nil {
			r.log.Error().Err(err).Int64("company_id", id).Msg("sub-unidad de trabajo de tenant falló")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
