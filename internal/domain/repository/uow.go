package repository

import "context"

// TenantRepos agrupa los repositorios atados a una misma unidad de trabajo.
// Dentro de RunInTenant todos comparten la transacción con el contexto de
// tenant ya fijado.
type TenantRepos struct {
	Companies     CompanyRepository
	Memberships   MembershipRepository
	AddOns        AddOnRepository
	Subscriptions SubscriptionRepository
	Credentials   APICredentialRepository
	Usage         UsageRepository
}

// TenantRunner es el puerto de unidad de trabajo del núcleo multi-tenant.
//
// RunInTenant abre una transacción y fija el contexto de tenant como PRIMERA
// sentencia, antes de cualquier consulta de fn. Es la única vía soportada
// para tocar tablas de tenant: el pool reutiliza conexiones físicas entre
// requests de tenants distintos y el binding con alcance de transacción
// garantiza que ninguna conexión vuelve al pool con un tenant colgando.
//
// RunPrivileged abre una transacción con el contexto explícitamente vacío
// (las tablas de tenant degradan a cero filas) y registra la acción como
// privilegiada. Para operaciones administrativas que solo tocan tablas de
// plataforma.
//
// RunForEachTenant itera las empresas activas abriendo una sub-unidad de
// trabajo por tenant; jamás sostiene una conexión a través de varios tenants.
type TenantRunner interface {
	RunInTenant(ctx context.Context, companyID int64, fn func(TenantRepos) error) error
	RunPrivileged(ctx context.Context, action string, fn func(TenantRepos) error) error
	RunForEachTenant(ctx context.Context, fn func(companyID int64, repos TenantRepos) error) error
}
