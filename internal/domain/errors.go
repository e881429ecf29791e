package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Errores del núcleo multi-tenant. Cada uno se traduce a un código HTTP
// estable en la capa de interfaces; el código que llama decide por error,
// nunca por el texto del mensaje.
var (
	// ErrInvalidTenant: company_id ausente o no positivo al fijar el contexto
	// de tenant. Error de programación, fatal para el request, no se reintenta.
	ErrInvalidTenant = errors.New("company_id de tenant inválido")

	// ErrScopeMismatch: el scope de la credencial (platform|company) no coincide
	// con el scope que exige el endpoint. Se rechaza, nunca se degrada.
	ErrScopeMismatch = errors.New("scope de la credencial no coincide con el endpoint")

	// ErrMembershipInactive: credencial válida pero la membresía en la empresa
	// está pending, inactive o suspended.
	ErrMembershipInactive = errors.New("membresía no activa en la empresa")

	// ErrFeatureNotEntitled: el plan/add-ons de la empresa no incluyen la
	// funcionalidad solicitada.
	ErrFeatureNotEntitled = errors.New("funcionalidad no incluida en el plan")

	// ErrLimitExceeded: el uso actual alcanzó el límite efectivo del plan.
	ErrLimitExceeded = errors.New("límite del plan excedido")

	// ErrCredentialInvalid: credencial expirada, revocada o desconocida.
	// El mensaje externo es genérico para no permitir enumeración.
	ErrCredentialInvalid = errors.New("credencial inválida")

	// ErrTenantInactive: la empresa está desactivada; se rechaza aunque la
	// credencial y la membresía sean válidas.
	ErrTenantInactive = errors.New("empresa inactiva")
)
