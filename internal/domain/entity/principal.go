package entity

// Scope de un principal: toda la plataforma o una sola empresa.
const (
	ScopePlatform = "platform"
	ScopeCompany  = "company"
)

// Roles de plataforma (sin empresa asociada). Son los únicos autorizados a
// limpiar el contexto de tenant o a iterar sobre todos los tenants.
const (
	RolePlatformOwner = "platform_owner"
	RolePlatformStaff = "platform_staff"
)

// Principal es la identidad resuelta de un request. Es transitorio: se
// construye por request a partir de la credencial verificada y la membresía,
// nunca se persiste. CompanyID es 0 sí y solo sí Scope es platform.
type Principal struct {
	UserID    int64
	Scope     string // platform | company
	CompanyID int64  // 0 cuando Scope == platform
	Role      string
}

// IsPlatform informa si el principal actúa con scope de plataforma.
func (p Principal) IsPlatform() bool {
	return p.Scope == ScopePlatform
}

// HasRoleAtLeast informa si el rol de empresa del principal alcanza el rango
// mínimo exigido. Siempre false para principals de plataforma o roles
// desconocidos: el scope de plataforma se autoriza aparte, no por jerarquía
// de empresa.
func (p Principal) HasRoleAtLeast(required string) bool {
	if p.Scope != ScopeCompany {
		return false
	}
	have, ok := RoleRank(p.Role)
	if !ok {
		return false
	}
	want, ok := RoleRank(required)
	if !ok {
		return false
	}
	return have >= want
}
