package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/dto"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/rbac"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/pkg/jwt"
)

// LocalPrincipal es la key de c.Locals donde queda el principal resuelto.
const LocalPrincipal = "principal"

// AuthMiddleware valida el Bearer Token JWT, re-resuelve el principal contra
// la base (la membresía puede haber cambiado desde que se emitió el token) y
// lo deja en c.Locals. scope indica qué tipo de token acepta el grupo de rutas.
func AuthMiddleware(jwtSecret, scope string, resolver *rbac.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if claims.Type != jwt.TypeAccess {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "se requiere un access token"})
		}

		var principal entity.Principal
		switch scope {
		case entity.ScopePlatform:
			principal, err = resolver.ResolvePlatform(c.Context(), claims)
		default:
			principal, err = resolver.ResolveCompany(c.Context(), claims)
		}
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(LocalPrincipal, principal)
		return c.Next()
	}
}

// RequireAtLeast exige un rol mínimo dentro de la empresa. Debe usarse
// DESPUÉS de AuthMiddleware con scope company.
func RequireAtLeast(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := GetPrincipal(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "principal no resuelto"})
		}
		if err := rbac.RequireAtLeast(p, role); err != nil {
			return respondError(c, err)
		}
		return c.Next()
	}
}

// GetPrincipal devuelve el principal del contexto (después del middleware de auth).
func GetPrincipal(c *fiber.Ctx) (entity.Principal, bool) {
	v := c.Locals(LocalPrincipal)
	if v == nil {
		return entity.Principal{}, false
	}
	p, ok := v.(entity.Principal)
	return p, ok
}
