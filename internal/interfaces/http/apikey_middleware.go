package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/dto"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/usecase"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
)

// HeaderAPIKey es el header donde viaja la credencial de API.
const HeaderAPIKey = "X-API-Key"

// LocalCredential es la key de c.Locals con la credencial verificada.
const LocalCredential = "api_credential"

// APIKeyMiddleware verifica la credencial del header X-API-Key y exige el
// scope requerido por la ruta. Deja en Locals la credencial y un principal
// sintético de la empresa dueña con el rol más bajo: las credenciales de API
// nunca escalan privilegios por encima de sus scopes.
func APIKeyMiddleware(credentials *usecase.CredentialService, requiredScope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		presented := c.Get(HeaderAPIKey)
		if presented == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_API_KEY", Message: "header X-API-Key requerido"})
		}
		cred, err := credentials.Verify(c.Context(), presented)
		if err != nil {
			return respondError(c, err)
		}
		if !cred.HasScope(requiredScope) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_MISMATCH", Message: "la credencial no tiene el scope '" + requiredScope + "'"})
		}
		c.Locals(LocalCredential, cred)
		c.Locals(LocalPrincipal, entity.Principal{
			Scope:     entity.ScopeCompany,
			CompanyID: cred.CompanyID,
			Role:      entity.RoleReadOnly,
		})
		return c.Next()
	}
}

// GetCredential devuelve la credencial verificada del contexto.
func GetCredential(c *fiber.Ctx) (*entity.APICredential, bool) {
	v := c.Locals(LocalCredential)
	if v == nil {
		return nil, false
	}
	cred, ok := v.(*entity.APICredential)
	return cred, ok
}
