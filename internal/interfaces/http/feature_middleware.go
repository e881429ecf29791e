package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/dto"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain"
)

// entitlementGate es el contrato mínimo que necesita el middleware para
// verificar entitlements. Lo implementa *usecase.EntitlementService; el uso
// de interfaz evita acoplar la capa HTTP al caso de uso completo.
type entitlementGate interface {
	HasFeature(ctx context.Context, companyID int64, feature string) (bool, error)
	RequiredPlan(feature string) string
	CurrentPlan(ctx context.Context, companyID int64) string
}

// limitChecker es el contrato del validador de límites de uso.
// Lo implementa *usecase.SubscriptionService.
type limitChecker interface {
	CheckLimit(ctx context.Context, companyID int64, limitKey string) error
}

// RequireFeature devuelve un middleware que verifica si la empresa del
// principal tiene la feature en su plan o add-ons. Debe usarse DESPUÉS de
// AuthMiddleware o APIKeyMiddleware.
//
// Comportamiento:
//   - 403 Forbidden → feature no incluida; el cuerpo trae el plan mínimo
//     que sí la incluye, para el prompt de upgrade.
//   - 503 Service Unavailable → fallo de infraestructura al resolver; se
//     bloquea el request, nunca se asume la feature concedida.
func RequireFeature(feature string, gate entitlementGate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := GetPrincipal(c)
		if !ok || p.CompanyID <= 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "principal de empresa no resuelto"})
		}
		has, err := gate.HasFeature(c.Context(), p.CompanyID, feature)
		if err != nil {
			if errors.Is(err, domain.ErrTenantInactive) {
				return respondError(c, err)
			}
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "ENTITLEMENT_CHECK_FAILED", Message: "no se pudo verificar el plan, intente más tarde"})
		}
		if !has {
			return c.Status(fiber.StatusForbidden).JSON(dto.FeatureDeniedResponse{
				Message:         "el plan actual no incluye '" + feature + "'",
				Feature:         feature,
				CurrentPlan:     gate.CurrentPlan(c.Context(), p.CompanyID),
				RequiredPlan:    gate.RequiredPlan(feature),
				UpgradeRequired: true,
			})
		}
		return c.Next()
	}
}

// RequireWithinLimit devuelve un middleware que rechaza la creación de un
// recurso cuando el uso actual ya alcanzó el límite efectivo del plan.
// Responde 402 con el detalle actual/límite.
func RequireWithinLimit(limitKey string, checker limitChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := GetPrincipal(c)
		if !ok || p.CompanyID <= 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "principal de empresa no resuelto"})
		}
		if err := checker.CheckLimit(c.Context(), p.CompanyID, limitKey); err != nil {
			return respondError(c, err)
		}
		return c.Next()
	}
}
