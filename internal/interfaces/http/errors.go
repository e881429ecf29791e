package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/dto"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/usecase"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain"
)

// respondError mapea los sentinelas de dominio a códigos HTTP. La regla es
// fail-closed: lo desconocido termina en 500, nunca en un 2xx.
func respondError(c *fiber.Ctx, err error) error {
	var violation *usecase.LimitViolation
	if errors.As(err, &violation) {
		return c.Status(fiber.StatusPaymentRequired).JSON(dto.LimitExceededResponse{
			Message:  "límite del plan alcanzado",
			Resource: violation.Resource,
			Plan:     violation.Plan,
			Current:  violation.Current,
			Limit:    violation.Limit,
		})
	}
	switch {
	case errors.Is(err, domain.ErrCredentialInvalid), errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrScopeMismatch):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "SCOPE_MISMATCH", Message: "el token no aplica a este ámbito"})
	case errors.Is(err, domain.ErrMembershipInactive):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "MEMBERSHIP_INACTIVE", Message: "membresía inactiva o suspendida"})
	case errors.Is(err, domain.ErrTenantInactive):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "TENANT_INACTIVE", Message: "la empresa está inactiva"})
	case errors.Is(err, domain.ErrFeatureNotEntitled):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FEATURE_NOT_ENTITLED", Message: "el plan actual no incluye esta funcionalidad"})
	case errors.Is(err, domain.ErrLimitExceeded):
		return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{Code: "LIMIT_EXCEEDED", Message: "límite del plan alcanzado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no tiene permisos para esta operación"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		// domain.ErrInvalidTenant cae aquí a propósito: un tenant id
		// inválido en esta capa es un bug del servidor, no del cliente.
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}
