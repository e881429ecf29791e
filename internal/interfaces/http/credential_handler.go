package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/dto"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/usecase"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
)

// CredentialHandler maneja la emisión y revocación de credenciales de API de
// la empresa. El plaintext solo viaja en la respuesta de creación.
type CredentialHandler struct {
	svc *usecase.CredentialService
}

// NewCredentialHandler construye el handler de credenciales.
func NewCredentialHandler(svc *usecase.CredentialService) *CredentialHandler {
	return &CredentialHandler{svc: svc}
}

// Create godoc
// @Summary      Emitir credencial de API
// @Tags         credentials
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCredentialRequest  true  "name y scopes"
// @Success      201   {object}  dto.CreateCredentialResponse
// @Router       /api/credentials [post]
// @Security     BearerAuth
func (h *CredentialHandler) Create(c *fiber.Ctx) error {
	p, _ := GetPrincipal(c)
	var in dto.CreateCredentialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" || len(in.Scopes) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name y scopes son requeridos"})
	}
	cred, plaintext, err := h.svc.Create(c.Context(), p.CompanyID, in.Name, in.Scopes, in.ExpiresInD)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateCredentialResponse{
		ID:        cred.ID,
		Name:      cred.Name,
		Key:       plaintext,
		KeyPrefix: cred.KeyPrefix,
		Scopes:    cred.Scopes,
		ExpiresAt: cred.ExpiresAt,
	})
}

// List godoc
// @Summary      Listar credenciales de la empresa (sin plaintext)
// @Tags         credentials
// @Produce      json
// @Success      200  {array}  dto.CredentialResponse
// @Router       /api/credentials [get]
// @Security     BearerAuth
func (h *CredentialHandler) List(c *fiber.Ctx) error {
	p, _ := GetPrincipal(c)
	list, err := h.svc.List(c.Context(), p.CompanyID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CredentialResponse, 0, len(list))
	for _, cred := range list {
		out = append(out, toCredentialResponse(cred))
	}
	return c.JSON(out)
}

// Revoke godoc
// @Summary      Revocar una credencial de API
// @Tags         credentials
// @Produce      json
// @Param        id  path  int  true  "ID de la credencial"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/credentials/{id} [delete]
// @Security     BearerAuth
func (h *CredentialHandler) Revoke(c *fiber.Ctx) error {
	p, _ := GetPrincipal(c)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	if err := h.svc.Revoke(c.Context(), p.CompanyID, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toCredentialResponse(cred *entity.APICredential) dto.CredentialResponse {
	return dto.CredentialResponse{
		ID:         cred.ID,
		Name:       cred.Name,
		KeyPrefix:  cred.KeyPrefix,
		Scopes:     cred.Scopes,
		ExpiresAt:  cred.ExpiresAt,
		IsActive:   cred.IsActive,
		LastUsedAt: cred.LastUsedAt,
		UsageCount: cred.UsageCount,
		CreatedAt:  cred.CreatedAt,
	}
}
