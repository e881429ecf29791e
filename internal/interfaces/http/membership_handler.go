package http

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/dto"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/usecase"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
)

// MembershipHandler maneja el equipo de la empresa: invitaciones y
// transiciones de estado de membresías. El company_id sale SIEMPRE del
// principal, nunca del request.
type MembershipHandler struct {
	svc *usecase.MembershipService
}

// NewMembershipHandler construye el handler de membresías.
func NewMembershipHandler(svc *usecase.MembershipService) *MembershipHandler {
	return &MembershipHandler{svc: svc}
}

// Invite godoc
// @Summary      Invitar usuario a la empresa
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InviteMemberRequest  true  "email y rol"
// @Success      201   {object}  dto.MembershipResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/members [post]
// @Security     BearerAuth
func (h *MembershipHandler) Invite(c *fiber.Ctx) error {
	p, _ := GetPrincipal(c)
	var in dto.InviteMemberRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Role == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y role son requeridos"})
	}
	m, err := h.svc.Invite(c.Context(), p.CompanyID, p.UserID, in.Email, in.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMembershipResponse(m))
}

// List godoc
// @Summary      Listar miembros de la empresa
// @Tags         members
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas"  default(50)
// @Param        offset  query  int  false  "desplazamiento"   default(0)
// @Success      200  {object}  dto.MembershipListResponse
// @Router       /api/members [get]
// @Security     BearerAuth
func (h *MembershipHandler) List(c *fiber.Ctx) error {
	p, _ := GetPrincipal(c)
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	list, err := h.svc.List(c.Context(), p.CompanyID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.MembershipResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMembershipResponse(m))
	}
	return c.JSON(dto.MembershipListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	})
}

// Activate godoc
// @Summary      Activar membresía (acepta invitación o reactiva)
// @Tags         members
// @Produce      json
// @Param        id  path  int  true  "ID de la membresía"
// @Success      200  {object}  dto.MembershipResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/members/{id}/activate [post]
// @Security     BearerAuth
func (h *MembershipHandler) Activate(c *fiber.Ctx) error {
	return h.transition(c, h.svc.Activate)
}

// Deactivate godoc
// @Summary      Desactivar membresía
// @Tags         members
// @Produce      json
// @Param        id  path  int  true  "ID de la membresía"
// @Success      200  {object}  dto.MembershipResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/members/{id}/deactivate [post]
// @Security     BearerAuth
func (h *MembershipHandler) Deactivate(c *fiber.Ctx) error {
	return h.transition(c, h.svc.Deactivate)
}

// Suspend godoc
// @Summary      Suspender membresía
// @Tags         members
// @Produce      json
// @Param        id  path  int  true  "ID de la membresía"
// @Success      200  {object}  dto.MembershipResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/members/{id}/suspend [post]
// @Security     BearerAuth
func (h *MembershipHandler) Suspend(c *fiber.Ctx) error {
	return h.transition(c, h.svc.Suspend)
}

func (h *MembershipHandler) transition(c *fiber.Ctx, fn func(ctx context.Context, companyID, membershipID int64) (*entity.CompanyMembership, error)) error {
	p, _ := GetPrincipal(c)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	m, err := fn(c.Context(), p.CompanyID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMembershipResponse(m))
}

func toMembershipResponse(m *entity.CompanyMembership) dto.MembershipResponse {
	return dto.MembershipResponse{
		ID:           m.ID,
		UserID:       m.UserID,
		CompanyID:    m.CompanyID,
		Role:         m.Role,
		Status:       m.Status,
		InvitedBy:    m.InvitedBy,
		InvitedAt:    m.InvitedAt,
		JoinedAt:     m.JoinedAt,
		LastActiveAt: m.LastActiveAt,
		CreatedAt:    m.CreatedAt,
	}
}
