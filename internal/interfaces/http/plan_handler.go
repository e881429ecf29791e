package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/dto"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/usecase"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/repository"
)

// PlanHandler maneja catálogo de planes, suscripción, add-ons y
// entitlements de la empresa del principal.
type PlanHandler struct {
	plans        repository.PlanRepository
	subs         *usecase.SubscriptionService
	entitlements *usecase.EntitlementService
}

// NewPlanHandler construye el handler de planes y suscripciones.
func NewPlanHandler(plans repository.PlanRepository, subs *usecase.SubscriptionService, entitlements *usecase.EntitlementService) *PlanHandler {
	return &PlanHandler{plans: plans, subs: subs, entitlements: entitlements}
}

// ListPlans godoc
// @Summary      Catálogo de planes activos
// @Tags         plans
// @Produce      json
// @Success      200  {array}  dto.PlanResponse
// @Router       /api/plans [get]
func (h *PlanHandler) ListPlans(c *fiber.Ctx) error {
	catalog, err := h.plans.ListActive(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PlanResponse, 0, len(catalog))
	for _, p := range catalog {
		out = append(out, dto.PlanResponse{
			Slug:                    p.Slug,
			Name:                    p.Name,
			Description:             p.Description,
			PriceMonthly:            p.PriceMonthly,
			MaxProfessionals:        p.MaxProfessionals,
			MaxUnits:                p.MaxUnits,
			MaxClients:              p.MaxClients,
			MaxAppointmentsPerMonth: p.MaxAppointmentsPerMonth,
			Features:                p.Features,
			TrialDays:               p.TrialDays,
		})
	}
	return c.JSON(out)
}

// GetSubscription godoc
// @Summary      Suscripción vigente de la empresa
// @Tags         subscription
// @Produce      json
// @Success      200  {object}  dto.SubscriptionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/subscription [get]
// @Security     BearerAuth
func (h *PlanHandler) GetSubscription(c *fiber.Ctx) error {
	p, _ := GetPrincipal(c)
	sub, err := h.subs.GetByCompany(c.Context(), p.CompanyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSubscriptionResponse(sub))
}

// GetEntitlements godoc
// @Summary      Features y límites efectivos de la empresa
// @Tags         subscription
// @Produce      json
// @Success      200  {object}  dto.EntitlementsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/subscription/entitlements [get]
// @Security     BearerAuth
func (h *PlanHandler) GetEntitlements(c *fiber.Ctx) error {
	p, _ := GetPrincipal(c)
	e, err := h.entitlements.Resolve(c.Context(), p.CompanyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.EntitlementsResponse{
		PlanSlug: e.PlanSlug,
		Features: e.Features,
		Limits:   e.Limits,
	})
}

// ChangePlan godoc
// @Summary      Cambiar de plan (upgrade o downgrade)
// @Tags         subscription
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangePlanRequest  true  "plan_slug destino"
// @Success      200   {object}  dto.SubscriptionResponse
// @Failure      402   {object}  dto.LimitExceededResponse
// @Router       /api/subscription/plan [put]
// @Security     BearerAuth
func (h *PlanHandler) ChangePlan(c *fiber.Ctx) error {
	p, _ := GetPrincipal(c)
	var in dto.ChangePlanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.PlanSlug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "plan_slug es requerido"})
	}

	current, err := h.subs.GetByCompany(c.Context(), p.CompanyID)
	if err != nil {
		return respondError(c, err)
	}
	target, err := h.plans.GetBySlug(c.Context(), in.PlanSlug)
	if err != nil {
		return respondError(c, err)
	}
	currentPlan, err := h.plans.GetBySlug(c.Context(), current.PlanSlug)
	if err != nil {
		return respondError(c, err)
	}
	if target == nil || currentPlan == nil {
		return respondError(c, domain.ErrNotFound)
	}

	// Un downgrade exige que el uso actual quepa en el plan destino; un
	// upgrade es incondicional.
	if target.Rank < currentPlan.Rank {
		err = h.subs.Downgrade(c.Context(), p.CompanyID, in.PlanSlug)
	} else {
		err = h.subs.Upgrade(c.Context(), p.CompanyID, in.PlanSlug)
	}
	if err != nil {
		return respondError(c, err)
	}

	sub, err := h.subs.GetByCompany(c.Context(), p.CompanyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSubscriptionResponse(sub))
}

// CancelSubscription godoc
// @Summary      Cancelar la suscripción y desactivar la empresa
// @Tags         subscription
// @Produce      json
// @Success      204  "sin contenido"
// @Router       /api/subscription [delete]
// @Security     BearerAuth
func (h *PlanHandler) CancelSubscription(c *fiber.Ctx) error {
	p, _ := GetPrincipal(c)
	if err := h.subs.Cancel(c.Context(), p.CompanyID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ActivateAddOn godoc
// @Summary      Activar un add-on para la empresa
// @Tags         subscription
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ActivateAddOnRequest  true  "add_on_slug"
// @Success      200   {object}  dto.EntitlementsResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/subscription/add-ons [post]
// @Security     BearerAuth
func (h *PlanHandler) ActivateAddOn(c *fiber.Ctx) error {
	p, _ := GetPrincipal(c)
	var in dto.ActivateAddOnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.AddOnSlug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "add_on_slug es requerido"})
	}
	if err := h.subs.ActivateAddOn(c.Context(), p.CompanyID, in.AddOnSlug, in.Trial, 14); err != nil {
		return respondError(c, err)
	}
	return h.GetEntitlements(c)
}

// DeactivateAddOn godoc
// @Summary      Desactivar un add-on de la empresa
// @Tags         subscription
// @Produce      json
// @Param        slug  path  string  true  "slug del add-on"
// @Success      200   {object}  dto.EntitlementsResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/subscription/add-ons/{slug} [delete]
// @Security     BearerAuth
func (h *PlanHandler) DeactivateAddOn(c *fiber.Ctx) error {
	p, _ := GetPrincipal(c)
	slug := c.Params("slug")
	if slug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "slug es requerido"})
	}
	if err := h.subs.DeactivateAddOn(c.Context(), p.CompanyID, slug); err != nil {
		return respondError(c, err)
	}
	return h.GetEntitlements(c)
}

func toSubscriptionResponse(s *entity.Subscription) dto.SubscriptionResponse {
	out := dto.SubscriptionResponse{
		PlanSlug:           s.PlanSlug,
		Status:             s.Status,
		CurrentPeriodStart: s.CurrentPeriodStart.Format(time.RFC3339),
		CurrentPeriodEnd:   s.CurrentPeriodEnd.Format(time.RFC3339),
	}
	if s.TrialEnd != nil {
		t := s.TrialEnd.Format(time.RFC3339)
		out.TrialEnd = &t
	}
	return out
}
