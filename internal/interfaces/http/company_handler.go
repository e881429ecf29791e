package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/dto"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/usecase"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
)

// CompanyHandler expone las operaciones de plataforma sobre empresas.
// Todas las rutas de este handler van detrás de AuthMiddleware scope=platform.
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construye el handler de companies.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Create godoc
// @Summary      Crear empresa (plataforma)
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "name, slug"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/platform/companies [post]
// @Security     BearerAuth
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" || in.Slug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name y slug son requeridos"})
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar empresas (plataforma)
// @Tags         companies
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas"  default(50)
// @Param        offset  query  int  false  "desplazamiento"   default(0)
// @Success      200  {object}  dto.CompanyListResponse
// @Router       /api/platform/companies [get]
// @Security     BearerAuth
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	out, err := h.uc.List(c.Context(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener empresa por ID (plataforma)
// @Tags         companies
// @Produce      json
// @Param        id  path  int  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/platform/companies/{id} [get]
// @Security     BearerAuth
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "la empresa no existe"})
	}
	return c.JSON(out)
}

// UsageOverview godoc
// @Summary      Uso agregado de un recurso en todas las empresas (plataforma)
// @Tags         companies
// @Produce      json
// @Param        resource  query  string  true  "clave de límite (max_units, max_clients, ...)"
// @Success      200  {object}  map[int64]int
// @Router       /api/platform/companies/usage [get]
// @Security     BearerAuth
func (h *CompanyHandler) UsageOverview(c *fiber.Ctx) error {
	resource := c.Query("resource")
	valid := false
	for _, k := range entity.LimitKeys {
		if k == resource {
			valid = true
			break
		}
	}
	if !valid {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "resource debe ser una clave de límite conocida"})
	}
	out, err := h.uc.UsageOverview(c.Context(), resource)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
