package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/auth"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/rbac"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/usecase"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	Resolver     *rbac.Resolver
	CompanyUC    *usecase.CompanyUseCase
	Memberships  *usecase.MembershipService
	Subs         *usecase.SubscriptionService
	Entitlements *usecase.EntitlementService
	Credentials  *usecase.CredentialService
	Plans        repository.PlanRepository
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	// Catálogo de planes (público)
	planHandler := NewPlanHandler(deps.Plans, deps.Subs, deps.Entitlements)
	api.Get("/plans", planHandler.ListPlans)

	// Rutas de empresa (Bearer token con scope company)
	companyAuth := AuthMiddleware(deps.JWTSecret, entity.ScopeCompany, deps.Resolver)
	protected := api.Group("/", companyAuth)

	protected.Post("/auth/switch-company", authHandler.SwitchCompany)

	// Suscripción y entitlements
	sub := protected.Group("/subscription")
	sub.Get("/", planHandler.GetSubscription)
	sub.Get("/entitlements", planHandler.GetEntitlements)
	sub.Put("/plan", RequireAtLeast(entity.RoleOwner), planHandler.ChangePlan)
	sub.Delete("/", RequireAtLeast(entity.RoleOwner), planHandler.CancelSubscription)
	sub.Post("/add-ons", RequireAtLeast(entity.RoleOwner), planHandler.ActivateAddOn)
	sub.Delete("/add-ons/:slug", RequireAtLeast(entity.RoleOwner), planHandler.DeactivateAddOn)

	// Equipo (membresías); invitar y transicionar exige al menos manager
	members := protected.Group("/members")
	membershipHandler := NewMembershipHandler(deps.Memberships)
	members.Get("/", membershipHandler.List)
	members.Post("/", RequireAtLeast(entity.RoleManager), RequireWithinLimit(entity.LimitProfessionals, deps.Subs), membershipHandler.Invite)
	members.Post("/:id/activate", RequireAtLeast(entity.RoleManager), membershipHandler.Activate)
	members.Post("/:id/deactivate", RequireAtLeast(entity.RoleManager), membershipHandler.Deactivate)
	members.Post("/:id/suspend", RequireAtLeast(entity.RoleManager), membershipHandler.Suspend)

	// Credenciales de API; emitir/revocar es de owner y exige el add-on
	creds := protected.Group("/credentials", RequireFeature("api_publica", deps.Entitlements))
	credentialHandler := NewCredentialHandler(deps.Credentials)
	creds.Get("/", RequireAtLeast(entity.RoleManager), credentialHandler.List)
	creds.Post("/", RequireAtLeast(entity.RoleOwner), credentialHandler.Create)
	creds.Delete("/:id", RequireAtLeast(entity.RoleOwner), credentialHandler.Revoke)

	// Rutas de plataforma (Bearer token con scope platform)
	platformAuth := AuthMiddleware(deps.JWTSecret, entity.ScopePlatform, deps.Resolver)
	platform := api.Group("/platform", platformAuth)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	platform.Get("/companies", companyHandler.List)
	platform.Post("/companies", companyHandler.Create)
	platform.Get("/companies/usage", companyHandler.UsageOverview)
	platform.Get("/companies/:id", companyHandler.GetByID)

	// Superficie pública para integraciones con X-API-Key. Expone lectura de
	// entitlements como ejemplo del flujo de verificación de credenciales.
	ext := api.Group("/ext")
	ext.Get("/entitlements", APIKeyMiddleware(deps.Credentials, "entitlements:read"), planHandler.GetEntitlements)
}
