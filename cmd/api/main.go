package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/auth"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/jobs"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/rbac"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/usecase"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/infrastructure/postgres"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/infrastructure/rediscache"
	httpRouter "github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/interfaces/http"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/pkg/config"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos de superficie de auth y de plataforma: operan sobre el pool
	// directamente (tablas fuera de RLS). Todo acceso a tablas de tenant pasa
	// por el TenantRunner.
	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	membershipRepo := postgres.NewMembershipRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	credentialRepo := postgres.NewAPICredentialRepository(pool)
	runner := postgres.NewTenantRunner(pool, log, cfg.DB.CheckoutTimeout)

	// Cache de entitlements en Redis; Addr vacío = resolución siempre en DB.
	var entCache usecase.EntitlementCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		entCache = rediscache.NewEntitlementCache(rdb, cfg.Redis.TTL, log)
	}

	entitlementSvc, err := usecase.NewEntitlementService(ctx, planRepo, runner, entCache)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar catálogo de planes")
	}

	subscriptionSvc := usecase.NewSubscriptionService(planRepo, companyRepo, runner, entitlementSvc)
	membershipSvc := usecase.NewMembershipService(userRepo, membershipRepo)
	credentialSvc := usecase.NewCredentialService(credentialRepo, companyRepo, cfg.APIKey.Prefix)
	companyUC := usecase.NewCompanyUseCase(companyRepo, runner)
	resolver := rbac.NewResolver(userRepo, companyRepo, membershipRepo)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, membershipRepo, planRepo, runner, auth.JWTConfig{
		Secret:      cfg.JWT.Secret,
		AccessMins:  cfg.JWT.Expiration,
		RefreshMins: cfg.JWT.RefreshExpiration,
		Issuer:      cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		Resolver:     resolver,
		CompanyUC:    companyUC,
		Memberships:  membershipSvc,
		Subs:         subscriptionSvc,
		Entitlements: entitlementSvc,
		Credentials:  credentialSvc,
		Plans:        planRepo,
		JWTSecret:    cfg.JWT.Secret,
	})

	// Barrido periódico de trials vencidos, en background hasta el apagado.
	sweeperCtx, stopSweeper := context.WithCancel(ctx)
	sweeper := jobs.NewTrialSweeper(runner, entitlementSvc, log, cfg.Jobs.TrialSweepInterval)
	go sweeper.Run(sweeperCtx)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopSweeper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
