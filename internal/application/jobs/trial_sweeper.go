package jobs

import (
	"context"
	"time"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/usecase"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/repository"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/pkg/logger"
)

// TrialSweeper barre periódicamente suscripciones y add-ons con trial vencido.
// Itera empresas activas una por una con su propio contexto de tenant: nunca
// lee datos de varias empresas en una sola transacción.
type TrialSweeper struct {
	runner       repository.TenantRunner
	entitlements *usecase.EntitlementService
	log          *logger.Logger
	interval     time.Duration
}

// NewTrialSweeper construye el barredor. interval <= 0 usa una hora.
func NewTrialSweeper(runner repository.TenantRunner, entitlements *usecase.EntitlementService, log *logger.Logger, interval time.Duration) *TrialSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &TrialSweeper{runner: runner, entitlements: entitlements, log: log, interval: interval}
}

// Run ejecuta el barrido en bucle hasta que el contexto se cancele.
func (s *TrialSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.log.Error().Err(err).Msg("Barrido de trials terminó con errores")
			}
		}
	}
}

// Sweep hace una pasada: por cada empresa, expira la suscripción en trial
// vencido (pasa a cancelada) y desactiva add-ons con trial vencido. Las
// entitlements cacheadas de cada empresa tocada se invalidan.
func (s *TrialSweeper) Sweep(ctx context.Context) error {
	now := time.Now()
	return s.runner.RunForEachTenant(ctx, func(companyID int64, repos repository.TenantRepos) error {
		touched := false

		sub, err := repos.Subscriptions.GetByCompany(ctx, companyID)
		if err != nil {
			return err
		}
		if sub != nil && sub.Status == entity.SubscriptionTrial && sub.TrialEnd != nil && sub.TrialEnd.Before(now) {
			sub.Status = entity.SubscriptionCanceled
			sub.UpdatedAt = now
			if err := repos.Subscriptions.Update(ctx, sub); err != nil {
				return err
			}
			touched = true
			s.log.Warn().Int64("company_id", companyID).Msg("Trial de suscripción vencido, marcada como cancelada")
		}

		expired, err := repos.AddOns.ListExpiredTrials(ctx, companyID)
		if err != nil {
			return err
		}
		for _, ca := range expired {
			ca.IsActive = false
			ca.UpdatedAt = now
			if err := repos.AddOns.UpdateCompanyAddOn(ctx, ca); err != nil {
				return err
			}
			touched = true
			s.log.Info().Int64("company_id", companyID).Int64("add_on_id", ca.AddOnID).Msg("Add-on con trial vencido desactivado")
		}

		if touched {
			s.entitlements.Invalidate(ctx, companyID)
		}
		return nil
	})
}
