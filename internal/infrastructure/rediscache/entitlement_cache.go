// Package rediscache implementa el cache de entitlements sobre Redis.
// El cache es puramente acelerador: cualquier fallo de Redis se registra y la
// resolución cae a la base de datos, nunca se sirve una respuesta de error.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/application/usecase"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/pkg/logger"
)

// EntitlementCache guarda snapshots de entitlements por empresa con TTL.
type EntitlementCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewEntitlementCache construye el cache. ttl <= 0 usa cinco minutos.
func NewEntitlementCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *EntitlementCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &EntitlementCache{client: client, ttl: ttl, log: log}
}

func key(companyID int64) string {
	return fmt.Sprintf("entitlements:%d", companyID)
}

// Get devuelve el snapshot cacheado de la empresa, si existe y deserializa.
func (c *EntitlementCache) Get(ctx context.Context, companyID int64) (*usecase.Entitlements, bool) {
	raw, err := c.client.Get(ctx, key(companyID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Int64("company_id", companyID).Msg("Fallo leyendo cache de entitlements")
		}
		return nil, false
	}
	var e usecase.Entitlements
	if err := json.Unmarshal(raw, &e); err != nil {
		c.log.Warn().Err(err).Int64("company_id", companyID).Msg("Snapshot de entitlements corrupto, se descarta")
		c.Invalidate(ctx, companyID)
		return nil, false
	}
	return &e, true
}

// Set guarda el snapshot con el TTL configurado.
func (c *EntitlementCache) Set(ctx context.Context, companyID int64, e *usecase.Entitlements) {
	raw, err := json.Marshal(e)
	if err != nil {
		c.log.Warn().Err(err).Int64("company_id", companyID).Msg("No se pudo serializar entitlements")
		return
	}
	if err := c.client.Set(ctx, key(companyID), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Int64("company_id", companyID).Msg("Fallo escribiendo cache de entitlements")
	}
}

// Invalidate borra el snapshot de la empresa tras cambios de plan o add-ons.
func (c *EntitlementCache) Invalidate(ctx context.Context, companyID int64) {
	if err := c.client.Del(ctx, key(companyID)).Err(); err != nil {
		c.log.Warn().Err(err).Int64("company_id", companyID).Msg("Fallo invalidando cache de entitlements")
	}
}
