package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
)

func credencial(scopes ...string) *entity.APICredential {
	return &entity.APICredential{
		ID:        1,
		CompanyID: 2,
		Name:      "integración agenda",
		KeyPrefix: "ak_live_3f9a",
		Scopes:    scopes,
		IsActive:  true,
	}
}

func TestHasScope_MatchExacto(t *testing.T) {
	c := credencial("appointments:read")

	assert.True(t, c.HasScope("appointments:read"))
	assert.False(t, c.HasScope("appointments:write"))
	assert.False(t, c.HasScope("clients:read"))
}

func TestHasScope_ComodinPorRecurso(t *testing.T) {
	c := credencial("appointments:*")

	assert.True(t, c.HasScope("appointments:read"))
	assert.True(t, c.HasScope("appointments:write"))
	assert.False(t, c.HasScope("clients:read"),
		"el comodín de un recurso no cubre otros recursos")
}

func TestHasScope_ComodinGlobal(t *testing.T) {
	c := credencial("*")

	assert.True(t, c.HasScope("appointments:read"))
	assert.True(t, c.HasScope("clients:write"))
}

func TestHasScope_SinScopes_NiegaTodo(t *testing.T) {
	c := credencial()
	assert.False(t, c.HasScope("appointments:read"))
}

func TestIsValid_Expiracion(t *testing.T) {
	now := time.Now()
	c := credencial("*")

	assert.True(t, c.IsValid(now), "activa y sin expiración es válida")

	pasado := now.Add(-time.Minute)
	c.ExpiresAt = &pasado
	assert.False(t, c.IsValid(now), "expirada no es válida")

	futuro := now.Add(time.Hour)
	c.ExpiresAt = &futuro
	assert.True(t, c.IsValid(now))

	assert.False(t, c.IsValid(futuro), "expira exactamente en expires_at, sin margen")
}

func TestRevoke_EsDefinitivo(t *testing.T) {
	c := credencial("*")
	c.Revoke(time.Now())

	assert.False(t, c.IsActive)
	assert.False(t, c.IsValid(time.Now()))
}
