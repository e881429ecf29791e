package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
)

func pendiente() *entity.CompanyMembership {
	return &entity.CompanyMembership{
		UserID:    1,
		CompanyID: 2,
		Role:      entity.RoleProfessional,
		Status:    entity.MembershipPending,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados de la membresía
// ──────────────────────────────────────────────────────────────────────────────

func TestActivate_DesdePending_FijaJoinedAt(t *testing.T) {
	m := pendiente()
	now := time.Now()

	require.NoError(t, m.Activate(now))

	assert.Equal(t, entity.MembershipActive, m.Status)
	require.NotNil(t, m.JoinedAt, "la primera activación fija joined_at")
	assert.Equal(t, now, *m.JoinedAt)
	require.NotNil(t, m.LastActiveAt)
}

func TestActivate_Reactivacion_NoPisaJoinedAt(t *testing.T) {
	m := pendiente()
	primera := time.Now().Add(-24 * time.Hour)
	require.NoError(t, m.Activate(primera))
	require.NoError(t, m.Deactivate(primera.Add(time.Hour)))

	segunda := time.Now()
	require.NoError(t, m.Activate(segunda))

	assert.Equal(t, entity.MembershipActive, m.Status)
	assert.Equal(t, primera, *m.JoinedAt,
		"reactivar no debe cambiar el joined_at original")
	assert.Equal(t, segunda, *m.LastActiveAt)
}

func TestActivate_YaActiva_EsIdempotente(t *testing.T) {
	m := pendiente()
	require.NoError(t, m.Activate(time.Now()))

	now := time.Now()
	require.NoError(t, m.Activate(now))

	assert.Equal(t, entity.MembershipActive, m.Status)
	assert.Equal(t, now, *m.LastActiveAt, "re-activar solo refresca last_active_at")
}

func TestDeactivate_DesdePending_EsConflicto(t *testing.T) {
	m := pendiente()
	err := m.Deactivate(time.Now())

	assert.ErrorIs(t, err, domain.ErrConflict,
		"pending -> inactive no es una transición válida")
	assert.Equal(t, entity.MembershipPending, m.Status, "el estado no debe mutar")
}

func TestSuspend_SoloDesdeActive(t *testing.T) {
	m := pendiente()
	assert.ErrorIs(t, m.Suspend(time.Now()), domain.ErrConflict,
		"no existe pending -> suspended")

	require.NoError(t, m.Activate(time.Now()))
	require.NoError(t, m.Suspend(time.Now()))
	assert.Equal(t, entity.MembershipSuspended, m.Status)

	assert.ErrorIs(t, m.Suspend(time.Now()), domain.ErrConflict,
		"suspender dos veces es conflicto")
}

func TestSuspendida_PuedeReactivarse(t *testing.T) {
	m := pendiente()
	require.NoError(t, m.Activate(time.Now()))
	require.NoError(t, m.Suspend(time.Now()))

	require.NoError(t, m.Activate(time.Now()))
	assert.Equal(t, entity.MembershipActive, m.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Jerarquía de roles
// ──────────────────────────────────────────────────────────────────────────────

func TestRoleRank_OrdenTotal(t *testing.T) {
	orden := []string{
		entity.RoleReadOnly,
		entity.RoleClient,
		entity.RoleFinance,
		entity.RoleReceptionist,
		entity.RoleProfessional,
		entity.RoleOperator,
		entity.RoleManager,
		entity.RoleOwner,
	}
	prev := 0
	for _, role := range orden {
		rank, ok := entity.RoleRank(role)
		require.True(t, ok, "rol %s debe existir", role)
		assert.Greater(t, rank, prev, "cada rol debe superar al anterior")
		prev = rank
	}
}

func TestRoleRank_RolDesconocido(t *testing.T) {
	_, ok := entity.RoleRank("superadmin")
	assert.False(t, ok, "un rol desconocido nunca tiene rango")
}

func TestHasRoleAtLeast(t *testing.T) {
	manager := entity.Principal{UserID: 1, Scope: entity.ScopeCompany, CompanyID: 2, Role: entity.RoleManager}

	assert.True(t, manager.HasRoleAtLeast(entity.RoleProfessional))
	assert.True(t, manager.HasRoleAtLeast(entity.RoleManager))
	assert.False(t, manager.HasRoleAtLeast(entity.RoleOwner))
}

func TestHasRoleAtLeast_PlataformaNoUsaJerarquiaDeEmpresa(t *testing.T) {
	staff := entity.Principal{UserID: 1, Scope: entity.ScopePlatform, Role: entity.RolePlatformOwner}

	assert.False(t, staff.HasRoleAtLeast(entity.RoleReadOnly),
		"un principal de plataforma se autoriza por scope, no por rol de empresa")
}

func TestHasRoleAtLeast_RolDesconocido_Niega(t *testing.T) {
	p := entity.Principal{Scope: entity.ScopeCompany, CompanyID: 2, Role: "inventado"}
	assert.False(t, p.HasRoleAtLeast(entity.RoleReadOnly))
}
