package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain"
)

// querierEspia registra las sentencias ejecutadas sin tocar la base.
type querierEspia struct {
	execs []string
	args  [][]interface{}
}

func (q *querierEspia) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	q.execs = append(q.execs, sql)
	q.args = append(q.args, args)
	return pgconn.CommandTag{}, nil
}

func (q *querierEspia) Query(_ context.Context, _ string, _ ...interface{}) (pgx.Rows, error) {
	return nil, nil
}

func (q *querierEspia) QueryRow(_ context.Context, _ string, _ ...interface{}) pgx.Row {
	return nil
}

func TestSetTenantContext_RechazaIDsNoPositivos(t *testing.T) {
	q := &querierEspia{}

	for _, id := range []int64{0, -1, -42} {
		err := SetTenantContext(context.Background(), q, id)
		assert.ErrorIs(t, err, domain.ErrInvalidTenant,
			"company_id %d debe rechazarse antes de tocar la base", id)
	}
	assert.Empty(t, q.execs, "un id inválido jamás llega a set_config")
}

func TestSetTenantContext_UsaAlcanceDeTransaccion(t *testing.T) {
	q := &querierEspia{}

	require.NoError(t, SetTenantContext(context.Background(), q, 7))

	require.Len(t, q.execs, 1)
	assert.Contains(t, q.execs[0], "set_config")
	require.Len(t, q.args[0], 2)
	assert.Equal(t, TenantContextKey, q.args[0][0])
	assert.Equal(t, "7", q.args[0][1])
	// is_local=true va fijo en la sentencia: el marcador muere con la
	// transacción y una conexión reusada del pool arranca siempre vacía.
	assert.Contains(t, q.execs[0], "true")
}

func TestClearTenantContext_DejaMarcadorVacio(t *testing.T) {
	q := &querierEspia{}

	require.NoError(t, ClearTenantContext(context.Background(), q))

	require.Len(t, q.execs, 1)
	assert.Contains(t, q.execs[0], "set_config")
	assert.Contains(t, q.execs[0], "''", "limpiar es fijar vacío, no un id especial")
}
