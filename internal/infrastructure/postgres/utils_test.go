package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func pgErr(code string) error {
	return fmt.Errorf("exec: %w", &pgconn.PgError{Code: code, Message: "x"})
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError("op", nil))
	assert.ErrorIs(t, mapError("op", pgErr("40001")), domain.ErrConflict)
	assert.ErrorIs(t, mapError("op", pgErr("40P01")), domain.ErrConflict)
	assert.ErrorIs(t, mapError("op", pgErr("23505")), domain.ErrDuplicate)
	assert.ErrorIs(t, mapError("op", pgErr("23514")), domain.ErrValidation)
	assert.ErrorIs(t, mapError("op", pgErr("23503")), domain.ErrNotFound)
	assert.ErrorIs(t, mapError("op", context.Canceled), context.Canceled)

	other := errors.New("boom")
	err := mapError("update product stock", other)
	assert.ErrorIs(t, err, other)
	assert.True(t, strings.HasPrefix(err.Error(), "update product stock"))
}

func TestMapError_ConexionCaida(t *testing.T) {
	err := mapError("begin", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestMigracionesEmbebidas(t *testing.T) {
	script, err := migrationFS.ReadFile("migrations/001_init.sql")
	assert.NoError(t, err)
	sql := string(script)
	assert.Contains(t, sql, "CHECK (quantity <> 0)")
	assert.Contains(t, sql, "UNIQUE (product_id, sequence)")
	assert.Contains(t, sql, "BEFORE UPDATE OR DELETE ON stock_movements")
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "x", *nullable("x"))
}
