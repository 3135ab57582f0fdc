package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx: los repositorios funcionan con ambos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Códigos SQLSTATE usados por los adaptadores.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isSerializationFailure true para 40001/40P01: el motor abortó la tx por concurrencia y
// el ciclo completo se puede repetir.
func isSerializationFailure(err error) bool {
	switch pgCode(err) {
	case codeSerializationFailure, codeDeadlockDetected:
		return true
	}
	return false
}

// isConnectionError true si el error indica que el servidor no está disponible.
func isConnectionError(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return pgconn.Timeout(err) && !errors.Is(err, context.Canceled)
}

// mapError traduce errores del driver a las categorías del dominio. op describe la operación.
// La cancelación del contexto se devuelve tal cual.
func mapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case isSerializationFailure(err):
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	case isUniqueViolation(err):
		return domain.Errorf(domain.ErrDuplicate, op)
	case pgCode(err) == codeCheckViolation:
		return domain.Errorf(domain.ErrValidation, op+": restricción violada")
	case pgCode(err) == codeForeignKeyViolation:
		return domain.Errorf(domain.ErrNotFound, op+": referencia inexistente")
	case isConnectionError(err):
		return fmt.Errorf("%s: %w: %v", op, domain.ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
