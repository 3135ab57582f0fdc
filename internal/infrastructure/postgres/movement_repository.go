package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, product_id, user_id, kind, quantity, previous_stock, new_stock, reason, notes, reference, sequence, created_at`

// MovementRepo implementación append-only sobre PostgreSQL (usable con pool o tx).
// La tabla además rechaza UPDATE/DELETE con un trigger.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta un movimiento. Un choque en (product_id, sequence) es una carrera perdida.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.UserID, string(m.Kind), m.Quantity, m.PreviousStock, m.NewStock,
		m.Reason, nullable(m.Notes), nullable(m.Reference), m.Sequence, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return mapError("insert stock movement", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get stock movement", err)
	}
	return m, nil
}

// ListByProduct movimientos del producto del más nuevo al más antiguo.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.Movement, error) {
	return r.list(ctx, "list stock movements", `
		SELECT `+movementColumns+` FROM stock_movements
		WHERE product_id = $1 ORDER BY sequence DESC LIMIT $2 OFFSET $3`,
		productID, limit, offset)
}

// ListByProductBefore página siguiente por clave: los movimientos anteriores a beforeSeq.
func (r *MovementRepo) ListByProductBefore(ctx context.Context, productID string, beforeSeq int64, limit int) ([]*entity.Movement, error) {
	return r.list(ctx, "list stock movements before", `
		SELECT `+movementColumns+` FROM stock_movements
		WHERE product_id = $1 AND sequence < $2 ORDER BY sequence DESC LIMIT $3`,
		productID, beforeSeq, limit)
}

// ListRecent últimos movimientos de todos los productos.
func (r *MovementRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Movement, error) {
	return r.list(ctx, "list recent stock movements", `
		SELECT `+movementColumns+` FROM stock_movements
		ORDER BY created_at DESC, id LIMIT $1`,
		limit)
}

func (r *MovementRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()
	list := make([]*entity.Movement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return list, nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var kind string
	var notes, reference *string
	if err := row.Scan(
		&m.ID, &m.ProductID, &m.UserID, &kind, &m.Quantity, &m.PreviousStock, &m.NewStock,
		&m.Reason, &notes, &reference, &m.Sequence, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	m.Kind = entity.MovementKind(kind)
	if notes != nil {
		m.Notes = *notes
	}
	if reference != nil {
		m.Reference = *reference
	}
	return &m, nil
}

// nullable convierte "" en NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
