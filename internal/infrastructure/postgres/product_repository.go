package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, barcode, name, description, price, cost, current_stock, min_stock, max_stock,
	unit_measure, location, category_id, supplier_id, status, version, stock_updated_at, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. current_stock y version inician en 0.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, barcode, name, description, price, cost, current_stock, min_stock, max_stock,
			unit_measure, location, category_id, supplier_id, status, version, stock_updated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, $10, $11, $12, $13, $14, 0, $15, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SKU, p.Barcode, p.Name, p.Description, p.Price, p.Cost, p.MinStock, p.MaxStock,
		p.UnitMeasure, p.Location, p.CategoryID, p.SupplierID, string(p.Status), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Errorf(domain.ErrDuplicate, "el SKU o código de barras ya existe")
		}
		return mapError("insert product", err)
	}
	p.CurrentStock = 0
	p.Version = 0
	p.StockUpdatedAt = p.CreatedAt
	return nil
}

// GetByID obtiene un producto por ID. nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, "get product", `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by sku", `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
}

// GetByBarcode obtiene un producto por código de barras.
func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by barcode", `SELECT `+productColumns+` FROM products WHERE barcode = $1`, barcode)
}

func (r *ProductRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(op, err)
	}
	return p, nil
}

// Update actualiza los campos descriptivos. current_stock y version no se tocan aquí.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET barcode = $2, name = $3, description = $4, price = $5, cost = $6, min_stock = $7,
			max_stock = $8, unit_measure = $9, location = $10, category_id = $11, supplier_id = $12, updated_at = $13
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Barcode, p.Name, p.Description, p.Price, p.Cost, p.MinStock,
		p.MaxStock, p.UnitMeasure, p.Location, p.CategoryID, p.SupplierID, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Errorf(domain.ErrDuplicate, "el código de barras ya existe")
		}
		return mapError("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetStatus cambia el estado (soft delete / reactivación).
func (r *ProductRepo) SetStatus(ctx context.Context, id string, status entity.ProductStatus) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return mapError("set product status", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos ordenados por SKU con paginación.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var where []string
	if !f.IncludeInactive {
		where = append(where, "status = 'active'")
	}
	if f.LowStockOnly {
		where = append(where, "current_stock <= min_stock")
	}
	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY sku LIMIT $1 OFFSET $2`

	rows, err := r.q.Query(ctx, query, f.Limit, f.Offset)
	if err != nil {
		return nil, mapError("list products", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, mapError("scan product", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list products", err)
	}
	return list, nil
}

// UpdateStock compare-and-swap sobre version: solo escribe si nadie más escribió desde la lectura.
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, newStock, expectedVersion int64, at time.Time) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products
		SET current_stock = $2, version = version + 1, stock_updated_at = $4, updated_at = $4
		WHERE id = $1 AND version = $3`,
		id, newStock, expectedVersion, at,
	)
	if err != nil {
		return false, mapError("update product stock", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var status string
	err := row.Scan(
		&p.ID, &p.SKU, &p.Barcode, &p.Name, &p.Description, &p.Price, &p.Cost, &p.CurrentStock, &p.MinStock, &p.MaxStock,
		&p.UnitMeasure, &p.Location, &p.CategoryID, &p.SupplierID, &status, &p.Version, &p.StockUpdatedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = entity.ProductStatus(status)
	if !p.Status.Valid() {
		return nil, fmt.Errorf("estado de producto desconocido %q", status)
	}
	return &p, nil
}
