package inventory

import (
	"context"
	"iter"
	"math"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// scanPageSize tamaño de página al recorrer el catálogo completo.
const scanPageSize = 500

// MovementQueryService proyecciones de solo lectura sobre productos y movimientos.
// Nunca escribe; los errores de negocio no existen aquí, solo los del almacenamiento.
type MovementQueryService struct {
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
}

// NewMovementQueryService construye el servicio de consultas.
func NewMovementQueryService(productRepo repository.ProductRepository, movRepo repository.MovementRepository) *MovementQueryService {
	return &MovementQueryService{productRepo: productRepo, movRepo: movRepo}
}

// GetProduct devuelve el producto con su stock denormalizado.
func (s *MovementQueryService) GetProduct(ctx context.Context, productID string) (*entity.Product, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, domain.Errorf(domain.ErrNotFound, "el producto no existe")
	}
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "el producto no existe")
	}
	return p, nil
}

// ListMovements página de movimientos del producto, del más reciente al más antiguo.
// Un producto sin movimientos devuelve una lista vacía.
func (s *MovementQueryService) ListMovements(ctx context.Context, productID string, limit, offset int) ([]*entity.Movement, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	page := dto.PageRequest{Limit: limit, Offset: offset}
	page.DefaultPage()
	list, err := s.movRepo.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.Movement{}
	}
	return list, nil
}

// Movements recorre todo el historial del producto de forma perezosa, pidiendo páginas de
// pageSize a medida que se consumen. Cada página continúa desde la última secuencia entregada,
// así los movimientos confirmados durante el recorrido no desplazan ni repiten registros.
// La secuencia se puede recorrer varias veces; cada recorrido vuelve a leer desde el más reciente.
func (s *MovementQueryService) Movements(ctx context.Context, productID string, pageSize int) iter.Seq2[*entity.Movement, error] {
	return func(yield func(*entity.Movement, error) bool) {
		if pageSize <= 0 || pageSize > dto.MaxPageLimit {
			pageSize = dto.MaxPageLimit
		}
		if _, err := s.GetProduct(ctx, productID); err != nil {
			yield(nil, err)
			return
		}
		before := int64(math.MaxInt64)
		for {
			page, err := s.movRepo.ListByProductBefore(ctx, productID, before, pageSize)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, m := range page {
				if !yield(m, nil) {
					return
				}
			}
			if len(page) < pageSize {
				return
			}
			before = page[len(page)-1].Sequence
		}
	}
}

// ListProducts página de productos. Por defecto solo activos.
func (s *MovementQueryService) ListProducts(ctx context.Context, includeInactive bool, limit, offset int) ([]*entity.Product, error) {
	page := dto.PageRequest{Limit: limit, Offset: offset}
	page.DefaultPage()
	list, err := s.productRepo.List(ctx, repository.ProductFilter{
		IncludeInactive: includeInactive,
		Limit:           page.Limit,
		Offset:          page.Offset,
	})
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.Product{}
	}
	return list, nil
}

// LowStock productos activos en o bajo su stock mínimo.
func (s *MovementQueryService) LowStock(ctx context.Context) ([]*entity.Product, error) {
	all, err := s.scanProducts(ctx, repository.ProductFilter{LowStockOnly: true})
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Product, 0, len(all))
	for _, p := range all {
		if inventory.IsLowStock(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Summary resumen agregado del catálogo activo.
func (s *MovementQueryService) Summary(ctx context.Context) (inventory.Summary, error) {
	all, err := s.scanProducts(ctx, repository.ProductFilter{})
	if err != nil {
		return inventory.Summary{}, err
	}
	return inventory.Summarize(all), nil
}

// scanProducts carga todas las páginas que cumplen el filtro.
func (s *MovementQueryService) scanProducts(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	filter.Limit = scanPageSize
	for filter.Offset = 0; ; filter.Offset += scanPageSize {
		page, err := s.productRepo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < scanPageSize {
			return out, nil
		}
	}
}
