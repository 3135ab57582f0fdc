package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// InitialStockReason motivo del movimiento que siembra el stock inicial de un producto nuevo.
const InitialStockReason = "Stock inicial"

// ProductLedger es el ledger visto desde el colaborador de productos.
type ProductLedger interface {
	CreateProduct(ctx context.Context, product *entity.Product, seed inventory.AdjustStockInput) (*inventory.AdjustStockResult, error)
}

// ProductUseCase casos de uso CRUD para productos. El stock nunca se escribe aquí:
// el inicial se registra como un movimiento más del ledger.
type ProductUseCase struct {
	repo   repository.ProductRepository
	ledger ProductLedger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, ledger ProductLedger) *ProductUseCase {
	return &ProductUseCase{repo: repo, ledger: ledger}
}

// Create crea el producto y, si InitialStock > 0, registra el stock inicial como movimiento a
// nombre de actorID. Ambas cosas se confirman juntas o ninguna.
func (uc *ProductUseCase) Create(ctx context.Context, actorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.SKU == "" || in.Name == "" {
		return nil, domain.Errorf(domain.ErrValidation, "sku y nombre son obligatorios")
	}
	if in.Price.IsNegative() || in.Cost.IsNegative() {
		return nil, domain.Errorf(domain.ErrValidation, "precio y costo no pueden ser negativos")
	}
	if err := validateLevels(in.MinStock, in.MaxStock); err != nil {
		return nil, err
	}
	if in.InitialStock < 0 {
		return nil, domain.Errorf(domain.ErrValidation, "el stock inicial no puede ser negativo")
	}

	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Errorf(domain.ErrDuplicate, "el SKU ya existe")
	}
	in.Barcode = normalizeBarcode(in.Barcode)
	if in.Barcode != nil {
		existing, err := uc.repo.GetByBarcode(ctx, *in.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.Errorf(domain.ErrDuplicate, "el código de barras ya existe")
		}
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = "und"
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Barcode:     in.Barcode,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Cost:        in.Cost,
		MinStock:    in.MinStock,
		MaxStock:    in.MaxStock,
		UnitMeasure: in.UnitMeasure,
		Location:    in.Location,
		CategoryID:  in.CategoryID,
		SupplierID:  in.SupplierID,
		Status:      entity.ProductStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := uc.ledger.CreateProduct(ctx, product, inventory.AdjustStockInput{
		UserID:   actorID,
		Quantity: in.InitialStock,
		Reason:   InitialStockReason,
	})
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponse(res.Product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// Update actualiza los campos descriptivos. El stock solo cambia vía movimientos.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Errorf(domain.ErrValidation, "el nombre es obligatorio")
		}
		product.Name = name
	}
	if in.Barcode != nil {
		barcode := normalizeBarcode(in.Barcode)
		if barcode != nil {
			other, err := uc.repo.GetByBarcode(ctx, *barcode)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != product.ID {
				return nil, domain.Errorf(domain.ErrDuplicate, "el código de barras ya existe")
			}
		}
		product.Barcode = barcode
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.Errorf(domain.ErrValidation, "el precio no puede ser negativo")
		}
		product.Price = *in.Price
	}
	if in.Cost != nil {
		if in.Cost.IsNegative() {
			return nil, domain.Errorf(domain.ErrValidation, "el costo no puede ser negativo")
		}
		product.Cost = *in.Cost
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.ClearMaxStock && in.MaxStock != nil {
		return nil, domain.Errorf(domain.ErrValidation, "max_stock y clear_max_stock son excluyentes")
	}
	if in.MaxStock != nil {
		product.MaxStock = in.MaxStock
	}
	if in.ClearMaxStock {
		product.MaxStock = nil
	}
	if err := validateLevels(product.MinStock, product.MaxStock); err != nil {
		return nil, err
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	if in.Location != nil {
		product.Location = *in.Location
	}
	if in.CategoryID != nil {
		product.CategoryID = in.CategoryID
	}
	if in.SupplierID != nil {
		product.SupplierID = in.SupplierID
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// List lista productos con paginación. Los inactivos solo si includeInactive.
func (uc *ProductUseCase) List(ctx context.Context, includeInactive bool, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		IncludeInactive: includeInactive,
		Limit:           page.Limit,
		Offset:          page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *dto.ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Deactivate da de baja el producto (soft delete). Su historial se conserva.
func (uc *ProductUseCase) Deactivate(ctx context.Context, id string) error {
	return uc.setStatus(ctx, id, entity.ProductStatusInactive)
}

// Activate reactiva un producto dado de baja.
func (uc *ProductUseCase) Activate(ctx context.Context, id string) error {
	return uc.setStatus(ctx, id, entity.ProductStatusActive)
}

func (uc *ProductUseCase) setStatus(ctx context.Context, id string, status entity.ProductStatus) error {
	if _, err := uc.load(ctx, id); err != nil {
		return err
	}
	return uc.repo.SetStatus(ctx, id, status)
}

func (uc *ProductUseCase) load(ctx context.Context, id string) (*entity.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.Errorf(domain.ErrNotFound, "el producto no existe")
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "el producto no existe")
	}
	return product, nil
}

// normalizeBarcode recorta el código; vacío equivale a no tener código.
func normalizeBarcode(barcode *string) *string {
	if barcode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*barcode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func validateLevels(minStock int64, maxStock *int64) error {
	if minStock < 0 {
		return domain.Errorf(domain.ErrValidation, "el stock mínimo no puede ser negativo")
	}
	if maxStock != nil && *maxStock < minStock {
		return domain.Errorf(domain.ErrValidation, "el stock máximo debe ser mayor o igual al mínimo")
	}
	return nil
}
