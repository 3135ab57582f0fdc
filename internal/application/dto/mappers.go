package dto

import (
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// ToMovementResponse mapea un movimiento a su representación HTTP.
func ToMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		UserID:        m.UserID,
		Kind:          string(m.Kind),
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Reason:        m.Reason,
		Notes:         m.Notes,
		Reference:     m.Reference,
		Sequence:      m.Sequence,
		CreatedAt:     m.CreatedAt,
	}
}

// ToMovementResponses mapea una página de movimientos; nunca devuelve nil.
func ToMovementResponses(list []*entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToMovementResponse(m))
	}
	return out
}

// ToProductResponse mapea un producto incluyendo las banderas de stock bajo/agotado.
func ToProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Barcode:      p.Barcode,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Cost:         p.Cost,
		CurrentStock: p.CurrentStock,
		MinStock:     p.MinStock,
		MaxStock:     p.MaxStock,
		UnitMeasure:  p.UnitMeasure,
		Location:     p.Location,
		CategoryID:   p.CategoryID,
		SupplierID:   p.SupplierID,
		Status:       string(p.Status),
		LowStock:     inventory.IsLowStock(p),
		OutOfStock:   inventory.OutOfStock(p),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
