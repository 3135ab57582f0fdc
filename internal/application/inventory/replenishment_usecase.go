package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// ReplenishmentUseCase genera la lista de reposición del catálogo.
// Toma los productos activos en o bajo su mínimo y sugiere cuánto pedir para llegar al objetivo.
type ReplenishmentUseCase struct {
	query *MovementQueryService
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(query *MovementQueryService) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{query: query}
}

// GenerateReplenishmentList devuelve las sugerencias ordenadas por mayor déficit (prioridad 1 primero).
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	low, err := uc.query.LowStock(ctx)
	if err != nil {
		return nil, err
	}

	plan := inventory.PlanReplenishment(low)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(plan))
	for _, r := range plan {
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          r.Product.ID,
			SKU:                r.Product.SKU,
			ProductName:        r.Product.Name,
			CurrentStock:       r.Product.CurrentStock,
			MinStock:           r.Product.MinStock,
			TargetStock:        r.TargetStock,
			SuggestedOrderQty:  r.SuggestedQty,
			UnitCost:           r.Product.Cost,
			EstimatedOrderCost: r.EstimatedCost,
			Priority:           r.Priority,
		})
	}
	return suggestions, nil
}
