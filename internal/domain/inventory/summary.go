package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Summary agregado de inventario sobre un conjunto de productos.
type Summary struct {
	ActiveProducts  int
	LowStockCount   int
	OutOfStockCount int
	TotalValuation  decimal.Decimal // Σ CurrentStock × Price sobre productos activos
}

// StockValue valoriza qty unidades a unitPrice.
func StockValue(qty int64, unitPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(qty).Mul(unitPrice)
}

// Summarize calcula el resumen. Solo cuentan los productos activos; los inactivos se ignoran.
// Función pura: mismo input, mismo output.
func Summarize(products []*entity.Product) Summary {
	s := Summary{TotalValuation: decimal.Zero}
	for _, p := range products {
		if p == nil || !p.IsActive() {
			continue
		}
		s.ActiveProducts++
		if IsLowStock(p) {
			s.LowStockCount++
		}
		if OutOfStock(p) {
			s.OutOfStockCount++
		}
		s.TotalValuation = s.TotalValuation.Add(StockValue(p.CurrentStock, p.Price))
	}
	return s
}

// Replenishment sugerencia de compra para un producto bajo mínimo.
type Replenishment struct {
	Product       *entity.Product
	TargetStock   int64
	SuggestedQty  int64
	EstimatedCost decimal.Decimal
	Deficit       int64 // MinStock - CurrentStock (puede ser 0 si está justo en el mínimo)
	Priority      int   // 1 = más urgente
}

// targetFactor stock objetivo cuando el producto no define MaxStock.
var targetFactor = decimal.NewFromFloat(1.5)

// TargetStock nivel al que se repone: MaxStock si existe, si no ceil(MinStock × 1.5).
func TargetStock(p *entity.Product) int64 {
	if p.MaxStock != nil {
		return *p.MaxStock
	}
	return decimal.NewFromInt(p.MinStock).Mul(targetFactor).Ceil().IntPart()
}

// PlanReplenishment arma la lista de reposición de los productos activos con stock bajo,
// ordenada por mayor déficit y luego por SKU.
func PlanReplenishment(products []*entity.Product) []Replenishment {
	var out []Replenishment
	for _, p := range products {
		if p == nil || !p.IsActive() || !IsLowStock(p) {
			continue
		}
		target := TargetStock(p)
		qty := target - p.CurrentStock
		if qty < 0 {
			qty = 0
		}
		out = append(out, Replenishment{
			Product:       p,
			TargetStock:   target,
			SuggestedQty:  qty,
			EstimatedCost: StockValue(qty, p.Cost),
			Deficit:       p.MinStock - p.CurrentStock,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Deficit != out[j].Deficit {
			return out[i].Deficit > out[j].Deficit
		}
		return out[i].Product.SKU < out[j].Product.SKU
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out
}
