package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// AdjustStockFromRequest adapta el request HTTP a StockLedger.AdjustStock y arma la respuesta.
// productID viene del path y userID del token.
func (l *StockLedger) AdjustStockFromRequest(ctx context.Context, productID, userID string, in dto.StockAdjustmentRequest) (*dto.StockAdjustmentResponse, *AdjustStockResult, error) {
	res, err := l.AdjustStock(ctx, AdjustStockInput{
		ProductID:  productID,
		UserID:     userID,
		Quantity:   in.Quantity,
		Reason:     in.Reason,
		Notes:      in.Notes,
		Reference:  in.Reference,
		Correction: in.Correction,
	})
	if err != nil {
		return nil, nil, err
	}
	m := res.Movement
	return &dto.StockAdjustmentResponse{
		MovementID:    m.ID,
		ProductID:     m.ProductID,
		Kind:          string(m.Kind),
		Quantity:      m.Quantity,
		Adjustment:    m.Magnitude(),
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		CreatedAt:     m.CreatedAt,
		Warnings:      res.Warnings,
	}, res, nil
}
