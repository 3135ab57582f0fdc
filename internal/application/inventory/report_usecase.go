package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// maxReportLines tope de movimientos en el kardex (los más recientes).
const maxReportLines = 1000

// MovementReportUseCase genera el kardex PDF del historial de un producto.
type MovementReportUseCase struct {
	query     *MovementQueryService
	userRepo  repository.UserRepository
	generator MovementPDFGenerator
}

// NewMovementReportUseCase construye el caso de uso inyectando sus dependencias.
func NewMovementReportUseCase(query *MovementQueryService, userRepo repository.UserRepository, generator MovementPDFGenerator) *MovementReportUseCase {
	return &MovementReportUseCase{query: query, userRepo: userRepo, generator: generator}
}

// DownloadMovementReport recorre el historial del producto, resuelve el nombre de cada actor
// y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si el producto no existe.
func (uc *MovementReportUseCase) DownloadMovementReport(ctx context.Context, productID string) (pdfBytes []byte, filename string, err error) {
	product, err := uc.query.GetProduct(ctx, productID)
	if err != nil {
		return nil, "", err
	}

	names := make(map[string]string)
	lines := make([]MovementLine, 0)
	for m, err := range uc.query.Movements(ctx, productID, 0) {
		if err != nil {
			return nil, "", fmt.Errorf("reporte: leer movimientos: %w", err)
		}
		name, ok := names[m.UserID]
		if !ok {
			name = m.UserID // fallback
			if u, uErr := uc.userRepo.GetByID(ctx, m.UserID); uErr == nil && u != nil {
				name = u.Name
			}
			names[m.UserID] = name
		}
		lines = append(lines, MovementLine{Movement: m, ActorName: name})
		if len(lines) >= maxReportLines {
			break
		}
	}

	pdfBytes, err = uc.generator.GenerateMovementReport(ctx, product, lines)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("kardex-%s.pdf", product.SKU), nil
}
