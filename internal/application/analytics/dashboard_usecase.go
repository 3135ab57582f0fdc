// Package analytics contiene los casos de uso de reportes del inventario para el dashboard.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

const dashboardRecentMovements = 10 // movimientos en el widget del dashboard

// SummaryReader fuente del resumen agregado (MovementQueryService).
type SummaryReader interface {
	Summary(ctx context.Context) (inventory.Summary, error)
}

// DashboardUseCase genera el resumen del inventario: contadores, valorización y últimos movimientos.
// Solo lectura; no toca el ledger.
type DashboardUseCase struct {
	summary SummaryReader
	movRepo repository.MovementRepository
	now     func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(summary SummaryReader, movRepo repository.MovementRepository) *DashboardUseCase {
	return &DashboardUseCase{summary: summary, movRepo: movRepo, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Dos llamadas en paralelo:
//  1. Summary()                → contadores + valorización
//  2. ListRecent(10)           → RecentMovements
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	type summaryResult struct {
		summary inventory.Summary
		err     error
	}
	type recentResult struct {
		movements []*entity.Movement
		err       error
	}

	summaryCh := make(chan summaryResult, 1)
	recentCh := make(chan recentResult, 1)

	go func() {
		s, err := uc.summary.Summary(ctx)
		summaryCh <- summaryResult{s, err}
	}()
	go func() {
		list, err := uc.movRepo.ListRecent(ctx, dashboardRecentMovements)
		recentCh <- recentResult{list, err}
	}()

	sum := <-summaryCh
	recent := <-recentCh

	if sum.err != nil {
		return nil, fmt.Errorf("dashboard: resumen: %w", sum.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos recientes: %w", recent.err)
	}

	return &dto.DashboardSummaryDTO{
		ActiveProducts:  sum.summary.ActiveProducts,
		LowStockCount:   sum.summary.LowStockCount,
		OutOfStockCount: sum.summary.OutOfStockCount,
		TotalValuation:  sum.summary.TotalValuation.Round(2),
		RecentMovements: dto.ToMovementResponses(recent.movements),
		GeneratedAt:     uc.now().UTC(),
	}, nil
}
