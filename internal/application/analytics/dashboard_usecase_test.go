package analytics_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory/inventorytest"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func TestGetSummary(t *testing.T) {
	store := inventorytest.NewStore()
	userID := uuid.NewString()
	store.PutUser(&entity.User{ID: userID, Name: "Ana", Status: entity.UserStatusActive})
	p1, p2 := uuid.NewString(), uuid.NewString()
	store.PutProduct(&entity.Product{ID: p1, SKU: "A", Price: decimal.RequireFromString("2.50"), MinStock: 5, Status: entity.ProductStatusActive})
	store.PutProduct(&entity.Product{ID: p2, SKU: "B", Price: decimal.NewFromInt(10), MinStock: 1, Status: entity.ProductStatusActive})

	ledger := inventory.NewStockLedger(store, store.Users())
	for _, adj := range []struct {
		id  string
		qty int64
	}{{p1, 4}, {p2, 3}, {p2, -1}} {
		_, err := ledger.AdjustStock(context.Background(), inventory.AdjustStockInput{ProductID: adj.id, UserID: userID, Quantity: adj.qty, Reason: "x"})
		require.NoError(t, err)
	}

	query := inventory.NewMovementQueryService(store.Products(), store.Movements())
	uc := analytics.NewDashboardUseCase(query, store.Movements())

	out, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, out.ActiveProducts)
	assert.Equal(t, 1, out.LowStockCount) // A: 4 <= 5
	assert.Equal(t, 0, out.OutOfStockCount)
	assert.True(t, decimal.RequireFromString("30").Equal(out.TotalValuation)) // 4*2.5 + 2*10
	require.Len(t, out.RecentMovements, 3)
	assert.Equal(t, int64(-1), out.RecentMovements[0].Quantity)
	assert.False(t, out.GeneratedAt.IsZero())
}

type failingSummary struct{}

func (failingSummary) Summary(context.Context) (domaininv.Summary, error) {
	return domaininv.Summary{}, domain.Errorf(domain.ErrStorageUnavailable, "sin conexión")
}

func TestGetSummary_PropagaErrorDeAlmacenamiento(t *testing.T) {
	store := inventorytest.NewStore()
	uc := analytics.NewDashboardUseCase(failingSummary{}, store.Movements())

	_, err := uc.GetSummary(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}
