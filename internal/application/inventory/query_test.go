package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func seedMovements(t *testing.T, f *fixture, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := f.adjust(1, "recepción")
		require.NoError(t, err)
	}
}

func TestListMovements_SinMovimientosEsVacio(t *testing.T) {
	f := newFixture(t, 0, 0)
	list, err := f.query.ListMovements(context.Background(), f.productID, 10, 0)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestListMovements_ProductoInexistente(t *testing.T) {
	f := newFixture(t, 0, 0)

	_, err := f.query.ListMovements(context.Background(), uuid.NewString(), 10, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.query.ListMovements(context.Background(), "no-es-uuid", 10, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListMovements_Paginacion(t *testing.T) {
	f := newFixture(t, 0, 0)
	seedMovements(t, f, 25)

	first, err := f.query.ListMovements(context.Background(), f.productID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, first, 20, "límite por defecto")
	assert.Equal(t, int64(25), first[0].Sequence)

	second, err := f.query.ListMovements(context.Background(), f.productID, 10, 20)
	require.NoError(t, err)
	require.Len(t, second, 5)
	assert.Equal(t, int64(5), second[0].Sequence)
	assert.Equal(t, int64(1), second[4].Sequence)

	clamped, err := f.query.ListMovements(context.Background(), f.productID, 5000, -3)
	require.NoError(t, err)
	assert.Len(t, clamped, 25)
}

func TestMovements_SecuenciaPerezosaYReiniciable(t *testing.T) {
	f := newFixture(t, 0, 0)
	seedMovements(t, f, 7)

	seq := f.query.Movements(context.Background(), f.productID, 3)

	var got []int64
	for m, err := range seq {
		require.NoError(t, err)
		got = append(got, m.Sequence)
	}
	assert.Equal(t, []int64{7, 6, 5, 4, 3, 2, 1}, got)

	// Segundo recorrido desde el inicio, cortado antes de terminar.
	var partial []int64
	for m, err := range seq {
		require.NoError(t, err)
		partial = append(partial, m.Sequence)
		if len(partial) == 2 {
			break
		}
	}
	assert.Equal(t, []int64{7, 6}, partial)
}

func TestMovements_AjusteDuranteElRecorridoNoRepite(t *testing.T) {
	f := newFixture(t, 0, 0)
	seedMovements(t, f, 4)

	var got []int64
	for m, err := range f.query.Movements(context.Background(), f.productID, 2) {
		require.NoError(t, err)
		got = append(got, m.Sequence)
		if len(got) == 2 {
			// Un ajuste concurrente entre páginas.
			_, err := f.adjust(-1, "venta")
			require.NoError(t, err)
		}
	}
	assert.Equal(t, []int64{4, 3, 2, 1}, got)

	// Cadena consistente: cada movimiento parte del stock que dejó el anterior.
	var prev *entity.Movement
	for m, err := range f.query.Movements(context.Background(), f.productID, 2) {
		require.NoError(t, err)
		if prev != nil {
			assert.Equal(t, m.NewStock, prev.PreviousStock)
			assert.Equal(t, m.Sequence+1, prev.Sequence)
		}
		prev = m
	}
	require.NotNil(t, prev)
	assert.Equal(t, int64(1), prev.Sequence)
}

func TestMovements_ErrorDeAlmacenamiento(t *testing.T) {
	f := newFixture(t, 0, 0)
	for _, err := range f.query.Movements(context.Background(), uuid.NewString(), 10) {
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	}
}

func TestLowStockYSummary(t *testing.T) {
	f := newFixture(t, 3, 5) // SKU-001 bajo mínimo, precio 1500
	f.store.PutProduct(&entity.Product{
		ID: uuid.NewString(), SKU: "SKU-002", Name: "Arandela", Price: decimal.NewFromInt(200),
		CurrentStock: 50, MinStock: 10, Status: entity.ProductStatusActive,
	})
	f.store.PutProduct(&entity.Product{
		ID: uuid.NewString(), SKU: "SKU-003", Name: "Tuerca", Price: decimal.NewFromInt(100),
		CurrentStock: 0, MinStock: 1, Status: entity.ProductStatusActive,
	})
	f.store.PutProduct(&entity.Product{
		ID: uuid.NewString(), SKU: "SKU-004", Name: "Descontinuado", Price: decimal.NewFromInt(999),
		CurrentStock: 0, MinStock: 5, Status: entity.ProductStatusInactive,
	})

	low, err := f.query.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "SKU-001", low[0].SKU)
	assert.Equal(t, "SKU-003", low[1].SKU)

	sum, err := f.query.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.ActiveProducts)
	assert.Equal(t, 2, sum.LowStockCount)
	assert.Equal(t, 1, sum.OutOfStockCount)
	assert.True(t, decimal.NewFromInt(3*1500+50*200).Equal(sum.TotalValuation))
}

func TestListProducts_InactivosOpcionales(t *testing.T) {
	f := newFixture(t, 1, 0)
	f.store.PutProduct(&entity.Product{ID: uuid.NewString(), SKU: "SKU-900", Status: entity.ProductStatusInactive})

	active, err := f.query.ListProducts(context.Background(), false, 0, 0)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := f.query.ListProducts(context.Background(), true, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReplenishmentList(t *testing.T) {
	f := newFixture(t, 2, 10) // objetivo ceil(10*1.5)=15, pedir 13
	maxStock := int64(40)
	f.store.PutProduct(&entity.Product{
		ID: uuid.NewString(), SKU: "SKU-010", Name: "Cable", Cost: decimal.NewFromInt(10),
		CurrentStock: 5, MinStock: 6, MaxStock: &maxStock, Status: entity.ProductStatusActive,
	})

	uc := inventory.NewReplenishmentUseCase(f.query)
	list, err := uc.GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "SKU-001", list[0].SKU)
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, int64(15), list[0].TargetStock)
	assert.Equal(t, int64(13), list[0].SuggestedOrderQty)
	assert.True(t, decimal.NewFromInt(13*900).Equal(list[0].EstimatedOrderCost))

	assert.Equal(t, "SKU-010", list[1].SKU)
	assert.Equal(t, int64(35), list[1].SuggestedOrderQty)
	assert.Equal(t, 2, list[1].Priority)
}

type fakePDF struct {
	lines []inventory.MovementLine
}

func (g *fakePDF) GenerateMovementReport(_ context.Context, _ *entity.Product, lines []inventory.MovementLine) ([]byte, error) {
	g.lines = lines
	return []byte("%PDF-1.3"), nil
}

func TestDownloadMovementReport(t *testing.T) {
	f := newFixture(t, 0, 0)
	seedMovements(t, f, 3)
	gen := &fakePDF{}
	uc := inventory.NewMovementReportUseCase(f.query, f.store.Users(), gen)

	pdf, name, err := uc.DownloadMovementReport(context.Background(), f.productID)
	require.NoError(t, err)
	assert.Equal(t, "kardex-SKU-001.pdf", name)
	assert.Equal(t, []byte("%PDF-1.3"), pdf)
	require.Len(t, gen.lines, 3)
	assert.Equal(t, "Bodega Central", gen.lines[0].ActorName)
	assert.Equal(t, int64(3), gen.lines[0].Movement.Sequence)

	_, _, err = uc.DownloadMovementReport(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
