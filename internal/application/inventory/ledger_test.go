package inventory_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory/inventorytest"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store     *inventorytest.Store
	ledger    *inventory.StockLedger
	query     *inventory.MovementQueryService
	productID string
	userID    string
}

func newFixture(t *testing.T, stock, min int64, opts ...inventory.LedgerOption) *fixture {
	t.Helper()
	store := inventorytest.NewStore()
	f := &fixture{
		store:     store,
		productID: uuid.NewString(),
		userID:    uuid.NewString(),
	}
	store.PutUser(&entity.User{ID: f.userID, Name: "Bodega Central", Email: "bodega@test.com", Role: entity.RoleBodeguero, Status: entity.UserStatusActive})
	store.PutProduct(&entity.Product{
		ID:           f.productID,
		SKU:          "SKU-001",
		Name:         "Tornillo 3/8",
		Price:        decimal.NewFromInt(1500),
		Cost:         decimal.NewFromInt(900),
		CurrentStock: stock,
		MinStock:     min,
		Status:       entity.ProductStatusActive,
	})
	opts = append([]inventory.LedgerOption{
		inventory.WithClock(func() time.Time { return fixedNow }),
		inventory.WithRetryPolicy(5, 0),
	}, opts...)
	f.ledger = inventory.NewStockLedger(store, store.Users(), opts...)
	f.query = inventory.NewMovementQueryService(store.Products(), store.Movements())
	return f
}

func (f *fixture) adjust(qty int64, reason string) (*inventory.AdjustStockResult, error) {
	return f.ledger.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID: f.productID,
		UserID:    f.userID,
		Quantity:  qty,
		Reason:    reason,
	})
}

func (f *fixture) assertUnchanged(t *testing.T, stock int64, movements int) {
	t.Helper()
	p := f.store.Product(f.productID)
	assert.Equal(t, stock, p.CurrentStock)
	assert.Len(t, f.store.AllMovements(), movements)
}

func TestAdjustStock_Escenario(t *testing.T) {
	f := newFixture(t, 10, 5)

	res, err := f.adjust(-7, "Venta mostrador")
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.Movement.PreviousStock)
	assert.Equal(t, int64(3), res.Movement.NewStock)
	assert.Equal(t, entity.MovementKindOut, res.Movement.Kind)
	assert.Equal(t, int64(3), res.Product.CurrentStock)
	assert.True(t, domaininv.IsLowStock(f.store.Product(f.productID)))

	_, err = f.adjust(-5, "Venta mostrador")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	f.assertUnchanged(t, 3, 1)

	res, err = f.adjust(20, "Compra proveedor")
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Movement.PreviousStock)
	assert.Equal(t, int64(23), res.Movement.NewStock)
	assert.Equal(t, entity.MovementKindIn, res.Movement.Kind)
	f.assertUnchanged(t, 23, 2)
}

func TestAdjustStock_ValidacionSinMutacion(t *testing.T) {
	cases := []struct {
		name string
		mod  func(in *inventory.AdjustStockInput)
	}{
		{"cantidad cero", func(in *inventory.AdjustStockInput) { in.Quantity = 0 }},
		{"motivo vacío", func(in *inventory.AdjustStockInput) { in.Reason = "   " }},
		{"motivo largo", func(in *inventory.AdjustStockInput) { in.Reason = strings.Repeat("x", 256) }},
		{"notas largas", func(in *inventory.AdjustStockInput) { in.Notes = strings.Repeat("x", 1001) }},
		{"referencia larga", func(in *inventory.AdjustStockInput) { in.Reference = strings.Repeat("x", 101) }},
		{"product_id mal formado", func(in *inventory.AdjustStockInput) { in.ProductID = "abc" }},
		{"user_id mal formado", func(in *inventory.AdjustStockInput) { in.UserID = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, 10, 0)
			in := inventory.AdjustStockInput{ProductID: f.productID, UserID: f.userID, Quantity: 1, Reason: "Conteo"}
			tc.mod(&in)

			_, err := f.ledger.AdjustStock(context.Background(), in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			f.assertUnchanged(t, 10, 0)
			assert.Zero(t, f.store.Commits)
		})
	}
}

func TestAdjustStock_MotivoSeRecorta(t *testing.T) {
	f := newFixture(t, 0, 0)
	res, err := f.adjust(4, "  Recepción OC-12  ")
	require.NoError(t, err)
	assert.Equal(t, "Recepción OC-12", res.Movement.Reason)
}

func TestAdjustStock_NoEncontrado(t *testing.T) {
	f := newFixture(t, 10, 0)

	_, err := f.ledger.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID: uuid.NewString(), UserID: f.userID, Quantity: 1, Reason: "x",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.ledger.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID: f.productID, UserID: uuid.NewString(), Quantity: 1, Reason: "x",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.assertUnchanged(t, 10, 0)
}

func TestAdjustStock_CorreccionEsAjuste(t *testing.T) {
	f := newFixture(t, 10, 0)
	res, err := f.ledger.AdjustStock(context.Background(), inventory.AdjustStockInput{
		ProductID: f.productID, UserID: f.userID, Quantity: -2, Reason: "Conteo físico", Correction: true,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementKindAdjustment, res.Movement.Kind)
	assert.Equal(t, int64(-2), res.Movement.Quantity)
	assert.Equal(t, int64(2), res.Movement.Magnitude())
}

func TestAdjustStock_ProductoInactivoAdvierte(t *testing.T) {
	f := newFixture(t, 10, 0)
	require.NoError(t, f.store.Products().SetStatus(context.Background(), f.productID, entity.ProductStatusInactive))

	res, err := f.adjust(-10, "Baja por vencimiento")
	require.NoError(t, err)
	assert.Equal(t, []string{inventory.WarningProductInactive}, res.Warnings)
	assert.Equal(t, int64(0), f.store.Product(f.productID).CurrentStock)

	res, err = f.adjust(1, "Devolución")
	require.NoError(t, err)
	assert.Contains(t, res.Warnings, "PRODUCT_INACTIVE")
}

func TestAdjustStock_HistorialEncadenado(t *testing.T) {
	f := newFixture(t, 10, 0)
	deltas := []int64{5, -3, -12, 7, 1, -8, 20}
	for _, d := range deltas {
		_, err := f.adjust(d, "mov")
		require.NoError(t, err)
	}

	list, err := f.query.ListMovements(context.Background(), f.productID, 100, 0)
	require.NoError(t, err)
	require.Len(t, list, len(deltas))

	// Del más nuevo al más antiguo: el previo de cada uno es el nuevo del siguiente.
	for i := 0; i < len(list)-1; i++ {
		assert.Equal(t, list[i+1].NewStock, list[i].PreviousStock)
		assert.Greater(t, list[i].Sequence, list[i+1].Sequence)
		assert.True(t, list[i].CreatedAt.After(list[i+1].CreatedAt))
	}
	oldest := list[len(list)-1]
	assert.Equal(t, int64(10), oldest.PreviousStock)
	for i, m := range list {
		assert.Equal(t, m.PreviousStock+m.Quantity, m.NewStock)
		assert.Equal(t, deltas[len(deltas)-1-i], m.Quantity)
	}
	assert.Equal(t, list[0].NewStock, f.store.Product(f.productID).CurrentStock)
	assert.Equal(t, int64(len(deltas)), f.store.Product(f.productID).Version)
}

func TestAdjustStock_ConcurrentesSinActualizacionPerdida(t *testing.T) {
	f := newFixture(t, 10, 0)

	// Ambas transacciones leen la misma versión antes de que cualquiera escriba.
	var (
		arrived int
		mu      sync.Mutex
		both    = make(chan struct{})
	)
	f.store.AfterRead = func(string) {
		mu.Lock()
		arrived++
		if arrived == 2 {
			close(both)
		}
		mu.Unlock()
		<-both
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, qty := range []int64{-5, 3} {
		wg.Add(1)
		go func(i int, qty int64) {
			defer wg.Done()
			_, errs[i] = f.adjust(qty, "concurrente")
		}(i, qty)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int64(8), f.store.Product(f.productID).CurrentStock)

	movs := f.store.AllMovements()
	require.Len(t, movs, 2)
	assert.Equal(t, int64(10), movs[0].PreviousStock)
	assert.Equal(t, movs[0].NewStock, movs[1].PreviousStock)
	assert.Equal(t, int64(8), movs[1].NewStock)
	assert.Equal(t, movs[0].Sequence+1, movs[1].Sequence)
	assert.Positive(t, f.store.Rollbacks)
}

func TestAdjustStock_MuchosConcurrentes(t *testing.T) {
	f := newFixture(t, 0, 0, inventory.WithRetryPolicy(1000, 0))

	const workers = 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.adjust(2, "recepción")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(2*workers), f.store.Product(f.productID).CurrentStock)
	movs := f.store.AllMovements()
	require.Len(t, movs, workers)
	for i := 1; i < len(movs); i++ {
		assert.Equal(t, movs[i-1].NewStock, movs[i].PreviousStock)
	}
}

func TestAdjustStock_ReintentaConflictos(t *testing.T) {
	f := newFixture(t, 10, 0)
	f.store.InjectConflicts(2)

	res, err := f.adjust(-1, "venta")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Movement.Sequence)
	f.assertUnchanged(t, 9, 1)
	assert.Equal(t, 2, f.store.Rollbacks)
}

func TestAdjustStock_ContencionAgotada(t *testing.T) {
	f := newFixture(t, 10, 0, inventory.WithRetryPolicy(3, time.Millisecond))
	f.store.InjectConflicts(100)

	_, err := f.adjust(-1, "venta")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrContention)
	assert.NotErrorIs(t, err, domain.ErrConflict)
	f.assertUnchanged(t, 10, 0)
	assert.Equal(t, 3, f.store.Rollbacks)
}

func TestAdjustStock_ContextoCancelado(t *testing.T) {
	f := newFixture(t, 10, 0)
	ctx, cancel := context.WithCancel(context.Background())

	// Se cancela en medio de la transacción, antes del commit.
	f.store.AfterRead = func(string) { cancel() }

	_, err := f.ledger.AdjustStock(ctx, inventory.AdjustStockInput{
		ProductID: f.productID, UserID: f.userID, Quantity: 3, Reason: "x",
	})
	assert.ErrorIs(t, err, context.Canceled)
	f.assertUnchanged(t, 10, 0)
}

func TestAdjustStock_AlmacenamientoNoDisponible(t *testing.T) {
	f := newFixture(t, 10, 0)
	f.store.FailTransactions(domain.Errorf(domain.ErrStorageUnavailable, "sin conexión"))

	_, err := f.adjust(1, "x")
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	f.assertUnchanged(t, 10, 0)
}

func TestAdjustStock_MarcasDeTiempoCrecientes(t *testing.T) {
	f := newFixture(t, 10, 0)
	var last time.Time
	for i := 0; i < 5; i++ {
		res, err := f.adjust(1, "x")
		require.NoError(t, err)
		assert.True(t, res.Movement.CreatedAt.After(last))
		assert.Equal(t, time.UTC, res.Movement.CreatedAt.Location())
		last = res.Movement.CreatedAt
	}
}

func newProduct(sku string) *entity.Product {
	return &entity.Product{
		ID:        uuid.NewString(),
		SKU:       sku,
		Name:      "Producto " + sku,
		Status:    entity.ProductStatusActive,
		CreatedAt: fixedNow.Add(-time.Hour),
		UpdatedAt: fixedNow.Add(-time.Hour),
	}
}

func TestCreateProduct_StockInicialEnLaMismaTransaccion(t *testing.T) {
	f := newFixture(t, 0, 0)
	f.store.InjectConflicts(1)
	p := newProduct("NEW-1")

	res, err := f.ledger.CreateProduct(context.Background(), p, inventory.AdjustStockInput{
		UserID: f.userID, Quantity: 8, Reason: "Stock inicial",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8), res.Product.CurrentStock)
	assert.Equal(t, int64(1), res.Movement.Sequence)
	assert.Equal(t, p.ID, res.Movement.ProductID)

	stored := f.store.Product(p.ID)
	require.NotNil(t, stored)
	assert.Equal(t, int64(8), stored.CurrentStock)
	assert.Equal(t, int64(1), stored.Version)
	assert.Equal(t, 1, f.store.Rollbacks)
}

func TestCreateProduct_SiElMovimientoFallaNoQuedaProducto(t *testing.T) {
	cases := []struct {
		name   string
		setup  func(f *fixture) string
		target error
	}{
		{"actor inexistente", func(f *fixture) string { return uuid.NewString() }, domain.ErrNotFound},
		{"almacenamiento caído", func(f *fixture) string {
			f.store.FailTransactions(domain.Errorf(domain.ErrStorageUnavailable, "sin conexión"))
			return f.userID
		}, domain.ErrStorageUnavailable},
		{"contención", func(f *fixture) string {
			f.store.InjectConflicts(100)
			return f.userID
		}, domain.ErrContention},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, 0, 0)
			actor := tc.setup(f)
			p := newProduct("NEW-2")

			_, err := f.ledger.CreateProduct(context.Background(), p, inventory.AdjustStockInput{
				UserID: actor, Quantity: 5, Reason: "Stock inicial",
			})
			assert.ErrorIs(t, err, tc.target)
			assert.Nil(t, f.store.Product(p.ID))
			assert.Empty(t, f.store.AllMovements())
		})
	}
}
