package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// WarningProductInactive se devuelve cuando se ajusta un producto dado de baja.
const WarningProductInactive = "PRODUCT_INACTIVE"

const maxReferenceLength = 100

// StockLedger es la única autoridad que modifica current_stock. Cada ajuste actualiza el
// contador del producto e inserta exactamente un movimiento en la misma transacción.
//
// La exclusión por producto se obtiene del motor: escritura condicional sobre products.version
// (compare-and-swap). Si otra escritura gana, se repite el ciclo completo lectura-validación-escritura
// hasta maxRetries veces; agotarlos es domain.ErrContention.
type StockLedger struct {
	txRunner   TxRunner
	userRepo   repository.UserRepository
	maxRetries int
	backoff    time.Duration
	now        func() time.Time
}

// LedgerOption configura el ledger.
type LedgerOption func(*StockLedger)

// WithRetryPolicy define cuántos intentos se hacen y la espera base entre ellos (lineal).
func WithRetryPolicy(maxRetries int, backoff time.Duration) LedgerOption {
	return func(l *StockLedger) {
		if maxRetries > 0 {
			l.maxRetries = maxRetries
		}
		if backoff >= 0 {
			l.backoff = backoff
		}
	}
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) LedgerOption {
	return func(l *StockLedger) { l.now = now }
}

// NewStockLedger construye el ledger. Por defecto 5 intentos con 10ms de espera base.
func NewStockLedger(txRunner TxRunner, userRepo repository.UserRepository, opts ...LedgerOption) *StockLedger {
	l := &StockLedger{
		txRunner:   txRunner,
		userRepo:   userRepo,
		maxRetries: 5,
		backoff:    10 * time.Millisecond,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AdjustStockInput entrada del ajuste. Quantity con signo; Correction marca el movimiento como adjustment.
type AdjustStockInput struct {
	ProductID  string
	UserID     string
	Quantity   int64
	Reason     string
	Notes      string
	Reference  string
	Correction bool
}

// AdjustStockResult movimiento confirmado y estado del producto después del ajuste.
type AdjustStockResult struct {
	Movement *entity.Movement
	Product  *entity.Product
	Warnings []string
}

// AdjustStock valida la entrada, y en una transacción lee el producto, calcula el nuevo stock,
// lo escribe condicionado a la versión leída e inserta el movimiento.
// Cualquier error deja el estado exactamente como estaba.
func (l *StockLedger) AdjustStock(ctx context.Context, in AdjustStockInput) (*AdjustStockResult, error) {
	if _, err := uuid.Parse(in.ProductID); err != nil {
		return nil, domain.Errorf(domain.ErrValidation, "product_id inválido")
	}
	kind, err := l.prepare(ctx, &in)
	if err != nil {
		return nil, err
	}
	return l.retry(ctx, func() (*AdjustStockResult, error) {
		return l.apply(ctx, in, kind, nil)
	})
}

// CreateProduct inserta el producto y, si seed.Quantity != 0, registra el stock inicial como su
// primer movimiento en la misma transacción: si el movimiento no se confirma, el producto tampoco.
func (l *StockLedger) CreateProduct(ctx context.Context, product *entity.Product, seed AdjustStockInput) (*AdjustStockResult, error) {
	if seed.Quantity == 0 {
		err := l.txRunner.Run(ctx, func(
			ctx context.Context,
			productRepo repository.ProductRepository,
			_ repository.MovementRepository,
		) error {
			return productRepo.Create(ctx, product)
		})
		if err != nil {
			return nil, err
		}
		return &AdjustStockResult{Product: product}, nil
	}

	seed.ProductID = product.ID
	kind, err := l.prepare(ctx, &seed)
	if err != nil {
		return nil, err
	}
	return l.retry(ctx, func() (*AdjustStockResult, error) {
		return l.apply(ctx, seed, kind, product)
	})
}

// prepare valida y normaliza la entrada y comprueba que el actor exista.
func (l *StockLedger) prepare(ctx context.Context, in *AdjustStockInput) (entity.MovementKind, error) {
	if _, err := uuid.Parse(in.UserID); err != nil {
		return "", domain.Errorf(domain.ErrValidation, "user_id inválido")
	}
	if err := inventory.ValidateQuantity(in.Quantity); err != nil {
		return "", err
	}
	reason, err := inventory.NormalizeReason(in.Reason)
	if err != nil {
		return "", err
	}
	if err := inventory.ValidateNotes(in.Notes); err != nil {
		return "", err
	}
	if len(in.Reference) > maxReferenceLength {
		return "", domain.Errorf(domain.ErrValidation, "la referencia supera 100 caracteres")
	}
	in.Reason = reason

	actor, err := l.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return "", err
	}
	if actor == nil {
		return "", domain.Errorf(domain.ErrNotFound, "el usuario no existe")
	}
	return inventory.KindFor(in.Quantity, in.Correction), nil
}

// retry repite attempt mientras pierda la carrera de versión, hasta maxRetries veces.
func (l *StockLedger) retry(ctx context.Context, attempt func() (*AdjustStockResult, error)) (*AdjustStockResult, error) {
	for n := 1; ; n++ {
		res, err := attempt()
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		if n >= l.maxRetries {
			return nil, domain.Errorf(domain.ErrContention,
				fmt.Sprintf("no se pudo confirmar el ajuste tras %d intentos, reintente", n))
		}
		if err := wait(ctx, l.backoff*time.Duration(n)); err != nil {
			return nil, err
		}
	}
}

// apply ejecuta un intento completo dentro de una transacción. Con create != nil el producto
// se inserta primero en la misma transacción.
func (l *StockLedger) apply(ctx context.Context, in AdjustStockInput, kind entity.MovementKind, create *entity.Product) (*AdjustStockResult, error) {
	var result *AdjustStockResult
	err := l.txRunner.Run(ctx, func(
		ctx context.Context,
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
	) error {
		if create != nil {
			fresh := *create
			if err := productRepo.Create(ctx, &fresh); err != nil {
				return err
			}
		}
		product, err := productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.Errorf(domain.ErrNotFound, "el producto no existe")
		}

		newStock, err := inventory.NextStock(product.CurrentStock, in.Quantity)
		if err != nil {
			return err
		}

		at := l.stampAfter(product.StockUpdatedAt)
		ok, err := productRepo.UpdateStock(ctx, product.ID, newStock, product.Version, at)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}

		mov := &entity.Movement{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			UserID:        in.UserID,
			Kind:          kind,
			Quantity:      in.Quantity,
			PreviousStock: product.CurrentStock,
			NewStock:      newStock,
			Reason:        in.Reason,
			Notes:         in.Notes,
			Reference:     in.Reference,
			Sequence:      product.Version + 1,
			CreatedAt:     at,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}

		after := *product
		after.CurrentStock = newStock
		after.Version = mov.Sequence
		after.StockUpdatedAt = at
		after.UpdatedAt = at

		result = &AdjustStockResult{Movement: mov, Product: &after}
		if !product.IsActive() {
			result.Warnings = append(result.Warnings, WarningProductInactive)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// stampAfter devuelve la hora actual (precisión de microsegundos, la de timestamptz) garantizando
// que sea estrictamente posterior al último movimiento del producto.
func (l *StockLedger) stampAfter(last time.Time) time.Time {
	at := l.now().UTC().Truncate(time.Microsecond)
	if !at.After(last) {
		at = last.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return at
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
