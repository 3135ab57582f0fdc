// Package inventorytest provee un almacenamiento en memoria con control de concurrencia
// optimista para probar el ledger y los casos de uso sin base de datos.
package inventorytest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Store guarda productos, movimientos y usuarios. Las escrituras de una transacción se
// aplican en el commit, que vuelve a comprobar la versión leída igual que haría el motor.
type Store struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	movements []*entity.Movement
	users     map[string]*entity.User

	conflicts int   // próximos UpdateStock que pierden la carrera
	failWith  error // error devuelto al abrir transacciones

	// AfterRead se ejecuta dentro de la transacción justo después de leer un producto.
	AfterRead func(productID string)

	Commits   int
	Rollbacks int
}

// NewStore construye un almacenamiento vacío.
func NewStore() *Store {
	return &Store{
		products: make(map[string]*entity.Product),
		users:    make(map[string]*entity.User),
	}
}

// InjectConflicts hace que los próximos n UpdateStock devuelvan false.
func (s *Store) InjectConflicts(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conflicts = n
}

// FailTransactions hace que Run falle con err sin ejecutar la función (nil lo desactiva).
func (s *Store) FailTransactions(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

// PutProduct inserta o reemplaza un producto tal cual.
func (s *Store) PutProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.products[p.ID] = &cp
}

// PutUser inserta o reemplaza un usuario.
func (s *Store) PutUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
}

// Product devuelve una copia del estado confirmado del producto.
func (s *Store) Product(id string) *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// AllMovements copia de todos los movimientos confirmados en orden de commit.
func (s *Store) AllMovements() []entity.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Movement, 0, len(s.movements))
	for _, m := range s.movements {
		out = append(out, *m)
	}
	return out
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() repository.ProductRepository { return &productRepo{s: s} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() repository.MovementRepository { return &movementRepo{s: s} }

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return &userRepo{s: s} }

// ── TxRunner ──────────────────────────────────────────────────────────────────

type stockWrite struct {
	id              string
	newStock        int64
	expectedVersion int64
	at              time.Time
}

type tx struct {
	created   []*entity.Product
	stock     []stockWrite
	movements []*entity.Movement
}

// staged producto insertado en esta transacción y aún sin confirmar.
func (t *tx) staged(id string) *entity.Product {
	for _, p := range t.created {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
) error) error {
	s.mu.Lock()
	failWith := s.failWith
	s.mu.Unlock()
	if failWith != nil {
		return failWith
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t := &tx{}
	if err := fn(ctx, &productRepo{s: s, tx: t}, &movementRepo{s: s, tx: t}); err != nil {
		s.rollback()
		return err
	}
	if err := ctx.Err(); err != nil {
		s.rollback()
		return err
	}
	return s.commit(t)
}

func (s *Store) rollback() {
	s.mu.Lock()
	s.Rollbacks++
	s.mu.Unlock()
}

func (s *Store) commit(t *tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range t.created {
		if err := s.checkUnique(p); err != nil {
			s.Rollbacks++
			return err
		}
	}
	for _, w := range t.stock {
		p, ok := s.products[w.id]
		if !ok {
			p = t.staged(w.id)
		}
		if p == nil || p.Version != w.expectedVersion {
			s.Rollbacks++
			return domain.ErrConflict
		}
	}
	for _, m := range t.movements {
		for _, existing := range s.movements {
			if existing.ProductID == m.ProductID && existing.Sequence == m.Sequence {
				s.Rollbacks++
				return domain.ErrConflict
			}
		}
	}
	for _, p := range t.created {
		s.products[p.ID] = p
	}
	for _, w := range t.stock {
		p := s.products[w.id]
		p.CurrentStock = w.newStock
		p.Version++
		p.StockUpdatedAt = w.at
		p.UpdatedAt = w.at
	}
	for _, m := range t.movements {
		cp := *m
		s.movements = append(s.movements, &cp)
	}
	s.Commits++
	return nil
}

// ── ProductRepository ─────────────────────────────────────────────────────────

type productRepo struct {
	s  *Store
	tx *tx
}

// Create dentro de una transacción deja el producto pendiente hasta el commit.
func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkUnique(p); err != nil {
		return err
	}
	p.CurrentStock = 0
	p.Version = 0
	p.StockUpdatedAt = p.CreatedAt
	cp := *p
	if r.tx != nil {
		r.tx.created = append(r.tx.created, &cp)
		return nil
	}
	r.s.products[p.ID] = &cp
	return nil
}

func (s *Store) checkUnique(p *entity.Product) error {
	for _, existing := range s.products {
		if existing.SKU == p.SKU {
			return domain.Errorf(domain.ErrDuplicate, "el SKU ya existe")
		}
		if p.Barcode != nil && existing.Barcode != nil && *existing.Barcode == *p.Barcode {
			return domain.Errorf(domain.ErrDuplicate, "el código de barras ya existe")
		}
	}
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	p, ok := r.s.products[id]
	if !ok && r.tx != nil {
		p = r.tx.staged(id)
		ok = p != nil
	}
	var cp entity.Product
	if ok {
		cp = *p
	}
	hook := r.s.AfterRead
	r.s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	if r.tx != nil && hook != nil {
		hook(id)
	}
	return &cp, nil
}

func (r *productRepo) find(match func(*entity.Product) bool) *entity.Product {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if match(p) {
			cp := *p
			return &cp
		}
	}
	return nil
}

func (r *productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	return r.find(func(p *entity.Product) bool { return p.SKU == sku }), nil
}

func (r *productRepo) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	return r.find(func(p *entity.Product) bool { return p.Barcode != nil && *p.Barcode == barcode }), nil
}

// Update escribe solo los campos descriptivos; stock y versión quedan intactos.
func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *p
	cp.CurrentStock = cur.CurrentStock
	cp.Version = cur.Version
	cp.StockUpdatedAt = cur.StockUpdatedAt
	cp.CreatedAt = cur.CreatedAt
	r.s.products[p.ID] = &cp
	return nil
}

func (r *productRepo) SetStatus(_ context.Context, id string, status entity.ProductStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	return nil
}

func (r *productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Product
	for _, p := range r.s.products {
		if !f.IncludeInactive && !p.IsActive() {
			continue
		}
		if f.LowStockOnly && p.CurrentStock > p.MinStock {
			continue
		}
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return strings.Compare(all[i].SKU, all[j].SKU) < 0 })
	return paginate(all, f.Limit, f.Offset), nil
}

func (r *productRepo) UpdateStock(_ context.Context, id string, newStock, expectedVersion int64, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.conflicts > 0 {
		r.s.conflicts--
		return false, nil
	}
	p, ok := r.s.products[id]
	if !ok && r.tx != nil {
		p = r.tx.staged(id)
		ok = p != nil
	}
	if !ok || p.Version != expectedVersion {
		return false, nil
	}
	if newStock < 0 {
		return false, domain.Errorf(domain.ErrValidation, "check new_stock >= 0")
	}
	if r.tx == nil {
		p.CurrentStock = newStock
		p.Version++
		p.StockUpdatedAt = at
		return true, nil
	}
	r.tx.stock = append(r.tx.stock, stockWrite{id: id, newStock: newStock, expectedVersion: expectedVersion, at: at})
	return true, nil
}

// ── MovementRepository ────────────────────────────────────────────────────────

type movementRepo struct {
	s  *Store
	tx *tx
}

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	if m.Quantity == 0 || m.NewStock < 0 || m.NewStock != m.PreviousStock+m.Quantity {
		return domain.Errorf(domain.ErrValidation, "movimiento inconsistente")
	}
	if r.tx != nil {
		cp := *m
		r.tx.movements = append(r.tx.movements, &cp)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Movement
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			cp := *m
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Sequence > list[j].Sequence })
	return paginate(list, limit, offset), nil
}

func (r *movementRepo) ListByProductBefore(_ context.Context, productID string, beforeSeq int64, limit int) ([]*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Movement
	for _, m := range r.s.movements {
		if m.ProductID == productID && m.Sequence < beforeSeq {
			cp := *m
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Sequence > list[j].Sequence })
	return paginate(list, limit, 0), nil
}

func (r *movementRepo) ListRecent(_ context.Context, limit int) ([]*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*entity.Movement, 0, len(r.s.movements))
	for _, m := range r.s.movements {
		cp := *m
		list = append(list, &cp)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, 0), nil
}

// ── UserRepository ────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
