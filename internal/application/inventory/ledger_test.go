package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/application/inventory"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake en memoria del ProductRepository
// ──────────────────────────────────────────────────────────────────────────────

// fakeProductRepo implementa repository.ProductRepository sobre un mapa con
// mutex: el decremento condicionado es atómico igual que el UPDATE del store.
type fakeProductRepo struct {
	mu       sync.Mutex
	products map[int64]*entity.Product

	// Inyección de fallas técnicas por producto.
	decrementErrFor map[int64]error
	incrementErrFor map[int64]error

	// Orden real en que se intentaron los decrementos.
	decrementOrder []int64
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	m := make(map[int64]*entity.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &fakeProductRepo{
		products:        m,
		decrementErrFor: make(map[int64]error),
		incrementErrFor: make(map[int64]error),
	}
}

func (f *fakeProductRepo) stockOf(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.products[id]; ok {
		return p.StockQty
	}
	return -1
}

func (f *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Product, 0, len(f.products))
	for _, p := range f.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeProductRepo) ListByCategory(ctx context.Context, categoryID int64) ([]*entity.Product, error) {
	all, _ := f.List(ctx)
	out := make([]*entity.Product, 0)
	for _, p := range all {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Search(ctx context.Context, _ string) ([]*entity.Product, error) {
	return f.List(ctx)
}

func (f *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.products[p.ID]; ok {
		stock := existing.StockQty
		cp := *p
		cp.StockQty = stock // Update nunca toca stock
		f.products[p.ID] = &cp
	}
	return nil
}

func (f *fakeProductRepo) SetReorderLevel(_ context.Context, id int64, level int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.ReorderLevel = level
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) DecrementStockIfAvailable(_ context.Context, id int64, qty int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decrementOrder = append(f.decrementOrder, id)
	if err, ok := f.decrementErrFor[id]; ok {
		return 0, err
	}
	p, ok := f.products[id]
	if !ok || p.StockQty < qty {
		return 0, nil
	}
	p.StockQty -= qty
	return 1, nil
}

func (f *fakeProductRepo) IncrementStock(_ context.Context, id int64, qty int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.incrementErrFor[id]; ok {
		return 0, err
	}
	p, ok := f.products[id]
	if !ok {
		return 0, nil
	}
	p.StockQty += qty
	return 1, nil
}

func product(id int64, sku string, stock int) *entity.Product {
	return &entity.Product{
		ID:           id,
		SKU:          sku,
		NameAr:       "منتج " + sku,
		NameEn:       "Product " + sku,
		PriceBase:    decimal.NewFromInt(500),
		StockQty:     stock,
		ReorderLevel: 10,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// DeductBatch
// ──────────────────────────────────────────────────────────────────────────────

// Caso: todas las líneas con stock suficiente se descuentan.
func TestDeductBatch_TodoDescontado(t *testing.T) {
	repo := newFakeProductRepo(product(1, "A-1", 10), product(2, "A-2", 5))
	ledger := inventory.NewLedger(repo)

	res, err := ledger.DeductBatch(context.Background(), map[int64]int{1: 3, 2: 5})
	require.NoError(t, err)
	assert.True(t, res.AllDeducted())
	assert.Equal(t, map[int64]int{1: 3, 2: 5}, res.Applied)
	assert.Empty(t, res.Failed)
	assert.Equal(t, 7, repo.stockOf(1))
	assert.Equal(t, 0, repo.stockOf(2))
}

// Caso: un faltante a mitad del lote revierte lo ya descontado (efecto neto cero)
// y conserva el intento en Applied/Failed para auditoría.
func TestDeductBatch_FalloParcialRevierte(t *testing.T) {
	repo := newFakeProductRepo(product(1, "A-1", 10), product(2, "A-2", 1), product(3, "A-3", 10))
	ledger := inventory.NewLedger(repo)

	res, err := ledger.DeductBatch(context.Background(), map[int64]int{1: 3, 2: 5, 3: 2})
	require.NoError(t, err)
	assert.False(t, res.AllDeducted())
	assert.Equal(t, map[int64]int{1: 3}, res.Applied, "lo descontado antes del fallo queda documentado")
	assert.Equal(t, map[int64]int{2: 5}, res.Failed)

	// Stock intacto tras el rollback; el producto 3 nunca se tocó.
	assert.Equal(t, 10, repo.stockOf(1))
	assert.Equal(t, 1, repo.stockOf(2))
	assert.Equal(t, 10, repo.stockOf(3))
	assert.Equal(t, []int64{1, 2}, repo.decrementOrder)
}

// Caso: un producto inexistente falla esa línea por el mismo camino que el
// stock insuficiente (el decremento condicionado no afecta filas).
func TestDeductBatch_ProductoInexistente(t *testing.T) {
	repo := newFakeProductRepo(product(1, "A-1", 10))
	ledger := inventory.NewLedger(repo)

	res, err := ledger.DeductBatch(context.Background(), map[int64]int{1: 2, 99: 1})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{99: 1}, res.Failed)
	assert.Equal(t, 10, repo.stockOf(1))
}

// Caso: el lote recorre los productos en orden ascendente de ID sin importar
// el orden del mapa (orden estable de bloqueo de filas).
func TestDeductBatch_OrdenAscendente(t *testing.T) {
	repo := newFakeProductRepo(product(5, "A-5", 9), product(2, "A-2", 9), product(8, "A-8", 9))
	ledger := inventory.NewLedger(repo)

	_, err := ledger.DeductBatch(context.Background(), map[int64]int{8: 1, 2: 1, 5: 1})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5, 8}, repo.decrementOrder)
}

// Caso: lote vacío y cantidades no positivas se rechazan sin tocar el store.
func TestDeductBatch_Validacion(t *testing.T) {
	repo := newFakeProductRepo(product(1, "A-1", 10))
	ledger := inventory.NewLedger(repo)

	_, err := ledger.DeductBatch(context.Background(), map[int64]int{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ledger.DeductBatch(context.Background(), map[int64]int{1: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ledger.DeductBatch(context.Background(), map[int64]int{1: -2})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, repo.decrementOrder)
	assert.Equal(t, 10, repo.stockOf(1))
}

// Caso: una falla técnica del store a mitad del lote también revierte.
func TestDeductBatch_FallaTecnicaRevierte(t *testing.T) {
	repo := newFakeProductRepo(product(1, "A-1", 10), product(2, "A-2", 10))
	repo.decrementErrFor[2] = errors.New("connection reset")
	ledger := inventory.NewLedger(repo)

	_, err := ledger.DeductBatch(context.Background(), map[int64]int{1: 4, 2: 4})
	require.Error(t, err)
	assert.Equal(t, 10, repo.stockOf(1), "el rollback restauró la línea ya descontada")
	assert.Equal(t, 10, repo.stockOf(2))
}

// Caso: si el propio rollback falla, el error se escala (inconsistencia fatal).
func TestDeductBatch_RollbackFallido(t *testing.T) {
	repo := newFakeProductRepo(product(1, "A-1", 10), product(2, "A-2", 0))
	repo.incrementErrFor[1] = errors.New("connection reset")
	ledger := inventory.NewLedger(repo)

	_, err := ledger.DeductBatch(context.Background(), map[int64]int{1: 4, 2: 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rollback")
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckAvailability / AddStock / StockLevel
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckAvailability(t *testing.T) {
	repo := newFakeProductRepo(product(1, "A-1", 5))
	ledger := inventory.NewLedger(repo)
	ctx := context.Background()

	ok, err := ledger.CheckAvailability(ctx, 1, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ledger.CheckAvailability(ctx, 1, 6)
	require.NoError(t, err)
	assert.False(t, ok)

	// Producto inexistente no es error: simplemente no hay disponibilidad.
	ok, err = ledger.CheckAvailability(ctx, 99, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = ledger.CheckAvailability(ctx, 1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddStock(t *testing.T) {
	repo := newFakeProductRepo(product(1, "A-1", 2))
	ledger := inventory.NewLedger(repo)
	ctx := context.Background()

	require.NoError(t, ledger.AddStock(ctx, 1, 8))
	assert.Equal(t, 10, repo.stockOf(1))

	assert.ErrorIs(t, ledger.AddStock(ctx, 1, 0), domain.ErrInvalidInput)
	assert.ErrorIs(t, ledger.AddStock(ctx, 99, 5), domain.ErrNotFound)
}

func TestStockLevel(t *testing.T) {
	repo := newFakeProductRepo(product(1, "A-1", 7))
	ledger := inventory.NewLedger(repo)
	ctx := context.Background()

	stock, err := ledger.StockLevel(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, 7, stock)

	// Resolución por SKU cuando el ID no existe.
	stock, err = ledger.StockLevel(ctx, 0, "A-1")
	require.NoError(t, err)
	assert.Equal(t, 7, stock)

	_, err = ledger.StockLevel(ctx, 99, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
