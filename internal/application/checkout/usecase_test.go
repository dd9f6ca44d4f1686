package checkout_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/application/checkout"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/money"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes: store en memoria con semántica transaccional
// ──────────────────────────────────────────────────────────────────────────────

// fakeStore simula el store completo. El TxRunner de test toma un snapshot
// antes del callback y lo restaura si este falla: mismo efecto neto que el
// rollback de una transacción real.
type fakeStore struct {
	mu       sync.Mutex
	products map[int64]*entity.Product
	sales    []*entity.Sale

	// forceNoRows simula un decremento que no afecta filas aunque la lectura
	// previa viera stock (carrera entre verificación y commit).
	forceNoRows   map[int64]bool
	createSaleErr error
}

func newFakeStore(products ...*entity.Product) *fakeStore {
	m := make(map[int64]*entity.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &fakeStore{products: m, forceNoRows: make(map[int64]bool)}
}

func (s *fakeStore) stockOf(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		return p.StockQty
	}
	return -1
}

func (s *fakeStore) snapshot() map[int64]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make(map[int64]int, len(s.products))
	for id, p := range s.products {
		snap[id] = p.StockQty
	}
	return snap
}

func (s *fakeStore) restore(snap map[int64]int, salesLen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, stock := range snap {
		if p, ok := s.products[id]; ok {
			p.StockQty = stock
		}
	}
	s.sales = s.sales[:salesLen]
}

// fakeProductRepo expone el fakeStore como repository.ProductRepository.
// Solo las operaciones que el checkout usa tienen semántica real.
type fakeProductRepo struct{ store *fakeStore }

func (f *fakeProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	p, ok := f.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) DecrementStockIfAvailable(_ context.Context, id int64, qty int) (int64, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if f.store.forceNoRows[id] {
		return 0, nil
	}
	p, ok := f.store.products[id]
	if !ok || p.StockQty < qty {
		return 0, nil
	}
	p.StockQty -= qty
	return 1, nil
}

func (f *fakeProductRepo) IncrementStock(_ context.Context, id int64, qty int) (int64, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	p, ok := f.store.products[id]
	if !ok {
		return 0, nil
	}
	p.StockQty += qty
	return 1, nil
}

func (f *fakeProductRepo) Create(context.Context, *entity.Product) error { return nil }
func (f *fakeProductRepo) GetBySKU(context.Context, string) (*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) List(context.Context) ([]*entity.Product, error) { return nil, nil }
func (f *fakeProductRepo) ListByCategory(context.Context, int64) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) Search(context.Context, string) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) Update(context.Context, *entity.Product) error        { return nil }
func (f *fakeProductRepo) SetReorderLevel(context.Context, int64, int) error    { return nil }
func (f *fakeProductRepo) Delete(context.Context, int64) error                  { return nil }

// fakeSaleRepo persiste ventas en el fakeStore.
type fakeSaleRepo struct{ store *fakeStore }

func (f *fakeSaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if f.store.createSaleErr != nil {
		return f.store.createSaleErr
	}
	f.store.sales = append(f.store.sales, sale)
	return nil
}

func (f *fakeSaleRepo) GetByID(context.Context, string) (*entity.Sale, error) { return nil, nil }
func (f *fakeSaleRepo) ListByDateRange(context.Context, time.Time, time.Time) ([]*entity.Sale, error) {
	return nil, nil
}
func (f *fakeSaleRepo) TotalByDateRange(context.Context, time.Time, time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
func (f *fakeSaleRepo) CountByDateRange(context.Context, time.Time, time.Time) (int, error) {
	return 0, nil
}

// fakeTxRunner serializa las "transacciones" y restaura el snapshot en fallo.
type fakeTxRunner struct {
	store *fakeStore
	txMu  sync.Mutex
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	snap := r.store.snapshot()
	salesLen := len(r.store.sales)
	if err := fn(&fakeProductRepo{store: r.store}, &fakeSaleRepo{store: r.store}); err != nil {
		r.store.restore(snap, salesLen)
		return err
	}
	return nil
}

func testProduct(id int64, sku string, stock int, price int64) *entity.Product {
	return &entity.Product{
		ID:        id,
		SKU:       sku,
		NameAr:    "منتج " + sku,
		NameEn:    "Product " + sku,
		PriceBase: decimal.NewFromInt(price),
		StockQty:  stock,
	}
}

func newCheckout(store *fakeStore) *checkout.UseCase {
	return checkout.NewUseCase(&fakeTxRunner{store: store}, &fakeProductRepo{store: store}, 0)
}

func cashInput(lines ...checkout.Line) checkout.Input {
	return checkout.Input{
		Lines:         lines,
		PaymentMethod: entity.PaymentCash,
		CashierName:   "Huda",
		Currency:      money.YER,
		Rates:         money.DefaultRates(),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Checkout
// ──────────────────────────────────────────────────────────────────────────────

// Caso: carrito con stock suficiente termina en venta persistida con el stock
// descontado y el impacto documentado.
func TestCheckout_Exitoso(t *testing.T) {
	store := newFakeStore(testProduct(1, "A-1", 10, 500), testProduct(2, "A-2", 4, 250))
	uc := newCheckout(store)

	sale, err := uc.Checkout(context.Background(), cashInput(
		checkout.Line{ProductID: 1, Qty: 2},
		checkout.Line{ProductID: 2, Qty: 4},
	))
	require.NoError(t, err)
	require.NotNil(t, sale)

	assert.Equal(t, "2000", sale.TotalBase.String()) // 2*500 + 4*250
	assert.Equal(t, "YER", sale.CurrencyCode)
	assert.True(t, sale.RateToBase.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, entity.PaymentCash, sale.PaymentMethod)
	assert.Equal(t, "Huda", sale.CashierName)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, "منتج A-1", sale.Items[0].ProductName, "la línea guarda una foto del nombre")

	assert.Equal(t, entity.StockImpactDeducted, sale.Impact.Status)
	assert.Equal(t, map[int64]int{1: 2, 2: 4}, sale.Impact.ItemsDeducted)
	assert.InDelta(t, 1.0, sale.Impact.SuccessRate(), 0.001)

	assert.Equal(t, 8, store.stockOf(1))
	assert.Equal(t, 0, store.stockOf(2))
	require.Len(t, store.sales, 1)
	assert.Equal(t, sale.ID, store.sales[0].ID)
}

// Caso: faltante detectado en la verificación aborta sin tocar el store y
// reporta las líneas afectadas.
func TestCheckout_FaltanteEnVerificacion(t *testing.T) {
	store := newFakeStore(testProduct(1, "A-1", 10, 500), testProduct(2, "A-2", 1, 250))
	uc := newCheckout(store)

	_, err := uc.Checkout(context.Background(), cashInput(
		checkout.Line{ProductID: 1, Qty: 2},
		checkout.Line{ProductID: 2, Qty: 5},
	))
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, map[int64]int{2: 5}, stockErr.Items)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 10, store.stockOf(1))
	assert.Equal(t, 1, store.stockOf(2))
	assert.Empty(t, store.sales)
}

// Caso: el stock cambia entre verificación y deducción; el decremento
// condicionado manda y la transacción deja efecto neto cero.
func TestCheckout_CarreraEntreVerificacionYDeduccion(t *testing.T) {
	store := newFakeStore(testProduct(1, "A-1", 10, 500), testProduct(2, "A-2", 10, 250))
	store.forceNoRows[2] = true
	uc := newCheckout(store)

	_, err := uc.Checkout(context.Background(), cashInput(
		checkout.Line{ProductID: 1, Qty: 3},
		checkout.Line{ProductID: 2, Qty: 3},
	))
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, map[int64]int{2: 3}, stockErr.Items)

	assert.Equal(t, 10, store.stockOf(1), "la tx revierte la línea ya descontada")
	assert.Empty(t, store.sales)
}

// Caso: si la inserción de la venta falla, la transacción revierte también la
// deducción: jamás queda stock descontado sin venta.
func TestCheckout_FalloDePersistenciaRevierteDeduccion(t *testing.T) {
	store := newFakeStore(testProduct(1, "A-1", 10, 500))
	store.createSaleErr = errors.New("disk full")
	uc := newCheckout(store)

	_, err := uc.Checkout(context.Background(), cashInput(checkout.Line{ProductID: 1, Qty: 4}))
	require.Error(t, err)
	assert.Equal(t, 10, store.stockOf(1))
	assert.Empty(t, store.sales)
}

// Caso: dos checkouts simultáneos por la última unidad; exactamente uno gana.
func TestCheckout_ConcurrenciaUltimaUnidad(t *testing.T) {
	store := newFakeStore(testProduct(1, "A-1", 1, 500))
	uc := newCheckout(store)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = uc.Checkout(context.Background(), cashInput(checkout.Line{ProductID: 1, Qty: 1}))
		}(i)
	}
	wg.Wait()

	var okCount, stockErrCount int
	for _, err := range results {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, domain.ErrInsufficientStock):
			stockErrCount++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, stockErrCount)
	assert.Equal(t, 0, store.stockOf(1))
	assert.Len(t, store.sales, 1)
}

// Caso: las líneas duplicadas del mismo producto se fusionan en una sola.
func TestCheckout_LineasDuplicadasSeFusionan(t *testing.T) {
	store := newFakeStore(testProduct(1, "A-1", 10, 500))
	uc := newCheckout(store)

	sale, err := uc.Checkout(context.Background(), cashInput(
		checkout.Line{ProductID: 1, Qty: 1},
		checkout.Line{ProductID: 1, Qty: 2},
	))
	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, 3, sale.Items[0].Qty)
	assert.Equal(t, 7, store.stockOf(1))
}

// Caso: validaciones de entrada; ninguna toca el store.
func TestCheckout_Validacion(t *testing.T) {
	store := newFakeStore(testProduct(1, "A-1", 10, 500))
	uc := newCheckout(store)
	ctx := context.Background()

	_, err := uc.Checkout(ctx, cashInput())
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "carrito vacío")

	_, err = uc.Checkout(ctx, cashInput(checkout.Line{ProductID: 1, Qty: 0}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad no positiva")

	in := cashInput(checkout.Line{ProductID: 1, Qty: 1})
	in.PaymentMethod = "BARTER"
	_, err = uc.Checkout(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "método de pago desconocido")

	in = cashInput(checkout.Line{ProductID: 1, Qty: 1})
	in.Currency = money.Currency{Code: "EUR", Symbol: "€", Decimals: 2}
	_, err = uc.Checkout(ctx, in)
	assert.ErrorIs(t, err, domain.ErrUnknownCurrency, "moneda sin tasa")

	_, err = uc.Checkout(ctx, cashInput(checkout.Line{ProductID: 99, Qty: 1}))
	assert.ErrorIs(t, err, domain.ErrNotFound, "producto inexistente")

	assert.Equal(t, 10, store.stockOf(1))
	assert.Empty(t, store.sales)
}

// Caso: la venta fotografía la tasa vigente de la moneda extranjera.
func TestCheckout_SnapshotDeTasa(t *testing.T) {
	store := newFakeStore(testProduct(1, "A-1", 10, 750))
	uc := newCheckout(store)

	in := cashInput(checkout.Line{ProductID: 1, Qty: 2})
	in.Currency = money.USD
	sale, err := uc.Checkout(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "USD", sale.CurrencyCode)
	assert.True(t, sale.RateToBase.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, "1500", sale.TotalBase.String(), "el total siempre se guarda en base")
}
