// Package checkout implementa el orquestador de cobro: la máquina de estados
// que secuencia verificación de stock -> deducción -> persistencia de la venta,
// con semántica todo-o-nada sobre el inventario.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Caja-api/internal/application/inventory"
	"github.com/jhoicas/Caja-api/internal/application/sales"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/money"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// State es el estado de un checkout en curso. El orquestador no guarda estado
// entre llamadas: cada invocación arranca en Idle y termina en Complete o
// Aborted; los checkouts concurrentes se serializan únicamente en el UPDATE
// condicionado del store, nunca aquí.
type State string

const (
	StateIdle       State = "IDLE"
	StateVerifying  State = "VERIFYING"
	StateDeducting  State = "DEDUCTING"
	StatePersisting State = "PERSISTING"
	StateComplete   State = "COMPLETE"
	StateAborted    State = "ABORTED"
)

// Line es una línea del carrito tal como la entrega el caller.
type Line struct {
	ProductID int64
	Qty       int
}

// Input agrupa todo lo que un checkout necesita, incluida la configuración
// monetaria vigente: el motor es función pura de sus entradas, sin settings
// globales ambientales.
type Input struct {
	Lines         []Line
	PaymentMethod string
	CashierName   string
	Currency      money.Currency
	Rates         money.ExchangeRates
}

// UseCase orquesta el checkout. productRepo (atado al pool) alimenta la
// verificación de pre-vuelo; la deducción y la venta corren sobre repos
// atados a una misma transacción vía txRunner.
type UseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	storeTimeout time.Duration
}

// NewUseCase construye el orquestador. storeTimeout acota la transacción de
// deducción+persistencia; cero desactiva el límite.
func NewUseCase(txRunner TxRunner, productRepo repository.ProductRepository, storeTimeout time.Duration) *UseCase {
	return &UseCase{txRunner: txRunner, productRepo: productRepo, storeTimeout: storeTimeout}
}

// Checkout ejecuta la secuencia completa y devuelve la venta persistida.
//
//	Idle -> Verifying: toda línea se verifica contra el stock actual; cualquier
//	  faltante aborta sin tocar el store, identificando las líneas afectadas.
//	Verifying -> Deducting: DeductBatch dentro de una transacción. Un fallo
//	  parcial aborta; el rollback de la tx garantiza efecto neto cero.
//	Deducting -> Persisting: la venta se inserta en la MISMA transacción con
//	  StockImpact DEDUCTED. Si la inserción falla, el rollback de la tx
//	  deshace también la deducción ("descontado pero no vendido" es peor
//	  estado que "venta fallida").
//	Persisting -> Complete: commit; limpiar el carrito es responsabilidad del
//	  caller. Una cancelación de contexto a mitad del lote se trata igual que
//	  un fallo de persistencia: rollback completo.
func (uc *UseCase) Checkout(ctx context.Context, in Input) (*entity.Sale, error) {
	state := StateIdle
	logger := log.With().
		Str("checkout_id", uuid.New().String()).
		Int("lines", len(in.Lines)).
		Str("currency", in.Currency.Code).
		Logger()

	items, order, err := normalizeLines(in.Lines)
	if err != nil {
		return nil, err
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, in.PaymentMethod)
	}
	// La tasa debe existir antes de tocar el store: una moneda sin tasa es un
	// error de configuración, no un fallback a 1.
	if _, err := in.Rates.Rate(in.Currency); err != nil {
		return nil, err
	}

	// Idle -> Verifying: pre-vuelo de disponibilidad, solo lecturas.
	transition(&state, StateVerifying, logger)
	cartLines, shortages, err := uc.verify(ctx, items, order)
	if err != nil {
		transition(&state, StateAborted, logger)
		return nil, err
	}
	if len(shortages) > 0 {
		transition(&state, StateAborted, logger)
		return nil, domain.NewInsufficientStockError(shortages)
	}

	if uc.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.storeTimeout)
		defer cancel()
	}

	// Verifying -> Deducting -> Persisting, todo dentro de una transacción.
	var sale *entity.Sale
	txErr := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		transition(&state, StateDeducting, logger)
		ledger := inventory.NewLedger(productRepo)
		res, err := ledger.DeductBatch(ctx, items)
		if err != nil {
			return err
		}
		if !res.AllDeducted() {
			// El stock cambió entre verificación y commit: el decremento
			// condicionado es quien decide, no el pre-vuelo.
			logger.Warn().
				Interface("applied", res.Applied).
				Interface("failed", res.Failed).
				Msg("deducción parcial, abortando checkout")
			return domain.NewInsufficientStockError(res.Failed)
		}

		transition(&state, StatePersisting, logger)
		impact := entity.StockImpact{
			Status:        entity.StockImpactDeducted,
			ItemsDeducted: res.Applied,
		}
		sale, err = sales.BuildSale(cartLines, in.PaymentMethod, in.CashierName, in.Currency, in.Rates, impact)
		if err != nil {
			return err
		}
		return saleRepo.Create(ctx, sale)
	})
	if txErr != nil {
		transition(&state, StateAborted, logger)
		return nil, txErr
	}

	transition(&state, StateComplete, logger)
	logger.Info().
		Str("sale_id", sale.ID).
		Str("total_base", sale.TotalBase.String()).
		Str("payment_method", sale.PaymentMethod).
		Msg("checkout completado")
	return sale, nil
}

// verify lee cada producto y compara stock contra lo solicitado. Devuelve las
// líneas resueltas (en el orden del carrito) y el mapa de faltantes. Un
// producto inexistente es error de validación: se rechaza antes de mutar nada.
func (uc *UseCase) verify(ctx context.Context, items map[int64]int, order []int64) ([]sales.CartLine, map[int64]int, error) {
	cartLines := make([]sales.CartLine, 0, len(order))
	shortages := make(map[int64]int)
	for _, id := range order {
		qty := items[id]
		product, err := uc.productRepo.GetByID(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if product == nil {
			return nil, nil, fmt.Errorf("%w: producto %d", domain.ErrNotFound, id)
		}
		if product.StockQty < qty {
			shortages[id] = qty
		}
		cartLines = append(cartLines, sales.CartLine{Product: product, Qty: qty})
	}
	return cartLines, shortages, nil
}

// normalizeLines valida cantidades, fusiona líneas duplicadas del mismo
// producto y conserva el orden de primera aparición del carrito.
func normalizeLines(lines []Line) (map[int64]int, []int64, error) {
	if len(lines) == 0 {
		return nil, nil, fmt.Errorf("%w: carrito vacío", domain.ErrInvalidInput)
	}
	items := make(map[int64]int, len(lines))
	order := make([]int64, 0, len(lines))
	for _, line := range lines {
		if line.Qty <= 0 {
			return nil, nil, fmt.Errorf("%w: cantidad no positiva para producto %d", domain.ErrInvalidInput, line.ProductID)
		}
		if _, seen := items[line.ProductID]; !seen {
			order = append(order, line.ProductID)
		}
		items[line.ProductID] += line.Qty
	}
	return items, order, nil
}

// transition registra el cambio de estado de la máquina (trazabilidad).
func transition(state *State, next State, logger zerolog.Logger) {
	logger.Debug().
		Str("from", string(*state)).
		Str("to", string(next)).
		Msg("checkout: transición de estado")
	*state = next
}
