// Package inventory implementa el ledger de inventario: verificación de
// disponibilidad, deducción por lote todo-o-nada con rollback compensatorio,
// reabastecimiento y los reportes de stock del punto de venta.
package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// Ledger orquesta las mutaciones de stock sobre un ProductRepository. Es un
// struct barato: el orquestador de checkout construye uno nuevo sobre los
// repos atados a la transacción en curso (mismo patrón que el TxRunner).
type Ledger struct {
	repo repository.ProductRepository
}

// NewLedger construye el ledger. Pasar repo atado a pool o a tx.
func NewLedger(repo repository.ProductRepository) *Ledger {
	return &Ledger{repo: repo}
}

// DeductResult conserva, línea por línea, qué cantidades se descontaron y
// cuáles fallaron. En un fallo parcial, Applied refleja lo descontado ANTES
// del rollback: el efecto neto en el store es cero, pero el intento queda
// documentado para auditoría (StockImpact).
type DeductResult struct {
	Applied map[int64]int
	Failed  map[int64]int
}

// AllDeducted indica si todas las líneas del lote se descontaron.
func (r DeductResult) AllDeducted() bool {
	return len(r.Failed) == 0
}

// CheckAvailability compara el stock actual contra la cantidad solicitada.
// Es solo feedback de pre-vuelo para la UI: el stock puede cambiar entre la
// verificación y el commit, así que la corrección real la garantiza el
// decremento condicionado, nunca esta lectura.
func (l *Ledger) CheckAvailability(ctx context.Context, productID int64, qty int) (bool, error) {
	if qty <= 0 {
		return false, domain.ErrInvalidInput
	}
	product, err := l.repo.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}
	if product == nil {
		return false, nil
	}
	return product.StockQty >= qty, nil
}

// DeductBatch descuenta el lote con semántica todo-o-nada. Recorre los
// productos en orden ascendente de ID (orden estable que acota el peor caso
// de bloqueo de filas); en la primera línea cuyo decremento condicionado no
// aplica, se detiene, revierte con IncrementStock todo lo ya descontado y
// devuelve el resultado parcial. Un producto inexistente cuenta como fallo de
// esa línea por el mismo camino (el UPDATE condicionado no afecta filas).
func (l *Ledger) DeductBatch(ctx context.Context, items map[int64]int) (DeductResult, error) {
	res := DeductResult{
		Applied: make(map[int64]int, len(items)),
		Failed:  make(map[int64]int),
	}
	if len(items) == 0 {
		return res, fmt.Errorf("%w: lote de deducción vacío", domain.ErrInvalidInput)
	}
	ids := make([]int64, 0, len(items))
	for id, qty := range items {
		if qty <= 0 {
			return res, fmt.Errorf("%w: cantidad no positiva para producto %d", domain.ErrInvalidInput, id)
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		qty := items[id]
		applied, err := l.repo.DecrementStockIfAvailable(ctx, id, qty)
		if err != nil {
			// Falla técnica del store (timeout, cancelación): tratar como fallo
			// del lote completo y revertir. Nunca se reintenta el decremento
			// automáticamente: sin claves de idempotencia no es seguro.
			res.Failed[id] = qty
			if rbErr := l.Rollback(ctx, res.Applied); rbErr != nil {
				return res, rbErr
			}
			return res, fmt.Errorf("decrementar stock producto %d: %w", id, err)
		}
		if applied == 0 {
			res.Failed[id] = qty
			if rbErr := l.Rollback(ctx, res.Applied); rbErr != nil {
				return res, rbErr
			}
			return res, nil
		}
		res.Applied[id] = qty
	}
	return res, nil
}

// Rollback re-suma las cantidades indicadas (acción compensatoria). Los
// incrementos conmutan, así que el orden no importa. Si un incremento falla,
// el stock queda inconsistente sin forma de repararlo automáticamente: se
// escala como inconsistencia fatal para conciliación manual, nunca se
// continúa en silencio.
func (l *Ledger) Rollback(ctx context.Context, items map[int64]int) error {
	// Contexto desacoplado: el rollback debe intentarse aunque la cancelación
	// del caller haya sido justo la causa del fallo.
	ctx = context.WithoutCancel(ctx)
	for id, qty := range items {
		if qty <= 0 {
			continue
		}
		if _, err := l.repo.IncrementStock(ctx, id, qty); err != nil {
			log.Error().
				Err(err).
				Int64("product_id", id).
				Int("qty", qty).
				Msg("INCONSISTENCIA FATAL: rollback de stock falló, requiere conciliación manual")
			return fmt.Errorf("rollback de stock producto %d: %w", id, err)
		}
	}
	return nil
}

// AddStock reabastece un producto (entrada de inventario).
func (l *Ledger) AddStock(ctx context.Context, productID int64, qty int) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	applied, err := l.repo.IncrementStock(ctx, productID, qty)
	if err != nil {
		return err
	}
	if applied == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// StockLevel devuelve el stock actual buscando por ID o por SKU.
func (l *Ledger) StockLevel(ctx context.Context, id int64, sku string) (int, error) {
	product, err := l.repo.GetByID(ctx, id)
	if product == nil && err == nil && sku != "" {
		product, err = l.repo.GetBySKU(ctx, sku)
	}
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, domain.ErrNotFound
	}
	return product.StockQty, nil
}
