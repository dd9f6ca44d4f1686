// Package sales construye y persiste el registro inmutable de cada venta
// (Sale) y expone las lecturas de reporteo sobre el historial.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/money"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// CartLine es una línea de carrito resuelta: el producto ya leído del catálogo
// más la cantidad solicitada. El carrito en sí es del caller (UI); este core
// solo consume la lista ordenada al momento del checkout.
type CartLine struct {
	Product *entity.Product
	Qty     int
}

// Subtotal devuelve precio base × cantidad.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.PriceBase.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// BuildSale arma la entidad Sale a partir del carrito: total = Σ subtotales en
// moneda base, foto de nombre/SKU por línea, y snapshot del código de moneda y
// la tasa vigentes (las tasas nunca se re-derivan después). La conversión a
// moneda de despliegue ocurre solo al formatear, jamás aquí.
func BuildSale(
	lines []CartLine,
	paymentMethod, cashierName string,
	currency money.Currency,
	rates money.ExchangeRates,
	impact entity.StockImpact,
) (*entity.Sale, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: carrito vacío", domain.ErrInvalidInput)
	}
	if !entity.ValidPaymentMethod(paymentMethod) {
		return nil, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, paymentMethod)
	}
	rate, err := rates.Rate(currency)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	items := make([]entity.LineItem, 0, len(lines))
	for _, line := range lines {
		if line.Product == nil || line.Qty <= 0 {
			return nil, domain.ErrInvalidInput
		}
		subtotal := line.Subtotal()
		total = total.Add(subtotal)
		items = append(items, entity.LineItem{
			ProductID:    line.Product.ID,
			ProductName:  line.Product.NameAr,
			SKU:          line.Product.SKU,
			Qty:          line.Qty,
			UnitPrice:    line.Product.PriceBase,
			SubtotalBase: subtotal,
		})
	}

	return &entity.Sale{
		ID:            uuid.New().String(),
		CreatedAt:     time.Now(),
		TotalBase:     total,
		CurrencyCode:  currency.Code,
		RateToBase:    rate,
		Items:         items,
		PaymentMethod: paymentMethod,
		CashierName:   cashierName,
		Discount:      decimal.Zero,
		Tax:           decimal.Zero,
		Impact:        impact,
	}, nil
}

// Recorder expone las lecturas de reporteo sobre ventas persistidas. La
// escritura (Create) la hace el orquestador de checkout dentro de su
// transacción, con el repo atado a esa tx.
type Recorder struct {
	repo repository.SaleRepository
}

// NewRecorder construye el recorder sobre el repo indicado.
func NewRecorder(repo repository.SaleRepository) *Recorder {
	return &Recorder{repo: repo}
}

// GetByID devuelve la venta o nil si no existe.
func (r *Recorder) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.repo.GetByID(ctx, id)
}

// ListByDateRange lista ventas en [start, end), más recientes primero.
func (r *Recorder) ListByDateRange(ctx context.Context, start, end time.Time) ([]*entity.Sale, error) {
	if end.Before(start) {
		return nil, domain.ErrInvalidInput
	}
	return r.repo.ListByDateRange(ctx, start, end)
}

// DailyTotal devuelve el total vendido (moneda base) del día indicado.
func (r *Recorder) DailyTotal(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	start, end := dayBounds(date)
	return r.repo.TotalByDateRange(ctx, start, end)
}

// DailyCount devuelve la cantidad de ventas del día indicado.
func (r *Recorder) DailyCount(ctx context.Context, date time.Time) (int, error) {
	start, end := dayBounds(date)
	return r.repo.CountByDateRange(ctx, start, end)
}

// ImpactSummary resume el StockImpact de las ventas del rango: cuántas
// dedujeron stock, cuántas fallaron y cuántas son legadas.
type ImpactSummary struct {
	Total         int     `json:"total"`
	Successful    int     `json:"successful"`
	Failed        int     `json:"failed"`
	NotApplicable int     `json:"not_applicable"`
	SuccessRate   float64 `json:"success_rate"`
}

// SummarizeImpact agrega el StockImpact sobre las ventas de [start, end).
func (r *Recorder) SummarizeImpact(ctx context.Context, start, end time.Time) (ImpactSummary, error) {
	sales, err := r.repo.ListByDateRange(ctx, start, end)
	if err != nil {
		return ImpactSummary{}, err
	}
	var s ImpactSummary
	for _, sale := range sales {
		switch sale.Impact.Status {
		case entity.StockImpactDeducted:
			s.Successful++
		case entity.StockImpactFailed:
			s.Failed++
		default:
			s.NotApplicable++
		}
		s.Total++
	}
	if s.Total > 0 {
		s.SuccessRate = float64(s.Successful) / float64(s.Total)
	}
	return s, nil
}

// dayBounds devuelve [00:00 del día, 00:00 del día siguiente) en hora local.
func dayBounds(date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 0, 1)
}
