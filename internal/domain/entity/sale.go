package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados en caja.
const (
	PaymentCash     = "CASH"
	PaymentCard     = "CARD"
	PaymentTransfer = "TRANSFER"
)

// ValidPaymentMethod valida el método de pago recibido del caller.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// Estados del impacto de stock de una venta.
const (
	StockImpactDeducted      = "DEDUCTED"       // todas las cantidades descontadas
	StockImpactFailed        = "FAILED"         // al menos una línea falló; todo revertido
	StockImpactNotApplicable = "NOT_APPLICABLE" // ventas legadas previas al ledger
)

// StockImpact es el registro de auditoría de qué mutaciones de stock de una
// venta tuvieron éxito o fallaron. En una venta DEDUCTED, ItemsFailed es vacío.
// En una FAILED, ItemsDeducted conserva lo descontado antes del rollback (el
// efecto neto en el store es cero, pero el intento queda documentado).
type StockImpact struct {
	Status        string        `json:"status"`
	ItemsDeducted map[int64]int `json:"items_deducted,omitempty"`
	ItemsFailed   map[int64]int `json:"items_failed,omitempty"`
}

// SuccessRate devuelve la fracción de líneas descontadas con éxito (derivado,
// no se persiste).
func (si StockImpact) SuccessRate() float64 {
	total := len(si.ItemsDeducted) + len(si.ItemsFailed)
	if total == 0 {
		return 0
	}
	return float64(len(si.ItemsDeducted)) / float64(total)
}

// LineItem es la foto de una línea del carrito al momento de la venta.
// Nombre y SKU se copian del producto (no se consultan en vivo) para que
// recibos y reportes sean estables aunque el catálogo cambie después.
type LineItem struct {
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name"`
	SKU          string          `json:"sku"`
	Qty          int             `json:"qty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	SubtotalBase decimal.Decimal `json:"subtotal_base"`
}

// Sale es el registro inmutable de una venta completada. Las correcciones son
// ventas compensatorias nuevas, nunca ediciones.
type Sale struct {
	ID            string // UUID
	CreatedAt     time.Time
	TotalBase     decimal.Decimal // total en moneda base, = Σ subtotales
	CurrencyCode  string          // moneda activa al momento de la venta
	RateToBase    decimal.Decimal // tasa vigente al momento de la venta (snapshot)
	Items         []LineItem      // orden del carrito preservado
	PaymentMethod string
	CashierName   string
	Discount      decimal.Decimal // en moneda base
	Tax           decimal.Decimal // en moneda base
	Impact        StockImpact
}
