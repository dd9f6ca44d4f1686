package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo del punto de venta.
// PriceBase siempre en moneda base; StockQty solo se muta vía los primitivos
// condicionales del repositorio (nunca por sobreescritura ciega).
type Product struct {
	ID           int64
	SKU          string // código único, usado por el escáner de barras
	NameAr       string // nombre en árabe (principal en recibos)
	NameEn       string // nombre en inglés (opcional, vacío si no aplica)
	PriceBase    decimal.Decimal
	StockQty     int
	ReorderLevel int    // umbral de stock bajo, persistido por producto
	ImagePath    string // opcional
	CategoryID   *int64 // NULL si la categoría fue eliminada (ON DELETE SET NULL)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StockValue devuelve el valor del stock actual a precio base.
func (p *Product) StockValue() decimal.Decimal {
	return p.PriceBase.Mul(decimal.NewFromInt(int64(p.StockQty)))
}

// IsLowStock indica si el stock está en o por debajo del umbral de reorden.
func (p *Product) IsLowStock() bool {
	return p.StockQty <= p.ReorderLevel
}

// IsOutOfStock indica si el producto no tiene unidades disponibles.
func (p *Product) IsOutOfStock() bool {
	return p.StockQty == 0
}
