package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest datos para crear un producto.
type CreateProductRequest struct {
	SKU          string          `json:"sku"`
	NameAr       string          `json:"name_ar"`
	NameEn       string          `json:"name_en"`
	PriceBase    decimal.Decimal `json:"price_base"`
	StockQty     int             `json:"stock_qty"`
	ReorderLevel int             `json:"reorder_level"` // 0 = usar el default configurado
	ImagePath    string          `json:"image_path"`
	CategoryID   *int64          `json:"category_id"`
}

// UpdateProductRequest campos opcionales a actualizar. El stock NO se toca por
// aquí: solo vía checkout o reabastecimiento (primitivos del ledger).
type UpdateProductRequest struct {
	NameAr       *string          `json:"name_ar"`
	NameEn       *string          `json:"name_en"`
	PriceBase    *decimal.Decimal `json:"price_base"`
	ReorderLevel *int             `json:"reorder_level"`
	ImagePath    *string          `json:"image_path"`
	CategoryID   *int64           `json:"category_id"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID           int64           `json:"id"`
	SKU          string          `json:"sku"`
	NameAr       string          `json:"name_ar"`
	NameEn       string          `json:"name_en,omitempty"`
	PriceBase    decimal.Decimal `json:"price_base"`
	StockQty     int             `json:"stock_qty"`
	ReorderLevel int             `json:"reorder_level"`
	LowStock     bool            `json:"low_stock"`
	ImagePath    string          `json:"image_path,omitempty"`
	CategoryID   *int64          `json:"category_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
