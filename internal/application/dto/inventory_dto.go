package dto

// AddStockRequest reabastecimiento de un producto.
type AddStockRequest struct {
	Qty int `json:"qty"`
}

// SetReorderLevelRequest cambia el umbral de stock bajo de un producto.
type SetReorderLevelRequest struct {
	ReorderLevel int `json:"reorder_level"`
}

// AvailabilityResponse resultado del pre-vuelo de disponibilidad.
type AvailabilityResponse struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
	Available bool  `json:"available"`
}

// StockLevelResponse nivel de stock actual de un producto.
type StockLevelResponse struct {
	ProductID int64  `json:"product_id"`
	SKU       string `json:"sku"`
	Stock     int    `json:"stock"`
	LowStock  bool   `json:"low_stock"`
}
