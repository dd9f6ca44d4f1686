package dto

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// LineItemResponse línea de venta (foto al momento de la venta).
type LineItemResponse struct {
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name"`
	SKU          string          `json:"sku"`
	Qty          int             `json:"qty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	SubtotalBase decimal.Decimal `json:"subtotal_base"`
}

// StockImpactLine cantidad por producto dentro del impacto de stock.
type StockImpactLine struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
}

// StockImpactResponse auditoría del impacto de stock de la venta.
type StockImpactResponse struct {
	Status        string            `json:"status"`
	ItemsDeducted []StockImpactLine `json:"items_deducted,omitempty"`
	ItemsFailed   []StockImpactLine `json:"items_failed,omitempty"`
	SuccessRate   float64           `json:"success_rate"`
}

// SaleResponse representación HTTP de una venta.
type SaleResponse struct {
	ID             string              `json:"id"`
	CreatedAt      time.Time           `json:"created_at"`
	TotalBase      decimal.Decimal     `json:"total_base"`
	TotalFormatted string              `json:"total_formatted,omitempty"`
	CurrencyCode   string              `json:"currency_code"`
	RateToBase     decimal.Decimal     `json:"rate_to_base"`
	Items          []LineItemResponse  `json:"items"`
	PaymentMethod  string              `json:"payment_method"`
	CashierName    string              `json:"cashier_name,omitempty"`
	Discount       decimal.Decimal     `json:"discount"`
	Tax            decimal.Decimal     `json:"tax"`
	StockImpact    StockImpactResponse `json:"stock_impact"`
}

// NewSaleResponse mapea la entidad a su representación HTTP. totalFormatted
// puede ser vacío si la moneda de la petición no permitió formatear.
func NewSaleResponse(sale *entity.Sale, totalFormatted string) *SaleResponse {
	items := make([]LineItemResponse, 0, len(sale.Items))
	for _, it := range sale.Items {
		items = append(items, LineItemResponse{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			SKU:          it.SKU,
			Qty:          it.Qty,
			UnitPrice:    it.UnitPrice,
			SubtotalBase: it.SubtotalBase,
		})
	}
	return &SaleResponse{
		ID:             sale.ID,
		CreatedAt:      sale.CreatedAt,
		TotalBase:      sale.TotalBase,
		TotalFormatted: totalFormatted,
		CurrencyCode:   sale.CurrencyCode,
		RateToBase:     sale.RateToBase,
		Items:          items,
		PaymentMethod:  sale.PaymentMethod,
		CashierName:    sale.CashierName,
		Discount:       sale.Discount,
		Tax:            sale.Tax,
		StockImpact: StockImpactResponse{
			Status:        sale.Impact.Status,
			ItemsDeducted: impactLines(sale.Impact.ItemsDeducted),
			ItemsFailed:   impactLines(sale.Impact.ItemsFailed),
			SuccessRate:   sale.Impact.SuccessRate(),
		},
	}
}

// impactLines aplana el mapa a una lista ordenada por producto (JSON estable).
func impactLines(m map[int64]int) []StockImpactLine {
	if len(m) == 0 {
		return nil
	}
	out := make([]StockImpactLine, 0, len(m))
	for id, qty := range m {
		out = append(out, StockImpactLine{ProductID: id, Qty: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
