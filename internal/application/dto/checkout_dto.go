package dto

// CheckoutLine línea del carrito en la petición de checkout.
type CheckoutLine struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
}

// CheckoutRequest petición de checkout. Currency vacío usa la moneda activa
// configurada en el servidor.
type CheckoutRequest struct {
	Lines         []CheckoutLine `json:"lines"`
	PaymentMethod string         `json:"payment_method"`
	Currency      string         `json:"currency"`
}

// FailedLine identifica una línea rechazada por stock insuficiente.
type FailedLine struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
}

// StockErrorResponse error de checkout con el detalle por línea, para que la
// UI pueda pedir corrección línea a línea en vez de un fallo genérico.
type StockErrorResponse struct {
	Code        string       `json:"code"`
	Message     string       `json:"message"`
	FailedLines []FailedLine `json:"failed_lines"`
}
