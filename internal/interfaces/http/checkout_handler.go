package http

import (
	"errors"
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/checkout"
	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/money"
)

// CheckoutHandler maneja el cobro del carrito (protegido). La moneda y las
// tasas vigentes se inyectan al construir el handler y viajan explícitas en
// cada invocación al orquestador.
type CheckoutHandler struct {
	uc              *checkout.UseCase
	defaultCurrency string
	rates           money.ExchangeRates
}

// NewCheckoutHandler construye el handler.
func NewCheckoutHandler(uc *checkout.UseCase, defaultCurrency string, rates money.ExchangeRates) *CheckoutHandler {
	return &CheckoutHandler{uc: uc, defaultCurrency: defaultCurrency, rates: rates}
}

// Checkout godoc
// @Summary      Cobrar el carrito (deducción de stock todo-o-nada + venta)
// @Tags         checkout
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "lines, payment_method, currency (opcional)"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.StockErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/checkout [post]
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el carrito está vacío"})
	}
	code := in.Currency
	if code == "" {
		code = h.defaultCurrency
	}
	currency, ok := money.FromCode(code)
	if !ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "UNKNOWN_CURRENCY", Message: "moneda no soportada: " + code})
	}

	lines := make([]checkout.Line, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, checkout.Line{ProductID: l.ProductID, Qty: l.Qty})
	}
	sale, err := h.uc.Checkout(c.Context(), checkout.Input{
		Lines:         lines,
		PaymentMethod: in.PaymentMethod,
		CashierName:   GetUserName(c),
		Currency:      currency,
		Rates:         h.rates,
	})
	if err != nil {
		var stockErr *domain.InsufficientStockError
		if errors.As(err, &stockErr) {
			failed := make([]dto.FailedLine, 0, len(stockErr.Items))
			for id, qty := range stockErr.Items {
				failed = append(failed, dto.FailedLine{ProductID: id, Qty: qty})
			}
			sort.Slice(failed, func(i, j int) bool { return failed[i].ProductID < failed[j].ProductID })
			return c.Status(fiber.StatusConflict).JSON(dto.StockErrorResponse{
				Code:        "INSUFFICIENT_STOCK",
				Message:     "stock insuficiente para una o más líneas",
				FailedLines: failed,
			})
		}
		if errors.Is(err, domain.ErrUnknownCurrency) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "UNKNOWN_CURRENCY", Message: "moneda sin tasa configurada"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	formatted, _ := money.Format(sale.TotalBase, currency, h.rates)
	return c.Status(fiber.StatusCreated).JSON(dto.NewSaleResponse(sale, formatted))
}

// Currencies godoc
// @Summary      Listar monedas soportadas con su tasa vigente
// @Tags         checkout
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  map[string]string
// @Router       /api/checkout/currencies [get]
func (h *CheckoutHandler) Currencies(c *fiber.Ctx) error {
	out := make([]fiber.Map, 0, len(money.Currencies()))
	for _, cur := range money.Currencies() {
		rate, err := h.rates.Rate(cur)
		if err != nil {
			continue // moneda registrada pero sin tasa configurada
		}
		out = append(out, fiber.Map{
			"code":   cur.Code,
			"symbol": cur.Symbol,
			"rate":   rate.String(),
		})
	}
	return c.JSON(out)
}
