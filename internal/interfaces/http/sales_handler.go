package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/sales"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/money"
)

const dateLayout = "2006-01-02"

// SalesHandler maneja las lecturas del historial de ventas (protegido).
// Las ventas son inmutables: no hay rutas de edición ni borrado.
type SalesHandler struct {
	recorder *sales.Recorder
}

// NewSalesHandler construye el handler.
func NewSalesHandler(recorder *sales.Recorder) *SalesHandler {
	return &SalesHandler{recorder: recorder}
}

// GetByID godoc
// @Summary      Obtener una venta con sus líneas e impacto de stock
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta (UUID)"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SalesHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	sale, err := h.recorder.GetByID(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if sale == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
	}
	return c.JSON(dto.NewSaleResponse(sale, formatWithSnapshot(sale)))
}

// List godoc
// @Summary      Listar ventas por rango de fechas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  true  "Fecha inicial (YYYY-MM-DD)"
// @Param        end    query  string  true  "Fecha final inclusive (YYYY-MM-DD)"
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SalesHandler) List(c *fiber.Ctx) error {
	start, err := time.ParseInLocation(dateLayout, c.Query("start"), time.Local)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "start debe ser YYYY-MM-DD"})
	}
	end, err := time.ParseInLocation(dateLayout, c.Query("end"), time.Local)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "end debe ser YYYY-MM-DD"})
	}
	// end es inclusive a nivel de día; el repo trabaja con [start, end).
	list, err := h.recorder.ListByDateRange(c.Context(), start, end.AddDate(0, 0, 1))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]*dto.SaleResponse, 0, len(list))
	for _, sale := range list {
		out = append(out, dto.NewSaleResponse(sale, formatWithSnapshot(sale)))
	}
	return c.JSON(out)
}

// Daily godoc
// @Summary      Total y cantidad de ventas del día
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "Fecha (YYYY-MM-DD); default hoy"
// @Success      200  {object}  map[string]string
// @Router       /api/sales/daily [get]
func (h *SalesHandler) Daily(c *fiber.Ctx) error {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
		}
		date = parsed
	}
	total, err := h.recorder.DailyTotal(c.Context(), date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	count, err := h.recorder.DailyCount(c.Context(), date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{
		"date":            date.Format(dateLayout),
		"total_base":      total,
		"total_formatted": money.FormatBase(total),
		"count":           count,
	})
}

// ImpactSummary godoc
// @Summary      Resumen del impacto de stock de las ventas del rango
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  true  "Fecha inicial (YYYY-MM-DD)"
// @Param        end    query  string  true  "Fecha final inclusive (YYYY-MM-DD)"
// @Success      200  {object}  sales.ImpactSummary
// @Router       /api/sales/impact-summary [get]
func (h *SalesHandler) ImpactSummary(c *fiber.Ctx) error {
	start, err := time.ParseInLocation(dateLayout, c.Query("start"), time.Local)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "start debe ser YYYY-MM-DD"})
	}
	end, err := time.ParseInLocation(dateLayout, c.Query("end"), time.Local)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "end debe ser YYYY-MM-DD"})
	}
	summary, err := h.recorder.SummarizeImpact(c.Context(), start, end.AddDate(0, 0, 1))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(summary)
}

// formatWithSnapshot renderiza el total usando la tasa fotografiada en la venta,
// no la tabla vigente: un recibo histórico no cambia si la tasa cambió después.
func formatWithSnapshot(sale *entity.Sale) string {
	cur, ok := money.FromCode(sale.CurrencyCode)
	if !ok || sale.RateToBase.IsZero() {
		return ""
	}
	converted := sale.TotalBase.DivRound(sale.RateToBase, cur.Decimals)
	return money.FormatDisplay(converted, cur)
}
