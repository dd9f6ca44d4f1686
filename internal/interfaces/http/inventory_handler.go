package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/inventory"
	"github.com/jhoicas/Caja-api/internal/application/usecase"
	"github.com/jhoicas/Caja-api/internal/domain"
)

// InventoryHandler maneja niveles de stock, reabastecimiento y reportes (protegido).
type InventoryHandler struct {
	ledger   *inventory.Ledger
	reports  *inventory.ReportService
	products *usecase.ProductUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.Ledger, reports *inventory.ReportService, products *usecase.ProductUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, reports: reports, products: products}
}

// StockLevel godoc
// @Summary      Nivel de stock de un producto (por id o sku)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   query  int     false  "ID del producto"
// @Param        sku  query  string  false  "SKU del producto"
// @Success      200  {object}  dto.StockLevelResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) StockLevel(c *fiber.Ctx) error {
	id := int64(c.QueryInt("id", 0))
	sku := c.Query("sku")
	if id <= 0 && sku == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id o sku es requerido"})
	}
	var (
		out *dto.ProductResponse
		err error
	)
	if id > 0 {
		out, err = h.products.GetByID(c.Context(), id)
	}
	if out == nil && err == nil && sku != "" {
		out, err = h.products.GetBySKU(c.Context(), sku)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	return c.JSON(dto.StockLevelResponse{
		ProductID: out.ID,
		SKU:       out.SKU,
		Stock:     out.StockQty,
		LowStock:  out.LowStock,
	})
}

// CheckAvailability godoc
// @Summary      Pre-vuelo de disponibilidad (el stock puede cambiar antes del cobro)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  int  true  "ID del producto"
// @Param        qty         query  int  true  "Cantidad solicitada"
// @Success      200  {object}  dto.AvailabilityResponse
// @Router       /api/inventory/availability [get]
func (h *InventoryHandler) CheckAvailability(c *fiber.Ctx) error {
	productID := int64(c.QueryInt("product_id", 0))
	qty := c.QueryInt("qty", 0)
	if productID <= 0 || qty <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y qty positivos son requeridos"})
	}
	available, err := h.ledger.CheckAvailability(c.Context(), productID, qty)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.AvailabilityResponse{ProductID: productID, Qty: qty, Available: available})
}

// AddStock godoc
// @Summary      Reabastecer un producto (entrada de inventario)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.AddStockRequest  true  "qty > 0"
// @Success      200   {object}  dto.StockLevelResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/stock [post]
func (h *InventoryHandler) AddStock(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id numérico es requerido"})
	}
	var in dto.AddStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.ledger.AddStock(c.Context(), int64(id), in.Qty); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "qty debe ser positivo"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out, err := h.products.GetByID(c.Context(), int64(id))
	if err != nil || out == nil {
		return c.SendStatus(fiber.StatusOK)
	}
	return c.JSON(dto.StockLevelResponse{
		ProductID: out.ID,
		SKU:       out.SKU,
		Stock:     out.StockQty,
		LowStock:  out.LowStock,
	})
}

// SetReorderLevel godoc
// @Summary      Cambiar el umbral de stock bajo de un producto
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.SetReorderLevelRequest  true  "reorder_level >= 0"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/reorder-level [put]
func (h *InventoryHandler) SetReorderLevel(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id numérico es requerido"})
	}
	var in dto.SetReorderLevelRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.products.SetReorderLevel(c.Context(), int64(id), in.ReorderLevel); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reorder_level debe ser >= 0"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Report godoc
// @Summary      Reporte integral de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  inventory.StockReport
// @Router       /api/inventory/report [get]
func (h *InventoryHandler) Report(c *fiber.Ctx) error {
	report, err := h.reports.BuildStockReport(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(report)
}

// LowStock godoc
// @Summary      Productos en o por debajo de su umbral de reorden
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockLevelResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	products, err := h.reports.LowStockProducts(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.StockLevelResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.StockLevelResponse{
			ProductID: p.ID,
			SKU:       p.SKU,
			Stock:     p.StockQty,
			LowStock:  true,
		})
	}
	return c.JSON(out)
}

// ValueByCategory godoc
// @Summary      Valor del stock agrupado por categoría
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/inventory/value-by-category [get]
func (h *InventoryHandler) ValueByCategory(c *fiber.Ctx) error {
	values, err := h.reports.StockValueByCategory(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(values)
}

// ExportCSV godoc
// @Summary      Exportar el inventario completo como CSV
// @Tags         inventory
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {string}  string
// @Router       /api/inventory/export.csv [get]
func (h *InventoryHandler) ExportCSV(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventory.csv"`)
	if err := h.reports.ExportCSV(c.Context(), c.Response().BodyWriter()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return nil
}
