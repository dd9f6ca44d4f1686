package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/usecase"
	"github.com/jhoicas/Caja-api/internal/domain"
)

// CategoryHandler maneja las peticiones HTTP para Category (protegido).
type CategoryHandler struct {
	uc *usecase.CategoryUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "name_ar, name_en"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.NameAr == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name_ar es requerido"})
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "la categoría ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener categoría por ID
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id numérico es requerido"})
	}
	out, err := h.uc.GetByID(c.Context(), int64(id))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "categoría no encontrada"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar categorías
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la categoría"
// @Param        body  body  dto.UpdateCategoryRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id numérico es requerido"})
	}
	var in dto.UpdateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), int64(id), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "categoría no encontrada"})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar categoría (los productos quedan sin categoría)
// @Tags         categories
// @Security     Bearer
// @Param        id  path  int  true  "ID de la categoría"
// @Success      204
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id numérico es requerido"})
	}
	if err := h.uc.Delete(c.Context(), int64(id)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
