package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrUnknownCurrency    = errors.New("moneda sin tasa de cambio configurada")
)

// InsufficientStockError identifica línea por línea qué productos no alcanzaron
// el stock solicitado, para que el caller pueda corregir el carrito en vez de
// recibir un fallo genérico. Envuelve ErrInsufficientStock.
type InsufficientStockError struct {
	// Items mapea productID -> cantidad solicitada que no pudo satisfacerse.
	Items map[int64]int
}

func (e *InsufficientStockError) Error() string {
	ids := make([]int64, 0, len(e.Items))
	for id := range e.Items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("producto %d (x%d)", id, e.Items[id]))
	}
	return "stock insuficiente: " + strings.Join(parts, ", ")
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// NewInsufficientStockError construye el error con copia defensiva del mapa.
func NewInsufficientStockError(items map[int64]int) *InsufficientStockError {
	cp := make(map[int64]int, len(items))
	for id, qty := range items {
		cp[id] = qty
	}
	return &InsufficientStockError{Items: cp}
}
