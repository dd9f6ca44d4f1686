package repository

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
//
// El stock SOLO se muta a través de DecrementStockIfAvailable / IncrementStock:
// leer-y-escribir en dos pasos pierde actualizaciones bajo checkouts
// concurrentes, por eso Update no toca stock_qty.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]*entity.Product, error)
	Search(ctx context.Context, query string) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	SetReorderLevel(ctx context.Context, id int64, level int) error
	Delete(ctx context.Context, id int64) error

	// DecrementStockIfAvailable descuenta qty en una sola operación condicionada
	// (UPDATE ... WHERE stock_qty >= qty) y devuelve cuántas filas aplicó (0 o 1).
	// Un 0 es un fallo de negocio (stock insuficiente o producto inexistente),
	// no una falla técnica.
	DecrementStockIfAvailable(ctx context.Context, id int64, qty int) (int64, error)

	// IncrementStock suma qty sin condición; usado para reabastecimiento y
	// rollback compensatorio.
	IncrementStock(ctx context.Context, id int64, qty int) (int64, error)
}
