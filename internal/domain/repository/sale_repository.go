package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para Sale. Las ventas son
// inmutables: solo Create y lecturas; no hay Update ni Delete.
type SaleRepository interface {
	// Create persiste la venta con sus líneas como una sola escritura atómica
	// (dentro de la transacción del caller cuando el repo está atado a una tx).
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*entity.Sale, error)
	TotalByDateRange(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	CountByDateRange(ctx context.Context, start, end time.Time) (int, error)
}
