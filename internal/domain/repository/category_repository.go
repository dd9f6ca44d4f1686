package repository

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
// Delete deja los productos referenciados con categoría NULL (el esquema usa
// ON DELETE SET NULL; nunca se eliminan productos en cascada).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id int64) error
}
