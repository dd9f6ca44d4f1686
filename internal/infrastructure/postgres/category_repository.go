package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de persistencia para categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una nueva categoría.
func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO categories (name_ar, name_en, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		category.NameAr, category.NameEn, category.CreatedAt, category.UpdatedAt,
	).Scan(&category.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(ctx,
		`SELECT id, name_ar, name_en, created_at, updated_at FROM categories WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.NameAr, &c.NameEn, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// List lista todas las categorías ordenadas por nombre.
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name_ar, name_en, created_at, updated_at FROM categories ORDER BY name_ar`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var result []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.NameAr, &c.NameEn, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		result = append(result, &c)
	}
	return result, rows.Err()
}

// Update actualiza una categoría existente.
func (r *CategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	_, err := r.q.Exec(ctx,
		`UPDATE categories SET name_ar = $2, name_en = $3, updated_at = $4 WHERE id = $1`,
		category.ID, category.NameAr, category.NameEn, category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete elimina la categoría. La FK en products usa ON DELETE SET NULL.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
