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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name_ar, name_en, price_base, stock_qty, reorder_level, image_path, category_id, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (sku, name_ar, name_en, price_base, stock_qty, reorder_level, image_path, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		product.SKU, product.NameAr, product.NameEn, product.PriceBase,
		product.StockQty, product.ReorderLevel, product.ImagePath, product.CategoryID,
		product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.SKU, &p.NameAr, &p.NameEn, &p.PriceBase, &p.StockQty,
		&p.ReorderLevel, &p.ImagePath, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// List lista el catálogo completo ordenado por nombre.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY name_ar`)
}

// ListByCategory lista los productos de una categoría.
func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID int64) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE category_id = $1 ORDER BY name_ar`, categoryID)
}

// Search busca por SKU o nombre (árabe o inglés), case-insensitive.
func (r *ProductRepo) Search(ctx context.Context, term string) ([]*entity.Product, error) {
	pattern := "%" + term + "%"
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE sku ILIKE $1 OR name_ar ILIKE $1 OR name_en ILIKE $1
		ORDER BY name_ar`
	return r.list(ctx, query, pattern)
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var result []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.NameAr, &p.NameEn, &p.PriceBase, &p.StockQty,
			&p.ReorderLevel, &p.ImagePath, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}

// Update actualiza un producto existente. No toca stock_qty: el stock solo
// se muta vía DecrementStockIfAvailable / IncrementStock.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name_ar = $2, name_en = $3, price_base = $4, reorder_level = $5, image_path = $6, category_id = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.NameAr, product.NameEn, product.PriceBase,
		product.ReorderLevel, product.ImagePath, product.CategoryID, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// SetReorderLevel actualiza solo el umbral de stock bajo del producto.
func (r *ProductRepo) SetReorderLevel(ctx context.Context, id int64, level int) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET reorder_level = $2, updated_at = now() WHERE id = $1`,
		id, level,
	)
	if err != nil {
		return fmt.Errorf("set reorder level: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// DecrementStockIfAvailable descuenta qty solo si hay stock suficiente, en una
// sola sentencia atómica. Devuelve las filas afectadas: 0 significa stock
// insuficiente o producto inexistente, y es el caller quien decide qué hacer.
func (r *ProductRepo) DecrementStockIfAvailable(ctx context.Context, id int64, qty int) (int64, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET stock_qty = stock_qty - $2, updated_at = now() WHERE id = $1 AND stock_qty >= $2`,
		id, qty,
	)
	if err != nil {
		return 0, fmt.Errorf("decrement stock: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// IncrementStock suma qty al stock sin condición (reabastecimiento o rollback).
func (r *ProductRepo) IncrementStock(ctx context.Context, id int64, qty int) (int64, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET stock_qty = stock_qty + $2, updated_at = now() WHERE id = $1`,
		id, qty,
	)
	if err != nil {
		return 0, fmt.Errorf("increment stock: %w", err)
	}
	return cmd.RowsAffected(), nil
}
