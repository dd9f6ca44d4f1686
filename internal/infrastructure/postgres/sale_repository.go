package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable con pool o tx).
// Las ventas son inmutables: solo inserción y lecturas.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta y sus líneas. El impacto de stock se guarda como
// JSONB para auditoría. Si el repo está atado a una tx, todo cae junto.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	impact, err := json.Marshal(sale.Impact)
	if err != nil {
		return fmt.Errorf("marshal stock impact: %w", err)
	}
	query := `
		INSERT INTO sales (id, created_at, total_base, currency_code, rate_to_base, payment_method, cashier_name, discount, tax, stock_impact)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(ctx, query,
		sale.ID, sale.CreatedAt, sale.TotalBase, sale.CurrencyCode, sale.RateToBase,
		sale.PaymentMethod, sale.CashierName, sale.Discount, sale.Tax, impact,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	itemQuery := `
		INSERT INTO sale_items (sale_id, product_id, product_name, sku, qty, unit_price, subtotal_base)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, it := range sale.Items {
		if _, err := r.q.Exec(ctx, itemQuery,
			sale.ID, it.ProductID, it.ProductName, it.SKU, it.Qty, it.UnitPrice, it.SubtotalBase,
		); err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una venta con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	query := `
		SELECT id, created_at, total_base, currency_code, rate_to_base, payment_method, cashier_name, discount, tax, stock_impact
		FROM sales WHERE id = $1`
	var (
		s      entity.Sale
		impact []byte
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.CreatedAt, &s.TotalBase, &s.CurrencyCode, &s.RateToBase,
		&s.PaymentMethod, &s.CashierName, &s.Discount, &s.Tax, &impact,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := json.Unmarshal(impact, &s.Impact); err != nil {
		return nil, fmt.Errorf("unmarshal stock impact: %w", err)
	}
	items, err := r.itemsFor(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

// ListByDateRange lista las ventas en [start, end) con sus líneas, más recientes primero.
func (r *SaleRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]*entity.Sale, error) {
	query := `
		SELECT id, created_at, total_base, currency_code, rate_to_base, payment_method, cashier_name, discount, tax, stock_impact
		FROM sales WHERE created_at >= $1 AND created_at < $2 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var sales []*entity.Sale
	for rows.Next() {
		var (
			s      entity.Sale
			impact []byte
		)
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.TotalBase, &s.CurrencyCode, &s.RateToBase,
			&s.PaymentMethod, &s.CashierName, &s.Discount, &s.Tax, &impact); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		if err := json.Unmarshal(impact, &s.Impact); err != nil {
			return nil, fmt.Errorf("unmarshal stock impact: %w", err)
		}
		sales = append(sales, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range sales {
		items, err := r.itemsFor(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.Items = items
	}
	return sales, nil
}

// TotalByDateRange suma el total en moneda base de las ventas en [start, end).
func (r *SaleRepo) TotalByDateRange(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_base), 0) FROM sales WHERE created_at >= $1 AND created_at < $2`,
		start, end,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total sales: %w", err)
	}
	return total, nil
}

// CountByDateRange cuenta las ventas en [start, end).
func (r *SaleRepo) CountByDateRange(ctx context.Context, start, end time.Time) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM sales WHERE created_at >= $1 AND created_at < $2`,
		start, end,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return count, nil
}

func (r *SaleRepo) itemsFor(ctx context.Context, saleID string) ([]entity.LineItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT product_id, product_name, sku, qty, unit_price, subtotal_base FROM sale_items WHERE sale_id = $1 ORDER BY id`,
		saleID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var items []entity.LineItem
	for rows.Next() {
		var it entity.LineItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.SKU, &it.Qty, &it.UnitPrice, &it.SubtotalBase); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
