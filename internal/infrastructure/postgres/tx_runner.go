package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Caja-api/internal/application/checkout"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ checkout.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Si fn devuelve error la tx se revierte completa: descuentos de stock y venta quedan en nada.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	productRepo := NewProductRepository(tx)
	saleRepo := NewSaleRepository(tx)

	if err := fn(productRepo, saleRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
