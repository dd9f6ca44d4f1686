package checkout

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Deducción de stock e inserción de la venta
// viajan juntas: si cualquiera falla, el rollback de la transacción deshace
// ambas, sin ventana de "stock descontado pero venta no registrada".
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
