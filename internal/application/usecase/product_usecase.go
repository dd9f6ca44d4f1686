package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock NO se actualiza
// por aquí: solo a través del ledger (checkout y reabastecimiento).
type ProductUseCase struct {
	repo                repository.ProductRepository
	defaultReorderLevel int
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, defaultReorderLevel int) *ProductUseCase {
	return &ProductUseCase{repo: repo, defaultReorderLevel: defaultReorderLevel}
}

// Create crea un producto nuevo. SKU duplicado devuelve ErrDuplicate.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.NameAr == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.PriceBase.IsNegative() || in.StockQty < 0 || in.ReorderLevel < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetBySKU(ctx, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	reorder := in.ReorderLevel
	if reorder == 0 {
		reorder = uc.defaultReorderLevel
	}
	now := time.Now()
	product := &entity.Product{
		SKU:          in.SKU,
		NameAr:       in.NameAr,
		NameEn:       in.NameEn,
		PriceBase:    in.PriceBase,
		StockQty:     in.StockQty,
		ReorderLevel: reorder,
		ImagePath:    in.ImagePath,
		CategoryID:   in.CategoryID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID (nil si no existe).
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil || product == nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetBySKU obtiene un producto por SKU (nil si no existe).
func (uc *ProductUseCase) GetBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil || product == nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista el catálogo completo, con filtros opcionales de categoría o búsqueda.
func (uc *ProductUseCase) List(ctx context.Context, categoryID *int64, search string) ([]*dto.ProductResponse, error) {
	var (
		products []*entity.Product
		err      error
	)
	switch {
	case search != "":
		products, err = uc.repo.Search(ctx, search)
	case categoryID != nil:
		products, err = uc.repo.ListByCategory(ctx, *categoryID)
	default:
		products, err = uc.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Update actualiza campos del producto. No permite modificar stock (ledger).
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.NameAr != nil {
		if *in.NameAr == "" {
			return nil, domain.ErrInvalidInput
		}
		product.NameAr = *in.NameAr
	}
	if in.NameEn != nil {
		product.NameEn = *in.NameEn
	}
	if in.PriceBase != nil {
		if in.PriceBase.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.PriceBase = *in.PriceBase
	}
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.ReorderLevel = *in.ReorderLevel
	}
	if in.ImagePath != nil {
		product.ImagePath = *in.ImagePath
	}
	if in.CategoryID != nil {
		product.CategoryID = in.CategoryID
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// SetReorderLevel cambia solo el umbral de stock bajo del producto.
func (uc *ProductUseCase) SetReorderLevel(ctx context.Context, id int64, level int) error {
	if level < 0 {
		return domain.ErrInvalidInput
	}
	return uc.repo.SetReorderLevel(ctx, id, level)
}

// Delete elimina un producto. Las ventas pasadas no se ven afectadas: sus
// líneas guardan nombre y SKU copiados al momento de la venta.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		NameAr:       p.NameAr,
		NameEn:       p.NameEn,
		PriceBase:    p.PriceBase,
		StockQty:     p.StockQty,
		ReorderLevel: p.ReorderLevel,
		LowStock:     p.IsLowStock(),
		ImagePath:    p.ImagePath,
		CategoryID:   p.CategoryID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
