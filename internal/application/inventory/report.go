package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// Los reportes son agregaciones de solo lectura sobre el catálogo: no son
// críticos para la seguridad del checkout y toleran lecturas eventualmente
// consistentes bajo mutación concurrente.

// CategoryStockInfo agrupa métricas de stock por categoría.
type CategoryStockInfo struct {
	CategoryName    string          `json:"category_name"`
	TotalProducts   int             `json:"total_products"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	LowStockCount   int             `json:"low_stock_count"`
}

// StockReport es el reporte integral de inventario.
type StockReport struct {
	TotalProducts   int                 `json:"total_products"`
	TotalStockValue decimal.Decimal     `json:"total_stock_value"`
	LowStockCount   int                 `json:"low_stock_count"`
	OutOfStockCount int                 `json:"out_of_stock_count"`
	PerCategory     []CategoryStockInfo `json:"per_category"`
	Distribution    map[string]int      `json:"distribution"` // rango de stock -> cantidad de productos
	GeneratedAt     time.Time           `json:"generated_at"`
}

// Nombre del bucket para productos sin categoría (FK en NULL).
const uncategorized = "Uncategorized"

// ReportService genera reportes y analítica de stock leyendo catálogo y
// categorías. Separado del Ledger: este no muta nada.
type ReportService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewReportService construye el servicio de reportes.
func NewReportService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ReportService {
	return &ReportService{productRepo: productRepo, categoryRepo: categoryRepo}
}

// TotalStockValue devuelve Σ (stock × precio base) de todo el catálogo.
func (s *ReportService) TotalStockValue(ctx context.Context) (decimal.Decimal, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.StockValue())
	}
	return total, nil
}

// LowStockProducts devuelve los productos en o por debajo de su umbral de
// reorden (persistido por producto).
func (s *ReportService) LowStockProducts(ctx context.Context) ([]*entity.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]*entity.Product, 0)
	for _, p := range products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return low, nil
}

// StockValueByCategory agrupa el valor del stock por nombre de categoría;
// los productos sin categoría caen en el bucket Uncategorized.
func (s *ReportService) StockValueByCategory(ctx context.Context) (map[string]decimal.Decimal, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	nameByID := make(map[int64]string, len(categories))
	result := make(map[string]decimal.Decimal, len(categories)+1)
	for _, c := range categories {
		nameByID[c.ID] = c.NameAr
		result[c.NameAr] = decimal.Zero
	}
	for _, p := range products {
		bucket := uncategorized
		if p.CategoryID != nil {
			if name, ok := nameByID[*p.CategoryID]; ok {
				bucket = name
			}
		}
		result[bucket] = result[bucket].Add(p.StockValue())
	}
	return result, nil
}

// BuildStockReport arma el reporte integral: totales, conteos de stock bajo y
// agotado, desglose por categoría y distribución por rangos.
func (s *ReportService) BuildStockReport(ctx context.Context) (*StockReport, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &StockReport{
		TotalProducts:   len(products),
		TotalStockValue: decimal.Zero,
		Distribution:    make(map[string]int, 5),
		GeneratedAt:     time.Now(),
	}
	for _, p := range products {
		report.TotalStockValue = report.TotalStockValue.Add(p.StockValue())
		if p.IsLowStock() {
			report.LowStockCount++
		}
		if p.IsOutOfStock() {
			report.OutOfStockCount++
		}
		report.Distribution[stockBucket(p.StockQty)]++
	}

	byCategory := make(map[int64][]*entity.Product)
	for _, p := range products {
		if p.CategoryID != nil {
			byCategory[*p.CategoryID] = append(byCategory[*p.CategoryID], p)
		}
	}
	for _, c := range categories {
		info := CategoryStockInfo{CategoryName: c.NameAr, TotalStockValue: decimal.Zero}
		for _, p := range byCategory[c.ID] {
			info.TotalProducts++
			info.TotalStockValue = info.TotalStockValue.Add(p.StockValue())
			if p.IsLowStock() {
				info.LowStockCount++
			}
		}
		report.PerCategory = append(report.PerCategory, info)
	}
	return report, nil
}

// stockBucket clasifica una cantidad en los rangos del reporte de distribución.
func stockBucket(qty int) string {
	switch {
	case qty == 0:
		return "0"
	case qty <= 10:
		return "1-10"
	case qty <= 50:
		return "11-50"
	case qty <= 100:
		return "51-100"
	default:
		return "100+"
	}
}
