package inventory

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Cabecera del CSV de inventario. Los campos con coma, comilla o salto de
// línea se escapan estilo RFC 4180 (comillas dobladas), que es lo que
// encoding/csv hace por defecto.
var csvHeader = []string{
	"SKU", "Name(AR)", "Name(EN)", "Category", "CurrentStock",
	"ReorderLevel", "UnitPrice", "StockValue", "LowStock",
}

// ExportCSV escribe el inventario completo como CSV en w. Lectura snapshot:
// tolera mutación concurrente del catálogo.
func (s *ReportService) ExportCSV(ctx context.Context, w io.Writer) error {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return err
	}
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return err
	}
	nameByID := make(map[int64]string, len(categories))
	for _, c := range categories {
		nameByID[c.ID] = c.NameAr
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("escribir cabecera csv: %w", err)
	}
	for _, p := range products {
		category := uncategorized
		if p.CategoryID != nil {
			if name, ok := nameByID[*p.CategoryID]; ok {
				category = name
			}
		}
		lowStock := "No"
		if p.IsLowStock() {
			lowStock = "Yes"
		}
		row := []string{
			p.SKU,
			p.NameAr,
			p.NameEn,
			category,
			strconv.Itoa(p.StockQty),
			strconv.Itoa(p.ReorderLevel),
			p.PriceBase.StringFixed(2),
			p.StockValue().StringFixed(2),
			lowStock,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("escribir fila csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
