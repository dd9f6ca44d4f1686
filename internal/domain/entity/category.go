package entity

import "time"

// Category representa una categoría de productos. Al eliminarla, los productos
// referenciados quedan con CategoryID en NULL (nunca se eliminan en cascada).
type Category struct {
	ID        int64
	NameAr    string
	NameEn    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
