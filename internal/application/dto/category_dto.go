package dto

import "time"

// CreateCategoryRequest datos para crear una categoría.
type CreateCategoryRequest struct {
	NameAr string `json:"name_ar"`
	NameEn string `json:"name_en"`
}

// UpdateCategoryRequest campos opcionales a actualizar.
type UpdateCategoryRequest struct {
	NameAr *string `json:"name_ar"`
	NameEn *string `json:"name_en"`
}

// CategoryResponse representación HTTP de una categoría.
type CategoryResponse struct {
	ID        int64     `json:"id"`
	NameAr    string    `json:"name_ar"`
	NameEn    string    `json:"name_en,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
