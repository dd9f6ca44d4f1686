package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// CategoryUseCase casos de uso CRUD para categorías.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create crea una categoría nueva.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.NameAr == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	category := &entity.Category{
		NameAr:    in.NameAr,
		NameEn:    in.NameEn,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// GetByID obtiene una categoría por ID (nil si no existe).
func (uc *CategoryUseCase) GetByID(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil || category == nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// List lista todas las categorías.
func (uc *CategoryUseCase) List(ctx context.Context) ([]*dto.CategoryResponse, error) {
	categories, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

// Update actualiza nombres de la categoría.
func (uc *CategoryUseCase) Update(ctx context.Context, id int64, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, nil
	}
	if in.NameAr != nil {
		if *in.NameAr == "" {
			return nil, domain.ErrInvalidInput
		}
		category.NameAr = *in.NameAr
	}
	if in.NameEn != nil {
		category.NameEn = *in.NameEn
	}
	category.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Delete elimina la categoría. Los productos asociados quedan sin categoría
// (FK con ON DELETE SET NULL).
func (uc *CategoryUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:        c.ID,
		NameAr:    c.NameAr,
		NameEn:    c.NameEn,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
