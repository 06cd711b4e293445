package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avelkov/eshop-api/internal/models"
	"github.com/avelkov/eshop-api/internal/repo"
	"github.com/avelkov/eshop-api/internal/transport"
)

type CategoryService struct {
	Repo *repo.GormRepo
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.Repo.GetCategory(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	category := &models.Category{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	}
	return s.Repo.CreateCategory(ctx, category)
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req transport.CategoryRequest) (*models.Category, error) {
	category, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Icon != "" {
		category.Icon = req.Icon
	}
	if req.Color != "" {
		category.Color = req.Color
	}
	return s.Repo.UpdateCategory(ctx, category)
}

// Delete removes the category without checking product references; products
// pointing at it keep a dangling category id.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Repo.DeleteCategory(ctx, id)
}
