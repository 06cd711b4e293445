package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avelkov/eshop-api/internal/models"
	"github.com/avelkov/eshop-api/internal/repo"
	"github.com/avelkov/eshop-api/internal/transport"
)

type ProductService struct {
	Repo *repo.GormRepo
}

func (s *ProductService) checkCategory(ctx context.Context, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid category", ErrValidation)
	}
	ok, err := s.Repo.CategoryExists(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: invalid category", ErrValidation)
	}
	return id, nil
}

func (s *ProductService) Query(ctx context.Context, q repo.ProductQuery) (int64, []models.Product, error) {
	return s.Repo.QueryProducts(ctx, q)
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

// Create validates the category reference before the write; imageURL is the
// already-persisted upload, required on create.
func (s *ProductService) Create(ctx context.Context, req transport.ProductForm, imageURL string) (*models.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if imageURL == "" {
		return nil, fmt.Errorf("%w: no image file in the request", ErrValidation)
	}
	categoryID, err := s.checkCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:            req.Name,
		Description:     req.Description,
		RichDescription: req.RichDescription,
		Image:           imageURL,
		Brand:           req.Brand,
		Price:           req.Price,
		CategoryID:      categoryID,
		CountInStock:    req.CountInStock,
		Rating:          req.Rating,
		NumReviews:      req.NumReviews,
		IsFeatured:      req.IsFeatured,
	}
	return s.Repo.CreateProduct(ctx, product)
}

// Update replaces every field from the form; an empty imageURL keeps the
// stored image.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req transport.ProductForm, imageURL string) (*models.Product, error) {
	categoryID, err := s.checkCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Description = req.Description
	product.RichDescription = req.RichDescription
	product.Brand = req.Brand
	product.Price = req.Price
	product.CategoryID = categoryID
	product.Category = nil
	product.CountInStock = req.CountInStock
	product.Rating = req.Rating
	product.NumReviews = req.NumReviews
	product.IsFeatured = req.IsFeatured
	if imageURL != "" {
		product.Image = imageURL
	}

	return s.Repo.SaveProduct(ctx, product)
}

func (s *ProductService) UpdateGallery(ctx context.Context, id uuid.UUID, imageURLs []string) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Images = imageURLs
	product.Category = nil
	return s.Repo.SaveProduct(ctx, product)
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Repo.DeleteProduct(ctx, id)
}

func (s *ProductService) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	return s.Repo.FeaturedProducts(ctx, limit)
}

func (s *ProductService) Count(ctx context.Context) (int64, error) {
	return s.Repo.CountProducts(ctx)
}
