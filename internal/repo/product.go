package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelkov/eshop-api/internal/models"
)

const (
	SortName      = "name"
	SortPriceAsc  = "priceAsc"
	SortPriceDesc = "priceDesc"
	SortRating    = "rating"
)

// ProductQuery describes one product listing request. Page is 1-based; a
// PageSize of zero or less disables pagination. CategoryIDs wins over
// SearchText when both are set.
type ProductQuery struct {
	CategoryIDs []uuid.UUID
	SearchText  string
	Sort        string
	Page        int
	PageSize    int
}

func (q ProductQuery) offset() int {
	if q.Page <= 1 || q.PageSize <= 0 {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}

func (q ProductQuery) orderClause() string {
	switch q.Sort {
	case SortName:
		return "name ASC"
	case SortPriceAsc:
		return "price ASC"
	case SortPriceDesc:
		return "price DESC"
	case SortRating:
		return "rating DESC"
	default:
		return ""
	}
}

// QueryProducts returns one page of products with their category resolved,
// plus the total count matching the filter regardless of pagination.
func (r *GormRepo) QueryProducts(ctx context.Context, q ProductQuery) (int64, []models.Product, error) {
	filtered := func() *gorm.DB {
		tx := r.DB.WithContext(ctx).Model(&models.Product{})
		if len(q.CategoryIDs) > 0 {
			return tx.Where("category_id IN ?", q.CategoryIDs)
		}
		if q.SearchText != "" {
			return tx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q.SearchText)+"%")
		}
		return tx
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return 0, nil, err
	}

	page := filtered().Preload("Category")
	if clause := q.orderClause(); clause != "" {
		page = page.Order(clause)
	}
	if q.PageSize > 0 {
		page = page.Offset(q.offset()).Limit(q.PageSize)
	}

	items := make([]models.Product, 0)
	if err := page.Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.DB.WithContext(ctx).Preload("Category").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&product).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.DB.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *GormRepo) SaveProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.DB.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	q := r.DB.WithContext(ctx).Where("is_featured = ?", true)
	if limit > 0 {
		q = q.Limit(limit)
	}
	products := make([]models.Product, 0)
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormRepo) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
