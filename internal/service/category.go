package service

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/ecommerce-api/internal/domain"
	"github.com/kahvecikaan/ecommerce-api/internal/repository"
)

// CategoryProducts is one page of a category's purchasable products
type CategoryProducts struct {
	Category domain.Category                 `json:"category"`
	Products domain.Page[domain.ProductView] `json:"products"`
}

type CategoryService interface {
	CreateCategory(ctx context.Context, actor domain.Principal, req domain.CategoryRequest) (*domain.Category, error)
	UpdateCategory(ctx context.Context, actor domain.Principal, id int64, req domain.CategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, actor domain.Principal, id int64) error
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CategoryProducts(ctx context.Context, id int64, page domain.PageRequest) (*CategoryProducts, error)
}

type categoryService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	tx         Transactor
	cache      ProductCache
	logger     hclog.Logger
}

// NewCategoryService wires the category use cases. cache may be nil.
func NewCategoryService(
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	tx Transactor,
	cache ProductCache,
	logger hclog.Logger,
) CategoryService {
	return &categoryService{
		categories: categories,
		products:   products,
		tx:         tx,
		cache:      cache,
		logger:     logger,
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, actor domain.Principal, req domain.CategoryRequest) (*domain.Category, error) {
	if !actor.IsAdmin() {
		return nil, domain.Forbidden("Only administrators can manage categories")
	}

	category := &domain.Category{Name: req.Name}
	if err := s.categories.Create(ctx, category); err != nil {
		s.logger.Error("Unable to create category", "name", req.Name, "error", err)
		return nil, err
	}
	s.logger.Info("Category created", "id", category.ID, "name", category.Name)
	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, actor domain.Principal, id int64, req domain.CategoryRequest) (*domain.Category, error) {
	if !actor.IsAdmin() {
		return nil, domain.Forbidden("Only administrators can manage categories")
	}

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = req.Name
	if err := s.categories.Save(ctx, category); err != nil {
		s.logger.Error("Unable to update category", "id", id, "error", err)
		return nil, err
	}
	return category, nil
}

// DeleteCategory keeps the category's products and clears their reference
func (s *categoryService) DeleteCategory(ctx context.Context, actor domain.Principal, id int64) error {
	if !actor.IsAdmin() {
		return domain.Forbidden("Only administrators can manage categories")
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.categories.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("Unable to delete category", "id", id, "error", err)
		return err
	}

	// cached views of the detached products still carry the old category id
	if s.cache != nil {
		if err := s.cache.DeletePattern(ctx, productCachePattern); err != nil {
			s.logger.Warn("Product cache invalidation failed", "category", id, "error", err)
		}
	}
	s.logger.Info("Category deleted", "id", id)
	return nil
}

func (s *categoryService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *categoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.GetAll(ctx)
}

func (s *categoryService) CategoryProducts(ctx context.Context, id int64, page domain.PageRequest) (*CategoryProducts, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, total, err := s.products.FindPurchasableByCategory(ctx, id, page)
	if err != nil {
		return nil, err
	}

	return &CategoryProducts{
		Category: *category,
		Products: domain.NewPage(productViews(items, s.logger), total, page),
	}, nil
}
