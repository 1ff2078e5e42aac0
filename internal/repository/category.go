package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/kahvecikaan/ecommerce-api/internal/domain"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	GetAll(ctx context.Context) ([]domain.Category, error)
	Save(ctx context.Context, category *domain.Category) error
	// Delete detaches the category's products before removing it
	Delete(ctx context.Context, id int64) error
}

type gormCategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &gormCategoryRepository{db: db}
}

func (r *gormCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if err := conn(ctx, r.db).Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Conflict("", "Category already exists: %s", category.Name)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *gormCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	var category domain.Category
	if err := conn(ctx, r.db).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("Category not found with id: %d", id)
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &category, nil
}

func (r *gormCategoryRepository) GetAll(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := conn(ctx, r.db).Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *gormCategoryRepository) Save(ctx context.Context, category *domain.Category) error {
	if err := conn(ctx, r.db).Save(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Conflict("", "Category already exists: %s", category.Name)
		}
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}

func (r *gormCategoryRepository) Delete(ctx context.Context, id int64) error {
	db := conn(ctx, r.db)
	err := db.Model(&domain.Product{}).
		Where("category_id = ?", id).
		Update("category_id", nil).Error
	if err != nil {
		return fmt.Errorf("failed to detach products: %w", err)
	}

	result := db.Delete(&domain.Category{}, id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.NotFound("Category not found with id: %d", id)
	}
	return nil
}
