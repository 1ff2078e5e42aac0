package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/kahvecikaan/ecommerce-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	// Create stores the order together with its lines
	Create(ctx context.Context, order *domain.Order) error
	GetItem(ctx context.Context, id int64) (*domain.OrderItem, error)
	UpdateItemStatus(ctx context.Context, id int64, status domain.OrderStatus) error
	FilterItems(ctx context.Context, filter domain.OrderItemFilter, page domain.PageRequest) ([]domain.OrderItem, int64, error)
	ExistsByProductID(ctx context.Context, productID int64) (bool, error)
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

func (r *gormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if err := conn(ctx, r.db).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *gormOrderRepository) GetItem(ctx context.Context, id int64) (*domain.OrderItem, error) {
	var item domain.OrderItem
	if err := conn(ctx, r.db).Preload("Product").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("Order item not found with id: %d", id)
		}
		return nil, fmt.Errorf("failed to find order item: %w", err)
	}
	return &item, nil
}

func (r *gormOrderRepository) UpdateItemStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	result := conn(ctx, r.db).Model(&domain.OrderItem{}).Where("id = ?", id).Update("status", status)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update order item: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.NotFound("Order item not found with id: %d", id)
	}
	return nil
}

// FilterItems returns order lines matching every supplied criterion, newest first
func (r *gormOrderRepository) FilterItems(ctx context.Context, filter domain.OrderItemFilter, page domain.PageRequest) ([]domain.OrderItem, int64, error) {
	scopes := []func(*gorm.DB) *gorm.DB{
		hasStatus(filter.Status),
		createdBetween(filter),
		hasItemID(filter.ItemID),
	}

	var total int64
	if err := conn(ctx, r.db).Model(&domain.OrderItem{}).Scopes(scopes...).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count order items: %w", err)
	}

	var items []domain.OrderItem
	err := conn(ctx, r.db).
		Scopes(scopes...).
		Preload("Product").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}).
		Offset(page.Offset()).Limit(page.Size).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to filter order items: %w", err)
	}
	return items, total, nil
}

func (r *gormOrderRepository) ExistsByProductID(ctx context.Context, productID int64) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&domain.OrderItem{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check order items: %w", err)
	}
	return count > 0, nil
}

func hasStatus(status *domain.OrderStatus) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == nil {
			return db
		}
		return db.Where("status = ?", *status)
	}
}

func createdBetween(f domain.OrderItemFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case f.StartDate != nil && f.EndDate != nil:
			return db.Where("created_at BETWEEN ? AND ?", *f.StartDate, *f.EndDate)
		case f.StartDate != nil:
			return db.Where("created_at >= ?", *f.StartDate)
		case f.EndDate != nil:
			return db.Where("created_at <= ?", *f.EndDate)
		default:
			return db
		}
	}
}

func hasItemID(id *int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id == nil {
			return db
		}
		return db.Where("id = ?", *id)
	}
}
