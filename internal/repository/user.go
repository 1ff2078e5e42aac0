package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/kahvecikaan/ecommerce-api/internal/domain"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Save(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*domain.User, error)
	// GetProfile loads the user with address and order lines
	GetProfile(ctx context.Context, id int64) (*domain.User, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := conn(ctx, r.db).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Conflict("", "Email already registered")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *gormUserRepository) Save(ctx context.Context, user *domain.User) error {
	if err := conn(ctx, r.db).Omit("Address", "OrderItems").Save(user).Error; err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *gormUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return firstUser(conn(ctx, r.db).Where("id = ?", id), "User not found")
}

func (r *gormUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return firstUser(conn(ctx, r.db).Where("email = ?", email), "User not found")
}

func (r *gormUserRepository) GetByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	return firstUser(conn(ctx, r.db).Where("verification_token = ?", token), "Invalid verification token")
}

func (r *gormUserRepository) GetProfile(ctx context.Context, id int64) (*domain.User, error) {
	db := conn(ctx, r.db).
		Preload("Address").
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("OrderItems.Product").
		Where("id = ?", id)
	return firstUser(db, "User not found")
}

func (r *gormUserRepository) GetAll(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := conn(ctx, r.db).Preload("Address").Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *gormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

func firstUser(db *gorm.DB, notFound string) (*domain.User, error) {
	var user domain.User
	if err := db.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound(notFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}
