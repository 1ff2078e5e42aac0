package repository

import (
	"context"
	"fmt"

	"github.com/kahvecikaan/ecommerce-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AddressRepository interface {
	// Upsert stores the user's single address, replacing any previous one
	Upsert(ctx context.Context, address *domain.Address) error
}

type gormAddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &gormAddressRepository{db: db}
}

func (r *gormAddressRepository) Upsert(ctx context.Context, address *domain.Address) error {
	err := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"street", "city", "state", "zip_code", "country"}),
	}).Create(address).Error
	if err != nil {
		return fmt.Errorf("failed to save address: %w", err)
	}

	// the conflict path does not report the existing row's id on every dialect
	if address.ID == 0 {
		var stored domain.Address
		if err := conn(ctx, r.db).Where("user_id = ?", address.UserID).First(&stored).Error; err != nil {
			return fmt.Errorf("failed to reload address: %w", err)
		}
		address.ID = stored.ID
	}
	return nil
}
