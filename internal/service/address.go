package service

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/ecommerce-api/internal/domain"
	"github.com/kahvecikaan/ecommerce-api/internal/repository"
)

type AddressService interface {
	// SaveAddress creates or replaces the caller's address
	SaveAddress(ctx context.Context, actor domain.Principal, req domain.AddressRequest) (*domain.Address, error)
}

type addressService struct {
	addresses repository.AddressRepository
	logger    hclog.Logger
}

func NewAddressService(addresses repository.AddressRepository, logger hclog.Logger) AddressService {
	return &addressService{addresses: addresses, logger: logger}
}

func (s *addressService) SaveAddress(ctx context.Context, actor domain.Principal, req domain.AddressRequest) (*domain.Address, error) {
	address := &domain.Address{
		UserID:  actor.UserID,
		Street:  req.Street,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
		Country: req.Country,
	}
	if err := s.addresses.Upsert(ctx, address); err != nil {
		s.logger.Error("Unable to save address", "user", actor.UserID, "error", err)
		return nil, err
	}
	return address, nil
}
