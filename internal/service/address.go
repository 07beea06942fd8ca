package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/flicky/storefront-api/internal/dto"
	"github.com/flicky/storefront-api/internal/model"
	"github.com/flicky/storefront-api/internal/repository"
)

type AddressService struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

func (s *AddressService) List(ctx context.Context, userID uuid.UUID) ([]dto.AddressResponse, error) {
	addresses, err := s.addressRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	resp := make([]dto.AddressResponse, 0, len(addresses))
	for i := range addresses {
		resp = append(resp, toAddressResponse(&addresses[i]))
	}
	return resp, nil
}

func (s *AddressService) Get(ctx context.Context, userID, id uuid.UUID) (*dto.AddressResponse, error) {
	address, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := toAddressResponse(address)
	return &resp, nil
}

// Create stores a new address. The first address a user saves becomes the
// default regardless of the request.
func (s *AddressService) Create(ctx context.Context, userID uuid.UUID, req dto.AddressRequest) (*dto.AddressResponse, error) {
	address := &model.Address{UserID: userID}
	applyAddress(address, req)

	if err := s.addressRepo.Create(ctx, address); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, ErrConcurrentUpdate
		}
		return nil, fmt.Errorf("create address: %w", err)
	}
	resp := toAddressResponse(address)
	return &resp, nil
}

func (s *AddressService) Update(ctx context.Context, userID, id uuid.UUID, req dto.AddressRequest) (*dto.AddressResponse, error) {
	address, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	applyAddress(address, req)

	if err := s.addressRepo.Update(ctx, address); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrAddressNotFound
		case errors.Is(err, repository.ErrStaleState):
			return nil, ErrConcurrentUpdate
		}
		return nil, fmt.Errorf("update address: %w", err)
	}
	resp := toAddressResponse(address)
	return &resp, nil
}

func (s *AddressService) SetDefault(ctx context.Context, userID, id uuid.UUID) (*dto.AddressResponse, error) {
	if err := s.addressRepo.SetDefault(ctx, userID, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrAddressNotFound
		case errors.Is(err, repository.ErrStaleState):
			return nil, ErrConcurrentUpdate
		}
		return nil, fmt.Errorf("set default address: %w", err)
	}
	return s.Get(ctx, userID, id)
}

// Delete removes an address that no order refers to.
func (s *AddressService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.addressRepo.Delete(ctx, userID, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrAddressNotFound
		case errors.Is(err, repository.ErrReferenced):
			return ErrAddressInUse
		}
		return fmt.Errorf("delete address: %w", err)
	}
	return nil
}

func (s *AddressService) owned(ctx context.Context, userID, id uuid.UUID) (*model.Address, error) {
	address, err := s.addressRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get address: %w", err)
	}
	if address == nil || address.UserID != userID {
		return nil, ErrAddressNotFound
	}
	return address, nil
}

func applyAddress(a *model.Address, req dto.AddressRequest) {
	a.FullName = req.FullName
	a.Phone = req.Phone
	a.Line1 = req.Line1
	a.Line2 = req.Line2
	a.City = req.City
	a.State = req.State
	a.PostalCode = req.PostalCode
	a.Country = strings.ToUpper(req.Country)
	a.IsDefault = req.IsDefault
}
