package service

import (
	"context"
	"strings"

	"github.com/spec-kit/store-admin/internal/domain"
	"github.com/spec-kit/store-admin/internal/repository"
	apperrors "github.com/spec-kit/store-admin/pkg/util"
)

// StoreService manages the stores owned by admins.
type StoreService struct {
	stores repository.StoreRepository
}

// NewStoreService constructs the service.
func NewStoreService(stores repository.StoreRepository) *StoreService {
	return &StoreService{stores: stores}
}

// Create opens a new store for the owner.
func (s *StoreService) Create(ctx context.Context, ownerID, name string) (*domain.Store, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	store := &domain.Store{Name: name, OwnerID: ownerID}
	if err := s.stores.Create(ctx, store); err != nil {
		return nil, apperrors.MapError(err)
	}
	return store, nil
}

// ListOwned returns the owner's stores.
func (s *StoreService) ListOwned(ctx context.Context, ownerID string) ([]domain.Store, error) {
	stores, err := s.stores.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stores, nil
}

// Rename updates the store name.
func (s *StoreService) Rename(ctx context.Context, store *domain.Store, name string) (*domain.Store, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	updated := *store
	updated.Name = name
	if err := s.stores.Update(ctx, &updated); err != nil {
		return nil, notFoundAs(err, "store")
	}
	return &updated, nil
}

// Delete removes the store and everything scoped to it.
func (s *StoreService) Delete(ctx context.Context, storeID string) error {
	return notFoundAs(s.stores.Delete(ctx, storeID), "store")
}
