package service

import (
	"context"
	"strings"

	"github.com/spec-kit/store-admin/internal/domain"
	"github.com/spec-kit/store-admin/internal/repository"
	apperrors "github.com/spec-kit/store-admin/pkg/util"
)

// CustomerInput is the editable part of a customer.
type CustomerInput struct {
	Name  string
	Email string
	Phone string
}

// CustomerService manages storefront customers and their balances.
type CustomerService struct {
	customers repository.CustomerRepository
}

// NewCustomerService constructs the service.
func NewCustomerService(customers repository.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

func (in CustomerInput) toDomain(storeID, id string) (*domain.Customer, error) {
	c := &domain.Customer{
		ID:      id,
		StoreID: storeID,
		Name:    strings.TrimSpace(in.Name),
		Email:   normalizeEmail(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
	}
	if c.Email == "" && c.Phone == "" {
		return nil, apperrors.NewValidationError("email or phone is required", nil)
	}
	return c, nil
}

// Create registers a customer.
func (s *CustomerService) Create(ctx context.Context, storeID string, in CustomerInput) (*domain.Customer, error) {
	c, err := in.toDomain(storeID, "")
	if err != nil {
		return nil, err
	}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, apperrors.MapError(err)
	}
	return c, nil
}

// Get returns one customer.
func (s *CustomerService) Get(ctx context.Context, storeID, id string) (*domain.Customer, error) {
	c, err := s.customers.GetByID(ctx, storeID, id)
	if err != nil {
		return nil, notFoundAs(err, "customer")
	}
	return c, nil
}

// List returns the store's customers.
func (s *CustomerService) List(ctx context.Context, storeID string) ([]domain.Customer, error) {
	out, err := s.customers.ListByStore(ctx, storeID)
	return out, apperrors.MapError(err)
}

// Update replaces contact details. The balance is only changed through AdjustBalance.
func (s *CustomerService) Update(ctx context.Context, storeID, id string, in CustomerInput) (*domain.Customer, error) {
	c, err := in.toDomain(storeID, id)
	if err != nil {
		return nil, err
	}
	if err := s.customers.Update(ctx, c); err != nil {
		return nil, notFoundAs(err, "customer")
	}
	return c, nil
}

// Delete removes a customer.
func (s *CustomerService) Delete(ctx context.Context, storeID, id string) error {
	return notFoundAs(s.customers.Delete(ctx, storeID, id), "customer")
}

// AdjustBalance increments the balance by amount minor units; negative amounts debit.
func (s *CustomerService) AdjustBalance(ctx context.Context, storeID, id string, amount int64) (*domain.Customer, error) {
	if amount == 0 {
		return nil, apperrors.NewValidationError("amount must not be zero", nil)
	}
	c, err := s.customers.AdjustBalance(ctx, storeID, id, amount)
	if err != nil {
		return nil, notFoundAs(err, "customer")
	}
	return c, nil
}
