package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/store-admin/internal/domain"
	"github.com/spec-kit/store-admin/internal/events"
	"github.com/spec-kit/store-admin/internal/repository"
	apperrors "github.com/spec-kit/store-admin/pkg/util"
)

// OrderItemInput is one checkout line.
type OrderItemInput struct {
	ProductID      string
	SizeID         *string
	ColorID        *string
	Quantity       int
	GiftCardAmount *int64
}

// OrderInput is the storefront checkout payload.
type OrderInput struct {
	CustomerID *string
	Phone      string
	Address    string
	Items      []OrderItemInput
}

// OrderService creates and manages storefront orders.
type OrderService struct {
	orders     repository.OrderRepository
	products   repository.ProductRepository
	customers  repository.CustomerRepository
	dispatcher events.Dispatcher
}

// NewOrderService constructs the service.
func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, customers repository.CustomerRepository, dispatcher events.Dispatcher) *OrderService {
	return &OrderService{orders: orders, products: products, customers: customers, dispatcher: dispatcher}
}

// Create prices every line from the catalog, persists the order and announces it.
func (s *OrderService) Create(ctx context.Context, storeID string, in OrderInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperrors.NewValidationError("order has no items", nil)
	}

	ids := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return nil, apperrors.NewValidationError("productId is required for every item", nil)
		}
		if it.Quantity < 0 {
			return nil, apperrors.NewValidationError("quantity must be positive", map[string]any{"productId": it.ProductID})
		}
		ids = append(ids, it.ProductID)
	}

	customerID, err := s.resolveCustomer(ctx, storeID, in.CustomerID)
	if err != nil {
		return nil, err
	}

	found, err := s.products.GetMany(ctx, storeID, ids)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	catalog := make(map[string]domain.Product, len(found))
	for _, p := range found {
		catalog[p.ID] = p
	}

	order := &domain.Order{
		StoreID:    storeID,
		CustomerID: customerID,
		Phone:      strings.TrimSpace(in.Phone),
		Address:    strings.TrimSpace(in.Address),
	}
	for _, it := range in.Items {
		product, ok := catalog[it.ProductID]
		if !ok || product.IsArchived {
			return nil, apperrors.NewValidationError("product is not available", map[string]any{"productId": it.ProductID})
		}
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}
		item := domain.OrderItem{
			ProductID: product.ID,
			SizeID:    it.SizeID,
			ColorID:   it.ColorID,
			Quantity:  qty,
		}
		if product.IsGiftCard {
			if it.GiftCardAmount == nil || !product.AcceptsGiftAmount(*it.GiftCardAmount) {
				return nil, apperrors.NewValidationError("gift card amount is not offered", map[string]any{"productId": it.ProductID})
			}
			amount := *it.GiftCardAmount
			item.GiftCardAmount = &amount
			item.UnitPrice = amount
		} else {
			if product.Price == nil {
				return nil, apperrors.NewValidationError("product has no price", map[string]any{"productId": it.ProductID})
			}
			item.UnitPrice = *product.Price
		}
		order.TotalPrice += item.LineTotal()
		order.Items = append(order.Items, item)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:    events.EventOrderCreated,
			StoreID: order.StoreID,
			OrderID: order.ID,
			Payload: events.NewOrderEvent(order),
		})
	}
	return order, nil
}

// resolveCustomer accepts only customers registered in the store.
func (s *OrderService) resolveCustomer(ctx context.Context, storeID string, id *string) (*string, error) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil, nil
	}
	customerID := strings.TrimSpace(*id)
	if _, err := s.customers.GetByID(ctx, storeID, customerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("customer does not belong to store", map[string]any{"customerId": customerID})
		}
		return nil, apperrors.MapError(err)
	}
	return &customerID, nil
}

// Get returns one order of the store.
func (s *OrderService) Get(ctx context.Context, storeID, id string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "order")
	}
	if order.StoreID != storeID {
		return nil, apperrors.NewNotFound("order", nil)
	}
	return order, nil
}

// List returns the store's orders, newest first.
func (s *OrderService) List(ctx context.Context, storeID string) ([]domain.Order, error) {
	out, err := s.orders.ListByStore(ctx, storeID)
	return out, apperrors.MapError(err)
}

// Delete removes an order and its items.
func (s *OrderService) Delete(ctx context.Context, storeID, id string) error {
	return notFoundAs(s.orders.Delete(ctx, storeID, id), "order")
}
