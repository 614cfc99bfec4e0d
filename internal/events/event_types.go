package events

import (
	"time"

	"github.com/spec-kit/store-admin/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderCreated EventType = "order_created"
	EventOrderPaid    EventType = "order_paid"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	StoreID   string      `json:"store_id"`
	OrderID   string      `json:"order_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OrderEvent is the order snapshot pushed to live dashboard streams.
type OrderEvent struct {
	ID         string           `json:"id"`
	StoreID    string           `json:"storeId"`
	CustomerID *string          `json:"customerId,omitempty"`
	Phone      string           `json:"phone"`
	Address    string           `json:"address"`
	IsPaid     bool             `json:"isPaid"`
	TotalPrice int64            `json:"totalPrice"`
	Items      []OrderEventItem `json:"orderItems"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// OrderEventItem is a line of an OrderEvent.
type OrderEventItem struct {
	ID             string  `json:"id"`
	ProductID      string  `json:"productId"`
	SizeID         *string `json:"sizeId,omitempty"`
	ColorID        *string `json:"colorId,omitempty"`
	Quantity       int     `json:"quantity"`
	UnitPrice      int64   `json:"unitPrice"`
	GiftCardAmount *int64  `json:"giftCardAmount,omitempty"`
}

// NewOrderEvent snapshots an order for the stream.
func NewOrderEvent(o *domain.Order) OrderEvent {
	items := make([]OrderEventItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderEventItem{
			ID:             it.ID,
			ProductID:      it.ProductID,
			SizeID:         it.SizeID,
			ColorID:        it.ColorID,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			GiftCardAmount: it.GiftCardAmount,
		})
	}
	return OrderEvent{
		ID:         o.ID,
		StoreID:    o.StoreID,
		CustomerID: o.CustomerID,
		Phone:      o.Phone,
		Address:    o.Address,
		IsPaid:     o.IsPaid,
		TotalPrice: o.TotalPrice,
		Items:      items,
		CreatedAt:  o.CreatedAt,
	}
}

// OrderPaidPayload payload.
type OrderPaidPayload struct {
	PaidAmount      string   `json:"paid_amount"`
	InvoiceID       string   `json:"invoice_id"`
	GiftCodesIssued int      `json:"gift_codes_issued"`
	FailedItems     []string `json:"failed_items,omitempty"`
}
