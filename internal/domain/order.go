package domain

import "time"

// Order is a storefront checkout. TotalPrice is in minor currency units.
type Order struct {
	ID         string
	StoreID    string
	CustomerID *string
	Phone      string
	Address    string
	IsPaid     bool
	TotalPrice int64
	Items      []OrderItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderItem is a single line of an order.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	SizeID    *string
	ColorID   *string
	Quantity  int
	UnitPrice int64
	// GiftCardAmount is set for gift-card lines; one code is issued per line once paid.
	GiftCardAmount *int64
}

// IsGiftCard reports whether the line buys a gift card.
func (i OrderItem) IsGiftCard() bool {
	return i.GiftCardAmount != nil && *i.GiftCardAmount > 0
}

// LineTotal returns the line amount in minor units.
func (i OrderItem) LineTotal() int64 {
	qty := int64(i.Quantity)
	if qty <= 0 {
		qty = 1
	}
	if i.IsGiftCard() {
		return *i.GiftCardAmount * qty
	}
	return i.UnitPrice * qty
}

// GiftCardItems returns the gift-card lines of the order.
func (o *Order) GiftCardItems() []OrderItem {
	out := make([]OrderItem, 0)
	for _, item := range o.Items {
		if item.IsGiftCard() {
			out = append(out, item)
		}
	}
	return out
}
