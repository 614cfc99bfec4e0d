package domain

import "time"

// GiftCode is a redeemable code worth Amount minor units.
type GiftCode struct {
	ID        string
	StoreID   string
	Code      string
	Amount    int64
	IsActive  bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the code can no longer be redeemed.
func (g *GiftCode) Expired(now time.Time) bool {
	return !g.ExpiresAt.IsZero() && now.After(g.ExpiresAt)
}

// GiftCodePurchase links a gift code to the order item that paid for it.
type GiftCodePurchase struct {
	ID          string
	GiftCodeID  string
	OrderItemID string
	CustomerID  *string
	CreatedAt   time.Time
}
