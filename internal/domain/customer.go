package domain

import "time"

// Customer is a storefront buyer. Balance is in minor currency units.
type Customer struct {
	ID        string
	StoreID   string
	Name      string
	Email     string
	Phone     string
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
