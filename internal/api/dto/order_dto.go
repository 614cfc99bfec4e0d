package dto

import "time"

// OrderItemRequest is one checkout line.
type OrderItemRequest struct {
	ProductID      string  `json:"productId" validate:"required,uuid"`
	SizeID         *string `json:"sizeId" validate:"omitempty,uuid"`
	ColorID        *string `json:"colorId" validate:"omitempty,uuid"`
	Quantity       int     `json:"quantity" validate:"gte=0,lte=1000"`
	GiftCardAmount *int64  `json:"giftCardAmount" validate:"omitempty,gt=0"`
}

// OrderRequest is the storefront checkout payload.
type OrderRequest struct {
	CustomerID *string            `json:"customerId" validate:"omitempty,uuid"`
	Phone      string             `json:"phone" validate:"max=64"`
	Address    string             `json:"address" validate:"max=512"`
	Items      []OrderItemRequest `json:"orderItems" validate:"required,min=1,dive"`
}

// OrderItemResponse body.
type OrderItemResponse struct {
	ID             string  `json:"id"`
	ProductID      string  `json:"productId"`
	SizeID         *string `json:"sizeId"`
	ColorID        *string `json:"colorId"`
	Quantity       int     `json:"quantity"`
	UnitPrice      int64   `json:"unitPrice"`
	GiftCardAmount *int64  `json:"giftCardAmount"`
}

// OrderResponse body.
type OrderResponse struct {
	ID         string              `json:"id"`
	StoreID    string              `json:"storeId"`
	CustomerID *string             `json:"customerId"`
	Phone      string              `json:"phone"`
	Address    string              `json:"address"`
	IsPaid     bool                `json:"isPaid"`
	TotalPrice int64               `json:"totalPrice"`
	Items      []OrderItemResponse `json:"orderItems"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// CustomerRequest payload.
type CustomerRequest struct {
	Name  string `json:"name" validate:"max=200"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"max=64"`
}

// BalanceRequest adds Amount minor units to a customer balance; negative debits.
type BalanceRequest struct {
	Amount int64 `json:"amount" validate:"required"`
}

// CustomerResponse body.
type CustomerResponse struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"storeId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GiftCodePurchaseRequest payload.
type GiftCodePurchaseRequest struct {
	Amount      int64      `json:"amount" validate:"required,gt=0"`
	OrderItemID string     `json:"orderItemId" validate:"required,uuid"`
	CustomerID  *string    `json:"customerId" validate:"omitempty,uuid"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

// GiftCodeResponse body.
type GiftCodeResponse struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"storeId"`
	Code      string    `json:"code"`
	Amount    int64     `json:"amount"`
	IsActive  bool      `json:"isActive"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
