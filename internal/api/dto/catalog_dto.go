package dto

import "time"

// StoreRequest payload.
type StoreRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// StoreResponse body.
type StoreResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BillboardRequest payload.
type BillboardRequest struct {
	Label    string `json:"label" validate:"required"`
	ImageURL string `json:"imageUrl" validate:"required,url"`
}

// BillboardResponse body.
type BillboardResponse struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"storeId"`
	Label     string    `json:"label"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryRequest payload.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	BillboardID string `json:"billboardId" validate:"required,uuid"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
}

// CategoryResponse body.
type CategoryResponse struct {
	ID          string    `json:"id"`
	StoreID     string    `json:"storeId"`
	BillboardID string    `json:"billboardId"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AttributeRequest payload for sizes and colors.
type AttributeRequest struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// AttributeResponse body.
type AttributeResponse struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"storeId"`
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReviewRequest payload.
type ReviewRequest struct {
	Label    string `json:"label" validate:"required"`
	ImageURL string `json:"imageUrl" validate:"required,url"`
}

// ReviewResponse body.
type ReviewResponse struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"storeId"`
	Label     string    `json:"label"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ImageRequest is one product image.
type ImageRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// GiftPriceRequest is one offered gift card denomination in minor units.
type GiftPriceRequest struct {
	Value int64 `json:"value" validate:"gt=0"`
}

// ProductRequest payload. Prices are minor currency units.
type ProductRequest struct {
	Name        string             `json:"name" validate:"required"`
	Description string             `json:"description"`
	Price       *int64             `json:"price" validate:"omitempty,gte=0"`
	CategoryID  string             `json:"categoryId" validate:"required,uuid"`
	SizeIDs     []string           `json:"sizeIds" validate:"required,min=1,dive,uuid"`
	ColorIDs    []string           `json:"colorIds" validate:"required,min=1,dive,uuid"`
	Images      []ImageRequest     `json:"images" validate:"required,min=1,dive"`
	IsFeatured  bool               `json:"isFeatured"`
	IsArchived  bool               `json:"isArchived"`
	IsGiftCard  bool               `json:"isGiftCard"`
	GiftPrices  []GiftPriceRequest `json:"giftPrices" validate:"dive"`
}

// ImageResponse body.
type ImageResponse struct {
	ID  string `json:"id,omitempty"`
	URL string `json:"url"`
}

// ProductResponse body.
type ProductResponse struct {
	ID          string          `json:"id"`
	StoreID     string          `json:"storeId"`
	CategoryID  string          `json:"categoryId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       *int64          `json:"price"`
	IsFeatured  bool            `json:"isFeatured"`
	IsArchived  bool            `json:"isArchived"`
	IsGiftCard  bool            `json:"isGiftCard"`
	Images      []ImageResponse `json:"images"`
	SizeIDs     []string        `json:"sizeIds"`
	ColorIDs    []string        `json:"colorIds"`
	GiftPrices  []int64         `json:"giftPrices"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductListQuery captures storefront filters.
type ProductListQuery struct {
	CategoryID string `query:"categoryId" validate:"omitempty,uuid"`
	SizeID     string `query:"sizeId" validate:"omitempty,uuid"`
	ColorID    string `query:"colorId" validate:"omitempty,uuid"`
	IsFeatured string `query:"isFeatured" validate:"omitempty,oneof=true false"`
}
