package domain

import "time"

// Billboard is a hero banner shown on storefront pages.
type Billboard struct {
	ID        string
	StoreID   string
	Label     string
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category groups products and points at the billboard shown on its page.
type Category struct {
	ID          string
	StoreID     string
	BillboardID string
	Name        string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AttributeKind distinguishes the product option tables.
type AttributeKind string

const (
	AttributeSize  AttributeKind = "size"
	AttributeColor AttributeKind = "color"
)

// Attribute is a selectable product option such as a size or a color.
type Attribute struct {
	ID        string
	StoreID   string
	Kind      AttributeKind
	Name      string
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Review is a customer testimonial rendered as an image card.
type Review struct {
	ID        string
	StoreID   string
	Label     string
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
