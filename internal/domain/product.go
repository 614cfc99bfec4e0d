package domain

import "time"

// Product is a catalog item. Prices are stored in minor currency units.
type Product struct {
	ID          string
	StoreID     string
	CategoryID  string
	Name        string
	Description string
	Price       *int64
	IsFeatured  bool
	IsArchived  bool
	IsGiftCard  bool
	Images      []ProductImage
	SizeIDs     []string
	ColorIDs    []string
	GiftPrices  []int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductImage is an ordered image reference.
type ProductImage struct {
	ID  string
	URL string
}

// AcceptsGiftAmount reports whether amount is one of the configured gift denominations.
func (p *Product) AcceptsGiftAmount(amount int64) bool {
	for _, v := range p.GiftPrices {
		if v == amount {
			return true
		}
	}
	return false
}
