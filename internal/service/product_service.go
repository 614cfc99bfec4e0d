package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/store-admin/internal/domain"
	"github.com/spec-kit/store-admin/internal/repository"
	apperrors "github.com/spec-kit/store-admin/pkg/util"
)

// ProductInput is the editable part of a product.
type ProductInput struct {
	Name        string
	Description string
	Price       *int64
	CategoryID  string
	SizeIDs     []string
	ColorIDs    []string
	Images      []string
	IsFeatured  bool
	IsArchived  bool
	IsGiftCard  bool
	GiftPrices  []int64
}

// ProductService manages the product catalog.
type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
}

// NewProductService constructs the service.
func NewProductService(products repository.ProductRepository, categories repository.CategoryRepository) *ProductService {
	return &ProductService{products: products, categories: categories}
}

func (in ProductInput) validate() error {
	missing := requiredFields(map[string]string{"name": in.Name, "categoryId": in.CategoryID})
	if len(in.Images) == 0 {
		missing = append(missing, "images")
	}
	if len(in.SizeIDs) == 0 {
		missing = append(missing, "sizeIds")
	}
	if len(in.ColorIDs) == 0 {
		missing = append(missing, "colorIds")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}

	if in.IsGiftCard {
		if len(in.GiftPrices) == 0 {
			return apperrors.NewValidationError("gift cards need at least one gift price", nil)
		}
		for _, v := range in.GiftPrices {
			if v <= 0 {
				return apperrors.NewValidationError("gift prices must be positive", nil)
			}
		}
		return nil
	}
	if in.Price == nil {
		return apperrors.NewValidationError("price is required", nil)
	}
	if *in.Price < 0 {
		return apperrors.NewValidationError("price must not be negative", nil)
	}
	return nil
}

func (in ProductInput) toDomain(storeID, id string) *domain.Product {
	p := &domain.Product{
		ID:          id,
		StoreID:     storeID,
		CategoryID:  in.CategoryID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		IsFeatured:  in.IsFeatured,
		IsArchived:  in.IsArchived,
		IsGiftCard:  in.IsGiftCard,
		SizeIDs:     in.SizeIDs,
		ColorIDs:    in.ColorIDs,
	}
	for _, url := range in.Images {
		if url = strings.TrimSpace(url); url != "" {
			p.Images = append(p.Images, domain.ProductImage{URL: url})
		}
	}
	if in.IsGiftCard {
		p.GiftPrices = in.GiftPrices
	} else {
		price := *in.Price
		p.Price = &price
	}
	return p
}

func (s *ProductService) checkCategory(ctx context.Context, storeID, categoryID string) error {
	if _, err := s.categories.GetByID(ctx, storeID, categoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("category does not belong to this store", map[string]any{"categoryId": categoryID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// Create adds a product to the store.
func (s *ProductService) Create(ctx context.Context, storeID string, in ProductInput) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, storeID, in.CategoryID); err != nil {
		return nil, err
	}
	p := in.toDomain(storeID, "")
	if err := s.products.Create(ctx, p); err != nil {
		return nil, apperrors.MapError(err)
	}
	return p, nil
}

// Update replaces every editable field including images, options and gift prices.
func (s *ProductService) Update(ctx context.Context, storeID, id string, in ProductInput) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, storeID, in.CategoryID); err != nil {
		return nil, err
	}
	p := in.toDomain(storeID, id)
	if err := s.products.Update(ctx, p); err != nil {
		return nil, notFoundAs(err, "product")
	}
	return p, nil
}

// Get returns one product.
func (s *ProductService) Get(ctx context.Context, storeID, id string) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, storeID, id)
	if err != nil {
		return nil, notFoundAs(err, "product")
	}
	return p, nil
}

// List returns the store's products matching filter, newest first.
func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	out, err := s.products.List(ctx, filter)
	return out, apperrors.MapError(err)
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, storeID, id string) error {
	return notFoundAs(s.products.Delete(ctx, storeID, id), "product")
}
