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

// BillboardInput is the editable part of a billboard.
type BillboardInput struct {
	Label    string
	ImageURL string
}

// CategoryInput is the editable part of a category.
type CategoryInput struct {
	Name        string
	BillboardID string
	ImageURL    string
}

// AttributeInput is the editable part of a size or color.
type AttributeInput struct {
	Name  string
	Value string
}

// ReviewInput is the editable part of a review card.
type ReviewInput struct {
	Label    string
	ImageURL string
}

// CatalogService manages billboards, categories, sizes, colors and reviews.
type CatalogService struct {
	billboards repository.BillboardRepository
	categories repository.CategoryRepository
	attributes map[domain.AttributeKind]repository.AttributeRepository
	reviews    repository.ReviewRepository
}

// CatalogDependencies bundles repositories for the catalog service.
type CatalogDependencies struct {
	BillboardRepo repository.BillboardRepository
	CategoryRepo  repository.CategoryRepository
	SizeRepo      repository.AttributeRepository
	ColorRepo     repository.AttributeRepository
	ReviewRepo    repository.ReviewRepository
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	return &CatalogService{
		billboards: deps.BillboardRepo,
		categories: deps.CategoryRepo,
		attributes: map[domain.AttributeKind]repository.AttributeRepository{
			domain.AttributeSize:  deps.SizeRepo,
			domain.AttributeColor: deps.ColorRepo,
		},
		reviews: deps.ReviewRepo,
	}
}

func (in BillboardInput) validate() error {
	missing := requiredFields(map[string]string{"label": in.Label, "imageUrl": in.ImageURL})
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}
	return nil
}

// CreateBillboard adds a billboard to the store.
func (s *CatalogService) CreateBillboard(ctx context.Context, storeID string, in BillboardInput) (*domain.Billboard, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	b := &domain.Billboard{StoreID: storeID, Label: strings.TrimSpace(in.Label), ImageURL: strings.TrimSpace(in.ImageURL)}
	if err := s.billboards.Create(ctx, b); err != nil {
		return nil, apperrors.MapError(err)
	}
	return b, nil
}

// UpdateBillboard replaces label and image.
func (s *CatalogService) UpdateBillboard(ctx context.Context, storeID, id string, in BillboardInput) (*domain.Billboard, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	b := &domain.Billboard{ID: id, StoreID: storeID, Label: strings.TrimSpace(in.Label), ImageURL: strings.TrimSpace(in.ImageURL)}
	if err := s.billboards.Update(ctx, b); err != nil {
		return nil, notFoundAs(err, "billboard")
	}
	return b, nil
}

// GetBillboard returns one billboard.
func (s *CatalogService) GetBillboard(ctx context.Context, storeID, id string) (*domain.Billboard, error) {
	b, err := s.billboards.GetByID(ctx, storeID, id)
	if err != nil {
		return nil, notFoundAs(err, "billboard")
	}
	return b, nil
}

// ListBillboards returns the store's billboards, newest first.
func (s *CatalogService) ListBillboards(ctx context.Context, storeID string) ([]domain.Billboard, error) {
	out, err := s.billboards.ListByStore(ctx, storeID)
	return out, apperrors.MapError(err)
}

// DeleteBillboard removes a billboard.
func (s *CatalogService) DeleteBillboard(ctx context.Context, storeID, id string) error {
	return notFoundAs(s.billboards.Delete(ctx, storeID, id), "billboard")
}

func (s *CatalogService) validateCategory(ctx context.Context, storeID string, in CategoryInput) error {
	missing := requiredFields(map[string]string{"name": in.Name, "billboardId": in.BillboardID})
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}
	if _, err := s.billboards.GetByID(ctx, storeID, in.BillboardID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("billboard does not belong to store", map[string]any{"billboardId": in.BillboardID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// CreateCategory adds a category pointing at one of the store's billboards.
func (s *CatalogService) CreateCategory(ctx context.Context, storeID string, in CategoryInput) (*domain.Category, error) {
	if err := s.validateCategory(ctx, storeID, in); err != nil {
		return nil, err
	}
	c := &domain.Category{StoreID: storeID, BillboardID: in.BillboardID, Name: strings.TrimSpace(in.Name), ImageURL: strings.TrimSpace(in.ImageURL)}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, apperrors.MapError(err)
	}
	return c, nil
}

// UpdateCategory replaces a category.
func (s *CatalogService) UpdateCategory(ctx context.Context, storeID, id string, in CategoryInput) (*domain.Category, error) {
	if err := s.validateCategory(ctx, storeID, in); err != nil {
		return nil, err
	}
	c := &domain.Category{ID: id, StoreID: storeID, BillboardID: in.BillboardID, Name: strings.TrimSpace(in.Name), ImageURL: strings.TrimSpace(in.ImageURL)}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, notFoundAs(err, "category")
	}
	return c, nil
}

// GetCategory returns one category.
func (s *CatalogService) GetCategory(ctx context.Context, storeID, id string) (*domain.Category, error) {
	c, err := s.categories.GetByID(ctx, storeID, id)
	if err != nil {
		return nil, notFoundAs(err, "category")
	}
	return c, nil
}

// ListCategories returns the store's categories.
func (s *CatalogService) ListCategories(ctx context.Context, storeID string) ([]domain.Category, error) {
	out, err := s.categories.ListByStore(ctx, storeID)
	return out, apperrors.MapError(err)
}

// DeleteCategory removes a category.
func (s *CatalogService) DeleteCategory(ctx context.Context, storeID, id string) error {
	return notFoundAs(s.categories.Delete(ctx, storeID, id), "category")
}

func (s *CatalogService) attributeRepo(kind domain.AttributeKind) (repository.AttributeRepository, error) {
	repo, ok := s.attributes[kind]
	if !ok || repo == nil {
		return nil, apperrors.NewValidationError("unknown attribute kind", map[string]any{"kind": kind})
	}
	return repo, nil
}

// CreateAttribute adds a size or color.
func (s *CatalogService) CreateAttribute(ctx context.Context, kind domain.AttributeKind, storeID string, in AttributeInput) (*domain.Attribute, error) {
	repo, err := s.attributeRepo(kind)
	if err != nil {
		return nil, err
	}
	if missing := requiredFields(map[string]string{"name": in.Name, "value": in.Value}); len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}
	a := &domain.Attribute{StoreID: storeID, Kind: kind, Name: strings.TrimSpace(in.Name), Value: strings.TrimSpace(in.Value)}
	if err := repo.Create(ctx, a); err != nil {
		return nil, apperrors.MapError(err)
	}
	return a, nil
}

// UpdateAttribute replaces a size or color.
func (s *CatalogService) UpdateAttribute(ctx context.Context, kind domain.AttributeKind, storeID, id string, in AttributeInput) (*domain.Attribute, error) {
	repo, err := s.attributeRepo(kind)
	if err != nil {
		return nil, err
	}
	if missing := requiredFields(map[string]string{"name": in.Name, "value": in.Value}); len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}
	a := &domain.Attribute{ID: id, StoreID: storeID, Kind: kind, Name: strings.TrimSpace(in.Name), Value: strings.TrimSpace(in.Value)}
	if err := repo.Update(ctx, a); err != nil {
		return nil, notFoundAs(err, string(kind))
	}
	return a, nil
}

// GetAttribute returns one size or color.
func (s *CatalogService) GetAttribute(ctx context.Context, kind domain.AttributeKind, storeID, id string) (*domain.Attribute, error) {
	repo, err := s.attributeRepo(kind)
	if err != nil {
		return nil, err
	}
	a, err := repo.GetByID(ctx, storeID, id)
	if err != nil {
		return nil, notFoundAs(err, string(kind))
	}
	return a, nil
}

// ListAttributes returns the store's sizes or colors.
func (s *CatalogService) ListAttributes(ctx context.Context, kind domain.AttributeKind, storeID string) ([]domain.Attribute, error) {
	repo, err := s.attributeRepo(kind)
	if err != nil {
		return nil, err
	}
	out, err := repo.ListByStore(ctx, storeID)
	return out, apperrors.MapError(err)
}

// DeleteAttribute removes a size or color.
func (s *CatalogService) DeleteAttribute(ctx context.Context, kind domain.AttributeKind, storeID, id string) error {
	repo, err := s.attributeRepo(kind)
	if err != nil {
		return err
	}
	return notFoundAs(repo.Delete(ctx, storeID, id), string(kind))
}

// CreateReview adds a review card.
func (s *CatalogService) CreateReview(ctx context.Context, storeID string, in ReviewInput) (*domain.Review, error) {
	if missing := requiredFields(map[string]string{"label": in.Label, "imageUrl": in.ImageURL}); len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}
	r := &domain.Review{StoreID: storeID, Label: strings.TrimSpace(in.Label), ImageURL: strings.TrimSpace(in.ImageURL)}
	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, apperrors.MapError(err)
	}
	return r, nil
}

// UpdateReview replaces a review card.
func (s *CatalogService) UpdateReview(ctx context.Context, storeID, id string, in ReviewInput) (*domain.Review, error) {
	if missing := requiredFields(map[string]string{"label": in.Label, "imageUrl": in.ImageURL}); len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}
	r := &domain.Review{ID: id, StoreID: storeID, Label: strings.TrimSpace(in.Label), ImageURL: strings.TrimSpace(in.ImageURL)}
	if err := s.reviews.Update(ctx, r); err != nil {
		return nil, notFoundAs(err, "review")
	}
	return r, nil
}

// GetReview returns one review card.
func (s *CatalogService) GetReview(ctx context.Context, storeID, id string) (*domain.Review, error) {
	r, err := s.reviews.GetByID(ctx, storeID, id)
	if err != nil {
		return nil, notFoundAs(err, "review")
	}
	return r, nil
}

// ListReviews returns the store's review cards.
func (s *CatalogService) ListReviews(ctx context.Context, storeID string) ([]domain.Review, error) {
	out, err := s.reviews.ListByStore(ctx, storeID)
	return out, apperrors.MapError(err)
}

// DeleteReview removes a review card.
func (s *CatalogService) DeleteReview(ctx context.Context, storeID, id string) error {
	return notFoundAs(s.reviews.Delete(ctx, storeID, id), "review")
}
