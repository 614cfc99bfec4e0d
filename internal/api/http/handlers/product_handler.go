package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/store-admin/internal/api/dto"
	"github.com/spec-kit/store-admin/internal/domain"
	"github.com/spec-kit/store-admin/internal/repository"
	"github.com/spec-kit/store-admin/internal/service"
	apperrors "github.com/spec-kit/store-admin/pkg/util"
)

// ProductHandler serves the product catalog.
type ProductHandler struct {
	products *service.ProductService
}

// NewProductHandler constructs handler.
func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

func productInput(req dto.ProductRequest) service.ProductInput {
	images := make([]string, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, img.URL)
	}
	prices := make([]int64, 0, len(req.GiftPrices))
	for _, p := range req.GiftPrices {
		prices = append(prices, p.Value)
	}
	return service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		SizeIDs:     req.SizeIDs,
		ColorIDs:    req.ColorIDs,
		Images:      images,
		IsFeatured:  req.IsFeatured,
		IsArchived:  req.IsArchived,
		IsGiftCard:  req.IsGiftCard,
		GiftPrices:  prices,
	}
}

func productResponse(p *domain.Product) dto.ProductResponse {
	images := make([]dto.ImageResponse, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, dto.ImageResponse{ID: img.ID, URL: img.URL})
	}
	resp := dto.ProductResponse{
		ID:          p.ID,
		StoreID:     p.StoreID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		IsFeatured:  p.IsFeatured,
		IsArchived:  p.IsArchived,
		IsGiftCard:  p.IsGiftCard,
		Images:      images,
		SizeIDs:     p.SizeIDs,
		ColorIDs:    p.ColorIDs,
		GiftPrices:  p.GiftPrices,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if resp.SizeIDs == nil {
		resp.SizeIDs = []string{}
	}
	if resp.ColorIDs == nil {
		resp.ColorIDs = []string{}
	}
	if resp.GiftPrices == nil {
		resp.GiftPrices = []int64{}
	}
	return resp
}

// Create POST /api/:storeId/products.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	var req dto.ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	product, err := h.products.Create(c.UserContext(), store, productInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": productResponse(product)})
}

// Update PATCH /api/:storeId/products/:productId.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "productId")
	if err != nil {
		return err
	}
	var req dto.ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	product, err := h.products.Update(c.UserContext(), store, id, productInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(product)})
}

// Get GET /api/:storeId/products/:productId.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "productId")
	if err != nil {
		return err
	}
	product, err := h.products.Get(c.UserContext(), store, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(product)})
}

// List GET /api/:storeId/products with storefront filters. Archived products are hidden.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	var q dto.ProductListQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	if err := validateStruct(&q); err != nil {
		return err
	}

	filter := repository.ProductFilter{StoreID: store}
	if q.CategoryID != "" {
		filter.CategoryID = &q.CategoryID
	}
	if q.SizeID != "" {
		filter.SizeID = &q.SizeID
	}
	if q.ColorID != "" {
		filter.ColorID = &q.ColorID
	}
	if q.IsFeatured != "" {
		featured := q.IsFeatured == "true"
		filter.IsFeatured = &featured
	}

	products, err := h.products.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, productResponse(&products[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Delete DELETE /api/:storeId/products/:productId.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "productId")
	if err != nil {
		return err
	}
	if err := h.products.Delete(c.UserContext(), store, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
