package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/store-admin/internal/api/dto"
	"github.com/spec-kit/store-admin/internal/domain"
	"github.com/spec-kit/store-admin/internal/service"
)

// CatalogHandler serves billboards, categories, sizes, colors and reviews.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func billboardResponse(b *domain.Billboard) dto.BillboardResponse {
	return dto.BillboardResponse{
		ID:        b.ID,
		StoreID:   b.StoreID,
		Label:     b.Label,
		ImageURL:  b.ImageURL,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func categoryResponse(cat *domain.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          cat.ID,
		StoreID:     cat.StoreID,
		BillboardID: cat.BillboardID,
		Name:        cat.Name,
		ImageURL:    cat.ImageURL,
		CreatedAt:   cat.CreatedAt,
		UpdatedAt:   cat.UpdatedAt,
	}
}

func attributeResponse(a *domain.Attribute) dto.AttributeResponse {
	return dto.AttributeResponse{
		ID:        a.ID,
		StoreID:   a.StoreID,
		Name:      a.Name,
		Value:     a.Value,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func reviewResponse(r *domain.Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:        r.ID,
		StoreID:   r.StoreID,
		Label:     r.Label,
		ImageURL:  r.ImageURL,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// CreateBillboard POST /api/:storeId/billboards.
func (h *CatalogHandler) CreateBillboard(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	var req dto.BillboardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	b, err := h.catalog.CreateBillboard(c.UserContext(), store, service.BillboardInput{Label: req.Label, ImageURL: req.ImageURL})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": billboardResponse(b)})
}

// UpdateBillboard PATCH /api/:storeId/billboards/:billboardId.
func (h *CatalogHandler) UpdateBillboard(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "billboardId")
	if err != nil {
		return err
	}
	var req dto.BillboardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	b, err := h.catalog.UpdateBillboard(c.UserContext(), store, id, service.BillboardInput{Label: req.Label, ImageURL: req.ImageURL})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": billboardResponse(b)})
}

// GetBillboard GET /api/:storeId/billboards/:billboardId.
func (h *CatalogHandler) GetBillboard(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "billboardId")
	if err != nil {
		return err
	}
	b, err := h.catalog.GetBillboard(c.UserContext(), store, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": billboardResponse(b)})
}

// ListBillboards GET /api/:storeId/billboards.
func (h *CatalogHandler) ListBillboards(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	list, err := h.catalog.ListBillboards(c.UserContext(), store)
	if err != nil {
		return err
	}
	items := make([]dto.BillboardResponse, 0, len(list))
	for i := range list {
		items = append(items, billboardResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteBillboard DELETE /api/:storeId/billboards/:billboardId.
func (h *CatalogHandler) DeleteBillboard(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "billboardId")
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteBillboard(c.UserContext(), store, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func categoryInput(req dto.CategoryRequest) service.CategoryInput {
	return service.CategoryInput{Name: req.Name, BillboardID: req.BillboardID, ImageURL: req.ImageURL}
}

// CreateCategory POST /api/:storeId/categories.
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cat, err := h.catalog.CreateCategory(c.UserContext(), store, categoryInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": categoryResponse(cat)})
}

// UpdateCategory PATCH /api/:storeId/categories/:categoryId.
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "categoryId")
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cat, err := h.catalog.UpdateCategory(c.UserContext(), store, id, categoryInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categoryResponse(cat)})
}

// GetCategory GET /api/:storeId/categories/:categoryId.
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "categoryId")
	if err != nil {
		return err
	}
	cat, err := h.catalog.GetCategory(c.UserContext(), store, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categoryResponse(cat)})
}

// ListCategories GET /api/:storeId/categories.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	list, err := h.catalog.ListCategories(c.UserContext(), store)
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for i := range list {
		items = append(items, categoryResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteCategory DELETE /api/:storeId/categories/:categoryId.
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "categoryId")
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteCategory(c.UserContext(), store, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AttributeRoutes returns the handlers for one option kind; sizes and colors
// share the same shape under different paths and id parameters.
func (h *CatalogHandler) AttributeRoutes(kind domain.AttributeKind, idParam string) AttributeRoutes {
	return AttributeRoutes{catalog: h.catalog, kind: kind, idParam: idParam}
}

// AttributeRoutes serves one product option kind.
type AttributeRoutes struct {
	catalog *service.CatalogService
	kind    domain.AttributeKind
	idParam string
}

// Create POST /api/:storeId/{sizes|colors}.
func (r AttributeRoutes) Create(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	var req dto.AttributeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	a, err := r.catalog.CreateAttribute(c.UserContext(), r.kind, store, service.AttributeInput{Name: req.Name, Value: req.Value})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": attributeResponse(a)})
}

// Update PATCH /api/:storeId/{sizes|colors}/:id.
func (r AttributeRoutes) Update(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, r.idParam)
	if err != nil {
		return err
	}
	var req dto.AttributeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	a, err := r.catalog.UpdateAttribute(c.UserContext(), r.kind, store, id, service.AttributeInput{Name: req.Name, Value: req.Value})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": attributeResponse(a)})
}

// Get GET /api/:storeId/{sizes|colors}/:id.
func (r AttributeRoutes) Get(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, r.idParam)
	if err != nil {
		return err
	}
	a, err := r.catalog.GetAttribute(c.UserContext(), r.kind, store, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": attributeResponse(a)})
}

// List GET /api/:storeId/{sizes|colors}.
func (r AttributeRoutes) List(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	list, err := r.catalog.ListAttributes(c.UserContext(), r.kind, store)
	if err != nil {
		return err
	}
	items := make([]dto.AttributeResponse, 0, len(list))
	for i := range list {
		items = append(items, attributeResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Delete DELETE /api/:storeId/{sizes|colors}/:id.
func (r AttributeRoutes) Delete(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, r.idParam)
	if err != nil {
		return err
	}
	if err := r.catalog.DeleteAttribute(c.UserContext(), r.kind, store, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateReview POST /api/:storeId/reviews.
func (h *CatalogHandler) CreateReview(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	r, err := h.catalog.CreateReview(c.UserContext(), store, service.ReviewInput{Label: req.Label, ImageURL: req.ImageURL})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": reviewResponse(r)})
}

// UpdateReview PATCH /api/:storeId/reviews/:reviewId.
func (h *CatalogHandler) UpdateReview(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "reviewId")
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	r, err := h.catalog.UpdateReview(c.UserContext(), store, id, service.ReviewInput{Label: req.Label, ImageURL: req.ImageURL})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reviewResponse(r)})
}

// GetReview GET /api/:storeId/reviews/:reviewId.
func (h *CatalogHandler) GetReview(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "reviewId")
	if err != nil {
		return err
	}
	r, err := h.catalog.GetReview(c.UserContext(), store, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reviewResponse(r)})
}

// ListReviews GET /api/:storeId/reviews.
func (h *CatalogHandler) ListReviews(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	list, err := h.catalog.ListReviews(c.UserContext(), store)
	if err != nil {
		return err
	}
	items := make([]dto.ReviewResponse, 0, len(list))
	for i := range list {
		items = append(items, reviewResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteReview DELETE /api/:storeId/reviews/:reviewId.
func (h *CatalogHandler) DeleteReview(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "reviewId")
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteReview(c.UserContext(), store, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
