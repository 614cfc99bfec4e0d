package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/store-admin/internal/api/dto"
	"github.com/spec-kit/store-admin/internal/auth"
	"github.com/spec-kit/store-admin/internal/domain"
	"github.com/spec-kit/store-admin/internal/service"
	apperrors "github.com/spec-kit/store-admin/pkg/util"
)

// StoreHandler manages the stores an admin owns.
type StoreHandler struct {
	stores *service.StoreService
}

// NewStoreHandler constructs handler.
func NewStoreHandler(stores *service.StoreService) *StoreHandler {
	return &StoreHandler{stores: stores}
}

func storeResponse(s *domain.Store) dto.StoreResponse {
	return dto.StoreResponse{ID: s.ID, Name: s.Name, OwnerID: s.OwnerID, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt}
}

// Create POST /api/stores.
func (h *StoreHandler) Create(c *fiber.Ctx) error {
	owner, err := adminID(c)
	if err != nil {
		return err
	}
	var req dto.StoreRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	store, err := h.stores.Create(c.UserContext(), owner, req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": storeResponse(store)})
}

// List GET /api/stores.
func (h *StoreHandler) List(c *fiber.Ctx) error {
	owner, err := adminID(c)
	if err != nil {
		return err
	}
	stores, err := h.stores.ListOwned(c.UserContext(), owner)
	if err != nil {
		return err
	}
	items := make([]dto.StoreResponse, 0, len(stores))
	for i := range stores {
		items = append(items, storeResponse(&stores[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/stores/:storeId.
func (h *StoreHandler) Get(c *fiber.Ctx) error {
	store, ok := auth.StoreFromContext(c)
	if !ok {
		return apperrors.NewForbidden("store access denied")
	}
	return c.JSON(fiber.Map{"data": storeResponse(store)})
}

// Update PATCH /api/stores/:storeId.
func (h *StoreHandler) Update(c *fiber.Ctx) error {
	store, ok := auth.StoreFromContext(c)
	if !ok {
		return apperrors.NewForbidden("store access denied")
	}
	var req dto.StoreRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	updated, err := h.stores.Rename(c.UserContext(), store, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": storeResponse(updated)})
}

// Delete DELETE /api/stores/:storeId.
func (h *StoreHandler) Delete(c *fiber.Ctx) error {
	store, ok := auth.StoreFromContext(c)
	if !ok {
		return apperrors.NewForbidden("store access denied")
	}
	if err := h.stores.Delete(c.UserContext(), store.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
