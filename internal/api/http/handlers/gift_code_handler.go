package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/store-admin/internal/api/dto"
	"github.com/spec-kit/store-admin/internal/domain"
	"github.com/spec-kit/store-admin/internal/service"
)

// GiftCodeHandler issues and lists gift codes.
type GiftCodeHandler struct {
	codes *service.GiftCodeService
}

// NewGiftCodeHandler constructs handler.
func NewGiftCodeHandler(codes *service.GiftCodeService) *GiftCodeHandler {
	return &GiftCodeHandler{codes: codes}
}

func giftCodeResponse(g *domain.GiftCode) dto.GiftCodeResponse {
	return dto.GiftCodeResponse{
		ID:        g.ID,
		StoreID:   g.StoreID,
		Code:      g.Code,
		Amount:    g.Amount,
		IsActive:  g.IsActive,
		ExpiresAt: g.ExpiresAt,
		CreatedAt: g.CreatedAt,
	}
}

// Purchase POST /api/:storeId/gift-codes/purchase. Repeating the call for the
// same order item returns the code issued the first time.
func (h *GiftCodeHandler) Purchase(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	var req dto.GiftCodePurchaseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	code, created, err := h.codes.Purchase(c.UserContext(), store, service.PurchaseInput{
		Amount:      req.Amount,
		OrderItemID: req.OrderItemID,
		CustomerID:  req.CustomerID,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		return err
	}
	if !created {
		return c.JSON(fiber.Map{"message": "Gift code already purchased", "giftCode": giftCodeResponse(code)})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Gift code purchased", "giftCode": giftCodeResponse(code)})
}

// List GET /api/:storeId/gift-codes.
func (h *GiftCodeHandler) List(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	list, err := h.codes.List(c.UserContext(), store)
	if err != nil {
		return err
	}
	items := make([]dto.GiftCodeResponse, 0, len(list))
	for i := range list {
		items = append(items, giftCodeResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Delete DELETE /api/:storeId/gift-codes/:giftCodeId.
func (h *GiftCodeHandler) Delete(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "giftCodeId")
	if err != nil {
		return err
	}
	if err := h.codes.Delete(c.UserContext(), store, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
