package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/store-admin/internal/paykeeper"
	"github.com/spec-kit/store-admin/internal/service"
)

// WebhookProcessor settles a verified gateway notification.
type WebhookProcessor interface {
	HandleWebhook(ctx context.Context, storeID string, n paykeeper.Notification) service.WebhookResult
}

// PayKeeperHandler receives payment notifications. Replies are plain text
// because the gateway matches on the "OK <hash>" body.
type PayKeeperHandler struct {
	payments WebhookProcessor
}

// NewPayKeeperHandler constructs handler.
func NewPayKeeperHandler(payments WebhookProcessor) *PayKeeperHandler {
	return &PayKeeperHandler{payments: payments}
}

// Webhook POST /api/:storeId/paykeeper/webhook.
func (h *PayKeeperHandler) Webhook(c *fiber.Ctx) error {
	var n paykeeper.Notification
	// An unparsable body leaves the fields empty and is rejected as a bad request.
	_ = c.BodyParser(&n)

	res := h.payments.HandleWebhook(c.UserContext(), strings.Clone(c.Params("storeId")), n)
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(res.Status).SendString(res.Body)
}
