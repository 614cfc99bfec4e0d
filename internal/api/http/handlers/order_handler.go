package handlers

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/spec-kit/store-admin/internal/api/dto"
	"github.com/spec-kit/store-admin/internal/domain"
	"github.com/spec-kit/store-admin/internal/events"
	"github.com/spec-kit/store-admin/internal/service"
)

// StreamHub registers live order streams.
type StreamHub interface {
	Subscribe(storeID string) *events.Subscription
	Unsubscribe(sub *events.Subscription)
}

// OrderHandler serves checkout, order management and the live order stream.
type OrderHandler struct {
	orders    *service.OrderService
	hub       StreamHub
	heartbeat time.Duration
	logger    *zap.Logger
}

// NewOrderHandler constructs handler.
func NewOrderHandler(orders *service.OrderService, hub StreamHub, heartbeat time.Duration, logger *zap.Logger) *OrderHandler {
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderHandler{orders: orders, hub: hub, heartbeat: heartbeat, logger: logger}
}

func orderResponse(o *domain.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:             it.ID,
			ProductID:      it.ProductID,
			SizeID:         it.SizeID,
			ColorID:        it.ColorID,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			GiftCardAmount: it.GiftCardAmount,
		})
	}
	return dto.OrderResponse{
		ID:         o.ID,
		StoreID:    o.StoreID,
		CustomerID: o.CustomerID,
		Phone:      o.Phone,
		Address:    o.Address,
		IsPaid:     o.IsPaid,
		TotalPrice: o.TotalPrice,
		Items:      items,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

// Create POST /api/:storeId/orders (storefront checkout).
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	var req dto.OrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := service.OrderInput{
		CustomerID: req.CustomerID,
		Phone:      req.Phone,
		Address:    req.Address,
		Items:      make([]service.OrderItemInput, 0, len(req.Items)),
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, service.OrderItemInput{
			ProductID:      it.ProductID,
			SizeID:         it.SizeID,
			ColorID:        it.ColorID,
			Quantity:       it.Quantity,
			GiftCardAmount: it.GiftCardAmount,
		})
	}

	order, err := h.orders.Create(c.UserContext(), store, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": orderResponse(order)})
}

// List GET /api/:storeId/orders.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	orders, err := h.orders.List(c.UserContext(), store)
	if err != nil {
		return err
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, orderResponse(&orders[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/:storeId/orders/:orderId.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "orderId")
	if err != nil {
		return err
	}
	order, err := h.orders.Get(c.UserContext(), store, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponse(order)})
}

// Delete DELETE /api/:storeId/orders/:orderId.
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "orderId")
	if err != nil {
		return err
	}
	if err := h.orders.Delete(c.UserContext(), store, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stream GET /api/:storeId/orders/stream. Each created order of the store is
// written as one server-sent event. The stream ends when a write fails or the
// hub closes the subscription.
func (h *OrderHandler) Stream(c *fiber.Ctx) error {
	store, err := storeID(c)
	if err != nil {
		return err
	}
	// fiber reuses the request buffers once the handler returns.
	store = strings.Clone(store)

	sub := h.hub.Subscribe(store)
	log := h.logger.With(zap.String("store_id", store), zap.String("subscription_id", sub.ID))

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	heartbeat := h.heartbeat
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer h.hub.Unsubscribe(sub)

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		// An initial comment makes the response headers reach the client right away.
		if _, err := w.WriteString(": connected\n\n"); err != nil || w.Flush() != nil {
			return
		}
		for {
			select {
			case <-sub.Done():
				drain(w, sub)
				return
			case payload := <-sub.Events():
				if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					log.Debug("order stream closed by client", zap.Error(err))
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					log.Debug("order stream closed by client", zap.Error(err))
					return
				}
			}
		}
	}))
	return nil
}

// drain writes the events already queued for a closed subscription.
func drain(w *bufio.Writer, sub *events.Subscription) {
	for {
		select {
		case payload := <-sub.Events():
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
		default:
			_ = w.Flush()
			return
		}
	}
}
