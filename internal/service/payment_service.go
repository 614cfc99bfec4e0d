package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/store-admin/internal/domain"
	"github.com/spec-kit/store-admin/internal/events"
	"github.com/spec-kit/store-admin/internal/observability"
	"github.com/spec-kit/store-admin/internal/paykeeper"
	"github.com/spec-kit/store-admin/internal/repository"
)

// Webhook outcomes, also used as metric labels.
const (
	WebhookInvalid       = "invalid"
	WebhookMisconfigured = "misconfigured"
	WebhookRejected      = "rejected"
	WebhookNotFound      = "not_found"
	WebhookDuplicate     = "duplicate"
	WebhookPending       = "pending"
	WebhookPaid          = "paid"
	WebhookFailed        = "failed"
)

const (
	giftCodeAttempts   = 3
	giftCodeRetryDelay = time.Second
)

// WebhookResult is the plain-text reply PayKeeper expects.
type WebhookResult struct {
	Status  int
	Body    string
	Outcome string
}

// GiftCodeIssuer creates a gift code for a paid order item.
type GiftCodeIssuer interface {
	Purchase(ctx context.Context, storeID string, in PurchaseInput) (*domain.GiftCode, bool, error)
}

// PaymentService settles orders from PayKeeper notifications.
type PaymentService struct {
	orders     repository.OrderRepository
	gateway    paykeeper.Gateway
	giftCodes  GiftCodeIssuer
	dispatcher events.Dispatcher
	secret     string
	metrics    *observability.Metrics
	logger     *zap.Logger
	retryDelay time.Duration
}

// PaymentDependencies bundles collaborators for the payment service.
type PaymentDependencies struct {
	OrderRepo  repository.OrderRepository
	Gateway    paykeeper.Gateway
	GiftCodes  GiftCodeIssuer
	Dispatcher events.Dispatcher
	Secret     string
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	// RetryDelay separates gift code attempts; zero means one second.
	RetryDelay time.Duration
}

// NewPaymentService constructs the service.
func NewPaymentService(deps PaymentDependencies) *PaymentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	delay := deps.RetryDelay
	if delay <= 0 {
		delay = giftCodeRetryDelay
	}
	return &PaymentService{
		orders:     deps.OrderRepo,
		gateway:    deps.Gateway,
		giftCodes:  deps.GiftCodes,
		dispatcher: deps.Dispatcher,
		secret:     deps.Secret,
		metrics:    deps.Metrics,
		logger:     logger.Named("paykeeper"),
		retryDelay: delay,
	}
}

func (s *PaymentService) reply(status int, body, outcome string) WebhookResult {
	s.metrics.RecordWebhook(outcome)
	return WebhookResult{Status: status, Body: body, Outcome: outcome}
}

// HandleWebhook verifies a notification and marks the order paid once the
// gateway confirms the full amount. Redelivery of the same notification is safe.
func (s *PaymentService) HandleWebhook(ctx context.Context, storeID string, n paykeeper.Notification) WebhookResult {
	if missing := n.Missing(); len(missing) > 0 {
		s.logger.Warn("webhook missing fields", zap.Strings("fields", missing))
		return s.reply(http.StatusBadRequest, "Bad request", WebhookInvalid)
	}
	amount, err := n.Amount()
	if err != nil {
		s.logger.Warn("webhook sum is not a number", zap.String("sum", n.Sum))
		return s.reply(http.StatusBadRequest, "Bad request", WebhookInvalid)
	}
	if s.secret == "" {
		s.logger.Error("PAYKEEPER_SECRET not set")
		return s.reply(http.StatusInternalServerError, "Server error", WebhookMisconfigured)
	}

	hash := paykeeper.Checksum(n.InvoiceID, amount, n.ClientID, n.OrderID, s.secret)
	if !paykeeper.VerifyKey(hash, n.Key) {
		s.logger.Warn("invalid key from paykeeper",
			zap.String("received", n.Key),
			zap.String("expected", hash),
			zap.String("order_id", n.OrderID))
		return s.reply(http.StatusUnauthorized, "Unauthorized", WebhookRejected)
	}
	ok := "OK " + hash

	log := s.logger.With(
		zap.String("store_id", storeID),
		zap.String("order_id", n.OrderID),
		zap.String("invoice_id", n.InvoiceID))
	log.Info("paykeeper webhook verified", zap.String("sum", amount.StringFixed(2)))

	order, err := s.findOrder(ctx, storeID, n.OrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Warn("order not found for webhook")
			return s.reply(http.StatusNotFound, "Order not found", WebhookNotFound)
		}
		log.Error("load order", zap.Error(err))
		return s.reply(http.StatusInternalServerError, "Server error", WebhookFailed)
	}
	if order.IsPaid {
		log.Info("order already paid")
		return s.reply(http.StatusOK, ok, WebhookDuplicate)
	}

	payment, err := s.gateway.PaymentInfo(ctx, n.InvoiceID)
	if err != nil {
		log.Error("fetch payment info", zap.Error(err))
		return s.reply(http.StatusInternalServerError, "Server error", WebhookFailed)
	}
	expected := decimal.New(order.TotalPrice, -2)
	if payment.PayAmount.LessThan(expected) {
		log.Info("payment not completed yet",
			zap.String("expected", expected.StringFixed(2)),
			zap.String("paid", payment.PayAmount.StringFixed(2)))
		return s.reply(http.StatusOK, ok, WebhookPending)
	}

	flipped, err := s.orders.MarkPaid(ctx, order.ID)
	if err != nil {
		log.Error("mark order paid", zap.Error(err))
		return s.reply(http.StatusInternalServerError, "Server error", WebhookFailed)
	}
	if !flipped {
		log.Info("order paid by a concurrent notification")
		return s.reply(http.StatusOK, ok, WebhookDuplicate)
	}
	order.IsPaid = true

	issued, failed := s.issueGiftCodes(ctx, order, log)
	log.Info("order marked as paid", zap.Int("gift_codes_issued", issued), zap.Strings("gift_code_failures", failed))

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:    events.EventOrderPaid,
			StoreID: order.StoreID,
			OrderID: order.ID,
			Payload: events.OrderPaidPayload{
				PaidAmount:      payment.PayAmount.StringFixed(2),
				InvoiceID:       n.InvoiceID,
				GiftCodesIssued: issued,
				FailedItems:     failed,
			},
		})
	}
	return s.reply(http.StatusOK, ok, WebhookPaid)
}

func (s *PaymentService) findOrder(ctx context.Context, storeID, orderID string) (*domain.Order, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, pgx.ErrNoRows
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.StoreID != storeID {
		return nil, pgx.ErrNoRows
	}
	return order, nil
}

// issueGiftCodes creates one code per gift-card line. A line that keeps failing is
// logged and skipped; the order stays paid.
func (s *PaymentService) issueGiftCodes(ctx context.Context, order *domain.Order, log *zap.Logger) (int, []string) {
	if s.giftCodes == nil {
		return 0, nil
	}
	var (
		issued int
		failed []string
	)
	for _, item := range order.GiftCardItems() {
		in := PurchaseInput{
			Amount:      *item.GiftCardAmount,
			OrderItemID: item.ID,
			CustomerID:  order.CustomerID,
		}
		if err := s.purchaseWithRetry(ctx, order.StoreID, in, log); err != nil {
			log.Error("gift code not issued", zap.String("order_item_id", item.ID), zap.Error(err))
			failed = append(failed, item.ID)
			continue
		}
		issued++
	}
	return issued, failed
}

func (s *PaymentService) purchaseWithRetry(ctx context.Context, storeID string, in PurchaseInput, log *zap.Logger) error {
	var err error
	for attempt := 1; attempt <= giftCodeAttempts; attempt++ {
		if _, _, err = s.giftCodes.Purchase(ctx, storeID, in); err == nil {
			return nil
		}
		log.Warn("gift code attempt failed",
			zap.String("order_item_id", in.OrderItemID),
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt == giftCodeAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.retryDelay):
		}
	}
	return err
}
