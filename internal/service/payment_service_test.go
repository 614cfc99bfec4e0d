package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/store-admin/internal/config"
	"github.com/spec-kit/store-admin/internal/domain"
	"github.com/spec-kit/store-admin/internal/events"
	"github.com/spec-kit/store-admin/internal/paykeeper"
)

const webhookSecret = "pk-secret"

func amountPtr(v int64) *int64 { return &v }

func paymentOrder(storeID string, total int64, items ...domain.OrderItem) *domain.Order {
	id := uuid.NewString()
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		items[i].OrderID = id
	}
	return &domain.Order{ID: id, StoreID: storeID, TotalPrice: total, Items: items}
}

func signedNotification(orderID, sum string) paykeeper.Notification {
	n := paykeeper.Notification{InvoiceID: "inv-77", Sum: sum, ClientID: "client", OrderID: orderID}
	amount, _ := n.Amount()
	n.Key = paykeeper.Checksum(n.InvoiceID, amount, n.ClientID, n.OrderID, webhookSecret)
	return n
}

type paymentFixture struct {
	orders     *memOrders
	codes      *memGiftCodes
	gateway    *stubGateway
	dispatcher *recordingDispatcher
	service    *PaymentService
}

func newPaymentFixture(t *testing.T, order *domain.Order, paid string, issuer GiftCodeIssuer) *paymentFixture {
	t.Helper()
	f := &paymentFixture{
		orders:     newMemOrders(order),
		codes:      newMemGiftCodes().withOrder(order),
		gateway:    &stubGateway{info: &paykeeper.PaymentInfo{PayAmount: decimal.RequireFromString(paid)}},
		dispatcher: &recordingDispatcher{},
	}
	if issuer == nil {
		issuer = NewGiftCodeService(f.codes, config.GiftCodeConfig{}, nil, nil)
	}
	f.service = NewPaymentService(PaymentDependencies{
		OrderRepo:  f.orders,
		Gateway:    f.gateway,
		GiftCodes:  issuer,
		Dispatcher: f.dispatcher,
		Secret:     webhookSecret,
		RetryDelay: time.Millisecond,
	})
	return f
}

func TestWebhookMarksOrderPaidAndIssuesGiftCodes(t *testing.T) {
	order := paymentOrder("store-1", 7500,
		domain.OrderItem{ProductID: "p1", Quantity: 1, UnitPrice: 2500},
		domain.OrderItem{ProductID: "gift", Quantity: 1, UnitPrice: 3000, GiftCardAmount: amountPtr(3000)},
		domain.OrderItem{ProductID: "gift", Quantity: 1, UnitPrice: 2000, GiftCardAmount: amountPtr(2000)},
	)
	f := newPaymentFixture(t, order, "75.00", nil)
	n := signedNotification(order.ID, "75")

	res := f.service.HandleWebhook(context.Background(), "store-1", n)

	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "OK "+n.Key, res.Body)
	assert.Equal(t, WebhookPaid, res.Outcome)
	assert.True(t, f.orders.isPaid(order.ID))
	assert.Equal(t, 2, f.codes.count())

	published := f.dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventOrderPaid, published[0].Type)
	payload, ok := published[0].Payload.(events.OrderPaidPayload)
	require.True(t, ok)
	assert.Equal(t, 2, payload.GiftCodesIssued)
	assert.Equal(t, "75.00", payload.PaidAmount)
}

func TestWebhookRedeliveryIsIdempotent(t *testing.T) {
	order := paymentOrder("store-1", 1000,
		domain.OrderItem{ProductID: "gift", Quantity: 1, UnitPrice: 1000, GiftCardAmount: amountPtr(1000)},
	)
	f := newPaymentFixture(t, order, "10.00", nil)
	n := signedNotification(order.ID, "10.00")

	first := f.service.HandleWebhook(context.Background(), "store-1", n)
	second := f.service.HandleWebhook(context.Background(), "store-1", n)

	assert.Equal(t, WebhookPaid, first.Outcome)
	assert.Equal(t, WebhookDuplicate, second.Outcome)
	assert.Equal(t, first.Body, second.Body)
	assert.Equal(t, 1, f.codes.count())
	assert.Equal(t, 1, f.gateway.calls)
	assert.Len(t, f.dispatcher.published(), 1)
}

func TestWebhookConcurrentDeliveriesIssueCodesOnce(t *testing.T) {
	order := paymentOrder("store-1", 1000,
		domain.OrderItem{ProductID: "gift", Quantity: 1, UnitPrice: 1000, GiftCardAmount: amountPtr(1000)},
	)
	f := newPaymentFixture(t, order, "10.00", nil)
	n := signedNotification(order.ID, "10.00")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes = map[string]int{}
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := f.service.HandleWebhook(context.Background(), "store-1", n)
			mu.Lock()
			outcomes[res.Outcome]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, outcomes[WebhookPaid])
	assert.Equal(t, 7, outcomes[WebhookDuplicate])
	assert.Equal(t, 1, f.codes.count())
}

func TestWebhookRejectsTamperedKey(t *testing.T) {
	order := paymentOrder("store-1", 1000)
	f := newPaymentFixture(t, order, "10.00", nil)
	n := signedNotification(order.ID, "10.00")
	n.Sum = "1.00"

	res := f.service.HandleWebhook(context.Background(), "store-1", n)

	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Equal(t, "Unauthorized", res.Body)
	assert.False(t, f.orders.isPaid(order.ID))
	assert.Zero(t, f.gateway.calls)
}

func TestWebhookRejectsMissingFieldsAndBadSum(t *testing.T) {
	order := paymentOrder("store-1", 1000)
	f := newPaymentFixture(t, order, "10.00", nil)

	res := f.service.HandleWebhook(context.Background(), "store-1", paykeeper.Notification{InvoiceID: "1"})
	assert.Equal(t, http.StatusBadRequest, res.Status)

	n := signedNotification(order.ID, "10.00")
	n.Sum = "ten"
	res = f.service.HandleWebhook(context.Background(), "store-1", n)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, WebhookInvalid, res.Outcome)
}

func TestWebhookWithoutSecretFails(t *testing.T) {
	order := paymentOrder("store-1", 1000)
	svc := NewPaymentService(PaymentDependencies{OrderRepo: newMemOrders(order), Gateway: &stubGateway{}})

	res := svc.HandleWebhook(context.Background(), "store-1", signedNotification(order.ID, "10.00"))

	assert.Equal(t, http.StatusInternalServerError, res.Status)
	assert.Equal(t, "Server error", res.Body)
	assert.Equal(t, WebhookMisconfigured, res.Outcome)
}

func TestWebhookUnknownOrder(t *testing.T) {
	order := paymentOrder("store-1", 1000)
	f := newPaymentFixture(t, order, "10.00", nil)

	for name, tc := range map[string]struct{ store, orderID string }{
		"unknown id":    {"store-1", uuid.NewString()},
		"not a uuid":    {"store-1", "order-42"},
		"another store": {"store-2", order.ID},
	} {
		t.Run(name, func(t *testing.T) {
			res := f.service.HandleWebhook(context.Background(), tc.store, signedNotification(tc.orderID, "10.00"))
			assert.Equal(t, http.StatusNotFound, res.Status)
			assert.Equal(t, "Order not found", res.Body)
		})
	}
}

func TestWebhookUnderpaymentLeavesOrderPending(t *testing.T) {
	order := paymentOrder("store-1", 1999)
	f := newPaymentFixture(t, order, "19.98", nil)
	n := signedNotification(order.ID, "19.98")

	res := f.service.HandleWebhook(context.Background(), "store-1", n)

	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "OK "+n.Key, res.Body)
	assert.Equal(t, WebhookPending, res.Outcome)
	assert.False(t, f.orders.isPaid(order.ID))
	assert.Zero(t, f.orders.markPaid)
	assert.Empty(t, f.dispatcher.published())
}

func TestWebhookGatewayFailureIsSanitized(t *testing.T) {
	order := paymentOrder("store-1", 1000)
	f := newPaymentFixture(t, order, "10.00", nil)
	f.gateway.err = errors.New("dial tcp: connection refused")

	res := f.service.HandleWebhook(context.Background(), "store-1", signedNotification(order.ID, "10.00"))

	assert.Equal(t, http.StatusInternalServerError, res.Status)
	assert.Equal(t, "Server error", res.Body)
	assert.False(t, f.orders.isPaid(order.ID))
}

type flakyIssuer struct {
	mu       sync.Mutex
	failFor  map[string]bool
	attempts map[string]int
}

func (f *flakyIssuer) Purchase(_ context.Context, _ string, in PurchaseInput) (*domain.GiftCode, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[in.OrderItemID]++
	if f.failFor[in.OrderItemID] {
		return nil, false, errors.New("database unavailable")
	}
	return &domain.GiftCode{Code: "ABCDEFGH", Amount: in.Amount}, true, nil
}

func TestWebhookGiftCodeFailureDoesNotAbortPayment(t *testing.T) {
	broken := domain.OrderItem{ID: uuid.NewString(), ProductID: "gift", Quantity: 1, GiftCardAmount: amountPtr(500)}
	healthy := domain.OrderItem{ID: uuid.NewString(), ProductID: "gift", Quantity: 1, GiftCardAmount: amountPtr(500)}
	order := paymentOrder("store-1", 1000, broken, healthy)
	issuer := &flakyIssuer{failFor: map[string]bool{broken.ID: true}, attempts: map[string]int{}}
	f := newPaymentFixture(t, order, "10.00", issuer)

	res := f.service.HandleWebhook(context.Background(), "store-1", signedNotification(order.ID, "10.00"))

	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, WebhookPaid, res.Outcome)
	assert.True(t, f.orders.isPaid(order.ID))
	assert.Equal(t, 3, issuer.attempts[broken.ID])
	assert.Equal(t, 1, issuer.attempts[healthy.ID])

	published := f.dispatcher.published()
	require.Len(t, published, 1)
	payload := published[0].Payload.(events.OrderPaidPayload)
	assert.Equal(t, 1, payload.GiftCodesIssued)
	assert.Equal(t, []string{broken.ID}, payload.FailedItems)
}
