package paykeeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var ErrNoPayment = errors.New("paykeeper: payment not found")

// PaymentInfo is the subset of /info/payments/byid the webhook relies on.
type PaymentInfo struct {
	ID        string          `json:"id"`
	PayAmount decimal.Decimal `json:"pay_amount"`
	Status    string          `json:"status"`
	OrderID   string          `json:"orderid"`
}

// Gateway looks payments up on the PayKeeper server.
type Gateway interface {
	PaymentInfo(ctx context.Context, invoiceID string) (*PaymentInfo, error)
}

// Client talks to the PayKeeper REST API with basic auth.
type Client struct {
	baseURL  string
	user     string
	password string
	timeout  time.Duration
}

// NewClient builds a client for baseURL such as https://shop.server.paykeeper.ru.
func NewClient(baseURL, user, password string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{baseURL: baseURL, user: user, password: password, timeout: timeout}
}

// PaymentInfo fetches the payment record for an invoice.
func (c *Client) PaymentInfo(ctx context.Context, invoiceID string) (*PaymentInfo, error) {
	if c.baseURL == "" {
		return nil, errors.New("paykeeper: base url not configured")
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	agent := fiber.Get(c.baseURL + "/info/payments/byid/?id=" + url.QueryEscape(invoiceID))
	agent.BasicAuth(c.user, c.password)
	agent.Timeout(timeout)
	if err := agent.Parse(); err != nil {
		return nil, fmt.Errorf("paykeeper request: %w", err)
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("paykeeper request: %w", errors.Join(errs...))
	}
	if status != fiber.StatusOK {
		return nil, fmt.Errorf("paykeeper request: unexpected status %d", status)
	}

	var payments []PaymentInfo
	if err := json.Unmarshal(body, &payments); err != nil {
		return nil, fmt.Errorf("paykeeper response: %w", err)
	}
	if len(payments) == 0 {
		return nil, ErrNoPayment
	}
	return &payments[0], nil
}
