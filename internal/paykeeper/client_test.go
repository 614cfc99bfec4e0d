package paykeeper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientPaymentInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "shop" || pass != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "/info/payments/byid/", r.URL.Path)
		switch r.URL.Query().Get("id") {
		case "42":
			_, _ = w.Write([]byte(`[{"id":"42","pay_amount":"100.50","status":"success","orderid":"o9"}]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "shop", "pw", time.Second)

	info, err := client.PaymentInfo(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "100.50", info.PayAmount.StringFixed(2))
	assert.Equal(t, "o9", info.OrderID)

	_, err = client.PaymentInfo(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNoPayment)

	_, err = NewClient(srv.URL, "shop", "wrong", time.Second).PaymentInfo(context.Background(), "42")
	assert.Error(t, err)
}
