package paykeeper

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/shopspring/decimal"
)

// Notification is the form body PayKeeper posts after a payment.
type Notification struct {
	InvoiceID string `form:"id"`
	Sum       string `form:"sum"`
	ClientID  string `form:"clientid"`
	OrderID   string `form:"orderid"`
	Key       string `form:"key"`
}

// Missing lists required fields that are empty. clientid may be blank.
func (n Notification) Missing() []string {
	fields := [...]struct{ name, value string }{
		{"id", n.InvoiceID},
		{"sum", n.Sum},
		{"orderid", n.OrderID},
		{"key", n.Key},
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Amount parses the notified sum.
func (n Notification) Amount() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(n.Sum))
}

// Checksum computes the hex MD5 signature PayKeeper attaches as "key":
// md5(invoiceID + amount with two decimals + clientID + orderID + secret).
func Checksum(invoiceID string, amount decimal.Decimal, clientID, orderID, secret string) string {
	sum := md5.Sum([]byte(invoiceID + amount.StringFixed(2) + clientID + orderID + secret))
	return hex.EncodeToString(sum[:])
}

// VerifyKey compares the expected and received signatures byte for byte.
func VerifyKey(expected, received string) bool {
	return hmac.Equal([]byte(expected), []byte(received))
}
